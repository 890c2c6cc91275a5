// Package recipe loads class recipes: YAML documents describing a class,
// its functions, and their bodies in a small node vocabulary. Recipes are
// the input format of the bromejvm command and of integration tests; the
// loader validates a document exhaustively, reporting every problem at
// once, and builds the backend IR for it.
package recipe

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/brome-lang/jvm/ir"
)

// Recipe is the top-level document: one class per recipe.
type Recipe struct {
	Class      string     `yaml:"class"`
	Super      string     `yaml:"super"`
	Interface  bool       `yaml:"interface"`
	SourceFile string     `yaml:"source_file"`
	Functions  []Function `yaml:"functions"`
}

// Function describes one method of the class. A function without a body
// becomes an abstract method.
type Function struct {
	Name       string `yaml:"name"`
	LinkName   string `yaml:"link_name"`
	Static     bool   `yaml:"static"`
	Descriptor string `yaml:"descriptor"`
	Body       []Node `yaml:"body"`
}

// Node is one IR node. Exactly one of the kind fields must be set; `type`
// qualifies the int and local kinds with a field descriptor.
type Node struct {
	Int         *int32       `yaml:"int"`
	Long        *int64       `yaml:"long"`
	Float       *float32     `yaml:"float"`
	Double      *float64     `yaml:"double"`
	String      *string      `yaml:"string"`
	Bool        *bool        `yaml:"bool"`
	Char        *string      `yaml:"char"`
	NullOf      *string      `yaml:"null_of"`
	Local       *int         `yaml:"local"`
	Type        string       `yaml:"type"`
	Binary      *Binary      `yaml:"binary"`
	Call        *Call        `yaml:"call"`
	DynamicCall *DynamicCall `yaml:"dynamic_call"`
	GetStatic   *Field       `yaml:"get_static"`
	Handle      *FunctionRef `yaml:"handle"`
	MethodType  *FunctionRef `yaml:"method_type"`
	Return      *Return      `yaml:"return"`
}

// Binary is an arithmetic expression over two operands of the same type.
type Binary struct {
	Op    string `yaml:"op"`
	Left  *Node  `yaml:"left"`
	Right *Node  `yaml:"right"`
}

// Call is an ordinary invocation of a named function.
type Call struct {
	Function *FunctionRef `yaml:"function"`
	Receiver *Node        `yaml:"receiver"`
	Args     []Node       `yaml:"args"`
}

// DynamicCall describes an invokedynamic call site: the dynamic name and
// descriptor, the bootstrap method, its static arguments, and the call
// arguments.
type DynamicCall struct {
	Name          string     `yaml:"name"`
	Descriptor    string     `yaml:"descriptor"`
	Bootstrap     *Bootstrap `yaml:"bootstrap"`
	BootstrapArgs []Node     `yaml:"bootstrap_args"`
	Args          []Node     `yaml:"args"`
}

// Bootstrap names the bootstrap method of a dynamic call site. Tag is a
// reference kind name (for example "invokestatic") or a number.
type Bootstrap struct {
	Tag        string `yaml:"tag"`
	Owner      string `yaml:"owner"`
	Name       string `yaml:"name"`
	Descriptor string `yaml:"descriptor"`
}

// Field names a static field.
type Field struct {
	Owner string `yaml:"owner"`
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
}

// FunctionRef names a function outside the recipe, as a call target or as
// the subject of a handle or method_type constant.
type FunctionRef struct {
	Owner       string `yaml:"owner"`
	Name        string `yaml:"name"`
	LinkName    string `yaml:"link_name"`
	Descriptor  string `yaml:"descriptor"`
	Static      bool   `yaml:"static"`
	InInterface bool   `yaml:"in_interface"`
}

// Return ends a function body, with an optional value.
type Return struct {
	Value *Node `yaml:"value"`
}

// Load reads a recipe document and builds the class it describes. Unknown
// YAML fields are rejected. Validation problems are accumulated and
// reported together.
func Load(r io.Reader) (*ir.Class, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var rec Recipe
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("parsing recipe: %w", err)
	}
	b := &builder{}
	class := b.class(&rec)
	if err := b.errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return class, nil
}

// LoadFile reads a recipe from the named file.
func LoadFile(path string) (*ir.Class, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	class, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return class, nil
}
