// Package sig models the low-level types the JVM backend works with and the
// descriptor strings that encode them in the class file format.
//
// A Type is a value; comparing two Types with Equal is cheap and descriptor
// formatting is deterministic, so Types can be used as map keys via their
// descriptors. The zero Type is void.
package sig

import (
	"fmt"
	"strings"
)

// Kind identifies the shape of a Type.
type Kind uint8

const (
	VoidKind Kind = iota
	BooleanKind
	CharKind
	ByteKind
	ShortKind
	IntKind
	LongKind
	FloatKind
	DoubleKind
	ObjectKind
	ArrayKind
)

// Type is a JVM-level type: a primitive, an object type identified by its
// internal name (e.g. "java/lang/String"), or an array type.
type Type struct {
	Kind Kind
	Name string // internal name, set only for ObjectKind
	Elem *Type  // element type, set only for ArrayKind
}

// Ready-made values for the primitive types and void.
var (
	Void    = Type{Kind: VoidKind}
	Boolean = Type{Kind: BooleanKind}
	Char    = Type{Kind: CharKind}
	Byte    = Type{Kind: ByteKind}
	Short   = Type{Kind: ShortKind}
	Int     = Type{Kind: IntKind}
	Long    = Type{Kind: LongKind}
	Float   = Type{Kind: FloatKind}
	Double  = Type{Kind: DoubleKind}
)

// Object returns the type for the given internal class or interface name.
func Object(internalName string) Type {
	return Type{Kind: ObjectKind, Name: internalName}
}

// ArrayOf returns the array type with the given element type.
func ArrayOf(elem Type) Type {
	return Type{Kind: ArrayKind, Elem: &elem}
}

// Descriptor returns the field descriptor for the type, e.g. "I" or
// "Ljava/lang/String;".
func (t Type) Descriptor() string {
	switch t.Kind {
	case VoidKind:
		return "V"
	case BooleanKind:
		return "Z"
	case CharKind:
		return "C"
	case ByteKind:
		return "B"
	case ShortKind:
		return "S"
	case IntKind:
		return "I"
	case LongKind:
		return "J"
	case FloatKind:
		return "F"
	case DoubleKind:
		return "D"
	case ObjectKind:
		return "L" + t.Name + ";"
	case ArrayKind:
		return "[" + t.Elem.Descriptor()
	default:
		return "?"
	}
}

// Internal returns the form used by class constants: the internal name for
// object types and the descriptor for array types.
func (t Type) Internal() string {
	if t.Kind == ArrayKind {
		return t.Descriptor()
	}
	return t.Name
}

// String returns a human readable form, e.g. "int" or "java/lang/String[]".
func (t Type) String() string {
	switch t.Kind {
	case VoidKind:
		return "void"
	case BooleanKind:
		return "boolean"
	case CharKind:
		return "char"
	case ByteKind:
		return "byte"
	case ShortKind:
		return "short"
	case IntKind:
		return "int"
	case LongKind:
		return "long"
	case FloatKind:
		return "float"
	case DoubleKind:
		return "double"
	case ObjectKind:
		return t.Name
	case ArrayKind:
		return t.Elem.String() + "[]"
	default:
		return "?"
	}
}

// Slots returns the number of operand stack or local variable slots a value
// of this type occupies: 0 for void, 2 for long and double, 1 otherwise.
func (t Type) Slots() int {
	switch t.Kind {
	case VoidKind:
		return 0
	case LongKind, DoubleKind:
		return 2
	default:
		return 1
	}
}

// Wide reports whether the type occupies two slots.
func (t Type) Wide() bool {
	return t.Kind == LongKind || t.Kind == DoubleKind
}

// IsReference reports whether the type is an object or array type.
func (t Type) IsReference() bool {
	return t.Kind == ObjectKind || t.Kind == ArrayKind
}

// IsVoid reports whether the type is void.
func (t Type) IsVoid() bool {
	return t.Kind == VoidKind
}

// Equal reports whether two types are structurally identical.
func (t Type) Equal(other Type) bool {
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case ObjectKind:
		return t.Name == other.Name
	case ArrayKind:
		return t.Elem.Equal(*other.Elem)
	default:
		return true
	}
}

// Method is a method signature: ordered parameter types plus a return type.
// The dispatch receiver, if any, is not part of the signature.
type Method struct {
	Params []Type
	Return Type
}

// MethodOf builds a Method from a return type and parameter types.
func MethodOf(ret Type, params ...Type) Method {
	return Method{Params: params, Return: ret}
}

// Descriptor returns the method descriptor, e.g. "(ILjava/lang/String;)V".
func (m Method) Descriptor() string {
	var b strings.Builder
	b.WriteByte('(')
	for _, p := range m.Params {
		b.WriteString(p.Descriptor())
	}
	b.WriteByte(')')
	b.WriteString(m.Return.Descriptor())
	return b.String()
}

// String returns the descriptor.
func (m Method) String() string {
	return m.Descriptor()
}

// ArgSlots returns the total number of stack slots occupied by the
// parameters.
func (m Method) ArgSlots() int {
	n := 0
	for _, p := range m.Params {
		n += p.Slots()
	}
	return n
}

// Equal reports whether two method signatures are structurally identical.
func (m Method) Equal(other Method) bool {
	if len(m.Params) != len(other.Params) || !m.Return.Equal(other.Return) {
		return false
	}
	for i, p := range m.Params {
		if !p.Equal(other.Params[i]) {
			return false
		}
	}
	return true
}

// ParseType parses a single field descriptor. The whole input must be
// consumed.
func ParseType(desc string) (Type, error) {
	p := &parser{input: desc}
	t, err := p.parseType()
	if err != nil {
		return Type{}, err
	}
	if p.pos != len(p.input) {
		return Type{}, p.errorf("trailing characters after type")
	}
	return t, nil
}

// ParseMethod parses a method descriptor such as "(ILjava/lang/String;)V".
func ParseMethod(desc string) (Method, error) {
	p := &parser{input: desc}
	if !p.consume('(') {
		return Method{}, p.errorf("expected '('")
	}
	var params []Type
	for !p.consume(')') {
		if p.pos >= len(p.input) {
			return Method{}, p.errorf("unterminated parameter list")
		}
		t, err := p.parseType()
		if err != nil {
			return Method{}, err
		}
		if t.IsVoid() {
			return Method{}, p.errorf("void parameter type")
		}
		params = append(params, t)
	}
	ret, err := p.parseType()
	if err != nil {
		return Method{}, err
	}
	if p.pos != len(p.input) {
		return Method{}, p.errorf("trailing characters after return type")
	}
	return Method{Params: params, Return: ret}, nil
}

type parser struct {
	input string
	pos   int
}

func (p *parser) errorf(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("invalid descriptor %q at offset %d: %s", p.input, p.pos, msg)
}

func (p *parser) consume(ch byte) bool {
	if p.pos < len(p.input) && p.input[p.pos] == ch {
		p.pos++
		return true
	}
	return false
}

func (p *parser) parseType() (Type, error) {
	if p.pos >= len(p.input) {
		return Type{}, p.errorf("unexpected end of descriptor")
	}
	ch := p.input[p.pos]
	p.pos++
	switch ch {
	case 'V':
		return Void, nil
	case 'Z':
		return Boolean, nil
	case 'C':
		return Char, nil
	case 'B':
		return Byte, nil
	case 'S':
		return Short, nil
	case 'I':
		return Int, nil
	case 'J':
		return Long, nil
	case 'F':
		return Float, nil
	case 'D':
		return Double, nil
	case 'L':
		start := p.pos
		for p.pos < len(p.input) && p.input[p.pos] != ';' {
			p.pos++
		}
		if p.pos >= len(p.input) {
			return Type{}, p.errorf("unterminated object type")
		}
		name := p.input[start:p.pos]
		p.pos++ // consume ';'
		if name == "" {
			return Type{}, p.errorf("empty object type name")
		}
		return Object(name), nil
	case '[':
		elem, err := p.parseType()
		if err != nil {
			return Type{}, err
		}
		if elem.IsVoid() {
			return Type{}, p.errorf("array of void")
		}
		return ArrayOf(elem), nil
	default:
		p.pos--
		return Type{}, p.errorf("unexpected character %q", ch)
	}
}
