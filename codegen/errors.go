package codegen

import (
	"fmt"
	"strings"

	"github.com/brome-lang/jvm/ir"
)

// InternalError reports IR that reached the code generator in a shape the
// earlier phases guarantee never to produce. It is a compiler bug, not a
// user error: generation of the enclosing class aborts and nothing is
// emitted for the offending node.
type InternalError struct {
	Message  string
	Function string  // "owner.name" of the function being generated, if known
	Node     ir.Node // the offending node, dumped structurally
}

// Error implements the error interface.
func (e *InternalError) Error() string {
	var b strings.Builder
	b.WriteString("internal error: ")
	b.WriteString(e.Message)
	if e.Function != "" {
		b.WriteString("\n\nfunction: ")
		b.WriteString(e.Function)
	}
	if e.Node != nil {
		b.WriteString("\n\nnode:\n")
		b.WriteString(ir.Dump(e.Node))
	}
	return b.String()
}

// internalf builds an InternalError for node with a formatted message.
func internalf(node ir.Node, format string, args ...any) *InternalError {
	return &InternalError{
		Message: fmt.Sprintf(format, args...),
		Node:    node,
	}
}
