package ir

import (
	"fmt"
	"strings"
)

// Dump returns a multi-line structural rendering of a node tree, with one
// node per line and children indented below their parent. It is used when
// reporting malformed IR, where the single-line String form hides the
// structure that went wrong.
func Dump(n Node) string {
	var b strings.Builder
	dumpNode(&b, n, 0)
	return strings.TrimRight(b.String(), "\n")
}

func dumpNode(b *strings.Builder, n Node, depth int) {
	indent := strings.Repeat("  ", depth)
	if n == nil {
		fmt.Fprintf(b, "%s<nil>\n", indent)
		return
	}
	switch x := n.(type) {
	case *IntConst:
		fmt.Fprintf(b, "%sIntConst %d of=%s\n", indent, x.Value, x.Of)
	case *LongConst:
		fmt.Fprintf(b, "%sLongConst %d\n", indent, x.Value)
	case *FloatConst:
		fmt.Fprintf(b, "%sFloatConst %s\n", indent, x)
	case *DoubleConst:
		fmt.Fprintf(b, "%sDoubleConst %s\n", indent, x)
	case *StringConst:
		fmt.Fprintf(b, "%sStringConst %s\n", indent, x)
	case *BoolConst:
		fmt.Fprintf(b, "%sBoolConst %t\n", indent, x.Value)
	case *CharConst:
		fmt.Fprintf(b, "%sCharConst %s\n", indent, x)
	case *NullConst:
		fmt.Fprintf(b, "%sNullConst of=%s\n", indent, x.Of)
	case *Local:
		fmt.Fprintf(b, "%sLocal slot=%d of=%s\n", indent, x.Slot, x.Of)
	case *Binary:
		fmt.Fprintf(b, "%sBinary op=%q\n", indent, x.Op.String())
		dumpNode(b, x.Left, depth+1)
		dumpNode(b, x.Right, depth+1)
	case *Call:
		fmt.Fprintf(b, "%sCall target=%s desc=%s origin=%s\n",
			indent, funcLabel(x.Callee), x.Callee.Descriptor(), x.Callee.Origin)
		if x.Receiver != nil {
			dumpNode(b, x.Receiver, depth+1)
		}
		for _, a := range x.Args {
			dumpNode(b, a, depth+1)
		}
	case *FuncRef:
		fmt.Fprintf(b, "%sFuncRef target=%s desc=%s\n",
			indent, funcLabel(x.Target), x.Target.Descriptor())
	case *MethodTypeOf:
		fmt.Fprintf(b, "%sMethodTypeOf target=%s desc=%s\n",
			indent, funcLabel(x.Target), x.Target.Descriptor())
	case *GetStaticField:
		fmt.Fprintf(b, "%sGetStaticField %s.%s of=%s\n", indent, x.Owner, x.Name, x.Of)
	case *Return:
		fmt.Fprintf(b, "%sReturn\n", indent)
		if x.Value != nil {
			dumpNode(b, x.Value, depth+1)
		}
	default:
		fmt.Fprintf(b, "%s%T\n", indent, n)
	}
}
