package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brome-lang/jvm/constant"
	"github.com/brome-lang/jvm/ir"
	"github.com/brome-lang/jvm/sig"
)

func TestResolveBootstrapArgConstants(t *testing.T) {
	tests := []struct {
		name string
		node ir.Node
		want constant.Value
	}{
		{"int", &ir.IntConst{Value: 5, Of: sig.Int}, constant.Int32(5)},
		{"negative int", &ir.IntConst{Value: -7, Of: sig.Int}, constant.Int32(-7)},
		{"byte widens to int", &ir.IntConst{Value: 3, Of: sig.Byte}, constant.Int32(3)},
		{"short widens to int", &ir.IntConst{Value: 300, Of: sig.Short}, constant.Int32(300)},
		{"long", &ir.LongConst{Value: 1 << 40}, constant.Int64(1 << 40)},
		{"float", &ir.FloatConst{Value: 1.5}, constant.Float32(1.5)},
		{"double", &ir.DoubleConst{Value: 2.25}, constant.Float64(2.25)},
		{"string", &ir.StringConst{Value: "k"}, constant.String("k")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveBootstrapArg(tt.node)
			require.Nil(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestResolveBootstrapArgFuncRef(t *testing.T) {
	t.Run("receiverless function dispatches invokestatic", func(t *testing.T) {
		f := &ir.Function{
			Name:   "add",
			Owner:  "example/Impl",
			Static: true,
			Params: []sig.Type{sig.Int, sig.Int},
			Return: sig.Int,
		}
		got, err := resolveBootstrapArg(&ir.FuncRef{Target: f})
		require.Nil(t, err)
		require.Equal(t, constant.Handle{
			Kind:       constant.InvokeStatic,
			Owner:      "example/Impl",
			Name:       "add",
			Descriptor: "(II)I",
		}, got)
	})
	t.Run("receiver dispatches invokevirtual", func(t *testing.T) {
		f := &ir.Function{
			Name:   "length",
			Owner:  "java/lang/String",
			Return: sig.Int,
		}
		got, err := resolveBootstrapArg(&ir.FuncRef{Target: f})
		require.Nil(t, err)
		require.Equal(t, constant.Handle{
			Kind:       constant.InvokeVirtual,
			Owner:      "java/lang/String",
			Name:       "length",
			Descriptor: "()I",
		}, got)
	})
	t.Run("interface owner sets the flag", func(t *testing.T) {
		obj := sig.Object("java/lang/Object")
		f := &ir.Function{
			Name:        "compare",
			Owner:       "java/util/Comparator",
			InInterface: true,
			Params:      []sig.Type{obj, obj},
			Return:      sig.Int,
		}
		got, err := resolveBootstrapArg(&ir.FuncRef{Target: f})
		require.Nil(t, err)
		h, ok := got.(constant.Handle)
		require.True(t, ok)
		require.Equal(t, constant.InvokeVirtual, h.Kind)
		require.True(t, h.IsInterface)
	})
	t.Run("link name overrides the source name", func(t *testing.T) {
		f := &ir.Function{
			Name:     "render",
			LinkName: "render-impl",
			Owner:    "example/Impl",
			Static:   true,
			Return:   sig.Void,
		}
		got, err := resolveBootstrapArg(&ir.FuncRef{Target: f})
		require.Nil(t, err)
		require.Equal(t, "render-impl", got.(constant.Handle).Name)
	})
}

func TestResolveBootstrapArgMethodType(t *testing.T) {
	obj := sig.Object("java/lang/Object")
	f := &ir.Function{
		Name:   "apply",
		Owner:  "example/Fn",
		Static: true,
		Params: []sig.Type{obj},
		Return: obj,
	}
	t.Run("typed node", func(t *testing.T) {
		got, err := resolveBootstrapArg(&ir.MethodTypeOf{Target: f})
		require.Nil(t, err)
		require.Equal(t, constant.MethodType{Descriptor: "(Ljava/lang/Object;)Ljava/lang/Object;"}, got)
	})
	t.Run("intrinsic call form", func(t *testing.T) {
		got, err := resolveBootstrapArg(ir.MethodTypeCall(f))
		require.Nil(t, err)
		require.Equal(t, constant.MethodType{Descriptor: "(Ljava/lang/Object;)Ljava/lang/Object;"}, got)
	})
	t.Run("wrong argument count", func(t *testing.T) {
		call := ir.MethodTypeCall(f)
		call.Args = append(call.Args, &ir.IntConst{Value: 1, Of: sig.Int})
		_, err := resolveBootstrapArg(call)
		require.NotNil(t, err)
		require.Contains(t, err.Error(), "method type intrinsic takes 1 argument, got 2")
	})
	t.Run("argument is not a function reference", func(t *testing.T) {
		call := ir.MethodTypeCall(f)
		call.Args = []ir.Node{&ir.StringConst{Value: "apply"}}
		_, err := resolveBootstrapArg(call)
		require.NotNil(t, err)
		require.Contains(t, err.Error(), "want a function reference, got *ir.StringConst")
	})
}

func TestResolveBootstrapArgRejectsOtherShapes(t *testing.T) {
	plain := &ir.Function{Name: "f", Owner: "example/Lib", Static: true, Return: sig.Void}
	tests := []struct {
		name string
		node ir.Node
	}{
		{"bool constant", &ir.BoolConst{Value: true}},
		{"char constant", &ir.CharConst{Value: 'x'}},
		{"null constant", &ir.NullConst{Of: sig.Object("java/lang/String")}},
		{"arithmetic expression", &ir.Binary{
			Op:    ir.Add,
			Left:  &ir.IntConst{Value: 1, Of: sig.Int},
			Right: &ir.IntConst{Value: 2, Of: sig.Int},
		}},
		{"local read", &ir.Local{Slot: 0, Of: sig.Int}},
		{"static field read", &ir.GetStaticField{
			Owner: "java/lang/System",
			Name:  "out",
			Of:    sig.Object("java/io/PrintStream"),
		}},
		{"ordinary call", &ir.Call{Callee: plain}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolveBootstrapArg(tt.node)
			require.NotNil(t, err)
			var ie *InternalError
			require.ErrorAs(t, err, &ie)
			require.Contains(t, err.Error(), "internal error: ")
			require.Contains(t, err.Error(), "node:\n")
		})
	}
}

func TestResolveBootstrapArgsOrder(t *testing.T) {
	f := &ir.Function{
		Name:   "f",
		Owner:  "example/F",
		Static: true,
		Params: []sig.Type{sig.Int},
		Return: sig.Int,
	}
	got, err := resolveBootstrapArgs([]ir.Node{
		&ir.IntConst{Value: 5, Of: sig.Int},
		&ir.StringConst{Value: "k"},
		&ir.FuncRef{Target: f},
	})
	require.Nil(t, err)
	require.Equal(t, []constant.Value{
		constant.Int32(5),
		constant.String("k"),
		constant.Handle{Kind: constant.InvokeStatic, Owner: "example/F", Name: "f", Descriptor: "(I)I"},
	}, got)
}

func TestResolveBootstrapArgsEmpty(t *testing.T) {
	got, err := resolveBootstrapArgs(nil)
	require.Nil(t, err)
	require.Nil(t, got)
}

func TestResolveBootstrapArgsStopsAtFirstBadNode(t *testing.T) {
	_, err := resolveBootstrapArgs([]ir.Node{
		&ir.IntConst{Value: 1, Of: sig.Int},
		&ir.BoolConst{Value: true},
		&ir.StringConst{Value: "never reached"},
	})
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "*ir.BoolConst")
}
