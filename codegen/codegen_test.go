package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brome-lang/jvm/classfile"
	"github.com/brome-lang/jvm/ir"
	"github.com/brome-lang/jvm/sig"
)

func newTestGenerator(t *testing.T) (*Generator, *classfile.ClassFile) {
	t.Helper()
	cf, err := classfile.New(classfile.Params{Name: "Test"})
	require.Nil(t, err)
	g, err := New(&Config{Resolver: cf})
	require.Nil(t, err)
	return g, cf
}

func TestNewRequiresResolver(t *testing.T) {
	_, err := New(nil)
	require.NotNil(t, err)
	_, err = New(&Config{})
	require.NotNil(t, err)
}

func TestGenerateBodyConstants(t *testing.T) {
	tests := []struct {
		name     string
		ret      sig.Type
		value    ir.Node
		expected []byte
	}{
		{
			name:  "iconst for small ints",
			ret:   sig.Int,
			value: &ir.IntConst{Value: 5, Of: sig.Int},
			expected: []byte{
				0x08, // iconst_5
				0xac, // ireturn
			},
		},
		{
			name:  "iconst_m1",
			ret:   sig.Int,
			value: &ir.IntConst{Value: -1, Of: sig.Int},
			expected: []byte{
				0x02, // iconst_m1
				0xac, // ireturn
			},
		},
		{
			name:  "bipush for byte range",
			ret:   sig.Int,
			value: &ir.IntConst{Value: 42, Of: sig.Int},
			expected: []byte{
				0x10, 42, // bipush 42
				0xac, // ireturn
			},
		},
		{
			name:  "sipush for short range",
			ret:   sig.Int,
			value: &ir.IntConst{Value: 1000, Of: sig.Int},
			expected: []byte{
				0x11, 0x03, 0xe8, // sipush 1000
				0xac, // ireturn
			},
		},
		{
			name:  "ldc for a wide int",
			ret:   sig.Int,
			value: &ir.IntConst{Value: 100000, Of: sig.Int},
			expected: []byte{
				0x12, 0x05, // ldc #5 (Integer 100000)
				0xac, // ireturn
			},
		},
		{
			name:  "lconst_1",
			ret:   sig.Long,
			value: &ir.LongConst{Value: 1},
			expected: []byte{
				0x0a, // lconst_1
				0xad, // lreturn
			},
		},
		{
			name:  "ldc2_w for a long",
			ret:   sig.Long,
			value: &ir.LongConst{Value: 7},
			expected: []byte{
				0x14, 0x00, 0x05, // ldc2_w #5 (Long 7)
				0xad, // lreturn
			},
		},
		{
			name:  "fconst_2",
			ret:   sig.Float,
			value: &ir.FloatConst{Value: 2},
			expected: []byte{
				0x0d, // fconst_2
				0xae, // freturn
			},
		},
		{
			name:  "ldc for a float",
			ret:   sig.Float,
			value: &ir.FloatConst{Value: 1.5},
			expected: []byte{
				0x12, 0x05, // ldc #5 (Float 1.5)
				0xae, // freturn
			},
		},
		{
			name:  "dconst_0",
			ret:   sig.Double,
			value: &ir.DoubleConst{Value: 0},
			expected: []byte{
				0x0e, // dconst_0
				0xaf, // dreturn
			},
		},
		{
			name:  "string ldc",
			ret:   sig.Object("java/lang/String"),
			value: &ir.StringConst{Value: "hi"},
			expected: []byte{
				0x12, 0x06, // ldc #6 (String "hi")
				0xb0, // areturn
			},
		},
		{
			name:  "boolean true",
			ret:   sig.Boolean,
			value: &ir.BoolConst{Value: true},
			expected: []byte{
				0x04, // iconst_1
				0xac, // ireturn
			},
		},
		{
			name:  "char constant",
			ret:   sig.Char,
			value: &ir.CharConst{Value: 'A'},
			expected: []byte{
				0x10, 65, // bipush 65
				0xac, // ireturn
			},
		},
		{
			name:  "null",
			ret:   sig.Object("java/lang/String"),
			value: &ir.NullConst{Of: sig.Object("java/lang/String")},
			expected: []byte{
				0x01, // aconst_null
				0xb0, // areturn
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newTestGenerator(t)
			fn := &ir.Function{
				Name:   "value",
				Owner:  "Test",
				Static: true,
				Return: tt.ret,
				Body:   []ir.Node{&ir.Return{Value: tt.value}},
			}
			code, err := g.GenerateBody(fn)
			require.Nil(t, err)
			require.Equal(t, tt.expected, code.Bytes())
			require.Equal(t, 0, code.StackDepth())
		})
	}
}

func TestGenerateBodyLocals(t *testing.T) {
	t.Run("quick forms", func(t *testing.T) {
		g, _ := newTestGenerator(t)
		fn := &ir.Function{
			Name:   "third",
			Owner:  "Test",
			Static: true,
			Params: []sig.Type{sig.Int, sig.Long, sig.Int},
			Return: sig.Int,
			Body:   []ir.Node{&ir.Return{Value: &ir.Local{Slot: 3, Of: sig.Int}}},
		}
		code, err := g.GenerateBody(fn)
		require.Nil(t, err)
		require.Equal(t, []byte{
			0x1d, // iload_3
			0xac, // ireturn
		}, code.Bytes())
		require.Equal(t, 4, code.MaxLocals())
	})
	t.Run("high slot takes the operand form", func(t *testing.T) {
		g, _ := newTestGenerator(t)
		fn := &ir.Function{
			Name:   "fifth",
			Owner:  "Test",
			Static: true,
			Params: []sig.Type{sig.Long, sig.Long, sig.Int},
			Return: sig.Int,
			Body:   []ir.Node{&ir.Return{Value: &ir.Local{Slot: 4, Of: sig.Int}}},
		}
		code, err := g.GenerateBody(fn)
		require.Nil(t, err)
		require.Equal(t, []byte{
			0x15, 0x04, // iload 4
			0xac, // ireturn
		}, code.Bytes())
		require.Equal(t, 5, code.MaxLocals())
	})
	t.Run("receiver occupies slot zero", func(t *testing.T) {
		g, _ := newTestGenerator(t)
		fn := &ir.Function{
			Name:   "self",
			Owner:  "Test",
			Return: sig.Object("Test"),
			Body:   []ir.Node{&ir.Return{Value: &ir.Local{Slot: 0, Of: sig.Object("Test")}}},
		}
		code, err := g.GenerateBody(fn)
		require.Nil(t, err)
		require.Equal(t, []byte{
			0x2a, // aload_0
			0xb0, // areturn
		}, code.Bytes())
		require.Equal(t, 1, code.MaxLocals())
	})
}

func TestGenerateBodyArithmetic(t *testing.T) {
	g, _ := newTestGenerator(t)
	// (a + b) * 7
	fn := &ir.Function{
		Name:   "calc",
		Owner:  "Test",
		Static: true,
		Params: []sig.Type{sig.Int, sig.Int},
		Return: sig.Int,
		Body: []ir.Node{
			&ir.Return{Value: &ir.Binary{
				Op: ir.Mul,
				Left: &ir.Binary{
					Op:    ir.Add,
					Left:  &ir.Local{Slot: 0, Of: sig.Int},
					Right: &ir.Local{Slot: 1, Of: sig.Int},
				},
				Right: &ir.IntConst{Value: 7, Of: sig.Int},
			}},
		},
	}
	code, err := g.GenerateBody(fn)
	require.Nil(t, err)
	require.Equal(t, []byte{
		0x1a,       // iload_0
		0x1b,       // iload_1
		0x60,       // iadd
		0x10, 0x07, // bipush 7
		0x68, // imul
		0xac, // ireturn
	}, code.Bytes())
	require.Equal(t, 2, code.MaxStack())
}

func TestGenerateBodyLongArithmetic(t *testing.T) {
	g, _ := newTestGenerator(t)
	fn := &ir.Function{
		Name:   "sum",
		Owner:  "Test",
		Static: true,
		Params: []sig.Type{sig.Long, sig.Long},
		Return: sig.Long,
		Body: []ir.Node{
			&ir.Return{Value: &ir.Binary{
				Op:    ir.Add,
				Left:  &ir.Local{Slot: 0, Of: sig.Long},
				Right: &ir.Local{Slot: 2, Of: sig.Long},
			}},
		},
	}
	code, err := g.GenerateBody(fn)
	require.Nil(t, err)
	require.Equal(t, []byte{
		0x1e, // lload_0
		0x20, // lload_2
		0x61, // ladd
		0xad, // lreturn
	}, code.Bytes())
	require.Equal(t, 4, code.MaxStack())
	require.Equal(t, 4, code.MaxLocals())
}

func TestGenerateBodyStaticCall(t *testing.T) {
	g, cf := newTestGenerator(t)
	max := &ir.Function{
		Name:   "max",
		Owner:  "java/lang/Math",
		Static: true,
		Params: []sig.Type{sig.Int, sig.Int},
		Return: sig.Int,
	}
	fn := &ir.Function{
		Name:   "larger",
		Owner:  "Test",
		Static: true,
		Params: []sig.Type{sig.Int, sig.Int},
		Return: sig.Int,
		Body: []ir.Node{
			&ir.Return{Value: &ir.Call{Callee: max, Args: []ir.Node{
				&ir.Local{Slot: 0, Of: sig.Int},
				&ir.Local{Slot: 1, Of: sig.Int},
			}}},
		},
	}
	code, err := g.GenerateBody(fn)
	require.Nil(t, err)
	require.Equal(t, []byte{
		0x1a,             // iload_0
		0x1b,             // iload_1
		0xb8, 0x00, 0x0a, // invokestatic #10 (Math.max)
		0xac, // ireturn
	}, code.Bytes())
	require.Equal(t, "Methodref java/lang/Math.max:(II)I", cf.Pool().Describe(10))
}

func TestGenerateBodyVirtualCall(t *testing.T) {
	g, _ := newTestGenerator(t)
	length := &ir.Function{
		Name:   "length",
		Owner:  "java/lang/String",
		Return: sig.Int,
	}
	fn := &ir.Function{
		Name:   "strlen",
		Owner:  "Test",
		Static: true,
		Params: []sig.Type{sig.Object("java/lang/String")},
		Return: sig.Int,
		Body: []ir.Node{
			&ir.Return{Value: &ir.Call{
				Callee:   length,
				Receiver: &ir.Local{Slot: 0, Of: sig.Object("java/lang/String")},
			}},
		},
	}
	code, err := g.GenerateBody(fn)
	require.Nil(t, err)
	require.Equal(t, []byte{
		0x2a,             // aload_0
		0xb6, 0x00, 0x0a, // invokevirtual #10 (String.length)
		0xac, // ireturn
	}, code.Bytes())
}

func TestGenerateBodyInterfaceCall(t *testing.T) {
	g, cf := newTestGenerator(t)
	run := &ir.Function{
		Name:        "run",
		Owner:       "java/lang/Runnable",
		InInterface: true,
		Return:      sig.Void,
	}
	fn := &ir.Function{
		Name:   "invoke",
		Owner:  "Test",
		Static: true,
		Params: []sig.Type{sig.Object("java/lang/Runnable")},
		Return: sig.Void,
		Body: []ir.Node{
			&ir.Call{
				Callee:   run,
				Receiver: &ir.Local{Slot: 0, Of: sig.Object("java/lang/Runnable")},
			},
		},
	}
	code, err := g.GenerateBody(fn)
	require.Nil(t, err)
	require.Equal(t, []byte{
		0x2a,                         // aload_0
		0xb9, 0x00, 0x0a, 0x01, 0x00, // invokeinterface #10, count 1
		0xb1, // return
	}, code.Bytes())
	require.Equal(t, "InterfaceMethodref java/lang/Runnable.run:()V", cf.Pool().Describe(10))
}

func TestGenerateBodyCallShapeErrors(t *testing.T) {
	virtual := &ir.Function{Name: "length", Owner: "java/lang/String", Return: sig.Int}
	static := &ir.Function{Name: "f", Owner: "example/Lib", Static: true, Return: sig.Void}
	tests := []struct {
		name   string
		call   *ir.Call
		errMsg string
	}{
		{
			name:   "missing receiver",
			call:   &ir.Call{Callee: virtual},
			errMsg: "call to java/lang/String.length is missing a receiver",
		},
		{
			name: "receiver on a static call",
			call: &ir.Call{
				Callee:   static,
				Receiver: &ir.NullConst{Of: sig.Object("example/Lib")},
			},
			errMsg: "static call to example/Lib.f has a receiver",
		},
		{
			name: "argument count mismatch",
			call: &ir.Call{
				Callee: static,
				Args:   []ir.Node{&ir.IntConst{Value: 1, Of: sig.Int}},
			},
			errMsg: "call to example/Lib.f takes 0 arguments, got 1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newTestGenerator(t)
			fn := &ir.Function{
				Name: "bad", Owner: "Test", Static: true, Return: sig.Void,
				Body: []ir.Node{tt.call},
			}
			_, err := g.GenerateBody(fn)
			require.NotNil(t, err)
			var ie *InternalError
			require.ErrorAs(t, err, &ie)
			require.Contains(t, err.Error(), tt.errMsg)
			require.Contains(t, err.Error(), "function: Test.bad")
		})
	}
}

func TestGenerateBodyDiscardsUnusedValues(t *testing.T) {
	g, _ := newTestGenerator(t)
	nano := &ir.Function{
		Name:   "nanoTime",
		Owner:  "java/lang/System",
		Static: true,
		Return: sig.Long,
	}
	fn := &ir.Function{
		Name:   "tick",
		Owner:  "Test",
		Static: true,
		Return: sig.Void,
		Body:   []ir.Node{&ir.Call{Callee: nano}},
	}
	code, err := g.GenerateBody(fn)
	require.Nil(t, err)
	require.Equal(t, []byte{
		0xb8, 0x00, 0x0a, // invokestatic #10 (System.nanoTime)
		0x58, // pop2
		0xb1, // return
	}, code.Bytes())
	require.Equal(t, 0, code.StackDepth())
}

func TestGenerateBodyCoercesArguments(t *testing.T) {
	t.Run("int widens to long", func(t *testing.T) {
		g, _ := newTestGenerator(t)
		sleep := &ir.Function{
			Name:   "sleep",
			Owner:  "java/lang/Thread",
			Static: true,
			Params: []sig.Type{sig.Long},
			Return: sig.Void,
		}
		fn := &ir.Function{
			Name: "pause", Owner: "Test", Static: true, Return: sig.Void,
			Body: []ir.Node{&ir.Call{Callee: sleep, Args: []ir.Node{
				&ir.IntConst{Value: 5, Of: sig.Int},
			}}},
		}
		code, err := g.GenerateBody(fn)
		require.Nil(t, err)
		require.Equal(t, []byte{
			0x08,             // iconst_5
			0x85,             // i2l
			0xb8, 0x00, 0x0a, // invokestatic #10 (Thread.sleep)
			0xb1, // return
		}, code.Bytes())
		require.Equal(t, 2, code.MaxStack())
	})
	t.Run("int boxes to Integer", func(t *testing.T) {
		g, cf := newTestGenerator(t)
		sink := &ir.Function{
			Name:   "accept",
			Owner:  "example/Sink",
			Static: true,
			Params: []sig.Type{sig.Object("java/lang/Integer")},
			Return: sig.Void,
		}
		fn := &ir.Function{
			Name: "send", Owner: "Test", Static: true, Return: sig.Void,
			Body: []ir.Node{&ir.Call{Callee: sink, Args: []ir.Node{
				&ir.IntConst{Value: 5, Of: sig.Int},
			}}},
		}
		code, err := g.GenerateBody(fn)
		require.Nil(t, err)
		require.Equal(t, []byte{
			0x08,             // iconst_5
			0xb8, 0x00, 0x0a, // invokestatic #10 (Integer.valueOf)
			0xb8, 0x00, 0x10, // invokestatic #16 (Sink.accept)
			0xb1, // return
		}, code.Bytes())
		require.Equal(t, "Methodref java/lang/Integer.valueOf:(I)Ljava/lang/Integer;", cf.Pool().Describe(10))
	})
	t.Run("reference narrows through checkcast", func(t *testing.T) {
		g, _ := newTestGenerator(t)
		sink := &ir.Function{
			Name:   "accept",
			Owner:  "example/Sink",
			Static: true,
			Params: []sig.Type{sig.Object("java/lang/String")},
			Return: sig.Void,
		}
		fn := &ir.Function{
			Name: "send", Owner: "Test", Static: true,
			Params: []sig.Type{sig.Object("java/lang/Object")},
			Return: sig.Void,
			Body: []ir.Node{&ir.Call{Callee: sink, Args: []ir.Node{
				&ir.Local{Slot: 0, Of: sig.Object("java/lang/Object")},
			}}},
		}
		code, err := g.GenerateBody(fn)
		require.Nil(t, err)
		require.Equal(t, []byte{
			0x2a,             // aload_0
			0xc0, 0x00, 0x06, // checkcast #6 (java/lang/String)
			0xb8, 0x00, 0x0c, // invokestatic #12 (Sink.accept)
			0xb1, // return
		}, code.Bytes())
	})
	t.Run("widening to Object needs no cast", func(t *testing.T) {
		g, _ := newTestGenerator(t)
		sink := &ir.Function{
			Name:   "accept",
			Owner:  "example/Sink",
			Static: true,
			Params: []sig.Type{sig.Object("java/lang/Object")},
			Return: sig.Void,
		}
		fn := &ir.Function{
			Name: "send", Owner: "Test", Static: true,
			Params: []sig.Type{sig.Object("java/lang/String")},
			Return: sig.Void,
			Body: []ir.Node{&ir.Call{Callee: sink, Args: []ir.Node{
				&ir.Local{Slot: 0, Of: sig.Object("java/lang/String")},
			}}},
		}
		code, err := g.GenerateBody(fn)
		require.Nil(t, err)
		require.Equal(t, []byte{
			0x2a,             // aload_0
			0xb8, 0x00, 0x0a, // invokestatic #10 (Sink.accept)
			0xb1, // return
		}, code.Bytes())
	})
	t.Run("long cannot narrow to int", func(t *testing.T) {
		g, _ := newTestGenerator(t)
		sink := &ir.Function{
			Name:   "accept",
			Owner:  "example/Sink",
			Static: true,
			Params: []sig.Type{sig.Int},
			Return: sig.Void,
		}
		fn := &ir.Function{
			Name: "send", Owner: "Test", Static: true, Return: sig.Void,
			Body: []ir.Node{&ir.Call{Callee: sink, Args: []ir.Node{
				&ir.LongConst{Value: 5},
			}}},
		}
		_, err := g.GenerateBody(fn)
		require.NotNil(t, err)
		require.Contains(t, err.Error(), "cannot coerce long to int")
	})
}

func TestGenerateBodyGetStatic(t *testing.T) {
	g, cf := newTestGenerator(t)
	println := &ir.Function{
		Name:   "println",
		Owner:  "java/io/PrintStream",
		Params: []sig.Type{sig.Object("java/lang/String")},
		Return: sig.Void,
	}
	fn := &ir.Function{
		Name:   "greet",
		Owner:  "Test",
		Static: true,
		Return: sig.Void,
		Body: []ir.Node{
			&ir.Call{
				Callee: println,
				Receiver: &ir.GetStaticField{
					Owner: "java/lang/System",
					Name:  "out",
					Of:    sig.Object("java/io/PrintStream"),
				},
				Args: []ir.Node{&ir.StringConst{Value: "hello"}},
			},
		},
	}
	code, err := g.GenerateBody(fn)
	require.Nil(t, err)
	require.Equal(t, []byte{
		0xb2, 0x00, 0x0a, // getstatic #10 (System.out)
		0x12, 0x0c, // ldc #12 (String "hello")
		0xb6, 0x00, 0x12, // invokevirtual #18 (PrintStream.println)
		0xb1, // return
	}, code.Bytes())
	require.Equal(t, "Fieldref java/lang/System.out:Ljava/io/PrintStream;", cf.Pool().Describe(10))
	require.Equal(t, 2, code.MaxStack())
}

func TestGenerateBodyReturnErrors(t *testing.T) {
	tests := []struct {
		name   string
		fn     *ir.Function
		errMsg string
	}{
		{
			name: "missing final return",
			fn: &ir.Function{
				Name: "f", Owner: "Test", Static: true, Return: sig.Int,
				Body: []ir.Node{&ir.IntConst{Value: 1, Of: sig.Int}},
			},
			errMsg: "internal error: function body does not end with a return",
		},
		{
			name: "bare return in an int function",
			fn: &ir.Function{
				Name: "f", Owner: "Test", Static: true, Return: sig.Int,
				Body: []ir.Node{&ir.Return{}},
			},
			errMsg: "internal error: return without a value in a function returning int",
		},
		{
			name: "value returned from a void function",
			fn: &ir.Function{
				Name: "f", Owner: "Test", Static: true, Return: sig.Void,
				Body: []ir.Node{&ir.Return{Value: &ir.IntConst{Value: 1, Of: sig.Int}}},
			},
			errMsg: "internal error: return with a value in a void function",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newTestGenerator(t)
			_, err := g.GenerateBody(tt.fn)
			require.NotNil(t, err)
			require.Contains(t, err.Error(), tt.errMsg)
			require.Contains(t, err.Error(), "function: Test.f")
		})
	}
}

func TestGenerateBodyVoidFunctionGetsImplicitReturn(t *testing.T) {
	g, _ := newTestGenerator(t)
	fn := &ir.Function{
		Name: "noop", Owner: "Test", Static: true, Return: sig.Void,
	}
	code, err := g.GenerateBody(fn)
	require.Nil(t, err)
	require.Equal(t, []byte{
		0xb1, // return
	}, code.Bytes())
}

func TestGenerateBodyMethodTypeIntrinsicOutsideBootstrap(t *testing.T) {
	g, _ := newTestGenerator(t)
	f := &ir.Function{Name: "f", Owner: "example/Lib", Static: true, Return: sig.Void}
	fn := &ir.Function{
		Name: "bad", Owner: "Test", Static: true, Return: sig.Void,
		Body: []ir.Node{ir.MethodTypeCall(f)},
	}
	_, err := g.GenerateBody(fn)
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "method type intrinsic used outside a bootstrap argument")
}

func TestGenerateBodyLoadsHandleConstant(t *testing.T) {
	g, cf := newTestGenerator(t)
	f := &ir.Function{
		Name:   "add",
		Owner:  "example/Impl",
		Static: true,
		Params: []sig.Type{sig.Int, sig.Int},
		Return: sig.Int,
	}
	fn := &ir.Function{
		Name: "handle", Owner: "Test", Static: true,
		Return: sig.Object("java/lang/invoke/MethodHandle"),
		Body:   []ir.Node{&ir.Return{Value: &ir.FuncRef{Target: f}}},
	}
	code, err := g.GenerateBody(fn)
	require.Nil(t, err)
	require.Equal(t, []byte{
		0x12, 0x0b, // ldc #11 (MethodHandle)
		0xb0, // areturn
	}, code.Bytes())
	require.Equal(t, "MethodHandle REF_invokeStatic example/Impl.add:(II)I", cf.Pool().Describe(11))
}

func TestGenerateBodyLoadsMethodTypeConstant(t *testing.T) {
	g, cf := newTestGenerator(t)
	f := &ir.Function{
		Name:   "add",
		Owner:  "example/Impl",
		Static: true,
		Params: []sig.Type{sig.Int, sig.Int},
		Return: sig.Int,
	}
	fn := &ir.Function{
		Name: "mtype", Owner: "Test", Static: true,
		Return: sig.Object("java/lang/invoke/MethodType"),
		Body:   []ir.Node{&ir.Return{Value: &ir.MethodTypeOf{Target: f}}},
	}
	code, err := g.GenerateBody(fn)
	require.Nil(t, err)
	require.Equal(t, []byte{
		0x12, 0x06, // ldc #6 (MethodType (II)I)
		0xb0, // areturn
	}, code.Bytes())
	require.Equal(t, "MethodType (II)I", cf.Pool().Describe(6))
}

func TestDefaultInit(t *testing.T) {
	g, _ := newTestGenerator(t)
	code, err := g.DefaultInit("java/lang/Object")
	require.Nil(t, err)
	require.Equal(t, []byte{
		0x2a,             // aload_0
		0xb7, 0x00, 0x08, // invokespecial #8 (Object.<init>)
		0xb1, // return
	}, code.Bytes())
	require.Equal(t, 1, code.MaxStack())
	require.Equal(t, 1, code.MaxLocals())
}
