package object

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironmentDefineAndGet(t *testing.T) {
	env := NewEnvironment()
	env.Define("a", 1.0)

	v, ok := env.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1.0, v)

	_, ok = env.Get("missing")
	assert.False(t, ok)
}

func TestEnvironmentRedefineInSameFrame(t *testing.T) {
	env := NewEnvironment()
	env.Define("a", 1.0)
	env.Define("a", 2.0)

	v, _ := env.Get("a")
	assert.Equal(t, 2.0, v)
}

func TestEnvironmentAssignWalksChain(t *testing.T) {
	globals := NewEnvironment()
	globals.Define("a", 1.0)
	inner := NewEnclosed(globals)

	require.True(t, inner.Assign("a", 2.0))

	v, _ := globals.Get("a")
	assert.Equal(t, 2.0, v)
}

func TestEnvironmentAssignUndefined(t *testing.T) {
	env := NewEnvironment()
	assert.False(t, env.Assign("nope", 1.0))
	_, ok := env.Get("nope")
	assert.False(t, ok, "failed assignment must not create a binding")
}

func TestEnvironmentShadowing(t *testing.T) {
	globals := NewEnvironment()
	globals.Define("a", "outer")
	inner := NewEnclosed(globals)
	inner.Define("a", "inner")

	v, _ := inner.Get("a")
	assert.Equal(t, "inner", v)
	v, _ = globals.Get("a")
	assert.Equal(t, "outer", v)
}

func TestEnvironmentDepthAddressing(t *testing.T) {
	globals := NewEnvironment()
	mid := NewEnclosed(globals)
	mid.Define("x", 1.0)
	leaf := NewEnclosed(mid)
	leaf.Define("x", 2.0)

	assert.Equal(t, 2.0, leaf.GetAt(0, "x"))
	assert.Equal(t, 1.0, leaf.GetAt(1, "x"))

	leaf.AssignAt(1, "x", 3.0)
	v, _ := mid.Get("x")
	assert.Equal(t, 3.0, v)
	assert.Equal(t, 2.0, leaf.GetAt(0, "x"), "inner binding untouched")
}

func TestTruthy(t *testing.T) {
	assert.False(t, Truthy(nil))
	assert.False(t, Truthy(false))
	assert.True(t, Truthy(true))
	assert.True(t, Truthy(0.0))
	assert.True(t, Truthy(""))
	assert.True(t, Truthy("false"))
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(nil, false))
	assert.True(t, Equal(1.0, 1.0))
	assert.False(t, Equal(1.0, "1"))
	assert.True(t, Equal("a", "a"))
	assert.False(t, Equal(math.NaN(), math.NaN()), "IEEE: NaN is not equal to itself")

	class := NewClass(nil, "A", nil, map[string]*Function{})
	a := NewInstance(class)
	b := NewInstance(class)
	assert.True(t, Equal(a, a), "instances compare by identity")
	assert.False(t, Equal(a, b))
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "nil", Stringify(nil))
	assert.Equal(t, "true", Stringify(true))
	assert.Equal(t, "false", Stringify(false))
	assert.Equal(t, "3", Stringify(3.0), "integer-valued numbers drop the fraction")
	assert.Equal(t, "2.5", Stringify(2.5))
	assert.Equal(t, "hello", Stringify("hello"))

	class := NewClass(nil, "Bagel", nil, map[string]*Function{})
	assert.Equal(t, "Bagel", Stringify(class))
	assert.Equal(t, "Bagel instance", Stringify(NewInstance(class)))

	named := &Function{Name: "add"}
	assert.Equal(t, "<fn add>", Stringify(named))
	assert.Equal(t, "<fn>", Stringify(&Function{}))
	assert.Equal(t, "<fn clock>", Stringify(&Native{Name: "clock"}))
}

func TestInstanceFieldsShadowMethods(t *testing.T) {
	method := &Function{Name: "m", Closure: NewEnvironment()}
	class := NewClass(nil, "A", nil, map[string]*Function{"m": method})
	inst := NewInstance(class)

	got, ok := inst.Get("m")
	require.True(t, ok)
	bound, ok := got.(*Function)
	require.True(t, ok)
	assert.NotSame(t, method, bound, "method lookup yields a fresh bound copy")

	inst.Set("m", 42.0)
	got, _ = inst.Get("m")
	assert.Equal(t, 42.0, got, "fields shadow methods")
}

func TestMethodLookupWalksSuperclassChain(t *testing.T) {
	base := NewClass(nil, "Base", nil, map[string]*Function{
		"m": {Name: "m", Closure: NewEnvironment()},
	})
	derived := NewClass(nil, "Derived", base, map[string]*Function{})

	assert.NotNil(t, derived.FindMethod("m"))
	assert.Nil(t, derived.FindMethod("missing"))
}

func TestClassMethodsViaMetaclass(t *testing.T) {
	meta := NewClass(nil, "Math metaclass", nil, map[string]*Function{
		"square": {Name: "square", Closure: NewEnvironment()},
	})
	class := NewClass(meta, "Math", nil, map[string]*Function{})

	got, ok := class.Get("square")
	require.True(t, ok)
	assert.IsType(t, &Function{}, got)

	// Class-level fields shadow class methods, same as on instances.
	class.Set("square", 9.0)
	got, _ = class.Get("square")
	assert.Equal(t, 9.0, got)
}

func TestBindInjectsThis(t *testing.T) {
	closure := NewEnvironment()
	fn := &Function{Name: "m", Closure: closure, IsInitializer: true}
	class := NewClass(nil, "A", nil, map[string]*Function{})
	inst := NewInstance(class)

	bound := fn.Bind(inst)
	require.NotNil(t, bound)
	assert.True(t, bound.IsInitializer, "bind preserves the initializer flag")
	assert.Equal(t, inst, bound.Closure.GetAt(0, "this"))

	// The original closure is untouched.
	_, ok := closure.Get("this")
	assert.False(t, ok)
}
