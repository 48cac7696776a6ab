package component

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueArg(t *testing.T) {
	a := ValueArg(42)
	assert.False(t, a.IsNamed())
	assert.False(t, a.IsDeferred())
	assert.Equal(t, reflect.TypeFor[int](), a.Type())
	assert.Equal(t, 42, a.Resolve())

	assert.Nil(t, ValueArg(nil).Type())
}

func TestFuncArg_Untyped(t *testing.T) {
	calls := 0
	a := NamedFuncArg("id", func() any {
		calls++
		return calls
	})

	assert.Equal(t, "id", a.Name())
	assert.True(t, a.IsDeferred())
	assert.Nil(t, a.Type())
	assert.Nil(t, a.Value())
	assert.Equal(t, 1, a.Resolve())
	assert.Equal(t, 2, a.Resolve(), "callbacks are re-invoked on every resolve")
}

func TestLazyArg_Typed(t *testing.T) {
	a := NamedLazyArg("g", func() greeter { return english{} })

	assert.Equal(t, greeterType, a.Type())
	assert.Equal(t, english{}, a.Resolve())
	assert.NotNil(t, a.Callback())
}

func TestAppendArgument_NamedOverwritesInPlace(t *testing.T) {
	list := AppendArgument(nil, NamedValueArg("id", 1))
	list = AppendArgument(list, ValueArg("test"))
	list = AppendArgument(list, NamedValueArg("id", 2))

	assert.Len(t, list, 2)
	assert.Equal(t, "id", list[0].Name())
	assert.Equal(t, 2, list[0].Value())
}

func TestAppendArgument_UnnamedAlwaysAppends(t *testing.T) {
	list := AppendArgument(nil, FuncArg(func() any { return 1 }))
	list = AppendArgument(list, FuncArg(func() any { return 2 }))

	assert.Len(t, list, 2)
	assert.Equal(t, 1, list[0].Resolve())
	assert.Equal(t, 2, list[1].Resolve())
}

func TestAppendArgument_DoesNotMutateInput(t *testing.T) {
	base := []Argument{NamedValueArg("id", 1)}
	_ = AppendArgument(base, NamedValueArg("id", 2))

	assert.Equal(t, 1, base[0].Value())
}
