package mapping

import (
	"errors"
	"reflect"
	"testing"

	"github.com/KOMKZ/go-yogan-ioc/component"
	"github.com/KOMKZ/go-yogan-ioc/logger"
	"github.com/KOMKZ/go-yogan-ioc/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notifier interface{ Notify(msg string) string }

type emailNotifier struct{ From string }

func (n *emailNotifier) Notify(msg string) string { return "email:" + msg }

type smsNotifier struct{}

func (smsNotifier) Notify(msg string) string { return "sms:" + msg }

type unrelated struct{}

var notifierType = reflect.TypeFor[notifier]()

func newMapper() (*Mapper, *registry.Registry, *logger.TestCtxLogger) {
	reg := registry.NewRegistry()
	tl := logger.NewTestCtxLogger()
	return NewMapper(reg, tl), reg, tl
}

func TestMap_DraftNotInstalled(t *testing.T) {
	m, reg, _ := newMapper()
	e := Map[notifier](m)

	assert.False(t, reg.Has(notifierType))
	assert.False(t, e.Component().IsBound())
}

func TestFor_InstallsPrimary(t *testing.T) {
	m, reg, tl := newMapper()

	b, err := For[*emailNotifier](Map[notifier](m))
	require.NoError(t, err)

	c := reg.Lookup(notifierType)
	require.NotNil(t, c)
	assert.Same(t, b.Component(), c)
	assert.Equal(t, reflect.TypeFor[*emailNotifier](), c.ValueType())
	assert.Nil(t, c.ValueProvider())
	assert.True(t, tl.HasLog("DEBUG", "mapping bound"))
}

func TestFor_TypeMismatch(t *testing.T) {
	m, reg, _ := newMapper()

	_, err := For[unrelated](Map[notifier](m))
	require.Error(t, err)
	assert.True(t, errors.Is(err, component.ErrTypeMismatch))
	assert.False(t, reg.Has(notifierType))

	// value receiver set does not include pointer methods
	_, err = For[emailNotifier](Map[notifier](m))
	assert.True(t, errors.Is(err, component.ErrTypeMismatch))
}

func TestFor_ReplacesPrevious(t *testing.T) {
	m, reg, _ := newMapper()

	_, err := For[*emailNotifier](Map[notifier](m))
	require.NoError(t, err)
	_, err = For[smsNotifier](Map[notifier](m))
	require.NoError(t, err)

	list := reg.Components(notifierType)
	require.Len(t, list, 1)
	assert.Equal(t, reflect.TypeFor[smsNotifier](), list[0].ValueType())
}

func TestWithoutOverwrite_KeepsFirst(t *testing.T) {
	m, reg, _ := newMapper()

	_, err := For[*emailNotifier](Map[notifier](m))
	require.NoError(t, err)
	b, err := For[smsNotifier](Map[notifier](m).WithoutOverwrite())
	require.NoError(t, err)

	assert.True(t, b.Component().WithoutOverwrite())
	assert.Len(t, reg.Components(notifierType), 2)
	assert.Equal(t, reflect.TypeFor[*emailNotifier](), reg.Lookup(notifierType).ValueType())
}

func TestRebindSameExpression_ReplacesInPlace(t *testing.T) {
	m, reg, _ := newMapper()
	e := Map[notifier](m)

	first, err := For[*emailNotifier](e)
	require.NoError(t, err)
	second, err := For[smsNotifier](e)
	require.NoError(t, err)

	assert.Equal(t, first.Component().ID(), second.Component().ID())
	assert.Len(t, reg.Components(notifierType), 1)
}

func TestForValue(t *testing.T) {
	m, reg, _ := newMapper()
	n := &emailNotifier{From: "ops@example.com"}

	_, err := ForValue(Map[notifier](m), n)
	require.NoError(t, err)

	c := reg.Lookup(notifierType)
	require.NotNil(t, c.ValueProvider())
	assert.Same(t, n, c.ValueProvider()())
	assert.Equal(t, reflect.TypeFor[*emailNotifier](), c.ValueType())

	_, err = ForValue(Map[notifier](m), 42)
	assert.True(t, errors.Is(err, component.ErrTypeMismatch))

	var layered interface{ DataString(string) string }
	require.True(t, errors.As(err, &layered))
	assert.Equal(t, "mapping.notifier", layered.DataString("key"))
	assert.Equal(t, "int", layered.DataString("value"))
}

func TestForValue_InterfaceTypedUsesDynamicType(t *testing.T) {
	m, reg, _ := newMapper()
	var n notifier = smsNotifier{}

	_, err := ForValue(Map[notifier](m), n)
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[smsNotifier](), reg.Lookup(notifierType).ValueType())
}

func TestForFunc(t *testing.T) {
	m, reg, _ := newMapper()
	calls := 0

	_, err := ForFunc(Map[notifier](m), func() *emailNotifier {
		calls++
		return &emailNotifier{}
	})
	require.NoError(t, err)

	provider := reg.Lookup(notifierType).ValueProvider()
	assert.Equal(t, 0, calls, "deferred until resolve")
	provider()
	provider()
	assert.Equal(t, 2, calls)
}

func TestToSelf(t *testing.T) {
	m, reg, _ := newMapper()

	_, err := Map[*emailNotifier](m).ToSelf()
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[*emailNotifier](), reg.Lookup(reflect.TypeFor[*emailNotifier]()).ValueType())

	_, err = Map[notifier](m).ToSelf()
	assert.True(t, errors.Is(err, component.ErrTypeMismatch))
}

func TestExpressionOnResolved_NotSupported(t *testing.T) {
	m, _, _ := newMapper()
	err := Map[notifier](m).OnResolved(func(notifier) {})
	assert.True(t, errors.Is(err, component.ErrNotSupported))
}

func TestBindingOnResolved(t *testing.T) {
	m, reg, _ := newMapper()
	var seen *emailNotifier

	b, err := For[*emailNotifier](Map[notifier](m))
	require.NoError(t, err)
	b.OnResolved(func(n *emailNotifier) { seen = n })

	n := &emailNotifier{}
	reg.Lookup(notifierType).OnResolved()(n)
	assert.Same(t, n, seen)

	// a foreign value is ignored rather than panicking
	assert.NotPanics(t, func() { reg.Lookup(notifierType).OnResolved()(smsNotifier{}) })
}

func TestBindingArguments(t *testing.T) {
	m, reg, _ := newMapper()

	b, err := For[*emailNotifier](Map[notifier](m))
	require.NoError(t, err)
	b.WithNamedArgument("id", 1).
		WithNamedArgument("id", 2).
		WithArgument("a").
		WithArgumentFunc(func() any { return "b" }).
		WithNamedArgumentFunc("from", func() any { return "x" }).
		WithArguments(component.LazyArg(func() int { return 3 }))

	args := reg.Lookup(notifierType).Arguments()
	require.Len(t, args, 5)
	assert.Equal(t, "id", args[0].Name())
	assert.Equal(t, 2, args[0].Value(), "duplicate named argument overwrites in place")
	assert.Equal(t, "a", args[1].Value())
	assert.Equal(t, "b", args[2].Resolve())
	assert.Equal(t, "from", args[3].Name())
	assert.Equal(t, 3, args[4].Resolve())
}

func TestSubstitute(t *testing.T) {
	m, reg, _ := newMapper()

	_, err := For[*emailNotifier](Map[notifier](m))
	require.NoError(t, err)
	sub, err := Substitute[smsNotifier](Map[notifier](m))
	require.NoError(t, err)

	assert.True(t, sub.Component().IsSubstitute())
	assert.Same(t, sub.Component(), reg.Lookup(notifierType))
	assert.Len(t, reg.Components(notifierType), 2)

	_, err = Substitute[unrelated](Map[notifier](m))
	assert.True(t, errors.Is(err, component.ErrTypeMismatch))

	assert.Equal(t, 1, m.CleanSubstitutes(notifierType))
	assert.Equal(t, reflect.TypeFor[*emailNotifier](), reg.Lookup(notifierType).ValueType())
}

func TestSubstitute_SurvivesRebind(t *testing.T) {
	m, reg, _ := newMapper()

	sub := SubstituteFunc(Map[notifier](m), func() notifier { return smsNotifier{} })
	_, err := For[*emailNotifier](Map[notifier](m))
	require.NoError(t, err)

	assert.Same(t, sub.Component(), reg.Lookup(notifierType), "replace-all keeps substitutes")
	assert.Equal(t, smsNotifier{}, sub.Component().ValueProvider()())
}

func TestClean(t *testing.T) {
	m, reg, _ := newMapper()

	_, err := For[*emailNotifier](Map[notifier](m))
	require.NoError(t, err)
	SubstituteFunc(Map[notifier](m), func() notifier { return smsNotifier{} })

	assert.Equal(t, 2, Map[notifier](m).Clean())
	assert.Nil(t, reg.Lookup(notifierType))
	assert.Same(t, reg, m.Registry())
}
