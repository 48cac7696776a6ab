package ioc

import (
	"context"
	"errors"
	"testing"

	"github.com/KOMKZ/go-yogan-ioc/component"
	"github.com/KOMKZ/go-yogan-ioc/logger"
	"github.com/KOMKZ/go-yogan-ioc/mapping"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greeter interface{ Greet() string }

type englishGreeter struct{ name string }

func (g *englishGreeter) Greet() string { return "hello " + g.name }

type frenchGreeter struct{}

func (frenchGreeter) Greet() string { return "bonjour" }

func TestMapToAndResolve(t *testing.T) {
	log := logger.NewTestCtxLogger()
	c := New(WithLogger(log))
	_, err := c.RegisterConstructor(func(name string) *englishGreeter { return &englishGreeter{name: name} }, "name")
	require.NoError(t, err)

	b, err := MapTo[greeter, *englishGreeter](c)
	require.NoError(t, err)
	b.WithNamedArgument("name", "world")

	g, err := Resolve[greeter](c)
	require.NoError(t, err)
	assert.Equal(t, "hello world", g.Greet())
	assert.True(t, IsMapped[greeter](c))
	assert.Same(t, b.Component(), Active[greeter](c))

	g, err = ExtendMap[greeter](c).WithNamedArgument("name", "gopher").Resolve()
	require.NoError(t, err)
	assert.Equal(t, "hello gopher", g.Greet())
	assert.Equal(t, "hello world", MustResolve[greeter](c).Greet(), "call arguments are not persisted")

	assert.True(t, log.HasLog("DEBUG", "mapping bound"))
}

type counterConfig interface{ Start() int }

type counterSettings struct{ ID int }

func (s *counterSettings) Start() int { return s.ID }

func TestMapTo_ImplicitNamedArguments(t *testing.T) {
	c := New()
	b, err := MapTo[counterConfig, *counterSettings](c)
	require.NoError(t, err)
	b.WithNamedArgument("ID", 1)

	v, err := ExtendMap[counterConfig](c).WithNamedArgument("ID", 2).Resolve()
	require.NoError(t, err)
	assert.Equal(t, 2, v.Start())
	assert.Equal(t, 1, MustResolve[counterConfig](c).Start())
}

func TestSubstituteAndClean(t *testing.T) {
	c := New()
	_, err := MapTo[greeter, frenchGreeter](c)
	require.NoError(t, err)

	_, err = c.RegisterConstructor(func() *englishGreeter { return &englishGreeter{name: "sub"} })
	require.NoError(t, err)
	_, err = Map[greeter](c).ToSelf()
	assert.True(t, errors.Is(err, component.ErrTypeMismatch), "interface keys cannot map to themselves")

	_, err = mapping.Substitute[*englishGreeter](Map[greeter](c))
	require.NoError(t, err)
	assert.Equal(t, "hello sub", MustResolve[greeter](c).Greet())

	assert.Equal(t, 1, CleanSubstitutes[greeter](c))
	assert.Equal(t, "bonjour", MustResolve[greeter](c).Greet())

	assert.Equal(t, 1, Clean[greeter](c))
	assert.False(t, IsMapped[greeter](c))
	_, err = Resolve[greeter](c)
	assert.True(t, errors.Is(err, component.ErrResolver))
}

func TestDefault_Shared(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestContainersAreIsolated(t *testing.T) {
	a, b := New(), New()
	_, err := MapTo[greeter, frenchGreeter](a)
	require.NoError(t, err)

	assert.True(t, IsMapped[greeter](a))
	assert.False(t, IsMapped[greeter](b))
}

type greeterMapping struct{ name string }

func (m greeterMapping) InitializeMap(c *Container) error {
	if _, err := c.RegisterConstructor(func(name string) *englishGreeter {
		return &englishGreeter{name: name}
	}, "name"); err != nil {
		return err
	}
	b, err := MapTo[greeter, *englishGreeter](c)
	if err != nil {
		return err
	}
	b.WithNamedArgument("name", m.name)
	return nil
}

func TestInitialize(t *testing.T) {
	c := New()
	require.NoError(t, Initialize(c, greeterMapping{name: "module"}, nil))
	assert.Equal(t, "hello module", MustResolve[greeter](c).Greet())
}

func TestInitialize_StopsAtFirstError(t *testing.T) {
	log := logger.NewTestCtxLogger()
	c := New(WithLogger(log))
	boom := errors.New("boom")
	ran := false

	err := Initialize(c,
		MappingFunc(func(*Container) error { return boom }),
		MappingFunc(func(*Container) error {
			ran = true
			return nil
		}),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "ioc.MappingFunc")
	assert.False(t, ran)
	assert.True(t, log.HasLog("ERROR", "mapping initialization failed"))
}

func TestRedisClientMapping(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New()
	_, err := c.RegisterConstructor(func(addr string) *redis.Client {
		return redis.NewClient(&redis.Options{Addr: addr})
	}, "addr")
	require.NoError(t, err)

	b, err := MapTo[redis.UniversalClient, *redis.Client](c)
	require.NoError(t, err)
	b.WithNamedArgument("addr", mr.Addr())

	client := MustResolve[redis.UniversalClient](c)
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	require.NoError(t, client.Set(ctx, "greeting", "hello", 0).Err())
	got, err := client.Get(ctx, "greeting").Result()
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
	mr.CheckGet(t, "greeting", "hello")
}
