package health

import (
	"context"
	"errors"
	htmltemplate "html/template"
	"reflect"
	"testing"
	texttemplate "text/template"
	"time"

	"github.com/KOMKZ/go-yogan-ioc/ioc"
	"github.com/KOMKZ/go-yogan-ioc/mapping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockChecker struct {
	name string
	err  error
	fail bool
}

func (m *mockChecker) Name() string { return m.name }

func (m *mockChecker) Check(ctx context.Context) error {
	if m.fail {
		panic("boom")
	}
	return m.err
}

func TestAggregator_Check(t *testing.T) {
	tests := []struct {
		name     string
		checkers []Checker
		want     Status
	}{
		{name: "无检查项", want: StatusHealthy},
		{
			name:     "全部通过",
			checkers: []Checker{&mockChecker{name: "a"}, &mockChecker{name: "b"}},
			want:     StatusHealthy,
		},
		{
			name:     "部分失败",
			checkers: []Checker{&mockChecker{name: "a"}, &mockChecker{name: "b", err: errors.New("down")}},
			want:     StatusUnhealthy,
		},
		{
			name:     "panic 视为失败",
			checkers: []Checker{&mockChecker{name: "a", fail: true}},
			want:     StatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAggregator(time.Second)
			a.Register(tt.checkers...)

			resp := a.Check(context.Background())
			assert.Equal(t, tt.want, resp.Status)
			assert.Len(t, resp.Checks, len(tt.checkers))
		})
	}
}

func TestAggregator_PanicMessage(t *testing.T) {
	a := NewAggregator(0)
	a.Register(&mockChecker{name: "p", fail: true})

	resp := a.Check(context.Background())
	assert.Equal(t, "panic: boom", resp.Checks["p"].Error)
	assert.Equal(t, []string{"p"}, resp.Failed())
}

type store interface{ Ping() error }

type memStore struct{}

func (memStore) Ping() error { return nil }

type cache interface{ Get(string) string }

func TestCheckContainer(t *testing.T) {
	c := ioc.New()
	_, err := ioc.MapTo[store, memStore](c)
	require.NoError(t, err)

	resp := CheckContainer(context.Background(), c, time.Second)
	assert.True(t, resp.IsHealthy())
	require.Contains(t, resp.Checks, "github.com/KOMKZ/go-yogan-ioc/health.store")

	// a mapping whose constructor cannot be satisfied
	_, err = c.RegisterConstructor(func(s string) *lruCache { return &lruCache{prefix: s} }, "prefix")
	require.NoError(t, err)
	_, err = ioc.MapTo[cache, *lruCache](c)
	require.NoError(t, err)

	resp = CheckContainer(context.Background(), c, time.Second)
	assert.False(t, resp.IsHealthy())
	assert.Equal(t, []string{"github.com/KOMKZ/go-yogan-ioc/health.cache"}, resp.Failed())
	assert.Contains(t, resp.Checks["github.com/KOMKZ/go-yogan-ioc/health.cache"].Error, "prefix")
}

type lruCache struct{ prefix string }

func (l *lruCache) Get(k string) string { return l.prefix + k }

type blockingChecker struct {
	name    string
	release chan struct{}
}

func (b *blockingChecker) Name() string { return b.name }

func (b *blockingChecker) Check(ctx context.Context) error {
	<-b.release
	return nil
}

func TestAggregator_Timeout(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	a := NewAggregator(50 * time.Millisecond)
	a.Register(&mockChecker{name: "fast"}, &blockingChecker{name: "stuck", release: release})

	done := make(chan *Response, 1)
	go func() { done <- a.Check(context.Background()) }()

	var resp *Response
	select {
	case resp = <-done:
	case <-time.After(time.Second):
		t.Fatal("Check 未在超时后返回")
	}

	assert.Equal(t, StatusUnhealthy, resp.Status)
	require.Len(t, resp.Checks, 2)
	assert.Equal(t, StatusHealthy, resp.Checks["fast"].Status)
	assert.Equal(t, StatusUnhealthy, resp.Checks["stuck"].Status)
	assert.Equal(t, "timeout", resp.Checks["stuck"].Error)
	assert.Equal(t, []string{"stuck"}, resp.Failed())
}

func TestAggregator_ParentContextCanceled(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := NewAggregator(time.Minute)
	a.Register(&blockingChecker{name: "stuck", release: release})

	resp := a.Check(ctx)
	assert.False(t, resp.IsHealthy())
	assert.Equal(t, "timeout", resp.Checks["stuck"].Error)
}

func TestQualifiedName(t *testing.T) {
	assert.Equal(t, "github.com/KOMKZ/go-yogan-ioc/health.store", QualifiedName(reflect.TypeFor[store]()))
	assert.Equal(t, "*text/template.Template", QualifiedName(reflect.TypeFor[*texttemplate.Template]()))
	assert.Equal(t, "*html/template.Template", QualifiedName(reflect.TypeFor[*htmltemplate.Template]()))
	assert.Equal(t, "[]int", QualifiedName(reflect.TypeFor[[]int]()))
}

func TestMappingCheckers_SameShortName(t *testing.T) {
	c := ioc.New()
	_, err := mapping.ForValue(ioc.Map[*texttemplate.Template](c), texttemplate.New("t"))
	require.NoError(t, err)
	_, err = mapping.ForValue(ioc.Map[*htmltemplate.Template](c), htmltemplate.New("h"))
	require.NoError(t, err)
	// 两个 key 的短名都是 []template.Template
	_, err = mapping.ForValue(ioc.Map[[]texttemplate.Template](c), []texttemplate.Template{})
	require.NoError(t, err)
	_, err = mapping.ForValue(ioc.Map[[]htmltemplate.Template](c), []htmltemplate.Template{})
	require.NoError(t, err)

	checkers := MappingCheckers(c)
	names := make([]string, len(checkers))
	for i, ch := range checkers {
		names[i] = ch.Name()
	}
	assert.Equal(t, []string{
		"*html/template.Template",
		"*text/template.Template",
		"[]template.Template",
		"[]template.Template#2",
	}, names)

	resp := CheckContainer(context.Background(), c, time.Second)
	assert.True(t, resp.IsHealthy())
	assert.Len(t, resp.Checks, 4)
}
