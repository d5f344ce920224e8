//go:build unit
// +build unit

package tasks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jotelha/jlhfw/internal/domain/spec"
)

type stubTask struct {
	name   string
	params spec.Spec
}

func (t *stubTask) Name() string { return t.name }

func (t *stubTask) RunTask(_ context.Context, _ spec.Spec) (*Action, error) {
	return &Action{}, nil
}

func stubFactory(name string) Factory {
	return func(params spec.Spec) (FireTask, error) {
		return &stubTask{name: name, params: params}, nil
	}
}

func TestRegistry_ResolveHonorsPackageOrder(t *testing.T) {
	t.Cleanup(func() {
		Unregister("pkg.a")
		Unregister("pkg.b")
	})

	Register("pkg.a", "EchoTask", stubFactory("pkg.a echo"))
	Register("pkg.b", "EchoTask", stubFactory("pkg.b echo"))
	Register("pkg.b", "OnlyInB", stubFactory("b only"))

	registry := NewRegistry([]string{"pkg.a", "pkg.b"})

	task, err := registry.New("EchoTask", nil)
	require.NoError(t, err)
	assert.Equal(t, "pkg.a echo", task.Name())

	task, err = registry.New("OnlyInB", nil)
	require.NoError(t, err)
	assert.Equal(t, "b only", task.Name())
}

func TestRegistry_UnknownTask(t *testing.T) {
	t.Cleanup(func() { Unregister("pkg.known") })
	Register("pkg.known", "KnownTask", stubFactory("known"))

	registry := NewRegistry([]string{"pkg.known"})
	_, err := registry.Resolve("MissingTask")
	assert.ErrorIs(t, err, ErrUnknownTask)

	// a registered task in a package that is not enabled stays invisible
	disabled := NewRegistry([]string{"pkg.other"})
	_, err = disabled.Resolve("KnownTask")
	assert.ErrorIs(t, err, ErrUnknownTask)
}

func TestRegister_DuplicatePanics(t *testing.T) {
	t.Cleanup(func() { Unregister("pkg.dup") })
	Register("pkg.dup", "Task", stubFactory("first"))

	assert.Panics(t, func() {
		Register("pkg.dup", "Task", stubFactory("second"))
	})
}

func TestRegistry_TasksListing(t *testing.T) {
	t.Cleanup(func() { Unregister("pkg.listed") })
	Register("pkg.listed", "ZTask", stubFactory("z"))
	Register("pkg.listed", "ATask", stubFactory("a"))

	registry := NewRegistry([]string{"pkg.listed"})
	listing := registry.Tasks()

	assert.Equal(t, []string{"ATask", "ZTask"}, listing["pkg.listed"])
}
