package tasks

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownTask is returned when no enabled package provides a task.
var ErrUnknownTask = errors.New("unknown task")

var (
	registryMu sync.RWMutex
	factories  = map[string]map[string]Factory{}
)

// Register makes a task factory available under a package namespace.
// Task implementations call Register from init or an explicit wiring
// step; registering the same package/name pair twice panics, like
// conflicting driver registrations would.
func Register(pkg, name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic(fmt.Sprintf("tasks: nil factory for %s/%s", pkg, name))
	}
	byName, ok := factories[pkg]
	if !ok {
		byName = map[string]Factory{}
		factories[pkg] = byName
	}
	if _, dup := byName[name]; dup {
		panic(fmt.Sprintf("tasks: task %s already registered in package %s", name, pkg))
	}
	byName[name] = factory
}

// Unregister removes a package's registrations. Test helper.
func Unregister(pkg string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, pkg)
}

// Registry resolves task names against an ordered list of enabled
// package namespaces, the in-process form of the host framework's
// user-package discovery list.
type Registry struct {
	packages []string
}

// NewRegistry creates a registry over the given enabled packages. Task
// names are looked up package by package in the given order.
func NewRegistry(packages []string) *Registry {
	return &Registry{packages: packages}
}

// Resolve finds the factory for a task name within the enabled
// packages. It returns ErrUnknownTask (wrapped) when no package
// provides the name.
func (r *Registry) Resolve(name string) (Factory, error) {
	factory, _, err := r.Lookup(name)
	return factory, err
}

// Lookup is Resolve plus the namespace of the providing package.
func (r *Registry) Lookup(name string) (Factory, string, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, pkg := range r.packages {
		if factory, ok := factories[pkg][name]; ok {
			return factory, pkg, nil
		}
	}
	return nil, "", fmt.Errorf("%w: %q not found in packages %v", ErrUnknownTask, name, r.packages)
}

// New resolves a task name and instantiates it with params.
func (r *Registry) New(name string, params map[string]any) (FireTask, error) {
	factory, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}
	task, err := factory(params)
	if err != nil {
		return nil, fmt.Errorf("instantiating task %q: %w", name, err)
	}
	return task, nil
}

// Tasks lists the registered task names per enabled package, sorted.
func (r *Registry) Tasks() map[string][]string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	out := map[string][]string{}
	for _, pkg := range r.packages {
		names := make([]string, 0, len(factories[pkg]))
		for name := range factories[pkg] {
			names = append(names, name)
		}
		sort.Strings(names)
		out[pkg] = names
	}
	return out
}
