package firetasks

import (
	"github.com/jotelha/jlhfw/internal/domain/datasets"
	"github.com/jotelha/jlhfw/internal/domain/spec"
	"github.com/jotelha/jlhfw/internal/domain/tasks"
	"github.com/jotelha/jlhfw/internal/pkg/logger"
)

// Package is the namespace the built-in tasks register under. Task
// resolution scans enabled package namespaces in configured order, so
// deployments can shadow built-ins with their own packages.
const Package = "jlhfw.firetasks"

// Deps carries the shared dependencies task factories close over.
type Deps struct {
	Datasets datasets.DatasetConnector
	Logger   logger.Logger
}

// Register wires all built-in task factories into the task registry
// under the Package namespace. Call once during startup.
func Register(deps Deps) {
	tasks.Register(Package, RecoverTaskName, func(params spec.Spec) (tasks.FireTask, error) {
		return NewRecoverTask(params, deps.Logger)
	})
	tasks.Register(Package, ReadmeTaskName, func(params spec.Spec) (tasks.FireTask, error) {
		return NewReadmeTask(params, deps.Datasets, deps.Logger)
	})
	tasks.Register(Package, ManifestTaskName, func(params spec.Spec) (tasks.FireTask, error) {
		return NewManifestTask(params, deps.Datasets, deps.Logger)
	})
	tasks.Register(Package, FetchItemTaskName, func(params spec.Spec) (tasks.FireTask, error) {
		return NewFetchItemTask(params, deps.Datasets, deps.Logger)
	})
	tasks.Register(Package, SearchDictTaskName, func(params spec.Spec) (tasks.FireTask, error) {
		return NewSearchDictTask(params, deps.Logger)
	})
}
