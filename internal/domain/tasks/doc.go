// Package tasks defines the task-plugin contract of the service: the
// FireTask execution interface, the action a task returns to steer the
// surrounding workflow, the package-scoped task registry and typed
// access to task parameter documents.
package tasks
