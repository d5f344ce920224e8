// Package firetasks provides the built-in task implementations
// registered under the "jlhfw.firetasks" package namespace: workflow
// recovery with restart insertion and the dataset lookup task family.
package firetasks
