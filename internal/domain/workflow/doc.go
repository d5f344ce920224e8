// Package workflow holds the minimal firework/workflow graph model
// needed for dynamic workflow insertions: parsing appendable documents,
// root/leaf bookkeeping, id reassignment and spec updates on children.
package workflow
