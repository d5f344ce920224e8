// Package launches defines the launch ledger: metadata recorded for
// every task execution, query shapes for listing it and the contracts
// the application services and repositories implement.
package launches
