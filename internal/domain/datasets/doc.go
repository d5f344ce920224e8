// Package datasets defines the contracts and models for talking to a
// dataset lookup server: readme and manifest retrieval by dataset URI
// and fetching individual dataset items.
package datasets
