// Package mocks provides hand-written mock implementations of the store and
// service interfaces for handler and service tests. Each mock offers
// function fields for per-test overrides plus a simple in-memory default.
package mocks
