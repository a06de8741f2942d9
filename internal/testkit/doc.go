// Package testkit holds invariant checkers shared by tests across packages.
package testkit
