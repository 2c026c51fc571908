// Package config provides configuration options for the schemadelta diff engine.
//
// This package provides a simple, programmatic API for configuring schema
// comparison behavior when using schemadelta as a library. It focuses on clean
// Go APIs rather than external configuration file management.
package config

import (
	"strings"

	"github.com/schemadelta/schemadelta/core/schema"
)

// CompareOptions contains configuration options for schema comparison
// operations. These options control how schema differences are calculated and
// what elements should be ignored during comparison.
type CompareOptions struct {
	// IgnoredSchemas is a list of schema namespaces that should be ignored
	// during comparison. Tables in these namespaces will:
	// - Never be reported as added, removed or modified
	// - Be excluded from change counts and change groups
	// - Be treated as if they don't exist for comparison purposes
	//
	// Matching is case-insensitive, following SQL Server's default collation
	// behavior for object names.
	//
	// Common namespaces to ignore include:
	// - sys: system objects, never user-managed
	// - INFORMATION_SCHEMA: ANSI metadata views
	IgnoredSchemas []string
}

// DefaultCompareOptions returns the default comparison options with sensible
// defaults. The default configuration ignores the built-in namespaces that
// SQL Server tooling never diffs.
func DefaultCompareOptions() *CompareOptions {
	return &CompareOptions{
		IgnoredSchemas: []string{
			"sys",
			"INFORMATION_SCHEMA",
		},
	}
}

// WithIgnoredSchemas returns a new CompareOptions with the specified ignored
// namespaces. This completely replaces the default ignored list.
//
// Example:
//
//	opts := config.WithIgnoredSchemas("sys", "staging")
func WithIgnoredSchemas(schemas ...string) *CompareOptions {
	return &CompareOptions{
		IgnoredSchemas: schemas,
	}
}

// WithAdditionalIgnoredSchemas returns a new CompareOptions that includes the
// default ignored namespaces plus the additional ones specified.
//
// Example:
//
//	opts := config.WithAdditionalIgnoredSchemas("audit")
//	// Result: ["sys", "INFORMATION_SCHEMA", "audit"]
func WithAdditionalIgnoredSchemas(schemas ...string) *CompareOptions {
	defaults := DefaultCompareOptions()
	all := make([]string, len(defaults.IgnoredSchemas)+len(schemas))
	copy(all, defaults.IgnoredSchemas)
	copy(all[len(defaults.IgnoredSchemas):], schemas)

	return &CompareOptions{
		IgnoredSchemas: all,
	}
}

// IsSchemaIgnored checks if the given schema namespace should be ignored
// during comparison based on the current configuration.
func (c *CompareOptions) IsSchemaIgnored(schemaName string) bool {
	for _, ignored := range c.IgnoredSchemas {
		if strings.EqualFold(ignored, schemaName) {
			return true
		}
	}
	return false
}

// FilterIgnoredTables removes tables in ignored namespaces from the provided
// slice and returns a new slice containing only tables that participate in
// comparison, preserving input order.
func (c *CompareOptions) FilterIgnoredTables(tables []schema.Table) []schema.Table {
	filtered := make([]schema.Table, 0, len(tables))
	for _, table := range tables {
		if !c.IsSchemaIgnored(table.Schema) {
			filtered = append(filtered, table)
		}
	}
	return filtered
}
