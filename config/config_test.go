package config_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/schemadelta/schemadelta/config"
	"github.com/schemadelta/schemadelta/core/schema"
)

func TestDefaultCompareOptions(t *testing.T) {
	c := qt.New(t)

	opts := config.DefaultCompareOptions()

	c.Assert(opts, qt.IsNotNil)
	c.Assert(opts.IgnoredSchemas, qt.DeepEquals, []string{"sys", "INFORMATION_SCHEMA"})
}

func TestWithIgnoredSchemas(t *testing.T) {
	tests := []struct {
		name     string
		schemas  []string
		expected []string
	}{
		{
			name:     "single namespace",
			schemas:  []string{"sys"},
			expected: []string{"sys"},
		},
		{
			name:     "multiple namespaces",
			schemas:  []string{"sys", "staging", "audit"},
			expected: []string{"sys", "staging", "audit"},
		},
		{
			name:     "empty list",
			schemas:  []string{},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			opts := config.WithIgnoredSchemas(tt.schemas...)
			c.Assert(opts.IgnoredSchemas, qt.DeepEquals, tt.expected)
		})
	}
}

func TestWithAdditionalIgnoredSchemas(t *testing.T) {
	tests := []struct {
		name       string
		additional []string
		expected   []string
	}{
		{
			name:       "add single namespace",
			additional: []string{"audit"},
			expected:   []string{"sys", "INFORMATION_SCHEMA", "audit"},
		},
		{
			name:       "add multiple namespaces",
			additional: []string{"audit", "staging"},
			expected:   []string{"sys", "INFORMATION_SCHEMA", "audit", "staging"},
		},
		{
			name:       "add no namespaces",
			additional: []string{},
			expected:   []string{"sys", "INFORMATION_SCHEMA"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			opts := config.WithAdditionalIgnoredSchemas(tt.additional...)
			c.Assert(opts.IgnoredSchemas, qt.DeepEquals, tt.expected)
		})
	}
}

func TestCompareOptions_FilterIgnoredTables(t *testing.T) {
	tableIn := func(namespace, name string) schema.Table {
		return schema.Table{ID: namespace + "." + name, Schema: namespace, Name: name}
	}

	tests := []struct {
		name     string
		ignored  []string
		tables   []schema.Table
		expected []string
	}{
		{
			name:     "removes ignored namespaces",
			ignored:  []string{"sys"},
			tables:   []schema.Table{tableIn("dbo", "users"), tableIn("sys", "objects"), tableIn("dbo", "orders")},
			expected: []string{"dbo.users", "dbo.orders"},
		},
		{
			name:     "matching is case-insensitive",
			ignored:  []string{"INFORMATION_SCHEMA"},
			tables:   []schema.Table{tableIn("information_schema", "tables"), tableIn("dbo", "users")},
			expected: []string{"dbo.users"},
		},
		{
			name:     "preserves input order",
			ignored:  []string{"audit"},
			tables:   []schema.Table{tableIn("dbo", "zeta"), tableIn("audit", "log"), tableIn("dbo", "alpha")},
			expected: []string{"dbo.zeta", "dbo.alpha"},
		},
		{
			name:     "empty ignore list keeps everything",
			ignored:  []string{},
			tables:   []schema.Table{tableIn("sys", "objects"), tableIn("dbo", "users")},
			expected: []string{"sys.objects", "dbo.users"},
		},
		{
			name:     "no tables",
			ignored:  []string{"sys"},
			tables:   nil,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			opts := config.WithIgnoredSchemas(tt.ignored...)
			filtered := opts.FilterIgnoredTables(tt.tables)

			ids := make([]string, 0, len(filtered))
			for _, table := range filtered {
				ids = append(ids, table.ID)
			}
			c.Assert(ids, qt.DeepEquals, tt.expected)
		})
	}
}

func TestCompareOptions_IsSchemaIgnored(t *testing.T) {
	tests := []struct {
		name       string
		ignored    []string
		schemaName string
		expected   bool
	}{
		{
			name:       "namespace is ignored",
			ignored:    []string{"sys", "audit"},
			schemaName: "sys",
			expected:   true,
		},
		{
			name:       "matching is case-insensitive",
			ignored:    []string{"INFORMATION_SCHEMA"},
			schemaName: "information_schema",
			expected:   true,
		},
		{
			name:       "namespace is not ignored",
			ignored:    []string{"sys"},
			schemaName: "dbo",
			expected:   false,
		},
		{
			name:       "empty ignore list",
			ignored:    []string{},
			schemaName: "sys",
			expected:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			opts := config.WithIgnoredSchemas(tt.ignored...)
			c.Assert(opts.IsSchemaIgnored(tt.schemaName), qt.Equals, tt.expected)
		})
	}
}
