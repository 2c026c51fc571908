// Package diff computes structural differences between two relational schema
// snapshots: added, removed and modified tables, columns and foreign keys.
//
// The calculator is a pure function over its inputs. It never mutates either
// snapshot, produces fully deterministic output, and correlates entities by
// their stable ids so that renames are reported as modifications. Callers own
// input validity: snapshots with missing or duplicate ids are a contract
// violation (the snapshot loader rejects them before they reach this layer).
package diff

import (
	"sync"

	"github.com/schemadelta/schemadelta/config"
	"github.com/schemadelta/schemadelta/core/schema"
	"github.com/schemadelta/schemadelta/diff/internal/compare"
	difftypes "github.com/schemadelta/schemadelta/diff/types"
)

// Calculator computes schema diffs. Calculators are stateless and safe for
// concurrent use; construct one with New or NewWithOptions, or use the shared
// instance returned by Default.
type Calculator struct {
	opts *config.CompareOptions
}

// New creates a calculator with default comparison options.
func New() *Calculator {
	return NewWithOptions(nil)
}

// NewWithOptions creates a calculator with the given comparison options.
// A nil opts falls back to config.DefaultCompareOptions.
func NewWithOptions(opts *config.CompareOptions) *Calculator {
	if opts == nil {
		opts = config.DefaultCompareOptions()
	}
	return &Calculator{opts: opts}
}

var (
	defaultOnce       sync.Once
	defaultCalculator *Calculator
)

// Default returns the shared calculator instance with default options,
// constructed lazily on first call. Hosts that need custom options should
// create their own instance with NewWithOptions instead.
func Default() *Calculator {
	defaultOnce.Do(func() {
		defaultCalculator = New()
	})
	return defaultCalculator
}

// Calculate compares two schema snapshots using default options.
// This is a convenience function equivalent to Default().Calculate.
func Calculate(original, current *schema.Schema) *difftypes.DiffResult {
	return Default().Calculate(original, current)
}

// CalculateWithOptions compares two schema snapshots using the given options.
// A nil opts falls back to the defaults.
func CalculateWithOptions(original, current *schema.Schema, opts *config.CompareOptions) *difftypes.DiffResult {
	return NewWithOptions(opts).Calculate(original, current)
}

// Calculate compares the original snapshot against the current one and returns
// the full diff result.
//
// The result contains the same changes twice: once as a flat ordered list and
// once grouped per affected table. Groups are sorted by "schema.name"
// case-insensitively; the flat list is the concatenation of the sorted groups,
// so the grouping invariant sum(len(group.Changes)) == len(Changes) holds for
// every result. The summary counts changes by type and Total is always the sum
// of the three counts.
//
// Two structurally identical snapshots (including independently built clones)
// yield an empty result with HasChanges=false.
func (c *Calculator) Calculate(original, current *schema.Schema) *difftypes.DiffResult {
	groups := compare.Schemas(original, current, c.opts)

	result := &difftypes.DiffResult{
		Changes:      []difftypes.SchemaChange{},
		ChangeGroups: groups,
	}
	if groups == nil {
		result.ChangeGroups = []difftypes.ChangeGroup{}
	}

	for _, group := range groups {
		result.Changes = append(result.Changes, group.Changes...)
	}

	for _, change := range result.Changes {
		switch change.ChangeType {
		case difftypes.Addition:
			result.Summary.Additions++
		case difftypes.Deletion:
			result.Summary.Deletions++
		case difftypes.Modification:
			result.Summary.Modifications++
		}
	}
	result.Summary.Total = result.Summary.Additions + result.Summary.Modifications + result.Summary.Deletions
	result.HasChanges = len(result.Changes) > 0

	return result
}
