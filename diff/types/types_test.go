package types_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/schemadelta/schemadelta/diff/types"
)

func TestChangeCountSummary_CountOf(t *testing.T) {
	summary := types.ChangeCountSummary{
		Additions:     3,
		Modifications: 2,
		Deletions:     1,
		Total:         6,
	}

	tests := []struct {
		name       string
		changeType types.ChangeType
		expected   int
	}{
		{
			name:       "additions",
			changeType: types.Addition,
			expected:   3,
		},
		{
			name:       "modifications",
			changeType: types.Modification,
			expected:   2,
		},
		{
			name:       "deletions",
			changeType: types.Deletion,
			expected:   1,
		},
		{
			name:       "unknown change type",
			changeType: types.ChangeType("bogus"),
			expected:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			c.Assert(summary.CountOf(tt.changeType), qt.Equals, tt.expected)
		})
	}
}

func TestChangeCountSummary_CountOf_ZeroValue(t *testing.T) {
	c := qt.New(t)

	var summary types.ChangeCountSummary

	c.Assert(summary.CountOf(types.Addition), qt.Equals, 0)
	c.Assert(summary.CountOf(types.Modification), qt.Equals, 0)
	c.Assert(summary.CountOf(types.Deletion), qt.Equals, 0)
}
