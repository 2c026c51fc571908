package schema_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/schemadelta/schemadelta/core/schema"
)

func TestNewEntitiesGetUniqueIDs(t *testing.T) {
	c := qt.New(t)

	first := schema.NewTable("dbo", "Users")
	second := schema.NewTable("dbo", "Users")

	c.Assert(first.ID, qt.Not(qt.Equals), "")
	c.Assert(first.ID, qt.Not(qt.Equals), second.ID)

	col := schema.NewColumn("Name", "nvarchar")
	c.Assert(col.ID, qt.Not(qt.Equals), "")
	c.Assert(col.DataType, qt.Equals, "nvarchar")

	fk := schema.NewForeignKey("FK_Users_Tenants")
	c.Assert(fk.ID, qt.Not(qt.Equals), "")
	c.Assert(fk.OnDeleteAction, qt.Equals, schema.NoAction)
	c.Assert(fk.OnUpdateAction, qt.Equals, schema.NoAction)
}

func TestTable_DisplayName(t *testing.T) {
	c := qt.New(t)

	table := schema.Table{Name: "Users", Schema: "dbo"}
	c.Assert(table.DisplayName(), qt.Equals, "dbo.Users")
}

func TestSchema_CloneIsIndependent(t *testing.T) {
	c := qt.New(t)

	original := &schema.Schema{Tables: []schema.Table{
		{
			ID: "t1", Name: "Users", Schema: "dbo",
			Columns: []schema.Column{{ID: "c1", Name: "Name"}},
			ForeignKeys: []schema.ForeignKey{
				{ID: "fk1", Name: "FK", Columns: []string{"a"}, ReferencedColumns: []string{"b"}},
			},
		},
	}}

	clone := original.Clone()
	c.Assert(clone, qt.DeepEquals, original)

	clone.Tables[0].Name = "Customers"
	clone.Tables[0].Columns[0].Name = "FullName"
	clone.Tables[0].ForeignKeys[0].Columns[0] = "z"

	c.Assert(original.Tables[0].Name, qt.Equals, "Users")
	c.Assert(original.Tables[0].Columns[0].Name, qt.Equals, "Name")
	c.Assert(original.Tables[0].ForeignKeys[0].Columns[0], qt.Equals, "a")
}

func TestSchema_CloneNil(t *testing.T) {
	c := qt.New(t)

	var s *schema.Schema
	c.Assert(s.Clone(), qt.IsNil)
}

func TestFindHelpers(t *testing.T) {
	c := qt.New(t)

	s := &schema.Schema{Tables: []schema.Table{
		{
			ID: "t1", Name: "Users", Schema: "dbo",
			Columns:     []schema.Column{{ID: "c1", Name: "Name"}},
			ForeignKeys: []schema.ForeignKey{{ID: "fk1", Name: "FK"}},
		},
	}}

	table := s.FindTable("t1")
	c.Assert(table, qt.IsNotNil)
	c.Assert(table.Name, qt.Equals, "Users")
	c.Assert(s.FindTable("missing"), qt.IsNil)

	c.Assert(table.FindColumn("c1"), qt.IsNotNil)
	c.Assert(table.FindColumn("missing"), qt.IsNil)
	c.Assert(table.FindForeignKey("fk1"), qt.IsNotNil)
	c.Assert(table.FindForeignKey("missing"), qt.IsNil)

	// Find returns a pointer into the schema, so edits stick
	table.FindColumn("c1").Name = "FullName"
	c.Assert(s.Tables[0].Columns[0].Name, qt.Equals, "FullName")
}

func TestReferentialAction_String(t *testing.T) {
	tests := []struct {
		action   schema.ReferentialAction
		expected string
	}{
		{schema.NoAction, "NO ACTION"},
		{schema.Cascade, "CASCADE"},
		{schema.SetNull, "SET NULL"},
		{schema.SetDefault, "SET DEFAULT"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			c := qt.New(t)
			c.Assert(tt.action.String(), qt.Equals, tt.expected)
		})
	}
}

func TestParseReferentialAction(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected schema.ReferentialAction
	}{
		{name: "wire spelling", input: "SET_NULL", expected: schema.SetNull},
		{name: "sql spelling", input: "SET NULL", expected: schema.SetNull},
		{name: "lower case", input: "cascade", expected: schema.Cascade},
		{name: "padded", input: "  SET DEFAULT  ", expected: schema.SetDefault},
		{name: "unknown maps to no action", input: "RESTRICT", expected: schema.NoAction},
		{name: "empty maps to no action", input: "", expected: schema.NoAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			c.Assert(schema.ParseReferentialAction(tt.input), qt.Equals, tt.expected)
		})
	}
}
