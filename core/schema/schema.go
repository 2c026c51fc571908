// Package schema defines the core data structures used throughout the schemadelta
// diff engine. These types represent a snapshot of a relational schema — tables,
// columns and foreign keys — as edited by a schema designer working copy.
//
// Every entity carries a stable identifier that survives renames. The diff engine
// correlates entities between two snapshots exclusively by these ids, never by
// name, so a renamed column is reported as a modification rather than as a
// remove/add pair.
package schema

import "github.com/google/uuid"

// Schema represents a complete schema snapshot. A schema has no identity of its
// own beyond its table set.
type Schema struct {
	Tables []Table `json:"tables" yaml:"tables"`
}

// Table represents a table in a schema snapshot.
//
// ID is stable across edits: renaming the table or moving it to another schema
// namespace changes Name/Schema but never ID. The pair (Schema, Name) is the
// human-facing display key.
type Table struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Schema      string       `json:"schema" yaml:"schema"` // namespace, e.g. "dbo"
	Columns     []Column     `json:"columns" yaml:"columns"`
	ForeignKeys []ForeignKey `json:"foreignKeys" yaml:"foreignKeys"`
}

// Column represents a table column. ID is the sole correlation key; all other
// fields are comparable value attributes.
type Column struct {
	ID                string `json:"id" yaml:"id"`
	Name              string `json:"name" yaml:"name"`
	DataType          string `json:"dataType" yaml:"dataType"`
	MaxLength         int    `json:"maxLength" yaml:"maxLength"` // for VARCHAR etc., -1 means MAX
	Precision         int    `json:"precision" yaml:"precision"` // for DECIMAL etc.
	Scale             int    `json:"scale" yaml:"scale"`
	IsPrimaryKey      bool   `json:"isPrimaryKey" yaml:"isPrimaryKey"`
	IsIdentity        bool   `json:"isIdentity" yaml:"isIdentity"`
	IdentitySeed      int64  `json:"identitySeed" yaml:"identitySeed"`
	IdentityIncrement int64  `json:"identityIncrement" yaml:"identityIncrement"`
	IsNullable        bool   `json:"isNullable" yaml:"isNullable"`
	DefaultValue      string `json:"defaultValue" yaml:"defaultValue"`
	IsComputed        bool   `json:"isComputed" yaml:"isComputed"`
	ComputedFormula   string `json:"computedFormula" yaml:"computedFormula"`
	ComputedPersisted bool   `json:"computedPersisted" yaml:"computedPersisted"`
}

// ForeignKey represents a foreign key constraint owned by a table.
type ForeignKey struct {
	ID                   string            `json:"id" yaml:"id"`
	Name                 string            `json:"name" yaml:"name"`
	Columns              []string          `json:"columns" yaml:"columns"` // source column names, ordered
	ReferencedSchemaName string            `json:"referencedSchemaName" yaml:"referencedSchemaName"`
	ReferencedTableName  string            `json:"referencedTableName" yaml:"referencedTableName"`
	ReferencedColumns    []string          `json:"referencedColumns" yaml:"referencedColumns"`
	OnDeleteAction       ReferentialAction `json:"onDeleteAction" yaml:"onDeleteAction"`
	OnUpdateAction       ReferentialAction `json:"onUpdateAction" yaml:"onUpdateAction"`
}

// NewTable creates a table with a freshly minted stable id. The working-copy
// editor uses this when the user adds a table in the designer.
func NewTable(schemaName, name string) Table {
	return Table{
		ID:     uuid.NewString(),
		Name:   name,
		Schema: schemaName,
	}
}

// NewColumn creates a column with a freshly minted stable id.
func NewColumn(name, dataType string) Column {
	return Column{
		ID:       uuid.NewString(),
		Name:     name,
		DataType: dataType,
	}
}

// NewForeignKey creates a foreign key with a freshly minted stable id and
// NO ACTION referential actions.
func NewForeignKey(name string) ForeignKey {
	return ForeignKey{
		ID:             uuid.NewString(),
		Name:           name,
		OnDeleteAction: NoAction,
		OnUpdateAction: NoAction,
	}
}

// DisplayName returns the human-facing "schema.name" key for the table.
func (t Table) DisplayName() string {
	return t.Schema + "." + t.Name
}

// FindTable returns the table with the given id, or nil if absent.
func (s *Schema) FindTable(id string) *Table {
	for i := range s.Tables {
		if s.Tables[i].ID == id {
			return &s.Tables[i]
		}
	}
	return nil
}

// FindColumn returns the column with the given id, or nil if absent.
func (t *Table) FindColumn(id string) *Column {
	for i := range t.Columns {
		if t.Columns[i].ID == id {
			return &t.Columns[i]
		}
	}
	return nil
}

// FindForeignKey returns the foreign key with the given id, or nil if absent.
func (t *Table) FindForeignKey(id string) *ForeignKey {
	for i := range t.ForeignKeys {
		if t.ForeignKeys[i].ID == id {
			return &t.ForeignKeys[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the schema. The diff engine never mutates its
// inputs, but the ledger's undo path needs an independent working copy.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	out := &Schema{Tables: make([]Table, len(s.Tables))}
	for i := range s.Tables {
		out.Tables[i] = s.Tables[i].Clone()
	}
	return out
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	out := t
	out.Columns = append([]Column(nil), t.Columns...)
	out.ForeignKeys = make([]ForeignKey, len(t.ForeignKeys))
	for i := range t.ForeignKeys {
		out.ForeignKeys[i] = t.ForeignKeys[i].Clone()
	}
	return out
}

// Clone returns a deep copy of the foreign key.
func (fk ForeignKey) Clone() ForeignKey {
	out := fk
	out.Columns = append([]string(nil), fk.Columns...)
	out.ReferencedColumns = append([]string(nil), fk.ReferencedColumns...)
	return out
}
