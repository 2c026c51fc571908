// Package types defines the result structures produced by the schemadelta diff
// engine: atomic schema changes, per-table change groups, and aggregate change
// counts. All types are plain JSON-serializable values so results can be handed
// to UI layers or external tools unchanged.
package types

// ChangeType classifies an atomic schema change.
type ChangeType string

const (
	Addition     ChangeType = "addition"
	Deletion     ChangeType = "deletion"
	Modification ChangeType = "modification"
)

// EntityType identifies which kind of schema entity a change applies to.
type EntityType string

const (
	EntityTable      EntityType = "table"
	EntityColumn     EntityType = "column"
	EntityForeignKey EntityType = "foreignKey"
)

// SchemaChange represents a single atomic difference between two schema
// snapshots. Exactly one change is emitted per affected entity: a column whose
// type, nullability and default all changed still yields a single Modification,
// with the individual attribute transitions listed in Details.
//
// # Details Format
//
// Details maps attribute names to their old->new value transitions:
//
//	change := SchemaChange{
//		ChangeType: Modification,
//		EntityType: EntityColumn,
//		EntityName: "email",
//		Details: map[string]string{
//			"dataType":   "varchar -> nvarchar",
//			"isNullable": "true -> false",
//		},
//	}
//
// Additions and deletions carry an empty Details map.
type SchemaChange struct {
	// ChangeType is Addition, Deletion or Modification
	ChangeType ChangeType `json:"changeType"`

	// EntityType is the kind of entity that changed
	EntityType EntityType `json:"entityType"`

	// EntityName is the name of the changed entity. For tables this is the
	// "schema.name" display key; for columns and foreign keys it is the
	// entity's own name on the surviving side (current for additions and
	// modifications, original for deletions).
	EntityName string `json:"entityName"`

	// TableID is the stable id of the owning table (the table itself for
	// table-level changes)
	TableID string `json:"tableId"`

	// TableName is the owning table's "schema.name" display key
	TableName string `json:"tableName"`

	// ObjectID is the stable id of the changed column or foreign key;
	// empty for table-level changes
	ObjectID string `json:"objectId,omitempty"`

	// Details maps changed attribute names to "old -> new" transitions;
	// populated for modifications only
	Details map[string]string `json:"details,omitempty"`
}

// ChangeGroup collects all changes affecting a single table.
//
// AggregateState is Addition when the whole table is new, Deletion when the
// whole table was removed, and Modification for any internal change to a
// surviving table (including a rename of the table itself).
type ChangeGroup struct {
	// TableID is the stable id of the affected table
	TableID string `json:"tableId"`

	// TableName is the post-change "schema.name" display key (the original
	// snapshot's key for deleted tables)
	TableName string `json:"tableName"`

	// AggregateState summarizes the group as a whole
	AggregateState ChangeType `json:"aggregateState"`

	// Changes lists the group's changes in deterministic order: the
	// table-level change first, then column changes, then foreign key changes
	Changes []SchemaChange `json:"changes"`
}

// ChangeCountSummary holds aggregate change counts. Total is always the sum of
// the three categories.
type ChangeCountSummary struct {
	Additions     int `json:"additions"`
	Modifications int `json:"modifications"`
	Deletions     int `json:"deletions"`
	Total         int `json:"total"`
}

// CountOf returns the count for a single change type.
func (s ChangeCountSummary) CountOf(ct ChangeType) int {
	switch ct {
	case Addition:
		return s.Additions
	case Deletion:
		return s.Deletions
	case Modification:
		return s.Modifications
	}
	return 0
}

// DiffResult is the complete output of one diff pass over two schema snapshots.
type DiffResult struct {
	// HasChanges is true when Changes is non-empty
	HasChanges bool `json:"hasChanges"`

	// Changes lists every atomic change, ordered as the flattened sorted
	// ChangeGroups
	Changes []SchemaChange `json:"changes"`

	// ChangeGroups groups the same changes per table, sorted by TableName
	// case-insensitively ascending
	ChangeGroups []ChangeGroup `json:"changeGroups"`

	// Summary counts the changes by type
	Summary ChangeCountSummary `json:"summary"`
}
