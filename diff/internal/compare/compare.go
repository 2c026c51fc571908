// Package compare implements the matching and comparison primitives behind the
// schemadelta diff engine. Entities are correlated between the two snapshots
// exclusively by their stable ids, so renames surface as modifications instead
// of remove/add pairs.
package compare

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/schemadelta/schemadelta/config"
	"github.com/schemadelta/schemadelta/core/schema"
	difftypes "github.com/schemadelta/schemadelta/diff/types"
)

// Schemas performs the full table-level comparison between an original and a
// current schema snapshot and returns one ChangeGroup per affected table.
//
// # Comparison Process
//
// The function performs comparison in three phases:
//  1. **Table Discovery**: Creates id-indexed lookup maps for both snapshots,
//     excluding tables in ignored namespaces
//  2. **Addition/Deletion Detection**: A table id present only in the current
//     snapshot is an addition; one present only in the original is a deletion
//  3. **Survivor Analysis**: Tables present in both snapshots are compared
//     field by field, including their columns and foreign keys
//
// # Algorithm Complexity
//
// - Time Complexity: O(n + m + k) where n=original tables, m=current tables, k=total columns and foreign keys
// - Space Complexity: O(n + m) for lookup maps
//
// # Output Consistency
//
// Groups are sorted by their "schema.name" display key, case-insensitively
// ascending, with the table id as a tie breaker. Results are fully
// deterministic for any pair of snapshots.
func Schemas(original, current *schema.Schema, opts *config.CompareOptions) []difftypes.ChangeGroup {
	if opts == nil {
		opts = config.DefaultCompareOptions()
	}

	origParticipating := opts.FilterIgnoredTables(original.Tables)
	currParticipating := opts.FilterIgnoredTables(current.Tables)

	// Create id-indexed maps for quick lookup
	origTables := make(map[string]schema.Table, len(origParticipating))
	for _, table := range origParticipating {
		origTables[table.ID] = table
	}

	currTables := make(map[string]schema.Table, len(currParticipating))
	for _, table := range currParticipating {
		currTables[table.ID] = table
	}

	var groups []difftypes.ChangeGroup

	// Added tables: id only in the current snapshot. A brand-new table is a
	// single table-level addition; its columns are implied, not enumerated.
	for _, currTable := range currParticipating {
		if _, exists := origTables[currTable.ID]; exists {
			continue
		}
		groups = append(groups, difftypes.ChangeGroup{
			TableID:        currTable.ID,
			TableName:      currTable.DisplayName(),
			AggregateState: difftypes.Addition,
			Changes:        []difftypes.SchemaChange{tableChange(difftypes.Addition, currTable)},
		})
	}

	// Removed tables: id only in the original snapshot.
	for _, origTable := range origParticipating {
		if _, exists := currTables[origTable.ID]; exists {
			continue
		}
		groups = append(groups, difftypes.ChangeGroup{
			TableID:        origTable.ID,
			TableName:      origTable.DisplayName(),
			AggregateState: difftypes.Deletion,
			Changes:        []difftypes.SchemaChange{tableChange(difftypes.Deletion, origTable)},
		})
	}

	// Surviving tables: compare the table itself, then columns and foreign keys.
	for _, currTable := range currParticipating {
		origTable, exists := origTables[currTable.ID]
		if !exists {
			continue
		}
		changes := Tables(origTable, currTable)
		if len(changes) == 0 {
			continue
		}
		groups = append(groups, difftypes.ChangeGroup{
			TableID:        currTable.ID,
			TableName:      currTable.DisplayName(),
			AggregateState: difftypes.Modification,
			Changes:        changes,
		})
	}

	sortGroups(groups)
	return groups
}

// Tables compares a table that exists in both snapshots, matched by id, and
// returns its changes in deterministic order: the table-level change first (if
// any), then column changes, then foreign key changes.
//
// A rename and a schema-namespace move together still produce a single
// table-level Modification; the individual attribute transitions are listed in
// the change's Details map.
func Tables(origTable, currTable schema.Table) []difftypes.SchemaChange {
	var changes []difftypes.SchemaChange

	details := make(map[string]string)
	if origTable.Name != currTable.Name {
		details["name"] = transition(origTable.Name, currTable.Name)
	}
	if origTable.Schema != currTable.Schema {
		details["schema"] = transition(origTable.Schema, currTable.Schema)
	}
	if len(details) > 0 {
		change := tableChange(difftypes.Modification, currTable)
		change.Details = details
		changes = append(changes, change)
	}

	changes = append(changes, TableColumns(origTable, currTable)...)
	changes = append(changes, TableForeignKeys(origTable, currTable)...)
	return changes
}

// TableColumns performs column-level comparison within a single table, matched
// by column id.
//
// Additions and modifications are emitted in the current snapshot's column
// order; deletions follow, in the original snapshot's column order. One change
// is emitted per affected column regardless of how many attributes differ.
func TableColumns(origTable, currTable schema.Table) []difftypes.SchemaChange {
	origColumns := make(map[string]schema.Column)
	for _, col := range origTable.Columns {
		origColumns[col.ID] = col
	}
	currColumns := make(map[string]schema.Column)
	for _, col := range currTable.Columns {
		currColumns[col.ID] = col
	}

	var changes []difftypes.SchemaChange

	for _, currCol := range currTable.Columns {
		origCol, exists := origColumns[currCol.ID]
		if !exists {
			changes = append(changes, objectChange(difftypes.Addition, difftypes.EntityColumn, currTable, currCol.ID, currCol.Name, nil))
			continue
		}
		if details := Columns(origCol, currCol); len(details) > 0 {
			changes = append(changes, objectChange(difftypes.Modification, difftypes.EntityColumn, currTable, currCol.ID, currCol.Name, details))
		}
	}

	for _, origCol := range origTable.Columns {
		if _, exists := currColumns[origCol.ID]; !exists {
			changes = append(changes, objectChange(difftypes.Deletion, difftypes.EntityColumn, currTable, origCol.ID, origCol.Name, nil))
		}
	}

	return changes
}

// TableForeignKeys performs foreign-key comparison within a single table,
// matched by foreign key id, with the same ordering rules as TableColumns.
func TableForeignKeys(origTable, currTable schema.Table) []difftypes.SchemaChange {
	origFKs := make(map[string]schema.ForeignKey)
	for _, fk := range origTable.ForeignKeys {
		origFKs[fk.ID] = fk
	}
	currFKs := make(map[string]schema.ForeignKey)
	for _, fk := range currTable.ForeignKeys {
		currFKs[fk.ID] = fk
	}

	var changes []difftypes.SchemaChange

	for _, currFK := range currTable.ForeignKeys {
		origFK, exists := origFKs[currFK.ID]
		if !exists {
			changes = append(changes, objectChange(difftypes.Addition, difftypes.EntityForeignKey, currTable, currFK.ID, currFK.Name, nil))
			continue
		}
		if details := ForeignKeys(origFK, currFK); len(details) > 0 {
			changes = append(changes, objectChange(difftypes.Modification, difftypes.EntityForeignKey, currTable, currFK.ID, currFK.Name, details))
		}
	}

	for _, origFK := range origTable.ForeignKeys {
		if _, exists := currFKs[origFK.ID]; !exists {
			changes = append(changes, objectChange(difftypes.Deletion, difftypes.EntityForeignKey, currTable, origFK.ID, origFK.Name, nil))
		}
	}

	return changes
}

// Columns performs attribute-level comparison between two versions of the same
// column and returns the map of "old -> new" transitions. An empty map means
// the column is unchanged.
//
// Every comparable value attribute participates; the id is the correlation key
// and is never compared. Two independently built columns with equal field
// values always compare as unchanged (structural equality, never reference
// identity).
func Columns(origCol, currCol schema.Column) map[string]string {
	details := make(map[string]string)

	if origCol.Name != currCol.Name {
		details["name"] = transition(origCol.Name, currCol.Name)
	}
	if origCol.DataType != currCol.DataType {
		details["dataType"] = transition(origCol.DataType, currCol.DataType)
	}
	if origCol.MaxLength != currCol.MaxLength {
		details["maxLength"] = transition(origCol.MaxLength, currCol.MaxLength)
	}
	if origCol.Precision != currCol.Precision {
		details["precision"] = transition(origCol.Precision, currCol.Precision)
	}
	if origCol.Scale != currCol.Scale {
		details["scale"] = transition(origCol.Scale, currCol.Scale)
	}
	if origCol.IsPrimaryKey != currCol.IsPrimaryKey {
		details["isPrimaryKey"] = transition(origCol.IsPrimaryKey, currCol.IsPrimaryKey)
	}
	if origCol.IsIdentity != currCol.IsIdentity {
		details["isIdentity"] = transition(origCol.IsIdentity, currCol.IsIdentity)
	}
	if origCol.IdentitySeed != currCol.IdentitySeed {
		details["identitySeed"] = transition(origCol.IdentitySeed, currCol.IdentitySeed)
	}
	if origCol.IdentityIncrement != currCol.IdentityIncrement {
		details["identityIncrement"] = transition(origCol.IdentityIncrement, currCol.IdentityIncrement)
	}
	if origCol.IsNullable != currCol.IsNullable {
		details["isNullable"] = transition(origCol.IsNullable, currCol.IsNullable)
	}
	if origCol.DefaultValue != currCol.DefaultValue {
		details["defaultValue"] = transition(origCol.DefaultValue, currCol.DefaultValue)
	}
	if origCol.IsComputed != currCol.IsComputed {
		details["isComputed"] = transition(origCol.IsComputed, currCol.IsComputed)
	}
	if origCol.ComputedFormula != currCol.ComputedFormula {
		details["computedFormula"] = transition(origCol.ComputedFormula, currCol.ComputedFormula)
	}
	if origCol.ComputedPersisted != currCol.ComputedPersisted {
		details["computedPersisted"] = transition(origCol.ComputedPersisted, currCol.ComputedPersisted)
	}

	return details
}

// ForeignKeys performs attribute-level comparison between two versions of the
// same foreign key and returns the map of "old -> new" transitions. An empty
// map means the foreign key is unchanged.
func ForeignKeys(origFK, currFK schema.ForeignKey) map[string]string {
	details := make(map[string]string)

	if origFK.Name != currFK.Name {
		details["name"] = transition(origFK.Name, currFK.Name)
	}
	if !slices.Equal(origFK.Columns, currFK.Columns) {
		details["columns"] = transition(strings.Join(origFK.Columns, ","), strings.Join(currFK.Columns, ","))
	}
	if origFK.ReferencedSchemaName != currFK.ReferencedSchemaName {
		details["referencedSchemaName"] = transition(origFK.ReferencedSchemaName, currFK.ReferencedSchemaName)
	}
	if origFK.ReferencedTableName != currFK.ReferencedTableName {
		details["referencedTableName"] = transition(origFK.ReferencedTableName, currFK.ReferencedTableName)
	}
	if !slices.Equal(origFK.ReferencedColumns, currFK.ReferencedColumns) {
		details["referencedColumns"] = transition(strings.Join(origFK.ReferencedColumns, ","), strings.Join(currFK.ReferencedColumns, ","))
	}
	// Transitions carry the wire spelling ("SET_NULL"), matching the snapshot
	// format, not the SQL spelling ReferentialAction.String produces.
	if origFK.OnDeleteAction != currFK.OnDeleteAction {
		details["onDeleteAction"] = transition(string(origFK.OnDeleteAction), string(currFK.OnDeleteAction))
	}
	if origFK.OnUpdateAction != currFK.OnUpdateAction {
		details["onUpdateAction"] = transition(string(origFK.OnUpdateAction), string(currFK.OnUpdateAction))
	}

	return details
}

// tableChange builds a table-level change record.
func tableChange(ct difftypes.ChangeType, table schema.Table) difftypes.SchemaChange {
	return difftypes.SchemaChange{
		ChangeType: ct,
		EntityType: difftypes.EntityTable,
		EntityName: table.DisplayName(),
		TableID:    table.ID,
		TableName:  table.DisplayName(),
	}
}

// objectChange builds a column- or foreign-key-level change record owned by
// the given table.
func objectChange(ct difftypes.ChangeType, et difftypes.EntityType, table schema.Table, objectID, name string, details map[string]string) difftypes.SchemaChange {
	return difftypes.SchemaChange{
		ChangeType: ct,
		EntityType: et,
		EntityName: name,
		TableID:    table.ID,
		TableName:  table.DisplayName(),
		ObjectID:   objectID,
		Details:    details,
	}
}

// transition formats an attribute change in the "old -> new" format used by
// SchemaChange.Details.
func transition(oldValue, newValue any) string {
	return fmt.Sprintf("%v -> %v", oldValue, newValue)
}

// sortGroups orders change groups by display name, case-insensitively
// ascending. The table id breaks ties so the order stays deterministic even
// when two tables share a display name.
func sortGroups(groups []difftypes.ChangeGroup) {
	coll := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(groups, func(i, j int) bool {
		if cmp := coll.CompareString(groups[i].TableName, groups[j].TableName); cmp != 0 {
			return cmp < 0
		}
		return groups[i].TableID < groups[j].TableID
	})
}
