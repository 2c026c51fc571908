// Package snapshot materializes schema snapshots from files for the CLI and
// other hosts. It is the validating boundary in front of the diff engine: the
// calculator assumes well-formed snapshots, so the loader rejects entities with
// missing or duplicate ids before they reach it.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/schemadelta/schemadelta/core/schema"
)

var (
	// ErrUnsupportedFormat is returned for file extensions other than
	// .json, .yaml and .yml.
	ErrUnsupportedFormat = errors.New("unsupported snapshot format")

	// ErrMissingID is returned when a table, column or foreign key has an
	// empty id.
	ErrMissingID = errors.New("entity is missing an id")

	// ErrDuplicateID is returned when two entities in the same collection
	// share an id.
	ErrDuplicateID = errors.New("duplicate entity id")

	// ErrInvalidAction is returned when a foreign key carries a referential
	// action outside the NO_ACTION/CASCADE/SET_NULL/SET_DEFAULT enumeration.
	ErrInvalidAction = errors.New("invalid referential action")
)

// Load reads a schema snapshot from a JSON or YAML file, chosen by extension,
// and validates it with Validate.
func Load(path string) (*schema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snap schema.Schema
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%s: %w (use .json, .yaml or .yml)", path, ErrUnsupportedFormat)
	}

	if err := Validate(&snap); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &snap, nil
}

// Validate checks the id invariants the diff engine relies on — every table,
// column and foreign key has a non-empty id, table ids are unique within the
// schema, and column and foreign key ids are unique within their table — and
// canonicalizes foreign key referential actions to their wire spelling.
//
// Actions accept both the wire spelling ("SET_NULL") and the SQL spelling
// ("SET NULL"), case-insensitively; an omitted action defaults to NO_ACTION.
// Anything outside the enumeration is rejected with ErrInvalidAction, so two
// snapshots spelling the same action differently always diff as unchanged.
func Validate(snap *schema.Schema) error {
	tableIDs := make(map[string]struct{}, len(snap.Tables))
	for i := range snap.Tables {
		table := &snap.Tables[i]
		if table.ID == "" {
			return fmt.Errorf("table %q: %w", table.DisplayName(), ErrMissingID)
		}
		if _, seen := tableIDs[table.ID]; seen {
			return fmt.Errorf("table id %q: %w", table.ID, ErrDuplicateID)
		}
		tableIDs[table.ID] = struct{}{}

		colIDs := make(map[string]struct{}, len(table.Columns))
		for _, col := range table.Columns {
			if col.ID == "" {
				return fmt.Errorf("table %q column %q: %w", table.DisplayName(), col.Name, ErrMissingID)
			}
			if _, seen := colIDs[col.ID]; seen {
				return fmt.Errorf("table %q column id %q: %w", table.DisplayName(), col.ID, ErrDuplicateID)
			}
			colIDs[col.ID] = struct{}{}
		}

		fkIDs := make(map[string]struct{}, len(table.ForeignKeys))
		for j := range table.ForeignKeys {
			fk := &table.ForeignKeys[j]
			if fk.ID == "" {
				return fmt.Errorf("table %q foreign key %q: %w", table.DisplayName(), fk.Name, ErrMissingID)
			}
			if _, seen := fkIDs[fk.ID]; seen {
				return fmt.Errorf("table %q foreign key id %q: %w", table.DisplayName(), fk.ID, ErrDuplicateID)
			}
			fkIDs[fk.ID] = struct{}{}

			action, err := canonicalAction(fk.OnDeleteAction)
			if err != nil {
				return fmt.Errorf("table %q foreign key %q onDeleteAction: %w", table.DisplayName(), fk.Name, err)
			}
			fk.OnDeleteAction = action

			action, err = canonicalAction(fk.OnUpdateAction)
			if err != nil {
				return fmt.Errorf("table %q foreign key %q onUpdateAction: %w", table.DisplayName(), fk.Name, err)
			}
			fk.OnUpdateAction = action
		}
	}
	return nil
}

// canonicalAction maps any accepted spelling of a referential action to the
// wire form. Unlike schema.ParseReferentialAction, spellings outside the
// enumeration are rejected instead of defaulted to NO_ACTION.
func canonicalAction(raw schema.ReferentialAction) (schema.ReferentialAction, error) {
	normalized := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(string(raw))), " ", "_")
	switch schema.ReferentialAction(normalized) {
	case "":
		return schema.NoAction, nil
	case schema.NoAction, schema.Cascade, schema.SetNull, schema.SetDefault:
		return schema.ReferentialAction(normalized), nil
	}
	return "", fmt.Errorf("%q: %w", raw, ErrInvalidAction)
}
