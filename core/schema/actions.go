package schema

import "strings"

// ReferentialAction is the action a foreign key takes on delete or update of a
// referenced row.
type ReferentialAction string

const (
	NoAction   ReferentialAction = "NO_ACTION"
	Cascade    ReferentialAction = "CASCADE"
	SetNull    ReferentialAction = "SET_NULL"
	SetDefault ReferentialAction = "SET_DEFAULT"
)

// String returns the SQL spelling of the action, e.g. "NO ACTION".
func (a ReferentialAction) String() string {
	return strings.ReplaceAll(string(a), "_", " ")
}

// ParseReferentialAction parses both the wire spelling ("SET_NULL") and the SQL
// spelling ("SET NULL"), case-insensitively. Unknown input maps to NoAction,
// which is also the SQL Server default for omitted actions.
func ParseReferentialAction(s string) ReferentialAction {
	normalized := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), " ", "_")
	switch ReferentialAction(normalized) {
	case Cascade:
		return Cascade
	case SetNull:
		return SetNull
	case SetDefault:
		return SetDefault
	default:
		return NoAction
	}
}
