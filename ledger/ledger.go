// Package ledger implements the pending-change review workflow on top of the
// diff engine. Changes proposed against a working schema copy (for example by
// an AI edit pass) are recorded as pending entries that a reviewer can accept
// or undo one by one. Undo replays the recorded change in reverse against the
// working copy, restoring the entity from the baseline snapshot.
//
// The ledger keeps a change-count tracker in sync as entries are recorded and
// undone, so badge counts stay accurate without re-running a full diff after
// every review action.
package ledger

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/schemadelta/schemadelta/core/schema"
	difftypes "github.com/schemadelta/schemadelta/diff/types"
	"github.com/schemadelta/schemadelta/track"
)

var (
	// ErrNotFound is returned when no pending change has the requested id.
	ErrNotFound = errors.New("pending change not found")

	// ErrAlreadyAccepted is returned when accepting or undoing a change that
	// has already been accepted.
	ErrAlreadyAccepted = errors.New("pending change already accepted")
)

// Status is the review state of a recorded change.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
)

// PendingChange is one recorded schema change awaiting review.
type PendingChange struct {
	// ID identifies the ledger entry itself, independent of the schema
	// entity ids inside the change
	ID string `json:"id"`

	// Change is the recorded schema change
	Change difftypes.SchemaChange `json:"change"`

	// Status is the entry's review state
	Status Status `json:"status"`
}

// Ledger tracks pending schema changes against a working copy. All methods are
// goroutine-safe.
type Ledger struct {
	mu       sync.Mutex
	baseline *schema.Schema
	working  *schema.Schema
	tracker  *track.Tracker
	logger   *slog.Logger
	entries  []*PendingChange
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger used for review actions.
func WithLogger(l *slog.Logger) Option {
	return func(lg *Ledger) {
		lg.logger = l
	}
}

// New creates a ledger over the given baseline snapshot and working copy.
// The baseline is cloned internally and never mutated; the working copy is
// mutated in place by Undo. A nil tracker gets a fresh one.
func New(baseline, working *schema.Schema, tr *track.Tracker, opts ...Option) *Ledger {
	if tr == nil {
		tr = track.NewTracker()
	}
	lg := &Ledger{
		baseline: baseline.Clone(),
		working:  working,
		tracker:  tr,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(lg)
	}
	return lg
}

// Tracker returns the change-count tracker the ledger keeps in sync.
func (lg *Ledger) Tracker() *track.Tracker {
	return lg.tracker
}

// WorkingCopy returns the working schema the ledger replays undos against.
func (lg *Ledger) WorkingCopy() *schema.Schema {
	return lg.working
}

// Record registers schema changes as pending entries and bumps the tracker
// once per change. It returns the created entries in input order.
func (lg *Ledger) Record(changes ...difftypes.SchemaChange) []PendingChange {
	lg.mu.Lock()
	created := make([]PendingChange, 0, len(changes))
	for _, change := range changes {
		entry := &PendingChange{
			ID:     uuid.NewString(),
			Change: change,
			Status: StatusPending,
		}
		lg.entries = append(lg.entries, entry)
		created = append(created, *entry)
	}
	lg.mu.Unlock()

	for _, entry := range created {
		lg.tracker.Increment(entry.Change.ChangeType)
		lg.logger.Debug("recorded pending change",
			"entry", entry.ID,
			"changeType", entry.Change.ChangeType,
			"entityType", entry.Change.EntityType,
			"entity", entry.Change.EntityName)
	}
	return created
}

// Pending returns a copy of all entries still awaiting review.
func (lg *Ledger) Pending() []PendingChange {
	lg.mu.Lock()
	defer lg.mu.Unlock()

	pending := make([]PendingChange, 0, len(lg.entries))
	for _, entry := range lg.entries {
		if entry.Status == StatusPending {
			pending = append(pending, *entry)
		}
	}
	return pending
}

// Accept marks the pending change as accepted. The working copy already
// contains the change, so the schema and the tracker are left untouched.
func (lg *Ledger) Accept(id string) error {
	lg.mu.Lock()
	defer lg.mu.Unlock()

	entry := lg.findLocked(id)
	if entry == nil {
		return fmt.Errorf("accept %q: %w", id, ErrNotFound)
	}
	if entry.Status == StatusAccepted {
		return fmt.Errorf("accept %q: %w", id, ErrAlreadyAccepted)
	}
	entry.Status = StatusAccepted
	lg.logger.Debug("accepted change", "entry", id, "entity", entry.Change.EntityName)
	return nil
}

// AcceptAll marks every pending change as accepted and returns the number of
// entries affected.
func (lg *Ledger) AcceptAll() int {
	lg.mu.Lock()
	defer lg.mu.Unlock()

	n := 0
	for _, entry := range lg.entries {
		if entry.Status == StatusPending {
			entry.Status = StatusAccepted
			n++
		}
	}
	return n
}

// Undo reverts the pending change against the working copy and removes the
// entry, decrementing the tracker. Recorded additions are removed from the
// working copy; deletions are restored from the baseline; modifications have
// their attributes restored from the baseline entity with the same id.
// Accepted entries can no longer be undone.
func (lg *Ledger) Undo(id string) error {
	lg.mu.Lock()

	entry := lg.findLocked(id)
	if entry == nil {
		lg.mu.Unlock()
		return fmt.Errorf("undo %q: %w", id, ErrNotFound)
	}
	if entry.Status == StatusAccepted {
		lg.mu.Unlock()
		return fmt.Errorf("undo %q: %w", id, ErrAlreadyAccepted)
	}

	if err := lg.revertLocked(entry.Change); err != nil {
		lg.mu.Unlock()
		return fmt.Errorf("undo %q: %w", id, err)
	}
	lg.removeLocked(id)
	lg.mu.Unlock()

	lg.tracker.Decrement(entry.Change.ChangeType)
	lg.logger.Debug("undid change",
		"entry", id,
		"changeType", entry.Change.ChangeType,
		"entity", entry.Change.EntityName)
	return nil
}

// Resync anchors the tracker to the authoritative counts of a full diff pass.
func (lg *Ledger) Resync(result *difftypes.DiffResult) {
	lg.tracker.SetFromSummary(result.Summary)
}

func (lg *Ledger) findLocked(id string) *PendingChange {
	for _, entry := range lg.entries {
		if entry.ID == id {
			return entry
		}
	}
	return nil
}

func (lg *Ledger) removeLocked(id string) {
	for i, entry := range lg.entries {
		if entry.ID == id {
			lg.entries = append(lg.entries[:i], lg.entries[i+1:]...)
			return
		}
	}
}

// revertLocked replays a recorded change in reverse against the working copy.
func (lg *Ledger) revertLocked(change difftypes.SchemaChange) error {
	switch change.EntityType {
	case difftypes.EntityTable:
		return lg.revertTableLocked(change)
	case difftypes.EntityColumn:
		return lg.revertColumnLocked(change)
	case difftypes.EntityForeignKey:
		return lg.revertForeignKeyLocked(change)
	}
	return fmt.Errorf("unknown entity type %q", change.EntityType)
}

func (lg *Ledger) revertTableLocked(change difftypes.SchemaChange) error {
	switch change.ChangeType {
	case difftypes.Addition:
		return lg.removeTableLocked(change.TableID)
	case difftypes.Deletion:
		baseTable := lg.baseline.FindTable(change.TableID)
		if baseTable == nil {
			return fmt.Errorf("baseline has no table %q: %w", change.TableID, ErrNotFound)
		}
		lg.working.Tables = append(lg.working.Tables, baseTable.Clone())
		return nil
	case difftypes.Modification:
		workTable := lg.working.FindTable(change.TableID)
		baseTable := lg.baseline.FindTable(change.TableID)
		if workTable == nil || baseTable == nil {
			return fmt.Errorf("table %q: %w", change.TableID, ErrNotFound)
		}
		workTable.Name = baseTable.Name
		workTable.Schema = baseTable.Schema
		return nil
	}
	return fmt.Errorf("unknown change type %q", change.ChangeType)
}

func (lg *Ledger) revertColumnLocked(change difftypes.SchemaChange) error {
	workTable := lg.working.FindTable(change.TableID)
	if workTable == nil {
		return fmt.Errorf("working copy has no table %q: %w", change.TableID, ErrNotFound)
	}

	switch change.ChangeType {
	case difftypes.Addition:
		for i := range workTable.Columns {
			if workTable.Columns[i].ID == change.ObjectID {
				workTable.Columns = append(workTable.Columns[:i], workTable.Columns[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("column %q: %w", change.ObjectID, ErrNotFound)
	case difftypes.Deletion, difftypes.Modification:
		baseTable := lg.baseline.FindTable(change.TableID)
		if baseTable == nil {
			return fmt.Errorf("baseline has no table %q: %w", change.TableID, ErrNotFound)
		}
		baseCol := baseTable.FindColumn(change.ObjectID)
		if baseCol == nil {
			return fmt.Errorf("baseline column %q: %w", change.ObjectID, ErrNotFound)
		}
		if change.ChangeType == difftypes.Deletion {
			workTable.Columns = append(workTable.Columns, *baseCol)
			return nil
		}
		workCol := workTable.FindColumn(change.ObjectID)
		if workCol == nil {
			return fmt.Errorf("working column %q: %w", change.ObjectID, ErrNotFound)
		}
		*workCol = *baseCol
		return nil
	}
	return fmt.Errorf("unknown change type %q", change.ChangeType)
}

func (lg *Ledger) revertForeignKeyLocked(change difftypes.SchemaChange) error {
	workTable := lg.working.FindTable(change.TableID)
	if workTable == nil {
		return fmt.Errorf("working copy has no table %q: %w", change.TableID, ErrNotFound)
	}

	switch change.ChangeType {
	case difftypes.Addition:
		for i := range workTable.ForeignKeys {
			if workTable.ForeignKeys[i].ID == change.ObjectID {
				workTable.ForeignKeys = append(workTable.ForeignKeys[:i], workTable.ForeignKeys[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("foreign key %q: %w", change.ObjectID, ErrNotFound)
	case difftypes.Deletion, difftypes.Modification:
		baseTable := lg.baseline.FindTable(change.TableID)
		if baseTable == nil {
			return fmt.Errorf("baseline has no table %q: %w", change.TableID, ErrNotFound)
		}
		baseFK := baseTable.FindForeignKey(change.ObjectID)
		if baseFK == nil {
			return fmt.Errorf("baseline foreign key %q: %w", change.ObjectID, ErrNotFound)
		}
		if change.ChangeType == difftypes.Deletion {
			workTable.ForeignKeys = append(workTable.ForeignKeys, baseFK.Clone())
			return nil
		}
		workFK := workTable.FindForeignKey(change.ObjectID)
		if workFK == nil {
			return fmt.Errorf("working foreign key %q: %w", change.ObjectID, ErrNotFound)
		}
		*workFK = baseFK.Clone()
		return nil
	}
	return fmt.Errorf("unknown change type %q", change.ChangeType)
}

func (lg *Ledger) removeTableLocked(tableID string) error {
	for i := range lg.working.Tables {
		if lg.working.Tables[i].ID == tableID {
			lg.working.Tables = append(lg.working.Tables[:i], lg.working.Tables[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("working copy has no table %q: %w", tableID, ErrNotFound)
}
