package store

import (
	"context"

	"github.com/pkg/errors"
)

// Sentinel errors returned by drivers. Callers translate these into the
// user-facing error taxonomy; drivers never shape user messages themselves.
var (
	// ErrNotFound indicates no row matched the operation's predicate.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness constraint rejected a write.
	ErrAlreadyExists = errors.New("already exists")
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() any
	Close() error

	Migrate(ctx context.Context) error

	// VIPRelationship model related methods.
	//
	// CreateVIPRelationship is a pure insert; a (vip_user_id, added_by)
	// uniqueness violation surfaces as ErrAlreadyExists so a racing add
	// loses deterministically instead of writing a second row.
	CreateVIPRelationship(ctx context.Context, create *CreateVIPRelationship) (*VIPRelationship, error)
	// ReactivateVIPRelationship flips an inactive row back to active and
	// refreshes added_at plus the cached identity fields. Returns
	// ErrNotFound when no inactive row exists for the pair.
	ReactivateVIPRelationship(ctx context.Context, update *CreateVIPRelationship) (*VIPRelationship, error)
	// DeactivateVIPRelationship soft-deletes an active row. Returns
	// ErrNotFound when no active row exists for the pair.
	DeactivateVIPRelationship(ctx context.Context, vipUserID, addedBy string) error
	// ListVIPRelationships returns matches ordered by added_at ascending.
	ListVIPRelationships(ctx context.Context, find *FindVIPRelationship) ([]*VIPRelationship, error)

	// SummaryRecord model related methods. Records are append-only; there
	// is deliberately no update or delete.
	CreateSummaryRecord(ctx context.Context, create *CreateSummaryRecord) (*SummaryRecord, error)
	ListSummaryRecords(ctx context.Context, find *FindSummaryRecord) ([]*SummaryRecord, error)
}
