package vip

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/vipsense/store"
)

// Registry owns the per-requester VIP relationship set. Rows are partitioned
// by owner; one owner's operations never touch another owner's entries.
type Registry struct {
	store    *store.Store
	resolver *Resolver
	now      func() time.Time
}

func NewRegistry(st *store.Store, resolver *Resolver) *Registry {
	return &Registry{
		store:    st,
		resolver: resolver,
		now:      time.Now,
	}
}

// Add resolves vipToken and creates (or reactivates) the relationship for
// owner. The storage unique index on (vip_user_id, added_by) decides a race
// between concurrent adds; the loser gets DuplicateVIPError.
func (r *Registry) Add(ctx context.Context, ownerID, vipToken string) (*store.VIPRelationship, error) {
	identity, err := r.resolver.Resolve(ctx, vipToken)
	if err != nil {
		return nil, err
	}
	if identity.ID == ownerID {
		return nil, &SelfVIPError{UserID: ownerID}
	}

	active := true
	existing, err := r.store.ListVIPRelationships(ctx, &store.FindVIPRelationship{
		VIPUserID: &identity.ID,
		AddedBy:   &ownerID,
		Active:    &active,
	})
	if err != nil {
		return nil, &StorageError{Err: err}
	}
	if len(existing) > 0 {
		return nil, &DuplicateVIPError{Username: identity.Username}
	}

	create := &store.CreateVIPRelationship{
		VIPUserID:   identity.ID,
		Username:    identity.Username,
		DisplayName: identity.DisplayName,
		AddedBy:     ownerID,
		AddedAt:     r.now().Unix(),
	}

	// A soft-deleted row for the pair keeps the uniqueness invariant across
	// add/remove/add cycles, so reactivation is tried before insert.
	relationship, err := r.store.ReactivateVIPRelationship(ctx, create)
	if err == nil {
		slog.Info("vip reactivated", "vip", identity.ID, "owner", ownerID)
		return relationship, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, &StorageError{Err: err}
	}

	relationship, err = r.store.CreateVIPRelationship(ctx, create)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Lost a race against a concurrent add for the same pair.
			return nil, &DuplicateVIPError{Username: identity.Username}
		}
		return nil, &StorageError{Err: err}
	}
	slog.Info("vip added", "vip", identity.ID, "owner", ownerID)
	return relationship, nil
}

// Remove soft-deletes the active relationship for (vipToken, owner).
// Historical summary records are untouched.
func (r *Registry) Remove(ctx context.Context, ownerID, vipToken string) error {
	identity, err := r.resolver.Resolve(ctx, vipToken)
	if err != nil {
		var notFound *IdentityNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
		// The user may have left the workspace; fall back to the cached
		// username on the relationship row itself.
		identity, err = r.findByUsername(ctx, ownerID, vipToken)
		if err != nil {
			return err
		}
	}

	if err := r.store.DeactivateVIPRelationship(ctx, identity.ID, ownerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &VIPNotFoundError{Username: identity.Username}
		}
		return &StorageError{Err: err}
	}
	slog.Info("vip removed", "vip", identity.ID, "owner", ownerID)
	return nil
}

// List returns owner's active relationships ordered by added_at ascending.
func (r *Registry) List(ctx context.Context, ownerID string) ([]*store.VIPRelationship, error) {
	active := true
	list, err := r.store.ListVIPRelationships(ctx, &store.FindVIPRelationship{
		AddedBy: &ownerID,
		Active:  &active,
	})
	if err != nil {
		return nil, &StorageError{Err: err}
	}
	return list, nil
}

// IsVIP reports whether vipUserID is on owner's active list. Used as the
// authorization gate for DM-scope summaries; channel scope is deliberately
// not gated.
func (r *Registry) IsVIP(ctx context.Context, ownerID, vipUserID string) (bool, error) {
	active := true
	list, err := r.store.ListVIPRelationships(ctx, &store.FindVIPRelationship{
		VIPUserID: &vipUserID,
		AddedBy:   &ownerID,
		Active:    &active,
	})
	if err != nil {
		return false, &StorageError{Err: err}
	}
	return len(list) > 0, nil
}

func (r *Registry) findByUsername(ctx context.Context, ownerID, token string) (*Identity, error) {
	username := strings.TrimPrefix(strings.TrimSpace(token), "@")
	active := true
	list, err := r.store.ListVIPRelationships(ctx, &store.FindVIPRelationship{
		Username: &username,
		AddedBy:  &ownerID,
		Active:   &active,
	})
	if err != nil {
		return nil, &StorageError{Err: err}
	}
	if len(list) == 0 {
		return nil, &VIPNotFoundError{Username: username}
	}
	return &Identity{
		ID:          list[0].VIPUserID,
		Username:    list[0].Username,
		DisplayName: list[0].DisplayName,
	}, nil
}
