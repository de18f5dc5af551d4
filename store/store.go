package store

import (
	"context"

	"github.com/hrygo/vipsense/internal/profile"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

func (s *Store) Migrate(ctx context.Context) error {
	return s.driver.Migrate(ctx)
}

func (s *Store) CreateVIPRelationship(ctx context.Context, create *CreateVIPRelationship) (*VIPRelationship, error) {
	return s.driver.CreateVIPRelationship(ctx, create)
}

func (s *Store) ReactivateVIPRelationship(ctx context.Context, update *CreateVIPRelationship) (*VIPRelationship, error) {
	return s.driver.ReactivateVIPRelationship(ctx, update)
}

func (s *Store) DeactivateVIPRelationship(ctx context.Context, vipUserID, addedBy string) error {
	return s.driver.DeactivateVIPRelationship(ctx, vipUserID, addedBy)
}

func (s *Store) ListVIPRelationships(ctx context.Context, find *FindVIPRelationship) ([]*VIPRelationship, error) {
	return s.driver.ListVIPRelationships(ctx, find)
}

func (s *Store) CreateSummaryRecord(ctx context.Context, create *CreateSummaryRecord) (*SummaryRecord, error) {
	return s.driver.CreateSummaryRecord(ctx, create)
}

func (s *Store) ListSummaryRecords(ctx context.Context, find *FindSummaryRecord) ([]*SummaryRecord, error) {
	return s.driver.ListSummaryRecords(ctx, find)
}
