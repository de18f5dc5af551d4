// Package db provides the database driver selection.
package db

import (
	"github.com/pkg/errors"

	"github.com/hrygo/vipsense/internal/profile"
	"github.com/hrygo/vipsense/store"
	"github.com/hrygo/vipsense/store/db/postgres"
	"github.com/hrygo/vipsense/store/db/sqlite"
)

// NewDBDriver creates a new database driver based on the profile.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	switch profile.Driver {
	case "sqlite":
		return sqlite.NewDB(profile)
	case "postgres":
		return postgres.NewDB(profile)
	default:
		return nil, errors.Errorf("unsupported database driver: %s", profile.Driver)
	}
}
