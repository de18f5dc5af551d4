package postgres

import (
	"context"

	"github.com/pkg/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS vip_relationship (
	id BIGSERIAL PRIMARY KEY,
	vip_user_id TEXT NOT NULL,
	username TEXT NOT NULL,
	display_name TEXT NOT NULL,
	added_by TEXT NOT NULL,
	added_at BIGINT NOT NULL,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	UNIQUE (vip_user_id, added_by)
);

CREATE INDEX IF NOT EXISTS idx_vip_relationship_added_by ON vip_relationship (added_by);

CREATE TABLE IF NOT EXISTS summary_record (
	id BIGSERIAL PRIMARY KEY,
	uid TEXT NOT NULL UNIQUE,
	vip_user_id TEXT NOT NULL,
	vip_username TEXT NOT NULL,
	vip_display_name TEXT NOT NULL,
	requested_by TEXT NOT NULL,
	scope TEXT NOT NULL,
	channel_id TEXT NOT NULL DEFAULT '',
	channel_name TEXT NOT NULL DEFAULT '',
	timeframe_hours INTEGER NOT NULL,
	message_count INTEGER NOT NULL,
	mention_count INTEGER NOT NULL DEFAULT 0,
	reply_count INTEGER NOT NULL DEFAULT 0,
	content TEXT NOT NULL,
	content_length INTEGER NOT NULL,
	created_ts BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_summary_record_requested_by ON summary_record (requested_by);
`

// Migrate creates the schema. All statements are idempotent, so running the
// migration on every startup is safe.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "failed to apply postgres schema")
	}
	return nil
}
