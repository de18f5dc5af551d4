package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/hrygo/vipsense/store"
)

func joinAnd(conditions []string) string {
	return strings.Join(conditions, " AND ")
}

func (d *DB) CreateVIPRelationship(ctx context.Context, create *store.CreateVIPRelationship) (*store.VIPRelationship, error) {
	stmt := `
		INSERT INTO vip_relationship (vip_user_id, username, display_name, added_by, added_at, active)
		VALUES (?, ?, ?, ?, ?, 1)
		RETURNING id
	`
	relationship := store.VIPRelationship{
		VIPUserID:   create.VIPUserID,
		Username:    create.Username,
		DisplayName: create.DisplayName,
		AddedBy:     create.AddedBy,
		AddedAt:     create.AddedAt,
		Active:      true,
	}
	err := d.db.QueryRowContext(ctx, stmt,
		create.VIPUserID,
		create.Username,
		create.DisplayName,
		create.AddedBy,
		create.AddedAt,
	).Scan(&relationship.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrAlreadyExists
		}
		return nil, errors.Wrap(err, "failed to create vip relationship")
	}
	return &relationship, nil
}

func (d *DB) ReactivateVIPRelationship(ctx context.Context, update *store.CreateVIPRelationship) (*store.VIPRelationship, error) {
	stmt := `
		UPDATE vip_relationship
		SET active = 1, added_at = ?, username = ?, display_name = ?
		WHERE vip_user_id = ? AND added_by = ? AND active = 0
		RETURNING id
	`
	relationship := store.VIPRelationship{
		VIPUserID:   update.VIPUserID,
		Username:    update.Username,
		DisplayName: update.DisplayName,
		AddedBy:     update.AddedBy,
		AddedAt:     update.AddedAt,
		Active:      true,
	}
	err := d.db.QueryRowContext(ctx, stmt,
		update.AddedAt,
		update.Username,
		update.DisplayName,
		update.VIPUserID,
		update.AddedBy,
	).Scan(&relationship.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to reactivate vip relationship")
	}
	return &relationship, nil
}

func (d *DB) DeactivateVIPRelationship(ctx context.Context, vipUserID, addedBy string) error {
	stmt := `
		UPDATE vip_relationship
		SET active = 0
		WHERE vip_user_id = ? AND added_by = ? AND active = 1
	`
	result, err := d.db.ExecContext(ctx, stmt, vipUserID, addedBy)
	if err != nil {
		return errors.Wrap(err, "failed to deactivate vip relationship")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (d *DB) ListVIPRelationships(ctx context.Context, find *store.FindVIPRelationship) ([]*store.VIPRelationship, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.VIPUserID != nil {
		where, args = append(where, "vip_user_id = ?"), append(args, *find.VIPUserID)
	}
	if find.Username != nil {
		where, args = append(where, "username = ?"), append(args, *find.Username)
	}
	if find.AddedBy != nil {
		where, args = append(where, "added_by = ?"), append(args, *find.AddedBy)
	}
	if find.Active != nil {
		where, args = append(where, "active = ?"), append(args, boolToInt(*find.Active))
	}

	query := `
		SELECT id, vip_user_id, username, display_name, added_by, added_at, active
		FROM vip_relationship
		WHERE ` + joinAnd(where) + `
		ORDER BY added_at ASC, id ASC
	`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list vip relationships")
	}
	defer rows.Close()

	var list []*store.VIPRelationship
	for rows.Next() {
		var relationship store.VIPRelationship
		var active int
		if err := rows.Scan(
			&relationship.ID,
			&relationship.VIPUserID,
			&relationship.Username,
			&relationship.DisplayName,
			&relationship.AddedBy,
			&relationship.AddedAt,
			&active,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan vip relationship")
		}
		relationship.Active = active != 0
		list = append(list, &relationship)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate vip relationships")
	}
	return list, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
