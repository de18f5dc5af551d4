package postgres

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
		VALUES ($1, $2, $3, $4, $5, TRUE)
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
		SET active = TRUE, added_at = $1, username = $2, display_name = $3
		WHERE vip_user_id = $4 AND added_by = $5 AND active = FALSE
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
		SET active = FALSE
		WHERE vip_user_id = $1 AND added_by = $2 AND active = TRUE
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
		args = append(args, *find.VIPUserID)
		where = append(where, "vip_user_id = "+placeholder(len(args)))
	}
	if find.Username != nil {
		args = append(args, *find.Username)
		where = append(where, "username = "+placeholder(len(args)))
	}
	if find.AddedBy != nil {
		args = append(args, *find.AddedBy)
		where = append(where, "added_by = "+placeholder(len(args)))
	}
	if find.Active != nil {
		args = append(args, *find.Active)
		where = append(where, "active = "+placeholder(len(args)))
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
		if err := rows.Scan(
			&relationship.ID,
			&relationship.VIPUserID,
			&relationship.Username,
			&relationship.DisplayName,
			&relationship.AddedBy,
			&relationship.AddedAt,
			&relationship.Active,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan vip relationship")
		}
		list = append(list, &relationship)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate vip relationships")
	}
	return list, nil
}
