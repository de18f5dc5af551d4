package sqlite

import (
	"context"

	"github.com/pkg/errors"

	"github.com/hrygo/vipsense/store"
)

func (d *DB) CreateSummaryRecord(ctx context.Context, create *store.CreateSummaryRecord) (*store.SummaryRecord, error) {
	stmt := `
		INSERT INTO summary_record (
			uid, vip_user_id, vip_username, vip_display_name, requested_by,
			scope, channel_id, channel_name, timeframe_hours, message_count,
			mention_count, reply_count, content, content_length, created_ts
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`
	record := store.SummaryRecord{
		UID:            create.UID,
		VIPUserID:      create.VIPUserID,
		VIPUsername:    create.VIPUsername,
		VIPDisplayName: create.VIPDisplayName,
		RequestedBy:    create.RequestedBy,
		Scope:          create.Scope,
		ChannelID:      create.ChannelID,
		ChannelName:    create.ChannelName,
		TimeframeHours: create.TimeframeHours,
		MessageCount:   create.MessageCount,
		MentionCount:   create.MentionCount,
		ReplyCount:     create.ReplyCount,
		Content:        create.Content,
		ContentLength:  create.ContentLength,
		CreatedTs:      create.CreatedTs,
	}
	err := d.db.QueryRowContext(ctx, stmt,
		create.UID,
		create.VIPUserID,
		create.VIPUsername,
		create.VIPDisplayName,
		create.RequestedBy,
		create.Scope,
		create.ChannelID,
		create.ChannelName,
		create.TimeframeHours,
		create.MessageCount,
		create.MentionCount,
		create.ReplyCount,
		create.Content,
		create.ContentLength,
		create.CreatedTs,
	).Scan(&record.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create summary record")
	}
	return &record, nil
}

func (d *DB) ListSummaryRecords(ctx context.Context, find *store.FindSummaryRecord) ([]*store.SummaryRecord, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.UID != nil {
		where, args = append(where, "uid = ?"), append(args, *find.UID)
	}
	if find.VIPUserID != nil {
		where, args = append(where, "vip_user_id = ?"), append(args, *find.VIPUserID)
	}
	if find.RequestedBy != nil {
		where, args = append(where, "requested_by = ?"), append(args, *find.RequestedBy)
	}
	if find.Scope != nil {
		where, args = append(where, "scope = ?"), append(args, string(*find.Scope))
	}

	query := `
		SELECT id, uid, vip_user_id, vip_username, vip_display_name, requested_by,
			scope, channel_id, channel_name, timeframe_hours, message_count,
			mention_count, reply_count, content, content_length, created_ts
		FROM summary_record
		WHERE ` + joinAnd(where) + `
		ORDER BY created_ts DESC, id DESC
	`
	if find.Limit != nil {
		query += " LIMIT ?"
		args = append(args, *find.Limit)
		if find.Offset != nil {
			query += " OFFSET ?"
			args = append(args, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list summary records")
	}
	defer rows.Close()

	var list []*store.SummaryRecord
	for rows.Next() {
		var record store.SummaryRecord
		if err := rows.Scan(
			&record.ID,
			&record.UID,
			&record.VIPUserID,
			&record.VIPUsername,
			&record.VIPDisplayName,
			&record.RequestedBy,
			&record.Scope,
			&record.ChannelID,
			&record.ChannelName,
			&record.TimeframeHours,
			&record.MessageCount,
			&record.MentionCount,
			&record.ReplyCount,
			&record.Content,
			&record.ContentLength,
			&record.CreatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan summary record")
		}
		list = append(list, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate summary records")
	}
	return list, nil
}
