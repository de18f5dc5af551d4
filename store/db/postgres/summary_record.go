package postgres

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/hrygo/vipsense/store"
)

func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

func (d *DB) CreateSummaryRecord(ctx context.Context, create *store.CreateSummaryRecord) (*store.SummaryRecord, error) {
	stmt := `
		INSERT INTO summary_record (
			uid, vip_user_id, vip_username, vip_display_name, requested_by,
			scope, channel_id, channel_name, timeframe_hours, message_count,
			mention_count, reply_count, content, content_length, created_ts
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
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
		string(create.Scope),
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
		args = append(args, *find.UID)
		where = append(where, "uid = "+placeholder(len(args)))
	}
	if find.VIPUserID != nil {
		args = append(args, *find.VIPUserID)
		where = append(where, "vip_user_id = "+placeholder(len(args)))
	}
	if find.RequestedBy != nil {
		args = append(args, *find.RequestedBy)
		where = append(where, "requested_by = "+placeholder(len(args)))
	}
	if find.Scope != nil {
		args = append(args, string(*find.Scope))
		where = append(where, "scope = "+placeholder(len(args)))
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
		args = append(args, *find.Limit)
		query += " LIMIT " + placeholder(len(args))
		if find.Offset != nil {
			args = append(args, *find.Offset)
			query += " OFFSET " + placeholder(len(args))
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
