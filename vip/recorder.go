package vip

import (
	"context"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/hrygo/vipsense/store"
)

// Recorder persists the synthesized summary plus provenance as an immutable
// ledger row. This is the single point where a request becomes durably
// observable.
type Recorder struct {
	store *store.Store
	now   func() time.Time
}

func NewRecorder(st *store.Store) *Recorder {
	return &Recorder{
		store: st,
		now:   time.Now,
	}
}

// RecordRequest describes one completed summarization.
type RecordRequest struct {
	RequesterID    string
	VIP            Identity
	Scope          store.SummaryScope
	ChannelID      string
	ChannelName    string
	TimeframeHours int
	Stats          InteractionStats
	Result         *SynthesisResult
}

func (r *Recorder) Record(ctx context.Context, req *RecordRequest) (*store.SummaryRecord, error) {
	record, err := r.store.CreateSummaryRecord(ctx, &store.CreateSummaryRecord{
		UID:            shortuuid.New(),
		VIPUserID:      req.VIP.ID,
		VIPUsername:    req.VIP.Username,
		VIPDisplayName: req.VIP.DisplayName,
		RequestedBy:    req.RequesterID,
		Scope:          req.Scope,
		ChannelID:      req.ChannelID,
		ChannelName:    req.ChannelName,
		TimeframeHours: req.TimeframeHours,
		MessageCount:   req.Stats.MessageCount,
		MentionCount:   req.Stats.MentionCount,
		ReplyCount:     req.Stats.ReplyCount,
		Content:        req.Result.Display,
		ContentLength:  req.Result.FullLength,
		CreatedTs:      r.now().Unix(),
	})
	if err != nil {
		return nil, &StorageError{Err: err}
	}
	return record, nil
}
