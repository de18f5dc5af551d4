package vip

import (
	"context"
	"log/slog"

	"github.com/hrygo/vipsense/ai/llm"
	"github.com/hrygo/vipsense/store"
)

// Engine runs the full summarization pipeline: resolve, authorize, fetch,
// filter, synthesize, record. Each invocation is one strictly sequential
// unit of work; concurrent requests are independent.
type Engine struct {
	registry    *Registry
	resolver    *Resolver
	fetcher     *Fetcher
	synthesizer *Synthesizer
	recorder    *Recorder

	defaultWindowHours int
}

// NewEngine wires the pipeline components onto shared collaborators.
func NewEngine(st *store.Store, gateway Gateway, llmSvc llm.Service, defaultWindowHours int) *Engine {
	if defaultWindowHours <= 0 {
		defaultWindowHours = 24
	}
	resolver := NewResolver(gateway)
	return &Engine{
		registry:           NewRegistry(st, resolver),
		resolver:           resolver,
		fetcher:            NewFetcher(gateway),
		synthesizer:        NewSynthesizer(llmSvc),
		recorder:           NewRecorder(st),
		defaultWindowHours: defaultWindowHours,
	}
}

// Registry exposes the VIP registry for the command surface.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// SummaryResult is the outcome of one summarization request.
type SummaryResult struct {
	Text   string
	Record *store.SummaryRecord
}

// SummarizeDM summarizes the bilateral DM thread between requester and the
// VIP named by vipToken. The VIP must be on the requester's active list; DM
// content is otherwise inaccessible context.
func (e *Engine) SummarizeDM(ctx context.Context, requesterID, vipToken string, windowHours int) (*SummaryResult, error) {
	windowHours = e.window(windowHours)

	identity, err := e.resolver.Resolve(ctx, vipToken)
	if err != nil {
		return nil, err
	}

	isVIP, err := e.registry.IsVIP(ctx, requesterID, identity.ID)
	if err != nil {
		return nil, err
	}
	if !isVIP {
		return nil, &VIPNotFoundError{Username: identity.Username}
	}

	messages, err := e.fetcher.FetchDM(ctx, requesterID, identity.ID, windowHours)
	if err != nil {
		return nil, err
	}

	relevant, stats := FilterDM(messages)

	result, err := e.synthesizer.Synthesize(ctx, &SynthesizeRequest{
		Scope:    store.SummaryScopeDM,
		VIP:      *identity,
		Relevant: relevant,
		All:      messages,
		Stats:    stats,
	})
	if err != nil {
		return nil, err
	}

	record, err := e.recorder.Record(ctx, &RecordRequest{
		RequesterID:    requesterID,
		VIP:            *identity,
		Scope:          store.SummaryScopeDM,
		TimeframeHours: windowHours,
		Stats:          stats,
		Result:         result,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("dm summary generated",
		"requester", requesterID,
		"vip", identity.ID,
		"messages", stats.MessageCount,
		"truncated", result.Truncated,
	)
	return &SummaryResult{Text: result.Display, Record: record}, nil
}

// SummarizeChannel summarizes one user's contributions to a channel. Channel
// scope is deliberately not gated on registry membership: channel activity of
// any named user may be tracked.
func (e *Engine) SummarizeChannel(ctx context.Context, requesterID, vipToken, channelID, channelName string, windowHours int) (*SummaryResult, error) {
	windowHours = e.window(windowHours)

	identity, err := e.resolver.Resolve(ctx, vipToken)
	if err != nil {
		return nil, err
	}

	messages, err := e.fetcher.FetchChannel(ctx, channelID, windowHours)
	if err != nil {
		return nil, err
	}

	relevant, stats := FilterChannel(messages, identity.ID)

	result, err := e.synthesizer.Synthesize(ctx, &SynthesizeRequest{
		Scope:       store.SummaryScopeChannel,
		VIP:         *identity,
		ChannelName: channelName,
		Relevant:    relevant,
		All:         messages,
		Stats:       stats,
	})
	if err != nil {
		return nil, err
	}

	record, err := e.recorder.Record(ctx, &RecordRequest{
		RequesterID:    requesterID,
		VIP:            *identity,
		Scope:          store.SummaryScopeChannel,
		ChannelID:      channelID,
		ChannelName:    channelName,
		TimeframeHours: windowHours,
		Stats:          stats,
		Result:         result,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("channel summary generated",
		"requester", requesterID,
		"vip", identity.ID,
		"channel", channelID,
		"messages", stats.MessageCount,
		"mentions", stats.MentionCount,
		"truncated", result.Truncated,
	)
	return &SummaryResult{Text: result.Display, Record: record}, nil
}

// History returns the requester's recent summary records, newest first.
func (e *Engine) History(ctx context.Context, requesterID string, limit int) ([]*store.SummaryRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	records, err := e.recorder.store.ListSummaryRecords(ctx, &store.FindSummaryRecord{
		RequestedBy: &requesterID,
		Limit:       &limit,
	})
	if err != nil {
		return nil, &StorageError{Err: err}
	}
	return records, nil
}

func (e *Engine) window(windowHours int) int {
	if windowHours <= 0 {
		return e.defaultWindowHours
	}
	return windowHours
}
