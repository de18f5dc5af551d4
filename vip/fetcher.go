package vip

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// maxPages bounds the backward pagination loop. At 200 messages per page
// this covers far more history than any sane window.
const maxPages = 50

// Fetcher retrieves raw message history for a DM thread or channel across
// pagination boundaries, within a trailing time window.
type Fetcher struct {
	gateway Gateway
	now     func() time.Time
}

func NewFetcher(gateway Gateway) *Fetcher {
	return &Fetcher{
		gateway: gateway,
		now:     time.Now,
	}
}

// FetchDM retrieves the bilateral DM history between requester and VIP.
func (f *Fetcher) FetchDM(ctx context.Context, requesterID, vipID string, windowHours int) ([]RawMessage, error) {
	channelID, err := f.gateway.OpenDirectChannel(ctx, requesterID, vipID)
	if err != nil {
		return nil, &FetchError{Reason: fetchReason(err), Err: err}
	}
	return f.fetchWindow(ctx, channelID, windowHours)
}

// FetchChannel retrieves channel history.
func (f *Fetcher) FetchChannel(ctx context.Context, channelID string, windowHours int) ([]RawMessage, error) {
	return f.fetchWindow(ctx, channelID, windowHours)
}

// fetchWindow paginates backward from now until messages older than the
// window boundary are reached or the gateway reports no further pages.
// Messages are returned oldest first; prompt construction downstream is
// order-sensitive.
func (f *Fetcher) fetchWindow(ctx context.Context, channelID string, windowHours int) ([]RawMessage, error) {
	oldest := f.now().Add(-time.Duration(windowHours) * time.Hour)

	var messages []RawMessage
	cursor := ""
	for page := 0; page < maxPages; page++ {
		result, err := f.gateway.FetchMessagePage(ctx, channelID, cursor, oldest)
		if err != nil {
			if page == 0 {
				return nil, &FetchError{Reason: fetchReason(err), Err: err}
			}
			// A failure after at least one successful page degrades to a
			// truncated result; the record will reflect only what was
			// actually retrieved.
			slog.Warn("message fetch degraded to partial result",
				"channel", channelID,
				"pages", page,
				"messages", len(messages),
				"error", err,
			)
			break
		}

		reachedBoundary := false
		for _, msg := range result.Messages {
			// Drop bot/system noise: no author or empty text.
			if msg.AuthorID == "" || strings.TrimSpace(msg.Text) == "" {
				continue
			}
			if msg.Timestamp.Before(oldest) {
				reachedBoundary = true
				continue
			}
			messages = append(messages, msg)
		}

		cursor = result.NextCursor
		if cursor == "" || reachedBoundary {
			break
		}
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})
	return messages, nil
}

func fetchReason(err error) string {
	switch {
	case errors.Is(err, ErrGatewayUnauthorized):
		return "not authorized to read the conversation"
	case errors.Is(err, ErrGatewayNotFound):
		return "conversation not found"
	default:
		return "messaging gateway error"
	}
}
