// Package slackgw implements the messaging gateway against the Slack Web API.
package slackgw

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/slack-go/slack"

	"github.com/hrygo/vipsense/vip"
)

const (
	// callTimeout bounds every Slack API call; the engine treats these as
	// its only blocking I/O boundaries besides the LLM.
	callTimeout = 15 * time.Second

	// historyPageSize matches the Web API maximum for conversations.history.
	historyPageSize = 200
)

// Gateway is the Slack implementation of vip.Gateway.
type Gateway struct {
	client  *slack.Client
	metrics *Metrics
}

// New creates a gateway using a workspace bot token (xoxb-...).
func New(botToken string) *Gateway {
	return &Gateway{
		client:  slack.New(botToken),
		metrics: NewMetrics(),
	}
}

// Metrics returns the gateway call counters for health reporting.
func (g *Gateway) Metrics() *Metrics {
	return g.metrics
}

func (g *Gateway) LookupIdentity(ctx context.Context, userID string) (*vip.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	g.metrics.Record(CallLookupIdentity)
	user, err := g.client.GetUserInfoContext(ctx, userID)
	if err != nil {
		g.metrics.RecordError(CallLookupIdentity, err)
		return nil, mapSlackError(err, "users.info")
	}
	return toIdentity(user), nil
}

func (g *Gateway) LookupIdentityByName(ctx context.Context, username string) (*vip.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	// The Web API has no username lookup endpoint; scan the directory.
	g.metrics.Record(CallLookupIdentity)
	users, err := g.client.GetUsersContext(ctx)
	if err != nil {
		g.metrics.RecordError(CallLookupIdentity, err)
		return nil, mapSlackError(err, "users.list")
	}
	for i := range users {
		user := &users[i]
		if user.Deleted {
			continue
		}
		if strings.EqualFold(user.Name, username) || strings.EqualFold(user.Profile.DisplayName, username) {
			return toIdentity(user), nil
		}
	}
	return nil, errors.Wrapf(vip.ErrGatewayNotFound, "no user named %q", username)
}

func (g *Gateway) OpenDirectChannel(ctx context.Context, userA, userB string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	g.metrics.Record(CallOpenChannel)
	channel, _, _, err := g.client.OpenConversationContext(ctx, &slack.OpenConversationParameters{
		Users: []string{userA, userB},
	})
	if err != nil {
		g.metrics.RecordError(CallOpenChannel, err)
		return "", mapSlackError(err, "conversations.open")
	}
	return channel.ID, nil
}

func (g *Gateway) FetchMessagePage(ctx context.Context, channelID, cursor string, oldest time.Time) (*vip.MessagePage, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	g.metrics.Record(CallFetchHistory)
	resp, err := g.client.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
		ChannelID: channelID,
		Cursor:    cursor,
		Limit:     historyPageSize,
		Oldest:    formatSlackTimestamp(oldest),
	})
	if err != nil {
		g.metrics.RecordError(CallFetchHistory, err)
		return nil, mapSlackError(err, "conversations.history")
	}

	page := &vip.MessagePage{}
	if resp.HasMore {
		page.NextCursor = resp.ResponseMetaData.NextCursor
	}
	for _, msg := range resp.Messages {
		// Skip join/leave and other subtyped system messages, as well as
		// bot posts without a user author.
		if msg.SubType != "" || msg.User == "" {
			continue
		}
		page.Messages = append(page.Messages, vip.RawMessage{
			ID:           msg.Timestamp,
			AuthorID:     msg.User,
			Text:         msg.Text,
			Timestamp:    parseSlackTimestamp(msg.Timestamp),
			ThreadParent: threadParent(msg.ThreadTimestamp, msg.Timestamp),
		})
	}
	return page, nil
}

// PostMessage delivers a response into a channel or DM. Used by the command
// surface, not by the engine.
func (g *Gateway) PostMessage(ctx context.Context, channelID, text string) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	g.metrics.Record(CallPostMessage)
	_, _, err := g.client.PostMessageContext(ctx, channelID,
		slack.MsgOptionText(text, false),
		slack.MsgOptionDisableLinkUnfurl(),
	)
	if err != nil {
		g.metrics.RecordError(CallPostMessage, err)
		return mapSlackError(err, "chat.postMessage")
	}
	return nil
}

func toIdentity(user *slack.User) *vip.Identity {
	displayName := user.Profile.DisplayName
	if displayName == "" {
		displayName = user.RealName
	}
	if displayName == "" {
		displayName = user.Name
	}
	return &vip.Identity{
		ID:          user.ID,
		Username:    user.Name,
		DisplayName: displayName,
	}
}

// threadParent returns the thread root for replies. Slack sets thread_ts on
// the root message too, equal to its own ts; that is not a reply.
func threadParent(threadTs, ts string) string {
	if threadTs == "" || threadTs == ts {
		return ""
	}
	return threadTs
}

// parseSlackTimestamp converts a Slack ts string ("1712345678.000100") to
// time.Time. A malformed ts yields the zero time, which the fetcher treats
// as outside any window.
func parseSlackTimestamp(ts string) time.Time {
	seconds, err := strconv.ParseFloat(ts, 64)
	if err != nil {
		return time.Time{}
	}
	whole, frac := math.Modf(seconds)
	return time.Unix(int64(whole), int64(frac*1e9))
}

func formatSlackTimestamp(t time.Time) string {
	return strconv.FormatFloat(float64(t.UnixNano())/1e9, 'f', 6, 64)
}

// mapSlackError wraps Slack API errors into the gateway sentinels so the
// engine can tell authorization failures from missing targets.
func mapSlackError(err error, method string) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not_found") || strings.Contains(msg, "user_not_visible"):
		return errors.Wrapf(vip.ErrGatewayNotFound, "%s: %s", method, msg)
	case strings.Contains(msg, "not_authed"),
		strings.Contains(msg, "invalid_auth"),
		strings.Contains(msg, "token_revoked"),
		strings.Contains(msg, "missing_scope"),
		strings.Contains(msg, "access_denied"),
		strings.Contains(msg, "not_in_channel"):
		return errors.Wrapf(vip.ErrGatewayUnauthorized, "%s: %s", method, msg)
	default:
		slog.Debug("slack api error", "method", method, "error", err)
		return errors.Wrapf(err, "%s failed", method)
	}
}
