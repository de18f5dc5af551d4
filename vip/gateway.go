package vip

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// Gateway sentinel errors. Implementations wrap these so the engine can
// distinguish authorization failures from missing targets without knowing
// platform error codes.
var (
	ErrGatewayNotFound     = errors.New("gateway: not found")
	ErrGatewayUnauthorized = errors.New("gateway: unauthorized")
)

// MessagePage is one page of history returned by the gateway.
type MessagePage struct {
	Messages []RawMessage
	// NextCursor is the pagination cursor for the next (older) page.
	// Empty when the gateway has no further pages.
	NextCursor string
}

// Gateway is the messaging platform collaborator consumed by the engine.
// Implementations live outside this package (see plugin/slackgw).
type Gateway interface {
	// LookupIdentity resolves a platform user ID.
	LookupIdentity(ctx context.Context, userID string) (*Identity, error)

	// LookupIdentityByName resolves a plain username (without "@").
	LookupIdentityByName(ctx context.Context, username string) (*Identity, error)

	// OpenDirectChannel returns the channel ID of the bilateral DM thread
	// between two users, opening it if necessary.
	OpenDirectChannel(ctx context.Context, userA, userB string) (string, error)

	// FetchMessagePage returns one page of channel history no older than
	// oldest. An empty cursor requests the newest page.
	FetchMessagePage(ctx context.Context, channelID, cursor string, oldest time.Time) (*MessagePage, error)
}
