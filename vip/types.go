// Package vip implements the VIP conversation retrieval and summarization
// engine: per-requester VIP registry, identity resolution, windowed message
// fetching, attribution filtering, prompt synthesis, and the append-only
// summary ledger.
package vip

import "time"

// Identity is a resolved workspace user.
type Identity struct {
	ID          string
	Username    string
	DisplayName string
}

// RawMessage is one message as retrieved from the messaging gateway.
type RawMessage struct {
	ID           string // platform message identifier (Slack: the ts string)
	AuthorID     string
	Text         string
	Timestamp    time.Time
	ThreadParent string // ID of the thread root, empty for top-level messages
}

// InteractionStats carries the attribution metadata computed by the filter.
type InteractionStats struct {
	MessageCount int
	MentionCount int // mentions of the VIP in other authors' messages
	ReplyCount   int // other authors' replies threaded under VIP messages
	FirstMessage time.Time
	LastMessage  time.Time
}
