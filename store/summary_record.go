package store

// SummaryScope distinguishes the two summarization modes.
type SummaryScope string

const (
	SummaryScopeDM      SummaryScope = "DM"
	SummaryScopeChannel SummaryScope = "CHANNEL"
)

// SummaryRecord is the append-only audit row written once per completed
// summarization request. It carries the VIP identity inline so the record
// stays meaningful after the relationship is removed.
type SummaryRecord struct {
	ID             int64
	UID            string
	VIPUserID      string
	VIPUsername    string
	VIPDisplayName string
	RequestedBy    string
	Scope          SummaryScope
	ChannelID      string // CHANNEL scope only
	ChannelName    string // CHANNEL scope only
	TimeframeHours int
	MessageCount   int
	MentionCount   int
	ReplyCount     int
	Content        string // display text, capped at the platform ceiling
	ContentLength  int    // length of the synthesized text before capping
	CreatedTs      int64
}

type CreateSummaryRecord struct {
	UID            string
	VIPUserID      string
	VIPUsername    string
	VIPDisplayName string
	RequestedBy    string
	Scope          SummaryScope
	ChannelID      string
	ChannelName    string
	TimeframeHours int
	MessageCount   int
	MentionCount   int
	ReplyCount     int
	Content        string
	ContentLength  int
	CreatedTs      int64
}

type FindSummaryRecord struct {
	UID         *string
	VIPUserID   *string
	RequestedBy *string
	Scope       *SummaryScope
	Limit       *int
	Offset      *int
}
