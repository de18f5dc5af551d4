package vip

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const timeLayout = "2006-01-02 15:04"

var (
	reMention     = regexp.MustCompile(`<@[UW][A-Z0-9]+(?:\|[^>]*)?>`)
	reChannelRef  = regexp.MustCompile(`<#[A-Z0-9]+\|([^>]+)>`)
	reLabeledLink = regexp.MustCompile(`<(https?://[^|>]+)\|([^>]+)>`)
	rePlainLink   = regexp.MustCompile(`<(https?://[^>]+)>`)
	htmlUnescaper = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&amp;", "&")
)

// cleanFormatting strips platform markup from message text before it enters
// a prompt: mention tokens, channel references, link syntax, HTML escapes.
func cleanFormatting(text string) string {
	text = reMention.ReplaceAllString(text, "@user")
	text = reChannelRef.ReplaceAllString(text, "#$1")
	text = reLabeledLink.ReplaceAllString(text, "$2 ($1)")
	text = rePlainLink.ReplaceAllString(text, "$1")
	text = htmlUnescaper.Replace(text)
	return strings.TrimSpace(text)
}

// formatDMTranscript renders DM messages for analysis, marking which side of
// the thread is speaking.
func formatDMTranscript(messages []RawMessage, vipID string) string {
	var lines []string
	for _, msg := range messages {
		text := cleanFormatting(msg.Text)
		if text == "" {
			continue
		}
		speaker := "Requester"
		if msg.AuthorID == vipID {
			speaker = "VIP"
		}
		lines = append(lines, fmt.Sprintf("[%s] %s: %s", msg.Timestamp.Format(timeLayout), speaker, text))
	}
	return strings.Join(lines, "\n")
}

// formatChannelTranscript renders channel messages, marking the VIP's own.
func formatChannelTranscript(messages []RawMessage, vipID string) string {
	var lines []string
	for _, msg := range messages {
		text := cleanFormatting(msg.Text)
		if text == "" {
			continue
		}
		if msg.AuthorID == vipID {
			lines = append(lines, fmt.Sprintf("[%s] **VIP**: %s", msg.Timestamp.Format(timeLayout), text))
		} else {
			lines = append(lines, fmt.Sprintf("[%s] %s: %s", msg.Timestamp.Format(timeLayout), msg.AuthorID, text))
		}
	}
	return strings.Join(lines, "\n")
}

func timePeriodText(stats InteractionStats) string {
	if stats.MessageCount == 0 {
		return "No messages in timeframe"
	}
	return fmt.Sprintf("%s to %s", stats.FirstMessage.Format(timeLayout), stats.LastMessage.Format(timeLayout))
}

// buildDMPrompt constructs the DM-scope analysis prompt. The section headers
// are a display contract; downstream rendering depends on their exact
// presence and order.
func buildDMPrompt(vip Identity, messages []RawMessage, stats InteractionStats, generatedAt time.Time) string {
	return fmt.Sprintf(`Please analyze these Direct Message conversations with VIP user @%[1]s and provide a summary in EXACTLY this format:

VIP DM Summary for @%[1]s

Time Period Covered
• %[2]s

Key Discussion Topics
• [First major topic discussed with period.]
• [Second major topic discussed with period.]
• [Third major topic discussed with period.]

Important Decisions & Requests
• [First decision or request with period.]
• [Second decision or request with period.]

Action Items & Follow-ups
• [First action item with period.]
• [Second action item with period.]

VIP Insights
• Personal Updates: [Key personal/professional updates shared.]
• Concerns Raised: [Any concerns or issues mentioned.]
• Expertise Shared: [Specialized knowledge or advice given.]

Summary Details
Messages analyzed: %[3]d
VIP: %[4]s (@%[1]s)
Generated: %[5]s

CRITICAL FORMATTING RULES:
1. Use ONLY the bullet character "•" (not emojis, dashes, or asterisks)
2. Add exactly one line break after each bullet point
3. End each bullet point with proper punctuation
4. Keep section titles EXACTLY as shown
5. Use exactly two line breaks between sections
6. Focus on VIP's personal communications and private discussions
7. Highlight decisions made in private conversations
8. Identify action items and commitments from DMs

DM CONVERSATIONS TO ANALYZE:
%[6]s`,
		vip.Username,
		timePeriodText(stats),
		stats.MessageCount,
		vip.DisplayName,
		generatedAt.Format(timeLayout),
		formatDMTranscript(messages, vip.ID),
	)
}

// buildChannelPrompt constructs the channel-scope analysis prompt.
func buildChannelPrompt(vip Identity, channelName string, messages []RawMessage, allMessages []RawMessage, stats InteractionStats, generatedAt time.Time) string {
	return fmt.Sprintf(`Please analyze VIP user @%[1]s's activity in #%[2]s and provide a summary in EXACTLY this format:

VIP Channel Summary for @%[1]s in #%[2]s

Time Period Covered
• %[3]s

VIP's Key Contributions
• [First major contribution or insight with period.]
• [Second major contribution or insight with period.]
• [Third major contribution or insight with period.]

Context Within Broader Discussions
• [How VIP's input influenced team discussions with period.]
• [Key interactions with other team members with period.]

Leadership & Decision Impact
• [Decisions influenced by VIP with period.]
• [Guidance or direction provided by VIP with period.]

Mentions & Interactions
• Times Mentioned: %[4]d
• Replies Received: %[5]d
• Collaborations: [Key collaborative moments with team.]

Expertise & Value Added
• [Specialized knowledge shared by VIP with period.]
• [Problems solved or insights provided with period.]

Summary Details
Messages analyzed: %[6]d
VIP: %[7]s (@%[1]s)
Channel: #%[2]s
Generated: %[8]s

CRITICAL FORMATTING RULES:
1. Use ONLY the bullet character "•" (not emojis, dashes, or asterisks)
2. Add exactly one line break after each bullet point
3. End each bullet point with proper punctuation
4. Keep section titles EXACTLY as shown
5. Use exactly two line breaks between sections
6. Focus specifically on the VIP's contributions and impact
7. Highlight their influence on team discussions and decisions
8. Show how their expertise added value to conversations

VIP CHANNEL ACTIVITY TO ANALYZE:
%[9]s`,
		vip.Username,
		channelName,
		timePeriodText(stats),
		stats.MentionCount,
		stats.ReplyCount,
		stats.MessageCount,
		vip.DisplayName,
		generatedAt.Format(timeLayout),
		formatChannelTranscript(allMessages, vip.ID),
	)
}

// emptyDMSummary is the deterministic result for a window with no messages.
// No summarization call is made; the layout still honors the section
// contract.
func emptyDMSummary(vip Identity, generatedAt time.Time) string {
	return fmt.Sprintf(`VIP DM Summary for @%[1]s

Time Period Covered
• No messages found in the requested window

Key Discussion Topics
• No recent DM conversations to analyze

Important Decisions & Requests
• No decisions or requests in recent messages

Action Items & Follow-ups
• No action items identified

VIP Insights
• Personal Updates: No recent updates shared
• Concerns Raised: No concerns identified
• Expertise Shared: No expertise shared recently

Summary Details
Messages analyzed: 0
VIP: %[2]s (@%[1]s)
Generated: %[3]s`,
		vip.Username,
		vip.DisplayName,
		generatedAt.Format(timeLayout),
	)
}

func emptyChannelSummary(vip Identity, channelName string, generatedAt time.Time) string {
	return fmt.Sprintf(`VIP Channel Summary for @%[1]s in #%[2]s

Time Period Covered
• No VIP activity found in the requested window

VIP's Key Contributions
• No recent contributions from VIP in this channel

Context Within Broader Discussions
• VIP was not active in recent channel discussions

Leadership & Decision Impact
• No recent leadership moments identified

Mentions & Interactions
• Times Mentioned: 0
• Replies Received: 0
• Collaborations: No recent collaborations

Expertise & Value Added
• No expertise shared recently in this channel

Summary Details
Messages analyzed: 0
VIP: %[3]s (@%[1]s)
Channel: #%[2]s
Generated: %[4]s`,
		vip.Username,
		channelName,
		vip.DisplayName,
		generatedAt.Format(timeLayout),
	)
}

const synthesisSystemPrompt = `You are an assistant that writes concise, well-structured activity summaries for a team messaging workspace. Follow the requested output format exactly.`
