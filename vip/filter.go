package vip

import "strings"

// FilterDM computes interaction stats over a bilateral DM thread. Every
// fetched message is relevant by construction, so this is a pass-through
// plus counting.
func FilterDM(messages []RawMessage) ([]RawMessage, InteractionStats) {
	stats := InteractionStats{MessageCount: len(messages)}
	if len(messages) > 0 {
		stats.FirstMessage = messages[0].Timestamp
		stats.LastMessage = messages[len(messages)-1].Timestamp
	}
	return messages, stats
}

// FilterChannel reduces channel history to the VIP's own messages and
// computes mention and reply counts against the full set. Zero relevant
// messages is a valid result, not an error.
func FilterChannel(messages []RawMessage, vipID string) ([]RawMessage, InteractionStats) {
	vipAuthored := make(map[string]bool, len(messages))
	var relevant []RawMessage
	for _, msg := range messages {
		if msg.AuthorID == vipID {
			relevant = append(relevant, msg)
			vipAuthored[msg.ID] = true
		}
	}

	stats := InteractionStats{MessageCount: len(relevant)}
	if len(relevant) > 0 {
		stats.FirstMessage = relevant[0].Timestamp
		stats.LastMessage = relevant[len(relevant)-1].Timestamp
	}

	for _, msg := range messages {
		if msg.AuthorID == vipID {
			continue
		}
		stats.MentionCount += countMentions(msg.Text, vipID)
		if msg.ThreadParent != "" && vipAuthored[msg.ThreadParent] {
			stats.ReplyCount++
		}
	}
	return relevant, stats
}

// countMentions counts Slack mention tokens for the user, in both the bare
// <@U123> and the labeled <@U123|name> forms.
func countMentions(text, userID string) int {
	return strings.Count(text, "<@"+userID+">") + strings.Count(text, "<@"+userID+"|")
}
