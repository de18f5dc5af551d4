package vip

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func msgAt(t *testing.T, id, author, text string, minute int) RawMessage {
	t.Helper()
	return RawMessage{
		ID:        id,
		AuthorID:  author,
		Text:      text,
		Timestamp: time.Date(2026, 8, 30, 9, minute, 0, 0, time.UTC),
	}
}

func TestFilterDM(t *testing.T) {
	messages := []RawMessage{
		msgAt(t, "1", "UREQ", "morning", 0),
		msgAt(t, "2", "UVIP", "hey, shipping today?", 5),
		msgAt(t, "3", "UREQ", "yes, after review", 10),
	}

	relevant, stats := FilterDM(messages)
	assert.Equal(t, messages, relevant)
	assert.Equal(t, 3, stats.MessageCount)
	assert.Equal(t, messages[0].Timestamp, stats.FirstMessage)
	assert.Equal(t, messages[2].Timestamp, stats.LastMessage)
	assert.Zero(t, stats.MentionCount)
	assert.Zero(t, stats.ReplyCount)
}

func TestFilterDMEmpty(t *testing.T) {
	relevant, stats := FilterDM(nil)
	assert.Empty(t, relevant)
	assert.Zero(t, stats.MessageCount)
	assert.True(t, stats.FirstMessage.IsZero())
}

func TestFilterChannel(t *testing.T) {
	vipMsg := msgAt(t, "10", "UVIP", "proposing the rollout plan", 0)
	vipMsg2 := msgAt(t, "20", "UVIP", "agreed, let's do it", 30)

	reply := msgAt(t, "11", "UOTHER", "makes sense to me", 5)
	reply.ThreadParent = "10"

	messages := []RawMessage{
		vipMsg,
		reply,
		msgAt(t, "12", "UOTHER", "cc <@UVIP> for the rollout", 10),
		msgAt(t, "13", "UTHIRD", "thanks <@UVIP|vip> and <@UVIP>", 15),
		msgAt(t, "14", "UOTHER", "unrelated chatter", 20),
		vipMsg2,
	}

	relevant, stats := FilterChannel(messages, "UVIP")
	require.Len(t, relevant, 2)
	assert.Equal(t, "10", relevant[0].ID)
	assert.Equal(t, "20", relevant[1].ID)

	assert.Equal(t, 2, stats.MessageCount)
	assert.Equal(t, 3, stats.MentionCount)
	assert.Equal(t, 1, stats.ReplyCount)
	assert.Equal(t, vipMsg.Timestamp, stats.FirstMessage)
	assert.Equal(t, vipMsg2.Timestamp, stats.LastMessage)
}

func TestFilterChannelVIPSilent(t *testing.T) {
	messages := []RawMessage{
		msgAt(t, "1", "UOTHER", "anyone seen <@UVIP>?", 0),
		msgAt(t, "2", "UTHIRD", "not today", 5),
	}

	relevant, stats := FilterChannel(messages, "UVIP")
	assert.Empty(t, relevant)
	assert.Zero(t, stats.MessageCount)
	assert.Equal(t, 1, stats.MentionCount)
	assert.Zero(t, stats.ReplyCount)
}

func TestFilterChannelSelfMentionNotCounted(t *testing.T) {
	messages := []RawMessage{
		msgAt(t, "1", "UVIP", "as I (<@UVIP>) said earlier", 0),
	}

	_, stats := FilterChannel(messages, "UVIP")
	assert.Zero(t, stats.MentionCount)
}

func TestFilterChannelReplyToOtherThread(t *testing.T) {
	other := msgAt(t, "1", "UOTHER", "kicking off", 0)
	reply := msgAt(t, "2", "UTHIRD", "following", 5)
	reply.ThreadParent = "1"

	_, stats := FilterChannel([]RawMessage{other, reply}, "UVIP")
	assert.Zero(t, stats.ReplyCount)
}

func TestCountMentions(t *testing.T) {
	assert.Equal(t, 0, countMentions("no mentions here", "U1"))
	assert.Equal(t, 1, countMentions("hi <@U1>", "U1"))
	assert.Equal(t, 2, countMentions("<@U1> and <@U1|alice>", "U1"))
	assert.Equal(t, 0, countMentions("<@U12> is someone else", "U1"))
}
