package vip

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hrygo/vipsense/ai/llm"
	"github.com/hrygo/vipsense/store"
)

// MessageCharCeiling is the host platform's maximum single-message payload
// size. Synthesized text never exceeds it.
const MessageCharCeiling = 40000

// truncationMarker is appended whenever a summary is cut at the ceiling.
const truncationMarker = "\n\n[truncated]"

// SynthesizeRequest carries everything the synthesizer needs to build a
// prompt and post-process the response.
type SynthesizeRequest struct {
	Scope       store.SummaryScope
	VIP         Identity
	ChannelName string       // CHANNEL scope only
	Relevant    []RawMessage // the filtered set
	All         []RawMessage // full fetched set (channel transcript context)
	Stats       InteractionStats
}

// SynthesisResult is the post-processed summary.
type SynthesisResult struct {
	Display    string // ceiling-capped text for delivery
	FullLength int    // length of the text before capping, kept for audit
	Truncated  bool
}

// Synthesizer builds the scope-specific prompt, invokes the summarization
// service exactly once, and applies the truncation policy.
type Synthesizer struct {
	llm llm.Service
	now func() time.Time
}

func NewSynthesizer(llmSvc llm.Service) *Synthesizer {
	return &Synthesizer{
		llm: llmSvc,
		now: time.Now,
	}
}

func (s *Synthesizer) Synthesize(ctx context.Context, req *SynthesizeRequest) (*SynthesisResult, error) {
	generatedAt := s.now()

	// An empty window is a valid state: produce the deterministic no-activity
	// summary without consulting the service.
	if req.Stats.MessageCount == 0 {
		var text string
		if req.Scope == store.SummaryScopeChannel {
			text = emptyChannelSummary(req.VIP, req.ChannelName, generatedAt)
		} else {
			text = emptyDMSummary(req.VIP, generatedAt)
		}
		return &SynthesisResult{Display: text, FullLength: len(text)}, nil
	}

	var prompt string
	if req.Scope == store.SummaryScopeChannel {
		prompt = buildChannelPrompt(req.VIP, req.ChannelName, req.Relevant, req.All, req.Stats, generatedAt)
	} else {
		prompt = buildDMPrompt(req.VIP, req.Relevant, req.Stats, generatedAt)
	}

	content, stats, err := s.llm.Chat(ctx, []llm.Message{
		llm.SystemPrompt(synthesisSystemPrompt),
		llm.UserMessage(prompt),
	})
	if err != nil {
		return nil, &SynthesisError{Reason: "summarization service call failed", Err: err}
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, &SynthesisError{Reason: "summarization service returned no content"}
	}

	if stats != nil {
		slog.Debug("summary synthesized",
			"scope", req.Scope,
			"vip", req.VIP.ID,
			"total_tokens", stats.TotalTokens,
			"duration_ms", stats.TotalDurationMs,
		)
	}

	return capToCeiling(content), nil
}

// capToCeiling enforces the platform payload limit. Text at or below the
// ceiling passes through unchanged; anything longer is cut so that the
// marker always fits and the output never exceeds the ceiling.
func capToCeiling(text string) *SynthesisResult {
	fullLength := len(text)
	if fullLength <= MessageCharCeiling {
		return &SynthesisResult{Display: text, FullLength: fullLength}
	}

	cut := MessageCharCeiling - len(truncationMarker)
	// Back off to a rune boundary so the cut never splits a character.
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return &SynthesisResult{
		Display:    text[:cut] + truncationMarker,
		FullLength: fullLength,
		Truncated:  true,
	}
}
