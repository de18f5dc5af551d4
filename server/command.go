package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/vipsense/vip"
)

// slashResponse is the immediate JSON acknowledgement Slack expects from a
// slash-command webhook.
type slashResponse struct {
	ResponseType string `json:"response_type"`
	Text         string `json:"text"`
}

// channelRef matches the expanded channel mention form: <#C123ABC|general>.
var channelRef = regexp.MustCompile(`^<#([CG][A-Z0-9]+)\|([^>]*)>$`)

// summaryTimeout bounds the whole background pipeline for one request.
const summaryTimeout = 3 * time.Minute

func (s *Server) handleSlashCommand(c echo.Context) error {
	command := c.FormValue("command")
	text := strings.TrimSpace(c.FormValue("text"))
	userID := c.FormValue("user_id")
	channelID := c.FormValue("channel_id")

	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}

	switch command {
	case "/vip":
		return s.handleVIPCommand(c, userID, text)
	case "/summary":
		return s.handleSummaryCommand(c, userID, channelID, text)
	default:
		return ephemeral(c, fmt.Sprintf("Unknown command %q.", command))
	}
}

func (s *Server) handleVIPCommand(c echo.Context, userID, text string) error {
	ctx := c.Request().Context()
	args := strings.Fields(text)
	if len(args) == 0 {
		return ephemeral(c, "Usage: `/vip add <@user>`, `/vip remove <@user>`, `/vip list`")
	}

	switch args[0] {
	case "add":
		if len(args) != 2 {
			return ephemeral(c, "Usage: `/vip add <@user>`")
		}
		relationship, err := s.engine.Registry().Add(ctx, userID, args[1])
		if err != nil {
			return commandError(c, err)
		}
		return ephemeral(c, fmt.Sprintf("✅ @%s has been added to your VIP list.", relationship.Username))

	case "remove":
		if len(args) != 2 {
			return ephemeral(c, "Usage: `/vip remove <@user>`")
		}
		if err := s.engine.Registry().Remove(ctx, userID, args[1]); err != nil {
			return commandError(c, err)
		}
		return ephemeral(c, "✅ Removed from your VIP list.")

	case "list":
		list, err := s.engine.Registry().List(ctx, userID)
		if err != nil {
			return commandError(c, err)
		}
		if len(list) == 0 {
			return ephemeral(c, "Your VIP list is empty. Use `/vip add <@user>` to start tracking someone.")
		}
		var b strings.Builder
		b.WriteString("Your VIPs:\n")
		for _, relationship := range list {
			fmt.Fprintf(&b, "• %s (@%s)\n", relationship.DisplayName, relationship.Username)
		}
		return ephemeral(c, strings.TrimRight(b.String(), "\n"))

	default:
		return ephemeral(c, fmt.Sprintf("Unknown subcommand %q. Use add, remove, or list.", args[0]))
	}
}

// handleSummaryCommand acknowledges immediately and runs the pipeline in the
// background; Slack requires a webhook response within seconds while a
// summary takes far longer.
func (s *Server) handleSummaryCommand(c echo.Context, userID, responseChannelID, text string) error {
	args := strings.Fields(text)
	switch {
	case len(args) == 2 && args[0] == "vip":
		vipToken := args[1]
		go s.runSummary(userID, responseChannelID, "DM", func(ctx context.Context) (string, error) {
			result, err := s.engine.SummarizeDM(ctx, userID, vipToken, 0)
			if err != nil {
				return "", err
			}
			return result.Text, nil
		})
		return ephemeral(c, "⏳ Generating the DM summary, I'll post it here shortly.")

	case len(args) == 2:
		vipToken := args[0]
		m := channelRef.FindStringSubmatch(args[1])
		if m == nil {
			return ephemeral(c, "Please reference the channel with a #channel mention: `/summary <@user> <#channel>`")
		}
		targetChannelID, targetChannelName := m[1], m[2]
		go s.runSummary(userID, responseChannelID, "channel", func(ctx context.Context) (string, error) {
			result, err := s.engine.SummarizeChannel(ctx, userID, vipToken, targetChannelID, targetChannelName, 0)
			if err != nil {
				return "", err
			}
			return result.Text, nil
		})
		return ephemeral(c, "⏳ Generating the channel summary, I'll post it here shortly.")

	default:
		return ephemeral(c, "Usage: `/summary vip <@user>` or `/summary <@user> <#channel>`")
	}
}

func (s *Server) runSummary(userID, responseChannelID, kind string, run func(context.Context) (string, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), summaryTimeout)
	defer cancel()

	summary, err := run(ctx)
	if err != nil {
		slog.Warn("summary request failed", "kind", kind, "requester", userID, "error", err)
		summary = "❌ " + vip.UserMessage(err)
	} else {
		summary = fmt.Sprintf("<@%s> Here's your VIP %s summary:\n\n%s", userID, kind, summary)
	}

	if err := s.gateway.PostMessage(ctx, responseChannelID, summary); err != nil {
		slog.Error("failed to deliver summary", "channel", responseChannelID, "error", err)
	}
}

func commandError(c echo.Context, err error) error {
	slog.Warn("command failed", "error", err)
	return ephemeral(c, "❌ "+vip.UserMessage(err))
}

func ephemeral(c echo.Context, text string) error {
	return c.JSON(http.StatusOK, slashResponse{ResponseType: "ephemeral", Text: text})
}
