package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/joeblew999/plat-fonts/internal/session"
	"github.com/joeblew999/plat-fonts/pkg/catalog"
	"github.com/joeblew999/plat-fonts/pkg/queue"
	"github.com/zeromicro/go-zero/mcp"
)

// agentSession is the editing session MCP tools act on. It is reopened
// when the manager evicts it.
type agentSession struct {
	mu      sync.Mutex
	manager *session.Manager
	id      string
}

func (a *agentSession) get(ctx context.Context) (*session.Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.id != "" {
		if s, ok := a.manager.Get(a.id); ok {
			return s, nil
		}
	}
	s, err := a.manager.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	a.id = s.ID
	return s, nil
}

// RegisterMCPTools registers the font catalog tools. q may be nil when
// submissions are not queued.
func RegisterMCPTools(s mcp.McpServer, manager *session.Manager, q *queue.Queue) {
	agent := &agentSession{manager: manager}

	registerOutlineTool(s, agent)
	registerRequestDeleteTool(s, agent)
	registerConfirmDeleteTool(s, agent)
	registerCancelDeleteTool(s, agent)
	if q != nil {
		registerSubmissionStatusTool(s, q)
	}
	registerOutlineResource(s, agent)
}

func sessionState(sess *session.Session) map[string]any {
	result := map[string]any{
		"theme":     sess.Theme,
		"state":     sess.State().String(),
		"outline":   sess.Outline(),
		"submitted": sess.Submitted(),
	}
	if t, ok := sess.Pending(); ok {
		result["pending"] = t
	}
	return result
}

func registerOutlineTool(s mcp.McpServer, agent *agentSession) {
	s.RegisterTool(mcp.Tool{
		Name:        "font_outline",
		Description: "List the theme's font families and faces, including entries already marked for removal.",
		InputSchema: mcp.InputSchema{
			Properties: map[string]any{},
		},
		Handler: func(ctx context.Context, p map[string]any) (any, error) {
			sess, err := agent.get(ctx)
			if err != nil {
				return nil, err
			}
			return sessionState(sess), nil
		},
	})
}

func registerRequestDeleteTool(s mcp.McpServer, agent *agentSession) {
	s.RegisterTool(mcp.Tool{
		Name: "request_font_delete",
		Description: "Stage a font family, or a single face when weight and style are given, for deletion. " +
			"Nothing changes until confirm_font_delete is called. A new request replaces a staged one.",
		InputSchema: mcp.InputSchema{
			Properties: map[string]any{
				"family": map[string]any{
					"type":        "string",
					"description": "Family identifier or display name (e.g., Inter)",
				},
				"weight": map[string]any{
					"type":        "string",
					"description": "Face weight (e.g., 400). Requires style.",
				},
				"style": map[string]any{
					"type":        "string",
					"description": "Face style (e.g., normal, italic). Requires weight.",
				},
			},
			Required: []string{"family"},
		},
		Handler: func(ctx context.Context, p map[string]any) (any, error) {
			var args struct {
				Family string `json:"family"`
				Weight string `json:"weight,optional"`
				Style  string `json:"style,optional"`
			}
			if err := mcp.ParseArguments(p, &args); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
			if args.Family == "" {
				return nil, fmt.Errorf("family is required")
			}

			sess, err := agent.get(ctx)
			if err != nil {
				return nil, err
			}

			t := catalog.FamilyTarget(args.Family)
			if args.Weight != "" && args.Style != "" {
				t = catalog.FaceTarget(args.Family, catalog.FontWeight(args.Weight), args.Style)
			}
			sess.RequestDelete(t)

			return sessionState(sess), nil
		},
	})
}

func registerConfirmDeleteTool(s mcp.McpServer, agent *agentSession) {
	s.RegisterTool(mcp.Tool{
		Name:        "confirm_font_delete",
		Description: "Apply the staged font deletion and submit the updated catalog.",
		InputSchema: mcp.InputSchema{
			Properties: map[string]any{},
		},
		Handler: func(ctx context.Context, p map[string]any) (any, error) {
			sess, err := agent.get(ctx)
			if err != nil {
				return nil, err
			}
			applied, err := sess.Confirm()
			if errors.Is(err, session.ErrClosed) {
				// Evicted between lookup and confirm; the staged delete went with it.
				return nil, fmt.Errorf("%w: request the delete again", err)
			}
			result := sessionState(sess)
			result["applied"] = applied
			return result, nil
		},
	})
}

func registerCancelDeleteTool(s mcp.McpServer, agent *agentSession) {
	s.RegisterTool(mcp.Tool{
		Name:        "cancel_font_delete",
		Description: "Discard the staged font deletion without changing the catalog.",
		InputSchema: mcp.InputSchema{
			Properties: map[string]any{},
		},
		Handler: func(ctx context.Context, p map[string]any) (any, error) {
			sess, err := agent.get(ctx)
			if err != nil {
				return nil, err
			}
			cancelled := sess.Cancel()
			result := sessionState(sess)
			result["cancelled"] = cancelled
			return result, nil
		},
	})
}

func registerSubmissionStatusTool(s mcp.McpServer, q *queue.Queue) {
	s.RegisterTool(mcp.Tool{
		Name:        "get_submission_status",
		Description: "Get the delivery status of a queued catalog submission by its ID.",
		InputSchema: mcp.InputSchema{
			Properties: map[string]any{
				"id": map[string]any{
					"type":        "string",
					"description": "Submission ID",
				},
			},
			Required: []string{"id"},
		},
		Handler: func(ctx context.Context, p map[string]any) (any, error) {
			var args struct {
				ID string `json:"id"`
			}
			if err := mcp.ParseArguments(p, &args); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}

			job, err := q.GetStatus(ctx, args.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to get status: %w", err)
			}
			if job == nil {
				return nil, fmt.Errorf("submission not found: %s", args.ID)
			}
			return job, nil
		},
	})
}

func registerOutlineResource(s mcp.McpServer, agent *agentSession) {
	s.RegisterResource(mcp.Resource{
		Name:        "outline",
		URI:         "fonts://outline",
		Description: "Font families and faces of the managed theme",
		MimeType:    "application/json",
		Handler: func(ctx context.Context) (mcp.ResourceContent, error) {
			sess, err := agent.get(ctx)
			if err != nil {
				return mcp.ResourceContent{}, err
			}
			data, err := json.Marshal(sess.Outline())
			if err != nil {
				return mcp.ResourceContent{}, err
			}

			return mcp.ResourceContent{
				URI:      "fonts://outline",
				MimeType: "application/json",
				Text:     string(data),
			}, nil
		},
	})
}
