package terminal

import (
	"context"
	"fmt"
	"strings"

	"github.com/GriffinCanCode/AgentTerm/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentTerm/internal/logging"
	"github.com/GriffinCanCode/AgentTerm/internal/session"
	"github.com/GriffinCanCode/AgentTerm/internal/shared/types"
)

// Provider implements terminal session operations
type Provider struct {
	manager *session.Manager
	metrics *monitoring.Metrics
	log     *logging.Logger
}

// NewProvider creates a new terminal provider
func NewProvider(manager *session.Manager, log *logging.Logger) *Provider {
	return &Provider{
		manager: manager,
		log:     log,
	}
}

// WithMetrics adds metrics tracking to the provider
func (p *Provider) WithMetrics(metrics *monitoring.Metrics) *Provider {
	p.metrics = metrics
	return p
}

// Manager exposes the session manager for surfaces that bypass the tool
// contract (the WebSocket attach endpoint).
func (p *Provider) Manager() *session.Manager {
	return p.manager
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "terminal",
		Name:        "Terminal Service",
		Description: "Persistent interactive PTY sessions for running REPLs, shells, and TUI programs across tool calls",
		Category:    types.CategoryTerminal,
		Capabilities: []string{
			"pty",
			"shell",
			"interactive",
			"ansi",
			"sessions",
			"scrollback",
			"prompt-detection",
			"bracketed-paste",
		},
		Tools: p.getTools(),
	}
}

// Execute routes to appropriate operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	tool := strings.TrimPrefix(toolID, "terminal.")

	var timer *monitoring.Timer
	if p.metrics != nil {
		timer = monitoring.NewTimer(p.metrics, tool)
	}

	res, err := p.dispatch(toolID, params)

	if timer != nil {
		status := "success"
		if err != nil || (res != nil && !res.Success) {
			status = "failure"
		}
		timer.Stop(status)
		if res != nil && res.Code != nil {
			p.metrics.RecordToolError(tool, *res.Code)
		}
	}
	return res, err
}

func (p *Provider) dispatch(toolID string, params map[string]interface{}) (*types.Result, error) {
	switch toolID {
	case "terminal.create_session":
		return p.createSession(params)
	case "terminal.destroy_session":
		return p.destroySession(params)
	case "terminal.list_sessions":
		return p.listSessions()
	case "terminal.send":
		return p.send(params)
	case "terminal.read":
		return p.read(params)
	case "terminal.get_info":
		return p.getInfo(params)
	case "terminal.cleanup_exited":
		return p.cleanupExited()
	default:
		return nil, fmt.Errorf("unknown tool: %s", toolID)
	}
}

func (p *Provider) getTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "terminal.create_session",
			Name:        "Create Terminal Session",
			Description: "Spawn a program on a fresh PTY and register a persistent session",
			Parameters: []types.Parameter{
				{
					Name:        "program",
					Type:        "string",
					Description: "Program to run (e.g. /bin/bash, python3). Defaults to the configured shell",
					Required:    false,
				},
				{
					Name:        "args",
					Type:        "array",
					Description: "Arguments passed to the program",
					Required:    false,
				},
				{
					Name:        "rows",
					Type:        "number",
					Description: "Terminal height in rows. Defaults to 24; immutable afterwards",
					Required:    false,
				},
				{
					Name:        "cols",
					Type:        "number",
					Description: "Terminal width in columns. Defaults to 80; immutable afterwards",
					Required:    false,
				},
				{
					Name:        "env",
					Type:        "object",
					Description: "Environment variables to set, overriding the filtered ambient environment",
					Required:    false,
				},
				{
					Name:        "cwd",
					Type:        "string",
					Description: "Initial working directory",
					Required:    false,
				},
				{
					Name:        "wait_ready",
					Type:        "boolean",
					Description: "Block until a shell prompt appears. Defaults to true for known shells",
					Required:    false,
				},
				{
					Name:        "ready_timeout_ms",
					Type:        "number",
					Description: "Ready-wait deadline in milliseconds. Defaults to 5000",
					Required:    false,
				},
			},
			Returns: "session_info",
		},
		{
			ID:          "terminal.send",
			Name:        "Send Input",
			Description: "Send text or a special key to a session, optionally reading output afterwards",
			Parameters: []types.Parameter{
				{
					Name:        "session_id",
					Type:        "string",
					Description: "Terminal session ID",
					Required:    true,
				},
				{
					Name:        "text",
					Type:        "string",
					Description: "Text to send. Multi-line text is bracketed-paste wrapped by default",
					Required:    false,
				},
				{
					Name:        "key",
					Type:        "string",
					Description: "Special key name (enter, tab, escape, up, down, left, right, home, end, pageup, pagedown, insert, delete, backspace, space, f1-f12)",
					Required:    false,
				},
				{
					Name:        "ctrl",
					Type:        "boolean",
					Description: "Ctrl modifier",
					Required:    false,
				},
				{
					Name:        "alt",
					Type:        "boolean",
					Description: "Alt modifier",
					Required:    false,
				},
				{
					Name:        "shift",
					Type:        "boolean",
					Description: "Shift modifier",
					Required:    false,
				},
				{
					Name:        "bracketed_paste",
					Type:        "string",
					Description: "Paste wrapping for text: auto, always, or never. Defaults to auto",
					Required:    false,
				},
				{
					Name:        "read",
					Type:        "object",
					Description: "Read options applied after sending (same fields as terminal.read)",
					Required:    false,
				},
			},
			Returns: "send_result",
		},
		{
			ID:          "terminal.read",
			Name:        "Read Output",
			Description: "Read session output from a view, optionally waiting for a condition first",
			Parameters: []types.Parameter{
				{
					Name:        "session_id",
					Type:        "string",
					Description: "Terminal session ID",
					Required:    true,
				},
				{
					Name:        "view",
					Type:        "string",
					Description: "Which buffer to read: new (since last read), screen, or scrollback. Defaults to new",
					Required:    false,
				},
				{
					Name:        "format",
					Type:        "string",
					Description: "Output format: plain (escape sequences stripped) or raw. Defaults to plain",
					Required:    false,
				},
				{
					Name:        "timeout_ms",
					Type:        "number",
					Description: "Maximum wait in milliseconds. 0 reads immediately",
					Required:    false,
				},
				{
					Name:        "wait_idle_ms",
					Type:        "number",
					Description: "Wait until no output has arrived for this many milliseconds",
					Required:    false,
				},
				{
					Name:        "wait_for_prompt",
					Type:        "boolean",
					Description: "Wait until recent output ends at a shell prompt",
					Required:    false,
				},
				{
					Name:        "offset",
					Type:        "number",
					Description: "Scrollback paging offset, counted back from the newest line",
					Required:    false,
				},
				{
					Name:        "limit",
					Type:        "number",
					Description: "Scrollback paging limit. Defaults to 1000",
					Required:    false,
				},
			},
			Returns: "read_result",
		},
		{
			ID:          "terminal.get_info",
			Name:        "Get Session Info",
			Description: "Describe a session's process, dimensions, cursor, and health",
			Parameters: []types.Parameter{
				{
					Name:        "session_id",
					Type:        "string",
					Description: "Terminal session ID",
					Required:    true,
				},
			},
			Returns: "session_info",
		},
		{
			ID:          "terminal.list_sessions",
			Name:        "List Terminal Sessions",
			Description: "List all registered sessions, including exited ones not yet cleaned up",
			Parameters:  []types.Parameter{},
			Returns:     "sessions_list",
		},
		{
			ID:          "terminal.destroy_session",
			Name:        "Destroy Terminal Session",
			Description: "Terminate a session's process and remove it from the registry",
			Parameters: []types.Parameter{
				{
					Name:        "session_id",
					Type:        "string",
					Description: "Terminal session ID",
					Required:    true,
				},
				{
					Name:        "force",
					Type:        "boolean",
					Description: "Kill immediately instead of terminating gracefully",
					Required:    false,
				},
			},
			Returns: "destroy_result",
		},
		{
			ID:          "terminal.cleanup_exited",
			Name:        "Clean Up Exited Sessions",
			Description: "Remove every session whose process has exited",
			Parameters:  []types.Parameter{},
			Returns:     "cleanup_result",
		},
	}
}
