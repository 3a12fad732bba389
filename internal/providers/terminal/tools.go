package terminal

import (
	"fmt"
	"time"

	"github.com/GriffinCanCode/AgentTerm/internal/input"
	"github.com/GriffinCanCode/AgentTerm/internal/session"
	"github.com/GriffinCanCode/AgentTerm/internal/shared/types"
	"github.com/GriffinCanCode/AgentTerm/internal/term"
)

func (p *Provider) createSession(params map[string]interface{}) (*types.Result, error) {
	opts := session.CreateOptions{
		Program:        stringParam(params, "program"),
		Args:           stringSliceParam(params, "args"),
		Rows:           intParam(params, "rows"),
		Cols:           intParam(params, "cols"),
		Env:            stringMapParam(params, "env"),
		Cwd:            stringParam(params, "cwd"),
		ReadyTimeoutMS: intParam(params, "ready_timeout_ms"),
	}
	if v, ok := params["wait_ready"].(bool); ok {
		opts.WaitReady = &v
	}

	res, err := p.manager.Create(opts)
	if err != nil {
		return failure(err), nil
	}

	data := map[string]interface{}{
		"session_id": res.Info.SessionID,
		"pid":        res.Info.Pid,
		"program":    res.Info.Program,
		"dimensions": dimensionsData(res.Info.Rows, res.Info.Cols),
	}
	if res.Ready != nil {
		data["ready"] = *res.Ready
	}
	return types.Success(data), nil
}

func (p *Provider) destroySession(params map[string]interface{}) (*types.Result, error) {
	sessionID, ok := params["session_id"].(string)
	if !ok {
		return nil, fmt.Errorf("session_id is required")
	}
	force, _ := params["force"].(bool)

	code, err := p.manager.Destroy(sessionID, force)
	if err != nil {
		return failure(err), nil
	}

	data := map[string]interface{}{"destroyed": true}
	if code != nil {
		data["exit_code"] = *code
	}
	return types.Success(data), nil
}

func (p *Provider) listSessions() (*types.Result, error) {
	infos := p.manager.List()
	sessions := make([]map[string]interface{}, 0, len(infos))
	for _, info := range infos {
		sessions = append(sessions, infoData(info))
	}
	return types.Success(map[string]interface{}{
		"sessions": sessions,
		"count":    len(sessions),
	}), nil
}

func (p *Provider) send(params map[string]interface{}) (*types.Result, error) {
	sessionID, ok := params["session_id"].(string)
	if !ok {
		return nil, fmt.Errorf("session_id is required")
	}

	paste, err := input.ParsePasteMode(stringParam(params, "bracketed_paste"))
	if err != nil {
		return nil, err
	}

	sess, err := p.manager.Get(sessionID)
	if err != nil {
		return failure(err), nil
	}

	encoded, err := input.Encode(input.Input{
		Key:   stringParam(params, "key"),
		Text:  stringParam(params, "text"),
		Ctrl:  boolParam(params, "ctrl"),
		Alt:   boolParam(params, "alt"),
		Shift: boolParam(params, "shift"),
		Paste: paste,
	})
	if err != nil {
		return failure(err), nil
	}

	if err := sess.Write(encoded); err != nil {
		return failure(err), nil
	}
	if p.metrics != nil {
		p.metrics.AddInputBytes(len(encoded))
	}

	data := map[string]interface{}{"sent": true}
	if readParams, ok := params["read"].(map[string]interface{}); ok {
		opts, err := parseReadOptions(readParams)
		if err != nil {
			return nil, err
		}
		rr, err := p.readSession(sess, opts)
		if err != nil {
			return failure(err), nil
		}
		data["read_result"] = readData(rr)
	}
	return types.Success(data), nil
}

func (p *Provider) read(params map[string]interface{}) (*types.Result, error) {
	sessionID, ok := params["session_id"].(string)
	if !ok {
		return nil, fmt.Errorf("session_id is required")
	}
	opts, err := parseReadOptions(params)
	if err != nil {
		return nil, err
	}

	sess, err := p.manager.Get(sessionID)
	if err != nil {
		return failure(err), nil
	}

	rr, err := p.readSession(sess, opts)
	if err != nil {
		return failure(err), nil
	}
	return types.Success(readData(rr)), nil
}

// readSession runs the wait-and-read and feeds the I/O metrics.
func (p *Provider) readSession(sess *session.Session, opts session.ReadOptions) (*session.ReadResult, error) {
	blocking := opts.TimeoutMS > 0 || opts.WaitIdleMS > 0 || opts.WaitForPrompt

	start := time.Now()
	rr, err := sess.Read(opts)
	if err != nil {
		return nil, err
	}

	if p.metrics != nil {
		if blocking {
			p.metrics.ObserveReadWait(time.Since(start))
		}
		p.metrics.AddOutputBytes(len(rr.Content))
	}
	return rr, nil
}

func (p *Provider) getInfo(params map[string]interface{}) (*types.Result, error) {
	sessionID, ok := params["session_id"].(string)
	if !ok {
		return nil, fmt.Errorf("session_id is required")
	}

	sess, err := p.manager.Get(sessionID)
	if err != nil {
		return failure(err), nil
	}
	return types.Success(infoData(sess.Info())), nil
}

func (p *Provider) cleanupExited() (*types.Result, error) {
	removed := p.manager.CleanupExited()
	return types.Success(map[string]interface{}{
		"removed": removed,
		"count":   len(removed),
	}), nil
}

func parseReadOptions(params map[string]interface{}) (session.ReadOptions, error) {
	view, err := term.ParseView(stringParam(params, "view"))
	if err != nil {
		return session.ReadOptions{}, err
	}
	format, err := term.ParseFormat(stringParam(params, "format"))
	if err != nil {
		return session.ReadOptions{}, err
	}
	return session.ReadOptions{
		View:          view,
		Format:        format,
		TimeoutMS:     intParam(params, "timeout_ms"),
		WaitIdleMS:    intParam(params, "wait_idle_ms"),
		WaitForPrompt: boolParam(params, "wait_for_prompt"),
		Offset:        intParam(params, "offset"),
		Limit:         intParam(params, "limit"),
	}, nil
}

// Param coercion. JSON numbers arrive as float64; absent or ill-typed
// optional params fall back to zero values.

func stringParam(params map[string]interface{}, key string) string {
	v, _ := params[key].(string)
	return v
}

func boolParam(params map[string]interface{}, key string) bool {
	v, _ := params[key].(bool)
	return v
}

func intParam(params map[string]interface{}, key string) int {
	switch v := params[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func stringSliceParam(params map[string]interface{}, key string) []string {
	raw, ok := params[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func stringMapParam(params map[string]interface{}, key string) map[string]string {
	raw, ok := params[key].(map[string]interface{})
	if !ok {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}
