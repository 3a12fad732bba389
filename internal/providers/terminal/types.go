package terminal

import (
	"errors"
	"os"

	"github.com/GriffinCanCode/AgentTerm/internal/input"
	"github.com/GriffinCanCode/AgentTerm/internal/pty"
	"github.com/GriffinCanCode/AgentTerm/internal/session"
	"github.com/GriffinCanCode/AgentTerm/internal/shared/types"
	"github.com/GriffinCanCode/AgentTerm/internal/term"
)

// Stable error codes exposed to callers.
const (
	CodePtyError         = "PTY_ERROR"
	CodeIoError          = "IO_ERROR"
	CodeSessionNotFound  = "SESSION_NOT_FOUND"
	CodeMaxSessions      = "MAX_SESSIONS_REACHED"
	CodeSessionDestroyed = "SESSION_DESTROYED"
	CodeSessionError     = "SESSION_ERROR"
	CodeNoInput          = "NO_INPUT"
	CodeInvalidKey       = "INVALID_KEY"
	CodeInvalidPattern   = "INVALID_PATTERN"
	CodeProcessExited    = "PROCESS_EXITED"
	CodeProgramNotFound  = "PROGRAM_NOT_FOUND"
	CodeWaitTimeout      = "WAIT_TIMEOUT"
	CodeAttachLimit      = "ATTACH_LIMIT"
)

// errorCode maps sentinel errors onto the stable codes.
func errorCode(err error) string {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return CodeSessionNotFound
	case errors.Is(err, session.ErrMaxSessions):
		return CodeMaxSessions
	case errors.Is(err, session.ErrSessionDestroyed):
		return CodeSessionDestroyed
	case errors.Is(err, session.ErrProcessExited):
		return CodeProcessExited
	case errors.Is(err, session.ErrSessionFailed):
		return CodeSessionError
	case errors.Is(err, session.ErrWaitTimeout):
		return CodeWaitTimeout
	case errors.Is(err, session.ErrAttachLimit):
		return CodeAttachLimit
	case errors.Is(err, pty.ErrProgramNotFound):
		return CodeProgramNotFound
	case errors.Is(err, pty.ErrSpawn):
		return CodePtyError
	case errors.Is(err, input.ErrNoInput):
		return CodeNoInput
	case errors.Is(err, input.ErrInvalidKey):
		return CodeInvalidKey
	case errors.Is(err, term.ErrInvalidPattern):
		return CodeInvalidPattern
	}

	// Descriptor-level failures (PTY writes against a closed slave) come
	// through as path errors.
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return CodeIoError
	}
	return CodePtyError
}

func failure(err error) *types.Result {
	return types.FailureCode(errorCode(err), err.Error())
}

func dimensionsData(rows, cols int) map[string]interface{} {
	return map[string]interface{}{
		"rows": rows,
		"cols": cols,
	}
}

func cursorData(c term.Cursor) map[string]interface{} {
	return map[string]interface{}{
		"row":     c.Row,
		"col":     c.Col,
		"visible": c.Visible,
	}
}

func infoData(info session.Info) map[string]interface{} {
	data := map[string]interface{}{
		"session_id": info.SessionID,
		"program":    info.Program,
		"args":       info.Args,
		"pid":        info.Pid,
		"created_at": info.CreatedAt,
		"dimensions": dimensionsData(info.Rows, info.Cols),
		"cursor":     cursorData(info.Cursor),
		"exited":     info.Exited,
		"healthy":    info.Healthy,
	}
	if info.ExitCode != nil {
		data["exit_code"] = *info.ExitCode
	}
	if info.Title != "" {
		data["title"] = info.Title
	}
	if info.Cwd != "" {
		data["cwd"] = info.Cwd
	}
	return data
}

func readData(r *session.ReadResult) map[string]interface{} {
	data := map[string]interface{}{
		"content":         r.Content,
		"lines":           r.Lines,
		"dimensions":      dimensionsData(r.Rows, r.Cols),
		"has_new_content": r.HasNewContent,
		"prompt_detected": r.PromptDetected,
		"idle":            r.Idle,
		"exited":          r.Exited,
	}
	if r.Cursor != nil {
		data["cursor"] = cursorData(*r.Cursor)
	}
	if r.ExitCode != nil {
		data["exit_code"] = *r.ExitCode
	}
	return data
}
