package ws

import (
	"bytes"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentTerm/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentTerm/internal/input"
	"github.com/GriffinCanCode/AgentTerm/internal/logging"
	"github.com/GriffinCanCode/AgentTerm/internal/session"
	"github.com/GriffinCanCode/AgentTerm/internal/shared/types"
)

// drainInterval is how often an attached client pumps session output.
// Without it, output would only move when a tool call drains the session.
const drainInterval = 25 * time.Millisecond

// Frame types carried in the type field.
const (
	frameInfo   = "info"
	frameOutput = "output"
	frameExit   = "exit"
	frameClose  = "close"
	frameError  = "error"
	framePong   = "pong"
)

var replacement = []byte("�")

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in dev
	},
}

// frame is the wire format for attach traffic. The type field selects
// which of the remaining fields are set.
type frame struct {
	Type      string   `json:"type"`
	SessionID string   `json:"session_id,omitempty"`
	Program   string   `json:"program,omitempty"`
	Args      []string `json:"args,omitempty"`
	Pid       int      `json:"pid,omitempty"`
	Rows      int      `json:"rows,omitempty"`
	Cols      int      `json:"cols,omitempty"`
	Screen    string   `json:"screen,omitempty"`
	Data      string   `json:"data,omitempty"`
	ExitCode  *int     `json:"exit_code,omitempty"`
	Message   string   `json:"message,omitempty"`
}

// Handler manages WebSocket attach connections
type Handler struct {
	manager *session.Manager
	metrics *monitoring.Metrics
	log     *logging.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(manager *session.Manager, log *logging.Logger) *Handler {
	return &Handler{manager: manager, log: log}
}

// WithMetrics adds connection and message metrics
func (h *Handler) WithMetrics(metrics *monitoring.Metrics) *Handler {
	h.metrics = metrics
	return h
}

// client is one attached connection. writeMu serializes frames between
// the read loop and the output pump.
type client struct {
	id      string
	conn    *websocket.Conn
	sess    *session.Session
	writeMu sync.Mutex
}

func (cl *client) write(f frame) error {
	data, err := sonic.Marshal(f)
	if err != nil {
		return err
	}
	cl.writeMu.Lock()
	defer cl.writeMu.Unlock()
	return cl.conn.WriteMessage(websocket.TextMessage, data)
}

// HandleAttach upgrades the request and streams a session to the client.
// The first frame is an info snapshot carrying the current screen; output
// frames follow as the child produces bytes. Input frames are encoded
// exactly like the send tool and written to the PTY.
func (h *Handler) HandleAttach(c *gin.Context) {
	sess, err := h.manager.Get(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	cl := &client{
		id:   uuid.New().String(),
		conn: conn,
		sess: sess,
	}

	out, err := sess.Subscribe(cl.id)
	if err != nil {
		cl.write(frame{Type: frameError, Message: err.Error()})
		return
	}
	defer sess.Unsubscribe(cl.id)

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}

	log := h.log.WithSession(sess.ID)
	log.Info("client attached", zap.String("client_id", cl.id))

	info, screen := sess.Snapshot()
	if err := cl.write(frame{
		Type:      frameInfo,
		SessionID: info.SessionID,
		Program:   info.Program,
		Args:      info.Args,
		Pid:       info.Pid,
		Rows:      info.Rows,
		Cols:      info.Cols,
		Screen:    screen,
	}); err != nil {
		return
	}

	done := make(chan struct{})
	defer close(done)
	go cl.pump(out, done, h.metrics)

	h.readLoop(cl, log)
	log.Info("client detached", zap.String("client_id", cl.id))
}

// pump forwards drained output to the client, ticking the session so
// bytes flow even when no tool call is reading. When the child exits or
// the session is destroyed it tells the client and closes the connection,
// which unblocks the read loop.
func (cl *client) pump(out <-chan []byte, done <-chan struct{}, metrics *monitoring.Metrics) {
	ticker := time.NewTicker(drainInterval)
	defer ticker.Stop()

	for {
		select {
		case data, ok := <-out:
			if !ok {
				cl.write(frame{Type: frameClose})
				cl.conn.Close()
				return
			}
			if err := cl.writeOutput(data, metrics); err != nil {
				return
			}
		case <-ticker.C:
			cl.sess.Drain()
			if cl.sess.Exited() {
				cl.flush(out, metrics)
				info := cl.sess.Info()
				cl.write(frame{Type: frameExit, ExitCode: info.ExitCode})
				cl.conn.Close()
				return
			}
		case <-done:
			return
		}
	}
}

// flush forwards whatever output is already queued without blocking.
func (cl *client) flush(out <-chan []byte, metrics *monitoring.Metrics) {
	for {
		select {
		case data, ok := <-out:
			if !ok {
				return
			}
			if err := cl.writeOutput(data, metrics); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (cl *client) writeOutput(data []byte, metrics *monitoring.Metrics) error {
	f := frame{
		Type: frameOutput,
		Data: string(bytes.ToValidUTF8(data, replacement)),
	}
	if err := cl.write(f); err != nil {
		return err
	}
	if metrics != nil {
		metrics.RecordWSMessage("out", frameOutput)
	}
	return nil
}

// readLoop consumes client frames until the connection drops.
func (h *Handler) readLoop(cl *client, log *logging.Logger) {
	for {
		_, raw, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("websocket read error", zap.Error(err))
			}
			return
		}

		var msg types.WSMessage
		if err := sonic.Unmarshal(raw, &msg); err != nil {
			cl.write(frame{Type: frameError, Message: "malformed frame"})
			continue
		}

		if h.metrics != nil {
			h.metrics.RecordWSMessage("in", msg.Type)
		}

		switch msg.Type {
		case "input":
			h.handleInput(cl, msg)
		case "ping":
			cl.write(frame{Type: framePong})
		default:
			cl.write(frame{Type: frameError, Message: "unknown message type"})
		}
	}
}

func (h *Handler) handleInput(cl *client, msg types.WSMessage) {
	data, err := input.Encode(input.Input{
		Key:   msg.Key,
		Text:  msg.Text,
		Ctrl:  msg.Ctrl,
		Alt:   msg.Alt,
		Shift: msg.Shift,
		Paste: input.PasteAuto,
	})
	if err != nil {
		cl.write(frame{Type: frameError, Message: err.Error()})
		return
	}
	if err := cl.sess.Write(data); err != nil {
		cl.write(frame{Type: frameError, Message: err.Error()})
		return
	}
	if h.metrics != nil {
		h.metrics.AddInputBytes(len(data))
	}
}
