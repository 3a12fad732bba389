package session

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/GriffinCanCode/AgentTerm/internal/pty"
)

const (
	// readChunk is the PTY read buffer size.
	readChunk = 4096

	// readerChanCap bounds how much output can queue before the reader
	// blocks waiting for a drain.
	readerChanCap = 1024

	// exitWait is how long the reader waits for the exit status to be
	// reaped after a read error before falling back to a bare EOF.
	exitWait = time.Second

	// joinGrace is how long teardown waits for the reader goroutine
	// before detaching from it.
	joinGrace = 100 * time.Millisecond
)

type msgKind int

const (
	msgData msgKind = iota
	msgExited
	msgError
)

// readerMsg is one event from the reader goroutine: a chunk of output,
// process exit (with status when known), or a read failure.
type readerMsg struct {
	kind msgKind
	data []byte
	code *int
	err  error
}

// reader pumps the PTY master into a channel from a dedicated goroutine,
// so session operations never block on the descriptor themselves.
type reader struct {
	ch       chan readerMsg
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func startReader(h *pty.Handle) *reader {
	r := &reader{
		ch:   make(chan readerMsg, readerChanCap),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go r.loop(h)
	return r
}

func (r *reader) loop(h *pty.Handle) {
	defer close(r.done)

	buf := make([]byte, readChunk)
	for {
		n, err := h.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			if !r.send(readerMsg{kind: msgData, data: data}) {
				return
			}
		}
		if err == nil {
			if r.stopped() {
				return
			}
			continue
		}

		// A read error usually means the child exited and the slave side
		// closed (EIO on Linux). If teardown closed the master under us,
		// say nothing.
		if r.stopped() {
			return
		}
		select {
		case <-h.Done():
			r.send(readerMsg{kind: msgExited, code: h.ExitCode()})
		case <-time.After(exitWait):
			if errors.Is(err, io.EOF) {
				r.send(readerMsg{kind: msgExited})
			} else {
				r.send(readerMsg{kind: msgError, err: err})
			}
		}
		return
	}
}

// send delivers a message unless teardown has started. Returns false when
// the reader should abandon its loop.
func (r *reader) send(m readerMsg) bool {
	select {
	case r.ch <- m:
		return true
	case <-r.stop:
		return false
	}
}

func (r *reader) stopped() bool {
	select {
	case <-r.stop:
		return true
	default:
		return false
	}
}

// signalStop unblocks the reader without closing the PTY descriptor.
// The caller closes the descriptor; the pending Read then errors out.
func (r *reader) signalStop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

// join waits up to grace for the reader goroutine to finish.
func (r *reader) join(grace time.Duration) bool {
	select {
	case <-r.done:
		return true
	case <-time.After(grace):
		return false
	}
}
