package pty

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
)

var (
	// ErrProgramNotFound indicates the requested program could not be
	// resolved to an executable.
	ErrProgramNotFound = errors.New("program not found")

	// ErrSpawn indicates the pseudo-terminal allocation or process start
	// failed.
	ErrSpawn = errors.New("pty spawn failed")
)

// terminateGrace bounds how long a graceful terminate waits before
// escalating to SIGKILL, and how long any terminate waits for the exit
// status to be collected.
const terminateGrace = 5 * time.Second

// Options configure a spawned child process.
type Options struct {
	Program string
	Args    []string
	Rows    int
	Cols    int
	Env     map[string]string
	Cwd     string
	Term    string
}

// Handle owns a child process attached to a pseudo-terminal master.
type Handle struct {
	cmd  *exec.Cmd
	ptmx *os.File
	pid  int

	done chan struct{}

	mu       sync.Mutex
	exitCode *int
}

// Spawn starts opts.Program attached to a new pseudo-terminal of the given
// size. The child inherits the filtered ambient environment plus opts.Env.
func Spawn(opts Options) (*Handle, error) {
	path, err := exec.LookPath(opts.Program)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrProgramNotFound, opts.Program)
	}

	if opts.Rows <= 0 {
		opts.Rows = 24
	}
	if opts.Cols <= 0 {
		opts.Cols = 80
	}
	if opts.Term == "" {
		opts.Term = "xterm-256color"
	}

	cmd := exec.Command(path, opts.Args...)
	cmd.Env = BuildEnv(opts.Env, opts.Term)
	if opts.Cwd != "" {
		cmd.Dir = opts.Cwd
	}

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(opts.Rows),
		Cols: uint16(opts.Cols),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSpawn, err)
	}

	h := &Handle{
		cmd:  cmd,
		ptmx: ptmx,
		pid:  cmd.Process.Pid,
		done: make(chan struct{}),
	}
	go h.wait()

	return h, nil
}

// wait is the single owner of the child's exit status.
func (h *Handle) wait() {
	err := h.cmd.Wait()

	code := 0
	switch state := h.cmd.ProcessState; {
	case state != nil:
		code = exitCodeOf(state)
	case err != nil:
		code = -1
	}

	h.mu.Lock()
	h.exitCode = &code
	h.mu.Unlock()
	close(h.done)
}

// exitCodeOf maps a terminating signal to the conventional 128+signal code.
func exitCodeOf(state *os.ProcessState) int {
	if status, ok := state.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return 128 + int(status.Signal())
	}
	return state.ExitCode()
}

// Read reads output from the pseudo-terminal master. It blocks until data
// is available, the child exits, or the handle is closed.
func (h *Handle) Read(p []byte) (int, error) {
	return h.ptmx.Read(p)
}

// Write sends input bytes to the child.
func (h *Handle) Write(data []byte) error {
	_, err := h.ptmx.Write(data)
	return err
}

// Signal delivers sig to the child process.
func (h *Handle) Signal(sig os.Signal) error {
	return h.cmd.Process.Signal(sig)
}

// IsAlive reports whether the child is still running.
func (h *Handle) IsAlive() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

// Pid returns the child's process id.
func (h *Handle) Pid() int {
	return h.pid
}

// ExitCode returns the child's exit code, or nil while it is running.
func (h *Handle) ExitCode() *int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.exitCode == nil {
		return nil
	}
	code := *h.exitCode
	return &code
}

// Done returns a channel closed once the child's exit status has been
// collected.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Terminate stops the child. With force it sends SIGKILL immediately;
// otherwise it sends SIGTERM and escalates to SIGKILL if the child is
// still alive after the grace period. Returns the exit code if observed.
func (h *Handle) Terminate(force bool) *int {
	if h.IsAlive() {
		if force {
			_ = h.Signal(syscall.SIGKILL)
		} else {
			_ = h.Signal(syscall.SIGTERM)
			if !h.awaitExit(terminateGrace) {
				_ = h.Signal(syscall.SIGKILL)
			}
		}
	}
	h.awaitExit(terminateGrace)
	return h.ExitCode()
}

func (h *Handle) awaitExit(d time.Duration) bool {
	select {
	case <-h.done:
		return true
	case <-time.After(d):
		return false
	}
}

// Cwd returns the child's current working directory, best-effort. Empty
// when the information is unavailable (non-Linux, or the child is gone).
func (h *Handle) Cwd() string {
	link, err := os.Readlink(fmt.Sprintf("/proc/%d/cwd", h.pid))
	if err != nil {
		return ""
	}
	return link
}

// Close releases the pseudo-terminal master. Any blocked Read unblocks
// with an error.
func (h *Handle) Close() error {
	return h.ptmx.Close()
}
