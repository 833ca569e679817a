package daemon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrAlreadyRunning reports that a live collector instance holds the pid file.
var ErrAlreadyRunning = errors.New("collector is already running")

// procRoot is swapped out in tests.
var procRoot = "/proc"

// Guard enforces single-instance collector execution through a pid file with
// a liveness check. Acquire before sampling begins; Release runs on every
// exit path of the caller.
type Guard struct {
	Path string

	acquired bool
}

// Acquire refuses with ErrAlreadyRunning when the recorded pid belongs to a
// live process, otherwise records our pid. A stale file from a crashed
// instance is overwritten.
func (g *Guard) Acquire() error {
	if pid, ok := g.recordedPID(); ok && processAlive(pid) {
		return fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, pid)
	}

	if err := os.MkdirAll(filepath.Dir(g.Path), 0o755); err != nil {
		return fmt.Errorf("create pid dir: %w", err)
	}
	if err := os.WriteFile(g.Path, []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	g.acquired = true
	return nil
}

// Release removes the pid file if this guard owns it.
func (g *Guard) Release() {
	if !g.acquired {
		return
	}
	os.Remove(g.Path)
	g.acquired = false
}

// CollectorRunning reports whether a live collector process holds the pid
// file at path. Used by the viewer to warn when no one is sampling.
func CollectorRunning(path string) bool {
	g := &Guard{Path: path}
	pid, ok := g.recordedPID()
	return ok && processAlive(pid)
}

func (g *Guard) recordedPID() (int, bool) {
	data, err := os.ReadFile(g.Path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, false
	}
	return pid, true
}

func processAlive(pid int) bool {
	_, err := os.Stat(filepath.Join(procRoot, strconv.Itoa(pid)))
	return err == nil
}
