// Package procsignal locates the target archive-server process and delivers
// reload or termination signals to it.
package procsignal

import (
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/arcten/timeshard/types"
)

// Signaler delivers signals to processes matched by command-line pattern.
//
// Exactly one signal is sent per call: the first process whose command line
// contains the pattern receives it. The agent's own process is skipped so a
// pattern overlapping the agent binary name cannot self-signal.
type Signaler struct{}

var _ types.ProcessSignaler = (*Signaler)(nil)

// New creates a process signaler.
func New() *Signaler {
	return &Signaler{}
}

// Signal finds the first process whose command line contains pattern and
// sends it sig.
//
// Parameters:
//   - ctx: Context for the process-table scan
//   - pattern: Substring matched against full command lines (e.g. "archive store")
//   - sig: Signal to deliver (SIGHUP for reload, SIGTERM for restart)
//
// Returns:
//   - error: types.ErrProcessNotFound when nothing matches, or the delivery error
func (s *Signaler) Signal(ctx context.Context, pattern string, sig syscall.Signal) error {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to list processes: %w", err)
	}

	self := int32(os.Getpid())

	for _, p := range procs {
		if p.Pid == self {
			continue
		}

		cmdline, err := p.CmdlineWithContext(ctx)
		if err != nil || cmdline == "" {
			// Processes can exit mid-scan or deny access; neither is ours.
			continue
		}

		if !strings.Contains(cmdline, pattern) {
			continue
		}

		if err := p.SendSignalWithContext(ctx, sig); err != nil {
			return fmt.Errorf("failed to signal pid %d: %w", p.Pid, err)
		}

		return nil
	}

	return fmt.Errorf("%w: no command line matches %q", types.ErrProcessNotFound, pattern)
}
