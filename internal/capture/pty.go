// Package capture implements engram's wrapper capture pipeline: running an
// agent CLI under a pseudo-terminal, relaying its I/O transparently to the
// operator's own terminal while recording a transcript, and diffing the
// working tree before and after the run to produce a FileChange list.
package capture

import (
	"bytes"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/creack/pty"

	"github.com/AtticAIInc/engram/internal/engramerr"
	"github.com/AtticAIInc/engram/internal/logging"
	"github.com/AtticAIInc/engram/internal/model"
)

// chunkFlushInterval bounds how long raw PTY output accumulates before being
// folded into a transcript entry, so a long-running command still produces
// incremental entries rather than one giant blob at exit.
const chunkFlushInterval = 500 * time.Millisecond

// PTYSession wraps a single agent CLI invocation under a pseudo-terminal.
type PTYSession struct {
	Command string
	Args    []string
	Dir     string

	log *logging.Logger

	mu      sync.Mutex
	entries []model.TranscriptEntry
}

// NewPTYSession prepares (but does not start) a wrapped invocation of
// command in dir.
func NewPTYSession(dir, command string, args []string) *PTYSession {
	return &PTYSession{
		Command: command,
		Args:    args,
		Dir:     dir,
		log:     logging.Get(logging.CategoryCapture),
	}
}

// Run starts command under a PTY, relays stdin/stdout/stderr to the calling
// process's own terminal, records the byte stream as transcript entries, and
// blocks until the child exits. It returns the child's exit code.
func (p *PTYSession) Run() (int, error) {
	cmd := exec.Command(p.Command, p.Args...)
	cmd.Dir = p.Dir
	cmd.Env = os.Environ()

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return -1, engramerr.Wrap(engramerr.KindCapture, "start pty", err)
	}
	defer ptmx.Close()

	if size, err := pty.GetsizeFull(os.Stdin); err == nil {
		_ = pty.Setsize(ptmx, size)
	}

	var wg sync.WaitGroup
	wg.Add(1)

	// Pump operator keystrokes into the child.
	go func() {
		_, _ = io.Copy(ptmx, os.Stdin)
	}()

	// Pump child output to the operator's terminal and the transcript buffer.
	go func() {
		defer wg.Done()
		p.pumpOutput(ptmx)
	}()

	err = cmd.Wait()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			return -1, engramerr.Wrap(engramerr.KindProcessExit, "wait for child", err)
		}
	}

	// Only the output pump is joined. The stdin-copy goroutine blocks on a
	// read that will not return once the child has exited and the pty is
	// closed; it is abandoned rather than joined, matching how interactive
	// PTY wrappers in the wild handle this exact shutdown race.
	wg.Wait()

	p.log.Info("wrapped command exited with code %d", exitCode)
	return exitCode, nil
}

// pumpOutput relays ptmx's output to stdout while buffering it into
// periodic transcript entries.
func (p *PTYSession) pumpOutput(ptmx *os.File) {
	var buf bytes.Buffer
	flush := func() {
		if buf.Len() == 0 {
			return
		}
		p.appendEntry(buf.String())
		buf.Reset()
	}

	ticker := time.NewTicker(chunkFlushInterval)
	defer ticker.Stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		tmp := make([]byte, 4096)
		for {
			n, err := ptmx.Read(tmp)
			if n > 0 {
				os.Stdout.Write(tmp[:n])
				p.mu.Lock()
				buf.Write(tmp[:n])
				p.mu.Unlock()
			}
			if err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ticker.C:
			p.mu.Lock()
			flush()
			p.mu.Unlock()
		case <-done:
			p.mu.Lock()
			flush()
			p.mu.Unlock()
			return
		}
	}
}

func (p *PTYSession) appendEntry(text string) {
	p.entries = append(p.entries, model.TranscriptEntry{
		Timestamp: time.Now().UTC(),
		Role:      model.RoleAssistant,
		Content:   model.NewTextContent(text),
	})
}

// Transcript returns a snapshot of the entries recorded so far.
func (p *PTYSession) Transcript() *model.Transcript {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.TranscriptEntry, len(p.entries))
	copy(out, p.entries)
	return &model.Transcript{Entries: out}
}
