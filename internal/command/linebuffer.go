// Package command buffers inbound bytes into complete command lines so the
// scan loop can poll for commands without waiting on byte arrival.
package command

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"sonar-radar.klederson.com/internal/config"
)

// LineBuffer is an io.Writer that yields complete, trimmed, non-empty lines.
// Bytes after the last terminator stay buffered until the terminator arrives.
type LineBuffer struct {
	mu        sync.Mutex
	partial   []byte
	lines     []string
	maxLine   int
	maxQueued int
	overflow  bool // discarding until the next terminator
	dropped   int
}

// NewLineBuffer returns a LineBuffer. Non-positive limits select the
// configured defaults.
func NewLineBuffer(maxLine, maxQueued int) *LineBuffer {
	if maxLine <= 0 {
		maxLine = config.MaxCommandLine
	}
	if maxQueued <= 0 {
		maxQueued = config.MaxQueuedLines
	}
	return &LineBuffer{maxLine: maxLine, maxQueued: maxQueued}
}

// Write accepts raw bytes. It never fails.
func (b *LineBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	rest := p
	for len(rest) > 0 {
		i := bytes.IndexByte(rest, '\n')
		if i < 0 {
			b.appendPartial(rest)
			break
		}
		b.appendPartial(rest[:i])
		b.terminate()
		rest = rest[i+1:]
	}
	return len(p), nil
}

func (b *LineBuffer) appendPartial(p []byte) {
	if b.overflow {
		return
	}
	if len(b.partial)+len(p) > b.maxLine {
		b.partial = b.partial[:0]
		b.overflow = true
		b.dropped++
		return
	}
	b.partial = append(b.partial, p...)
}

func (b *LineBuffer) terminate() {
	if b.overflow {
		b.overflow = false
		return
	}
	line := strings.TrimSpace(string(b.partial))
	b.partial = b.partial[:0]
	if line == "" {
		return
	}
	// A full queue keeps what it holds; a queued halt must not be pushed out.
	if len(b.lines) == b.maxQueued {
		b.dropped++
		return
	}
	b.lines = append(b.lines, line)
}

// Available reports whether a complete line is waiting.
func (b *LineBuffer) Available() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.lines) > 0
}

// ReadLine returns the oldest complete line, or "" when none is waiting.
func (b *LineBuffer) ReadLine() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.lines) == 0 {
		return ""
	}
	line := b.lines[0]
	b.lines = b.lines[1:]
	return line
}

// Dropped returns how many lines were discarded as oversized or by queue overflow.
func (b *LineBuffer) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// Pump copies bytes from r into b until r fails, reaches EOF or ctx ends.
// Cancellation is only noticed between reads: a Read that blocks, as on a
// terminal stdin, keeps the pump alive until it returns. Zero-length reads,
// as produced by serial read timeouts, re-check ctx.
func Pump(ctx context.Context, r io.Reader, b *LineBuffer) error {
	buf := make([]byte, 256)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := r.Read(buf)
		if n > 0 {
			b.Write(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
