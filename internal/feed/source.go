// Package feed delivers the scanner's report stream to the TUI as Bubble
// Tea messages, from a serial port or from an in-process simulated head.
package feed

import (
	"bufio"
	"errors"
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"sonar-radar.klederson.com/internal/report"
)

// LineMsg carries one parsed report line.
type LineMsg struct {
	Line report.Line
}

// ErrorMsg reports a failed feed.
type ErrorMsg struct {
	Err error
}

// ClosedMsg is sent once when the stream ends cleanly.
type ClosedMsg struct{}

// Sender is the part of *tea.Program a feed needs.
type Sender interface {
	Send(msg tea.Msg)
}

// Logger is the subset of a structured logger feeds use.
type Logger interface {
	Debugf(format string, args ...interface{})
}

// Source produces report lines and accepts command lines.
type Source interface {
	Name() string
	Start(s Sender) error
	// Commands is where command lines such as the halt token are written.
	Commands() io.Writer
	Stop()
}

// ReaderSource reads the report stream from r and writes commands to w.
type ReaderSource struct {
	name   string
	r      io.Reader
	w      io.Writer
	closer io.Closer
	log    Logger

	mu      sync.Mutex
	stopped bool
	done    chan struct{}
	skipped int
}

// NewReaderSource wraps a stream. closer, if set, is closed by Stop to
// unblock the reader.
func NewReaderSource(name string, r io.Reader, w io.Writer, closer io.Closer, log Logger) *ReaderSource {
	if log == nil {
		log = nopLogger{}
	}
	return &ReaderSource{name: name, r: r, w: w, closer: closer, log: log, done: make(chan struct{})}
}

// Name describes the source for the menu bar.
func (s *ReaderSource) Name() string { return s.name }

// Commands returns the command writer.
func (s *ReaderSource) Commands() io.Writer { return s.w }

// Start reads lines in a goroutine and forwards them to snd.
func (s *ReaderSource) Start(snd Sender) error {
	go s.loop(snd)
	return nil
}

func (s *ReaderSource) loop(snd Sender) {
	defer close(s.done)

	sc := bufio.NewScanner(s.r)
	for sc.Scan() {
		line, err := report.ParseLine(sc.Text())
		if err != nil {
			s.mu.Lock()
			s.skipped++
			s.mu.Unlock()
			s.log.Debugf("skipping line from %s: %v", s.name, err)
			continue
		}
		snd.Send(LineMsg{Line: line})
	}

	err := sc.Err()
	if s.isStopped() {
		return
	}
	if err != nil && !errors.Is(err, io.ErrClosedPipe) && !errors.Is(err, os.ErrClosed) {
		snd.Send(ErrorMsg{Err: err})
		return
	}
	snd.Send(ClosedMsg{})
}

// Skipped returns how many unparseable lines were dropped.
func (s *ReaderSource) Skipped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.skipped
}

// Done is closed when the read loop exits.
func (s *ReaderSource) Done() <-chan struct{} { return s.done }

func (s *ReaderSource) isStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// Stop closes the underlying stream.
func (s *ReaderSource) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()
	if s.closer != nil {
		_ = s.closer.Close()
	}
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
