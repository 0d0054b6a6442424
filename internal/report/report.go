// Package report defines the line-oriented text protocol spoken over the
// serial link: one "angle,distance" record per tick and "#"-prefixed notices.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"sonar-radar.klederson.com/internal/ranging"
)

const (
	// OutOfRangeToken replaces the distance when no plausible echo was received.
	OutOfRangeToken = "OUT_OF_RANGE"
	// NoticePrefix starts every non-record line.
	NoticePrefix = "#"
	// DirectionKey introduces direction notices.
	DirectionKey = "Direction:"
	// HaltedKey introduces the halt confirmation.
	HaltedKey = "Halted:"
)

// Record is one angle/distance pair emitted per tick.
type Record struct {
	Angle  int
	Sample ranging.Sample
}

// Format renders r in the canonical "<angle>,<cm>" form.
func Format(r Record) string {
	return strconv.Itoa(r.Angle) + "," + r.Sample.String()
}

// DirectionNotice is the notice text announcing the sweep direction.
func DirectionNotice(dir fmt.Stringer) string {
	return DirectionKey + " " + dir.String()
}

// HaltedNotice is the notice text confirming a halt.
func HaltedNotice(token string) string {
	return HaltedKey + " " + token + " received"
}

// BannerInfo describes the device for the startup banner.
type BannerInfo struct {
	Name      string
	Version   string
	MinAngle  int
	MaxAngle  int
	Step      int
	Settle    time.Duration
	Style     string
	HaltToken string
	Direction fmt.Stringer
}

// Banner returns the startup notices, without prefixes.
func Banner(info BannerInfo) []string {
	return []string{
		fmt.Sprintf("%s v%s", info.Name, info.Version),
		fmt.Sprintf("Range: %d-%d deg, Step: %d deg, Delay: %s, Sweep: %s",
			info.MinAngle, info.MaxAngle, info.Step, info.Settle, info.Style),
		"Format: angle,distance_cm (angle," + OutOfRangeToken + " when no echo)",
		"Send " + info.HaltToken + " to halt",
		DirectionNotice(info.Direction),
	}
}

// Logger is the subset of a structured logger the sink needs.
type Logger interface {
	Warnf(format string, args ...interface{})
}

// TextSink writes records and notices as newline-terminated lines.
type TextSink struct {
	mu  sync.Mutex
	w   io.Writer
	log Logger
}

// NewTextSink returns a sink writing to w. log may be nil.
func NewTextSink(w io.Writer, log Logger) *TextSink {
	return &TextSink{w: w, log: log}
}

// Emit writes one record line.
func (s *TextSink) Emit(r Record) {
	s.writeLine(Format(r))
}

// Notice writes one "# "-prefixed line.
func (s *TextSink) Notice(text string) {
	s.writeLine(NoticePrefix + " " + text)
}

// Write errors are dropped after logging; the report stream is best effort.
func (s *TextSink) writeLine(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := io.WriteString(s.w, line+"\n"); err != nil && s.log != nil {
		s.log.Warnf("report write failed: %v", err)
	}
}

// LineKind classifies a received report line.
type LineKind int

const (
	KindReading LineKind = iota
	KindNotice
)

// Line is a parsed report line.
type Line struct {
	Kind   LineKind
	Angle  int
	Sample ranging.Sample
	Text   string // Notice text without the prefix
}

// Direction returns the direction named by a direction notice.
func (l Line) Direction() (string, bool) {
	if l.Kind != KindNotice {
		return "", false
	}
	i := strings.Index(l.Text, DirectionKey)
	if i < 0 {
		return "", false
	}
	return strings.TrimSpace(l.Text[i+len(DirectionKey):]), true
}

// IsHalted reports whether the line confirms a halt.
func (l Line) IsHalted() bool {
	return l.Kind == KindNotice && strings.HasPrefix(l.Text, HaltedKey)
}

// ParseLine parses one line of the report stream.
func ParseLine(raw string) (Line, error) {
	line := strings.TrimSpace(raw)
	if line == "" {
		return Line{}, fmt.Errorf("empty line")
	}
	if strings.HasPrefix(line, NoticePrefix) {
		return Line{Kind: KindNotice, Text: strings.TrimSpace(strings.TrimPrefix(line, NoticePrefix))}, nil
	}

	angleStr, distStr, found := strings.Cut(line, ",")
	if !found || strings.Contains(distStr, ",") {
		return Line{}, fmt.Errorf("malformed record %q: expected angle,distance", line)
	}
	angle, err := strconv.Atoi(strings.TrimSpace(angleStr))
	if err != nil {
		return Line{}, fmt.Errorf("malformed angle in %q: %w", line, err)
	}

	distStr = strings.TrimSpace(distStr)
	if distStr == OutOfRangeToken {
		return Line{Kind: KindReading, Angle: angle, Sample: ranging.OutOfRange}, nil
	}
	cm, err := strconv.ParseFloat(distStr, 64)
	if err != nil {
		return Line{}, fmt.Errorf("malformed distance in %q: %w", line, err)
	}
	if cm <= 0 {
		return Line{Kind: KindReading, Angle: angle, Sample: ranging.OutOfRange}, nil
	}
	return Line{Kind: KindReading, Angle: angle, Sample: ranging.ValidSample(cm)}, nil
}
