package report

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sonar-radar.klederson.com/internal/ranging"
)

type stringer string

func (s stringer) String() string { return string(s) }

func TestFormat(t *testing.T) {
	assert.Equal(t, "90,OUT_OF_RANGE", Format(Record{Angle: 90, Sample: ranging.OutOfRange}))
	assert.Equal(t, "45,58.30", Format(Record{Angle: 45, Sample: ranging.ValidSample(58.3)}))
	assert.Equal(t, "0,2.00", Format(Record{Angle: 0, Sample: ranging.ValidSample(2)}))
	assert.Equal(t, "180,399.99", Format(Record{Angle: 180, Sample: ranging.ValidSample(399.994)}))
}

func TestTextSink(t *testing.T) {
	var buf bytes.Buffer
	s := NewTextSink(&buf, nil)

	s.Notice(DirectionNotice(stringer("Increasing")))
	s.Emit(Record{Angle: 90, Sample: ranging.OutOfRange})
	s.Emit(Record{Angle: 92, Sample: ranging.ValidSample(12.346)})
	s.Notice(HaltedNotice("STOP"))

	assert.Equal(t,
		"# Direction: Increasing\n90,OUT_OF_RANGE\n92,12.35\n# Halted: STOP received\n",
		buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("unplugged") }

func TestTextSinkLogsWriteErrors(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	s := NewTextSink(failingWriter{}, log)

	s.Emit(Record{Angle: 10, Sample: ranging.OutOfRange})

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Message, "unplugged")
}

func TestBanner(t *testing.T) {
	lines := Banner(BannerInfo{
		Name:      "SONAR-RADAR",
		Version:   "1.0",
		MinAngle:  0,
		MaxAngle:  180,
		Step:      2,
		Settle:    50 * time.Millisecond,
		Style:     "bounce",
		HaltToken: "STOP",
		Direction: stringer("Increasing"),
	})

	require.Len(t, lines, 5)
	assert.Equal(t, "SONAR-RADAR v1.0", lines[0])
	assert.Equal(t, "Range: 0-180 deg, Step: 2 deg, Delay: 50ms, Sweep: bounce", lines[1])
	assert.Contains(t, lines[2], OutOfRangeToken)
	assert.Equal(t, "Send STOP to halt", lines[3])
	assert.Equal(t, "Direction: Increasing", lines[4])
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		raw  string
		want Line
	}{
		{"90,OUT_OF_RANGE", Line{Kind: KindReading, Angle: 90, Sample: ranging.OutOfRange}},
		{"45,58.30\r\n", Line{Kind: KindReading, Angle: 45, Sample: ranging.ValidSample(58.30)}},
		{" 12 , 7.5 ", Line{Kind: KindReading, Angle: 12, Sample: ranging.ValidSample(7.5)}},
		{"30,-1", Line{Kind: KindReading, Angle: 30, Sample: ranging.OutOfRange}},
		{"# Direction: Decreasing", Line{Kind: KindNotice, Text: "Direction: Decreasing"}},
		{"#SONAR-RADAR v1.0", Line{Kind: KindNotice, Text: "SONAR-RADAR v1.0"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseLine(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLineRejectsNoise(t *testing.T) {
	for _, raw := range []string{"", "   ", "Distance: 12.3", "1,2,3", "abc,12", "10,far"} {
		_, err := ParseLine(raw)
		assert.Error(t, err, "input %q", raw)
	}
}

func TestLineDirectionAndHalt(t *testing.T) {
	l, err := ParseLine("# Direction: Decreasing")
	require.NoError(t, err)
	dir, ok := l.Direction()
	assert.True(t, ok)
	assert.Equal(t, "Decreasing", dir)
	assert.False(t, l.IsHalted())

	l, err = ParseLine("# " + HaltedNotice("STOP"))
	require.NoError(t, err)
	assert.True(t, l.IsHalted())
	_, ok = l.Direction()
	assert.False(t, ok)

	l, err = ParseLine("10,20.00")
	require.NoError(t, err)
	_, ok = l.Direction()
	assert.False(t, ok)
	assert.False(t, l.IsHalted())
}
