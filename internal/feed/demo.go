package feed

import (
	"context"
	"io"
	"math/rand"
	"time"

	"sonar-radar.klederson.com/internal/command"
	"sonar-radar.klederson.com/internal/config"
	"sonar-radar.klederson.com/internal/ranging"
	"sonar-radar.klederson.com/internal/report"
	"sonar-radar.klederson.com/internal/scan"
	"sonar-radar.klederson.com/internal/sim"
)

// DemoSource runs a scan loop over a simulated head in-process and feeds
// its text output through the same parser a serial feed uses.
type DemoSource struct {
	*ReaderSource
	loop   *scan.Loop
	pw     *io.PipeWriter
	cancel context.CancelFunc
}

// NewDemoSource builds a demo feed. A nil rng seeds from the clock.
func NewDemoSource(cfg scan.Config, rng *rand.Rand, log Logger) (*DemoSource, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	head := sim.NewHead(sim.RandomScene(rng), sim.DefaultOptions(), rng)
	cmds := command.NewLineBuffer(0, 0)
	pr, pw := io.Pipe()

	loop, err := scan.New(cfg, head, ranging.NewSampler(head, config.EchoTimeout),
		report.NewTextSink(pw, nil), cmds)
	if err != nil {
		return nil, err
	}
	return &DemoSource{
		ReaderSource: NewReaderSource("demo", pr, cmds, pr, log),
		loop:         loop,
		pw:           pw,
	}, nil
}

// DemoConfig is a faster sweep than the hardware default so the display
// stays lively.
func DemoConfig() scan.Config {
	cfg := scan.DefaultConfig()
	cfg.Settle = config.WipeSettleDelay
	cfg.Interval = 10 * time.Millisecond
	return cfg
}

// Start runs the loop and the reader.
func (d *DemoSource) Start(snd Sender) error {
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	go func() {
		err := d.loop.Run(ctx)
		if err == nil || err == context.Canceled {
			err = io.EOF
		}
		d.pw.CloseWithError(err)
	}()
	return d.ReaderSource.Start(snd)
}

// Stop cancels the loop and closes the stream.
func (d *DemoSource) Stop() {
	if d.cancel != nil {
		d.cancel()
	}
	d.ReaderSource.Stop()
}
