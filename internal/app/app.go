package app

import (
	"fmt"
	"io"

	"github.com/benbjohnson/clock"
	tea "github.com/charmbracelet/bubbletea"

	"sonar-radar.klederson.com/internal/config"
	"sonar-radar.klederson.com/internal/feed"
	"sonar-radar.klederson.com/internal/radar"
	"sonar-radar.klederson.com/internal/report"
	"sonar-radar.klederson.com/internal/sweep"
	"sonar-radar.klederson.com/internal/track"
	"sonar-radar.klederson.com/internal/ui"
)

// shared holds state shared between the Bubble Tea model copies and main.go.
// Because Bubble Tea uses value receivers, pointer fields ensure all copies
// see the same underlying data.
type shared struct {
	store  *track.Store
	sweep  *radar.Sweep
	source feed.Source
}

// AppModel is the root Bubble Tea model of the radar view.
type AppModel struct {
	width  int
	height int

	paused  bool
	rangeCM float64
	lastErr string

	shared *shared

	// Cached snapshot
	snap track.Snapshot
}

// New creates a new AppModel reading from src.
func New(src feed.Source, rangeCM float64, clk clock.Clock) AppModel {
	store := track.NewStore(clk, rangeCM)
	return AppModel{
		rangeCM: store.Range(),
		shared: &shared{
			store:  store,
			sweep:  radar.NewSweep(),
			source: src,
		},
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		evictCmd(),
	)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		m.refresh()
		return m, tickCmd()

	case EvictMsg:
		m.shared.store.Evict(config.DetectionMaxAge)
		return m, evictCmd()

	case feed.LineMsg:
		// Notices still apply while paused so a halt is never missed
		if !m.paused || msg.Line.Kind == report.KindNotice {
			m.shared.store.Observe(msg.Line)
		}
		return m, nil

	case feed.ErrorMsg:
		m.lastErr = msg.Err.Error()
		return m, nil

	case feed.ClosedMsg:
		m.lastErr = "feed closed"
		return m, nil
	}

	return m, nil
}

func (m *AppModel) refresh() {
	m.snap = m.shared.store.Snapshot()
	m.shared.sweep.Set(m.snap.Angle, m.snap.Direction == sweep.Decreasing.String())
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		m.stopSource()
		return m, tea.Quit

	case "p", "P":
		m.paused = !m.paused

	case "c", "C":
		m.shared.store.Clear()
		m.refresh()

	case "x", "X":
		if err := m.sendHalt(); err != nil {
			m.lastErr = err.Error()
		}
	}

	return m, nil
}

// sendHalt writes the halt command to the controller.
func (m AppModel) sendHalt() error {
	if m.shared.source == nil {
		return fmt.Errorf("no feed to send %s to", config.HaltToken)
	}
	w := m.shared.source.Commands()
	if w == nil {
		return fmt.Errorf("%s does not accept commands", m.shared.source.Name())
	}
	if _, err := io.WriteString(w, config.HaltToken+"\n"); err != nil {
		return fmt.Errorf("send %s: %w", config.HaltToken, err)
	}
	return nil
}

func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing " + config.AppName + "..."
	}

	l := ui.NewLayout(m.width, m.height)

	sourceName := "none"
	if m.shared.source != nil {
		sourceName = m.shared.source.Name()
	}
	menuBar := ui.RenderMenuBar(m.width, sourceName, m.paused, m.snap.Halted)

	now := m.shared.store.Now()
	canvas := radar.Render(l.CanvasWidth, l.CanvasHeight, m.snap, m.shared.sweep, now, m.rangeCM)
	legend := radar.RenderLegend(l.CanvasWidth, m.rangeCM)
	radarPanel := ui.RenderRadarPanel(l.RadarWidth, l.BodyHeight, canvas, legend, m.snap)

	readings := ui.RenderReadingsPanel(m.snap, l.ReadingWidth, l.BodyHeight, m.rangeCM, now)
	statusBar := ui.RenderStatusBar(m.width, m.snap, m.paused, m.rangeCM, m.lastErr)

	return ui.ComposeLayout(menuBar, radarPanel, readings, statusBar)
}

// StartSource starts the feed. Must be called before p.Run().
func (m *AppModel) StartSource(p *tea.Program) error {
	if m.shared.source == nil {
		return nil
	}
	return m.shared.source.Start(p)
}

func (m *AppModel) stopSource() {
	if m.shared.source != nil {
		m.shared.source.Stop()
	}
}
