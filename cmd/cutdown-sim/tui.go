package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/highaltitude/cutdown/pkg/collab/actuator"
	"github.com/highaltitude/cutdown/pkg/collab/logstore"
	"github.com/highaltitude/cutdown/pkg/collab/simsensor"
	"github.com/highaltitude/cutdown/pkg/collab/uplinksim"
	"github.com/highaltitude/cutdown/pkg/core"
)

type tickMsg struct{}

type model struct {
	width, height int

	core     *core.Core
	sensors  *simsensor.Source
	actuator *actuator.Sink
	store    *logstore.Store

	nowMs      uint32
	inputAccum [2]uint32

	lastResult core.TickResult
	done       bool
	spinner    int
}

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7D56F4")).
		PaddingLeft(2)

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7D56F4")).
		Padding(1, 2)

	groundStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
	inFlightStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00A9E0")).Bold(true)
	terminatedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B")).Bold(true)
	warnStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB800"))
	helpStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")).PaddingTop(1).PaddingLeft(2)
)

func initialModel() model {
	cfg := demoConfig()
	c := core.New(cfg)
	sensors := simsensor.New(demoProfile())

	return model{
		core:     c,
		sensors:  sensors,
		actuator: actuator.New(0, nil),
		store:    logstore.New(),
	}
}

func (m model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(30*time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tickMsg:
		if m.done {
			return m, nil
		}
		m.spinner = (m.spinner + 1) % 10
		m.advance()
		if m.core.State.Terminated {
			m.done = true
			return m, nil
		}
		return m, tick()
	}
	return m, nil
}

// advance runs one simulated second through the core, accelerated to one
// simulated second per 30ms of wall-clock time.
func (m *model) advance() {
	m.nowMs += 1000
	raw, inputCfgs, _ := m.sensors.Sample(context.Background(), m.nowMs)

	result := m.core.Tick(core.TickInputs{
		NowMs:        m.nowMs,
		Raw:          raw,
		InputConfigs: inputCfgs,
		InputAccum:   &m.inputAccum,
	})
	if !result.Due {
		return
	}
	m.lastResult = result
	m.store.Write(context.Background(), result.Log)

	if result.CutFiredNow {
		m.actuator.Release(context.Background())
	}
}

func (m model) View() string {
	state := m.core.State

	var phase string
	switch state.FlightState {
	case core.Ground:
		phase = groundStyle.Render("GROUND")
	case core.InFlight:
		phase = inFlightStyle.Render("IN FLIGHT")
	case core.Terminated:
		phase = terminatedStyle.Render("TERMINATED")
	}

	altM := m.lastResult.Log.AltM
	pressureHPa := m.lastResult.Log.PressureHPa

	body := fmt.Sprintf(
		"t_power_s:   %d\nt_launch_s:  %d\nflight_state: %s\nlaunch_detected: %v\ncut_fired:   %v\ncut_reason:  %s\nterminated:  %v\n\naltitude:    %.0f m (valid=%v)\npressure:    %.1f hPa (valid=%v)\npeak_alt_m:  %.0f\nmin_pressure_hpa: %.1f\ndescent_count_s: %d\n\nlog records written: %d",
		state.TPowerS, state.TLaunchS, phase, state.LaunchDetected,
		state.CutFired, state.CutReason, state.Terminated,
		altM.Value, altM.Valid, pressureHPa.Value, pressureHPa.Valid,
		state.PeakAltM, state.MinPressureHPa, state.DescentCountS,
		m.store.Len(),
	)

	if state.CutFired && !m.actuator.Latch().Released() {
		body += "\n\n" + warnStyle.Render("release latch commanded, settling...")
	}

	title := titleStyle.Render("cutdown-sim — flight profile replay")
	panel := panelStyle.Render(body)
	help := helpStyle.Render("q: quit")
	if m.done {
		help = helpStyle.Render("flight terminated — q: quit")
	}

	return title + "\n\n" + panel + "\n" + help
}

func startTUI() error {
	p := tea.NewProgram(initialModel())
	_, err := p.Run()
	return err
}
