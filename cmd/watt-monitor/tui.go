package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cptspacemanspiff/watt-monitor/internal/chart"
	"github.com/cptspacemanspiff/watt-monitor/internal/config"
	"github.com/cptspacemanspiff/watt-monitor/internal/daemon"
	"github.com/cptspacemanspiff/watt-monitor/internal/records"
)

const refreshInterval = 500 * time.Millisecond

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#2D5F8B")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8CC8C"))

	chargingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	dischargingStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#E5C07B")).
				Bold(true)

	capacityLineStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#04B575"))

	powerLineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#61AFEF"))

	axisStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	sleepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D7DCB"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#2D5F8B")).
			Padding(1, 2)
)

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type model struct {
	cfg   *config.Config
	paths records.Paths
	view  *chart.View

	dates   []time.Time
	dateIdx int

	width       int
	height      int
	showHelp    bool
	collectorUp bool
}

func newModel(cfg *config.Config, date time.Time) model {
	m := model{
		cfg:         cfg,
		paths:       cfg.Paths(),
		collectorUp: daemon.CollectorRunning(cfg.Storage.PIDPath),
	}
	m.view = m.openView(date, chart.Recent30m)
	m.reloadDates()
	return m
}

func (m *model) openView(date time.Time, mode chart.ViewMode) *chart.View {
	v := chart.NewView(records.NewStore(m.paths, date))
	v.Requested = mode
	v.Detector = chart.Detector{
		GapThreshold:        time.Duration(m.cfg.Sleep.GapThresholdSeconds) * time.Second,
		MaxDrainRatePerHour: m.cfg.Sleep.MaxDrainRatePerHour,
	}
	return v
}

// reloadDates re-lists the available dates and re-anchors dateIdx on the
// currently displayed date, so navigation stays stable as archives appear.
func (m *model) reloadDates() {
	m.dates = m.paths.ListAvailableDates(time.Now())
	m.dateIdx = 0
	for i, d := range m.dates {
		if records.SameDate(d, m.view.Store.Date()) {
			m.dateIdx = i
			break
		}
	}
}

func (m model) Init() tea.Cmd {
	return tickCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			if m.showHelp {
				m.showHelp = false
				return m, nil
			}
			return m, tea.Quit
		case "tab":
			m.view.ToggleMode()
		case "h", "?":
			m.showHelp = !m.showHelp
		case "left":
			// Dates are sorted newest first, so left moves into the past.
			if m.dateIdx+1 < len(m.dates) {
				m.dateIdx++
				m.view = m.openView(m.dates[m.dateIdx], m.view.Requested)
			}
		case "right":
			if m.dateIdx > 0 {
				m.dateIdx--
				m.view = m.openView(m.dates[m.dateIdx], m.view.Requested)
			}
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		m.view.Store.Refresh()
		m.reloadDates()
		m.collectorUp = daemon.CollectorRunning(m.cfg.Storage.PIDPath)
		return m, tickCmd()
	}
	return m, nil
}

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading..."
	}
	if m.showHelp {
		return m.helpView()
	}

	header := titleStyle.Render("watt-monitor") + "  " +
		axisStyle.Render(m.view.Store.Date().Format(records.DateLayout)) + "  " +
		statusStyle.Render("["+m.view.ModeLabel()+"]")

	var lines []string
	lines = append(lines, header, m.statusLine())

	if m.view.Store.IsToday() && !m.collectorUp {
		lines = append(lines, warnStyle.Render("⚠ collector not running — data is stale (watt-monitor daemon)"))
	}

	snap := m.view.Snapshot()
	chartHeight := (m.height - len(lines) - 7) / 2
	if chartHeight < 3 {
		chartHeight = 3
	}
	chartWidth := m.width - yLabelWidth - 1
	if chartWidth < 10 {
		chartWidth = 10
	}

	powerLo, powerHi := m.view.PowerRange()
	lines = append(lines,
		renderChart("capacity %", snap.Capacity, snap, 0, 100, chartWidth, chartHeight, capacityLineStyle),
		renderChart("power W", snap.Power, snap, powerLo, powerHi, chartWidth, chartHeight, powerLineStyle),
		m.footerLine(),
	)

	return strings.Join(lines, "\n")
}

func (m model) statusLine() string {
	status, ok := m.view.LatestStatus()
	if !ok {
		return axisStyle.Render("no samples recorded for this date")
	}

	style := dischargingStyle
	if status == records.StatusCharging || status == records.StatusFull {
		style = chargingStyle
	}

	capacity, _ := m.view.LatestCapacity()
	power, _ := m.view.LatestPower()
	line := fmt.Sprintf("%s  %.0f%%  %.1fW", style.Render(status), capacity, power)

	if p, ok := m.view.LastSleepPeriod(); ok {
		line += axisStyle.Render(fmt.Sprintf("  last sleep %s (%+.0f%%)",
			(time.Duration(p.DurationSecs) * time.Second).Round(time.Minute),
			p.CapacityDiff))
	}
	return line
}

func (m model) footerLine() string {
	return footerStyle.Render("q quit • tab view mode • ←/→ date • h help")
}

func (m model) helpView() string {
	help := helpBoxStyle.Render(strings.Join([]string{
		titleStyle.Render("watt-monitor"),
		"",
		"Battery charge and power draw from the collector's CSV logs.",
		"Sleep periods are elided from the x-axis and marked with " + sleepStyle.Render("⏾") + ".",
		"",
		"tab      cycle view window (30m/1h/4h/12h/full)",
		"←/→      older/newer day",
		"h or ?   toggle this help",
		"q/esc    quit",
	}, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, help)
}
