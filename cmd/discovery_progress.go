package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/bnema/coverscreen/internal/application"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Progress events beyond this many pending are dropped; the final report still
// carries every screen.
const discoveryEventBuffer = 32

type discoveryEventMsg application.DiscoveryEvent

type discoveryFinishedMsg struct {
	report application.DiscoveryReport
	err    error
}

type discoveryProgressModel struct {
	spinner   spinner.Model
	source    string
	events    <-chan application.DiscoveryEvent
	connect   tea.Cmd
	total     int
	current   application.DiscoveryEvent
	connected int
	skipped   int
	report    application.DiscoveryReport
	err       error
	finished  bool
}

func newDiscoveryProgressModel(source string, events <-chan application.DiscoveryEvent, connect tea.Cmd) discoveryProgressModel {
	return discoveryProgressModel{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("39"))),
		),
		source:  source,
		events:  events,
		connect: connect,
	}
}

func waitForDiscoveryEvent(events <-chan application.DiscoveryEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return discoveryEventMsg(event)
	}
}

func (m discoveryProgressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.connect, waitForDiscoveryEvent(m.events))
}

func (m discoveryProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case discoveryEventMsg:
		m.apply(application.DiscoveryEvent(msg))
		return m, waitForDiscoveryEvent(m.events)
	case discoveryFinishedMsg:
		m.finished = true
		m.report = msg.report
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m *discoveryProgressModel) apply(event application.DiscoveryEvent) {
	switch event.Stage {
	case application.StageListed:
		m.total = event.Total
		return
	case application.StageConnected:
		m.connected++
	case application.StageSkipped:
		m.skipped++
	}
	m.total = event.Total
	m.current = event
}

func (m discoveryProgressModel) View() string {
	if m.finished {
		return ""
	}
	return fmt.Sprintf("%s %s\n", m.spinner.View(), m.progressLine())
}

func (m discoveryProgressModel) progressLine() string {
	if m.total == 0 && m.current.Stage == "" {
		return "Listing screens from " + m.source + "..."
	}

	line := fmt.Sprintf("Screens %d/%d", m.connected+m.skipped, m.total)
	switch m.current.Stage {
	case application.StageDialing:
		line += fmt.Sprintf(", dialing %s at %s", m.current.ID, m.current.Endpoint)
	case application.StageSkipped:
		name := m.current.Origin
		if m.current.ID != "" {
			name = string(m.current.ID)
		}
		line += ", skipped " + name
	case application.StageConnected:
		line += ", connected " + string(m.current.ID)
	}
	if m.skipped > 0 {
		line += fmt.Sprintf(" (%d skipped)", m.skipped)
	}
	return line
}

// connectWithProgress runs a connect while drawing dial progress to output.
func connectWithProgress(ctx context.Context, output io.Writer, app *app) (application.DiscoveryReport, error) {
	events := make(chan application.DiscoveryEvent, discoveryEventBuffer)
	progress := func(event application.DiscoveryEvent) {
		select {
		case events <- event:
		default:
		}
	}

	connectCmd := func() tea.Msg {
		defer close(events)
		report, err := app.engine.ConnectWithProgress(ctx, app.source, progress)
		return discoveryFinishedMsg{report: report, err: err}
	}

	p := tea.NewProgram(
		newDiscoveryProgressModel(app.source.Name(), events, connectCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return application.DiscoveryReport{}, err
	}

	result, ok := finalModel.(discoveryProgressModel)
	if !ok {
		return application.DiscoveryReport{}, fmt.Errorf("unexpected final progress model type %T", finalModel)
	}
	return result.report, result.err
}
