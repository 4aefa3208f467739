package screens

import (
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type screenSectionMsg int

type skippedSectionMsg struct{}

type reportCompleteMsg struct{}

// model lays out a Report one section per message, so a screen's section is
// rendered against the report it came from and appended in directory order.
type model struct {
	report   Report
	styles   styles
	sections []string
	complete bool
}

func newModel(report Report) model {
	return model{
		report:   report,
		styles:   newStyles(),
		sections: make([]string, 0, len(report.Screens)+1),
	}
}

func (m model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.report.Screens)+2)
	for i := range m.report.Screens {
		index := screenSectionMsg(i)
		cmds = append(cmds, func() tea.Msg { return index })
	}
	if len(m.report.Skipped) > 0 {
		cmds = append(cmds, func() tea.Msg { return skippedSectionMsg{} })
	}
	cmds = append(cmds, func() tea.Msg { return reportCompleteMsg{} })
	return tea.Sequence(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case screenSectionMsg:
		status := m.report.Screens[int(msg)]
		m.sections = append(m.sections, m.styles.section.Render(renderScreen(status, m.report.Now, m.styles)))
		return m, nil
	case skippedSectionMsg:
		m.sections = append(m.sections, m.styles.section.Render(renderSkipped(m.report.Skipped, m.styles)))
		return m, nil
	case reportCompleteMsg:
		m.complete = true
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	if !m.complete {
		return ""
	}

	lines := []string{
		m.styles.title.Render("Cover Screens"),
		m.styles.header.Render(reportHeader(m.report)),
	}
	if len(m.report.Screens) == 0 {
		lines = append(lines, m.styles.empty.Render("No screens connected."))
	}
	lines = append(lines, m.sections...)

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// Render lays out report as styled text for a terminal.
func Render(report Report) (string, error) {
	p := tea.NewProgram(
		newModel(report),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
