package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ShayCichocki/tandem/internal/orchestrator"
	"github.com/ShayCichocki/tandem/pkg/models"
)

// Status icons for step states.
const (
	iconPending   = "[○]"
	iconBlocked   = "[◌]"
	iconRunning   = "[●]"
	iconCompleted = "[✓]"
	iconFailed    = "[✗]"
)

// EventMsg wraps one orchestrator event for the TUI.
type EventMsg orchestrator.Event

// DoneMsg signals that the run finished.
type DoneMsg struct {
	Success bool
	Message string
}

// stepRow is the TUI's view of one plan step.
type stepRow struct {
	id         string
	name       string
	capability string
	status     models.StepStatus
	wave       int
	startedAt  time.Time
	duration   time.Duration
	errMsg     string
}

// Model is the bubbletea model for a single run.
type Model struct {
	task  string
	runID string

	spinner spinner.Model
	rows    []*stepRow
	byID    map[string]*stepRow

	wave     int
	phase    string
	done     bool
	success  bool
	finalMsg string
	width    int
	height   int

	headerStyle     lipgloss.Style
	rowStyle        lipgloss.Style
	footerStyle     lipgloss.Style
	statusRunning   lipgloss.Style
	statusCompleted lipgloss.Style
	statusFailed    lipgloss.Style
	statusIdle      lipgloss.Style
}

// NewProgram creates the TUI program for one run.
func NewProgram(task string) (*tea.Program, *Model) {
	model := newModel(task)
	program := tea.NewProgram(model, tea.WithAltScreen())
	return program, model
}

func newModel(task string) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	return &Model{
		task:    task,
		spinner: sp,
		byID:    make(map[string]*stepRow),
		phase:   "planning",

		headerStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("7")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("240")),

		rowStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),

		footerStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),

		statusRunning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")), // Green

		statusCompleted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("28")), // Dark green

		statusFailed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")), // Red

		statusIdle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")), // Gray
	}
}

// Init starts the spinner.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case EventMsg:
		m.applyEvent(orchestrator.Event(msg))

	case DoneMsg:
		m.done = true
		m.success = msg.Success
		m.finalMsg = msg.Message
	}

	return m, nil
}

// applyEvent folds one orchestrator event into the step table.
func (m *Model) applyEvent(event orchestrator.Event) {
	if m.runID == "" {
		m.runID = event.RunID
	}

	switch event.Type {
	case orchestrator.EventPlanGenerated:
		m.phase = "executing"

	case orchestrator.EventWaveStarted:
		m.wave = event.Wave

	case orchestrator.EventStepQueued:
		m.row(event).status = models.StepStatusPending

	case orchestrator.EventStepBlocked:
		m.row(event).status = models.StepStatusBlocked

	case orchestrator.EventStepStarted:
		row := m.row(event)
		row.status = models.StepStatusRunning
		row.wave = event.Wave
		row.startedAt = time.Now()

	case orchestrator.EventStepCompleted:
		row := m.row(event)
		row.status = models.StepStatusCompleted
		if !row.startedAt.IsZero() {
			row.duration = time.Since(row.startedAt)
		}

	case orchestrator.EventStepFailed:
		row := m.row(event)
		row.status = models.StepStatusFailed
		if event.Error != nil {
			row.errMsg = event.Error.Error()
		}
		if !row.startedAt.IsZero() {
			row.duration = time.Since(row.startedAt)
		}

	case orchestrator.EventSummaryStarted:
		m.phase = "summarizing"

	case orchestrator.EventRunDone:
		m.phase = "done"
	}
}

// row finds or creates the row for the event's step.
func (m *Model) row(event orchestrator.Event) *stepRow {
	if row, ok := m.byID[event.StepID]; ok {
		if event.StepName != "" {
			row.name = event.StepName
		}
		return row
	}
	row := &stepRow{
		id:         event.StepID,
		name:       event.StepName,
		capability: event.Capability,
		status:     models.StepStatusPending,
	}
	m.byID[event.StepID] = row
	m.rows = append(m.rows, row)
	return row
}

// View renders the run status.
func (m *Model) View() string {
	var b strings.Builder

	title := fmt.Sprintf("tandem run %s", m.runID)
	if m.runID == "" {
		title = "tandem run"
	}
	b.WriteString(m.headerStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(m.rowStyle.Render("Task: " + truncate(m.task, 70)))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(m.spinner.View())
		b.WriteString(m.rowStyle.Render(" planning..."))
		b.WriteString("\n")
	} else {
		colStatus := 5
		colID := 10
		colCap := 14
		colName := 32
		colDuration := 10

		header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s",
			colStatus, "STS",
			colID, "STEP",
			colCap, "CAPABILITY",
			colName, "NAME",
			colDuration, "DURATION",
		)
		b.WriteString(m.headerStyle.Render(header))
		b.WriteString("\n")

		for _, row := range m.rows {
			b.WriteString(m.renderRow(row, colStatus, colID, colCap, colName, colDuration))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.done {
		if m.success {
			b.WriteString(m.statusCompleted.Render("Run complete."))
		} else {
			b.WriteString(m.statusFailed.Render("Run failed: " + m.finalMsg))
		}
		b.WriteString("\n")
		b.WriteString(m.footerStyle.Render("[q] quit"))
	} else {
		b.WriteString(m.spinner.View())
		b.WriteString(m.rowStyle.Render(fmt.Sprintf(" %s (wave %d)", m.phase, m.wave)))
		b.WriteString("\n")
		b.WriteString(m.footerStyle.Render("[q] quit"))
	}

	return b.String()
}

// renderRow renders one step row with a colored status icon.
func (m *Model) renderRow(row *stepRow, colStatus, colID, colCap, colName, colDuration int) string {
	duration := ""
	switch {
	case row.duration > 0:
		duration = formatDuration(row.duration)
	case row.status == models.StepStatusRunning:
		duration = formatDuration(time.Since(row.startedAt))
	}

	line := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s",
		colStatus, m.statusIcon(row.status),
		colID, truncate(row.id, colID-1),
		colCap, truncate(row.capability, colCap-1),
		colName, truncate(row.name, colName-1),
		colDuration, duration,
	)
	if row.errMsg != "" {
		line += m.statusFailed.Render("  " + truncate(row.errMsg, 40))
	}
	return line
}

// statusIcon returns the colored icon for a step status.
func (m *Model) statusIcon(status models.StepStatus) string {
	switch status {
	case models.StepStatusRunning:
		return m.statusRunning.Render(iconRunning)
	case models.StepStatusCompleted:
		return m.statusCompleted.Render(iconCompleted)
	case models.StepStatusFailed:
		return m.statusFailed.Render(iconFailed)
	case models.StepStatusBlocked:
		return m.statusIdle.Render(iconBlocked)
	default:
		return m.statusIdle.Render(iconPending)
	}
}

// truncate shortens a string to fit in a column.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
