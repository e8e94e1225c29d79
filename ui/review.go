package ui

import (
	"fmt"
	"strings"

	"github.com/soletta-dev/postpilot/logger"
	"github.com/soletta-dev/postpilot/review"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f5c2e7"))
	bodyStyle   = lipgloss.NewStyle().PaddingLeft(2)
)

func (m *ReviewModel) Init() tea.Cmd {
	return m.loadDraftsCmd()
}

func (m *ReviewModel) loadDraftsCmd() tea.Cmd {
	return func() tea.Msg {
		drafts, err := m.reviews.GetPendingReviews()
		return draftsLoadedMsg{drafts: drafts, err: err}
	}
}

func (m *ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case draftsLoadedMsg:
		if msg.err != nil {
			m.message = warnStyle.Render(fmt.Sprintf("Failed to load drafts: %v", msg.err))
			return m, nil
		}
		m.drafts = msg.drafts
		m.refreshTable()
		if len(m.drafts) == 0 {
			m.state = DoneState
		}
		return m, nil

	case decisionRecordedMsg:
		if msg.err != nil {
			m.message = warnStyle.Render(fmt.Sprintf("Failed to record decision: %v", msg.err))
			m.state = PreviewState
			return m, nil
		}
		m.reviewed++
		m.message = okStyle.Render(fmt.Sprintf("Recorded %s", msg.reviewID))
		m.state = ListState
		return m, m.loadDraftsCmd()

	case tea.KeyMsg:
		switch m.state {
		case ListState:
			return m.updateList(msg)
		case PreviewState:
			return m.updatePreview(msg)
		case NotesState:
			return m.updateNotes(msg)
		case DoneState:
			if key.Matches(msg, m.keys.Quit) || msg.String() == "enter" {
				m.quit = true
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m *ReviewModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quit = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Select):
		return m.openSelected()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *ReviewModel) openSelected() (tea.Model, tea.Cmd) {
	row := m.table.SelectedRow()
	if row == nil {
		return m, nil
	}
	draftID := row[0]

	ok, err := m.reviews.SubmitForReview(draftID)
	if err != nil {
		m.message = warnStyle.Render(fmt.Sprintf("Failed to open %s: %v", draftID, err))
		return m, nil
	}
	if !ok {
		m.message = warnStyle.Render(fmt.Sprintf("Draft %s is no longer reviewable", draftID))
		return m, m.loadDraftsCmd()
	}

	preview, err := m.reviews.PreviewContent(draftID)
	if err != nil {
		m.message = warnStyle.Render(fmt.Sprintf("Failed to preview %s: %v", draftID, err))
		return m, nil
	}
	if preview.Err != "" {
		m.message = warnStyle.Render(fmt.Sprintf("Preview error: %s", preview.Err))
		return m, nil
	}

	m.preview = preview
	m.message = ""
	m.state = PreviewState
	return m, nil
}

func (m *ReviewModel) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quit = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Approve):
		m.decision = review.DecisionApproved
		m.input.Placeholder = "notes (optional)"
		m.input.SetValue("")
		m.input.Focus()
		m.state = NotesState
		return m, nil
	case key.Matches(msg, m.keys.Reject):
		m.decision = review.DecisionRejected
		m.input.Placeholder = "rejection reason (required)"
		m.input.SetValue("")
		m.input.Focus()
		m.state = NotesState
		return m, nil
	case key.Matches(msg, m.keys.Skip), key.Matches(msg, m.keys.Back):
		m.state = ListState
		return m, nil
	}
	return m, nil
}

func (m *ReviewModel) updateNotes(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input.Blur()
		m.state = PreviewState
		return m, nil
	case "enter":
		notes := strings.TrimSpace(m.input.Value())
		if m.decision == review.DecisionRejected && notes == "" {
			m.message = warnStyle.Render("A rejection needs a reason")
			return m, nil
		}
		m.input.Blur()
		return m, m.recordDecisionCmd(m.preview.DraftID, m.decision, notes)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *ReviewModel) recordDecisionCmd(draftID string, decision review.Decision, notes string) tea.Cmd {
	return func() tea.Msg {
		var reviewID string
		var err error
		if decision == review.DecisionApproved {
			reviewID, err = m.reviews.ApproveContent(draftID, notes)
		} else {
			reviewID, err = m.reviews.RejectContent(draftID, notes)
		}
		if err != nil {
			logger.Logger.Printf("Error recording decision for %s: %v", draftID, err)
		}
		return decisionRecordedMsg{reviewID: reviewID, err: err}
	}
}

func (m *ReviewModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.drafts))
	for _, d := range m.drafts {
		rows = append(rows, table.Row{
			d.DraftID,
			d.Kind,
			string(d.Status),
			d.CreatedAt.UTC().Format("2006-01-02 15:04"),
		})
	}
	m.table.SetRows(rows)
}

func (m *ReviewModel) View() string {
	if m.quit {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Content Review") + "\n\n")

	switch m.state {
	case ListState:
		sb.WriteString(fmt.Sprintf("%d drafts pending\n\n", len(m.drafts)))
		sb.WriteString(m.table.View() + "\n")
	case PreviewState:
		m.renderPreview(&sb)
	case NotesState:
		m.renderPreview(&sb)
		sb.WriteString("\n" + labelStyle.Render(string(m.decision)+" notes: "))
		sb.WriteString(m.input.View() + "\n")
	case DoneState:
		sb.WriteString(okStyle.Render(fmt.Sprintf("No drafts left to review. %d reviewed this session.", m.reviewed)) + "\n")
		sb.WriteString("Press enter or q to exit.\n")
	}

	if m.message != "" {
		sb.WriteString("\n" + m.message + "\n")
	}
	sb.WriteString("\n" + m.help.View(m.keys))
	return sb.String()
}

func (m *ReviewModel) renderPreview(sb *strings.Builder) {
	p := m.preview
	sb.WriteString(labelStyle.Render("Draft: ") + p.DraftID + "\n")
	sb.WriteString(labelStyle.Render("Kind: ") + p.Kind + "  ")
	sb.WriteString(labelStyle.Render("Status: ") + statusStyle.Render(string(p.Status)) + "\n")

	if p.Body.IsThread() {
		sb.WriteString(fmt.Sprintf("Thread of %d posts, %d chars total\n\n", p.ThreadLength, p.TotalChars))
		for i, item := range p.Body.Items() {
			sb.WriteString(fmt.Sprintf("%d. ", i+1) + bodyStyle.Render(item) + "\n")
		}
	} else {
		sb.WriteString(fmt.Sprintf("Single post, %d chars\n\n", p.CharCount))
		sb.WriteString(bodyStyle.Render(p.Body.Text()) + "\n")
	}

	if p.LengthOk {
		sb.WriteString("\n" + okStyle.Render("Length OK") + "\n")
	} else {
		sb.WriteString("\n" + warnStyle.Render("Over the 280 character limit, will be truncated") + "\n")
	}
	sb.WriteString("\n[a]pprove  [r]eject  [s]kip\n")
}
