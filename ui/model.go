package ui

import (
	"github.com/soletta-dev/postpilot/review"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
)

type ReviewState int

const (
	ListState ReviewState = iota
	PreviewState
	NotesState
	DoneState
)

// ReviewModel drives the interactive review session: a table of pending
// drafts, a per-draft preview, and a notes prompt for the decision.
type ReviewModel struct {
	reviews  *review.System
	drafts   []review.ContentDraft
	table    table.Model
	preview  review.Preview
	input    textinput.Model
	decision review.Decision
	state    ReviewState
	keys     reviewKeyMap
	help     help.Model
	message  string
	reviewed int
	quit     bool
	width    int
	height   int
}

type draftsLoadedMsg struct {
	drafts []review.ContentDraft
	err    error
}

type decisionRecordedMsg struct {
	reviewID string
	err      error
}

type reviewKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Select  key.Binding
	Approve key.Binding
	Reject  key.Binding
	Skip    key.Binding
	Back    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func (k reviewKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Help, k.Quit}
}

func (k reviewKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Approve},
		{k.Down, k.Reject},
		{k.Select, k.Skip},
		{k.Help, k.Back},
		{k.Quit},
	}
}

var defaultReviewKeyMap = reviewKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "move up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "move down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "review"),
	),
	Approve: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "approve"),
	),
	Reject: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reject"),
	),
	Skip: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "skip"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func NewReviewModel(reviews *review.System) *ReviewModel {
	columns := []table.Column{
		{Title: "Draft ID", Width: 32},
		{Title: "Kind", Width: 12},
		{Title: "Status", Width: 10},
		{Title: "Created", Width: 18},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	input := textinput.New()
	input.Placeholder = "notes (optional)"
	input.CharLimit = 200

	return &ReviewModel{
		reviews: reviews,
		table:   t,
		input:   input,
		keys:    defaultReviewKeyMap,
		help:    help.New(),
		state:   ListState,
	}
}
