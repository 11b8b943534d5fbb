package browse

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/jiractl/internal/theme"
)

// listItemStyle is the base style for rows of the issue list.
var listItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// selectedItemStyle highlights the focused row.
var selectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(theme.ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(theme.ColorBlue)

// IssueItem is one search hit: an issue key and its summary.
type IssueItem struct {
	Key     string
	Summary string

	// Watched is set once the user added themself as a watcher from the
	// browser.
	Watched bool
}

// FilterValue returns the string used for fuzzy filtering.
func (i IssueItem) FilterValue() string { return i.Key + " " + i.Summary }

// Title returns the issue key.
func (i IssueItem) Title() string { return i.Key }

// Description returns the summary.
func (i IssueItem) Description() string { return i.Summary }

// itemDelegate implements list.ItemDelegate with one line per issue.
type itemDelegate struct{}

// Height returns the number of lines each item takes.
func (d itemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d itemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single list item line.
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	issue, ok := item.(IssueItem)
	if !ok {
		return
	}

	watched := " "
	if issue.Watched {
		watched = theme.SuccessStyle.Render("●")
	}

	line := fmt.Sprintf("%s %s  %s", watched, theme.KeyStyle.Render(issue.Key), issue.Summary)

	if index == m.Index() {
		line = selectedItemStyle.Render(line)
	} else {
		line = listItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}
