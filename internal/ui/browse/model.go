// Package browse is an interactive issue browser. It lists the issues an
// operation returns and shows the fields of the one the user opens.
package browse

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/jiractl/internal/keys"
	"github.com/nhle/jiractl/internal/ops"
	"github.com/nhle/jiractl/internal/theme"
)

// Source supplies the operations the browser runs. List fills the issue
// list, Issue opens one issue and Watch adds the user as its watcher.
type Source struct {
	Title string
	List  func(ctx context.Context) (*ops.Result, error)
	Issue func(ctx context.Context, key string) (*ops.Result, error)
	Watch func(ctx context.Context, key string) (*ops.Result, error)
}

// IssuesLoadedMsg carries the outcome of Source.List.
type IssuesLoadedMsg struct {
	Result *ops.Result
	Err    error
}

// IssueLoadedMsg carries the outcome of Source.Issue.
type IssueLoadedMsg struct {
	Key    string
	Result *ops.Result
	Err    error
}

// WatchedMsg carries the outcome of Source.Watch.
type WatchedMsg struct {
	Key    string
	Result *ops.Result
	Err    error
}

type view int

const (
	viewList view = iota
	viewDetail
)

// Model is the top-level browser model.
type Model struct {
	src      Source
	keys     *keys.KeyMap
	list     list.Model
	viewport viewport.Model
	help     help.Model

	view     view
	issueKey string
	issue    ops.Record
	loading  bool
	status   string
	failed   bool

	width  int
	height int
}

// New creates a browser over src.
func New(src Source, width, height int) Model {
	l := list.New([]list.Item{}, itemDelegate{}, width, height-2)
	l.Title = src.Title
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = theme.HeaderStyle

	vp := viewport.New(width, height-2)

	return Model{
		src:      src,
		keys:     keys.DefaultKeyMap(),
		list:     l,
		viewport: vp,
		help:     help.New(),
		loading:  true,
		width:    width,
		height:   height,
	}
}

// Init loads the issue list.
func (m Model) Init() tea.Cmd {
	return m.loadIssues()
}

func (m Model) loadIssues() tea.Cmd {
	fetch := m.src.List
	return func() tea.Msg {
		res, err := fetch(context.Background())
		return IssuesLoadedMsg{Result: res, Err: err}
	}
}

func (m Model) loadIssue(issueKey string) tea.Cmd {
	issue := m.src.Issue
	return func() tea.Msg {
		res, err := issue(context.Background(), issueKey)
		return IssueLoadedMsg{Key: issueKey, Result: res, Err: err}
	}
}

func (m Model) watch(issueKey string) tea.Cmd {
	watch := m.src.Watch
	return func() tea.Msg {
		res, err := watch(context.Background(), issueKey)
		return WatchedMsg{Key: issueKey, Result: res, Err: err}
	}
}

// Update handles messages for the browser.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case IssuesLoadedMsg:
		m.loading = false
		if failure := failureText(msg.Result, msg.Err); failure != "" {
			m.setStatus(failure, true)
			return m, m.list.SetItems(nil)
		}
		items := make([]list.Item, 0, msg.Result.Record.Len())
		for _, e := range msg.Result.Record {
			items = append(items, IssueItem{Key: e.Key, Summary: e.Value})
		}
		m.setStatus(fmt.Sprintf("%d issues", len(items)), false)
		return m, m.list.SetItems(items)

	case IssueLoadedMsg:
		if msg.Key != m.issueKey {
			return m, nil
		}
		m.loading = false
		if failure := failureText(msg.Result, msg.Err); failure != "" {
			m.setStatus(failure, true)
			m.view = viewList
			return m, nil
		}
		m.issue = msg.Result.Record
		m.viewport.SetContent(m.renderIssue())
		m.viewport.GotoTop()
		m.setStatus("", false)
		return m, nil

	case WatchedMsg:
		if failure := failureText(msg.Result, msg.Err); failure != "" {
			m.setStatus(failure, true)
			return m, nil
		}
		m.markWatched(msg.Key)
		m.setStatus("Watching "+msg.Key, false)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		return m.handleKeys(msg)
	}

	return m.delegate(msg)
}

func (m Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Back):
		if m.view == viewDetail {
			m.view = viewList
			m.issueKey = ""
			m.issue = nil
			return m, nil
		}

	case key.Matches(msg, m.keys.Refresh):
		if m.view == viewList {
			m.loading = true
			return m, m.loadIssues()
		}

	case key.Matches(msg, m.keys.Select):
		if m.view == viewList {
			item, ok := m.list.SelectedItem().(IssueItem)
			if !ok {
				return m, nil
			}
			m.view = viewDetail
			m.issueKey = item.Key
			m.issue = nil
			m.loading = true
			return m, m.loadIssue(item.Key)
		}

	case key.Matches(msg, m.keys.Watch):
		if k := m.currentKey(); k != "" {
			m.setStatus("Adding watcher to "+k+"...", false)
			return m, m.watch(k)
		}
	}

	return m.delegate(msg)
}

func (m Model) delegate(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == viewDetail {
		m.viewport, cmd = m.viewport.Update(msg)
	} else {
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

// currentKey is the issue the user is looking at.
func (m Model) currentKey() string {
	if m.view == viewDetail {
		return m.issueKey
	}
	if item, ok := m.list.SelectedItem().(IssueItem); ok {
		return item.Key
	}
	return ""
}

func (m *Model) markWatched(issueKey string) {
	items := m.list.Items()
	for i, it := range items {
		if issue, ok := it.(IssueItem); ok && issue.Key == issueKey {
			issue.Watched = true
			m.list.SetItem(i, issue)
			return
		}
	}
}

func (m *Model) setStatus(text string, failed bool) {
	m.status = text
	m.failed = failed
}

// failureText describes an unsuccessful operation, or returns "".
func failureText(res *ops.Result, err error) string {
	if err != nil {
		return err.Error()
	}
	if res == nil {
		return "no result"
	}
	if !res.Success {
		if rerr := res.Err(); rerr != nil {
			return strings.ReplaceAll(rerr.Error(), "\n", "; ")
		}
		return string(res.Operation) + " failed"
	}
	return ""
}

// View renders the browser.
func (m Model) View() string {
	var body string
	switch {
	case m.loading:
		body = lipgloss.NewStyle().
			Width(m.width).
			Height(m.height-2).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("Loading...")
	case m.view == viewDetail:
		body = m.viewport.View()
	case len(m.list.Items()) == 0:
		body = lipgloss.NewStyle().
			Width(m.width).
			Height(m.height-2).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No issues found.")
	default:
		body = m.list.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusBar(), m.help.View(m.keys))
}

func (m Model) statusBar() string {
	if m.status == "" {
		return ""
	}
	if m.failed {
		return theme.ErrorStyle.Render(m.status)
	}
	return theme.StatusBarStyle.Render(m.status)
}

// renderIssue builds the detail content for the viewport.
func (m Model) renderIssue() string {
	summary, _ := m.issue.Get("summary")
	status, _ := m.issue.Get("status")
	priority, _ := m.issue.Get("priority")

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)

	sections := []string{
		theme.KeyStyle.Render(m.issueKey) + "  " + titleStyle.Render(summary),
		lipgloss.JoinHorizontal(lipgloss.Top,
			theme.StatusStyle(status).Render(status), "  ",
			theme.PriorityStyle(priority).Render(priority)),
		"",
	}

	width := 0
	for _, e := range m.issue {
		width = max(width, len(e.Key))
	}
	for _, e := range m.issue {
		switch e.Key {
		case "summary", "status", "priority":
			continue
		}
		label := theme.LabelStyle.Render(fmt.Sprintf("%-*s", width, e.Key))
		sections = append(sections, label+"  "+e.Value)
	}

	return theme.DetailPanelStyle.
		Width(max(m.width-4, 20)).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// SetSize updates the browser dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.viewport.Width = width
	m.viewport.Height = height - 2
	m.help.Width = width
}

// Run starts the browser on the terminal and blocks until it exits.
func Run(src Source) error {
	p := tea.NewProgram(New(src, 80, 24), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
