// Package tui is the interactive task list. Store results reach it through
// a binding whose callback forwards each state into the Bubble Tea program.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/taskreminder/internal/model"
	"github.com/idilsaglam/taskreminder/internal/screen"
	"github.com/idilsaglam/taskreminder/internal/ui"
)

// stateMsg carries a published TaskListState into Update.
type stateMsg screen.TaskListState

// listItem adapts a Task to bubbles/list.Item
type listItem struct {
	task model.Task
	now  time.Time
}

func (i listItem) Title() string       { return i.task.Title }
func (i listItem) Description() string { return ui.Relative(i.task.DueDate, i.now) }
func (i listItem) FilterValue() string { return i.task.Title }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	t := ui.Current()
	sym, symStyle := t.SymDue, t.Muted
	if it.task.Overdue(it.now) {
		sym, symStyle = t.SymOverdue, t.Overdue
	}
	title := it.task.Title
	if title == "" {
		title = t.Muted.Render("(untitled)")
	}
	prefix := "  "
	if index == m.Index() {
		prefix = t.Accent.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s  %s", prefix, symStyle.Render(sym), title,
		t.Muted.Render(ui.FormatDue(it.task.DueDate)+" · "+it.Description()))
}

const (
	stepTitle = iota
	stepDue
)

type modelTUI struct {
	ctx   context.Context
	tasks *screen.TaskList
	now   func() time.Time

	list   list.Model
	failed bool
	count  int

	// Inline add and edit share one form: title first, then due date.
	adding   bool
	editing  bool
	editTask model.Task
	step     int
	ti       textinput.Model
	draft    string
	addErr   string
	width    int
	height   int
	quitting bool
}

var (
	addBind    = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind   = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	deleteBind = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	reloadBind = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload"))
)

func newModel(ctx context.Context, tasks *screen.TaskList, now func() time.Time) modelTUI {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = ui.Current().Title
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("task", "tasks")
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{addBind, editBind, deleteBind, reloadBind} }
	l.AdditionalFullHelpKeys = func() []key.Binding { return []key.Binding{addBind, editBind, deleteBind, reloadBind} }

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	m := modelTUI{ctx: ctx, tasks: tasks, now: now, list: l, ti: ti, width: 80, height: 24}
	m.list.Title = m.header()
	return m
}

// Run starts the interactive list and blocks until the user quits.
func Run(ctx context.Context, tasks *screen.TaskList) error {
	m := newModel(ctx, tasks, time.Now)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	sub := tasks.Bind(func(s screen.TaskListState) { p.Send(stateMsg(s)) })
	defer sub.Cancel()

	_, err := p.Run()
	return err
}

func (m modelTUI) Init() tea.Cmd { return m.reload() }

func (m modelTUI) reload() tea.Cmd {
	return func() tea.Msg {
		m.tasks.Reload(m.ctx)
		return nil
	}
}

func (m modelTUI) header() string {
	t := ui.Current()
	if m.failed {
		return t.Title.Render("Reminders") + "  " + t.Error.Render("could not load tasks")
	}
	overdue := 0
	for _, it := range m.list.Items() {
		if li, ok := it.(listItem); ok && li.task.Overdue(li.now) {
			overdue++
		}
	}
	return fmt.Sprintf("%s   %s %d  %s %d",
		t.Title.Render("Reminders"),
		t.Overdue.Render(t.SymOverdue), overdue,
		t.Accent.Render("Total"), m.count)
}

func (m modelTUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		return m.applyState(screen.TaskListState(msg)), nil
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	}

	if m.adding || m.editing {
		return m.updateForm(msg)
	}

	if km, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch km.String() {
		case "q", "esc":
			m.quitting = true
			return m, tea.Quit
		case "a":
			m.adding, m.step, m.addErr = true, stepTitle, ""
			m.ti.SetValue("")
			m.ti.Placeholder = "Task title..."
			m.ti.Focus()
			m.resize()
			return m, textinput.Blink
		case "e":
			li, ok := m.list.SelectedItem().(listItem)
			if !ok {
				return m, nil
			}
			m.editing, m.editTask, m.step, m.addErr = true, li.task, stepTitle, ""
			m.ti.SetValue(li.task.Title)
			m.ti.CursorEnd()
			m.ti.Placeholder = "Task title..."
			m.ti.Focus()
			m.resize()
			return m, textinput.Blink
		case "d":
			if li, ok := m.list.SelectedItem().(listItem); ok {
				task := li.task
				return m, func() tea.Msg {
					m.tasks.Remove(m.ctx, task)
					return nil
				}
			}
			return m, nil
		case "r":
			return m, m.reload()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m modelTUI) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "esc":
			m.closeForm()
			return m, nil
		case "enter":
			value := strings.TrimSpace(m.ti.Value())
			if m.step == stepTitle {
				m.draft, m.step, m.addErr = value, stepDue, ""
				m.ti.SetValue("")
				if m.editing {
					m.ti.SetValue(ui.FormatDue(m.editTask.DueDate))
					m.ti.CursorEnd()
				}
				m.ti.Placeholder = "Due: 2024-01-31, 2024-01-31 09:00, +2h, +3d"
				return m, nil
			}
			var due time.Time
			if m.editing && value == ui.FormatDue(m.editTask.DueDate) {
				// Unchanged text keeps the stored time, seconds included.
				due = m.editTask.DueDate
			} else {
				d, err := ui.ParseDue(value, m.now())
				if err != nil {
					m.addErr = err.Error()
					return m, nil
				}
				due = d
			}
			if m.editing {
				task := m.editTask
				task.Title, task.DueDate = m.draft, due
				m.closeForm()
				return m, func() tea.Msg {
					m.tasks.Edit(m.ctx, task)
					return nil
				}
			}
			title := m.draft
			m.closeForm()
			return m, func() tea.Msg {
				m.tasks.Add(m.ctx, title, due)
				return nil
			}
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *modelTUI) closeForm() {
	m.adding, m.editing, m.editTask = false, false, model.Task{}
	m.draft, m.addErr = "", ""
	m.ti.SetValue("")
	m.ti.Blur()
	m.resize()
}

func (m modelTUI) applyState(s screen.TaskListState) modelTUI {
	now := m.now()
	items := make([]list.Item, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		items = append(items, listItem{task: t, now: now})
	}
	m.list.SetItems(items)
	m.failed = s.Failed
	m.count = len(s.Tasks)
	m.list.Title = m.header()
	return m
}

func (m *modelTUI) resize() {
	h := m.height - 4
	if m.adding || m.editing {
		h = m.height - 7
	}
	if h < 1 {
		h = 1
	}
	m.list.SetSize(m.width-4, h)
}

func (m modelTUI) View() string {
	if m.quitting {
		return ""
	}
	content := m.list.View()
	if m.adding || m.editing {
		t := ui.Current()
		title := "New task"
		if m.editing {
			title = "Edit task"
		}
		if m.step == stepDue {
			title = fmt.Sprintf("Due date for %q", m.draft)
		}
		if m.addErr != "" {
			title += "  " + t.Error.Render(m.addErr)
		}
		content += "\n" + ui.PanelString(title+"\n"+m.ti.View())
	}
	return ui.PanelString(content)
}
