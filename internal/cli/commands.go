package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/taskreminder/internal/dispatch"
	"github.com/idilsaglam/taskreminder/internal/logging"
	"github.com/idilsaglam/taskreminder/internal/model"
	"github.com/idilsaglam/taskreminder/internal/screen"
	"github.com/idilsaglam/taskreminder/internal/tui"
	"github.com/idilsaglam/taskreminder/internal/ui"
)

// now is swapped in tests.
var now = time.Now

// maxTitleWidth is the widest title ls prints, in terminal cells.
const maxTitleWidth = 60

// displayOrder sorts by due date, then ID. ls numbers tasks in this order and
// rm resolves indexes against it, so both agree whatever order the backend
// returns rows in.
func displayOrder(tasks []model.Task) []model.Task {
	out := append([]model.Task(nil), tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].DueDate.Before(out[j].DueDate)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func newAddCmd(a *app) *cobra.Command {
	var due string
	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a task (title can be multiple words)",
		Example: `  taskreminder add "Buy milk" --due 2024-01-01
  taskreminder add Call mom --due +2h`,
		Args: minArgs(1, "add <title...> [--due DATE]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			dueDate := now()
			if due != "" {
				d, err := ui.ParseDue(due, now())
				if err != nil {
					return usagef("add: %v", err)
				}
				dueDate = d
			}
			a.store.AddTask(cmd.Context(), strings.Join(args, " "), dueDate)
			ui.OK("added")
			return nil
		},
	}
	cmd.Flags().StringVar(&due, "due", "", "due date: RFC3339, YYYY-MM-DD[ HH:MM] or +offset (+90m, +2d); default now")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var group, asJSON bool
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List tasks",
		Args:    exactArgs(0, "ls [--group] [--json]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := a.store.FetchTasks(cmd.Context())
			if err != nil {
				return err
			}
			tasks = displayOrder(tasks)
			if asJSON {
				enc := json.NewEncoder(ui.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(tasks)
			}
			printList(tasks, group)
			return nil
		},
	}
	cmd.Flags().BoolVar(&group, "group", false, "group output by overdue/upcoming")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <index>",
		Aliases: []string{"delete"},
		Short:   "Remove the task at a 1-based index (as shown by ls)",
		Args:    exactArgs(1, "rm <index>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return usagef("rm: not a number: %s", args[0])
			}
			tasks, err := a.store.FetchTasks(cmd.Context())
			if err != nil {
				return err
			}
			tasks = displayOrder(tasks)
			if n < 1 || n > len(tasks) {
				fmt.Fprintln(ui.Stderr, ui.C(ui.Current().Muted, "Hint: run `taskreminder ls` to see valid indexes"))
				return usagef("index out of range: have %d, got %d", len(tasks), n)
			}
			a.store.DeleteTask(cmd.Context(), tasks[n-1])
			ui.OK("removed")
			return nil
		},
	}
}

func newUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Interactive task list",
		Args:  exactArgs(0, "ui"),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := dispatch.NewQueue(logging.GetLogger("dispatch"))
			defer q.Close()
			return tui.Run(cmd.Context(), screen.NewTaskList(a.store, q))
		},
	}
}

// -------------- rendering helpers --------------

type indexed struct {
	n    int
	task model.Task
}

func printList(tasks []model.Task, group bool) {
	t := ui.Current()
	at := now()
	state := screen.TaskListState{Tasks: tasks}
	overdue := len(state.Overdue(at))

	header := fmt.Sprintf("%s  %s %d  %s %d",
		ui.C(t.Title, "Reminders"),
		ui.C(t.Overdue, t.SymOverdue), overdue,
		ui.C(t.Accent, "Total"), len(tasks),
	)
	lines := []string{header, ""}

	all := make([]indexed, len(tasks))
	for i, task := range tasks {
		all[i] = indexed{n: i + 1, task: task}
	}
	if group {
		var late, soon []indexed
		for _, it := range all {
			if it.task.Overdue(at) {
				late = append(late, it)
			} else {
				soon = append(soon, it)
			}
		}
		lines = append(lines, ui.C(t.Accent, "Overdue"))
		lines = append(lines, taskLines(late, at, "(none)")...)
		lines = append(lines, "", ui.C(t.Accent, "Upcoming"))
		lines = append(lines, taskLines(soon, at, "(none)")...)
	} else {
		lines = append(lines, taskLines(all, at, "no tasks")...)
	}
	lines = append(lines, "", ui.C(t.Muted, "Tip: add with `taskreminder add \"Buy milk\" --due +1d`"))
	ui.Panel(lines)
}

func taskLines(items []indexed, at time.Time, empty string) []string {
	t := ui.Current()
	if len(items) == 0 {
		return []string{ui.C(t.Muted, empty)}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		sym, style := t.SymDue, t.Muted
		if it.task.Overdue(at) {
			sym, style = t.SymOverdue, t.Overdue
		}
		title := runewidth.Truncate(it.task.Title, maxTitleWidth, "...")
		out = append(out, fmt.Sprintf("%s %s %s  %s",
			ui.C(t.Muted, fmt.Sprintf("%2d.", it.n)),
			ui.C(style, sym),
			title,
			ui.C(t.Muted, ui.FormatDue(it.task.DueDate)+" ("+ui.Relative(it.task.DueDate, at)+")"),
		))
	}
	return out
}
