// Package listview renders the task list and relays row actions.
package listview

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"taskmanager/model"
)

var ErrNoSuchRow = errors.New("no such row")

type Row struct {
	TaskID  string `json:"taskId"`
	Title   string `json:"title"`
	DueDate string `json:"dueDate"`
}

func Project(tasks []model.Task) []Row {
	rows := make([]Row, len(tasks))
	for i, t := range tasks {
		rows[i] = Row{TaskID: t.TaskID, Title: t.Title, DueDate: t.DueDate}
	}
	return rows
}

func Render(w io.Writer, rows []Row) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No tasks yet.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTITLE\tDUE")
	for i, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, r.Title, r.DueDate)
	}
	return tw.Flush()
}

// View holds the rows currently shown and the handlers for row actions.
type View struct {
	OnDelete func(taskID string)
	OnEdit   func(t model.Task)

	tasks []model.Task
}

// Refresh replaces everything shown.
func (v *View) Refresh(tasks []model.Task) {
	v.tasks = append([]model.Task(nil), tasks...)
}

func (v *View) Rows() []Row { return Project(v.tasks) }

func (v *View) Render(w io.Writer) error { return Render(w, v.Rows()) }

func (v *View) Delete(i int) error {
	t, err := v.row(i)
	if err != nil {
		return err
	}
	if v.OnDelete != nil {
		v.OnDelete(t.TaskID)
	}
	return nil
}

func (v *View) Edit(i int) error {
	t, err := v.row(i)
	if err != nil {
		return err
	}
	if v.OnEdit != nil {
		v.OnEdit(t)
	}
	return nil
}

func (v *View) row(i int) (model.Task, error) {
	if i < 0 || i >= len(v.tasks) {
		return model.Task{}, fmt.Errorf("%w: %d", ErrNoSuchRow, i)
	}
	return v.tasks[i], nil
}
