// Package taskform is the modal create/edit interaction that turns user
// input into a tasklist command.
package taskform

import (
	"context"
	"errors"
	"fmt"

	"taskmanager/model"
	"taskmanager/tasklist"
)

var ErrClosed = errors.New("form is closed")

type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "Edit Task"
	}
	return "Create New Task"
}

type Form struct {
	mode   Mode
	taskID string
	fields tasklist.Input
	picker picker
	closed bool
}

// Open starts a create form when seed is nil, or an edit form pre-filled
// from seed otherwise. A stored priority outside the enumeration seeds as
// the first entry.
func Open(seed *model.Task) *Form {
	if seed == nil {
		return &Form{
			mode:   ModeCreate,
			fields: tasklist.Input{Priority: model.Priorities()[0].String()},
		}
	}

	f := &Form{
		mode:   ModeEdit,
		taskID: seed.TaskID,
		fields: tasklist.Input{
			Title:       seed.Title,
			Description: seed.Description,
			Priority:    model.Priorities()[0].String(),
			DueDate:     seed.DueDate,
		},
	}
	if p, err := model.ParsePriority(seed.Priority); err == nil {
		f.fields.Priority = p.String()
	}
	if date, tm, err := model.SplitReminder(seed.ReminderDateTime); err == nil {
		f.fields.DueDate = date
		f.fields.DueTime = tm
	} else if date, err := model.ParseDueDate(seed.DueDate); err == nil {
		f.fields.DueDate = date
	}
	return f
}

func (f *Form) Mode() Mode             { return f.mode }
func (f *Form) TaskID() string         { return f.taskID }
func (f *Form) Fields() tasklist.Input { return f.fields }
func (f *Form) Closed() bool           { return f.closed }

func (f *Form) SetTitle(s string) error {
	return f.set(func(in *tasklist.Input) { in.Title = s })
}

func (f *Form) SetDescription(s string) error {
	return f.set(func(in *tasklist.Input) { in.Description = s })
}

// SetPriority accepts any spelling; an unknown value is kept as typed and
// rejected on Confirm.
func (f *Form) SetPriority(s string) error {
	return f.set(func(in *tasklist.Input) {
		if p, err := model.ParsePriority(s); err == nil {
			in.Priority = p.String()
			return
		}
		in.Priority = s
	})
}

func (f *Form) set(apply func(*tasklist.Input)) error {
	if f.closed {
		return ErrClosed
	}
	apply(&f.fields)
	return nil
}

// Confirm validates the fields and returns the command to run. On a
// validation error the form stays open so the user can correct it.
func (f *Form) Confirm() (tasklist.Command, error) {
	if f.closed {
		return tasklist.Command{}, ErrClosed
	}
	in, err := f.fields.Normalize()
	if err != nil {
		return tasklist.Command{}, err
	}

	f.closed = true
	f.picker = picker{}
	if f.mode == ModeEdit {
		return tasklist.Command{Op: tasklist.OpUpdate, TaskID: f.taskID, Input: in}, nil
	}
	return tasklist.Command{Op: tasklist.OpCreate, Input: in}, nil
}

// Cancel discards all input.
func (f *Form) Cancel() {
	f.closed = true
	f.fields = tasklist.Input{}
	f.picker = picker{}
}

// Apply submits a confirmed command to the controller. The channel
// delivers exactly one result and is then closed.
func Apply(ctx context.Context, c *tasklist.Controller, cmd tasklist.Command) <-chan tasklist.Result {
	switch cmd.Op {
	case tasklist.OpCreate, tasklist.OpUpdate:
		return c.Submit(ctx, cmd)
	}
	done := make(chan tasklist.Result, 1)
	done <- tasklist.Result{Err: fmt.Errorf("form cannot issue %q", cmd.Op)}
	close(done)
	return done
}
