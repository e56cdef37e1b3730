package taskform

import (
	"errors"
	"fmt"

	"taskmanager/model"
	"taskmanager/tasklist"
)

var ErrNoPendingDate = errors.New("pick a date first")

// picker holds a chosen date until the time is chosen too.
type picker struct {
	pending string
}

func (p picker) open() bool { return p.pending != "" }

func (f *Form) PickerOpen() bool { return f.picker.open() }

// PickDate records the date and opens the time picker. Nothing is written
// to the form until PickTime completes the pair.
func (f *Form) PickDate(year, month, day int) error {
	if f.closed {
		return ErrClosed
	}
	date, err := model.ParseDueDate(fmt.Sprintf("%d-%d-%d", year, month, day))
	if err != nil {
		return err
	}
	f.picker.pending = date
	return nil
}

func (f *Form) PickTime(hour, minute int) error {
	if f.closed {
		return ErrClosed
	}
	if !f.picker.open() {
		return ErrNoPendingDate
	}
	tm, err := model.ParseDueTime(fmt.Sprintf("%d:%02d", hour, minute))
	if err != nil {
		return err
	}
	f.fields.DueDate = f.picker.pending
	f.fields.DueTime = tm
	f.picker = picker{}
	return nil
}

// DismissPicker abandons a pending date; the form keeps its old values.
func (f *Form) DismissPicker() {
	f.picker = picker{}
}

// SetDueDate and SetDueTime take typed values instead of picker output.
// They are validated on Confirm.
func (f *Form) SetDueDate(s string) error {
	return f.set(func(in *tasklist.Input) { in.DueDate = s })
}

func (f *Form) SetDueTime(s string) error {
	return f.set(func(in *tasklist.Input) { in.DueTime = s })
}
