package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidDate = errors.New("invalid date, expected YYYY-M-D")
	ErrInvalidTime = errors.New("invalid time, expected HH:MM")
)

// Task is the only stored entity. TaskID is the store's document id and is
// never written as a field.
type Task struct {
	TaskID           string `firestore:"-" json:"taskId"`
	UserID           string `firestore:"userId" json:"userId"`
	Title            string `firestore:"title" json:"title"`
	Description      string `firestore:"description" json:"description"`
	Priority         string `firestore:"priority" json:"priority"`
	DueDate          string `firestore:"dueDate" json:"dueDate"`
	ReminderDateTime string `firestore:"reminderDateTime" json:"reminderDateTime"`
}

// Field names as stored in the "tasks" collection.
const (
	FieldUserID           = "userId"
	FieldTitle            = "title"
	FieldDescription      = "description"
	FieldPriority         = "priority"
	FieldDueDate          = "dueDate"
	FieldReminderDateTime = "reminderDateTime"
)

// ParseDueDate accepts padded and unpadded year-month-day strings
// ("2024-1-5", "2024-01-05") and returns the canonical YYYY-MM-DD form.
func ParseDueDate(s string) (string, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return "", ErrInvalidDate
	}
	var n [3]int
	for i, p := range parts {
		maxLen := 2
		if i == 0 {
			maxLen = 4
		}
		if !digits(p, maxLen) {
			return "", ErrInvalidDate
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return "", ErrInvalidDate
		}
		n[i] = v
	}
	year, month, day := n[0], n[1], n[2]
	if year < 1 || year > 9999 || month < 1 || month > 12 || day < 1 {
		return "", ErrInvalidDate
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || int(d.Month()) != month {
		// time.Date normalises 2024-2-30 to March
		return "", ErrInvalidDate
	}
	return d.Format(time.DateOnly), nil
}

// ParseDueTime accepts "9:00" or "09:00" and returns HH:MM.
func ParseDueTime(s string) (string, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || len(parts[1]) != 2 || !digits(parts[0], 2) || !digits(parts[1], 2) {
		return "", ErrInvalidTime
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return "", ErrInvalidTime
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return "", ErrInvalidTime
	}
	return fmt.Sprintf("%02d:%02d", h, m), nil
}

// digits reports whether s is 1..maxLen ASCII digits. strconv.Atoi alone
// would also take signs.
func digits(s string, maxLen int) bool {
	if s == "" || len(s) > maxLen {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ReminderDateTime joins an already canonical date and time.
func ReminderDateTime(dueDate, dueTime string) string {
	return dueDate + " " + dueTime
}

// SplitReminder recovers date and time from a reminderDateTime such as
// "2024-11-30 14:30". Both padded and unpadded dates are accepted and the
// results are canonical.
func SplitReminder(reminder string) (dueDate, dueTime string, err error) {
	parts := strings.Fields(reminder)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("reminder %q: %w", reminder, ErrInvalidDate)
	}
	if dueDate, err = ParseDueDate(parts[0]); err != nil {
		return "", "", err
	}
	if dueTime, err = ParseDueTime(parts[1]); err != nil {
		return "", "", err
	}
	return dueDate, dueTime, nil
}
