package model

import (
	"errors"
	"strings"
)

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

var ErrUnknownPriority = errors.New("priority must be one of Low, Medium, High")

var priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Priorities returns the choices in display order. The first entry is the
// default selection of a new task.
func Priorities() []Priority {
	out := make([]Priority, len(priorities))
	copy(out, priorities)
	return out
}

// ParsePriority matches case-insensitively and returns the canonical value.
func ParsePriority(s string) (Priority, error) {
	s = strings.TrimSpace(s)
	for _, p := range priorities {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return "", ErrUnknownPriority
}

func (p Priority) String() string { return string(p) }
