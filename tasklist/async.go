package tasklist

import (
	"context"
	"fmt"
)

type Command struct {
	Op     Op
	TaskID string
	Input  Input
}

// Result is the single completion of a submitted command: Err is nil on
// success.
type Result struct {
	Report Report
	Err    error
}

func (c *Controller) Do(ctx context.Context, cmd Command) (Report, error) {
	switch cmd.Op {
	case OpLoad:
		return c.Load(ctx)
	case OpCreate:
		return c.Create(ctx, cmd.Input)
	case OpUpdate:
		return c.Update(ctx, cmd.TaskID, cmd.Input)
	case OpDelete:
		return c.Delete(ctx, cmd.TaskID)
	}
	return Report{}, fmt.Errorf("unknown command %q", cmd.Op)
}

// Submit runs cmd in its own goroutine. The returned channel delivers
// exactly one Result and is then closed; it is buffered, so a caller that
// stops listening does not leak the goroutine.
func (c *Controller) Submit(ctx context.Context, cmd Command) <-chan Result {
	done := make(chan Result, 1)
	go func() {
		defer close(done)
		rep, err := c.Do(ctx, cmd)
		done <- Result{Report: rep, Err: err}
	}()
	return done
}
