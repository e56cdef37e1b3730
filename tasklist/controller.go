// Package tasklist keeps the signed-in user's task list in sync with the
// task store. Every mutation is one store call followed by a full reload.
package tasklist

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"taskmanager/model"
	"taskmanager/session"
	"taskmanager/store"
)

// Skip reasons for records dropped by Load.
const (
	SkipEmptyReminder = "empty reminderDateTime"
	SkipForeignOwner  = "owned by another user"
)

// Report describes the list after a successful operation.
type Report struct {
	TaskID  string
	Loaded  int
	Skipped int
}

type Controller struct {
	session session.Current
	store   store.TaskStore
	logger  *zap.Logger

	mu      sync.RWMutex
	tasks   []model.Task
	applied uint64

	gen  atomic.Uint64
	busy atomic.Bool
}

func NewController(current session.Current, s store.TaskStore, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{session: current, store: s, logger: logger}
}

// Tasks returns a copy of the list as of the last successful load.
func (c *Controller) Tasks() []model.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]model.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

func (c *Controller) Find(taskID string) (model.Task, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, t := range c.tasks {
		if t.TaskID == taskID {
			return t, true
		}
	}
	return model.Task{}, false
}

// Load replaces the list with the current user's tasks. Without a session,
// or when the scan fails, the previous list is left as it was.
//
// Records with an empty reminderDateTime, or whose userId is not the
// session's, are dropped, logged and counted in Report.Skipped.
func (c *Controller) Load(ctx context.Context) (Report, error) {
	uid, ok := c.session.CurrentUserID()
	if !ok {
		return Report{}, ErrNotAuthenticated
	}
	gen := c.gen.Add(1)
	log := c.logger.With(zap.String("operation", string(OpLoad)), zap.String("userId", uid))

	docs, err := c.store.Scan(ctx, store.ByUser(uid))
	if err != nil {
		log.Warn("scan failed, keeping previous list", zap.Error(err))
		return Report{}, &StoreError{Op: OpLoad, Err: err}
	}

	tasks := make([]model.Task, 0, len(docs))
	var skipped int
	for _, d := range docs {
		t := d.Task
		t.TaskID = d.ID
		reason := ""
		switch {
		case t.UserID != uid:
			reason = SkipForeignOwner
		case t.ReminderDateTime == "":
			reason = SkipEmptyReminder
		}
		if reason != "" {
			skipped++
			log.Warn("skipping task", zap.String("taskId", d.ID), zap.String("reason", reason))
			continue
		}
		tasks = append(tasks, t)
	}

	c.mu.Lock()
	// a slower, older scan must not overwrite a newer one
	if gen > c.applied {
		c.tasks = tasks
		c.applied = gen
	}
	c.mu.Unlock()

	log.Debug("tasks loaded", zap.Int("loaded", len(tasks)), zap.Int("skipped", skipped))
	return Report{Loaded: len(tasks), Skipped: skipped}, nil
}

func (c *Controller) Create(ctx context.Context, in Input) (Report, error) {
	uid, ok := c.session.CurrentUserID()
	if !ok {
		return Report{}, ErrNotAuthenticated
	}
	in, err := in.Normalize()
	if err != nil {
		return Report{}, err
	}
	if !c.busy.CompareAndSwap(false, true) {
		return Report{}, ErrBusy
	}
	defer c.busy.Store(false)

	id, err := c.store.Insert(ctx, in.task(uid))
	if err != nil {
		c.logger.Warn("insert failed", zap.String("operation", string(OpCreate)), zap.Error(err))
		return Report{}, &StoreError{Op: OpCreate, Err: err}
	}
	return c.reloadAfter(ctx, OpCreate, id)
}

// Update replaces the editable fields of a task. userId and taskId are
// never written.
func (c *Controller) Update(ctx context.Context, taskID string, in Input) (Report, error) {
	if _, ok := c.session.CurrentUserID(); !ok {
		return Report{}, ErrNotAuthenticated
	}
	in, err := in.Normalize()
	if err != nil {
		return Report{}, err
	}
	if !c.busy.CompareAndSwap(false, true) {
		return Report{}, ErrBusy
	}
	defer c.busy.Store(false)

	if err := c.owned(ctx, taskID); err != nil {
		return Report{}, err
	}
	if err := c.store.UpdateFields(ctx, taskID, in.fields()); err != nil {
		c.logger.Warn("update failed", zap.String("operation", string(OpUpdate)), zap.String("taskId", taskID), zap.Error(err))
		return Report{}, &StoreError{Op: OpUpdate, Err: err}
	}
	return c.reloadAfter(ctx, OpUpdate, taskID)
}

func (c *Controller) Delete(ctx context.Context, taskID string) (Report, error) {
	if _, ok := c.session.CurrentUserID(); !ok {
		return Report{}, ErrNotAuthenticated
	}
	if !c.busy.CompareAndSwap(false, true) {
		return Report{}, ErrBusy
	}
	defer c.busy.Store(false)

	if err := c.owned(ctx, taskID); err != nil {
		return Report{}, err
	}
	if err := c.store.Delete(ctx, taskID); err != nil {
		c.logger.Warn("delete failed", zap.String("operation", string(OpDelete)), zap.String("taskId", taskID), zap.Error(err))
		return Report{}, &StoreError{Op: OpDelete, Err: err}
	}
	return c.reloadAfter(ctx, OpDelete, taskID)
}

// owned checks that taskID belongs to the session's list, loading it once
// if the id is not known yet. The store itself does not enforce ownership.
func (c *Controller) owned(ctx context.Context, taskID string) error {
	if _, ok := c.Find(taskID); ok {
		return nil
	}
	if _, err := c.Load(ctx); err != nil {
		return err
	}
	if _, ok := c.Find(taskID); !ok {
		return ErrUnknownTask
	}
	return nil
}

func (c *Controller) reloadAfter(ctx context.Context, op Op, taskID string) (Report, error) {
	rep, err := c.Load(ctx)
	rep.TaskID = taskID
	if err != nil {
		c.logger.Warn("mutation applied but reload failed",
			zap.String("operation", string(op)), zap.String("taskId", taskID), zap.Error(err))
		return rep, &ReloadError{Op: op, TaskID: taskID, Err: err}
	}
	return rep, nil
}
