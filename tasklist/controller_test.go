package tasklist

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taskmanager/model"
	"taskmanager/session"
	"taskmanager/store"
)

// MockTaskStore is a testify mock of store.TaskStore.
type MockTaskStore struct {
	mock.Mock
}

func (m *MockTaskStore) Insert(ctx context.Context, t model.Task) (string, error) {
	args := m.Called(ctx, t)
	return args.String(0), args.Error(1)
}

func (m *MockTaskStore) UpdateFields(ctx context.Context, id string, f store.Fields) error {
	args := m.Called(ctx, id, f)
	return args.Error(0)
}

func (m *MockTaskStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskStore) Scan(ctx context.Context, f store.Filter) ([]store.Document, error) {
	args := m.Called(ctx, f)
	docs, _ := args.Get(0).([]store.Document)
	return docs, args.Error(1)
}

func validInput() Input {
	return Input{
		Title:       "Buy milk",
		Description: "2%",
		Priority:    "Low",
		DueDate:     "2024-03-05",
		DueTime:     "09:00",
	}
}

func doc(id, userID, title, reminder string) store.Document {
	return store.Document{ID: id, Task: model.Task{
		TaskID:           id,
		UserID:           userID,
		Title:            title,
		Description:      "d",
		Priority:         "Low",
		DueDate:          "2024-03-05",
		ReminderDateTime: reminder,
	}}
}

func TestController_CreateThenLoad(t *testing.T) {
	s := store.NewMemoryStore()
	c := NewController(session.Static("u1"), s, nil)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		rep, err := c.Create(ctx, validInput())
		require.NoError(t, err)
		assert.False(t, seen[rep.TaskID], "task id reused")
		seen[rep.TaskID] = true

		got, ok := c.Find(rep.TaskID)
		require.True(t, ok)
		assert.Equal(t, "Buy milk", got.Title)
		assert.Equal(t, "2%", got.Description)
		assert.Equal(t, "Low", got.Priority)
		assert.Equal(t, "2024-03-05", got.DueDate)
		assert.Equal(t, "2024-03-05 09:00", got.ReminderDateTime)
		assert.Equal(t, "u1", got.UserID)
	}
	assert.Len(t, c.Tasks(), 2)
}

func TestController_CreateCanonicalisesDateAndTime(t *testing.T) {
	c := NewController(session.Static("u1"), store.NewMemoryStore(), nil)

	in := validInput()
	in.DueDate = "2024-1-5"
	in.DueTime = "9:30"
	in.Priority = "high"
	rep, err := c.Create(context.Background(), in)
	require.NoError(t, err)

	got, ok := c.Find(rep.TaskID)
	require.True(t, ok)
	assert.Equal(t, "2024-01-05", got.DueDate)
	assert.Equal(t, "2024-01-05 09:30", got.ReminderDateTime)
	assert.Equal(t, "High", got.Priority)
}

func TestController_UpdateKeepsIdentity(t *testing.T) {
	c := NewController(session.Static("u1"), store.NewMemoryStore(), nil)
	ctx := context.Background()

	created, err := c.Create(ctx, validInput())
	require.NoError(t, err)

	_, err = c.Update(ctx, created.TaskID, Input{
		Title:       "Buy oat milk",
		Description: "barista",
		Priority:    "Medium",
		DueDate:     "2024-03-06",
		DueTime:     "18:15",
	})
	require.NoError(t, err)

	got, ok := c.Find(created.TaskID)
	require.True(t, ok)
	assert.Equal(t, created.TaskID, got.TaskID)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "Buy oat milk", got.Title)
	assert.Equal(t, "barista", got.Description)
	assert.Equal(t, "Medium", got.Priority)
	assert.Equal(t, "2024-03-06", got.DueDate)
	assert.Equal(t, "2024-03-06 18:15", got.ReminderDateTime)
}

func TestController_UpdateSendsOnlyEditableFields(t *testing.T) {
	m := new(MockTaskStore)
	m.On("Scan", mock.Anything, store.ByUser("u1")).
		Return([]store.Document{doc("t1", "u1", "old", "2024-03-05 09:00")}, nil)
	m.On("UpdateFields", mock.Anything, "t1", store.Fields{
		Title:            "Buy milk",
		Description:      "2%",
		Priority:         "Low",
		DueDate:          "2024-03-05",
		ReminderDateTime: "2024-03-05 09:00",
	}).Return(nil).Once()

	c := NewController(session.Static("u1"), m, nil)
	_, err := c.Update(context.Background(), "t1", validInput())
	require.NoError(t, err)

	m.AssertExpectations(t)
}

func TestController_Delete(t *testing.T) {
	c := NewController(session.Static("u1"), store.NewMemoryStore(), nil)
	ctx := context.Background()

	keep, err := c.Create(ctx, validInput())
	require.NoError(t, err)
	drop, err := c.Create(ctx, validInput())
	require.NoError(t, err)

	_, err = c.Delete(ctx, drop.TaskID)
	require.NoError(t, err)

	_, ok := c.Find(drop.TaskID)
	assert.False(t, ok)
	_, ok = c.Find(keep.TaskID)
	assert.True(t, ok)
}

func TestController_LoadWithoutSessionKeepsList(t *testing.T) {
	s := store.NewMemoryStore()
	s.Put("t1", doc("t1", "u1", "a", "2024-03-05 09:00").Task)

	var holder session.Holder
	holder.Set(session.Session{UserID: "u1"})
	c := NewController(&holder, s, nil)
	_, err := c.Load(context.Background())
	require.NoError(t, err)
	before := c.Tasks()
	require.Len(t, before, 1)

	holder.Clear()
	_, err = c.Load(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Equal(t, before, c.Tasks())
}

func TestController_ValidationNeverReachesStore(t *testing.T) {
	blank := func(mutate func(*Input)) Input {
		in := validInput()
		mutate(&in)
		return in
	}
	tests := []struct {
		name  string
		in    Input
		field string
	}{
		{"empty title", blank(func(in *Input) { in.Title = "" }), "title"},
		{"whitespace description", blank(func(in *Input) { in.Description = "   " }), "description"},
		{"empty priority", blank(func(in *Input) { in.Priority = "" }), "priority"},
		{"unknown priority", blank(func(in *Input) { in.Priority = "Urgent" }), "priority"},
		{"empty date", blank(func(in *Input) { in.DueDate = "\t" }), "dueDate"},
		{"bad date", blank(func(in *Input) { in.DueDate = "2024-02-30" }), "dueDate"},
		{"empty time", blank(func(in *Input) { in.DueTime = "" }), "dueTime"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(MockTaskStore)
			c := NewController(session.Static("u1"), m, nil)

			_, err := c.Create(context.Background(), tt.in)
			assert.ErrorIs(t, err, ErrValidation)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)

			_, err = c.Update(context.Background(), "t1", tt.in)
			assert.ErrorIs(t, err, ErrValidation)

			m.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
			m.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
			m.AssertNotCalled(t, "Scan", mock.Anything, mock.Anything)
		})
	}
}

func TestController_LoadOnlyOwnTasks(t *testing.T) {
	s := store.NewMemoryStore()
	s.Put("a", doc("a", "u1", "mine 1", "2024-03-05 09:00").Task)
	s.Put("b", doc("b", "u2", "theirs", "2024-03-05 09:00").Task)
	s.Put("c", doc("c", "u1", "mine 2", "2024-03-05 10:00").Task)

	c := NewController(session.Static("u1"), s, nil)
	rep, err := c.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, rep.Loaded)
	tasks := c.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "a", tasks[0].TaskID)
	assert.Equal(t, "c", tasks[1].TaskID)
}

func TestController_LoadIsIdempotent(t *testing.T) {
	s := store.NewMemoryStore()
	c := NewController(session.Static("u1"), s, nil)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := c.Create(ctx, validInput())
		require.NoError(t, err)
	}

	_, err := c.Load(ctx)
	require.NoError(t, err)
	first := c.Tasks()
	_, err = c.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, c.Tasks())
}

func TestController_LoadSkipPolicy(t *testing.T) {
	m := new(MockTaskStore)
	m.On("Scan", mock.Anything, store.ByUser("u1")).Return([]store.Document{
		doc("ok", "u1", "fine", "2024-03-05 09:00"),
		doc("legacy", "u1", "no reminder", ""),
		doc("foreign", "u2", "leaked", "2024-03-05 09:00"),
	}, nil)

	c := NewController(session.Static("u1"), m, nil)
	rep, err := c.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Report{Loaded: 1, Skipped: 2}, rep)
	require.Len(t, c.Tasks(), 1)
	assert.Equal(t, "ok", c.Tasks()[0].TaskID)
}

func TestController_LoadFailureKeepsStaleList(t *testing.T) {
	m := new(MockTaskStore)
	m.On("Scan", mock.Anything, mock.Anything).
		Return([]store.Document{doc("t1", "u1", "a", "2024-03-05 09:00")}, nil).Once()
	m.On("Scan", mock.Anything, mock.Anything).
		Return(nil, errors.New("unavailable")).Once()

	c := NewController(session.Static("u1"), m, nil)
	_, err := c.Load(context.Background())
	require.NoError(t, err)

	_, err = c.Load(context.Background())
	var serr *StoreError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, OpLoad, serr.Op)
	assert.Equal(t, "unavailable", err.Error())
	assert.Len(t, c.Tasks(), 1)
}

func TestController_StoreFailureMakesNoLocalChange(t *testing.T) {
	m := new(MockTaskStore)
	m.On("Insert", mock.Anything, mock.Anything).Return("", errors.New("permission denied"))

	c := NewController(session.Static("u1"), m, nil)
	_, err := c.Create(context.Background(), validInput())

	var serr *StoreError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, OpCreate, serr.Op)
	assert.Empty(t, c.Tasks())
	m.AssertNotCalled(t, "Scan", mock.Anything, mock.Anything)
}

func TestController_ReloadFailureAfterMutation(t *testing.T) {
	m := new(MockTaskStore)
	m.On("Insert", mock.Anything, mock.Anything).Return("new-id", nil).Once()
	m.On("Scan", mock.Anything, mock.Anything).Return(nil, errors.New("network down")).Once()

	c := NewController(session.Static("u1"), m, nil)
	rep, err := c.Create(context.Background(), validInput())

	var rerr *ReloadError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, OpCreate, rerr.Op)
	assert.Equal(t, "new-id", rerr.TaskID)
	assert.Equal(t, "new-id", rep.TaskID)
	m.AssertExpectations(t)
}

func TestController_BusyRejectsSecondMutation(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})

	m := new(MockTaskStore)
	m.On("Insert", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return("t1", nil).Once()
	m.On("Scan", mock.Anything, mock.Anything).
		Return([]store.Document{doc("t1", "u1", "Buy milk", "2024-03-05 09:00")}, nil)

	c := NewController(session.Static("u1"), m, nil)
	first := c.Submit(context.Background(), Command{Op: OpCreate, Input: validInput()})
	<-started

	_, err := c.Create(context.Background(), validInput())
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	res := <-first
	require.NoError(t, res.Err)
	m.AssertNumberOfCalls(t, "Insert", 1)

	// the guard is released once the first call completes
	_, err = c.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUnknownTask)
}

func TestController_ForeignTaskIsUnknown(t *testing.T) {
	m := new(MockTaskStore)
	m.On("Scan", mock.Anything, store.ByUser("u1")).
		Return([]store.Document{doc("mine", "u1", "a", "2024-03-05 09:00")}, nil)

	c := NewController(session.Static("u1"), m, nil)

	_, err := c.Delete(context.Background(), "theirs")
	assert.ErrorIs(t, err, ErrUnknownTask)
	_, err = c.Update(context.Background(), "theirs", validInput())
	assert.ErrorIs(t, err, ErrUnknownTask)

	m.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	m.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
}

func TestController_VanishedTaskIsStoreError(t *testing.T) {
	s := store.NewMemoryStore()
	c := NewController(session.Static("u1"), s, nil)
	ctx := context.Background()

	rep, err := c.Create(ctx, validInput())
	require.NoError(t, err)
	// removed behind the controller's back
	require.NoError(t, s.Delete(ctx, rep.TaskID))

	_, err = c.Delete(ctx, rep.TaskID)
	var serr *StoreError
	require.ErrorAs(t, err, &serr)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestController_MutationsNeedSession(t *testing.T) {
	m := new(MockTaskStore)
	c := NewController(session.Static(""), m, nil)
	ctx := context.Background()

	_, err := c.Create(ctx, validInput())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = c.Update(ctx, "t1", validInput())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = c.Delete(ctx, "t1")
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	m.AssertExpectations(t)
}

func TestController_SubmitDeliversOnce(t *testing.T) {
	c := NewController(session.Static("u1"), store.NewMemoryStore(), nil)

	ch := c.Submit(context.Background(), Command{Op: OpCreate, Input: validInput()})

	select {
	case res := <-ch:
		require.NoError(t, res.Err)
		assert.Equal(t, 1, res.Report.Loaded)
	case <-time.After(time.Second):
		t.Fatal("no result")
	}
	_, open := <-ch
	assert.False(t, open)

	_, err := c.Do(context.Background(), Command{Op: "archive"})
	assert.Error(t, err)
}

func TestRegistry_OneControllerPerUser(t *testing.T) {
	r := NewRegistry(store.NewMemoryStore(), nil)

	a := r.For("u1")
	assert.Same(t, a, r.For("u1"))
	assert.NotSame(t, a, r.For("u2"))

	r.Forget("u1")
	assert.NotSame(t, a, r.For("u1"))
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time      { return c.t }
func (c *fakeClock) add(d time.Duration) { c.t = c.t.Add(d) }

func TestRegistry_IdleControllerIsRebuilt(t *testing.T) {
	s := store.NewMemoryStore()
	clock := &fakeClock{t: time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)}
	r := NewRegistry(s, nil, WithIdleTTL(time.Minute))
	r.now = clock.now
	ctx := context.Background()

	a := r.For("u1")
	_, err := a.Create(ctx, validInput())
	require.NoError(t, err)

	clock.add(30 * time.Second)
	assert.Same(t, a, r.For("u1"), "still in use")
	r.For("u2")

	clock.add(time.Minute)
	assert.Equal(t, 2, r.Sweep())
	assert.Equal(t, 0, r.Len())

	b := r.For("u1")
	assert.NotSame(t, a, b)
	assert.Empty(t, b.Tasks(), "fresh controller starts empty")
	rep, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Loaded)

	clock.add(2 * time.Minute)
	assert.NotSame(t, b, r.For("u1"), "expired entry is replaced on lookup")
}

func TestRegistry_CapDropsLeastRecentlyUsed(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)}
	r := NewRegistry(store.NewMemoryStore(), nil, WithIdleTTL(0), WithMaxUsers(2))
	r.now = clock.now

	u1 := r.For("u1")
	clock.add(time.Second)
	u2 := r.For("u2")
	clock.add(time.Second)
	assert.Same(t, u1, r.For("u1"))
	clock.add(time.Second)

	r.For("u3")
	assert.Equal(t, 2, r.Len())
	assert.Same(t, u1, r.For("u1"))
	assert.NotSame(t, u2, r.For("u2"), "u2 was least recently used")
	assert.Equal(t, 0, r.Sweep(), "idle eviction disabled")
}

func TestRegistry_BusyControllerIsKept(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)}
	r := NewRegistry(store.NewMemoryStore(), nil, WithIdleTTL(time.Minute), WithMaxUsers(1))
	r.now = clock.now

	a := r.For("u1")
	a.busy.Store(true)
	clock.add(time.Hour)

	assert.Equal(t, 0, r.Sweep())
	assert.Same(t, a, r.For("u1"))
	a.busy.Store(false)
}

// gatedStore blocks the first Scan until release is closed.
type gatedStore struct {
	*store.MemoryStore
	first   atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func (s *gatedStore) Scan(ctx context.Context, f store.Filter) ([]store.Document, error) {
	docs, err := s.MemoryStore.Scan(ctx, f)
	if s.first.CompareAndSwap(false, true) {
		close(s.entered)
		<-s.release
	}
	return docs, err
}

func TestController_OlderScanDoesNotOverwriteNewer(t *testing.T) {
	s := &gatedStore{
		MemoryStore: store.NewMemoryStore(),
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	s.Put("old", doc("old", "u1", "Old", "2024-03-05 09:00").Task)
	c := NewController(session.Static("u1"), s, nil)
	ctx := context.Background()

	slow := make(chan error, 1)
	go func() {
		_, err := c.Load(ctx)
		slow <- err
	}()
	<-s.entered // the first scan has read only "old"

	s.Put("new", doc("new", "u1", "New", "2024-03-06 09:00").Task)
	rep, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Loaded)

	close(s.release)
	require.NoError(t, <-slow)

	tasks := c.Tasks()
	require.Len(t, tasks, 2, "newer list kept")
	_, ok := c.Find("new")
	assert.True(t, ok)
}
