package store_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todomirror/internal/backend/placeholder"
	"todomirror/internal/service"
	"todomirror/internal/store"
	"todomirror/internal/testutil"
)

var policies = []store.WritePolicy{store.ConfirmThenApply, store.Optimistic}

func newStore(t *testing.T, remote service.Remote, policy store.WritePolicy) *store.Store {
	t.Helper()
	s := store.New(remote, store.Options{Policy: policy})
	t.Cleanup(s.Wait)
	return s
}

func loaded(t *testing.T, remote *testutil.FakeRemote, policy store.WritePolicy) *store.Store {
	t.Helper()
	s := newStore(t, remote, policy)
	require.NoError(t, s.Load(context.Background()))
	return s
}

func ids(tasks []store.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestLoad_MapsTitleToText(t *testing.T) {
	remote := testutil.NewFakeRemote(service.Todo{ID: "1", Title: "Buy milk", Completed: false})
	s := loaded(t, remote, store.ConfirmThenApply)

	assert.Equal(t, []store.Task{{ID: "1", Text: "Buy milk", Completed: false}}, s.Tasks())
	assert.Empty(t, s.Err())
	assert.False(t, s.Loading())
}

func TestLoad_CapsPageSizeAndDedupes(t *testing.T) {
	todos := testutil.Fixtures(15)
	todos[2].ID = "1" // duplicate of the first record
	remote := &overfetchRemote{FakeRemote: testutil.NewFakeRemote(todos...)}
	s := newStore(t, remote, store.ConfirmThenApply)
	require.NoError(t, s.Load(context.Background()))

	tasks := s.Tasks()
	assert.LessOrEqual(t, len(tasks), store.DefaultPageSize)
	seen := map[string]bool{}
	for _, task := range tasks {
		assert.False(t, seen[task.ID], "duplicate id %s", task.ID)
		seen[task.ID] = true
	}
	assert.Equal(t, "Task 1", tasks[0].Text)
}

// overfetchRemote ignores the limit, like a server that does not honor _limit.
type overfetchRemote struct {
	*testutil.FakeRemote
}

func (r *overfetchRemote) ListTodos(ctx context.Context, _ int) ([]service.Todo, error) {
	return r.FakeRemote.ListTodos(ctx, 0)
}

func TestLoad_ReplacesLocalState(t *testing.T) {
	remote := testutil.NewFakeRemote(testutil.Fixtures(2)...)
	s := newStore(t, remote, store.Optimistic)

	require.NoError(t, s.Add(context.Background(), "local only"))
	s.Wait()
	remote.SetTodos(testutil.Fixtures(3)...)

	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, []string{"1", "2", "3"}, ids(s.Tasks()))
}

func TestLoad_FailureLeavesListUnchanged(t *testing.T) {
	remote := testutil.NewFakeRemote(testutil.Fixtures(3)...)
	s := loaded(t, remote, store.ConfirmThenApply)
	before := s.Tasks()

	remote.ListErr = service.DecodeError("unexpected end of JSON input")
	err := s.Load(context.Background())

	var fetchErr *store.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.ErrorIs(t, err, service.ErrDecode)
	assert.Equal(t, before, s.Tasks())
	assert.Equal(t, store.MsgLoadFailed, s.Err())
}

func TestLoad_ClearsPreviousError(t *testing.T) {
	remote := testutil.NewFakeRemote(testutil.Fixtures(1)...)
	remote.ListErr = service.NetworkError("connection refused")
	s := newStore(t, remote, store.ConfirmThenApply)

	require.Error(t, s.Load(context.Background()))
	require.Equal(t, store.MsgLoadFailed, s.Err())

	remote.ListErr = nil
	require.NoError(t, s.Load(context.Background()))
	assert.Empty(t, s.Err())
}

func TestLoad_DiscardsStaleResponse(t *testing.T) {
	ctx := context.Background()
	remote := testutil.NewFakeRemote(testutil.Fixtures(1)...)
	s := newStore(t, remote, store.ConfirmThenApply)

	hold := remote.HoldNext("list")
	done := make(chan error, 1)
	go func() { done <- s.Load(ctx) }()
	<-hold.Started()
	assert.True(t, s.Loading())

	remote.SetTodos(testutil.Fixtures(2)...)
	require.NoError(t, s.Load(ctx))
	assert.True(t, s.Loading(), "first load still in flight")

	remote.SetTodos(testutil.Fixtures(5)...)
	hold.Release()
	require.NoError(t, <-done)

	assert.Equal(t, []string{"1", "2"}, ids(s.Tasks()))
	assert.False(t, s.Loading())
}

func TestLoad_StaleFailureIgnored(t *testing.T) {
	ctx := context.Background()
	remote := testutil.NewFakeRemote(testutil.Fixtures(1)...)
	s := newStore(t, remote, store.ConfirmThenApply)

	hold := remote.HoldNext("list")
	done := make(chan error, 1)
	go func() { done <- s.Load(ctx) }()
	<-hold.Started()

	remote.SetTodos(testutil.Fixtures(2)...)
	require.NoError(t, s.Load(ctx))

	remote.ListErr = service.NetworkError("connection reset")
	hold.Release()

	assert.NoError(t, <-done)
	assert.Empty(t, s.Err())
	assert.Equal(t, []string{"1", "2"}, ids(s.Tasks()))
	assert.False(t, s.Loading())
}

func TestAdd_BlankIsNoop(t *testing.T) {
	for _, policy := range policies {
		t.Run(policy.String(), func(t *testing.T) {
			remote := testutil.NewFakeRemote(testutil.Fixtures(2)...)
			s := loaded(t, remote, policy)

			require.NoError(t, s.Add(context.Background(), ""))
			require.NoError(t, s.Add(context.Background(), "   "))
			s.Wait()

			assert.Equal(t, 2, s.Len())
			assert.Equal(t, []string{"list"}, remote.Calls())
		})
	}
}

func TestAdd_ConfirmAppendsServerRecord(t *testing.T) {
	remote := testutil.NewFakeRemote(testutil.Fixtures(1)...)
	s := loaded(t, remote, store.ConfirmThenApply)

	require.NoError(t, s.Add(context.Background(), "  Wash car  "))

	tasks := s.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, store.Task{ID: "201", Text: "Wash car"}, tasks[1])
	assert.Equal(t, []string{"list", "create:Wash car"}, remote.Calls())
}

func TestAdd_ConfirmFailureLeavesList(t *testing.T) {
	remote := testutil.NewFakeRemote(testutil.Fixtures(2)...)
	s := loaded(t, remote, store.ConfirmThenApply)
	remote.CreateErr = service.NetworkError("status 500")

	err := s.Add(context.Background(), "Wash car")

	var mutErr *store.MutationError
	require.ErrorAs(t, err, &mutErr)
	assert.Equal(t, store.OpAdd, mutErr.Op)
	assert.ErrorIs(t, err, service.ErrNetwork)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, store.MsgAddFailed, s.Err())
}

func TestAdd_ConfirmRepeatedServerIDFallsBackToLocal(t *testing.T) {
	remote := testutil.NewFakeRemote()
	remote.FixedCreateID = "201"
	s := newStore(t, remote, store.ConfirmThenApply)

	require.NoError(t, s.Add(context.Background(), "first"))
	require.NoError(t, s.Add(context.Background(), "second"))

	tasks := s.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "201", tasks[0].ID)
	assert.True(t, store.IsLocalID(tasks[1].ID))
	assert.Equal(t, "second", tasks[1].Text)
}

func TestAdd_ConfirmMissingServerIDFallsBackToLocal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"title": "Wash car", "completed": false}`))
	}))
	t.Cleanup(srv.Close)
	remote, err := placeholder.New(srv.URL, placeholder.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	s := newStore(t, remote, store.ConfirmThenApply)

	require.NoError(t, s.Add(context.Background(), "Wash car"))

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.True(t, store.IsLocalID(tasks[0].ID))
	assert.Equal(t, "Wash car", tasks[0].Text)
	assert.False(t, tasks[0].Completed)
	assert.Empty(t, s.Err())
}

func TestAdd_OptimisticAppendsImmediately(t *testing.T) {
	remote := testutil.NewFakeRemote(testutil.Fixtures(1)...)
	s := loaded(t, remote, store.Optimistic)

	hold := remote.HoldNext("create")
	require.NoError(t, s.Add(context.Background(), "Wash car"))

	// The record is visible before the remote call has even returned.
	assert.Equal(t, 2, s.Len())
	<-hold.Started()
	hold.Release()
	s.Wait()

	tasks := s.Tasks()
	assert.True(t, store.IsLocalID(tasks[1].ID))
	assert.Empty(t, s.Err())
}

func TestAdd_OptimisticFailureKeepsRecord(t *testing.T) {
	remote := testutil.NewFakeRemote()
	remote.CreateErr = service.NetworkError("connection refused")
	s := newStore(t, remote, store.Optimistic)

	require.NoError(t, s.Add(context.Background(), "Wash car"))
	assert.Equal(t, 1, s.Len())
	s.Wait()

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Wash car", tasks[0].Text)
	assert.False(t, tasks[0].Completed)
	assert.True(t, store.IsLocalID(tasks[0].ID))
	assert.Equal(t, store.MsgAddFailed, s.Err())
}

func TestAdd_OptimisticSurvivesCallerCancel(t *testing.T) {
	remote := testutil.NewFakeRemote()
	s := newStore(t, remote, store.Optimistic)

	ctx, cancel := context.WithCancel(context.Background())
	hold := remote.HoldNext("create")
	require.NoError(t, s.Add(ctx, "Wash car"))
	<-hold.Started()
	cancel()
	hold.Release()
	s.Wait()

	assert.Empty(t, s.Err())
	assert.Len(t, remote.Todos(), 1)
}

func TestToggle_FlipsOnlyTarget(t *testing.T) {
	for _, policy := range policies {
		t.Run(policy.String(), func(t *testing.T) {
			remote := testutil.NewFakeRemote(testutil.Fixtures(3)...)
			s := loaded(t, remote, policy)
			before := s.Tasks()

			require.NoError(t, s.Toggle(context.Background(), "2"))
			s.Wait()

			after := s.Tasks()
			assert.Equal(t, before[0], after[0])
			assert.Equal(t, before[2], after[2])
			assert.Equal(t, before[1].ID, after[1].ID)
			assert.Equal(t, before[1].Text, after[1].Text)
			assert.Equal(t, !before[1].Completed, after[1].Completed)
			assert.Contains(t, remote.Calls(), "update:2")
		})
	}
}

// numberedRemote tags each update response with its call number.
type numberedRemote struct {
	*testutil.FakeRemote
	updates atomic.Int32
}

func (r *numberedRemote) UpdateTodo(ctx context.Context, id, title string, completed bool) (service.Todo, error) {
	n := r.updates.Add(1)
	todo, err := r.FakeRemote.UpdateTodo(ctx, id, title, completed)
	if err != nil {
		return todo, err
	}
	todo.Title = fmt.Sprintf("%s (%d)", title, n)
	return todo, nil
}

func TestToggle_DiscardsStaleResponse(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	logger := zerolog.New(zerolog.SyncWriter(&logs)).Level(zerolog.DebugLevel)
	remote := &numberedRemote{FakeRemote: testutil.NewFakeRemote(testutil.Fixtures(1)...)}
	s := store.New(remote, store.Options{Policy: store.ConfirmThenApply, Logger: &logger})
	t.Cleanup(s.Wait)
	require.NoError(t, s.Load(ctx))

	hold := remote.HoldNext("update")
	done := make(chan error, 1)
	go func() { done <- s.Toggle(ctx, "1") }()
	<-hold.Started()

	require.NoError(t, s.Toggle(ctx, "1"))
	newer := s.Tasks()
	require.Equal(t, []store.Task{{ID: "1", Text: "Task 1 (2)", Completed: true}}, newer)

	hold.Release()
	require.NoError(t, <-done)

	assert.Equal(t, newer, s.Tasks())
	assert.Empty(t, s.Err())
	assert.Contains(t, logs.String(), "discarded stale toggle response")
}

func TestToggle_ConfirmFailureLeavesTask(t *testing.T) {
	remote := testutil.NewFakeRemote(testutil.Fixtures(2)...)
	s := loaded(t, remote, store.ConfirmThenApply)
	remote.UpdateErr = service.NetworkError("timeout")

	err := s.Toggle(context.Background(), "1")

	require.ErrorIs(t, err, service.ErrNetwork)
	assert.False(t, s.Tasks()[0].Completed)
	assert.Equal(t, store.MsgToggleFailed, s.Err())
}

func TestToggle_OptimisticFailureKeepsFlip(t *testing.T) {
	remote := testutil.NewFakeRemote(testutil.Fixtures(2)...)
	s := loaded(t, remote, store.Optimistic)
	remote.UpdateErr = service.NetworkError("timeout")

	require.NoError(t, s.Toggle(context.Background(), "1"))
	assert.True(t, s.Tasks()[0].Completed)
	s.Wait()

	assert.True(t, s.Tasks()[0].Completed)
	assert.Equal(t, store.MsgToggleFailed, s.Err())
}

func TestToggle_LocalTaskSkipsRemote(t *testing.T) {
	remote := testutil.NewFakeRemote()
	s := newStore(t, remote, store.Optimistic)
	require.NoError(t, s.Add(context.Background(), "Wash car"))
	s.Wait()
	id := s.Tasks()[0].ID

	require.NoError(t, s.Toggle(context.Background(), id))
	s.Wait()

	assert.True(t, s.Tasks()[0].Completed)
	assert.Equal(t, []string{"create:Wash car"}, remote.Calls())
}

func TestToggle_UnknownID(t *testing.T) {
	for _, policy := range policies {
		s := loaded(t, testutil.NewFakeRemote(testutil.Fixtures(1)...), policy)
		assert.ErrorIs(t, s.Toggle(context.Background(), "99"), store.ErrNotFound)
		assert.ErrorIs(t, s.Remove(context.Background(), "99"), store.ErrNotFound)
	}
}

func TestRemove_PreservesOrder(t *testing.T) {
	for _, policy := range policies {
		t.Run(policy.String(), func(t *testing.T) {
			remote := testutil.NewFakeRemote(testutil.Fixtures(4)...)
			s := loaded(t, remote, policy)

			require.NoError(t, s.Remove(context.Background(), "2"))
			s.Wait()

			assert.Equal(t, []string{"1", "3", "4"}, ids(s.Tasks()))
			assert.Contains(t, remote.Calls(), "delete:2")
		})
	}
}

func TestRemove_ConfirmFailureKeepsTask(t *testing.T) {
	remote := testutil.NewFakeRemote(testutil.Fixtures(3)...)
	s := loaded(t, remote, store.ConfirmThenApply)
	remote.DeleteErr = service.NetworkError("status 503")

	err := s.Remove(context.Background(), "2")

	var mutErr *store.MutationError
	require.ErrorAs(t, err, &mutErr)
	assert.Equal(t, store.OpRemove, mutErr.Op)
	assert.Equal(t, []string{"1", "2", "3"}, ids(s.Tasks()))
	assert.Equal(t, store.MsgRemoveFailed, s.Err())
}

func TestRemove_OptimisticFailureDoesNotRestore(t *testing.T) {
	remote := testutil.NewFakeRemote(testutil.Fixtures(3)...)
	s := loaded(t, remote, store.Optimistic)
	remote.DeleteErr = service.NetworkError("status 503")

	require.NoError(t, s.Remove(context.Background(), "2"))
	s.Wait()

	assert.Equal(t, []string{"1", "3"}, ids(s.Tasks()))
	assert.Equal(t, store.MsgRemoveFailed, s.Err())
}

func TestErrorMessageIsOverwritten(t *testing.T) {
	remote := testutil.NewFakeRemote(testutil.Fixtures(2)...)
	s := loaded(t, remote, store.ConfirmThenApply)
	remote.CreateErr = errors.New("boom")
	remote.DeleteErr = errors.New("boom")

	require.Error(t, s.Add(context.Background(), "x"))
	require.Error(t, s.Remove(context.Background(), "1"))

	assert.Equal(t, store.MsgRemoveFailed, s.Err())
}

func TestOnChangeCalled(t *testing.T) {
	var n atomic.Int32
	remote := testutil.NewFakeRemote(testutil.Fixtures(1)...)
	s := store.New(remote, store.Options{OnChange: func() { n.Add(1) }})

	require.NoError(t, s.Load(context.Background()))
	before := n.Load()
	require.NoError(t, s.Toggle(context.Background(), "1"))

	assert.Greater(t, n.Load(), before)
}

func TestLocalIDsAreUniqueUnderFixedClock(t *testing.T) {
	fixed := time.UnixMilli(1_700_000_000_000)
	s := store.New(testutil.NewFakeRemote(), store.Options{
		Policy: store.Optimistic,
		Now:    func() time.Time { return fixed },
	})
	t.Cleanup(s.Wait)

	for _, text := range []string{"a", "b", "c"} {
		require.NoError(t, s.Add(context.Background(), text))
	}

	assert.Equal(t, []string{"local-1700000000000", "local-1700000000001", "local-1700000000002"}, ids(s.Tasks()))
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    store.WritePolicy
		wantErr bool
	}{
		{in: "confirm", want: store.ConfirmThenApply},
		{in: " Optimistic ", want: store.Optimistic},
		{in: "confirm-then-apply", want: store.ConfirmThenApply},
		{in: "eventual", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := store.ParsePolicy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
