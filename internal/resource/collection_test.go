package resource_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/observability"
	"github.com/equipe-feedtrack/feedtrack/internal/resource"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID     string
	Name   string
	Active bool
}

func (i item) Key() string { return i.ID }

type recordingNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (r *recordingNotifier) Notify(n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *recordingNotifier) last() domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sent[len(r.sent)-1]
}

type fakeRemote struct {
	items   []item
	err     error
	fetches int
}

func (f *fakeRemote) fetch(_ context.Context) ([]item, error) {
	f.fetches++
	if f.err != nil {
		return nil, f.err
	}
	return append([]item(nil), f.items...), nil
}

var msgs = resource.Messages{
	LoadFailed:   "load failed",
	Created:      "created",
	CreateFailed: "create failed",
	Updated:      "updated",
	UpdateFailed: "update failed",
	Deactivated:  "deactivated",
	Deleted:      "deleted",
	DeleteFailed: "delete failed",
}

func newCollection(remote *fakeRemote, policy resource.Policy, n *recordingNotifier) *resource.Collection[item] {
	return resource.New("items", remote.fetch,
		resource.WithPolicy(policy),
		resource.WithMessages(msgs),
		resource.WithNotifier(n),
		resource.WithMetrics(observability.NewMetrics()),
	)
}

func TestLoad_ReplacesCollection(t *testing.T) {
	remote := &fakeRemote{items: []item{{ID: "1"}, {ID: "2"}}}
	c := newCollection(remote, resource.PolicyPatch, &recordingNotifier{})

	assert.Equal(t, resource.StateIdle, c.State())
	require.NoError(t, c.Load(context.Background()))

	assert.Equal(t, resource.StateReady, c.State())
	assert.Equal(t, 2, c.Len())
	assert.NotNil(t, c.Status().LoadedAt)
}

func TestLoad_FailureKeepsPreviousSnapshot(t *testing.T) {
	remote := &fakeRemote{items: []item{{ID: "1"}}}
	n := &recordingNotifier{}
	c := newCollection(remote, resource.PolicyPatch, n)
	require.NoError(t, c.Load(context.Background()))

	remote.err = errors.New("backend down")
	err := c.Load(context.Background())

	require.Error(t, err)
	assert.Equal(t, resource.StateError, c.State())
	assert.Equal(t, 1, c.Len())
	assert.EqualError(t, c.LastError(), "backend down")
	assert.Equal(t, "backend down", c.Status().LastError)
	assert.Equal(t, domain.NotificationError, n.last().Level)
	assert.Equal(t, "load failed", n.last().Message)
}

func TestCreate_PatchAppendsServerEntity(t *testing.T) {
	remote := &fakeRemote{items: []item{{ID: "1"}}}
	n := &recordingNotifier{}
	c := newCollection(remote, resource.PolicyPatch, n)
	require.NoError(t, c.Load(context.Background()))

	got, err := c.Create(context.Background(), func(context.Context) (*item, error) {
		return &item{ID: "srv-2", Name: "from server"}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, "srv-2", got.ID)
	assert.Equal(t, []item{{ID: "1"}, {ID: "srv-2", Name: "from server"}}, c.List())
	assert.Equal(t, 1, remote.fetches)
	assert.Equal(t, "created", n.last().Message)
}

func TestCreate_PrependPlacesNewestFirst(t *testing.T) {
	remote := &fakeRemote{items: []item{{ID: "1"}}}
	c := newCollection(remote, resource.PolicyPrepend, &recordingNotifier{})
	require.NoError(t, c.Load(context.Background()))

	_, err := c.Create(context.Background(), func(context.Context) (*item, error) {
		return &item{ID: "0"}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, "0", c.List()[0].ID)
}

func TestCreate_ReloadPolicyRefetches(t *testing.T) {
	remote := &fakeRemote{items: []item{{ID: "1"}}}
	c := newCollection(remote, resource.PolicyReload, &recordingNotifier{})
	require.NoError(t, c.Load(context.Background()))

	_, err := c.Create(context.Background(), func(context.Context) (*item, error) {
		remote.items = append(remote.items, item{ID: "2", Name: "resolved"})
		return &item{ID: "2"}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, remote.fetches)
	got, ok := c.Get("2")
	require.True(t, ok)
	assert.Equal(t, "resolved", got.Name)
}

func TestCreate_EmptyResponseFallsBackToReload(t *testing.T) {
	remote := &fakeRemote{}
	c := newCollection(remote, resource.PolicyPatch, &recordingNotifier{})

	_, err := c.Create(context.Background(), func(context.Context) (*item, error) {
		remote.items = []item{{ID: "9"}}
		return nil, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, remote.fetches)
	assert.Equal(t, 1, c.Len())
}

func TestCreate_FailureLeavesCacheAndNotifies(t *testing.T) {
	remote := &fakeRemote{items: []item{{ID: "1"}}}
	n := &recordingNotifier{}
	c := newCollection(remote, resource.PolicyPatch, n)
	require.NoError(t, c.Load(context.Background()))

	_, err := c.Create(context.Background(), func(context.Context) (*item, error) {
		return nil, errors.New("boom")
	})

	require.Error(t, err)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, "create failed", n.last().Message)
	assert.Equal(t, "boom", n.last().Detail)
}

func TestUpdate_ReplacesByID(t *testing.T) {
	remote := &fakeRemote{items: []item{{ID: "1", Name: "a"}, {ID: "2", Name: "b"}}}
	c := newCollection(remote, resource.PolicyPatch, &recordingNotifier{})
	require.NoError(t, c.Load(context.Background()))

	_, err := c.Update(context.Background(), "2", func(context.Context) (*item, error) {
		return &item{ID: "2", Name: "b2"}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, []item{{ID: "1", Name: "a"}, {ID: "2", Name: "b2"}}, c.List())
}

func TestDeactivate_UnknownIDIsSilentNoop(t *testing.T) {
	remote := &fakeRemote{items: []item{{ID: "1", Active: true}}}
	n := &recordingNotifier{}
	c := newCollection(remote, resource.PolicyPatch, n)
	require.NoError(t, c.Load(context.Background()))

	called := false
	got, err := c.Deactivate(context.Background(), "missing",
		func(i item) item { i.Active = false; return i },
		func(context.Context, item) (*item, error) { called = true; return nil, nil },
	)

	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, called)
	assert.Empty(t, n.sent)
}

func TestDeactivate_FlipsAndWrites(t *testing.T) {
	remote := &fakeRemote{items: []item{{ID: "1", Active: true}}}
	n := &recordingNotifier{}
	c := newCollection(remote, resource.PolicyPatch, n)
	require.NoError(t, c.Load(context.Background()))

	var sent item
	got, err := c.Deactivate(context.Background(), "1",
		func(i item) item { i.Active = false; return i },
		func(_ context.Context, next item) (*item, error) { sent = next; return &next, nil },
	)

	require.NoError(t, err)
	assert.False(t, sent.Active)
	assert.False(t, got.Active)
	cached, _ := c.Get("1")
	assert.False(t, cached.Active)
	assert.Equal(t, "deactivated", n.last().Message)
}

func TestRemove_DropsEntryOnSuccessOnly(t *testing.T) {
	remote := &fakeRemote{items: []item{{ID: "1"}, {ID: "2"}}}
	c := newCollection(remote, resource.PolicyReload, &recordingNotifier{})
	require.NoError(t, c.Load(context.Background()))

	err := c.Remove(context.Background(), "1", func(context.Context) error { return errors.New("nope") })
	require.Error(t, err)
	assert.Equal(t, 2, c.Len())

	require.NoError(t, c.Remove(context.Background(), "1", func(context.Context) error { return nil }))
	_, ok := c.Get("1")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestReads_ReturnCopies(t *testing.T) {
	remote := &fakeRemote{items: []item{{ID: "1", Name: "a"}}}
	c := newCollection(remote, resource.PolicyPatch, &recordingNotifier{})
	require.NoError(t, c.Load(context.Background()))

	list := c.List()
	list[0].Name = "mutated"

	got, _ := c.Get("1")
	assert.Equal(t, "a", got.Name)
}

func TestFilter(t *testing.T) {
	remote := &fakeRemote{items: []item{{ID: "1", Active: true}, {ID: "2"}, {ID: "3", Active: true}}}
	c := newCollection(remote, resource.PolicyPatch, &recordingNotifier{})
	require.NoError(t, c.Load(context.Background()))

	active := c.Filter(func(i item) bool { return i.Active })
	assert.Len(t, active, 2)
	assert.Empty(t, c.Filter(func(i item) bool { return i.ID == "x" }))
}
