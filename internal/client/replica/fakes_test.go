package replica

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophdocs/internal/client/client"
	"github.com/dmitrijs2005/gophdocs/internal/client/events"
	"github.com/dmitrijs2005/gophdocs/internal/client/models"
	"github.com/dmitrijs2005/gophdocs/internal/common"
	"github.com/stretchr/testify/require"
)

type fakeLocal struct {
	mu     sync.Mutex
	docs   map[string]models.EncryptedDocument
	gets   int
	sets   int
	getErr error
	setErr error
}

func newFakeLocal() *fakeLocal {
	return &fakeLocal{docs: map[string]models.EncryptedDocument{}}
}

func (f *fakeLocal) Get(_ context.Context, id string) (*models.EncryptedDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.getErr != nil {
		return nil, f.getErr
	}
	d, ok := f.docs[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &d, nil
}

func (f *fakeLocal) Set(_ context.Context, doc *models.EncryptedDocument) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	f.docs[doc.ID] = *doc
	return nil
}

func (f *fakeLocal) List(context.Context) ([]models.EncryptedDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.EncryptedDocument, 0, len(f.docs))
	for _, d := range f.docs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeLocal) doc(t *testing.T, id string) models.EncryptedDocument {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[id]
	require.True(t, ok, "document %s not in local replica", id)
	return d
}

func (f *fakeLocal) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.docs)
}

// fakeRemote behaves like the document server: every accepted PUT gets the
// next last_modified.
type fakeRemote struct {
	mu           sync.Mutex
	docs         map[string]client.RemoteDocument
	lastModified int64
	gets, puts   int

	offline bool
	getErr  error
	putErr  error
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{docs: map[string]client.RemoteDocument{}, lastModified: 500}
}

func (f *fakeRemote) GetDocument(_ context.Context, id string) (*client.RemoteDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.offline {
		return nil, client.ErrUnavailable
	}
	if f.getErr != nil {
		return nil, f.getErr
	}
	d, ok := f.docs[id]
	if !ok {
		return nil, &client.RejectedError{Status: http.StatusNotFound}
	}
	return &d, nil
}

func (f *fakeRemote) PutDocument(_ context.Context, id, ciphertext string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	if f.offline {
		return 0, client.ErrUnavailable
	}
	if f.putErr != nil {
		return 0, f.putErr
	}
	f.lastModified++
	f.docs[id] = client.RemoteDocument{ID: id, Ciphertext: ciphertext, LastModified: f.lastModified}
	return f.lastModified, nil
}

func (f *fakeRemote) Ping(context.Context) error { return nil }
func (f *fakeRemote) Close() error               { return nil }

func (f *fakeRemote) put(id, ciphertext string, lastModified int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[id] = client.RemoteDocument{ID: id, Ciphertext: ciphertext, LastModified: lastModified}
}

func (f *fakeRemote) calls() (gets, puts int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets, f.puts
}

type recorder struct {
	mu  sync.Mutex
	got []events.Event
}

func record(bus *events.Bus) *recorder {
	r := &recorder{}
	bus.Subscribe(func(e events.Event) {
		r.mu.Lock()
		r.got = append(r.got, e)
		r.mu.Unlock()
	})
	return r
}

func (r *recorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.got))
	for _, e := range r.got {
		out = append(out, e.Name())
	}
	return out
}

func (r *recorder) count(name string) int {
	n := 0
	for _, got := range r.names() {
		if got == name {
			n++
		}
	}
	return n
}

func (r *recorder) last(name string) events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.got) - 1; i >= 0; i-- {
		if r.got[i].Name() == name {
			return r.got[i]
		}
	}
	return nil
}

func (r *recorder) reset() {
	r.mu.Lock()
	r.got = nil
	r.mu.Unlock()
}

type harness struct {
	engine *Engine
	local  *fakeLocal
	remote *fakeRemote
	events *recorder
	clock  *int64
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{local: newFakeLocal(), remote: newFakeRemote(), clock: new(int64)}
	*h.clock = 100

	bus := events.NewBus()
	h.events = record(bus)

	e, err := New(h.local, h.remote, bus, WithClock(func() time.Time {
		return time.UnixMilli(*h.clock)
	}))
	require.NoError(t, err)
	t.Cleanup(e.Close)
	h.engine = e
	return h
}

func (h *harness) flush(t *testing.T) {
	t.Helper()
	require.NoError(t, h.engine.Flush(context.Background()))
}

var errBoom = errors.New("boom")
