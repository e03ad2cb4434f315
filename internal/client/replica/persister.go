package replica

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophdocs/internal/client/events"
	"github.com/dmitrijs2005/gophdocs/internal/client/models"
	"github.com/dmitrijs2005/gophdocs/internal/client/repositories/documents"
	"github.com/dmitrijs2005/gophdocs/internal/logging"
)

const persistQueueSize = 64

type persistJob struct {
	ctx  context.Context
	doc  *models.EncryptedDocument // nil for a flush barrier
	done chan error
}

// persister writes to the local replica on a single goroutine so writes land
// in the order they were queued.
type persister struct {
	repo documents.Repository
	bus  *events.Bus
	log  logging.Logger

	mu     sync.Mutex
	closed bool
	jobs   chan persistJob
	wg     sync.WaitGroup
}

func newPersister(repo documents.Repository, bus *events.Bus, log logging.Logger) *persister {
	p := &persister{
		repo: repo,
		bus:  bus,
		log:  log,
		jobs: make(chan persistJob, persistQueueSize),
	}
	p.wg.Add(1)
	go p.run()
	return p
}

func (p *persister) run() {
	defer p.wg.Done()
	for job := range p.jobs {
		if job.doc == nil {
			job.done <- nil
			continue
		}
		err := p.repo.Set(job.ctx, job.doc)
		if err != nil {
			p.log.Error(job.ctx, "local persist failed", "id", job.doc.ID, "error", err)
			p.bus.Publish(events.PersistFailed{ID: job.doc.ID, Err: err})
		}
		job.done <- err
	}
}

// enqueue queues doc and returns a channel that receives the write result.
// The write outlives ctx cancellation but keeps its values.
func (p *persister) enqueue(ctx context.Context, doc *models.EncryptedDocument) <-chan error {
	done := make(chan error, 1)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		done <- ErrClosed
		return done
	}
	p.jobs <- persistJob{ctx: context.WithoutCancel(ctx), doc: doc, done: done}
	return done
}

// flush waits until every write queued before it has finished.
func (p *persister) flush(ctx context.Context) error {
	select {
	case err := <-p.enqueue(ctx, nil):
		if err == ErrClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close drains the queue and stops the goroutine.
func (p *persister) close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
}
