package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/Sla0ui/multilookup/internal/console"
	"github.com/Sla0ui/multilookup/internal/metrics"
	"github.com/Sla0ui/multilookup/internal/models"
	"github.com/Sla0ui/multilookup/internal/queue"
	"github.com/Sla0ui/multilookup/internal/resolver"
)

// Sink receives finished records. Append must be safe for concurrent use
// and write each record as one unit.
type Sink interface {
	Append(rec models.Record) error
}

// Worker pops hostnames, resolves them and appends the results.
type Worker struct {
	ID       int
	Queue    *queue.Queue
	Resolver resolver.Resolver
	Sink     Sink
	Log      *console.Logger
	Metrics  *metrics.Metrics
	OnRecord func(models.Record)
}

// Run loops until the queue is closed and empty. A failed lookup is written
// with an empty address; only a sink error or cancellation stops the worker
// early. After cancellation nothing more is resolved or written, so no
// hostname is reported as failed because the run was interrupted.
func (w *Worker) Run(ctx context.Context) error {
	for {
		hostname, err := w.Queue.Pop(ctx)
		if errors.Is(err, queue.ErrDrained) {
			w.Log.Debug("Worker %d finished", w.ID)
			return nil
		}
		if err != nil {
			return err
		}
		w.Metrics.QueueDepth.Set(float64(w.Queue.Len()))
		if err := ctx.Err(); err != nil {
			return err
		}

		rec := w.resolve(ctx, hostname)
		if rec.Err != nil {
			if err := ctx.Err(); err != nil {
				return err
			}
			w.Log.Error("dnslookup error: %s: %v", hostname, rec.Err)
		}
		if err := w.Sink.Append(rec); err != nil {
			return err
		}
		if w.OnRecord != nil {
			w.OnRecord(rec)
		}
	}
}

// resolve runs outside of both the queue and sink locks.
func (w *Worker) resolve(ctx context.Context, hostname string) models.Record {
	start := time.Now()
	addr, err := w.Resolver.Resolve(ctx, hostname)
	if err == nil {
		addr, err = resolver.CheckAddress(addr)
	}
	w.Metrics.ObserveLookup(time.Since(start), err)

	if err != nil {
		return models.Record{Hostname: hostname, Err: err}
	}
	w.Log.Debug("Worker %d resolved %s => %s", w.ID, hostname, addr)
	return models.Record{Hostname: hostname, Address: addr}
}
