// Package pipeline wires producers and resolver workers around a bounded
// queue.
//
// Run starts one producer per input file and a fixed pool of resolver
// workers. Once every producer has returned, the queue is closed; workers
// keep popping until the queue is both closed and empty, so nothing pushed
// before the close is lost. Producers never push after the close because it
// only happens after all of them have been joined.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/Sla0ui/multilookup/internal/console"
	"github.com/Sla0ui/multilookup/internal/metrics"
	"github.com/Sla0ui/multilookup/internal/models"
	"github.com/Sla0ui/multilookup/internal/queue"
	"github.com/Sla0ui/multilookup/internal/resolver"
	"golang.org/x/sync/errgroup"
)

// Pipeline resolves the hostnames of a set of input files into a sink
type Pipeline struct {
	config   *models.Config
	resolver resolver.Resolver
	sink     Sink
	log      *console.Logger
	metrics  *metrics.Metrics

	// OnRecord, if set, is called after each record is written.
	OnRecord func(models.Record)
}

// Summary describes a finished run
type Summary struct {
	Sources      int
	SourceErrors int
	Enqueued     int
	Rejected     int
	PeakQueue    int
}

// New creates a new Pipeline instance
func New(config *models.Config, r resolver.Resolver, sink Sink, log *console.Logger, m *metrics.Metrics) (*Pipeline, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if log == nil {
		log = console.Discard()
	}
	if m == nil {
		m = metrics.New()
	}
	return &Pipeline{
		config:   config.Clone(),
		resolver: r,
		sink:     sink,
		log:      log,
		metrics:  m,
	}, nil
}

// Run processes every input file and returns once all records are written.
// The returned error is non-nil only for failures that stop the whole run:
// a sink error or ctx cancellation. Per-file and per-hostname failures are
// logged and reflected in the Summary.
func (p *Pipeline) Run(ctx context.Context, inputs []string) (Summary, error) {
	summary := Summary{Sources: len(inputs)}

	q, err := queue.New(p.config.QueueSize)
	if err != nil {
		return summary, err
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < p.config.Resolvers; i++ {
		w := &Worker{
			ID:       i,
			Queue:    q,
			Resolver: p.resolver,
			Sink:     p.sink,
			Log:      p.log,
			Metrics:  p.metrics,
			OnRecord: p.OnRecord,
		}
		g.Go(func() error {
			return w.Run(gctx)
		})
	}

	results := make([]ProducerResult, len(inputs))
	failed := make([]bool, len(inputs))
	var producers sync.WaitGroup
	for i, path := range inputs {
		producers.Add(1)
		prod := &Producer{
			ID:            i,
			Paths:         []string{path},
			Queue:         q,
			MaxNameLength: p.config.MaxNameLength,
			Normalize:     p.config.Normalize,
			Log:           p.log,
			Metrics:       p.metrics,
		}
		go func(i int) {
			defer producers.Done()
			res := prod.Run(gctx)
			if res.Err != nil && gctx.Err() == nil {
				failed[i] = true
				p.metrics.SourceErrors.Inc()
				p.log.Error("Input %s: %v", inputs[i], res.Err)
			}
			results[i] = res
		}(i)
	}

	producers.Wait()
	q.Close()
	p.log.Debug("All %d producers finished, waiting for resolvers to drain the queue", len(inputs))

	runErr := g.Wait()

	for i, res := range results {
		summary.Enqueued += res.Enqueued
		summary.Rejected += res.Rejected
		if failed[i] {
			summary.SourceErrors++
		}
	}
	summary.PeakQueue = q.Peak()

	if runErr != nil {
		return summary, runErr
	}
	return summary, ctx.Err()
}
