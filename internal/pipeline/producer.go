package pipeline

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/Sla0ui/multilookup/internal/console"
	"github.com/Sla0ui/multilookup/internal/metrics"
	"github.com/Sla0ui/multilookup/internal/queue"
)

// maxTokenBuffer bounds how much of a single whitespace-free run is buffered.
const maxTokenBuffer = 1 << 20

// Producer streams hostnames from its input files into the queue.
type Producer struct {
	ID            int
	Paths         []string
	Queue         *queue.Queue
	MaxNameLength int
	Normalize     bool
	Log           *console.Logger
	Metrics       *metrics.Metrics
}

// ProducerResult counts what a producer did with its input
type ProducerResult struct {
	Enqueued int
	Rejected int
	Err      error
}

// Run reads every assigned file in order and pushes its tokens, waiting
// while the queue is full. An unreadable file ends the producer; the error
// is reported in the result and the rest of the pipeline carries on.
func (p *Producer) Run(ctx context.Context) ProducerResult {
	var res ProducerResult
	for _, path := range p.Paths {
		if err := p.readFile(ctx, path, &res); err != nil {
			res.Err = err
			return res
		}
	}
	return res
}

func (p *Producer) readFile(ctx context.Context, path string, res *ProducerResult) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	p.Log.Debug("Producer %d reading %s", p.ID, path)

	words := &wordSplitter{limit: maxTokenBuffer}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxTokenBuffer)
	scanner.Split(words.split)

	for scanner.Scan() {
		hostname := scanner.Text()
		if hostname == "" {
			p.reject(res, path, words.dropped)
			continue
		}
		if p.Normalize {
			hostname = normalizeHostname(hostname)
			if hostname == "" {
				continue
			}
		}

		if len(hostname) > p.MaxNameLength {
			p.reject(res, path, len(hostname))
			continue
		}

		if err := p.Queue.Push(ctx, hostname); err != nil {
			return fmt.Errorf("stopped reading %s: %w", path, err)
		}
		res.Enqueued++
		p.Metrics.Enqueued.Inc()
		p.Metrics.QueueDepth.Set(float64(p.Queue.Len()))
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error scanning %s: %w", path, err)
	}
	return nil
}

func (p *Producer) reject(res *ProducerResult, path string, size int) {
	res.Rejected++
	p.Metrics.Rejected.Inc()
	p.Log.Warn("Skipping %d-byte token in %s: exceeds %d bytes", size, path, p.MaxNameLength)
}

// wordSplitter is bufio.ScanWords with a bound on buffered token size. A run
// that reaches limit is consumed up to the next space and reported as an
// empty token, with its full length left in dropped.
type wordSplitter struct {
	limit    int
	skipping bool
	dropped  int
}

func (s *wordSplitter) split(data []byte, atEOF bool) (int, []byte, error) {
	if s.skipping {
		end := bytes.IndexFunc(data, unicode.IsSpace)
		if end < 0 {
			s.dropped += len(data)
			if !atEOF {
				return len(data), nil, nil
			}
			end = len(data)
		} else {
			s.dropped += end
		}
		s.skipping = false
		return end, []byte{}, nil
	}

	advance, token, err := bufio.ScanWords(data, atEOF)
	if token != nil || err != nil || atEOF {
		return advance, token, err
	}
	if len(data)-advance >= s.limit {
		s.skipping = true
		s.dropped = len(data) - advance
		return len(data), nil, nil
	}
	return advance, nil, nil
}

// normalizeHostname strips a URL scheme and anything after the host.
func normalizeHostname(token string) string {
	token = strings.TrimPrefix(token, "http://")
	token = strings.TrimPrefix(token, "https://")
	return strings.Split(token, "/")[0]
}
