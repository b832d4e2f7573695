package reporter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/Sla0ui/multilookup/internal/models"
)

// Sink is the shared output file. Append serializes writers so each record
// lands as one whole line.
type Sink struct {
	mu      sync.Mutex
	w       *bufio.Writer
	closer  io.Closer
	written int
	failed  int
}

// NewSink wraps w. The caller keeps ownership of w.
func NewSink(w io.Writer) *Sink {
	return &Sink{w: bufio.NewWriter(w)}
}

// CreateSink creates or truncates the output file at path
func CreateSink(path string) (*Sink, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	s := NewSink(file)
	s.closer = file
	return s, nil
}

// Append writes rec as a single line
func (s *Sink) Append(rec models.Record) error {
	line := rec.Line()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.WriteString(line); err != nil {
		return fmt.Errorf("error writing to output file: %w", err)
	}
	s.written++
	if !rec.Resolved() {
		s.failed++
	}
	return nil
}

// Written returns the number of records appended
func (s *Sink) Written() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written
}

// Failed returns the number of records appended with an empty address
func (s *Sink) Failed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failed
}

// Close flushes buffered records and closes the file if the sink opened it
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("error flushing output file: %w", err)
	}
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
