// Package sink delivers formatted BaseStation lines to their destinations.
// Delivery is best effort: a failing destination never blocks or aborts the
// pipeline, it just drops lines until it recovers.
package sink

import (
	"fmt"
	"io"
	"log"
	"sync"
)

// Sink receives one formatted line at a time. Implementations append their
// own line termination.
type Sink interface {
	Write(line string) error
	Close() error
}

// WriterSink writes lines to any io.Writer (stdout, a file).
type WriterSink struct {
	Name string
	W    io.Writer
}

func (s *WriterSink) Write(line string) error {
	_, err := fmt.Fprintln(s.W, line)
	return err
}

func (s *WriterSink) Close() error {
	if c, ok := s.W.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *WriterSink) String() string {
	if s.Name != "" {
		return s.Name
	}
	return "writer"
}

// Dispatcher fans every line out to all attached sinks. A sink failure is
// logged and the remaining sinks still receive the line.
type Dispatcher struct {
	Log *log.Logger

	mu    sync.Mutex
	sinks []Sink
}

// Add attaches a sink.
func (d *Dispatcher) Add(s Sink) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sinks = append(d.sinks, s)
}

// Len returns the number of attached sinks.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sinks)
}

// Dispatch writes the line to every sink.
func (d *Dispatcher) Dispatch(line string) {
	d.mu.Lock()
	sinks := d.sinks
	d.mu.Unlock()

	for _, s := range sinks {
		if err := s.Write(line); err != nil && d.Log != nil {
			d.Log.Printf("sink %v: dropped line: %v", s, err)
		}
	}
}

// Close closes every sink, returning the first error encountered.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var first error
	for _, s := range d.sinks {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	d.sinks = nil
	return first
}
