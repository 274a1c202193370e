// Package feed supplies raw JSON envelopes to the pipeline, either from a
// JSONL stream (stdin, a capture file) or from a NATS subscription.
package feed

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/nats-io/nats.go"
)

// Handler processes one raw envelope. Returning an error stops the feed.
type Handler func(raw []byte) error

// Lines reads one JSON envelope per line from r and passes each non-blank
// line to handle. It returns when r is exhausted, handle fails or ctx is
// cancelled.
func Lines(ctx context.Context, r io.Reader, handle Handler) error {
	scanner := bufio.NewScanner(r)
	// Decoder output lines can be long; bump the buffer well past the
	// default 64KB.
	buf := make([]byte, 0, 1024*1024)
	scanner.Buffer(buf, 60*1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := handle([]byte(line)); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

// Subscribe consumes envelopes from a NATS subject until ctx is cancelled.
// Message handling is sequential; handler errors are reported through errf
// and do not stop the subscription.
func Subscribe(ctx context.Context, url, subject string, handle Handler, errf func(error)) error {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return fmt.Errorf("connect nats %s: %w", url, err)
	}
	defer conn.Close()

	msgs := make(chan *nats.Msg, 256)
	sub, err := conn.ChanSubscribe(subject, msgs)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	defer sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-msgs:
			if err := handle(msg.Data); err != nil && errf != nil {
				errf(err)
			}
		}
	}
}
