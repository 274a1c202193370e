package sink

import (
	"fmt"

	"github.com/nats-io/nats.go"
)

// NATSSink publishes lines to a NATS subject. The client handles
// reconnection; a publish while disconnected is buffered or dropped per the
// connection options.
type NATSSink struct {
	conn    *nats.Conn
	subject string
}

// NewNATSSink connects to the NATS server and returns a sink publishing to
// subject.
func NewNATSSink(url, subject string) (*NATSSink, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	return &NATSSink{conn: conn, subject: subject}, nil
}

func (s *NATSSink) Write(line string) error {
	if err := s.conn.Publish(s.subject, []byte(line)); err != nil {
		return fmt.Errorf("publish %s: %w", s.subject, err)
	}
	return nil
}

func (s *NATSSink) Close() error {
	if err := s.conn.Drain(); err != nil {
		s.conn.Close()
		return err
	}
	return nil
}

func (s *NATSSink) String() string { return "nats " + s.subject }
