package sink

import (
	"fmt"
	"net"
	"time"
)

// TCPSink streams lines to a BaseStation consumer (VRS, tar1090 and the
// like) over a plain TCP connection. The connection is dialed lazily on
// first write; a write failure drops the line, closes the connection and
// redials on the next write.
type TCPSink struct {
	Addr        string
	DialTimeout time.Duration

	conn net.Conn
}

const defaultDialTimeout = 5 * time.Second

func (s *TCPSink) Write(line string) error {
	if s.conn == nil {
		timeout := s.DialTimeout
		if timeout == 0 {
			timeout = defaultDialTimeout
		}
		conn, err := net.DialTimeout("tcp", s.Addr, timeout)
		if err != nil {
			return fmt.Errorf("dial %s: %w", s.Addr, err)
		}
		s.conn = conn
	}

	if _, err := fmt.Fprintf(s.conn, "%s\r\n", line); err != nil {
		s.conn.Close()
		s.conn = nil
		return fmt.Errorf("write %s: %w", s.Addr, err)
	}
	return nil
}

func (s *TCPSink) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

func (s *TCPSink) String() string { return "tcp " + s.Addr }
