package feed

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestLines(t *testing.T) {
	in := "{\"a\":1}\n\n  \n{\"b\":2}\n"
	var got []string
	err := Lines(context.Background(), strings.NewReader(in), func(raw []byte) error {
		got = append(got, string(raw))
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != `{"a":1}` || got[1] != `{"b":2}` {
		t.Errorf("handled lines = %q", got)
	}
}

func TestLinesHandlerError(t *testing.T) {
	boom := errors.New("boom")
	err := Lines(context.Background(), strings.NewReader("x\ny\n"), func([]byte) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want handler error", err)
	}
}

func TestLinesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Lines(ctx, strings.NewReader("x\ny\n"), func([]byte) error {
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestLinesLongLine(t *testing.T) {
	// Well past the default bufio.Scanner 64KB token limit.
	long := strings.Repeat("x", 1<<20)
	var n int
	err := Lines(context.Background(), strings.NewReader(long+"\n"), func(raw []byte) error {
		n = len(raw)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if n != 1<<20 {
		t.Errorf("handled %d bytes, want %d", n, 1<<20)
	}
}
