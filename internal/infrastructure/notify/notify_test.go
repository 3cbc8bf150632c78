package notify

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func TestSMTPNotifier_Send(t *testing.T) {
	d := &fakeDialer{}
	n := &SMTPNotifier{from: "no-reply@example.com", dialer: d}

	if err := n.Send(context.Background(), "grace@example.com", "Service Provider Login Code", "code 123456"); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if len(d.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(d.sent))
	}
	m := d.sent[0]
	if got := m.GetHeader("To"); len(got) != 1 || got[0] != "grace@example.com" {
		t.Fatalf("unexpected To header: %v", got)
	}
	if got := m.GetHeader("Subject"); len(got) != 1 || got[0] != "Service Provider Login Code" {
		t.Fatalf("unexpected Subject header: %v", got)
	}

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if !strings.Contains(buf.String(), "code 123456") {
		t.Fatalf("body missing from message: %q", buf.String())
	}
}

func TestSMTPNotifier_SendError(t *testing.T) {
	relayErr := errors.New("connection refused")
	n := &SMTPNotifier{from: "no-reply@example.com", dialer: &fakeDialer{err: relayErr}}

	if err := n.Send(context.Background(), "grace@example.com", "s", "b"); !errors.Is(err, relayErr) {
		t.Fatalf("expected relay error to be wrapped, got %v", err)
	}
}

func TestSMTPNotifier_CancelledContext(t *testing.T) {
	d := &fakeDialer{}
	n := &SMTPNotifier{from: "no-reply@example.com", dialer: d}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := n.Send(ctx, "grace@example.com", "s", "b"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(d.sent) != 0 {
		t.Fatalf("nothing may be sent after cancellation")
	}
}

func TestLogNotifier_Send(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(zerolog.New(&buf))

	if err := n.Send(context.Background(), "grace@example.com", "subj", "hello 123456"); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "hello 123456") || !strings.Contains(buf.String(), "grace@example.com") {
		t.Fatalf("unexpected log output: %q", buf.String())
	}
}
