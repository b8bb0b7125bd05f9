package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestDevSender_Send - Writes HTML body and JSON envelope
// ---------------------------------------------------------------------------

func TestDevSender_Send(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "outbox")
	s := NewDevSender(dir)
	s.now = func() time.Time { return time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC) }

	msg := Message{
		To:       []Recipient{{Email: "ada@example.com", Name: "Ada"}},
		Subject:  "October news",
		HTMLBody: "<table><tr><td>Hi</td></tr></table>",
		Tag:      "Monthly Newsletter!",
		BatchID:  "batch-1",
	}
	if err := s.Send(context.Background(), msg); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	htmlFiles, _ := filepath.Glob(filepath.Join(dir, "*.html"))
	jsonFiles, _ := filepath.Glob(filepath.Join(dir, "*.json"))
	if len(htmlFiles) != 1 || len(jsonFiles) != 1 {
		t.Fatalf("got %d html and %d json files, want 1 each", len(htmlFiles), len(jsonFiles))
	}

	name := filepath.Base(htmlFiles[0])
	if !strings.HasPrefix(name, "2026_10_18_093000_monthly_newsletter_") {
		t.Errorf("file name = %q, want timestamp and sanitized tag prefix", name)
	}

	body, err := os.ReadFile(htmlFiles[0])
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	if string(body) != msg.HTMLBody {
		t.Errorf("body = %q, want %q", body, msg.HTMLBody)
	}

	data, err := os.ReadFile(jsonFiles[0])
	if err != nil {
		t.Fatalf("reading envelope: %v", err)
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	if env.ID == "" {
		t.Error("envelope ID is empty")
	}
	if env.BatchID != "batch-1" {
		t.Errorf("BatchID = %q, want batch-1", env.BatchID)
	}
	if len(env.To) != 1 || env.To[0] != `"Ada" <ada@example.com>` {
		t.Errorf("To = %v", env.To)
	}
	if env.BodyFile != name {
		t.Errorf("BodyFile = %q, want %q", env.BodyFile, name)
	}
	if env.Timestamp != "2026-10-18T09:30:00Z" {
		t.Errorf("Timestamp = %q", env.Timestamp)
	}
}

func TestDevSender_SendBcc(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := NewDevSender(dir)

	msg := Message{
		Bcc:      []Recipient{{Email: "alice@example.com"}, {Email: "bob@example.com"}},
		Subject:  "Digest",
		HTMLBody: "<p>x</p>",
	}
	if err := s.Send(context.Background(), msg); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	jsonFiles, _ := filepath.Glob(filepath.Join(dir, "*.json"))
	if len(jsonFiles) != 1 {
		t.Fatalf("got %d json files, want 1", len(jsonFiles))
	}
	data, err := os.ReadFile(jsonFiles[0])
	if err != nil {
		t.Fatalf("reading envelope: %v", err)
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	if len(env.To) != 0 {
		t.Errorf("To = %v, want empty", env.To)
	}
	if len(env.Bcc) != 2 || env.Bcc[1] != "bob@example.com" {
		t.Errorf("Bcc = %v", env.Bcc)
	}
}

func TestDevSender_UniqueNames(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := NewDevSender(dir)
	s.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

	msg := Message{To: []Recipient{{Email: "a@example.com"}}, Subject: "Same", HTMLBody: "<p>x</p>"}
	for range 3 {
		if err := s.Send(context.Background(), msg); err != nil {
			t.Fatalf("Send() error = %v", err)
		}
	}

	files, _ := filepath.Glob(filepath.Join(dir, "*.html"))
	if len(files) != 3 {
		t.Errorf("got %d files, want 3 distinct files for identical sends", len(files))
	}
}

func TestDevSender_Errors(t *testing.T) {
	t.Parallel()

	t.Run("invalid message", func(t *testing.T) {
		t.Parallel()

		err := NewDevSender(t.TempDir()).Send(context.Background(), Message{})
		if !errors.Is(err, ErrNoRecipients) {
			t.Errorf("error = %v, want ErrNoRecipients", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		msg := Message{To: []Recipient{{Email: "a@example.com"}}, Subject: "s", HTMLBody: "b"}
		err := NewDevSender(t.TempDir()).Send(ctx, msg)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})

	t.Run("directory is a file", func(t *testing.T) {
		t.Parallel()

		blocker := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
			t.Fatalf("setup: %v", err)
		}
		msg := Message{To: []Recipient{{Email: "a@example.com"}}, Subject: "s", HTMLBody: "b"}
		err := NewDevSender(blocker).Send(context.Background(), msg)
		if !errors.Is(err, ErrFailedToSend) {
			t.Errorf("error = %v, want ErrFailedToSend", err)
		}
	})
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Welcome Email", "welcome_email"},
		{"a/b\\c:d", "abcd"},
		{"", "email"},
		{"!!!", "email"},
		{strings.Repeat("a", 150), strings.Repeat("a", 100)},
	}

	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
