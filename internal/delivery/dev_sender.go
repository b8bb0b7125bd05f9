package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DevSender writes messages to a directory instead of sending them.
type DevSender struct {
	dir string
	now func() time.Time
}

// NewDevSender creates a sender that saves each message as HTML plus a JSON
// envelope. The directory is created on first send.
func NewDevSender(dir string) *DevSender {
	return &DevSender{dir: dir, now: time.Now}
}

// envelope is the JSON written next to each HTML body.
type envelope struct {
	ID        string   `json:"id"`
	BatchID   string   `json:"batch_id,omitempty"`
	Timestamp string   `json:"timestamp"`
	To        []string `json:"to"`
	Bcc       []string `json:"bcc,omitempty"`
	Subject   string   `json:"subject"`
	Tag       string   `json:"tag,omitempty"`
	BodyFile  string   `json:"body_file"`
}

// Send saves msg as <timestamp>_<tag-or-subject>_<id>.html and .json.
func (d *DevSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(d.dir, 0o750); err != nil {
		return fmt.Errorf("%w: creating directory: %v", ErrFailedToSend, err)
	}

	now := d.now()
	id := uuid.NewString()

	identifier := msg.Tag
	if identifier == "" {
		identifier = msg.Subject
	}
	base := fmt.Sprintf("%s_%s_%s", now.Format("2006_01_02_150405"), sanitizeFilename(identifier), id[:8])

	htmlName := base + ".html"
	// #nosec G306 -- previews are meant to be readable
	if err := os.WriteFile(filepath.Join(d.dir, htmlName), []byte(msg.HTMLBody), 0o644); err != nil {
		return fmt.Errorf("%w: writing HTML file: %v", ErrFailedToSend, err)
	}

	data, err := json.MarshalIndent(envelope{
		ID:        id,
		BatchID:   msg.BatchID,
		Timestamp: now.Format(time.RFC3339),
		To:        addresses(msg.To),
		Bcc:       addresses(msg.Bcc),
		Subject:   msg.Subject,
		Tag:       msg.Tag,
		BodyFile:  htmlName,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding envelope: %v", ErrFailedToSend, err)
	}

	// #nosec G306 -- previews are meant to be readable
	if err := os.WriteFile(filepath.Join(d.dir, base+".json"), data, 0o644); err != nil {
		return fmt.Errorf("%w: writing JSON file: %v", ErrFailedToSend, err)
	}
	return nil
}

func addresses(rs []Recipient) []string {
	if len(rs) == 0 {
		return nil
	}
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.String()
	}
	return out
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// sanitizeFilename lowercases s and keeps only filesystem-safe characters.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = unsafeFilenameChars.ReplaceAllString(s, "")

	const maxLength = 100
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	if s == "" {
		s = "email"
	}
	return strings.ToLower(s)
}
