package delivery

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mailsafe/internal/yamlutil"
)

// ParseRecipients reads one "email[,name]" per line.
// Blank lines, "#" comments and an "email,name" header are skipped.
// Duplicate addresses (case-insensitive) keep their first occurrence.
func ParseRecipients(r io.Reader) ([]Recipient, error) {
	var (
		out  []Recipient
		seen = make(map[string]bool)
		line int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		email, name, _ := strings.Cut(text, ",")
		rcpt := Recipient{
			Email: strings.TrimSpace(email),
			Name:  strings.Trim(strings.TrimSpace(name), `"`),
		}
		if len(out) == 0 && strings.EqualFold(rcpt.Email, "email") {
			continue
		}
		if err := rcpt.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		key := strings.ToLower(rcpt.Email)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, rcpt)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading recipients: %w", err)
	}
	if len(out) == 0 {
		return nil, ErrNoRecipients
	}
	return out, nil
}

// ParseRecipientsYAML reads a YAML sequence of {email, name} entries.
func ParseRecipientsYAML(r io.Reader) ([]Recipient, error) {
	var list []Recipient
	if err := yamlutil.Decode(r, &list, true); err != nil {
		return nil, fmt.Errorf("parsing recipients: %w", err)
	}

	out := make([]Recipient, 0, len(list))
	seen := make(map[string]bool, len(list))
	for i, rcpt := range list {
		rcpt.Email = strings.TrimSpace(rcpt.Email)
		rcpt.Name = strings.TrimSpace(rcpt.Name)
		if err := rcpt.Validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		key := strings.ToLower(rcpt.Email)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, rcpt)
	}
	if len(out) == 0 {
		return nil, ErrNoRecipients
	}
	return out, nil
}

// LoadRecipients reads a recipient file, choosing the format by extension:
// .yaml and .yml are YAML lists, anything else is line-based.
func LoadRecipients(path string) ([]Recipient, error) {
	f, err := os.Open(path) // #nosec G304 -- recipient path is user-provided
	if err != nil {
		return nil, fmt.Errorf("opening recipients: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseRecipientsYAML(f)
	default:
		return ParseRecipients(f)
	}
}
