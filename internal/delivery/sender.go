package delivery

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Sender delivers one message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Recipient is one addressee.
type Recipient struct {
	Email string `yaml:"email"`
	Name  string `yaml:"name"`
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Validate checks the address format.
func (r Recipient) Validate() error {
	if !emailRegex.MatchString(r.Email) {
		return fmt.Errorf("%w: %q", ErrInvalidRecipient, r.Email)
	}
	if strings.ContainsAny(r.Name, "<>\"\r\n") {
		return fmt.Errorf("%w: name %q contains reserved characters", ErrInvalidRecipient, r.Name)
	}
	return nil
}

// String formats the recipient as an address header value.
func (r Recipient) String() string {
	if r.Name == "" {
		return r.Email
	}
	return fmt.Sprintf("%q <%s>", r.Name, r.Email)
}

// Message is one outgoing email.
// Bcc holds list members that must not see each other. Senders address a
// message with no To to the configured From.
type Message struct {
	To       []Recipient
	Bcc      []Recipient
	Subject  string
	HTMLBody string
	Tag      string // optional, for provider analytics
	BatchID  string // set by Dispatch
}

// Validate checks that the message can be sent.
func (m Message) Validate() error {
	if len(m.To)+len(m.Bcc) == 0 {
		return ErrNoRecipients
	}
	for _, r := range m.To {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	for _, r := range m.Bcc {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	if strings.TrimSpace(m.Subject) == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidMessage)
	}
	if strings.TrimSpace(m.HTMLBody) == "" {
		return fmt.Errorf("%w: HTML body is required", ErrInvalidMessage)
	}
	return nil
}

// addressList joins recipients for an address header.
func addressList(rs []Recipient) string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = r.String()
	}
	return strings.Join(parts, ", ")
}
