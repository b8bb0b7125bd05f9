package delivery

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"
)

// postmarkAPI is the subset of the Postmark client used for sending.
type postmarkAPI interface {
	SendEmail(ctx context.Context, email postmark.Email) (postmark.EmailResponse, error)
}

type postmarkSender struct {
	client postmarkAPI
	config Config
}

// NewPostmarkSender creates a Postmark-backed sender.
// The server token and a valid From address are required.
func NewPostmarkSender(cfg Config) (Sender, error) {
	if err := validatePostmarkConfig(cfg); err != nil {
		return nil, err
	}
	return &postmarkSender{
		client: postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		config: cfg,
	}, nil
}

func validatePostmarkConfig(cfg Config) error {
	if cfg.PostmarkServerToken == "" {
		return fmt.Errorf("%w: PostmarkServerToken is required", ErrInvalidConfig)
	}
	if cfg.From == "" {
		return fmt.Errorf("%w: From is required", ErrInvalidConfig)
	}
	if !emailRegex.MatchString(cfg.From) {
		return fmt.Errorf("%w: From must be a valid email address", ErrInvalidConfig)
	}
	if cfg.ReplyTo != "" && !emailRegex.MatchString(cfg.ReplyTo) {
		return fmt.Errorf("%w: ReplyTo must be a valid email address", ErrInvalidConfig)
	}
	return nil
}

// Send delivers msg through Postmark's transactional API.
// A message without To is addressed to From, with the list in Bcc.
// Link tracking is limited to the HTML part.
func (s *postmarkSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	to := addressList(msg.To)
	if to == "" {
		to = s.config.From
	}

	var metadata map[string]string
	if msg.BatchID != "" {
		metadata = map[string]string{"batch_id": msg.BatchID}
	}

	resp, err := s.client.SendEmail(ctx, postmark.Email{
		From:       s.config.From,
		ReplyTo:    s.config.ReplyTo,
		To:         to,
		Bcc:        addressList(msg.Bcc),
		Subject:    msg.Subject,
		Tag:        msg.Tag,
		HTMLBody:   msg.HTMLBody,
		TrackOpens: s.config.TrackOpens,
		TrackLinks: "HtmlOnly",
		Metadata:   metadata,
	})
	if err != nil {
		return errors.Join(ErrFailedToSend, err)
	}
	if resp.ErrorCode > 0 {
		return errors.Join(
			ErrFailedToSend,
			fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message),
		)
	}
	return nil
}
