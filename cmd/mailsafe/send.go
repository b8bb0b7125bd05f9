package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	mailsafe "github.com/alnah/go-mailsafe"
	"github.com/alnah/go-mailsafe/internal/config"
	"github.com/alnah/go-mailsafe/internal/delivery"
)

// ErrMissingRecipients is returned when send has no --to file.
var ErrMissingRecipients = errors.New("no recipients file specified")

// runSendCmd parses flags and runs the send command.
func runSendCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseSendFlags(args)
	if err != nil {
		return flagError(err)
	}
	return runSend(ctx, positional, flags, env)
}

// runSend converts one source into a full email document and delivers it
// to every recipient of the --to file. The source is converted once.
func runSend(ctx context.Context, positionalArgs []string, flags *sendFlags, env *Environment) error {
	cfg, envCfg, err := loadCommandConfig(flags.common, env.Stderr)
	if err != nil {
		return err
	}

	logger, err := commandLogger(flags.common, env, "send")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFlags, err)
	}

	mergeSourceFlags(&flags.source, cfg)
	// A sent message is always a complete document.
	cfg.Document.Enabled = true
	mergeDeliveryFlags(&flags.delivery, cfg)
	if err := validateMerged(cfg); err != nil {
		return err
	}

	mode, err := delivery.ParseMode(cfg.Delivery.Mode)
	if err != nil {
		return err
	}
	workers := cfg.Delivery.Workers
	if workers < 0 || workers > delivery.MaxWorkers {
		return fmt.Errorf("%w: %d send workers (must be between 0 and %d)", ErrInvalidWorkerCount, workers, delivery.MaxWorkers)
	}

	if len(positionalArgs) != 1 {
		return fmt.Errorf("%w: send takes exactly one source file", ErrNoInput)
	}
	sourcePath := positionalArgs[0]
	if err := validateSourceExtension(sourcePath); err != nil {
		return err
	}
	if flags.delivery.to == "" {
		return fmt.Errorf("%w: use --to", ErrMissingRecipients)
	}

	recipients, err := delivery.LoadRecipients(flags.delivery.to)
	if err != nil {
		return err
	}

	timeout, err := resolveTimeout(flags.source.timeout, envCfg.Timeout)
	if err != nil {
		return err
	}

	msg, err := buildMessage(ctx, sourcePath, cfg, timeout, env)
	if err != nil {
		return err
	}

	logger.Debug("prepared message",
		slog.String("source", sourcePath),
		slog.String("subject", msg.Subject),
		slog.Int("bytes", len(msg.HTMLBody)),
		slog.Int("recipients", len(recipients)),
		slog.String("mode", string(mode)),
	)

	if flags.delivery.dryRun {
		printDryRun(msg, recipients, mode, env)
		return nil
	}

	dcfg := envCfg.Delivery
	dcfg.From = cfg.Delivery.From
	dcfg.ReplyTo = cfg.Delivery.ReplyTo
	sender, err := env.NewSender(dcfg, cfg.Delivery.DevDir)
	if err != nil {
		return err
	}

	summary, err := delivery.Dispatch(ctx, sender, msg, recipients, mode, workers)
	if summary != nil {
		printSendSummary(summary, msg, flags.common.quiet, env)
	}
	return err
}

// buildMessage converts the source once and returns the message template.
func buildMessage(ctx context.Context, sourcePath string, cfg *config.Config, timeout time.Duration, env *Environment) (delivery.Message, error) {
	input, err := readSource(sourcePath, cfg.Input.Charset)
	if err != nil {
		return delivery.Message{}, err
	}
	input.Signature = buildSignature(cfg)
	input.Document = documentFor(buildDocumentShell(cfg), input)

	subject := cfg.Delivery.Subject
	if subject == "" {
		subject = input.Document.Title
	}
	if strings.TrimSpace(subject) == "" {
		return delivery.Message{}, fmt.Errorf("%w: no subject (use --subject or start the source with a heading)", delivery.ErrInvalidMessage)
	}

	pool := env.NewPool(1, converterOptions(cfg, timeout)...)
	defer pool.Close()

	conv := pool.Acquire()
	if conv == nil {
		return delivery.Message{}, fmt.Errorf("%w: %w", ErrConverterInit, pool.InitError())
	}
	defer pool.Release(conv)

	res, err := conv.Convert(ctx, input)
	if err != nil {
		return delivery.Message{}, err
	}
	for _, issue := range res.Issues {
		if issue.Severity == mailsafe.SeverityError {
			fmt.Fprintf(env.Stderr, "warning: %s: %s\n", sourcePath, issue)
		}
	}

	return delivery.Message{
		Subject:  subject,
		HTMLBody: string(res.HTML),
		Tag:      cfg.Delivery.Tag,
	}, nil
}

// mergeDeliveryFlags merges send flags into config. CLI values override config values.
func mergeDeliveryFlags(f *deliveryFlags, cfg *config.Config) {
	setString(&cfg.Delivery.Subject, f.subject)
	setString(&cfg.Delivery.From, f.from)
	setString(&cfg.Delivery.ReplyTo, f.replyTo)
	setString(&cfg.Delivery.Tag, f.tag)
	setString(&cfg.Delivery.Mode, f.mode)
	setString(&cfg.Delivery.DevDir, f.devDir)
	if f.workers != 0 {
		cfg.Delivery.Workers = f.workers
	}
}

// printDryRun lists what would be sent.
func printDryRun(msg delivery.Message, recipients []delivery.Recipient, mode delivery.Mode, env *Environment) {
	fmt.Fprintf(env.Stdout, "Would send %q (%d bytes) to %d recipient(s) in %s mode\n",
		msg.Subject, len(msg.HTMLBody), len(recipients), mode)
	for _, r := range recipients {
		fmt.Fprintf(env.Stdout, "  %s\n", r)
	}
}

// printSendSummary outputs per-message failures and the run totals.
func printSendSummary(s *delivery.Summary, msg delivery.Message, quiet bool, env *Environment) {
	for _, r := range s.Results {
		if r.Err == nil {
			continue
		}
		addrs := make([]string, len(r.Recipients))
		for i, rc := range r.Recipients {
			addrs[i] = rc.Email
		}
		fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", strings.Join(addrs, ", "), r.Err)
	}
	if quiet {
		return
	}
	fmt.Fprintf(env.Stdout, "Sent %q to %d recipient(s), %d failed (batch %s)\n", msg.Subject, s.Sent, s.Failed, s.BatchID)
}
