package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	mailsafe "github.com/alnah/go-mailsafe"
	"github.com/alnah/go-mailsafe/internal/assets"
	"github.com/alnah/go-mailsafe/internal/config"
	"github.com/alnah/go-mailsafe/internal/delivery"
	"github.com/alnah/go-mailsafe/internal/hints"
	"github.com/alnah/go-mailsafe/internal/pipeline"
)

// hintFor returns an actionable hint for err, or "" when none applies.
func hintFor(err error) string {
	switch {
	case errors.Is(err, mailsafe.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, mailsafe.ErrPageLoad):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(userConfigPaths())
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	case errors.Is(err, mailsafe.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.Styles())
	case errors.Is(err, mailsafe.ErrTemplateSetNotFound), errors.Is(err, mailsafe.ErrIncompleteTemplateSet):
		return hints.ForTemplateSetNotFound()
	case errors.Is(err, mailsafe.ErrImageNotFound):
		return hints.ForImageNotFound()
	case errors.Is(err, mailsafe.ErrImageTooLarge):
		return hints.ForImageTooLarge(mailsafe.DefaultMaxImageBytes)
	case errors.Is(err, pipeline.ErrUnknownCharset), errors.Is(err, pipeline.ErrCharsetDecode):
		return hints.ForCharset()
	case errors.Is(err, delivery.ErrInvalidConfig):
		return hints.ForDeliveryToken()
	case errors.Is(err, delivery.ErrInvalidRecipient), errors.Is(err, delivery.ErrNoRecipients):
		return hints.ForRecipients()
	}
	return ""
}

// userConfigPaths lists the per-user config location for the default name.
func userConfigPaths() []string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(dir, "go-mailsafe", "mailsafe.yaml")}
}
