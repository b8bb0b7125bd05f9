package main

import (
	"errors"
	"os"

	mailsafe "github.com/alnah/go-mailsafe"
	"github.com/alnah/go-mailsafe/internal/config"
	"github.com/alnah/go-mailsafe/internal/delivery"
	"github.com/alnah/go-mailsafe/internal/pipeline"
)

// Exit codes for the mailsafe CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Successful run
	ExitGeneral  = 1 // General/unexpected error, lint failures
	ExitUsage    = 2 // Invalid flags, config, or validation
	ExitIO       = 3 // File not found, permission denied
	ExitBrowser  = 4 // Browser/Chrome errors during PDF proofs
	ExitDelivery = 5 // Sending failed or credentials missing
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, mailsafe.ErrBrowserConnect) ||
		errors.Is(err, mailsafe.ErrPageCreate) ||
		errors.Is(err, mailsafe.ErrPageLoad) ||
		errors.Is(err, mailsafe.ErrPDFGeneration) {
		return ExitBrowser
	}

	if errors.Is(err, delivery.ErrFailedToSend) ||
		errors.Is(err, delivery.ErrInvalidConfig) {
		return ExitDelivery
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadSource) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, mailsafe.ErrImageNotFound) {
		return ExitIO
	}

	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrFieldOutOfRange) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, ErrEnvConfig) ||
		errors.Is(err, ErrInvalidFlags) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrMissingRecipients) ||
		errors.Is(err, mailsafe.ErrEmptyInput) ||
		errors.Is(err, mailsafe.ErrInvalidSettings) ||
		errors.Is(err, mailsafe.ErrInvalidPageSize) ||
		errors.Is(err, mailsafe.ErrInvalidOrientation) ||
		errors.Is(err, mailsafe.ErrInvalidMargin) ||
		errors.Is(err, mailsafe.ErrInvalidLanguage) ||
		errors.Is(err, mailsafe.ErrInvalidSignatureLink) ||
		errors.Is(err, mailsafe.ErrImageTooLarge) ||
		errors.Is(err, mailsafe.ErrStyleNotFound) ||
		errors.Is(err, mailsafe.ErrTemplateSetNotFound) ||
		errors.Is(err, mailsafe.ErrIncompleteTemplateSet) ||
		errors.Is(err, mailsafe.ErrInvalidAssetPath) ||
		errors.Is(err, pipeline.ErrUnknownCharset) ||
		errors.Is(err, delivery.ErrInvalidMode) ||
		errors.Is(err, delivery.ErrInvalidRecipient) ||
		errors.Is(err, delivery.ErrNoRecipients) ||
		errors.Is(err, delivery.ErrInvalidMessage) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}
