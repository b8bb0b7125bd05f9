package mailsafe

import (
	"errors"

	"github.com/alnah/go-mailsafe/internal/assets"
	"github.com/alnah/go-mailsafe/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrEmptyInput     = errors.New("input content cannot be empty")
	ErrAmbiguousInput = errors.New("input must set either HTML or Markdown, not both")
	ErrHTMLConversion = pipeline.ErrHTMLConversion
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// Settings validation errors.
	ErrInvalidSettings = errors.New("invalid conversion settings")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Document shell validation errors.
	ErrInvalidLanguage = errors.New("invalid document language")

	// Signature validation errors.
	ErrInvalidSignatureLink = errors.New("invalid signature link")
	ErrSignatureRender      = pipeline.ErrSignatureRender

	// Image inlining errors.
	ErrImageNotFound = pipeline.ErrImageNotFound
	ErrImageTooLarge = pipeline.ErrImageTooLarge

	// Asset loading errors.
	ErrStyleNotFound         = assets.ErrStyleNotFound
	ErrTemplateSetNotFound   = assets.ErrTemplateSetNotFound
	ErrIncompleteTemplateSet = assets.ErrIncompleteTemplateSet
	ErrInvalidAssetPath      = errors.New("invalid asset path")
)
