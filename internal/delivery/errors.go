package delivery

import "errors"

// Sentinel errors for delivery operations.
var (
	ErrFailedToSend     = errors.New("failed to send message")
	ErrInvalidConfig    = errors.New("invalid delivery config")
	ErrInvalidMessage   = errors.New("invalid message")
	ErrInvalidRecipient = errors.New("invalid recipient")
	ErrNoRecipients     = errors.New("no recipients")
	ErrInvalidMode      = errors.New("invalid delivery mode")
)
