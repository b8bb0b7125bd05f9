package main

import (
	"io"
	"os"
	"time"

	mailsafe "github.com/alnah/go-mailsafe"
	"github.com/alnah/go-mailsafe/internal/delivery"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, the converter pool factory and the sender factory.
type Environment struct {
	Now       func() time.Time
	Stdout    io.Writer
	Stderr    io.Writer
	NewPool   func(size int, opts ...mailsafe.Option) Pool
	NewSender func(cfg delivery.Config, devDir string) (delivery.Sender, error)
}

// DefaultEnv returns the production environment: real converters and Postmark.
func DefaultEnv() *Environment {
	return &Environment{
		Now:       time.Now,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		NewPool:   newConverterPool,
		NewSender: newSender,
	}
}

// newSender writes to devDir when set, otherwise sends through Postmark.
func newSender(cfg delivery.Config, devDir string) (delivery.Sender, error) {
	if devDir != "" {
		return delivery.NewDevSender(devDir), nil
	}
	return delivery.NewPostmarkSender(cfg)
}
