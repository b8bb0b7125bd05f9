package main

// Notes:
// - This file contains fakes and helpers shared by the command tests.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	mailsafe "github.com/alnah/go-mailsafe"
	"github.com/alnah/go-mailsafe/internal/delivery"
)

// ---------------------------------------------------------------------------
// Fake converter and pool
// ---------------------------------------------------------------------------

// fakeConverter echoes the source wrapped in a marker and records inputs.
type fakeConverter struct {
	mu     sync.Mutex
	inputs []mailsafe.Input
	issues []mailsafe.Issue
	err    error
}

func (f *fakeConverter) Convert(_ context.Context, input mailsafe.Input) (*mailsafe.ConvertResult, error) {
	f.mu.Lock()
	f.inputs = append(f.inputs, input)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	body := input.HTML
	if input.Markdown != "" {
		body = "<p>" + input.Markdown + "</p>"
	}
	res := &mailsafe.ConvertResult{
		HTML:   []byte("<!-- converted -->" + body),
		Issues: f.issues,
	}
	if input.PDF != nil {
		res.PDF = []byte("%PDF-1.4 fake")
	}
	return res, nil
}

func (f *fakeConverter) Inputs() []mailsafe.Input {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]mailsafe.Input(nil), f.inputs...)
}

// fakePool hands out a single shared fakeConverter.
type fakePool struct {
	conv    *fakeConverter
	size    int
	initErr error
	opts    []mailsafe.Option
	closed  bool
}

func (p *fakePool) Acquire() CLIConverter {
	if p.initErr != nil {
		return nil
	}
	return p.conv
}

func (p *fakePool) Release(CLIConverter) {}
func (p *fakePool) Size() int             { return max(p.size, 1) }
func (p *fakePool) InitError() error      { return p.initErr }
func (p *fakePool) Close() error          { p.closed = true; return nil }

// ---------------------------------------------------------------------------
// Fake sender
// ---------------------------------------------------------------------------

type fakeSender struct {
	mu       sync.Mutex
	messages []delivery.Message
	err      error
}

func (s *fakeSender) Send(_ context.Context, msg delivery.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, msg)
	return nil
}

// ---------------------------------------------------------------------------
// Environment and files
// ---------------------------------------------------------------------------

// testHarness is an Environment backed by fakes and buffers.
type testHarness struct {
	env    *Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	conv   *fakeConverter
	pool   *fakePool
	sender *fakeSender
	// senderCfg and devDir record the last NewSender call.
	senderCfg delivery.Config
	devDir    string
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()
	h := &testHarness{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		conv:   &fakeConverter{},
		sender: &fakeSender{},
	}
	h.env = &Environment{
		Now:    func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
		Stdout: h.stdout,
		Stderr: h.stderr,
		NewPool: func(size int, opts ...mailsafe.Option) Pool {
			h.pool = &fakePool{conv: h.conv, size: size, opts: opts}
			return h.pool
		},
		NewSender: func(cfg delivery.Config, devDir string) (delivery.Sender, error) {
			h.senderCfg = cfg
			h.devDir = devDir
			return h.sender, nil
		},
	}
	return h
}

// writeFile creates a file under dir, including parent directories.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// readFile returns the content of path or fails the test.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
