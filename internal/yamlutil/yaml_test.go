package yamlutil_test

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/alnah/go-mailsafe/internal/yamlutil"
)

type testRecipient struct {
	Name       string   `yaml:"name"`
	Priority   int      `yaml:"priority"`
	Subscribed bool     `yaml:"subscribed"`
	Tags       []string `yaml:"tags,omitempty"`
}

// ---------------------------------------------------------------------------
// TestUnmarshal - Parses YAML into Go structs
// ---------------------------------------------------------------------------

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
		check   func(t *testing.T, v any)
	}{
		{
			name: "valid YAML",
			data: []byte("name: test\ncount: 42\nenabled: true"),
			dest: &testRecipient{},
			check: func(t *testing.T, v any) {
				rcpt := v.(*testRecipient)
				if rcpt.Name != "test" {
					t.Errorf("Name = %q, want %q", rcpt.Name, "test")
				}
				if rcpt.Priority != 42 {
					t.Errorf("Priority = %d, want %d", rcpt.Priority, 42)
				}
				if !rcpt.Subscribed {
					t.Error("Subscribed = false, want true")
				}
			},
		},
		{
			name:    "nil data",
			data:    nil,
			dest:    &testRecipient{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "empty data",
			data:    []byte{},
			dest:    &testRecipient{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "nil destination",
			data:    []byte("name: test"),
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
		{
			name:    "invalid YAML syntax",
			data:    []byte("name: [unclosed"),
			dest:    &testRecipient{},
			wantErr: errors.New("yamlutil:"), // partial match
		},
		{
			name: "unicode content",
			data: []byte("name: 日本語テスト"),
			dest: &testRecipient{},
			check: func(t *testing.T, v any) {
				rcpt := v.(*testRecipient)
				if rcpt.Name != "日本語テスト" {
					t.Errorf("Name = %q, want %q", rcpt.Name, "日本語テスト")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.Unmarshal(tt.data, tt.dest)
			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.wantErr)
				}
				if errors.Is(err, tt.wantErr) {
					return // exact match via errors.Is
				}
				if !strings.Contains(err.Error(), tt.wantErr.Error()) {
					t.Fatalf("error = %q, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, tt.dest)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestUnmarshalStrict - Parses YAML and rejects unknown fields
// ---------------------------------------------------------------------------

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
		check   func(t *testing.T, v any)
	}{
		{
			name: "valid YAML with known fields only",
			data: []byte("name: strict\ncount: 10"),
			dest: &testRecipient{},
			check: func(t *testing.T, v any) {
				rcpt := v.(*testRecipient)
				if rcpt.Name != "strict" {
					t.Errorf("Name = %q, want %q", rcpt.Name, "strict")
				}
				if rcpt.Priority != 10 {
					t.Errorf("Priority = %d, want %d", rcpt.Priority, 10)
				}
			},
		},
		{
			name:    "unknown field causes error",
			data:    []byte("name: test\nunknown_field: value"),
			dest:    &testRecipient{},
			wantErr: errors.New("yamlutil:"), // should error on unknown field
		},
		{
			name:    "nil data",
			data:    nil,
			dest:    &testRecipient{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "empty data",
			data:    []byte{},
			dest:    &testRecipient{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "nil destination",
			data:    []byte("name: test"),
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.UnmarshalStrict(tt.data, tt.dest)
			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.wantErr)
				}
				if errors.Is(err, tt.wantErr) {
					return
				}
				if !strings.Contains(err.Error(), tt.wantErr.Error()) {
					t.Fatalf("error = %q, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, tt.dest)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestErrorWrapping - Verifies error types are detectable via errors.Is
// ---------------------------------------------------------------------------

func TestErrorWrapping(t *testing.T) {
	t.Parallel()

	t.Run("ErrNilData is detectable via errors.Is", func(t *testing.T) {
		t.Parallel()

		err := yamlutil.Unmarshal(nil, &testRecipient{})
		if !errors.Is(err, yamlutil.ErrNilData) {
			t.Errorf("errors.Is(err, ErrNilData) = false, want true")
		}
	})

	t.Run("ErrNilDestination is detectable via errors.Is", func(t *testing.T) {
		t.Parallel()

		err := yamlutil.Unmarshal([]byte("name: test"), nil)
		if !errors.Is(err, yamlutil.ErrNilDestination) {
			t.Errorf("errors.Is(err, ErrNilDestination) = false, want true")
		}
	})

	t.Run("wrapped errors have yamlutil prefix", func(t *testing.T) {
		t.Parallel()

		err := yamlutil.Unmarshal([]byte("invalid: [unclosed"), &testRecipient{})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.HasPrefix(err.Error(), "yamlutil:") {
			t.Errorf("error = %q, want prefix 'yamlutil:'", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestInputSizeLimit - Verifies MaxInputSize enforcement
// ---------------------------------------------------------------------------

// Note: This test modifies the global MaxInputSize variable, so it cannot
// run in parallel with other tests to avoid data races.

func TestInputSizeLimit(t *testing.T) {
	// Save and restore original MaxInputSize
	originalMax := yamlutil.MaxInputSize
	t.Cleanup(func() { yamlutil.MaxInputSize = originalMax })

	t.Run("input at limit succeeds", func(t *testing.T) {
		yamlutil.MaxInputSize = 100
		data := make([]byte, 100)
		copy(data, []byte("name: x"))
		var rcpt testRecipient
		err := yamlutil.Unmarshal(data, &rcpt)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("input exceeding limit fails", func(t *testing.T) {
		yamlutil.MaxInputSize = 100
		data := make([]byte, 101)
		copy(data, []byte("name: x"))
		var rcpt testRecipient
		err := yamlutil.Unmarshal(data, &rcpt)
		if !errors.Is(err, yamlutil.ErrInputTooLarge) {
			t.Errorf("errors.Is(err, ErrInputTooLarge) = false, got: %v", err)
		}
	})

	t.Run("error message includes sizes", func(t *testing.T) {
		yamlutil.MaxInputSize = 50
		data := make([]byte, 100)
		var rcpt testRecipient
		err := yamlutil.Unmarshal(data, &rcpt)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		msg := err.Error()
		if !strings.Contains(msg, "100 bytes") {
			t.Errorf("error should contain actual size, got: %s", msg)
		}
		if !strings.Contains(msg, "max 50") {
			t.Errorf("error should contain max size, got: %s", msg)
		}
	})

	t.Run("UnmarshalStrict also enforces limit", func(t *testing.T) {
		yamlutil.MaxInputSize = 100
		data := make([]byte, 101)
		copy(data, []byte("name: x"))
		var rcpt testRecipient
		err := yamlutil.UnmarshalStrict(data, &rcpt)
		if !errors.Is(err, yamlutil.ErrInputTooLarge) {
			t.Errorf("errors.Is(err, ErrInputTooLarge) = false, got: %v", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestDecode - Reads YAML from a stream
// ---------------------------------------------------------------------------

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("lenient decode ignores unknown fields", func(t *testing.T) {
		t.Parallel()

		var rcpt testRecipient
		err := yamlutil.Decode(strings.NewReader("name: ada\nunknown: x\n"), &rcpt, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rcpt.Name != "ada" {
			t.Errorf("Name = %q, want %q", rcpt.Name, "ada")
		}
	})

	t.Run("strict decode rejects unknown fields", func(t *testing.T) {
		t.Parallel()

		var rcpt testRecipient
		err := yamlutil.Decode(strings.NewReader("name: ada\nunknown: x\n"), &rcpt, true)
		if err == nil {
			t.Fatal("expected error for unknown field, got nil")
		}
	})

	t.Run("decodes a sequence", func(t *testing.T) {
		t.Parallel()

		var list []testRecipient
		input := "- name: ada\n  tags: [vip]\n- name: grace\n"
		if err := yamlutil.Decode(strings.NewReader(input), &list, true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(list) != 2 {
			t.Fatalf("len = %d, want 2", len(list))
		}
		if len(list[0].Tags) != 1 || list[0].Tags[0] != "vip" {
			t.Errorf("Tags = %v, want [vip]", list[0].Tags)
		}
	})

	t.Run("empty stream returns ErrNilData", func(t *testing.T) {
		t.Parallel()

		var rcpt testRecipient
		err := yamlutil.Decode(strings.NewReader(""), &rcpt, false)
		if !errors.Is(err, yamlutil.ErrNilData) {
			t.Errorf("error = %v, want ErrNilData", err)
		}
	})

	t.Run("read failure is wrapped", func(t *testing.T) {
		t.Parallel()

		readErr := errors.New("disk gone")
		var rcpt testRecipient
		err := yamlutil.Decode(iotest.ErrReader(readErr), &rcpt, false)
		if !errors.Is(err, readErr) {
			t.Errorf("error = %v, want wrapped %v", err, readErr)
		}
	})
}
