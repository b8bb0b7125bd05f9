package delivery

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestParseRecipients - Line-based lists
// ---------------------------------------------------------------------------

func TestParseRecipients(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    []Recipient
		wantErr error
		wantMsg string
	}{
		{
			name:  "addresses and names",
			input: "ada@example.com,Ada Lovelace\ngrace@example.com\n",
			want: []Recipient{
				{Email: "ada@example.com", Name: "Ada Lovelace"},
				{Email: "grace@example.com"},
			},
		},
		{
			name:  "comments blanks and header are skipped",
			input: "email,name\n# staff\n\n  ada@example.com , \"Ada\"  \n",
			want:  []Recipient{{Email: "ada@example.com", Name: "Ada"}},
		},
		{
			name:  "duplicates keep first occurrence",
			input: "ada@example.com,First\nADA@example.com,Second\n",
			want:  []Recipient{{Email: "ada@example.com", Name: "First"}},
		},
		{
			name:    "invalid address reports line",
			input:   "ada@example.com\n\nnot-an-address\n",
			wantErr: ErrInvalidRecipient,
			wantMsg: "line 3",
		},
		{
			name:    "only comments",
			input:   "# nobody\n\n",
			wantErr: ErrNoRecipients,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseRecipients(strings.NewReader(tt.input))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
					t.Errorf("error = %q, want containing %q", err, tt.wantMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d recipients, want %d: %v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("recipient[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestParseRecipientsYAML - YAML lists
// ---------------------------------------------------------------------------

func TestParseRecipientsYAML(t *testing.T) {
	t.Parallel()

	t.Run("valid list", func(t *testing.T) {
		t.Parallel()

		input := "- email: ada@example.com\n  name: Ada\n- email: grace@example.com\n- email: Ada@example.com\n"
		got, err := ParseRecipientsYAML(strings.NewReader(input))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d recipients, want 2 after dedupe", len(got))
		}
		if got[0].Name != "Ada" {
			t.Errorf("Name = %q, want Ada", got[0].Name)
		}
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := ParseRecipientsYAML(strings.NewReader("- email: ada@example.com\n  phone: 123\n"))
		if err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("invalid entry reports position", func(t *testing.T) {
		t.Parallel()

		_, err := ParseRecipientsYAML(strings.NewReader("- email: ada@example.com\n- email: bad\n"))
		if !errors.Is(err, ErrInvalidRecipient) {
			t.Fatalf("error = %v, want ErrInvalidRecipient", err)
		}
		if !strings.Contains(err.Error(), "entry 2") {
			t.Errorf("error = %q, want entry position", err)
		}
	})

	t.Run("empty list", func(t *testing.T) {
		t.Parallel()

		_, err := ParseRecipientsYAML(strings.NewReader("[]\n"))
		if !errors.Is(err, ErrNoRecipients) {
			t.Errorf("error = %v, want ErrNoRecipients", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestLoadRecipients - Format selection by extension
// ---------------------------------------------------------------------------

func TestLoadRecipients(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("setup: %v", err)
		}
		return path
	}

	tests := []struct {
		name string
		path string
	}{
		{"csv file", write("list.csv", "ada@example.com,Ada\n")},
		{"txt file", write("list.txt", "ada@example.com,Ada\n")},
		{"yaml file", write("list.yaml", "- email: ada@example.com\n  name: Ada\n")},
		{"yml file", write("list.YML", "- email: ada@example.com\n  name: Ada\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadRecipients(tt.path)
			if err != nil {
				t.Fatalf("LoadRecipients() error = %v", err)
			}
			if len(got) != 1 || got[0] != (Recipient{Email: "ada@example.com", Name: "Ada"}) {
				t.Errorf("got %v", got)
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadRecipients(filepath.Join(dir, "missing.csv"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v, want os.ErrNotExist", err)
		}
	})
}
