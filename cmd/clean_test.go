package cmd

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/zhubert/chatmodal/internal/config"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"lowercase y", "y\n", true},
		{"uppercase Y", "Y\n", true},
		{"lowercase yes", "yes\n", true},
		{"mixed case Yes", "Yes\n", true},
		{"lowercase n", "n\n", false},
		{"empty input", "\n", false},
		{"random text", "quizás\n", false},
		{"y with spaces", "  y  \n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			result := confirm(strings.NewReader(tt.input), &out, "Test?")
			if result != tt.expected {
				t.Errorf("confirm(%q) = %v, want %v", tt.input, result, tt.expected)
			}
			if out.String() != "Test? [y/N]: " {
				t.Errorf("prompt = %q", out.String())
			}
		})
	}
}

func TestConfirm_ErrorReader(t *testing.T) {
	if confirm(&errorReader{}, io.Discard, "Test?") {
		t.Error("confirm(error) = true, want false")
	}
	if confirm(strings.NewReader(""), io.Discard, "Test?") {
		t.Error("confirm(EOF) = true, want false")
	}
}

// errorReader is a reader that always returns an error
type errorReader struct{}

func (e *errorReader) Read(p []byte) (n int, err error) {
	return 0, io.ErrUnexpectedEOF
}

// seedStorage points the data dir at a temp dir and stores a session id.
func seedStorage(t *testing.T) *config.Store {
	t.Helper()
	t.Setenv("CHATMODAL_HOME", t.TempDir())
	path, err := config.StorePath()
	if err != nil {
		t.Fatal(err)
	}
	store, err := config.OpenStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(config.DefaultStorageKey, "sesion-guardada"); err != nil {
		t.Fatal(err)
	}
	return store
}

func reopen(t *testing.T) *config.Store {
	t.Helper()
	path, _ := config.StorePath()
	store, err := config.OpenStore(path)
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func TestClean_Aborted(t *testing.T) {
	seedStorage(t)

	var out bytes.Buffer
	if err := runCleanWithReader(strings.NewReader("n\n"), &out); err != nil {
		t.Fatalf("runClean: %v", err)
	}
	if !strings.Contains(out.String(), "sesion-guardada") || !strings.Contains(out.String(), "Aborted.") {
		t.Errorf("output:\n%s", out.String())
	}
	if _, ok := reopen(t).Get(config.DefaultStorageKey); !ok {
		t.Error("aborted clean should keep the stored session")
	}
}

func TestClean_ForgetsSession(t *testing.T) {
	seedStorage(t)

	var out bytes.Buffer
	if err := runCleanWithReader(strings.NewReader("y\n"), &out); err != nil {
		t.Fatalf("runClean: %v", err)
	}
	if _, ok := reopen(t).Get(config.DefaultStorageKey); ok {
		t.Error("stored session should be removed")
	}
	if !strings.Contains(out.String(), "stored session forgotten") {
		t.Errorf("output:\n%s", out.String())
	}
}
