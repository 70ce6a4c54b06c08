// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/graphchat/pkg/types"
)

// fakeConverter implements Converter for testing. It fails on any
// source containing failOn, and otherwise returns canned text.
type fakeConverter struct {
	output string
	failOn string
}

func (f *fakeConverter) Convert(src []byte) (string, error) {
	if f.failOn != "" && strings.Contains(string(src), f.failOn) {
		return "", errors.New("boom")
	}
	return f.output, nil
}

// setupCorpus writes the named markdown files under a temp tree,
// including one nested directory and a .git dir that must be ignored.
func setupCorpus(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	gitDir := filepath.Join(dir, ".git")
	if err := os.MkdirAll(gitDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(gitDir, "HEAD.md"), []byte("not a doc"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestConvertTree(t *testing.T) {
	cfg := types.ConversionConfig{Extension: ".md"}

	t.Run("one output per input with matching base name", func(t *testing.T) {
		in := setupCorpus(t, map[string]string{
			"intro.md":        "# Intro",
			"guide/setup.md":  "# Setup",
			"guide/deploy.md": "# Deploy",
			"notes.txt":       "not markdown",
		})
		out := t.TempDir()

		var buf bytes.Buffer
		result, err := ConvertTree(&fakeConverter{output: "text"}, cfg, in, out, &buf)
		if err != nil {
			t.Fatal(err)
		}
		if result.Converted != 3 || result.Failed != 0 {
			t.Fatalf("got %+v, want 3 converted", result)
		}

		for _, base := range []string{"intro", "setup", "deploy"} {
			if _, err := os.Stat(filepath.Join(out, base+".txt")); err != nil {
				t.Errorf("missing output %s.txt: %v", base, err)
			}
		}
		entries, _ := os.ReadDir(out)
		if len(entries) != 3 {
			t.Errorf("got %d outputs, want 3", len(entries))
		}
	})

	t.Run("empty input fails and writes nothing", func(t *testing.T) {
		in := t.TempDir()
		out := filepath.Join(t.TempDir(), "out")

		var buf bytes.Buffer
		_, err := ConvertTree(&fakeConverter{output: "text"}, cfg, in, out, &buf)
		if !errors.Is(err, ErrNoDocuments) {
			t.Fatalf("got %v, want ErrNoDocuments", err)
		}
		if _, err := os.Stat(out); !os.IsNotExist(err) {
			t.Error("output directory should not have been created")
		}
	})

	t.Run("per-file failure does not abort the batch", func(t *testing.T) {
		in := setupCorpus(t, map[string]string{
			"a.md": "fine",
			"b.md": "POISON",
			"c.md": "fine",
		})
		out := t.TempDir()

		var buf bytes.Buffer
		result, err := ConvertTree(&fakeConverter{output: "text", failOn: "POISON"}, cfg, in, out, &buf)
		if err != nil {
			t.Fatal(err)
		}
		if result.Converted != 2 || result.Failed != 1 {
			t.Fatalf("got %+v, want 2 converted 1 failed", result)
		}
		if !strings.Contains(buf.String(), "failed:") {
			t.Error("failure should be reported in the status output")
		}
		if !strings.Contains(buf.String(), "Converted 2 of 3") {
			t.Errorf("summary line missing, got %q", buf.String())
		}
	})

	t.Run("rerun overwrites outputs", func(t *testing.T) {
		in := setupCorpus(t, map[string]string{"a.md": "doc"})
		out := t.TempDir()

		var buf bytes.Buffer
		if _, err := ConvertTree(&fakeConverter{output: "first"}, cfg, in, out, &buf); err != nil {
			t.Fatal(err)
		}
		if _, err := ConvertTree(&fakeConverter{output: "second"}, cfg, in, out, &buf); err != nil {
			t.Fatal(err)
		}

		data, err := os.ReadFile(filepath.Join(out, "a.txt"))
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "second" {
			t.Errorf("got %q, want overwritten content", data)
		}
	})
}

func TestMarkdownConverter(t *testing.T) {
	conv := NewMarkdownConverter()

	got, err := conv.Convert([]byte("# Title\n\nFirst paragraph.\n\nSecond\nparagraph."))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(got, "\n") {
		t.Errorf("output should be a single line, got %q", got)
	}
	for _, want := range []string{"Title", "First paragraph.", "Second paragraph."} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q missing %q", got, want)
		}
	}
}

func TestFlatten(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"joins lines with spaces", "a\nb\nc", "a b c"},
		{"drops blank lines", "a\n\n\nb", "a b"},
		{"trims indentation", "  a\n\tb", "a b"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Flatten(tt.in); got != tt.want {
				t.Errorf("Flatten(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
