// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pdiddy/graphchat/internal/artifact"
	"github.com/pdiddy/graphchat/pkg/types"
)

// fakeExecutor records every command and returns canned output.
type fakeExecutor struct {
	calls  [][]string
	output string
	err    error
}

func (f *fakeExecutor) LookPath(file string) (string, error) {
	return "/usr/bin/" + file, nil
}

func (f *fakeExecutor) Run(ctx context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.output, f.err
}

func testEngine(exec *fakeExecutor) *CLIEngine {
	e := NewCLIEngine(types.EngineConfig{})
	e.exec = exec
	return e
}

func testConfig() *Config {
	return &Config{
		Root:             "/ws",
		SettingsPath:     "/ws/settings.yaml",
		StorageBaseDir:   "/ws/output",
		ReportingBaseDir: "/ws/logs",
		VectorStoreURI:   "/ws/output/lancedb",
	}
}

func hasArgs(call []string, want ...string) bool {
	joined := " " + strings.Join(call, " ") + " "
	return strings.Contains(joined, " "+strings.Join(want, " ")+" ")
}

func TestInitProject(t *testing.T) {
	exec := &fakeExecutor{}
	if err := testEngine(exec).InitProject(context.Background(), "/ws"); err != nil {
		t.Fatal(err)
	}
	if len(exec.calls) != 1 || !hasArgs(exec.calls[0], "graphrag", "init", "--root", "/ws") {
		t.Fatalf("unexpected command: %v", exec.calls)
	}
}

func TestBuildIndex(t *testing.T) {
	t.Run("success collects error lines as workflow errors", func(t *testing.T) {
		exec := &fakeExecutor{output: "workflow a done\nERROR in workflow b\nall done\n"}
		results, err := testEngine(exec).BuildIndex(context.Background(), testConfig())
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 1 || results[0].Workflow != "index" {
			t.Fatalf("unexpected results: %+v", results)
		}
		if len(results[0].Errors) != 1 {
			t.Fatalf("got errors %v, want one", results[0].Errors)
		}
		if !hasArgs(exec.calls[0], "index", "--root", "/ws") {
			t.Fatalf("unexpected command: %v", exec.calls)
		}
	})

	t.Run("non-zero exit propagates", func(t *testing.T) {
		exec := &fakeExecutor{err: errors.New("exit status 1")}
		_, err := testEngine(exec).BuildIndex(context.Background(), testConfig())
		if err == nil {
			t.Fatal("build failure should propagate")
		}
	})
}

func TestSearch(t *testing.T) {
	set := &artifact.Set{Entities: artifact.Table{Name: artifact.TableEntities, Rows: 5}}
	opts := DefaultSearchOptions()

	t.Run("local", func(t *testing.T) {
		exec := &fakeExecutor{output: "The answer.\n"}
		answer, err := testEngine(exec).LocalSearch(context.Background(), testConfig(), set, opts, "What is X?")
		if err != nil {
			t.Fatal(err)
		}
		if answer.Text != "The answer." {
			t.Errorf("got %q", answer.Text)
		}
		call := exec.calls[0]
		if !hasArgs(call, "--method", "local") {
			t.Errorf("missing local method: %v", call)
		}
		if !hasArgs(call, "--community-level", "2") || !hasArgs(call, "--response-type", "Multiple Paragraphs") {
			t.Errorf("missing fixed search parameters: %v", call)
		}
		if !hasArgs(call, "--query", "What is X?") {
			t.Errorf("missing query: %v", call)
		}
	})

	t.Run("global omits dynamic selection when disabled", func(t *testing.T) {
		exec := &fakeExecutor{output: "ok"}
		_, err := testEngine(exec).GlobalSearch(context.Background(), testConfig(), set, opts, "q")
		if err != nil {
			t.Fatal(err)
		}
		call := exec.calls[0]
		if !hasArgs(call, "--method", "global") {
			t.Errorf("missing global method: %v", call)
		}
		if hasArgs(call, "--dynamic-community-selection") {
			t.Errorf("dynamic selection should be off: %v", call)
		}
	})

	t.Run("engine failure propagates", func(t *testing.T) {
		exec := &fakeExecutor{err: errors.New("engine exploded")}
		_, err := testEngine(exec).LocalSearch(context.Background(), testConfig(), set, opts, "q")
		if err == nil {
			t.Fatal("engine failure should propagate")
		}
	})
}
