package main

import (
	"bytes"
	"testing"

	"github.com/desertthunder/airlift/internal/shared"
	tu "github.com/desertthunder/airlift/internal/testing"
)

func TestNewRunner(t *testing.T) {
	t.Run("Applies Defaults", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})

		if runner.config == nil {
			t.Error("expected default config")
		}
		if runner.logger == nil {
			t.Error("expected default logger")
		}
		if runner.output == nil {
			t.Error("expected default output writer")
		}
	})

	t.Run("Keeps Provided Dependencies", func(t *testing.T) {
		config := shared.DefaultConfig()
		var buf bytes.Buffer

		runner := NewRunner(RunnerOpts{Config: config, Output: &buf})

		if runner.config != config {
			t.Error("expected provided config to be kept")
		}
		if runner.output != &buf {
			t.Error("expected provided output writer to be kept")
		}
	})
}

func TestRegister(t *testing.T) {
	runner := NewRunner(RunnerOpts{})
	commands := runner.register()

	if len(commands) != 5 {
		t.Fatalf("expected 5 top-level commands, got %d", len(commands))
	}

	names := map[string]bool{}
	for _, cmd := range commands {
		names[cmd.Name] = true
	}

	for _, want := range []string{"setup", "auth", "monitor", "playlist", "history"} {
		if !names[want] {
			t.Errorf("expected command %q to be registered", want)
		}
	}
}

func TestWritePlain(t *testing.T) {
	t.Run("Writes To Output", func(t *testing.T) {
		var buf bytes.Buffer
		runner := NewRunner(RunnerOpts{Output: &buf})

		if err := runner.writePlain("hello %s\n", "world"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if buf.String() != "hello world\n" {
			t.Errorf("unexpected output: %q", buf.String())
		}
	})

	t.Run("Propagates Write Failure", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

		if err := runner.writePlain("anything"); err == nil {
			t.Error("expected write failure")
		}
	})
}
