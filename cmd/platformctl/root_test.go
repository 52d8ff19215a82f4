package main

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
)

func TestExecuteRunsCleanupsWhenCommandFails(t *testing.T) {
	commandErr := errors.New("platform unavailable")
	var closed bool

	failing := &cobra.Command{
		Use:               "failing",
		Hidden:            true,
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(*cobra.Command, []string) error {
			onExit(func() { closed = true })
			return commandErr
		},
	}
	rootCmd.AddCommand(failing)
	t.Cleanup(func() { rootCmd.RemoveCommand(failing) })

	if err := execute(context.Background(), []string{"failing"}); !errors.Is(err, commandErr) {
		t.Fatalf("expected command error, got %v", err)
	}
	if !closed {
		t.Fatal("expected cleanup to run after a failing command")
	}
	if len(cleanups) != 0 {
		t.Fatalf("expected cleanups to be cleared, got %d", len(cleanups))
	}
}
