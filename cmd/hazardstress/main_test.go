package main

import (
	"context"
	"testing"
)

func TestRunSingleConsumer(t *testing.T) {
	if err := run(context.Background(), "single-consumer", 4, 2000, 32); err != nil {
		t.Fatalf("run() error = %v", err)
	}
}

func TestRunMixed(t *testing.T) {
	if err := run(context.Background(), "mixed", 4, 2000, 32); err != nil {
		t.Fatalf("run() error = %v", err)
	}
}

func TestRunUnknownScenario(t *testing.T) {
	if err := run(context.Background(), "nonsense", 1, 10, 1); err == nil {
		t.Fatalf("run() with an unknown scenario returned nil error, want one")
	}
}
