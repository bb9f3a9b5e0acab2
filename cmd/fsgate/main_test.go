package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestAppHasServeAndInfoCommands(t *testing.T) {
	app := newApp()
	names := map[string]bool{}
	for _, sub := range app.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"serve", "info"} {
		if !names[want] {
			t.Errorf("expected %q subcommand", want)
		}
	}
}

func TestInfoPrintsToolCatalog(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FSGATE_ALLOWED_ROOTS", dir)

	app := newApp()
	var out bytes.Buffer
	app.SetOut(&out)
	app.SetArgs([]string{"info"})
	if err := app.Execute(); err != nil {
		t.Fatalf("info command failed: %v", err)
	}

	var payload struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	if err := json.Unmarshal(out.Bytes(), &payload); err != nil {
		t.Fatalf("expected JSON catalog, got: %s (%v)", out.String(), err)
	}
	if len(payload.Tools) != 6 {
		t.Fatalf("expected six tools, got %d", len(payload.Tools))
	}
	if !strings.Contains(out.String(), "read_file") {
		t.Fatalf("expected read_file in catalog, got: %s", out.String())
	}
}
