package tools

import (
	"errors"
	"testing"
)

func TestRequireStringArg(t *testing.T) {
	rule := RequireStringArg("filepath", "filepath is required")

	tests := []struct {
		name string
		args map[string]interface{}
		ok   bool
	}{
		{"present", map[string]interface{}{"filepath": "/tmp/a.txt"}, true},
		{"missing", map[string]interface{}{}, false},
		{"nil value", map[string]interface{}{"filepath": nil}, false},
		{"empty string", map[string]interface{}{"filepath": "   "}, false},
		{"wrong type", map[string]interface{}{"filepath": 42}, false},
	}
	for _, tc := range tests {
		err := rule(tc.args)
		if (err == nil) != tc.ok {
			t.Errorf("%s: got err=%v, want ok=%v", tc.name, err, tc.ok)
		}
	}
}

func TestRequirePresentArgAcceptsEmptyString(t *testing.T) {
	rule := RequirePresentArg("content", "content is required")
	if err := rule(map[string]interface{}{"content": ""}); err != nil {
		t.Fatalf("expected empty string content to be valid, got: %v", err)
	}
	if err := rule(map[string]interface{}{}); err == nil {
		t.Fatal("expected error for missing content")
	}
}

func TestChainValidationStopsAtFirstError(t *testing.T) {
	first := errors.New("first")
	calls := 0
	rule := ChainValidation(
		nil,
		func(map[string]interface{}) error { calls++; return first },
		func(map[string]interface{}) error { calls++; return errors.New("second") },
	)
	if err := rule(nil); err != first {
		t.Fatalf("expected first error, got: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected chain to stop after first error, ran %d rules", calls)
	}
}

func TestParseToolArgs(t *testing.T) {
	args, err := parseToolArgs(nil)
	if err != nil || len(args) != 0 {
		t.Fatalf("expected empty map for empty payload, got %v, %v", args, err)
	}
	args, err = parseToolArgs([]byte(`{"filepath": "/tmp/a.txt"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if args["filepath"] != "/tmp/a.txt" {
		t.Fatalf("unexpected args: %v", args)
	}
	if _, err := parseToolArgs([]byte(`{"filepath"`)); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}
