package errors

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{name: "simple error", err: errors.New("something went wrong"), expected: "Error: something went wrong"},
		{name: "validation error", err: Invalid("alarm time %q is not HH:mm", "7am"), expected: `Error: invalid input: alarm time "7am" is not HH:mm`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("failed to load %s", "alarms")
	if got != "Error: failed to load alarms" {
		t.Errorf("Formatf() = %q", got)
	}
}

func TestTaxonomy(t *testing.T) {
	v := Invalid("countdown target must be in the future")
	if !IsValidation(v) {
		t.Errorf("Invalid() not recognised as validation error")
	}
	if errors.Is(v, ErrParse) {
		t.Errorf("validation error matched ErrParse")
	}

	p := Malformed("date", "2026-13-45", errors.New("month out of range"))
	if !errors.Is(p, ErrParse) {
		t.Errorf("Malformed() does not wrap ErrParse")
	}
	if !strings.Contains(p.Error(), "2026-13-45") {
		t.Errorf("Malformed() message lost the raw value: %v", p)
	}

	n := NotFound("timer", "abc")
	if !errors.Is(n, ErrNotFound) {
		t.Errorf("NotFound() does not wrap ErrNotFound")
	}
}

// TestFatal tests the Fatal function using exec helper process
func TestFatal(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL") == "1" {
		Fatal(errors.New("test error"))
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal$")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if e, ok := err.(*exec.ExitError); ok && !e.Success() {
		if e.ExitCode() != 1 {
			t.Errorf("Fatal() exit code = %d, want 1", e.ExitCode())
		}
		if !strings.Contains(stderr.String(), "Error: test error") {
			t.Errorf("Fatal() stderr = %q, want to contain %q", stderr.String(), "Error: test error")
		}
	} else {
		t.Errorf("Fatal() did not exit with error: %v", err)
	}
}

// TestFatal_NilError tests that Fatal does nothing when passed a nil error
func TestFatal_NilError(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL_NIL") == "1" {
		Fatal(nil)
		os.Exit(0)
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal_NilError")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL_NIL=1")

	if err := cmd.Run(); err != nil {
		t.Errorf("Fatal(nil) should not exit, but got error: %v", err)
	}
}
