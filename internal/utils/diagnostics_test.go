package utils

import (
	"bytes"
	"strings"
	"testing"
)

func newTestDiagnostics(level DiagnosticLevel) (*DiagnosticSystem, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	d := NewDiagnosticSystem(level)
	d.SetOutput(&out, &errOut)
	d.SetColors(false)
	d.SetShowTime(false)
	return d, &out, &errOut
}

func TestDiagnostics_Levels(t *testing.T) {
	d, out, errOut := newTestDiagnostics(DiagnosticWarn)

	d.Error("broken %d", 1)
	d.Warn("careful")
	d.Info("hidden")
	d.Debug("hidden")

	if got := errOut.String(); got != "[ERROR] broken 1\n[WARN] careful\n" {
		t.Errorf("unexpected error output %q", got)
	}
	if out.Len() != 0 {
		t.Errorf("expected no regular output, got %q", out.String())
	}
}

func TestDiagnostics_Silent(t *testing.T) {
	d, out, errOut := newTestDiagnostics(DiagnosticSilent)
	d.Error("nothing")
	d.Section("nothing")
	if out.Len()+errOut.Len() != 0 {
		t.Error("expected silent diagnostics to write nothing")
	}
}

func TestDiagnostics_Formatting(t *testing.T) {
	d, out, _ := newTestDiagnostics(DiagnosticDebug)

	d.Section("Supertypes")
	d.Indent()
	d.List("com.acme.Base")
	d.Verbose("walked %d levels", 3)
	d.Unindent()
	d.Unindent()
	d.Success("done")
	d.Summary("Summary", map[string]interface{}{"types": 2, "annotations": 5})

	expected := strings.Join([]string{
		"Supertypes",
		"  - com.acme.Base",
		"  [VERBOSE] walked 3 levels",
		"[OK] done",
		"",
		"Summary",
		"   annotations: 5",
		"   types: 2",
		"",
	}, "\n")
	if out.String() != expected {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", out.String(), expected)
	}
}

func TestDiagnostics_Colors(t *testing.T) {
	d, _, errOut := newTestDiagnostics(DiagnosticError)
	d.SetColors(true)
	d.Error("red")

	if !strings.Contains(errOut.String(), "\x1b[") {
		t.Errorf("expected ANSI escape in colored output, got %q", errOut.String())
	}
}

func TestParseDiagnosticLevel(t *testing.T) {
	level, err := ParseDiagnosticLevel(" Verbose ")
	if err != nil || level != DiagnosticVerbose {
		t.Errorf("expected verbose, got %v (%v)", level, err)
	}
	if level.String() != "verbose" {
		t.Errorf("expected name verbose, got %s", level.String())
	}
	if _, err := ParseDiagnosticLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}
