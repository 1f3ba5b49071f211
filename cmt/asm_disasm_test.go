package cmt

import "testing"

func assembleDisassemble(t *testing.T, lines []string) []string {
	t.Helper()
	image, err := Assemble(lines)
	if err != nil {
		t.Fatalf("Assemble(%v): %v", lines, err)
	}
	decoded, err := Disassemble(image)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	got := make([]string, len(decoded))
	for i, l := range decoded {
		got[i] = l.FullText
	}
	return got
}

func TestAssembleDisassembleREMRoundTrip(t *testing.T) {
	lines := []string{`1 REM Eat "your" = vegetables`}
	got := assembleDisassemble(t, lines)
	if len(got) != 1 || got[0] != lines[0] {
		t.Errorf("got %v, want %v", got, lines)
	}
}

func TestAssembleDisassembleStringAssignmentRoundTrip(t *testing.T) {
	lines := []string{`1 LET X$ = "some value"`}
	got := assembleDisassemble(t, lines)
	if len(got) != 1 || got[0] != lines[0] {
		t.Errorf("got %v, want %v", got, lines)
	}
}

func TestAssembleDisassembleMultiLineRoundTrip(t *testing.T) {
	lines := []string{
		`1 LET X$ = "some value"`,
		`2 PRINT X$`,
		`3 LET Y$ = X$ + "some other test"`,
		`4 PRINT Y$`,
		`5 GOTO 1`,
	}
	got := assembleDisassemble(t, lines)
	if len(got) != len(lines) {
		t.Fatalf("got %d lines, want %d: %v", len(got), len(lines), got)
	}
	for i := range lines {
		if got[i] != lines[i] {
			t.Errorf("line %d: got %q, want %q", i+1, got[i], lines[i])
		}
	}
}

func TestAssembleRejectsOutOfRangeLineNumbers(t *testing.T) {
	if _, err := Assemble([]string{"-1 PRINT 1"}); err == nil {
		t.Error("expected error for line number -1, got nil")
	}
	if _, err := Assemble([]string{"63999 PRINT 1"}); err == nil {
		t.Error("expected error for line number 63999, got nil")
	}
	if _, err := Assemble([]string{"0 PRINT 1"}); err != nil {
		t.Errorf("line number 0 should be accepted, got %v", err)
	}
	if _, err := Assemble([]string{"63998 PRINT 1"}); err != nil {
		t.Errorf("line number 63998 should be accepted, got %v", err)
	}
}

func TestDisassembleInvalidHeaderStopsCleanly(t *testing.T) {
	image := []byte{0x00, 0x01, 0x12, 0x01, 0x00}
	lines, err := Disassemble(image)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("got %v, want no lines", lines)
	}
}

func TestAssemblePerLineMatchesAssemble(t *testing.T) {
	lines := []string{"1 PRINT 1", "2 END"}
	flat, err := Assemble(lines)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	perLine, err := AssemblePerLine(lines)
	if err != nil {
		t.Fatalf("AssemblePerLine: %v", err)
	}
	var rebuilt []byte
	for _, l := range perLine {
		rebuilt = append(rebuilt, l...)
	}
	rebuilt = append(rebuilt, 0x00, 0x00)
	if string(rebuilt) != string(flat) {
		t.Errorf("AssemblePerLine does not concatenate to the same image as Assemble")
	}
}
