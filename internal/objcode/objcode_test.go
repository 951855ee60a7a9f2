package objcode_test

import (
	"strings"
	"testing"

	"github.com/sicxe/assembler/internal/objcode"
)

func TestMarshalText(t *testing.T) {
	prog := objcode.NewObjectProgram("COPY", 0x1000, 0x002A)
	prog.AddCode(0x1000, "141033")
	prog.AddCode(0x1003, "482039")
	prog.AddMod(0x1007, 5)

	text, err := prog.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %s", err)
	}

	lines := strings.Split(strings.TrimSpace(string(text)), "\n")
	if len(lines) != 4 {
		t.Fatalf("want 4 records, got %d: %v", len(lines), lines)
	}

	if !strings.HasPrefix(lines[0], "H^COPY  ^001000^00002A") {
		t.Errorf("header: %q", lines[0])
	}

	if lines[1] != "T^001000^06^141033482039" {
		t.Errorf("text: %q", lines[1])
	}

	if lines[2] != "M^001007^05" {
		t.Errorf("mod: %q", lines[2])
	}

	if lines[3] != "E^001000" {
		t.Errorf("end: %q", lines[3])
	}
}

func TestAddCodeSplitsOnGap(t *testing.T) {
	prog := objcode.NewObjectProgram("COPY", 0, 0)
	prog.AddCode(0x1000, "0102")
	prog.AddCode(0x2000, "0304")

	if len(prog.Text) != 2 {
		t.Fatalf("want 2 text records, got %d", len(prog.Text))
	}
}

func TestAddCodeSplitsOnRecordLength(t *testing.T) {
	prog := objcode.NewObjectProgram("COPY", 0, 0)

	long := strings.Repeat("AB", 40) // 40 bytes, exceeds the 30-byte record cap.
	prog.AddCode(0x0000, long)

	if len(prog.Text) != 2 {
		t.Fatalf("want 2 text records, got %d", len(prog.Text))
	}

	if len(prog.Text[0].Code)/2 != 30 {
		t.Errorf("first record: want 30 bytes, got %d", len(prog.Text[0].Code)/2)
	}

	if len(prog.Text[1].Code)/2 != 10 {
		t.Errorf("second record: want 10 bytes, got %d", len(prog.Text[1].Code)/2)
	}
}

func TestRoundTrip(t *testing.T) {
	prog := objcode.NewObjectProgram("COPY", 0x1000, 0x002A)
	prog.AddCode(0x1000, "141033")
	prog.AddMod(0x1007, 5)

	text, err := prog.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %s", err)
	}

	var got objcode.ObjectProgram
	if err := got.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText: %s", err)
	}

	if got.StartAddress != prog.StartAddress || got.Length != prog.Length {
		t.Errorf("got %+v, want %+v", got, prog)
	}

	if len(got.Text) != 1 || got.Text[0].Code != "141033" {
		t.Errorf("text records: %+v", got.Text)
	}

	if len(got.Mods) != 1 || got.Mods[0].Address != 0x1007 {
		t.Errorf("mod records: %+v", got.Mods)
	}
}

func TestUnmarshalTextInvalid(t *testing.T) {
	var op objcode.ObjectProgram
	if err := op.UnmarshalText([]byte("X^bogus\n")); err == nil {
		t.Error("want error for unknown record type")
	}
}
