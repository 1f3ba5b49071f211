package cmt

import (
	"strings"
	"testing"
)

func TestDecodeTraceLogBits(t *testing.T) {
	log := strings.Join([]string{
		"0800: STA $C020  ; tone write, 1000Hz",
		"0803: STA $C020  ; tone write, 2000Hz",
		"0806: NOP",
		"0807: STA $C020  ; tone write, 1000Hz",
	}, "\n")

	bits, err := DecodeTraceLogBits(strings.NewReader(log))
	if err != nil {
		t.Fatalf("DecodeTraceLogBits: %v", err)
	}
	want := []byte{1, 0, 1}
	if len(bits) != len(want) {
		t.Fatalf("got %v, want %v", bits, want)
	}
	for i := range want {
		if bits[i] != want[i] {
			t.Errorf("bit %d: got %d, want %d", i, bits[i], want[i])
		}
	}
}

func TestDecodeTraceLogBitsEmpty(t *testing.T) {
	bits, err := DecodeTraceLogBits(strings.NewReader("no tone markers here\n"))
	if err != nil {
		t.Fatalf("DecodeTraceLogBits: %v", err)
	}
	if len(bits) != 0 {
		t.Errorf("got %v, want no bits", bits)
	}
}

// traceLogFor renders framed (a block of payload bytes followed by
// its XOR checksum) as one tone-write log line per bit, MSB-first,
// matching the order cmt's own encodeBits emits them in.
func traceLogFor(framed []byte) string {
	var sb strings.Builder
	for _, b := range framed {
		for _, bit := range ByteToBits(b) {
			if bit == 1 {
				sb.WriteString("STA $C020  ; tone write, 1000Hz\n")
			} else {
				sb.WriteString("STA $C020  ; tone write, 2000Hz\n")
			}
		}
	}
	return sb.String()
}

// TestDecodeTraceLogBitsValidatedRoundTrip pipes a trace-log capture
// of an assembled program plus its trailing checksum byte through
// DecodeTraceLogBitsValidated, exercising the same
// BitsToBytesValidated checksum discipline DecodeSamples applies to a
// WAV capture.
func TestDecodeTraceLogBitsValidatedRoundTrip(t *testing.T) {
	programBytes, err := Assemble([]string{"1 END"})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	framed := append(append([]byte{}, programBytes...), XORChecksum(programBytes))

	got, err := DecodeTraceLogBitsValidated(strings.NewReader(traceLogFor(framed)), "program")
	if err != nil {
		t.Fatalf("DecodeTraceLogBitsValidated: %v", err)
	}
	if string(got) != string(programBytes) {
		t.Errorf("got %v, want %v", got, programBytes)
	}
}

func TestDecodeTraceLogBitsValidatedChecksumMismatch(t *testing.T) {
	programBytes, err := Assemble([]string{"1 END"})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	corrupted := append([]byte{}, programBytes...)
	corrupted[0] ^= 0xFF
	framed := append(corrupted, XORChecksum(programBytes))

	if _, err := DecodeTraceLogBitsValidated(strings.NewReader(traceLogFor(framed)), "program"); err == nil {
		t.Error("expected a checksum error, got nil")
	}
}
