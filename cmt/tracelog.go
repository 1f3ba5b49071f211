package cmt

import (
	"bufio"
	"io"
	"strings"
)

// DecodeTraceLogBits parses a captured emulator execution trace that
// logs each cassette-output tone write, letting the checksum
// discipline in BitsToBytesValidated be regression-tested without a
// real WAV capture — see DecodeTraceLogBitsValidated and
// tracelog_test.go for the consuming path. Adapted from the teacher's
// 6502-port trace ingestion (adc/asm.go's FBPort2bits), retargeted to
// the 1000 Hz/2000 Hz tone pair this package's own encoder emits for a
// "1" and "0" bit respectively, in the MSB-first order encodeBits
// writes them. Debug/test tooling only; DecodeWave never calls it.
func DecodeTraceLogBits(r io.Reader) ([]byte, error) {
	scanner := bufio.NewScanner(r)
	var bits []byte
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.Contains(line, "1000Hz"):
			bits = append(bits, 1)
		case strings.Contains(line, "2000Hz"):
			bits = append(bits, 0)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return bits, nil
}

// DecodeTraceLogBitsValidated parses a trace log and treats its final
// decoded byte as the XOR checksum of the rest, the same discipline
// DecodeSamples applies to each block of a WAV capture.
func DecodeTraceLogBitsValidated(r io.Reader, block string) ([]byte, error) {
	bits, err := DecodeTraceLogBits(r)
	if err != nil {
		return nil, err
	}
	return BitsToBytesValidated(bits, block)
}
