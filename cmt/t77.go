package cmt

import (
	"encoding/binary"
	"errors"
	"io"
)

// T77 is a cycle-accurate tape-pulse dump format used by Sharp X1/MZ
// tape emulators (see web.archive.org/web/20231126092033/
// http://retropc.net/ryu/xm7/t77form.html). We support only Version 0,
// and repurpose its half-cycle decode loop as an alternate ingestion
// path for AppleSoft archives captured from an emulator that has no
// WAV export: the recovered bits are handed to this package's own
// BitsToBytesValidated, not to the teacher's original 6502-port byte
// framing. This is debug/test tooling; none of Assemble, Disassemble,
// EncodeWave or DecodeWave call it — see DecodeT77BitsValidated and
// its tests for the consuming path.
const (
	t77PulsesPerFrame = (1 + 8 + 2) * 2

	t77ThresholdLong  = 0x30
	t77ThresholdShort = 0x16
)

var t77Header = []byte("XM7 TAPE IMAGE 0")

// DecodeT77Bits reads a Version 0 T77 tape image and returns the data
// bits it carries, one byte per bit (values 0 or 1). The format's UART
// framing is LSB-first (cmd/T772bin's bitToByte builds its byte with
// `ret |= bits[1+i]<<i`), so each 8-bit group is reversed here before
// being appended, leaving the result MSB-first — the order
// BitsToBytesValidated expects.
func DecodeT77Bits(r io.Reader) ([]byte, error) {
	header := make([]byte, len(t77Header))
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}
	if string(header) != string(t77Header) {
		return nil, errors.New("t77: missing file header")
	}

	marker := make([]byte, 2)
	if _, err := io.ReadFull(r, marker); err != nil {
		return nil, err
	}
	if marker[0] != 0 || marker[1] != 0 {
		return nil, errors.New("t77: missing marker")
	}

	pulses := make([]uint16, t77PulsesPerFrame)
	fillFrom := 0
	var bits []byte

	for {
		for i := fillFrom; i < t77PulsesPerFrame; i++ {
			if err := binary.Read(r, binary.BigEndian, &pulses[i]); err != nil {
				return bits, nil
			}
		}

		if !t77FrameInSync(pulses) {
			copy(pulses, pulses[1:])
			fillFrom = t77PulsesPerFrame - 1
			continue
		}

		frame, ok := t77DecodeFrame(pulses)
		if !ok || frame[0] != 0 || frame[9] != 1 || frame[10] != 1 {
			copy(pulses, pulses[2:])
			fillFrom = t77PulsesPerFrame - 2
			continue
		}

		dataBits := frame[1:9]
		for i := len(dataBits) - 1; i >= 0; i-- {
			bits = append(bits, dataBits[i])
		}
		fillFrom = 0
	}
}

// DecodeT77BitsValidated reads a Version 0 T77 tape image and returns
// its payload bytes, treating the final decoded byte as the XOR
// checksum of the rest — the same checksum discipline DecodeSamples
// applies to a WAV capture's length/program/data blocks.
func DecodeT77BitsValidated(r io.Reader, block string) ([]byte, error) {
	bits, err := DecodeT77Bits(r)
	if err != nil {
		return nil, err
	}
	return BitsToBytesValidated(bits, block)
}

// t77FrameInSync reports whether a window of pulse-length pairs still
// straddles the high/low boundary the format encodes start/stop framing
// with (teacher's adc/t77.go "skip half bit" check).
func t77FrameInSync(pulses []uint16) bool {
	for i := 0; i < t77PulsesPerFrame; i += 2 {
		if pulses[i] <= 0x8000 || pulses[i+1] >= 0x8000 {
			return false
		}
	}
	return true
}

func t77DecodeFrame(pulses []uint16) ([]byte, bool) {
	bits := make([]byte, 0, t77PulsesPerFrame/2)
	for i := 0; i < t77PulsesPerFrame; i += 2 {
		switch {
		case 0x8000+t77ThresholdLong-12 < pulses[i] && pulses[i] < 0x8000+t77ThresholdLong+18:
			bits = append(bits, 1)
		case t77ThresholdShort-4 < pulses[i+1] && pulses[i+1] < t77ThresholdShort+16:
			bits = append(bits, 0)
		default:
			return nil, false
		}
	}
	return bits, true
}
