package cmt

import (
	"bytes"
	"io"

	wav "github.com/youpy/go-wav"
)

// WaveDefaultSampleRate is the sample rate the encoder uses unless told
// otherwise (spec.md §4.4).
const WaveDefaultSampleRate = 48000

// WriteWaveFile wraps raw 8-bit unsigned mono PCM samples (centered at
// 128, spec.md §4.4) in a 44-byte WAVE header, using the same
// go-wav writer the teacher's cmd/Mesen2wav and cmd/genFBwav use.
func WriteWaveFile(samples []byte, sampleRate uint32) ([]byte, error) {
	var buf bytes.Buffer
	writer := wav.NewWriter(&buf, uint32(len(samples)), 1, sampleRate, 8)

	wavSamples := make([]wav.Sample, len(samples))
	for i, s := range samples {
		wavSamples[i] = wav.Sample{Values: [2]int{int(s), int(s)}}
	}
	if err := writer.WriteSamples(wavSamples); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadWaveFile parses a WAVE file and returns its raw 8-bit unsigned
// mono PCM samples plus the sample rate declared in its header (the
// decoder must honor whatever rate the file carries, spec.md §4.4).
func ReadWaveFile(data []byte) ([]byte, uint32, error) {
	reader := wav.NewReader(bytes.NewReader(data))

	format, err := reader.Format()
	if err != nil {
		return nil, 0, err
	}

	var samples []byte
	for {
		chunk, rerr := reader.ReadSamples(4096)
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return nil, 0, rerr
		}
		for _, s := range chunk {
			samples = append(samples, byte(reader.IntValue(s, 0)))
		}
	}

	return samples, format.SampleRate, nil
}
