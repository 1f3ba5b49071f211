package cmt

import "math"

// Tone is a single constant-frequency run of full or partial cycles,
// the encoder's basic synthesis primitive (spec.md §4.5).
type Tone struct {
	Frequency float64
	Cycles    float64
	Invert    bool
}

const (
	freqLeader     = 770.0
	freqSyncHigh   = 2500.0
	freqSyncLow    = 2000.0
	freqBitOne     = 1000.0
	freqBitZero    = 2000.0
	freqBitOneHi   = 6000.0
	freqBitZeroHi  = 12000.0
	leaderCycles   = 3080.0
	trailingCycles = 10.0

	amplitudePeak = 93
	amplitudeBias = 128
)

func leaderTone() Tone   { return Tone{Frequency: freqLeader, Cycles: leaderCycles} }
func syncHighTone() Tone { return Tone{Frequency: freqSyncHigh, Cycles: 0.5} }
func syncLowTone() Tone  { return Tone{Frequency: freqSyncLow, Cycles: 0.5, Invert: true} }

// synthesizeTone expands a Tone into its PCM samples.
func synthesizeTone(t Tone, sampleRate uint32) []byte {
	numSamples := int(math.Ceil(float64(sampleRate) / (t.Frequency / t.Cycles)))
	phaseOffset := 0.0
	if t.Invert {
		phaseOffset = math.Ceil(float64(sampleRate) / (t.Frequency / 0.5))
	}

	samples := make([]byte, numSamples)
	for i := 0; i < numSamples; i++ {
		angle := 2 * math.Pi * t.Frequency * (float64(i) + phaseOffset) / float64(sampleRate)
		v := math.Round(math.Sin(angle)*amplitudePeak) + amplitudeBias
		samples[i] = byte(v)
	}
	return samples
}

// EncodeTones concatenates the PCM samples of a sequence of tones.
func EncodeTones(tones []Tone, sampleRate uint32) []byte {
	var out []byte
	for _, t := range tones {
		out = append(out, synthesizeTone(t, sampleRate)...)
	}
	return out
}

// encodeBits expands a byte buffer into one full-cycle Tone per bit,
// MSB first (spec.md §4.5's encode_bits).
func encodeBits(buffer []byte, highFreq bool) []Tone {
	tones := make([]Tone, 0, len(buffer)*8)
	for _, b := range buffer {
		bits := ByteToBits(b)
		for _, bit := range bits {
			var freq float64
			if bit == 1 {
				freq = freqBitOne
				if highFreq {
					freq = freqBitOneHi
				}
			} else {
				freq = freqBitZero
				if highFreq {
					freq = freqBitZeroHi
				}
			}
			tones = append(tones, Tone{Frequency: freq, Cycles: 1})
		}
	}
	return tones
}

func buildLengthRecordBody(programLength uint16, autoRun bool) []byte {
	body := make([]byte, 4)
	_ = WriteU16LE(body, 0, programLength)
	if autoRun {
		body[2] = 0xD5
	} else {
		body[2] = 0x00
	}
	body[3] = XORChecksum(body[:3])
	return body
}

// buildChecksummedBody appends the XOR checksum of data. Empty input
// yields an empty body (spec.md §4.5).
func buildChecksummedBody(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	out := make([]byte, len(data)+1)
	copy(out, data)
	out[len(data)] = XORChecksum(data)
	return out
}

// EncodeArchive builds the two-record cassette frame (spec.md §3, §4.5)
// for a tokenized program image, an optional trailing data block, and
// the auto-run flag, returning raw 8-bit unsigned mono PCM samples.
func EncodeArchive(programBytes []byte, autoRun bool, dataBlock []byte, sampleRate uint32) []byte {
	lengthBody := buildLengthRecordBody(uint16(len(programBytes)), autoRun)
	programBody := buildChecksummedBody(programBytes)
	dataBody := buildChecksummedBody(dataBlock)

	var tones []Tone
	tones = append(tones, leaderTone(), syncHighTone(), syncLowTone())
	tones = append(tones, encodeBits(lengthBody, false)...)

	tones = append(tones, leaderTone(), syncHighTone(), syncLowTone())
	tones = append(tones, encodeBits(programBody, false)...)
	tones = append(tones, encodeBits(dataBody, true)...)

	tones = append(tones, Tone{Frequency: freqSyncLow, Cycles: trailingCycles})
	tones = append(tones, Tone{Frequency: freqLeader, Cycles: trailingCycles})

	return EncodeTones(tones, sampleRate)
}

// EncodeWave assembles lines, builds the cassette frame and wraps it in
// a WAVE file, the toolkit's primary encode entry point (spec.md §6).
func EncodeWave(lines []string, autoRun bool) ([]byte, error) {
	programBytes, err := Assemble(lines)
	if err != nil {
		return nil, err
	}
	samples := EncodeArchive(programBytes, autoRun, nil, WaveDefaultSampleRate)
	return WriteWaveFile(samples, WaveDefaultSampleRate)
}
