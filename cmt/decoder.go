package cmt

import "math"

// Known tone frequencies the demodulator can resolve a measured
// zero-crossing frequency to (spec.md §4.6 step 6).
var knownFrequencies = []float64{770, 1500, 2000, 2250, 2500, 1000, 6000, 12000}

const knownFrequencySnapMargin = 250.0

func roundToKnownFrequency(f float64) float64 {
	best := f
	bestDiff := math.Inf(1)
	for _, k := range knownFrequencies {
		d := math.Abs(f - k)
		if d < bestDiff {
			bestDiff = d
			best = k
		}
	}
	if bestDiff <= knownFrequencySnapMargin {
		return best
	}
	return f
}

func cycleSamples(sampleRate uint32, freq float64) int {
	return int(math.Ceil(float64(sampleRate) / freq))
}

// freqEntry records the sample at which an observed frequency begins —
// the sparse, insertion-ordered frequencyMap of spec.md §4.6.
type freqEntry struct {
	sample int
	freq   float64
}

// zeroCrossingDecoder is the per-call demodulator state of spec.md
// §4.6/§4.7. Never shared between decode calls.
type zeroCrossingDecoder struct {
	sampleRate uint32

	signalHigh            bool
	lastCrossingTime      float64
	lastAmplitude         int
	lastRecordedFrequency float64
	entries               []freqEntry

	// optimizedFrequencyMap: opt[j] is the index into entries of the
	// largest recorded sample <= j, or -1 if none yet. Built once after
	// every sample has been processed (spec.md §4.6's optimization pass).
	opt []int
}

func newZeroCrossingDecoder(sampleRate uint32) *zeroCrossingDecoder {
	return &zeroCrossingDecoder{sampleRate: sampleRate, signalHigh: true}
}

// handleSample advances the state machine by one sample. v is the raw
// amplitude centered at 0 (spec.md §4.6 step 1); samples must be fed in
// increasing order of i.
func (d *zeroCrossingDecoder) handleSample(i int, v int) {
	s := v >= 0
	if s == d.signalHigh {
		d.lastAmplitude = v
		return
	}

	totalDelta := float64(v - d.lastAmplitude)
	var fraction float64
	if totalDelta != 0 {
		fraction = math.Abs(float64(v) / totalDelta)
	}
	fixedTime := float64(i) - fraction

	dtSamples := fixedTime - d.lastCrossingTime
	secondsPerFullCycle := 2 * dtSamples / float64(d.sampleRate)
	f := 1 / secondsPerFullCycle

	if math.IsInf(f, 0) || math.IsNaN(f) {
		d.lastCrossingTime = fixedTime
		d.lastAmplitude = v
		return
	}

	fc := roundToKnownFrequency(f)
	if fc != d.lastRecordedFrequency {
		halfCycleSamples := math.Ceil(float64(d.sampleRate) / (fc / 0.5))
		start := i - (int(halfCycleSamples) - 1)
		key := start
		if key < 0 {
			key = 0
		}
		d.entries = append(d.entries, freqEntry{sample: key, freq: fc})
		d.lastRecordedFrequency = fc
	}

	d.signalHigh = s
	d.lastCrossingTime = fixedTime
	d.lastAmplitude = v
}

func (d *zeroCrossingDecoder) buildOptimizedMap(numSamples int) {
	d.opt = make([]int, numSamples)
	entryIdx := -1
	nextIdx := 0
	for j := 0; j < numSamples; j++ {
		for nextIdx < len(d.entries) && d.entries[nextIdx].sample <= j {
			entryIdx = nextIdx
			nextIdx++
		}
		d.opt[j] = entryIdx
	}
}

func (d *zeroCrossingDecoder) inferredFrequency(i int) float64 {
	if i < 0 || i >= len(d.opt) {
		return -1
	}
	idx := d.opt[i]
	if idx < 0 {
		return -1
	}
	return d.entries[idx].freq
}

func (d *zeroCrossingDecoder) leaderStarts() []int {
	var out []int
	for _, e := range d.entries {
		if e.freq == freqLeader {
			out = append(out, e.sample)
		}
	}
	return out
}

// findBlockBodyStart locates the sync bit after fromSample and returns
// the sample at which the block's bit stream begins (spec.md §4.6
// step 2).
func (d *zeroCrossingDecoder) findBlockBodyStart(fromSample int, which int) (int, error) {
	for _, e := range d.entries {
		if e.sample >= fromSample && e.freq == freqSyncHigh {
			return e.sample + cycleSamples(d.sampleRate, 2250) + 2, nil
		}
	}
	return 0, &NoHeaderFoundError{Which: which}
}

// readBitStream reads bits until a leader or sync tone (or the end of
// the sample buffer) ends the current block (spec.md §4.6 step 3).
func (d *zeroCrossingDecoder) readBitStream(start int) ([]byte, int, error) {
	i := start
	var bits []byte
	for {
		f := d.inferredFrequency(i)
		if f == freqLeader || f == freqSyncHigh || f < 0 {
			break
		}
		switch f {
		case freqBitOne, freqBitOneHi:
			bits = append(bits, 1)
		case freqBitZero, freqBitZeroHi:
			bits = append(bits, 0)
		default:
			return nil, i, &UnexpectedFrequencyError{Hz: f, Sample: i}
		}
		i += cycleSamples(d.sampleRate, f)
	}
	return bits, i, nil
}

// readExactBits reads exactly n bits, used once the caller already
// knows the block length from a decoded length header (spec.md §4.6
// step 6).
func (d *zeroCrossingDecoder) readExactBits(start int, n int) ([]byte, int, error) {
	i := start
	bits := make([]byte, 0, n)
	for len(bits) < n {
		f := d.inferredFrequency(i)
		if f < 0 {
			return nil, i, &TruncatedBitStreamError{BitsRead: len(bits)}
		}
		switch f {
		case freqBitOne, freqBitOneHi:
			bits = append(bits, 1)
		case freqBitZero, freqBitZeroHi:
			bits = append(bits, 0)
		default:
			return nil, i, &UnexpectedFrequencyError{Hz: f, Sample: i}
		}
		i += cycleSamples(d.sampleRate, f)
	}
	return bits, i, nil
}

// dataBlockGapBits is the magic constant the decoder skips between a
// program block's checksum and an optional following data block
// (spec.md §9 — empirically measured against real archives).
const dataBlockGapBits = 5

func (d *zeroCrossingDecoder) readOptionalDataBlock(start int) ([]byte, int, error) {
	i := start
	f := d.inferredFrequency(i)
	if f < 0 || f == freqLeader {
		return nil, i, nil
	}
	for k := 0; k < dataBlockGapBits; k++ {
		f = d.inferredFrequency(i)
		if f <= 0 {
			return nil, i, nil
		}
		i += cycleSamples(d.sampleRate, f)
	}
	bits, i2, err := d.readBitStream(i)
	if err != nil {
		return nil, i2, err
	}
	if len(bits) == 0 {
		return nil, i2, nil
	}
	data, err := BitsToBytesValidated(bits, "data")
	return data, i2, err
}

// DecodedBlocks is the result of a cassette decode: the tokenized
// BASIC program and the optional trailing data block (spec.md §6).
type DecodedBlocks struct {
	Program []byte
	Data    []byte
	AutoRun bool
}

// DecodeSamples demodulates raw 8-bit unsigned mono PCM samples back
// into a DecodedBlocks, following the frame layout of spec.md §3 and
// the state machine of §4.6/§4.7.
func DecodeSamples(samples []byte, sampleRate uint32) (DecodedBlocks, error) {
	dec := newZeroCrossingDecoder(sampleRate)
	for i, s := range samples {
		dec.handleSample(i, int(s)-128)
	}
	dec.buildOptimizedMap(len(samples))

	leaders := dec.leaderStarts()
	if len(leaders) < 1 {
		return DecodedBlocks{}, &NoHeaderFoundError{Which: 0}
	}

	bodyStart, err := dec.findBlockBodyStart(leaders[0], 0)
	if err != nil {
		return DecodedBlocks{}, err
	}
	lengthBits, _, err := dec.readBitStream(bodyStart)
	if err != nil {
		return DecodedBlocks{}, err
	}
	lengthBytes, err := BitsToBytesValidated(lengthBits, "length")
	if err != nil {
		return DecodedBlocks{}, err
	}
	programLength, err := ReadU16LE(lengthBytes, 0)
	if err != nil {
		return DecodedBlocks{}, err
	}
	autoRun := lengthBytes[2] == 0xD5

	if len(leaders) < 2 {
		return DecodedBlocks{}, &NoHeaderFoundError{Which: 1}
	}
	bodyStart2, err := dec.findBlockBodyStart(leaders[1], 1)
	if err != nil {
		return DecodedBlocks{}, err
	}

	var programBytes []byte
	nextPos := bodyStart2
	if programLength > 0 {
		programBits, pos, err := dec.readExactBits(bodyStart2, int(programLength+1)*8)
		if err != nil {
			return DecodedBlocks{}, err
		}
		programBytes, err = BitsToBytesValidated(programBits, "program")
		if err != nil {
			return DecodedBlocks{}, err
		}
		nextPos = pos
	}

	// The archive's closing trailer (2000 Hz then 770 Hz) immediately
	// follows the program checksum whether or not a data block is
	// present, and 2000 Hz aliases the bit-zero tone — so a missing
	// data block looks exactly like a data block that fails to
	// checksum. Treat that failure as "no data block" rather than a
	// fatal decode error; a genuinely truncated program block has
	// already been reported above.
	dataBytes, _, err := dec.readOptionalDataBlock(nextPos)
	if err != nil {
		dataBytes = nil
	}

	return DecodedBlocks{Program: programBytes, Data: dataBytes, AutoRun: autoRun}, nil
}

// DecodeWave parses a WAVE file and demodulates its cassette frame
// (spec.md §6's decode_wave).
func DecodeWave(wav []byte) (DecodedBlocks, error) {
	samples, sampleRate, err := ReadWaveFile(wav)
	if err != nil {
		return DecodedBlocks{}, err
	}
	return DecodeSamples(samples, sampleRate)
}
