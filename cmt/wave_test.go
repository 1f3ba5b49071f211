package cmt

import "testing"

func TestWriteReadWaveFileRoundTrip(t *testing.T) {
	samples := make([]byte, 256)
	for i := range samples {
		samples[i] = byte(i)
	}

	wav, err := WriteWaveFile(samples, 44100)
	if err != nil {
		t.Fatalf("WriteWaveFile: %v", err)
	}

	got, sampleRate, err := ReadWaveFile(wav)
	if err != nil {
		t.Fatalf("ReadWaveFile: %v", err)
	}
	if sampleRate != 44100 {
		t.Errorf("got sample rate %d, want 44100", sampleRate)
	}
	if string(got) != string(samples) {
		t.Errorf("round-tripped samples differ")
	}
}

func TestWriteWaveFileDefaultSampleRate(t *testing.T) {
	wav, err := WriteWaveFile([]byte{128, 129, 130}, WaveDefaultSampleRate)
	if err != nil {
		t.Fatalf("WriteWaveFile: %v", err)
	}
	_, sampleRate, err := ReadWaveFile(wav)
	if err != nil {
		t.Fatalf("ReadWaveFile: %v", err)
	}
	if sampleRate != WaveDefaultSampleRate {
		t.Errorf("got sample rate %d, want %d", sampleRate, WaveDefaultSampleRate)
	}
}
