package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/retroenv/retrogolib/assert"
)

func TestToneSilentWhenOff(t *testing.T) {
	tn := newTone(SampleRate, ToneHz)
	for range 1000 {
		assert.Equal(t, float32(0), tn.next(false))
	}
}

func TestToneSquareWave(t *testing.T) {
	tn := newTone(800, 100)

	var got []float32
	for range 8 {
		got = append(got, tn.next(true))
	}

	want := []float32{1, 1, 1, -1, -1, -1, -1, 1}
	for i := range want {
		assert.Equal(t, want[i], got[i])
	}
}

func TestRecorderWritesWav(t *testing.T) {
	path := filepath.Join(t.TempDir(), "beep.wav")
	rec := NewRecorder(path, 60)

	for i := range 30 {
		rec.SetTone(i < 10)
	}
	assert.Equal(t, 30*(SampleRate/60), rec.Samples())
	assert.NoError(t, rec.Close())

	f, err := os.Open(path)
	assert.NoError(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	assert.True(t, dec.IsValidFile())

	buf, err := dec.FullPCMBuffer()
	assert.NoError(t, err)
	assert.Equal(t, rec.Samples(), len(buf.Data))
	assert.Equal(t, SampleRate, buf.Format.SampleRate)

	nonZero := 0
	for _, v := range buf.Data[:10*(SampleRate/60)] {
		if v != 0 {
			nonZero++
		}
	}
	assert.True(t, nonZero > 0)

	for _, v := range buf.Data[10*(SampleRate/60):] {
		if v != 0 {
			t.Fatalf("sample %d after the tone stopped", v)
		}
	}
}

func TestRecorderDefaultsFrameRate(t *testing.T) {
	rec := NewRecorder(filepath.Join(t.TempDir(), "beep.wav"), 0)

	rec.SetTone(true)
	assert.Equal(t, SampleRate/defaultFrameRate, rec.Samples())
}
