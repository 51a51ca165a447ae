// Package audio turns the sound timer into a square wave tone, either played
// through the host audio device or recorded to a WAV file.
package audio

const (
	SampleRate = 44100
	ToneHz     = 440
)

// tone is a square wave oscillator. It keeps its phase across calls so
// consecutive buffers join without clicks.
type tone struct {
	sampleRate int
	freq       int
	phase      int
}

func newTone(sampleRate, freq int) *tone {
	return &tone{sampleRate: sampleRate, freq: freq}
}

// next returns the next sample in [-1, 1], or 0 when the tone is off.
func (t *tone) next(on bool) float32 {
	period := t.sampleRate / t.freq

	t.phase++
	if t.phase >= period {
		t.phase = 0
	}

	if !on {
		return 0
	}
	if t.phase < period/2 {
		return 1
	}
	return -1
}
