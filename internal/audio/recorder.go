package audio

import (
	"fmt"
	"log/slog"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	recorderBitDepth  = 16
	recorderAmplitude = 8000
	wavFormatPCM      = 1

	defaultFrameRate = 60
)

// Recorder buffers the tone in memory and writes it to a WAV file when
// closed. It is meant for testing ROMs rather than long sessions.
type Recorder struct {
	path      string
	frameRate int
	tone      *tone
	samples   []int
}

// NewRecorder creates a recorder that receives one SetTone call per frame
// at frameRate frames per second. A non-positive rate means 60.
func NewRecorder(path string, frameRate int) *Recorder {
	if frameRate <= 0 {
		frameRate = defaultFrameRate
	}

	return &Recorder{
		path:      path,
		frameRate: frameRate,
		tone:      newTone(SampleRate, ToneHz),
	}
}

// SetTone appends one frame worth of samples.
func (r *Recorder) SetTone(on bool) {
	n := SampleRate / r.frameRate
	for i := 0; i < n; i++ {
		r.samples = append(r.samples, int(r.tone.next(on)*recorderAmplitude))
	}
}

// Samples returns the number of buffered samples.
func (r *Recorder) Samples() int {
	return len(r.samples)
}

// Close writes the buffered samples.
func (r *Recorder) Close() (rerr error) {
	f, err := os.Create(r.path)
	if err != nil {
		return fmt.Errorf("wav recorder: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("wav recorder: %w", err)
		}
	}()

	enc := wav.NewEncoder(f, SampleRate, recorderBitDepth, 1, wavFormatPCM)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: SampleRate},
		Data:           r.samples,
		SourceBitDepth: recorderBitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wav recorder: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wav recorder: %w", err)
	}

	slog.Info("wav recorder: audio written", "path", r.path, "samples", len(r.samples))
	return nil
}
