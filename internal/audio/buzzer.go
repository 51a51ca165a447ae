package audio

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

const volume = 0.15

// Buzzer plays the tone through oto while it is switched on. The oto player
// pulls samples from its own goroutine; the on/off state is shared
// atomically.
type Buzzer struct {
	ctx    *oto.Context
	player *oto.Player

	on    atomic.Bool
	mutex sync.Mutex // guards tone, which is only touched by Read
	tone  *tone
}

func NewBuzzer() (*Buzzer, error) {
	op := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio context: %w", err)
	}
	<-ready

	b := &Buzzer{
		ctx:  ctx,
		tone: newTone(SampleRate, ToneHz),
	}
	b.player = ctx.NewPlayer(b)
	b.player.Play()
	slog.Debug("audio: buzzer ready", "rate", SampleRate)

	return b, nil
}

// SetTone switches the tone on or off.
func (b *Buzzer) SetTone(on bool) {
	b.on.Store(on)
}

// Read implements io.Reader for the oto player.
func (b *Buzzer) Read(p []byte) (int, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	on := b.on.Load()
	n := len(p) / 4
	for i := 0; i < n; i++ {
		sample := b.tone.next(on) * volume
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(sample))
	}

	return n * 4, nil
}

func (b *Buzzer) Close() error {
	if err := b.player.Close(); err != nil {
		return fmt.Errorf("failed to close audio player: %w", err)
	}
	return nil
}
