package sound

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
)

const (
	sampleRate     = beep.SampleRate(44100)
	chimeFrequency = 880.0
	chimeDuration  = 3 * time.Second
	chimeStartGain = 0.3
	chimeEndGain   = 0.01
)

// Config controls the completion chime.
type Config struct {
	Enabled bool
	// Volume is a base-2 exponent: 0 plays at the synthesized level, -1 at half.
	Volume float64
}

// Chime plays the completion cue through the default audio device.
type Chime struct {
	mu       sync.Mutex
	config   Config
	initOnce sync.Once
	initErr  error
}

// NewChime creates a chime. The speaker is opened on the first Play.
func NewChime(config Config) *Chime {
	return &Chime{config: config}
}

// UpdateConfig replaces the chime settings.
func (chime *Chime) UpdateConfig(config Config) {
	chime.mu.Lock()
	chime.config = config
	chime.mu.Unlock()
}

// Play starts the chime and returns without waiting for it to finish.
func (chime *Chime) Play() error {
	chime.mu.Lock()
	config := chime.config
	chime.mu.Unlock()
	if !config.Enabled {
		return nil
	}

	chime.initOnce.Do(func() {
		chime.initErr = speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	})
	if chime.initErr != nil {
		return fmt.Errorf("init speaker: %w", chime.initErr)
	}

	speaker.Play(&effects.Volume{
		Streamer: NewTone(sampleRate, chimeFrequency, chimeDuration),
		Base:     2,
		Volume:   config.Volume,
		Silent:   false,
	})
	return nil
}

// Tone is a sine wave whose gain falls exponentially from 0.3 to 0.01.
type Tone struct {
	sampleRate beep.SampleRate
	frequency  float64
	total      int
	position   int
}

// NewTone creates a fading sine tone lasting duration.
func NewTone(rate beep.SampleRate, frequency float64, duration time.Duration) *Tone {
	return &Tone{
		sampleRate: rate,
		frequency:  frequency,
		total:      rate.N(duration),
	}
}

// Stream implements beep.Streamer.
func (tone *Tone) Stream(samples [][2]float64) (int, bool) {
	if tone.position >= tone.total {
		return 0, false
	}
	n := 0
	for i := range samples {
		if tone.position >= tone.total {
			break
		}
		value := tone.gain() * math.Sin(2*math.Pi*tone.frequency*float64(tone.position)/float64(tone.sampleRate))
		samples[i][0] = value
		samples[i][1] = value
		tone.position++
		n++
	}
	return n, true
}

// Err implements beep.Streamer.
func (tone *Tone) Err() error {
	return nil
}

// Len implements beep.StreamSeeker.
func (tone *Tone) Len() int {
	return tone.total
}

// Position implements beep.StreamSeeker.
func (tone *Tone) Position() int {
	return tone.position
}

// Seek implements beep.StreamSeeker.
func (tone *Tone) Seek(p int) error {
	if p < 0 || p > tone.total {
		return fmt.Errorf("seek tone: position %d out of range [0, %d]", p, tone.total)
	}
	tone.position = p
	return nil
}

func (tone *Tone) gain() float64 {
	if tone.total <= 1 {
		return chimeStartGain
	}
	progress := float64(tone.position) / float64(tone.total-1)
	return chimeStartGain * math.Pow(chimeEndGain/chimeStartGain, progress)
}
