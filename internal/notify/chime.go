package notify

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"pomotray/internal/platform"
)

// Tone sequence of the completion chime: three dings sweeping down from
// 800 Hz to 400 Hz.
const (
	sampleRate    = 22050
	toneCount     = 3
	toneSpacing   = 400 * time.Millisecond
	toneLength    = 300 * time.Millisecond
	toneStartHz   = 800.0
	toneEndHz     = 400.0
	tonePeakGain  = 0.3
	toneFloorGain = 0.01
	toneAttack    = 10 * time.Millisecond
	playTimeout   = 5 * time.Second
)

// Chime plays the completion cue. Overlapping requests are dropped.
type Chime struct {
	player  platform.SoundPlayer
	dir     string
	logger  *slog.Logger
	playing atomic.Bool

	once    sync.Once
	path    string
	prepErr error
}

// NewChime creates a chime that writes its sound file under dir.
func NewChime(player platform.SoundPlayer, dir string, logger *slog.Logger) *Chime {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chime{player: player, dir: dir, logger: logger}
}

// Play starts playback in the background. Failures are logged and dropped.
func (chime *Chime) Play() {
	if !chime.playing.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer chime.playing.Store(false)
		if err := chime.play(); err != nil {
			chime.logger.Debug("chime: playback failed", "error", err)
		}
	}()
}

func (chime *Chime) play() error {
	chime.once.Do(func() {
		chime.path, chime.prepErr = chime.writeSound()
	})
	if chime.prepErr != nil {
		return chime.prepErr
	}
	ctx, cancel := context.WithTimeout(context.Background(), playTimeout)
	defer cancel()
	return chime.player.PlayFile(ctx, chime.path)
}

func (chime *Chime) writeSound() (string, error) {
	if err := os.MkdirAll(chime.dir, 0o755); err != nil {
		return "", fmt.Errorf("create chime directory: %w", err)
	}
	path := filepath.Join(chime.dir, "chime.wav")
	if err := os.WriteFile(path, ChimeWAV(), 0o644); err != nil {
		return "", fmt.Errorf("write chime: %w", err)
	}
	return path, nil
}

// ChimeWAV renders the chime as 16-bit mono PCM in a WAV container.
func ChimeWAV() []byte {
	samples := renderChime()

	var buffer bytes.Buffer
	dataSize := uint32(len(samples) * 2)
	buffer.WriteString("RIFF")
	_ = binary.Write(&buffer, binary.LittleEndian, 36+dataSize)
	buffer.WriteString("WAVE")
	buffer.WriteString("fmt ")
	_ = binary.Write(&buffer, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buffer, binary.LittleEndian, uint16(1))
	_ = binary.Write(&buffer, binary.LittleEndian, uint16(1))
	_ = binary.Write(&buffer, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&buffer, binary.LittleEndian, uint32(sampleRate*2))
	_ = binary.Write(&buffer, binary.LittleEndian, uint16(2))
	_ = binary.Write(&buffer, binary.LittleEndian, uint16(16))
	buffer.WriteString("data")
	_ = binary.Write(&buffer, binary.LittleEndian, dataSize)
	_ = binary.Write(&buffer, binary.LittleEndian, samples)
	return buffer.Bytes()
}

func renderChime() []int16 {
	total := toneSpacing*(toneCount-1) + toneLength
	samples := make([]int16, samplesFor(total))
	toneSamples := samplesFor(toneLength)
	attackSamples := samplesFor(toneAttack)

	for tone := 0; tone < toneCount; tone++ {
		offset := samplesFor(toneSpacing * time.Duration(tone))
		phase := 0.0
		for index := 0; index < toneSamples && offset+index < len(samples); index++ {
			progress := float64(index) / float64(toneSamples)
			frequency := toneStartHz * math.Pow(toneEndHz/toneStartHz, progress)
			phase += 2 * math.Pi * frequency / sampleRate

			gain := tonePeakGain * math.Pow(toneFloorGain/tonePeakGain, progress)
			if index < attackSamples {
				gain = tonePeakGain * float64(index) / float64(attackSamples)
			}
			samples[offset+index] = int16(gain * math.Sin(phase) * math.MaxInt16)
		}
	}
	return samples
}

func samplesFor(duration time.Duration) int {
	return int(duration.Seconds() * sampleRate)
}
