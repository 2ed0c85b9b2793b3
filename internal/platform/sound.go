package platform

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// ErrNoPlayer indicates no audio command is available on this system.
var ErrNoPlayer = errors.New("no audio player available")

// SoundPlayer plays an audio file and returns when playback ends.
type SoundPlayer interface {
	PlayFile(ctx context.Context, path string) error
}

// NewSoundPlayer returns a platform-specific player.
func NewSoundPlayer() SoundPlayer {
	return newSoundPlayer()
}

type commandPlayer struct {
	name string
	args func(path string) []string
}

func (player *commandPlayer) PlayFile(ctx context.Context, path string) error {
	if err := exec.CommandContext(ctx, player.name, player.args(path)...).Run(); err != nil {
		return fmt.Errorf("%s: %w", player.name, err)
	}
	return nil
}

type unsupportedPlayer struct{}

func (unsupportedPlayer) PlayFile(context.Context, string) error {
	return ErrNoPlayer
}

func lookupPlayer(candidates ...string) (string, bool) {
	for _, candidate := range candidates {
		if path, err := exec.LookPath(candidate); err == nil {
			return path, true
		}
	}
	return "", false
}
