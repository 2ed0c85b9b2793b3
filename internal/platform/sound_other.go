//go:build !linux && !darwin && !windows

package platform

func newSoundPlayer() SoundPlayer {
	return unsupportedPlayer{}
}
