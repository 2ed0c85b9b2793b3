package platform

func newSoundPlayer() SoundPlayer {
	path, ok := lookupPlayer("afplay")
	if !ok {
		return unsupportedPlayer{}
	}
	return &commandPlayer{
		name: path,
		args: func(file string) []string { return []string{file} },
	}
}
