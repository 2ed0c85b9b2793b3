package platform

import "strings"

func newSoundPlayer() SoundPlayer {
	path, ok := lookupPlayer("powershell.exe", "pwsh.exe")
	if !ok {
		return unsupportedPlayer{}
	}
	return &commandPlayer{
		name: path,
		args: func(file string) []string {
			quoted := "'" + strings.ReplaceAll(file, "'", "''") + "'"
			return []string{"-NoProfile", "-NonInteractive", "-Command", "(New-Object Media.SoundPlayer " + quoted + ").PlaySync()"}
		},
	}
}
