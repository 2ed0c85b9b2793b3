package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"pomotray/internal/config"
	"pomotray/internal/core/session"
	"pomotray/internal/export"
	"pomotray/internal/platform"
	"pomotray/internal/ui/stats"
)

const usage = `Usage: pomotray [command]

Without a command the tray app starts.

Commands:
  stats                          print statistics for the recorded sessions
  export csv|summary|json [file] write history to file or stdout
  clear-history [--yes]          delete all recorded sessions
  purge                          remove sessions older than the retention window

clear-history and purge refuse to run while the tray app is open.
  help                           show this message
`

// instanceName is the single-instance lock shared with the tray app.
var instanceName = config.AppName

// runCommand executes a headless subcommand and returns the exit code.
func runCommand(args []string, cfg config.Config, in io.Reader, out, errOut io.Writer) int {
	logger := slog.Default()

	switch args[0] {
	case "help", "-h", "--help":
		fmt.Fprint(out, usage)
		return 0
	case "stats":
		history := openStores(cfg, logger).history
		fmt.Fprint(out, stats.Text(stats.NewReport(history.All(), time.Now())))
		return 0
	case "export":
		if len(args) < 2 || len(args) > 3 {
			fmt.Fprint(errOut, usage)
			return 2
		}
		path := ""
		if len(args) == 3 {
			path = args[2]
		}
		if err := exportHistory(openStores(cfg, logger).history.All(), args[1], path, out); err != nil {
			fmt.Fprintf(errOut, "export: %v\n", err)
			return 1
		}
		return 0
	case "clear-history":
		return withExclusiveHistory(errOut, func() int {
			confirmed := len(args) > 1 && args[1] == "--yes"
			if !confirmed && !confirm(in, out, "Delete all session history? This cannot be undone. [y/N] ") {
				fmt.Fprintln(out, "Aborted.")
				return 1
			}
			if err := openStores(cfg, logger).history.Clear(); err != nil {
				fmt.Fprintf(errOut, "clear history: %v\n", err)
				return 1
			}
			fmt.Fprintln(out, "History cleared.")
			return 0
		})
	case "purge":
		return withExclusiveHistory(errOut, func() int {
			history := openStores(cfg, logger).history
			removed, err := newRetention(cfg, history, logger).Sweep()
			if err != nil {
				fmt.Fprintf(errOut, "purge: %v\n", err)
				return 1
			}
			fmt.Fprintf(out, "Removed %d sessions.\n", removed)
			return 0
		})
	default:
		fmt.Fprintf(errOut, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}
}

// withExclusiveHistory runs rewrite while holding the single-instance lock. A
// running tray app keeps the history in memory and would write the old
// sessions back on its next save.
func withExclusiveHistory(errOut io.Writer, rewrite func() int) int {
	guard, err := platform.AcquireSingleInstance(instanceName)
	if err != nil {
		fmt.Fprintln(errOut, "pomotray is running; quit it before changing the history")
		return 1
	}
	defer func() {
		_ = guard.Release()
	}()
	return rewrite()
}

func exportHistory(sessions []session.Session, format, path string, out io.Writer) error {
	if err := export.CheckFormat(format); err != nil {
		return err
	}
	if path == "" {
		return export.Write(out, format, sessions)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := export.Write(file, format, sessions); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	fmt.Fprintf(out, "Exported %d sessions to %s\n", len(sessions), path)
	return nil
}

// confirm asks a yes/no question. Anything but y or yes is a no.
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
