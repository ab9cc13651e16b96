package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/marmos91/dittodrive/pkg/config"
)

var (
	logsFollow bool
	logsLines  int
	logsSince  string
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Tail server logs",
	Long: `Print the most recent entries from the server log file, optionally
following new output as it is written.

Requires 'logging.output' in the configuration to point at a file; when the
server logs to stdout or stderr there is nothing to tail.

Examples:
  # Last 100 lines (default)
  dittodrive logs

  # Last 50 lines
  dittodrive logs -n 50

  # Follow new output
  dittodrive logs -f

  # Entries at or after a point in time
  dittodrive logs --since "2024-01-15T10:00:00Z"`,
	RunE: runLogs,
}

func init() {
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow log output")
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 100, "Number of lines to show")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "Only show entries at or after this RFC3339 timestamp")
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	target := cfg.Logging.Output
	if target == "stdout" || target == "stderr" {
		return fmt.Errorf("server logs to %s, not a file; set 'logging.output' to a file path to use this command", target)
	}
	if _, err := os.Stat(target); err != nil {
		return fmt.Errorf("log file %s is not readable (has the server started?): %w", target, err)
	}

	var since time.Time
	if logsSince != "" {
		since, err = time.Parse(time.RFC3339, logsSince)
		if err != nil {
			return fmt.Errorf("--since must be RFC3339: %w", err)
		}
	}

	if err := printTail(target, logsLines, since); err != nil {
		return err
	}
	if !logsFollow {
		return nil
	}
	return followLog(target)
}

// printTail prints the last n lines of the log file, skipping entries
// older than since when since is set.
func printTail(path string, n int, since time.Time) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = f.Close() }()

	// Ring buffer of the trailing n lines. Scanner buffer is raised because
	// JSON log lines routinely exceed the 64K default.
	tail := make([]string, 0, n)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if !since.IsZero() {
			if ts := lineTimestamp(line); !ts.IsZero() && ts.Before(since) {
				continue
			}
		}
		if len(tail) == n {
			copy(tail, tail[1:])
			tail[n-1] = line
		} else {
			tail = append(tail, line)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read log file: %w", err)
	}

	for _, line := range tail {
		fmt.Println(line)
	}
	return nil
}

// followLog blocks printing new log lines until interrupted.
func followLog(path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()
	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watch log file: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = f.Close() }()
	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("seek log file: %w", err)
	}
	r := bufio.NewReader(f)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	fmt.Fprintf(os.Stderr, "Following %s (Ctrl+C to stop)...\n", path)

	for {
		select {
		case <-stop:
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) {
				continue
			}
			for {
				line, err := r.ReadString('\n')
				if err != nil {
					break
				}
				fmt.Print(line)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher: %w", err)
		}
	}
}

// lineTimestamp pulls a timestamp out of a log line. Handles an RFC3339
// prefix (text handler) and a JSON "time" field (JSON handler); returns the
// zero time when neither matches.
func lineTimestamp(line string) time.Time {
	for _, width := range []int{25, 20} {
		if len(line) >= width {
			if t, err := time.Parse(time.RFC3339, line[:width]); err == nil {
				return t
			}
		}
	}

	const key = `"time":"`
	idx := strings.Index(line, key)
	if idx < 0 {
		return time.Time{}
	}
	rest := line[idx+len(key):]
	end := strings.IndexByte(rest, '"')
	if end < 0 {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, rest[:end]); err == nil {
		return t
	}
	return time.Time{}
}
