package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/KevoDB/inspect/pkg/compress"
	"github.com/KevoDB/inspect/pkg/inspect"
)

// Command completer for readline
var completer = readline.NewPrefixCompleter(
	readline.PcItem("help"),
	readline.PcItem("info"),
	readline.PcItem("dump"),
	readline.PcItem("dump-full"),
	readline.PcItem("keys"),
	readline.PcItem("stats"),
	readline.PcItem("checksum"),
	readline.PcItem("wal-dump"),
	readline.PcItem("wal-verify"),
	readline.PcItem("filter"),
	readline.PcItem("list"),
	readline.PcItem("exit"),
)

const shellHelp = `
Commands:
  help                        - Show this help message
  info FILE                   - Show file size, block count and framing metadata
  dump FILE [limit]           - Dump records in arrival order
  dump-full FILE [VLOG]       - Dump with checksum verification and vlog resolution
  keys FILE [limit]           - List keys and the overall key range
  stats FILE                  - Aggregate per-record statistics
  checksum FILE               - Verify every block's checksum
  wal-dump FILE [limit]       - Dump WAL entries as PUT/DELETE operations
  wal-verify FILE             - Verify WAL integrity and the recovery boundary
  filter FILE                 - Decode the embedded filter block
  list DIR                    - List container files under a directory
  exit                        - Exit the shell
`

func newShellCmd(newSession func() *inspect.Session) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive inspection shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(newSession())
		},
	}
}

func runShell(s *inspect.Session) error {
	fmt.Printf("inspect version %s\n", version)
	fmt.Println("Enter help for usage hints.")

	historyFile := filepath.Join(os.TempDir(), ".inspect_history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "inspect> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()

	for {
		line, readErr := rl.Readline()
		if readErr != nil {
			if readErr == readline.ErrInterrupt {
				if len(line) == 0 {
					break
				}
				continue
			} else if readErr == io.EOF {
				fmt.Println("Goodbye!")
				break
			}
			fmt.Fprintf(os.Stderr, "Error reading input: %s\n", readErr)
			continue
		}

		if line == "" {
			continue
		}

		if done := dispatch(s, strings.Fields(line)); done {
			break
		}
	}
	return nil
}

// dispatch runs one shell command. Command errors are printed, never fatal:
// the whole point of the shell is poking at broken files.
func dispatch(s *inspect.Session, parts []string) (done bool) {
	if len(parts) == 0 {
		// A whitespace-only line splits to nothing.
		return false
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	var err error
	switch cmd {
	case "help", ".help":
		fmt.Print(shellHelp)

	case "exit", "quit", ".exit":
		fmt.Println("Goodbye!")
		return true

	case "info":
		if err = needArgs(args, 1, "info FILE"); err == nil {
			_, err = s.FileInfo(args[0])
		}

	case "dump":
		var limit int
		if limit, err = fileAndLimit(args, "dump FILE [limit]"); err == nil {
			_, err = s.Dump(args[0], limit)
		}

	case "dump-full":
		if err = needArgs(args, 1, "dump-full FILE [VLOG]"); err == nil {
			opts := inspect.DumpOptions{Codec: compress.None}
			if len(args) > 1 {
				opts.VLogPath = args[1]
			}
			_, err = s.DumpFull(args[0], opts)
		}

	case "keys":
		var limit int
		if limit, err = fileAndLimit(args, "keys FILE [limit]"); err == nil {
			_, err = s.Keys(args[0], limit)
		}

	case "stats":
		if err = needArgs(args, 1, "stats FILE"); err == nil {
			_, err = s.Stats(args[0])
		}

	case "checksum":
		if err = needArgs(args, 1, "checksum FILE"); err == nil {
			_, err = s.VerifyChecksums(args[0])
		}

	case "wal-dump":
		var limit int
		if limit, err = fileAndLimit(args, "wal-dump FILE [limit]"); err == nil {
			_, err = s.DumpWAL(args[0], limit)
		}

	case "wal-verify":
		if err = needArgs(args, 1, "wal-verify FILE"); err == nil {
			_, err = s.VerifyWAL(args[0])
		}

	case "filter":
		if err = needArgs(args, 1, "filter FILE"); err == nil {
			_, err = s.FilterStats(args[0])
		}

	case "list":
		if err = needArgs(args, 1, "list DIR"); err == nil {
			_, err = s.ListFiles(args[0])
		}

	default:
		fmt.Printf("Unknown command: %s (try help)\n", cmd)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return false
}

func needArgs(args []string, n int, usage string) error {
	if len(args) < n {
		return fmt.Errorf("usage: %s", usage)
	}
	return nil
}

// fileAndLimit parses the FILE [limit] argument shape shared by the dump
// variants. A zero limit means the default ceiling.
func fileAndLimit(args []string, usage string) (int, error) {
	if err := needArgs(args, 1, usage); err != nil {
		return 0, err
	}
	if len(args) < 2 {
		return 0, nil
	}
	limit, err := strconv.Atoi(args[1])
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("invalid limit %q: usage: %s", args[1], usage)
	}
	return limit, nil
}
