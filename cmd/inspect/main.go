// Command inspect is the offline inspection and integrity-verification tool
// for container files. It reads table files, value logs and write-ahead logs
// byte-by-byte, without opening a live store, so it is safe to point at the
// files of a crashed or suspect deployment.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KevoDB/inspect/pkg/common/log"
	"github.com/KevoDB/inspect/pkg/compress"
	"github.com/KevoDB/inspect/pkg/inspect"
)

const version = "1.0.0"

// errCorrupted signals a verification failure after the report has already
// been printed; main exits non-zero without printing it again.
var errCorrupted = errors.New("corruption detected")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errCorrupted) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "inspect",
		Short:         "Offline inspection and integrity verification for container files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	newSession := func() *inspect.Session {
		logger := log.NewStandardLogger()
		if verbose {
			logger.SetLevel(log.LevelDebug)
		}
		return inspect.NewSession(os.Stdout, logger)
	}

	root.AddCommand(
		newInfoCmd(newSession),
		newDumpCmd(newSession),
		newDumpFullCmd(newSession),
		newKeysCmd(newSession),
		newStatsCmd(newSession),
		newChecksumCmd(newSession),
		newWALDumpCmd(newSession),
		newWALVerifyCmd(newSession),
		newFilterCmd(newSession),
		newListCmd(newSession),
		newShellCmd(newSession),
		newVersionCmd(),
	)
	return root
}

func newInfoCmd(newSession func() *inspect.Session) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Show file size, block count and framing metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := newSession().FileInfo(args[0])
			return err
		},
	}
}

func newDumpCmd(newSession func() *inspect.Session) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Dump records in arrival order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := newSession().Dump(args[0], limit)
			return err
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "max entries to print (default 1000)")
	return cmd
}

func newDumpFullCmd(newSession func() *inspect.Session) *cobra.Command {
	var limit int
	var vlogPath string
	var codecName string
	cmd := &cobra.Command{
		Use:   "dump-full <file>",
		Short: "Dump records with inline checksum verification and value-log resolution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := compress.ParseType(codecName)
			if err != nil {
				return err
			}
			res, err := newSession().DumpFull(args[0], inspect.DumpOptions{
				VLogPath: vlogPath,
				Limit:    limit,
				Codec:    codec,
			})
			if err != nil {
				return err
			}
			if !res.OK() {
				return errCorrupted
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "max entries to print (default 1000)")
	cmd.Flags().StringVar(&vlogPath, "vlog", "", "companion value-log file to resolve external values from")
	cmd.Flags().StringVar(&codecName, "codec", "none", "decompress resolved values: none|snappy|zstd")
	return cmd
}

func newKeysCmd(newSession func() *inspect.Session) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "keys <file>",
		Short: "List keys and the overall key range",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := newSession().Keys(args[0], limit)
			return err
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "max keys to print (default 1000)")
	return cmd
}

func newStatsCmd(newSession func() *inspect.Session) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <file>",
		Short: "Aggregate per-record statistics across the whole file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := newSession().Stats(args[0])
			return err
		},
	}
}

func newChecksumCmd(newSession func() *inspect.Session) *cobra.Command {
	return &cobra.Command{
		Use:   "checksum <file>",
		Short: "Verify every block's checksum",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := newSession().VerifyChecksums(args[0])
			if err != nil {
				return err
			}
			if !res.OK() {
				return errCorrupted
			}
			return nil
		},
	}
}

func newWALDumpCmd(newSession func() *inspect.Session) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "wal-dump <file>",
		Short: "Dump write-ahead log entries as the operations they replay to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := newSession().DumpWAL(args[0], limit)
			return err
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "max entries to print (default 1000)")
	return cmd
}

func newWALVerifyCmd(newSession func() *inspect.Session) *cobra.Command {
	return &cobra.Command{
		Use:   "wal-verify <file>",
		Short: "Verify write-ahead log integrity and report the recovery boundary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := newSession().VerifyWAL(args[0])
			if err != nil {
				return err
			}
			if !res.OK() {
				return errCorrupted
			}
			return nil
		},
	}
}

func newFilterCmd(newSession func() *inspect.Session) *cobra.Command {
	return &cobra.Command{
		Use:   "filter <file>",
		Short: "Decode the embedded filter block and report its health metrics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := newSession().FilterStats(args[0])
			return err
		},
	}
}

func newListCmd(newSession func() *inspect.Session) *cobra.Command {
	return &cobra.Command{
		Use:   "list <dir>",
		Short: "List container files under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := newSession().ListFiles(args[0])
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tool version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("inspect version %s\n", version)
		},
	}
}
