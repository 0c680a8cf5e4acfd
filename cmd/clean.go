package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhubert/chatmodal/internal/config"
	"github.com/zhubert/chatmodal/internal/logger"
	"github.com/zhubert/chatmodal/internal/session"
)

var skipConfirm bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Forget the stored session and remove log files",
	Long: `Removes the remembered session id, so the next start opens a fresh
conversation, and deletes chatmodal log files. Conversations on the backend
are not touched.

It will prompt for confirmation before proceeding unless the --yes flag is used.`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	return runCleanWithReader(cmd.InOrStdin(), cmd.OutOrStdout())
}

// runCleanWithReader allows injecting input and output for testing
func runCleanWithReader(input io.Reader, out io.Writer) error {
	opts, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	storage, err := openStorage()
	if err != nil {
		return err
	}

	sessionID, hasSession := storage.Get(opts.StorageKey)
	logFiles, _ := logger.LogFiles()

	if !hasSession && len(logFiles) == 0 {
		fmt.Fprintln(out, "Nothing to clean.")
		return nil
	}

	fmt.Fprintln(out, "This will clean:")
	if hasSession {
		fmt.Fprintf(out, "  - stored session %s\n", sessionID)
	}
	if len(logFiles) > 0 {
		fmt.Fprintf(out, "  - %d log file(s)\n", len(logFiles))
	}

	if !skipConfirm {
		if !confirm(input, out, "Continue?") {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	if hasSession {
		if err := session.NewStore(storage, opts.StorageKey).Forget(); err != nil {
			return fmt.Errorf("error forgetting session: %w", err)
		}
	}
	logsCleared, err := logger.ClearLogs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: error clearing logs: %v\n", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Cleaned:")
	if hasSession {
		fmt.Fprintln(out, "  - stored session forgotten")
	}
	if logsCleared > 0 {
		fmt.Fprintf(out, "  - %d log file(s) removed\n", logsCleared)
	}
	return nil
}

// confirm prompts the user for y/n confirmation
func confirm(input io.Reader, out io.Writer, prompt string) bool {
	reader := bufio.NewReader(input)
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
