package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/zhubert/chatmodal/internal/app"
	"github.com/zhubert/chatmodal/internal/config"
	"github.com/zhubert/chatmodal/internal/logger"
	"github.com/zhubert/chatmodal/internal/session"
)

var (
	debugMode             bool
	quietMode             bool
	configPath            string
	version, commit, date string
)

// Widget flags. Only flags set on the command line override the config
// file and environment.
var (
	flagAPIBase   string
	flagUserID    int
	flagSessionID string
	flagPageSize  int
	flagTheme     string
	flagNotify    bool
	flagNoPaging  bool
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "chatmodal",
	Short: "Legal assistant chat widget for the terminal",
	Long: `chatmodal runs the legal assistant chat widget in the terminal.

A launcher sits in the bottom-right corner; opening it shows the list of
your conversations next to the active transcript. Configuration comes from
~/.chatmodal/config.yaml, CHATMODAL_* environment variables (a .env file in
the working directory is honored) and the flags below.`,
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Only log warnings and errors")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.chatmodal/config.yaml)")

	addWidgetFlags(rootCmd)
}

// addWidgetFlags registers the flags shared by every command that mounts
// the widget.
func addWidgetFlags(c *cobra.Command) {
	f := c.Flags()
	f.StringVar(&flagAPIBase, "api-base", "", "Base URL of the chat backend")
	f.IntVar(&flagUserID, "user-id", 0, "Id of the signed-in user")
	f.StringVar(&flagSessionID, "session-id", "", "Open this session instead of the stored one")
	f.IntVar(&flagPageSize, "page-size", 0, "Messages per history page")
	f.StringVar(&flagTheme, "theme", "", "Color theme")
	f.BoolVar(&flagNotify, "notify", false, "Desktop notification when a reply arrives while collapsed")
	f.BoolVar(&flagNoPaging, "no-paging", false, "Only load the most recent history page")
}

func initConfig() {
	switch {
	case quietMode:
		logger.SetLevel(logger.LevelWarn)
	case debugMode:
		logger.SetDebug(true)
	}
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command
// context.
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("chatmodal %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("chatmodal %s\n", version)
}

// loadOptions reads .env, the config file and the environment, then applies
// the flags that were set on c.
func loadOptions(c *cobra.Command) (*config.Options, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}

	var (
		opts *config.Options
		err  error
	)
	if configPath != "" {
		opts, err = config.LoadFrom(configPath)
	} else {
		opts, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	applyFlags(c, opts)
	return opts, nil
}

func applyFlags(c *cobra.Command, opts *config.Options) {
	f := c.Flags()
	if f.Changed("api-base") {
		opts.SetBaseURL(flagAPIBase)
	}
	if f.Changed("user-id") {
		opts.UserID = flagUserID
	}
	if f.Changed("session-id") {
		opts.SessionID = flagSessionID
	}
	if f.Changed("page-size") {
		opts.History.PageSize = flagPageSize
	}
	if f.Changed("theme") {
		opts.Theme = flagTheme
	}
	if f.Changed("notify") {
		opts.NotificationsEnabled = flagNotify
	}
	if f.Changed("no-paging") {
		opts.History.Incremental = !flagNoPaging
	}
}

// openStorage opens the file that remembers the active session id.
func openStorage() (*config.Store, error) {
	path, err := config.StorePath()
	if err != nil {
		return nil, err
	}
	store, err := config.OpenStore(path)
	if err != nil {
		return nil, fmt.Errorf("error opening storage: %w", err)
	}
	return store, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w\n\nSet the backend with --api-base and --user-id, or run 'chatmodal demo'", err)
	}

	defer logger.Close()

	// Session persistence is best-effort.
	var storage session.Storage
	if store, err := openStorage(); err != nil {
		logger.WithComponent("cmd").Warn("storage unavailable, session id will not persist", "error", err)
		storage = config.NewMemoryStore()
	} else {
		storage = store
	}

	m := app.New(app.Options{Config: opts, Storage: storage, Version: version})
	p := tea.NewProgram(m, tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running widget: %w", err)
	}
	return nil
}
