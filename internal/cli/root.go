package cli

import (
	"context"
	"fmt"
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tgienger/focusflow/internal/assistant"
	"github.com/tgienger/focusflow/internal/chat"
	"github.com/tgienger/focusflow/internal/config"
	"github.com/tgienger/focusflow/internal/db"
	"github.com/tgienger/focusflow/internal/focus"
	"github.com/tgienger/focusflow/internal/planner"
	"github.com/tgienger/focusflow/internal/store"
	"github.com/tgienger/focusflow/internal/ui"
)

var (
	configPath string
	logFile    string
)

var rootCmd = &cobra.Command{
	Use:   "focusflow",
	Short: "Task manager and focus timer for tangled heads",
	Long: `FocusFlow breaks big projects into small steps, turns brain dumps into
prioritized tasks and keeps a pomodoro timer running while you work.

Tasks live in memory and are gone when you quit.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/focusflow/config.yaml)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "write diagnostics to this file")
}

// SetVersion fills in the --version output with build information
func SetVersion(version, commit, date string) {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func run(cmd *cobra.Command, args []string) error {
	if err := config.LoadEnv(".env"); err != nil {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}

	closeLog, err := setupLogging(cfg.Log.File)
	if err != nil {
		return err
	}
	defer closeLog()

	ledger, err := db.New()
	if err != nil {
		return fmt.Errorf("initializing session ledger: %w", err)
	}
	defer ledger.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	timer := focus.NewService(focus.WithRecorder(ledger))
	go timer.Run(ctx)

	client := assistant.NewClient(cfg.AssistantClientConfig())
	if cfg.APIKey() == "" {
		log.Printf("no API key in $%s; assistant features will fail until it is set", cfg.Assistant.APIKeyEnv)
	}

	tasks := store.New()
	app := ui.NewApp(ui.Deps{
		Store:   tasks,
		Timer:   timer,
		Planner: planner.New(client, tasks),
		Chat:    chat.NewSession(client),
		Ledger:  ledger,
	})
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running application: %w", err)
	}
	return nil
}

// setupLogging sends the standard logger to path, or discards it when path
// is empty so nothing draws over the TUI
func setupLogging(path string) (func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := tea.LogToFile(path, "focusflow")
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return func() { f.Close() }, nil
}
