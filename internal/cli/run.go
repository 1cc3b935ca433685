package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/yildizm/ColorSeason/internal/capture"
	"github.com/yildizm/ColorSeason/internal/client"
	"github.com/yildizm/ColorSeason/internal/config"
	"github.com/yildizm/ColorSeason/internal/logger"
	"github.com/yildizm/ColorSeason/internal/ui"
	"github.com/yildizm/ColorSeason/internal/workflow"
)

var runTheme string

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the interactive capture workflow",
		Long: `Start the interactive terminal UI: capture a portrait with the camera or pick
an image file, review it, and get your color season with matching outfits.

This is also what runs when colorseason is started without a subcommand.

Examples:
  colorseason
  colorseason run --theme high-contrast
  COLORSEASON_SERVICE_BASE_URL=https://colors.example.com colorseason run`,
		Args: cobra.NoArgs,
		RunE: runInteractive,
	}

	cmd.Flags().StringVar(&runTheme, "theme", "", "UI theme (default, high-contrast, minimal)")

	return cmd
}

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := GetGlobalConfig()
	if err != nil {
		return err
	}

	closeLog, err := redirectLogs(cfg.Output.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	theme, err := selectTheme(cfg)
	if err != nil {
		return err
	}

	ctrl, err := newController(cfg)
	if err != nil {
		return err
	}

	return ui.Run(ctrl, theme)
}

// newController wires the workflow controller to the real camera, engine,
// upload checks and service clients
func newController(cfg *config.Config) (*workflow.Controller, error) {
	log := newLogger("workflow")

	analyzer, err := client.NewAnalysisClient(clientConfig(cfg), log.WithComponent("analysis"))
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis client: %w", err)
	}
	outfits, err := client.NewOutfitClient(clientConfig(cfg), log.WithComponent("outfits"))
	if err != nil {
		return nil, fmt.Errorf("failed to create outfit client: %w", err)
	}

	wcfg := workflow.Config{
		CountdownSeconds:  cfg.Capture.CountdownSeconds,
		CountdownInterval: cfg.Capture.CountdownInterval,
		PageSize:          cfg.Outfits.PageSize,
		ServiceURL:        cfg.Service.BaseURL,
	}

	return workflow.New(wcfg, workflow.Deps{
		Camera:   capture.NewCommandCamera(cfg.Camera.Device, cfg.Camera.Command),
		Engine:   newEngine(cfg),
		Uploads:  newValidator(cfg),
		Analyzer: analyzer,
		Outfits:  outfits,
		Log:      log,
	}), nil
}

// redirectLogs keeps log lines off the alternate screen
func redirectLogs(path string) (func(), error) {
	if path == "" {
		logger.SetOutput(io.Discard)
		return func() { logger.SetOutput(os.Stderr) }, nil
	}

	path = config.ExpandPath(path)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
	}
	// #nosec G304 - path comes from the user's own configuration
	f, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger.SetOutput(f)

	return func() {
		logger.SetOutput(os.Stderr)
		_ = f.Close()
	}, nil
}

func selectTheme(cfg *config.Config) (ui.Theme, error) {
	name := cfg.Output.Theme
	if runTheme != "" {
		name = runTheme
	}
	if !colorEnabled(cfg) {
		name = "minimal"
	}
	theme, ok := ui.ThemeByName(name)
	if !ok {
		return ui.Theme{}, fmt.Errorf("unknown theme: %s (available: %v)", name, ui.GetAvailableThemes())
	}
	return theme, nil
}
