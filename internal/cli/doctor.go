package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/yildizm/ColorSeason/internal/client"
	"github.com/yildizm/ColorSeason/internal/config"
	"github.com/yildizm/ColorSeason/internal/emoji"
)

var doctorTimeout time.Duration

func newDoctorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, camera and service reachability",
		Long: `Check that the configuration loads and validates, that the camera device and
capture command are present, and that the color service answers its health
endpoint. Camera problems are reported as warnings because uploads still work
without a camera.

Examples:
  colorseason doctor
  COLORSEASON_SERVICE_BASE_URL=https://colors.example.com colorseason doctor`,
		Args: cobra.NoArgs,
		RunE: runDoctor,
	}

	cmd.Flags().DurationVar(&doctorTimeout, "timeout", 5*time.Second, "health check timeout")

	return cmd
}

func runDoctor(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := GetGlobalConfig()
	if err != nil {
		fmt.Fprintf(out, "%s Configuration: %v\n", emoji.GetEmoji("error"), err)
		return err
	}
	source := "built-in defaults"
	if cfgFile != "" {
		source = cfgFile
	} else if path, found := config.FindConfigFile(); found {
		source = path
	}
	fmt.Fprintf(out, "%s Configuration is valid (%s)\n", emoji.GetEmoji("success"), source)

	checkCamera(out, cfg)

	analyzer, err := client.NewAnalysisClient(clientConfig(cfg), newLogger("doctor"))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), doctorTimeout)
	defer cancel()

	status, err := analyzer.HealthCheck(ctx)
	if err != nil {
		fmt.Fprintf(out, "%s Service: %v\n", emoji.GetEmoji("error"), err)
		return fmt.Errorf("color service is not available at %s", cfg.Service.BaseURL)
	}

	fmt.Fprintf(out, "%s Service is healthy at %s\n", emoji.GetEmoji("health"), cfg.Service.BaseURL)
	keys := make([]string, 0, len(status))
	for k := range status {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(out, "   %s: %v\n", k, status[k])
	}
	return nil
}

func checkCamera(out io.Writer, cfg *config.Config) {
	if cfg.Camera.Device != "" {
		if f, err := os.Open(cfg.Camera.Device); err != nil {
			fmt.Fprintf(out, "%s Camera device %s: %v\n", emoji.GetEmoji("warning"), cfg.Camera.Device, err)
		} else {
			_ = f.Close()
			fmt.Fprintf(out, "%s Camera device %s is accessible\n", emoji.GetEmoji("camera"), cfg.Camera.Device)
		}
	}

	if len(cfg.Camera.Command) == 0 {
		fmt.Fprintf(out, "%s No capture command configured, the default is used\n", emoji.GetEmoji("info"))
		return
	}
	if path, err := exec.LookPath(cfg.Camera.Command[0]); err != nil {
		fmt.Fprintf(out, "%s Capture command %s not found\n", emoji.GetEmoji("warning"), cfg.Camera.Command[0])
	} else {
		fmt.Fprintf(out, "%s Capture command: %s\n", emoji.GetEmoji("success"), path)
	}
}
