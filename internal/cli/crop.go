package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/yildizm/ColorSeason/internal/capture"
	"github.com/yildizm/ColorSeason/internal/emoji"
)

var (
	cropRatio    float64
	cropNoMirror bool
	cropForce    bool
)

func newCropCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crop <input> <output.png>",
		Short: "Apply the capture crop to a still image",
		Long: `Crop a still image exactly as a camera capture would be cropped: the largest
centered square, shrunk to the crop ratio and mirrored, written as PNG.

Useful for checking what the classifier receives from a given frame.

Examples:
  colorseason crop frame.jpg cropped.png
  colorseason crop --ratio 1 --no-mirror frame.png full.png`,
		Args: cobra.ExactArgs(2),
		RunE: runCrop,
	}

	cmd.Flags().Float64Var(&cropRatio, "ratio", 0, "crop ratio in (0, 1]; defaults to capture.crop_ratio")
	cmd.Flags().BoolVar(&cropNoMirror, "no-mirror", false, "keep the original orientation")
	cmd.Flags().BoolVarP(&cropForce, "force", "f", false, "overwrite an existing output file")

	return cmd
}

func runCrop(cmd *cobra.Command, args []string) error {
	in, out := filepath.Clean(args[0]), filepath.Clean(args[1])

	cfg, err := GetGlobalConfig()
	if err != nil {
		return err
	}

	opts := capture.Options{Ratio: cfg.Capture.CropRatio, Mirror: cfg.Capture.Mirror}
	if cmd.Flag("ratio").Changed {
		if cropRatio <= 0 || cropRatio > 1 {
			return fmt.Errorf("ratio must be in (0, 1], got %v", cropRatio)
		}
		opts.Ratio = cropRatio
	}
	if cropNoMirror {
		opts.Mirror = false
	}

	if !cropForce && fileExists(out) {
		return fmt.Errorf("output file already exists at %s (use --force to overwrite)", out)
	}

	src, err := capture.ImageFileSource(in)
	if err != nil {
		return err
	}

	img, err := capture.NewEngine(opts).Capture(cmd.Context(), src)
	if err != nil {
		return err
	}

	if err := os.WriteFile(out, img.Data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Cropped %s to %s (%dx%d PNG)\n",
		emoji.GetEmoji("success"), in, out, img.Width, img.Height)
	return nil
}
