package main

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ayusman/bodyscan/internal/app"
	"github.com/ayusman/bodyscan/internal/depthmap"
	"github.com/ayusman/bodyscan/internal/skeleton"
)

var (
	framesPath string
	depthDir   string
)

var volumetricCmd = &cobra.Command{
	Use:   "volumetric",
	Short: "Estimate measurements from a rotation capture",
	Long: `Estimate measurements from skeleton frames recorded while the subject
turned in front of a depth camera. Depth grids may be embedded in the frames or
referenced as image files through "depth_file"; relative file names resolve
against --depth-dir, or the directory of the frames file.`,
	Args: cobra.NoArgs,
	RunE: runVolumetric,
}

func init() {
	rootCmd.AddCommand(volumetricCmd)

	volumetricCmd.Flags().StringVar(&framesPath, "frames", "", "skeleton frames JSON")
	volumetricCmd.Flags().StringVar(&depthDir, "depth-dir", "", "directory holding depth images")
	volumetricCmd.Flags().BoolVar(&asJSON, "json", false, "print the scan as JSON")
	volumetricCmd.Flags().BoolVar(&record, "save", false, "record the scan in the history")
	volumetricCmd.MarkFlagRequired("frames")
}

func readFrames(path string) ([]skeleton.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	frames, err := skeleton.DecodeFrames(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return frames, nil
}

func runVolumetric(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	frames, err := readFrames(framesPath)
	if err != nil {
		return err
	}

	dir := depthDir
	if dir == "" {
		dir = filepath.Dir(framesPath)
	}
	n, err := depthmap.Attach(frames, dir, cfg.Depth.Scale, cfg.Depth.MedianKernel)
	if err != nil {
		return errors.Wrap(err, "load depth images")
	}
	if n > 0 {
		logger.Infow("loaded depth images", "count", n, "dir", dir)
	}

	a, err := openApp(cfg, logger, record)
	if err != nil {
		return err
	}
	defer a.Close()

	sc, err := a.EstimateVolumetric(cmd.Context(), app.VolumetricRequest{Frames: frames})
	if err != nil {
		return err
	}
	return printScan(cmd.OutOrStdout(), sc, asJSON)
}
