package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ayusman/bodyscan/internal/app"
	"github.com/ayusman/bodyscan/internal/landmark"
)

var (
	frontPath string
	sidePath  string
	heightCm  float64
	asJSON    bool
	record    bool
)

var planarCmd = &cobra.Command{
	Use:   "planar",
	Short: "Estimate measurements from front and side landmark files",
	Long: `Estimate measurements from 2D pose landmarks. The front file is required;
a side (profile) file replaces the assumed torso depths with observed ones.
Landmark files hold MediaPipe (33 points), COCO (17 points) or named joints.`,
	Args: cobra.NoArgs,
	RunE: runPlanar,
}

func init() {
	rootCmd.AddCommand(planarCmd)

	planarCmd.Flags().StringVar(&frontPath, "front", "", "front view landmark JSON")
	planarCmd.Flags().StringVar(&sidePath, "side", "", "side view landmark JSON")
	planarCmd.Flags().Float64Var(&heightCm, "height", 0, "subject height in cm (default from config, 170)")
	planarCmd.Flags().BoolVar(&asJSON, "json", false, "print the scan as JSON")
	planarCmd.Flags().BoolVar(&record, "save", false, "record the scan in the history")
	planarCmd.MarkFlagRequired("front")
}

func readLandmarks(path string) (*landmark.Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	set, err := landmark.Decode(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return set, nil
}

func runPlanar(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	req := app.PlanarRequest{ReferenceHeightCm: heightCm}
	if req.Front, err = readLandmarks(frontPath); err != nil {
		return err
	}
	if sidePath != "" {
		if req.Side, err = readLandmarks(sidePath); err != nil {
			return err
		}
	}

	a, err := openApp(cfg, logger, record)
	if err != nil {
		return err
	}
	defer a.Close()

	sc, err := a.EstimatePlanar(cmd.Context(), req)
	if err != nil {
		return err
	}
	return printScan(cmd.OutOrStdout(), sc, asJSON)
}
