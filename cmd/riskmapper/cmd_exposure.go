package main

import (
	riskmapper "github.com/KalpaniNJ/Risk-Mapper"

	"github.com/spf13/cobra"
)

var (
	exposureBinaryDir string
	exposureMask      string
	exposureOutputDir string
	exposurePrefix    string
)

var exposureCmd = &cobra.Command{
	Use:   "exposure",
	Short: "Multiply yearly binary hazard rasters with an asset mask",
	RunE:  runExposure,
}

func init() {
	exposureCmd.Flags().StringVarP(&exposureBinaryDir, "input", "i", "", "directory of binary hazard rasters")
	exposureCmd.Flags().StringVarP(&exposureMask, "mask", "m", "", "asset mask raster path")
	exposureCmd.Flags().StringVarP(&exposureOutputDir, "output", "o", "", "output directory")
	exposureCmd.Flags().StringVar(&exposurePrefix, "prefix", "", "output filename prefix")
	exposureCmd.MarkFlagRequired("input")
	exposureCmd.MarkFlagRequired("mask")
	exposureCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(exposureCmd)
}

func runExposure(cmd *cobra.Command, args []string) error {
	eng := riskmapper.NewEngine(riskmapper.NewRasterToolbox())
	rep, err := eng.RunExposure(cmd.Context(), riskmapper.ExposureConfig{
		BinaryDir:  exposureBinaryDir,
		MaskRaster: exposureMask,
		OutputDir:  exposureOutputDir,
		Prefix:     exposurePrefix,
		TileSize:   tileSize,
		Progress:   printProgress,
	})
	printReport(rep)
	return err
}
