package main

import (
	riskmapper "github.com/KalpaniNJ/Risk-Mapper"

	"github.com/spf13/cobra"
)

var (
	sumInputDir string
	sumOutput   string
	sumDataType string
	sumCompress string
)

var sumCmd = &cobra.Command{
	Use:   "sum",
	Short: "Sum every GeoTIFF under a directory into one raster",
	RunE:  runSum,
}

func init() {
	sumCmd.Flags().StringVarP(&sumInputDir, "input", "i", "", "directory of input rasters (recursive)")
	sumCmd.Flags().StringVarP(&sumOutput, "output", "o", "", "output raster path")
	sumCmd.Flags().StringVar(&sumDataType, "dtype", "Float32", "output pixel type")
	sumCmd.Flags().StringVar(&sumCompress, "compress", "LZW", "output compression")
	sumCmd.MarkFlagRequired("input")
	sumCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(sumCmd)
}

func runSum(cmd *cobra.Command, args []string) error {
	dt, err := riskmapper.ParseDataType(sumDataType)
	if err != nil {
		return err
	}
	comp, err := riskmapper.ParseCompression(sumCompress)
	if err != nil {
		return err
	}
	eng := riskmapper.NewEngine(riskmapper.NewRasterToolbox())
	rep, err := eng.RunSummation(cmd.Context(), riskmapper.SummationConfig{
		InputDir:    sumInputDir,
		Output:      sumOutput,
		DataType:    dt,
		Compression: comp,
		TileSize:    tileSize,
		Progress:    printProgress,
	})
	printReport(rep)
	return err
}
