package main

import (
	riskmapper "github.com/KalpaniNJ/Risk-Mapper"

	"github.com/spf13/cobra"
)

var (
	binaryInput     string
	binaryOutput    string
	binaryThreshold float64
	binaryCompress  string
)

var binaryCmd = &cobra.Command{
	Use:   "binary",
	Short: "Binarize a raster against a threshold",
	RunE:  runBinary,
}

func init() {
	binaryCmd.Flags().StringVarP(&binaryInput, "input", "i", "", "input raster path")
	binaryCmd.Flags().StringVarP(&binaryOutput, "output", "o", "", "output raster path")
	binaryCmd.Flags().Float64VarP(&binaryThreshold, "threshold", "t", 0, "pixels above this value become 1")
	binaryCmd.Flags().StringVar(&binaryCompress, "compress", "LZW", "output compression")
	binaryCmd.MarkFlagRequired("input")
	binaryCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(binaryCmd)
}

func runBinary(cmd *cobra.Command, args []string) error {
	comp, err := riskmapper.ParseCompression(binaryCompress)
	if err != nil {
		return err
	}
	eng := riskmapper.NewEngine(riskmapper.NewRasterToolbox())
	return eng.RunBinary(cmd.Context(), riskmapper.BinaryConfig{
		Input:       binaryInput,
		Output:      binaryOutput,
		Threshold:   binaryThreshold,
		Compression: comp,
		TileSize:    tileSize,
		Progress: func(f float64) {
			printProgress("binary", f)
		},
	})
}
