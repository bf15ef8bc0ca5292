package main

import (
	riskmapper "github.com/KalpaniNJ/Risk-Mapper"

	"github.com/spf13/cobra"
)

var (
	monthlyInputDir  string
	monthlyOutputDir string
	monthlyPrefix    string
)

var monthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Build per-month frequency rasters from dated GeoTIFFs",
	RunE:  runMonthly,
}

func init() {
	monthlyCmd.Flags().StringVarP(&monthlyInputDir, "input", "i", "", "directory of dated input rasters (recursive)")
	monthlyCmd.Flags().StringVarP(&monthlyOutputDir, "output", "o", "", "output directory")
	monthlyCmd.Flags().StringVar(&monthlyPrefix, "prefix", "", "output filename prefix")
	monthlyCmd.MarkFlagRequired("input")
	monthlyCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(monthlyCmd)
}

func runMonthly(cmd *cobra.Command, args []string) error {
	eng := riskmapper.NewEngine(riskmapper.NewRasterToolbox())
	rep, err := eng.RunMonthly(cmd.Context(), riskmapper.MonthlyConfig{
		InputDir:  monthlyInputDir,
		OutputDir: monthlyOutputDir,
		Prefix:    monthlyPrefix,
		TileSize:  tileSize,
		Progress:  printProgress,
	})
	printReport(rep)
	return err
}
