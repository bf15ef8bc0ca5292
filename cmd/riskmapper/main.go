package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	riskmapper "github.com/KalpaniNJ/Risk-Mapper"
	"github.com/KalpaniNJ/Risk-Mapper/log"

	"github.com/spf13/cobra"
)

var (
	verbose  bool
	tileSize int
)

var rootCmd = &cobra.Command{
	Use:   "riskmapper",
	Short: "Block-wise raster aggregation toolkit for disaster risk mapping",
	Long: `riskmapper aggregates stacks of single-band GeoTIFF rasters into
frequency, exposure and risk layers, processing them block by block so
that rasters far larger than memory stay tractable.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.Init(verbose)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		log.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().IntVar(&tileSize, "tile-size", riskmapper.DEFAULT_TILE_SIZE, "processing block size in pixels")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printProgress(unit string, fraction float64) {
	fmt.Printf("\r%s: %3.0f%%", unit, fraction*100)
	if fraction >= 1 {
		fmt.Println()
	}
}

func printReport(rep riskmapper.Report) {
	for _, p := range rep.Produced {
		fmt.Println("produced:", p)
	}
	for _, s := range rep.Skipped {
		fmt.Println("skipped:", s)
	}
	for _, f := range rep.Failed {
		fmt.Printf("failed: %s: %v\n", f.Key, f.Err)
	}
	if rep.Cancelled {
		fmt.Println("run cancelled")
	}
}
