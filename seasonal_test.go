package riskmapper

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSeasonal(t *testing.T) {
	var (
		dir   = t.TempDir()
		files = touchFiles(t, dir,
			"flood_2022-12-05.tif",
			"flood_2023-01-11.tif",
			"flood_2023-02-21.tif",
			"landcover.tif",
		)
		io   = newMemIO()
		meta = gridMeta(1, 1)
	)
	io.addRaster(files[0], meta, []float64{1})
	io.addRaster(files[1], meta, []float64{1})
	io.addRaster(files[2], meta, []float64{1})

	outDir := filepath.Join(dir, "out")
	eng := NewEngine(io)
	rep, err := eng.RunSeasonal(context.Background(), SeasonalConfig{
		InputDir:  dir,
		OutputDir: outDir,
		Seasons:   []SeasonDefinition{{Name: "DJF", Months: []string{"12", "01", "02"}}},
	})
	require.NoError(t, err)

	// 跨年季节归属首月年份
	out := filepath.Join(outDir, "frequencymaps_2022_DJF.tif")
	assert.Equal(t, []string{out}, rep.Produced)
	assert.Equal(t, []string{files[3]}, rep.Skipped)

	require.NotNil(t, io.outputs[out])
	assert.Equal(t, []float64{3}, io.outputs[out].data)
}

func TestRunSeasonalMissingMonthStillAggregates(t *testing.T) {
	var (
		dir   = t.TempDir()
		files = touchFiles(t, dir, "flood_2023-06-05.tif", "flood_2023-08-20.tif")
		io    = newMemIO()
		meta  = gridMeta(1, 1)
	)
	io.addRaster(files[0], meta, []float64{1})
	io.addRaster(files[1], meta, []float64{1})

	outDir := filepath.Join(dir, "out")
	eng := NewEngine(io)
	rep, err := eng.RunSeasonal(context.Background(), SeasonalConfig{
		InputDir:  dir,
		OutputDir: outDir,
		Seasons:   []SeasonDefinition{{Name: "JJA", Months: []string{"06", "07", "08"}}},
	})
	require.NoError(t, err)
	require.Len(t, rep.Produced, 1)
	assert.Equal(t, []float64{2}, io.outputs[rep.Produced[0]].data)
}

func TestRunSeasonalNoSeasons(t *testing.T) {
	var (
		dir   = t.TempDir()
		files = touchFiles(t, dir, "flood_2023-06-05.tif")
		io    = newMemIO()
	)
	io.addRaster(files[0], gridMeta(1, 1), []float64{1})

	eng := NewEngine(io)
	_, err := eng.RunSeasonal(context.Background(), SeasonalConfig{
		InputDir:  dir,
		OutputDir: filepath.Join(dir, "out"),
	})
	assert.ErrorIs(t, err, ErrNoSeasons)
}

func TestRunSeasonalNoInput(t *testing.T) {
	eng := NewEngine(newMemIO())
	_, err := eng.RunSeasonal(context.Background(), SeasonalConfig{
		InputDir:  t.TempDir(),
		OutputDir: t.TempDir(),
		Seasons:   []SeasonDefinition{{Name: "DJF", Months: []string{"12", "01", "02"}}},
	})
	assert.ErrorIs(t, err, ErrNoInputFound)
}
