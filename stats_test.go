package riskmapper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunZonalStats(t *testing.T) {
	var (
		dir   = t.TempDir()
		files = touchFiles(t, dir, "freq_2020.tif", "freq_2021.tif")
		io    = newMemIO()
		vec   = &memVectorToolbox{}
	)
	eng := NewEngine(io, vec)
	err := eng.RunZonalStats(context.Background(), ZonalConfig{
		RasterDir: dir,
		Zones:     "zones.shp",
		Output:    "out.shp",
		Stat:      StatMean,
	})
	require.NoError(t, err)

	require.Equal(t, []string{"open", "zonal", "zonal", "save"}, vec.ops())
	assert.Equal(t, []string{"zones.shp", files[0], "stat_2020_", "mean"}, vec.calls[1].args)
	assert.Equal(t, []string{"zones.shp", files[1], "stat_2021_", "mean"}, vec.calls[2].args)
	assert.Equal(t, []string{"zones.shp", "out.shp"}, vec.calls[3].args)
}

func TestRunZonalStatsNoToolbox(t *testing.T) {
	eng := NewEngine(newMemIO())
	err := eng.RunZonalStats(context.Background(), ZonalConfig{RasterDir: t.TempDir()})
	assert.ErrorIs(t, err, ErrNoVectorToolbox)
}

func TestRunZonalStatsFailureAborts(t *testing.T) {
	var (
		dir = t.TempDir()
		vec = &memVectorToolbox{failOn: "zonal"}
	)
	touchFiles(t, dir, "freq_2020.tif")

	eng := NewEngine(newMemIO(), vec)
	err := eng.RunZonalStats(context.Background(), ZonalConfig{
		RasterDir: dir,
		Zones:     "zones.shp",
		Output:    "out.shp",
	})
	assert.Error(t, err)
	assert.NotContains(t, vec.ops(), "save")
}

func TestRunAreaStats(t *testing.T) {
	var (
		dir   = t.TempDir()
		files = touchFiles(t, dir, "binary_2020.tif")
		vec   = &memVectorToolbox{}
	)
	eng := NewEngine(newMemIO(), vec)
	err := eng.RunAreaStats(context.Background(), AreaConfig{
		RasterDir: dir,
		Zones:     "zones.shp",
		Output:    "out.shp",
		Stat:      StatCount,
		PixelArea: 100,
	})
	require.NoError(t, err)

	require.Equal(t, []string{"open", "zonal", "calc", "save"}, vec.ops())
	assert.Equal(t, []string{"zones.shp", files[0], "2020_", "count"}, vec.calls[1].args)
	assert.Equal(t, []string{"zones.shp", "2020_km2", `"2020_count" * 100 / 1000000`}, vec.calls[2].args)
}

func TestRunAreaStatsDerivesPixelArea(t *testing.T) {
	var (
		dir   = t.TempDir()
		files = touchFiles(t, dir, "binary_2020.tif")
		io    = newMemIO()
		vec   = &memVectorToolbox{}
		meta  = RasterMeta{Cols: 1, Rows: 1, GeoTransform: [6]float64{0, 30, 0, 0, 0, -30}}
	)
	io.addRaster(files[0], meta, []float64{1})

	eng := NewEngine(io, vec)
	err := eng.RunAreaStats(context.Background(), AreaConfig{
		RasterDir: dir,
		Zones:     "zones.shp",
		Output:    "out.shp",
		Stat:      StatCount,
		Prefix:    "hz",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"zones.shp", "hz2020_km2", `"2020_count" * 900 / 1000000`}, vec.calls[2].args)
}

func TestRunAreaStatsRejectsStat(t *testing.T) {
	eng := NewEngine(newMemIO(), &memVectorToolbox{})
	err := eng.RunAreaStats(context.Background(), AreaConfig{
		RasterDir: t.TempDir(),
		Stat:      StatMean,
	})
	assert.ErrorIs(t, err, ErrBadZonalStat)
}

func TestRunMonthlyZonalStats(t *testing.T) {
	var (
		dir   = t.TempDir()
		files = touchFiles(t, dir, "flood_2020-01-15_clip.tif", "nodate.tif")
		vec   = &memVectorToolbox{}
	)
	eng := NewEngine(newMemIO(), vec)
	err := eng.RunMonthlyZonalStats(context.Background(), MonthlyZonalConfig{
		RasterDir: dir,
		Zones:     "zones.shp",
		Output:    "out.shp",
		Stat:      StatCount,
	})
	require.NoError(t, err)

	// 日期段"2020-01-15"经切片2:7得到"20-01"
	require.Equal(t, []string{"open", "zonal", "save"}, vec.ops())
	assert.Equal(t, []string{"zones.shp", files[0], "fd_20-01_", "count"}, vec.calls[1].args)
}

func TestRunMonthlyZonalStatsBadSlice(t *testing.T) {
	var (
		dir = t.TempDir()
		vec = &memVectorToolbox{}
	)
	touchFiles(t, dir, "flood_2020-01-15_clip.tif")

	eng := NewEngine(newMemIO(), vec)
	err := eng.RunMonthlyZonalStats(context.Background(), MonthlyZonalConfig{
		RasterDir: dir,
		Zones:     "zones.shp",
		Output:    "out.shp",
		DateSlice: "1:2:3:4",
	})
	assert.Error(t, err)
}

func TestRunPointSamplingCount(t *testing.T) {
	var (
		dir   = t.TempDir()
		files = touchFiles(t, dir, "cyclone_1998_v2.tif", "mask_urban.tif")
		vec   = &memVectorToolbox{}
	)
	eng := NewEngine(newMemIO(), vec)
	err := eng.RunPointSamplingCount(context.Background(), SamplingConfig{
		RasterDir: dir,
		Points:    "pts.shp",
		Zones:     "zones.shp",
		Output:    "out.shp",
	})
	require.NoError(t, err)

	require.Equal(t, []string{"open", "sample", "sample", "open", "summarize", "save"}, vec.ops())
	assert.Equal(t, []string{"pts.shp", files[0], "pts_1998_"}, vec.calls[1].args)
	assert.Equal(t, []string{"pts.shp", files[1], "pts_urban_"}, vec.calls[2].args)
	assert.Equal(t, []string{"zones.shp", "pts.shp", "pts_1998_,pts_urban_"}, vec.calls[4].args)
	assert.Equal(t, []string{"zones.shp", "out.shp"}, vec.calls[5].args)
}

func TestRunRiskAssessment(t *testing.T) {
	vec := &memVectorToolbox{}
	eng := NewEngine(newMemIO(), vec)
	err := eng.RunRiskAssessment(context.Background(), RiskConfig{
		Base:          "base.shp",
		JoinField:     "ADM_ID",
		Hazard:        RiskLayerInput{Path: "hazard.shp", Field: "FWI"},
		Vulnerability: RiskLayerInput{Path: "vuln.shp", Field: "ADM_ID"},
		Exposure:      RiskLayerInput{Path: "expo.shp", Field: "exp_km2"},
		Formula:       `"FWI" * "exp_km2"`,
		Output:        "risk.shp",
	})
	require.NoError(t, err)

	// 脆弱度图层字段与连接键同名，跳过；适应度未提供，跳过
	require.Equal(t, []string{"open", "open", "joinlayer", "open", "joinlayer", "calc", "save"}, vec.ops())
	assert.Equal(t, []string{"base.shp", "ADM_ID", "hazard.shp", "ADM_ID", "FWI"}, vec.calls[2].args)
	assert.Equal(t, []string{"base.shp", "ADM_ID", "expo.shp", "ADM_ID", "exp_km2"}, vec.calls[4].args)
	assert.Equal(t, []string{"base.shp", "RISK", `"FWI" * "exp_km2"`}, vec.calls[5].args)
	assert.Equal(t, []string{"base.shp", "risk.shp"}, vec.calls[6].args)
}

func TestRunRiskAssessmentNoFormula(t *testing.T) {
	vec := &memVectorToolbox{}
	eng := NewEngine(newMemIO(), vec)
	err := eng.RunRiskAssessment(context.Background(), RiskConfig{
		Base:      "base.shp",
		JoinField: "ADM_ID",
		Hazard:    RiskLayerInput{Path: "hazard.shp", Field: "FWI"},
		Output:    "risk.shp",
	})
	require.NoError(t, err)
	assert.NotContains(t, vec.ops(), "calc")
}

func TestParseZonalStat(t *testing.T) {
	s, err := ParseZonalStat("")
	require.NoError(t, err)
	assert.Equal(t, StatCount, s)

	s, err = ParseZonalStat("Mean")
	require.NoError(t, err)
	assert.Equal(t, StatMean, s)

	_, err = ParseZonalStat("median")
	assert.ErrorIs(t, err, ErrBadZonalStat)
}
