package riskmapper

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KalpaniNJ/Risk-Mapper/log"
	"github.com/KalpaniNJ/Risk-Mapper/utils"

	"go.uber.org/zap"
)

// 季节频次流水线配置
type SeasonalConfig struct {
	InputDir  string
	OutputDir string
	Prefix    string
	Seasons   []SeasonDefinition
	TileSize  int
	Progress  UnitProgressFunc
	Registrar LayerRegistrar
}

// 按季节定义将观测归入(年,季节)桶并逐桶求和，跨年季节以首月归属年
func (g *Engine) RunSeasonal(ctx context.Context, cfg SeasonalConfig) (rep Report, err error) {
	files, err := utils.ListFilesWithExt(cfg.InputDir, FILE_EXT_TIF, true)
	if err != nil {
		return
	}
	var obs []MonthObservation
	for _, f := range files {
		year, month, ok := MatchYearMonth(filepath.Base(f))
		if !ok {
			log.Warn(g.logTag+"unclassified tif", zap.String("tif", f))
			rep.Skipped = append(rep.Skipped, f)
			continue
		}
		obs = append(obs, MonthObservation{Year: year, Month: month, Path: f})
	}
	if len(obs) == 0 {
		err = ErrNoInputFound
		return
	}
	buckets, err := BucketBySeasons(cfg.Seasons, obs)
	if err != nil {
		return
	}
	log.Info(g.logTag+"start seasonal aggregation", zap.String("dir", cfg.InputDir),
		zap.Int("tif_cnt", len(obs)), zap.Int("buckets", len(buckets)))
	if err = os.MkdirAll(cfg.OutputDir, os.ModePerm); err != nil {
		return
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DEFAULT_FREQ_PREFIX
	}
	for _, b := range buckets {
		unit := AggregationUnit{
			Key:    fmt.Sprintf("%d_%s", b.Year, b.Season),
			Inputs: b.Inputs,
			Output: filepath.Join(cfg.OutputDir, fmt.Sprintf(SEASON_NAME_TEMPLATE, prefix, b.Year, b.Season)),
		}
		if err = g.runUnit(ctx, unit, cfg.Progress, cfg.Registrar, &rep, DTFloat32, CompressLZW, cfg.TileSize); err != nil {
			return
		}
	}
	log.Info(g.logTag+"seasonal aggregation done", zap.Int("produced", len(rep.Produced)),
		zap.Int("failed", len(rep.Failed)), zap.Int("skipped", len(rep.Skipped)))
	return
}
