package riskmapper

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/KalpaniNJ/Risk-Mapper/log"
	"github.com/KalpaniNJ/Risk-Mapper/utils"

	"go.uber.org/zap"
)

// 逐月频次流水线配置
type MonthlyConfig struct {
	InputDir  string
	OutputDir string
	Prefix    string
	TileSize  int
	Progress  UnitProgressFunc
	Registrar LayerRegistrar
}

// 按文件名中的观测月份分组，对每个月份的tif逐块求和
// 文件名不含YYYY-MM-DD日期的输入跳过并记入报告
func (g *Engine) RunMonthly(ctx context.Context, cfg MonthlyConfig) (rep Report, err error) {
	files, err := utils.ListFilesWithExt(cfg.InputDir, FILE_EXT_TIF, true)
	if err != nil {
		return
	}
	var (
		groups = make(map[string][]string)
		months []string
	)
	for _, f := range files {
		m, ok := MatchMonth(filepath.Base(f))
		if !ok {
			log.Warn(g.logTag+"unclassified tif", zap.String("tif", f))
			rep.Skipped = append(rep.Skipped, f)
			continue
		}
		if _, ok = groups[m]; !ok {
			months = append(months, m)
		}
		groups[m] = append(groups[m], f)
	}
	if len(months) == 0 {
		err = ErrNoInputFound
		return
	}
	sort.Strings(months)
	log.Info(g.logTag+"start monthly aggregation", zap.String("dir", cfg.InputDir),
		zap.Int("tif_cnt", len(files)), zap.Int("months", len(months)))
	if err = os.MkdirAll(cfg.OutputDir, os.ModePerm); err != nil {
		return
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DEFAULT_FREQ_PREFIX
	}
	for _, m := range months {
		unit := AggregationUnit{
			Key:    m,
			Inputs: groups[m],
			Output: filepath.Join(cfg.OutputDir, prefix+m+FILE_EXT_TIF),
		}
		if err = g.runUnit(ctx, unit, cfg.Progress, cfg.Registrar, &rep, DTFloat32, CompressLZW, cfg.TileSize); err != nil {
			return
		}
	}
	log.Info(g.logTag+"monthly aggregation done", zap.Int("produced", len(rep.Produced)),
		zap.Int("failed", len(rep.Failed)), zap.Int("skipped", len(rep.Skipped)))
	return
}
