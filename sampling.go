package riskmapper

import (
	"context"
	"fmt"

	"github.com/KalpaniNJ/Risk-Mapper/log"
	"github.com/KalpaniNJ/Risk-Mapper/utils"

	"go.uber.org/zap"
)

// 点采样汇总流水线配置
type SamplingConfig struct {
	RasterDir string
	Points    string
	Zones     string
	Output    string
	Prefix    string
	Registrar LayerRegistrar
}

// 在点图层处采样目录下每张栅格，再将采样字段按面要素汇总
func (g *Engine) RunPointSamplingCount(ctx context.Context, cfg SamplingConfig) (err error) {
	if g.vec == nil {
		err = ErrNoVectorToolbox
		return
	}
	files, err := utils.ListFilesWithExt(cfg.RasterDir, FILE_EXT_TIF, false)
	if err != nil {
		return
	}
	if len(files) == 0 {
		err = ErrNoInputFound
		return
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DEFAULT_SAMPLE_PREFIX
	}
	log.Info(g.logTag+"start point sampling", zap.String("points", cfg.Points),
		zap.Int("tif_cnt", len(files)))
	points, err := g.vec.OpenLayer(cfg.Points)
	if err != nil {
		return
	}
	fields := make([]string, 0, len(files))
	for _, f := range files {
		if err = ctxErr(ctx); err != nil {
			return
		}
		colPrefix := prefix + SampleKey(f) + "_"
		if err = g.vec.SampleRaster(points, f, colPrefix); err != nil {
			err = fmt.Errorf("%s: %w", f, err)
			return
		}
		fields = append(fields, colPrefix)
	}
	zones, err := g.vec.OpenLayer(cfg.Zones)
	if err != nil {
		return
	}
	if err = g.vec.SummarizeByLocation(zones, points, fields); err != nil {
		return
	}
	if err = g.vec.Save(zones, cfg.Output); err != nil {
		return
	}
	if cfg.Registrar != nil {
		cfg.Registrar(cfg.Output)
	}
	log.Info(g.logTag+"point sampling done", zap.String("out", cfg.Output))
	return
}
