package riskmapper

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strconv"

	"github.com/KalpaniNJ/Risk-Mapper/log"
	"github.com/KalpaniNJ/Risk-Mapper/utils"

	"go.uber.org/zap"
)

// 分区统计流水线配置
type ZonalConfig struct {
	RasterDir string
	Zones     string
	Output    string
	Prefix    string
	Stat      ZonalStat
	Registrar LayerRegistrar
}

// 对目录下每张栅格在分区图层上做统计，列名为前缀+文件名后缀
func (g *Engine) RunZonalStats(ctx context.Context, cfg ZonalConfig) (err error) {
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
		prefix = DEFAULT_STAT_PREFIX
	}
	log.Info(g.logTag+"start zonal stats", zap.String("zones", cfg.Zones),
		zap.Int("tif_cnt", len(files)), zap.String("stat", cfg.Stat.String()))
	layer, err := g.vec.OpenLayer(cfg.Zones)
	if err != nil {
		return
	}
	for _, f := range files {
		if err = ctxErr(ctx); err != nil {
			return
		}
		suffix := SuffixAfterUnderscore(f)
		if err = g.vec.ZonalStatistics(layer, f, prefix+suffix+"_", cfg.Stat); err != nil {
			err = fmt.Errorf("%s: %w", f, err)
			return
		}
	}
	if err = g.vec.Save(layer, cfg.Output); err != nil {
		return
	}
	if cfg.Registrar != nil {
		cfg.Registrar(cfg.Output)
	}
	log.Info(g.logTag+"zonal stats done", zap.String("out", cfg.Output))
	return
}

// 分区面积统计流水线配置：像元面积缺省时由首张栅格分辨率推算
type AreaConfig struct {
	RasterDir string
	Zones     string
	Output    string
	Prefix    string
	Stat      ZonalStat
	PixelArea float64
	Registrar LayerRegistrar
}

// 对目录下每张栅格统计分区内像元数并换算为平方公里面积字段
func (g *Engine) RunAreaStats(ctx context.Context, cfg AreaConfig) (err error) {
	if g.vec == nil {
		err = ErrNoVectorToolbox
		return
	}
	if cfg.Stat != StatCount && cfg.Stat != StatSum {
		err = ErrBadZonalStat
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
	area := cfg.PixelArea
	if area <= 0 {
		var r RasterReader
		if r, err = g.rio.Open(files[0]); err != nil {
			return
		}
		gt := r.Meta().GeoTransform
		r.Close()
		area = math.Abs(gt[1] * gt[5])
	}
	log.Info(g.logTag+"start area stats", zap.String("zones", cfg.Zones),
		zap.Int("tif_cnt", len(files)), zap.Float64("pixel_area", area))
	layer, err := g.vec.OpenLayer(cfg.Zones)
	if err != nil {
		return
	}
	for _, f := range files {
		if err = ctxErr(ctx); err != nil {
			return
		}
		var (
			suffix    = SuffixAfterUnderscore(f)
			colPrefix = suffix + "_"
			col       = colPrefix + cfg.Stat.String()
		)
		if err = g.vec.ZonalStatistics(layer, f, colPrefix, cfg.Stat); err != nil {
			err = fmt.Errorf("%s: %w", f, err)
			return
		}
		var (
			field   = fmt.Sprintf(AREA_FIELD_TEMPLATE, cfg.Prefix, suffix)
			formula = fmt.Sprintf(AREA_FORMULA_TEMPLATE, col, strconv.FormatFloat(area, 'f', -1, 64))
		)
		if err = g.vec.CalculateField(layer, field, formula); err != nil {
			err = fmt.Errorf("%s: %w", f, err)
			return
		}
	}
	if err = g.vec.Save(layer, cfg.Output); err != nil {
		return
	}
	if cfg.Registrar != nil {
		cfg.Registrar(cfg.Output)
	}
	log.Info(g.logTag+"area stats done", zap.String("out", cfg.Output))
	return
}

// 逐月分区统计流水线配置：列名键从文件名日期段切片得到
type MonthlyZonalConfig struct {
	RasterDir string
	Zones     string
	Output    string
	Prefix    string
	DateSlice string
	Stat      ZonalStat
	Registrar LayerRegistrar
}

// 对目录下每张栅格做分区统计，列名为前缀+日期段切片
// 文件名中无日期段的输入仅告警跳过
func (g *Engine) RunMonthlyZonalStats(ctx context.Context, cfg MonthlyZonalConfig) (err error) {
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
	var (
		prefix = cfg.Prefix
		spec   = cfg.DateSlice
	)
	if prefix == "" {
		prefix = DEFAULT_MONTHLY_STAT_PREFIX
	}
	if spec == "" {
		spec = DEFAULT_DATE_SLICE
	}
	log.Info(g.logTag+"start monthly zonal stats", zap.String("zones", cfg.Zones),
		zap.Int("tif_cnt", len(files)), zap.String("slice", spec))
	layer, err := g.vec.OpenLayer(cfg.Zones)
	if err != nil {
		return
	}
	for _, f := range files {
		if err = ctxErr(ctx); err != nil {
			return
		}
		token, ok := DateToken(f)
		if !ok {
			log.Warn(g.logTag+"no date token in tif name", zap.String("tif", filepath.Base(f)))
			continue
		}
		var key string
		if key, err = utils.PySlice(token, spec); err != nil {
			return
		}
		if err = g.vec.ZonalStatistics(layer, f, prefix+key+"_", cfg.Stat); err != nil {
			err = fmt.Errorf("%s: %w", f, err)
			return
		}
	}
	if err = g.vec.Save(layer, cfg.Output); err != nil {
		return
	}
	if cfg.Registrar != nil {
		cfg.Registrar(cfg.Output)
	}
	log.Info(g.logTag+"monthly zonal stats done", zap.String("out", cfg.Output))
	return
}
