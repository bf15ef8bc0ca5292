package riskmapper

import (
	"context"
	"os"
	"path/filepath"

	"github.com/KalpaniNJ/Risk-Mapper/log"
	"github.com/KalpaniNJ/Risk-Mapper/utils"

	"go.uber.org/zap"
)

// 全量求和流水线配置
type SummationConfig struct {
	InputDir    string
	Output      string
	DataType    DataType
	Compression Compression
	TileSize    int
	Progress    UnitProgressFunc
	Registrar   LayerRegistrar
}

// 将目录下（含子目录）全部tif逐块求和为单张输出栅格
func (g *Engine) RunSummation(ctx context.Context, cfg SummationConfig) (rep Report, err error) {
	files, err := utils.ListFilesWithExt(cfg.InputDir, FILE_EXT_TIF, true)
	if err != nil {
		return
	}
	if len(files) == 0 {
		err = ErrNoInputFound
		return
	}
	log.Info(g.logTag+"start summation", zap.String("dir", cfg.InputDir), zap.Int("tif_cnt", len(files)))
	if err = os.MkdirAll(filepath.Dir(cfg.Output), os.ModePerm); err != nil {
		return
	}
	unit := AggregationUnit{
		Key:    utils.GetFilenameWithoutExt(cfg.Output),
		Inputs: files,
		Output: cfg.Output,
	}
	if err = g.runUnit(ctx, unit, cfg.Progress, cfg.Registrar, &rep, cfg.DataType, cfg.Compression, cfg.TileSize); err != nil {
		return
	}
	log.Info(g.logTag+"summation done", zap.String("out", cfg.Output), zap.Int("failed", len(rep.Failed)))
	return
}
