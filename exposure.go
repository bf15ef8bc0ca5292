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

// 暴露度流水线配置：二值灾害图逐年与承灾体掩膜相乘
type ExposureConfig struct {
	BinaryDir  string
	MaskRaster string
	OutputDir  string
	Prefix     string
	TileSize   int
	Progress   UnitProgressFunc
	Registrar  LayerRegistrar
}

// 对目录下每张二值栅格与掩膜栅格逐块相乘，输出按年命名
// 文件名中提取不到年份的输入跳过并记入报告
func (g *Engine) RunExposure(ctx context.Context, cfg ExposureConfig) (rep Report, err error) {
	files, err := utils.ListFilesWithExt(cfg.BinaryDir, FILE_EXT_TIF, false)
	if err != nil {
		return
	}
	if len(files) == 0 {
		err = ErrNoInputFound
		return
	}
	log.Info(g.logTag+"start exposure", zap.String("dir", cfg.BinaryDir),
		zap.String("mask", cfg.MaskRaster), zap.Int("tif_cnt", len(files)))
	if err = os.MkdirAll(cfg.OutputDir, os.ModePerm); err != nil {
		return
	}
	for _, f := range files {
		if e := ctxErr(ctx); e != nil {
			rep.Cancelled = true
			err = e
			return
		}
		year := YearDigits(filepath.Base(f))
		if year == "" {
			log.Warn(g.logTag+"no year in tif name", zap.String("tif", f))
			rep.Skipped = append(rep.Skipped, f)
			continue
		}
		out := filepath.Join(cfg.OutputDir, fmt.Sprintf(EXPOSURE_NAME_TEMPLATE, cfg.Prefix, year))
		if e := g.exposureOne(ctx, f, cfg.MaskRaster, out, cfg.TileSize, unitProg(cfg.Progress, year)); e != nil {
			if isCancelled(e) {
				rep.Cancelled = true
				err = e
				return
			}
			log.Error(g.logTag+"exposure unit failed", zap.String("tif", f), zap.Error(e))
			rep.Failed = append(rep.Failed, UnitFailure{Key: year, Err: e})
			continue
		}
		rep.Produced = append(rep.Produced, out)
		if cfg.Registrar != nil {
			cfg.Registrar(out)
		}
	}
	log.Info(g.logTag+"exposure done", zap.Int("produced", len(rep.Produced)),
		zap.Int("failed", len(rep.Failed)), zap.Int("skipped", len(rep.Skipped)))
	return
}

func (g *Engine) exposureOne(ctx context.Context, binTif, maskTif, out string, tileSize int, prog ProgressFunc) (err error) {
	b, err := g.rio.Open(binTif)
	if err != nil {
		return
	}
	defer b.Close()
	m, err := g.rio.Open(maskTif)
	if err != nil {
		return
	}
	defer m.Close()
	var (
		bMeta = b.Meta()
		mMeta = m.Meta()
	)
	if !sameGrid(bMeta, mMeta) {
		err = fmt.Errorf("%s: %w", maskTif, ErrRasterMismatch)
		return
	}
	w, err := g.rio.Create(out, bMeta, DTFloat32, CompressLZW)
	if err != nil {
		return
	}
	size := tileSize
	if size <= 0 {
		size = DEFAULT_TILE_SIZE
	}
	var (
		tiles = GridTiles(bMeta.Cols, bMeta.Rows, size)
		win   = make([]float32, size*size)
		bBuf  []float64
		mBuf  []float64
	)
	for _, t := range tiles {
		if t.X == 0 {
			select {
			case <-ctx.Done():
				w.Close()
				return ctx.Err()
			default:
			}
		}
		if bBuf, err = b.ReadWindow(t); err != nil {
			w.Close()
			return
		}
		if mBuf, err = m.ReadWindow(t); err != nil {
			w.Close()
			return
		}
		blk := win[:t.W*t.H]
		for i := range blk {
			bv := bBuf[i]
			if bMeta.HasNoData && bv == bMeta.NoData {
				bv = 0
			}
			mv := mBuf[i]
			if mMeta.HasNoData && mv == mMeta.NoData {
				mv = 0
			}
			blk[i] = float32(bv * mv)
		}
		if err = w.WriteWindow(t, blk); err != nil {
			w.Close()
			return
		}
		if t.X+t.W == bMeta.Cols && prog != nil {
			prog(float64(t.Y+t.H) / float64(bMeta.Rows))
		}
	}
	err = w.Close()
	return
}
