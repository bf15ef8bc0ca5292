package riskmapper

import (
	"context"
	"os"
	"path/filepath"

	"github.com/KalpaniNJ/Risk-Mapper/log"

	"go.uber.org/zap"
)

// 二值化流水线配置：像元大于阈值记1，否则（含nodata）记0
type BinaryConfig struct {
	Input       string
	Output      string
	Threshold   float64
	Compression Compression
	TileSize    int
	Progress    ProgressFunc
	Registrar   LayerRegistrar
}

// 将单张栅格按阈值逐块二值化为Byte栅格
func (g *Engine) RunBinary(ctx context.Context, cfg BinaryConfig) (err error) {
	r, err := g.rio.Open(cfg.Input)
	if err != nil {
		return
	}
	defer r.Close()
	meta := r.Meta()
	if err = os.MkdirAll(filepath.Dir(cfg.Output), os.ModePerm); err != nil {
		return
	}
	w, err := g.rio.Create(cfg.Output, meta, DTByte, cfg.Compression)
	if err != nil {
		return
	}
	log.Info(g.logTag+"start binarization", zap.String("tif", cfg.Input),
		zap.Float64("threshold", cfg.Threshold))
	size := cfg.TileSize
	if size <= 0 {
		size = DEFAULT_TILE_SIZE
	}
	var (
		tiles = GridTiles(meta.Cols, meta.Rows, size)
		blk   = make([]uint8, size*size)
		buf   []float64
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
		if buf, err = r.ReadWindow(t); err != nil {
			w.Close()
			return
		}
		win := blk[:t.W*t.H]
		for i, v := range buf {
			if meta.HasNoData && v == meta.NoData {
				win[i] = 0
			} else if v > cfg.Threshold {
				win[i] = 1
			} else {
				win[i] = 0
			}
		}
		if err = w.WriteWindow(t, win); err != nil {
			w.Close()
			return
		}
		if t.X+t.W == meta.Cols && cfg.Progress != nil {
			cfg.Progress(float64(t.Y+t.H) / float64(meta.Rows))
		}
	}
	if err = w.Close(); err != nil {
		return
	}
	if cfg.Registrar != nil {
		cfg.Registrar(cfg.Output)
	}
	log.Info(g.logTag+"binarization done", zap.String("out", cfg.Output))
	return
}
