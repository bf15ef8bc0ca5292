package riskmapper

import (
	"context"
	"fmt"
)

// 聚合选项：像元类型、压缩方式、分块大小与进度回调
type AggregateOptions struct {
	DataType    DataType
	Compression Compression
	TileSize    int
	Progress    ProgressFunc
	Registrar   LayerRegistrar
}

// 取单元内第一个可打开的输入作为参考网格
func ResolveGridMeta(rio RasterIO, unit AggregationUnit) (meta RasterMeta, err error) {
	for _, in := range unit.Inputs {
		if in == "" {
			continue
		}
		r, e := rio.Open(in)
		if e != nil {
			err = fmt.Errorf("%s: %w", in, e)
			return
		}
		meta = r.Meta()
		r.Close()
		return
	}
	err = ErrNoInputFound
	return
}

func sameGrid(a, b RasterMeta) bool {
	return a.Cols == b.Cols && a.Rows == b.Rows &&
		a.GeoTransform == b.GeoTransform && a.Projection == b.Projection
}

// 将一个聚合单元的全部输入逐块求和写出为目标栅格
// 各输入必须与参考网格完全一致；nodata像元按零贡献跳过
func AggregateUnit(ctx context.Context, rio RasterIO, unit AggregationUnit, opts AggregateOptions) (err error) {
	meta, err := ResolveGridMeta(rio, unit)
	if err != nil {
		return
	}
	w, err := rio.Create(unit.Output, meta, opts.DataType, opts.Compression)
	if err != nil {
		return
	}
	if err = accumulateTiles(ctx, rio, unit, meta, w, opts); err != nil {
		w.Close()
		return
	}
	if err = w.Close(); err != nil {
		return
	}
	if opts.Registrar != nil {
		opts.Registrar(unit.Output)
	}
	return
}

func accumulateTiles(ctx context.Context, rio RasterIO, unit AggregationUnit, meta RasterMeta,
	w RasterWriter, opts AggregateOptions) (err error) {
	size := opts.TileSize
	if size <= 0 {
		size = DEFAULT_TILE_SIZE
	}
	var (
		tiles = GridTiles(meta.Cols, meta.Rows, size)
		acc   = make([]float64, size*size)
		buf   []float64
	)
	for _, t := range tiles {
		if t.X == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
		win := acc[:t.W*t.H]
		for i := range win {
			win[i] = 0
		}
		for _, in := range unit.Inputs {
			if in == "" {
				continue
			}
			r, e := rio.Open(in)
			if e != nil {
				return fmt.Errorf("%s: %w", in, e)
			}
			m := r.Meta()
			if !sameGrid(meta, m) {
				r.Close()
				return fmt.Errorf("%s: %w", in, ErrRasterMismatch)
			}
			buf, e = r.ReadWindow(t)
			r.Close()
			if e != nil {
				return fmt.Errorf("%s: %w", in, e)
			}
			if m.HasNoData {
				for i, v := range buf {
					if v != m.NoData {
						win[i] += v
					}
				}
			} else {
				for i, v := range buf {
					win[i] += v
				}
			}
		}
		block, e := CastBlock(win, opts.DataType)
		if e != nil {
			return e
		}
		if err = w.WriteWindow(t, block); err != nil {
			return
		}
		if t.X+t.W == meta.Cols && opts.Progress != nil {
			opts.Progress(float64(t.Y+t.H) / float64(meta.Rows))
		}
	}
	return
}
