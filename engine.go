package riskmapper

import (
	"context"
	"errors"

	"github.com/KalpaniNJ/Risk-Mapper/log"

	"go.uber.org/zap"
)

// 流水线引擎，封装栅格读写与可选的矢量工具箱
type Engine struct {
	rio    RasterIO
	vec    VectorToolbox
	logTag string
}

// 初始化流水线引擎，vec为可选的矢量工具箱（矢量类流水线需要）
func NewEngine(rio RasterIO, vec ...VectorToolbox) *Engine {
	g := &Engine{
		rio:    rio,
		logTag: "Engine:",
	}
	if len(vec) > 0 {
		g.vec = vec[0]
	}
	return g
}

// 跑一个聚合单元：失败记入报告并继续，取消则中止整个运行
func (g *Engine) runUnit(ctx context.Context, unit AggregationUnit, prog UnitProgressFunc, reg LayerRegistrar,
	rep *Report, dt DataType, comp Compression, tileSize int) (err error) {
	opts := AggregateOptions{
		DataType:    dt,
		Compression: comp,
		TileSize:    tileSize,
		Progress:    unitProg(prog, unit.Key),
		Registrar:   reg,
	}
	if e := AggregateUnit(ctx, g.rio, unit, opts); e != nil {
		if isCancelled(e) {
			rep.Cancelled = true
			err = e
			return
		}
		log.Error(g.logTag+"aggregate unit failed", zap.String("unit", unit.Key), zap.Error(e))
		rep.Failed = append(rep.Failed, UnitFailure{Key: unit.Key, Err: e})
		return
	}
	rep.Produced = append(rep.Produced, unit.Output)
	return
}

func unitProg(prog UnitProgressFunc, key string) ProgressFunc {
	if prog == nil {
		return nil
	}
	return func(f float64) {
		prog(key, f)
	}
}

func isCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func ctxErr(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
