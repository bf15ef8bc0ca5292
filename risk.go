package riskmapper

import (
	"context"
	"fmt"

	"github.com/KalpaniNJ/Risk-Mapper/log"

	"go.uber.org/zap"
)

// 风险评估各维度图层输入：数据源路径与要拷入的字段
type RiskLayerInput struct {
	Path  string
	Field string
}

// 风险评估流水线配置：致灾、脆弱、暴露、适应四维可选
type RiskConfig struct {
	Base          string
	JoinField     string
	Hazard        RiskLayerInput
	Vulnerability RiskLayerInput
	Exposure      RiskLayerInput
	Adaptive      RiskLayerInput
	Formula       string
	Output        string
	Registrar     LayerRegistrar
}

// 将各维度图层字段按键连接到基础图层，并按公式计算风险字段
func (g *Engine) RunRiskAssessment(ctx context.Context, cfg RiskConfig) (err error) {
	if g.vec == nil {
		err = ErrNoVectorToolbox
		return
	}
	log.Info(g.logTag+"start risk assessment", zap.String("base", cfg.Base),
		zap.String("join", cfg.JoinField))
	base, err := g.vec.OpenLayer(cfg.Base)
	if err != nil {
		return
	}
	for _, in := range []RiskLayerInput{cfg.Hazard, cfg.Vulnerability, cfg.Exposure, cfg.Adaptive} {
		if in.Path == "" {
			continue
		}
		if err = ctxErr(ctx); err != nil {
			return
		}
		if in.Field == cfg.JoinField {
			log.Warn(g.logTag+"layer field equals join field, skip", zap.String("layer", in.Path))
			continue
		}
		var other VectorLayer
		if other, err = g.vec.OpenLayer(in.Path); err != nil {
			err = fmt.Errorf("%s: %w", in.Path, err)
			return
		}
		if err = g.vec.JoinLayer(base, cfg.JoinField, other, cfg.JoinField, []string{in.Field}); err != nil {
			err = fmt.Errorf("%s: %w", in.Path, err)
			return
		}
	}
	if cfg.Formula != "" {
		if err = g.vec.CalculateField(base, FIELD_RISK, cfg.Formula); err != nil {
			return
		}
	}
	if err = g.vec.Save(base, cfg.Output); err != nil {
		return
	}
	if cfg.Registrar != nil {
		cfg.Registrar(cfg.Output)
	}
	log.Info(g.logTag+"risk assessment done", zap.String("out", cfg.Output))
	return
}
