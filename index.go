package riskmapper

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/KalpaniNJ/Risk-Mapper/log"
	"github.com/KalpaniNJ/Risk-Mapper/utils"

	"go.uber.org/zap"
)

// 指标及其权重
type IndicatorWeight struct {
	Name   string
	Weight float64
}

// 加权指数计算流水线配置
type IndexConfig struct {
	Layer      string
	JoinField  string
	CSV        string
	Indicators []IndicatorWeight
	Output     string
	Registrar  LayerRegistrar
}

// 读CSV指标表，逐列归一化加权求WI，再归一化得FWI，写出CSV并连接回图层
// 返回写出的CSV路径；缺失的指标列告警跳过，全部缺失报错
func (g *Engine) RunIndexCalculation(ctx context.Context, cfg IndexConfig) (csvOut string, err error) {
	if g.vec == nil {
		err = ErrNoVectorToolbox
		return
	}
	header, rows, err := readCSVTable(cfg.CSV)
	if err != nil {
		return
	}
	joinIdx := indexOf(header, cfg.JoinField)
	if joinIdx < 0 {
		err = fmt.Errorf(ErrColumnMissingTemplate, cfg.JoinField)
		return
	}
	log.Info(g.logTag+"start index calculation", zap.String("csv", cfg.CSV),
		zap.Int("rows", len(rows)), zap.Int("indicators", len(cfg.Indicators)))
	var (
		n    = len(rows)
		wi   = make([]float64, n)
		cnt  = make([]int, n)
		used int
	)
	for _, ind := range cfg.Indicators {
		ci := indexOf(header, ind.Name)
		if ci < 0 {
			log.Error(g.logTag+"indicator column missing", zap.String("column", ind.Name))
			continue
		}
		col := make([]float64, n)
		for i, row := range rows {
			col[i] = cellToFloat(row, ci)
		}
		minMaxScale(col)
		for i, v := range col {
			if !math.IsNaN(v) {
				wi[i] += v * ind.Weight
				cnt[i]++
			}
		}
		used++
	}
	if used == 0 {
		err = ErrNoIndicator
		return
	}
	for i := range wi {
		if cnt[i] > 0 {
			wi[i] /= float64(cnt[i])
		} else {
			wi[i] = math.NaN()
		}
	}
	fwi := make([]float64, n)
	copy(fwi, wi)
	minMaxScale(fwi)

	csvOut = strings.TrimSuffix(cfg.Output, filepath.Ext(cfg.Output)) + FWI_CSV_SUFFIX
	if err = writeIndexCSV(csvOut, cfg.JoinField, rows, joinIdx, wi, fwi); err != nil {
		return
	}
	if err = ctxErr(ctx); err != nil {
		return
	}
	layer, err := g.vec.OpenLayer(cfg.Layer)
	if err != nil {
		return
	}
	if err = g.vec.JoinTable(layer, cfg.JoinField, csvOut, cfg.JoinField, []string{FIELD_WI, FIELD_FWI}); err != nil {
		return
	}
	if err = g.vec.Save(layer, cfg.Output); err != nil {
		return
	}
	if cfg.Registrar != nil {
		cfg.Registrar(cfg.Output)
	}
	log.Info(g.logTag+"index calculation done", zap.String("out", cfg.Output), zap.String("csv", csvOut))
	return
}

// 读CSV为表头与数据行，自动剥离BOM并兼容GBK编码
func readCSVTable(path string) (header []string, rows [][]string, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return
	}
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
	if !utf8.Valid(raw) {
		if raw, err = utils.GbkToUtf8(raw); err != nil {
			return
		}
	}
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	recs, err := reader.ReadAll()
	if err != nil {
		return
	}
	if len(recs) == 0 {
		err = ErrEmptyTable
		return
	}
	header = recs[0]
	for i, h := range header {
		header[i] = strings.TrimSpace(utils.PurifyForUtf8(h))
	}
	rows = recs[1:]
	return
}

func indexOf(header []string, field string) int {
	for i, h := range header {
		if h == field {
			return i
		}
	}
	return -1
}

func cellToFloat(row []string, idx int) float64 {
	if idx >= len(row) {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// 列内最小最大归一化，NaN不参与；列退化（无有效值或极差为零）时整列置0
func minMaxScale(col []float64) {
	var (
		lo    = math.Inf(1)
		hi    = math.Inf(-1)
		valid bool
	)
	for _, v := range col {
		if math.IsNaN(v) {
			continue
		}
		valid = true
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if !valid || !(hi > lo) {
		for i := range col {
			col[i] = 0
		}
		return
	}
	for i, v := range col {
		if !math.IsNaN(v) {
			col[i] = (v - lo) / (hi - lo)
		}
	}
}

func writeIndexCSV(path, joinField string, rows [][]string, joinIdx int, wi, fwi []float64) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return
	}
	defer f.Close()
	writer := csv.NewWriter(f)
	if err = writer.Write([]string{joinField, FIELD_WI, FIELD_FWI}); err != nil {
		return
	}
	for i, row := range rows {
		var join string
		if joinIdx < len(row) {
			join = strings.TrimSpace(row[joinIdx])
		}
		if err = writer.Write([]string{join, floatCell(wi[i]), floatCell(fwi[i])}); err != nil {
			return
		}
	}
	writer.Flush()
	err = writer.Error()
	return
}

func floatCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
