package riskmapper

import "strings"

// 已打开的矢量图层句柄
type VectorLayer interface {
	Source() string
}

// 分区统计量
type ZonalStat int

const (
	StatCount ZonalStat = iota
	StatSum
	StatMean
	StatMin
	StatMax
)

var zonalStatNames = [...]string{"count", "sum", "mean", "min", "max"}

func (s ZonalStat) String() string {
	if s < 0 || int(s) >= len(zonalStatNames) {
		return zonalStatNames[0]
	}
	return zonalStatNames[s]
}

// 解析统计量名（不区分大小写），空串视为count
func ParseZonalStat(name string) (ZonalStat, error) {
	if name == "" {
		return StatCount, nil
	}
	for i, n := range zonalStatNames {
		if strings.EqualFold(name, n) {
			return ZonalStat(i), nil
		}
	}
	return StatCount, ErrBadZonalStat
}

// 矢量工具箱：分区统计、字段计算、表连接、点采样与汇总
type VectorToolbox interface {
	// 打开矢量数据源的首个图层
	OpenLayer(path string) (VectorLayer, error)
	// 对图层各要素按栅格做分区统计，结果写入以columnPrefix开头的字段
	ZonalStatistics(layer VectorLayer, raster, columnPrefix string, stat ZonalStat) error
	// 按公式计算字段（公式中字段名用双引号括起）
	CalculateField(layer VectorLayer, field, formula string) error
	// 按键连接CSV表，将copyFields各列拷入图层
	JoinTable(layer VectorLayer, field, csv, csvField string, copyFields []string) error
	// 按键连接另一图层，将copyFields各列拷入图层
	JoinLayer(layer VectorLayer, field string, other VectorLayer, otherField string, copyFields []string) error
	// 在点图层处采样栅格值，结果写入以columnPrefix开头的字段
	SampleRaster(points VectorLayer, raster, columnPrefix string) error
	// 将点图层各字段按所在面要素汇总（计数求和）到面图层
	SummarizeByLocation(polygons, points VectorLayer, fields []string) error
	// 落盘保存图层
	Save(layer VectorLayer, path string) error
}
