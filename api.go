package riskmapper

// 聚合单元：一组输入栅格分块累加生成一个输出栅格
type AggregationUnit struct {
	Key    string   // 单元标识，如月份"07"或季节"2022_DJF"
	Inputs []string // 输入栅格路径，空串为缺失月份占位
	Output string   // 输出栅格路径
}

// 栅格网格元数据
type RasterMeta struct {
	Cols         int
	Rows         int
	GeoTransform [6]float64
	Projection   string
	NoData       float64
	HasNoData    bool
}

// 单元失败记录
type UnitFailure struct {
	Key string
	Err error
}

// 流水线执行报告
type Report struct {
	Produced  []string      // 成功生成的输出文件
	Skipped   []string      // 未能归类被跳过的输入文件
	Failed    []UnitFailure // 处理失败的单元
	Cancelled bool          // 运行是否被取消中止
}

// 单元内进度回调，fraction在[0,1]内按行块单调递增
type ProgressFunc func(fraction float64)

// 跨单元进度回调
type UnitProgressFunc func(unit string, fraction float64)

// 输出登记回调，栅格成功落盘后调用
type LayerRegistrar func(path string)
