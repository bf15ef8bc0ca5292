package riskmapper

import (
	"math"
	"strings"
)

// 输出栅格像元类型，零值为Float32
type DataType int

const (
	DTFloat32 DataType = iota
	DTByte
	DTUInt16
	DTUInt32
	DTInt16
	DTInt32
	DTFloat64
)

var dataTypeNames = [...]string{"Float32", "Byte", "UInt16", "UInt32", "Int16", "Int32", "Float64"}

func (d DataType) String() string {
	if d < 0 || int(d) >= len(dataTypeNames) {
		return "Unknown"
	}
	return dataTypeNames[d]
}

// 解析像元类型名（不区分大小写），未知类型回落到Float32
func ParseDataType(name string) (DataType, error) {
	for i, n := range dataTypeNames {
		if strings.EqualFold(name, n) {
			return DataType(i), nil
		}
	}
	return DTFloat32, ErrUnknownDataType
}

// GeoTIFF压缩方式
type Compression int

const (
	CompressNone Compression = iota
	CompressLZW
	CompressDeflate
	CompressPackbits
)

var compressionNames = [...]string{"NONE", "LZW", "DEFLATE", "PACKBITS"}

func (c Compression) String() string {
	if c < 0 || int(c) >= len(compressionNames) {
		return compressionNames[0]
	}
	return compressionNames[c]
}

// 解析压缩方式名（不区分大小写），空串视为不压缩
func ParseCompression(name string) (Compression, error) {
	if name == "" {
		return CompressNone, nil
	}
	for i, n := range compressionNames {
		if strings.EqualFold(name, n) {
			return Compression(i), nil
		}
	}
	return CompressNone, ErrBadCompression
}

func (c Compression) creationOptions() []string {
	if c == CompressNone {
		return nil
	}
	return []string{"COMPRESS=" + c.String()}
}

// 将float64累加块转换为目标像元类型的切片，整型做饱和截断
func CastBlock(acc []float64, dt DataType) (block interface{}, err error) {
	switch dt {
	case DTByte:
		out := make([]uint8, len(acc))
		for i, v := range acc {
			out[i] = uint8(clampInt(v, 0, math.MaxUint8))
		}
		block = out
	case DTUInt16:
		out := make([]uint16, len(acc))
		for i, v := range acc {
			out[i] = uint16(clampInt(v, 0, math.MaxUint16))
		}
		block = out
	case DTUInt32:
		out := make([]uint32, len(acc))
		for i, v := range acc {
			out[i] = uint32(clampInt(v, 0, math.MaxUint32))
		}
		block = out
	case DTInt16:
		out := make([]int16, len(acc))
		for i, v := range acc {
			out[i] = int16(clampInt(v, math.MinInt16, math.MaxInt16))
		}
		block = out
	case DTInt32:
		out := make([]int32, len(acc))
		for i, v := range acc {
			out[i] = int32(clampInt(v, math.MinInt32, math.MaxInt32))
		}
		block = out
	case DTFloat32:
		out := make([]float32, len(acc))
		for i, v := range acc {
			out[i] = float32(v)
		}
		block = out
	case DTFloat64:
		out := make([]float64, len(acc))
		copy(out, acc)
		block = out
	default:
		err = ErrUnknownDataType
	}
	return
}

func clampInt(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return math.Trunc(v)
}
