package riskmapper

import (
	"github.com/KalpaniNJ/Risk-Mapper/log"

	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

// 栅格读取句柄：单波段窗口读取
type RasterReader interface {
	Meta() RasterMeta
	ReadWindow(t Tile) ([]float64, error)
	Close()
}

// 栅格写出句柄：按窗口写出已转换类型的像元块
type RasterWriter interface {
	WriteWindow(t Tile, block interface{}) error
	Close() error
}

// 栅格IO抽象，生产实现基于GDAL
type RasterIO interface {
	Open(tif string) (RasterReader, error)
	Create(tif string, meta RasterMeta, dt DataType, comp Compression) (RasterWriter, error)
}

// GDAL栅格工具箱
type RasterToolbox struct {
	logTag string
}

func NewRasterToolbox() *RasterToolbox {
	return &RasterToolbox{
		logTag: "RasterToolbox:",
	}
}

// 打开单波段栅格
func (g *RasterToolbox) Open(tif string) (r RasterReader, err error) {
	ds, err := gdal.Open(tif, gdal.ReadOnly)
	if err != nil {
		log.Error(g.logTag+"failed to open raster", zap.String("tif", tif), zap.Error(err))
		err = ErrInvalidRaster
		return
	}
	if ds.RasterCount() < 1 {
		ds.Close()
		log.Error(g.logTag+"raster has no band", zap.String("tif", tif))
		err = ErrInvalidRaster
		return
	}
	band := ds.RasterBand(1)
	nodata, hasNodata := band.NoDataValue()
	r = &gdalReader{
		ds:   ds,
		band: band,
		meta: RasterMeta{
			Cols:         ds.RasterXSize(),
			Rows:         ds.RasterYSize(),
			GeoTransform: ds.GeoTransform(),
			Projection:   ds.Projection(),
			NoData:       nodata,
			HasNoData:    hasNodata,
		},
		logTag: g.logTag,
		path:   tif,
	}
	return
}

// 新建单波段GeoTIFF，写入网格参数与输出nodata
func (g *RasterToolbox) Create(tif string, meta RasterMeta, dt DataType, comp Compression) (w RasterWriter, err error) {
	driver, err := gdal.GetDriverByName(GTIFF_DRIVER)
	if err != nil {
		log.Error(g.logTag+"failed to get gtiff driver", zap.Error(err))
		err = ErrWriteFailure
		return
	}
	gdt, err := dt.gdalType()
	if err != nil {
		return
	}
	ds := driver.Create(tif, meta.Cols, meta.Rows, 1, gdt, comp.creationOptions())
	if err = ds.SetGeoTransform(meta.GeoTransform); err != nil {
		log.Error(g.logTag+"failed to set geo transform", zap.String("tif", tif), zap.Error(err))
		ds.Close()
		err = ErrWriteFailure
		return
	}
	if meta.Projection != "" {
		if err = ds.SetProjection(meta.Projection); err != nil {
			log.Error(g.logTag+"failed to set projection", zap.String("tif", tif), zap.Error(err))
			ds.Close()
			err = ErrWriteFailure
			return
		}
	}
	band := ds.RasterBand(1)
	if err = band.SetNoDataValue(OUTPUT_NODATA); err != nil {
		log.Error(g.logTag+"failed to set nodata", zap.String("tif", tif), zap.Error(err))
		ds.Close()
		err = ErrWriteFailure
		return
	}
	log.Info(g.logTag+"raster created", zap.String("tif", tif), zap.Int("cols", meta.Cols),
		zap.Int("rows", meta.Rows), zap.String("dataType", dt.String()))
	w = &gdalWriter{
		ds:     ds,
		band:   band,
		logTag: g.logTag,
		path:   tif,
	}
	return
}

type gdalReader struct {
	ds     gdal.Dataset
	band   gdal.RasterBand
	meta   RasterMeta
	logTag string
	path   string
}

func (r *gdalReader) Meta() RasterMeta {
	return r.meta
}

// 读取一个窗口，像元统一转为float64
func (r *gdalReader) ReadWindow(t Tile) (buf []float64, err error) {
	buf = make([]float64, t.W*t.H)
	if err = r.band.IO(gdal.Read, t.X, t.Y, t.W, t.H, buf, t.W, t.H, 0, 0); err != nil {
		log.Error(r.logTag+"failed to read raster window", zap.String("tif", r.path),
			zap.Int("x", t.X), zap.Int("y", t.Y), zap.Error(err))
		buf = nil
		err = ErrRasterReadFailed
	}
	return
}

func (r *gdalReader) Close() {
	r.ds.Close()
}

type gdalWriter struct {
	ds     gdal.Dataset
	band   gdal.RasterBand
	logTag string
	path   string
}

func (w *gdalWriter) WriteWindow(t Tile, block interface{}) (err error) {
	if err = w.band.IO(gdal.Write, t.X, t.Y, t.W, t.H, block, t.W, t.H, 0, 0); err != nil {
		log.Error(w.logTag+"failed to write raster window", zap.String("tif", w.path),
			zap.Int("x", t.X), zap.Int("y", t.Y), zap.Error(err))
		err = ErrWriteFailure
	}
	return
}

func (w *gdalWriter) Close() error {
	w.ds.FlushCache()
	w.ds.Close()
	return nil
}

func (d DataType) gdalType() (gdal.DataType, error) {
	switch d {
	case DTByte:
		return gdal.Byte, nil
	case DTUInt16:
		return gdal.UInt16, nil
	case DTUInt32:
		return gdal.UInt32, nil
	case DTInt16:
		return gdal.Int16, nil
	case DTInt32:
		return gdal.Int32, nil
	case DTFloat32:
		return gdal.Float32, nil
	case DTFloat64:
		return gdal.Float64, nil
	}
	return gdal.Unknown, ErrUnknownDataType
}
