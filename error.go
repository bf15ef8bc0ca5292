package riskmapper

import "errors"

var (
	ErrInvalidRaster    = errors.New("invalid raster")
	ErrRasterMismatch   = errors.New("raster grid mismatch")
	ErrRasterReadFailed = errors.New("raster read failed")
	ErrWriteFailure     = errors.New("raster write failure")
	ErrNoInputFound     = errors.New("no input raster found")
	ErrUnknownDataType  = errors.New("unknown data type")
	ErrBadCompression   = errors.New("unknown compression type")
	ErrBadZonalStat     = errors.New("unsupported zonal statistic")
	ErrNoSeasons        = errors.New("no usable season definition")
	ErrNoIndicator      = errors.New("no usable indicator column")
	ErrNoVectorToolbox  = errors.New("vector toolbox not set")
	ErrNoPreprocessor   = errors.New("raster preprocessor not set")
	ErrEmptyTable       = errors.New("empty csv table")
)
