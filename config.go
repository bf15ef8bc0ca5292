package riskmapper

const (
	FILE_EXT_TIF = ".tif"
	FILE_EXT_CSV = ".csv"

	GTIFF_DRIVER = "GTiff"

	DEFAULT_TILE_SIZE = 512

	OUTPUT_NODATA = 0

	DEFAULT_FREQ_PREFIX         = "frequencymaps_"
	DEFAULT_STAT_PREFIX         = "stat_"
	DEFAULT_MONTHLY_STAT_PREFIX = "fd_"
	DEFAULT_SAMPLE_PREFIX       = "pts_"
	DEFAULT_PREPROC_PREFIX      = "mod_"

	DEFAULT_DATE_SLICE = "2:7"

	SEASON_NAME_TEMPLATE   = "%s%d_%s" + FILE_EXT_TIF
	EXPOSURE_NAME_TEMPLATE = "%sexposure_%s" + FILE_EXT_TIF
	AREA_FIELD_TEMPLATE    = "%s%s_km2"
	AREA_FORMULA_TEMPLATE  = `"%s" * %s / 1000000`

	FIELD_WI   = "WI"
	FIELD_FWI  = "FWI"
	FIELD_RISK = "RISK"

	FWI_CSV_SUFFIX = "_FWI" + FILE_EXT_CSV

	TMP_TIF = "pre_%s" + FILE_EXT_TIF

	ErrColumnMissingTemplate = `csv表格中缺失【%s】字段`
)
