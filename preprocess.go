package riskmapper

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/KalpaniNJ/Risk-Mapper/log"
	"github.com/KalpaniNJ/Risk-Mapper/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 栅格预处理器：镶嵌、掩膜裁剪与重投影
type RasterPreprocessor interface {
	// 将多张栅格镶嵌为一张
	Merge(inputs []string, out string) error
	// 按矢量掩膜裁剪栅格
	ClipByMask(raster, maskLayer, out string) error
	// 重投影栅格到目标空间参考（WKT）
	Reproject(raster, targetWKT, out string) error
}

// 预处理流水线配置：MaskLayer、TargetWKT为空串时跳过相应步骤
type PreprocessConfig struct {
	InputDir     string
	OutputDir    string
	MaskLayer    string
	TargetWKT    string
	Merge        bool
	MergePattern string
	Prefix       string
	TmpDir       string
	Registrar    LayerRegistrar
}

type preprocGroup struct {
	base   string
	relDir string
	files  []string
}

// 对目录下（含子目录）每张或每组tif依次执行镶嵌、裁剪、重投影，产物按原相对路径落盘
func (g *Engine) RunPreprocess(ctx context.Context, pre RasterPreprocessor, cfg PreprocessConfig) (rep Report, err error) {
	if pre == nil {
		err = ErrNoPreprocessor
		return
	}
	files, err := utils.ListFilesWithExt(cfg.InputDir, FILE_EXT_TIF, true)
	if err != nil {
		return
	}
	if len(files) == 0 {
		err = ErrNoInputFound
		return
	}
	var groupRe *regexp.Regexp
	if cfg.Merge && cfg.MergePattern != "" {
		if groupRe, err = regexp.Compile("^(?:" + cfg.MergePattern + ")"); err != nil {
			return
		}
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DEFAULT_PREPROC_PREFIX
	}
	tmpDir := cfg.TmpDir
	if tmpDir == "" {
		if tmpDir, err = utils.GetUniqSubDir(os.TempDir()); err != nil {
			return
		}
		defer os.RemoveAll(tmpDir)
	}
	groups := groupForMerge(cfg.InputDir, files, groupRe)
	log.Info(g.logTag+"start preprocess", zap.String("dir", cfg.InputDir),
		zap.Int("tif_cnt", len(files)), zap.Int("groups", len(groups)))
	for _, grp := range groups {
		if e := ctxErr(ctx); e != nil {
			rep.Cancelled = true
			err = e
			return
		}
		out, e := g.preprocessGroup(pre, grp, cfg.MaskLayer, cfg.TargetWKT, cfg.OutputDir, prefix, tmpDir)
		if e != nil {
			log.Error(g.logTag+"preprocess group failed", zap.String("group", grp.base), zap.Error(e))
			rep.Failed = append(rep.Failed, UnitFailure{Key: grp.base, Err: e})
			continue
		}
		rep.Produced = append(rep.Produced, out)
		if cfg.Registrar != nil {
			cfg.Registrar(out)
		}
	}
	log.Info(g.logTag+"preprocess done", zap.Int("produced", len(rep.Produced)),
		zap.Int("failed", len(rep.Failed)))
	return
}

// 按正则首段分组待镶嵌文件；无分组正则时每个文件自成一组
func groupForMerge(root string, files []string, re *regexp.Regexp) []preprocGroup {
	var (
		order []string
		idx   = make(map[string]*preprocGroup)
	)
	for _, f := range files {
		stem := utils.GetFilenameWithoutExt(f)
		base := stem
		if re != nil {
			if m := re.FindStringSubmatch(stem); m != nil {
				if len(m) > 1 && m[1] != "" {
					base = m[1]
				} else {
					base = m[0]
				}
			}
		}
		rel, err := filepath.Rel(root, filepath.Dir(f))
		if err != nil || rel == "." {
			rel = ""
		}
		key := rel + "/" + base
		grp, ok := idx[key]
		if !ok {
			grp = &preprocGroup{base: base, relDir: rel}
			idx[key] = grp
			order = append(order, key)
		}
		grp.files = append(grp.files, f)
	}
	groups := make([]preprocGroup, 0, len(order))
	for _, key := range order {
		groups = append(groups, *idx[key])
	}
	return groups
}

func (g *Engine) preprocessGroup(pre RasterPreprocessor, grp preprocGroup, mask, wkt, outDir, prefix, tmpDir string) (out string, err error) {
	var tmps []string
	defer func() {
		for _, t := range tmps {
			os.Remove(t)
		}
	}()
	nextTmp := func() string {
		t := filepath.Join(tmpDir, fmt.Sprintf(TMP_TIF, uuid.NewString()))
		tmps = append(tmps, t)
		return t
	}
	cur := grp.files[0]
	if len(grp.files) > 1 {
		t := nextTmp()
		if err = pre.Merge(grp.files, t); err != nil {
			return
		}
		cur = t
	}
	if mask != "" {
		t := nextTmp()
		if err = pre.ClipByMask(cur, mask, t); err != nil {
			return
		}
		cur = t
	}
	if wkt != "" {
		t := nextTmp()
		if err = pre.Reproject(cur, wkt, t); err != nil {
			return
		}
		cur = t
	}
	dstDir := outDir
	if grp.relDir != "" {
		dstDir = filepath.Join(outDir, grp.relDir)
	}
	if err = os.MkdirAll(dstDir, os.ModePerm); err != nil {
		return
	}
	out = filepath.Join(dstDir, prefix+grp.base+FILE_EXT_TIF)
	if len(tmps) == 0 {
		err = utils.CopyFile(cur, out)
	} else {
		err = utils.MoveFile(cur, out)
	}
	if err != nil {
		out = ""
	}
	return
}
