package riskmapper

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type memRaster struct {
	meta RasterMeta
	data []float64
}

type memOutput struct {
	meta   RasterMeta
	dt     DataType
	comp   Compression
	data   []float64
	closed bool
}

type memRasterIO struct {
	rasters   map[string]*memRaster
	outputs   map[string]*memOutput
	opens     int
	closes    int
	createErr error
	writeErr  error
	closeErr  error
}

func newMemIO() *memRasterIO {
	return &memRasterIO{
		rasters: make(map[string]*memRaster),
		outputs: make(map[string]*memOutput),
	}
}

func (io *memRasterIO) addRaster(path string, meta RasterMeta, data []float64) {
	io.rasters[path] = &memRaster{meta: meta, data: data}
}

func (io *memRasterIO) Open(path string) (RasterReader, error) {
	r, ok := io.rasters[path]
	if !ok {
		return nil, ErrInvalidRaster
	}
	io.opens++
	return &memReader{io: io, raster: r}, nil
}

func (io *memRasterIO) Create(path string, meta RasterMeta, dt DataType, comp Compression) (RasterWriter, error) {
	if io.createErr != nil {
		return nil, io.createErr
	}
	out := &memOutput{
		meta: meta,
		dt:   dt,
		comp: comp,
		data: make([]float64, meta.Cols*meta.Rows),
	}
	io.outputs[path] = out
	return &memWriter{io: io, out: out}, nil
}

type memReader struct {
	io     *memRasterIO
	raster *memRaster
}

func (r *memReader) Meta() RasterMeta {
	return r.raster.meta
}

func (r *memReader) ReadWindow(t Tile) ([]float64, error) {
	var (
		cols = r.raster.meta.Cols
		buf  = make([]float64, t.W*t.H)
	)
	for row := 0; row < t.H; row++ {
		src := (t.Y+row)*cols + t.X
		copy(buf[row*t.W:(row+1)*t.W], r.raster.data[src:src+t.W])
	}
	return buf, nil
}

func (r *memReader) Close() {
	r.io.closes++
}

type memWriter struct {
	io  *memRasterIO
	out *memOutput
}

func (w *memWriter) WriteWindow(t Tile, block interface{}) error {
	if w.io.writeErr != nil {
		return w.io.writeErr
	}
	buf, err := blockToFloats(block)
	if err != nil {
		return err
	}
	cols := w.out.meta.Cols
	for row := 0; row < t.H; row++ {
		dst := (t.Y+row)*cols + t.X
		copy(w.out.data[dst:dst+t.W], buf[row*t.W:(row+1)*t.W])
	}
	return nil
}

func (w *memWriter) Close() error {
	w.out.closed = true
	return w.io.closeErr
}

func blockToFloats(block interface{}) ([]float64, error) {
	switch b := block.(type) {
	case []uint8:
		out := make([]float64, len(b))
		for i, v := range b {
			out[i] = float64(v)
		}
		return out, nil
	case []uint16:
		out := make([]float64, len(b))
		for i, v := range b {
			out[i] = float64(v)
		}
		return out, nil
	case []uint32:
		out := make([]float64, len(b))
		for i, v := range b {
			out[i] = float64(v)
		}
		return out, nil
	case []int16:
		out := make([]float64, len(b))
		for i, v := range b {
			out[i] = float64(v)
		}
		return out, nil
	case []int32:
		out := make([]float64, len(b))
		for i, v := range b {
			out[i] = float64(v)
		}
		return out, nil
	case []float32:
		out := make([]float64, len(b))
		for i, v := range b {
			out[i] = float64(v)
		}
		return out, nil
	case []float64:
		out := make([]float64, len(b))
		copy(out, b)
		return out, nil
	}
	return nil, fmt.Errorf("unexpected block type %T", block)
}

func gridMeta(cols, rows int) RasterMeta {
	return RasterMeta{
		Cols:         cols,
		Rows:         rows,
		GeoTransform: [6]float64{0, 1, 0, 0, 0, -1},
		Projection:   "EPSG:4326",
	}
}

func constGrid(cols, rows int, v float64) []float64 {
	data := make([]float64, cols*rows)
	for i := range data {
		data[i] = v
	}
	return data
}

func touchFiles(t *testing.T, dir string, names ...string) []string {
	t.Helper()
	paths := make([]string, len(names))
	for i, n := range names {
		p := filepath.Join(dir, n)
		if err := os.MkdirAll(filepath.Dir(p), os.ModePerm); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("x"), os.ModePerm); err != nil {
			t.Fatal(err)
		}
		paths[i] = p
	}
	return paths
}

type vecCall struct {
	op   string
	args []string
}

type memLayer struct {
	src string
}

func (l *memLayer) Source() string {
	return l.src
}

type memVectorToolbox struct {
	calls  []vecCall
	failOn string
}

func (v *memVectorToolbox) record(op string, args ...string) error {
	v.calls = append(v.calls, vecCall{op: op, args: args})
	if v.failOn == op {
		return fmt.Errorf("%s failed", op)
	}
	return nil
}

func (v *memVectorToolbox) OpenLayer(path string) (VectorLayer, error) {
	if err := v.record("open", path); err != nil {
		return nil, err
	}
	return &memLayer{src: path}, nil
}

func (v *memVectorToolbox) ZonalStatistics(layer VectorLayer, raster, columnPrefix string, stat ZonalStat) error {
	return v.record("zonal", layer.Source(), raster, columnPrefix, stat.String())
}

func (v *memVectorToolbox) CalculateField(layer VectorLayer, field, formula string) error {
	return v.record("calc", layer.Source(), field, formula)
}

func (v *memVectorToolbox) JoinTable(layer VectorLayer, field, csv, csvField string, copyFields []string) error {
	return v.record("jointable", layer.Source(), field, csv, csvField, strings.Join(copyFields, ","))
}

func (v *memVectorToolbox) JoinLayer(layer VectorLayer, field string, other VectorLayer, otherField string, copyFields []string) error {
	return v.record("joinlayer", layer.Source(), field, other.Source(), otherField, strings.Join(copyFields, ","))
}

func (v *memVectorToolbox) SampleRaster(points VectorLayer, raster, columnPrefix string) error {
	return v.record("sample", points.Source(), raster, columnPrefix)
}

func (v *memVectorToolbox) SummarizeByLocation(polygons, points VectorLayer, fields []string) error {
	return v.record("summarize", polygons.Source(), points.Source(), strings.Join(fields, ","))
}

func (v *memVectorToolbox) Save(layer VectorLayer, path string) error {
	return v.record("save", layer.Source(), path)
}

func (v *memVectorToolbox) ops() []string {
	ops := make([]string, len(v.calls))
	for i, c := range v.calls {
		ops[i] = c.op
	}
	return ops
}

type memPreprocessor struct {
	merges [][]string
	clips  []vecCall
	projs  []vecCall
	failOn string
}

func (p *memPreprocessor) Merge(inputs []string, out string) error {
	if p.failOn == "merge" {
		return fmt.Errorf("merge failed")
	}
	p.merges = append(p.merges, inputs)
	return os.WriteFile(out, []byte("m"), os.ModePerm)
}

func (p *memPreprocessor) ClipByMask(raster, maskLayer, out string) error {
	if p.failOn == "clip" {
		return fmt.Errorf("clip failed")
	}
	p.clips = append(p.clips, vecCall{op: "clip", args: []string{raster, maskLayer}})
	return os.WriteFile(out, []byte("c"), os.ModePerm)
}

func (p *memPreprocessor) Reproject(raster, targetWKT, out string) error {
	if p.failOn == "proj" {
		return fmt.Errorf("proj failed")
	}
	p.projs = append(p.projs, vecCall{op: "proj", args: []string{raster, targetWKT}})
	return os.WriteFile(out, []byte("p"), os.ModePerm)
}
