package riskmapper

// 栅格分块窗口（像素坐标）
type Tile struct {
	X int
	Y int
	W int
	H int
}

// 按行优先切分栅格为边长不超过size的窗口，边缘窗口按实际范围裁剪
func GridTiles(cols, rows, size int) []Tile {
	if size <= 0 {
		size = DEFAULT_TILE_SIZE
	}
	if cols <= 0 || rows <= 0 {
		return nil
	}
	nx := (cols + size - 1) / size
	ny := (rows + size - 1) / size
	tiles := make([]Tile, 0, nx*ny)
	for y := 0; y < rows; y += size {
		h := size
		if y+h > rows {
			h = rows - y
		}
		for x := 0; x < cols; x += size {
			w := size
			if x+w > cols {
				w = cols - x
			}
			tiles = append(tiles, Tile{X: x, Y: y, W: w, H: h})
		}
	}
	return tiles
}
