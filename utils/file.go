package utils

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// 在父目录下创建唯一命名的临时子目录
func GetUniqSubDir(parentPath string) (path string, err error) {
	path = filepath.Join(parentPath, uuid.NewString())
	err = os.Mkdir(path, os.ModePerm)
	return
}

func GetFilenameWithoutExt(path string) (name string) {
	name = filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(path))
	return
}

// 列出目录下指定后缀的文件（后缀匹配不区分大小写），可递归子目录，结果按字典序
func ListFilesWithExt(dir, ext string, recursive bool) (files []string, err error) {
	ext = strings.ToLower(ext)
	if recursive {
		err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, e error) error {
			if e != nil {
				return e
			}
			if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ext) {
				files = append(files, path)
			}
			return nil
		})
		return
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, ent := range ents {
		if !ent.IsDir() && strings.HasSuffix(strings.ToLower(ent.Name()), ext) {
			files = append(files, filepath.Join(dir, ent.Name()))
		}
	}
	return
}

// 复制文件，目标已存在则覆盖
func CopyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return
	}
	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return
	}
	err = out.Close()
	return
}

// 移动文件，跨设备无法直接改名时回退为复制加删除
func MoveFile(src, dst string) (err error) {
	if err = os.Rename(src, dst); err == nil {
		return
	}
	if err = CopyFile(src, dst); err != nil {
		return
	}
	err = os.Remove(src)
	return
}
