package utils

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

var (
	ErrBadSlice = errors.New("invalid slice spec")
)

func StrToInt(s string) int {
	if s == "" {
		return 0
	}
	i, _ := strconv.Atoi(s)
	return i
}

// 左侧补零至两位
func ZeroPad2(s string) string {
	s = strings.TrimSpace(s)
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// 按Python切片语义截取字符串，如"2:7"、"-8:-4"、":5"、"3"（等价":3"）
func PySlice(s, spec string) (string, error) {
	parts := strings.Split(spec, ":")
	if len(parts) > 3 {
		return "", ErrBadSlice
	}
	var start, stop, step *int
	idx := make([]*int, 3)
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return "", ErrBadSlice
		}
		idx[i] = &v
	}
	// 单独一个数等价于只给stop，与Python的slice(n)一致
	if len(parts) == 1 {
		stop = idx[0]
	} else {
		start, stop, step = idx[0], idx[1], idx[2]
	}
	st := 1
	if step != nil {
		if *step == 0 {
			return "", ErrBadSlice
		}
		st = *step
	}
	rs := []rune(s)
	n := len(rs)
	var lower, upper int
	if st > 0 {
		lower, upper = 0, n
	} else {
		lower, upper = -1, n-1
	}
	clamp := func(p *int, def int) int {
		if p == nil {
			return def
		}
		v := *p
		if v < 0 {
			v += n
			if v < lower {
				v = lower
			}
		} else if v > upper {
			v = upper
		}
		return v
	}
	var b, e int
	if st > 0 {
		b, e = clamp(start, lower), clamp(stop, upper)
	} else {
		b, e = clamp(start, upper), clamp(stop, lower)
	}
	var out []rune
	if st > 0 {
		for i := b; i < e; i += st {
			out = append(out, rs[i])
		}
	} else {
		for i := b; i > e; i += st {
			out = append(out, rs[i])
		}
	}
	return string(out), nil
}

// GBK 转 UTF-8
func GbkToUtf8(s []byte) (d []byte, e error) {
	reader := transform.NewReader(bytes.NewReader(s), simplifiedchinese.GBK.NewDecoder())
	d, e = io.ReadAll(reader)
	return
}

// UTF-8 转 GBK
func Utf8ToGbk(s []byte) (d []byte, e error) {
	reader := transform.NewReader(bytes.NewReader(s), simplifiedchinese.GBK.NewEncoder())
	d, e = io.ReadAll(reader)
	return
}

func PurifyForUtf8(s string) string {
	return strings.ToValidUTF8(strings.ReplaceAll(s, "\x00", ""), "")
}
