package riskmapper

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/KalpaniNJ/Risk-Mapper/utils"
)

var (
	obsDateRe    = regexp.MustCompile(`(\d{4})-(\d{2})-\d{2}`)
	yearInNameRe = regexp.MustCompile(`\d{4}`)
)

// 从文件名中提取观测日期的月份（YYYY-MM-DD，取第一处匹配）
func MatchMonth(name string) (string, bool) {
	m := obsDateRe.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return m[2], true
}

// 从文件名中提取观测日期的年与月（YYYY-MM-DD，取第一处匹配）
func MatchYearMonth(name string) (int, string, bool) {
	m := obsDateRe.FindStringSubmatch(name)
	if m == nil {
		return 0, "", false
	}
	return utils.StrToInt(m[1]), m[2], true
}

// 取文件主名中最后一个下划线之后的片段，无下划线则返回整个主名
func SuffixAfterUnderscore(path string) string {
	stem := stemOf(path)
	if i := strings.LastIndexByte(stem, '_'); i >= 0 {
		return stem[i+1:]
	}
	return stem
}

// 取文件主名中倒数第二个下划线分段（约定该段为日期串）
func DateToken(path string) (string, bool) {
	parts := strings.Split(stemOf(path), "_")
	if len(parts) < 2 {
		return "", false
	}
	return parts[len(parts)-2], true
}

// 提取文件名中所有数字并取末四位作为年份标识，不足四位取全部
func YearDigits(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) > 4 {
		return digits[len(digits)-4:]
	}
	return digits
}

// 采样列名键：优先取主名中首个四位数字串，否则取末段后缀
func SampleKey(path string) string {
	stem := stemOf(path)
	if m := yearInNameRe.FindString(stem); m != "" {
		return m
	}
	return SuffixAfterUnderscore(path)
}

func stemOf(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
