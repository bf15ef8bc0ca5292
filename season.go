package riskmapper

import (
	"os"
	"sort"

	"github.com/KalpaniNJ/Risk-Mapper/utils"

	"gopkg.in/yaml.v3"
)

// 季节定义：名称与所含月份（按季节内顺序，首月决定季节归属年）
type SeasonDefinition struct {
	Name   string   `yaml:"name"`
	Months []string `yaml:"months"`
}

// 单期观测栅格
type MonthObservation struct {
	Year  int
	Month string
	Path  string
}

// 一个季节桶：年份、季节名与按月对位的输入（缺月为空串占位）
type SeasonBucket struct {
	Year   int
	Season string
	Inputs []string
}

// 从YAML文件加载季节定义
func LoadSeasonsFile(path string) ([]SeasonDefinition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var defs []SeasonDefinition
	if err = yaml.Unmarshal(raw, &defs); err != nil {
		return nil, err
	}
	return defs, nil
}

func normalizeSeasons(defs []SeasonDefinition) []SeasonDefinition {
	out := make([]SeasonDefinition, 0, len(defs))
	for _, d := range defs {
		if d.Name == "" || len(d.Months) == 0 {
			continue
		}
		months := make([]string, len(d.Months))
		for i, m := range d.Months {
			months[i] = utils.ZeroPad2(m)
		}
		out = append(out, SeasonDefinition{Name: d.Name, Months: months})
	}
	return out
}

// 将观测按季节定义归入(年,季节)桶：跨年季节以首月归属年，缺月留空串
func BucketBySeasons(defs []SeasonDefinition, obs []MonthObservation) ([]SeasonBucket, error) {
	defs = normalizeSeasons(defs)
	if len(defs) == 0 {
		return nil, ErrNoSeasons
	}
	sort.SliceStable(obs, func(i, j int) bool {
		if obs[i].Year != obs[j].Year {
			return obs[i].Year < obs[j].Year
		}
		return utils.StrToInt(obs[i].Month) < utils.StrToInt(obs[j].Month)
	})

	type slot struct {
		year int
		def  int
	}
	var (
		seen  = make(map[slot]bool)
		order []slot
	)
	for _, o := range obs {
		month := utils.ZeroPad2(o.Month)
		for di, d := range defs {
			if !hasMonth(d.Months, month) {
				continue
			}
			year := o.Year
			if utils.StrToInt(month) < utils.StrToInt(d.Months[0]) {
				year--
			}
			key := slot{year: year, def: di}
			if !seen[key] {
				seen[key] = true
				order = append(order, key)
			}
		}
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].year != order[j].year {
			return order[i].year < order[j].year
		}
		return defs[order[i].def].Name < defs[order[j].def].Name
	})

	buckets := make([]SeasonBucket, 0, len(order))
	for _, key := range order {
		d := defs[key.def]
		first := utils.StrToInt(d.Months[0])
		inputs := make([]string, len(d.Months))
		for mi, m := range d.Months {
			want := key.year
			if utils.StrToInt(m) < first {
				want++
			}
			for _, o := range obs {
				if o.Year == want && utils.ZeroPad2(o.Month) == m {
					inputs[mi] = o.Path
					break
				}
			}
		}
		buckets = append(buckets, SeasonBucket{Year: key.year, Season: d.Name, Inputs: inputs})
	}
	return buckets, nil
}

func hasMonth(months []string, m string) bool {
	for _, v := range months {
		if v == m {
			return true
		}
	}
	return false
}
