// Package holiday produces the locally curated supplementary
// observances (Western, internet-culture, professional, and lunar
// traditional holidays) for a solar year or year range.
package holiday

import (
	"time"

	"holidaycal/internal/lunar"
	"holidaycal/internal/model"
)

// Definition is the catalog's atomic record: a named observance
// resolved to a concrete solar date. Records are immutable values,
// regenerated fresh on every call.
type Definition struct {
	Name        string
	Date        string // canonical YYYY-MM-DD
	Category    model.Category
	Description string
}

// fixedDate anchors an observance to a fixed month/day each year.
type fixedDate struct {
	Month    time.Month
	Day      int
	Name     string
	Category model.Category
}

// floatingDate anchors an observance to the Nth weekday of a month.
type floatingDate struct {
	Nth      int
	Weekday  time.Weekday
	Month    time.Month
	Name     string
	Category model.Category
}

// lunarFestival names a festival resolvable by the lunar package.
type lunarFestival struct {
	Key  string
	Name string
	Desc string
}

var fixedObservances = []fixedDate{
	{time.February, 14, "情人节", model.CategoryWestern},
	{time.March, 8, "妇女节", model.CategoryProfessional},
	{time.March, 12, "植树节", model.CategoryProfessional},
	{time.April, 1, "愚人节", model.CategoryWestern},
	{time.May, 4, "青年节", model.CategoryProfessional},
	{time.May, 12, "护士节", model.CategoryProfessional},
	{time.May, 20, "网络情人节", model.CategoryInternet},
	{time.June, 1, "儿童节", model.CategoryProfessional},
	{time.September, 10, "教师节", model.CategoryProfessional},
	{time.October, 24, "程序员节", model.CategoryInternet},
	{time.October, 31, "万圣夜", model.CategoryWestern},
	{time.November, 8, "记者节", model.CategoryProfessional},
	{time.November, 11, "双十一", model.CategoryInternet},
	{time.December, 24, "平安夜", model.CategoryWestern},
	{time.December, 25, "圣诞节", model.CategoryWestern},
}

var floatingObservances = []floatingDate{
	{4, time.Thursday, time.November, "感恩节", model.CategoryWestern},
}

var lunarFestivals = []lunarFestival{
	{lunar.FestivalChuxi, "除夕", "农历腊月最后一天"},
	{lunar.FestivalChunjie, "春节", "农历正月初一"},
	{lunar.FestivalYuanxiao, "元宵节", "农历正月十五"},
	{lunar.FestivalDuanwu, "端午节", "农历五月初五"},
	{lunar.FestivalQixi, "七夕节", "农历七月初七"},
	{lunar.FestivalZhongyuan, "中元节", "农历七月十五"},
	{lunar.FestivalZhongqiu, "中秋节", "农历八月十五"},
	{lunar.FestivalChongyang, "重阳节", "农历九月初九"},
	{lunar.FestivalLaba, "腊八节", "农历腊月初八"},
	{lunar.FestivalXiaonianNorth, "小年(北方)", "农历腊月廿三"},
	{lunar.FestivalXiaonianSouth, "小年(南方)", "农历腊月廿四"},
}

// Fixed returns the observances anchored to a fixed month/day in year.
func Fixed(year int) []Definition {
	defs := make([]Definition, 0, len(fixedObservances))
	for _, f := range fixedObservances {
		date := time.Date(year, f.Month, f.Day, 0, 0, 0, 0, time.UTC)
		defs = append(defs, Definition{
			Name:     f.Name,
			Date:     model.FormatDate(date),
			Category: f.Category,
		})
	}
	return defs
}

// Floating returns the rule-computed observances for year. The Nth
// weekday of a month is found from the first day of the month: the
// first matching weekday falls on day 1 + ((target - weekday) mod 7),
// and each further week adds 7 days.
func Floating(year int) []Definition {
	defs := make([]Definition, 0, len(floatingObservances))
	for _, f := range floatingObservances {
		first := time.Date(year, f.Month, 1, 0, 0, 0, 0, time.UTC)
		offset := (int(f.Weekday) - int(first.Weekday()) + 7) % 7
		date := first.AddDate(0, 0, offset+7*(f.Nth-1))
		defs = append(defs, Definition{
			Name:     f.Name,
			Date:     model.FormatDate(date),
			Category: f.Category,
		})
	}
	return defs
}

// Lunar returns the traditional lunar festivals that resolve for year.
// A festival whose resolution fails is omitted; one bad rule never
// voids the rest of the catalog.
func Lunar(year int) []Definition {
	defs := make([]Definition, 0, len(lunarFestivals))
	for _, f := range lunarFestivals {
		date, ok := lunar.ResolveFestival(f.Key, year)
		if !ok {
			continue
		}
		defs = append(defs, Definition{
			Name:        f.Name,
			Date:        date,
			Category:    model.CategoryTraditional,
			Description: f.Desc,
		})
	}
	return defs
}

// All concatenates the fixed, floating and lunar observances for year.
func All(year int) []Definition {
	defs := Fixed(year)
	defs = append(defs, Floating(year)...)
	defs = append(defs, Lunar(year)...)
	return defs
}

// AllForRange concatenates All for each year in [startYear, endYear],
// ascending.
func AllForRange(startYear, endYear int) []Definition {
	var defs []Definition
	for year := startYear; year <= endYear; year++ {
		defs = append(defs, All(year)...)
	}
	return defs
}
