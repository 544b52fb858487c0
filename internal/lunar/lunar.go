// Package lunar converts Chinese lunar calendar dates to solar dates
// and resolves named lunar festivals for a given solar year.
package lunar

import (
	"errors"
	"fmt"

	"github.com/6tail/lunar-go/calendar"

	appLog "holidaycal/internal/log"
	"holidaycal/internal/model"
)

// ErrInvalidLunarDate reports a (year, month, day) triple that does not
// correspond to a real lunar calendar date, e.g. day 30 in a short month.
var ErrInvalidLunarDate = errors.New("invalid lunar date")

// Festival keys accepted by ResolveFestival.
const (
	FestivalChunjie       = "chunjie"        // 春节, lunar 1/1
	FestivalYuanxiao      = "yuanxiao"       // 元宵节, lunar 1/15
	FestivalDuanwu        = "duanwu"         // 端午节, lunar 5/5
	FestivalQixi          = "qixi"           // 七夕节, lunar 7/7
	FestivalZhongyuan     = "zhongyuan"      // 中元节, lunar 7/15
	FestivalZhongqiu      = "zhongqiu"       // 中秋节, lunar 8/15
	FestivalChongyang     = "chongyang"      // 重阳节, lunar 9/9
	FestivalLaba          = "laba"           // 腊八节, lunar 12/8
	FestivalXiaonianNorth = "xiaonian_north" // 小年(北方), lunar 12/23
	FestivalXiaonianSouth = "xiaonian_south" // 小年(南方), lunar 12/24
	FestivalChuxi         = "chuxi"          // 除夕, last day of lunar month 12
)

type lunarDate struct {
	Month int
	Day   int
}

var festivals = map[string]lunarDate{
	FestivalChunjie:       {1, 1},
	FestivalYuanxiao:      {1, 15},
	FestivalDuanwu:        {5, 5},
	FestivalQixi:          {7, 7},
	FestivalZhongyuan:     {7, 15},
	FestivalZhongqiu:      {8, 15},
	FestivalChongyang:     {9, 9},
	FestivalLaba:          {12, 8},
	FestivalXiaonianNorth: {12, 23},
	FestivalXiaonianSouth: {12, 24},
}

// LunarToSolar converts a lunar (year, month, day) to a canonical
// YYYY-MM-DD solar date string. The underlying library reports
// impossible dates by panicking; that is recovered here and surfaced
// as ErrInvalidLunarDate.
func LunarToSolar(year, month, day int) (date string, err error) {
	if year < 1900 || year > 2100 || month < 1 || month > 12 || day < 1 || day > 30 {
		return "", fmt.Errorf("%w: %04d/%d/%d", ErrInvalidLunarDate, year, month, day)
	}

	defer func() {
		if r := recover(); r != nil {
			date = ""
			err = fmt.Errorf("%w: %04d/%d/%d: %v", ErrInvalidLunarDate, year, month, day, r)
		}
	}()

	solar := calendar.NewLunarFromYmd(year, month, day).GetSolar()
	return fmt.Sprintf("%04d-%02d-%02d", solar.GetYear(), solar.GetMonth(), solar.GetDay()), nil
}

// ResolveFestival resolves a named lunar festival to its solar date
// within the lunar year corresponding to solarYear. Festivals in lunar
// month 12 fall near the end of the preceding solar year's final weeks
// but are conventionally reported under the following solar year, so
// they convert using solarYear-1 as the lunar year.
//
// Unknown keys and failed conversions return ok = false.
func ResolveFestival(key string, solarYear int) (string, bool) {
	if key == FestivalChuxi {
		return resolveChuxi(solarYear)
	}

	f, ok := festivals[key]
	if !ok {
		return "", false
	}

	lunarYear := solarYear
	if f.Month == 12 {
		lunarYear = solarYear - 1
	}

	date, err := LunarToSolar(lunarYear, f.Month, f.Day)
	if err != nil {
		appLog.Debug("festival resolution failed", "key", key, "solar_year", solarYear, "err", err)
		return "", false
	}
	return date, true
}

// resolveChuxi computes 除夕 as the day before lunar new year. Deriving
// it from lunar (solarYear, 1, 1) sidesteps the 29/30-day length of the
// preceding twelfth month.
func resolveChuxi(solarYear int) (string, bool) {
	cny, err := LunarToSolar(solarYear, 1, 1)
	if err != nil {
		return "", false
	}
	t, err := model.ParseDate(cny)
	if err != nil {
		return "", false
	}
	return model.FormatDate(t.AddDate(0, 0, -1)), true
}
