package report

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// DateFormat is the day.month.year layout the export uses for dates.
const DateFormat = "02.01.2006"

// timestampFormats are accepted where a date column carries a time of day.
var timestampFormats = []string{
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var groupSeparators = strings.NewReplacer(
	" ", "",
	"\u00a0", "", // no-break space
	"\u202f", "", // narrow no-break space
)

// ParseAmount parses a Czech-locale number: comma as decimal point and
// optional space thousands separators, e.g. "-1 234,56".
func ParseAmount(s string) (decimal.Decimal, error) {
	v := groupSeparators.Replace(strings.TrimSpace(s))
	if strings.Contains(v, ",") {
		v = strings.ReplaceAll(v, ".", "")
		v = strings.Replace(v, ",", ".", 1)
	}
	if v == "" {
		return decimal.Decimal{}, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

// FormatAmount renders d the way ParseAmount reads it, without grouping.
func FormatAmount(d decimal.Decimal) string {
	return strings.Replace(d.String(), ".", ",", 1)
}

// ParseDate parses a "dd.mm.yyyy" date.
func ParseDate(s string) (civil.Date, error) {
	t, err := time.Parse(DateFormat, strings.TrimSpace(s))
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid date %q: expected dd.mm.yyyy", s)
	}
	return civil.DateOf(t), nil
}

// parseValueDate accepts a plain date or a timestamp, dropping the time part.
func parseValueDate(s string) (civil.Date, error) {
	if d, err := ParseDate(s); err == nil {
		return d, nil
	}
	v := strings.TrimSpace(s)
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, v); err == nil {
			return civil.DateOf(t), nil
		}
	}
	return civil.Date{}, fmt.Errorf("invalid date %q", s)
}

// FormatDate renders d in the export's day.month.year layout.
func FormatDate(d civil.Date) string {
	return fmt.Sprintf("%02d.%02d.%04d", d.Day, int(d.Month), d.Year)
}
