package common

import (
	"strings"
	"time"
)

// Date layouts accepted on the command line, most specific first.
const (
	DateTimeLayout = "02/01/2006 15:04"
	DateLayout     = "02/01/2006"
)

// ParseTimestamp turns "now", "DD/MM/YYYY HH:MM" or "DD/MM/YYYY" into Unix
// seconds, reading the date in loc. The clock is only consulted for "now".
func ParseTimestamp(s string, now func() time.Time, loc *time.Location) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "now" {
		return now().Unix(), nil
	}

	for _, layout := range []string{DateTimeLayout, DateLayout} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.Unix(), nil
		}
	}

	return 0, InvalidArgument("bad date %q (want now, DD/MM/YYYY or DD/MM/YYYY HH:MM)", s)
}

// FormatTimestamp renders Unix seconds the way movements are listed.
func FormatTimestamp(ts int64, loc *time.Location) string {
	return time.Unix(ts, 0).In(loc).Format(DateTimeLayout)
}
