package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// groupThousands formats a non-negative value rounded to whole units
// with comma separators, e.g. 1234567.8 -> "1,234,568".
func groupThousands(v float64) string {
	s := strconv.FormatFloat(math.Round(v), 'f', 0, 64)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// clockTime renders a millisecond epoch as local HH:MM:SS, with
// milliseconds appended when the display granularity is finer than a
// second.
func clockTime(ms int64, withMillis bool) string {
	t := time.UnixMilli(ms).Local()
	if withMillis {
		return fmt.Sprintf("%s.%03d", t.Format("15:04:05"), ms%1000)
	}
	return t.Format("15:04:05")
}

// bars repeats the glyph n times in the given color.
func bars(glyph, color string, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(color+glyph+ansiReset, n)
}
