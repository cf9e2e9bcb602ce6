package xmrg

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ErrFileDate is returned when a file name does not carry a valid date.
var ErrFileDate = errors.New("no valid date in xmrg file name")

// dateDigits is the length of the MMDDYYYYHH stamp in pre-1997 names.
const dateDigits = 10

// ParseFileTime extracts the valid time from a pre-1997 file name such as
// "xmrg0506199516z.gz" (1995-05-06 16:00 UTC). Everything before the first
// digit is ignored; the next ten characters must all be digits.
func ParseFileTime(name string) (time.Time, error) {
	base := filepath.Base(name)
	i := strings.IndexFunc(base, isDigit)
	if i < 0 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrFileDate, base)
	}
	digits := base[i:]
	if end := strings.IndexFunc(digits, func(r rune) bool { return !isDigit(r) }); end >= 0 {
		digits = digits[:end]
	}
	if len(digits) != dateDigits {
		return time.Time{}, fmt.Errorf("%w: %q has %d digits, want %d", ErrFileDate, base, len(digits), dateDigits)
	}

	month, _ := strconv.Atoi(digits[0:2])
	day, _ := strconv.Atoi(digits[2:4])
	year, _ := strconv.Atoi(digits[4:8])
	hour, _ := strconv.Atoi(digits[8:10])

	// HH runs 00-24; hour 24 is the end of the day.
	if month < 1 || month > 12 || day < 1 || hour > 24 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrFileDate, base)
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		return time.Time{}, fmt.Errorf("%w: %q: no day %d in month %d", ErrFileDate, base, day, month)
	}
	return t.Add(time.Duration(hour) * time.Hour), nil
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
