package literal

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	perrors "github.com/sambeau/parsley-syntax/pkg/parsley/errors"
)

// DateTime is a parsed @-datetime literal. Date is empty for a bare time;
// Time is empty for a bare date.
type DateTime struct {
	Date   string // YYYY-MM-DD
	Time   string // HH:MM[:SS][.frac]
	Offset string // "Z", "+HH:MM", "-HH:MM" or ""
}

// Kind reports "date", "time" or "datetime".
func (d DateTime) Kind() string {
	switch {
	case d.Date == "":
		return "time"
	case d.Time == "":
		return "date"
	}
	return "datetime"
}

// ParseDateTime splits the text of a DATETIME token into components. The
// leading '@' is optional.
func ParseDateTime(lit string) (DateTime, error) {
	s := strings.TrimPrefix(lit, "@")
	var d DateTime

	if !strings.Contains(s, "-") || strings.Index(s, ":") > 0 && strings.Index(s, ":") < strings.Index(s, "-") {
		if err := checkClock(s); err != nil {
			return d, invalidDateTime(lit, "time", err.Error())
		}
		d.Time = s
		return d, nil
	}

	date, clock, hasTime := strings.Cut(s, "T")
	d.Date = date
	if hasTime {
		switch {
		case strings.HasSuffix(clock, "Z"):
			d.Offset, clock = "Z", strings.TrimSuffix(clock, "Z")
		case len(clock) > 6 && (clock[len(clock)-6] == '+' || clock[len(clock)-6] == '-'):
			d.Offset, clock = clock[len(clock)-6:], clock[:len(clock)-6]
		}
		d.Time = clock
	}

	if _, err := d.Resolve(); err != nil {
		return d, invalidDateTime(lit, d.Kind(), err.Error())
	}
	return d, nil
}

// Resolve converts the literal to a time.Time. Literals without an offset
// are read as UTC; a bare time falls on 0000-01-01.
func (d DateTime) Resolve() (time.Time, error) {
	if d.Date == "" {
		parts := strings.Split(strings.SplitN(d.Time, ".", 2)[0], ":")
		h, _ := strconv.Atoi(parts[0])
		m, _ := strconv.Atoi(parts[1])
		sec := 0
		if len(parts) > 2 {
			sec, _ = strconv.Atoi(parts[2])
		}
		return time.Date(0, time.January, 1, h, m, sec, 0, time.UTC), nil
	}

	if _, err := time.Parse("2006-01-02", d.Date); err != nil {
		return time.Time{}, err
	}
	if d.Time == "" {
		return dateparse.ParseIn(d.Date, time.UTC)
	}
	if err := checkClock(d.Time); err != nil {
		return time.Time{}, err
	}

	clock, frac, hasFrac := strings.Cut(d.Time, ".")
	if strings.Count(clock, ":") == 1 {
		clock += ":00"
	}
	if hasFrac {
		clock += "." + frac
	}
	offset := d.Offset
	if offset == "" {
		offset = "Z"
	}
	return dateparse.ParseIn(d.Date+"T"+clock+offset, time.UTC)
}

// checkClock validates HH:MM[:SS][.frac] ranges.
func checkClock(s string) error {
	s, _, _ = strings.Cut(s, ".")
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return &clockError{"expected HH:MM or HH:MM:SS"}
	}
	limits := []int{23, 59, 59}
	names := []string{"hour", "minute", "second"}
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 || v > limits[i] {
			return &clockError{names[i] + " out of range"}
		}
	}
	return nil
}

type clockError struct{ msg string }

func (e *clockError) Error() string { return e.msg }

func invalidDateTime(lit, kind, reason string) error {
	return perrors.New("LEX-0008", map[string]any{"Kind": kind, "Literal": lit, "Reason": reason})
}
