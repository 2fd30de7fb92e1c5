package literal

import (
	"strconv"
	"strings"

	perrors "github.com/sambeau/parsley-syntax/pkg/parsley/errors"
)

// Seconds per fixed-length duration unit. Years and months are calendar
// units and are kept apart.
var unitSeconds = map[string]int64{
	"w": 7 * 24 * 3600,
	"d": 24 * 3600,
	"h": 3600,
	"m": 60,
	"s": 1,
}

// DurationPart is one amount/unit pair of a duration literal.
type DurationPart struct {
	Amount int64
	Unit   string // y, mo, M, w, d, h, m or s
}

// Duration is a parsed @-duration literal such as @1y6mo or @-2h30m.
type Duration struct {
	Negative bool
	Parts    []DurationPart
}

// ParseDuration splits the text of a DURATION token into parts. The leading
// '@' is optional.
func ParseDuration(lit string) (Duration, error) {
	s := strings.TrimPrefix(lit, "@")
	var d Duration
	if strings.HasPrefix(s, "-") {
		d.Negative = true
		s = s[1:]
	}
	if s == "" {
		return d, invalidDuration(lit, "empty duration")
	}

	for s != "" {
		n := scanNumber(s)
		if n == 0 {
			return d, invalidDuration(lit, "expected a number before unit '"+s[:1]+"'")
		}
		amount, err := strconv.ParseInt(s[:n], 10, 64)
		if err != nil {
			return d, invalidDuration(lit, "amount out of range")
		}
		s = s[n:]

		var unit string
		switch {
		case strings.HasPrefix(s, "mo"):
			unit = "mo"
		case s != "" && strings.ContainsRune("yMwdhms", rune(s[0])):
			unit = s[:1]
		default:
			return d, invalidDuration(lit, "missing unit after "+strconv.FormatInt(amount, 10))
		}
		s = s[len(unit):]
		d.Parts = append(d.Parts, DurationPart{Amount: amount, Unit: unit})
	}
	return d, nil
}

func scanNumber(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}

// Get returns the total amount written for unit. "M" counts as "mo".
func (d Duration) Get(unit string) int64 {
	if unit == "M" {
		unit = "mo"
	}
	var total int64
	for _, p := range d.Parts {
		u := p.Unit
		if u == "M" {
			u = "mo"
		}
		if u == unit {
			total += p.Amount
		}
	}
	return d.sign(total)
}

// Months returns the calendar part of the duration in months.
func (d Duration) Months() int64 {
	return d.Get("y")*12 + d.Get("mo")
}

// Seconds returns the fixed-length part of the duration in seconds.
func (d Duration) Seconds() int64 {
	var total int64
	for _, p := range d.Parts {
		total += p.Amount * unitSeconds[p.Unit]
	}
	return d.sign(total)
}

func (d Duration) sign(v int64) int64 {
	if d.Negative {
		return -v
	}
	return v
}

// String renders the duration in its literal form without the '@'.
func (d Duration) String() string {
	var b strings.Builder
	if d.Negative {
		b.WriteByte('-')
	}
	for _, p := range d.Parts {
		b.WriteString(strconv.FormatInt(p.Amount, 10))
		b.WriteString(p.Unit)
	}
	return b.String()
}

func invalidDuration(lit, reason string) error {
	return perrors.New("LEX-0008", map[string]any{"Kind": "duration", "Literal": lit, "Reason": reason})
}
