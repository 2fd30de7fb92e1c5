// Package literal interprets the text of Parsley's domain literals: money,
// datetimes and durations. The lexer only checks their shape; this package
// splits them into components and validates them against real calendars and
// currency tables.
package literal

import (
	"strconv"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	perrors "github.com/sambeau/parsley-syntax/pkg/parsley/errors"
)

// symbolCodes maps the single-character currency symbols to ISO codes.
var symbolCodes = map[string]string{
	"$": "USD",
	"£": "GBP",
	"€": "EUR",
	"¥": "JPY",
}

// Money is a parsed money literal.
type Money struct {
	Currency string // symbol or ISO code as written, e.g. "$" or "EUR"
	Code     string // ISO 4217 code
	Amount   string // decimal amount as written, e.g. "12.50"
	Scale    int    // minor-unit digits of the currency
	Units    int64  // amount in minor units
}

// ParseMoney splits a money literal such as "$12.50" or "EUR#5" into its
// components.
func ParseMoney(lit string) (Money, error) {
	var m Money
	if i := strings.IndexByte(lit, '#'); i >= 0 {
		m.Currency, m.Code, m.Amount = lit[:i], lit[:i], lit[i+1:]
	} else {
		for sym, code := range symbolCodes {
			if strings.HasPrefix(lit, sym) {
				m.Currency, m.Code, m.Amount = sym, code, lit[len(sym):]
				break
			}
		}
	}
	if m.Code == "" || m.Amount == "" {
		return m, perrors.New("LEX-0008", map[string]any{"Kind": "money", "Literal": lit, "Reason": "missing currency or amount"})
	}

	unit, err := currency.ParseISO(m.Code)
	if err != nil {
		return m, perrors.New("LEX-0007", map[string]any{"Code": m.Code})
	}
	m.Scale, _ = currency.Standard.Rounding(unit)

	whole, frac, _ := strings.Cut(m.Amount, ".")
	if len(frac) > m.Scale {
		return m, perrors.New("LEX-0008", map[string]any{
			"Kind":    "money",
			"Literal": lit,
			"Reason":  m.Code + " allows " + strconv.Itoa(m.Scale) + " decimal places",
		})
	}
	digits := whole + frac + strings.Repeat("0", m.Scale-len(frac))
	m.Units, err = strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return m, perrors.New("LEX-0008", map[string]any{"Kind": "money", "Literal": lit, "Reason": "amount out of range"})
	}
	return m, nil
}

// Float returns the amount as a float64.
func (m Money) Float() float64 {
	f, _ := strconv.ParseFloat(m.Amount, 64)
	return f
}

// Format renders the amount in the given BCP 47 locale with the currency's
// symbol, e.g. "€ 12.50" or "12,50 €".
func (m Money) Format(locale string) (string, error) {
	unit, err := currency.ParseISO(m.Code)
	if err != nil {
		return "", err
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return "", err
	}
	p := message.NewPrinter(tag)
	return p.Sprintf("%v", currency.Symbol(unit.Amount(m.Float()))), nil
}
