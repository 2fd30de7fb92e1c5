package repl

import (
	"strings"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"

	"github.com/sambeau/parsley-syntax/pkg/parsley/ast"
)

var localeMap = map[string]monday.Locale{
	"en":    monday.LocaleEnUS,
	"en_us": monday.LocaleEnUS,
	"en_gb": monday.LocaleEnGB,
	"de":    monday.LocaleDeDE,
	"de_de": monday.LocaleDeDE,
	"fr":    monday.LocaleFrFR,
	"fr_fr": monday.LocaleFrFR,
	"fr_ca": monday.LocaleFrCA,
	"es":    monday.LocaleEsES,
	"es_es": monday.LocaleEsES,
	"it":    monday.LocaleItIT,
	"it_it": monday.LocaleItIT,
	"pt":    monday.LocalePtPT,
	"pt_pt": monday.LocalePtPT,
	"pt_br": monday.LocalePtBR,
	"nl":    monday.LocaleNlNL,
	"nl_nl": monday.LocaleNlNL,
	"nl_be": monday.LocaleNlBE,
	"ru":    monday.LocaleRuRU,
	"ru_ru": monday.LocaleRuRU,
	"pl":    monday.LocalePlPL,
	"pl_pl": monday.LocalePlPL,
	"sv":    monday.LocaleSvSE,
	"sv_se": monday.LocaleSvSE,
	"fi":    monday.LocaleFiFI,
	"fi_fi": monday.LocaleFiFI,
	"da":    monday.LocaleDaDK,
	"da_dk": monday.LocaleDaDK,
	"ja":    monday.LocaleJaJP,
	"ja_jp": monday.LocaleJaJP,
	"zh":    monday.LocaleZhCN,
	"zh_cn": monday.LocaleZhCN,
	"zh_tw": monday.LocaleZhTW,
	"ko":    monday.LocaleKoKR,
	"ko_kr": monday.LocaleKoKR,
	"tr":    monday.LocaleTrTR,
	"tr_tr": monday.LocaleTrTR,
}

// mondayLocale maps a locale such as "en-GB" or "fr_FR" to a monday
// locale, falling back to the language and then to US English.
func mondayLocale(locale string) monday.Locale {
	locale = strings.ToLower(strings.ReplaceAll(locale, "-", "_"))
	if loc, ok := localeMap[locale]; ok {
		return loc
	}

	// Try the language part, letting x/text canonicalise odd spellings.
	lang, _, _ := strings.Cut(locale, "_")
	if tag, err := language.Parse(lang); err == nil {
		base, _ := tag.Base()
		lang = base.String()
	}
	if loc, ok := localeMap[lang]; ok {
		return loc
	}
	return monday.LocaleEnUS
}

// dateLayout returns the long date layout for a locale.
func dateLayout(locale monday.Locale) string {
	switch locale {
	case monday.LocaleEnUS:
		return "Monday, January 2, 2006"
	case monday.LocaleDeDE:
		return "Monday, 2. January 2006"
	case monday.LocaleFrFR, monday.LocaleFrCA:
		return "Monday 2 January 2006"
	case monday.LocaleEsES:
		return "Monday, 2 de January de 2006"
	case monday.LocaleJaJP, monday.LocaleZhCN, monday.LocaleZhTW:
		return "2006年1月2日 Monday"
	case monday.LocaleKoKR:
		return "2006년 1월 2일 Monday"
	}
	return "Monday, 2 January 2006"
}

// formatDateTime resolves a datetime literal and renders it for locale.
func formatDateTime(dt *ast.DateTimeLiteral, locale monday.Locale) (string, error) {
	value := dt.Value()
	t, err := value.Resolve()
	if err != nil {
		return "", err
	}

	switch value.Kind() {
	case "time":
		return t.Format("15:04:05"), nil
	case "date":
		return monday.Format(t, dateLayout(locale), locale), nil
	}
	return monday.Format(t, dateLayout(locale)+" 15:04:05 -07:00", locale), nil
}
