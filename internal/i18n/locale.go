package i18n

import (
	"net/http"
	"strings"
)

const DefaultLocale = "en"

func supported(lang string) bool {
	switch lang {
	case "en", "de":
		return true
	}
	return false
}

// LocaleFromRequest picks the first supported language from the
// Accept-Language header, falling back to English.
func LocaleFromRequest(r *http.Request) string {
	if r == nil {
		return DefaultLocale
	}
	return NormalizeLocale(r.Header.Get("Accept-Language"))
}

// NormalizeLocale reduces an Accept-Language value to a supported base
// language. Quality weights are ignored; entries are tried in header order.
func NormalizeLocale(header string) string {
	for _, entry := range strings.Split(header, ",") {
		lang := entry
		if idx := strings.IndexByte(lang, ';'); idx >= 0 {
			lang = lang[:idx]
		}
		lang = strings.ToLower(strings.TrimSpace(lang))
		if idx := strings.IndexByte(lang, '-'); idx >= 0 {
			lang = lang[:idx]
		}
		if supported(lang) {
			return lang
		}
	}
	return DefaultLocale
}
