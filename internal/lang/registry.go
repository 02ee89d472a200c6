package lang

// Language describes one supported language. CountryCode is the ISO 3166-1
// alpha-2 code used by the UI to pick a flag.
type Language struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	NativeName  string `json:"nativeName"`
	CountryCode string `json:"countryCode"`
}

const (
	DefaultInputLanguage  = "en"
	DefaultSearchLanguage = "en"
)

// supported is the fixed catalog, ordered for UI enumeration.
var supported = []Language{
	{Code: "en", Name: "English", NativeName: "English", CountryCode: "US"},
	{Code: "zh", Name: "Chinese", NativeName: "中文", CountryCode: "CN"},
	{Code: "es", Name: "Spanish", NativeName: "Español", CountryCode: "ES"},
	{Code: "hi", Name: "Hindi", NativeName: "हिन्दी", CountryCode: "IN"},
	{Code: "pt", Name: "Portuguese", NativeName: "Português", CountryCode: "BR"},
	{Code: "ru", Name: "Russian", NativeName: "Русский", CountryCode: "RU"},
	{Code: "ja", Name: "Japanese", NativeName: "日本語", CountryCode: "JP"},
	{Code: "de", Name: "German", NativeName: "Deutsch", CountryCode: "DE"},
	{Code: "ko", Name: "Korean", NativeName: "한국어", CountryCode: "KR"},
	{Code: "fr", Name: "French", NativeName: "Français", CountryCode: "FR"},
	{Code: "tr", Name: "Turkish", NativeName: "Türkçe", CountryCode: "TR"},
	{Code: "vi", Name: "Vietnamese", NativeName: "Tiếng Việt", CountryCode: "VN"},
	{Code: "it", Name: "Italian", NativeName: "Italiano", CountryCode: "IT"},
	{Code: "ar", Name: "Arabic", NativeName: "العربية", CountryCode: "SA"},
	{Code: "pl", Name: "Polish", NativeName: "Polski", CountryCode: "PL"},
	{Code: "nl", Name: "Dutch", NativeName: "Nederlands", CountryCode: "NL"},
	{Code: "th", Name: "Thai", NativeName: "ไทย", CountryCode: "TH"},
	{Code: "id", Name: "Indonesian", NativeName: "Bahasa Indonesia", CountryCode: "ID"},
	{Code: "uk", Name: "Ukrainian", NativeName: "Українська", CountryCode: "UA"},
	{Code: "he", Name: "Hebrew", NativeName: "עברית", CountryCode: "IL"},
	{Code: "sr", Name: "Serbian", NativeName: "Српски", CountryCode: "RS"},
}

// All returns the catalog in declaration order. Callers must not modify the
// returned slice.
func All() []Language {
	return supported
}

// Lookup finds a language by code.
func Lookup(code string) (Language, bool) {
	for _, l := range supported {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}

// Name returns the English display name for a code, or the code itself when
// the code is not in the catalog.
func Name(code string) string {
	if l, ok := Lookup(code); ok {
		return l.Name
	}
	return code
}

// NativeName returns the self-designation for a code, or the code itself
// when unknown.
func NativeName(code string) string {
	if l, ok := Lookup(code); ok {
		return l.NativeName
	}
	return code
}
