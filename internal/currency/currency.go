package currency

// Source records how the active display currency was chosen.
type Source string

const (
	SourceDefault  Source = "default"
	SourceGeo      Source = "geo"
	SourceManual   Source = "manual"
	SourceFallback Source = "fallback"
)

// State is the process-wide display-currency decision. Rate is relative to
// the base currency (rate 1 for base). Orders are always recorded in base
// currency; this is presentational only.
type State struct {
	Code   string  `json:"code"`
	Rate   float64 `json:"rate"`
	Source Source  `json:"source"`
}

// Location is what the geolocation boundary hands back, or what a customer
// picks manually.
type Location struct {
	Country     string `json:"country"`
	CountryCode string `json:"countryCode"`
	City        string `json:"city"`
	Region      string `json:"region"`
}

var countryCodeCurrency = map[string]string{
	"AE": "AED",
	"SA": "SAR",
	"QA": "QAR",
	"KW": "KWD",
	"BH": "BHD",
	"OM": "OMR",
	"US": "USD",
	"CA": "CAD",
	"AU": "AUD",
	"NZ": "NZD",
	"GB": "GBP",
	"TR": "TRY",
}

var countryCurrency = map[string]string{
	"United Arab Emirates": "AED",
	"Saudi Arabia":         "SAR",
	"Qatar":                "QAR",
	"Kuwait":               "KWD",
	"Bahrain":              "BHD",
	"Oman":                 "OMR",
	"United States":        "USD",
	"Canada":               "CAD",
	"Australia":            "AUD",
	"New Zealand":          "NZD",
	"United Kingdom":       "GBP",
	"Turkey":               "TRY",
}

// euroBloc covers countries priced in EUR when no dedicated mapping wins.
var euroBloc = map[string]struct{}{
	"Albania": {}, "Andorra": {}, "Armenia": {}, "Austria": {},
	"Azerbaijan": {}, "Belarus": {}, "Belgium": {},
	"Bosnia and Herzegovina": {}, "Bulgaria": {}, "Croatia": {},
	"Cyprus": {}, "Czech Republic": {}, "Czechia": {}, "Denmark": {},
	"Estonia": {}, "Finland": {}, "France": {}, "Georgia": {},
	"Germany": {}, "Greece": {}, "Hungary": {}, "Iceland": {},
	"Ireland": {}, "Italy": {}, "Kosovo": {}, "Latvia": {},
	"Liechtenstein": {}, "Lithuania": {}, "Luxembourg": {}, "Malta": {},
	"Moldova": {}, "Monaco": {}, "Montenegro": {}, "Netherlands": {},
	"North Macedonia": {}, "Norway": {}, "Poland": {}, "Portugal": {},
	"Romania": {}, "San Marino": {}, "Serbia": {}, "Slovakia": {},
	"Slovenia": {}, "Spain": {}, "Sweden": {}, "Switzerland": {},
	"Vatican City": {},
}

// CurrencyForCountry walks the mapping chain: country code, country name,
// euro bloc, then the base currency. It always succeeds.
func CurrencyForCountry(country, countryCode, base string) string {
	if code, ok := countryCodeCurrency[countryCode]; ok {
		return code
	}
	if code, ok := countryCurrency[country]; ok {
		return code
	}
	if _, ok := euroBloc[country]; ok {
		return "EUR"
	}
	return base
}
