package domain

import "strings"

var countryCurrencies = map[string]string{
	"US": "USD", "USA": "USD",
	"NG": "NGN", "NGA": "NGN",
	"GB": "GBP", "UK": "GBP",
	"CA": "CAD",
	"MX": "MXN",
	"PH": "PHP",
	"IN": "INR",
	"KE": "KES",
	"GH": "GHS",
	"ZA": "ZAR",
	"EU": "EUR", "DE": "EUR", "FR": "EUR", "IT": "EUR", "ES": "EUR",
	"AU": "AUD",
	"NZ": "NZD",
	"JP": "JPY",
	"CN": "CNY",
	"BR": "BRL",
	"AR": "ARS",
	"CL": "CLP",
	"CO": "COP",
	"PE": "PEN",
	"TH": "THB",
	"VN": "VND",
	"ID": "IDR",
	"MY": "MYR",
	"SG": "SGD",
	"KR": "KRW",
	"AE": "AED",
	"SA": "SAR",
	"EG": "EGP",
	"MA": "MAD",
	"TN": "TND",
	"DZ": "DZD",
	"UY": "UYU",
}

// CurrencyForCountry maps an ISO country code to its currency code.
// Unknown codes default to USD.
func CurrencyForCountry(countryCode string) string {
	if currency, ok := countryCurrencies[strings.ToUpper(countryCode)]; ok {
		return currency
	}
	return "USD"
}
