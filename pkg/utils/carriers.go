package utils

// carrierNames maps IATA two-letter carrier codes to display names. Used as
// the fallback when the airline master table has no row for a code.
var carrierNames = map[string]string{
	"AA": "American Airlines",
	"AC": "Air Canada",
	"AF": "Air France",
	"AI": "Air India",
	"AS": "Alaska Airlines",
	"B6": "JetBlue Airways",
	"BA": "British Airways",
	"CX": "Cathay Pacific",
	"DL": "Delta Air Lines",
	"EK": "Emirates",
	"EY": "Etihad Airways",
	"F9": "Frontier Airlines",
	"GA": "Garuda Indonesia",
	"IB": "Iberia",
	"JL": "Japan Airlines",
	"KL": "KLM Royal Dutch Airlines",
	"LH": "Lufthansa",
	"LX": "Swiss International Air Lines",
	"NH": "All Nippon Airways",
	"NK": "Spirit Airlines",
	"QF": "Qantas",
	"QR": "Qatar Airways",
	"SQ": "Singapore Airlines",
	"TK": "Turkish Airlines",
	"UA": "United Airlines",
	"VS": "Virgin Atlantic",
	"WN": "Southwest Airlines",
}

// CarrierName resolves a two-letter carrier code against the static table
func CarrierName(code string) (string, bool) {
	name, ok := carrierNames[code]
	return name, ok
}
