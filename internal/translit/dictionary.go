package translit

import "strings"

// fallbackDictionary covers the fixed vocabulary that appears on printed
// certificates, so prints stay bilingual even when the transliteration
// service is down.
var fallbackDictionary = map[string]string{
	"gram panchayat":      "ग्रामपंचायत",
	"birth certificate":   "जन्म प्रमाणपत्र",
	"death certificate":   "मृत्यू प्रमाणपत्र",
	"marriage certificate": "विवाह प्रमाणपत्र",
	"leaving certificate": "रहिवासी दाखला",
	"name":                "नाव",
	"father":              "वडील",
	"mother":              "आई",
	"date of birth":       "जन्मतारीख",
	"date of death":       "मृत्यूची तारीख",
	"place of birth":      "जन्मस्थान",
	"address":             "पत्ता",
	"village":             "गाव",
	"district":            "जिल्हा",
	"taluka":              "तालुका",
	"maharashtra":         "महाराष्ट्र",
	"male":                "पुरुष",
	"female":              "स्त्री",
	"approved":            "मंजूर",
	"pending":             "प्रलंबित",
	"rejected":            "नाकारले",
	"education":           "शिक्षण",
	"employment":          "नोकरी",
	"india":               "भारत",
}

// Lookup returns the Marathi rendering for known fixed phrases.
func Lookup(text string) (string, bool) {
	word, ok := fallbackDictionary[strings.ToLower(strings.TrimSpace(text))]
	return word, ok
}
