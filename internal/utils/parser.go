package utils

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gorm.io/datatypes"
)

var (
	phonePattern  = regexp.MustCompile(`^\+?[0-9]{6,15}$`)
	slugSeparator = regexp.MustCompile(`[^a-z0-9]+`)
	phoneNoise    = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "", "\u00a0", "")
)

// NormalizePhone strips the separators people type into phone numbers.
func NormalizePhone(raw string) string {
	return phoneNoise.Replace(strings.TrimSpace(raw))
}

// IsPhone reports whether s is 6 to 15 digits with an optional leading +.
func IsPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// Slugify turns "Robes d'été" into "robes-d-ete".
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	slug := slugSeparator.ReplaceAllString(strings.ToLower(folded), "-")
	return strings.Trim(slug, "-")
}

// JSONToMap convert datatypes.JSON to map[string]interface{}
func JSONToMap(jsonData datatypes.JSON) (map[string]interface{}, error) {
	result := map[string]interface{}{}
	if len(jsonData) == 0 {
		return result, nil
	}
	if err := json.Unmarshal(jsonData, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// MapToJSON convert map[string]interface{} to datatypes.JSON
func MapToJSON(data map[string]interface{}) (datatypes.JSON, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return jsonData, nil
}
