package care

import "strings"

// Controlled-vocabulary maps for the lookup provider's enumerated fields.
// Codes outside the map pass through unchanged so new provider values are
// never silently dropped.

var wateringPhrases = map[string]string{
	"frequent": "Siram sering, jaga media tetap lembap",
	"average":  "Siram saat permukaan media mulai kering",
	"minimum":  "Siram sesekali saja",
	"none":     "Hampir tidak perlu disiram",
}

var sunlightPhrases = map[string]string{
	"full_sun":            "Matahari penuh",
	"part_sun":            "Matahari sebagian",
	"part_shade":          "Teduh sebagian",
	"part_sun/part_shade": "Matahari atau teduh sebagian",
	"filtered_shade":      "Cahaya tersaring",
	"full_shade":          "Teduh penuh",
	"deep_shade":          "Teduh pekat",
	"sun-part_shade":      "Matahari hingga teduh sebagian",
}

// TranslateWatering maps a watering-frequency code to a display phrase.
func TranslateWatering(code string) string {
	if p, ok := wateringPhrases[strings.ToLower(strings.TrimSpace(code))]; ok {
		return p
	}
	return code
}

// TranslateSunlight maps light-exposure codes element-wise, preserving order.
func TranslateSunlight(codes []string) []string {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if p, ok := sunlightPhrases[strings.ToLower(strings.TrimSpace(c))]; ok {
			out = append(out, p)
		} else {
			out = append(out, c)
		}
	}
	return out
}
