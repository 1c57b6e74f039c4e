package care

import "strings"

// Sentinel pairs. notAvailable marks topics the provider had no data for;
// failedLoad marks topics lost to a provider failure. The caller always sees
// every topic key, whichever pair fills it.
var (
	notAvailable = Topic{
		Instruction: "Info tidak tersedia",
		Detail:      "Info tidak tersedia untuk topik ini.",
	}
	failedLoad = Topic{
		Instruction: "Info gagal dimuat",
		Detail:      "Info perawatan gagal dimuat.",
	}
)

// Fallback is the profile substituted when enrichment fails outright.
func Fallback() Profile {
	var p Profile
	for _, t := range p.topics() {
		*t = failedLoad
	}
	return p
}

// IsFallback reports whether a topic carries the failure sentinel.
func IsFallback(t Topic) bool { return t == failedLoad }

// Flat is the shape the structured-lookup provider yields: a handful of named
// attributes instead of the seven-topic form.
type Flat struct {
	Watering    string
	Sunlight    string
	Description string
}

// Complete fills every empty topic with the not-available pair so the output
// contract never exposes a missing key. Already-complete profiles pass
// through untouched.
func Complete(p Profile) Profile {
	for _, t := range p.topics() {
		if strings.TrimSpace(t.Instruction) == "" {
			t.Instruction = notAvailable.Instruction
		}
		if strings.TrimSpace(t.Detail) == "" {
			t.Detail = notAvailable.Detail
		}
	}
	return p
}

// FromFlat maps the flat attribute shape onto the canonical topics. Topics
// the flat shape cannot express come back empty and are filled by Complete.
func FromFlat(f Flat) Profile {
	var p Profile
	if w := strings.TrimSpace(f.Watering); w != "" {
		p.Watering = Topic{Instruction: w, Detail: w + "."}
	}
	if s := strings.TrimSpace(f.Sunlight); s != "" {
		p.Light = Topic{Instruction: s, Detail: "Kebutuhan cahaya: " + s + "."}
	}
	if d := strings.TrimSpace(f.Description); d != "" {
		p.Summary = &Summary{Description: d}
	}
	return Complete(p)
}
