package core

import "strings"

// personaMarkers flag model output claiming a clinical persona the service
// never grants.  Any line containing one is dropped.
var personaMarkers = []string{
	"i am a doctor",
	"i am your doctor",
	"i'm a doctor",
	"i'm your doctor",
	"as a doctor",
	"as your doctor",
	"i am a physician",
	"i am a licensed",
	"speaking as a physician",
}

// Sanitize strips disallowed content from model output: emoji (clinically
// unprofessional) and lines where the model self-declares an unapproved
// persona.
func Sanitize(text string) string {
	text = stripEmoji(text)
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		lower := strings.ToLower(line)
		drop := false
		for _, marker := range personaMarkers {
			if strings.Contains(lower, marker) {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, line)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1F6FF: // pictographs, emoticons, transport
		return true
	case r >= 0x1F900 && r <= 0x1FAFF: // supplemental symbols
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols, dingbats
		return true
	case r >= 0x1F1E6 && r <= 0x1F1FF: // regional indicators
		return true
	case r == 0xFE0F: // variation selector
		return true
	}
	return false
}

func stripEmoji(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if !isEmoji(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
