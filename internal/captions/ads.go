package captions

import (
	"regexp"
	"strconv"
	"strings"
)

var adPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)opensubtitles`),
	regexp.MustCompile(`(?i)\b(?:sub)?titles? by\b`),
	regexp.MustCompile(`(?i)captions? by`),
	regexp.MustCompile(`(?i)synced? and corrected`),
	regexp.MustCompile(`(?i)advertise (your|yours?) product`),
	regexp.MustCompile(`(?i)http(s)?://`),
	regexp.MustCompile(`(?i)\bwww\.`),
	regexp.MustCompile(`(?i)\bsubscene\b`),
	regexp.MustCompile(`(?i)\byts\b`),
	regexp.MustCompile(`(?i)\byify\b`),
}

// IsAdvertisement reports whether cue text promotes a subtitle site or
// credits a subtitler.
func IsAdvertisement(text string) bool {
	payload := strings.TrimSpace(text)
	if payload == "" {
		return false
	}
	for _, pattern := range adPatterns {
		if pattern.MatchString(payload) {
			return true
		}
	}
	return false
}

// StripAdvertisements drops advertisement cues and renumbers the rest. It
// returns the kept cues and how many were removed.
func StripAdvertisements(cues []Cue) ([]Cue, int) {
	kept := make([]Cue, 0, len(cues))
	removed := 0
	for _, cue := range cues {
		if IsAdvertisement(cue.Text) {
			removed++
			continue
		}
		cue.ID = strconv.Itoa(len(kept) + 1)
		kept = append(kept, cue)
	}
	return kept, removed
}
