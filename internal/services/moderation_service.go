package services

import (
	"regexp"
	"strings"
)

var BannedWords = []string{
	"fuck", "fucking", "fucker", "shit", "shitty", "bullshit",
	"asshole", "bastard", "bitch", "cunt",
	"nigger", "nigga", "chink", "spic", "kike", "faggot", "fag",
	"retard", "retarded", "tranny",
	"porn", "porno", "nudes",
}

// ModerationService screens free-text review comments. Patterns are compiled
// once and are safe for concurrent use.
type ModerationService struct {
	enabled             bool
	bannedWordRegexps   []*regexp.Regexp
	repeatedCharPattern *regexp.Regexp
}

func NewModerationService(enabled bool) *ModerationService {
	ms := &ModerationService{enabled: enabled}

	ms.bannedWordRegexps = make([]*regexp.Regexp, 0, len(BannedWords))
	for _, word := range BannedWords {
		ms.bannedWordRegexps = append(ms.bannedWordRegexps, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(word)+`\b`))
	}
	runs := make([]string, 0, 29)
	for _, ch := range "abcdefghijklmnopqrstuvwxyz!?." {
		runs = append(runs, regexp.QuoteMeta(string(ch))+"{8,}")
	}
	ms.repeatedCharPattern = regexp.MustCompile(`(?i)(` + strings.Join(runs, "|") + `)`)
	return ms
}

// FilterContent returns false and a reason code when text should be rejected.
func (ms *ModerationService) FilterContent(text string) (bool, string) {
	if !ms.enabled || text == "" {
		return true, ""
	}
	for _, re := range ms.bannedWordRegexps {
		if re.MatchString(text) {
			return false, "inappropriate_language"
		}
	}
	if ms.repeatedCharPattern.MatchString(text) {
		return false, "spam_detected"
	}
	return true, ""
}
