package textutil

import (
	"regexp"
	"strings"
)

var (
	hashtagRe  = regexp.MustCompile(`#(\w+)`)
	mentionRe  = regexp.MustCompile(`@(\w+)`)
	usernameRe = regexp.MustCompile(`[^a-z0-9._]`)
)

// ExtractHashtags returns the lowercase hashtag tokens found in text,
// deduplicated, in first-seen order.
func ExtractHashtags(text string) []string {
	return extract(hashtagRe, text)
}

// ExtractMentions returns the lowercase @mention tokens found in text,
// deduplicated, in first-seen order.
func ExtractMentions(text string) []string {
	return extract(mentionRe, text)
}

func extract(re *regexp.Regexp, text string) []string {
	if text == "" {
		return nil
	}
	matches := re.FindAllStringSubmatch(strings.ToLower(text), -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		tok := m[1]
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// CleanUsername normalizes user input into a valid Instagram handle:
// leading @ stripped, lowercased, invalid characters removed.
func CleanUsername(username string) string {
	u := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(username), "@"))
	return usernameRe.ReplaceAllString(u, "")
}
