package utils

import (
	"regexp"
	"strings"
)

var (
	hashtagRegex = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)
	mentionRegex = regexp.MustCompile(`@([\p{L}\p{N}_.]+)`)
)

// ExtractHashtags returns the distinct hashtag names found in content,
// lower-cased, without the leading '#', in order of first appearance.
func ExtractHashtags(content string) []string {
	return extract(hashtagRegex, content, true)
}

// ExtractMentions returns the distinct names found after '@' in content, in
// order of first appearance. Case is preserved since display names are
// case-sensitive.
func ExtractMentions(content string) []string {
	return extract(mentionRegex, content, false)
}

func extract(re *regexp.Regexp, content string, lower bool) []string {
	matches := re.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		name := m[1]
		if lower {
			name = strings.ToLower(name)
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	return out
}
