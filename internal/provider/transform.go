// file: internal/provider/transform.go
// version: 1.0.0
// guid: d7b2e4a9-1c6f-4385-a0e7-8f3c5b1d9a24

package provider

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultQuery replaces an empty query; some providers reject empty searches.
const DefaultQuery = "nature"

// GeneralCategory is used when no keyword matches.
const GeneralCategory = "general"

// categoryKeywords is the fixed vocabulary used to derive a category from
// free text. Order matters: the first matching category wins.
var categoryKeywords = []struct {
	name     string
	keywords []string
}{
	{"nature", []string{"nature", "forest", "tree", "mountain", "landscape", "flower", "plant", "ocean", "sea", "beach", "lake", "river", "sky", "sunset", "sunrise", "waterfall", "snow", "desert"}},
	{"animals", []string{"animal", "dog", "cat", "bird", "wildlife", "pet", "horse", "fish", "puppy", "kitten"}},
	{"food", []string{"food", "meal", "fruit", "coffee", "drink", "restaurant", "cooking", "breakfast", "dinner", "cake", "vegetable"}},
	{"people", []string{"people", "person", "woman", "man", "portrait", "child", "family", "friends", "face", "girl", "boy"}},
	{"business", []string{"business", "office", "meeting", "work", "finance", "corporate", "team", "desk"}},
	{"technology", []string{"technology", "computer", "laptop", "code", "phone", "digital", "tech", "device", "screen", "keyboard"}},
	{"architecture", []string{"architecture", "building", "interior", "house", "bridge", "skyscraper", "tower", "room"}},
	{"travel", []string{"travel", "city", "street", "vacation", "road", "adventure", "tourism", "airplane"}},
	{"sports", []string{"sport", "fitness", "running", "football", "gym", "yoga", "soccer", "basketball"}},
	{"abstract", []string{"abstract", "pattern", "texture", "background", "gradient", "minimal", "geometric"}},
}

// Categories returns the vocabulary names in declaration order.
func Categories() []string {
	out := make([]string, 0, len(categoryKeywords))
	for _, c := range categoryKeywords {
		out = append(out, c.name)
	}
	return out
}

// deriveCategory matches words from texts against the category vocabulary.
func deriveCategory(texts ...string) string {
	words := make(map[string]struct{})
	for _, text := range texts {
		for _, w := range tokenize(text) {
			words[w] = struct{}{}
			if strings.HasSuffix(w, "s") && len(w) > 3 {
				words[strings.TrimSuffix(w, "s")] = struct{}{}
			}
		}
	}
	if len(words) == 0 {
		return GeneralCategory
	}
	for _, c := range categoryKeywords {
		for _, kw := range c.keywords {
			if _, ok := words[kw]; ok {
				return c.name
			}
		}
	}
	return GeneralCategory
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "with": {}, "from": {}, "for": {}, "into": {}, "over": {},
	"near": {}, "under": {}, "this": {}, "that": {}, "while": {}, "during": {},
}

// tagsFromText extracts up to limit distinct descriptive words from text.
func tagsFromText(text string, limit int) []string {
	tags := make([]string, 0, limit)
	seen := make(map[string]struct{})
	for _, w := range tokenize(text) {
		if len(tags) >= limit {
			break
		}
		if len(w) < 3 || isNumeric(w) {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		tags = append(tags, w)
	}
	return tags
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// titleCase capitalizes s. Casers are stateful, so one is built per call.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// attribution builds "<Kind> by <author> on <Provider>".
func attribution(kind, author, providerDisplay string) string {
	if strings.TrimSpace(author) == "" {
		author = "Unknown"
	}
	return titleCase(kind) + " by " + author + " on " + providerDisplay
}

// clampPerPage bounds perPage to [1, max].
func clampPerPage(perPage, max int) int {
	if perPage < 1 {
		return 1
	}
	if perPage > max {
		return max
	}
	return perPage
}

func queryOrDefault(q string) string {
	if q = strings.TrimSpace(q); q != "" {
		return q
	}
	return DefaultQuery
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// formatFromMIME converts "video/mp4" to "mp4".
func formatFromMIME(mime, fallback string) string {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if i := strings.LastIndex(mime, "/"); i >= 0 && i < len(mime)-1 {
		return mime[i+1:]
	}
	return fallback
}
