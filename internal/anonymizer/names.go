package anonymizer

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	upperLetters = `A-ZÁČĎÉĚÍŇÓŘŠŤÚŮÝŽ`
	lowerLetters = `a-záčďéěíňóřšťúůýž`

	minNameWords = 2
	maxNameWords = 3
)

var (
	nameWordRe         = regexp.MustCompile(`^[` + upperLetters + `][` + lowerLetters + `]+$`)
	sentenceBoundaryRe = regexp.MustCompile(`\n+|[.!?]`)
)

// nameStage redacts runs of two or three capitalized words. The first token of
// every sentence is left alone: sentence-initial words are capitalized anyway.
type nameStage struct{}

// NameStage returns the sentence-aware name redaction stage.
func NameStage() Stage { return nameStage{} }

func (nameStage) Name() string        { return "name" }
func (nameStage) Placeholder() string { return NamePlaceholder }

// Apply splits text into sentence bodies and terminators, redacts each body
// after its first token, and glues everything back in order.
func (nameStage) Apply(text string) string {
	bounds := sentenceBoundaryRe.FindAllStringIndex(text, -1)
	if len(bounds) == 0 {
		return redactAfterFirstToken(text)
	}

	var b strings.Builder
	b.Grow(len(text))
	prev := 0
	for _, m := range bounds {
		b.WriteString(redactAfterFirstToken(text[prev:m[0]]))
		b.WriteString(text[m[0]:m[1]])
		prev = m[1]
	}
	b.WriteString(redactAfterFirstToken(text[prev:]))
	return b.String()
}

// redactAfterFirstToken keeps leading whitespace plus the first non-space token
// verbatim. A body with no token at all is returned as is.
func redactAfterFirstToken(sentence string) string {
	i := strings.IndexFunc(sentence, func(r rune) bool { return !isSpace(r) })
	if i < 0 {
		return sentence
	}
	j := strings.IndexFunc(sentence[i:], isSpace)
	if j < 0 {
		return sentence
	}
	cut := i + j
	return sentence[:cut] + redactNames(sentence[cut:])
}

type span struct{ start, end int }

// redactNames replaces leftmost, greedy runs of 2..3 whitespace-separated name
// words. A name word is a whole word: an uppercase letter followed by lowercase
// letters, with no other word characters attached on either side.
func redactNames(s string) string {
	words := wordSpans(s)
	if len(words) < minNameWords {
		return s
	}

	var b strings.Builder
	prev := 0
	for i := 0; i < len(words); {
		if !isNameWord(s, words[i]) {
			i++
			continue
		}
		j := i
		for j+1 < len(words) && j+1-i < maxNameWords &&
			isNameWord(s, words[j+1]) && allSpace(s[words[j].end:words[j+1].start]) {
			j++
		}
		if j-i+1 < minNameWords {
			i++
			continue
		}
		b.WriteString(s[prev:words[i].start])
		b.WriteString(NamePlaceholder)
		prev = words[j].end
		i = j + 1
	}
	if prev == 0 {
		return s
	}
	b.WriteString(s[prev:])
	return b.String()
}

// wordSpans returns byte ranges of maximal word-character runs.
func wordSpans(s string) []span {
	var spans []span
	start := -1
	for i, r := range s {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			spans = append(spans, span{start, i})
			start = -1
		}
	}
	if start >= 0 {
		spans = append(spans, span{start, len(s)})
	}
	return spans
}

func isNameWord(s string, w span) bool {
	return nameWordRe.MatchString(s[w.start:w.end])
}

func allSpace(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isSpace(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}
