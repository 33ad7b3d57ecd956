// Package anonymizer redacts personally identifiable information from free text.
//
// Redaction is a fixed pipeline of pure string-rewrite stages. Each stage sees the
// output of the previous one, so the order matters: emails go first because they may
// contain digits, phone numbers go before the generic digit run, and names go last so
// that placeholder tokens are never mistaken for capitalized words.
//
// The heuristics are best effort. They prefer redacting too much over leaking PII.
package anonymizer

import "regexp"

// Placeholder tokens substituted for redacted substrings.
const (
	EmailPlaceholder  = "[EMAIL]"
	PhonePlaceholder  = "[PHONE]"
	NumberPlaceholder = "[NUMBER]"
	NamePlaceholder   = "[NAME]"
)

// space mirrors Unicode whitespace inside a character class.
const space = `\s\x0b\x1c-\x1f\x85\p{Z}`

var (
	emailRe  = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRe  = regexp.MustCompile(`\+?\p{Nd}[\p{Nd}` + space + `-]{7,}\p{Nd}`)
	numberRe = regexp.MustCompile(`\p{Nd}{3,}`)
)

// Stage is a single redaction pass.
type Stage interface {
	// Name identifies the stage in logs and tests.
	Name() string
	// Placeholder is the token the stage writes in place of a match.
	Placeholder() string
	// Apply rewrites text. It must be total and side-effect free.
	Apply(text string) string
}

// RegexStage replaces every match of a pattern with a fixed placeholder.
type RegexStage struct {
	name        string
	placeholder string
	re          *regexp.Regexp
}

// NewRegexStage creates a stage from a compiled pattern.
func NewRegexStage(name string, re *regexp.Regexp, placeholder string) *RegexStage {
	return &RegexStage{name: name, placeholder: placeholder, re: re}
}

func (s *RegexStage) Name() string        { return s.name }
func (s *RegexStage) Placeholder() string { return s.placeholder }

// Apply implements Stage.
func (s *RegexStage) Apply(text string) string {
	return s.re.ReplaceAllLiteralString(text, s.placeholder)
}

// EmailStage redacts local-part@domain.tld addresses.
func EmailStage() Stage { return NewRegexStage("email", emailRe, EmailPlaceholder) }

// PhoneStage redacts runs of at least nine digits, optionally prefixed with "+",
// that may contain spaces or hyphens.
func PhoneStage() Stage { return NewRegexStage("phone", phoneRe, PhonePlaceholder) }

// NumberStage redacts any remaining run of three or more digits.
func NumberStage() Stage { return NewRegexStage("number", numberRe, NumberPlaceholder) }

// Pipeline applies stages in order.
type Pipeline struct {
	stages []Stage
}

// NewPipeline creates a pipeline running stages in the given order.
func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

var defaultPipeline = NewPipeline(EmailStage(), PhoneStage(), NumberStage(), NameStage())

// Default returns the shared email → phone → number → name pipeline.
func Default() *Pipeline {
	return defaultPipeline
}

// Anonymize runs text through the default pipeline.
func Anonymize(text string) string {
	return defaultPipeline.Anonymize(text)
}

// Anonymize runs text through every stage.
func (p *Pipeline) Anonymize(text string) string {
	if text == "" {
		return ""
	}
	for _, s := range p.stages {
		text = s.Apply(text)
	}
	return text
}

// Stages returns stage names in execution order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}
