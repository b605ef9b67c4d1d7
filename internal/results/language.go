package results

import (
	"strings"

	"golang.org/x/text/language"
)

// Languages resolves requested languages to one of the two a quiz is
// authored in. Anything it cannot match falls back to the primary language.
type Languages struct {
	primary   string
	secondary string
	matcher   language.Matcher
}

func NewLanguages(primary, secondary string) *Languages {
	primary = strings.ToLower(strings.TrimSpace(primary))
	secondary = strings.ToLower(strings.TrimSpace(secondary))
	if primary == "" {
		primary = "en"
	}
	tags := []language.Tag{language.Make(primary)}
	if secondary != "" && secondary != primary {
		tags = append(tags, language.Make(secondary))
	} else {
		secondary = ""
	}
	return &Languages{primary: primary, secondary: secondary, matcher: language.NewMatcher(tags)}
}

func (l *Languages) Primary() string { return l.primary }

// Resolve picks a supported language from the candidates, in order. Each
// candidate may be a plain tag ("hi", "hi-IN") or an Accept-Language value.
func (l *Languages) Resolve(candidates ...string) string {
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		tags, _, err := language.ParseAcceptLanguage(c)
		if err != nil || len(tags) == 0 {
			continue
		}
		_, idx, conf := l.matcher.Match(tags...)
		if conf == language.No {
			continue
		}
		if idx == 1 {
			return l.secondary
		}
		return l.primary
	}
	return l.primary
}

// Text returns the variant for lang, falling back to the primary text when
// the secondary variant is missing or blank.
func (l *Languages) Text(lang, primary, alt string) string {
	if l.secondary != "" && lang == l.secondary && strings.TrimSpace(alt) != "" {
		return alt
	}
	return primary
}
