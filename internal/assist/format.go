package assist

import (
	"regexp"
	"strings"
)

var (
	listMarkerPattern = regexp.MustCompile(`(\d+\.\s*|- \s*|\*\s*)`)
	blankLinePattern  = regexp.MustCompile(`\n\s*\n`)
	whitespacePattern = regexp.MustCompile(`\s+`)

	scriptSectionPattern = regexp.MustCompile(`(?is)SCRIPT IDEAS:(.*?)(ADMIN NOTE:|$)`)
	noteSectionPattern   = regexp.MustCompile(`(?is)ADMIN NOTE:(.*)`)
)

// FormatIdeas rewrites numbered and bulleted lists as "- " items on their own lines.
func FormatIdeas(text string) string {
	out := listMarkerPattern.ReplaceAllString(text, "\n- ")
	out = blankLinePattern.ReplaceAllString(out, "\n")
	return strings.TrimSpace(out)
}

// SplitIdeas returns the items of a formatted list. Lines without a marker
// continue the previous item.
func SplitIdeas(text string) []string {
	var ideas []string
	for _, line := range strings.Split(FormatIdeas(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "-") || len(ideas) == 0 {
			item := strings.TrimSpace(strings.TrimPrefix(line, "-"))
			if item != "" {
				ideas = append(ideas, item)
			}
			continue
		}
		ideas[len(ideas)-1] += " " + line
	}
	return ideas
}

type AdminSuggestions struct {
	Script string `json:"videoScriptSuggestion"`
	Note   string `json:"adminNoteSuggestion"`
}

// parseAdminSuggestions reports whether the whole-text fallback was used.
func parseAdminSuggestions(text string) (AdminSuggestions, bool) {
	out := AdminSuggestions{Script: scriptUnavailable, Note: noteUnavailable}

	if m := scriptSectionPattern.FindStringSubmatch(text); m != nil && m[1] != "" {
		out.Script = FormatIdeas(strings.TrimSpace(m[1]))
	}
	if m := noteSectionPattern.FindStringSubmatch(text); m != nil && m[1] != "" {
		out.Note = FormatIdeas(strings.TrimSpace(m[1]))
	}

	if out.Script == scriptUnavailable && out.Note == noteUnavailable && len(text) > 10 {
		out.Script = FormatIdeas(text)
		return out, true
	}
	return out, false
}
