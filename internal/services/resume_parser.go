package services

import (
	"regexp"
	"strings"

	"alfredoptarigan/ai-interviewer/internal/models"
)

var (
	emailPattern         = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern         = regexp.MustCompile(`(\+\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	skillsHeadingPattern = regexp.MustCompile(`(?i)skills|technologies|technical skills`)
)

// ResumeParser pulls contact details and known skills out of résumé text.
// Every rule is a heuristic; a field it cannot find stays empty and is
// reported as missing.
type ResumeParser struct {
	skillPattern *regexp.Regexp
}

func NewResumeParser(vocabulary []string) *ResumeParser {
	terms := make([]string, 0, len(vocabulary))
	for _, term := range vocabulary {
		if term = strings.TrimSpace(term); term != "" {
			terms = append(terms, boundedTerm(term))
		}
	}

	var pattern *regexp.Regexp
	if len(terms) > 0 {
		pattern = regexp.MustCompile(`(?i)(?:` + strings.Join(terms, "|") + `)`)
	}
	return &ResumeParser{skillPattern: pattern}
}

func (p *ResumeParser) Parse(text string) models.ResumeParseResult {
	data := models.ExtractedData{Skills: []string{}}

	if email := emailPattern.FindString(text); email != "" {
		data.Email = &email
	}
	if phone := phonePattern.FindString(text); phone != "" {
		data.Phone = &phone
	}
	if name := firstNonBlankLine(text); name != "" {
		data.Name = &name
	}
	if section := skillsSection(text); section != "" && p.skillPattern != nil {
		data.Skills = uniqueInOrder(p.skillPattern.FindAllString(section, -1))
	}

	return models.ResumeParseResult{
		ExtractedData: data,
		MissingFields: models.MissingFields{
			Name:   data.Name == nil,
			Email:  data.Email == nil,
			Phone:  data.Phone == nil,
			Skills: len(data.Skills) == 0,
		},
	}
}

// boundedTerm anchors a vocabulary term so it only matches as a whole word.
// An edge that is punctuation, like the end of "C++", is anchored with \B so
// "C++" matches in "C++, Go" but not inside "C++x".
func boundedTerm(term string) string {
	edge := func(b byte) string {
		if isWordByte(b) {
			return `\b`
		}
		return `\B`
	}
	return edge(term[0]) + regexp.QuoteMeta(term) + edge(term[len(term)-1])
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func firstNonBlankLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// skillsSection returns the text from the first skills heading up to a blank
// line, a line that starts with an upper case letter, or the end of text.
func skillsSection(text string) string {
	loc := skillsHeadingPattern.FindStringIndex(text)
	if loc == nil {
		return ""
	}

	section := text[loc[0]:]
	for i := 0; i < len(section)-1; i++ {
		if section[i] != '\n' {
			continue
		}
		next := section[i+1]
		if next == '\n' || next == '\r' || (next >= 'A' && next <= 'Z') {
			return section[:i]
		}
	}
	return section
}

func uniqueInOrder(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
