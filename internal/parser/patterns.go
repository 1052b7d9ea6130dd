package parser

import (
	"fmt"
	"regexp"
	"strings"

	"resume-parser-go/internal/taxonomy"
)

// Patterns holds every compiled regex the extractors share. It is built
// once from the taxonomy's contact pattern definitions plus the fixed
// date/degree patterns, and is safe for concurrent use.
type Patterns struct {
	Email    *regexp.Regexp
	Phones   []*regexp.Regexp
	LinkedIn []*regexp.Regexp
	GitHub   []*regexp.Regexp

	Degrees    []*regexp.Regexp
	Year       *regexp.Regexp
	DateRanges []*regexp.Regexp
	Bullet     *regexp.Regexp
	Location   *regexp.Regexp
}

// NewPatterns compiles the shared pattern set. Compilation failure means
// the taxonomy carried a malformed pattern definition, which is fatal.
func NewPatterns(tax *taxonomy.Taxonomy) (*Patterns, error) {
	p := &Patterns{}

	emails, err := compileAll(tax.ContactPatterns("email"))
	if err != nil {
		return nil, fmt.Errorf("compiling email patterns: %w", err)
	}
	if len(emails) == 0 {
		return nil, fmt.Errorf("taxonomy has no email pattern")
	}
	p.Email = emails[0]

	if p.Phones, err = compileAll(tax.ContactPatterns("phone")); err != nil {
		return nil, fmt.Errorf("compiling phone patterns: %w", err)
	}
	if p.LinkedIn, err = compileAll(tax.ContactPatterns("linkedin")); err != nil {
		return nil, fmt.Errorf("compiling linkedin patterns: %w", err)
	}
	if p.GitHub, err = compileAll(tax.ContactPatterns("github")); err != nil {
		return nil, fmt.Errorf("compiling github patterns: %w", err)
	}

	p.Degrees = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(bachelor(?:'?s)?(?: of [a-z]+(?: [a-z]+)?)?|b\.?a\.?|b\.?sc?\.?|b\.?e\.?|b\.?tech\.?)\b`),
		regexp.MustCompile(`(?i)\b(master(?:'?s)?(?: of [a-z]+(?: [a-z]+)?)?|m\.?a\.?|m\.?sc?\.?|m\.?e\.?|m\.?tech\.?|mba)\b`),
		regexp.MustCompile(`(?i)\b(doctor(?:ate)?(?: of [a-z]+(?: [a-z]+)?)?|ph\.?d\.?|d\.?phil\.?)\b`),
		regexp.MustCompile(`(?i)\b(associate(?: of [a-z]+)?|a\.?a\.?|a\.?s\.?)\b`),
		regexp.MustCompile(`(?i)\b(juris doctor|j\.?d\.?)\b`),
	}
	p.Year = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	p.DateRanges = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b\d{1,2}/\d{4}\s*[–—-]\s*(?:\d{1,2}/\d{4}|present|current|[A-Za-z]+\s*\d{4})\b`),
		regexp.MustCompile(`(?i)\b(19|20)\d{2}\s*[–—-]\s*((19|20)\d{2}|present|current)\b`),
		regexp.MustCompile(`(?i)\b[A-Za-z]{3,9}\.?\s+(19|20)\d{2}\s*[–—-]\s*([A-Za-z]{3,9}\.?\s+(19|20)\d{2}|present|current)\b`),
	}
	p.Bullet = regexp.MustCompile(`^[\s]*[•◦▪▫∙·*+-]\s*`)
	p.Location = regexp.MustCompile(`\b[A-Z][a-z]+(?: [A-Z][a-z]+)?,\s*[A-Z]{2}\b`)

	return p, nil
}

func compileAll(sources []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(sources))
	for _, src := range sources {
		re, err := regexp.Compile(src)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", src, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// FirstMatch returns the first match of any pattern in the list.
func FirstMatch(patterns []*regexp.Regexp, text string) string {
	for _, re := range patterns {
		if m := re.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

// MatchesAny reports whether any pattern in the list matches the text.
func MatchesAny(patterns []*regexp.Regexp, text string) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// ExtractPhone returns the first phone number found, formatted as
// (AAA) BBB-CCCC when the matching pattern captures the three groups.
func (p *Patterns) ExtractPhone(text string) string {
	for _, re := range p.Phones {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if len(m) >= 4 && m[1] != "" && m[2] != "" && m[3] != "" {
			return fmt.Sprintf("(%s) %s-%s", m[1], m[2], m[3])
		}
		return strings.TrimSpace(m[0])
	}
	return ""
}

// StripBullet removes a leading bullet glyph and surrounding whitespace.
func (p *Patterns) StripBullet(line string) string {
	return strings.TrimSpace(p.Bullet.ReplaceAllString(line, ""))
}

// IsBullet reports whether the line starts with a bullet glyph.
func (p *Patterns) IsBullet(line string) bool {
	return p.Bullet.MatchString(line)
}

// HasDateRange reports whether the line contains a date range.
func (p *Patterns) HasDateRange(line string) bool {
	return MatchesAny(p.DateRanges, line)
}
