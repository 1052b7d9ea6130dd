package parser

import (
	"regexp"
	"strings"
	"unicode"

	"resume-parser-go/internal/taxonomy"
	"resume-parser-go/internal/types"
)

const defaultMaxSkills = 25

var parenthetical = regexp.MustCompile(`\([^)]*\)`)

// Contact holds the identity fields extracted from free text.
type Contact struct {
	Name     string
	Email    string
	Phone    string
	LinkedIn string
	GitHub   string
}

// FieldExtractor turns category-attributed text into structured fields.
// The rule-based and semantic paths both delegate to it, so a block of
// text yields the same structure regardless of how it was attributed to
// its category. Extraction never fails: sub-fields that cannot be located
// are simply left empty.
type FieldExtractor struct {
	tax       *taxonomy.Taxonomy
	pats      *Patterns
	maxSkills int
}

// NewFieldExtractor builds a FieldExtractor. maxSkills caps the total
// number of skills kept across all categories; zero selects the default.
func NewFieldExtractor(tax *taxonomy.Taxonomy, pats *Patterns, maxSkills int) *FieldExtractor {
	if maxSkills <= 0 {
		maxSkills = defaultMaxSkills
	}
	return &FieldExtractor{tax: tax, pats: pats, maxSkills: maxSkills}
}

// Contact extracts identity fields. Email, phone and profile URLs come from
// the taxonomy's contact patterns; the name is the first early line that
// looks like a person's name and is not itself contact data or a heading.
func (fe *FieldExtractor) Contact(text string) Contact {
	c := Contact{
		Email:    fe.pats.Email.FindString(text),
		Phone:    fe.pats.ExtractPhone(text),
		LinkedIn: FirstMatch(fe.pats.LinkedIn, text),
		GitHub:   FirstMatch(fe.pats.GitHub, text),
	}
	c.Name = fe.extractName(text)
	return c
}

func (fe *FieldExtractor) extractName(text string) string {
	seen := 0
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		seen++
		if seen > 10 {
			break
		}
		if fe.pats.Email.MatchString(line) ||
			MatchesAny(fe.pats.Phones, line) ||
			MatchesAny(fe.pats.LinkedIn, line) ||
			MatchesAny(fe.pats.GitHub, line) {
			continue
		}
		lower := strings.ToLower(line)
		if strings.Contains(lower, "resume") || strings.Contains(lower, "curriculum vitae") {
			continue
		}
		if _, ok := fe.tax.NormalizeFieldName(line); ok {
			continue
		}
		if fe.hasIndicator(line, fe.tax.Indicators().Institutions) ||
			fe.hasIndicator(line, fe.tax.Indicators().CompanyMarkers) {
			continue
		}
		if looksLikeName(line) {
			return line
		}
	}
	return ""
}

// looksLikeName accepts two to four capitalized words made of letters and
// the usual name punctuation.
func looksLikeName(line string) bool {
	words := strings.Fields(line)
	if len(words) < 2 || len(words) > 4 {
		return false
	}
	for _, w := range words {
		runes := []rune(w)
		if !unicode.IsUpper(runes[0]) {
			return false
		}
		for _, r := range runes {
			if !unicode.IsLetter(r) && r != '.' && r != '\'' && r != '-' {
				return false
			}
		}
	}
	return true
}

// Skills tokenizes the text and resolves tokens against the skill
// vocabulary. Tokens that resolve to no vocabulary keyword are discarded.
// The result maps category keys to canonical keywords in order of first
// appearance; a category is present only if it holds at least one skill.
func (fe *FieldExtractor) Skills(text string) map[string][]string {
	type hit struct {
		cat types.Category
		kw  string
	}
	var ordered []hit
	seen := make(map[string]bool)
	add := func(cat types.Category, kw string) {
		if kw == "" || seen[kw] || len(seen) >= fe.maxSkills {
			return
		}
		seen[kw] = true
		ordered = append(ordered, hit{cat: cat, kw: kw})
	}

	for _, raw := range strings.Split(text, "\n") {
		line := fe.pats.StripBullet(raw)
		if line == "" {
			continue
		}
		// "Languages: Python, Java" keeps only the value part.
		if i := strings.Index(line, ":"); i >= 0 && i < len(line)-1 {
			line = line[i+1:]
		}
		for _, token := range splitSkillTokens(line) {
			if cat, kw, ok := fe.tax.CanonicalSkill(token); ok {
				add(cat, kw)
			}
		}
		// Vocabulary scan catches skills embedded in prose lines that the
		// delimiter split leaves inside a larger token.
		for _, kw := range fe.scanVocabulary(line) {
			if cat, canon, ok := fe.tax.CanonicalSkill(kw); ok {
				add(cat, canon)
			}
		}
	}

	out := make(map[string][]string)
	for _, h := range ordered {
		out[string(h.cat)] = append(out[string(h.cat)], h.kw)
	}
	return out
}

func splitSkillTokens(line string) []string {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		switch r {
		case ',', ';', '|', '•', '·', '(', ')':
			return true
		}
		return false
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// scanVocabulary finds vocabulary keywords inside a line on word
// boundaries. Keywords are tried longest first and matched spans are
// masked, so "machine learning" claims its span before "learning" can.
func (fe *FieldExtractor) scanVocabulary(line string) []string {
	lower := strings.ToLower(line)
	buf := []byte(lower)
	var found []string
	for _, kw := range fe.tax.AllSkillKeywords() {
		search := string(buf)
		from := 0
		for {
			idx := strings.Index(search[from:], kw)
			if idx < 0 {
				break
			}
			idx += from
			if hasWordBoundary(search, idx, len(kw)) {
				found = append(found, kw)
				for i := idx; i < idx+len(kw); i++ {
					buf[i] = 0
				}
				break
			}
			from = idx + 1
		}
	}
	return found
}

func hasWordBoundary(s string, start, length int) bool {
	boundary := func(b byte) bool {
		return !(b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9')
	}
	if start > 0 && !boundary(s[start-1]) {
		return false
	}
	end := start + length
	if end < len(s) && !boundary(s[end]) {
		return false
	}
	return true
}

// Education extracts degree entries. A line carrying a degree phrase or an
// institution keyword opens or extends the current entry; a line carrying
// an aspect the current entry already has starts a new one. Blank lines
// close the current entry.
func (fe *FieldExtractor) Education(text string) []types.Education {
	var out []types.Education
	var cur *types.Education
	flush := func() {
		if cur != nil && (cur.Degree != "" || cur.Institution != "") {
			out = append(out, *cur)
		}
		cur = nil
	}

	for _, raw := range strings.Split(text, "\n") {
		line := fe.pats.StripBullet(raw)
		if line == "" {
			flush()
			continue
		}
		degree := FirstMatch(fe.pats.Degrees, line)
		degree = strings.TrimSuffix(strings.TrimSpace(degree), " in")
		hasInst := fe.hasIndicator(line, fe.tax.Indicators().Institutions)

		switch {
		case degree != "":
			if cur != nil && cur.Degree != "" {
				flush()
			}
			if cur == nil {
				cur = &types.Education{}
			}
			cur.Degree = degree
			if f := fieldOfStudy(line, degree); f != "" {
				cur.FieldOfStudy = f
			}
		case hasInst:
			if cur != nil && cur.Institution != "" {
				flush()
			}
			if cur == nil {
				cur = &types.Education{}
			}
			cur.Institution = fe.institutionName(line)
		}
		if cur != nil && cur.Year == "" {
			if y := fe.pats.Year.FindString(line); y != "" {
				cur.Year = y
			}
		}
	}
	flush()
	return out
}

// fieldOfStudy takes the phrase after "in" following the degree, e.g.
// "Master of Science in Computer Science" yields "Computer Science".
func fieldOfStudy(line, degree string) string {
	idx := strings.Index(strings.ToLower(line), strings.ToLower(degree))
	if idx < 0 {
		return ""
	}
	rest := line[idx+len(degree):]
	lower := strings.ToLower(rest)
	switch i := strings.Index(lower, " in "); {
	case i >= 0:
		rest = rest[i+4:]
	case strings.HasPrefix(lower, "in "):
		rest = rest[3:]
	default:
		return ""
	}
	rest = parenthetical.ReplaceAllString(rest, "")
	if j := strings.IndexAny(rest, ",|–—"); j >= 0 {
		rest = rest[:j]
	}
	return strings.TrimSpace(rest)
}

func (fe *FieldExtractor) institutionName(line string) string {
	s := parenthetical.ReplaceAllString(line, "")
	if i := strings.IndexAny(s, ",|–—"); i >= 0 {
		s = s[:i]
	}
	s = fe.pats.Year.ReplaceAllString(s, "")
	return strings.Trim(strings.TrimSpace(s), ",.;:- ")
}

func (fe *FieldExtractor) hasIndicator(line string, words []string) bool {
	lower := strings.ToLower(line)
	for _, w := range words {
		if idx := strings.Index(lower, w); idx >= 0 && hasWordBoundary(lower, idx, len(w)) {
			return true
		}
	}
	return false
}

// Experience extracts work entries. A header line (date range, pipe
// separator, or a short line carrying a job title indicator) opens an
// entry; bullet lines below it accumulate as description.
func (fe *FieldExtractor) Experience(text string) []types.Experience {
	var out []types.Experience
	var cur *types.Experience
	flush := func() {
		if cur != nil && (cur.Title != "" || cur.Company != "") {
			out = append(out, *cur)
		}
		cur = nil
	}

	for _, raw := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		if fe.pats.IsBullet(raw) {
			if cur != nil {
				if d := fe.pats.StripBullet(raw); d != "" {
					cur.Description = append(cur.Description, d)
				}
			}
			continue
		}
		if fe.isExperienceHeader(trimmed) {
			flush()
			cur = fe.parseExperienceHeader(trimmed)
			continue
		}
		if cur == nil {
			continue
		}
		switch {
		case cur.Company == "" && fe.hasIndicator(trimmed, fe.tax.Indicators().CompanyMarkers):
			cur.Company = strings.Trim(parenthetical.ReplaceAllString(trimmed, ""), " ,.-")
		case cur.Duration == "" && fe.pats.HasDateRange(trimmed):
			cur.Duration = FirstMatch(fe.pats.DateRanges, trimmed)
		case len(trimmed) > 40:
			cur.Description = append(cur.Description, trimmed)
		}
	}
	flush()
	return out
}

func (fe *FieldExtractor) isExperienceHeader(line string) bool {
	if fe.pats.HasDateRange(line) || strings.Contains(line, "|") {
		return true
	}
	if len(strings.Fields(line)) <= 8 &&
		fe.hasIndicator(line, fe.tax.Indicators().JobTitles) {
		return true
	}
	return false
}

func (fe *FieldExtractor) parseExperienceHeader(line string) *types.Experience {
	exp := &types.Experience{}
	parts := strings.Split(line, "|")
	if len(parts) == 1 {
		// No pipe: peel off the date range, then split title from company.
		if r := FirstMatch(fe.pats.DateRanges, line); r != "" {
			exp.Duration = r
			line = strings.Trim(strings.Replace(line, r, "", 1), " ,-–—")
		}
		if i := strings.Index(strings.ToLower(line), " at "); i >= 0 {
			exp.Title = strings.TrimSpace(line[:i])
			exp.Company = strings.Trim(line[i+4:], " ,.-")
		} else {
			exp.Title = strings.TrimSpace(line)
		}
		return exp
	}
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		switch {
		case exp.Duration == "" && (fe.pats.HasDateRange(part) || fe.pats.Year.MatchString(part)):
			exp.Duration = part
		case exp.Title == "":
			exp.Title = part
		case exp.Company == "":
			exp.Company = part
		}
	}
	return exp
}

// Projects extracts project entries. Short non-bullet lines name a
// project; bullets and long prose lines below it accumulate as description.
// Technologies are the vocabulary skills mentioned in the entry's text.
func (fe *FieldExtractor) Projects(text string) []types.Project {
	var out []types.Project
	var cur *types.Project
	flush := func() {
		if cur == nil {
			return
		}
		if cur.Name != "" {
			cur.Technologies = fe.technologies(cur.Name, cur.Description)
			out = append(out, *cur)
		}
		cur = nil
	}

	for _, raw := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			flush()
			continue
		}
		if _, ok := fe.tax.NormalizeFieldName(trimmed); ok {
			continue
		}
		if fe.pats.IsBullet(raw) {
			if cur != nil {
				if d := fe.pats.StripBullet(raw); d != "" {
					cur.Description = append(cur.Description, d)
				}
			}
			continue
		}
		if len(strings.Fields(trimmed)) <= 10 {
			flush()
			name := trimmed
			if r := FirstMatch(fe.pats.DateRanges, name); r != "" {
				name = strings.Replace(name, r, "", 1)
			}
			cur = &types.Project{Name: strings.Trim(name, " -–—:|")}
			continue
		}
		if cur != nil {
			cur.Description = append(cur.Description, trimmed)
		}
	}
	flush()
	return out
}

func (fe *FieldExtractor) technologies(name string, description []string) []string {
	var techs []string
	seen := make(map[string]bool)
	lines := append([]string{name}, description...)
	for _, line := range lines {
		for _, kw := range fe.scanVocabulary(line) {
			if !seen[kw] {
				seen[kw] = true
				techs = append(techs, kw)
			}
		}
	}
	return techs
}

// Apply dispatches one block of category-attributed text into the record.
// Repeated blocks with the same label accumulate; contact and unclassified
// text never contribute structured fields here.
func (fe *FieldExtractor) Apply(rec *types.ResumeRecord, label types.Category, text string) {
	switch label {
	case types.CategorySkills:
		skills := fe.Skills(text)
		if len(skills) == 0 {
			return
		}
		if rec.Skills == nil {
			rec.Skills = make(map[string][]string)
		}
		for cat, kws := range skills {
			rec.Skills[cat] = appendUniqueFold(rec.Skills[cat], kws)
		}
	case types.CategoryEducation:
		rec.Education = append(rec.Education, fe.Education(text)...)
	case types.CategoryExperience:
		rec.Experience = append(rec.Experience, fe.Experience(text)...)
	case types.CategoryProjects:
		rec.Projects = append(rec.Projects, fe.Projects(text)...)
	case types.CategoryCertifications:
		rec.Certifications = appendUniqueFold(rec.Certifications, fe.Certifications(text))
	}
}

// appendUniqueFold appends src values absent from dst, comparing
// case-insensitively against everything already present.
func appendUniqueFold(dst, src []string) []string {
	seen := make(map[string]bool, len(dst))
	for _, v := range dst {
		seen[strings.ToLower(v)] = true
	}
	for _, v := range src {
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		dst = append(dst, v)
	}
	return dst
}

// Certifications returns one entry per non-trivial line, bullets stripped,
// deduplicated case-insensitively.
func (fe *FieldExtractor) Certifications(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, raw := range strings.Split(text, "\n") {
		line := fe.pats.StripBullet(raw)
		if len(line) < 4 {
			continue
		}
		if _, ok := fe.tax.NormalizeFieldName(line); ok {
			continue
		}
		key := strings.ToLower(line)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, line)
	}
	return out
}
