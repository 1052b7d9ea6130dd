// Package taxonomy holds the static knowledge base the extraction paths
// share: section-header synonyms, skill vocabularies, exemplar phrases for
// the similarity classifier and contact pattern definitions. A Taxonomy is
// built once at startup and is immutable afterwards; all lookups are safe
// for concurrent use.
package taxonomy

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"resume-parser-go/internal/types"
)

// SectionEntry declares one section category: the header synonyms that map
// onto it and the exemplar phrases the similarity classifier anchors on.
// Declaration order is significant: it is the deterministic tie-breaker for
// equal-score matches.
type SectionEntry struct {
	Key       types.Category `yaml:"key"`
	Synonyms  []string       `yaml:"synonyms"`
	Exemplars []string       `yaml:"exemplars"`
}

// SkillEntry declares one skill category and its keyword vocabulary.
type SkillEntry struct {
	Key      types.Category `yaml:"key"`
	Keywords []string       `yaml:"keywords"`
}

// IndicatorSet carries the lexical indicators the field extractors lean on:
// words that mark job titles, company names, institutions and fields of
// study inside otherwise unstructured lines.
type IndicatorSet struct {
	JobTitles      []string `yaml:"job_titles"`
	CompanyMarkers []string `yaml:"company_markers"`
	Institutions   []string `yaml:"institutions"`
	FieldsOfStudy  []string `yaml:"fields_of_study"`
	Certifications []string `yaml:"certifications"`
}

// Data is the loadable form of the taxonomy, used both for the embedded
// defaults and for YAML overlay files.
type Data struct {
	Sections        []SectionEntry      `yaml:"sections"`
	Skills          []SkillEntry        `yaml:"skills"`
	ContactPatterns map[string][]string `yaml:"contact_patterns"`
	Indicators      IndicatorSet        `yaml:"indicators"`
}

// HeaderMatch is the result of testing a line against the section taxonomy.
// Synonym is empty when only the layout heuristics fired; in that case the
// category is CategoryUnclassified.
type HeaderMatch struct {
	Category   types.Category
	Confidence float64
	Synonym    string
}

// Exemplar pairs a classifier anchor phrase with its category.
type Exemplar struct {
	Category types.Category
	Phrase   string
}

type skillRef struct {
	category types.Category
	keyword  string
}

// Taxonomy is the immutable, loaded-once knowledge base.
type Taxonomy struct {
	sections   []SectionEntry
	skills     []SkillEntry
	contact    map[string][]string
	indicators IndicatorSet

	sectionRank map[types.Category]int
	skillLookup map[string]skillRef
	// all normalized skill keywords, longest first, for containment scans
	skillKeywords []string
}

const heuristicHeaderConfidence = 0.5

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
var spaces = regexp.MustCompile(`\s+`)

// New builds a Taxonomy from Data. It fails when the data is missing the
// section or skill tables; the parser cannot function without them.
func New(d Data) (*Taxonomy, error) {
	if len(d.Sections) == 0 {
		return nil, fmt.Errorf("taxonomy: no section entries")
	}
	if len(d.Skills) == 0 {
		return nil, fmt.Errorf("taxonomy: no skill entries")
	}
	t := &Taxonomy{
		sections:    d.Sections,
		skills:      d.Skills,
		contact:     d.ContactPatterns,
		indicators:  d.Indicators,
		sectionRank: make(map[types.Category]int, len(d.Sections)),
		skillLookup: make(map[string]skillRef),
	}
	for i, entry := range d.Sections {
		if entry.Key == "" || len(entry.Synonyms) == 0 {
			return nil, fmt.Errorf("taxonomy: section entry %d is malformed", i)
		}
		if _, dup := t.sectionRank[entry.Key]; dup {
			return nil, fmt.Errorf("taxonomy: duplicate section key %q", entry.Key)
		}
		t.sectionRank[entry.Key] = i
	}
	for i, entry := range d.Skills {
		if entry.Key == "" || len(entry.Keywords) == 0 {
			return nil, fmt.Errorf("taxonomy: skill entry %d is malformed", i)
		}
		for _, kw := range entry.Keywords {
			norm := NormalizeSkillToken(kw)
			if norm == "" {
				continue
			}
			// first declaration wins on duplicate keywords
			if _, exists := t.skillLookup[norm]; !exists {
				t.skillLookup[norm] = skillRef{category: entry.Key, keyword: norm}
				t.skillKeywords = append(t.skillKeywords, norm)
			}
		}
	}
	sort.SliceStable(t.skillKeywords, func(i, j int) bool {
		return len(t.skillKeywords[i]) > len(t.skillKeywords[j])
	})
	return t, nil
}

// Default returns the taxonomy built from the embedded vocabulary tables.
func Default() *Taxonomy {
	t, err := New(defaultData())
	if err != nil {
		// the embedded tables are compiled in; failing here is a bug
		panic(fmt.Sprintf("taxonomy: embedded defaults invalid: %v", err))
	}
	return t
}

// Load builds the default taxonomy and merges a YAML overlay file on top of
// it. Overlay entries with a known key extend that entry; unknown keys are
// appended after the defaults, keeping declaration order deterministic.
func Load(path string) (*Taxonomy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("taxonomy: reading overlay %s: %w", path, err)
	}
	var overlay Data
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return nil, fmt.Errorf("taxonomy: parsing overlay %s: %w", path, err)
	}
	return New(mergeData(defaultData(), overlay))
}

func mergeData(base, overlay Data) Data {
	sectionAt := make(map[types.Category]int, len(base.Sections))
	for i, e := range base.Sections {
		sectionAt[e.Key] = i
	}
	for _, e := range overlay.Sections {
		if i, ok := sectionAt[e.Key]; ok {
			base.Sections[i].Synonyms = appendUnique(base.Sections[i].Synonyms, e.Synonyms)
			base.Sections[i].Exemplars = appendUnique(base.Sections[i].Exemplars, e.Exemplars)
			continue
		}
		sectionAt[e.Key] = len(base.Sections)
		base.Sections = append(base.Sections, e)
	}
	skillAt := make(map[types.Category]int, len(base.Skills))
	for i, e := range base.Skills {
		skillAt[e.Key] = i
	}
	for _, e := range overlay.Skills {
		if i, ok := skillAt[e.Key]; ok {
			base.Skills[i].Keywords = appendUnique(base.Skills[i].Keywords, e.Keywords)
			continue
		}
		skillAt[e.Key] = len(base.Skills)
		base.Skills = append(base.Skills, e)
	}
	for kind, patterns := range overlay.ContactPatterns {
		base.ContactPatterns[kind] = appendUnique(base.ContactPatterns[kind], patterns)
	}
	base.Indicators.JobTitles = appendUnique(base.Indicators.JobTitles, overlay.Indicators.JobTitles)
	base.Indicators.CompanyMarkers = appendUnique(base.Indicators.CompanyMarkers, overlay.Indicators.CompanyMarkers)
	base.Indicators.Institutions = appendUnique(base.Indicators.Institutions, overlay.Indicators.Institutions)
	base.Indicators.FieldsOfStudy = appendUnique(base.Indicators.FieldsOfStudy, overlay.Indicators.FieldsOfStudy)
	base.Indicators.Certifications = appendUnique(base.Indicators.Certifications, overlay.Indicators.Certifications)
	return base
}

func appendUnique(dst, src []string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, s := range dst {
		seen[strings.ToLower(s)] = struct{}{}
	}
	for _, s := range src {
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		dst = append(dst, s)
	}
	return dst
}

// NormalizeFieldText lowercases, strips punctuation and collapses whitespace
// so header text compares loosely against synonyms.
func NormalizeFieldText(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = nonWord.ReplaceAllString(text, " ")
	text = spaces.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// NormalizeSkillToken normalizes a skill token for vocabulary lookup. Unlike
// header normalization it keeps symbol characters, because "c++", "c#" and
// ".net" are distinct vocabulary entries.
func NormalizeSkillToken(token string) string {
	token = strings.ToLower(strings.TrimSpace(token))
	token = spaces.ReplaceAllString(token, " ")
	return token
}

// NormalizeFieldName maps arbitrary header text to a canonical category
// using synonym lookup with longest-match preference. Equal-length matches
// keep the first-declared category.
func (t *Taxonomy) NormalizeFieldName(text string) (types.Category, bool) {
	m, ok := t.matchSynonyms(NormalizeFieldText(text))
	if !ok {
		return "", false
	}
	return m.Category, true
}

// MatchHeader decides whether a line qualifies as a section header. A
// synonym match carries the synonym-derived confidence; a line that only
// satisfies the layout heuristics (short, title-case or all-caps, no
// trailing sentence punctuation) comes back as CategoryUnclassified with a
// lower confidence. The second return value is false when the line is not a
// header candidate at all.
func (t *Taxonomy) MatchHeader(line string) (HeaderMatch, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return HeaderMatch{}, false
	}
	normalized := NormalizeFieldText(trimmed)
	if normalized == "" {
		return HeaderMatch{}, false
	}
	if m, ok := t.matchSynonyms(normalized); ok {
		return m, true
	}
	if looksLikeHeading(trimmed) {
		return HeaderMatch{
			Category:   types.CategoryUnclassified,
			Confidence: heuristicHeaderConfidence,
		}, true
	}
	return HeaderMatch{}, false
}

// matchSynonyms scans every synonym for exact or containment matches and
// keeps the most specific (longest synonym) hit. Containment confidence is
// the length ratio between synonym and text, so "experience" inside a long
// sentence scores low and is rejected by the segmenter's threshold.
func (t *Taxonomy) matchSynonyms(normalized string) (HeaderMatch, bool) {
	var best HeaderMatch
	bestLen := -1
	for _, entry := range t.sections {
		for _, synonym := range entry.Synonyms {
			syn := NormalizeFieldText(synonym)
			if syn == "" {
				continue
			}
			var score float64
			switch {
			case normalized == syn:
				score = 1.0
			case containsWholeWords(normalized, syn) || containsWholeWords(syn, normalized):
				shorter, longer := len(syn), len(normalized)
				if shorter > longer {
					shorter, longer = longer, shorter
				}
				score = float64(shorter) / float64(longer)
			default:
				continue
			}
			if score > best.Confidence || (score == best.Confidence && len(syn) > bestLen) {
				best = HeaderMatch{Category: entry.Key, Confidence: score, Synonym: syn}
				bestLen = len(syn)
			}
		}
	}
	return best, bestLen >= 0
}

// containsWholeWords reports whether needle occurs in haystack on word
// boundaries. Plain substring matching would let "art" claim "quarter".
func containsWholeWords(haystack, needle string) bool {
	if needle == "" || len(needle) > len(haystack) {
		return false
	}
	for start := 0; ; {
		i := strings.Index(haystack[start:], needle)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(needle)
		leftOK := i == 0 || haystack[i-1] == ' '
		rightOK := end == len(haystack) || haystack[end] == ' '
		if leftOK && rightOK {
			return true
		}
		start = i + 1
	}
}

// looksLikeHeading applies the layout heuristics for header-ish lines that
// match no synonym.
func looksLikeHeading(line string) bool {
	line = strings.TrimSuffix(strings.TrimSpace(line), ":")
	if line == "" || len(line) > 48 {
		return false
	}
	if strings.ContainsAny(line, ".!?@,") {
		return false
	}
	words := strings.Fields(line)
	if len(words) == 0 || len(words) > 4 {
		return false
	}
	allCaps := true
	titleCase := true
	for _, w := range words {
		r := []rune(w)
		if !unicode.IsLetter(r[0]) {
			return false
		}
		if !unicode.IsUpper(r[0]) {
			titleCase = false
		}
		if strings.ToUpper(w) != w {
			allCaps = false
		}
	}
	return allCaps || titleCase
}

// CategorizeSkill maps a skill token to its category. Exact normalized
// lookup wins; otherwise the longest vocabulary keyword contained in the
// token on word boundaries is used, so "Machine Learning Engineer" resolves
// through "machine learning" rather than "learning".
func (t *Taxonomy) CategorizeSkill(token string) (types.Category, bool) {
	norm := NormalizeSkillToken(token)
	if norm == "" {
		return "", false
	}
	if ref, ok := t.skillLookup[norm]; ok {
		return ref.category, true
	}
	for _, kw := range t.skillKeywords {
		if containsWholeWords(norm, kw) {
			return t.skillLookup[kw].category, true
		}
	}
	return "", false
}

// CanonicalSkill resolves a token like CategorizeSkill but also returns the
// canonical vocabulary keyword it resolved through.
func (t *Taxonomy) CanonicalSkill(token string) (types.Category, string, bool) {
	norm := NormalizeSkillToken(token)
	if norm == "" {
		return "", "", false
	}
	if ref, ok := t.skillLookup[norm]; ok {
		return ref.category, ref.keyword, true
	}
	for _, kw := range t.skillKeywords {
		if containsWholeWords(norm, kw) {
			return t.skillLookup[kw].category, kw, true
		}
	}
	return "", "", false
}

// AllSkillKeywords returns every normalized vocabulary keyword, longest
// first. Both extraction paths use it for candidate generation.
func (t *Taxonomy) AllSkillKeywords() []string {
	out := make([]string, len(t.skillKeywords))
	copy(out, t.skillKeywords)
	return out
}

// Sections returns the section entries in declaration order.
func (t *Taxonomy) Sections() []SectionEntry {
	return t.sections
}

// Exemplars returns every classifier anchor phrase in declaration order.
func (t *Taxonomy) Exemplars() []Exemplar {
	var out []Exemplar
	for _, entry := range t.sections {
		for _, phrase := range entry.Exemplars {
			out = append(out, Exemplar{Category: entry.Key, Phrase: phrase})
		}
	}
	return out
}

// ExemplarCount returns the size of a category's exemplar set. The
// classifier prefers the smaller (more specific) set on near-ties.
func (t *Taxonomy) ExemplarCount(cat types.Category) int {
	for _, entry := range t.sections {
		if entry.Key == cat {
			return len(entry.Exemplars)
		}
	}
	return 0
}

// DeclarationRank returns the position a category was declared at, the
// final deterministic tie-breaker. Unknown categories rank last.
func (t *Taxonomy) DeclarationRank(cat types.Category) int {
	if r, ok := t.sectionRank[cat]; ok {
		return r
	}
	return len(t.sections)
}

// ContactPatterns returns the pattern source strings for a contact field
// kind ("email", "phone", "linkedin", "github").
func (t *Taxonomy) ContactPatterns(kind string) []string {
	return t.contact[kind]
}

// Indicators returns the lexical indicator sets.
func (t *Taxonomy) Indicators() IndicatorSet {
	return t.indicators
}
