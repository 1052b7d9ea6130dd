package parser

import (
	"regexp"
	"strings"

	"resume-parser-go/internal/types"
)

var signatureStrip = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// signature normalizes identity parts for entry deduplication: lowercase,
// punctuation and whitespace removed, so "MIT" and "M.I.T." collide.
func signature(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(signatureStrip.ReplaceAllString(strings.ToLower(p), ""))
		b.WriteString("\x1f")
	}
	return b.String()
}

// Merge reconciles the rule-based and semantic records into one. Contact
// fields prefer the rule value when non-empty; set-like fields union with
// case-insensitive dedup; entry lists union by normalized signature with
// rule entries ordered first, keeping the more populated entry on
// collision. The merged record's parsing method reflects both paths.
func Merge(rule, semantic *types.ResumeRecord) *types.ResumeRecord {
	out := &types.ResumeRecord{
		Name:     pick(rule.Name, semantic.Name),
		Email:    pick(rule.Email, semantic.Email),
		Phone:    pick(rule.Phone, semantic.Phone),
		LinkedIn: pick(rule.LinkedIn, semantic.LinkedIn),
		GitHub:   pick(rule.GitHub, semantic.GitHub),
		Metadata: types.Metadata{
			ParsingMethod:    types.ParsingMerged,
			TextLength:       rule.Metadata.TextLength,
			SectionsDetected: rule.Metadata.SectionsDetected,
			ChunksProcessed:  semantic.Metadata.ChunksProcessed,
		},
	}

	out.Skills = mergeSkills(rule.Skills, semantic.Skills)
	out.Certifications = appendUniqueFold(append([]string(nil), rule.Certifications...), semantic.Certifications)
	out.Education = mergeEducation(rule.Education, semantic.Education)
	out.Experience = mergeExperience(rule.Experience, semantic.Experience)
	out.Projects = mergeProjects(rule.Projects, semantic.Projects)
	return out
}

func pick(primary, fallback string) string {
	if primary != "" {
		return primary
	}
	return fallback
}

func mergeSkills(rule, semantic map[string][]string) map[string][]string {
	if len(rule) == 0 && len(semantic) == 0 {
		return nil
	}
	out := make(map[string][]string)
	for cat, kws := range rule {
		out[cat] = appendUniqueFold(out[cat], kws)
	}
	for cat, kws := range semantic {
		out[cat] = appendUniqueFold(out[cat], kws)
	}
	for cat, kws := range out {
		if len(kws) == 0 {
			delete(out, cat)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func mergeEducation(rule, semantic []types.Education) []types.Education {
	var out []types.Education
	index := make(map[string]int)
	add := func(e types.Education) {
		sig := signature(e.Degree, e.Institution)
		if i, ok := index[sig]; ok {
			if populatedEducation(e) > populatedEducation(out[i]) {
				out[i] = e
			}
			return
		}
		index[sig] = len(out)
		out = append(out, e)
	}
	for _, e := range rule {
		add(e)
	}
	for _, e := range semantic {
		add(e)
	}
	return out
}

func populatedEducation(e types.Education) int {
	n := 0
	for _, s := range []string{e.Degree, e.Institution, e.Year, e.FieldOfStudy} {
		if s != "" {
			n++
		}
	}
	return n
}

func mergeExperience(rule, semantic []types.Experience) []types.Experience {
	var out []types.Experience
	index := make(map[string]int)
	add := func(e types.Experience) {
		sig := signature(e.Title, e.Company)
		if i, ok := index[sig]; ok {
			if populatedExperience(e) > populatedExperience(out[i]) {
				out[i] = e
			}
			return
		}
		index[sig] = len(out)
		out = append(out, e)
	}
	for _, e := range rule {
		add(e)
	}
	for _, e := range semantic {
		add(e)
	}
	return out
}

func populatedExperience(e types.Experience) int {
	n := 0
	for _, s := range []string{e.Title, e.Company, e.Duration} {
		if s != "" {
			n++
		}
	}
	if len(e.Description) > 0 {
		n++
	}
	return n
}

func mergeProjects(rule, semantic []types.Project) []types.Project {
	var out []types.Project
	index := make(map[string]int)
	add := func(p types.Project) {
		sig := signature(p.Name)
		if i, ok := index[sig]; ok {
			if populatedProject(p) > populatedProject(out[i]) {
				out[i] = p
			}
			return
		}
		index[sig] = len(out)
		out = append(out, p)
	}
	for _, p := range rule {
		add(p)
	}
	for _, p := range semantic {
		add(p)
	}
	return out
}

func populatedProject(p types.Project) int {
	n := 0
	if p.Name != "" {
		n++
	}
	if len(p.Description) > 0 {
		n++
	}
	if len(p.Technologies) > 0 {
		n++
	}
	return n
}

// Compare builds the reporting artifact for method="both" runs. It is
// informational only and never feeds back into extraction.
func Compare(rule, semantic *types.ResumeRecord) *types.Comparison {
	return &types.Comparison{
		Contact: types.ContactFlags{
			NameMatch:  strings.EqualFold(rule.Name, semantic.Name),
			EmailMatch: strings.EqualFold(rule.Email, semantic.Email),
			PhoneMatch: rule.Phone == semantic.Phone,
		},
		RuleSkillCount:     skillCount(rule.Skills),
		SemanticSkillCount: skillCount(semantic.Skills),
		RuleSections:       rule.Metadata.SectionsDetected,
		SemanticSections:   semantic.Metadata.SectionsDetected,
	}
}

func skillCount(skills map[string][]string) int {
	n := 0
	for _, kws := range skills {
		n += len(kws)
	}
	return n
}
