package types

// Category identifies a taxonomy category. Section labels and skill
// categories share the same key space.
type Category string

const (
	// CategoryContact is the reserved label for the header-less preamble
	// block at the top of a resume.
	CategoryContact Category = "contact"

	CategoryExperience     Category = "experience"
	CategoryEducation      Category = "education"
	CategorySkills         Category = "skills"
	CategoryProjects       Category = "projects"
	CategoryCertifications Category = "certifications"

	// CategoryUnclassified marks text that no category claimed with enough
	// confidence. Unclassified text never contributes to structured fields.
	CategoryUnclassified Category = "unclassified"
)

// ParseMethod selects which extraction path(s) run for a document.
type ParseMethod string

const (
	MethodRule     ParseMethod = "rule"
	MethodSemantic ParseMethod = "semantic"
	MethodBoth     ParseMethod = "both"
)

// Labels recorded in Metadata.ParsingMethod. These name the path(s) that
// actually produced the record, which can differ from the requested
// ParseMethod when the semantic path degrades.
const (
	ParsingRule     = "rule"
	ParsingSemantic = "semantic_faiss"
	ParsingMerged   = "rule+semantic_faiss"
)

// Section is a contiguous labeled span of the document produced by header
// detection. Raw covers the full span including the heading line, so that
// concatenating all sections in order reconstructs the input exactly.
// Sections live only for the duration of one parse call.
type Section struct {
	Label       Category
	Heading     string
	Raw         string
	Body        string
	StartOffset int
	EndOffset   int
}

// Chunk is a unit of text produced by content-based splitting, independent
// of header detection. Embedding stays nil until the embedder runs.
type Chunk struct {
	Index     int
	Text      string
	Embedding []float64
}

// Classification is the similarity classifier's verdict for one chunk.
type Classification struct {
	ChunkIndex int
	Category   Category
	Confidence float64
	Rank       int
}

// Education is one education entry. Sub-fields the extractor could not
// locate stay empty rather than failing the entry.
type Education struct {
	Degree       string `json:"degree,omitempty"`
	Institution  string `json:"institution,omitempty"`
	Year         string `json:"year,omitempty"`
	FieldOfStudy string `json:"field_of_study,omitempty"`
}

// Experience is one work experience entry.
type Experience struct {
	Title       string   `json:"title,omitempty"`
	Company     string   `json:"company,omitempty"`
	Duration    string   `json:"duration,omitempty"`
	Description []string `json:"description,omitempty"`
}

// Project is one project entry.
type Project struct {
	Name         string   `json:"name,omitempty"`
	Description  []string `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

// Metadata records how a resume record was produced.
type Metadata struct {
	ParsingMethod    string `json:"parsing_method"`
	TextLength       int    `json:"text_length"`
	SectionsDetected int    `json:"sections_detected,omitempty"`
	ChunksProcessed  int    `json:"chunks_processed,omitempty"`
}

// ResumeRecord is the structured output of a parse call. It serializes to
// plain JSON values only: strings, numbers, lists and string-keyed maps.
// The Skills map never contains an empty category; categories with no
// skills are omitted entirely.
type ResumeRecord struct {
	Name           string              `json:"name,omitempty"`
	Email          string              `json:"email,omitempty"`
	Phone          string              `json:"phone,omitempty"`
	LinkedIn       string              `json:"linkedin,omitempty"`
	GitHub         string              `json:"github,omitempty"`
	Skills         map[string][]string `json:"skills,omitempty"`
	Education      []Education         `json:"education,omitempty"`
	Experience     []Experience        `json:"experience,omitempty"`
	Projects       []Project           `json:"projects,omitempty"`
	Certifications []string            `json:"certifications,omitempty"`
	Metadata       Metadata            `json:"metadata"`
}

// ContactFlags reports per-field agreement between the two extraction paths.
type ContactFlags struct {
	NameMatch  bool `json:"name_match"`
	EmailMatch bool `json:"email_match"`
	PhoneMatch bool `json:"phone_match"`
}

// Comparison is the reporting artifact produced when both paths run. It is
// informational only and never feeds back into extraction.
type Comparison struct {
	Contact            ContactFlags `json:"contact_info"`
	RuleSkillCount     int          `json:"rule_skill_count"`
	SemanticSkillCount int          `json:"semantic_skill_count"`
	RuleSections       int          `json:"rule_sections"`
	SemanticSections   int          `json:"semantic_sections"`
}
