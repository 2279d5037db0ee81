package dto

// EducationEntry one education record of a parsed resume.
type EducationEntry struct {
	Institution string `json:"institution,omitempty"`
	Degree      string `json:"degree,omitempty"`
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
}

// ExperienceEntry one position of a parsed resume.
type ExperienceEntry struct {
	Position    string `json:"position,omitempty"`
	Company     string `json:"company,omitempty"`
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
}

// ParsedResume is the parser output.
type ParsedResume struct {
	Name       string            `json:"name,omitempty"`
	Email      string            `json:"email,omitempty"`
	Phone      string            `json:"phone,omitempty"`
	Summary    string            `json:"summary,omitempty"`
	Skills     []string          `json:"skills"`
	Education  []EducationEntry  `json:"education"`
	Experience []ExperienceEntry `json:"experience"`
}

// ResumeParseResponse wraps the parse with file metadata.
type ResumeParseResponse struct {
	Success  bool          `json:"success"`
	Parser   string        `json:"parser"`
	FileName string        `json:"fileName"`
	Resume   *ParsedResume `json:"resume"`
}
