package ai

import (
	"context"
	"regexp"
	"strings"

	"golang.org/x/text/cases"

	"github.com/jhoicas/talent-api/internal/application/dto"
	"github.com/jhoicas/talent-api/internal/application/ports"
)

var _ ports.ResumeParser = (*HeuristicParser)(nil)

var (
	emailRe   = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneRe   = regexp.MustCompile(`(\+\d{1,3}[\-.\s]?)?\(?\d{3}\)?[\-.\s]?\d{3}[\-.\s]?\d{4}`)
	dateRe    = regexp.MustCompile(`(?i)((19|20)\d{2}\s*[-–to]+\s*((19|20)\d{2}|present|current))|((19|20)\d{2})`)
	degreeRe  = regexp.MustCompile(`(?i)\b(bachelor|master|phd|ph\.d|doctorate|associate|diploma|b\.?sc|m\.?sc|b\.?a|m\.?a|mba|engineer(ing)?)\b`)
	schoolRe  = regexp.MustCompile(`(?i)\b(university|college|school|institute|academy)\b`)
	bulletRe  = regexp.MustCompile(`^[•\*\-·▪]\s*`)
	skillSepR = regexp.MustCompile(`[,;|•·/]`)
)

type section int

const (
	secHeader section = iota
	secSummary
	secExperience
	secEducation
	secSkills
	secOther
)

var sectionHeaders = []struct {
	re  *regexp.Regexp
	sec section
}{
	{regexp.MustCompile(`(?i)^(professional\s+|career\s+)?(summary|profile|objective|about\s+me)$`), secSummary},
	{regexp.MustCompile(`(?i)^((professional|work)\s+)?(experience|employment(\s+history)?|work\s+history|career\s+history)$`), secExperience},
	{regexp.MustCompile(`(?i)^(education(\s+and\s+training)?|academic\s+background|degrees)$`), secEducation},
	{regexp.MustCompile(`(?i)^((technical|professional|key)\s+)?(skills|skill\s+set|competencies|proficiencies|technologies)$`), secSkills},
	{regexp.MustCompile(`(?i)^(projects|certifications|awards|publications|languages|interests|references)$`), secOther},
}

// knownSkills is scanned across the whole text when the skills section is
// missing or thin.
var knownSkills = []string{
	"Python", "Java", "JavaScript", "TypeScript", "C++", "C#", "Ruby", "PHP", "Swift", "Kotlin", "Go", "Scala",
	"HTML", "CSS", "React", "Angular", "Vue", "Node.js", "Django", "Flask", "Spring", "Express",
	"SQL", "MySQL", "PostgreSQL", "MongoDB", "Redis", "Kafka", "Spark", "Hadoop",
	"Machine Learning", "Deep Learning", "TensorFlow", "PyTorch", "NLP",
	"AWS", "Azure", "GCP", "Docker", "Kubernetes", "Terraform", "CI/CD", "Git",
	"REST", "GraphQL", "Microservices", "Excel", "Tableau", "Power BI", "Figma", "Jira",
	"Project Management", "Leadership", "Communication",
}

// HeuristicParser extracts resume fields with regular expressions and
// section headers. It never fails and needs no network.
type HeuristicParser struct {
	fold cases.Caser
}

// NewHeuristicParser builds the parser.
func NewHeuristicParser() *HeuristicParser {
	return &HeuristicParser{fold: cases.Fold()}
}

func (p *HeuristicParser) Name() string { return "heuristic" }

// Parse splits the text into sections and reads each one.
func (p *HeuristicParser) Parse(_ context.Context, text string) (*dto.ParsedResume, error) {
	sections := splitSections(text)
	out := &dto.ParsedResume{
		Email:      strings.ToLower(emailRe.FindString(text)),
		Phone:      strings.TrimSpace(phoneRe.FindString(text)),
		Name:       guessName(sections[secHeader]),
		Summary:    strings.Join(sections[secSummary], " "),
		Education:  parseEducation(sections[secEducation]),
		Experience: parseExperience(sections[secExperience]),
	}
	out.Skills = p.skills(sections[secSkills], text)
	return out, nil
}

func splitSections(text string) map[section][]string {
	out := map[section][]string{}
	cur := secHeader
	for _, raw := range strings.Split(strings.ReplaceAll(text, "\r", ""), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		header := strings.TrimRight(line, ":")
		matched := false
		for _, h := range sectionHeaders {
			if len(header) < 40 && h.re.MatchString(header) {
				cur, matched = h.sec, true
				break
			}
		}
		if !matched {
			out[cur] = append(out[cur], line)
		}
	}
	return out
}

func guessName(lines []string) string {
	for i, line := range lines {
		if i >= 10 {
			break
		}
		lower := strings.ToLower(line)
		if len(line) >= 50 || strings.Contains(line, "@") || strings.Contains(lower, "resume") ||
			strings.Contains(lower, "curriculum") || strings.HasPrefix(lower, "http") ||
			phoneRe.MatchString(line) || (line[0] >= '0' && line[0] <= '9') {
			continue
		}
		return line
	}
	return ""
}

func (p *HeuristicParser) skills(lines []string, text string) []string {
	var out []string
	for _, line := range lines {
		line = bulletRe.ReplaceAllString(line, "")
		if i := strings.Index(line, ":"); i >= 0 && i < 30 {
			line = line[i+1:]
		}
		for _, s := range skillSepR.Split(line, -1) {
			if s = strings.TrimSpace(s); s != "" && len(s) <= 40 {
				out = append(out, s)
			}
		}
	}
	if len(out) >= 3 {
		return out
	}
	folded := " " + p.fold.String(wordsOnly(text)) + " "
	for _, k := range knownSkills {
		if strings.Contains(folded, " "+p.fold.String(k)+" ") {
			out = append(out, k)
		}
	}
	return out
}

// wordsOnly replaces punctuation that separates words with spaces, keeping
// the characters used inside skill names.
func wordsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ',', ';', '(', ')', '|', '\n', '\t', ':', '•':
			return ' '
		}
		return r
	}, s)
}

// paragraphs groups lines into entries; a new entry opens on a non-bullet
// line for which starts reports true.
func paragraphs(lines []string, starts func(string) bool) [][]string {
	var out [][]string
	for _, line := range lines {
		if len(out) == 0 || (starts(line) && !bulletRe.MatchString(line)) {
			out = append(out, []string{line})
			continue
		}
		out[len(out)-1] = append(out[len(out)-1], line)
	}
	return out
}

func parseEducation(lines []string) []dto.EducationEntry {
	out := []dto.EducationEntry{}
	starts := func(l string) bool { return degreeRe.MatchString(l) || schoolRe.MatchString(l) }
	for _, para := range paragraphs(lines, starts) {
		var e dto.EducationEntry
		var rest []string
		for _, l := range para {
			switch {
			case e.Degree == "" && e.Institution == "" && degreeRe.MatchString(l) && schoolRe.MatchString(l):
				if deg, school, ok := splitTitle(stripDate(l)); ok {
					e.Degree, e.Institution = deg, school
				} else {
					e.Institution = stripDate(l)
				}
			case e.Institution == "" && schoolRe.MatchString(l):
				e.Institution = stripDate(l)
			case e.Degree == "" && degreeRe.MatchString(l):
				e.Degree = stripDate(l)
			default:
				rest = append(rest, bulletRe.ReplaceAllString(l, ""))
			}
			if e.Date == "" {
				e.Date = dateRe.FindString(l)
			}
		}
		e.Description = strings.Join(rest, " ")
		if e.Institution != "" || e.Degree != "" {
			out = append(out, e)
		}
	}
	return out
}

func parseExperience(lines []string) []dto.ExperienceEntry {
	out := []dto.ExperienceEntry{}
	starts := func(l string) bool { return dateRe.MatchString(l) }
	for _, para := range paragraphs(lines, starts) {
		var e dto.ExperienceEntry
		var rest []string
		for i, l := range para {
			if e.Date == "" {
				e.Date = dateRe.FindString(l)
			}
			if i == 0 {
				title := stripDate(l)
				if pos, company, ok := splitTitle(title); ok {
					e.Position, e.Company = pos, company
				} else {
					e.Position = title
				}
				continue
			}
			if i == 1 && e.Company == "" && !bulletRe.MatchString(l) {
				e.Company = stripDate(l)
				continue
			}
			rest = append(rest, bulletRe.ReplaceAllString(l, ""))
		}
		e.Description = strings.Join(rest, " ")
		if e.Position != "" {
			out = append(out, e)
		}
	}
	return out
}

// splitTitle reads "Position at Company" and "Position, Company" lines.
func splitTitle(s string) (string, string, bool) {
	for _, sep := range []string{" at ", " @ ", ", ", " - ", " | "} {
		if i := strings.Index(s, sep); i > 0 {
			return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+len(sep):]), true
		}
	}
	return "", "", false
}

func stripDate(s string) string {
	s = dateRe.ReplaceAllString(s, "")
	return strings.Trim(strings.TrimSpace(s), ",-|()–")
}
