// Package scoring computes the automatic suitability score of an application against a job.
//
// The score is the sum of five bounded factors. Missing or malformed inputs degrade the
// affected factor to zero; Compute never fails.
package scoring

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/noah-isme/hire-go-api/internal/models"
)

// Factor ceilings. They sum to MaxScore.
const (
	MaxExperienceMatch    = 25
	MaxSkillsMatch        = 30
	MaxAvailabilityScore  = 15
	MaxSalaryFit          = 15
	MaxApplicationQuality = 15

	MaxScore = MaxExperienceMatch + MaxSkillsMatch + MaxAvailabilityScore + MaxSalaryFit + MaxApplicationQuality
)

// Factors is the per-dimension breakdown of an automatic score.
type Factors struct {
	ExperienceMatch    int `json:"experienceMatch"`
	SkillsMatch        int `json:"skillsMatch"`
	AvailabilityScore  int `json:"availabilityScore"`
	SalaryFit          int `json:"salaryFit"`
	ApplicationQuality int `json:"applicationQuality"`
}

// Total returns the sum of all factors.
func (f Factors) Total() int {
	return f.ExperienceMatch + f.SkillsMatch + f.AvailabilityScore + f.SalaryFit + f.ApplicationQuality
}

// Result is the output of a scoring run.
type Result struct {
	Factors   Factors `json:"factors"`
	AutoScore int     `json:"autoScore"`
}

// Input bundles what the engine reads. Candidate is the applicant's profile.
type Input struct {
	Application models.Application
	Candidate   models.User
	Job         models.Job
}

// Engine scores applications relative to a reference clock.
type Engine struct {
	now func() time.Time
}

// NewEngine returns an engine that measures availability against the wall clock.
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// NewEngineAt returns an engine with a fixed reference clock.
func NewEngineAt(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// Compute scores a single application.
func (e *Engine) Compute(in Input) Result {
	factors := Factors{
		ExperienceMatch:    clamp(ExperienceMatch(in.Candidate, in.Job.ExperienceLevel), MaxExperienceMatch),
		SkillsMatch:        clamp(SkillsMatch(in.Candidate.Skills, in.Application.CoverLetter, in.Job.Skills), MaxSkillsMatch),
		AvailabilityScore:  clamp(AvailabilityScore(in.Application.AvailabilityDate, e.now()), MaxAvailabilityScore),
		SalaryFit:          clamp(SalaryFit(in.Application.SalaryExpectation, in.Job.Salary), MaxSalaryFit),
		ApplicationQuality: clamp(ApplicationQuality(in.Application), MaxApplicationQuality),
	}
	return Result{Factors: factors, AutoScore: factors.Total()}
}

// LevelIndex maps an experience level label to its rank, or -1 when unknown.
func LevelIndex(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "débutant", "debutant", "junior":
		return 0
	case "intermédiaire", "intermediaire", "intermediate":
		return 1
	case "senior":
		return 2
	default:
		return -1
	}
}

func candidateLevel(candidate models.User) int {
	if idx := LevelIndex(candidate.ExperienceLevel); idx >= 0 {
		return idx
	}
	if candidate.YearsExperience == nil || *candidate.YearsExperience < 0 {
		return -1
	}
	switch years := *candidate.YearsExperience; {
	case years < 2:
		return 0
	case years < 5:
		return 1
	default:
		return 2
	}
}

// ExperienceMatch compares the candidate's seniority with the level a job asks for.
func ExperienceMatch(candidate models.User, jobLevel string) int {
	required := LevelIndex(jobLevel)
	actual := candidateLevel(candidate)
	if required < 0 || actual < 0 {
		return 0
	}

	switch actual - required {
	case 0:
		return MaxExperienceMatch
	case 1:
		return 20
	case 2:
		return 15
	case -1:
		return 10
	default:
		return 0
	}
}

// SkillsMatch awards credit proportional to the share of job skills the candidate covers,
// either through the profile or by mentioning them in the cover letter.
func SkillsMatch(candidateSkills []string, coverLetter string, jobSkills []string) int {
	required := normalizeSkills(jobSkills)
	if len(required) == 0 {
		return 0
	}

	owned := make(map[string]struct{}, len(candidateSkills))
	for _, skill := range normalizeSkills(candidateSkills) {
		owned[skill] = struct{}{}
	}
	letter := tokenize(coverLetter)

	matched := 0
	for _, skill := range required {
		if _, ok := owned[skill]; ok {
			matched++
			continue
		}
		if containsTokens(letter, tokenize(skill)) {
			matched++
		}
	}

	return MaxSkillsMatch * matched / len(required)
}

// tokenize splits text into lower-case words. '+', '#' and inner dots stay part of a word so
// that "C++", "C#" and "node.js" survive as single tokens.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#' && r != '.'
	})
	tokens := fields[:0]
	for _, field := range fields {
		if trimmed := strings.Trim(field, "."); trimmed != "" {
			tokens = append(tokens, trimmed)
		}
	}
	return tokens
}

// containsTokens reports whether needle appears as a contiguous run of whole words in haystack.
func containsTokens(haystack, needle []string) bool {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func normalizeSkills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	result := make([]string, 0, len(skills))
	for _, skill := range skills {
		normalized := strings.ToLower(strings.TrimSpace(skill))
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		result = append(result, normalized)
	}
	return result
}

// AvailabilityScore favours candidates who can start sooner.
func AvailabilityScore(availability *time.Time, reference time.Time) int {
	if availability == nil || availability.IsZero() {
		return 0
	}

	days := int(availability.Sub(reference).Hours() / 24)
	switch {
	case days <= 0:
		return MaxAvailabilityScore
	case days <= 14:
		return 12
	case days <= 30:
		return 9
	case days <= 60:
		return 6
	case days <= 90:
		return 3
	default:
		return 0
	}
}

// SalaryFit compares the candidate expectation with the posted salary.
func SalaryFit(expectation, posted string) int {
	offered, ok := ParseSalaryRange(posted)
	if !ok {
		return 0
	}
	wanted, ok := ParseSalaryRange(expectation)
	if !ok {
		return 0
	}

	expected := wanted.Min
	if wanted.Max != wanted.Min {
		expected = (wanted.Min + wanted.Max) / 2
	}
	if expected <= offered.Max {
		return MaxSalaryFit
	}

	overshoot := (expected - offered.Max) / offered.Max
	switch {
	case overshoot <= 0.05:
		return 12
	case overshoot <= 0.10:
		return 9
	case overshoot <= 0.20:
		return 6
	case overshoot <= 0.30:
		return 3
	default:
		return 0
	}
}

// ApplicationQuality rewards complete applications.
func ApplicationQuality(application models.Application) int {
	score := 0

	switch length := utf8.RuneCountInString(strings.TrimSpace(application.CoverLetter)); {
	case length >= 500:
		score += 7
	case length >= 200:
		score += 5
	case length >= 50:
		score += 3
	case length > 0:
		score++
	}

	if strings.TrimSpace(application.CVPath) != "" {
		score += 5
	}
	if strings.TrimSpace(application.MotivationLetterPath) != "" {
		score += 3
	}

	return score
}

func clamp(value, max int) int {
	if value < 0 {
		return 0
	}
	if value > max {
		return max
	}
	return value
}
