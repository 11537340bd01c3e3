package services

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"careerlens/resume-assistant/internal/models"
)

// Normalizer turns raw model output into the response shapes the API
// promises. The model is instructed to return strict JSON but gives no
// structural guarantee, so every result goes through a strict parse first
// and falls back to a deterministic best-effort extraction when that fails.
// The normalizer never surfaces a parse error: it always produces a response
// of the correct shape.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

const defaultATSScore = 70

var firstIntegerPattern = regexp.MustCompile(`\d+`)

type atsPayload struct {
	Score       float64  `json:"score"`
	Findings    []string `json:"findings"`
	Suggestions []string `json:"suggestions"`
}

type coverLetterPayload struct {
	CoverLetter           string   `json:"coverLetter"`
	Highlights            []string `json:"highlights"`
	SuggestedImprovements []string `json:"suggestedImprovements"`
}

// NormalizeATS parses raw into the ATS result shape. The strict branch is
// taken when the output is valid JSON with a non-zero score and an
// array-typed suggestions field; its output mirrors the parsed fields, with
// findings defaulting to an empty list. Otherwise the fallback pulls the
// first integer out of the raw text (default 70) and emits fixed findings
// and suggestions. The second return reports whether the fallback ran.
func (n *Normalizer) NormalizeATS(raw string) (*models.ATSResult, bool) {
	var payload atsPayload
	if err := json.Unmarshal([]byte(extractJSON(raw)), &payload); err == nil &&
		payload.Score != 0 && payload.Suggestions != nil {
		findings := payload.Findings
		if findings == nil {
			findings = []string{}
		}
		return &models.ATSResult{
			Score:       payload.Score,
			Findings:    findings,
			Suggestions: payload.Suggestions,
		}, false
	}

	score := float64(defaultATSScore)
	if match := firstIntegerPattern.FindString(raw); match != "" {
		if parsed, err := strconv.Atoi(match); err == nil {
			score = float64(parsed)
		}
	}

	return &models.ATSResult{
		Score:       score,
		Findings:    []string{"Analysis completed"},
		Suggestions: []string{"Consider reviewing the resume format"},
	}, true
}

// NormalizeCoverLetter parses raw into the cover-letter result shape. The
// strict branch requires a non-empty coverLetter field. The fallback treats
// the entire response, with line endings normalized, as the letter itself
// and attaches fixed best-effort annotations.
func (n *Normalizer) NormalizeCoverLetter(raw string) (*models.CoverLetterResult, bool) {
	var payload coverLetterPayload
	if err := json.Unmarshal([]byte(extractJSON(raw)), &payload); err == nil &&
		strings.TrimSpace(payload.CoverLetter) != "" {
		return &models.CoverLetterResult{
			CoverLetter:           payload.CoverLetter,
			Highlights:            payload.Highlights,
			SuggestedImprovements: payload.SuggestedImprovements,
		}, false
	}

	cleaned := strings.TrimSpace(strings.ReplaceAll(raw, "\r\n", "\n"))

	return &models.CoverLetterResult{
		CoverLetter: cleaned,
		Highlights:  []string{"Cover letter generated from the model's raw response"},
		SuggestedImprovements: []string{
			"Review the letter for formatting before sending",
		},
	}, true
}

// extractJSON tries to extract JSON from text that might contain markdown or
// other formatting around it.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}

	return text
}
