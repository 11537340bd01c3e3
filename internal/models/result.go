package models

// UploadedFile describes a résumé persisted for the lifetime of one request.
// It is deleted from disk unconditionally when the request finishes.
type UploadedFile struct {
	StoragePath  string
	OriginalName string
	MimeType     string
	SizeBytes    int64
}

// ATSResult is the response shape of the ATS compatibility check.
type ATSResult struct {
	Score       float64  `json:"score"`
	Findings    []string `json:"findings"`
	Suggestions []string `json:"suggestions"`
}

// CoverLetterResult is the response shape of both cover-letter routes.
// Highlights and SuggestedImprovements are only populated on the fallback
// path, when the model's output could not be parsed as JSON.
type CoverLetterResult struct {
	CoverLetter           string   `json:"coverLetter"`
	Highlights            []string `json:"highlights,omitempty"`
	SuggestedImprovements []string `json:"suggestedImprovements,omitempty"`
}

type TextCoverLetterRequest struct {
	JobDescription   string `json:"jobDescription"`
	SkillsExperience string `json:"skillsExperience"`
}

// SearchResult is one hit from the analysis similarity index.
type SearchResult struct {
	AnalysisID string  `json:"analysis_id"`
	Kind       string  `json:"kind"`
	Score      float32 `json:"score"`
	Excerpt    string  `json:"excerpt"`
}
