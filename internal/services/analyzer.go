package services

import (
	"context"
	"log"

	"careerlens/resume-assistant/internal/apperr"
	"careerlens/resume-assistant/internal/models"
)

// ATSOutcome is the result of one ATS-check pipeline run. SourceText carries
// the extracted résumé text for optional history recording; it is never part
// of the HTTP response.
type ATSOutcome struct {
	Result       *models.ATSResult
	UsedFallback bool
	SourceText   string
}

// CoverLetterOutcome is the result of one cover-letter pipeline run.
type CoverLetterOutcome struct {
	Result       *models.CoverLetterResult
	UsedFallback bool
	SourceText   string
}

// AnalyzerService runs the per-request pipeline: extract text, build the
// prompt, call the model, normalize the result. Each call is strictly linear
// and shares no state with other requests.
type AnalyzerService interface {
	ATSCheck(ctx context.Context, pdfPath string) (*ATSOutcome, error)
	CoverLetterFromResume(ctx context.Context, pdfPath, jobDescription string) (*CoverLetterOutcome, error)
	CoverLetterFromText(ctx context.Context, skillsExperience, jobDescription string) (*CoverLetterOutcome, error)
}

type analyzerService struct {
	pdfParser     PDFParserService
	geminiService GeminiService
	promptBuilder *PromptBuilder
	normalizer    *Normalizer
}

func NewAnalyzerService(
	pdfParser PDFParserService,
	geminiService GeminiService,
) AnalyzerService {
	return &analyzerService{
		pdfParser:     pdfParser,
		geminiService: geminiService,
		promptBuilder: NewPromptBuilder(),
		normalizer:    NewNormalizer(),
	}
}

// ATSCheck implements AnalyzerService.
func (a *analyzerService) ATSCheck(ctx context.Context, pdfPath string) (*ATSOutcome, error) {
	resumeText, err := a.pdfParser.ExtractText(pdfPath)
	if err != nil {
		return nil, err
	}

	prompt := a.promptBuilder.BuildATSCheckPrompt(resumeText)

	response, err := a.geminiService.GenerateText(ctx, prompt)
	if err != nil {
		return nil, apperr.Generation("Failed to analyze resume", err)
	}

	result, usedFallback := a.normalizer.NormalizeATS(response)
	if usedFallback {
		log.Println("⚠️  ATS response was not valid JSON, used fallback extraction")
	}

	return &ATSOutcome{
		Result:       result,
		UsedFallback: usedFallback,
		SourceText:   resumeText,
	}, nil
}

// CoverLetterFromResume implements AnalyzerService.
func (a *analyzerService) CoverLetterFromResume(ctx context.Context, pdfPath, jobDescription string) (*CoverLetterOutcome, error) {
	resumeText, err := a.pdfParser.ExtractText(pdfPath)
	if err != nil {
		return nil, err
	}

	prompt := a.promptBuilder.BuildCoverLetterPrompt(resumeText, jobDescription)

	return a.generateCoverLetter(ctx, prompt, resumeText)
}

// CoverLetterFromText implements AnalyzerService.
func (a *analyzerService) CoverLetterFromText(ctx context.Context, skillsExperience, jobDescription string) (*CoverLetterOutcome, error) {
	prompt := a.promptBuilder.BuildCoverLetterFromTextPrompt(skillsExperience, jobDescription)

	return a.generateCoverLetter(ctx, prompt, skillsExperience)
}

func (a *analyzerService) generateCoverLetter(ctx context.Context, prompt, sourceText string) (*CoverLetterOutcome, error) {
	response, err := a.geminiService.GenerateText(ctx, prompt)
	if err != nil {
		return nil, apperr.Generation("Failed to generate cover letter", err)
	}

	result, usedFallback := a.normalizer.NormalizeCoverLetter(response)
	if usedFallback {
		log.Println("⚠️  Cover letter response was not valid JSON, used raw text fallback")
	}

	return &CoverLetterOutcome{
		Result:       result,
		UsedFallback: usedFallback,
		SourceText:   sourceText,
	}, nil
}
