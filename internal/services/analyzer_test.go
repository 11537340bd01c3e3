package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"careerlens/resume-assistant/internal/apperr"
)

type fakeParser struct {
	text  string
	err   error
	calls int
}

func (f *fakeParser) ExtractText(filePath string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type fakeGemini struct {
	response   string
	err        error
	lastPrompt string
	calls      int
}

func (f *fakeGemini) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeGemini) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1, 0.2}, nil
}

func TestATSCheckStrictPath(t *testing.T) {
	parser := &fakeParser{text: "Jane Doe, Platform Engineer"}
	gemini := &fakeGemini{response: `{"score":82,"findings":["Good keyword density"],"suggestions":["Add metrics"]}`}
	analyzer := NewAnalyzerService(parser, gemini)

	outcome, err := analyzer.ATSCheck(context.Background(), "/tmp/resume.pdf")
	if err != nil {
		t.Fatalf("ATSCheck failed: %v", err)
	}

	if outcome.UsedFallback {
		t.Error("expected strict parse")
	}
	if outcome.Result.Score != 82 {
		t.Errorf("score = %v, want 82", outcome.Result.Score)
	}
	if outcome.SourceText != "Jane Doe, Platform Engineer" {
		t.Errorf("SourceText = %q", outcome.SourceText)
	}
	if !strings.Contains(gemini.lastPrompt, "Jane Doe, Platform Engineer") {
		t.Error("prompt should embed the extracted resume text")
	}
}

func TestATSCheckFallbackPath(t *testing.T) {
	parser := &fakeParser{text: "resume"}
	gemini := &fakeGemini{response: "Your resume scores around 75 out of 100."}
	analyzer := NewAnalyzerService(parser, gemini)

	outcome, err := analyzer.ATSCheck(context.Background(), "/tmp/resume.pdf")
	if err != nil {
		t.Fatalf("ATSCheck failed: %v", err)
	}

	if !outcome.UsedFallback {
		t.Error("expected fallback")
	}
	if outcome.Result.Score != 75 {
		t.Errorf("score = %v, want 75", outcome.Result.Score)
	}
}

func TestATSCheckExtractionFailureStopsPipeline(t *testing.T) {
	parser := &fakeParser{err: apperr.Extraction("No text content found in PDF", errors.New("empty"))}
	gemini := &fakeGemini{response: "unused"}
	analyzer := NewAnalyzerService(parser, gemini)

	_, err := analyzer.ATSCheck(context.Background(), "/tmp/resume.pdf")
	if apperr.KindOf(err) != apperr.KindExtraction {
		t.Fatalf("error kind = %v, want extraction", apperr.KindOf(err))
	}
	if gemini.calls != 0 {
		t.Error("generation must not run after extraction failure")
	}
}

func TestATSCheckGenerationFailurePropagates(t *testing.T) {
	parser := &fakeParser{text: "resume"}
	gemini := &fakeGemini{err: errors.New("quota exceeded")}
	analyzer := NewAnalyzerService(parser, gemini)

	_, err := analyzer.ATSCheck(context.Background(), "/tmp/resume.pdf")
	if apperr.KindOf(err) != apperr.KindGeneration {
		t.Fatalf("error kind = %v, want generation", apperr.KindOf(err))
	}
	if gemini.calls != 1 {
		t.Errorf("generation attempts = %d, want exactly 1 (no retries)", gemini.calls)
	}
}

func TestCoverLetterFromResume(t *testing.T) {
	parser := &fakeParser{text: "resume body"}
	gemini := &fakeGemini{response: `{"coverLetter":"Dear Hiring Manager, ..."}`}
	analyzer := NewAnalyzerService(parser, gemini)

	outcome, err := analyzer.CoverLetterFromResume(context.Background(), "/tmp/resume.pdf", "backend role")
	if err != nil {
		t.Fatalf("CoverLetterFromResume failed: %v", err)
	}

	if outcome.UsedFallback {
		t.Error("expected strict parse")
	}
	if outcome.Result.CoverLetter != "Dear Hiring Manager, ..." {
		t.Errorf("coverLetter = %q", outcome.Result.CoverLetter)
	}
	if !strings.Contains(gemini.lastPrompt, "backend role") {
		t.Error("prompt should embed the job description")
	}
}

func TestCoverLetterFromTextSkipsExtraction(t *testing.T) {
	parser := &fakeParser{err: errors.New("should not be called")}
	gemini := &fakeGemini{response: `{"coverLetter":"Dear team"}`}
	analyzer := NewAnalyzerService(parser, gemini)

	outcome, err := analyzer.CoverLetterFromText(context.Background(), "5 years of Go", "platform role")
	if err != nil {
		t.Fatalf("CoverLetterFromText failed: %v", err)
	}

	if parser.calls != 0 {
		t.Error("no-file route must not touch the PDF parser")
	}
	if outcome.SourceText != "5 years of Go" {
		t.Errorf("SourceText = %q", outcome.SourceText)
	}
}
