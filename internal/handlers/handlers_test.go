package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"careerlens/resume-assistant/internal/apperr"
	"careerlens/resume-assistant/internal/models"
	"careerlens/resume-assistant/internal/services"
)

type fakeAnalyzer struct {
	atsOutcome *services.ATSOutcome
	clOutcome  *services.CoverLetterOutcome
	err        error
	calls      int
}

func (f *fakeAnalyzer) ATSCheck(ctx context.Context, pdfPath string) (*services.ATSOutcome, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.atsOutcome, nil
}

func (f *fakeAnalyzer) CoverLetterFromResume(ctx context.Context, pdfPath, jobDescription string) (*services.CoverLetterOutcome, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.clOutcome, nil
}

func (f *fakeAnalyzer) CoverLetterFromText(ctx context.Context, skillsExperience, jobDescription string) (*services.CoverLetterOutcome, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.clOutcome, nil
}

type recordingWorker struct {
	jobs []services.RecordJob
}

func (w *recordingWorker) Start(ctx context.Context)      {}
func (w *recordingWorker) Stop()                          {}
func (w *recordingWorker) Enqueue(job services.RecordJob) { w.jobs = append(w.jobs, job) }

type testEnv struct {
	app       *fiber.App
	analyzer  *fakeAnalyzer
	worker    *recordingWorker
	uploadDir string
}

func newTestEnv(t *testing.T, analyzer *fakeAnalyzer, maxFileSize int64, devMode bool) *testEnv {
	t.Helper()

	uploadDir := t.TempDir()
	storage := services.NewStorageService(uploadDir, maxFileSize)
	worker := &recordingWorker{}

	atsHandler := NewATSHandler(storage, analyzer, worker, devMode)
	clHandler := NewCoverLetterHandler(storage, analyzer, worker, devMode)

	app := fiber.New()
	app.Post("/api/ats-check", atsHandler.HandleATSCheck)
	app.Post("/api/generate-cover-letter", clHandler.HandleGenerate)
	app.Post("/api/generate-cover-letter/text", clHandler.HandleGenerateFromText)

	return &testEnv{app: app, analyzer: analyzer, worker: worker, uploadDir: uploadDir}
}

func multipartRequest(t *testing.T, path string, fields map[string]string, filename, contentType string, content []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed to write field: %v", err)
		}
	}

	if filename != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="resume"; filename="%s"`, filename))
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("failed to create part: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("failed to write part: %v", err)
		}
	}
	writer.Close()

	req := httptest.NewRequest("POST", path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("failed to decode body %q: %v", data, err)
	}
	return out
}

func assertUploadDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read upload dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("uploaded file not cleaned up, %d entries remain", len(entries))
	}
}

func TestATSCheckSuccess(t *testing.T) {
	analyzer := &fakeAnalyzer{atsOutcome: &services.ATSOutcome{
		Result: &models.ATSResult{
			Score:       82,
			Findings:    []string{"Good keyword density"},
			Suggestions: []string{"Add metrics"},
		},
		SourceText: "resume text",
	}}
	env := newTestEnv(t, analyzer, 5*1024*1024, true)

	req := multipartRequest(t, "/api/ats-check", nil, "resume.pdf", "application/pdf", []byte("%PDF-1.4"))
	resp, err := env.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["score"] != float64(82) {
		t.Errorf("score = %v, want 82", body["score"])
	}

	if len(env.worker.jobs) != 1 {
		t.Fatalf("record jobs = %d, want 1", len(env.worker.jobs))
	}
	if env.worker.jobs[0].Record.Kind != models.KindATSCheck {
		t.Errorf("record kind = %v", env.worker.jobs[0].Record.Kind)
	}

	assertUploadDirEmpty(t, env.uploadDir)
}

func TestATSCheckMissingFile(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	env := newTestEnv(t, analyzer, 5*1024*1024, true)

	req := multipartRequest(t, "/api/ats-check", nil, "", "", nil)
	resp, err := env.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if analyzer.calls != 0 {
		t.Error("analyzer must not run when no file is attached")
	}

	body := decodeBody(t, resp)
	if body["error"] != "Resume file is required" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestATSCheckRejectsNonPDF(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	env := newTestEnv(t, analyzer, 5*1024*1024, true)

	req := multipartRequest(t, "/api/ats-check", nil, "resume.pdf", "text/plain", []byte("hi"))
	resp, err := env.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if analyzer.calls != 0 {
		t.Error("pipeline must not run for a rejected upload")
	}
	assertUploadDirEmpty(t, env.uploadDir)
}

func TestATSCheckRejectsOversizedFile(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	env := newTestEnv(t, analyzer, 16, true)

	req := multipartRequest(t, "/api/ats-check", nil, "resume.pdf", "application/pdf", bytes.Repeat([]byte("a"), 64))
	resp, err := env.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if analyzer.calls != 0 {
		t.Error("pipeline must not run for an oversized upload")
	}
	assertUploadDirEmpty(t, env.uploadDir)
}

func TestATSCheckGenerationFailureCleansUp(t *testing.T) {
	analyzer := &fakeAnalyzer{err: apperr.Generation("Failed to analyze resume", fmt.Errorf("quota exceeded"))}
	env := newTestEnv(t, analyzer, 5*1024*1024, false)

	req := multipartRequest(t, "/api/ats-check", nil, "resume.pdf", "application/pdf", []byte("%PDF-1.4"))
	resp, err := env.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusBadGateway {
		t.Fatalf("status = %d, want 502", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["error"] != "Failed to analyze resume" {
		t.Errorf("error = %v", body["error"])
	}
	if _, ok := body["details"]; ok {
		t.Error("details must be omitted outside development mode")
	}

	assertUploadDirEmpty(t, env.uploadDir)
}

func TestATSCheckErrorDetailsInDevelopment(t *testing.T) {
	analyzer := &fakeAnalyzer{err: apperr.Generation("Failed to analyze resume", fmt.Errorf("quota exceeded"))}
	env := newTestEnv(t, analyzer, 5*1024*1024, true)

	req := multipartRequest(t, "/api/ats-check", nil, "resume.pdf", "application/pdf", []byte("%PDF-1.4"))
	resp, err := env.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	body := decodeBody(t, resp)
	details, ok := body["details"].(string)
	if !ok || !strings.Contains(details, "quota exceeded") {
		t.Errorf("details = %v, want wrapped error chain", body["details"])
	}
}

func TestCoverLetterMissingJobDescription(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	env := newTestEnv(t, analyzer, 5*1024*1024, true)

	req := multipartRequest(t, "/api/generate-cover-letter", nil, "resume.pdf", "application/pdf", []byte("%PDF-1.4"))
	resp, err := env.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if analyzer.calls != 0 {
		t.Error("analyzer must not run without a job description")
	}
	assertUploadDirEmpty(t, env.uploadDir)
}

func TestCoverLetterSuccess(t *testing.T) {
	analyzer := &fakeAnalyzer{clOutcome: &services.CoverLetterOutcome{
		Result:     &models.CoverLetterResult{CoverLetter: "Dear Hiring Manager, ..."},
		SourceText: "resume text",
	}}
	env := newTestEnv(t, analyzer, 5*1024*1024, true)

	req := multipartRequest(t, "/api/generate-cover-letter",
		map[string]string{"jobDescription": "backend role"},
		"resume.pdf", "application/pdf", []byte("%PDF-1.4"))
	resp, err := env.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["coverLetter"] != "Dear Hiring Manager, ..." {
		t.Errorf("coverLetter = %v", body["coverLetter"])
	}
	if _, ok := body["highlights"]; ok {
		t.Error("highlights must be absent on the strict path")
	}

	assertUploadDirEmpty(t, env.uploadDir)
}

func TestTextCoverLetterMissingFields(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	env := newTestEnv(t, analyzer, 5*1024*1024, true)

	payload := `{"jobDescription":"backend role"}`
	req := httptest.NewRequest("POST", "/api/generate-cover-letter/text", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := env.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
	if body["error"] != "Both job description and skills/experience are required" {
		t.Errorf("error = %v", body["error"])
	}
	if analyzer.calls != 0 {
		t.Error("analyzer must not run for an invalid request")
	}
}

func TestTextCoverLetterSuccess(t *testing.T) {
	analyzer := &fakeAnalyzer{clOutcome: &services.CoverLetterOutcome{
		Result:     &models.CoverLetterResult{CoverLetter: "Dear team, ..."},
		SourceText: "5 years of Go",
	}}
	env := newTestEnv(t, analyzer, 5*1024*1024, true)

	payload := `{"jobDescription":"backend role","skillsExperience":"5 years of Go"}`
	req := httptest.NewRequest("POST", "/api/generate-cover-letter/text", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := env.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["success"] != true {
		t.Errorf("success = %v, want true", body["success"])
	}
	data, ok := body["data"].(map[string]any)
	if !ok || data["coverLetter"] != "Dear team, ..." {
		t.Errorf("data = %v", body["data"])
	}

	if len(env.worker.jobs) != 1 || env.worker.jobs[0].Record.Kind != models.KindCoverLetterText {
		t.Errorf("record jobs = %+v", env.worker.jobs)
	}
}
