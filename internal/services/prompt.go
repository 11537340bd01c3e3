package services

import (
	"fmt"
)

// PromptBuilder renders the three fixed instruction templates. Résumé text
// and job descriptions are interpolated verbatim: there is no escaping
// against prompt injection, which is an accepted limitation of the service.
type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildATSCheckPrompt asks for an ATS compatibility score over the extracted
// résumé text.
func (pb *PromptBuilder) BuildATSCheckPrompt(resumeText string) string {
	return fmt.Sprintf(`You are an expert ATS (Applicant Tracking System) analyst reviewing a resume.

RESUME:
%s

Evaluate how well this resume would perform in automated applicant tracking systems. Consider keyword usage, section structure, formatting simplicity, and quantified achievements.

Return your response as strict JSON in exactly the following format, with no additional text:
{
  "score": <number 0-100>,
  "findings": ["<specific observation about the resume>", ...],
  "suggestions": ["<specific actionable improvement>", ...]
}`, resumeText)
}

// BuildCoverLetterPrompt asks for a cover letter written from the extracted
// résumé text and the target job description.
func (pb *PromptBuilder) BuildCoverLetterPrompt(resumeText, jobDescription string) string {
	return fmt.Sprintf(`You are an expert career coach writing a cover letter for a job applicant.

JOB DESCRIPTION:
%s

APPLICANT'S RESUME:
%s

Write a professional cover letter of 300-400 words tailored to the job description, drawing on the applicant's actual experience from the resume. Use a confident but not arrogant tone.

Return your response as strict JSON in exactly the following format, with no additional text:
{
  "coverLetter": "<the full cover letter text>"
}`, jobDescription, resumeText)
}

// BuildCoverLetterFromTextPrompt is the no-file variant: the applicant
// describes their skills and experience as free text.
func (pb *PromptBuilder) BuildCoverLetterFromTextPrompt(skillsExperience, jobDescription string) string {
	return fmt.Sprintf(`You are an expert career coach writing a cover letter for a job applicant.

JOB DESCRIPTION:
%s

APPLICANT'S SKILLS AND EXPERIENCE:
%s

Write a professional cover letter of 300-400 words tailored to the job description, drawing on the applicant's stated skills and experience. Use a confident but not arrogant tone.

Return your response as strict JSON in exactly the following format, with no additional text:
{
  "coverLetter": "<the full cover letter text>"
}`, jobDescription, skillsExperience)
}
