package analyses

import (
	"resume-ats/internal/extract"
	"resume-ats/internal/llm"
	"resume-ats/internal/parser"
	"resume-ats/internal/report"
)

const (
	MinTextChars           = 500
	MaxTextChars           = 10000
	MaxJobDescriptionChars = 1000
)

// Request is one analysis submission.
type Request struct {
	Text            string `json:"text" form:"text" validate:"required,min=500,max=10000"`
	Industry        string `json:"industry" form:"industry" validate:"industry"`
	ExperienceLevel string `json:"experienceLevel" form:"experienceLevel" validate:"experience"`
	JobDescription  string `json:"jobDescription,omitempty" form:"jobDescription" validate:"max=1000"`
}

// Normalize replaces industry and experience level with their canonical codes,
// applying the defaults for empty values. Unknown values are left for Validate.
func (r *Request) Normalize() {
	if ind, err := ParseIndustry(r.Industry); err == nil {
		r.Industry = string(ind)
	}
	if lvl, err := ParseExperienceLevel(r.ExperienceLevel); err == nil {
		r.ExperienceLevel = string(lvl)
	}
}

// Metadata describes how a result was produced.
type Metadata struct {
	ProcessingTime       int64      `json:"processingTime"`
	TextLength           int        `json:"textLength"`
	Industry             string     `json:"industry"`
	IndustryLabel        string     `json:"industryLabel"`
	ExperienceLevel      string     `json:"experienceLevel"`
	ExperienceLevelLabel string     `json:"experienceLevelLabel"`
	Provider             string     `json:"provider,omitempty"`
	Model                string     `json:"model,omitempty"`
	PromptHash           string     `json:"promptHash"`
	Fallback             bool       `json:"fallback"`
	Usage                *llm.Usage `json:"usage,omitempty"`
	RequestID            string     `json:"requestId,omitempty"`
}

// DocumentInfo summarizes the uploaded file an analysis was run on.
type DocumentInfo struct {
	FileName   string `json:"fileName"`
	Pages      int    `json:"pages"`
	Characters int    `json:"characters"`
	Words      int    `json:"words"`
	Truncated  bool   `json:"truncated"`
}

// Result is the response of a completed analysis.
type Result struct {
	RawAnalysis        string                    `json:"rawAnalysis"`
	StructuredAnalysis parser.StructuredAnalysis `json:"structuredAnalysis"`
	Report             report.View               `json:"report"`
	Metadata           Metadata                  `json:"metadata"`
	Document           *DocumentInfo             `json:"document,omitempty"`
}

func documentInfo(fileName string, doc extract.Document, truncated bool) *DocumentInfo {
	return &DocumentInfo{
		FileName:   fileName,
		Pages:      doc.Pages,
		Characters: doc.Characters,
		Words:      doc.Words,
		Truncated:  truncated,
	}
}
