package analyses

import "errors"

var ErrLLMNotConfigured = errors.New("llm client not configured")

const (
	ErrorCodeValidation     = "VALIDATION_ERROR"
	ErrorCodeInvalidFile    = "INVALID_FILE"
	ErrorCodeFileTooLarge   = "FILE_TOO_LARGE"
	ErrorCodeExtraction     = "EXTRACTION_FAILED"
	ErrorCodeExtractTimeout = "EXTRACTION_TIMEOUT"
	ErrorCodeExtractorInit  = "EXTRACTOR_UNAVAILABLE"
	ErrorCodeRateLimited    = "RATE_LIMITED"
	ErrorCodeLLMTimeout     = "LLM_TIMEOUT"
	ErrorCodeUpstream       = "UPSTREAM_ERROR"
	ErrorCodeUnavailable    = "SERVICE_UNAVAILABLE"
)
