package httputil

// Machine-readable codes carried next to human messages.
const (
	CodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	CodeValidationFailed   = "VALIDATION_FAILED"

	CodeMissingAuth    = "MISSING_AUTH"
	CodeInvalidToken   = "INVALID_TOKEN"
	CodeTokenExpired   = "TOKEN_EXPIRED"
	CodeAccountMissing = "ACCOUNT_NOT_FOUND"

	CodeProfileNotFound = "PROFILE_NOT_FOUND"
	CodeInvalidID       = "INVALID_ID"

	CodeTooManyRequests  = "TOO_MANY_REQUESTS"
	CodeDeleteIncomplete = "DELETE_INCOMPLETE"
	CodeInternalError    = "INTERNAL_ERROR"
)
