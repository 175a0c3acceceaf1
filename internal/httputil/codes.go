package httputil

// Machine-readable error codes returned in ErrorResponse.Code
const (
	CodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	CodeInternalError      = "INTERNAL_ERROR"

	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeEmailRequired      = "EMAIL_REQUIRED"
	CodePasswordRequired   = "PASSWORD_REQUIRED"
	CodeUserAlreadyExists  = "USER_ALREADY_EXISTS"
	CodeUserNotFound       = "USER_NOT_FOUND"

	CodeProjectNotFound         = "PROJECT_NOT_FOUND"
	CodeTitleRequired           = "TITLE_REQUIRED"
	CodeInvalidManagementMethod = "INVALID_MANAGEMENT_METHOD"
	CodeInvalidProgress         = "INVALID_PROGRESS"
)
