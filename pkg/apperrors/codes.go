package apperrors

// ErrorCode identifies an error class in API responses.
type ErrorCode string

// Cross-cutting codes.
const (
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"

	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeInvalidStatus    ErrorCode = "INVALID_STATUS"

	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	CodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
)

// Intake and storage codes.
const (
	CodeNoValidItems       ErrorCode = "NO_VALID_ITEMS"
	CodeUnsupportedType    ErrorCode = "UNSUPPORTED_TYPE"
	CodeFileTooLarge       ErrorCode = "FILE_TOO_LARGE"
	CodeStorageUnavailable ErrorCode = "STORAGE_UNAVAILABLE"
	CodePersistenceFailure ErrorCode = "PERSISTENCE_FAILURE"
)

// Auth flow codes.
const (
	CodeSmsCodeInvalid          ErrorCode = "SMS_CODE_INVALID"
	CodeSmsRateLimited          ErrorCode = "SMS_RATE_LIMITED"
	CodeRegistrationNotApproved ErrorCode = "REGISTRATION_NOT_APPROVED"
)
