package http

// Machine-readable error codes carried in the error envelope. Clients branch
// on these; the messages next to them are for humans.
const (
	CodeMissingToken          = "MISSING_TOKEN"
	CodeInvalidTokenFormat    = "INVALID_TOKEN_FORMAT"
	CodeTokenExpired          = "TOKEN_EXPIRED"
	CodeTokenSignatureInvalid = "TOKEN_SIGNATURE_INVALID"
	CodeInvalidPayload        = "INVALID_PAYLOAD"

	CodeAuthenticationRequired = "AUTHENTICATION_REQUIRED"
	CodeRoleNotFound           = "ROLE_NOT_FOUND"
	CodeAccessDenied           = "ACCESS_DENIED"

	CodeInvalidRefreshFormat = "INVALID_REFRESH_TOKEN_FORMAT"
	CodeRefreshReused        = "REFRESH_TOKEN_REUSED"
	CodePrincipalNotFound    = "PRINCIPAL_NOT_FOUND"
	CodeRefreshFailed        = "REFRESH_FAILED"

	CodeValidation     = "VALIDATION_ERROR"
	CodeEmailTaken     = "EMAIL_ALREADY_REGISTERED"
	CodeUnknownEmail   = "EMAIL_NOT_REGISTERED"
	CodeWrongPassword  = "INCORRECT_PASSWORD"
	CodeSigningBroken  = "SIGNING_UNAVAILABLE"
	CodeInternal       = "INTERNAL_ERROR"
	CodeStoreUnhealthy = "STORE_UNHEALTHY"
)
