package apperr

// Business codes carried by AppError and the HTTP envelope.
const (
	CodeSuccess          = 20000
	CodeParamInvalid     = 40001
	CodeValidationFailed = 40002
	CodeNotFound         = 40401
	CodeQueueFull        = 40901
	CodeInvalidID        = 42201
	CodeInternalServer   = 50000
)
