package errors

// ErrorCode represents a standardized error code used throughout the API
type ErrorCode string

// Authentication error codes (AUTH_*)
const (
	AuthInvalidCredentials ErrorCode = "AUTH_001"
	AuthMissingToken       ErrorCode = "AUTH_002"
	AuthExpiredToken       ErrorCode = "AUTH_003"
	AuthInvalidTokenFormat ErrorCode = "AUTH_004"
	AuthInsufficientRole   ErrorCode = "AUTH_005"
)

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral       ErrorCode = "VALIDATION_001"
	ValidationRequiredField ErrorCode = "VALIDATION_002"
	ValidationInvalidFormat ErrorCode = "VALIDATION_003"
	ValidationOutOfRange    ErrorCode = "VALIDATION_004"
	ValidationInvalidEmail  ErrorCode = "VALIDATION_005"
	ValidationInvalidDate   ErrorCode = "VALIDATION_006"
)

// User error codes (USER_*)
const (
	UserNotFound      ErrorCode = "USER_001"
	UserEmailTaken    ErrorCode = "USER_002"
	UserUsernameTaken ErrorCode = "USER_003"
	UserInvalidID     ErrorCode = "USER_004"
)

// Account error codes (ACCOUNT_*)
const (
	AccountNotFound        ErrorCode = "ACCOUNT_001"
	AccountHasTransactions ErrorCode = "ACCOUNT_002"
	AccountInvalidID       ErrorCode = "ACCOUNT_003"
)

// Transaction error codes (TRANSACTION_*)
const (
	TransactionNotFound         ErrorCode = "TRANSACTION_001"
	TransactionInvalidAmount    ErrorCode = "TRANSACTION_002"
	TransactionInvalidType     ErrorCode = "TRANSACTION_003"
	TransactionMissingAccount   ErrorCode = "TRANSACTION_004"
	TransactionMissingTarget    ErrorCode = "TRANSACTION_005"
	TransactionSelfTransfer     ErrorCode = "TRANSACTION_006"
	TransactionUnexpectedTarget ErrorCode = "TRANSACTION_007"
)

// Currency error codes (CURRENCY_*)
const (
	CurrencyRatesUnavailable ErrorCode = "CURRENCY_001"
	CurrencyNoSnapshot       ErrorCode = "CURRENCY_002"
	CurrencyRefreshFailed    ErrorCode = "CURRENCY_003"
)

// System error codes (SYSTEM_*)
const (
	SystemInternalError     ErrorCode = "SYSTEM_001"
	SystemDatabaseError     ErrorCode = "SYSTEM_002"
	SystemRateLimitExceeded ErrorCode = "SYSTEM_003"
)

// errorMessages maps error codes to their default human-readable messages
var errorMessages = map[ErrorCode]string{
	// Authentication errors. The invalid-credentials message never reveals
	// whether the email exists.
	AuthInvalidCredentials: "Invalid credentials",
	AuthMissingToken:       "Authorization token is required",
	AuthExpiredToken:       "Authorization token has expired",
	AuthInvalidTokenFormat: "Invalid authorization token",
	AuthInsufficientRole:   "Insufficient permissions to access this resource",

	// Validation errors
	ValidationGeneral:       "Validation failed",
	ValidationRequiredField: "Required field is missing",
	ValidationInvalidFormat: "Invalid field format",
	ValidationOutOfRange:    "Field value is out of allowed range",
	ValidationInvalidEmail:  "Invalid email address format",
	ValidationInvalidDate:   "Invalid date format or range",

	// User errors
	UserNotFound:      "User not found",
	UserEmailTaken:    "Email already in use",
	UserUsernameTaken: "Username already in use",
	UserInvalidID:     "Invalid user ID format",

	// Account errors. Not-owned accounts report identically to absent ones.
	AccountNotFound:        "Account not found",
	AccountHasTransactions: "Account still has transactions referencing it",
	AccountInvalidID:       "Invalid account ID format",

	// Transaction errors
	TransactionNotFound:         "Transaction not found",
	TransactionInvalidAmount:    "Transaction amount must be positive and within bounds",
	TransactionInvalidType:      "Transaction type must be income, expense, or transfer",
	TransactionMissingAccount:   "Transaction account is required",
	TransactionMissingTarget:    "Transfer destination account is required",
	TransactionSelfTransfer:     "Cannot transfer to the same account",
	TransactionUnexpectedTarget: "Destination account is only valid for transfers",

	// Currency errors
	CurrencyRatesUnavailable: "Currency rates service unavailable",
	CurrencyNoSnapshot:       "No currency rates available",
	CurrencyRefreshFailed:    "Failed to refresh currency rates",

	// System errors
	SystemInternalError:     "An unexpected error occurred. Please contact support with trace ID",
	SystemDatabaseError:     "Database connection error",
	SystemRateLimitExceeded: "Rate limit exceeded. Please try again later",
}

// GetErrorMessage returns the default message for a given error code
// If the error code is not found, it returns a generic error message
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "An error occurred"
}

// IsValidErrorCode checks if the provided error code is a valid registered code
func IsValidErrorCode(code ErrorCode) bool {
	_, ok := errorMessages[code]
	return ok
}
