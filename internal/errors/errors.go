package errors

import "fmt"

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeConfiguration ErrorType = "CONFIGURATION"
	TypeGit           ErrorType = "GIT"
	TypeAPI           ErrorType = "API"
	TypeInternal      ErrorType = "INTERNAL"
)

// AppError represents a domain-level error with a type and an underlying error
type AppError struct {
	Type       ErrorType
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	var msg string
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Type, e.Message)
	}

	if e.Context != nil {
		if code, ok := e.Context["exit_code"].(int); ok {
			msg += fmt.Sprintf(" [exit code %d]", code)
		}
		if status, ok := e.Context["status"].(int); ok {
			msg += fmt.Sprintf(" [status %d]", status)
		}
		if stderr, ok := e.Context["stderr"].(string); ok && stderr != "" {
			msg += fmt.Sprintf(" - %s", stderr)
		}
		if body, ok := e.Context["body"].(string); ok && body != "" {
			msg += fmt.Sprintf(" - %s", body)
		}
	}

	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError of the same kind. Copies made with
// WithError/WithContext/WithSuggestion still match the sentinel they came from.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        err,
		Suggestion: e.Suggestion,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{})
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    ctx,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: suggestion,
	}
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

// Git errors
var (
	ErrGitTimeout = NewAppError(TypeGit, "Git command timed out", nil).
			WithSuggestion("Check for a stale lock (.git/index.lock) or a very large working tree")

	ErrGitCommand = NewAppError(TypeGit, "Git command failed", nil).
			WithSuggestion("Make sure git is installed and on your PATH: git --version")

	ErrGetRepoRoot = NewAppError(TypeGit, "Failed to get repository root", nil).
			WithSuggestion("Make sure the file is inside a git repository")

	ErrGetDiff = NewAppError(TypeGit, "Failed to get diff", nil).
			WithSuggestion("Check that the repository has at least one commit: git log")
)

// Classifier API errors
var (
	ErrAPITimeout = NewAppError(TypeAPI, "Request to the intent API timed out", nil).
			WithSuggestion("Increase the timeout: commitintent config set timeout_ms 60000")

	ErrAPIConnection = NewAppError(TypeAPI, "Cannot reach the intent API", nil).
				WithSuggestion("Check that the server is running and the URL is correct: commitintent config show")

	ErrAPIStatus = NewAppError(TypeAPI, "Intent API returned an error status", nil)

	ErrMalformedResponse = NewAppError(TypeAPI, "Invalid response format: expected { intent: string }", nil).
				WithSuggestion("Verify api_url points at the commit analysis endpoint")

	ErrEmptyIntent = NewAppError(TypeAPI, "API returned empty intent", nil)
)

// Configuration errors
var (
	ErrInvalidConfig = NewAppError(TypeConfiguration, "Invalid configuration", nil).
				WithSuggestion("Review your settings with: commitintent config show")

	ErrUnknownConfigKey = NewAppError(TypeConfiguration, "Unknown configuration key", nil).
				WithSuggestion("Valid keys: enabled, api_url, timeout_ms, allow_insecure_ssl, debounce_delay_ms, show_status_bar, language, cache_ttl_minutes")
)

var (
	ErrInternal = NewAppError(TypeInternal, "Unexpected internal error", nil)
)
