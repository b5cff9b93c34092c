package models

// MaxDiffSize is the largest diff ever sent for classification (5 MiB).
// Larger diffs are dropped, never truncated.
const MaxDiffSize = 5 * 1024 * 1024

// DiffPayload is the working-tree diff of a single file.
type DiffPayload struct {
	DiffText  string
	SizeBytes int
}

func NewDiffPayload(diff string) DiffPayload {
	return DiffPayload{DiffText: diff, SizeBytes: len(diff)}
}

// Empty reports whether there is nothing to send.
func (p DiffPayload) Empty() bool {
	return p.SizeBytes == 0 || p.SizeBytes > MaxDiffSize
}

// AnalysisRequest is the classifier request body.
type AnalysisRequest struct {
	Diff string `json:"diff"`
}

// AnalysisResult is the classifier response body.
type AnalysisResult struct {
	Intent string `json:"intent"`
}

// InterpretedIntent is the classifier verdict split into a category and a detail line.
// Category is never empty.
type InterpretedIntent struct {
	Category string
	Detail   string
	Raw      string
}

// Display renders the intent for notification surfaces.
func (i InterpretedIntent) Display() string {
	if i.Detail != "" {
		return i.Category + ": " + i.Detail
	}
	return "Intent: " + i.Raw
}
