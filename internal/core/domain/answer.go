package domain

// Answer pairs one question with the answer produced for it.
// Answers are correlated to questions by position, never by completion
// order, because retries can reorder completion.
type Answer struct {
	// Question is the original question text.
	Question string `json:"question"`

	// Answer is the answer text. On failure this is a human-readable
	// error string, never a raw internal error.
	Answer string `json:"answer"`
}

// User-visible answer text for failure classes.
const (
	// AnswerNotAvailable pads missing answers in a short batch response.
	AnswerNotAvailable = "Information not available in the document"

	// AnswerRateLimited is returned when retries were exhausted on
	// upstream quota errors.
	AnswerRateLimited = "Rate limit exceeded. Please try again in a few minutes."
)

// RawDocument is the undecoded result of fetching a document reference.
type RawDocument struct {
	// URI is the original document reference.
	URI string

	// MIMEType is the declared content type, from the response header
	// or the reference's extension.
	MIMEType string

	// Content is the raw document bytes.
	Content []byte
}
