package answer

import (
	"context"
	"encoding/json"
	"time"
)

// Turn is one transcript entry in the wire format the answer-generation
// endpoint expects.
type Turn struct {
	Content   string    `json:"content"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// AnswerProvider adapts a user message plus context into a call against
// the external answer-generation endpoint. history is the full ordered
// transcript up to and including the just-sent user message; document is
// the opaque processed-document payload, or nil when no document was
// ever uploaded. The call is still made and the endpoint still answers.
type AnswerProvider interface {
	GetAnswer(ctx context.Context, message string, history []Turn, document json.RawMessage) (string, error)
}

// QueryError reports a failed answer-generation call: transport failure,
// a non-success status, or an unparseable response.
type QueryError struct {
	Message string
	Err     error
}

func (e *QueryError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
