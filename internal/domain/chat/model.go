package chat

import "time"

// Fixed replies for every outcome that does not come from the model.
const (
	ReplyEmptyMessage     = "Please enter a message."
	ReplyNoFormula        = "Sorry, I couldn't find a relevant formula for your question."
	ReplyComputeFailed    = "Sorry, I couldn't compute a result from your message."
	ReplyCompletionFailed = "Sorry, something went wrong while generating a response. Please try again later."
)

// Outcome labels how a reply was produced.
type Outcome string

const (
	OutcomeEmptyMessage     Outcome = "empty_message"
	OutcomeNoFormula        Outcome = "no_formula"
	OutcomeComputeFailed    Outcome = "compute_failed"
	OutcomeCompletionFailed Outcome = "completion_failed"
	OutcomeAnswered         Outcome = "answered"
	OutcomeCached           Outcome = "cached"
)

// Request is the body accepted by POST /chat.
type Request struct {
	Message string `json:"message"`
}

// Response is returned to the HTTP transport. Only Response is serialized.
type Response struct {
	Response string `json:"response"`

	Outcome Outcome  `json:"-"`
	EntryID string   `json:"-"`
	Result  *float64 `json:"-"`
}

// CachedReply is a completion kept by the reply cache.
type CachedReply struct {
	Key       string    `json:"key"`
	EntryID   string    `json:"entryId"`
	Result    float64   `json:"result"`
	Reply     string    `json:"reply"`
	CreatedAt time.Time `json:"createdAt"`
}
