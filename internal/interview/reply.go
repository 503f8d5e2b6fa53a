package interview

import "encoding/json"

// StructuredReply is the contract between the model and the front end. The
// model is instructed to emit exactly this shape; when it does not, the raw
// text is wrapped in a fallback so the respondent still sees something.
type StructuredReply struct {
	Response string `json:"response"`

	// QuestionAsked is the slot number of the question the reply poses: 0 for
	// the warm-up, 1-3 for the scripted questions, null when the reply asks
	// nothing. The front end counts distinct slots to detect completion.
	QuestionAsked *int `json:"question_asked"`

	IsClarification bool `json:"is_clarification"`
}

// Welcome is the fixed reply that opens every interview.
func Welcome() StructuredReply {
	zero := 0
	return StructuredReply{Response: welcomeText, QuestionAsked: &zero}
}

// ParseReply decodes raw model output into a StructuredReply. The second
// return is false when the output is not the expected shape, in which case
// callers should fall back to FallbackReply.
func ParseReply(raw string) (StructuredReply, bool) {
	var r StructuredReply
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return StructuredReply{}, false
	}
	if r.Response == "" {
		return StructuredReply{}, false
	}
	if r.QuestionAsked != nil && (*r.QuestionAsked < 0 || *r.QuestionAsked > 3) {
		return StructuredReply{}, false
	}
	return r, true
}

// FallbackReply wraps non-conforming model output (or an error message) so
// the front end always receives the structured shape.
func FallbackReply(raw string) StructuredReply {
	return StructuredReply{Response: raw, QuestionAsked: nil, IsClarification: false}
}
