// Package domain defines the core types of the interview service.
package domain

// Turn roles. These are the only values the transcript carries.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single entry in an interview transcript. Immutable once appended.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// IsSystem reports whether the turn carries instructions or identifier markers
// rather than conversation content.
func (t Turn) IsSystem() bool { return t.Role == RoleSystem }

// Session is an ordered transcript keyed by an opaque, caller-supplied session
// key. Ordering is the sole source of conversational context for the next
// completion call.
type Session struct {
	Key   string `json:"-"`
	Turns []Turn `json:"turns"`
}

// TurnCount returns the number of non-system turns in the session.
func (s Session) TurnCount() int {
	n := 0
	for _, t := range s.Turns {
		if !t.IsSystem() {
			n++
		}
	}
	return n
}
