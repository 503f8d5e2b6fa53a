// Package interview implements the scripted interview conversation: the
// prompts, the structured reply contract, scoring, and identifier export.
package interview

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/candidlab/interviewd/internal/domain"
	"github.com/candidlab/interviewd/internal/identity"
	"github.com/candidlab/interviewd/internal/llm"
	"github.com/candidlab/interviewd/internal/logging"
	"github.com/candidlab/interviewd/internal/store"
)

const chatMaxTokens = 500

// ErrSessionNotFound is returned for operations on a session key that has
// never started an interview.
var ErrSessionNotFound = errors.New("interview: session not found")

// ErrIdentifierNotFound is returned when a session exists but carries no
// readable identifier marker. Sessions created through the chat path without
// a formal start are in this state.
var ErrIdentifierNotFound = errors.New("interview: identifier not found")

// TurnObserver receives every turn as it is appended to a transcript.
// Implementations must not block; the conductor calls them inline.
type TurnObserver interface {
	TurnAppended(sessionKey string, turn domain.Turn)
}

// Conductor drives interviews: it owns the transcript lifecycle and mediates
// between the session store and the completion API.
type Conductor struct {
	store    store.SessionStore
	client   llm.Client
	observer TurnObserver
	log      *logging.Logger
}

// NewConductor creates a conductor over the given store and completion client.
func NewConductor(st store.SessionStore, client llm.Client, log *logging.Logger) *Conductor {
	return &Conductor{store: st, client: client, log: log.Sub("interview")}
}

// Observe registers an observer for appended turns. Call before serving.
func (c *Conductor) Observe(o TurnObserver) { c.observer = o }

// Start begins an interview for the given session key. On first start the
// session is seeded with the interviewer instructions and a freshly generated
// identifier pair; restarting an existing session never reassigns identifiers.
// The fixed welcome reply is recorded as an assistant turn and returned.
func (c *Conductor) Start(key string) StructuredReply {
	_, created := c.store.GetOrCreate(key)
	if created {
		id := identity.Generate()
		for _, t := range IdentifierTurns(id) {
			c.append(key, t)
		}
		c.log.Info().Str("session", key).Str("readableId", id.ReadableID).Msg("interview started")
	} else {
		c.log.Debug().Str("session", key).Msg("interview restarted")
	}

	welcome := Welcome()
	encoded, err := json.Marshal(welcome)
	if err != nil {
		// Welcome is a fixed value; this cannot happen in practice.
		c.log.Error().Err(err).Msg("failed to encode welcome reply")
		return welcome
	}
	c.append(key, domain.Turn{Role: domain.RoleAssistant, Content: string(encoded)})
	return welcome
}

// Advance records the respondent's message, asks the completion API for the
// next interviewer reply, and records that too. Completion failures surface
// as an "Error: ..." reply rather than an HTTP failure, so the transcript
// keeps a record of the attempt and the front end can show the message.
func (c *Conductor) Advance(ctx context.Context, key, message string) StructuredReply {
	sess, created := c.store.GetOrCreate(key)
	if created {
		// Chat without a formal start still gets a working conversation, just
		// no identifier markers.
		c.log.Warn().Str("session", key).Msg("chat on unstarted session")
	}

	userTurn := domain.Turn{Role: domain.RoleUser, Content: message}
	c.append(key, userTurn)
	sess.Turns = append(sess.Turns, userTurn)

	raw := c.complete(ctx, llm.CompletionRequest{
		Messages:  toMessages(sess.Turns),
		MaxTokens: chatMaxTokens,
	})
	c.append(key, domain.Turn{Role: domain.RoleAssistant, Content: raw})

	reply, ok := ParseReply(raw)
	if !ok {
		c.log.Warn().Str("session", key).Msg("model reply was not valid structured output")
		return FallbackReply(raw)
	}
	return reply
}

// complete wraps the completion call, translating failures into the textual
// error form the transcript and front end expect.
func (c *Conductor) complete(ctx context.Context, req llm.CompletionRequest) string {
	raw, err := c.client.Complete(ctx, req)
	if err == nil {
		return raw
	}
	c.log.Error().Err(err).Str("provider", c.client.Name()).Msg("completion failed")
	if errors.Is(err, llm.ErrNoCredential) {
		return "Error: OpenAI API key not configured. Please set OPENAI_API_KEY."
	}
	return "Error: " + err.Error()
}

// UniqueID returns the respondent-facing readable code for a session.
func (c *Conductor) UniqueID(key string) (string, error) {
	sess, ok := c.store.Get(key)
	if !ok {
		return "", ErrSessionNotFound
	}
	id, ok := ReadableID(sess)
	if !ok {
		return "", ErrIdentifierNotFound
	}
	return id, nil
}

func (c *Conductor) append(key string, turn domain.Turn) {
	c.store.Append(key, turn)
	if c.observer != nil {
		c.observer.TurnAppended(key, turn)
	}
}

func toMessages(turns []domain.Turn) []llm.Message {
	out := make([]llm.Message, len(turns))
	for i, t := range turns {
		out[i] = llm.Message{Role: t.Role, Content: t.Content}
	}
	return out
}
