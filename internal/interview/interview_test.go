package interview

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/candidlab/interviewd/internal/domain"
	"github.com/candidlab/interviewd/internal/identity"
	"github.com/candidlab/interviewd/internal/llm"
	"github.com/candidlab/interviewd/internal/logging"
	"github.com/candidlab/interviewd/internal/store"
)

func testConductor(t *testing.T, client llm.Client) (*Conductor, *store.FileStore) {
	t.Helper()
	log := logging.New(os.Stderr, "error")
	st := store.OpenFileStore(filepath.Join(t.TempDir(), "conversations.json"), SystemTurn(), log)
	if client == nil {
		client = &llm.MockClient{ProviderName: "mock"}
	}
	return NewConductor(st, client, log), st
}

func TestStartSeedsSessionOnce(t *testing.T) {
	c, st := testConductor(t, nil)

	reply := c.Start("alice")
	assert.Equal(t, "Welcome to your interview! I'm excited to have this conversation with you today. How are you doing today?", reply.Response)
	require.NotNil(t, reply.QuestionAsked)
	assert.Equal(t, 0, *reply.QuestionAsked)
	assert.False(t, reply.IsClarification)

	sess, ok := st.Get("alice")
	require.True(t, ok)
	// system prompt + two identifier markers + welcome
	require.Len(t, sess.Turns, 4)
	assert.True(t, strings.HasPrefix(sess.Turns[1].Content, "UNIQUE_ID: "))
	assert.True(t, strings.HasPrefix(sess.Turns[2].Content, "READABLE_ID: "))
	assert.Equal(t, domain.RoleAssistant, sess.Turns[3].Role)

	// The welcome turn is stored as the JSON the front end received.
	var stored StructuredReply
	require.NoError(t, json.Unmarshal([]byte(sess.Turns[3].Content), &stored))
	assert.Equal(t, reply.Response, stored.Response)

	first, _ := ReadableID(sess)

	// Restarting must not reassign identifiers, but does append a new welcome.
	c.Start("alice")
	sess, _ = st.Get("alice")
	require.Len(t, sess.Turns, 5)
	again, _ := ReadableID(sess)
	assert.Equal(t, first, again)
}

func TestAdvanceStructuredReply(t *testing.T) {
	one := 1
	replyJSON, err := json.Marshal(StructuredReply{
		Response:      "Great to hear! Do you consider yourself a natural born leader?",
		QuestionAsked: &one,
	})
	require.NoError(t, err)

	mock := &llm.MockClient{
		ProviderName: "mock",
		CompleteFunc: func(ctx context.Context, req llm.CompletionRequest) (string, error) {
			return string(replyJSON), nil
		},
	}
	c, st := testConductor(t, mock)
	c.Start("alice")

	reply := c.Advance(context.Background(), "alice", "I'm doing well, thanks!")
	require.NotNil(t, reply.QuestionAsked)
	assert.Equal(t, 1, *reply.QuestionAsked)
	assert.False(t, reply.IsClarification)

	// Transcript grew by the user turn and the raw assistant turn.
	sess, _ := st.Get("alice")
	require.Len(t, sess.Turns, 6)
	assert.Equal(t, "I'm doing well, thanks!", sess.Turns[4].Content)
	assert.Equal(t, string(replyJSON), sess.Turns[5].Content)

	// The completion request carried the full transcript including the user turn.
	require.Len(t, mock.Requests, 1)
	msgs := mock.Requests[0].Messages
	assert.Equal(t, llm.RoleSystem, msgs[0].Role)
	assert.Equal(t, "I'm doing well, thanks!", msgs[len(msgs)-1].Content)
	assert.Equal(t, 500, mock.Requests[0].MaxTokens)
}

func TestAdvanceFallbackOnPlainText(t *testing.T) {
	mock := &llm.MockClient{
		ProviderName: "mock",
		CompleteFunc: func(ctx context.Context, req llm.CompletionRequest) (string, error) {
			return "hello there", nil
		},
	}
	c, _ := testConductor(t, mock)
	c.Start("alice")

	reply := c.Advance(context.Background(), "alice", "hi")
	assert.Equal(t, "hello there", reply.Response)
	assert.Nil(t, reply.QuestionAsked)
	assert.False(t, reply.IsClarification)
}

func TestAdvanceNoCredential(t *testing.T) {
	mock := &llm.MockClient{
		ProviderName: "mock",
		CompleteFunc: func(ctx context.Context, req llm.CompletionRequest) (string, error) {
			return "", llm.ErrNoCredential
		},
	}
	c, st := testConductor(t, mock)
	c.Start("alice")

	reply := c.Advance(context.Background(), "alice", "hi")
	assert.True(t, strings.HasPrefix(reply.Response, "Error: OpenAI API key not configured"))
	assert.Nil(t, reply.QuestionAsked)

	// The error reply is recorded in the transcript like any other turn.
	sess, _ := st.Get("alice")
	last := sess.Turns[len(sess.Turns)-1]
	assert.Equal(t, domain.RoleAssistant, last.Role)
	assert.True(t, strings.HasPrefix(last.Content, "Error:"))
}

func TestAdvanceWithoutStartCreatesMarkerlessSession(t *testing.T) {
	mock := &llm.MockClient{
		ProviderName: "mock",
		CompleteFunc: func(ctx context.Context, req llm.CompletionRequest) (string, error) {
			return "ok", nil
		},
	}
	c, st := testConductor(t, mock)

	c.Advance(context.Background(), "drifter", "hello?")

	sess, ok := st.Get("drifter")
	require.True(t, ok)
	_, found := ReadableID(sess)
	assert.False(t, found)

	_, err := c.UniqueID("drifter")
	assert.ErrorIs(t, err, ErrIdentifierNotFound)
}

func TestUniqueID(t *testing.T) {
	c, st := testConductor(t, nil)
	c.Start("alice")

	id, err := c.UniqueID("alice")
	require.NoError(t, err)
	sess, _ := st.Get("alice")
	want, _ := ReadableID(sess)
	assert.Equal(t, want, id)

	_, err = c.UniqueID("nobody")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestIdentifierTurnsRoundTrip(t *testing.T) {
	id := identity.Generate()
	sess := domain.Session{Turns: append([]domain.Turn{SystemTurn()}, IdentifierTurns(id)...)}

	internal, ok := InternalID(sess)
	require.True(t, ok)
	assert.Equal(t, id.InternalID, internal)

	readable, ok := ReadableID(sess)
	require.True(t, ok)
	assert.Equal(t, id.ReadableID, readable)
}

func TestParseReply(t *testing.T) {
	two := 2
	tests := []struct {
		name string
		raw  string
		want StructuredReply
		ok   bool
	}{
		{
			name: "valid with question",
			raw:  `{"response":"Next question.","question_asked":2,"is_clarification":false}`,
			want: StructuredReply{Response: "Next question.", QuestionAsked: &two},
			ok:   true,
		},
		{
			name: "valid null question",
			raw:  `{"response":"Thanks for sharing.","question_asked":null,"is_clarification":false}`,
			want: StructuredReply{Response: "Thanks for sharing."},
			ok:   true,
		},
		{
			name: "clarification",
			raw:  `{"response":"As I said.","question_asked":2,"is_clarification":true}`,
			want: StructuredReply{Response: "As I said.", QuestionAsked: &two, IsClarification: true},
			ok:   true,
		},
		{name: "plain text", raw: "hello", ok: false},
		{name: "empty response", raw: `{"response":"","question_asked":1}`, ok: false},
		{name: "question out of range", raw: `{"response":"hm","question_asked":7}`, ok: false},
		{name: "negative question", raw: `{"response":"hm","question_asked":-1}`, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseReply(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want.Response, got.Response)
				assert.Equal(t, tt.want.IsClarification, got.IsClarification)
				if tt.want.QuestionAsked == nil {
					assert.Nil(t, got.QuestionAsked)
				} else {
					require.NotNil(t, got.QuestionAsked)
					assert.Equal(t, *tt.want.QuestionAsked, *got.QuestionAsked)
				}
			}
		})
	}
}

func TestRenderTranscript(t *testing.T) {
	sess := domain.Session{Turns: []domain.Turn{
		SystemTurn(),
		{Role: domain.RoleSystem, Content: "UNIQUE_ID: x"},
		{Role: domain.RoleAssistant, Content: "How are you today?"},
		{Role: domain.RoleUser, Content: "Fantastic, as always."},
	}}

	got := RenderTranscript(sess)
	assert.Equal(t, "Interviewer: How are you today?\n\nCandidate: Fantastic, as always.\n\n", got)
	assert.NotContains(t, got, "UNIQUE_ID")
}

func TestScore(t *testing.T) {
	mock := &llm.MockClient{
		ProviderName: "mock",
		CompleteFunc: func(ctx context.Context, req llm.CompletionRequest) (string, error) {
			return `{"overall_score":3,"explanation":"moderate"}`, nil
		},
	}
	c, _ := testConductor(t, mock)
	c.Start("alice")

	raw, err := c.Score(context.Background(), "alice")
	require.NoError(t, err)
	assert.Contains(t, raw, `"overall_score":3`)

	require.Len(t, mock.Requests, 1)
	req := mock.Requests[0]
	assert.Equal(t, 1000, req.MaxTokens)
	require.NotNil(t, req.Temperature)
	assert.InDelta(t, 0.1, *req.Temperature, 1e-9)
	assert.Equal(t, "narcissism_assessment", req.SchemaName)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, llm.RoleSystem, req.Messages[0].Role)
	assert.Contains(t, req.Messages[1].Content, "Please evaluate the following interview transcript")

	// Identifier markers never reach the evaluator.
	assert.NotContains(t, req.Messages[1].Content, "UNIQUE_ID")
}

func TestScoreUnknownSession(t *testing.T) {
	c, _ := testConductor(t, nil)
	_, err := c.Score(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestExportMapping(t *testing.T) {
	mock := &llm.MockClient{
		ProviderName: "mock",
		CompleteFunc: func(ctx context.Context, req llm.CompletionRequest) (string, error) {
			return "ok", nil
		},
	}
	c, st := testConductor(t, mock)

	c.Start("alice")
	c.Advance(context.Background(), "alice", "hello")

	// A session without identifier markers must be excluded.
	c.Advance(context.Background(), "drifter", "hi")

	// So must a session carrying only one of the two markers.
	st.GetOrCreate("half")
	st.Append("half", domain.Turn{Role: domain.RoleSystem, Content: "UNIQUE_ID: 20260825143007-a1b2c3d4"})

	mapping := c.ExportMapping()
	require.Len(t, mapping, 1)

	sess, _ := st.Get("alice")
	readable, _ := ReadableID(sess)
	internal, _ := InternalID(sess)

	entry, ok := mapping[readable]
	require.True(t, ok)
	assert.Equal(t, internal, entry.InternalID)
	assert.Equal(t, "alice", entry.SessionKey)
	// welcome + user + assistant reply
	assert.Equal(t, 3, entry.TurnCount)
}

func TestScoringSchemaIsStrict(t *testing.T) {
	assert.Equal(t, "object", scoringSchema["type"])
	assert.Equal(t, false, scoringSchema["additionalProperties"])

	props, ok := scoringSchema["properties"].(map[string]any)
	require.True(t, ok)
	for _, field := range []string{"overall_score", "lack_of_empathy", "acclaim_seeking", "explanation"} {
		assert.Contains(t, props, field)
	}
	required, ok := scoringSchema["required"].([]string)
	require.True(t, ok)
	assert.Len(t, required, 13)
}
