package interview

import (
	"context"
	"strings"

	"github.com/candidlab/interviewd/internal/domain"
	"github.com/candidlab/interviewd/internal/llm"
)

const (
	scoringMaxTokens   = 1000
	scoringTemperature = 0.1
)

// ScoringResult is the grandiose narcissism assessment: an overall score,
// eleven subfacet scores on the same 1-5 scale, and a brief rationale.
type ScoringResult struct {
	OverallScore       int    `json:"overall_score" jsonschema:"minimum=1,maximum=5"`
	Indifference       int    `json:"indifference" jsonschema:"minimum=1,maximum=5"`
	Exhibitionism      int    `json:"exhibitionism" jsonschema:"minimum=1,maximum=5"`
	Authoritativeness  int    `json:"authoritativeness" jsonschema:"minimum=1,maximum=5"`
	GrandioseFantasies int    `json:"grandiose_fantasies" jsonschema:"minimum=1,maximum=5"`
	Manipulativeness   int    `json:"manipulativeness" jsonschema:"minimum=1,maximum=5"`
	Exploitativeness   int    `json:"exploitativeness" jsonschema:"minimum=1,maximum=5"`
	Entitlement        int    `json:"entitlement" jsonschema:"minimum=1,maximum=5"`
	LackOfEmpathy      int    `json:"lack_of_empathy" jsonschema:"minimum=1,maximum=5"`
	Arrogance          int    `json:"arrogance" jsonschema:"minimum=1,maximum=5"`
	AcclaimSeeking     int    `json:"acclaim_seeking" jsonschema:"minimum=1,maximum=5"`
	ThrillSeeking      int    `json:"thrill_seeking" jsonschema:"minimum=1,maximum=5"`
	Explanation        string `json:"explanation"`
}

var scoringSchema = llm.GenerateSchema[ScoringResult]()

// Score evaluates a session's transcript for grandiose narcissism. The raw
// model output is returned as-is; completion failures come back as an
// "Error: ..." string with a nil error, matching the chat path's convention
// of reporting API trouble inside the payload.
func (c *Conductor) Score(ctx context.Context, key string) (string, error) {
	sess, ok := c.store.Get(key)
	if !ok {
		return "", ErrSessionNotFound
	}

	transcript := RenderTranscript(sess)
	temp := scoringTemperature
	raw := c.complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: scoringPrompt},
			{Role: llm.RoleUser, Content: "Please evaluate the following interview transcript for grandiose narcissism:\n\n" + transcript},
		},
		MaxTokens:   scoringMaxTokens,
		Temperature: &temp,
		SchemaName:  "narcissism_assessment",
		Schema:      scoringSchema,
	})

	c.log.Info().Str("session", key).Msg("interview scored")
	return raw, nil
}

// RenderTranscript flattens a transcript for the evaluator: system turns are
// dropped, assistant turns become "Interviewer:" lines and user turns
// "Candidate:" lines, separated by blank lines.
func RenderTranscript(s domain.Session) string {
	var b strings.Builder
	for _, t := range s.Turns {
		if t.IsSystem() {
			continue
		}
		speaker := "Candidate"
		if t.Role == domain.RoleAssistant {
			speaker = "Interviewer"
		}
		b.WriteString(speaker)
		b.WriteString(": ")
		b.WriteString(t.Content)
		b.WriteString("\n\n")
	}
	return b.String()
}
