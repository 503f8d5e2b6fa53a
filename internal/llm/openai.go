package llm

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

// OpenAIClient calls the OpenAI Responses API.
type OpenAIClient struct {
	client openai.Client
	model  string
	hasKey bool
}

// NewOpenAIClient creates an OpenAI-backed completion client. An empty apiKey
// is accepted so the service can start in a degraded state; Complete then
// fails with ErrNoCredential per request.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
		hasKey: apiKey != "",
	}
}

// Name returns the provider name.
func (c *OpenAIClient) Name() string { return "openai" }

// Complete submits the transcript and returns the raw output text.
func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if !c.hasKey {
		return "", ErrNoCredential
	}

	input := make([]responses.ResponseInputItemUnionParam, 0, len(req.Messages))
	for _, m := range req.Messages {
		input = append(input, responses.ResponseInputItemParamOfMessage(m.Content, roleToOpenAI(m.Role)))
	}

	params := responses.ResponseNewParams{
		Model: c.model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: input,
		},
	}
	if req.MaxTokens > 0 {
		params.MaxOutputTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}
	if req.Schema != nil {
		params.Text = responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:   req.SchemaName,
					Schema: req.Schema,
					Strict: openai.Bool(true),
					Type:   "json_schema",
				},
			},
		}
	}

	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		return "", classifyError(err)
	}
	return resp.OutputText(), nil
}

// classifyError maps an SDK error onto the auth/transport taxonomy.
func classifyError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		kind := KindTransport
		if apiErr.StatusCode == 401 || apiErr.StatusCode == 403 {
			kind = KindAuth
		}
		return &APIError{Kind: kind, Status: apiErr.StatusCode, Message: apiErr.Error()}
	}
	return &APIError{Kind: KindTransport, Message: err.Error()}
}

func roleToOpenAI(role string) responses.EasyInputMessageRole {
	switch role {
	case RoleSystem:
		return responses.EasyInputMessageRoleSystem
	case RoleAssistant:
		return responses.EasyInputMessageRoleAssistant
	default:
		return responses.EasyInputMessageRoleUser
	}
}
