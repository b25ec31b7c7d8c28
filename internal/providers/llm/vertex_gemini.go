package llm

import (
	"context"
	"errors"

	vertexgenai "cloud.google.com/go/vertexai/genai"
)

// candidateSchema constrains the model to the candidate-extraction shape so
// the response parses directly in the common case. interview_priority is a
// closed enum.
var candidateSchema = &vertexgenai.Schema{
	Type: vertexgenai.TypeObject,
	Properties: map[string]*vertexgenai.Schema{
		"name":           {Type: vertexgenai.TypeString},
		"contact_number": {Type: vertexgenai.TypeString},
		"email":          {Type: vertexgenai.TypeString},
		"match_score":    {Type: vertexgenai.TypeNumber},
		"interview_priority": {
			Type: vertexgenai.TypeString,
			Enum: []string{"High", "Medium", "Low"},
		},
	},
	Required: []string{"name", "contact_number", "email", "match_score", "interview_priority"},
}

type VertexGemini struct {
	client *vertexgenai.Client
	model  *vertexgenai.GenerativeModel
}

func NewVertexGemini(ctx context.Context, projectID, location, modelName string) (*VertexGemini, error) {
	c, err := vertexgenai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	m := c.GenerativeModel(modelName)
	// Low temperature keeps scoring consistent between runs.
	m.SetTemperature(0.2)
	m.GenerationConfig.ResponseMIMEType = "application/json"
	m.GenerationConfig.ResponseSchema = candidateSchema

	return &VertexGemini{client: c, model: m}, nil
}

func (v *VertexGemini) Close() error { return v.client.Close() }

func (v *VertexGemini) GenerateContent(ctx context.Context, prompt string) (string, error) {
	resp, err := v.model.GenerateContent(ctx, vertexgenai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("no response candidates returned")
	}

	var out string
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(vertexgenai.Text); ok {
			out += string(t)
		}
	}
	return out, nil
}
