package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/prdstore/internal/core/domain"
	"github.com/custodia-labs/prdstore/internal/core/ports/driving"
)

const (
	defaultPreviewLength = 500
	truncatedMarker      = "\n\n... (truncated)"

	storeConsequence = "This will save the PRD to Cloud Storage and make it searchable for future use."
	awaitingMessage  = "Awaiting user confirmation to store PRD"
)

// GatedStoreTool is store_prd routed through the confirmation gate.
//
// The first call returns a pending outcome carrying a confirmation token and
// writes nothing. Resubmitting the same arguments with the token and
// confirmed=true stores the document once; later resubmissions replay the
// recorded result.
type GatedStoreTool struct {
	Documents     driving.DocumentService
	Gate          driving.ConfirmationGate
	PreviewLength int
}

// ConfirmationOutput is the result of a gated call that did not store a document now.
type ConfirmationOutput struct {
	Status            domain.OutcomeStatus `json:"status"`
	Message           string               `json:"message"`
	ConfirmationToken string               `json:"confirmation_token"`
	Hint              string               `json:"hint,omitempty"`
	Result            json.RawMessage      `json:"result,omitempty"`
}

// Definition implements Tool.
func (t *GatedStoreTool) Definition() domain.ToolDefinition {
	props := storeProperties()
	props["confirmation_token"] = domain.SchemaProperty{
		Type:        "string",
		Description: "Token returned by the first call; resubmit it with the same arguments",
	}
	props["confirmed"] = domain.SchemaProperty{
		Type:        "boolean",
		Description: "The user's decision for the confirmation token",
	}
	return domain.ToolDefinition{
		Name:        StoreToolName,
		Description: "Store a new PRD to Cloud Storage. Requires user confirmation before saving.",
		InputSchema: domain.InputSchema{
			Type:       "object",
			Properties: props,
			Required:   []string{"product_name", "content"},
		},
	}
}

// Call implements Tool.
func (t *GatedStoreTool) Call(ctx context.Context, args Arguments) (any, error) {
	name := args.String("product_name")
	content := args.String("content")

	req := domain.ConfirmationRequest{
		Tool:      StoreToolName,
		Token:     args.String("confirmation_token"),
		Confirmed: args.Bool("confirmed"),
		Arguments: map[string]any{
			"product_name": name,
			"content":      content,
			"metadata":     args.Map("metadata"),
		},
		Target:      name,
		Preview:     Preview(content, t.previewLength()),
		Consequence: storeConsequence,
	}

	outcome, err := t.Gate.Submit(ctx, req, func(ctx context.Context) (any, error) {
		return store(ctx, t.Documents, args)
	})
	if err != nil {
		return nil, err
	}

	token := outcome.Confirmation.Token
	switch outcome.Status {
	case domain.OutcomeApplied:
		return outcome.Result, nil
	case domain.OutcomeReplayed:
		return ConfirmationOutput{
			Status:            outcome.Status,
			Message:           "PRD already stored for this confirmation",
			ConfirmationToken: token,
			Result:            outcome.Result,
		}, nil
	case domain.OutcomeRejected:
		return ConfirmationOutput{
			Status:            outcome.Status,
			Message:           fmt.Sprintf("PRD not stored: confirmation %s", outcome.Confirmation.State),
			ConfirmationToken: token,
		}, nil
	default:
		c := outcome.Confirmation
		return ConfirmationOutput{
			Status:            outcome.Status,
			Message:           awaitingMessage,
			ConfirmationToken: token,
			Hint:              Hint(c.Target, c.Preview, c.Consequence),
		}, nil
	}
}

func (t *GatedStoreTool) previewLength() int {
	if t.PreviewLength <= 0 {
		return defaultPreviewLength
	}
	return t.PreviewLength
}

// Preview returns the first n characters of content, marked when truncated.
func Preview(content string, n int) string {
	r := []rune(content)
	if len(r) <= n {
		return content
	}
	return string(r[:n]) + truncatedMarker
}

// Hint is the human-facing confirmation prompt.
func Hint(target, preview, consequence string) string {
	return fmt.Sprintf("Please review the PRD for '%s' and approve saving it to storage.\n\nPRD Preview:\n%s\n\n%s",
		target, preview, consequence)
}
