package suggest

import (
	"context"
	"fmt"

	"github.com/fabricio2fb/reviewlar/pkg/httpclient"
)

type flowRequest struct {
	ReviewText string `json:"reviewText"`
}

// HTTP calls a remote suggestion flow that takes {reviewText} and answers
// {pros, cons}.
type HTTP struct {
	client *httpclient.Client
	url    string
}

// NewHTTP creates an HTTP backend posting to url.
func NewHTTP(client *httpclient.Client, url string) *HTTP {
	return &HTTP{client: client, url: url}
}

// Suggest implements Backend.
func (h *HTTP) Suggest(ctx context.Context, text string) (Suggestions, error) {
	var out Suggestions
	if err := h.client.PostJSON(ctx, h.url, flowRequest{ReviewText: text}, &out); err != nil {
		return Suggestions{}, fmt.Errorf("suggestion flow: %w", err)
	}
	return out, nil
}
