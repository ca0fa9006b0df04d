package apiclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
)

const noAnswer = "Brak odpowiedzi."

type assistantRequest struct {
	Message string `json:"message"`
}

type assistantResponse struct {
	Answer string `json:"answer"`
}

// Ask relays a message to the assistant agent and returns its answer.
func (c *Client) Ask(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}
	if c.AgentURL == "" {
		return "", ErrNoAgent
	}

	var response assistantResponse
	if err := c.doJSON(ctx, http.MethodPost, c.AgentURL, assistantRequest{Message: message}, &response); err != nil {
		if !isEmptyBody(err) {
			return "", err
		}
	}

	answer := strings.TrimSpace(response.Answer)
	if answer == "" {
		return noAnswer, nil
	}

	return answer, nil
}

func isEmptyBody(err error) bool {
	return errors.Is(err, io.EOF)
}
