package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Is0meone/TransitTracker/pkg/tracker"
)

type voteRequest struct {
	Action tracker.VoteAction `json:"action"`
}

func (c *Client) Vote(ctx context.Context, reportID int64, action tracker.VoteAction) error {
	if !action.Valid() {
		return tracker.ErrInvalidVoteAction
	}

	return c.doJSON(ctx, http.MethodPost, c.url(fmt.Sprintf("/reports/%d/vote", reportID)), voteRequest{Action: action}, nil)
}
