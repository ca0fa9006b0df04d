package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Is0meone/TransitTracker/pkg/tracker"
)

func (c *Client) User(ctx context.Context, id int64) (*tracker.User, error) {
	var user tracker.User
	if err := c.doJSON(ctx, http.MethodGet, c.url(fmt.Sprintf("/users/%d", id)), nil, &user); err != nil {
		return nil, err
	}

	return &user, nil
}
