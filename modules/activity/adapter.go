package activity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// ListRequest is the request for the list-activity service.
type ListRequest struct {
	Limit int `json:"limit,omitempty"`
}

// ListResponse is the response from the list-activity service.
type ListResponse struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
}

// ActivityPort defines the activity operations other modules use.
type ActivityPort interface {
	List(ctx context.Context, limit int) ([]Entry, error)
}

// Compile-time interface check.
var _ ActivityPort = (*ActivityAdapter)(nil)

// ActivityAdapter implements ActivityPort using the service container.
type ActivityAdapter struct {
	container mono.ServiceContainer
}

// NewActivityAdapter creates a new ActivityAdapter.
func NewActivityAdapter(container mono.ServiceContainer) *ActivityAdapter {
	return &ActivityAdapter{
		container: container,
	}
}

// List returns the newest entries, at most limit of them.
func (a *ActivityAdapter) List(ctx context.Context, limit int) ([]Entry, error) {
	req := ListRequest{Limit: limit}
	var resp ListResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"list-activity",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("list-activity request failed: %w", err)
	}

	return resp.Entries, nil
}
