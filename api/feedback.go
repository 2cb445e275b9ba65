package api

import (
	"context"
	"net/http"

	"library-client/library"
)

type feedbackUpdate struct {
	Feedback string `json:"feedback"`
}

func (c *Client) CreateFeedback(ctx context.Context, fb library.Feedback) (library.MessageResponse, error) {
	const op = "CreateFeedback"
	if err := fb.Validate(); err != nil {
		return library.MessageResponse{}, invalidInput(op, err)
	}
	var resp library.MessageResponse
	err := c.do(ctx, call{op: op, method: http.MethodPost, path: "/feedback", payload: fb, out: &resp})
	return resp, err
}

func (c *Client) GetFeedback(ctx context.Context) ([]library.Feedback, error) {
	var list []library.Feedback
	if err := c.do(ctx, call{op: "GetFeedback", method: http.MethodGet, path: "/feedback", out: &list}); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) GetFeedbackByID(ctx context.Context, id int64) (library.Feedback, error) {
	const op = "GetFeedbackByID"
	if err := requireID(op, id); err != nil {
		return library.Feedback{}, err
	}
	var fb library.Feedback
	if err := c.do(ctx, call{op: op, method: http.MethodGet, path: resourcePath("/feedback", id), out: &fb}); err != nil {
		return library.Feedback{}, err
	}
	return fb, nil
}

// UpdateFeedback replaces the feedback text. Only Feedback is sent.
func (c *Client) UpdateFeedback(ctx context.Context, id int64, update library.Feedback) (library.MessageResponse, error) {
	const op = "UpdateFeedback"
	if err := requireID(op, id); err != nil {
		return library.MessageResponse{}, err
	}
	if err := update.ValidateUpdate(); err != nil {
		return library.MessageResponse{}, invalidInput(op, err)
	}
	var resp library.MessageResponse
	err := c.do(ctx, call{op: op, method: http.MethodPut, path: resourcePath("/feedback", id), payload: feedbackUpdate{Feedback: update.Feedback}, out: &resp})
	return resp, err
}

func (c *Client) DeleteFeedback(ctx context.Context, id int64) (library.MessageResponse, error) {
	const op = "DeleteFeedback"
	if err := requireID(op, id); err != nil {
		return library.MessageResponse{}, err
	}
	var resp library.MessageResponse
	err := c.do(ctx, call{op: op, method: http.MethodDelete, path: resourcePath("/feedback", id), out: &resp})
	return resp, err
}
