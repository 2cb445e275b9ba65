package api

import (
	"context"
	"net/http"

	"library-client/library"
)

type statusUpdate struct {
	Status string `json:"status"`
}

// CreateEbookRequest asks to borrow an ebook until req.ReturnDate. User only;
// the backend caps open requests per user.
func (c *Client) CreateEbookRequest(ctx context.Context, req library.EbookRequest) (library.MessageResponse, error) {
	const op = "CreateEbookRequest"
	if err := req.Validate(); err != nil {
		return library.MessageResponse{}, invalidInput(op, err)
	}
	var resp library.MessageResponse
	err := c.do(ctx, call{op: op, method: http.MethodPost, path: "/ebook_requests", payload: req, out: &resp})
	return resp, err
}

// GetEbookRequests lists every request.
func (c *Client) GetEbookRequests(ctx context.Context) ([]library.EbookRequest, error) {
	var reqs []library.EbookRequest
	if err := c.do(ctx, call{op: "GetEbookRequests", method: http.MethodGet, path: "/ebook_requests", out: &reqs}); err != nil {
		return nil, err
	}
	return reqs, nil
}

// GetEbookRequestsByUser lists the caller's own requests.
func (c *Client) GetEbookRequestsByUser(ctx context.Context) ([]library.EbookRequest, error) {
	var reqs []library.EbookRequest
	if err := c.do(ctx, call{op: "GetEbookRequestsByUser", method: http.MethodGet, path: "/ebook_requests_user", out: &reqs}); err != nil {
		return nil, err
	}
	return reqs, nil
}

func (c *Client) GetEbookRequest(ctx context.Context, id int64) (library.EbookRequest, error) {
	const op = "GetEbookRequest"
	if err := requireID(op, id); err != nil {
		return library.EbookRequest{}, err
	}
	var req library.EbookRequest
	if err := c.do(ctx, call{op: op, method: http.MethodGet, path: resourcePath("/ebook_requests", id), out: &req}); err != nil {
		return library.EbookRequest{}, err
	}
	return req, nil
}

// UpdateEbookRequest changes a request's status. Only Status is sent.
func (c *Client) UpdateEbookRequest(ctx context.Context, id int64, update library.EbookRequest) (library.MessageResponse, error) {
	const op = "UpdateEbookRequest"
	if err := requireID(op, id); err != nil {
		return library.MessageResponse{}, err
	}
	if err := update.ValidateUpdate(); err != nil {
		return library.MessageResponse{}, invalidInput(op, err)
	}
	var resp library.MessageResponse
	err := c.do(ctx, call{op: op, method: http.MethodPut, path: resourcePath("/ebook_requests", id), payload: statusUpdate{Status: update.Status}, out: &resp})
	return resp, err
}

func (c *Client) DeleteEbookRequest(ctx context.Context, id int64) (library.MessageResponse, error) {
	const op = "DeleteEbookRequest"
	if err := requireID(op, id); err != nil {
		return library.MessageResponse{}, err
	}
	var resp library.MessageResponse
	err := c.do(ctx, call{op: op, method: http.MethodDelete, path: resourcePath("/ebook_requests", id), out: &resp})
	return resp, err
}
