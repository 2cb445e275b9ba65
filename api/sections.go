package api

import (
	"context"
	"net/http"

	"library-client/library"
)

// CreateSection adds a catalog section. Librarian only.
func (c *Client) CreateSection(ctx context.Context, section library.Section) (library.MessageResponse, error) {
	const op = "CreateSection"
	if err := section.Validate(); err != nil {
		return library.MessageResponse{}, invalidInput(op, err)
	}
	var resp library.MessageResponse
	err := c.do(ctx, call{op: op, method: http.MethodPost, path: "/sections", payload: section, out: &resp})
	return resp, err
}

func (c *Client) GetSections(ctx context.Context) ([]library.Section, error) {
	var sections []library.Section
	if err := c.do(ctx, call{op: "GetSections", method: http.MethodGet, path: "/sections", out: &sections}); err != nil {
		return nil, err
	}
	return sections, nil
}

func (c *Client) GetSection(ctx context.Context, id int64) (library.Section, error) {
	const op = "GetSection"
	if err := requireID(op, id); err != nil {
		return library.Section{}, err
	}
	var section library.Section
	if err := c.do(ctx, call{op: op, method: http.MethodGet, path: resourcePath("/sections", id), out: &section}); err != nil {
		return library.Section{}, err
	}
	return section, nil
}

func (c *Client) UpdateSection(ctx context.Context, id int64, section library.Section) (library.MessageResponse, error) {
	const op = "UpdateSection"
	if err := requireID(op, id); err != nil {
		return library.MessageResponse{}, err
	}
	if err := section.Validate(); err != nil {
		return library.MessageResponse{}, invalidInput(op, err)
	}
	var resp library.MessageResponse
	err := c.do(ctx, call{op: op, method: http.MethodPut, path: resourcePath("/sections", id), payload: section, out: &resp})
	return resp, err
}

// DeleteSection removes a section.
func (c *Client) DeleteSection(ctx context.Context, id int64) (library.MessageResponse, error) {
	const op = "DeleteSection"
	if err := requireID(op, id); err != nil {
		return library.MessageResponse{}, err
	}
	var resp library.MessageResponse
	err := c.do(ctx, call{op: op, method: http.MethodDelete, path: resourcePath("/sections", id), out: &resp})
	return resp, err
}
