package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"library-client/library"
)

// CreateEbook adds an ebook to a section. Librarian only.
func (c *Client) CreateEbook(ctx context.Context, ebook library.Ebook) (library.MessageResponse, error) {
	const op = "CreateEbook"
	if err := ebook.Validate(); err != nil {
		return library.MessageResponse{}, invalidInput(op, err)
	}
	var resp library.MessageResponse
	err := c.do(ctx, call{op: op, method: http.MethodPost, path: "/ebooks", payload: ebook, out: &resp})
	return resp, err
}

// GetEbooks lists every ebook.
func (c *Client) GetEbooks(ctx context.Context) ([]library.Ebook, error) {
	var ebooks []library.Ebook
	if err := c.do(ctx, call{op: "GetEbooks", method: http.MethodGet, path: "/ebooks", out: &ebooks}); err != nil {
		return nil, err
	}
	return ebooks, nil
}

// GetEbooksBySection lists the ebooks of one section.
func (c *Client) GetEbooksBySection(ctx context.Context, sectionID int64) ([]library.Ebook, error) {
	const op = "GetEbooksBySection"
	if err := requireID(op, sectionID); err != nil {
		return nil, err
	}
	query := url.Values{"section_id": []string{strconv.FormatInt(sectionID, 10)}}
	var ebooks []library.Ebook
	if err := c.do(ctx, call{op: op, method: http.MethodGet, path: "/ebooks", query: query, out: &ebooks}); err != nil {
		return nil, err
	}
	return ebooks, nil
}

func (c *Client) GetEbook(ctx context.Context, id int64) (library.Ebook, error) {
	const op = "GetEbook"
	if err := requireID(op, id); err != nil {
		return library.Ebook{}, err
	}
	var ebook library.Ebook
	if err := c.do(ctx, call{op: op, method: http.MethodGet, path: resourcePath("/ebooks", id), out: &ebook}); err != nil {
		return library.Ebook{}, err
	}
	return ebook, nil
}

func (c *Client) UpdateEbook(ctx context.Context, id int64, ebook library.Ebook) (library.MessageResponse, error) {
	const op = "UpdateEbook"
	if err := requireID(op, id); err != nil {
		return library.MessageResponse{}, err
	}
	if err := ebook.Validate(); err != nil {
		return library.MessageResponse{}, invalidInput(op, err)
	}
	var resp library.MessageResponse
	err := c.do(ctx, call{op: op, method: http.MethodPut, path: resourcePath("/ebooks", id), payload: ebook, out: &resp})
	return resp, err
}

func (c *Client) DeleteEbook(ctx context.Context, id int64) (library.MessageResponse, error) {
	const op = "DeleteEbook"
	if err := requireID(op, id); err != nil {
		return library.MessageResponse{}, err
	}
	var resp library.MessageResponse
	err := c.do(ctx, call{op: op, method: http.MethodDelete, path: resourcePath("/ebooks", id), out: &resp})
	return resp, err
}

// GetEbooksRequestedByUser lists every ebook annotated with the caller's
// latest request status. User only.
func (c *Client) GetEbooksRequestedByUser(ctx context.Context) ([]library.EbookWithStatus, error) {
	var ebooks []library.EbookWithStatus
	if err := c.do(ctx, call{op: "GetEbooksRequestedByUser", method: http.MethodGet, path: "/ebooks/requests", out: &ebooks}); err != nil {
		return nil, err
	}
	return ebooks, nil
}

// GetEbooksFeedbackByUser lists the ebooks a user left feedback on.
func (c *Client) GetEbooksFeedbackByUser(ctx context.Context, userID int64) ([]library.Ebook, error) {
	const op = "GetEbooksFeedbackByUser"
	if err := requireID(op, userID); err != nil {
		return nil, err
	}
	var ebooks []library.Ebook
	if err := c.do(ctx, call{op: op, method: http.MethodGet, path: resourcePath("/ebooks/feedback", userID), out: &ebooks}); err != nil {
		return nil, err
	}
	return ebooks, nil
}
