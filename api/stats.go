package api

import (
	"context"
	"net/http"

	"library-client/library"
)

// GetLibrarianStats returns the librarian dashboard aggregates.
func (c *Client) GetLibrarianStats(ctx context.Context) (library.LibrarianStats, error) {
	var stats library.LibrarianStats
	if err := c.do(ctx, call{op: "GetLibrarianStats", method: http.MethodGet, path: "/stats/librarian", out: &stats}); err != nil {
		return library.LibrarianStats{}, err
	}
	return stats, nil
}

// GetUserStats returns the caller's borrowing aggregates.
func (c *Client) GetUserStats(ctx context.Context) (library.UserStats, error) {
	var stats library.UserStats
	if err := c.do(ctx, call{op: "GetUserStats", method: http.MethodGet, path: "/stats/user", out: &stats}); err != nil {
		return library.UserStats{}, err
	}
	return stats, nil
}
