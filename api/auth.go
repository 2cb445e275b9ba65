package api

import (
	"context"
	"errors"
	"net/http"

	"library-client/library"
)

// RegisterUser creates a user account and returns its session.
func (c *Client) RegisterUser(ctx context.Context, username, password string) (library.AuthResponse, error) {
	return c.authenticate(ctx, "RegisterUser", "/register-user", username, password)
}

// LoginUser authenticates a user account.
func (c *Client) LoginUser(ctx context.Context, username, password string) (library.AuthResponse, error) {
	return c.authenticate(ctx, "LoginUser", "/login-user", username, password)
}

// LoginLibrarian authenticates a librarian account.
func (c *Client) LoginLibrarian(ctx context.Context, username, password string) (library.AuthResponse, error) {
	return c.authenticate(ctx, "LoginLibrarian", "/login-librarian", username, password)
}

// GetUsers lists accounts with the user role.
func (c *Client) GetUsers(ctx context.Context) ([]library.User, error) {
	var users []library.User
	if err := c.do(ctx, call{op: "GetUsers", method: http.MethodGet, path: "/get-users", out: &users}); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) authenticate(ctx context.Context, op, path, username, password string) (library.AuthResponse, error) {
	creds := library.Credentials{Username: username, Password: password}
	if err := creds.Validate(); err != nil {
		return library.AuthResponse{}, invalidInput(op, err)
	}
	var resp library.AuthResponse
	if err := c.do(ctx, call{op: op, method: http.MethodPost, path: path, payload: creds, out: &resp}); err != nil {
		return library.AuthResponse{}, err
	}
	if resp.Token == "" {
		return library.AuthResponse{}, c.fail(&Error{Op: op, Kind: ErrorKindDecode, Status: http.StatusOK, Err: errors.New("empty token")})
	}
	return resp, nil
}
