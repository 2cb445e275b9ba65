// Package router maps view paths to named routes and gates them by the
// session's role.
package router

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"library-client/token"
)

var (
	ErrNotFound     = errors.New("router: no route")
	ErrRedirectLoop = errors.New("router: too many redirects")
	ErrUnknownRoute = errors.New("router: unknown route name")
	ErrMissingParam = errors.New("router: missing route parameter")
)

// maxHops bounds redirects followed by one Navigate call.
const maxHops = 8

// Params holds the values of a route's ":name" segments.
type Params map[string]string

// Match is a path resolved against the route table.
type Match struct {
	Route  Route
	Path   string
	Params Params
}

// Destination is where a navigation ended after redirects.
type Destination struct {
	Match
	// Hops lists the paths visited before the destination, in order.
	Hops []string
}

// RoleSource reports the role of the current session.
type RoleSource interface {
	Role() token.Role
}

// Router resolves paths and consults the guard before every entry.
type Router struct {
	session RoleSource
	guard   Guard
}

func New(session RoleSource) *Router {
	return &Router{session: session}
}

// Resolve matches path against the route table without consulting the guard.
func (r *Router) Resolve(path string) (Match, error) {
	clean := normalize(path)
	segs := split(clean)
	for _, route := range table {
		if params, ok := match(split(route.Pattern), segs); ok {
			return Match{Route: route, Path: clean, Params: params}, nil
		}
	}
	return Match{}, fmt.Errorf("%w: %s", ErrNotFound, clean)
}

// Navigate resolves path and follows static and guard redirects until the
// session is allowed in.
func (r *Router) Navigate(path string) (Destination, error) {
	var hops []string
	current := path
	for range maxHops {
		m, err := r.Resolve(current)
		if err != nil {
			return Destination{}, err
		}
		decision := r.guard.Check(m.Route.Role, r.session.Role())
		if !decision.Allow {
			hops = append(hops, m.Path)
			target, ok := lookup(decision.Redirect)
			if !ok {
				return Destination{}, fmt.Errorf("%w: %s", ErrUnknownRoute, decision.Redirect)
			}
			current = target.Pattern
			continue
		}
		if m.Route.Redirect != "" {
			hops = append(hops, m.Path)
			current = m.Route.Redirect
			continue
		}
		return Destination{Match: m, Hops: hops}, nil
	}
	return Destination{}, fmt.Errorf("%w: from %s", ErrRedirectLoop, path)
}

// Go navigates to a named route.
func (r *Router) Go(name Name, params Params) (Destination, error) {
	path, err := PathFor(name, params)
	if err != nil {
		return Destination{}, err
	}
	return r.Navigate(path)
}

// PathFor builds the path of a named route, escaping parameter values.
func PathFor(name Name, params Params) (string, error) {
	route, ok := lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownRoute, name)
	}
	segs := split(route.Pattern)
	for i, seg := range segs {
		key, isParam := strings.CutPrefix(seg, ":")
		if !isParam {
			continue
		}
		value := params[key]
		if value == "" {
			return "", fmt.Errorf("%w: %s needs %s", ErrMissingParam, name, key)
		}
		segs[i] = url.PathEscape(value)
	}
	return "/" + strings.Join(segs, "/"), nil
}

func match(pattern, segs []string) (Params, bool) {
	if len(pattern) != len(segs) {
		return nil, false
	}
	params := Params{}
	for i, p := range pattern {
		if key, isParam := strings.CutPrefix(p, ":"); isParam {
			value, err := url.PathUnescape(segs[i])
			if err != nil || value == "" {
				return nil, false
			}
			params[key] = value
			continue
		}
		if p != segs[i] {
			return nil, false
		}
	}
	return params, true
}

// normalize drops query, fragment and trailing slashes and ensures a leading slash.
func normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.Trim(strings.TrimSpace(path), "/")
	return "/" + path
}

func split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
