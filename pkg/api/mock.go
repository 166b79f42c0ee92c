package api

import (
	"context"
	"fmt"
	"net/http"
)

// MockGenerator hands out the same MockClient for every path and remembers
// the last one requested.
type MockGenerator struct {
	Client MockClient
	Path   string
}

func (m *MockGenerator) New(path string, args ...any) Client {
	if len(args) > 0 {
		path = fmt.Sprintf(path, args...)
	}

	m.Path = path
	return &m.Client
}

// MockClient records what the caller built and answers every method with
// Response and Err.
type MockClient struct {
	Headers   http.Header
	QueryArgs Parameter
	BodyArgs  Body
	Method    string
	Response  *Response
	Err       error
}

func (c *MockClient) Header(name, value string) Client {
	if c.Headers == nil {
		c.Headers = make(http.Header)
	}

	c.Headers.Set(name, value)
	return c
}

func (c *MockClient) Query(query Parameter) Client {
	c.QueryArgs = query
	return c
}

func (c *MockClient) Body(body Body) Client {
	c.BodyArgs = body
	return c
}

func (c *MockClient) POST(_ context.Context, opts ...Opt) (*Response, error) {
	return c.do(http.MethodPost)
}

func (c *MockClient) GET(_ context.Context, opts ...Opt) (*Response, error) {
	return c.do(http.MethodGet)
}

func (c *MockClient) do(method string) (*Response, error) {
	c.Method = method
	if c.Response == nil && c.Err == nil {
		return nil, fmt.Errorf("no mocked response for %s", method)
	}

	return c.Response, c.Err
}
