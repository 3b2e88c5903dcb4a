package api

import (
	"io"
	"net/url"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/bogdanfinn/tls-client/bandwidth"
)

// MockResponseBody is a ReadCloser that simulates reading response data
type MockResponseBody struct {
	data []byte
	pos  int
}

// NewMockResponseBody creates a new MockResponseBody with the given data
func NewMockResponseBody(data []byte) *MockResponseBody {
	return &MockResponseBody{data: data, pos: 0}
}

// Read implements the io.Reader interface
func (m *MockResponseBody) Read(p []byte) (n int, err error) {
	if m.pos >= len(m.data) {
		return 0, io.EOF
	}
	n = copy(p, m.data[m.pos:])
	m.pos += n
	return n, nil
}

// Close implements the io.Closer interface
func (m *MockResponseBody) Close() error {
	return nil
}

// ChunkedBody delivers one chunk per Read call so tests can place network
// read boundaries in the middle of event frames. After the chunks are
// exhausted it returns FinalErr (io.EOF when nil).
type ChunkedBody struct {
	Chunks   [][]byte
	FinalErr error
	idx      int
	closed   bool
}

// NewChunkedBody creates a body that yields each chunk on its own Read
func NewChunkedBody(chunks ...string) *ChunkedBody {
	b := &ChunkedBody{}
	for _, c := range chunks {
		b.Chunks = append(b.Chunks, []byte(c))
	}
	return b
}

// Read implements the io.Reader interface
func (b *ChunkedBody) Read(p []byte) (int, error) {
	if b.idx >= len(b.Chunks) {
		if b.FinalErr != nil {
			return 0, b.FinalErr
		}
		return 0, io.EOF
	}
	n := copy(p, b.Chunks[b.idx])
	if n < len(b.Chunks[b.idx]) {
		b.Chunks[b.idx] = b.Chunks[b.idx][n:]
	} else {
		b.idx++
	}
	return n, nil
}

// Close implements the io.Closer interface
func (b *ChunkedBody) Close() error {
	b.closed = true
	return nil
}

// MockHttpClient is a mock implementation of tls_client.HttpClient for testing
type MockHttpClient struct {
	Response *fhttp.Response
	Err      error

	// DoFunc, when set, overrides Response/Err and routes per request
	DoFunc func(req *fhttp.Request) (*fhttp.Response, error)

	// Requests records every request passed to Do
	Requests []*fhttp.Request
}

// GetCookies implements the tls_client.HttpClient interface
func (m *MockHttpClient) GetCookies(u *url.URL) []*fhttp.Cookie {
	return nil
}

// SetCookies implements the tls_client.HttpClient interface
func (m *MockHttpClient) SetCookies(u *url.URL, cookies []*fhttp.Cookie) {}

// SetCookieJar implements the tls_client.HttpClient interface
func (m *MockHttpClient) SetCookieJar(jar fhttp.CookieJar) {}

// GetCookieJar implements the tls_client.HttpClient interface
func (m *MockHttpClient) GetCookieJar() fhttp.CookieJar {
	return nil
}

// SetProxy implements the tls_client.HttpClient interface
func (m *MockHttpClient) SetProxy(proxyUrl string) error {
	return nil
}

// GetProxy implements the tls_client.HttpClient interface
func (m *MockHttpClient) GetProxy() string {
	return ""
}

// SetFollowRedirect implements the tls_client.HttpClient interface
func (m *MockHttpClient) SetFollowRedirect(followRedirect bool) {}

// GetFollowRedirect implements the tls_client.HttpClient interface
func (m *MockHttpClient) GetFollowRedirect() bool {
	return false
}

// CloseIdleConnections implements the tls_client.HttpClient interface
func (m *MockHttpClient) CloseIdleConnections() {}

// Do implements the tls_client.HttpClient interface
func (m *MockHttpClient) Do(req *fhttp.Request) (*fhttp.Response, error) {
	m.Requests = append(m.Requests, req)
	if m.DoFunc != nil {
		return m.DoFunc(req)
	}
	return m.Response, m.Err
}

// Get implements the tls_client.HttpClient interface
func (m *MockHttpClient) Get(url string) (*fhttp.Response, error) {
	return m.Response, m.Err
}

// Head implements the tls_client.HttpClient interface
func (m *MockHttpClient) Head(url string) (*fhttp.Response, error) {
	return m.Response, m.Err
}

// Post implements the tls_client.HttpClient interface
func (m *MockHttpClient) Post(url, contentType string, body io.Reader) (*fhttp.Response, error) {
	return m.Response, m.Err
}

// GetBandwidthTracker implements the tls_client.HttpClient interface
func (m *MockHttpClient) GetBandwidthTracker() bandwidth.BandwidthTracker {
	return nil
}

// NewMockHttpClient creates a new MockHttpClient with a successful response
func NewMockHttpClient(body []byte, statusCode int) *MockHttpClient {
	return &MockHttpClient{
		Response: &fhttp.Response{
			StatusCode: statusCode,
			Body:       NewMockResponseBody(body),
			Header:     make(fhttp.Header),
		},
	}
}

// NewMockHttpClientWithError creates a new MockHttpClient that returns an error
func NewMockHttpClientWithError(err error) *MockHttpClient {
	return &MockHttpClient{
		Response: nil,
		Err:      err,
	}
}

// newTestClient builds a Client wired to the given mock transport
func newTestClient(mock *MockHttpClient, opts ...ClientOption) *Client {
	creds := &testCredentials
	opts = append([]ClientOption{WithHTTPClient(mock)}, opts...)
	client, err := NewClient("https://chat.example.com/api", creds, opts...)
	if err != nil {
		panic(err)
	}
	return client
}
