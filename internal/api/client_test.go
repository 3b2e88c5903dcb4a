package api

import (
	"context"
	"errors"
	"testing"

	fhttp "github.com/bogdanfinn/fhttp"

	"github.com/maduarte/chatdeck/internal/config"
	apierrors "github.com/maduarte/chatdeck/internal/errors"
)

var testCredentials = config.Credentials{AccessToken: "tok_test"}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient("", nil); err == nil {
		t.Error("NewClient with empty base URL should fail")
	}

	client, err := NewClient("https://chat.example.com/api/", nil, WithHTTPClient(&MockHttpClient{}))
	if err != nil {
		t.Fatalf("NewClient() unexpected error: %v", err)
	}
	if client.BaseURL() != "https://chat.example.com/api" {
		t.Errorf("BaseURL() = %q, trailing slash should be stripped", client.BaseURL())
	}
}

func TestRequestCarriesBearerToken(t *testing.T) {
	mock := NewMockHttpClient([]byte(`[]`), 200)
	client := newTestClient(mock)

	if _, err := client.ListSessions(context.Background(), ""); err != nil {
		t.Fatalf("ListSessions() unexpected error: %v", err)
	}

	if len(mock.Requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(mock.Requests))
	}
	got := mock.Requests[0].Header.Get("Authorization")
	if got != "Bearer tok_test" {
		t.Errorf("Authorization header = %q, want %q", got, "Bearer tok_test")
	}
}

func TestRequestWithoutCredentials(t *testing.T) {
	mock := NewMockHttpClient([]byte(`[]`), 200)
	client, err := NewClient("https://chat.example.com/api", nil, WithHTTPClient(mock))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := client.ListSessions(context.Background(), ""); err != nil {
		t.Fatalf("ListSessions() unexpected error: %v", err)
	}
	if got := mock.Requests[0].Header.Get("Authorization"); got != "" {
		t.Errorf("Authorization header should be absent, got %q", got)
	}
}

func TestUnauthorizedInvokesHandler(t *testing.T) {
	mock := NewMockHttpClient([]byte(`{"detail": "Not authenticated"}`), 401)

	var handlerCalled bool
	client := newTestClient(mock, WithUnauthorizedHandler(func() {
		handlerCalled = true
	}))

	_, err := client.ListSessions(context.Background(), "")
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !apierrors.IsAuthError(err) {
		t.Errorf("expected auth error, got %T: %v", err, err)
	}
	if !handlerCalled {
		t.Error("unauthorized handler was not invoked")
	}
}

func TestServerErrorReturnsAPIError(t *testing.T) {
	mock := NewMockHttpClient([]byte(`{"detail": "boom"}`), 500)
	client := newTestClient(mock)

	_, err := client.ListSessions(context.Background(), "")
	if err == nil {
		t.Fatal("expected error for 500 response")
	}

	var apiErr *apierrors.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != 500 {
		t.Errorf("StatusCode = %d, want 500", apiErr.StatusCode)
	}
	if apiErr.Body == "" {
		t.Error("APIError should carry the response body for diagnostics")
	}
}

func TestTransportErrorReturnsNetworkError(t *testing.T) {
	mock := NewMockHttpClientWithError(errors.New("connection refused"))
	client := newTestClient(mock)

	_, err := client.ListSessions(context.Background(), "")
	if !apierrors.IsNetworkError(err) {
		t.Errorf("expected network error, got %T: %v", err, err)
	}
}

func TestClosedClientRejectsRequests(t *testing.T) {
	client := newTestClient(NewMockHttpClient(nil, 200))
	client.Close()

	if _, err := client.ListSessions(context.Background(), ""); err == nil {
		t.Error("closed client should reject requests")
	}
	if _, err := client.OpenStream(context.Background(), "s1", "hi"); err == nil {
		t.Error("closed client should reject stream opens")
	}
}

func TestInvalidJSONResponse(t *testing.T) {
	mock := NewMockHttpClient([]byte("<html>gateway error</html>"), 200)
	client := newTestClient(mock)

	_, err := client.ListSessions(context.Background(), "")
	var parseErr *apierrors.ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("expected ParseError for non-JSON body, got %T: %v", err, err)
	}
}

func TestNoContentResponse(t *testing.T) {
	mock := &MockHttpClient{
		Response: &fhttp.Response{
			StatusCode: 204,
			Body:       NewMockResponseBody(nil),
			Header:     make(fhttp.Header),
		},
	}
	client := newTestClient(mock)

	if err := client.DeleteSession(context.Background(), "s1"); err != nil {
		t.Errorf("DeleteSession() with 204 response: %v", err)
	}
}
