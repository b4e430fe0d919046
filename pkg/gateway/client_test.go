package gateway

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"
	"time"

	pkgerrors "github.com/angelmondragon/artisanhub/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func newTestClient(t *testing.T, rt roundTripFunc) *Client {
	t.Helper()
	client, err := NewClient("http://backend.test/", WithHTTPClient(&http.Client{Transport: rt}))
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient("   ")
	require.ErrorIs(t, err, errBaseURLRequired)
}

func TestClientGetJoinsPath(t *testing.T) {
	var capturedURL, capturedMethod string
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		capturedMethod = req.Method
		assert.Equal(t, "application/json", req.Header.Get("Accept"))
		assert.Equal(t, defaultUserAgent, req.Header.Get("User-Agent"))
		return jsonResponse(http.StatusOK, `{"faqs":[{"q":"a"}]}`), nil
	})

	raw, err := client.Get(context.Background(), "/storage/faqs/42")
	require.NoError(t, err)
	assert.Equal(t, "http://backend.test/storage/faqs/42", capturedURL)
	assert.Equal(t, http.MethodGet, capturedMethod)
	assert.JSONEq(t, `{"faqs":[{"q":"a"}]}`, string(raw))
}

func TestClientPostEncodesBody(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		body, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
		assert.JSONEq(t, `{"text":"hello"}`, string(body))
		return jsonResponse(http.StatusOK, `{"highlights":["hello"],"key_terms":[]}`), nil
	})

	var out struct {
		Highlights []string `json:"highlights"`
	}
	err := client.PostJSON(context.Background(), "highlight/text", map[string]string{"text": "hello"}, &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, out.Highlights)
}

func TestClientPostWithoutBody(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		assert.Empty(t, req.Header.Get("Content-Type"))
		if req.Body != nil {
			body, _ := io.ReadAll(req.Body)
			assert.Empty(t, body)
		}
		return jsonResponse(http.StatusOK, ``), nil
	})

	raw, err := client.Post(context.Background(), "/inventory/recommendation/u1", nil)
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw))
}

func TestClientHTTPErrorCarriesStatusAndDetail(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusInternalServerError, `{"detail":"model overloaded"}`), nil
	})

	_, err := client.Get(context.Background(), "/storage/story/42")
	require.Error(t, err)

	assert.Equal(t, http.StatusInternalServerError, StatusOf(err))
	assert.False(t, IsNetwork(err))

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, "model overloaded", httpErr.Message)
	assert.Equal(t, "/storage/story/42", httpErr.Path)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUpstream, typed.Code())
	assert.Equal(t, http.StatusInternalServerError, pkgerrors.Dump(err).UpstreamStatus)
}

func TestClientHTTPErrorCodes(t *testing.T) {
	cases := []struct {
		status int
		code   pkgerrors.Code
	}{
		{http.StatusNotFound, pkgerrors.CodeNotFound},
		{http.StatusBadRequest, pkgerrors.CodeValidation},
		{http.StatusUnprocessableEntity, pkgerrors.CodeValidation},
		{http.StatusBadGateway, pkgerrors.CodeUpstream},
	}
	for _, tc := range cases {
		client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
			return jsonResponse(tc.status, `{"detail":{"message":"nope"}}`), nil
		})
		_, err := client.Get(context.Background(), "/x")
		require.Error(t, err)
		assert.Equal(t, tc.code, pkgerrors.As(err).Code(), "status %d", tc.status)
	}
}

func TestClientErrorBodyIsTruncated(t *testing.T) {
	long := strings.Repeat("x", 100)
	client, err := NewClient("http://backend.test",
		WithHTTPClient(&http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return &http.Response{StatusCode: http.StatusBadGateway, Body: io.NopCloser(strings.NewReader(long)), Header: http.Header{}}, nil
		})}),
		WithErrorBodyLimit(10),
	)
	require.NoError(t, err)

	_, err = client.Get(context.Background(), "/x")
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, strings.Repeat("x", 10), httpErr.Message)
}

func TestClientNetworkError(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})

	_, err := client.Get(context.Background(), "/storage/price/42")
	require.Error(t, err)
	assert.True(t, IsNetwork(err))
	assert.Equal(t, 0, StatusOf(err))
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
}

func TestClientCanceledContext(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return nil, req.Context().Err()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Get(ctx, "/storage/price/42")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeCanceled, pkgerrors.As(err).Code())
}

func TestClientPostMultipart(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		mediaType, params, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
		require.NoError(t, err)
		require.Equal(t, "multipart/form-data", mediaType)

		reader := multipart.NewReader(req.Body, params["boundary"])
		form, err := reader.ReadForm(1 << 20)
		require.NoError(t, err)
		assert.Equal(t, []string{"Asha"}, form.Value["artistName"])
		require.Len(t, form.File["image"], 1)
		assert.Equal(t, "pot.jpg", form.File["image"][0].Filename)

		return jsonResponse(http.StatusOK, `{"uid":"abc"}`), nil
	})

	resp, err := client.PostMultipart(context.Background(), "/generateContent", Form{
		Fields: map[string]string{"artistName": "Asha"},
		Files:  []File{{Field: "image", Filename: "pot.jpg", ContentType: "image/jpeg", Data: []byte{0xff, 0xd8}}},
	})
	require.NoError(t, err)
	assert.True(t, resp.IsJSON())

	var out struct {
		UID string `json:"uid"`
	}
	require.NoError(t, resp.Decode(&out))
	assert.Equal(t, "abc", out.UID)
}

func TestRawResponseIsJSON(t *testing.T) {
	assert.True(t, (&RawResponse{ContentType: "application/json; charset=utf-8"}).IsJSON())
	assert.True(t, (&RawResponse{ContentType: "application/problem+json"}).IsJSON())
	assert.False(t, (&RawResponse{ContentType: "video/mp4", Body: []byte("bin")}).IsJSON())
	assert.False(t, (*RawResponse)(nil).IsJSON())
}

func TestExtractMessage(t *testing.T) {
	assert.Equal(t, "a", extractMessage([]byte(`{"detail":"a"}`)))
	assert.Equal(t, "b", extractMessage([]byte(`{"detail":{"message":"b"}}`)))
	assert.Equal(t, "c", extractMessage([]byte(`{"message":"c"}`)))
	assert.Equal(t, "d", extractMessage([]byte(`{"error":"d"}`)))
	assert.Empty(t, extractMessage([]byte(`not json`)))
}

func TestClientPostRawKeepsBinaryBody(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("\x89PNG")),
			Header:     http.Header{"Content-Type": []string{"image/png"}},
		}, nil
	})

	resp, err := client.PostRaw(context.Background(), "/social_media/comics?uid=42", map[string]any{"uid": 42})
	require.NoError(t, err)
	assert.False(t, resp.IsJSON())
	assert.Equal(t, "image/png", resp.ContentType)
	assert.Equal(t, []byte("\x89PNG"), resp.Body)
}

func TestWithTimeoutKeepsSuppliedClient(t *testing.T) {
	redirects := func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	transport := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{}`), nil
	})
	supplied := &http.Client{Transport: transport, CheckRedirect: redirects}

	for _, opts := range [][]Option{
		{WithTimeout(5 * time.Second), WithHTTPClient(supplied)},
		{WithHTTPClient(supplied), WithTimeout(5 * time.Second)},
	} {
		client, err := NewClient("http://backend.test", opts...)
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
		assert.NotNil(t, client.httpClient.Transport)
		assert.NotNil(t, client.httpClient.CheckRedirect)
	}
	assert.Zero(t, supplied.Timeout, "caller's client must not be mutated")
}
