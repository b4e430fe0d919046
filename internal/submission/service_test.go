package submission

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/artisanhub/pkg/errors"
	"github.com/angelmondragon/artisanhub/pkg/gateway"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type stubBackend struct {
	path string
	form gateway.Form
	resp *gateway.RawResponse
	err  error
}

func (s *stubBackend) PostMultipart(_ context.Context, path string, form gateway.Form) (*gateway.RawResponse, error) {
	s.path, s.form = path, form
	return s.resp, s.err
}

func okResponse(body string) *gateway.RawResponse {
	return &gateway.RawResponse{Status: http.StatusOK, ContentType: "application/json", Body: []byte(body)}
}

func newTestService(t *testing.T, backend Backend) Service {
	t.Helper()
	svc, err := NewService(backend, 1024, nil)
	require.NoError(t, err)
	return svc
}

func TestSubmit(t *testing.T) {
	backend := &stubBackend{resp: okResponse(`{"success":true,"id":314159,"message":"generated"}`)}
	svc := newTestService(t, backend)

	result, err := svc.Submit(context.Background(), Request{
		ArtistName:         " Asha ",
		ProductDescription: "Handwoven silk saree",
		Image:              Upload{Filename: "saree.png", Data: pngHeader},
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "314159", result.ID.String())

	assert.Equal(t, generatePath, backend.path)
	assert.Equal(t, "Asha", backend.form.Fields["artistName"])
	assert.Equal(t, "GLOBAL", backend.form.Fields["targetRegion"])
	assert.Equal(t, "en", backend.form.Fields["language"])
	require.Len(t, backend.form.Files, 1)
	assert.Equal(t, "image", backend.form.Files[0].Field)
	assert.Equal(t, "image/png", backend.form.Files[0].ContentType)
}

func TestSubmitValidation(t *testing.T) {
	backend := &stubBackend{resp: okResponse(`{"success":true,"id":1}`)}
	svc := newTestService(t, backend)

	cases := map[string]Request{
		"no description": {Image: Upload{Data: pngHeader}},
		"no image":       {ProductDescription: "d"},
		"not an image":   {ProductDescription: "d", Image: Upload{Data: []byte("%PDF-1.4 hello")}},
		"too large":      {ProductDescription: "d", Image: Upload{Data: append(append([]byte{}, pngHeader...), make([]byte, 2048)...)}},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
		})
	}
	assert.Empty(t, backend.path)
}

func TestSubmitBackendFailures(t *testing.T) {
	req := Request{ProductDescription: "d", Image: Upload{Data: pngHeader}}

	backend := &stubBackend{resp: okResponse(`{"success":false,"message":"classification failed"}`)}
	_, err := newTestService(t, backend).Submit(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, "classification failed", pkgerrors.As(err).Message())

	backend = &stubBackend{err: pkgerrors.New(pkgerrors.CodeUpstream, "Image classification failed")}
	_, err = newTestService(t, backend).Submit(context.Background(), req)
	assert.Equal(t, pkgerrors.CodeUpstream, pkgerrors.As(err).Code())
}
