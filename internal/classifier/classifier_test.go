package classifier

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/artisanhub/pkg/config"
	pkgerrors "github.com/angelmondragon/artisanhub/pkg/errors"
	"github.com/angelmondragon/artisanhub/pkg/gateway"
)

type fakeUploader struct {
	mu    sync.Mutex
	paths []string
	forms []gateway.Form
	resp  *gateway.RawResponse
	err   error
}

func (f *fakeUploader) PostMultipart(_ context.Context, path string, form gateway.Form) (*gateway.RawResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, path)
	f.forms = append(f.forms, form)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func classificationResponse() *gateway.RawResponse {
	return &gateway.RawResponse{
		Status:      http.StatusOK,
		ContentType: "application/json",
		Body:        []byte(`{"style":"Madhubani","artist":"Unknown","medium":"Paper","origin":"Bihar","price":2400,"themes":["nature","fish"],"color":"red"}`),
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func testConfig() config.ClassifierConfig {
	return config.ClassifierConfig{MaxImageBytes: 1 << 20, MaxDimension: 64, JPEGQuality: 80}
}

func newTestService(t *testing.T, backend Uploader, opts ...Option) *Service {
	t.Helper()
	svc, err := NewService(backend, testConfig(), nil, opts...)
	require.NoError(t, err)
	return svc
}

func TestMessageValidate(t *testing.T) {
	cases := []struct {
		name string
		msg  Message
		ok   bool
	}{
		{"https url", Message{Action: ActionAnalyzeImage, ImageURL: "https://example.com/a.png"}, true},
		{"data url", Message{Action: ActionAnalyzeImage, ImageURL: "data:image/png;base64,AAAA"}, true},
		{"wrong action", Message{Action: "summarize", ImageURL: "https://example.com/a.png"}, false},
		{"blank url", Message{Action: ActionAnalyzeImage}, false},
		{"ftp url", Message{Action: ActionAnalyzeImage, ImageURL: "ftp://example.com/a.png"}, false},
		{"relative url", Message{Action: ActionAnalyzeImage, ImageURL: "/a.png"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.msg.Validate()
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
		})
	}
}

func TestAnalyzeFetchesAndNormalizes(t *testing.T) {
	source := pngBytes(t, 200, 100)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/media/painting.png", r.URL.Path)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(source)
	}))
	defer srv.Close()

	backend := &fakeUploader{resp: classificationResponse()}
	svc := newTestService(t, backend, WithImageClient(srv.Client()))

	result, err := svc.Analyze(context.Background(), Message{Action: ActionAnalyzeImage, ImageURL: srv.URL + "/media/painting.png"})
	require.NoError(t, err)
	assert.Equal(t, "Madhubani", result.Style.String())
	assert.Equal(t, "2400", result.Price.String())
	assert.Equal(t, "nature, fish", result.Themes.String())

	require.Len(t, backend.forms, 1)
	assert.Equal(t, classifyPath, backend.paths[0])
	files := backend.forms[0].Files
	require.Len(t, files, 1)
	assert.Equal(t, "image", files[0].Field)
	assert.Equal(t, "painting.jpg", files[0].Filename)
	assert.Equal(t, "image/jpeg", files[0].ContentType)

	decoded, err := imaging.Decode(bytes.NewReader(files[0].Data))
	require.NoError(t, err)
	assert.Equal(t, 64, decoded.Bounds().Dx())
	assert.Equal(t, 32, decoded.Bounds().Dy())
}

func TestAnalyzeDataURL(t *testing.T) {
	backend := &fakeUploader{resp: classificationResponse()}
	svc := newTestService(t, backend)

	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t, 10, 20))
	_, err := svc.Analyze(context.Background(), Message{Action: ActionAnalyzeImage, ImageURL: dataURL})
	require.NoError(t, err)

	require.Len(t, backend.forms, 1)
	file := backend.forms[0].Files[0]
	assert.Equal(t, "image.jpg", file.Filename)
	decoded, err := imaging.Decode(bytes.NewReader(file.Data))
	require.NoError(t, err)
	assert.Equal(t, 10, decoded.Bounds().Dx())
	assert.Equal(t, 20, decoded.Bounds().Dy())
}

func TestAnalyzeRejectsOversizedImages(t *testing.T) {
	big := bytes.Repeat([]byte{0xff}, 2048)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(big)
	}))
	defer srv.Close()

	backend := &fakeUploader{resp: classificationResponse()}
	cfg := testConfig()
	cfg.MaxImageBytes = 1024
	svc, err := NewService(backend, cfg, nil, WithImageClient(srv.Client()))
	require.NoError(t, err)

	_, err = svc.Analyze(context.Background(), Message{Action: ActionAnalyzeImage, ImageURL: srv.URL + "/big"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Analyze(context.Background(), Message{
		Action:   ActionAnalyzeImage,
		ImageURL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(big),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.Empty(t, backend.forms)
}

func TestAnalyzeSourceFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("definitely not an image"))
	}))
	defer srv.Close()

	backend := &fakeUploader{resp: classificationResponse()}
	svc := newTestService(t, backend, WithImageClient(srv.Client()))

	_, err := svc.Analyze(context.Background(), Message{Action: ActionAnalyzeImage, ImageURL: srv.URL + "/missing"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Analyze(context.Background(), Message{Action: ActionAnalyzeImage, ImageURL: srv.URL + "/text"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Analyze(context.Background(), Message{Action: ActionAnalyzeImage, ImageURL: "data:image/png;base64,@@@"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.Empty(t, backend.forms)
}

func TestClassifyPropagatesBackendErrors(t *testing.T) {
	backend := &fakeUploader{err: pkgerrors.New(pkgerrors.CodeUpstream, "classifier unavailable")}
	svc := newTestService(t, backend)

	_, err := svc.Classify(context.Background(), Image{Data: []byte{1}, Filename: "x.jpg"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUpstream, pkgerrors.As(err).Code())

	_, err = svc.Classify(context.Background(), Image{})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	backend.err = nil
	backend.resp = &gateway.RawResponse{Status: http.StatusOK, ContentType: "text/html", Body: []byte("<html>")}
	_, err = svc.Classify(context.Background(), Image{Data: []byte{1}})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUpstream, pkgerrors.As(err).Code())
}

func TestDecodeDataURLPlainText(t *testing.T) {
	img, err := decodeDataURL("data:image/svg+xml,%3Csvg%2F%3E", 0)
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(img.Data))
	assert.Equal(t, "image/svg+xml", img.ContentType)

	_, err = decodeDataURL("data:image/png;base64", 0)
	require.Error(t, err)
}

func TestNewServiceRequiresBackend(t *testing.T) {
	_, err := NewService(nil, testConfig(), nil)
	require.Error(t, err)
}
