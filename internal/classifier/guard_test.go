package classifier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/artisanhub/pkg/errors"
)

func TestPublicAddr(t *testing.T) {
	cases := map[string]bool{
		"93.184.216.34":    true,
		"2606:4700::1111":  true,
		"127.0.0.1":        false,
		"::1":              false,
		"10.1.2.3":         false,
		"172.16.0.9":       false,
		"192.168.1.10":     false,
		"169.254.169.254":  false,
		"100.64.0.1":       false,
		"0.0.0.0":          false,
		"::ffff:127.0.0.1": false,
		"fd00::1":          false,
		"fe80::1":          false,
		"224.0.0.1":        false,
	}
	for raw, want := range cases {
		assert.Equal(t, want, publicAddr(netip.MustParseAddr(raw)), raw)
	}
}

func TestAnalyzeRefusesLoopbackImageHost(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("internal"))
	}))
	defer srv.Close()

	backend := &fakeUploader{resp: classificationResponse()}
	svc := newTestService(t, backend)

	_, err := svc.Analyze(context.Background(), Message{Action: ActionAnalyzeImage, ImageURL: srv.URL + "/admin/secrets"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.ErrorIs(t, err, errBlockedAddress)
	assert.Zero(t, hits.Load())
	assert.Empty(t, backend.paths)
}

func TestCheckRedirect(t *testing.T) {
	redirect := func(raw string) *http.Request {
		u, err := url.Parse(raw)
		require.NoError(t, err)
		return &http.Request{URL: u}
	}

	assert.NoError(t, checkRedirect(redirect("https://cdn.example.com/a.png"), nil))
	assert.ErrorIs(t, checkRedirect(redirect("http://169.254.169.254/latest/meta-data"), nil), errBlockedAddress)
	assert.Error(t, checkRedirect(redirect("file:///etc/passwd"), nil))

	via := make([]*http.Request, maxImageRedirects)
	assert.Error(t, checkRedirect(redirect("https://cdn.example.com/a.png"), via))
}
