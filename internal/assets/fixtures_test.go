package assets

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
)

const testID = "42"

func storageFixtures() map[string]string {
	return map[string]string{
		"GET /storage/input_images/42":             `[{"tag":"front","image":"aW4="}]`,
		"GET /storage/output_images/42":            `[{"tag":"enhanced","image":"b3V0"}]`,
		"GET /storage/recommended_price/42":        `{"uid":42,"price":1499}`,
		"GET /storage/processing_metadata/42":      `{"status":"done","message":"ok","error":null,"processing_time":3.2,"created_at":"2025-01-01T00:00:00"}`,
		"GET /storage/faqs/42":                     `[{"question":"Is it handwoven?","answer":"Yes"},{"question":"Wash?","answer":"Dry clean"}]`,
		"GET /storage/story/42":                    `{"uid":42,"story":"Once upon a loom"}`,
		"GET /storage/history/42":                  `{"uid":42,"location_specific_info":"Varanasi weavers","descriptive_history":"Silk since the Mughal era"}`,
		"GET /storage/style/42":                    `{"id":42,"style":"Banarasi"}`,
		"GET /storage/origin/42":                   `{"id":42,"origin":"Uttar Pradesh"}`,
		"GET /storage/predicted_artist/42":         `{"id":42,"predicted_artist":"Asha Devi"}`,
		"GET /storage/medium/42":                   `{"id":42,"medium":"Silk"}`,
		"GET /storage/themes/42":                   `{"id":42,"themes":["floral","paisley"]}`,
		"GET /storage/colors/42":                   `{"id":42,"colors":"red, gold"}`,
		"GET /storage/edited_video/42":             `{"id":42,"video":"ZWRpdGVk"}`,
		"GET /storage/video/42":                    `[{"tag":"reel","video":"cmVlbA=="},{"tag":"extra","video":"ZXh0cmE="},{"tag":"again","video":"ZWRpdGVk"}]`,
		"GET /storage/traditional_ad_banner/42":    `{"id":42,"image":"YmFubmVy"}`,
		"GET /storage/youtube_thumbnail_banner/42": `{"id":42,"image":"dGh1bWI="}`,
		"GET /storage/comics/42":                   `{"id":42,"image":"Y29taWM="}`,
	}
}

const storedInventoryFixture = `{"success":true,"uid":42,"recommendations":{"recommendations":[
	{"holiday":"Diwali","date":"2025-10-20","items":["diyas","saris"],"reason":"festive gifting","art_forms":"Banarasi"},
	{"holiday":"Holi","date":"2026-03-04","items":["dupattas"],"reason":"bright colors","art_forms":["Banarasi"]},
	{"holiday":"Eid","date":"2026-03-20","items":["stoles"],"reason":"family visits"}
]},"total_items":4}`

const highlightFixture = `{"highlights":[{"start":0,"end":8,"category":"place","tooltip":"holy city"}],"key_terms":["Varanasi"]}`

func ownerFixtures() map[string]string {
	fixtures := storageFixtures()
	fixtures["GET /inventory/stored/42"] = storedInventoryFixture
	fixtures["POST /social_media/generate-email/42"] = `"<html><body><p onclick=\"x()\">Namaste</p><script>track()</script></body></html>"`
	return fixtures
}

func listingFixtures() map[string]string {
	fixtures := storageFixtures()
	fixtures["POST /highlight/text"] = highlightFixture
	return fixtures
}

var errBackendDown = errors.New("backend down")

// fakeBackend answers from canned fixtures keyed by "METHOD path" and records
// every call it receives.
type fakeBackend struct {
	mu        sync.Mutex
	calls     []string
	bodies    []any
	responses map[string]string
	failures  map[string]error
	// blocking keys wait for the request context to end.
	blocking map[string]bool
}

func newFakeBackend(responses map[string]string) *fakeBackend {
	return &fakeBackend{
		responses: responses,
		failures:  map[string]error{},
		blocking:  map[string]bool{},
	}
}

func (f *fakeBackend) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return f.serve(ctx, http.MethodGet, path, nil)
}

func (f *fakeBackend) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return f.serve(ctx, http.MethodPost, path, body)
}

func (f *fakeBackend) serve(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	key := method + " " + path
	f.mu.Lock()
	f.calls = append(f.calls, key)
	f.bodies = append(f.bodies, body)
	resp, ok := f.responses[key]
	failure := f.failures[key]
	block := f.blocking[key]
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if failure != nil {
		return nil, failure
	}
	if !ok {
		return nil, errors.New("no fixture for " + key)
	}
	return json.RawMessage(resp), nil
}

func (f *fakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBackend) countPrefix(prefix string) int {
	n := 0
	for _, call := range f.Calls() {
		if strings.HasPrefix(call, prefix) {
			n++
		}
	}
	return n
}
