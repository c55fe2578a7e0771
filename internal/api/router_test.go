package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omran-mahr/Aspiro-AI/internal/api/middleware"
	mockprovider "github.com/omran-mahr/Aspiro-AI/internal/provider/mock"
	"github.com/omran-mahr/Aspiro-AI/internal/service"
	"github.com/omran-mahr/Aspiro-AI/internal/store"
	"github.com/omran-mahr/Aspiro-AI/internal/ws"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func portrait(t *testing.T, shade uint8) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 160, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 160; x++ {
			img.Set(x, y, color.RGBA{R: shade, G: uint8(x), B: uint8(y), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func multipartBody(fields map[string]string, img []byte) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		_ = writer.WriteField(k, v)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="photo.png"`)
	h.Set("Content-Type", "image/png")
	part, _ := writer.CreatePart(h)
	_, _ = part.Write(img)
	_ = writer.Close()
	return body, writer.FormDataContentType()
}

func newTestRouter(t *testing.T, rate middleware.RateLimiterConfig) *Router {
	t.Helper()
	provider := mockprovider.New()
	faces := service.NewFaceService(provider, provider, store.NewMemoryStore(), testLogger())

	r := NewRouter(testLogger(), &Dependencies{
		FaceService: faces,
		RateLimit:   rate,
	}, ws.NewHub())
	r.Setup()
	t.Cleanup(func() { _ = r.Shutdown() })
	return r
}

func TestRouter_Health(t *testing.T) {
	r := NewRouter(testLogger(), nil, nil)
	r.Setup()

	resp, err := r.App().Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, err = r.App().Test(httptest.NewRequest("GET", "/ready", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestRouter_RegisterThenAttendance(t *testing.T) {
	r := newTestRouter(t, middleware.RateLimiterConfig{Max: 100, Window: time.Minute})
	alice := portrait(t, 40)

	body, contentType := multipartBody(map[string]string{"name": "alice"}, alice)
	req := httptest.NewRequest("POST", "/v1/faces", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := r.App().Test(req)
	require.NoError(t, err)
	require.Equal(t, 201, resp.StatusCode)

	var reg map[string]any
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &reg))
	assert.Equal(t, "alice", reg["name"])
	assert.Equal(t, float64(1), reg["embeddings"])

	body, contentType = multipartBody(nil, alice)
	req = httptest.NewRequest("POST", "/v1/attendance", body)
	req.Header.Set("Content-Type", contentType)
	resp, err = r.App().Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var rec struct {
		RecognizedFaces []string `json:"recognized_faces"`
	}
	raw, _ = io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &rec))
	assert.Equal(t, []string{"alice"}, rec.RecognizedFaces)
}

func TestRouter_AttendanceWithEmptyGallery(t *testing.T) {
	r := newTestRouter(t, middleware.RateLimiterConfig{Max: 100, Window: time.Minute})

	body, contentType := multipartBody(nil, portrait(t, 90))
	req := httptest.NewRequest("POST", "/v1/attendance", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := r.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestRouter_RateLimited(t *testing.T) {
	r := newTestRouter(t, middleware.RateLimiterConfig{Max: 1, Window: time.Minute})
	img := portrait(t, 10)

	statuses := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		body, contentType := multipartBody(nil, img)
		req := httptest.NewRequest("POST", "/v1/attendance", body)
		req.Header.Set("Content-Type", contentType)
		resp, err := r.App().Test(req)
		require.NoError(t, err)
		statuses = append(statuses, resp.StatusCode)
	}

	assert.Equal(t, []int{404, 429}, statuses)
}

func TestRouter_UnconfiguredRoutes(t *testing.T) {
	r := newTestRouter(t, middleware.RateLimiterConfig{})

	req := httptest.NewRequest("POST", "/v1/chat", bytes.NewBufferString(`{"text":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestRouter_FeedUpgradeChecks(t *testing.T) {
	r := newTestRouter(t, middleware.RateLimiterConfig{Max: 100, Window: time.Minute})

	tests := []struct {
		name    string
		path    string
		upgrade bool
		want    int
	}{
		{name: "plain http", path: "/v1/ws", want: 426},
		{name: "unknown event filter", path: "/v1/ws?events=face.deleted", upgrade: true, want: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.upgrade {
				req.Header.Set("Connection", "Upgrade")
				req.Header.Set("Upgrade", "websocket")
			}

			resp, err := r.App().Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
