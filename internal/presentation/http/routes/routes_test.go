package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AtRiskMedia/flexstack-go/internal/application/container"
	schema "github.com/AtRiskMedia/flexstack-go/internal/infrastructure/database"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/security"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const editorOrigin = "http://editor.test"

type harness struct {
	t      *testing.T
	router *gin.Engine
	c      *container.Container
	token  string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := logging.NewNopLogger()

	db, err := database.NewConnectionWithLogger(database.DriverSQLite, ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, schema.NewTableCreator().CreateSchema(db.DB))

	hash, err := security.HashPassword("secret")
	require.NoError(t, err)
	c := container.NewContainer(db.DB, logger, container.Options{
		JWTSecret:           "routes-test-secret",
		EditorPasswordHash:  hash,
		TokenTTL:            time.Hour,
		HistoryMaxSnapshots: 50,
		LiveBroadcastBuffer: 8,
		MediaDir:            t.TempDir(),
		MediaURLPrefix:      "/media",
		MaxImageWidth:       100,
		WebPQuality:         80,
		MaxUploadBytes:      1 << 20,
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go c.Broadcaster.Run(ctx)

	h := &harness{t: t, router: SetupRoutes(c, []string{editorOrigin}), c: c}
	status, body := h.call(http.MethodPost, "/api/v1/auth/login", `{"profileId":"p1","password":"secret"}`)
	require.Equal(t, http.StatusOK, status)
	h.token = body["token"].(string)
	return h
}

func (h *harness) serve(req *http.Request) *httptest.ResponseRecorder {
	if h.token != "" && req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

// call sends a JSON request and decodes the JSON object it answers with.
func (h *harness) call(method, path, body string) (int, map[string]any) {
	h.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := h.serve(req)

	var out map[string]any
	require.NoError(h.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w.Code, out
}

func (h *harness) openSession() (string, string) {
	h.t.Helper()
	status, body := h.call(http.MethodPost, "/api/v1/editor/sessions", "")
	require.Equal(h.t, http.StatusCreated, status, body)
	doc := body["state"].(map[string]any)["document"].(map[string]any)
	return body["sessionId"].(string), doc["body"].(map[string]any)["id"].(string)
}

func addText(target, text string) string {
	return `{"type":"ADD_ELEMENT","targetId":"` + target + `","elementDetails":{"type":"text","text":"` + text + `"}}`
}

func multipartFile(t *testing.T, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestHealthAndAuth(t *testing.T) {
	h := newHarness(t)

	status, body := h.call(http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	status, body = h.call(http.MethodGet, "/api/v1/auth/status", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "p1", body["profileId"])

	h.token = ""
	status, body = h.call(http.MethodPost, "/api/v1/auth/login", `{"profileId":"p1","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid credentials", body["error"])

	status, _ = h.call(http.MethodPost, "/api/v1/auth/login", `{"profileId":"p1"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = h.call(http.MethodGet, "/api/v1/cards", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "authorization required", body["error"])

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cards", nil)
	req.Header.Set("Authorization", "Bearer nonsense")
	assert.Equal(t, http.StatusUnauthorized, h.serve(req).Code)
}

func TestEditorFlow(t *testing.T) {
	h := newHarness(t)
	sessionID, body := h.openSession()
	base := "/api/v1/editor/sessions/" + sessionID

	status, res := h.call(http.MethodPost, base+"/commands", addText(body, "Hello"))
	require.Equal(t, http.StatusOK, status, res)
	assert.Equal(t, true, res["outcome"].(map[string]any)["recorded"])

	status, res = h.call(http.MethodPost, base+"/commands", `{"type":"SHUFFLE"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, res["outcome"].(map[string]any), "rejection")

	status, _ = h.call(http.MethodPost, base+"/commands", `{"type":`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, res = h.call(http.MethodPost, base+"/save", `{"name":"Greeting","altText":"hello card"}`)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, res["success"], res)
	cardID := res["cardId"].(string)

	status, res = h.call(http.MethodGet, base, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, cardID, res["cardId"])

	status, res = h.call(http.MethodGet, "/api/v1/cards", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1.0, res["count"])

	status, res = h.call(http.MethodGet, "/api/v1/cards/"+cardID, "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"type":"bubble","body":{"type":"text","text":"Hello"}}`, res["flexJson"].(string))

	status, _ = h.call(http.MethodDelete, "/api/v1/cards/"+cardID, "")
	assert.Equal(t, http.StatusOK, status)
	status, _ = h.call(http.MethodGet, "/api/v1/cards/"+cardID, "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = h.call(http.MethodDelete, base, "")
	assert.Equal(t, http.StatusOK, status)
	status, _ = h.call(http.MethodPost, base+"/commands", `{"type":"UNDO"}`)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestOpenSessionFailures(t *testing.T) {
	h := newHarness(t)

	status, _ := h.call(http.MethodPost, "/api/v1/editor/sessions", `{"cardId":"missing"}`)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = h.call(http.MethodPost, "/api/v1/editor/sessions", `{"flexJson":{"type":"marquee"}}`)
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = h.call(http.MethodPost, "/api/v1/editor/sessions", `not json`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body := h.call(http.MethodPost, "/api/v1/editor/sessions",
		`{"flexJson":{"type":"carousel","contents":[{"type":"bubble"},{"type":"bubble"}]}}`)
	require.Equal(t, http.StatusCreated, status)
	doc := body["state"].(map[string]any)["document"].(map[string]any)
	assert.Equal(t, "carousel", doc["type"])
}

func TestMediaUploads(t *testing.T) {
	h := newHarness(t)
	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 200, 100))))

	payload, contentType := multipartFile(t, "banner.png", img.Bytes())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/media/images", payload)
	req.Header.Set("Content-Type", contentType)
	w := h.serve(req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var uploaded struct {
		FileID string `json:"fileId"`
		URL    string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &uploaded))
	assert.True(t, strings.HasPrefix(uploaded.URL, "/media/images/"))

	served := h.serve(httptest.NewRequest(http.MethodGet, uploaded.URL, nil))
	assert.Equal(t, http.StatusOK, served.Code)

	status, res := h.call(http.MethodPost, "/api/v1/media/images", `{"filename":"bad.svg","data":"data:image/svg+xml;base64,PHN2Zz4="}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, res["error"], "svg")

	payload, contentType = multipartFile(t, "notes.txt", []byte("just text"))
	req = httptest.NewRequest(http.MethodPost, "/api/v1/media/videos", payload)
	req.Header.Set("Content-Type", contentType)
	assert.Equal(t, http.StatusBadRequest, h.serve(req).Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/media/videos", strings.NewReader(""))
	assert.Equal(t, http.StatusBadRequest, h.serve(req).Code, "missing file field")

	status, res = h.call(http.MethodGet, "/api/v1/media", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1.0, res["count"])
}

func TestSystemEndpoints(t *testing.T) {
	h := newHarness(t)

	status, res := h.call(http.MethodGet, "/api/v1/system/stats", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, res, "stats")

	status, _ = h.call(http.MethodPost, "/api/v1/system/logs/levels", `{"channel":"editor","level":"DEBUG"}`)
	assert.Equal(t, http.StatusOK, status)
	status, res = h.call(http.MethodGet, "/api/v1/system/logs/levels", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "DEBUG", res["levels"].(map[string]any)["editor"])

	status, _ = h.call(http.MethodPost, "/api/v1/system/logs/levels", `{"channel":"nosuch","level":"INFO"}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCORSAndRequestID(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/cards", nil)
	req.Header.Set("Origin", editorOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := h.serve(req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, editorOrigin, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	assert.Equal(t, "req-42", h.serve(req).Header().Get("X-Request-ID"))
	assert.NotEmpty(t, h.serve(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)).Header().Get("X-Request-ID"))
}

func TestLivePreview(t *testing.T) {
	h := newHarness(t)
	sessionID, body := h.openSession()
	srv := httptest.NewServer(h.router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/editor/sessions/" + sessionID + "/live?token=" + h.token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() map[string]any {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		var out map[string]any
		require.NoError(t, json.Unmarshal(msg, &out))
		return out
	}

	snapshot := read()
	assert.Equal(t, "preview", snapshot["type"])
	require.Eventually(t, func() bool { return h.c.Broadcaster.ClientCount(sessionID) == 1 }, time.Second, 5*time.Millisecond)

	base := "/api/v1/editor/sessions/" + sessionID + "/commands"
	status, _ := h.call(http.MethodPost, base, `{"type":"TOGGLE_LIVE_MODE"}`)
	require.Equal(t, http.StatusOK, status)
	status, _ = h.call(http.MethodPost, base, addText(body, "live text"))
	require.Equal(t, http.StatusOK, status)

	read()
	update := read()
	assert.Contains(t, update["html"], "live text")
	assert.Equal(t, 1.0, update["historyIndex"])

	dialer := websocket.Dialer{}
	header := http.Header{"Origin": []string{"http://evil.test"}}
	_, resp, err := dialer.Dial(wsURL, header)
	assert.Error(t, err)
	if resp != nil {
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	}
}
