package controllers

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/541v4r54n/Web-Security-Experiment/config"
	"github.com/541v4r54n/Web-Security-Experiment/database"
)

var csrfMetaRe = regexp.MustCompile(`name="csrf-token" content="([^"]+)"`)

// testClient drives the assembled router like a browser: it carries cookies
// between requests and remembers the CSRF token scraped from pages.
type testClient struct {
	t       *testing.T
	router  *gin.Engine
	cfg     *config.Config
	cookies map[string]*http.Cookie
	csrf    string
}

func newTestApp(t *testing.T) *testClient {
	return newTestAppSessionMinutes(t, 60)
}

func newTestAppSessionMinutes(t *testing.T, minutes int) *testClient {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	c := &config.Config{
		SecretKey:      "test-secret",
		SessionMinutes: minutes,
		VarDir:         dir,
		DBPath:         filepath.Join(dir, "app.db"),
		UploadDir:      filepath.Join(dir, "uploads"),
		WatermarkedDir: filepath.Join(dir, "watermarked"),
	}
	require.NoError(t, c.EnsureDirs())
	require.NoError(t, database.Connect(c.DBPath))
	require.NoError(t, database.Migrate())

	return &testClient{
		t:       t,
		router:  NewRouter(c),
		cfg:     c,
		cookies: make(map[string]*http.Cookie),
	}
}

func (tc *testClient) do(req *http.Request) *httptest.ResponseRecorder {
	tc.t.Helper()
	for _, ck := range tc.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	tc.router.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(tc.cookies, ck.Name)
			continue
		}
		tc.cookies[ck.Name] = ck
	}
	return w
}

func (tc *testClient) get(path string) *httptest.ResponseRecorder {
	return tc.do(httptest.NewRequest(http.MethodGet, path, nil))
}

// postForm submits a urlencoded form, filling in the remembered CSRF token
// unless the caller set one explicitly.
func (tc *testClient) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	if form.Get("csrf_token") == "" && tc.csrf != "" {
		form.Set("csrf_token", tc.csrf)
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return tc.do(req)
}

// fetchCSRF loads the login page and scrapes the session's CSRF token.
func (tc *testClient) fetchCSRF() {
	tc.t.Helper()
	w := tc.get("/login")
	m := csrfMetaRe.FindStringSubmatch(w.Body.String())
	require.NotNil(tc.t, m, "no csrf token on page")
	tc.csrf = m[1]
}

func (tc *testClient) register(username, password string) *httptest.ResponseRecorder {
	tc.t.Helper()
	tc.fetchCSRF()
	return tc.postForm("/register", url.Values{"username": {username}, "password": {password}})
}

func (tc *testClient) login(username, password string) *httptest.ResponseRecorder {
	tc.t.Helper()
	tc.fetchCSRF()
	w := tc.postForm("/login", url.Values{"username": {username}, "password": {password}})
	// A successful login rewrites the session, invalidating the old token.
	tc.fetchCSRF()
	return w
}

func (tc *testClient) upload(filename string, content []byte, watermarkText string) *httptest.ResponseRecorder {
	tc.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(tc.t, mw.WriteField("csrf_token", tc.csrf))
	require.NoError(tc.t, mw.WriteField("watermark_text", watermarkText))
	fw, err := mw.CreateFormFile("image", filename)
	require.NoError(tc.t, err)
	_, err = fw.Write(content)
	require.NoError(tc.t, err)
	require.NoError(tc.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/images/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return tc.do(req)
}

// newClientSameApp returns a second browser with its own cookie jar against
// the same running app.
func newClientSameApp(tc *testClient) *testClient {
	return &testClient{
		t:       tc.t,
		router:  tc.router,
		cfg:     tc.cfg,
		cookies: make(map[string]*http.Cookie),
	}
}

func newFormRequest(t *testing.T, path string, form url.Values) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// pngBytes renders a solid-color PNG for upload tests.
func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
