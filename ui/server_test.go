package ui

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardiodash/internal/charts"
	"cardiodash/internal/config"
	"cardiodash/internal/dashboard"
	"cardiodash/internal/resources"
	"cardiodash/internal/session"
)

const (
	datasetFixture = "../testdata/heart_failure_sample.csv"
	modelFixture   = "../testdata/forest_model.json"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		App:    config.AppConfig{Name: "cardiodash", Env: "test"},
		Server: config.ServerConfig{Port: "0", GinMode: "test"},
		Data: config.DataConfig{
			DatasetPath:     datasetFixture,
			ModelPath:       modelFixture,
			BackgroundImage: filepath.Join(t.TempDir(), "missing.jpeg"),
			SampleSize:      5,
		},
		Session:   config.SessionConfig{TTL: time.Minute, CacheBytes: 1 << 20, CookieName: "cardiodash_session"},
		Telemetry: config.TelemetryConfig{ServiceName: "cardiodash"},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) (*Server, *resources.Loader) {
	t.Helper()
	loader := resources.NewLoader(cfg.Data.DatasetPath, cfg.Data.ModelPath)
	chartRenderer, err := charts.NewRenderer()
	require.NoError(t, err)
	t.Cleanup(chartRenderer.Close)

	s, err := NewServer(Deps{
		Config:     cfg,
		Controller: dashboard.NewController(loader, chartRenderer, dashboard.Options{SampleSize: cfg.Data.SampleSize}),
		Sessions:   dashboard.NewSessions(session.NewStore(cfg.Session.CacheBytes, cfg.Session.TTL)),
		Resources:  loader,
		Charts:     chartRenderer,
	})
	require.NoError(t, err)
	return s, loader
}

// client carries the session cookie between requests the way a browser does.
type client struct {
	t       *testing.T
	handler http.Handler
	cookie  *http.Cookie
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "cardiodash_session" {
			c.cookie = ck
		}
	}
	return w
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func TestLandingDegradesWithoutBackground(t *testing.T) {
	s, _ := newTestServer(t, testConfig(t))
	c := &client{t: t, handler: s.Handler()}

	w := c.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `href="/dashboard"`)
	assert.Contains(t, body, "Heart Failure Check-Up")
	assert.NotContains(t, body, "data:image")
}

func TestLandingEmbedsBackground(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.BackgroundImage = filepath.Join(t.TempDir(), "background.png")
	require.NoError(t, os.WriteFile(cfg.Data.BackgroundImage, []byte("\x89PNG\r\n\x1a\nfake"), 0o644))
	s, _ := newTestServer(t, cfg)

	w := (&client{t: t, handler: s.Handler()}).get("/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "data:image/png;base64,")
}

func TestDashboardIssuesSessionAndDefaults(t *testing.T) {
	s, _ := newTestServer(t, testConfig(t))
	c := &client{t: t, handler: s.Handler()}

	w := c.get("/dashboard")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, c.cookie)
	assert.True(t, session.ValidID(c.cookie.Value))
	assert.True(t, c.cookie.HttpOnly)

	body := w.Body.String()
	assert.Contains(t, body, "Dataset Overview")
	assert.Contains(t, body, `name="menu"`)
	assert.Contains(t, body, "(16, 13)")
	assert.Contains(t, body, "9 rows")
}

func TestDashboardFilterQuery(t *testing.T) {
	s, _ := newTestServer(t, testConfig(t))
	c := &client{t: t, handler: s.Handler()}

	w := c.get("/dashboard?age_lo=40&age_hi=60&sex=Male")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "7 rows")

	w = c.get("/dashboard?age_lo=91&age_hi=95&sex=All")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "0 rows")
	assert.Contains(t, w.Body.String(), `name="age_lo" min="0" max="130" value="91"`)

	w = c.get("/dashboard?age_lo=10&age_hi=20&sex=All")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "0 rows")

	w = c.get("/dashboard?age_lo=85&age_hi=95&sex=All")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "1 row<")
	assert.NotContains(t, w.Body.String(), "1 rows")
}

func TestMenuSelectionPersistsAcrossToggles(t *testing.T) {
	s, _ := newTestServer(t, testConfig(t))
	c := &client{t: t, handler: s.Handler()}
	c.get("/dashboard")

	w := c.postForm("/dashboard/menu", url.Values{"menu": {"Visualisations"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, c.get("/dashboard").Body.String(), "Data Visualisations")

	w = c.postForm("/dashboard/sidebar", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)

	body := c.get("/dashboard").Body.String()
	assert.Contains(t, body, "Data Visualisations")
	assert.NotContains(t, body, `name="menu"`)
	assert.Contains(t, body, `href="/dashboard?menu=Model%20Performance"`)

	c.postForm("/dashboard/menu", url.Values{"menu": {"Model Performance"}})
	assert.Contains(t, c.get("/dashboard").Body.String(), "Data Visualisations")

	body = c.get("/dashboard?menu=" + url.QueryEscape("Model Performance")).Body.String()
	assert.Contains(t, body, "Model Performance Metrics")

	c.postForm("/dashboard/sidebar", nil)
	body = c.get("/dashboard").Body.String()
	assert.Contains(t, body, `name="menu"`)
	assert.NotContains(t, body, `class="shortcuts"`)
	assert.Contains(t, body, "Model Performance Metrics")
}

func TestSessionsAreIndependent(t *testing.T) {
	s, _ := newTestServer(t, testConfig(t))
	alice := &client{t: t, handler: s.Handler()}
	bob := &client{t: t, handler: s.Handler()}
	alice.get("/dashboard")
	bob.get("/dashboard")

	alice.postForm("/dashboard/menu", url.Values{"menu": {"Model Performance"}})

	assert.Contains(t, alice.get("/dashboard").Body.String(), "Model Performance Metrics")
	assert.Contains(t, bob.get("/dashboard").Body.String(), "Dataset Overview")
}

func TestPredictOnlyAfterAction(t *testing.T) {
	s, _ := newTestServer(t, testConfig(t))
	c := &client{t: t, handler: s.Handler()}

	body := c.get("/dashboard?menu=" + url.QueryEscape("Model Prediction")).Body.String()
	assert.Contains(t, body, "Predict Heart Failure Risk")
	assert.NotContains(t, body, "Prediction complete")

	w := c.postForm("/dashboard/predict", url.Values{
		"age": {"60"}, "anaemia": {"0"}, "creatinine_phosphokinase": {"582"}, "diabetes": {"0"},
		"ejection_fraction": {"38"}, "high_blood_pressure": {"0"}, "platelets": {"265000"},
		"serum_creatinine": {"1.1"}, "serum_sodium": {"137"}, "sex": {"0"}, "smoking": {"0"}, "time": {"130"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	body = w.Body.String()
	assert.Contains(t, body, "Prediction complete")
	assert.Contains(t, body, "SURVIVAL")
	assert.Contains(t, body, "17.14%")
}

func TestPredictRejectsOutOfRangeForm(t *testing.T) {
	s, _ := newTestServer(t, testConfig(t))
	c := &client{t: t, handler: s.Handler()}

	w := c.postForm("/dashboard/predict", url.Values{"age": {"200"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error-panel")
	assert.NotContains(t, w.Body.String(), "Prediction complete")
}

func TestChartRoutes(t *testing.T) {
	s, _ := newTestServer(t, testConfig(t))
	c := &client{t: t, handler: s.Handler()}

	for _, name := range charts.Names {
		w := c.get("/charts/" + name)
		require.Equal(t, http.StatusOK, w.Code, name)
		assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	}
	assert.Equal(t, http.StatusNotFound, c.get("/charts/radar.svg").Code)
}

func TestAPIPredict(t *testing.T) {
	s, _ := newTestServer(t, testConfig(t))
	c := &client{t: t, handler: s.Handler()}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/predict", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := c.do(req)
	require.Equal(t, http.StatusOK, w.Code)

	var result dashboard.PredictionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "SURVIVAL", result.Outcome)
	assert.Equal(t, "17.14%", result.ProbabilityText)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/predict", strings.NewReader(`{"age": 200}`))
	req.Header.Set("Content-Type", "application/json")
	w = c.do(req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"INVALID_INPUT"`)
}

func TestAPIPerformance(t *testing.T) {
	s, _ := newTestServer(t, testConfig(t))
	w := (&client{t: t, handler: s.Handler()}).get("/api/v1/performance")
	require.Equal(t, http.StatusOK, w.Code)

	var perf performanceJSON
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &perf))
	assert.Equal(t, 16, perf.Total)
	assert.InDelta(t, 0.875, perf.Accuracy, 1e-9)
	assert.Equal(t, [][]int{{7, 2}, {0, 7}}, perf.ConfusionMatrix)
	assert.Len(t, perf.Report, 5)
}

func TestMissingDatasetShowsErrorPanel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.DatasetPath = filepath.Join(t.TempDir(), "missing.csv")
	s, _ := newTestServer(t, cfg)
	c := &client{t: t, handler: s.Handler()}

	w := c.get("/dashboard")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "error-panel")
	assert.Contains(t, w.Body.String(), "failed to load dataset")

	assert.Equal(t, http.StatusServiceUnavailable, c.get("/api/v1/performance").Code)

	body := c.get("/dashboard?menu=" + url.QueryEscape("Model Prediction")).Body.String()
	assert.NotContains(t, body, "error-panel")
}

func TestResponsesAreCompressed(t *testing.T) {
	s, _ := newTestServer(t, testConfig(t))
	c := &client{t: t, handler: s.Handler()}

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := c.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "gzip", w.Header().Get("Content-Encoding"))

	zr, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Dataset Overview")
}

func TestAdminHealth(t *testing.T) {
	loader := resources.NewLoader(datasetFixture, modelFixture)
	admin := NewAdmin(loader, false)

	w := httptest.NewRecorder()
	admin.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	loader.Warm(context.Background())
	w = httptest.NewRecorder()
	admin.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	w = httptest.NewRecorder()
	admin.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminProfiler(t *testing.T) {
	admin := NewAdmin(resources.NewLoader(datasetFixture, modelFixture), true)
	w := httptest.NewRecorder()
	admin.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
