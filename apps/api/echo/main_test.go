package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/trezcool/rambam/core"
	"github.com/trezcool/rambam/core/curriculum"
	"github.com/trezcool/rambam/core/insight"
	"github.com/trezcool/rambam/core/study"
	"github.com/trezcool/rambam/core/text"
	logsvc "github.com/trezcool/rambam/services/logger"
	"github.com/trezcool/rambam/storage/database/dbtest"
	sqlxrepos "github.com/trezcool/rambam/storage/database/sqlx"
)

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
}

type testApp struct {
	server   *Server
	provider *text.ProviderMock
	repo     insight.Repository
}

// setup serves the bundled catalog from a mock provider. Articles live in SQLite unless repo is given.
func setup(t *testing.T, repo ...insight.Repository) testApp {
	t.Helper()

	cat, err := curriculum.Default()
	require.NoError(t, err)
	studySvc, err := study.NewService(cat, study.DefaultConfig())
	require.NoError(t, err)

	provider := text.NewProviderMock()
	var articles insight.Repository
	if len(repo) > 0 {
		articles = repo[0]
	} else {
		articles = sqlxrepos.NewArticleRepository(dbtest.PrepareDB(t))
	}

	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)

	server := NewServer(
		Options{TestMode: true, DisableReqLogs: true},
		Deps{
			StudySvc:   studySvc,
			TextSvc:    text.NewService(provider, studySvc.Sequence()),
			InsightSvc: insight.NewService(articles, cat),
			Validate:   validate,
			Translator: translator,
			Logger:     logsvc.NewZap(zap.NewNop()),
		},
	)
	t.Cleanup(func() { _ = server.Close() })
	return testApp{server: server, provider: provider, repo: articles}
}

func (app testApp) do(method, path string, data ...[]byte) *httptest.ResponseRecorder {
	req, rec := newRequest(method, path, data...)
	app.server.ServeHTTP(rec, req)
	return rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode() failed: %v; body %s", err, rec.Body.String())
	}
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, app testApp, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			checkCodeAndData(t, tt, app.do(method, tt.path, tt.body))
		})
	}
}

func TestHome(t *testing.T) {
	app := setup(t)
	rec := app.do(http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Rambam API!", rec.Body.String())
}

func TestUnknownRoute(t *testing.T) {
	app := setup(t)
	runHTTPTests(t, app, []httpTest{
		{
			name:     "not found",
			path:     "/v1/nowhere",
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "Not Found"}),
		},
	})
}

func TestMetrics(t *testing.T) {
	app := setup(t)
	app.do(http.MethodGet, "/v1/catalog")

	rec := app.do(http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `rambam_http_requests_total{code="200",method="GET",route="/v1/catalog"}`)
}
