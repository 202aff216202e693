package httpapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/andreyvit/logdex"
	"github.com/andreyvit/logdex/internal/httpapi"
)

func newTestHandler(t *testing.T) *httpapi.Handler {
	t.Helper()
	e, err := logdex.Open(logdex.Options{FS: afero.NewMemMapFs(), SeedCount: 2})
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return httpapi.New(e, nil)
}

func TestHandlePageAndInsert(t *testing.T) {
	mux := newTestHandler(t).Mux()

	req := httptest.NewRequest(http.MethodGet, "/records?page=1", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Records []logdex.Record `json:"records"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Records, 2)

	body := strings.NewReader(`{"name":"Ada","email":"ada@example.com"}`)
	insReq := httptest.NewRequest(http.MethodPost, "/records", body)
	insRec := httptest.NewRecorder()
	mux.ServeHTTP(insRec, insReq)
	require.Equal(t, http.StatusCreated, insRec.Code)
}

func TestHandleGetNotFound(t *testing.T) {
	mux := newTestHandler(t).Mux()

	req := httptest.NewRequest(http.MethodGet, "/records/does-not-exist", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleInsertRejectsMissingFields(t *testing.T) {
	mux := newTestHandler(t).Mux()

	body := strings.NewReader(`{"name":"Ada"}`)
	req := httptest.NewRequest(http.MethodPost, "/records", body)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
