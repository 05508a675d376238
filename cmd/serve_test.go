package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/viability-cli/internal/analyst"
	"github.com/sells-group/viability-cli/internal/model"
)

// fakeRunner records the last request and returns a canned result.
type fakeRunner struct {
	result      *analyst.Result
	err         error
	lastProduct string
	lastCountry string
}

func (f *fakeRunner) Run(_ context.Context, product, country string) (*analyst.Result, error) {
	f.lastProduct = product
	f.lastCountry = country
	return f.result, f.err
}

func TestBuildRouter_Health(t *testing.T) {
	router := buildRouter(&fakeRunner{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestBuildRouter_Countries(t *testing.T) {
	router := buildRouter(&fakeRunner{})

	req := httptest.NewRequest(http.MethodGet, "/countries", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var countries []model.CountryProfile
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &countries))
	require.Len(t, countries, 2)

	keys := []string{countries[0].Key, countries[1].Key}
	assert.Contains(t, keys, "INDIA")
	assert.Contains(t, keys, "UK")
}

func TestBuildRouter_Analyze_Valid(t *testing.T) {
	runner := &fakeRunner{
		result: &analyst.Result{
			RequestID: "req-1",
			Product:   "Smart Ring",
			Verdict:   model.Verdict{FinalScore: 7.5, VerdictTag: "STRONG CONTENDER"},
		},
	}
	router := buildRouter(runner)

	payload, _ := json.Marshal(map[string]string{
		"product": "Smart Ring",
		"country": "INDIA",
	})
	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Smart Ring", runner.lastProduct)
	assert.Equal(t, "INDIA", runner.lastCountry)

	var resp analyst.Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "req-1", resp.RequestID)
	assert.InDelta(t, 7.5, resp.Verdict.FinalScore, 0.001)
}

func TestBuildRouter_Analyze_DefaultCountry(t *testing.T) {
	runner := &fakeRunner{result: &analyst.Result{RequestID: "req-2"}}
	router := buildRouter(runner)

	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader([]byte(`{"product":"Mug"}`)))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "INDIA", runner.lastCountry)
}

func TestBuildRouter_Analyze_MissingProduct(t *testing.T) {
	router := buildRouter(&fakeRunner{})

	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "product is required")
}

func TestBuildRouter_Analyze_UnsupportedCountry(t *testing.T) {
	router := buildRouter(&fakeRunner{})

	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader([]byte(`{"product":"Mug","country":"MARS"}`)))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "unsupported country")
}

func TestBuildRouter_Analyze_InvalidJSON(t *testing.T) {
	router := buildRouter(&fakeRunner{})

	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid request body")
}

func TestBuildRouter_Analyze_RunnerError(t *testing.T) {
	router := buildRouter(&fakeRunner{err: eris.New("everything is down")})

	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader([]byte(`{"product":"Mug","country":"UK"}`)))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "analysis failed")
}
