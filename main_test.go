package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"product-intel/pkg/api"
	"product-intel/pkg/cache"
	"product-intel/pkg/history"
	"product-intel/pkg/logger"
	"product-intel/pkg/models"
	"product-intel/pkg/review"
)

type fakeBuilder struct {
	report   *models.IntelligenceReport
	err      error
	lastName string
	lastOpts review.Options
	calls    int
}

func (f *fakeBuilder) BuildReport(_ context.Context, productName string, opts review.Options) (*models.IntelligenceReport, error) {
	f.calls++
	f.lastName = productName
	f.lastOpts = opts
	return f.report, f.err
}

func newTestApp(t *testing.T, builder *fakeBuilder) *app {
	t.Helper()
	log := logger.NewNop()
	store, err := history.New(filepath.Join(t.TempDir(), "history.db"), log)
	if err != nil {
		t.Fatalf("failed to open history store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return &app{
		builder:   builder,
		history:   store,
		cache:     cache.New(t.TempDir(), time.Hour, 100, log),
		log:       log,
		semaphore: make(chan struct{}, 1),
	}
}

func sampleReport(name string) *models.IntelligenceReport {
	return &models.IntelligenceReport{
		ReviewDocument: models.ReviewDocument{
			ProductName: name,
			Assessment:  "Solid mid-range phone.",
		},
		DataQuality: "good",
	}
}

func TestReportHandlerErrors(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		path           string
		buildErr       error
		expectedStatus int
		expectedDetail string
	}{
		{
			name:           "Invalid Path - Missing product",
			method:         "GET",
			path:           "/reports/",
			expectedStatus: http.StatusBadRequest,
			expectedDetail: "Invalid path. Expected /reports/{product-name}",
		},
		{
			name:           "Wrong method for report",
			method:         "DELETE",
			path:           "/reports/iphone%2015",
			expectedStatus: http.StatusBadRequest,
			expectedDetail: "Method not allowed. Use GET for reports.",
		},
		{
			name:           "Wrong method for refresh",
			method:         "GET",
			path:           "/reports/iphone%2015/refresh",
			expectedStatus: http.StatusBadRequest,
			expectedDetail: "Method not allowed for refresh endpoint. Use POST.",
		},
		{
			name:           "Validation failure",
			method:         "GET",
			path:           "/reports/x",
			buildErr:       fmt.Errorf("%w: too short", review.ErrInvalidProduct),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedDetail: "invalid product name",
		},
		{
			name:           "Generation failure",
			method:         "GET",
			path:           "/reports/iphone%2015",
			buildErr:       fmt.Errorf("%w: empty response", review.ErrGeneration),
			expectedStatus: http.StatusBadGateway,
			expectedDetail: "review generation failed",
		},
		{
			name:           "Upstream timeout",
			method:         "GET",
			path:           "/reports/iphone%2015",
			buildErr:       fmt.Errorf("search failed: context deadline exceeded"),
			expectedStatus: http.StatusGatewayTimeout,
			expectedDetail: "Upstream service timed out",
		},
		{
			name:           "Unexpected failure",
			method:         "GET",
			path:           "/reports/iphone%2015",
			buildErr:       fmt.Errorf("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedDetail: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t, &fakeBuilder{err: tt.buildErr})

			req, err := http.NewRequest(tt.method, tt.path, nil)
			if err != nil {
				t.Fatal(err)
			}

			rr := httptest.NewRecorder()
			http.HandlerFunc(a.rootHandler).ServeHTTP(rr, req)

			if status := rr.Code; status != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v",
					status, tt.expectedStatus)
			}

			expectedContentType := "application/problem+json"
			if contentType := rr.Header().Get("Content-Type"); contentType != expectedContentType {
				t.Errorf("handler returned wrong content type: got %v want %v",
					contentType, expectedContentType)
			}

			var pd api.ProblemDetails
			if err := json.Unmarshal(rr.Body.Bytes(), &pd); err != nil {
				t.Errorf("handler returned invalid JSON: %v. Body: %s", err, rr.Body.String())
			}
			if pd.Status != tt.expectedStatus {
				t.Errorf("JSON status mismatch: got %v want %v", pd.Status, tt.expectedStatus)
			}
			if !strings.Contains(pd.Detail, tt.expectedDetail) {
				t.Errorf("JSON detail mismatch: got %q, want substring %q", pd.Detail, tt.expectedDetail)
			}
		})
	}
}

func TestReportHandlerSuccess(t *testing.T) {
	builder := &fakeBuilder{report: sampleReport("iPhone 15")}
	a := newTestApp(t, builder)

	req, err := http.NewRequest("GET", "/reports/iPhone%2015?global=true&mode=hybrid", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(a.rootHandler).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v. Body: %s",
			rr.Code, http.StatusOK, rr.Body.String())
	}
	if builder.lastName != "iPhone 15" {
		t.Errorf("product name not unescaped: got %q", builder.lastName)
	}
	if !builder.lastOpts.IncludeGlobal {
		t.Error("global query param not propagated")
	}
	if builder.lastOpts.Mode != "hybrid" {
		t.Errorf("mode query param not propagated: got %q", builder.lastOpts.Mode)
	}

	var report models.IntelligenceReport
	if err := json.Unmarshal(rr.Body.Bytes(), &report); err != nil {
		t.Fatalf("handler returned invalid JSON: %v", err)
	}
	if report.ProductName != "iPhone 15" {
		t.Errorf("report product name mismatch: got %q", report.ProductName)
	}
}

func TestReportHandlerSavesHistoryForUser(t *testing.T) {
	builder := &fakeBuilder{report: sampleReport("Tecno Spark 20")}
	a := newTestApp(t, builder)

	req, err := http.NewRequest("GET", "/reports/Tecno%20Spark%2020?user=u-1", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(a.rootHandler).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}

	entry, ok := a.history.Get("u-1", "Tecno Spark 20")
	if !ok {
		t.Fatal("report was not saved to history")
	}
	if entry.Report.ProductName != "Tecno Spark 20" {
		t.Errorf("stored report mismatch: got %q", entry.Report.ProductName)
	}
}

func TestRefreshInvalidatesCacheAndRebuilds(t *testing.T) {
	builder := &fakeBuilder{report: sampleReport("PS5")}
	a := newTestApp(t, builder)

	a.cache.Set("search_PS5", []models.SearchResult{
		{Title: "PS5 review", URL: "https://reviews.example.com/ps5", Domain: "reviews.example.com"},
	}, 0)
	a.cache.Set("content_https://reviews.example.com/ps5", models.ScrapedContent{
		URL:     "https://reviews.example.com/ps5",
		Content: "stale page text",
	}, 0)
	a.cache.Set("all_prices_PS5_false", "stale", 0)

	req, err := http.NewRequest("POST", "/reports/PS5/refresh", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(a.rootHandler).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d. Body: %s", rr.Code, rr.Body.String())
	}
	if builder.calls != 1 {
		t.Errorf("expected one rebuild, got %d", builder.calls)
	}

	var stale []models.SearchResult
	if a.cache.Get("search_PS5", &stale) {
		t.Error("search cache entry survived refresh")
	}
	var page models.ScrapedContent
	if a.cache.Get("content_https://reviews.example.com/ps5", &page) {
		t.Error("scraped content entry survived refresh")
	}
	var price string
	if a.cache.Get("all_prices_PS5_false", &price) {
		t.Error("price cache entry survived refresh")
	}
}

func TestHistoryHandler(t *testing.T) {
	a := newTestApp(t, &fakeBuilder{})
	a.history.Save("u-2", "iPhone 15", sampleReport("iPhone 15"))
	a.history.Save("u-2", "PS5", sampleReport("PS5"))
	a.history.Save("other", "PS5", sampleReport("PS5"))

	req, err := http.NewRequest("GET", "/history?user=u-2", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(a.rootHandler).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d. Body: %s", rr.Code, rr.Body.String())
	}

	var entries []history.Entry
	if err := json.Unmarshal(rr.Body.Bytes(), &entries); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.UserID != "u-2" {
			t.Errorf("entry for wrong user: %q", e.UserID)
		}
	}
}

func TestHistoryHandlerSingleEntry(t *testing.T) {
	a := newTestApp(t, &fakeBuilder{})
	a.history.Save("u-3", "Tecno Spark 20", sampleReport("Tecno Spark 20"))

	req, err := http.NewRequest("GET", "/history/Tecno%20Spark%2020?user=u-3", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(a.rootHandler).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d. Body: %s", rr.Code, rr.Body.String())
	}

	var entry history.Entry
	if err := json.Unmarshal(rr.Body.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if entry.ProductName != "Tecno Spark 20" {
		t.Errorf("entry product mismatch: got %q", entry.ProductName)
	}
	if entry.UserID != "u-3" {
		t.Errorf("entry user mismatch: got %q", entry.UserID)
	}
}

func TestHistoryHandlerSingleEntryNotFound(t *testing.T) {
	a := newTestApp(t, &fakeBuilder{})

	req, err := http.NewRequest("GET", "/history/Unknown%20Gadget?user=u-3", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(a.rootHandler).ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", rr.Code)
	}

	var pd api.ProblemDetails
	if err := json.Unmarshal(rr.Body.Bytes(), &pd); err != nil {
		t.Fatal(err)
	}
	if pd.Status != http.StatusNotFound {
		t.Errorf("JSON status mismatch: got %v", pd.Status)
	}
}

func TestHistoryHandlerRequiresUser(t *testing.T) {
	a := newTestApp(t, &fakeBuilder{})

	req, err := http.NewRequest("GET", "/history", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(a.rootHandler).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rr.Code)
	}

	var pd api.ProblemDetails
	if err := json.Unmarshal(rr.Body.Bytes(), &pd); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(pd.Detail, "user") {
		t.Errorf("detail should mention the missing parameter: %q", pd.Detail)
	}
}
