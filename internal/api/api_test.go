package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Adriano-luizello/Profeta-sub001/internal/recommendation"
	"github.com/Adriano-luizello/Profeta-sub001/internal/repository/memory"
	"github.com/Adriano-luizello/Profeta-sub001/internal/service"
	"github.com/Adriano-luizello/Profeta-sub001/internal/supplychain"
)

const salesCSV = "date;product;quantity;price;supplier;stock\n" +
	"01/03/2026;Widget;10;2,5;Acme;100\n" +
	"02/03/2026;Widget;20;2,5;Acme;80\n" +
	"01/03/2026;Gadget;5;10;;\n"

func fixedNow() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) }

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	defaults := supplychain.DefaultParams()
	services := &Services{
		Upload:      service.NewUploadService(store, nil, nil, service.DefaultUploadOptions(), fixedNow),
		SupplyChain: service.NewSupplyChainService(store, nil, defaults, 500, fixedNow),
		Settings:    service.NewSettingsService(store, nil, defaults),
	}
	return NewRouter(services, RouterOptions{MaxUploadBytes: 1 << 20})
}

func multipartBody(t *testing.T, fileName, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, w.FormDataContentType()
}

func do(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func importSales(t *testing.T, router *gin.Engine) string {
	t.Helper()
	body, contentType := multipartBody(t, "vendas.csv", salesCSV, map[string]string{"organization_id": "org-1"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", body)
	req.Header.Set("Content-Type", contentType)

	rec := do(router, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var res service.ImportResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode import result: %v", err)
	}
	if res.AnalysisID == "" || res.Products != 2 {
		t.Fatalf("unexpected import result: %+v", res)
	}
	return res.AnalysisID
}

func TestHealth(t *testing.T) {
	rec := do(newTestRouter(), httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected a request id header")
	}
}

func TestUploadAndSupplyChain(t *testing.T) {
	router := newTestRouter()
	analysisID := importSales(t, router)

	rec := do(router, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+analysisID, nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status_label":"Completed"`) {
		t.Fatalf("unexpected analysis %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(router, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+analysisID+"/supply-chain", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var metrics struct {
		Data  []supplychain.Metrics `json:"data"`
		Total int                   `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &metrics); err != nil {
		t.Fatalf("decode metrics: %v", err)
	}
	if metrics.Total != 2 || metrics.Data[0].ProductName != "Widget" || metrics.Data[0].UrgencyLevel != supplychain.UrgencyCritical {
		t.Fatalf("unexpected metrics: %+v", metrics)
	}

	rec = do(router, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+analysisID+"/recommendations", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var recs struct {
		Data []recommendation.GeneratedRecommendation `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &recs); err != nil {
		t.Fatalf("decode recommendations: %v", err)
	}
	if len(recs.Data) != 2 || recs.Data[0].Action != recommendation.ActionUrgentRestock {
		t.Fatalf("unexpected recommendations: %+v", recs.Data)
	}

	rec = do(router, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+analysisID+"/supply-chain/summary", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"total_products":2`) {
		t.Fatalf("unexpected summary %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUploadErrors(t *testing.T) {
	router := newTestRouter()

	cases := []struct {
		name     string
		fileName string
		content  string
		fields   map[string]string
		status   int
	}{
		{"missing organization", "vendas.csv", salesCSV, nil, http.StatusBadRequest},
		{"rejected extension", "vendas.txt", salesCSV, map[string]string{"organization_id": "org-1"}, http.StatusBadRequest},
		{"bad mapping json", "vendas.csv", salesCSV, map[string]string{"organization_id": "org-1", "mapping": "{"}, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, contentType := multipartBody(t, tc.fileName, tc.content, tc.fields)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", body)
			req.Header.Set("Content-Type", contentType)

			if rec := do(router, req); rec.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestDetect(t *testing.T) {
	body, contentType := multipartBody(t, "vendas.csv", salesCSV, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/detect", body)
	req.Header.Set("Content-Type", contentType)

	rec := do(newTestRouter(), req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var res service.DetectResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode detect result: %v", err)
	}
	if res.TotalRows != 3 || res.Mapping == nil || res.Mapping.Product != "product" {
		t.Fatalf("unexpected detect result: %+v", res)
	}
}

func TestUnknownAnalysis(t *testing.T) {
	rec := do(newTestRouter(), httptest.NewRequest(http.MethodGet, "/api/v1/analyses/missing/supply-chain", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSettings(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPut, "/api/v1/organizations/org-1/settings", strings.NewReader(`{"lead_time_days":10,"moq":50}`))
	req.Header.Set("Content-Type", "application/json")
	rec := do(router, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(router, httptest.NewRequest(http.MethodGet, "/api/v1/organizations/org-1/settings", nil))
	var view service.SettingsView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if view.Effective.LeadTimeDays != 10 || view.Effective.MOQ != 50 || view.Effective.SafetyStockMultiplier != 1.5 {
		t.Fatalf("unexpected effective settings: %+v", view.Effective)
	}

	req = httptest.NewRequest(http.MethodPut, "/api/v1/organizations/org-1/settings", strings.NewReader(`{"moq":-1}`))
	req.Header.Set("Content-Type", "application/json")
	if rec := do(router, req); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative moq, got %d", rec.Code)
	}
}

func TestGenerateRecommendations(t *testing.T) {
	body := `{"inputs":[{"product_id":"p1","product_name":"Widget","avg_daily_demand":15,"current_stock":80}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := do(newTestRouter(), req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var res struct {
		Data []recommendation.GeneratedRecommendation `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Data) != 1 || res.Data[0].Action != recommendation.ActionUrgentRestock || *res.Data[0].RecommendedQuantity != 600 {
		t.Fatalf("unexpected recommendation: %+v", res.Data)
	}
}

func TestNormalizeAllowedOrigins(t *testing.T) {
	origins, allowAll := normalizeAllowedOrigins([]string{"http://a.test, http://b.test", " ", "*"})
	if !allowAll || len(origins) != 2 || origins[1] != "http://b.test" {
		t.Fatalf("unexpected origins %v allowAll=%v", origins, allowAll)
	}
}
