package drive

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"github.com/Adriano-luizello/Profeta-sub001/internal/pipeline"
	"github.com/Adriano-luizello/Profeta-sub001/internal/service"
)

type fakeFiles struct {
	files    []*File
	contents map[string]string
}

func (f *fakeFiles) ListFiles(ctx context.Context, folderID string) ([]*File, error) {
	return f.files, nil
}

func (f *fakeFiles) DownloadFile(ctx context.Context, fileID string, w io.Writer) error {
	body, ok := f.contents[fileID]
	if !ok {
		return errors.New("not found")
	}
	_, err := io.WriteString(w, body)
	return err
}

type countingImporter struct {
	mu    sync.Mutex
	names []string
	fail  map[string]bool
}

func (c *countingImporter) Import(ctx context.Context, req service.ImportRequest) (*service.ImportResult, error) {
	c.mu.Lock()
	c.names = append(c.names, req.FileName)
	c.mu.Unlock()
	if c.fail[req.FileName] {
		return nil, service.ErrNoValidRows
	}
	return &service.ImportResult{AnalysisID: "a-" + req.FileName, FileName: req.FileName}, nil
}

func newFixture() (*fakeFiles, *countingImporter, *pipeline.Runner) {
	files := &fakeFiles{
		files: []*File{
			{ID: "1", Name: "vendas.csv", ModifiedTime: "t1"},
			{ID: "2", Name: "estoque.xlsx", ModifiedTime: "t1"},
			{ID: "3", Name: "notes.pdf", ModifiedTime: "t1"},
		},
		contents: map[string]string{"1": "a", "2": "b", "3": "c"},
	}
	importer := &countingImporter{fail: map[string]bool{}}
	return files, importer, pipeline.NewRunner(importer, pipeline.DefaultConfig("org-1"))
}

func TestJobs(t *testing.T) {
	files, _, _ := newFixture()

	jobs, err := Jobs(context.Background(), files, "folder")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 spreadsheet jobs, got %d", len(jobs))
	}

	data, err := jobs[1].Fetch(context.Background())
	if err != nil || string(data) != "b" {
		t.Fatalf("unexpected fetch %q, %v", data, err)
	}
}

func TestWatcherPoll(t *testing.T) {
	files, importer, runner := newFixture()
	importer.fail["estoque.xlsx"] = true
	w := NewWatcher(files, runner, "folder", 0)

	results, err := w.Poll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	// Only the failed file is retried
	importer.fail["estoque.xlsx"] = false
	results, _ = w.Poll(context.Background())
	if len(results) != 1 || results[0].Name != "estoque.xlsx" || results[0].Status != pipeline.FileStatusCompleted {
		t.Fatalf("expected a retry of estoque.xlsx, got %+v", results)
	}

	// Nothing changed
	if results, _ = w.Poll(context.Background()); len(results) != 0 {
		t.Fatalf("expected no work, got %+v", results)
	}

	// Modified upstream
	files.files[0].ModifiedTime = "t2"
	results, _ = w.Poll(context.Background())
	if len(results) != 1 || results[0].Name != "vendas.csv" {
		t.Fatalf("expected vendas.csv to be re-imported, got %+v", results)
	}
	if len(importer.names) != 4 {
		t.Fatalf("expected 4 imports, got %v", importer.names)
	}
}

func TestHandler(t *testing.T) {
	files, importer, runner := newFixture()
	importer.fail["estoque.xlsx"] = true

	router := mux.NewRouter()
	NewHandler(files, runner, "folder").RegisterRoutes(router)

	cases := []struct {
		name   string
		method string
		path   string
		status int
		want   string
	}{
		{"list", http.MethodGet, "/api/v1/drive/files", http.StatusOK, `"total":3`},
		{"import one", http.MethodPost, "/api/v1/drive/files/1/import?name=vendas.csv", http.StatusOK, `"completed":1`},
		{"import folder with a failure", http.MethodPost, "/api/v1/drive/import", http.StatusMultiStatus, `"failed":1`},
		{"wrong method", http.MethodDelete, "/api/v1/drive/files", http.StatusMethodNotAllowed, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
			if tc.want != "" && !strings.Contains(rec.Body.String(), tc.want) {
				t.Fatalf("expected body to contain %s, got %s", tc.want, rec.Body.String())
			}
		})
	}
}

func TestFileJSON(t *testing.T) {
	var f File
	if err := json.Unmarshal([]byte(`{"id":"x","name":"a.csv","size":"42"}`), &f); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Size != 42 {
		t.Fatalf("expected size 42, got %d", f.Size)
	}
}
