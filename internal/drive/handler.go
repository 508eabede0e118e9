package drive

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/Adriano-luizello/Profeta-sub001/internal/pipeline"
)

type Handler struct {
	files    Files
	runner   *pipeline.Runner
	folderID string
}

func NewHandler(files Files, runner *pipeline.Runner, folderID string) *Handler {
	return &Handler{files: files, runner: runner, folderID: folderID}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/drive/files", h.ListFiles).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/drive/import", h.ImportFolder).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/drive/files/{id}/import", h.ImportFile).Methods(http.MethodPost)
}

func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	folderID := r.URL.Query().Get("folder_id")
	if folderID == "" {
		folderID = h.folderID
	}

	files, err := h.files.ListFiles(r.Context(), folderID)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"files": files, "total": len(files)})
}

// ImportFolder imports every spreadsheet of the folder
func (h *Handler) ImportFolder(w http.ResponseWriter, r *http.Request) {
	folderID := r.URL.Query().Get("folder_id")
	if folderID == "" {
		folderID = h.folderID
	}

	jobs, err := Jobs(r.Context(), h.files, folderID)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	h.run(w, r, jobs)
}

// ImportFile imports one Drive file. ?name= is used for format detection and
// defaults to a .csv name.
func (h *Handler) ImportFile(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	name := r.URL.Query().Get("name")
	if name == "" {
		name = id + ".csv"
	}

	h.run(w, r, []pipeline.Job{Job(h.files, &File{ID: id, Name: name})})
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request, jobs []pipeline.Job) {
	results, err := h.runner.Run(r.Context(), jobs)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}

	summary := pipeline.Summarize(results)
	status := http.StatusOK
	if summary.Failed > 0 {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, map[string]any{"summary": summary, "files": results})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("drive: failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
