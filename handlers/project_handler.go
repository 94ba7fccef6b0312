package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"statedash/config"
	"statedash/export"
	"statedash/middleware"
	"statedash/models"
	"statedash/repository"
)

// ProjectHandler exposes the projects registry over HTTP. All persistence
// goes through the injected repository; handlers never touch the store
// directly.
type ProjectHandler struct {
	Repo repository.ProjectRepository
}

func NewProjectHandler(repo repository.ProjectRepository) *ProjectHandler {
	return &ProjectHandler{Repo: repo}
}

type listResponse struct {
	Success bool             `json:"success"`
	Data    []models.Project `json:"data"`
	Count   int              `json:"count"`
}

type projectResponse struct {
	Success bool            `json:"success"`
	Data    *models.Project `json:"data"`
	Message string          `json:"message,omitempty"`
}

type statsResponse struct {
	Success bool                   `json:"success"`
	Data    *models.AggregateStats `json:"data"`
}

type errorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// writeRepoError maps repository errors onto the HTTP taxonomy. Anything
// unrecognized becomes a generic 500 with the detail kept in the log.
func writeRepoError(w http.ResponseWriter, op string, err error) {
	var validation *repository.ValidationError
	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "Missing or invalid required fields",
			Fields: validation.Fields,
		})
	case errors.Is(err, repository.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "Insufficient permissions"})
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Project not found"})
	default:
		log.Printf("%s failed: %v", op, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}
}

// ListProjects handles GET /projects with optional query filters.
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := models.ProjectFilters{
		StateID:       q.Get("state_id"),
		Type:          q.Get("type"),
		Status:        q.Get("status"),
		StartDateFrom: q.Get("start_date_from"),
		StartDateTo:   q.Get("start_date_to"),
		EndDateFrom:   q.Get("end_date_from"),
		EndDateTo:     q.Get("end_date_to"),
	}

	var projects []models.Project
	var err error
	if filters.Empty() {
		projects, err = h.Repo.List(r.Context())
	} else {
		projects, err = h.Repo.ListFiltered(r.Context(), filters)
	}
	if err != nil {
		writeRepoError(w, "ListProjects", err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Success: true, Data: projects, Count: len(projects)})
}

// GetProject handles GET /projects/{id}.
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	project, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		writeRepoError(w, "GetProject", err)
		return
	}
	writeJSON(w, http.StatusOK, projectResponse{Success: true, Data: project})
}

// CreateProject handles POST /projects. Authentication is enforced by the
// middleware; the role check happens again inside the repository.
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var input repository.ProjectInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("Invalid request body: %v", err)})
		return
	}

	project, err := h.Repo.Create(r.Context(), input, middleware.UserID(r))
	if err != nil {
		writeRepoError(w, "CreateProject", err)
		return
	}
	h.invalidateStats()
	writeJSON(w, http.StatusCreated, projectResponse{
		Success: true,
		Data:    project,
		Message: "Project created successfully",
	})
}

// UpdateProject handles PUT /projects/{id} with a partial-field body.
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var input repository.ProjectInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("Invalid request body: %v", err)})
		return
	}

	project, err := h.Repo.Update(r.Context(), id, input, middleware.UserID(r))
	if err != nil {
		writeRepoError(w, "UpdateProject", err)
		return
	}
	h.invalidateStats()
	writeJSON(w, http.StatusOK, projectResponse{
		Success: true,
		Data:    project,
		Message: "Project updated successfully",
	})
}

// DeleteProject handles DELETE /projects/{id}.
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.Repo.Delete(r.Context(), id, middleware.UserID(r)); err != nil {
		writeRepoError(w, "DeleteProject", err)
		return
	}
	h.invalidateStats()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Project deleted successfully",
	})
}

// GetStatistics handles GET /projects/stats, serving from the stats cache
// when a computation is still fresh.
func (h *ProjectHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	cacheKey := config.GetCacheKey("project_stats")
	if config.StatsCache != nil {
		if cached, found := config.StatsCache.Get(cacheKey); found {
			writeJSON(w, http.StatusOK, statsResponse{Success: true, Data: cached.(*models.AggregateStats)})
			return
		}
	}

	stats, err := h.Repo.GetStatistics(r.Context())
	if err != nil {
		writeRepoError(w, "GetStatistics", err)
		return
	}
	if config.StatsCache != nil {
		config.StatsCache.SetDefault(cacheKey, stats)
	}
	writeJSON(w, http.StatusOK, statsResponse{Success: true, Data: stats})
}

// ExportProjects handles GET /projects/export-excel, streaming the full
// collection as an xlsx attachment.
func (h *ProjectHandler) ExportProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Repo.List(r.Context())
	if err != nil {
		writeRepoError(w, "ExportProjects", err)
		return
	}

	blob, err := export.EncodeProjects(projects)
	if err != nil {
		log.Printf("ExportProjects encoding failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to generate export"})
		return
	}

	filename := fmt.Sprintf("projects_export_%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(blob); err != nil {
		log.Printf("ExportProjects write failed: %v", err)
	}
}

func (h *ProjectHandler) invalidateStats() {
	if config.StatsCache != nil {
		config.StatsCache.Delete(config.GetCacheKey("project_stats"))
	}
}
