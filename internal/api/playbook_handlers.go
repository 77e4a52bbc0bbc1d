package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/alexanderramin/peplaybook/internal/domain"
	"github.com/alexanderramin/peplaybook/internal/export"
	"github.com/alexanderramin/peplaybook/internal/llm"
	"github.com/alexanderramin/peplaybook/internal/service"
)

// generateRequest is the POST body for /playbooks/generate. Omitted input
// fields take the stored defaults.
type generateRequest struct {
	GradeLevel     domain.GradeBand     `json:"gradeLevel"`
	Duration       domain.Duration      `json:"duration"`
	Environment    domain.Environment   `json:"environment"`
	Standards      []string             `json:"standards"`
	EquipmentLevel domain.EquipmentTier `json:"equipmentLevel"`
	Preferences    domain.Preferences   `json:"preferences"`

	Mode     service.GenerateMode `json:"mode"`
	Provider string               `json:"provider"`
	APIKey   string               `json:"apiKey"`
	Model    string               `json:"model"`
	Save     *bool                `json:"save"`
	Name     string               `json:"name"`
	Seed     *uint64              `json:"seed"`
}

func (req generateRequest) input(defaults domain.Settings) domain.GeneratorInput {
	in := defaults.Input(req.Standards...)
	in.Preferences = req.Preferences
	if req.GradeLevel != "" {
		in.GradeLevel = req.GradeLevel
	}
	if req.Duration != 0 {
		in.Duration = req.Duration
	}
	if req.Environment != "" {
		in.Environment = req.Environment
	}
	if req.EquipmentLevel != "" {
		in.EquipmentLevel = req.EquipmentLevel
	}
	return in
}

type generateResponse struct {
	Playbook *domain.Playbook `json:"playbook"`
	Saved    bool             `json:"saved"`
	Name     string           `json:"name,omitempty"`
}

type playbookSummary struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Title       string             `json:"title"`
	Favorite    bool               `json:"favorite"`
	Tags        []string           `json:"tags,omitempty"`
	GradeLevel  domain.GradeBand   `json:"gradeLevel"`
	Duration    domain.Duration    `json:"duration"`
	Environment domain.Environment `json:"environment"`
	Lessons     int                `json:"lessons"`
	Source      domain.Source      `json:"source"`
	SavedAt     time.Time          `json:"savedAt"`
}

func summarize(sp *domain.StoredPlaybook) playbookSummary {
	return playbookSummary{
		ID:          sp.ID,
		Name:        sp.DisplayName(),
		Title:       sp.Title,
		Favorite:    sp.Favorite,
		Tags:        sp.Tags,
		GradeLevel:  sp.Metadata.GradeLevel,
		Duration:    sp.Metadata.Duration,
		Environment: sp.Metadata.Environment,
		Lessons:     len(sp.Lessons),
		Source:      sp.Metadata.Source,
		SavedAt:     sp.SavedAt,
	}
}

// updateRequest is the PATCH body for /playbooks/{id}. Only present fields
// are applied.
type updateRequest struct {
	Name     *string   `json:"name"`
	Favorite *bool     `json:"favorite"`
	Tags     *[]string `json:"tags"`
}

func (s *Server) handleGeneratePlaybook(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeBody(w, r, &req, maxBodyBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	defaults, err := s.settings.Get(r.Context())
	if err != nil {
		s.respondServiceError(w, r, err, "load settings")
		return
	}

	res, err := s.playbooks.Generate(r.Context(), service.GenerateRequest{
		Input:       req.input(defaults),
		Mode:        req.Mode,
		Credentials: llm.Credentials{Provider: req.Provider, APIKey: req.APIKey, Model: req.Model},
		Save:        req.Save,
		Name:        req.Name,
		Seed:        req.Seed,
	})
	if err != nil {
		s.respondServiceError(w, r, err, "generate playbook")
		return
	}

	out := generateResponse{Playbook: res.Playbook}
	status := http.StatusOK
	if res.Saved != nil {
		out.Saved = true
		out.Name = res.Saved.Name
		status = http.StatusCreated
	}
	s.respondJSON(w, status, out)
}

func (s *Server) handleListPlaybooks(w http.ResponseWriter, r *http.Request) {
	list, err := s.playbooks.List(r.Context())
	if err != nil {
		s.respondServiceError(w, r, err, "list playbooks")
		return
	}

	out := make([]playbookSummary, 0, len(list))
	for _, sp := range list {
		out = append(out, summarize(sp))
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"playbooks": out,
		"total":     len(out),
	})
}

func (s *Server) handleGetPlaybook(w http.ResponseWriter, r *http.Request) {
	sp, err := s.playbooks.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondServiceError(w, r, err, "get playbook")
		return
	}
	s.respondJSON(w, http.StatusOK, sp)
}

func (s *Server) handleUpdatePlaybook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateRequest
	if err := decodeBody(w, r, &req, maxBodyBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Name == nil && req.Favorite == nil && req.Tags == nil {
		s.respondError(w, http.StatusBadRequest, "validation_error", "nothing to update")
		return
	}

	sp, err := s.playbooks.Edit(r.Context(), id, service.Edit{
		Name:     req.Name,
		Favorite: req.Favorite,
		Tags:     req.Tags,
	})
	if err != nil {
		s.respondServiceError(w, r, err, "update playbook")
		return
	}
	s.respondJSON(w, http.StatusOK, summarize(sp))
}

func (s *Server) handleDeletePlaybook(w http.ResponseWriter, r *http.Request) {
	if err := s.playbooks.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondServiceError(w, r, err, "delete playbook")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleClearPlaybooks removes every saved playbook and resets the settings.
func (s *Server) handleClearPlaybooks(w http.ResponseWriter, r *http.Request) {
	n, err := s.playbooks.Clear(r.Context())
	if err != nil {
		s.respondServiceError(w, r, err, "clear playbooks")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]int{"removed": n})
}

func (s *Server) handleExportPlaybook(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("format")
	if name == "" {
		name = string(export.FormatMarkdown)
	}
	format, err := export.ParseFormat(name)
	if err != nil {
		s.respondServiceError(w, r, err, "export playbook")
		return
	}

	doc, sp, err := s.playbooks.Export(r.Context(), chi.URLParam(r, "id"), format)
	if err != nil {
		s.respondServiceError(w, r, err, "export playbook")
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	if r.URL.Query().Get("inline") == "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename(&sp.Playbook)))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Body); err != nil {
		s.logger.Warn("failed to write export", "id", sp.ID, "error", err)
	}
}
