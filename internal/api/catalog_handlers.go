package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/alexanderramin/peplaybook/internal/catalog"
	"github.com/alexanderramin/peplaybook/internal/domain"
	"github.com/alexanderramin/peplaybook/internal/llm"
	"github.com/alexanderramin/peplaybook/internal/service"
)

func (s *Server) handleListStandards(w http.ResponseWriter, r *http.Request) {
	standards := s.catalog.Standards(r.Context())
	s.respondJSON(w, http.StatusOK, map[string]any{
		"standards": standards,
		"total":     len(standards),
	})
}

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	q, err := activityQuery(r)
	if err != nil {
		s.respondServiceError(w, r, err, "list activities")
		return
	}
	activities := s.catalog.Activities(r.Context(), q)
	s.respondJSON(w, http.StatusOK, map[string]any{
		"activities": activities,
		"total":      len(activities),
	})
}

// activityQuery parses the optional filters grade, environment, equipment,
// category and standard.
func activityQuery(r *http.Request) (catalog.Query, error) {
	v := r.URL.Query()
	var (
		q   catalog.Query
		err error
	)
	if g := v.Get("grade"); g != "" {
		if q.Grade, err = domain.ParseGradeBand(g); err != nil {
			return q, err
		}
	}
	if e := v.Get("environment"); e != "" {
		if q.Environment, err = domain.ParseEnvironment(e); err != nil {
			return q, err
		}
	}
	if t := v.Get("equipment"); t != "" {
		if q.Equipment, err = domain.ParseEquipmentTier(t); err != nil {
			return q, err
		}
	}
	if c := v.Get("category"); c != "" {
		q.Category = domain.ActivityCategory(c)
		if !q.Category.Valid() {
			return q, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, c)
		}
	}
	q.Standard = v.Get("standard")
	return q, nil
}

// Settings handlers

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settings.Get(r.Context())
	if err != nil {
		s.respondServiceError(w, r, err, "load settings")
		return
	}
	s.respondJSON(w, http.StatusOK, settings)
}

// handleUpdateSettings takes a flat object of setting keys to string values,
// e.g. {"default_grade": "6-8", "auto_save": "false"}.
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var values map[string]string
	if err := decodeBody(w, r, &values, maxBodyBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "body must be an object of string values")
		return
	}
	settings, err := s.settings.Update(r.Context(), values)
	if err != nil {
		s.respondServiceError(w, r, err, "update settings")
		return
	}
	s.respondJSON(w, http.StatusOK, settings)
}

// handleAIStatus reports the provider a generation would use and whether it
// answers. provider and model query parameters override the stored settings.
func (s *Server) handleAIStatus(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	st, err := s.playbooks.AIStatus(r.Context(), llm.Credentials{
		Provider: q.Get("provider"),
		Model:    q.Get("model"),
	})
	if err != nil {
		s.respondServiceError(w, r, err, "check ai provider")
		return
	}
	s.respondJSON(w, http.StatusOK, st)
}

// Backup handlers

func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	b, err := s.playbooks.Backup(r.Context())
	if err != nil {
		s.respondServiceError(w, r, err, "create backup")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "peplaybook-backup-"+b.ExportDate.Format("2006-01-02")+".json"))
	w.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		s.logger.Error("failed to encode backup", "error", err)
	}
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	var b service.Backup
	if err := decodeBody(w, r, &b, 32*maxBodyBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_backup", "invalid backup document")
		return
	}
	n, err := s.playbooks.Restore(r.Context(), &b)
	if err != nil {
		s.respondServiceError(w, r, err, "restore backup")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]int{"restored": n})
}
