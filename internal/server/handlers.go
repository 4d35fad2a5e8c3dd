/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/friendsincode/weekweave/internal/auth"
	"github.com/friendsincode/weekweave/internal/models"
	"github.com/friendsincode/weekweave/internal/schedule"
	"github.com/friendsincode/weekweave/internal/telemetry"
)

type tokenRequest struct {
	APIKey string `json:"api_key"`
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.APIKey == "" {
		writeError(w, http.StatusBadRequest, "api_key is required")
		return
	}

	claims, err := auth.ValidateAPIKey(s.db, req.APIKey)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid api key")
		return
	}

	ttl := time.Duration(s.cfg.TokenTTLMinutes) * time.Minute
	token, err := auth.Issue([]byte(s.cfg.JWTSigningKey), *claims, ttl)
	if err != nil {
		s.logger.Error().Err(err).Msg("issue token")
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token":      token,
		"expires_in": int(ttl.Seconds()),
	})
}

type generateRequest struct {
	Lifestyle   string `json:"lifestyle"`
	Commitments string `json:"commitments"`
	Activities  string `json:"activities"`
	Seed        *int64 `json:"seed,omitempty"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result := s.generate(schedule.Input{
		Lifestyle:   req.Lifestyle,
		Commitments: req.Commitments,
		Activities:  req.Activities,
	}, req.Seed)

	writeJSON(w, http.StatusOK, result)
}

// generate runs one synthesis pass and publishes its satisfaction metrics.
// A nil seed means regenerate-for-variety: a fresh time-derived seed per call.
func (s *Server) generate(in schedule.Input, seed *int64) schedule.Result {
	effective := time.Now().UnixNano()
	if seed != nil {
		effective = *seed
	}

	result := s.generator.Generate(in, effective)

	var requested, placed float64
	for _, report := range result.Reports {
		requested += report.RequestedHours
		placed += report.PlacedHours
	}
	telemetry.RecordGeneration(requested, placed)

	return result
}

type profileRequest struct {
	Name        string `json:"name"`
	Lifestyle   string `json:"lifestyle"`
	Commitments string `json:"commitments"`
	Activities  string `json:"activities"`
}

func (s *Server) handleProfilesList(w http.ResponseWriter, r *http.Request) {
	var profiles []models.Profile
	if err := s.db.Order("created_at ASC").Find(&profiles).Error; err != nil {
		s.logger.Error().Err(err).Msg("list profiles")
		writeError(w, http.StatusInternalServerError, "could not list profiles")
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

func (s *Server) handleProfilesCreate(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	profile := models.Profile{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Lifestyle:   req.Lifestyle,
		Commitments: req.Commitments,
		Activities:  req.Activities,
	}
	if err := s.db.Create(&profile).Error; err != nil {
		writeError(w, http.StatusConflict, "could not create profile")
		return
	}
	writeJSON(w, http.StatusCreated, profile)
}

func (s *Server) handleProfilesGet(w http.ResponseWriter, r *http.Request) {
	profile, ok := s.loadProfile(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleProfilesUpdate(w http.ResponseWriter, r *http.Request) {
	profile, ok := s.loadProfile(w, r)
	if !ok {
		return
	}

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		profile.Name = name
	}
	profile.Lifestyle = req.Lifestyle
	profile.Commitments = req.Commitments
	profile.Activities = req.Activities

	if err := s.db.Save(&profile).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "could not update profile")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleProfilesDelete(w http.ResponseWriter, r *http.Request) {
	profile, ok := s.loadProfile(w, r)
	if !ok {
		return
	}
	if err := s.db.Delete(&profile).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "could not delete profile")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleProfileSchedule(w http.ResponseWriter, r *http.Request) {
	profile, ok := s.loadProfile(w, r)
	if !ok {
		return
	}

	result := s.generate(schedule.Input{
		Lifestyle:   profile.Lifestyle,
		Commitments: profile.Commitments,
		Activities:  profile.Activities,
	}, nil)

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleProfileICal(w http.ResponseWriter, r *http.Request) {
	profile, ok := s.loadProfile(w, r)
	if !ok {
		return
	}

	result := s.generate(schedule.Input{
		Lifestyle:   profile.Lifestyle,
		Commitments: profile.Commitments,
		Activities:  profile.Activities,
	}, nil)

	export := schedule.ExportToICal(result, profile.Name, schedule.NextMonday(time.Now()))
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(export.Data)
}

func (s *Server) loadProfile(w http.ResponseWriter, r *http.Request) (models.Profile, bool) {
	id := chi.URLParam(r, "id")

	var profile models.Profile
	err := s.db.First(&profile, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "profile not found")
		return profile, false
	}
	if err != nil {
		s.logger.Error().Err(err).Str("profile_id", id).Msg("load profile")
		writeError(w, http.StatusInternalServerError, "could not load profile")
		return profile, false
	}
	return profile, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
