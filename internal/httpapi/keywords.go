package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"brandmonitor/internal/domain"
	"brandmonitor/internal/vocab"
)

type keywordRequest struct {
	Category string  `json:"category"`
	Word     string  `json:"word"`
	Weight   float64 `json:"weight"`
}

type moveKeywordRequest struct {
	FromCategory string  `json:"from_category"`
	ToCategory   string  `json:"to_category"`
	Word         string  `json:"word"`
	Weight       float64 `json:"weight"`
}

func (s *Server) handleKeywordsAll(w http.ResponseWriter, r *http.Request) {
	v, err := s.store.Load()
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.writeJSON(w, http.StatusOK, map[string]any{})
			return
		}
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleKeywordsCategory(w http.ResponseWriter, r *http.Request) {
	name, ok := vocab.ParseTierName(strings.ToUpper(r.PathValue("category")))
	if !ok {
		s.writeError(w, fmt.Errorf("category not found: %w", domain.ErrNotFound))
		return
	}

	v, err := s.store.Load()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, *v.Tier(name))
}

func (s *Server) handleKeywordsSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		s.writeError(w, fmt.Errorf("query parameter q is required: %w", domain.ErrInvalidArgument))
		return
	}

	results, err := s.store.Search(query)
	if err != nil {
		s.writeError(w, err)
		return
	}

	payload := map[string]vocab.Tier{}
	for _, result := range results {
		payload[string(result.Tier)] = vocab.NewTier(result.Description, result.Entries)
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleKeywordsAdd(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeKeywordRequest(w, r)
	if !ok {
		return
	}

	tier := vocab.TierName(strings.ToUpper(strings.TrimSpace(req.Category)))
	if err := s.store.Add(tier, req.Word, req.Weight); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "Keyword added successfully",
		"category": string(tier),
		"word":     strings.TrimSpace(req.Word),
		"weight":   req.Weight,
	})
}

func (s *Server) handleKeywordsUpdate(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeKeywordRequest(w, r)
	if !ok {
		return
	}

	tier := vocab.TierName(strings.ToUpper(strings.TrimSpace(req.Category)))
	if err := s.store.Update(tier, req.Word, req.Weight); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Keyword updated successfully",
		"category": string(tier),
		"word":     strings.TrimSpace(req.Word),
		"weight":   req.Weight,
	})
}

func (s *Server) handleKeywordsDelete(w http.ResponseWriter, r *http.Request) {
	var req keywordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("malformed request body: %w", domain.ErrInvalidArgument))
		return
	}

	tier := vocab.TierName(strings.ToUpper(strings.TrimSpace(req.Category)))
	if err := s.store.Delete(tier, req.Word); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Keyword deleted successfully",
		"category": string(tier),
		"word":     strings.TrimSpace(req.Word),
	})
}

func (s *Server) handleKeywordsMove(w http.ResponseWriter, r *http.Request) {
	var req moveKeywordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("malformed request body: %w", domain.ErrInvalidArgument))
		return
	}
	if req.Weight == 0 {
		req.Weight = 1
	}

	from := vocab.TierName(strings.ToUpper(strings.TrimSpace(req.FromCategory)))
	to := vocab.TierName(strings.ToUpper(strings.TrimSpace(req.ToCategory)))
	if err := s.store.Move(from, to, req.Word, req.Weight); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Keyword moved from %s to %s", from, to),
		"word":    strings.TrimSpace(req.Word),
		"weight":  req.Weight,
	})
}

func (s *Server) handleKeywordsStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats()
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.writeError(w, err)
		return
	}

	payload := map[string]any{"TOTAL": stats.Total}
	for _, name := range vocab.TierOrder {
		payload[string(name)] = stats.PerTier[name]
	}
	if stats.LastUpdated != "" {
		payload["lastUpdated"] = stats.LastUpdated
	} else {
		payload["lastUpdated"] = "Unknown"
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *Server) decodeKeywordRequest(w http.ResponseWriter, r *http.Request) (keywordRequest, bool) {
	var req keywordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("malformed request body: %w", domain.ErrInvalidArgument))
		return keywordRequest{}, false
	}
	if req.Weight == 0 {
		req.Weight = 1
	}
	return req, true
}
