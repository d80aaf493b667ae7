package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/libscout/libscout/pkg/buildinfo"
	"github.com/libscout/libscout/pkg/discovery"
	"github.com/libscout/libscout/pkg/errors"
)

type searchResponse struct {
	Query   string                    `json:"query"`
	Count   int                       `json:"count"`
	Results []discovery.PackageResult `json:"results"`
}

type errorResponse struct {
	Error struct {
		Code    errors.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filters := discovery.Filters{
		Category:  q.Get("category"),
		SortBy:    q.Get("sort"),
		SortOrder: q.Get("order"),
	}
	if v := q.Get("min_stars"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "min_stars must be a non-negative integer"))
			return
		}
		filters.MinStars = n
	}

	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "limit must be an integer"))
			return
		}
		limit = n
	}

	query := q.Get("q")
	results, err := s.svc.SearchPackages(r.Context(), query, filters, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, searchResponse{
		Query:   query,
		Count:   len(results),
		Results: results,
	})
}

func (s *Server) handlePackage(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	repo := chi.URLParam(r, "repo")

	result, err := s.svc.Describe(r.Context(), owner, repo)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"categories": s.svc.Categories()})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.svc.Stats())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" && errors.IsRateLimited(err) {
		code = errors.ErrCodeRateLimited
	}
	status := statusFor(code)
	if status >= 500 {
		s.logger.Error("request failed", "id", RequestID(r.Context()), "code", code, "err", err)
	}

	var resp errorResponse
	resp.Error.Code = code
	if resp.Error.Code == "" {
		resp.Error.Code = errors.ErrCodeInternal
	}
	resp.Error.Message = errors.UserMessage(err)
	s.writeJSON(w, status, resp)
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidQuery, errors.ErrCodeInvalidRepo, errors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeNetwork, errors.ErrCodeServer, errors.ErrCodeParse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
