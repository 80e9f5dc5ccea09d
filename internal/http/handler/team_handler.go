package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ivan1013/esports-management-system/internal/domain"
	"github.com/ivan1013/esports-management-system/internal/http/response"
	"github.com/ivan1013/esports-management-system/internal/repository"
	"github.com/ivan1013/esports-management-system/internal/service"
)

type TeamHandler struct {
	teams service.TeamServiceInterface
}

func NewTeamHandler(teams service.TeamServiceInterface) *TeamHandler {
	return &TeamHandler{teams: teams}
}

type teamRequest struct {
	Name        string     `json:"name"`
	Region      *string    `json:"region"`
	FoundedDate *time.Time `json:"foundedDate"`
	Rating      *float64   `json:"rating"`
	IsActive    bool       `json:"isActive"`
}

type teamPage struct {
	Teams      []domain.Team `json:"teams"`
	TotalCount int64         `json:"totalCount"`
	TotalPages int           `json:"totalPages"`
	PageNumber int           `json:"pageNumber"`
	PageSize   int           `json:"pageSize"`
}

func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.teams.List(r.Context(), repository.TeamListQuery{
		PageRequest: pageRequest(r),
		Name:        q.Get("name"),
		Region:      q.Get("region"),
		SortBy:      q.Get("sortBy"),
		SortOrder:   q.Get("sortOrder"),
	})
	if err != nil {
		response.Message(w, r, http.StatusInternalServerError, false, "Failed to list teams")
		return
	}
	response.JSON(w, r, http.StatusOK, teamPage{
		Teams:      page.Items,
		TotalCount: page.Total,
		TotalPages: page.TotalPages,
		PageNumber: page.Page,
		PageSize:   page.PageSize,
	})
}

func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.Message(w, r, http.StatusBadRequest, false, "Invalid team id")
		return
	}
	team, err := h.teams.Get(r.Context(), id, queryBool(r, "includePlayers"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Message(w, r, http.StatusNotFound, false, "Team not found")
			return
		}
		response.Message(w, r, http.StatusInternalServerError, false, "Failed to load team")
		return
	}
	response.JSON(w, r, http.StatusOK, team)
}

func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeTeamInput(w, r)
	if !ok {
		return
	}
	team, err := h.teams.Create(r.Context(), input)
	if err != nil {
		writeTeamError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusCreated, team)
}

func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.Message(w, r, http.StatusBadRequest, false, "Invalid team id")
		return
	}
	input, ok := decodeTeamInput(w, r)
	if !ok {
		return
	}
	team, err := h.teams.Update(r.Context(), id, input)
	if err != nil {
		writeTeamError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, team)
}

func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.Message(w, r, http.StatusBadRequest, false, "Invalid team id")
		return
	}
	if err := h.teams.Delete(r.Context(), id); err != nil {
		writeTeamError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeTeamInput(w http.ResponseWriter, r *http.Request) (service.TeamInput, bool) {
	var req teamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Message(w, r, http.StatusBadRequest, false, "Invalid request body")
		return service.TeamInput{}, false
	}
	return service.TeamInput{
		Name:        req.Name,
		Region:      req.Region,
		FoundedDate: req.FoundedDate,
		Rating:      req.Rating,
		IsActive:    req.IsActive,
	}, true
}

func writeTeamError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.Message(w, r, http.StatusNotFound, false, "Team not found")
	case errors.Is(err, service.ErrInvalidInput):
		response.Message(w, r, http.StatusBadRequest, false, err.Error())
	default:
		response.Message(w, r, http.StatusInternalServerError, false, "Team operation failed")
	}
}
