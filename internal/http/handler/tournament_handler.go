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

type TournamentHandler struct {
	tournaments service.TournamentServiceInterface
}

func NewTournamentHandler(tournaments service.TournamentServiceInterface) *TournamentHandler {
	return &TournamentHandler{tournaments: tournaments}
}

type tournamentRequest struct {
	Title     string     `json:"title"`
	PrizePool *float64   `json:"prizePool"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	Location  *string    `json:"location"`
}

type tournamentPage struct {
	Tournaments []domain.Tournament `json:"tournaments"`
	TotalCount  int64               `json:"totalCount"`
	TotalPages  int                 `json:"totalPages"`
	PageNumber  int                 `json:"pageNumber"`
	PageSize    int                 `json:"pageSize"`
}

func (h *TournamentHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.tournaments.List(r.Context(), repository.TournamentListQuery{
		PageRequest: pageRequest(r),
		Title:       q.Get("title"),
		Location:    q.Get("location"),
		SortBy:      q.Get("sortBy"),
		SortOrder:   q.Get("sortOrder"),
	})
	if err != nil {
		response.Message(w, r, http.StatusInternalServerError, false, "Failed to list tournaments")
		return
	}
	response.JSON(w, r, http.StatusOK, tournamentPage{
		Tournaments: page.Items,
		TotalCount:  page.Total,
		TotalPages:  page.TotalPages,
		PageNumber:  page.Page,
		PageSize:    page.PageSize,
	})
}

func (h *TournamentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.Message(w, r, http.StatusBadRequest, false, "Invalid tournament id")
		return
	}
	tournament, err := h.tournaments.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Message(w, r, http.StatusNotFound, false, "Tournament not found")
			return
		}
		response.Message(w, r, http.StatusInternalServerError, false, "Failed to load tournament")
		return
	}
	response.JSON(w, r, http.StatusOK, tournament)
}

func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeTournamentInput(w, r)
	if !ok {
		return
	}
	tournament, err := h.tournaments.Create(r.Context(), input)
	if err != nil {
		writeTournamentError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusCreated, tournament)
}

func (h *TournamentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.Message(w, r, http.StatusBadRequest, false, "Invalid tournament id")
		return
	}
	input, ok := decodeTournamentInput(w, r)
	if !ok {
		return
	}
	tournament, err := h.tournaments.Update(r.Context(), id, input)
	if err != nil {
		writeTournamentError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, tournament)
}

func (h *TournamentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.Message(w, r, http.StatusBadRequest, false, "Invalid tournament id")
		return
	}
	if err := h.tournaments.Delete(r.Context(), id); err != nil {
		writeTournamentError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeTournamentInput(w http.ResponseWriter, r *http.Request) (service.TournamentInput, bool) {
	var req tournamentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Message(w, r, http.StatusBadRequest, false, "Invalid request body")
		return service.TournamentInput{}, false
	}
	return service.TournamentInput{
		Title:     req.Title,
		PrizePool: req.PrizePool,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Location:  req.Location,
	}, true
}

func writeTournamentError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.Message(w, r, http.StatusNotFound, false, "Tournament not found")
	case errors.Is(err, service.ErrInvalidInput):
		response.Message(w, r, http.StatusBadRequest, false, err.Error())
	default:
		response.Message(w, r, http.StatusInternalServerError, false, "Tournament operation failed")
	}
}
