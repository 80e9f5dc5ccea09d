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

type PlayerHandler struct {
	players service.PlayerServiceInterface
}

func NewPlayerHandler(players service.PlayerServiceInterface) *PlayerHandler {
	return &PlayerHandler{players: players}
}

type playerRequest struct {
	FirstName string     `json:"firstName"`
	LastName  *string    `json:"lastName"`
	BirthDate *time.Time `json:"birthDate"`
	Rating    *float64   `json:"rating"`
	Role      string     `json:"role"`
	TeamID    *uint      `json:"teamId"`
}

// playerListItem flattens the team name and tournament count into the list
// row so the front end does not need follow-up requests.
type playerListItem struct {
	PlayerID        uint       `json:"playerId"`
	FirstName       string     `json:"firstName"`
	LastName        *string    `json:"lastName,omitempty"`
	BirthDate       *time.Time `json:"birthDate,omitempty"`
	Rating          *float64   `json:"rating,omitempty"`
	Role            string     `json:"role"`
	TeamID          *uint      `json:"teamId,omitempty"`
	TeamName        string     `json:"teamName,omitempty"`
	TournamentCount int        `json:"tournamentCount"`
}

type playerPage struct {
	Players    []playerListItem `json:"players"`
	TotalCount int64            `json:"totalCount"`
	TotalPages int              `json:"totalPages"`
	PageNumber int              `json:"pageNumber"`
	PageSize   int              `json:"pageSize"`
}

func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.players.List(r.Context(), repository.PlayerListQuery{
		PageRequest: pageRequest(r),
		SearchTerm:  q.Get("searchTerm"),
		Role:        q.Get("role"),
		TeamID:      queryUintPtr(r, "teamId"),
		SortBy:      q.Get("sortBy"),
		SortOrder:   q.Get("sortOrder"),
	})
	if err != nil {
		response.Message(w, r, http.StatusInternalServerError, false, "Failed to list players")
		return
	}
	items := make([]playerListItem, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, toPlayerListItem(&page.Items[i]))
	}
	response.JSON(w, r, http.StatusOK, playerPage{
		Players:    items,
		TotalCount: page.Total,
		TotalPages: page.TotalPages,
		PageNumber: page.Page,
		PageSize:   page.PageSize,
	})
}

func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.Message(w, r, http.StatusBadRequest, false, "Invalid player id")
		return
	}
	player, err := h.players.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Message(w, r, http.StatusNotFound, false, "Player not found")
			return
		}
		response.Message(w, r, http.StatusInternalServerError, false, "Failed to load player")
		return
	}
	response.JSON(w, r, http.StatusOK, player)
}

func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, ok := decodePlayerInput(w, r)
	if !ok {
		return
	}
	player, err := h.players.Create(r.Context(), input)
	if err != nil {
		writePlayerError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusCreated, player)
}

func (h *PlayerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.Message(w, r, http.StatusBadRequest, false, "Invalid player id")
		return
	}
	input, ok := decodePlayerInput(w, r)
	if !ok {
		return
	}
	player, err := h.players.Update(r.Context(), id, input)
	if err != nil {
		writePlayerError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, player)
}

func (h *PlayerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.Message(w, r, http.StatusBadRequest, false, "Invalid player id")
		return
	}
	if err := h.players.Delete(r.Context(), id); err != nil {
		writePlayerError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodePlayerInput(w http.ResponseWriter, r *http.Request) (service.PlayerInput, bool) {
	var req playerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Message(w, r, http.StatusBadRequest, false, "Invalid request body")
		return service.PlayerInput{}, false
	}
	return service.PlayerInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		BirthDate: req.BirthDate,
		Rating:    req.Rating,
		Role:      req.Role,
		TeamID:    req.TeamID,
	}, true
}

func toPlayerListItem(p *domain.Player) playerListItem {
	item := playerListItem{
		PlayerID:        p.ID,
		FirstName:       p.FirstName,
		LastName:        p.LastName,
		BirthDate:       p.BirthDate,
		Rating:          p.Rating,
		Role:            p.Role,
		TeamID:          p.TeamID,
		TournamentCount: len(p.Tournaments),
	}
	if p.Team != nil {
		item.TeamName = p.Team.Name
	}
	return item
}

func writePlayerError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.Message(w, r, http.StatusNotFound, false, "Player not found")
	case errors.Is(err, service.ErrInvalidInput):
		response.Message(w, r, http.StatusBadRequest, false, err.Error())
	default:
		response.Message(w, r, http.StatusInternalServerError, false, "Player operation failed")
	}
}
