package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ivan1013/esports-management-system/internal/domain"
	"github.com/ivan1013/esports-management-system/internal/http/response"
)

// APIClient is the front end's typed view of the JSON API. The pages never
// touch the database directly; everything goes through these calls.
type APIClient struct {
	base string
	http *http.Client
}

func NewAPIClient(base string, timeout time.Duration) *APIClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &APIClient{base: base, http: &http.Client{Timeout: timeout}}
}

// TeamPage mirrors the teams list payload.
type TeamPage struct {
	Teams      []domain.Team `json:"teams"`
	TotalCount int64         `json:"totalCount"`
	TotalPages int           `json:"totalPages"`
	PageNumber int           `json:"pageNumber"`
	PageSize   int           `json:"pageSize"`
}

func (c *APIClient) Register(ctx context.Context, username, email, password string) (*response.AuthResult, error) {
	return c.postAuth(ctx, "/api/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
}

func (c *APIClient) Login(ctx context.Context, username, password string) (*response.AuthResult, error) {
	return c.postAuth(ctx, "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	})
}

func (c *APIClient) Refresh(ctx context.Context, accessToken, refreshToken string) (*response.AuthResult, error) {
	return c.postAuth(ctx, "/api/auth/refresh-token", map[string]string{
		"token":        accessToken,
		"refreshToken": refreshToken,
	})
}

// PlayerListItem mirrors one row of the players list payload.
type PlayerListItem struct {
	PlayerID        uint       `json:"playerId"`
	FirstName       string     `json:"firstName"`
	LastName        *string    `json:"lastName,omitempty"`
	BirthDate       *time.Time `json:"birthDate,omitempty"`
	Rating          *float64   `json:"rating,omitempty"`
	Role            string     `json:"role"`
	TeamName        string     `json:"teamName,omitempty"`
	TournamentCount int        `json:"tournamentCount"`
}

// PlayerPage mirrors the players list payload.
type PlayerPage struct {
	Players    []PlayerListItem `json:"players"`
	TotalCount int64            `json:"totalCount"`
	TotalPages int              `json:"totalPages"`
	PageNumber int              `json:"pageNumber"`
	PageSize   int              `json:"pageSize"`
}

func (c *APIClient) ListTeams(ctx context.Context, accessToken string, page int) (*TeamPage, error) {
	var teamPage TeamPage
	if err := c.getJSON(ctx, fmt.Sprintf("/api/teams?pageNumber=%d", page), accessToken, &teamPage); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return &teamPage, nil
}

func (c *APIClient) ListPlayers(ctx context.Context, accessToken string, page int) (*PlayerPage, error) {
	var playerPage PlayerPage
	if err := c.getJSON(ctx, fmt.Sprintf("/api/players?pageNumber=%d", page), accessToken, &playerPage); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return &playerPage, nil
}

func (c *APIClient) getJSON(ctx context.Context, path, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// postAuth sends the request and decodes the auth result regardless of status
// code; callers inspect Success and Message.
func (c *APIClient) postAuth(ctx context.Context, path string, payload map[string]string) (*response.AuthResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	var result response.AuthResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("call %s: decode: %w", path, err)
	}
	return &result, nil
}
