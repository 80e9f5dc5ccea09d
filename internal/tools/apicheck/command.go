// Package apicheck verifies a deployed instance end to end: health probes,
// the credential flow, refresh rotation, and an authenticated CRUD round trip.
package apicheck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivan1013/esports-management-system/internal/tools/common"
	"github.com/ivan1013/esports-management-system/internal/tools/loadgen"
	"github.com/ivan1013/esports-management-system/internal/tools/ui"
)

type options struct {
	baseURL string
	ci      bool
	traffic bool
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{Use: "apicheck", Short: "Verify a running instance end to end"}
	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", "http://localhost:8080", "API base URL")
	cmd.PersistentFlags().BoolVar(&opts.ci, "ci", false, "non-interactive machine-readable output")
	cmd.PersistentFlags().BoolVar(&opts.traffic, "traffic", false, "also generate background traffic before checking")
	cmd.AddCommand(newRunCommand(opts))
	return cmd
}

func newRunCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Probe health endpoints and exercise auth plus team CRUD",
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := run(opts, "apicheck run", func(ctx context.Context) ([]string, error) {
				var details []string
				if opts.traffic {
					lgRes, err := loadgen.Run(ctx, loadgen.Config{
						BaseURL:     opts.baseURL,
						Profile:     "mixed",
						Duration:    5 * time.Second,
						RPS:         20,
						Concurrency: 4,
						Seed:        time.Now().UnixNano(),
					})
					if err != nil {
						return nil, err
					}
					details = append(details, fmt.Sprintf("traffic generated total=%d failures=%d", lgRes.TotalRequests, lgRes.Failures))
				}

				if err := checkHealth(ctx, *opts); err != nil {
					return details, err
				}
				details = append(details, "health probes: ok")

				session, err := newCheckSession(ctx, *opts)
				if err != nil {
					return details, err
				}
				details = append(details, "register and login: ok")

				if err := session.verifyRefreshRotation(ctx); err != nil {
					return details, err
				}
				details = append(details, "refresh token rotation: ok")

				if err := session.verifyTeamRoundTrip(ctx); err != nil {
					return details, err
				}
				details = append(details, "team create, read, delete: ok")
				return details, nil
			})
			if opts.ci {
				common.PrintCIResult(err == nil, "apicheck run", details, err)
			}
			if err != nil {
				os.Exit(4)
			}
			return nil
		},
	}
}

func run(opts *options, title string, fn func(context.Context) ([]string, error)) ([]string, error) {
	if opts.ci {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()
		return fn(ctx)
	}
	return ui.Run(title, fn)
}

func checkHealth(ctx context.Context, opts options) error {
	for _, path := range []string{"/health/live", "/health/ready"} {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.baseURL+path, nil)
		if err != nil {
			return err
		}
		resp, err := (&http.Client{Timeout: 10 * time.Second}).Do(req)
		if err != nil {
			return err
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%s returned %s", path, resp.Status)
		}
	}
	return nil
}

type checkSession struct {
	client       *http.Client
	baseURL      string
	username     string
	password     string
	token        string
	refreshToken string
}

type authResult struct {
	Success      bool   `json:"success"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	Message      string `json:"message"`
}

func newCheckSession(ctx context.Context, opts options) (*checkSession, error) {
	s := &checkSession{
		client:   &http.Client{Timeout: 10 * time.Second},
		baseURL:  opts.baseURL,
		username: fmt.Sprintf("apicheck-%d", time.Now().UnixNano()%1_000_000_000),
		password: "apicheck-password-1",
	}
	var reg authResult
	status, err := s.postJSON(ctx, "/api/auth/register", map[string]string{
		"username": s.username,
		"email":    s.username + "@apicheck.local",
		"password": s.password,
	}, &reg)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK || !reg.Success {
		return nil, fmt.Errorf("register failed: status=%d message=%q", status, reg.Message)
	}

	var login authResult
	status, err = s.postJSON(ctx, "/api/auth/login", map[string]string{
		"username": s.username,
		"password": s.password,
	}, &login)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK || login.Token == "" || login.RefreshToken == "" {
		return nil, fmt.Errorf("login failed: status=%d message=%q", status, login.Message)
	}
	s.token = login.Token
	s.refreshToken = login.RefreshToken
	return s, nil
}

// verifyRefreshRotation checks that minting a fresh pair invalidates the
// previously stored refresh token.
func (s *checkSession) verifyRefreshRotation(ctx context.Context) error {
	stale := s.refreshToken
	var fresh authResult
	status, err := s.postJSON(ctx, "/api/auth/refresh-token", map[string]string{
		"token":        s.token,
		"refreshToken": stale,
	}, &fresh)
	if err != nil {
		return err
	}
	if status != http.StatusOK || fresh.Token == "" || fresh.RefreshToken == "" {
		return fmt.Errorf("refresh failed: status=%d message=%q", status, fresh.Message)
	}
	s.token = fresh.Token
	s.refreshToken = fresh.RefreshToken

	var replay authResult
	status, err = s.postJSON(ctx, "/api/auth/refresh-token", map[string]string{
		"token":        s.token,
		"refreshToken": stale,
	}, &replay)
	if err != nil {
		return err
	}
	if status != http.StatusBadRequest {
		return fmt.Errorf("stale refresh token accepted: status=%d", status)
	}
	return nil
}

func (s *checkSession) verifyTeamRoundTrip(ctx context.Context) error {
	name := fmt.Sprintf("apicheck-team-%d", time.Now().UnixNano()%1_000_000)
	var created struct {
		ID   uint   `json:"teamId"`
		Name string `json:"name"`
	}
	status, err := s.postJSON(ctx, "/api/teams", map[string]any{"name": name, "isActive": true}, &created)
	if err != nil {
		return err
	}
	if status != http.StatusCreated || created.ID == 0 {
		return fmt.Errorf("team create failed: status=%d", status)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/teams/%d", s.baseURL, created.ID), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("team read failed: %s", resp.Status)
	}

	del, err := http.NewRequestWithContext(ctx, http.MethodDelete, fmt.Sprintf("%s/api/teams/%d", s.baseURL, created.ID), nil)
	if err != nil {
		return err
	}
	del.Header.Set("Authorization", "Bearer "+s.token)
	resp, err = s.client.Do(del)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("team delete failed: %s", resp.Status)
	}
	return nil
}

func (s *checkSession) postJSON(ctx context.Context, path string, body any, out any) (int, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			return resp.StatusCode, err
		}
	} else {
		_, _ = io.Copy(io.Discard, resp.Body)
	}
	return resp.StatusCode, nil
}
