// Package loadgen drives synthetic traffic against a running API instance so
// operational checks have fresh requests to inspect.
package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Config controls one traffic run.
type Config struct {
	BaseURL     string
	Profile     string
	Duration    time.Duration
	RPS         int
	Concurrency int
	Seed        int64
}

// Result summarizes a completed traffic run.
type Result struct {
	TotalRequests int
	Failures      int
	StatusClasses map[string]int
}

type authPayload struct {
	Success      bool   `json:"success"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// Run generates traffic until cfg.Duration elapses or ctx is canceled. The
// mixed profile interleaves auth flows with authenticated entity reads so both
// credential and CRUD paths receive load.
func Run(ctx context.Context, cfg Config) (Result, error) {
	profile := normalizeProfile(cfg.Profile)
	if cfg.RPS <= 0 {
		cfg.RPS = 10
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.Duration <= 0 {
		cfg.Duration = 5 * time.Second
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	client := &http.Client{Timeout: 10 * time.Second}

	token, err := obtainToken(ctx, client, base, cfg.Seed)
	if err != nil {
		return Result{}, fmt.Errorf("obtain token: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	var mu sync.Mutex
	res := Result{StatusClasses: map[string]int{}}
	record := func(status int, err error) {
		mu.Lock()
		defer mu.Unlock()
		res.TotalRequests++
		if err != nil || status >= 500 {
			res.Failures++
		}
		if err == nil {
			res.StatusClasses[classifyStatusClass(status)]++
		}
	}

	interval := time.Second / time.Duration(cfg.RPS)
	grp, grpCtx := errgroup.WithContext(runCtx)
	for i := 0; i < cfg.Concurrency; i++ {
		worker := i
		grp.Go(func() error {
			rng := rand.New(rand.NewSource(cfg.Seed + int64(worker)))
			ticker := time.NewTicker(interval * time.Duration(cfg.Concurrency))
			defer ticker.Stop()
			for {
				select {
				case <-grpCtx.Done():
					return nil
				case <-ticker.C:
					status, err := fire(grpCtx, client, base, profile, token, rng)
					record(status, err)
				}
			}
		})
	}
	if err := grp.Wait(); err != nil {
		return res, err
	}
	return res, nil
}

func fire(ctx context.Context, client *http.Client, base, profile, token string, rng *rand.Rand) (int, error) {
	switch profile {
	case "auth":
		return doLogin(ctx, client, base, rng)
	case "crud":
		return doRead(ctx, client, base, token, rng)
	default:
		if rng.Intn(3) == 0 {
			return doLogin(ctx, client, base, rng)
		}
		return doRead(ctx, client, base, token, rng)
	}
}

func doLogin(ctx context.Context, client *http.Client, base string, rng *rand.Rand) (int, error) {
	body := map[string]string{
		"username": fmt.Sprintf("loadgen-%d", rng.Intn(1000)),
		"password": "wrong-password",
	}
	return post(ctx, client, base+"/api/auth/login", "", body)
}

func doRead(ctx context.Context, client *http.Client, base, token string, rng *rand.Rand) (int, error) {
	paths := []string{"/api/teams", "/api/players", "/api/tournaments"}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+paths[rng.Intn(len(paths))], nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, nil
		}
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

// obtainToken registers a throwaway account and logs in with it so the crud
// profile can reach authenticated routes.
func obtainToken(ctx context.Context, client *http.Client, base string, seed int64) (string, error) {
	username := fmt.Sprintf("loadgen-%d-%d", seed, time.Now().UnixNano()%1_000_000)
	register := map[string]string{
		"username": username,
		"email":    username + "@loadgen.local",
		"password": "loadgen-password-1",
	}
	if _, err := post(ctx, client, base+"/api/auth/register", "", register); err != nil {
		return "", err
	}
	login := map[string]string{"username": username, "password": "loadgen-password-1"}
	req, err := jsonRequest(ctx, base+"/api/auth/login", login)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()
	var payload authPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if !payload.Success || payload.Token == "" {
		return "", fmt.Errorf("login for traffic account failed with status %d", resp.StatusCode)
	}
	return payload.Token, nil
}

func post(ctx context.Context, client *http.Client, url, token string, body any) (int, error) {
	req, err := jsonRequest(ctx, url, body)
	if err != nil {
		return 0, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, nil
		}
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func jsonRequest(ctx context.Context, url string, body any) (*http.Request, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func classifyStatusClass(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500 && status < 600:
		return "5xx"
	default:
		return "other"
	}
}

func normalizeProfile(profile string) string {
	p := strings.ToLower(strings.TrimSpace(profile))
	switch p {
	case "auth", "crud", "mixed":
		return p
	default:
		return "mixed"
	}
}
