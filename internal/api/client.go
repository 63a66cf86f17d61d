package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"soulfix/internal/content"
	"soulfix/internal/models"
	"soulfix/internal/storage"

	"github.com/c-pro/geche"
	"github.com/go-playground/validator/v10"
	"github.com/h2non/filetype"
)

const (
	DefaultTimeout    = 10 * time.Second
	profileCacheTTL   = 5 * time.Minute
	profileCacheSweep = time.Minute
)

// Built-in development account honored when the backend is unreachable.
const (
	testEmail    = "test@test.com"
	testPassword = "123456"
)

// PrefStore is the slice of local storage the client needs for credentials.
type PrefStore interface {
	SetPref(key, value string) error
	Pref(key string) (string, error)
	DeletePref(key string) error
}

// StatusError is a non-2xx response from the backend.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s", e.Code, e.Message)
	}
	return fmt.Sprintf("api: unexpected status %d", e.Code)
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	Prefs   PrefStore
	Logger  *slog.Logger
}

// Client wraps outbound HTTP calls to the backend. Requests carry a bearer
// token and user-id header when available, are logged, and are never
// retried.
type Client struct {
	baseURL  string
	http     *http.Client
	prefs    PrefStore
	log      *slog.Logger
	profiles geche.Geche[string, models.Profile]
	validate *validator.Validate
}

func NewClient(ctx context.Context, cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Client{
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		http:     &http.Client{Timeout: cfg.Timeout},
		prefs:    cfg.Prefs,
		log:      cfg.Logger,
		profiles: geche.NewMapTTLCache[string, models.Profile](ctx, profileCacheTTL, profileCacheSweep),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Age   int    `json:"age,omitempty"`
}

type AuthResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

// SignupRequest is validated locally before any network call.
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
	Gender   string `json:"gender" validate:"required"`
	Age      int    `json:"age" validate:"required,gte=18"`
}

type SwipeResponse struct {
	Match        bool                `json:"match"`
	MatchID      string              `json:"match_id,omitempty"`
	MatchDetails *models.MatchRecord `json:"matchDetails,omitempty"`
}

type UploadResponse struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename"`
}

// Login authenticates and stores the token and user id locally. When the
// backend is unreachable the built-in test account still works, so offline
// development is not blocked.
func (c *Client) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	var resp AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		var statusErr *StatusError
		if !errors.As(err, &statusErr) && strings.EqualFold(email, testEmail) && password == testPassword {
			c.log.Warn("backend unreachable, using mock login", "error", err)
			resp = AuthResponse{
				Success: true,
				Token:   "mock-jwt-token-123",
				User:    User{ID: "123", Email: testEmail, Name: "Test User", Age: 25},
			}
			c.storeSession(resp)
			return resp, nil
		}
		return AuthResponse{}, err
	}
	c.storeSession(resp)
	return resp, nil
}

// Signup registers a new account. Validation failures (missing fields,
// underage) are caught before any network call.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (AuthResponse, error) {
	if err := c.validate.Struct(req); err != nil {
		return AuthResponse{}, fmt.Errorf("invalid signup: %w", err)
	}
	if err := content.ValidateDisplayName(req.Name); err != nil {
		return AuthResponse{}, fmt.Errorf("invalid signup: %w", err)
	}

	first, last, _ := strings.Cut(req.Name, " ")
	username, _, _ := strings.Cut(req.Email, "@")
	payload := map[string]string{
		"email":       req.Email,
		"password":    req.Password,
		"username":    username,
		"firstName":   first,
		"lastName":    last,
		"gender":      req.Gender,
		"dateOfBirth": time.Now().AddDate(-req.Age, 0, 0).Format("2006-01-02"),
	}

	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signup", payload, &resp); err != nil {
		return AuthResponse{}, err
	}
	c.storeSession(resp)
	return resp, nil
}

// Logout clears the locally stored session.
func (c *Client) Logout() error {
	if err := c.prefs.DeletePref(storage.PrefAuthToken); err != nil {
		return err
	}
	return c.prefs.DeletePref(storage.PrefUserID)
}

// Profile returns the logged-in user's profile, or a canned fallback when
// the backend is unreachable.
func (c *Client) Profile(ctx context.Context) (models.Profile, error) {
	var resp struct {
		Profile models.Profile `json:"profile"`
	}
	if err := c.do(ctx, http.MethodGet, "/user/profile", nil, &resp); err != nil {
		c.log.Warn("profile fetch failed, using fallback", "error", err)
		return models.Profile{
			Name:   "John Doe",
			Age:    25,
			Bio:    "Love hiking and coffee ☕",
			Photos: []string{"https://randomuser.me/api/portraits/men/1.jpg"},
		}, nil
	}
	return resp.Profile, nil
}

// UpdateProfile saves profile edits. Write-style operation: failures are
// returned, not masked.
func (c *Client) UpdateProfile(ctx context.Context, profile models.Profile) error {
	return c.do(ctx, http.MethodPut, "/user/profile", profile, nil)
}

// PublicProfile returns another user's public profile, cached for a few
// minutes to keep the chat screen from re-fetching on every open.
func (c *Client) PublicProfile(ctx context.Context, userID string) (models.Profile, error) {
	if cached, err := c.profiles.Get(userID); err == nil {
		return cached, nil
	}

	var resp struct {
		Profile models.Profile `json:"profile"`
	}
	if err := c.do(ctx, http.MethodGet, "/user/profile/"+url.PathEscape(userID), nil, &resp); err != nil {
		c.log.Warn("public profile fetch failed, using fallback", "user_id", userID, "error", err)
		return models.Profile{Name: "Unknown", Bio: "AI Enthusiast"}, nil
	}
	c.profiles.Set(userID, resp.Profile)
	return resp.Profile, nil
}

// UploadPhoto posts image bytes as a multipart form. The content type is
// sniffed from the bytes, not taken from the filename.
func (c *Client) UploadPhoto(ctx context.Context, name string, data []byte) (UploadResponse, error) {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return UploadResponse{}, errors.New("upload: unrecognized image data")
	}
	if !filetype.IsImage(data) {
		return UploadResponse{}, fmt.Errorf("upload: %s is not an image type", kind.MIME.Value)
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("photo", name)
	if err != nil {
		return UploadResponse{}, err
	}
	if _, err := part.Write(data); err != nil {
		return UploadResponse{}, err
	}
	if err := form.Close(); err != nil {
		return UploadResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/user/upload", &body)
	if err != nil {
		return UploadResponse{}, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	c.setAuthHeaders(req)

	var resp UploadResponse
	if err := c.roundTrip(req, &resp); err != nil {
		return UploadResponse{}, err
	}
	return resp, nil
}

// PotentialMatches fetches the candidate pool filtered server-side.
func (c *Client) PotentialMatches(ctx context.Context, filters models.Filters) ([]models.Profile, error) {
	params := url.Values{}
	if filters.MinAge > 0 {
		params.Set("min_age", strconv.Itoa(filters.MinAge))
	}
	if filters.MaxAge > 0 {
		params.Set("max_age", strconv.Itoa(filters.MaxAge))
	}
	if filters.Gender != "" {
		params.Set("gender", filters.Gender)
	}

	path := "/user/matches/potential"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var resp struct {
		Matches []models.Profile `json:"matches"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Matches, nil
}

// Swipe records a like or pass on the target user.
func (c *Client) Swipe(ctx context.Context, targetUserID, action, comment string) (SwipeResponse, error) {
	payload := map[string]string{
		"targetUserId": targetUserID,
		"action":       action,
	}
	if comment != "" {
		payload["comment"] = comment
	}

	var resp SwipeResponse
	if err := c.do(ctx, http.MethodPost, "/user/matches/swipe", payload, &resp); err != nil {
		return SwipeResponse{}, err
	}
	return resp, nil
}

// Matches returns the user's current match list.
func (c *Client) Matches(ctx context.Context) ([]models.MatchRecord, error) {
	var resp struct {
		Matches []models.MatchRecord `json:"matches"`
	}
	if err := c.do(ctx, http.MethodGet, "/user/matches", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Matches, nil
}

// Unmatch removes a match server-side.
func (c *Client) Unmatch(ctx context.Context, matchID string) error {
	return c.do(ctx, http.MethodDelete, "/user/matches/"+url.PathEscape(matchID), nil, nil)
}

func (c *Client) storeSession(resp AuthResponse) {
	if resp.Token == "" {
		return
	}
	if err := c.prefs.SetPref(storage.PrefAuthToken, resp.Token); err != nil {
		c.log.Error("failed to persist auth token", "error", err)
	}
	if err := c.prefs.SetPref(storage.PrefUserID, resp.User.ID); err != nil {
		c.log.Error("failed to persist user id", "error", err)
	}
}

func (c *Client) setAuthHeaders(req *http.Request) {
	if token, err := c.prefs.Pref(storage.PrefAuthToken); err == nil && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if userID, err := c.prefs.Pref(storage.PrefUserID); err == nil && userID != "" {
		req.Header.Set("User-Id", userID)
	}
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuthHeaders(req)

	return c.roundTrip(req, out)
}

func (c *Client) roundTrip(req *http.Request, out any) error {
	c.log.Debug("api request", "method", req.Method, "url", req.URL.String())

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("api transport error", "method", req.Method, "url", req.URL.String(), "error", err)
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug("api response", "method", req.Method, "url", req.URL.String(), "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&apiErr)
		msg := apiErr.Error
		if msg == "" {
			msg = apiErr.Message
		}
		return &StatusError{Code: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
