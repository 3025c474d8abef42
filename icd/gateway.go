package icd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/medterm/crosswalk/core"
)

// tagPattern matches HTML markup in catalog titles, which arrive with
// <em class='found'> highlighting around matched words.
var tagPattern = regexp.MustCompile(`<[^>]*>`)

// Gateway is an authenticated client for the remote classification catalog.
// A fresh token is requested for every logical operation; token lifetime is
// short and concurrent callers are not coordinated, so cross-call caching is
// not assumed reliable.
type Gateway struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

// Option configures a Gateway.
type Option func(*Gateway) error

// WithHTTPClient substitutes the HTTP client, typically for tests.
// Default is a client bounded by the configured timeout.
func WithHTTPClient(client *http.Client) Option {
	return func(g *Gateway) error {
		if client != nil {
			g.client = client
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) error {
		if logger == nil {
			logger = slog.Default()
		}
		g.logger = logger
		return nil
	}
}

// NewGateway creates a gateway with the given configuration.
func NewGateway(cfg Config, opts ...Option) (*Gateway, error) {
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &Gateway{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// tokenResponse mirrors the OAuth2 token endpoint payload.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Authenticate performs the client-credentials exchange and returns the
// bearer token with its lifetime. Every failure mode (network, non-2xx,
// malformed payload, missing token) is reported as ErrAuthFailed.
func (g *Gateway) Authenticate(ctx context.Context) (string, time.Duration, error) {
	form := url.Values{
		"client_id":     {g.cfg.ClientID},
		"client_secret": {g.cfg.ClientSecret},
		"scope":         {g.cfg.Scope},
		"grant_type":    {"client_credentials"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.TokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %w", ErrAuthFailed, classifyNetErr(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", 0, fmt.Errorf("%w: token endpoint returned HTTP %d", ErrAuthFailed, resp.StatusCode)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", 0, fmt.Errorf("%w: decoding token payload: %w", ErrAuthFailed, err)
	}
	if token.AccessToken == "" {
		return "", 0, fmt.Errorf("%w: token payload carries no access_token", ErrAuthFailed)
	}

	return token.AccessToken, time.Duration(token.ExpiresIn) * time.Second, nil
}

// searchEntity mirrors one entry of the catalog search response.
type searchEntity struct {
	TheCode string `json:"theCode"`
	Title   string `json:"title"`
	ID      string `json:"id"`
}

// searchResponse mirrors the wrapped catalog search response shape.
type searchResponse struct {
	DestinationEntities []searchEntity `json:"destinationEntities"`
}

// Search runs a keyword search against the catalog. When the primary search
// returns zero entities and the fallback is enabled, the same query is
// reissued in the widened flexisearch mode; fallback hits carry the
// FromFallback provenance flag. The combined result set is capped at the
// configured limit.
func (g *Gateway) Search(ctx context.Context, term string) ([]core.ExternalCandidate, error) {
	token, _, err := g.Authenticate(ctx)
	if err != nil {
		return nil, err
	}

	primaryURL := g.cfg.SearchEndpoint + "?q=" + url.QueryEscape(term)

	entities, err := g.fetchEntities(ctx, primaryURL, token)
	if err != nil {
		return nil, err
	}

	candidates := make([]core.ExternalCandidate, 0, len(entities))
	for _, entity := range entities {
		if entity.TheCode == "" || entity.Title == "" {
			continue
		}
		candidates = append(candidates, core.ExternalCandidate{
			Code:     entity.TheCode,
			Title:    stripTags(entity.Title),
			EntityID: entity.ID,
		})
	}

	if len(candidates) == 0 && g.cfg.FallbackOnEmpty {
		g.logger.Debug("primary search empty, widening to flexisearch", "term", term)

		fallbackURL := primaryURL + "&useFlexisearch=true&flatResults=true"
		entities, err = g.fetchEntities(ctx, fallbackURL, token)
		if err != nil {
			return nil, err
		}
		for _, entity := range entities {
			if entity.TheCode == "" || entity.Title == "" {
				continue
			}
			candidates = append(candidates, core.ExternalCandidate{
				Code:         entity.TheCode,
				Title:        stripTags(entity.Title),
				EntityID:     entity.ID,
				FromFallback: true,
			})
		}
	}

	if len(candidates) > g.cfg.ResultCap {
		candidates = candidates[:g.cfg.ResultCap]
	}
	return candidates, nil
}

// EntityDetails is the detail payload for one catalog entity.
type EntityDetails struct {
	Code       string
	Title      string
	Definition string
}

// localizedText mirrors the catalog's language-tagged string shape.
type localizedText struct {
	Value string `json:"@value"`
}

// entityResponse mirrors the entity detail payload.
type entityResponse struct {
	Code       string        `json:"code"`
	Title      localizedText `json:"title"`
	Definition localizedText `json:"definition"`
}

// LookupEntity fetches the detail record for one catalog entity id.
func (g *Gateway) LookupEntity(ctx context.Context, entityID string) (*EntityDetails, error) {
	token, _, err := g.Authenticate(ctx)
	if err != nil {
		return nil, err
	}

	uri := entityID
	if !strings.HasPrefix(uri, "http://") && !strings.HasPrefix(uri, "https://") {
		uri = g.cfg.EntityEndpoint + "/" + url.PathEscape(entityID)
	}

	body, err := g.get(ctx, uri, token)
	if err != nil {
		return nil, err
	}

	var entity entityResponse
	if err := json.Unmarshal(body, &entity); err != nil {
		return nil, fmt.Errorf("%w: decoding entity detail: %w", ErrParse, err)
	}

	return &EntityDetails{
		Code:       entity.Code,
		Title:      stripTags(entity.Title.Value),
		Definition: stripTags(entity.Definition.Value),
	}, nil
}

// fetchEntities issues one search request and normalizes the response. The
// widened search may answer with either a bare entity list or the same
// wrapped object the primary search uses; both shapes collapse to one here.
func (g *Gateway) fetchEntities(ctx context.Context, uri, token string) ([]searchEntity, error) {
	body, err := g.get(ctx, uri, token)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var entities []searchEntity
		if err := json.Unmarshal(trimmed, &entities); err != nil {
			return nil, fmt.Errorf("%w: decoding entity list: %w", ErrParse, err)
		}
		return entities, nil
	}

	var wrapped searchResponse
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, fmt.Errorf("%w: decoding search response: %w", ErrParse, err)
	}
	return wrapped.DestinationEntities, nil
}

// get issues one authenticated GET and returns the raw body.
func (g *Gateway) get(ctx context.Context, uri, token string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en")
	req.Header.Set("API-Version", "v2")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, classifyNetErr(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: HTTP %d from %s", ErrStatus, resp.StatusCode, uri)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyNetErr(err)
	}
	return body, nil
}

// classifyNetErr folds deadline failures into ErrTimeout so callers can
// offer a retry instead of reporting "no matches".
func classifyNetErr(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return err
}

// stripTags removes HTML markup from catalog titles.
func stripTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}
