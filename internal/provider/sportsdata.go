package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/prop-scout/internal/models"
	"github.com/yourusername/prop-scout/internal/oddsmath"
)

// ResponseCache is a TTL cache for provider responses. It is created at
// process start and injected into the client; entries evict on expiry.
type ResponseCache struct {
	cache *cache.Cache
}

// NewResponseCache creates a response cache with the given TTL
func NewResponseCache(ttl time.Duration) *ResponseCache {
	return &ResponseCache{cache: cache.New(ttl, ttl*2)}
}

func (rc *ResponseCache) get(key string) ([]byte, bool) {
	if v, found := rc.cache.Get(key); found {
		if body, ok := v.([]byte); ok {
			return body, true
		}
	}
	return nil, false
}

func (rc *ResponseCache) set(key string, body []byte) {
	rc.cache.SetDefault(key, body)
}

// SportsDataClient fetches stats and odds from the provider's JSON API.
// It implements both StatsProvider and OddsProvider.
type SportsDataClient struct {
	baseURL    string
	apiKey     string
	httpClient *RateLimitedHTTPClient
	respCache  *ResponseCache
	logger     *logrus.Logger
}

// NewSportsDataClient creates a provider client. A nil cache disables
// response caching.
func NewSportsDataClient(baseURL, apiKey string, httpClient *RateLimitedHTTPClient, respCache *ResponseCache, logger *logrus.Logger) *SportsDataClient {
	return &SportsDataClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
		respCache:  respCache,
		logger:     logger,
	}
}

// wire formats

type gameLogResponse struct {
	Records []struct {
		PlayerID string          `json:"player_id"`
		GameID   string          `json:"game_id"`
		GameDate string          `json:"game_date"`
		Season   int             `json:"season"`
		Stats    models.StatLine `json:"stats"`
	} `json:"records"`
}

type finalStatsResponse struct {
	GameID    string                     `json:"game_id"`
	Completed bool                       `json:"completed"`
	Players   map[string]models.StatLine `json:"players"`
}

type propQuotesResponse struct {
	Quotes []struct {
		GameID   string               `json:"game_id"`
		PlayerID string               `json:"player_id"`
		PropType models.PropType      `json:"prop_type"`
		Line     float64              `json:"line"`
		Vendors  []models.VendorPrice `json:"vendors"`
	} `json:"quotes"`
}

// PlayerGameLog returns all stat records for a player in a season
func (c *SportsDataClient) PlayerGameLog(ctx context.Context, playerID string, season int) ([]models.StatRecord, error) {
	endpoint := fmt.Sprintf("/v1/players/%s/gamelog?season=%d", url.PathEscape(playerID), season)

	body, err := c.fetch(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch game log for player %s: %w", playerID, err)
	}

	var parsed gameLogResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse game log response: %w", err)
	}

	records := make([]models.StatRecord, 0, len(parsed.Records))
	for _, rec := range parsed.Records {
		gameDate, err := time.Parse("2006-01-02", rec.GameDate)
		if err != nil {
			c.logger.WithFields(logrus.Fields{
				"player_id": rec.PlayerID,
				"game_id":   rec.GameID,
			}).Warnf("Skipping record with bad game date %q", rec.GameDate)
			continue
		}
		records = append(records, models.StatRecord{
			PlayerID: rec.PlayerID,
			GameID:   rec.GameID,
			GameDate: gameDate,
			Season:   rec.Season,
			Stats:    rec.Stats,
		})
	}

	return records, nil
}

// FinalStats returns final per-player stat lines once the game completes
func (c *SportsDataClient) FinalStats(ctx context.Context, gameID string) (map[string]models.StatLine, bool, error) {
	endpoint := fmt.Sprintf("/v1/games/%s/boxscore", url.PathEscape(gameID))

	body, err := c.fetch(ctx, endpoint)
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch final stats for game %s: %w", gameID, err)
	}

	var parsed finalStatsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, false, fmt.Errorf("failed to parse final stats response: %w", err)
	}

	if !parsed.Completed {
		return nil, false, nil
	}

	return parsed.Players, true, nil
}

// PropQuotes returns the full prop market for a slate date with the best
// price per side pre-selected
func (c *SportsDataClient) PropQuotes(ctx context.Context, date time.Time) ([]models.OddsQuote, error) {
	endpoint := fmt.Sprintf("/v1/odds/props?date=%s", date.UTC().Format("2006-01-02"))

	body, err := c.fetch(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prop quotes: %w", err)
	}

	var parsed propQuotesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse prop quotes response: %w", err)
	}

	scrapedAt := time.Now().UTC()
	quotes := make([]models.OddsQuote, 0, len(parsed.Quotes))
	for _, q := range parsed.Quotes {
		if !q.PropType.IsValid() {
			c.logger.Debugf("Skipping unsupported prop type %q for player %s", q.PropType, q.PlayerID)
			continue
		}
		quotes = append(quotes, models.OddsQuote{
			GameID:    q.GameID,
			PlayerID:  q.PlayerID,
			PropType:  q.PropType,
			Line:      q.Line,
			Vendors:   q.Vendors,
			Best:      oddsmath.SelectBestQuote(q.Vendors),
			ScrapedAt: scrapedAt,
		})
	}

	return quotes, nil
}

// fetch executes a GET against the provider, consulting the response cache
// first
func (c *SportsDataClient) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	fullURL := c.baseURL + endpoint

	if c.respCache != nil {
		if body, found := c.respCache.get(fullURL); found {
			return body, nil
		}
	}

	req, err := c.newRequest(ctx, fullURL)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != 200 {
		resp.Body.Close()
		return nil, fmt.Errorf("provider returned status %d for %s", resp.StatusCode, endpoint)
	}

	body, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider response: %w", err)
	}

	if c.respCache != nil {
		c.respCache.set(fullURL, body)
	}

	return body, nil
}

func (c *SportsDataClient) newRequest(ctx context.Context, fullURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	return req, nil
}
