package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/peakcomfort/backend/internal/utils"
)

// NominatimGeocoder resolves addresses through a Nominatim endpoint. It
// fetches several candidates and keeps the best-scoring one; requests are
// throttled to MinInterval and results cached per query.
type NominatimGeocoder struct {
	BaseURL     string
	UserAgent   string
	MinInterval time.Duration
	Client      *http.Client

	// RegionLat/RegionLng bias scoring toward the service area; candidates
	// far from the office lose points.
	RegionLat float64
	RegionLng float64

	mu        sync.Mutex
	lastReqAt time.Time
	cache     map[string]Result
}

type nominatimItem struct {
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	DisplayName string  `json:"display_name"`
	Class       string  `json:"class"`
	Type        string  `json:"type"`
	AddressType string  `json:"addresstype"`
	Importance  float64 `json:"importance"`
	Address     struct {
		HouseNumber string `json:"house_number"`
		City        string `json:"city"`
		Town        string `json:"town"`
		State       string `json:"state"`
	} `json:"address"`
}

func (g *NominatimGeocoder) Geocode(ctx context.Context, query string) (Result, error) {
	g.mu.Lock()
	if g.cache == nil {
		g.cache = map[string]Result{}
	}
	if cached, ok := g.cache[query]; ok {
		g.mu.Unlock()
		return cached, nil
	}

	// Defaults are resolved into locals so concurrent callers never mutate
	// the shared fields.
	client := g.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	baseURL := g.BaseURL
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}
	userAgent := g.UserAgent
	if userAgent == "" {
		userAgent = "peakcomfort-backoffice"
	}
	minInterval := g.MinInterval
	if minInterval <= 0 {
		minInterval = time.Second
	}

	sleepFor := time.Until(g.lastReqAt.Add(minInterval))
	if sleepFor > 0 {
		g.mu.Unlock()
		select {
		case <-time.After(sleepFor):
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
		g.mu.Lock()
	}
	g.lastReqAt = time.Now()
	g.mu.Unlock()

	endpoint := fmt.Sprintf("%s/search?q=%s&format=json&addressdetails=1&limit=5", baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, fmt.Errorf("nominatim http error: %s", resp.Status)
	}

	var items []nominatimItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return Result{}, err
	}
	result, err := pickBestCandidate(items, query, g.RegionLat, g.RegionLng)
	if err != nil {
		return Result{}, err
	}

	g.mu.Lock()
	g.cache[query] = result
	g.mu.Unlock()

	return result, nil
}

// pickBestCandidate scores every returned candidate and keeps the winner.
func pickBestCandidate(items []nominatimItem, query string, regionLat, regionLng float64) (Result, error) {
	if len(items) == 0 {
		return Result{}, ErrNotFound
	}

	bestIdx := -1
	bestScore := 0.0
	for i := range items {
		score := scoreCandidate(items[i], query, regionLat, regionLng)
		if bestIdx == -1 || score > bestScore {
			bestIdx = i
			bestScore = score
		}
	}

	item := items[bestIdx]
	lat, err := strconv.ParseFloat(item.Lat, 64)
	if err != nil {
		return Result{}, err
	}
	lng, err := strconv.ParseFloat(item.Lon, 64)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Lat:              lat,
		Lng:              lng,
		FormattedAddress: item.DisplayName,
		Accuracy:         accuracyFor(item),
		Confidence:       item.Importance,
	}, nil
}

// scoreCandidate ranks precision grade first, then match quality: city/state
// agreement with the query and the presence of a house number add points;
// a dropped house number, overly generic result classes, and distance from
// the service area subtract.
func scoreCandidate(item nominatimItem, query string, regionLat, regionLng float64) float64 {
	var score float64
	switch accuracyFor(item) {
	case AccuracyRooftop:
		score = 40
	case AccuracyInterpolated:
		score = 30
	case AccuracyCenter:
		score = 20
	default:
		score = 10
	}

	q := strings.ToLower(query)
	city := item.Address.City
	if city == "" {
		city = item.Address.Town
	}
	if city != "" && strings.Contains(q, strings.ToLower(city)) {
		score += 5
	}
	if item.Address.State != "" && strings.Contains(q, strings.ToLower(item.Address.State)) {
		score += 5
	}
	if item.Address.HouseNumber != "" {
		score += 5
	} else if HasStreetNumber(query) {
		// The caller asked for a numbered address and this candidate lost it.
		score -= 5
	}
	if isGenericClass(item) {
		score -= 10
	}

	if regionLat != 0 || regionLng != 0 {
		lat, err1 := strconv.ParseFloat(item.Lat, 64)
		lng, err2 := strconv.ParseFloat(item.Lon, 64)
		if err1 == nil && err2 == nil {
			if utils.HaversineKm(lat, lng, regionLat, regionLng) > 150 {
				score -= 15
			}
		}
	}

	return score + item.Importance
}

func accuracyFor(item nominatimItem) string {
	if item.Address.HouseNumber != "" || item.AddressType == "building" || item.Class == "building" {
		return AccuracyRooftop
	}
	if item.Class == "highway" || item.AddressType == "road" {
		return AccuracyInterpolated
	}
	if item.AddressType == "suburb" || item.AddressType == "neighbourhood" || item.AddressType == "postcode" {
		return AccuracyCenter
	}
	return AccuracyApproximate
}

func isGenericClass(item nominatimItem) bool {
	switch item.AddressType {
	case "state", "country", "region", "county":
		return true
	}
	return item.Class == "boundary" && item.Address.HouseNumber == ""
}
