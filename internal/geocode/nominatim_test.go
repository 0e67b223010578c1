package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestAccuracyFor(t *testing.T) {
	rooftop := nominatimItem{}
	rooftop.Address.HouseNumber = "123"
	if got := accuracyFor(rooftop); got != AccuracyRooftop {
		t.Fatalf("house number should grade rooftop, got %s", got)
	}

	road := nominatimItem{Class: "highway"}
	if got := accuracyFor(road); got != AccuracyInterpolated {
		t.Fatalf("highway should grade interpolated, got %s", got)
	}

	suburb := nominatimItem{AddressType: "suburb"}
	if got := accuracyFor(suburb); got != AccuracyCenter {
		t.Fatalf("suburb should grade center, got %s", got)
	}

	if got := accuracyFor(nominatimItem{}); got != AccuracyApproximate {
		t.Fatalf("default should grade approximate, got %s", got)
	}
}

func TestPickBestCandidatePrefersPrecision(t *testing.T) {
	vague := nominatimItem{Lat: "39.5", Lon: "-105.8", DisplayName: "Colorado, USA", AddressType: "state", Importance: 0.9}
	exact := nominatimItem{Lat: "39.7392", Lon: "-104.9903", DisplayName: "123 Main St, Denver", Importance: 0.3}
	exact.Address.HouseNumber = "123"
	exact.Address.City = "Denver"

	res, err := pickBestCandidate([]nominatimItem{vague, exact}, "123 main st, denver, co", 39.7392, -104.9903)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.FormattedAddress != "123 Main St, Denver" {
		t.Fatalf("picked wrong candidate: %+v", res)
	}
	if res.Accuracy != AccuracyRooftop {
		t.Fatalf("unexpected accuracy: %s", res.Accuracy)
	}
}

func TestPickBestCandidateEmpty(t *testing.T) {
	if _, err := pickBestCandidate(nil, "anything", 0, 0); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestScoreCandidateRegionPenalty(t *testing.T) {
	near := nominatimItem{Lat: "39.74", Lon: "-104.99"}
	far := nominatimItem{Lat: "34.05", Lon: "-118.24"}

	nearScore := scoreCandidate(near, "denver", 39.7392, -104.9903)
	farScore := scoreCandidate(far, "denver", 39.7392, -104.9903)
	if nearScore <= farScore {
		t.Fatalf("distant candidate not penalized: near=%f far=%f", nearScore, farScore)
	}
}

func TestScoreCandidateMatchBonuses(t *testing.T) {
	base := nominatimItem{Lat: "39.74", Lon: "-104.99"}
	matched := base
	matched.Address.City = "Denver"
	matched.Address.State = "Colorado"
	matched.Address.HouseNumber = "123"

	query := "123 main st, denver, colorado"
	if scoreCandidate(matched, query, 0, 0) <= scoreCandidate(base, query, 0, 0) {
		t.Fatal("matching city/state/house number earned no bonus")
	}
}

func TestScoreCandidateDroppedHouseNumberPenalty(t *testing.T) {
	item := nominatimItem{Lat: "39.74", Lon: "-104.99", Class: "highway"}

	numbered := scoreCandidate(item, "123 main st, denver", 0, 0)
	unnumbered := scoreCandidate(item, "main st, denver", 0, 0)
	if numbered >= unnumbered {
		t.Fatalf("candidate without the requested house number not penalized: numbered=%f unnumbered=%f", numbered, unnumbered)
	}
}

func TestGeocodeCachesPerQuery(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		item := nominatimItem{Lat: "39.7392", Lon: "-104.9903", DisplayName: "Denver"}
		_ = json.NewEncoder(w).Encode([]nominatimItem{item})
	}))
	defer srv.Close()

	g := &NominatimGeocoder{BaseURL: srv.URL, MinInterval: time.Millisecond}
	for i := 0; i < 3; i++ {
		res, err := g.Geocode(context.Background(), "denver, co")
		if err != nil {
			t.Fatalf("geocode: %v", err)
		}
		if res.Lat != 39.7392 {
			t.Fatalf("unexpected result: %+v", res)
		}
	}
	if hits != 1 {
		t.Fatalf("expected 1 upstream hit, got %d", hits)
	}
}

func TestGeocodeConcurrentCallers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		item := nominatimItem{Lat: "39.7392", Lon: "-104.9903", DisplayName: "Denver"}
		_ = json.NewEncoder(w).Encode([]nominatimItem{item})
	}))
	defer srv.Close()

	// No Client or UserAgent set, so every call resolves defaults. Run with
	// -race to catch writes to shared fields.
	g := &NominatimGeocoder{BaseURL: srv.URL, MinInterval: time.Millisecond}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			query := fmt.Sprintf("query %d", i)
			res, err := g.Geocode(context.Background(), query)
			if err != nil {
				t.Errorf("geocode %q: %v", query, err)
				return
			}
			if res.Lat != 39.7392 {
				t.Errorf("geocode %q: unexpected result %+v", query, res)
			}
		}(i)
	}
	wg.Wait()
}

func TestGeocodeEmptyBodyIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	g := &NominatimGeocoder{BaseURL: srv.URL, MinInterval: time.Millisecond}
	if _, err := g.Geocode(context.Background(), "nowhere at all"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
