package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tablerank/tablerank"
	"github.com/tablerank/tablerank/internal/config"
	"github.com/tablerank/tablerank/internal/store"
	"github.com/tablerank/tablerank/internal/store/memstore"
)

func newTestAPI(t *testing.T) (*API, *memstore.Store) {
	t.Helper()

	ms := memstore.New()
	svc, err := tablerank.New(tablerank.WithStore(ms))
	if err != nil {
		t.Fatalf("creating service: %v", err)
	}
	t.Cleanup(func() { svc.Close() })

	cfg := config.Config{TableName: "Restaurants", AWSRegion: "us-east-1"}
	return New(svc, cfg, nil, nil), ms
}

func doJSON(t *testing.T, api *API, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	api.Router().ServeHTTP(w, req)
	return w
}

func TestCreate(t *testing.T) {
	api, _ := newTestAPI(t)

	w := doJSON(t, api, http.MethodPost, "/restaurants", map[string]any{
		"name": "Luigi's", "cuisine": "Italian", "region": "North", "rating": 5,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", w.Code, w.Body.String())
	}

	var resp statusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !resp.Success {
		t.Error("success = false, want true")
	}
}

func TestCreate_Duplicate(t *testing.T) {
	api, ms := newTestAPI(t)
	ms.Put(store.Record{UniqueName: "Luigi's", Cuisine: "Italian", GeoRegion: "North"})

	w := doJSON(t, api, http.MethodPost, "/restaurants", map[string]any{
		"name": "Luigi's", "cuisine": "Italian", "region": "North",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestCreate_Validation(t *testing.T) {
	api, _ := newTestAPI(t)

	tests := []struct {
		name string
		body any
	}{
		{"Missing Fields", map[string]any{"name": "Luigi's"}},
		{"Non-Numeric Rating", map[string]any{"name": "Luigi's", "cuisine": "Italian", "region": "North", "rating": "five"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, api, http.MethodPost, "/restaurants", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestGet(t *testing.T) {
	api, ms := newTestAPI(t)
	ms.Put(store.Record{UniqueName: "Luigi's", Cuisine: "Italian", GeoRegion: "North", Rating: 4, RatingCount: 2})

	w := doJSON(t, api, http.MethodGet, "/restaurants/Luigi's", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var r tablerank.Restaurant
	if err := json.Unmarshal(w.Body.Bytes(), &r); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	want := tablerank.Restaurant{Name: "Luigi's", Region: "North", Cuisine: "Italian", Rating: 4}
	if r != want {
		t.Errorf("body = %+v, want %+v", r, want)
	}
}

func TestGet_NotFound(t *testing.T) {
	api, _ := newTestAPI(t)

	w := doJSON(t, api, http.MethodGet, "/restaurants/Nowhere", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDelete(t *testing.T) {
	api, ms := newTestAPI(t)
	ms.Put(store.Record{UniqueName: "Luigi's"})

	w := doJSON(t, api, http.MethodDelete, "/restaurants/Luigi's", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	w = doJSON(t, api, http.MethodGet, "/restaurants/Luigi's", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status after delete = %d, want 404", w.Code)
	}
}

func TestRate(t *testing.T) {
	api, ms := newTestAPI(t)
	ms.Put(store.Record{UniqueName: "Luigi's", Cuisine: "Italian", GeoRegion: "North", Rating: 5, RatingCount: 1})

	w := doJSON(t, api, http.MethodPost, "/restaurants/rating", map[string]any{
		"name": "Luigi's", "rating": 3,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, api, http.MethodGet, "/restaurants/Luigi's", nil)
	var r tablerank.Restaurant
	if err := json.Unmarshal(w.Body.Bytes(), &r); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if r.Rating != 4 {
		t.Errorf("rating = %v, want 4", r.Rating)
	}
}

func TestRate_NotFound(t *testing.T) {
	api, _ := newTestAPI(t)

	w := doJSON(t, api, http.MethodPost, "/restaurants/rating", map[string]any{
		"name": "Nowhere", "rating": 3,
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestRate_Validation(t *testing.T) {
	api, _ := newTestAPI(t)

	w := doJSON(t, api, http.MethodPost, "/restaurants/rating", map[string]any{
		"name": "Luigi's",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for missing rating", w.Code)
	}
}

func TestTopByCuisine_LimitHandling(t *testing.T) {
	api, ms := newTestAPI(t)
	for i := 0; i < 30; i++ {
		ms.Put(store.Record{
			UniqueName: fmt.Sprintf("r%02d", i),
			Cuisine:    "Italian",
			GeoRegion:  "North",
			Rating:     float64(i),
		})
	}

	tests := []struct {
		name    string
		query   string
		wantLen int
	}{
		{"Default", "", 10},
		{"Invalid", "?limit=abc", 10},
		{"Explicit", "?limit=20", 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, api, http.MethodGet, "/restaurants/cuisine/Italian"+tt.query, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}
			var rs []tablerank.Restaurant
			if err := json.Unmarshal(w.Body.Bytes(), &rs); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if len(rs) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(rs), tt.wantLen)
			}
		})
	}
}

func TestTopByRegionAndCuisine(t *testing.T) {
	api, ms := newTestAPI(t)
	ms.Put(store.Record{UniqueName: "A", Cuisine: "Italian", GeoRegion: "North", Rating: 5})
	ms.Put(store.Record{UniqueName: "B", Cuisine: "Italian", GeoRegion: "South", Rating: 4})

	w := doJSON(t, api, http.MethodGet, "/restaurants/region/North/cuisine/Italian", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var rs []tablerank.Restaurant
	if err := json.Unmarshal(w.Body.Bytes(), &rs); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(rs) != 1 || rs[0].Name != "A" {
		t.Errorf("body = %+v, want only A", rs)
	}
}

func TestIndex_EchoesConfig(t *testing.T) {
	api, _ := newTestAPI(t)

	w := doJSON(t, api, http.MethodGet, "/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp indexResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.TableName != "Restaurants" || resp.AWSRegion != "us-east-1" {
		t.Errorf("body = %+v", resp)
	}
}
