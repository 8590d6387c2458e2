package weather

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/germanamz/wildlife/pkg/settings"
)

func newDeps(t *testing.T, locationURL, weatherURL string) *Deps {
	t.Helper()

	s := settings.Defaults()
	s.LocationURL = locationURL
	s.WeatherURL = weatherURL

	return &Deps{Client: &http.Client{}, Settings: s}
}

func TestGetLatLng(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("location")
		_, _ = w.Write([]byte(`{"lat": 51.5, "lng": -0.1}`))
	}))
	defer srv.Close()

	deps := newDeps(t, srv.URL+"/latlng", srv.URL)

	ll, err := GetLatLng(context.Background(), deps, "London & Wiltshire")
	require.NoError(t, err)

	assert.Equal(t, LatLng{Lat: 51.5, Lng: -0.1}, ll)
	assert.Equal(t, "London & Wiltshire", gotQuery)
}

func TestGetLatLng_ExtraFieldsIgnored(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"lat": 0, "lng": 180, "city": "nowhere"}`))
	}))
	defer srv.Close()

	ll, err := GetLatLng(context.Background(), newDeps(t, srv.URL, srv.URL), "x")
	require.NoError(t, err)
	assert.Equal(t, LatLng{Lat: 0, Lng: 180}, ll)
}

func TestGetLatLng_DecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `London`},
		{name: "missing lng", body: `{"lat": 1}`},
		{name: "string lat", body: `{"lat": "1", "lng": 2}`},
		{name: "array", body: `[1, 2]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := GetLatLng(context.Background(), newDeps(t, srv.URL, srv.URL), "x")

			var de *DecodeError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.body, de.Body)
		})
	}
}

func TestGetLatLng_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := GetLatLng(context.Background(), newDeps(t, srv.URL, srv.URL), "x")

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Equal(t, "boom\n", se.Body)
}

func TestGetWeather(t *testing.T) {
	var (
		mu                        sync.Mutex
		numberQuery, weatherQuery string
	)
	mux := http.NewServeMux()
	mux.HandleFunc("/number", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		numberQuery = r.URL.RawQuery
		mu.Unlock()
		_, _ = w.Write([]byte("18"))
	})
	mux.HandleFunc("/weather", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		weatherQuery = r.URL.RawQuery
		mu.Unlock()
		_, _ = w.Write([]byte("Partly cloudy"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	report, err := GetWeather(context.Background(), newDeps(t, srv.URL, srv.URL+"/"), 51.5, -0.1)
	require.NoError(t, err)

	assert.Equal(t, Report{Temperature: "18 °C", Description: "Partly cloudy"}, report)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "max=30&min=10", numberQuery)
	assert.Equal(t, "lat=51.5&lng=-0.1", weatherQuery)

	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.JSONEq(t, `{"temperature":"18 °C","description":"Partly cloudy"}`, string(data))
}

func TestGetWeather_BaseWithoutTrailingSlash(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	_, err := GetWeather(context.Background(), newDeps(t, srv.URL, srv.URL), 0, 0)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"/number", "/weather"}, paths)
}

func TestGetWeather_VerbatimBodies(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/number", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("-3"))
	})
	mux.HandleFunc("/weather", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(""))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	report, err := GetWeather(context.Background(), newDeps(t, srv.URL, srv.URL), 95, 400)
	require.NoError(t, err)

	assert.Equal(t, Report{Temperature: "-3 °C", Description: ""}, report)
}

func TestGetWeather_OneRequestFails(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/number", func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "nope", http.StatusBadGateway)
	})
	mux.HandleFunc("/weather", func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte("Sunny"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	_, err := GetWeather(context.Background(), newDeps(t, srv.URL, srv.URL), 1, 2)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadGateway, se.StatusCode)
	assert.LessOrEqual(t, calls.Load(), int32(2))
}

func TestGetWeather_Canceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := GetWeather(ctx, newDeps(t, srv.URL, srv.URL), 1, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
