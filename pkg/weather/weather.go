// Package weather implements the two lookups the naturalist agent relies on:
// turning a place description into coordinates and reporting the weather at a
// coordinate pair.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/germanamz/wildlife/pkg/settings"
)

// maxBodySize bounds how much of a response body is read.
const maxBodySize = 1 << 20

// Deps is the dependency bundle shared by every tool invocation of one run.
type Deps struct {
	Client   *http.Client
	Settings settings.Settings
}

// LatLng is a coordinate pair in decimal degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Report is what the weather tool hands back to the model.
type Report struct {
	Temperature string `json:"temperature"`
	Description string `json:"description"`
}

// StatusError is returned when an endpoint answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("weather: GET %s: unexpected status %d: %s", e.URL, e.StatusCode, e.Body)
}

// DecodeError is returned when the geocoding body is not a {lat, lng} object.
type DecodeError struct {
	Body string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("weather: decode coordinates %q: %v", e.Body, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// GetLatLng asks the geocoding endpoint for the coordinates of description.
func GetLatLng(ctx context.Context, deps *Deps, description string) (LatLng, error) {
	u, err := url.Parse(deps.Settings.LocationURL)
	if err != nil {
		return LatLng{}, fmt.Errorf("weather: location url: %w", err)
	}

	q := u.Query()
	q.Set("location", description)
	u.RawQuery = q.Encode()

	body, err := get(ctx, deps.client(), u.String())
	if err != nil {
		return LatLng{}, err
	}

	return decodeLatLng(body)
}

// GetWeather fetches the temperature and the description for a coordinate
// pair. Both requests run concurrently and both must succeed.
func GetWeather(ctx context.Context, deps *Deps, lat, lng float64) (Report, error) {
	base := strings.TrimRight(deps.Settings.WeatherURL, "/")

	numberURL := base + "/number?" + url.Values{
		"min": {"10"},
		"max": {"30"},
	}.Encode()
	weatherURL := base + "/weather?" + url.Values{
		"lat": {formatCoord(lat)},
		"lng": {formatCoord(lng)},
	}.Encode()

	var temp, desc []byte

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		temp, err = get(gctx, deps.client(), numberURL)
		return err
	})
	g.Go(func() error {
		var err error
		desc, err = get(gctx, deps.client(), weatherURL)
		return err
	})

	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	return Report{
		Temperature: string(temp) + " °C",
		Description: string(desc),
	}, nil
}

func (d *Deps) client() *http.Client {
	if d.Client != nil {
		return d.Client
	}
	return http.DefaultClient
}

func get(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("weather: create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather: GET %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("weather: read %s: %w", rawURL, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

func decodeLatLng(body []byte) (LatLng, error) {
	var raw struct {
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
	}

	if err := json.Unmarshal(body, &raw); err != nil {
		return LatLng{}, &DecodeError{Body: string(body), Err: err}
	}

	if raw.Lat == nil || raw.Lng == nil {
		return LatLng{}, &DecodeError{Body: string(body), Err: fmt.Errorf("lat and lng are required")}
	}

	return LatLng{Lat: *raw.Lat, Lng: *raw.Lng}, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
