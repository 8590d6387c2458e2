package weather

import (
	"context"

	"github.com/germanamz/wildlife/pkg/agentctx"
	"github.com/germanamz/wildlife/pkg/tools/toolbox"
)

// LatLngInput is the argument of the get_lat_lng tool.
type LatLngInput struct {
	LocationDescription string `json:"location_description" jsonschema:"description=A description of a location."`
}

// WeatherInput is the argument of the get_weather tool.
type WeatherInput struct {
	Lat float64 `json:"lat" jsonschema:"description=Latitude of the location."`
	Lng float64 `json:"lng" jsonschema:"description=Longitude of the location."`
}

// Tools returns a toolbox with get_lat_lng and get_weather. Handlers read
// their *Deps from the context via agentctx.WithDeps.
func Tools() *toolbox.ToolBox {
	tb := toolbox.New()
	tb.Register(
		toolbox.NewTyped("get_lat_lng", "Get the latitude and longitude of a location.",
			func(ctx context.Context, in LatLngInput) (LatLng, error) {
				deps, err := agentctx.RequireDeps[*Deps](ctx)
				if err != nil {
					return LatLng{}, err
				}
				return GetLatLng(ctx, deps, in.LocationDescription)
			}),
		toolbox.NewTyped("get_weather", "Get the weather at a location.",
			func(ctx context.Context, in WeatherInput) (Report, error) {
				deps, err := agentctx.RequireDeps[*Deps](ctx)
				if err != nil {
					return Report{}, err
				}
				return GetWeather(ctx, deps, in.Lat, in.Lng)
			}),
	)
	return tb
}
