// Package settings loads the program configuration from the environment and
// an optional .env file.
package settings

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is the file Get reads.
const DefaultEnvFile = ".env"

const (
	DefaultModelName        = "claude-3-5-haiku-latest"
	DefaultAnthropicBaseURL = "https://api.anthropic.com"
	DefaultLogfireBaseURL   = "https://logfire-api.pydantic.dev"
	DefaultLocationURL      = "https://demo-endpoints.pydantic.workers.dev/latlng"
	DefaultWeatherURL       = "https://demo-endpoints.pydantic.workers.dev/"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("settings: invalid configuration")

// Settings is the immutable program configuration. The env tag names the
// variable each field is read from.
type Settings struct {
	ModelName        string `env:"MODEL_NAME" validate:"required"`
	AnthropicAPIKey  string `env:"ANTHROPIC_API_KEY" validate:"required"`
	AnthropicBaseURL string `env:"ANTHROPIC_BASE_URL" validate:"required,url"`
	LogfireToken     string `env:"LOGFIRE_TOKEN" validate:"required"`
	LogfireBaseURL   string `env:"LOGFIRE_BASE_URL" validate:"required,url"`
	LocationURL      string `env:"LOCATION_MCP_URL" validate:"required,url"`
	WeatherURL       string `env:"WEATHER_MCP_URL" validate:"required,url"`
}

// Defaults returns Settings with every non-secret field at its default.
func Defaults() Settings {
	return Settings{
		ModelName:        DefaultModelName,
		AnthropicBaseURL: DefaultAnthropicBaseURL,
		LogfireBaseURL:   DefaultLogfireBaseURL,
		LocationURL:      DefaultLocationURL,
		WeatherURL:       DefaultWeatherURL,
	}
}

var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("env")
	})
	return v
}()

var cached = sync.OnceValues(func() (Settings, error) {
	return Load(DefaultEnvFile)
})

// Get loads the settings from the environment and DefaultEnvFile on the first
// call and returns the same result on every later call.
func Get() (Settings, error) {
	return cached()
}

// Load reads settings without caching. Variables set in the process
// environment take precedence over envFile; a missing envFile is ignored.
func Load(envFile string) (Settings, error) {
	fileVars, err := readEnvFile(envFile)
	if err != nil {
		return Settings{}, err
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	}

	s := Defaults()

	rv := reflect.ValueOf(&s).Elem()
	rt := rv.Type()
	for i := range rt.NumField() {
		if v, ok := lookup(rt.Field(i).Tag.Get("env")); ok {
			rv.Field(i).SetString(v)
		}
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}

	return s, nil
}

// Validate checks required fields and URL formats.
func (s Settings) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "url":
			msgs = append(msgs, fmt.Sprintf("%s must be a URL, got %q", fe.Field(), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
		}
	}

	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

// String hides the secrets so Settings can be logged.
func (s Settings) String() string {
	return fmt.Sprintf("model=%s anthropic=%s logfire=%s location=%s weather=%s",
		s.ModelName, s.AnthropicBaseURL, s.LogfireBaseURL, s.LocationURL, s.WeatherURL)
}

func readEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	vars, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("settings: read %s: %w", path, err)
	}

	return vars, nil
}
