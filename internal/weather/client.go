// Package weather provides an OpenWeatherMap client and response formatting.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrFetchFailed covers every upstream failure: network errors, non-2xx
// responses, unknown cities and malformed payloads. Callers substitute a
// fixed user-facing message and never crash on it.
var ErrFetchFailed = errors.New("weather fetch failed")

// Current contains current conditions for one city.
type Current struct {
	City        string
	Temp        float64
	TempMin     float64
	TempMax     float64
	Humidity    int
	WindSpeed   float64
	Description string
}

// ForecastDay is one daily summary within a forecast.
type ForecastDay struct {
	Date        string // YYYY-MM-DD
	Temp        float64
	TempMin     float64
	TempMax     float64
	Humidity    int
	WindSpeed   float64
	Description string
}

// Forecast contains five daily summaries for one city.
type Forecast struct {
	City string
	Days []ForecastDay
}

// Client wraps the OpenWeatherMap HTTP API.
type Client struct {
	apiKey     string
	baseURL    string
	lang       string
	httpClient *http.Client
}

// NewClient creates a new OpenWeatherMap client.
func NewClient(apiKey, baseURL, lang string, timeout time.Duration) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		lang:    lang,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// conditions mirrors the shared part of the /weather and /forecast payloads.
type conditions struct {
	Main struct {
		Temp     float64 `json:"temp"`
		TempMin  float64 `json:"temp_min"`
		TempMax  float64 `json:"temp_max"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

type forecastResponse struct {
	List []struct {
		conditions
		DtTxt string `json:"dt_txt"`
	} `json:"list"`
}

// Current retrieves current conditions for a city.
func (c *Client) Current(ctx context.Context, city string) (*Current, error) {
	var data conditions
	if err := c.get(ctx, "/weather", city, &data); err != nil {
		return nil, err
	}

	return &Current{
		City:        city,
		Temp:        data.Main.Temp,
		TempMin:     data.Main.TempMin,
		TempMax:     data.Main.TempMax,
		Humidity:    data.Main.Humidity,
		WindSpeed:   data.Wind.Speed,
		Description: description(data),
	}, nil
}

// Forecast retrieves a 5-day forecast for a city. The upstream returns
// 3-hour slots; every 8th slot is taken as that day's summary.
func (c *Client) Forecast(ctx context.Context, city string) (*Forecast, error) {
	var data forecastResponse
	if err := c.get(ctx, "/forecast", city, &data); err != nil {
		return nil, err
	}

	forecast := &Forecast{City: city}
	for i := 0; i < len(data.List); i += 8 {
		item := data.List[i]
		date, _, _ := strings.Cut(item.DtTxt, " ")
		forecast.Days = append(forecast.Days, ForecastDay{
			Date:        date,
			Temp:        item.Main.Temp,
			TempMin:     item.Main.TempMin,
			TempMax:     item.Main.TempMax,
			Humidity:    item.Main.Humidity,
			WindSpeed:   item.Wind.Speed,
			Description: description(item.conditions),
		})
	}
	if len(forecast.Days) == 0 {
		return nil, fmt.Errorf("%w: empty forecast for %s", ErrFetchFailed, city)
	}
	return forecast, nil
}

// get performs one API request and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path, city string, out interface{}) error {
	params := url.Values{}
	params.Set("q", city)
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")
	params.Set("lang", c.lang)

	reqURL := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d for %s", ErrFetchFailed, resp.StatusCode, city)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return nil
}

func description(data conditions) string {
	if len(data.Weather) == 0 {
		return ""
	}
	return data.Weather[0].Description
}
