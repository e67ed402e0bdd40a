package weather

import (
	"strings"
	"testing"
)

func TestIsExtreme(t *testing.T) {
	tests := []struct {
		name        string
		temp        float64
		description string
		want        bool
	}{
		{"heat above threshold", 30.5, "ясно", true},
		{"exactly 30 is not extreme", 30, "ясно", false},
		{"frost below threshold", -10.5, "ясно", true},
		{"exactly -10 is not extreme", -10, "ясно", false},
		{"heavy rain marker", 15, "сильний дощ", true},
		{"storm marker", 15, "Шторм з градом", true},
		{"plain rain is fine", 15, "невеликий дощ", false},
		{"mild day", 20, "хмарно", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsExtreme(tt.temp, tt.description); got != tt.want {
				t.Errorf("IsExtreme(%g, %q) = %v, want %v", tt.temp, tt.description, got, tt.want)
			}
		})
	}
}

func TestWeatherEmoji(t *testing.T) {
	tests := []struct {
		description string
		want        string
	}{
		{"невеликий дощ", "🌦️"},
		{"Хмарно", "☁️"},
		{"ясно", "☀️"},
		{"чисте небо", "☀️"},
		{"туман", "🌤️"},
	}

	for _, tt := range tests {
		if got := WeatherEmoji(tt.description); got != tt.want {
			t.Errorf("WeatherEmoji(%q) = %q, want %q", tt.description, got, tt.want)
		}
	}
}

func TestAdvice(t *testing.T) {
	tests := []struct {
		name        string
		description string
		temp, wind  float64
		humidity    int
		wantSubstr  string
	}{
		{"rain wins over cold", "дощ", 2, 3, 80, "парасолю"},
		{"cold", "ясно", 2, 3, 80, "теплий одяг"},
		{"strong wind counts as cold", "ясно", 15, 12, 40, "теплий одяг"},
		{"hot and dry", "ясно", 28, 2, 30, "сонцезахисний крем"},
		{"default", "хмарно", 18, 3, 60, "зручно"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Advice(tt.description, tt.temp, tt.wind, tt.humidity)
			if !strings.Contains(got, tt.wantSubstr) {
				t.Errorf("Advice = %q, want substring %q", got, tt.wantSubstr)
			}
		})
	}
}

func TestFormatCurrent(t *testing.T) {
	report := FormatCurrent(&Current{
		City:        "Київ",
		Temp:        21.5,
		TempMin:     19,
		TempMax:     24,
		Humidity:    40,
		WindSpeed:   3.2,
		Description: "ясно",
	})

	for _, want := range []string{
		"📍 Погода в Київ",
		"Ясно",
		"21.50°C",
		"мін: 19.00°C",
		"макс: 24.00°C",
		"Вологість: 40%",
		"Вітер: 3.2 м/с",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}

func TestFormatForecastRainyConclusion(t *testing.T) {
	day := ForecastDay{Date: "2026-09-01", Temp: 18, TempMin: 15, TempMax: 20, Humidity: 60, WindSpeed: 4, Description: "невеликий дощ"}
	dry := day
	dry.Description = "ясно"

	rainy := FormatForecast(&Forecast{City: "Львів", Days: []ForecastDay{day, day, dry}})
	if !strings.Contains(rainy, "2 дощових днів") {
		t.Errorf("rainy forecast missing count:\n%s", rainy)
	}

	sunny := FormatForecast(&Forecast{City: "Львів", Days: []ForecastDay{dry, dry}})
	if !strings.Contains(sunny, "Теплий і приємний тиждень") {
		t.Errorf("dry forecast missing conclusion:\n%s", sunny)
	}
}

func TestFailureMessages(t *testing.T) {
	if got := FailureMessage("Атлантида"); got != "Не вдалося знайти погоду для Атлантида." {
		t.Errorf("unexpected failure message %q", got)
	}
	if got := ForecastFailureMessage("Атлантида"); got != "Не вдалося знайти прогноз для Атлантида." {
		t.Errorf("unexpected forecast failure message %q", got)
	}
}
