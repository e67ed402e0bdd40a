package weather

import (
	"fmt"
	"strings"
)

// Emoji pickers keyed off the localized description and the numbers.

// WeatherEmoji picks an emoji for a weather description.
func WeatherEmoji(description string) string {
	description = strings.ToLower(description)
	switch {
	case strings.Contains(description, "дощ"):
		return "🌦️"
	case strings.Contains(description, "хмар"):
		return "☁️"
	case strings.Contains(description, "ясно"), strings.Contains(description, "чисте"):
		return "☀️"
	}
	return "🌤️"
}

// TempEmoji picks an emoji for a temperature in °C.
func TempEmoji(temp float64) string {
	switch {
	case temp < 5:
		return "❄️"
	case temp < 20:
		return "😎"
	}
	return "🔥"
}

// WindEmoji picks an emoji for a wind speed in m/s.
func WindEmoji(wind float64) string {
	switch {
	case wind > 10:
		return "🌪️"
	case wind > 5:
		return "🌬️"
	}
	return "🍃"
}

// Advice returns a clothing recommendation for the given conditions.
func Advice(description string, temp, wind float64, humidity int) string {
	description = strings.ToLower(description)
	switch {
	case strings.Contains(description, "дощ"):
		return "Візьміть парасолю та водонепроникний одяг ☂️"
	case temp < 5 || wind > 10:
		return "Одягніть теплий одяг, шапку та рукавички 🧥🧤"
	case temp > 25 && humidity < 50:
		return "Легкий одяг і сонцезахисний крем 😎🧴"
	}
	return "Одягайтеся зручно 👕"
}

// DailyTip returns a tip of the day for the given conditions.
func DailyTip(description string, temp, wind float64) string {
	description = strings.ToLower(description)
	switch {
	case strings.Contains(description, "дощ") || wind > 10:
		return "Залишайтеся вдома з книгою або фільмом 📚🎬"
	case temp > 20 && strings.Contains(description, "ясно"):
		return "Ідеально для пікніка або прогулянки в парку! 🧺🌳"
	case temp < 5:
		return "Час для гарячого чаю та теплої ковдри ☕🛋️"
	}
	return "Чудовий день для будь-яких планів! 😊"
}

// FormatCurrent renders the emoji-annotated current-weather report.
func FormatCurrent(c *Current) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📍 Погода в %s 🌟:\n", c.City)
	fmt.Fprintf(&b, "%s • %s\n", WeatherEmoji(c.Description), title(c.Description))
	fmt.Fprintf(&b, "🌡️ • Температура: %.2f°C (мін: %.2f°C, макс: %.2f°C) %s\n",
		c.Temp, c.TempMin, c.TempMax, TempEmoji(c.Temp))
	fmt.Fprintf(&b, "💧 • Вологість: %d%% 💦\n", c.Humidity)
	fmt.Fprintf(&b, "💨 • Вітер: %g м/с %s\n\n", c.WindSpeed, WindEmoji(c.WindSpeed))
	fmt.Fprintf(&b, "%s\n%s", Advice(c.Description, c.Temp, c.WindSpeed, c.Humidity),
		DailyTip(c.Description, c.Temp, c.WindSpeed))
	return b.String()
}

// FormatForecast renders the 5-day forecast report with a rainy-day
// conclusion.
func FormatForecast(f *Forecast) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 Прогноз погоди на 5 днів у %s 🌟:\n\n", f.City)

	rainyDays := 0
	for _, day := range f.Days {
		if strings.Contains(strings.ToLower(day.Description), "дощ") {
			rainyDays++
		}
		fmt.Fprintf(&b, "📍 %s 🗓️\n", day.Date)
		fmt.Fprintf(&b, "%s • %s\n", WeatherEmoji(day.Description), title(day.Description))
		fmt.Fprintf(&b, "🌡️ • Температура: %.2f°C (мін: %.2f°C, макс: %.2f°C) %s\n",
			day.Temp, day.TempMin, day.TempMax, TempEmoji(day.Temp))
		fmt.Fprintf(&b, "💧 • Вологість: %d%% 💦\n", day.Humidity)
		fmt.Fprintf(&b, "💨 • Вітер: %g м/с %s\n", day.WindSpeed, WindEmoji(day.WindSpeed))
		fmt.Fprintf(&b, "💡 • Порада: %s\n\n", DailyTip(day.Description, day.Temp, day.WindSpeed))
	}

	fmt.Fprintf(&b, "Висновок для %s: ", f.City)
	if rainyDays > 0 {
		fmt.Fprintf(&b, "Теплий тиждень, але чекай на %d дощових днів 🌧️. Тримай парасольку напоготові! ☂️", rainyDays)
	} else {
		b.WriteString("Теплий і приємний тиждень! 🌞 Ідеально для прогулянок 🚶‍♀️ і активного відпочинку 🚴‍♀️.")
	}
	return b.String()
}

// FailureMessage is the fixed user-facing string for a failed current
// weather fetch.
func FailureMessage(city string) string {
	return fmt.Sprintf("Не вдалося знайти погоду для %s.", city)
}

// ForecastFailureMessage is the fixed user-facing string for a failed
// forecast fetch.
func ForecastFailureMessage(city string) string {
	return fmt.Sprintf("Не вдалося знайти прогноз для %s.", city)
}

// IsExtreme reports whether conditions cross the warning threshold:
// above 30°C, below -10°C, heavy rain or storm.
func IsExtreme(temp float64, description string) bool {
	description = strings.ToLower(description)
	return temp > 30 || temp < -10 ||
		strings.Contains(description, "сильний дощ") ||
		strings.Contains(description, "шторм")
}

// ExtremeWarning renders the extreme-weather warning for one city.
func ExtremeWarning(city string, temp float64, description string) string {
	return fmt.Sprintf("⚠️ Увага! Екстремальна погода в %s: %g°C, %s.",
		city, temp, strings.ToLower(description))
}

// title upper-cases the first letter of each word, matching how reports
// present the localized description.
func title(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
