package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// User-facing texts. The bot speaks Ukrainian, matching the localized
// weather descriptions it relays.
const (
	textStartHelp = `Введіть одне або кілька міст через кому (наприклад, Київ, Охтирка).
Команди:
/notify <час> – увімкнути оповіщення (наприклад, /notify 15:00, 18:15)
/stopnotify – вимкнути оповіщення
/history – останні 5 запитів
/alert on/off – сповіщення про екстремальну погоду
додати <місто> – додати улюблене місто
улюблені – список улюблених міст
/compare <місто1, місто2> – порівняти погоду`

	textChooseFavorite   = "Оберіть улюблене місто або введіть нове (через кому):"
	textEnterCities      = "Введіть одне або кілька міст через кому."
	textEnterAtLeastOne  = "Введіть хоча б одне місто."
	textChooseType       = "Виберіть тип прогнозу:"
	textCitiesFirst      = "Спочатку введіть міста."
	textNextCities       = "Введіть нові міста або скористайтеся іншими командами."
	textNotifyUsage      = "Введіть час у форматі HH:MM, наприклад, /notify 15:00 або /notify 15:00, 18:15"
	textNoNotifications  = "У вас немає активних оповіщень."
	textNotificationsOff = "Оповіщення вимкнено."
	textHistoryEmpty     = "Історія запитів порожня."
	textHistoryHeader    = "📜 Останні запити:\n"
	textAlertOn          = "Сповіщення про екстремальну погоду увімкнено."
	textAlertOff         = "Сповіщення про екстремальну погоду вимкнено."
	textAlertUsage       = "Використовуйте: /alert on або /alert off"
	textCompareUsage     = "Введіть рівно два міста, наприклад: /compare Київ, Охтирка"
	textCompareFailed    = "Не вдалося порівняти температури."
	textNoFavorites      = "У вас немає улюблених міст."
	textUnknownCommand   = "Невідома команда. Використовуйте /start для довідки."
)

// Callback data values for inline keyboards.
const (
	callbackCurrent  = "current"
	callbackForecast = "forecast"
	callbackBack     = "back"
	callbackManual   = "manual"
	callbackCityPref = "city_"
)

// weatherKeyboard offers the forecast-type selection.
func weatherKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Погода зараз", callbackCurrent),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Прогноз на 5 днів", callbackForecast),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Назад", callbackBack),
		),
	)
}

// favoriteCitiesKeyboard lists a user's favorite cities plus a manual
// entry option. Returns nil when the user has no favorites.
func favoriteCitiesKeyboard(cities []string) *tgbotapi.InlineKeyboardMarkup {
	if len(cities) == 0 {
		return nil
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(cities)+1)
	for _, city := range cities {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(city, callbackCityPref+city),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Ввести вручну", callbackManual),
	))

	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}
