package telegram

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/user/weatherbot/internal/notifier"
	"github.com/user/weatherbot/internal/storage"
	"github.com/user/weatherbot/internal/weather"
	"github.com/user/weatherbot/pkg/logger"
)

// WeatherService is the weather surface the command handlers consume.
type WeatherService interface {
	Current(ctx context.Context, city string) (*weather.Current, error)
	Forecast(ctx context.Context, city string) (*weather.Forecast, error)
}

const fetchTimeout = 10 * time.Second

// Handlers manages command handling for the bot.
type Handlers struct {
	api      *tgbotapi.BotAPI
	store    *storage.PreferenceStore
	weather  WeatherService
	notifier *notifier.Notifier

	// pending holds each chat's comma-separated city selection while the
	// user picks a forecast type from the inline keyboard.
	mu      sync.Mutex
	pending map[int64][]string
}

// NewHandlers creates a new handlers instance.
func NewHandlers(api *tgbotapi.BotAPI, store *storage.PreferenceStore, ws WeatherService, n *notifier.Notifier) *Handlers {
	return &Handlers{
		api:      api,
		store:    store,
		weather:  ws,
		notifier: n,
		pending:  make(map[int64][]string),
	}
}

// HandleCommand routes commands to appropriate handlers.
func (h *Handlers) HandleCommand(msg *tgbotapi.Message) {
	command := msg.Command()
	args := msg.CommandArguments()

	logger.Debug().
		Str("command", command).
		Str("args", args).
		Int64("chat_id", msg.Chat.ID).
		Msg("Received command")

	switch command {
	case "start":
		h.handleStart(msg)
	case "notify":
		h.handleNotify(msg, args)
	case "stopnotify":
		h.handleStopNotify(msg)
	case "history":
		h.handleHistory(msg)
	case "alert":
		h.handleAlert(msg, args)
	case "compare":
		h.handleCompare(msg, args)
	default:
		h.sendReply(msg.Chat.ID, textUnknownCommand)
	}
}

// HandleText processes free-text messages: favorite management keywords
// and comma-separated city lists.
func (h *Handlers) HandleText(msg *tgbotapi.Message) {
	userID := msg.From.ID
	text := strings.TrimSpace(msg.Text)

	if rest, ok := strings.CutPrefix(text, "додати "); ok {
		city := titleCity(strings.TrimSpace(rest))
		if err := h.store.AddFavoriteCity(userID, city); err != nil {
			logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to add favorite city")
			return
		}
		h.sendReply(msg.Chat.ID, fmt.Sprintf("Місто %s додано до улюблених!", city))
		return
	}

	if strings.EqualFold(text, "улюблені") {
		cities, err := h.store.FavoriteCities(userID)
		if err != nil {
			logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to list favorite cities")
			return
		}
		if len(cities) == 0 {
			h.sendReply(msg.Chat.ID, textNoFavorites)
			return
		}
		h.sendReply(msg.Chat.ID, "Ваші улюблені міста: "+strings.Join(cities, ", "))
		return
	}

	cities := parseCityList(text)
	if len(cities) == 0 {
		h.sendReply(msg.Chat.ID, textEnterAtLeastOne)
		return
	}

	h.setPending(msg.Chat.ID, cities)
	h.sendWithMarkup(msg.Chat.ID, textChooseType, weatherKeyboard())
}

// HandleCallback handles inline keyboard callbacks.
func (h *Handlers) HandleCallback(callback *tgbotapi.CallbackQuery) {
	// Acknowledge the callback
	callbackCfg := tgbotapi.NewCallback(callback.ID, "")
	if _, err := h.api.Request(callbackCfg); err != nil {
		logger.Debug().Err(err).Msg("Failed to acknowledge callback")
	}

	userID := callback.From.ID
	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID
	data := callback.Data

	switch {
	case data == callbackBack:
		h.clearPending(chatID)
		cities, err := h.store.FavoriteCities(userID)
		if err != nil {
			logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to list favorite cities")
			return
		}
		if keyboard := favoriteCitiesKeyboard(cities); keyboard != nil {
			h.editWithMarkup(chatID, messageID, textChooseFavorite, *keyboard)
		} else {
			h.edit(chatID, messageID, textEnterCities)
		}

	case strings.HasPrefix(data, callbackCityPref):
		city := strings.TrimPrefix(data, callbackCityPref)
		h.setPending(chatID, []string{city})
		h.editWithMarkup(chatID, messageID, fmt.Sprintf("Обрано: %s. %s", city, textChooseType), weatherKeyboard())

	case data == callbackManual:
		h.edit(chatID, messageID, textEnterCities)

	case data == callbackCurrent, data == callbackForecast:
		cities, ok := h.takePending(chatID)
		if !ok {
			h.edit(chatID, messageID, textCitiesFirst)
			return
		}
		for _, city := range cities {
			if data == callbackCurrent {
				h.deliverCurrent(userID, chatID, city)
			} else {
				h.deliverForecast(userID, chatID, city)
			}
		}
		h.edit(chatID, messageID, textNextCities)
	}
}

// deliverCurrent sends one current-weather report and logs the request.
func (h *Handlers) deliverCurrent(userID, chatID int64, city string) {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	text := ""
	current, err := h.weather.Current(ctx, city)
	if err != nil {
		text = weather.FailureMessage(city)
	} else {
		text = weather.FormatCurrent(current)
	}

	if err := h.store.SaveRequest(userID, city, storage.RequestCurrent); err != nil {
		logger.Warn().Err(err).Int64("user_id", userID).Msg("Failed to save request")
	}
	h.sendReply(chatID, text)
}

// deliverForecast sends the 5-day forecast with its temperature chart and
// logs the request.
func (h *Handlers) deliverForecast(userID, chatID int64, city string) {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	forecast, err := h.weather.Forecast(ctx, city)
	if err := h.store.SaveRequest(userID, city, storage.RequestForecast); err != nil {
		logger.Warn().Err(err).Int64("user_id", userID).Msg("Failed to save request")
	}
	if err != nil {
		h.sendReply(chatID, weather.ForecastFailureMessage(city))
		return
	}

	h.sendReply(chatID, weather.FormatForecast(forecast))

	chartPNG, err := weather.TemperatureChart(forecast, city)
	if err != nil {
		logger.Warn().Err(err).Str("city", city).Msg("Failed to render temperature chart")
		return
	}
	h.sendPhoto(chatID, "forecast.png", chartPNG)
}

// handleStart greets the user with their favorites keyboard, or with the
// onboarding help when they have none.
func (h *Handlers) handleStart(msg *tgbotapi.Message) {
	cities, err := h.store.FavoriteCities(msg.From.ID)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", msg.From.ID).Msg("Failed to list favorite cities")
		return
	}

	if keyboard := favoriteCitiesKeyboard(cities); keyboard != nil {
		h.sendWithMarkup(msg.Chat.ID, textChooseFavorite, *keyboard)
		return
	}
	h.sendReply(msg.Chat.ID, textStartHelp)
}

// handleNotify registers daily notification times. Each time is validated
// independently; a malformed time yields a corrective reply and no job.
func (h *Handlers) handleNotify(msg *tgbotapi.Message, args string) {
	if strings.TrimSpace(args) == "" {
		h.sendReply(msg.Chat.ID, textNotifyUsage)
		return
	}

	userID := msg.From.ID
	for _, raw := range strings.Split(args, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		notifyTime, _, _, err := notifier.ParseNotifyTime(raw)
		if err != nil {
			h.sendReply(msg.Chat.ID, fmt.Sprintf("Невірний формат часу: %s. Використовуйте HH:MM.", raw))
			continue
		}

		if err := h.store.AddNotificationTime(userID, notifyTime); err != nil {
			logger.Error().Err(err).Int64("user_id", userID).Str("time", notifyTime).Msg("Failed to save notification time")
			continue
		}
		if err := h.notifier.ScheduleNotify(userID, notifyTime); err != nil {
			logger.Error().Err(err).Int64("user_id", userID).Str("time", notifyTime).Msg("Failed to schedule notify job")
			continue
		}
		h.sendReply(msg.Chat.ID, fmt.Sprintf("Оповіщення встановлено на %s.", notifyTime))
	}
}

// handleStopNotify removes all notification times and jobs for the user.
func (h *Handlers) handleStopNotify(msg *tgbotapi.Message) {
	userID := msg.From.ID

	times, err := h.store.NotificationTimes(userID)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to list notification times")
		return
	}
	if len(times) == 0 {
		h.sendReply(msg.Chat.ID, textNoNotifications)
		return
	}

	for _, t := range times {
		h.notifier.UnscheduleNotify(userID, t)
	}
	if _, err := h.store.DeleteNotifications(userID); err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to delete notifications")
		return
	}
	h.sendReply(msg.Chat.ID, textNotificationsOff)
}

// handleHistory lists the user's most recent requests.
func (h *Handlers) handleHistory(msg *tgbotapi.Message) {
	entries, err := h.store.History(msg.From.ID, 5)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", msg.From.ID).Msg("Failed to load history")
		return
	}
	if len(entries) == 0 {
		h.sendReply(msg.Chat.ID, textHistoryEmpty)
		return
	}

	var b strings.Builder
	b.WriteString(textHistoryHeader)
	for _, entry := range entries {
		fmt.Fprintf(&b, "%s - %s (%s)\n",
			entry.Timestamp.Format("2006-01-02 15:04:05"), entry.City, kindLabel(entry.Kind))
	}
	h.sendReply(msg.Chat.ID, b.String())
}

// handleAlert toggles extreme-weather alerts.
func (h *Handlers) handleAlert(msg *tgbotapi.Message, args string) {
	userID := msg.From.ID

	switch strings.ToLower(strings.TrimSpace(args)) {
	case "on":
		if err := h.store.SetAlert(userID, true); err != nil {
			logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to save alert setting")
			return
		}
		if err := h.notifier.EnableAlert(userID); err != nil {
			logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to schedule alert job")
			return
		}
		h.sendReply(msg.Chat.ID, textAlertOn)
	case "off":
		if err := h.store.SetAlert(userID, false); err != nil {
			logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to save alert setting")
			return
		}
		h.notifier.DisableAlert(userID)
		h.sendReply(msg.Chat.ID, textAlertOff)
	default:
		h.sendReply(msg.Chat.ID, textAlertUsage)
	}
}

// handleCompare fetches two cities and reports which one is warmer.
func (h *Handlers) handleCompare(msg *tgbotapi.Message, args string) {
	cities := parseCityList(args)
	if len(cities) != 2 {
		h.sendReply(msg.Chat.ID, textCompareUsage)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*fetchTimeout)
	defer cancel()

	var b strings.Builder
	b.WriteString("Порівняння погоди:\n\n")

	reports := make([]*weather.Current, 2)
	for i, city := range cities {
		current, err := h.weather.Current(ctx, city)
		if err != nil {
			b.WriteString(weather.FailureMessage(city))
		} else {
			reports[i] = current
			b.WriteString(weather.FormatCurrent(current))
		}
		b.WriteString("\n\n")
	}

	switch {
	case reports[0] == nil || reports[1] == nil:
		b.WriteString(textCompareFailed)
	case reports[0].Temp > reports[1].Temp:
		fmt.Fprintf(&b, "У %s тепліше! 🌞", cities[0])
	case reports[1].Temp > reports[0].Temp:
		fmt.Fprintf(&b, "У %s тепліше! 🌞", cities[1])
	default:
		b.WriteString("Температура однакова! 😊")
	}

	for _, city := range cities {
		if err := h.store.SaveRequest(msg.From.ID, city, storage.RequestCompare); err != nil {
			logger.Warn().Err(err).Int64("user_id", msg.From.ID).Msg("Failed to save request")
		}
	}
	h.sendReply(msg.Chat.ID, b.String())
}

// Pending city-selection state.

func (h *Handlers) setPending(chatID int64, cities []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pending[chatID] = cities
}

func (h *Handlers) takePending(chatID int64) ([]string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	cities, ok := h.pending[chatID]
	delete(h.pending, chatID)
	return cities, ok
}

func (h *Handlers) clearPending(chatID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.pending, chatID)
}

// Send helpers.

// sendReply sends a simple text reply.
func (h *Handlers) sendReply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.api.Send(msg); err != nil {
		logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send reply")
	}
}

// sendWithMarkup sends a text message with an inline keyboard.
func (h *Handlers) sendWithMarkup(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	if _, err := h.api.Send(msg); err != nil {
		logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send keyboard message")
	}
}

// sendPhoto sends an image from memory.
func (h *Handlers) sendPhoto(chatID int64, name string, data []byte) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	if _, err := h.api.Send(photo); err != nil {
		logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send photo")
	}
}

// edit replaces a previously sent message's text.
func (h *Handlers) edit(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if _, err := h.api.Send(edit); err != nil {
		logger.Debug().Err(err).Int64("chat_id", chatID).Msg("Failed to edit message")
	}
}

// editWithMarkup replaces a message's text and inline keyboard.
func (h *Handlers) editWithMarkup(chatID int64, messageID int, text string, markup tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, markup)
	if _, err := h.api.Send(edit); err != nil {
		logger.Debug().Err(err).Int64("chat_id", chatID).Msg("Failed to edit message")
	}
}

// parseCityList splits a comma-separated input into title-cased city
// names, dropping empty items.
func parseCityList(input string) []string {
	var cities []string
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		cities = append(cities, titleCity(part))
	}
	return cities
}

// titleCity upper-cases the first letter of each word in a city name.
func titleCity(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// kindLabel localizes a request kind for the history listing.
func kindLabel(kind storage.RequestKind) string {
	switch kind {
	case storage.RequestCurrent:
		return "зараз"
	case storage.RequestForecast:
		return "прогноз"
	case storage.RequestCompare:
		return "порівняння"
	}
	return string(kind)
}
