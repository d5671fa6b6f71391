package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	app "ppe-inspector/internal/application"
	"ppe-inspector/internal/domain/entity"
	"ppe-inspector/internal/domain/port"
)

// botAPI часть tgbotapi.BotAPI, которой пользуется бот.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Bot представляет Telegram-бота
type Bot struct {
	client      *tgbotapi.BotAPI
	api         botAPI
	users       *app.UserService
	inspections *app.InspectionService
	decoder     port.ImageDecoder
	httpClient  *resty.Client
}

// NewBot создаёт нового бота
func NewBot(token string, users *app.UserService, inspections *app.InspectionService, decoder port.ImageDecoder) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Info().Str("username", api.Self.UserName).Msg("authorized on telegram account")

	b := newBot(api, users, inspections, decoder)
	b.client = api
	return b, nil
}

func newBot(api botAPI, users *app.UserService, inspections *app.InspectionService, decoder port.ImageDecoder) *Bot {
	return &Bot{
		api:         api,
		users:       users,
		inspections: inspections,
		decoder:     decoder,
		httpClient:  resty.New().SetDebug(false).SetTimeout(30 * time.Second),
	}
}

// Run запускает основной цикл обработки сообщений до отмены ctx.
func (b *Bot) Run(ctx context.Context) error {
	if b.client == nil {
		return errors.New("telegram client is not initialized")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.client.GetUpdatesChan(u)
	defer b.client.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("telegram bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.HandleMessage(ctx, update.Message)
		}
	}
}

// HandleMessage обрабатывает входящее сообщение
func (b *Bot) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	user, err := b.users.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", msg.From.ID).Msg("failed to get user")
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	if len(msg.Photo) > 0 {
		if user.State == entity.StateProcessing {
			b.sendMessage(msg.Chat.ID, msgBusy)
			return
		}
		b.handlePhoto(ctx, msg)
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	switch msg.Command() {
	case "start":
		if _, err := b.users.SetState(ctx, userID, chatID, entity.StateMainMenu); err != nil {
			log.Error().Err(err).Msg("failed to reset user state")
		}
		b.sendMessage(chatID, formatReplyText(msgStart))

	case "help":
		b.sendMessage(chatID, formatReplyText(msgHelp))

	case "check":
		if _, err := b.users.BeginCheck(ctx, userID, chatID); err != nil {
			log.Error().Err(err).Msg("failed to begin check")
		}
		b.sendMessage(chatID, msgAwaitingPhoto)

	case "stats":
		stats, err := b.inspections.Stats(ctx)
		if err != nil {
			log.Error().Err(err).Msg("failed to get stats")
			b.sendMessage(chatID, msgStatsError)
			return
		}
		b.sendMessage(chatID, formatStats(stats))

	case "cancel":
		if err := b.users.Cancel(ctx, userID); err != nil {
			log.Error().Err(err).Msg("failed to cancel")
		}
		b.sendMessage(chatID, msgCancelled)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	if _, err := b.users.StartProcessing(ctx, userID, chatID); err != nil {
		log.Error().Err(err).Msg("failed to set processing state")
	}
	b.sendMessage(chatID, msgProcessing)

	var inspectionID int64
	defer func() {
		if _, err := b.users.FinishCheck(ctx, userID, chatID, inspectionID); err != nil {
			log.Error().Err(err).Msg("failed to finish check")
		}
	}()

	// Самое большое разрешение идёт последним
	photo := msg.Photo[len(msg.Photo)-1]

	data, err := b.downloadFile(ctx, photo.FileID)
	if err != nil {
		log.Error().Err(err).Str("file_id", photo.FileID).Msg("failed to download photo")
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	img, err := b.decoder.Decode(data)
	if err != nil {
		log.Warn().Err(err).Msg("failed to decode photo")
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	out, err := b.inspections.Validate(ctx, img, fmt.Sprintf("telegram_%s.jpg", photo.FileUniqueID), entity.SourceTelegram)
	if err != nil {
		log.Error().Err(err).Msg("compliance check failed")
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	inspectionID = out.Inspection.ID
	b.sendMessage(chatID, formatResult(out.Result, inspectionID))
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	res, err := b.httpClient.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("download file: status %d", res.StatusCode())
	}

	return res.Body(), nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send message")
	}
}
