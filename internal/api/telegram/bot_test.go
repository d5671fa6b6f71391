package telegram

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "ppe-inspector/internal/application"
	"ppe-inspector/internal/domain/entity"
	"ppe-inspector/internal/infrastructure/storage"
	"ppe-inspector/internal/infrastructure/vision"
)

type fakeAPI struct {
	mu      sync.Mutex
	sent    []string
	fileURL string
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m.Text)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) GetFileDirectURL(fileID string) (string, error) {
	if fileID == "missing" {
		return "", errors.New("file not found")
	}
	return f.fileURL, nil
}

func (f *fakeAPI) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1]
}

type fixedDetector struct {
	detections []entity.Detection
}

func (d fixedDetector) Detect(ctx context.Context, img image.Image) ([]entity.Detection, error) {
	return d.detections, nil
}

func (d fixedDetector) Close() error { return nil }

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			v := uint8(0)
			if x%2 == 1 {
				v = 255
			}
			img.Set(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type testBot struct {
	bot   *Bot
	api   *fakeAPI
	users *app.UserService
	repo  *storage.InspectionRepository
}

func newTestBot(t *testing.T, detections []entity.Detection) *testBot {
	t.Helper()

	photo := pngBytes(t)
	files := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(photo)
	}))
	t.Cleanup(files.Close)

	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "bot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	compliance := app.NewComplianceService(vision.NewLaplacianAssessor(), nil, fixedDetector{detections}, app.DefaultResolverConfig())
	inspections := app.NewInspectionService(compliance, store.Inspections(), nil, nil)
	users := app.NewUserService(storage.NewMemoryUserRepository())

	api := &fakeAPI{fileURL: files.URL + "/photo.png"}
	return &testBot{
		bot:   newBot(api, users, inspections, vision.NewDecoder()),
		api:   api,
		users: users,
		repo:  store.Inspections(),
	}
}

func command(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		From: &tgbotapi.User{ID: 1},
		Chat: &tgbotapi.Chat{ID: 10},
		Text: text,
		Entities: []tgbotapi.MessageEntity{
			{Type: "bot_command", Offset: 0, Length: len(text)},
		},
	}
}

func photoMessage(fileID string) *tgbotapi.Message {
	return &tgbotapi.Message{
		From: &tgbotapi.User{ID: 1},
		Chat: &tgbotapi.Chat{ID: 10},
		Photo: []tgbotapi.PhotoSize{
			{FileID: "small", FileUniqueID: "s"},
			{FileID: fileID, FileUniqueID: "big"},
		},
	}
}

func TestBot_Commands(t *testing.T) {
	tb := newTestBot(t, nil)
	ctx := context.Background()

	tb.bot.HandleMessage(ctx, command("/check"))
	assert.Equal(t, msgAwaitingPhoto, tb.api.last())
	user, err := tb.users.Get(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, entity.StateAwaitingPhoto, user.State)

	tb.bot.HandleMessage(ctx, command("/cancel"))
	assert.Equal(t, msgCancelled, tb.api.last())
	user, err = tb.users.Get(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, entity.StateMainMenu, user.State)

	tb.bot.HandleMessage(ctx, command("/start"))
	assert.Contains(t, tb.api.last(), "/check")
	assert.NotContains(t, tb.api.last(), "\t")

	tb.bot.HandleMessage(ctx, command("/nope"))
	assert.Equal(t, msgUnknownCommand, tb.api.last())

	tb.bot.HandleMessage(ctx, &tgbotapi.Message{From: &tgbotapi.User{ID: 1}, Chat: &tgbotapi.Chat{ID: 10}, Text: "hi"})
	assert.Equal(t, msgSendPhoto, tb.api.last())
}

func TestBot_PhotoCompliant(t *testing.T) {
	tb := newTestBot(t, []entity.Detection{
		{Label: "Hardhat", Confidence: 0.9},
		{Label: "Safety Vest", Confidence: 0.7},
	})
	ctx := context.Background()

	tb.bot.HandleMessage(ctx, photoMessage("big"))
	assert.Contains(t, tb.api.last(), "✅")
	assert.Contains(t, tb.api.last(), "№1")

	user, err := tb.users.Get(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, entity.StateMainMenu, user.State)
	assert.Equal(t, int64(1), user.LastInspectionID)

	saved, err := tb.repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, entity.SourceTelegram, saved[0].Source)
	assert.Equal(t, "telegram_big.jpg", saved[0].ImageFilename)
	assert.True(t, saved[0].Compliant)
}

func TestBot_PhotoMissingVest(t *testing.T) {
	tb := newTestBot(t, []entity.Detection{
		{Label: "Hardhat", Confidence: 0.9},
		{Label: "NO-Safety Vest", Confidence: 0.6},
	})

	tb.bot.HandleMessage(context.Background(), photoMessage("big"))
	assert.Contains(t, tb.api.last(), "Не хватает: жилет")
}

func TestBot_PhotoDownloadFails(t *testing.T) {
	tb := newTestBot(t, nil)
	ctx := context.Background()

	tb.bot.HandleMessage(ctx, photoMessage("missing"))
	assert.Equal(t, msgProcessingError, tb.api.last())

	user, err := tb.users.Get(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, entity.StateMainMenu, user.State)
	assert.Zero(t, user.LastInspectionID)
}

func TestBot_Stats(t *testing.T) {
	tb := newTestBot(t, []entity.Detection{{Label: "Hardhat", Confidence: 0.9}})
	ctx := context.Background()

	tb.bot.HandleMessage(ctx, photoMessage("big"))
	tb.bot.HandleMessage(ctx, command("/stats"))

	reply := tb.api.last()
	assert.Contains(t, reply, "Всего: 1")
	assert.Contains(t, reply, "Нарушения: 1")
	assert.Contains(t, reply, "0.0%")
}

func TestFormatResult(t *testing.T) {
	result := &entity.ComplianceResult{
		Verdict: entity.EquipmentVerdict{
			Missing: []entity.Equipment{entity.Helmet, entity.Vest},
		},
		Quality:  entity.QualityVerdict{Issues: []string{entity.IssueTooDark}},
		Enhanced: true,
	}
	text := formatResult(result, 0)
	assert.Equal(t, "⛔ Не хватает: каска, жилет.\n⚠️ Качество фото: слишком темно. Изображение было улучшено перед проверкой.", text)
}
