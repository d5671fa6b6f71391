package telegram

import (
	"fmt"
	"strings"

	"github.com/lithammer/dedent"

	"ppe-inspector/internal/domain/entity"
)

const (
	msgStart = `
		👷 Привет! Я проверяю средства индивидуальной защиты на фото.

		📸 Отправьте мне фото сотрудника, и я скажу, на месте ли каска и жилет.

		📋 Команды:
		/check — начать проверку
		/stats — статистика проверок
		/help — справка
		/cancel — отменить текущую операцию`

	msgHelp = `
		ℹ️ Как пользоваться ботом:

		1️⃣ Отправьте фото сотрудника в полный рост
		2️⃣ Бот проверит каску и сигнальный жилет
		3️⃣ Результат сохранится в журнал проверок

		💡 Рекомендации:
		• Снимайте при хорошем освещении
		• Сотрудник должен быть виден целиком
		• Фото должно быть чётким`

	msgAwaitingPhoto   = "📸 Отправьте фото сотрудника для проверки СИЗ."
	msgCancelled       = "❌ Операция отменена. Отправьте /check для новой проверки."
	msgSendPhoto       = "📸 Пожалуйста, отправьте фото сотрудника для проверки СИЗ."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю изображение..."
	msgBusy            = "⏳ Предыдущее фото ещё обрабатывается, подождите."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."
	msgStatsError      = "⚠️ Не удалось получить статистику."
)

var equipmentNames = map[entity.Equipment]string{
	entity.Helmet: "каска",
	entity.Vest:   "жилет",
	entity.Mask:   "маска",
}

var issueNames = map[string]string{
	entity.IssueVeryBlurry:     "очень размыто",
	entity.IssueSlightlyBlurry: "немного размыто",
	entity.IssueTooDark:        "слишком темно",
	entity.IssueTooBright:      "слишком светло",
}

func formatReplyText(text string, a ...any) string {
	return fmt.Sprintf(strings.TrimSpace(dedent.Dedent(text)), a...)
}

func translate(names map[string]string, keys []string) string {
	out := make([]string, len(keys))
	for i, k := range keys {
		if v, ok := names[k]; ok {
			out[i] = v
		} else {
			out[i] = k
		}
	}
	return strings.Join(out, ", ")
}

// formatResult текст ответа с вердиктом проверки.
func formatResult(result *entity.ComplianceResult, inspectionID int64) string {
	var b strings.Builder
	if result.Verdict.Success {
		b.WriteString("✅ Все СИЗ на месте.")
	} else {
		missing := make([]string, len(result.Verdict.Missing))
		for i, e := range result.Verdict.Missing {
			missing[i] = equipmentNames[e]
		}
		b.WriteString("⛔ Не хватает: " + strings.Join(missing, ", ") + ".")
	}

	if len(result.Quality.Issues) > 0 {
		b.WriteString("\n⚠️ Качество фото: " + translate(issueNames, result.Quality.Issues) + ".")
		if result.Enhanced {
			b.WriteString(" Изображение было улучшено перед проверкой.")
		}
	}

	if inspectionID != 0 {
		fmt.Fprintf(&b, "\n🗂 Проверка №%d сохранена.", inspectionID)
	}
	return b.String()
}

// formatStats текст ответа на /stats.
func formatStats(stats entity.InspectionStats) string {
	return formatReplyText(`
		📊 Статистика проверок:
		Всего: %d
		Соответствуют: %d
		Нарушения: %d
		Доля соответствия: %.1f%%`,
		stats.Total, stats.Compliant, stats.NonCompliant, stats.ComplianceRate,
	)
}
