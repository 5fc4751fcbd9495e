package handlers

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Freeeeeet/mentor_bot/internal/controller/dispatch"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStats сводная статистика
func (h *Handlers) HandleStats(ctx context.Context, ev *dispatch.Event) error {
	st, err := h.stats.Collect(ctx)
	if err != nil {
		return h.fail(ctx, ev, err)
	}

	var b strings.Builder
	b.WriteString("📊 <b>Статистика</b>\n\n")
	b.WriteString("<b>Пользователи</b>\n")
	fmt.Fprintf(&b, "👥 Всего: %d\n", st.Users)
	fmt.Fprintf(&b, "🟢 Активны сегодня: %d\n", st.ActiveToday)
	fmt.Fprintf(&b, "📅 Активны за неделю: %d\n", st.ActiveWeek)
	fmt.Fprintf(&b, "📖 Учатся: %d\n", st.Learners)
	fmt.Fprintf(&b, "✨ Средний опыт: %.1f XP\n\n", st.AverageXP)
	b.WriteString("<b>Контент</b>\n")
	fmt.Fprintf(&b, "📁 Категорий: %d\n", st.Categories)
	fmt.Fprintf(&b, "📂 Курсов: %d\n", st.Subcategories)
	fmt.Fprintf(&b, "📎 Уроков: %d\n", st.Materials)
	fmt.Fprintf(&b, "⭐ Закладок: %d\n\n", st.Bookmarks)
	b.WriteString("<b>Прочее</b>\n")
	fmt.Fprintf(&b, "🔗 Спонсоров: %d\n", st.Sponsors)
	fmt.Fprintf(&b, "📨 Рассылок: %d", st.Broadcasts)

	h.send(ctx, ev.ChatID, b.String(), nil)
	return nil
}

// HandleAdminTop рейтинг с подробностями для администратора
func (h *Handlers) HandleAdminTop(ctx context.Context, ev *dispatch.Event) error {
	entries, err := h.stats.AdminTop(ctx, topLimit)
	if err != nil {
		return h.fail(ctx, ev, err)
	}

	if len(entries) == 0 {
		h.send(ctx, ev.ChatID, "Пользователей пока нет.", nil)
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🏆 <b>ТОП-%d (админ)</b>\n\n", topLimit)
	for i, e := range entries {
		u := e.User
		fmt.Fprintf(&b, "%d. %s %s (<code>%d</code>)\n", i+1,
			html.EscapeString(u.Name), html.EscapeString(u.SurnameOrDash()), u.TelegramID)
		fmt.Fprintf(&b, "   уровень %d, %d XP, курсов: %d, серия: %d\n", u.Level, u.XP, e.StartedCourses, u.StreakDays)
	}

	h.send(ctx, ev.ChatID, b.String(), nil)
	return nil
}

// HandleExport выгрузка пользователей в Excel
func (h *Handlers) HandleExport(ctx context.Context, ev *dispatch.Event) error {
	buf, count, err := h.stats.ExportUsers(ctx)
	if err != nil {
		return h.fail(ctx, ev, err)
	}

	filename := fmt.Sprintf("users_%s.xlsx", time.Now().Format("20060102"))
	_, err = h.tg.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID:    ev.ChatID,
		Document:  &models.InputFileUpload{Filename: filename, Data: buf},
		Caption:   fmt.Sprintf("📥 Экспорт пользователей: %d", count),
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		h.logger.Error("Failed to send export", zap.Error(err))
		h.send(ctx, ev.ChatID, "❌ Не удалось отправить файл. Попробуйте позже.", nil)
		return err
	}

	h.logger.Info("Users exported", zap.Int("count", count), zap.Int64("admin_id", ev.UserID))
	return nil
}
