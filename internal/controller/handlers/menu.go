package handlers

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/mentor_bot/internal/controller/dispatch"
	"github.com/Freeeeeet/mentor_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/mentor_bot/internal/controller/render"
	"github.com/Freeeeeet/mentor_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

var medals = []string{"🥇", "🥈", "🥉"}

// HandleProfile показывает профиль пользователя
func (h *Handlers) HandleProfile(ctx context.Context, ev *dispatch.Event) error {
	user, err := h.requireUser(ctx, ev)
	if user == nil {
		return err
	}

	started, err := h.users.StartedCourses(ctx, user.ID)
	if err != nil {
		return h.fail(ctx, ev, err)
	}

	text := profileText(user, started)

	if user.PhotoFileID != "" {
		_, err := h.tg.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:    ev.ChatID,
			Photo:     &models.InputFileString{Data: user.PhotoFileID},
			Caption:   text,
			ParseMode: models.ParseModeHTML,
		})
		if err == nil {
			return nil
		}
		h.logger.Warn("Failed to send profile photo", zap.Error(err))
	}

	h.send(ctx, ev.ChatID, text, nil)
	return nil
}

func profileText(user *model.User, started int) string {
	var b strings.Builder
	b.WriteString("👤 <b>Ваш профиль</b>\n\n")
	fmt.Fprintf(&b, "Имя: %s\n", html.EscapeString(user.Name))
	fmt.Fprintf(&b, "Фамилия: %s\n", html.EscapeString(user.SurnameOrDash()))
	fmt.Fprintf(&b, "Возраст: %d\n", user.Age)
	fmt.Fprintf(&b, "Роль: %s\n\n", html.EscapeString(user.Role))

	inLevel := user.XP % model.XPPerLevel
	fmt.Fprintf(&b, "⭐ Уровень: <b>%d</b>\n", user.Level)
	fmt.Fprintf(&b, "✨ Опыт: %d XP (%d/%d до следующего уровня)\n", user.XP, inLevel, model.XPPerLevel)
	fmt.Fprintf(&b, "🔥 Дней подряд: %d\n", user.StreakDays)
	fmt.Fprintf(&b, "📚 Начато курсов: %d\n", started)
	fmt.Fprintf(&b, "📅 С нами с %s", user.RegisteredAt.Format("02.01.2006"))
	return b.String()
}

// HandleProgress текстовый отчёт и карточка прогресса
func (h *Handlers) HandleProgress(ctx context.Context, ev *dispatch.Event) error {
	user, err := h.requireUser(ctx, ev)
	if user == nil {
		return err
	}

	rows, err := h.learning.Progress(ctx, user)
	if err != nil {
		return h.fail(ctx, ev, err)
	}

	if len(rows) == 0 {
		h.send(ctx, ev.ChatID, "📊 Вы ещё не начали ни одного курса.\n\nНажмите «"+keyboard.BtnCourses+"», чтобы начать!", nil)
		return nil
	}

	card := render.Card{
		Name:   user.Name,
		Level:  user.Level,
		XP:     user.XP,
		Streak: user.StreakDays,
	}

	var b strings.Builder
	b.WriteString("📊 <b>Ваш прогресс</b>\n\n")
	for _, r := range rows {
		icon := "📖"
		if r.Finished {
			icon = "✅"
		}
		fmt.Fprintf(&b, "%s %s: %d/%d (%.0f%%)\n", icon, html.EscapeString(r.Name), r.Completed, r.Total, r.Percent)

		card.Courses = append(card.Courses, render.CourseRow{
			Name:      r.Name,
			Completed: r.Completed,
			Total:     r.Total,
			Percent:   r.Percent,
			Finished:  r.Finished,
		})
	}
	h.send(ctx, ev.ChatID, b.String(), nil)

	png, err := render.ProgressCard(card)
	if err != nil {
		h.logger.Error("Failed to render progress card", zap.Int64("user_id", user.ID), zap.Error(err))
		return nil
	}

	if _, err := h.tg.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID: ev.ChatID,
		Photo: &models.InputFileUpload{
			Filename: "progress.png",
			Data:     bytes.NewReader(png),
		},
	}); err != nil {
		h.logger.Error("Failed to send progress card", zap.Int64("user_id", user.ID), zap.Error(err))
	}
	return nil
}

// HandleTop рейтинг пользователей по опыту
func (h *Handlers) HandleTop(ctx context.Context, ev *dispatch.Event) error {
	users, err := h.users.Top(ctx, topLimit)
	if err != nil {
		return h.fail(ctx, ev, err)
	}

	if len(users) == 0 {
		h.send(ctx, ev.ChatID, "🏆 Рейтинг пока пуст. Станьте первым!", nil)
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🏆 <b>ТОП-%d учеников</b>\n\n", topLimit)
	for i, u := range users {
		place := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			place = medals[i]
		}
		marker := ""
		if u.TelegramID == ev.UserID {
			marker = " 👈"
		}
		fmt.Fprintf(&b, "%s %s: уровень %d, %d XP%s\n", place, html.EscapeString(u.Name), u.Level, u.XP, marker)
	}

	h.send(ctx, ev.ChatID, b.String(), nil)
	return nil
}

// HandleBookmarks список закладок с переходом к курсу
func (h *Handlers) HandleBookmarks(ctx context.Context, ev *dispatch.Event) error {
	user, err := h.requireUser(ctx, ev)
	if user == nil {
		return err
	}

	bookmarks, err := h.learning.Bookmarks(ctx, user)
	if err != nil {
		return h.fail(ctx, ev, err)
	}

	if len(bookmarks) == 0 {
		h.send(ctx, ev.ChatID, "⭐ У вас пока нет закладок.\n\nСохраняйте уроки кнопкой «⭐ Сохранить».", nil)
		return nil
	}

	var b strings.Builder
	b.WriteString("⭐ <b>Ваши закладки:</b>\n\n")
	kb := keyboard.NewBuilder()
	seen := make(map[int64]bool)
	for i, bm := range bookmarks {
		fmt.Fprintf(&b, "%d. %s\n", i+1, html.EscapeString(bm.MaterialName))

		if seen[bm.SubcategoryID] {
			continue
		}
		seen[bm.SubcategoryID] = true

		label := fmt.Sprintf("📖 Курс #%d", bm.SubcategoryID)
		if sub, err := h.content.Subcategory(bm.SubcategoryID); err == nil && sub != nil {
			label = "📖 " + sub.Name
		}
		kb.Row(keyboard.Button(label, keyboard.SubcategoryPrefix+keyboard.ID(bm.SubcategoryID)))
	}

	h.send(ctx, ev.ChatID, b.String(), inline(kb.Build()))
	return nil
}

// HandleAchievements полученные и закрытые достижения
func (h *Handlers) HandleAchievements(ctx context.Context, ev *dispatch.Event) error {
	user, err := h.requireUser(ctx, ev)
	if user == nil {
		return err
	}

	unlocked, err := h.achievements.List(ctx, user.ID)
	if err != nil {
		return h.fail(ctx, ev, err)
	}

	got := make(map[string]bool, len(unlocked))
	for _, a := range unlocked {
		got[a.Code] = true
	}

	var b strings.Builder
	b.WriteString("🏅 <b>Достижения</b>\n\n")
	fmt.Fprintf(&b, "Получено %d из %d\n\n", len(unlocked), len(model.AchievementCatalog))
	for _, a := range model.AchievementCatalog {
		if got[a.Code] {
			fmt.Fprintf(&b, "%s <b>%s</b>: %s\n", a.Icon, html.EscapeString(a.Name), html.EscapeString(a.Description))
		} else {
			fmt.Fprintf(&b, "🔒 %s: %s\n", html.EscapeString(a.Name), html.EscapeString(a.Description))
		}
	}

	h.send(ctx, ev.ChatID, b.String(), nil)
	return nil
}

// HandleFAQ вопросы и ответы
func (h *Handlers) HandleFAQ(ctx context.Context, ev *dispatch.Event) error {
	items, err := h.content.FAQ()
	if err != nil {
		return h.fail(ctx, ev, err)
	}

	if len(items) == 0 {
		h.send(ctx, ev.ChatID, "❓ Вопросов пока нет.\n\nЕсли что-то непонятно, напишите администратору.", nil)
		return nil
	}

	var b strings.Builder
	b.WriteString("❓ <b>Частые вопросы</b>\n")
	for _, item := range items {
		fmt.Fprintf(&b, "\n<b>%s</b>\n%s\n", html.EscapeString(item.Question), html.EscapeString(item.Answer))
	}

	h.send(ctx, ev.ChatID, b.String(), nil)
	return nil
}

// HandleAbout описание бота, счётчики и совет дня
func (h *Handlers) HandleAbout(ctx context.Context, ev *dispatch.Event) error {
	categories, err := h.content.Categories()
	if err != nil {
		return h.fail(ctx, ev, err)
	}
	subs, err := h.content.Subcategories(0)
	if err != nil {
		return h.fail(ctx, ev, err)
	}
	materials, err := h.content.Materials(0)
	if err != nil {
		return h.fail(ctx, ev, err)
	}
	users, err := h.users.CountUsers(ctx)
	if err != nil {
		return h.fail(ctx, ev, err)
	}

	var b strings.Builder
	b.WriteString("ℹ️ <b>О боте</b>\n\n")
	b.WriteString("Учитесь по коротким урокам, получайте опыт и достижения, соревнуйтесь в рейтинге.\n\n")
	fmt.Fprintf(&b, "📁 Категорий: %d\n", len(categories))
	fmt.Fprintf(&b, "📖 Курсов: %d\n", len(subs))
	fmt.Fprintf(&b, "📎 Уроков: %d\n", len(materials))
	fmt.Fprintf(&b, "👥 Учеников: %d\n\n", users)
	fmt.Fprintf(&b, "💡 <b>Совет:</b> %s", html.EscapeString(h.content.RandomTip()))

	h.send(ctx, ev.ChatID, b.String(), nil)
	return nil
}
