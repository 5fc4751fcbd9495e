package handlers

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/mentor_bot/internal/controller/dispatch"
	"github.com/Freeeeeet/mentor_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/mentor_bot/internal/model"
	"github.com/Freeeeeet/mentor_bot/internal/service"
	"go.uber.org/zap"
)

// HandleCourses список категорий: кнопка меню или возврат из курса
func (h *Handlers) HandleCourses(ctx context.Context, ev *dispatch.Event) error {
	h.answer(ctx, ev, "")

	categories, err := h.content.Categories()
	if err != nil {
		return h.fail(ctx, ev, err)
	}

	if len(categories) == 0 {
		h.send(ctx, ev.ChatID, "📭 Пока нет доступных курсов. Загляните позже!", nil)
		return nil
	}

	text := "📚 <b>Выберите категорию:</b>"
	if ev.Kind == dispatch.KindCallback {
		h.edit(ctx, ev, text, keyboard.Categories(categories))
		return nil
	}
	h.send(ctx, ev.ChatID, text, keyboard.Categories(categories))
	return nil
}

// HandleCategory список курсов категории
func (h *Handlers) HandleCategory(ctx context.Context, ev *dispatch.Event) error {
	categoryID, err := keyboard.ParseID(ev.Data(), keyboard.CategoryPrefix)
	if err != nil {
		return h.fail(ctx, ev, ErrInvalidFormat)
	}

	category, err := h.content.Category(categoryID)
	if err != nil {
		return h.fail(ctx, ev, err)
	}
	if category == nil {
		h.alert(ctx, ev, "❌ Категория не найдена")
		return nil
	}

	subs, err := h.content.Subcategories(categoryID)
	if err != nil {
		return h.fail(ctx, ev, err)
	}
	if len(subs) == 0 {
		h.alert(ctx, ev, "В этой категории пока нет курсов")
		return nil
	}

	h.answer(ctx, ev, "")
	h.edit(ctx, ev,
		fmt.Sprintf("📁 <b>%s</b>\n\nВыберите курс:", html.EscapeString(category.Name)),
		keyboard.Subcategories(subs))
	return nil
}

// HandleSubcategory открывает курс: описание и первый урок либо выбор продолжения
func (h *Handlers) HandleSubcategory(ctx context.Context, ev *dispatch.Event) error {
	subID, err := keyboard.ParseID(ev.Data(), keyboard.SubcategoryPrefix)
	if err != nil {
		return h.fail(ctx, ev, ErrInvalidFormat)
	}

	user, err := h.requireUser(ctx, ev)
	if user == nil {
		return err
	}

	course, err := h.learning.OpenCourse(ctx, user, subID)
	if err != nil {
		return h.fail(ctx, ev, err)
	}

	completed := len(course.Progress.CompletedMaterials)
	if completed > 0 {
		h.answer(ctx, ev, "")
		h.send(ctx, ev.ChatID,
			fmt.Sprintf("📖 <b>%s</b>\n\nВы уже начали этот курс: пройдено %d из %d уроков.\n\nПродолжить с урока %d?",
				html.EscapeString(course.Subcategory.Name),
				completed, len(course.Materials),
				course.Progress.CurrentMaterialIndex+1),
			keyboard.ContinueOrRestart(subID))
		return nil
	}

	h.send(ctx, ev.ChatID, courseIntro(course.Subcategory, len(course.Materials)), nil)

	lesson, err := h.learning.Open(ctx, user, subID, 0)
	if err != nil {
		return h.fail(ctx, ev, err)
	}
	h.sendLesson(ctx, ev, user, lesson)
	return nil
}

// courseIntro описание курса перед первым уроком
func courseIntro(sub *model.Subcategory, total int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📖 <b>%s</b>\n", html.EscapeString(sub.Name))
	fmt.Fprintf(&b, "Уроков в курсе: %d\n", total)

	if sub.WikiText != nil && *sub.WikiText != "" {
		b.WriteString("\n" + html.EscapeString(*sub.WikiText) + "\n")
	}
	if sub.Pros != nil && *sub.Pros != "" {
		b.WriteString("\n✅ <b>Плюсы:</b>\n" + html.EscapeString(*sub.Pros) + "\n")
	}
	if sub.Cons != nil && *sub.Cons != "" {
		b.WriteString("\n⚠️ <b>Минусы:</b>\n" + html.EscapeString(*sub.Cons) + "\n")
	}
	return b.String()
}

// HandleContinue продолжает курс с сохранённого урока
func (h *Handlers) HandleContinue(ctx context.Context, ev *dispatch.Event) error {
	return h.openWith(ctx, ev, keyboard.ContinuePrefix, h.learning.Continue)
}

// HandleRestart начинает курс заново
func (h *Handlers) HandleRestart(ctx context.Context, ev *dispatch.Event) error {
	return h.openWith(ctx, ev, keyboard.RestartPrefix, h.learning.Restart)
}

func (h *Handlers) openWith(
	ctx context.Context,
	ev *dispatch.Event,
	prefix string,
	open func(ctx context.Context, user *model.User, subcategoryID int64) (*service.Lesson, error),
) error {
	subID, err := keyboard.ParseID(ev.Data(), prefix)
	if err != nil {
		return h.fail(ctx, ev, ErrInvalidFormat)
	}

	user, err := h.requireUser(ctx, ev)
	if user == nil {
		return err
	}

	lesson, err := open(ctx, user, subID)
	if err != nil {
		return h.fail(ctx, ev, err)
	}

	h.deleteCallbackMessage(ctx, ev)
	h.sendLesson(ctx, ev, user, lesson)
	return nil
}

// HandleNext следующий урок или завершение курса
func (h *Handlers) HandleNext(ctx context.Context, ev *dispatch.Event) error {
	subID, index, err := keyboard.ParsePair(ev.Data(), keyboard.NextPrefix)
	if err != nil {
		return h.fail(ctx, ev, ErrInvalidFormat)
	}

	user, err := h.requireUser(ctx, ev)
	if user == nil {
		return err
	}

	lesson, finished, err := h.learning.Next(ctx, user, subID, index)
	if err != nil {
		return h.fail(ctx, ev, err)
	}

	if finished {
		h.answer(ctx, ev, "🏁 Курс пройден!")
		h.logger.Info("Course finished",
			zap.Int64("telegram_id", ev.UserID),
			zap.Int64("subcategory_id", subID))
		h.send(ctx, ev.ChatID,
			"🎉 <b>Поздравляем! Вы прошли все уроки!</b>\n\nОцените курс:",
			keyboard.Rating(subID))
		return nil
	}

	h.sendLesson(ctx, ev, user, lesson)
	return nil
}

// HandlePrev предыдущий урок
func (h *Handlers) HandlePrev(ctx context.Context, ev *dispatch.Event) error {
	subID, index, err := keyboard.ParsePair(ev.Data(), keyboard.PrevPrefix)
	if err != nil {
		return h.fail(ctx, ev, ErrInvalidFormat)
	}

	user, err := h.requireUser(ctx, ev)
	if user == nil {
		return err
	}

	lesson, err := h.learning.Prev(ctx, user, subID, index)
	if err != nil {
		return h.fail(ctx, ev, err)
	}

	h.sendLesson(ctx, ev, user, lesson)
	return nil
}

// HandleSave добавляет урок в закладки
func (h *Handlers) HandleSave(ctx context.Context, ev *dispatch.Event) error {
	materialID, err := keyboard.ParseID(ev.Data(), keyboard.SavePrefix)
	if err != nil {
		return h.fail(ctx, ev, ErrInvalidFormat)
	}

	user, err := h.requireUser(ctx, ev)
	if user == nil {
		return err
	}

	material, err := h.learning.Bookmark(ctx, user, materialID)
	if err != nil {
		return h.fail(ctx, ev, err)
	}

	h.alert(ctx, ev, "⭐ «"+material.Name+"» добавлен в закладки")
	return nil
}

// HandleRate сохраняет оценку курса
func (h *Handlers) HandleRate(ctx context.Context, ev *dispatch.Event) error {
	subID, stars, err := keyboard.ParsePair(ev.Data(), keyboard.RatePrefix)
	if err != nil {
		return h.fail(ctx, ev, ErrInvalidFormat)
	}

	user, err := h.requireUser(ctx, ev)
	if user == nil {
		return err
	}

	if err := h.learning.Rate(ctx, user, subID, stars); err != nil {
		return h.fail(ctx, ev, err)
	}

	h.answer(ctx, ev, "")
	h.edit(ctx, ev, fmt.Sprintf("Спасибо за оценку %d ⭐!", stars), keyboard.BackToMainMenu())
	return nil
}

// sendLesson отправляет урок с навигацией и сообщает о наградах
func (h *Handlers) sendLesson(ctx context.Context, ev *dispatch.Event, user *model.User, lesson *service.Lesson) {
	if lesson.XPGained > 0 {
		h.answer(ctx, ev, fmt.Sprintf("+%d XP", lesson.XPGained))
	} else {
		h.answer(ctx, ev, "")
	}

	m := lesson.Material
	header := fmt.Sprintf("📖 <b>Урок %d/%d: %s</b>", lesson.Index+1, lesson.Total, html.EscapeString(m.Name))
	if m.Description != nil && *m.Description != "" {
		header += "\n<i>" + html.EscapeString(*m.Description) + "</i>"
	}

	nav := keyboard.LessonNavigation(lesson.Subcategory.ID, lesson.Index, lesson.Total, m.ID)
	if _, err := service.SendContent(ctx, h.tg, ev.ChatID, m.ContentType, header, m.Content, nav); err != nil {
		h.logger.Error("Failed to send lesson",
			zap.Int64("material_id", m.ID),
			zap.String("content_type", string(m.ContentType)),
			zap.Error(err))
		h.send(ctx, ev.ChatID, "❌ Не удалось отправить урок. Попробуйте позже.", nav)
		return
	}

	if notice := rewardNotice(user, lesson); notice != "" {
		h.send(ctx, ev.ChatID, notice, nil)
	}
}

// rewardNotice сообщение о новом уровне и достижениях; пустое, если нечего сообщить
func rewardNotice(user *model.User, lesson *service.Lesson) string {
	var lines []string
	if lesson.LevelUp {
		lines = append(lines, fmt.Sprintf("🎉 <b>Новый уровень: %d!</b> Так держать!", user.Level))
	}
	for _, a := range lesson.Unlocked {
		lines = append(lines, fmt.Sprintf("🏅 Новое достижение: %s <b>%s</b>", a.Icon, html.EscapeString(a.Name)))
	}
	return strings.Join(lines, "\n")
}
