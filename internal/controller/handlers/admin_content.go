package handlers

import (
	"context"
	"fmt"
	"html"

	"github.com/Freeeeeet/mentor_bot/internal/controller/dispatch"
	"github.com/Freeeeeet/mentor_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/mentor_bot/internal/controller/state"
	"github.com/Freeeeeet/mentor_bot/internal/model"
	"github.com/Freeeeeet/mentor_bot/internal/service"
	"github.com/Freeeeeet/mentor_bot/internal/validation"
	"go.uber.org/zap"
)

// finishAdmin завершает мастер и возвращает админ-панель
func (h *Handlers) finishAdmin(ctx context.Context, ev *dispatch.Event, text string) {
	h.sessions.ResetAdmin(ev.UserID)
	h.send(ctx, ev.ChatID, text, keyboard.AdminMenu())
}

func categoryItems(categories []model.Category) []keyboard.Item {
	items := make([]keyboard.Item, 0, len(categories))
	for _, c := range categories {
		items = append(items, keyboard.Item{Key: keyboard.ID(c.ID), Label: "📁 " + c.Name})
	}
	return items
}

func subcategoryItems(subs []model.Subcategory) []keyboard.Item {
	items := make([]keyboard.Item, 0, len(subs))
	for _, s := range subs {
		items = append(items, keyboard.Item{Key: keyboard.ID(s.ID), Label: "📖 " + s.Name})
	}
	return items
}

// pickCategory показывает список категорий для следующего шага мастера
func (h *Handlers) pickCategory(ctx context.Context, ev *dispatch.Event, next state.UserState, prefix, prompt string) error {
	categories, err := h.content.Categories()
	if err != nil {
		return h.fail(ctx, ev, err)
	}
	if len(categories) == 0 {
		h.send(ctx, ev.ChatID, "❌ Сначала создайте категорию.", keyboard.AdminMenu())
		return nil
	}

	h.sessions.SetState(ev.UserID, next)
	h.send(ctx, ev.ChatID, prompt, keyboard.Pick(prefix, categoryItems(categories)))
	return nil
}

// pickSubcategory показывает курсы выбранной категории
func (h *Handlers) pickSubcategory(ctx context.Context, ev *dispatch.Event, categoryPrefix, prefix string) (int64, bool, error) {
	categoryID, err := keyboard.ParseID(ev.Data(), categoryPrefix)
	if err != nil {
		return 0, false, h.fail(ctx, ev, ErrInvalidFormat)
	}

	subs, err := h.content.Subcategories(categoryID)
	if err != nil {
		return 0, false, h.fail(ctx, ev, err)
	}
	if len(subs) == 0 {
		h.alert(ctx, ev, "В этой категории нет курсов")
		return 0, false, nil
	}

	h.answer(ctx, ev, "")
	h.edit(ctx, ev, "Выберите курс:", keyboard.Pick(prefix, subcategoryItems(subs)))
	return categoryID, true, nil
}

// ===== Категории =====

func (h *Handlers) HandleAddCategory(ctx context.Context, ev *dispatch.Event) error {
	h.sessions.SetState(ev.UserID, state.StateCategoryName)
	h.send(ctx, ev.ChatID, "📁 Введите название новой категории:", keyboard.CancelMenu())
	return nil
}

func (h *Handlers) HandleCategoryName(ctx context.Context, ev *dispatch.Event) error {
	name, err := validation.Title(ev.Text())
	if err != nil {
		h.send(ctx, ev.ChatID, validationMessage(err), nil)
		return nil
	}

	exists, err := h.content.CategoryExists(name)
	if err != nil {
		return h.fail(ctx, ev, err)
	}
	if exists {
		h.send(ctx, ev.ChatID, "❌ Категория с таким названием уже существует.\n\nВведите другое название:", nil)
		return nil
	}

	category, err := h.content.AddCategory(name)
	if err != nil {
		return h.fail(ctx, ev, err)
	}

	h.logger.Info("Category added", zap.Int64("category_id", category.ID), zap.Int64("admin_id", ev.UserID))
	h.finishAdmin(ctx, ev, fmt.Sprintf("✅ Категория «%s» добавлена!", html.EscapeString(category.Name)))
	return nil
}

// ===== Подкатегории =====

func (h *Handlers) HandleAddSubcategory(ctx context.Context, ev *dispatch.Event) error {
	return h.pickCategory(ctx, ev, state.StateSubcategoryCategory, keyboard.PickSubCategory, "📂 Выберите категорию для нового курса:")
}

func (h *Handlers) HandleSubcategoryCategory(ctx context.Context, ev *dispatch.Event) error {
	categoryID, err := keyboard.ParseID(ev.Data(), keyboard.PickSubCategory)
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

	h.answer(ctx, ev, "")
	h.sessions.Advance(ev.UserID, keyCategoryID, categoryID, state.StateSubcategoryName)
	h.edit(ctx, ev, "Категория: <b>"+html.EscapeString(category.Name)+"</b>", nil)
	h.send(ctx, ev.ChatID, "Введите название курса:", keyboard.CancelMenu())
	return nil
}

func (h *Handlers) HandleSubcategoryName(ctx context.Context, ev *dispatch.Event) error {
	name, err := validation.Title(ev.Text())
	if err != nil {
		h.send(ctx, ev.ChatID, validationMessage(err), nil)
		return nil
	}

	h.sessions.Advance(ev.UserID, keyName, name, state.StateSubcategoryWiki)
	h.send(ctx, ev.ChatID, "Введите описание курса (или «-» чтобы пропустить):", nil)
	return nil
}

func (h *Handlers) HandleSubcategoryWiki(ctx context.Context, ev *dispatch.Event) error {
	h.sessions.Advance(ev.UserID, keyWiki, optional(ev.Text()), state.StateSubcategoryPros)
	h.send(ctx, ev.ChatID, "Перечислите плюсы курса (или «-»):", nil)
	return nil
}

func (h *Handlers) HandleSubcategoryPros(ctx context.Context, ev *dispatch.Event) error {
	h.sessions.Advance(ev.UserID, keyPros, optional(ev.Text()), state.StateSubcategoryCons)
	h.send(ctx, ev.ChatID, "Перечислите минусы курса (или «-»):", nil)
	return nil
}

func (h *Handlers) HandleSubcategoryCons(ctx context.Context, ev *dispatch.Event) error {
	id := ev.UserID
	sub, err := h.content.AddSubcategory(
		h.sessions.Int64(id, keyCategoryID),
		h.sessions.String(id, keyName),
		ptr(h.sessions.String(id, keyWiki)),
		ptr(h.sessions.String(id, keyPros)),
		ptr(optional(ev.Text())),
	)
	if err != nil {
		h.sessions.ResetAdmin(id)
		return h.fail(ctx, ev, err)
	}

	h.logger.Info("Subcategory added", zap.Int64("subcategory_id", sub.ID), zap.Int64("admin_id", id))
	h.finishAdmin(ctx, ev, fmt.Sprintf("✅ Курс «%s» добавлен!", html.EscapeString(sub.Name)))
	return nil
}

// ===== Материалы =====

func (h *Handlers) HandleAddMaterial(ctx context.Context, ev *dispatch.Event) error {
	return h.pickCategory(ctx, ev, state.StateMaterialCategory, keyboard.PickMatCategory, "📎 Выберите категорию:")
}

func (h *Handlers) HandleMaterialCategory(ctx context.Context, ev *dispatch.Event) error {
	categoryID, ok, err := h.pickSubcategory(ctx, ev, keyboard.PickMatCategory, keyboard.PickMatSub)
	if !ok {
		return err
	}
	h.sessions.Advance(ev.UserID, keyCategoryID, categoryID, state.StateMaterialSubcategory)
	return nil
}

func (h *Handlers) HandleMaterialSubcategory(ctx context.Context, ev *dispatch.Event) error {
	subID, err := keyboard.ParseID(ev.Data(), keyboard.PickMatSub)
	if err != nil {
		return h.fail(ctx, ev, ErrInvalidFormat)
	}

	sub, err := h.content.Subcategory(subID)
	if err != nil {
		return h.fail(ctx, ev, err)
	}
	if sub == nil {
		h.alert(ctx, ev, "❌ Курс не найден")
		return nil
	}

	h.answer(ctx, ev, "")
	h.sessions.Advance(ev.UserID, keySubID, subID, state.StateMaterialName)
	h.edit(ctx, ev, "Курс: <b>"+html.EscapeString(sub.Name)+"</b>", nil)
	h.send(ctx, ev.ChatID, "Введите название урока:", keyboard.CancelMenu())
	return nil
}

func (h *Handlers) HandleMaterialName(ctx context.Context, ev *dispatch.Event) error {
	name, err := validation.Title(ev.Text())
	if err != nil {
		h.send(ctx, ev.ChatID, validationMessage(err), nil)
		return nil
	}

	h.sessions.Advance(ev.UserID, keyName, name, state.StateMaterialDescription)
	h.send(ctx, ev.ChatID, "Введите краткое описание урока (или «-» чтобы пропустить):", nil)
	return nil
}

func (h *Handlers) HandleMaterialDescription(ctx context.Context, ev *dispatch.Event) error {
	h.sessions.Advance(ev.UserID, keyDescription, optional(ev.Text()), state.StateMaterialType)
	h.send(ctx, ev.ChatID, "Выберите тип контента:", keyboard.ContentTypes(true))
	return nil
}

// HandleContentType выбор типа контента для материала или рассылки
func (h *Handlers) HandleContentType(ctx context.Context, ev *dispatch.Event) error {
	ct, ok := model.ParseContentType(ev.Data()[len(keyboard.ContentTypePrefix):])
	if !ok {
		return h.fail(ctx, ev, ErrInvalidFormat)
	}

	next := state.StateMaterialContent
	if h.sessions.GetState(ev.UserID) == state.StateBroadcastType {
		if !h.broadcasts.Supports(ct) {
			h.alert(ctx, ev, errorMessage(service.ErrUnsupportedContent))
			return nil
		}
		next = state.StateBroadcastContent
	}

	h.answer(ctx, ev, "")
	h.sessions.Advance(ev.UserID, keyContentType, string(ct), next)
	h.edit(ctx, ev, "Тип контента: "+contentTypeNames[ct], nil)
	h.send(ctx, ev.ChatID, contentPrompt(ct), keyboard.CancelMenu())
	return nil
}

// sessionContent тип и содержимое, сохранённые в диалоге
func (h *Handlers) sessionContent(telegramID int64) (model.ContentType, model.Content) {
	ct := model.ContentType(h.sessions.String(telegramID, keyContentType))
	v, _ := h.sessions.GetData(telegramID, keyContent)
	content, _ := v.(model.Content)
	return ct, content
}

func (h *Handlers) HandleMaterialContent(ctx context.Context, ev *dispatch.Event) error {
	ct, _ := h.sessionContent(ev.UserID)

	content, err := captureContent(ev.Message, ct)
	if err != nil {
		h.send(ctx, ev.ChatID, captureMessage(err, ct), nil)
		return nil
	}

	h.sessions.Advance(ev.UserID, keyContent, content, state.StateMaterialConfirm)

	name := h.sessions.String(ev.UserID, keyName)
	header := "👁 <b>Предпросмотр</b>\n\n📖 <b>" + html.EscapeString(name) + "</b>"
	if desc := h.sessions.String(ev.UserID, keyDescription); desc != "" {
		header += "\n<i>" + html.EscapeString(desc) + "</i>"
	}

	if _, err := service.SendContent(ctx, h.tg, ev.ChatID, ct, header, content, nil); err != nil {
		h.logger.Warn("Failed to send material preview", zap.Error(err))
	}
	h.send(ctx, ev.ChatID, "Сохранить материал?", keyboard.YesNo(keyboard.ActionMaterial, ""))
	return nil
}

// saveMaterial сохраняет материал в конец курса
func (h *Handlers) saveMaterial(ctx context.Context, ev *dispatch.Event) error {
	id := ev.UserID
	subID := h.sessions.Int64(id, keySubID)
	ct, content := h.sessionContent(id)

	maxOrder, err := h.content.MaxOrder(subID)
	if err != nil {
		return h.fail(ctx, ev, err)
	}

	material, err := h.content.AddMaterial(model.Material{
		SubcategoryID: subID,
		OrderNum:      maxOrder + 1,
		Name:          h.sessions.String(id, keyName),
		Description:   ptr(h.sessions.String(id, keyDescription)),
		ContentType:   ct,
		Content:       content,
	})
	if err != nil {
		h.sessions.ResetAdmin(id)
		return h.fail(ctx, ev, err)
	}

	h.answer(ctx, ev, "")
	h.deleteCallbackMessage(ctx, ev)
	h.logger.Info("Material added",
		zap.Int64("material_id", material.ID),
		zap.Int64("subcategory_id", subID),
		zap.Int("order", material.OrderNum),
		zap.Int64("admin_id", id))
	h.finishAdmin(ctx, ev, fmt.Sprintf("✅ Урок №%d «%s» добавлен!", material.OrderNum, html.EscapeString(material.Name)))
	return nil
}

// ===== Удаление =====

func (h *Handlers) HandleDeleteCategory(ctx context.Context, ev *dispatch.Event) error {
	return h.pickCategory(ctx, ev, state.StateCategoryDelete, keyboard.DelCategory, "🗑 Выберите категорию для удаления:")
}

func (h *Handlers) HandleDeleteCategoryPick(ctx context.Context, ev *dispatch.Event) error {
	categoryID, err := keyboard.ParseID(ev.Data(), keyboard.DelCategory)
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

	h.answer(ctx, ev, "")
	h.edit(ctx, ev,
		fmt.Sprintf("Удалить категорию «%s»?\n\n⚠️ Все её курсы и уроки тоже будут удалены.", html.EscapeString(category.Name)),
		keyboard.YesNo(keyboard.ActionDeleteCat, keyboard.ID(categoryID)))
	return nil
}

func (h *Handlers) HandleDeleteSubcategory(ctx context.Context, ev *dispatch.Event) error {
	return h.pickCategory(ctx, ev, state.StateSubcategoryDelete, keyboard.DelSubCategory, "🗑 Выберите категорию:")
}

func (h *Handlers) HandleDeleteSubcategoryCategory(ctx context.Context, ev *dispatch.Event) error {
	_, _, err := h.pickSubcategory(ctx, ev, keyboard.DelSubCategory, keyboard.DelSubcategory)
	return err
}

func (h *Handlers) HandleDeleteSubcategoryPick(ctx context.Context, ev *dispatch.Event) error {
	subID, err := keyboard.ParseID(ev.Data(), keyboard.DelSubcategory)
	if err != nil {
		return h.fail(ctx, ev, ErrInvalidFormat)
	}

	sub, err := h.content.Subcategory(subID)
	if err != nil {
		return h.fail(ctx, ev, err)
	}
	if sub == nil {
		h.alert(ctx, ev, "❌ Курс не найден")
		return nil
	}

	h.answer(ctx, ev, "")
	h.edit(ctx, ev,
		fmt.Sprintf("Удалить курс «%s»?\n\n⚠️ Все его уроки тоже будут удалены.", html.EscapeString(sub.Name)),
		keyboard.YesNo(keyboard.ActionDeleteSub, keyboard.ID(subID)))
	return nil
}

func (h *Handlers) HandleDeleteMaterial(ctx context.Context, ev *dispatch.Event) error {
	return h.pickCategory(ctx, ev, state.StateMaterialDelete, keyboard.DelMatCategory, "🗑 Выберите категорию:")
}

func (h *Handlers) HandleDeleteMaterialCategory(ctx context.Context, ev *dispatch.Event) error {
	_, _, err := h.pickSubcategory(ctx, ev, keyboard.DelMatCategory, keyboard.DelMatSub)
	return err
}

func (h *Handlers) HandleDeleteMaterialSubcategory(ctx context.Context, ev *dispatch.Event) error {
	subID, err := keyboard.ParseID(ev.Data(), keyboard.DelMatSub)
	if err != nil {
		return h.fail(ctx, ev, ErrInvalidFormat)
	}

	materials, err := h.content.Materials(subID)
	if err != nil {
		return h.fail(ctx, ev, err)
	}
	if len(materials) == 0 {
		h.alert(ctx, ev, "В этом курсе нет уроков")
		return nil
	}

	items := make([]keyboard.Item, 0, len(materials))
	for _, m := range materials {
		items = append(items, keyboard.Item{
			Key:   keyboard.ID(m.ID),
			Label: fmt.Sprintf("%d. %s", m.OrderNum, m.Name),
		})
	}

	h.answer(ctx, ev, "")
	h.edit(ctx, ev, "Выберите урок для удаления:", keyboard.Pick(keyboard.DelMaterial, items))
	return nil
}

func (h *Handlers) HandleDeleteMaterialPick(ctx context.Context, ev *dispatch.Event) error {
	materialID, err := keyboard.ParseID(ev.Data(), keyboard.DelMaterial)
	if err != nil {
		return h.fail(ctx, ev, ErrInvalidFormat)
	}

	material, err := h.content.Material(materialID)
	if err != nil {
		return h.fail(ctx, ev, err)
	}
	if material == nil {
		h.alert(ctx, ev, "❌ Урок не найден")
		return nil
	}

	h.answer(ctx, ev, "")
	h.edit(ctx, ev,
		fmt.Sprintf("Удалить урок «%s»?", html.EscapeString(material.Name)),
		keyboard.YesNo(keyboard.ActionDeleteMat, keyboard.ID(materialID)))
	return nil
}

// deleteContent удаление после подтверждения
func (h *Handlers) deleteContent(ctx context.Context, ev *dispatch.Event, action, rawID string) error {
	id, err := keyboard.ParseID(rawID, "")
	if err != nil {
		return h.fail(ctx, ev, ErrInvalidFormat)
	}

	var (
		done string
		del  func(int64) error
	)
	switch action {
	case keyboard.ActionDeleteCat:
		done, del = "✅ Категория удалена.", h.content.DeleteCategory
	case keyboard.ActionDeleteSub:
		done, del = "✅ Курс удалён.", h.content.DeleteSubcategory
	case keyboard.ActionDeleteMat:
		done, del = "✅ Урок удалён.", h.content.DeleteMaterial
	default:
		return h.fail(ctx, ev, ErrInvalidFormat)
	}

	if err := del(id); err != nil {
		h.sessions.ResetAdmin(ev.UserID)
		return h.fail(ctx, ev, err)
	}

	h.logger.Info("Content deleted",
		zap.String("action", action),
		zap.Int64("id", id),
		zap.Int64("admin_id", ev.UserID))

	h.answer(ctx, ev, "")
	h.edit(ctx, ev, done, nil)
	h.finishAdmin(ctx, ev, "Выберите действие:")
	return nil
}

// HandleConfirm подтверждение мастера: confirm_{action}[_{id}]
func (h *Handlers) HandleConfirm(ctx context.Context, ev *dispatch.Event) error {
	action, id := keyboard.ParseAction(ev.Data(), keyboard.ConfirmPrefix)

	switch action {
	case keyboard.ActionMaterial:
		if h.sessions.GetState(ev.UserID) != state.StateMaterialConfirm {
			h.alert(ctx, ev, "❌ Мастер уже завершён")
			return nil
		}
		return h.saveMaterial(ctx, ev)
	case keyboard.ActionBroadcast:
		if h.sessions.GetState(ev.UserID) != state.StateBroadcastConfirm {
			h.alert(ctx, ev, "❌ Мастер уже завершён")
			return nil
		}
		return h.sendBroadcast(ctx, ev)
	default:
		return h.deleteContent(ctx, ev, action, id)
	}
}
