package handlers

import (
	"context"

	"github.com/Freeeeeet/mentor_bot/internal/controller/dispatch"
	"github.com/Freeeeeet/mentor_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/mentor_bot/internal/controller/state"
)

// Register регистрирует маршруты. Порядок задаёт приоритет:
// команды, отмена, проверка подписки, регистрация, кнопки меню,
// шаги мастеров администратора, кнопки обучения.
func (h *Handlers) Register(r *dispatch.Router) {
	admin := dispatch.From(h.isAdmin)
	in := func(states ...state.UserState) dispatch.Predicate {
		return dispatch.InState(h.sessions, states...)
	}
	msg := dispatch.IsMessage
	cb := dispatch.CallbackPrefix
	eq := dispatch.CallbackEquals
	text := dispatch.Text

	// Команды
	r.Handle("start", dispatch.Command("/start"), h.HandleStart)
	r.Handle("admin", dispatch.Command("/admin"), h.HandleAdmin)
	r.Handle("cancel", dispatch.Or(dispatch.Command("/cancel"), text(keyboard.BtnCancel)), h.HandleCancel)
	r.Handle("callback_cancel", dispatch.Or(eq(keyboard.AdminCancel), cb(keyboard.CancelPrefix)), h.HandleCallbackCancel)
	r.Handle("check_subscription", eq(keyboard.CheckSubscription), h.HandleCheckSubscription)
	r.Handle("main_menu", eq(keyboard.ToMainMenu, keyboard.BackToMain), h.HandleMainMenu)

	// Регистрация
	r.Handle("reg_name", dispatch.And(in(state.StateRegName), msg), h.HandleRegName)
	r.Handle("reg_surname", dispatch.And(in(state.StateRegSurname), msg), h.HandleRegSurname)
	r.Handle("reg_age", dispatch.And(in(state.StateRegAge), msg), h.HandleRegAge)
	r.Handle("reg_role", dispatch.And(in(state.StateRegRole), cb(keyboard.RolePrefix)), h.HandleRegRole)
	r.Handle("reg_role_text", dispatch.And(in(state.StateRegRole), msg), h.HandleRegRoleText)
	r.Handle("reg_photo", dispatch.And(in(state.StateRegPhoto), msg), h.HandleRegPhoto)
	r.Handle("reg_confirm", dispatch.And(in(state.StateRegConfirm), eq(keyboard.RegConfirm)), h.HandleRegConfirm)
	r.Handle("reg_edit", dispatch.And(in(state.StateRegConfirm), eq(keyboard.RegEdit)), h.HandleRegEdit)
	r.Handle("reg_edit_done", dispatch.And(in(state.StateRegEdit), eq(keyboard.EditDone)), h.HandleRegEditDone)
	r.Handle("reg_edit_field", dispatch.And(in(state.StateRegEdit), cb(keyboard.EditPrefix)), h.HandleRegEditField)

	// Главное меню прерывает любой мастер
	r.Handle("courses", text(keyboard.BtnCourses), h.fresh(h.HandleCourses))
	r.Handle("profile", text(keyboard.BtnProfile), h.fresh(h.HandleProfile))
	r.Handle("progress", text(keyboard.BtnProgress), h.fresh(h.HandleProgress))
	r.Handle("top", text(keyboard.BtnTop), h.fresh(h.HandleTop))
	r.Handle("bookmarks", text(keyboard.BtnBookmarks), h.fresh(h.HandleBookmarks))
	r.Handle("achievements", text(keyboard.BtnAchievements), h.fresh(h.HandleAchievements))
	r.Handle("faq", text(keyboard.BtnFAQ), h.fresh(h.HandleFAQ))
	r.Handle("about", text(keyboard.BtnAbout), h.fresh(h.HandleAbout))

	// Админ-панель
	adminButton := func(label string) dispatch.Predicate {
		return dispatch.And(admin, text(label))
	}
	r.Handle("admin_add_category", adminButton(keyboard.BtnAddCategory), h.fresh(h.HandleAddCategory))
	r.Handle("admin_add_subcategory", adminButton(keyboard.BtnAddSubcategory), h.fresh(h.HandleAddSubcategory))
	r.Handle("admin_add_material", adminButton(keyboard.BtnAddMaterial), h.fresh(h.HandleAddMaterial))
	r.Handle("admin_add_sponsor", adminButton(keyboard.BtnAddSponsor), h.fresh(h.HandleAddSponsor))
	r.Handle("admin_delete_sponsor", adminButton(keyboard.BtnDeleteSponsor), h.fresh(h.HandleDeleteSponsor))
	r.Handle("admin_delete_category", adminButton(keyboard.BtnDeleteCategory), h.fresh(h.HandleDeleteCategory))
	r.Handle("admin_delete_subcategory", adminButton(keyboard.BtnDeleteSubcategory), h.fresh(h.HandleDeleteSubcategory))
	r.Handle("admin_delete_material", adminButton(keyboard.BtnDeleteMaterial), h.fresh(h.HandleDeleteMaterial))
	r.Handle("admin_add_faq", adminButton(keyboard.BtnAddFAQ), h.fresh(h.HandleAddFAQ))
	r.Handle("admin_delete_faq", adminButton(keyboard.BtnDeleteFAQ), h.fresh(h.HandleDeleteFAQ))
	r.Handle("admin_add_tip", adminButton(keyboard.BtnAddTip), h.fresh(h.HandleAddTip))
	r.Handle("admin_delete_tip", adminButton(keyboard.BtnDeleteTip), h.fresh(h.HandleDeleteTip))
	r.Handle("admin_stats", adminButton(keyboard.BtnStats), h.fresh(h.HandleStats))
	r.Handle("admin_top", adminButton(keyboard.BtnAdminTop), h.fresh(h.HandleAdminTop))
	r.Handle("admin_broadcast", adminButton(keyboard.BtnBroadcast), h.fresh(h.HandleBroadcast))
	r.Handle("admin_export", adminButton(keyboard.BtnExport), h.fresh(h.HandleExport))
	r.Handle("admin_exit", adminButton(keyboard.BtnExit), h.HandleAdminExit)

	// Шаги мастеров администратора
	adminStep := func(s state.UserState) dispatch.Predicate {
		return dispatch.And(admin, in(s), msg)
	}
	r.Handle("category_name", adminStep(state.StateCategoryName), h.HandleCategoryName)
	r.Handle("subcategory_name", adminStep(state.StateSubcategoryName), h.HandleSubcategoryName)
	r.Handle("subcategory_wiki", adminStep(state.StateSubcategoryWiki), h.HandleSubcategoryWiki)
	r.Handle("subcategory_pros", adminStep(state.StateSubcategoryPros), h.HandleSubcategoryPros)
	r.Handle("subcategory_cons", adminStep(state.StateSubcategoryCons), h.HandleSubcategoryCons)
	r.Handle("material_name", adminStep(state.StateMaterialName), h.HandleMaterialName)
	r.Handle("material_description", adminStep(state.StateMaterialDescription), h.HandleMaterialDescription)
	r.Handle("material_content", adminStep(state.StateMaterialContent), h.HandleMaterialContent)
	r.Handle("sponsor_name", adminStep(state.StateSponsorName), h.HandleSponsorName)
	r.Handle("sponsor_url", adminStep(state.StateSponsorURL), h.HandleSponsorURL)
	r.Handle("broadcast_name", adminStep(state.StateBroadcastName), h.HandleBroadcastName)
	r.Handle("broadcast_description", adminStep(state.StateBroadcastDescription), h.HandleBroadcastDescription)
	r.Handle("broadcast_content", adminStep(state.StateBroadcastContent), h.HandleBroadcastContent)
	r.Handle("broadcast_button_text", adminStep(state.StateBroadcastButtonText), h.HandleBroadcastButtonText)
	r.Handle("broadcast_button_url", adminStep(state.StateBroadcastButtonURL), h.HandleBroadcastButtonURL)
	r.Handle("faq_question", adminStep(state.StateFAQQuestion), h.HandleFAQQuestion)
	r.Handle("faq_answer", adminStep(state.StateFAQAnswer), h.HandleFAQAnswer)
	r.Handle("tip_text", adminStep(state.StateTipText), h.HandleTipText)

	adminPick := func(prefix string, states ...state.UserState) dispatch.Predicate {
		return dispatch.And(admin, in(states...), cb(prefix))
	}
	r.Handle("subcategory_category", adminPick(keyboard.PickSubCategory, state.StateSubcategoryCategory), h.HandleSubcategoryCategory)
	r.Handle("material_category", adminPick(keyboard.PickMatCategory, state.StateMaterialCategory), h.HandleMaterialCategory)
	r.Handle("material_subcategory", adminPick(keyboard.PickMatSub, state.StateMaterialSubcategory), h.HandleMaterialSubcategory)
	r.Handle("content_type", adminPick(keyboard.ContentTypePrefix, state.StateMaterialType, state.StateBroadcastType), h.HandleContentType)
	r.Handle("delete_category", adminPick(keyboard.DelCategory, state.StateCategoryDelete), h.HandleDeleteCategoryPick)
	r.Handle("delete_subcategory_category", adminPick(keyboard.DelSubCategory, state.StateSubcategoryDelete), h.HandleDeleteSubcategoryCategory)
	r.Handle("delete_subcategory", adminPick(keyboard.DelSubcategory, state.StateSubcategoryDelete), h.HandleDeleteSubcategoryPick)
	r.Handle("delete_material_category", adminPick(keyboard.DelMatCategory, state.StateMaterialDelete), h.HandleDeleteMaterialCategory)
	r.Handle("delete_material_subcategory", adminPick(keyboard.DelMatSub, state.StateMaterialDelete), h.HandleDeleteMaterialSubcategory)
	r.Handle("delete_material", adminPick(keyboard.DelMaterial, state.StateMaterialDelete), h.HandleDeleteMaterialPick)
	r.Handle("delete_sponsor", adminPick(keyboard.DelSponsor, state.StateSponsorDelete), h.HandleDeleteSponsorPick)
	r.Handle("delete_faq", adminPick(keyboard.DelFAQ, state.StateFAQDelete), h.HandleDeleteFAQPick)
	r.Handle("delete_tip", adminPick(keyboard.DelTip, state.StateTipDelete), h.HandleDeleteTipPick)
	r.Handle("admin_confirm", dispatch.And(admin, cb(keyboard.ConfirmPrefix)), h.HandleConfirm)

	// Обучение
	r.Handle("back_to_categories", eq(keyboard.BackToCategories), h.HandleCourses)
	r.Handle("category", cb(keyboard.CategoryPrefix), h.HandleCategory)
	r.Handle("subcategory", cb(keyboard.SubcategoryPrefix), h.HandleSubcategory)
	r.Handle("continue", cb(keyboard.ContinuePrefix), h.HandleContinue)
	r.Handle("restart", cb(keyboard.RestartPrefix), h.HandleRestart)
	r.Handle("next", cb(keyboard.NextPrefix), h.HandleNext)
	r.Handle("prev", cb(keyboard.PrevPrefix), h.HandlePrev)
	r.Handle("save", cb(keyboard.SavePrefix), h.HandleSave)
	r.Handle("rate", cb(keyboard.RatePrefix), h.HandleRate)
}

// fresh сбрасывает незавершённый диалог перед обработчиком кнопки меню
func (h *Handlers) fresh(next dispatch.HandlerFunc) dispatch.HandlerFunc {
	return func(ctx context.Context, ev *dispatch.Event) error {
		h.resetSession(ev.UserID)
		return next(ctx, ev)
	}
}
