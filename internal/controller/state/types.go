package state

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Регистрация
	StateRegName    UserState = "reg_name"
	StateRegSurname UserState = "reg_surname"
	StateRegAge     UserState = "reg_age"
	StateRegRole    UserState = "reg_role"
	StateRegPhoto   UserState = "reg_photo"
	StateRegConfirm UserState = "reg_confirm"
	StateRegEdit    UserState = "reg_edit"

	// Категории
	StateCategoryName   UserState = "admin_category_name"
	StateCategoryDelete UserState = "admin_category_delete"

	// Подкатегории (курсы)
	StateSubcategoryCategory UserState = "admin_sub_category"
	StateSubcategoryName     UserState = "admin_sub_name"
	StateSubcategoryWiki     UserState = "admin_sub_wiki"
	StateSubcategoryPros     UserState = "admin_sub_pros"
	StateSubcategoryCons     UserState = "admin_sub_cons"
	StateSubcategoryDelete   UserState = "admin_sub_delete"

	// Материалы
	StateMaterialCategory    UserState = "admin_mat_category"
	StateMaterialSubcategory UserState = "admin_mat_subcategory"
	StateMaterialName        UserState = "admin_mat_name"
	StateMaterialDescription UserState = "admin_mat_description"
	StateMaterialType        UserState = "admin_mat_type"
	StateMaterialContent     UserState = "admin_mat_content"
	StateMaterialConfirm     UserState = "admin_mat_confirm"
	StateMaterialDelete      UserState = "admin_mat_delete"

	// Спонсоры
	StateSponsorName   UserState = "admin_sponsor_name"
	StateSponsorURL    UserState = "admin_sponsor_url"
	StateSponsorDelete UserState = "admin_sponsor_delete"

	// Рассылка
	StateBroadcastName        UserState = "admin_bc_name"
	StateBroadcastDescription UserState = "admin_bc_description"
	StateBroadcastType        UserState = "admin_bc_type"
	StateBroadcastContent     UserState = "admin_bc_content"
	StateBroadcastButtonText  UserState = "admin_bc_button_text"
	StateBroadcastButtonURL   UserState = "admin_bc_button_url"
	StateBroadcastConfirm     UserState = "admin_bc_confirm"

	// FAQ и советы
	StateFAQQuestion UserState = "admin_faq_question"
	StateFAQAnswer   UserState = "admin_faq_answer"
	StateFAQDelete   UserState = "admin_faq_delete"
	StateTipText     UserState = "admin_tip_text"
	StateTipDelete   UserState = "admin_tip_delete"
)

// Session состояние диалога одного пользователя
type Session struct {
	State     UserState
	Data      map[string]interface{} // Временные данные для текущего диалога
	AdminMode bool
}

// Clone возвращает копию с собственной картой данных
func (s Session) Clone() Session {
	data := make(map[string]interface{}, len(s.Data))
	for k, v := range s.Data {
		data[k] = v
	}
	s.Data = data
	return s
}

// IsEmpty сессию без состояния, данных и режима администратора можно не хранить
func (s Session) IsEmpty() bool {
	return s.State == StateNone && len(s.Data) == 0 && !s.AdminMode
}
