package keyboard

// Подписи кнопок главного меню
const (
	BtnCourses      = "📚 Курсы"
	BtnProfile      = "👤 Профиль"
	BtnProgress     = "📊 Прогресс"
	BtnTop          = "🏆 ТОП-10"
	BtnBookmarks    = "⭐ Закладки"
	BtnAchievements = "🏅 Достижения"
	BtnFAQ          = "❓ FAQ"
	BtnAbout        = "ℹ️ О боте"
	BtnCancel       = "❌ Отмена"
)

// Подписи кнопок админ-панели
const (
	BtnAddCategory       = "📁 Добавить категорию"
	BtnAddSubcategory    = "📂 Добавить подкатегорию"
	BtnAddMaterial       = "📎 Добавить материал"
	BtnAddSponsor        = "🔗 Добавить спонсора"
	BtnDeleteSponsor     = "❌ Удалить спонсора"
	BtnDeleteCategory    = "🗑 Удалить категорию"
	BtnDeleteSubcategory = "🗑 Удалить подкатегорию"
	BtnDeleteMaterial    = "🗑 Удалить материал"
	BtnAddFAQ            = "➕ Добавить FAQ"
	BtnDeleteFAQ         = "➖ Удалить FAQ"
	BtnAddTip            = "💡 Добавить совет"
	BtnDeleteTip         = "🧹 Удалить совет"
	BtnStats             = "📊 Статистика"
	BtnAdminTop          = "🏆 ТОП-10 (админ)"
	BtnBroadcast         = "📨 Рассылка"
	BtnExport            = "📥 Экспорт пользователей"
	BtnExit              = "🚪 Выход"
)

// Callback data. Формат с параметрами: prefix + id, например "cat_12"
const (
	CheckSubscription = "check_subscription"
	ToMainMenu        = "main_menu"
	BackToMain        = "back_to_main"
	BackToCategories  = "back_to_categories"
	AdminCancel       = "admin_cancel"

	RolePrefix = "role_" // role_student
	RegConfirm = "confirm"
	RegEdit    = "edit"
	EditPrefix = "edit_" // edit_name
	EditDone   = "edit_done"

	CategoryPrefix    = "cat_"      // cat_{category}
	SubcategoryPrefix = "sub_"      // sub_{subcategory}
	ContinuePrefix    = "continue_" // continue_{subcategory}
	RestartPrefix     = "restart_"  // restart_{subcategory}
	PrevPrefix        = "prev_"     // prev_{subcategory}_{index}
	NextPrefix        = "next_"     // next_{subcategory}_{index}
	SavePrefix        = "save_"     // save_{material}
	RatePrefix        = "rate_"     // rate_{subcategory}_{stars}

	ContentTypePrefix = "ctype_"   // ctype_text
	ConfirmPrefix     = "confirm_" // confirm_{action}
	CancelPrefix      = "cancel_"  // cancel_{action}

	// Выбор в мастерах админ-панели
	PickSubCategory = "adm_subcat_"     // категория новой подкатегории
	PickMatCategory = "adm_matcat_"     // категория нового материала
	PickMatSub      = "adm_matsub_"     // подкатегория нового материала
	DelCategory     = "adm_delcat_"     // удаление категории
	DelSubCategory  = "adm_delsubcat_"  // категория при удалении подкатегории
	DelSubcategory  = "adm_delsub_"     // удаление подкатегории
	DelMatCategory  = "adm_delmatcat_"  // категория при удалении материала
	DelMatSub       = "adm_delmatsub_"  // подкатегория при удалении материала
	DelMaterial     = "adm_delmat_"     // удаление материала
	DelSponsor      = "adm_delsponsor_" // отключение спонсора
	DelFAQ          = "adm_delfaq_"     // удаление вопроса
	DelTip          = "adm_deltip_"     // удаление совета по индексу

	// Действия для confirm_{action}[_{id}] и cancel_{action}
	ActionMaterial  = "material"
	ActionBroadcast = "broadcast"
	ActionDeleteCat = "delcat"
	ActionDeleteSub = "delsub"
	ActionDeleteMat = "delmat"
)
