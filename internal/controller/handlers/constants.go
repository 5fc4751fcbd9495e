package handlers

// Ключи данных диалога
const (
	keyName        = "name"
	keySurname     = "surname"
	keyAge         = "age"
	keyRole        = "role"
	keyPhoto       = "photo"
	keyEditing     = "editing" // шаг регистрации открыт из меню изменения
	keyCategoryID  = "category_id"
	keySubID       = "subcategory_id"
	keyWiki        = "wiki"
	keyPros        = "pros"
	keyCons        = "cons"
	keyDescription = "description"
	keyContentType = "content_type"
	keyContent     = "content"
	keyButtonText  = "button_text"
	keyButtonURL   = "button_url"
	keyURL         = "url"
	keyQuestion    = "question"
)

const (
	// topLimit размер рейтинга
	topLimit = 10

	// skipValue пропуск необязательного шага
	skipValue = "-"
)
