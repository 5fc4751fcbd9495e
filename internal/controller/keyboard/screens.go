package keyboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/mentor_bot/internal/model"
	"github.com/Freeeeeet/mentor_bot/internal/validation"
	"github.com/go-telegram/bot/models"
)

// MainMenu reply клавиатура пользователя
func MainMenu() *models.ReplyKeyboardMarkup {
	return Reply(
		[]string{BtnCourses},
		[]string{BtnProfile, BtnProgress},
		[]string{BtnTop, BtnBookmarks},
		[]string{BtnAchievements},
		[]string{BtnFAQ, BtnAbout},
	)
}

// AdminMenu reply клавиатура админ-панели
func AdminMenu() *models.ReplyKeyboardMarkup {
	return Reply(
		[]string{BtnAddCategory, BtnAddSubcategory},
		[]string{BtnAddMaterial},
		[]string{BtnAddSponsor, BtnDeleteSponsor},
		[]string{BtnDeleteCategory, BtnDeleteSubcategory},
		[]string{BtnDeleteMaterial},
		[]string{BtnAddFAQ, BtnDeleteFAQ},
		[]string{BtnAddTip, BtnDeleteTip},
		[]string{BtnStats, BtnAdminTop},
		[]string{BtnBroadcast, BtnExport},
		[]string{BtnExit},
	)
}

// CancelMenu единственная кнопка отмены во время мастера
func CancelMenu() *models.ReplyKeyboardMarkup {
	return Reply([]string{BtnCancel})
}

// ===== Регистрация =====

func Roles() *models.InlineKeyboardMarkup {
	return NewBuilder().
		Row(Button(model.RoleStudent, validation.RoleStudentKey)).
		Row(Button(model.RolePupil, validation.RolePupilKey)).
		Row(Button(model.RoleWorker, validation.RoleWorkerKey)).
		Row(Button(model.RoleOther, validation.RoleOtherKey)).
		Build()
}

func RegistrationConfirm() *models.InlineKeyboardMarkup {
	return NewBuilder().
		Row(Button("✅ Всё верно", RegConfirm)).
		Row(Button("✏️ Изменить", RegEdit)).
		Build()
}

func RegistrationEdit() *models.InlineKeyboardMarkup {
	return NewBuilder().
		Row(Button("👤 Имя", EditPrefix+"name"), Button("👥 Фамилия", EditPrefix+"surname")).
		Row(Button("🎂 Возраст", EditPrefix+"age"), Button("💼 Роль", EditPrefix+"role")).
		Row(Button("📸 Фото", EditPrefix+"photo")).
		Row(Button("✅ Готово", EditDone)).
		Build()
}

// ===== Обучение =====

func Categories(categories []model.Category) *models.InlineKeyboardMarkup {
	buttons := make([]models.InlineKeyboardButton, 0, len(categories))
	for _, c := range categories {
		buttons = append(buttons, Button("📁 "+c.Name, CategoryPrefix+itoa(c.ID)))
	}
	return NewBuilder().Grid(2, buttons...).Build()
}

func Subcategories(subs []model.Subcategory) *models.InlineKeyboardMarkup {
	b := NewBuilder()
	for _, s := range subs {
		b.Row(Button("📖 "+s.Name, SubcategoryPrefix+itoa(s.ID)))
	}
	return b.Row(Button("🔙 Назад", BackToCategories)).Build()
}

// ContinueOrRestart выбор для уже начатого курса
func ContinueOrRestart(subID int64) *models.InlineKeyboardMarkup {
	return NewBuilder().
		Row(Button("▶️ Продолжить", ContinuePrefix+itoa(subID))).
		Row(Button("🔄 Начать заново", RestartPrefix+itoa(subID))).
		Row(Button("🔙 Назад", BackToCategories)).
		Build()
}

// LessonNavigation навигация по урокам курса
func LessonNavigation(subID int64, index, total int, materialID int64) *models.InlineKeyboardMarkup {
	var nav []models.InlineKeyboardButton
	if index > 0 {
		nav = append(nav, Button("⬅️ Назад", fmt.Sprintf("%s%d_%d", PrevPrefix, subID, index)))
	}
	if index < total-1 {
		nav = append(nav, Button("➡️ Далее", fmt.Sprintf("%s%d_%d", NextPrefix, subID, index)))
	} else {
		nav = append(nav, Button("🏁 Завершить", fmt.Sprintf("%s%d_%d", NextPrefix, subID, index)))
	}

	return NewBuilder().
		Row(nav...).
		Row(Button("⭐ Сохранить", SavePrefix+itoa(materialID))).
		Row(Button("🏠 Меню", ToMainMenu)).
		Build()
}

// Rating оценка курса от 1 до 5 звёзд
func Rating(subID int64) *models.InlineKeyboardMarkup {
	b := NewBuilder()
	for stars := 1; stars <= 5; stars++ {
		b.Row(Button(strings.Repeat("⭐", stars), fmt.Sprintf("%s%d_%d", RatePrefix, subID, stars)))
	}
	return b.Row(Button("⬅️ Назад", BackToCategories)).Build()
}

func BackToMainMenu() *models.InlineKeyboardMarkup {
	return NewBuilder().Row(Button("🏠 В главное меню", BackToMain)).Build()
}

// ===== Подписка =====

// Subscribe ссылки на каналы и кнопка повторной проверки
func Subscribe(sponsors []*model.Sponsor) *models.InlineKeyboardMarkup {
	b := NewBuilder()
	for _, s := range sponsors {
		b.Row(URLButton("📢 "+s.Name, s.URL))
	}
	return b.Row(Button("✅ Я подписался", CheckSubscription)).Build()
}

// ===== Админ-панель =====

// Pick список элементов с общим префиксом callback и кнопкой отмены
func Pick(prefix string, items []Item) *models.InlineKeyboardMarkup {
	b := NewBuilder()
	for _, it := range items {
		b.Row(Button(it.Label, prefix+it.Key))
	}
	return b.Row(Button(BtnCancel, AdminCancel)).Build()
}

// Item элемент списка выбора
type Item struct {
	Key   string
	Label string
}

// ID ключ элемента из числового идентификатора
func ID(id int64) string {
	return itoa(id)
}

func ContentTypes(withYouTube bool) *models.InlineKeyboardMarkup {
	b := NewBuilder().
		Row(Button("📝 Текст", ContentTypePrefix+string(model.ContentText)), Button("📸 Фото", ContentTypePrefix+string(model.ContentPhoto))).
		Row(Button("🎥 Видео", ContentTypePrefix+string(model.ContentVideo)), Button("📄 Документ", ContentTypePrefix+string(model.ContentDocument)))
	if withYouTube {
		b.Row(Button("🔗 YouTube", ContentTypePrefix+string(model.ContentYouTube)))
	}
	return b.Row(Button(BtnCancel, AdminCancel)).Build()
}

// YesNo подтверждение действия; id добавляется к confirm, если не пустой
func YesNo(action, id string) *models.InlineKeyboardMarkup {
	confirm := ConfirmPrefix + action
	if id != "" {
		confirm += "_" + id
	}
	return NewBuilder().
		Row(Button("✅ Да", confirm), Button("❌ Нет", CancelPrefix+action)).
		Build()
}

// ===== Разбор callback data =====

// ParseID число после префикса: "cat_12" -> 12
func ParseID(data, prefix string) (int64, error) {
	return strconv.ParseInt(strings.TrimPrefix(data, prefix), 10, 64)
}

// ParsePair два числа после префикса: "next_3_7" -> 3, 7
func ParsePair(data, prefix string) (int64, int, error) {
	first, second, ok := strings.Cut(strings.TrimPrefix(data, prefix), "_")
	if !ok {
		return 0, 0, fmt.Errorf("invalid callback data %q", data)
	}
	a, err := strconv.ParseInt(first, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid callback data %q: %w", data, err)
	}
	b, err := strconv.Atoi(second)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid callback data %q: %w", data, err)
	}
	return a, b, nil
}

// ParseAction разбирает "confirm_delcat_5" -> "delcat", "5"
func ParseAction(data, prefix string) (action, id string) {
	action, id, _ = strings.Cut(strings.TrimPrefix(data, prefix), "_")
	return action, id
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
