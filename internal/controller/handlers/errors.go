package handlers

import (
	"errors"

	"github.com/Freeeeeet/mentor_bot/internal/repository/jsonstore"
	"github.com/Freeeeeet/mentor_bot/internal/service"
	"github.com/Freeeeeet/mentor_bot/internal/validation"
)

var (
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = errors.New("invalid callback format")
)

// errorMessage возвращает пользовательское сообщение для ошибки
func errorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return "❌ Сначала зарегистрируйтесь через /start"
	case errors.Is(err, service.ErrCourseNotFound), errors.Is(err, jsonstore.ErrNotFound):
		return "❌ Не найдено. Возможно, запись уже удалена"
	case errors.Is(err, service.ErrNoMaterials):
		return "В этой подкатегории пока нет материалов"
	case errors.Is(err, service.ErrMaterialNotFound):
		return "❌ Материал не найден"
	case errors.Is(err, service.ErrFirstLesson):
		return "Это первый урок"
	case errors.Is(err, service.ErrAlreadyBookmarked):
		return "❌ Этот материал уже в закладках"
	case errors.Is(err, service.ErrInvalidRating):
		return "❌ Оценка должна быть от 1 до 5"
	case errors.Is(err, service.ErrUnsupportedContent):
		return "❌ Этот тип контента не поддерживается"
	case errors.Is(err, service.ErrSponsorNotFound):
		return "❌ Спонсор не найден"
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Неверный формат данных"
	default:
		return "❌ Произошла ошибка. Попробуйте позже."
	}
}

// validationMessage подсказка для неверного ввода на шаге диалога
func validationMessage(err error) string {
	switch {
	case errors.Is(err, validation.ErrNameTooShort):
		return "❌ Слишком коротко. Минимум 2 символа.\n\nПопробуйте ещё раз:"
	case errors.Is(err, validation.ErrNameHasDigits):
		return "❌ Имя не должно содержать цифры.\n\nПопробуйте ещё раз:"
	case errors.Is(err, validation.ErrNameBadSymbols):
		return "❌ Используйте только буквы.\n\nПопробуйте ещё раз:"
	case errors.Is(err, validation.ErrAgeNotNumber):
		return "❌ Введите возраст числом.\n\nПопробуйте ещё раз:"
	case errors.Is(err, validation.ErrAgeOutOfRange):
		return "❌ Возраст должен быть от 5 до 120 лет.\n\nПопробуйте ещё раз:"
	case errors.Is(err, validation.ErrUnknownRole):
		return "❌ Выберите роль кнопкой ниже."
	case errors.Is(err, validation.ErrInvalidURL):
		return "❌ Неверная ссылка. Пример: https://t.me/channel\n\nПопробуйте ещё раз:"
	case errors.Is(err, validation.ErrNotYouTube):
		return "❌ Нужна ссылка на YouTube.\n\nПопробуйте ещё раз:"
	case errors.Is(err, validation.ErrEmptyText):
		return "❌ Текст не может быть пустым.\n\nПопробуйте ещё раз:"
	default:
		return "❌ Неверный ввод.\n\nПопробуйте ещё раз:"
	}
}

// isExpected ошибки, о которых достаточно сообщить пользователю
func isExpected(err error) bool {
	for _, target := range []error{
		service.ErrUserNotFound,
		service.ErrCourseNotFound,
		service.ErrNoMaterials,
		service.ErrMaterialNotFound,
		service.ErrFirstLesson,
		service.ErrAlreadyBookmarked,
		service.ErrInvalidRating,
		service.ErrUnsupportedContent,
		service.ErrSponsorNotFound,
		jsonstore.ErrNotFound,
		ErrInvalidFormat,
		ErrNoMessage,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
