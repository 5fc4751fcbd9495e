package handlers

import (
	"cmp"
	"errors"
	"strings"

	"github.com/Freeeeeet/mentor_bot/internal/model"
	"github.com/Freeeeeet/mentor_bot/internal/validation"
	"github.com/go-telegram/bot/models"
)

var errWrongContent = errors.New("message does not match content type")

// contentTypeNames подписи типов контента для подсказок
var contentTypeNames = map[model.ContentType]string{
	model.ContentText:     "📝 Текст",
	model.ContentPhoto:    "📸 Фото",
	model.ContentVideo:    "🎥 Видео",
	model.ContentDocument: "📄 Документ",
	model.ContentYouTube:  "🔗 YouTube",
}

// contentPrompt просьба прислать содержимое выбранного типа
func contentPrompt(ct model.ContentType) string {
	switch ct {
	case model.ContentText:
		return "Отправьте текст:"
	case model.ContentPhoto:
		return "Отправьте фото (подпись по желанию):"
	case model.ContentVideo:
		return "Отправьте видео (подпись по желанию):"
	case model.ContentDocument:
		return "Отправьте документ (подпись по желанию):"
	case model.ContentYouTube:
		return "Отправьте ссылку на YouTube:"
	}
	return "Отправьте содержимое:"
}

// captureContent извлекает из сообщения содержимое ожидаемого типа.
// Текст и ссылка берутся из текста сообщения, а если его нет, из подписи.
func captureContent(msg *models.Message, ct model.ContentType) (model.Content, error) {
	if msg == nil {
		return model.Content{}, errWrongContent
	}

	switch ct {
	case model.ContentText:
		text, err := validation.Text(cmp.Or(msg.Text, msg.Caption))
		if err != nil {
			return model.Content{}, err
		}
		return model.Content{Text: text}, nil

	case model.ContentPhoto:
		if fileID := largestPhoto(msg); fileID != "" {
			return model.Content{FileID: fileID, Caption: strings.TrimSpace(msg.Caption)}, nil
		}

	case model.ContentVideo:
		if msg.Video != nil {
			return model.Content{FileID: msg.Video.FileID, Caption: strings.TrimSpace(msg.Caption)}, nil
		}

	case model.ContentDocument:
		if msg.Document != nil {
			return model.Content{FileID: msg.Document.FileID, Caption: strings.TrimSpace(msg.Caption)}, nil
		}

	case model.ContentYouTube:
		url, err := validation.YouTubeURL(cmp.Or(msg.Text, msg.Caption))
		if err != nil {
			return model.Content{}, err
		}
		return model.Content{URL: url}, nil
	}

	return model.Content{}, errWrongContent
}

// captureMessage подсказка при неподходящем содержимом
func captureMessage(err error, ct model.ContentType) string {
	if errors.Is(err, errWrongContent) {
		return "❌ Ожидается: " + contentTypeNames[ct] + ".\n\n" + contentPrompt(ct)
	}
	return validationMessage(err)
}

// optional значение необязательного шага: "-" или пустая строка означают пропуск
func optional(input string) string {
	s := strings.TrimSpace(input)
	if s == skipValue {
		return ""
	}
	return s
}

// ptr nil для пустой строки
func ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
