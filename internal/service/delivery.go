package service

import (
	"context"
	"fmt"
	"html"

	"github.com/Freeeeeet/mentor_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// SendContent отправляет содержимое нужным методом транспорта.
// header (уже в HTML) ставится перед текстом или подписью; поля content экранируются.
func SendContent(
	ctx context.Context,
	sender MessageSender,
	chatID int64,
	contentType model.ContentType,
	header string,
	content model.Content,
	markup models.ReplyMarkup,
) (*models.Message, error) {
	switch contentType {
	case model.ContentText:
		return sender.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        joinText(header, html.EscapeString(content.Text)),
			ParseMode:   models.ParseModeHTML,
			ReplyMarkup: markup,
		})

	case model.ContentPhoto:
		return sender.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:      chatID,
			Photo:       &models.InputFileString{Data: content.FileID},
			Caption:     joinText(header, html.EscapeString(content.Caption)),
			ParseMode:   models.ParseModeHTML,
			ReplyMarkup: markup,
		})

	case model.ContentVideo:
		return sender.SendVideo(ctx, &bot.SendVideoParams{
			ChatID:      chatID,
			Video:       &models.InputFileString{Data: content.FileID},
			Caption:     joinText(header, html.EscapeString(content.Caption)),
			ParseMode:   models.ParseModeHTML,
			ReplyMarkup: markup,
		})

	case model.ContentDocument:
		return sender.SendDocument(ctx, &bot.SendDocumentParams{
			ChatID:      chatID,
			Document:    &models.InputFileString{Data: content.FileID},
			Caption:     joinText(header, html.EscapeString(content.Caption)),
			ParseMode:   models.ParseModeHTML,
			ReplyMarkup: markup,
		})

	case model.ContentYouTube:
		return sender.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        joinText(header, "🎬 <b>Ссылка на видео:</b>\n"+html.EscapeString(content.URL)),
			ParseMode:   models.ParseModeHTML,
			ReplyMarkup: markup,
		})
	}

	return nil, fmt.Errorf("%w: %s", ErrUnsupportedContent, contentType)
}

func joinText(header, body string) string {
	switch {
	case header == "":
		return body
	case body == "":
		return header
	}
	return header + "\n\n" + body
}
