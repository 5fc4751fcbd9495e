package model

import "time"

// Broadcast запись об отправленной рассылке, после создания меняется только итоговый счётчик
type Broadcast struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description *string     `json:"description,omitempty"`
	ContentType ContentType `json:"content_type"`
	Content     Content     `json:"content"`
	ButtonText  *string     `json:"button_text,omitempty"`
	ButtonURL   *string     `json:"button_url,omitempty"`
	Sent        int         `json:"sent"`
	Failed      int         `json:"failed"`
	SentAt      time.Time   `json:"sent_at"`
}

// HasButton проверяет, нужна ли кнопка-ссылка под сообщением
func (b *Broadcast) HasButton() bool {
	return b.ButtonText != nil && *b.ButtonText != "" && b.ButtonURL != nil && *b.ButtonURL != ""
}
