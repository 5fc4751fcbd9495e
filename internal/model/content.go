package model

// ContentType тип содержимого материала или рассылки
type ContentType string

const (
	ContentText     ContentType = "text"
	ContentPhoto    ContentType = "photo"
	ContentVideo    ContentType = "video"
	ContentDocument ContentType = "document"
	ContentYouTube  ContentType = "youtube"
)

// ParseContentType проверяет, что тип контента известен
func ParseContentType(s string) (ContentType, bool) {
	switch ct := ContentType(s); ct {
	case ContentText, ContentPhoto, ContentVideo, ContentDocument, ContentYouTube:
		return ct, true
	}
	return "", false
}

// Content полезная нагрузка материала; заполнены только поля, нужные для ContentType
type Content struct {
	Text    string `json:"text,omitempty"`
	FileID  string `json:"file_id,omitempty"`
	Caption string `json:"caption,omitempty"`
	URL     string `json:"url,omitempty"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Subcategory struct {
	ID         int64   `json:"id"`
	CategoryID int64   `json:"category_id"`
	Name       string  `json:"name"`
	WikiText   *string `json:"wiki_text"`
	Pros       *string `json:"pros"`
	Cons       *string `json:"cons"`
}

type Material struct {
	ID            int64       `json:"id"`
	SubcategoryID int64       `json:"subcategory_id"`
	OrderNum      int         `json:"order_num"`
	Name          string      `json:"name"`
	Description   *string     `json:"description"`
	ContentType   ContentType `json:"content_type"`
	Content       Content     `json:"content"`
}

type FAQ struct {
	ID       int64  `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
