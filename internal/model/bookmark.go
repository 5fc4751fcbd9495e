package model

import "time"

// Bookmark сохранённый материал; пара (user, material) уникальна
type Bookmark struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	MaterialID    int64     `json:"material_id"`
	SubcategoryID int64     `json:"subcategory_id"`
	MaterialName  string    `json:"material_name"`
	AddedAt       time.Time `json:"added_at"`
}
