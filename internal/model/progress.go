package model

import "time"

// UserProgress прогресс пользователя в подкатегории, одна запись на пару (user, subcategory)
type UserProgress struct {
	ID                   int64     `json:"id"`
	UserID               int64     `json:"user_id"`
	SubcategoryID        int64     `json:"subcategory_id"`
	CurrentMaterialIndex int       `json:"current_material_index"`
	CompletedMaterials   []int     `json:"completed_materials"`
	Rating               *int      `json:"rating,omitempty"`
	LastAccessed         time.Time `json:"last_accessed"`
}

// IsCompleted проверяет, пройден ли урок с данным индексом
func (p *UserProgress) IsCompleted(index int) bool {
	for _, i := range p.CompletedMaterials {
		if i == index {
			return true
		}
	}
	return false
}

// MarkCompleted добавляет урок в пройденные, возвращает false если он уже там был
func (p *UserProgress) MarkCompleted(index int) bool {
	if p.IsCompleted(index) {
		return false
	}
	p.CompletedMaterials = append(p.CompletedMaterials, index)
	return true
}

// Percent возвращает процент пройденных уроков курса из total
func (p *UserProgress) Percent(total int) float64 {
	if total <= 0 {
		return 0
	}
	percent := float64(len(p.CompletedMaterials)) / float64(total) * 100
	if percent > 100 {
		percent = 100
	}
	return percent
}

// IsFinished все уроки курса пройдены
func (p *UserProgress) IsFinished(total int) bool {
	return total > 0 && len(p.CompletedMaterials) >= total
}
