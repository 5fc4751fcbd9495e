package model

import "time"

// Роли, доступные при регистрации
const (
	RoleStudent = "🎓 Студент"
	RolePupil   = "📚 Школьник"
	RoleWorker  = "💼 Работающий"
	RoleOther   = "👤 Другое"
)

const (
	XPPerLesson = 10
	XPPerLevel  = 100
)

type User struct {
	ID            int64      `json:"id"`
	TelegramID    int64      `json:"telegram_id"`
	Name          string     `json:"name"`
	Surname       *string    `json:"surname,omitempty"` // nil если пользователь пропустил шаг
	Age           int        `json:"age"`
	Role          string     `json:"role"`
	PhotoFileID   string     `json:"photo_file_id"`
	Level         int        `json:"level"`
	XP            int        `json:"xp"`
	IsSubscribed  bool       `json:"is_subscribed"`
	StreakDays    int        `json:"streak_days"`
	LastStudyDate *time.Time `json:"last_study_date,omitempty"`
	LastActive    time.Time  `json:"last_active"`
	RegisteredAt  time.Time  `json:"registered_at"`
}

// LevelForXP вычисляет уровень по количеству опыта
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

// SurnameOrDash возвращает фамилию или прочерк для отображения
func (u *User) SurnameOrDash() string {
	if u.Surname == nil || *u.Surname == "" {
		return "—"
	}
	return *u.Surname
}
