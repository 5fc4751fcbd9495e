package model

import "time"

type Achievement struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type UserAchievement struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	AchievementID int64     `json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}

// Коды достижений
const (
	AchievementFirstLesson = "first_lesson"
	Achievement10Lessons   = "10_lessons"
	Achievement50Lessons   = "50_lessons"
	Achievement100Lessons  = "100_lessons"
	AchievementFirstCourse = "first_course"
	Achievement5Courses    = "5_courses"
	Achievement10Courses   = "10_courses"
	AchievementStreak3     = "streak_3"
	AchievementStreak7     = "streak_7"
	AchievementStreak30    = "streak_30"
)

// AchievementCatalog базовый набор достижений, создаётся при старте
var AchievementCatalog = []Achievement{
	{Code: AchievementFirstLesson, Name: "Первый урок!", Description: "Изучил первый урок", Icon: "📚"},
	{Code: Achievement10Lessons, Name: "10 уроков", Description: "Изучил 10 уроков", Icon: "📖"},
	{Code: Achievement50Lessons, Name: "50 уроков", Description: "Изучил 50 уроков", Icon: "📕"},
	{Code: Achievement100Lessons, Name: "100 уроков", Description: "Изучил 100 уроков", Icon: "📗"},

	{Code: AchievementFirstCourse, Name: "Первый курс!", Description: "Завершил первый курс", Icon: "🎓"},
	{Code: Achievement5Courses, Name: "5 курсов", Description: "Завершил 5 курсов", Icon: "🏅"},
	{Code: Achievement10Courses, Name: "10 курсов", Description: "Завершил 10 курсов", Icon: "🏆"},

	{Code: AchievementStreak3, Name: "3 дня подряд", Description: "Учился 3 дня подряд", Icon: "🔥"},
	{Code: AchievementStreak7, Name: "7 дней подряд", Description: "Учился 7 дней подряд", Icon: "⚡"},
	{Code: AchievementStreak30, Name: "30 дней подряд", Description: "Учился месяц без перерыва", Icon: "💫"},
}
