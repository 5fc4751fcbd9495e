package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/mentor_bot/internal/model"
	"go.uber.org/zap"
)

// Course курс с уроками и прогрессом пользователя
type Course struct {
	Subcategory *model.Subcategory
	Materials   []model.Material
	Progress    *model.UserProgress
}

// Lesson открытый урок
type Lesson struct {
	Subcategory *model.Subcategory
	Material    model.Material
	Index       int
	Total       int
	// Заполняется, если урок открыт впервые
	XPGained int
	LevelUp  bool
	Unlocked []*model.Achievement
}

// CourseProgress строка отчёта о прогрессе
type CourseProgress struct {
	SubcategoryID int64
	Name          string
	Completed     int
	Total         int
	Percent       float64
	Finished      bool
}

// LearningService прохождение курсов: прогресс, опыт, серии дней, закладки, оценки
type LearningService struct {
	content      ContentReader
	userRepo     UserRepository
	progressRepo ProgressRepository
	bookmarkRepo BookmarkRepository
	achievements *AchievementService
	location     *time.Location
	now          func() time.Time
	logger       *zap.Logger
}

func NewLearningService(
	content ContentReader,
	userRepo UserRepository,
	progressRepo ProgressRepository,
	bookmarkRepo BookmarkRepository,
	achievements *AchievementService,
	location *time.Location,
	logger *zap.Logger,
) *LearningService {
	if location == nil {
		location = time.UTC
	}
	return &LearningService{
		content:      content,
		userRepo:     userRepo,
		progressRepo: progressRepo,
		bookmarkRepo: bookmarkRepo,
		achievements: achievements,
		location:     location,
		now:          time.Now,
		logger:       logger,
	}
}

func (s *LearningService) course(subcategoryID int64) (*model.Subcategory, []model.Material, error) {
	sub, err := s.content.Subcategory(subcategoryID)
	if err != nil {
		return nil, nil, fmt.Errorf("get subcategory: %w", err)
	}
	if sub == nil {
		return nil, nil, ErrCourseNotFound
	}

	materials, err := s.content.Materials(subcategoryID)
	if err != nil {
		return nil, nil, fmt.Errorf("get materials: %w", err)
	}
	if len(materials) == 0 {
		return sub, nil, ErrNoMaterials
	}
	return sub, materials, nil
}

// OpenCourse открывает курс, создавая прогресс при первом входе
func (s *LearningService) OpenCourse(ctx context.Context, user *model.User, subcategoryID int64) (*Course, error) {
	sub, materials, err := s.course(subcategoryID)
	if err != nil {
		return nil, err
	}

	progress, err := s.progressRepo.Upsert(ctx, user.ID, subcategoryID)
	if err != nil {
		return nil, err
	}

	// Курс могли сократить после того, как пользователь его начал
	if progress.CurrentMaterialIndex >= len(materials) {
		progress.CurrentMaterialIndex = len(materials) - 1
	}

	return &Course{Subcategory: sub, Materials: materials, Progress: progress}, nil
}

// Restart начинает курс заново
func (s *LearningService) Restart(ctx context.Context, user *model.User, subcategoryID int64) (*Lesson, error) {
	if _, _, err := s.course(subcategoryID); err != nil {
		return nil, err
	}

	progress, err := s.progressRepo.Upsert(ctx, user.ID, subcategoryID)
	if err != nil {
		return nil, err
	}

	progress.CurrentMaterialIndex = 0
	progress.CompletedMaterials = []int{}
	if err := s.progressRepo.Save(ctx, progress); err != nil {
		return nil, err
	}

	return s.Open(ctx, user, subcategoryID, 0)
}

// Continue открывает урок, на котором пользователь остановился
func (s *LearningService) Continue(ctx context.Context, user *model.User, subcategoryID int64) (*Lesson, error) {
	course, err := s.OpenCourse(ctx, user, subcategoryID)
	if err != nil {
		return nil, err
	}
	return s.Open(ctx, user, subcategoryID, course.Progress.CurrentMaterialIndex)
}

// Next открывает урок после index; finished == true, если index был последним
func (s *LearningService) Next(ctx context.Context, user *model.User, subcategoryID int64, index int) (*Lesson, bool, error) {
	_, materials, err := s.course(subcategoryID)
	if err != nil {
		return nil, false, err
	}

	if index+1 >= len(materials) {
		return nil, true, nil
	}

	lesson, err := s.Open(ctx, user, subcategoryID, index+1)
	return lesson, false, err
}

// Prev открывает урок перед index
func (s *LearningService) Prev(ctx context.Context, user *model.User, subcategoryID int64, index int) (*Lesson, error) {
	if index <= 0 {
		return nil, ErrFirstLesson
	}
	return s.Open(ctx, user, subcategoryID, index-1)
}

// Open открывает урок с индексом index и начисляет опыт за первый просмотр
func (s *LearningService) Open(ctx context.Context, user *model.User, subcategoryID int64, index int) (*Lesson, error) {
	sub, materials, err := s.course(subcategoryID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(materials) {
		return nil, ErrMaterialNotFound
	}

	progress, err := s.progressRepo.Upsert(ctx, user.ID, subcategoryID)
	if err != nil {
		return nil, err
	}

	lesson := &Lesson{
		Subcategory: sub,
		Material:    materials[index],
		Index:       index,
		Total:       len(materials),
	}

	progress.CurrentMaterialIndex = index
	firstView := progress.MarkCompleted(index)

	if err := s.progressRepo.Save(ctx, progress); err != nil {
		return nil, err
	}

	if firstView {
		s.reward(ctx, user, lesson, progress.IsFinished(len(materials)))
	}

	return lesson, nil
}

// reward начисляет опыт, обновляет серию дней и проверяет достижения.
// Ошибки здесь не отменяют показ урока.
func (s *LearningService) reward(ctx context.Context, user *model.User, lesson *Lesson, courseFinished bool) {
	oldLevel := user.Level
	user.XP += model.XPPerLesson
	user.Level = model.LevelForXP(user.XP)
	s.updateStreak(user)

	if err := s.userRepo.UpdateLearning(ctx, user); err != nil {
		s.logger.Error("Failed to save xp",
			zap.Int64("user_id", user.ID),
			zap.Error(err))
		return
	}

	lesson.XPGained = model.XPPerLesson
	lesson.LevelUp = user.Level > oldLevel

	if s.achievements == nil {
		return
	}

	all, err := s.progressRepo.ListByUser(ctx, user.ID)
	if err != nil {
		s.logger.Error("Failed to load progress for achievements",
			zap.Int64("user_id", user.ID),
			zap.Error(err))
		return
	}

	lessons := 0
	for _, p := range all {
		lessons += len(p.CompletedMaterials)
	}
	lesson.Unlocked = append(lesson.Unlocked, s.achievements.CheckLessons(ctx, user.ID, lessons)...)

	if courseFinished {
		lesson.Unlocked = append(lesson.Unlocked, s.achievements.CheckCourses(ctx, user.ID, s.finishedCourses(all))...)
	}

	lesson.Unlocked = append(lesson.Unlocked, s.achievements.CheckStreak(ctx, user.ID, user.StreakDays)...)
}

func (s *LearningService) finishedCourses(all []*model.UserProgress) int {
	finished := 0
	for _, p := range all {
		materials, err := s.content.Materials(p.SubcategoryID)
		if err != nil {
			continue
		}
		if p.IsFinished(len(materials)) {
			finished++
		}
	}
	return finished
}

// updateStreak считает дни подряд: вчера -> +1, сегодня -> без изменений, иначе сначала
func (s *LearningService) updateStreak(user *model.User) {
	now := s.now().In(s.location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)

	if user.LastStudyDate != nil {
		last := user.LastStudyDate.In(s.location)
		lastDay := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, s.location)

		switch {
		case lastDay.Equal(today):
			return
		case lastDay.Equal(today.AddDate(0, 0, -1)):
			user.StreakDays++
		default:
			user.StreakDays = 1
		}
	} else {
		user.StreakDays = 1
	}

	user.LastStudyDate = &today
}

// Bookmark сохраняет материал в закладки пользователя
func (s *LearningService) Bookmark(ctx context.Context, user *model.User, materialID int64) (*model.Material, error) {
	material, err := s.content.Material(materialID)
	if err != nil {
		return nil, fmt.Errorf("get material: %w", err)
	}
	if material == nil {
		return nil, ErrMaterialNotFound
	}

	added, err := s.bookmarkRepo.Add(ctx, &model.Bookmark{
		UserID:        user.ID,
		MaterialID:    material.ID,
		SubcategoryID: material.SubcategoryID,
		MaterialName:  material.Name,
	})
	if err != nil {
		return nil, err
	}
	if !added {
		return material, ErrAlreadyBookmarked
	}

	return material, nil
}

// Bookmarks возвращает закладки пользователя
func (s *LearningService) Bookmarks(ctx context.Context, user *model.User) ([]*model.Bookmark, error) {
	return s.bookmarkRepo.ListByUser(ctx, user.ID)
}

// Rate сохраняет оценку курса от 1 до 5
func (s *LearningService) Rate(ctx context.Context, user *model.User, subcategoryID int64, stars int) error {
	if stars < 1 || stars > 5 {
		return ErrInvalidRating
	}
	if _, err := s.progressRepo.Upsert(ctx, user.ID, subcategoryID); err != nil {
		return err
	}
	return s.progressRepo.SetRating(ctx, user.ID, subcategoryID, stars)
}

// Progress возвращает прогресс по всем начатым курсам
func (s *LearningService) Progress(ctx context.Context, user *model.User) ([]CourseProgress, error) {
	all, err := s.progressRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	report := make([]CourseProgress, 0, len(all))
	for _, p := range all {
		row := CourseProgress{
			SubcategoryID: p.SubcategoryID,
			Name:          fmt.Sprintf("ID: %d", p.SubcategoryID),
			Completed:     len(p.CompletedMaterials),
		}

		sub, err := s.content.Subcategory(p.SubcategoryID)
		if err != nil {
			return nil, fmt.Errorf("get subcategory: %w", err)
		}
		if sub != nil {
			row.Name = sub.Name
		}

		materials, err := s.content.Materials(p.SubcategoryID)
		if err != nil {
			return nil, fmt.Errorf("get materials: %w", err)
		}
		row.Total = len(materials)
		row.Percent = p.Percent(row.Total)
		row.Finished = p.IsFinished(row.Total)

		report = append(report, row)
	}

	return report, nil
}
