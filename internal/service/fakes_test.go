package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/mentor_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// ===== Пользователи =====

type fakeUserRepo struct {
	mu              sync.Mutex
	users           map[int64]*model.User // telegramID -> user
	nextID          int64
	subscribedCalls int
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[int64]*model.User)}
	for _, u := range users {
		r.nextID++
		if u.ID == 0 {
			u.ID = r.nextID
		}
		if u.Level == 0 {
			u.Level = 1
		}
		r.users[u.TelegramID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.TelegramID]; ok {
		return errors.New("duplicate telegram_id")
	}
	r.nextID++
	user.ID = r.nextID
	user.RegisteredAt = time.Now()
	user.LastActive = user.RegisteredAt
	r.users[user.TelegramID] = user
	return nil
}

func (r *fakeUserRepo) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[telegramID]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdateSubscribed(ctx context.Context, telegramID int64, subscribed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscribedCalls++
	if u, ok := r.users[telegramID]; ok {
		u.IsSubscribed = subscribed
	}
	return nil
}

func (r *fakeUserRepo) TouchActivity(ctx context.Context, telegramID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[telegramID]; ok {
		u.LastActive = time.Now()
	}
	return nil
}

func (r *fakeUserRepo) UpdateLearning(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[user.TelegramID]
	if !ok {
		return errors.New("user not found")
	}
	u.XP, u.Level, u.StreakDays, u.LastStudyDate = user.XP, user.Level, user.StreakDays, user.LastStudyDate
	return nil
}

func (r *fakeUserRepo) sorted() []*model.User {
	users := make([]*model.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		users = append(users, &cp)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

func (r *fakeUserRepo) ListAll(ctx context.Context) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(), nil
}

func (r *fakeUserRepo) TelegramIDs(ctx context.Context) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []int64
	for _, u := range r.sorted() {
		ids = append(ids, u.TelegramID)
	}
	return ids, nil
}

func (r *fakeUserRepo) Top(ctx context.Context, limit int) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := r.sorted()
	sort.SliceStable(users, func(i, j int) bool { return users[i].XP > users[j].XP })
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (r *fakeUserRepo) ActiveSince(ctx context.Context, since time.Time) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.User
	for _, u := range r.sorted() {
		if !u.LastActive.Before(since) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) InactiveSince(ctx context.Context, before time.Time) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.User
	for _, u := range r.sorted() {
		if u.LastActive.Before(before) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) CountAll(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users), nil
}

func (r *fakeUserRepo) CountActiveSince(ctx context.Context, since time.Time) (int, error) {
	users, _ := r.ActiveSince(ctx, since)
	return len(users), nil
}

func (r *fakeUserRepo) AverageXP(ctx context.Context) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.users) == 0 {
		return 0, nil
	}
	total := 0
	for _, u := range r.users {
		total += u.XP
	}
	return float64(total) / float64(len(r.users)), nil
}

// ===== Спонсоры =====

type fakeSponsorRepo struct {
	sponsors []*model.Sponsor
}

func (r *fakeSponsorRepo) Create(ctx context.Context, s *model.Sponsor) error {
	s.ID = int64(len(r.sponsors) + 1)
	s.IsActive = true
	r.sponsors = append(r.sponsors, s)
	return nil
}

func (r *fakeSponsorRepo) ListActive(ctx context.Context) ([]*model.Sponsor, error) {
	var out []*model.Sponsor
	for _, s := range r.sponsors {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSponsorRepo) Deactivate(ctx context.Context, id int64) (bool, error) {
	for _, s := range r.sponsors {
		if s.ID == id && s.IsActive {
			s.IsActive = false
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSponsorRepo) CountActive(ctx context.Context) (int, error) {
	active, _ := r.ListActive(ctx)
	return len(active), nil
}

// ===== Рассылки =====

type fakeBroadcastRepo struct {
	records []*model.Broadcast
	tallies int
}

func (r *fakeBroadcastRepo) Create(ctx context.Context, b *model.Broadcast) error {
	b.ID = int64(len(r.records) + 1)
	b.SentAt = time.Now()
	cp := *b
	r.records = append(r.records, &cp)
	return nil
}

func (r *fakeBroadcastRepo) UpdateTally(ctx context.Context, id int64, sent, failed int) error {
	r.tallies++
	for _, b := range r.records {
		if b.ID == id {
			b.Sent, b.Failed = sent, failed
			return nil
		}
	}
	return errors.New("broadcast not found")
}

func (r *fakeBroadcastRepo) CountAll(ctx context.Context) (int, error) {
	return len(r.records), nil
}

// ===== Прогресс =====

type fakeProgressRepo struct {
	mu     sync.Mutex
	items  []*model.UserProgress
	nextID int64
}

func (r *fakeProgressRepo) find(userID, subID int64) *model.UserProgress {
	for _, p := range r.items {
		if p.UserID == userID && p.SubcategoryID == subID {
			return p
		}
	}
	return nil
}

func cloneProgress(p *model.UserProgress) *model.UserProgress {
	cp := *p
	cp.CompletedMaterials = append([]int(nil), p.CompletedMaterials...)
	return &cp
}

func (r *fakeProgressRepo) Get(ctx context.Context, userID, subID int64) (*model.UserProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p := r.find(userID, subID); p != nil {
		return cloneProgress(p), nil
	}
	return nil, nil
}

func (r *fakeProgressRepo) Upsert(ctx context.Context, userID, subID int64) (*model.UserProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.find(userID, subID)
	if p == nil {
		r.nextID++
		p = &model.UserProgress{ID: r.nextID, UserID: userID, SubcategoryID: subID, CompletedMaterials: []int{}}
		r.items = append(r.items, p)
	}
	p.LastAccessed = time.Now()
	return cloneProgress(p), nil
}

func (r *fakeProgressRepo) Save(ctx context.Context, p *model.UserProgress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.items {
		if existing.ID == p.ID {
			saved := cloneProgress(p)
			saved.LastAccessed = time.Now()
			r.items[i] = saved
			return nil
		}
	}
	return errors.New("progress not found")
}

func (r *fakeProgressRepo) SetRating(ctx context.Context, userID, subID int64, rating int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.find(userID, subID)
	if p == nil {
		return errors.New("progress not found")
	}
	p.Rating = &rating
	return nil
}

func (r *fakeProgressRepo) ListByUser(ctx context.Context, userID int64) ([]*model.UserProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.UserProgress
	for _, p := range r.items {
		if p.UserID == userID {
			out = append(out, cloneProgress(p))
		}
	}
	return out, nil
}

func (r *fakeProgressRepo) ListByUserSince(ctx context.Context, userID int64, since time.Time) ([]*model.UserProgress, error) {
	all, _ := r.ListByUser(ctx, userID)
	var out []*model.UserProgress
	for _, p := range all {
		if !p.LastAccessed.Before(since) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProgressRepo) LatestPerUser(ctx context.Context) ([]*model.UserProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	latest := make(map[int64]*model.UserProgress)
	for _, p := range r.items {
		if cur, ok := latest[p.UserID]; !ok || p.LastAccessed.After(cur.LastAccessed) {
			latest[p.UserID] = p
		}
	}
	var out []*model.UserProgress
	for _, p := range latest {
		out = append(out, cloneProgress(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *fakeProgressRepo) CountByUser(ctx context.Context, userID int64) (int, error) {
	all, _ := r.ListByUser(ctx, userID)
	return len(all), nil
}

func (r *fakeProgressRepo) CountLearners(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make(map[int64]bool)
	for _, p := range r.items {
		users[p.UserID] = true
	}
	return len(users), nil
}

// ===== Закладки =====

type fakeBookmarkRepo struct {
	items []*model.Bookmark
}

func (r *fakeBookmarkRepo) Add(ctx context.Context, b *model.Bookmark) (bool, error) {
	for _, existing := range r.items {
		if existing.UserID == b.UserID && existing.MaterialID == b.MaterialID {
			return false, nil
		}
	}
	b.ID = int64(len(r.items) + 1)
	b.AddedAt = time.Now()
	r.items = append(r.items, b)
	return true, nil
}

func (r *fakeBookmarkRepo) ListByUser(ctx context.Context, userID int64) ([]*model.Bookmark, error) {
	var out []*model.Bookmark
	for _, b := range r.items {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookmarkRepo) CountAll(ctx context.Context) (int, error) {
	return len(r.items), nil
}

// ===== Достижения =====

type fakeAchievementRepo struct {
	achievements []*model.Achievement
	grants       map[[2]int64]bool
}

func newFakeAchievementRepo() *fakeAchievementRepo {
	return &fakeAchievementRepo{grants: make(map[[2]int64]bool)}
}

func (r *fakeAchievementRepo) Seed(ctx context.Context, catalog []model.Achievement) (int, error) {
	inserted := 0
	for _, a := range catalog {
		exists := false
		for _, existing := range r.achievements {
			if existing.Code == a.Code {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		a := a
		a.ID = int64(len(r.achievements) + 1)
		r.achievements = append(r.achievements, &a)
		inserted++
	}
	return inserted, nil
}

func (r *fakeAchievementRepo) GetByCode(ctx context.Context, code string) (*model.Achievement, error) {
	for _, a := range r.achievements {
		if a.Code == code {
			return a, nil
		}
	}
	return nil, nil
}

func (r *fakeAchievementRepo) Grant(ctx context.Context, userID, achievementID int64) (bool, error) {
	key := [2]int64{userID, achievementID}
	if r.grants[key] {
		return false, nil
	}
	r.grants[key] = true
	return true, nil
}

func (r *fakeAchievementRepo) ListByUser(ctx context.Context, userID int64) ([]*model.Achievement, error) {
	var out []*model.Achievement
	for _, a := range r.achievements {
		if r.grants[[2]int64{userID, a.ID}] {
			out = append(out, a)
		}
	}
	return out, nil
}

// ===== Контент =====

type fakeContent struct {
	categories    []model.Category
	subcategories []model.Subcategory
	materials     []model.Material
	tip           string
}

func (c *fakeContent) Categories() ([]model.Category, error) { return c.categories, nil }

func (c *fakeContent) Subcategories(categoryID int64) ([]model.Subcategory, error) {
	var out []model.Subcategory
	for _, s := range c.subcategories {
		if categoryID == 0 || s.CategoryID == categoryID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (c *fakeContent) Subcategory(id int64) (*model.Subcategory, error) {
	for i := range c.subcategories {
		if c.subcategories[i].ID == id {
			return &c.subcategories[i], nil
		}
	}
	return nil, nil
}

func (c *fakeContent) Materials(subID int64) ([]model.Material, error) {
	var out []model.Material
	for _, m := range c.materials {
		if subID == 0 || m.SubcategoryID == subID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderNum < out[j].OrderNum })
	return out, nil
}

func (c *fakeContent) Material(id int64) (*model.Material, error) {
	for i := range c.materials {
		if c.materials[i].ID == id {
			return &c.materials[i], nil
		}
	}
	return nil, nil
}

func (c *fakeContent) RandomTip() string {
	if c.tip == "" {
		return "💡 Учитесь каждый день!"
	}
	return c.tip
}

// courseContent курс 10 с уроками order_num 0..n-1
func courseContent(n int) *fakeContent {
	c := &fakeContent{
		categories:    []model.Category{{ID: 1, Name: "Go"}},
		subcategories: []model.Subcategory{{ID: 10, CategoryID: 1, Name: "Основы"}},
	}
	for i := 0; i < n; i++ {
		c.materials = append(c.materials, model.Material{
			ID:            int64(100 + i),
			SubcategoryID: 10,
			OrderNum:      i,
			Name:          "Урок",
			ContentType:   model.ContentText,
			Content:       model.Content{Text: "текст"},
		})
	}
	return c
}

// ===== Транспорт =====

type sentMessage struct {
	kind   string
	chatID interface{}
	text   string
	markup models.ReplyMarkup
}

type fakeSender struct {
	mu     sync.Mutex
	sent   []sentMessage
	failOn map[int64]bool
}

func (s *fakeSender) record(kind string, chatID interface{}, text string, markup models.ReplyMarkup) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := chatID.(int64); ok && s.failOn[id] {
		return nil, errors.New("Forbidden: bot was blocked by the user")
	}
	s.sent = append(s.sent, sentMessage{kind: kind, chatID: chatID, text: text, markup: markup})
	return &models.Message{ID: len(s.sent)}, nil
}

func (s *fakeSender) SendMessage(ctx context.Context, p *bot.SendMessageParams) (*models.Message, error) {
	return s.record("message", p.ChatID, p.Text, p.ReplyMarkup)
}

func (s *fakeSender) SendPhoto(ctx context.Context, p *bot.SendPhotoParams) (*models.Message, error) {
	return s.record("photo", p.ChatID, p.Caption, p.ReplyMarkup)
}

func (s *fakeSender) SendVideo(ctx context.Context, p *bot.SendVideoParams) (*models.Message, error) {
	return s.record("video", p.ChatID, p.Caption, p.ReplyMarkup)
}

func (s *fakeSender) SendDocument(ctx context.Context, p *bot.SendDocumentParams) (*models.Message, error) {
	return s.record("document", p.ChatID, p.Caption, p.ReplyMarkup)
}

type fakeChecker struct {
	// channel -> statuses by user; отсутствие канала означает ошибку запроса
	members map[string]map[int64]models.ChatMemberType
	calls   int
}

func (c *fakeChecker) GetChatMember(ctx context.Context, p *bot.GetChatMemberParams) (*models.ChatMember, error) {
	c.calls++
	channel, _ := p.ChatID.(string)
	statuses, ok := c.members[channel]
	if !ok {
		return nil, errors.New("Bad Request: chat not found")
	}
	status, ok := statuses[p.UserID]
	if !ok {
		status = models.ChatMemberTypeLeft
	}
	return &models.ChatMember{Type: status}, nil
}
