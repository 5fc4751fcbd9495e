package jsonstore

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Freeeeeet/mentor_bot/internal/model"
	"go.uber.org/zap"
)

const (
	categoriesFile    = "categories.json"
	subcategoriesFile = "subcategories.json"
	materialsFile     = "materials.json"
	faqFile           = "faq.json"
	tipsFile          = "tips.json"

	backupDirName    = "backups"
	backupTimeLayout = "20060102_150405"

	DefaultTip = "💡 Учитесь каждый день!"
)

var ErrNotFound = errors.New("not found")

// Store хранилище контента в JSON файлах: категории -> подкатегории -> материалы, FAQ и советы.
// Каждая запись заменяет таблицу целиком, предыдущая версия уходит в backups/.
type Store struct {
	dir       string
	backupDir string
	logger    *zap.Logger

	mu  sync.RWMutex
	now func() time.Time
}

// New открывает хранилище в каталоге dir, создавая недостающие файлы
func New(dir string, logger *zap.Logger) (*Store, error) {
	s := &Store{
		dir:       dir,
		backupDir: filepath.Join(dir, backupDirName),
		logger:    logger,
		now:       time.Now,
	}

	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	for _, name := range []string{categoriesFile, subcategoriesFile, materialsFile, faqFile, tipsFile} {
		if err := s.ensureFile(name); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Store) ensureFile(name string) error {
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", name, err)
	}

	if err := writeJSONAtomic(path, "", []interface{}{}); err != nil {
		return err
	}
	s.logger.Info("Content table created", zap.String("file", name))
	return nil
}

func (s *Store) read(name string, v interface{}) error {
	return readJSON(filepath.Join(s.dir, name), v)
}

func (s *Store) write(name string, v interface{}) error {
	backup := filepath.Join(s.backupDir, fmt.Sprintf("%s.%s.bak", name, s.now().Format(backupTimeLayout)))
	if err := writeJSONAtomic(filepath.Join(s.dir, name), backup, v); err != nil {
		s.logger.Error("Failed to write content table", zap.String("file", name), zap.Error(err))
		return err
	}
	return nil
}

// ===== Категории =====

func (s *Store) Categories() ([]model.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories()
}

func (s *Store) categories() ([]model.Category, error) {
	var items []model.Category
	if err := s.read(categoriesFile, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) Category(id int64) (*model.Category, error) {
	items, err := s.Categories()
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, nil
}

// CategoryExists проверяет наличие категории с таким именем без учёта регистра
func (s *Store) CategoryExists(name string) (bool, error) {
	items, err := s.Categories()
	if err != nil {
		return false, err
	}
	for _, c := range items {
		if strings.EqualFold(c.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) AddCategory(name string) (*model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.categories()
	if err != nil {
		return nil, err
	}

	var maxID int64
	for _, c := range items {
		maxID = max(maxID, c.ID)
	}

	category := model.Category{ID: maxID + 1, Name: name}
	items = append(items, category)
	if err := s.write(categoriesFile, items); err != nil {
		return nil, err
	}

	s.logger.Info("Category added", zap.Int64("category_id", category.ID), zap.String("name", name))
	return &category, nil
}

// UpdateCategory переименовывает категорию
func (s *Store) UpdateCategory(id int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.categories()
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == id {
			items[i].Name = name
			return s.write(categoriesFile, items)
		}
	}
	return ErrNotFound
}

// DeleteCategory удаляет категорию вместе с её подкатегориями и их материалами.
// Дочерние таблицы пишутся первыми, чтобы при сбое не осталось ссылок на удалённого родителя.
func (s *Store) DeleteCategory(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	categories, err := s.categories()
	if err != nil {
		return err
	}

	keptCategories := make([]model.Category, 0, len(categories))
	found := false
	for _, c := range categories {
		if c.ID == id {
			found = true
			continue
		}
		keptCategories = append(keptCategories, c)
	}
	if !found {
		return ErrNotFound
	}

	subcats, err := s.subcategories()
	if err != nil {
		return err
	}

	removedSubs := make(map[int64]bool)
	keptSubs := make([]model.Subcategory, 0, len(subcats))
	for _, sub := range subcats {
		if sub.CategoryID == id {
			removedSubs[sub.ID] = true
			continue
		}
		keptSubs = append(keptSubs, sub)
	}

	if err := s.removeMaterials(func(m model.Material) bool { return removedSubs[m.SubcategoryID] }); err != nil {
		return err
	}
	if err := s.write(subcategoriesFile, keptSubs); err != nil {
		return err
	}
	if err := s.write(categoriesFile, keptCategories); err != nil {
		return err
	}

	s.logger.Info("Category deleted",
		zap.Int64("category_id", id),
		zap.Int("subcategories_removed", len(removedSubs)))
	return nil
}

// ===== Подкатегории =====

// Subcategories возвращает подкатегории категории; categoryID == 0 возвращает все
func (s *Store) Subcategories(categoryID int64) ([]model.Subcategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items, err := s.subcategories()
	if err != nil {
		return nil, err
	}
	if categoryID == 0 {
		return items, nil
	}

	filtered := make([]model.Subcategory, 0, len(items))
	for _, sub := range items {
		if sub.CategoryID == categoryID {
			filtered = append(filtered, sub)
		}
	}
	return filtered, nil
}

func (s *Store) subcategories() ([]model.Subcategory, error) {
	var items []model.Subcategory
	if err := s.read(subcategoriesFile, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) Subcategory(id int64) (*model.Subcategory, error) {
	items, err := s.Subcategories(0)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, nil
}

func (s *Store) AddSubcategory(categoryID int64, name string, wikiText, pros, cons *string) (*model.Subcategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	categories, err := s.categories()
	if err != nil {
		return nil, err
	}
	parentFound := false
	for _, c := range categories {
		if c.ID == categoryID {
			parentFound = true
			break
		}
	}
	if !parentFound {
		return nil, ErrNotFound
	}

	items, err := s.subcategories()
	if err != nil {
		return nil, err
	}

	var maxID int64
	for _, sub := range items {
		maxID = max(maxID, sub.ID)
	}

	sub := model.Subcategory{
		ID:         maxID + 1,
		CategoryID: categoryID,
		Name:       name,
		WikiText:   wikiText,
		Pros:       pros,
		Cons:       cons,
	}
	items = append(items, sub)
	if err := s.write(subcategoriesFile, items); err != nil {
		return nil, err
	}

	s.logger.Info("Subcategory added",
		zap.Int64("subcategory_id", sub.ID),
		zap.Int64("category_id", categoryID),
		zap.String("name", name))
	return &sub, nil
}

// DeleteSubcategory удаляет подкатегорию и все её материалы
func (s *Store) DeleteSubcategory(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.subcategories()
	if err != nil {
		return err
	}

	kept := make([]model.Subcategory, 0, len(items))
	found := false
	for _, sub := range items {
		if sub.ID == id {
			found = true
			continue
		}
		kept = append(kept, sub)
	}
	if !found {
		return ErrNotFound
	}

	if err := s.removeMaterials(func(m model.Material) bool { return m.SubcategoryID == id }); err != nil {
		return err
	}
	if err := s.write(subcategoriesFile, kept); err != nil {
		return err
	}

	s.logger.Info("Subcategory deleted", zap.Int64("subcategory_id", id))
	return nil
}

// ===== Материалы =====

// Materials возвращает материалы подкатегории по возрастанию order_num; subcategoryID == 0 возвращает все
func (s *Store) Materials(subcategoryID int64) ([]model.Material, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items, err := s.materials()
	if err != nil {
		return nil, err
	}

	filtered := make([]model.Material, 0, len(items))
	for _, m := range items {
		if subcategoryID == 0 || m.SubcategoryID == subcategoryID {
			filtered = append(filtered, m)
		}
	}
	sortMaterials(filtered)
	return filtered, nil
}

func (s *Store) materials() ([]model.Material, error) {
	var items []model.Material
	if err := s.read(materialsFile, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) Material(id int64) (*model.Material, error) {
	items, err := s.Materials(0)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, nil
}

// MaxOrder возвращает наибольший order_num в подкатегории, 0 если материалов нет
func (s *Store) MaxOrder(subcategoryID int64) (int, error) {
	items, err := s.Materials(subcategoryID)
	if err != nil {
		return 0, err
	}
	maxOrder := 0
	for _, m := range items {
		maxOrder = max(maxOrder, m.OrderNum)
	}
	return maxOrder, nil
}

// AddMaterial добавляет материал; order_num должен быть уникален внутри подкатегории
func (s *Store) AddMaterial(m model.Material) (*model.Material, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subcats, err := s.subcategories()
	if err != nil {
		return nil, err
	}
	parentFound := false
	for _, sub := range subcats {
		if sub.ID == m.SubcategoryID {
			parentFound = true
			break
		}
	}
	if !parentFound {
		return nil, ErrNotFound
	}

	items, err := s.materials()
	if err != nil {
		return nil, err
	}

	var maxID int64
	for _, existing := range items {
		maxID = max(maxID, existing.ID)
		if existing.SubcategoryID == m.SubcategoryID && existing.OrderNum == m.OrderNum {
			return nil, fmt.Errorf("order %d already used in subcategory %d", m.OrderNum, m.SubcategoryID)
		}
	}

	m.ID = maxID + 1
	items = append(items, m)
	sortMaterials(items)

	if err := s.write(materialsFile, items); err != nil {
		return nil, err
	}

	s.logger.Info("Material added",
		zap.Int64("material_id", m.ID),
		zap.Int64("subcategory_id", m.SubcategoryID),
		zap.Int("order_num", m.OrderNum))
	return &m, nil
}

func (s *Store) DeleteMaterial(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.materials()
	if err != nil {
		return err
	}

	found := false
	for _, m := range items {
		if m.ID == id {
			found = true
			break
		}
	}
	if !found {
		return ErrNotFound
	}

	if err := s.removeMaterials(func(m model.Material) bool { return m.ID == id }); err != nil {
		return err
	}

	s.logger.Info("Material deleted", zap.Int64("material_id", id))
	return nil
}

// removeMaterials переписывает materials.json без материалов, для которых drop вернул true.
// Вызывать под s.mu.
func (s *Store) removeMaterials(drop func(model.Material) bool) error {
	items, err := s.materials()
	if err != nil {
		return err
	}

	kept := make([]model.Material, 0, len(items))
	for _, m := range items {
		if !drop(m) {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(items) {
		return nil
	}
	return s.write(materialsFile, kept)
}

func sortMaterials(items []model.Material) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].OrderNum == items[j].OrderNum {
			return items[i].ID < items[j].ID
		}
		return items[i].OrderNum < items[j].OrderNum
	})
}

// ===== FAQ =====

func (s *Store) FAQ() ([]model.FAQ, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.faq()
}

func (s *Store) faq() ([]model.FAQ, error) {
	var items []model.FAQ
	if err := s.read(faqFile, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) AddFAQ(question, answer string) (*model.FAQ, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.faq()
	if err != nil {
		return nil, err
	}

	var maxID int64
	for _, f := range items {
		maxID = max(maxID, f.ID)
	}

	item := model.FAQ{ID: maxID + 1, Question: question, Answer: answer}
	items = append(items, item)
	if err := s.write(faqFile, items); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) DeleteFAQ(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.faq()
	if err != nil {
		return err
	}

	kept := make([]model.FAQ, 0, len(items))
	for _, f := range items {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	if len(kept) == len(items) {
		return ErrNotFound
	}
	return s.write(faqFile, kept)
}

// ===== Советы =====

func (s *Store) Tips() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tips()
}

func (s *Store) tips() ([]string, error) {
	var items []string
	if err := s.read(tipsFile, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// RandomTip возвращает случайный совет или DefaultTip, если советов нет
func (s *Store) RandomTip() string {
	tips, err := s.Tips()
	if err != nil {
		s.logger.Warn("Failed to read tips", zap.Error(err))
		return DefaultTip
	}
	if len(tips) == 0 {
		return DefaultTip
	}
	return tips[rand.IntN(len(tips))]
}

func (s *Store) AddTip(tip string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.tips()
	if err != nil {
		return err
	}
	return s.write(tipsFile, append(items, tip))
}

func (s *Store) DeleteTip(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.tips()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(items) {
		return ErrNotFound
	}
	items = append(items[:index], items[index+1:]...)
	return s.write(tipsFile, items)
}
