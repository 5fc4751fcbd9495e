package jsonstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Freeeeeet/mentor_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	return s
}

func strPtr(s string) *string { return &s }

func TestNewCreatesEmptyTables(t *testing.T) {
	s := newTestStore(t)

	for _, name := range []string{categoriesFile, subcategoriesFile, materialsFile, faqFile, tipsFile} {
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		require.NoError(t, err, name)
		assert.Equal(t, "[]", string(data), name)
	}

	categories, err := s.Categories()
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestAddCategoryAssignsSequentialIDs(t *testing.T) {
	s := newTestStore(t)

	first, err := s.AddCategory("Go")
	require.NoError(t, err)
	second, err := s.AddCategory("Python")
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)

	exists, err := s.CategoryExists("gO")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDeleteCategoryCascades(t *testing.T) {
	s := newTestStore(t)

	goCat, err := s.AddCategory("Go")
	require.NoError(t, err)
	pyCat, err := s.AddCategory("Python")
	require.NoError(t, err)

	goSub, err := s.AddSubcategory(goCat.ID, "Основы", strPtr("wiki"), nil, nil)
	require.NoError(t, err)
	pySub, err := s.AddSubcategory(pyCat.ID, "Django", nil, nil, nil)
	require.NoError(t, err)

	_, err = s.AddMaterial(model.Material{SubcategoryID: goSub.ID, OrderNum: 1, Name: "Типы", ContentType: model.ContentText, Content: model.Content{Text: "int"}})
	require.NoError(t, err)
	_, err = s.AddMaterial(model.Material{SubcategoryID: pySub.ID, OrderNum: 1, Name: "Модели", ContentType: model.ContentText, Content: model.Content{Text: "orm"}})
	require.NoError(t, err)

	require.NoError(t, s.DeleteCategory(goCat.ID))

	category, err := s.Category(goCat.ID)
	require.NoError(t, err)
	assert.Nil(t, category)

	subs, err := s.Subcategories(0)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, pySub.ID, subs[0].ID)

	materials, err := s.Materials(0)
	require.NoError(t, err)
	require.Len(t, materials, 1)
	assert.Equal(t, pySub.ID, materials[0].SubcategoryID)
}

func TestDeleteSubcategoryCascades(t *testing.T) {
	s := newTestStore(t)

	cat, err := s.AddCategory("Go")
	require.NoError(t, err)
	sub, err := s.AddSubcategory(cat.ID, "Основы", nil, nil, nil)
	require.NoError(t, err)
	_, err = s.AddMaterial(model.Material{SubcategoryID: sub.ID, OrderNum: 1, Name: "A", ContentType: model.ContentText})
	require.NoError(t, err)

	require.NoError(t, s.DeleteSubcategory(sub.ID))

	materials, err := s.Materials(sub.ID)
	require.NoError(t, err)
	assert.Empty(t, materials)
}

func TestDeleteUnknownReturnsNotFound(t *testing.T) {
	s := newTestStore(t)

	assert.ErrorIs(t, s.DeleteCategory(42), ErrNotFound)
	assert.ErrorIs(t, s.DeleteSubcategory(42), ErrNotFound)
	assert.ErrorIs(t, s.DeleteMaterial(42), ErrNotFound)
	assert.ErrorIs(t, s.DeleteFAQ(42), ErrNotFound)
	assert.ErrorIs(t, s.DeleteTip(0), ErrNotFound)
	assert.ErrorIs(t, s.UpdateCategory(42, "x"), ErrNotFound)
}

func TestAddWithMissingParent(t *testing.T) {
	s := newTestStore(t)

	_, err := s.AddSubcategory(7, "Orphan", nil, nil, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.AddMaterial(model.Material{SubcategoryID: 7, OrderNum: 1, Name: "Orphan"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMaterialsOrderedAndMaxOrder(t *testing.T) {
	s := newTestStore(t)

	cat, err := s.AddCategory("Go")
	require.NoError(t, err)
	sub, err := s.AddSubcategory(cat.ID, "Основы", nil, nil, nil)
	require.NoError(t, err)

	maxOrder, err := s.MaxOrder(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, maxOrder)

	for _, order := range []int{3, 1, 2} {
		_, err := s.AddMaterial(model.Material{SubcategoryID: sub.ID, OrderNum: order, Name: "m", ContentType: model.ContentText})
		require.NoError(t, err)
	}

	_, err = s.AddMaterial(model.Material{SubcategoryID: sub.ID, OrderNum: 2, Name: "dup", ContentType: model.ContentText})
	assert.Error(t, err)

	materials, err := s.Materials(sub.ID)
	require.NoError(t, err)
	require.Len(t, materials, 3)
	assert.Equal(t, 1, materials[0].OrderNum)
	assert.Equal(t, 2, materials[1].OrderNum)
	assert.Equal(t, 3, materials[2].OrderNum)

	maxOrder, err = s.MaxOrder(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, maxOrder)
}

func TestWriteCreatesBackup(t *testing.T) {
	s := newTestStore(t)
	s.now = func() time.Time { return time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC) }

	_, err := s.AddCategory("Go")
	require.NoError(t, err)

	backup := filepath.Join(s.backupDir, "categories.json.20260301_103000.bak")
	data, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	entries, err := os.ReadDir(s.dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}

func TestTips(t *testing.T) {
	s := newTestStore(t)

	assert.Equal(t, DefaultTip, s.RandomTip())

	require.NoError(t, s.AddTip("Повторяйте"))
	assert.Equal(t, "Повторяйте", s.RandomTip())

	require.NoError(t, s.DeleteTip(0))
	tips, err := s.Tips()
	require.NoError(t, err)
	assert.Empty(t, tips)
}

func TestFAQ(t *testing.T) {
	s := newTestStore(t)

	item, err := s.AddFAQ("Как начать?", "Нажмите Курсы")
	require.NoError(t, err)

	faq, err := s.FAQ()
	require.NoError(t, err)
	require.Len(t, faq, 1)
	assert.Equal(t, "Как начать?", faq[0].Question)

	require.NoError(t, s.DeleteFAQ(item.ID))
	faq, err = s.FAQ()
	require.NoError(t, err)
	assert.Empty(t, faq)
}
