package repositories_test

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/vanotis720/SampleTaskAPI/internal/database"
	"github.com/vanotis720/SampleTaskAPI/internal/models"
	"github.com/vanotis720/SampleTaskAPI/internal/repositories"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Name: "Test User", Email: email, Password: "hashed"}
	require.NoError(t, repositories.NewUserRepository(db).Create(user))
	return user
}

func strPtr(s string) *string { return &s }

func TestUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewUserRepository(db)

	user := createUser(t, db, "jane@example.com")
	assert.NotEqual(t, uuid.Nil, user.ID)

	found, err := repo.FindByEmail("jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	found, err = repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", found.Email)

	_, err = repo.FindByEmail("nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	dup := &models.User{Name: "Other", Email: "jane@example.com", Password: "x"}
	assert.Error(t, repo.Create(dup), "email must be unique")
}

func TestTokenRepository(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "tok@example.com")
	repo := repositories.NewTokenRepository(db)

	first := &models.Token{UserID: user.ID, Name: "auth_token"}
	second := &models.Token{UserID: user.ID, Name: "auth_token"}
	require.NoError(t, repo.Create(first))
	require.NoError(t, repo.Create(second))

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.Touch(first.ID, now))

	found, err := repo.FindByID(first.ID)
	require.NoError(t, err)
	require.NotNil(t, found.LastUsedAt)
	assert.True(t, found.LastUsedAt.Equal(now))

	require.NoError(t, repo.Delete(first.ID))
	_, err = repo.FindByID(first.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.FindByID(second.ID)
	assert.NoError(t, err, "other tokens survive")

	assert.NoError(t, repo.Delete(first.ID), "deleting twice is harmless")
}

func TestCategoryRepository_ListOrderAndScope(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")
	repo := repositories.NewCategoryRepository(db)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"Work", "Home", "Errands"} {
		require.NoError(t, repo.Create(&models.Category{
			UserID:    alice.ID,
			Name:      name,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, repo.Create(&models.Category{UserID: bob.ID, Name: "Bob's"}))

	categories, err := repo.ListByUser(alice.ID)
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, "Work", categories[0].Name)
	assert.Equal(t, "Errands", categories[2].Name)

	empty, err := repo.ListByUser(uuid.Must(uuid.NewV4()))
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestCategoryRepository_UpdatePartial(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "cat@example.com")
	repo := repositories.NewCategoryRepository(db)

	category := &models.Category{UserID: user.ID, Name: "Work", Color: strPtr("#FF0000")}
	require.NoError(t, repo.Create(category))

	require.NoError(t, repo.Update(category, map[string]interface{}{"name": "Office"}))
	assert.Equal(t, "Office", category.Name)
	require.NotNil(t, category.Color)
	assert.Equal(t, "#FF0000", *category.Color)

	require.NoError(t, repo.Update(category, map[string]interface{}{"color": nil}))
	assert.Nil(t, category.Color)
}

func TestCategoryRepository_DeleteDetachesTasks(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "detach@example.com")
	categories := repositories.NewCategoryRepository(db)
	tasks := repositories.NewTaskRepository(db)

	category := &models.Category{UserID: user.ID, Name: "Work"}
	require.NoError(t, categories.Create(category))

	task := &models.Task{UserID: user.ID, Title: "Write report", CategoryID: &category.ID}
	require.NoError(t, tasks.Create(task))

	require.NoError(t, categories.Delete(category))

	_, err := categories.FindByID(category.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	reloaded, err := tasks.FindByID(task.ID)
	require.NoError(t, err, "task must survive category deletion")
	assert.Nil(t, reloaded.CategoryID)
}

func TestTaskRepository_PaginateFilters(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")
	categories := repositories.NewCategoryRepository(db)
	repo := repositories.NewTaskRepository(db)

	work := &models.Category{UserID: alice.ID, Name: "Work"}
	require.NoError(t, categories.Create(work))

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	fixtures := []models.Task{
		{Title: "Write report", Status: strPtr("pending"), Priority: strPtr("high"), CategoryID: &work.ID},
		{Title: "Review report", Status: strPtr("completed"), Priority: strPtr("high"), CategoryID: &work.ID},
		{Title: "Buy milk", Status: strPtr("pending"), Priority: strPtr("low")},
		{Title: "100% done_ish", Status: strPtr("pending"), Priority: strPtr("medium")},
	}
	for i := range fixtures {
		fixtures[i].UserID = alice.ID
		fixtures[i].CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(&fixtures[i]))
	}
	require.NoError(t, repo.Create(&models.Task{UserID: bob.ID, Title: "Bob report", Status: strPtr("pending")}))

	tests := []struct {
		name   string
		filter repositories.TaskFilter
		titles []string
	}{
		{"owner only", repositories.TaskFilter{UserID: alice.ID}, []string{"Write report", "Review report", "Buy milk", "100% done_ish"}},
		{"status", repositories.TaskFilter{UserID: alice.ID, Status: strPtr("completed")}, []string{"Review report"}},
		{"status and priority", repositories.TaskFilter{UserID: alice.ID, Status: strPtr("pending"), Priority: strPtr("high")}, []string{"Write report"}},
		{"category", repositories.TaskFilter{UserID: alice.ID, CategoryID: strPtr(work.ID.String())}, []string{"Write report", "Review report"}},
		{"empty category means uncategorized", repositories.TaskFilter{UserID: alice.ID, CategoryID: strPtr("")}, []string{"Buy milk", "100% done_ish"}},
		{"search", repositories.TaskFilter{UserID: alice.ID, Search: strPtr("report")}, []string{"Write report", "Review report"}},
		{"search and status", repositories.TaskFilter{UserID: alice.ID, Search: strPtr("report"), Status: strPtr("pending")}, []string{"Write report"}},
		{"percent is literal", repositories.TaskFilter{UserID: alice.ID, Search: strPtr("%")}, []string{"100% done_ish"}},
		{"underscore is literal", repositories.TaskFilter{UserID: alice.ID, Search: strPtr("_")}, []string{"100% done_ish"}},
		{"unknown category", repositories.TaskFilter{UserID: alice.ID, CategoryID: strPtr(uuid.Nil.String())}, nil},
		{"malformed category", repositories.TaskFilter{UserID: alice.ID, CategoryID: strPtr("abc")}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, total, err := repo.Paginate(tt.filter, 1, 10)
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.titles)), total)

			var titles []string
			for _, task := range tasks {
				titles = append(titles, task.Title)
			}
			assert.Equal(t, tt.titles, titles)
		})
	}
}

func TestTaskRepository_PaginatePages(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "pages@example.com")
	repo := repositories.NewTaskRepository(db)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		require.NoError(t, repo.Create(&models.Task{
			UserID:    user.ID,
			Title:     "Task",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	filter := repositories.TaskFilter{UserID: user.ID}

	page, total, err := repo.Paginate(filter, 3, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	assert.Len(t, page, 5)

	page, total, err = repo.Paginate(filter, 4, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	assert.Empty(t, page)

	page, total, err = repo.Paginate(filter, math.MaxInt, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	assert.Empty(t, page)
}

func TestTaskRepository_PreloadsCategory(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "preload@example.com")
	categories := repositories.NewCategoryRepository(db)
	repo := repositories.NewTaskRepository(db)

	work := &models.Category{UserID: user.ID, Name: "Work"}
	require.NoError(t, categories.Create(work))

	task := &models.Task{UserID: user.ID, Title: "Write", CategoryID: &work.ID}
	require.NoError(t, repo.Create(task))
	require.NoError(t, repo.Create(&models.Task{UserID: user.ID, Title: "Loose"}))

	tasks, _, err := repo.Paginate(repositories.TaskFilter{UserID: user.ID}, 1, 10)
	require.NoError(t, err)
	for _, item := range tasks {
		if item.CategoryID != nil {
			require.NotNil(t, item.Category)
			assert.Equal(t, "Work", item.Category.Name)
		} else {
			assert.Nil(t, item.Category)
		}
	}

	found, err := repo.FindByID(task.ID)
	require.NoError(t, err)
	require.NoError(t, repo.LoadCategory(found))
	require.NotNil(t, found.Category)
	assert.Equal(t, work.ID, found.Category.ID)
}

func TestTaskRepository_UpdateAndDelete(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "update@example.com")
	repo := repositories.NewTaskRepository(db)

	due := models.NewDate(time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC))
	task := &models.Task{
		UserID:      user.ID,
		Title:       "Original",
		Description: strPtr("details"),
		DueDate:     &due,
		Status:      strPtr("pending"),
	}
	require.NoError(t, repo.Create(task))

	require.NoError(t, repo.Update(task, map[string]interface{}{
		"status":      "completed",
		"description": nil,
	}))
	assert.Equal(t, "Original", task.Title)
	assert.Nil(t, task.Description)
	require.NotNil(t, task.Status)
	assert.Equal(t, "completed", *task.Status)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, "2025-03-15", task.DueDate.String())

	require.NoError(t, repo.Delete(task))
	_, err := repo.FindByID(task.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
