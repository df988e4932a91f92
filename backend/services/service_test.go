package services

import (
	"testing"

	"pathtracker/backend/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.LearningPath{},
		&models.Module{},
		&models.LearningItem{},
		&models.Note{},
	))
	return db
}

func testIdentity(externalID string) *models.Identity {
	return &models.Identity{
		ExternalID: externalID,
		Email:      externalID + "@example.com",
		FirstName:  "Test",
		LastName:   "User",
	}
}

func ensureTestUser(t *testing.T, db *gorm.DB, externalID string) *models.User {
	t.Helper()
	user, err := NewUserService(db).Ensure(testIdentity(externalID))
	require.NoError(t, err)
	return user
}

func seedPath(t *testing.T, db *gorm.DB, owner *models.User, title string) *models.LearningPath {
	t.Helper()
	path := &models.LearningPath{OwnerExternalID: owner.ExternalID, Title: title}
	require.NoError(t, db.Create(path).Error)
	return path
}

func seedModule(t *testing.T, db *gorm.DB, path *models.LearningPath, title string, position int) *models.Module {
	t.Helper()
	module := &models.Module{LearningPathID: path.ID, Title: title, Position: position}
	require.NoError(t, db.Create(module).Error)
	return module
}

func seedItem(t *testing.T, db *gorm.DB, module *models.Module, title string, position int) *models.LearningItem {
	t.Helper()
	item := &models.LearningItem{ModuleID: module.ID, Title: title, Type: models.TypeArticle, Position: position}
	require.NoError(t, db.Create(item).Error)
	return item
}

func reloadItem(t *testing.T, db *gorm.DB, id string) *models.LearningItem {
	t.Helper()
	var item models.LearningItem
	require.NoError(t, db.First(&item, "id = ?", id).Error)
	return &item
}

func reloadModule(t *testing.T, db *gorm.DB, id string) *models.Module {
	t.Helper()
	var module models.Module
	require.NoError(t, db.First(&module, "id = ?", id).Error)
	return &module
}

func reloadPath(t *testing.T, db *gorm.DB, id string) *models.LearningPath {
	t.Helper()
	var path models.LearningPath
	require.NoError(t, db.First(&path, "id = ?", id).Error)
	return &path
}
