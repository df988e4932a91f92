package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"pathtracker/backend/config"
	"pathtracker/backend/models"
	"pathtracker/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) (*fiber.App, *config.Config) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, utils.Migrate(db))

	cfg := &config.Config{JWTSecret: "testsecret", ServerPort: "8080"}
	app := fiber.New()
	SetupRoutes(app, db, cfg)
	return app, cfg
}

func tokenFor(t *testing.T, cfg *config.Config, externalID string) string {
	t.Helper()
	token, err := utils.GenerateToken(models.Identity{
		ExternalID: externalID,
		Email:      externalID + "@example.com",
		FirstName:  "Test",
		LastName:   "User",
	}, cfg)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, app *fiber.App, method, url, token string, body interface{}) (*fiber.Map, int) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	var result fiber.Map
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return &result, resp.StatusCode
}

func dataField(t *testing.T, result *fiber.Map, key string) interface{} {
	t.Helper()
	data, ok := (*result)["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %v", *result)
	return data[key]
}

func TestRoutesRequireToken(t *testing.T) {
	app, _ := newTestApp(t)

	for _, route := range []struct{ method, url string }{
		{"GET", "/api/learning-paths"},
		{"POST", "/api/learning-paths"},
		{"GET", "/api/learning-paths/analysis"},
		{"PATCH", "/api/learning-items/some-id"},
		{"POST", "/api/learning-records"},
		{"GET", "/api/dashboard/progress"},
	} {
		_, status := doJSON(t, app, route.method, route.url, "", nil)
		assert.Equal(t, fiber.StatusUnauthorized, status, "%s %s", route.method, route.url)
	}
}

func TestCreateToggleAnalyzeFlow(t *testing.T) {
	app, cfg := newTestApp(t)
	token := tokenFor(t, cfg, "user_flow")

	// Create a path with one module and two items.
	result, status := doJSON(t, app, "POST", "/api/learning-paths", token, fiber.Map{"title": "Go from scratch"})
	require.Equal(t, fiber.StatusCreated, status)
	pathID := dataField(t, result, "id").(string)

	result, status = doJSON(t, app, "POST", fmt.Sprintf("/api/learning-paths/%s/modules", pathID), token,
		fiber.Map{"title": "Basics", "order": 1})
	require.Equal(t, fiber.StatusCreated, status)
	moduleID := dataField(t, result, "id").(string)

	itemsURL := fmt.Sprintf("/api/learning-paths/%s/modules/%s/items", pathID, moduleID)
	result, status = doJSON(t, app, "POST", itemsURL, token, fiber.Map{"title": "Tour", "type": "VIDEO", "order": 1})
	require.Equal(t, fiber.StatusCreated, status)
	item1 := dataField(t, result, "id").(string)

	result, status = doJSON(t, app, "POST", itemsURL, token, fiber.Map{"title": "Slides", "type": "ARTICLE", "order": 2})
	require.Equal(t, fiber.StatusCreated, status)
	item2 := dataField(t, result, "id").(string)

	// Record 100% on item 1 through a note.
	_, status = doJSON(t, app, "POST", "/api/learning-records", token,
		fiber.Map{"learningItemId": item1, "content": "done with the tour", "progress": 100})
	require.Equal(t, fiber.StatusOK, status)

	result, status = doJSON(t, app, "GET", "/api/learning-paths/"+pathID, token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.InDelta(t, 50.0, dataField(t, result, "progress").(float64), 1e-9)

	// Toggle item 2 complete through the checkbox path.
	result, status = doJSON(t, app, "PATCH", "/api/learning-items/"+item2, token, fiber.Map{"isComplete": true})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, dataField(t, result, "isComplete"))

	result, status = doJSON(t, app, "GET", "/api/learning-paths/"+pathID, token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.InDelta(t, 100.0, dataField(t, result, "progress").(float64), 1e-9)

	// The analysis recounts completion flags: 2 of 2 complete.
	result, status = doJSON(t, app, "GET", "/api/learning-paths/analysis", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 2, dataField(t, result, "completedItems"))
	best := dataField(t, result, "bestLearningPaths").([]interface{})
	require.Len(t, best, 1)

	// Dashboard overview reflects the stored aggregate.
	result, status = doJSON(t, app, "GET", "/api/dashboard/progress", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.InDelta(t, 100.0, dataField(t, result, "averageProgress").(float64), 1e-9)
}

func TestForeignPathIsMasked(t *testing.T) {
	app, cfg := newTestApp(t)
	ownerToken := tokenFor(t, cfg, "user_owner")
	intruderToken := tokenFor(t, cfg, "user_intruder")

	result, status := doJSON(t, app, "POST", "/api/learning-paths", ownerToken, fiber.Map{"title": "Private"})
	require.Equal(t, fiber.StatusCreated, status)
	pathID := dataField(t, result, "id").(string)

	_, status = doJSON(t, app, "GET", "/api/learning-paths/"+pathID, intruderToken, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	_, status = doJSON(t, app, "DELETE", "/api/learning-paths/"+pathID, intruderToken, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	// The owner still sees it.
	_, status = doJSON(t, app, "GET", "/api/learning-paths/"+pathID, ownerToken, nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestRecordAcceptsDateOnlyForm(t *testing.T) {
	app, cfg := newTestApp(t)
	token := tokenFor(t, cfg, "user_dateonly")

	result, status := doJSON(t, app, "POST", "/api/learning-paths", token, fiber.Map{"title": "Go"})
	require.Equal(t, fiber.StatusCreated, status)
	pathID := dataField(t, result, "id").(string)
	result, status = doJSON(t, app, "POST", fmt.Sprintf("/api/learning-paths/%s/modules", pathID), token,
		fiber.Map{"title": "Basics", "order": 1})
	require.Equal(t, fiber.StatusCreated, status)
	moduleID := dataField(t, result, "id").(string)
	result, status = doJSON(t, app, "POST",
		fmt.Sprintf("/api/learning-paths/%s/modules/%s/items", pathID, moduleID), token,
		fiber.Map{"title": "Tour", "type": "VIDEO", "order": 1})
	require.Equal(t, fiber.StatusCreated, status)
	itemID := dataField(t, result, "id").(string)

	// A calendar date without a time component lands on that day's midnight.
	_, status = doJSON(t, app, "POST", "/api/learning-records", token,
		fiber.Map{"learningItemId": itemID, "content": "morning session", "progress": 40, "date": "2026-08-20"})
	require.Equal(t, fiber.StatusOK, status)

	result, status = doJSON(t, app, "GET", "/api/learning-records", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	days := (*result)["data"].([]interface{})
	require.Len(t, days, 1)
	assert.Equal(t, "2026-08-20", days[0].(map[string]interface{})["date"])
}

func TestRecordValidationStatuses(t *testing.T) {
	app, cfg := newTestApp(t)
	token := tokenFor(t, cfg, "user_records")

	_, status := doJSON(t, app, "POST", "/api/learning-records", token, fiber.Map{"content": "no item"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	_, status = doJSON(t, app, "POST", "/api/learning-records", token,
		fiber.Map{"learningItemId": "missing", "content": "x", "progress": 10})
	assert.Equal(t, fiber.StatusNotFound, status)
}
