package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"routinepro/backend/config"
	"routinepro/backend/models"
	"routinepro/backend/routes"
	"routinepro/backend/utils"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var dbCounter int64

// newTestApp builds the full route table over a fresh in-memory database.
func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:  "testsecret",
		ServerPort: "8080",
	}

	dsn := fmt.Sprintf("file:routinepro_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, utils.Migrate(db))

	app := fiber.New()
	routes.SetupRoutes(app, db, cfg)
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// signupAndLogin registers a user with the given role and returns a bearer token.
func signupAndLogin(t *testing.T, app *fiber.App, name, email, role string) string {
	t.Helper()

	resp := doJSON(t, app, "POST", "/auth/signup", "", map[string]string{
		"name":            name,
		"email":           email,
		"password":        "password123",
		"confirmPassword": "password123",
		"accountType":     role,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/auth/login", "", map[string]string{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decodeBody(t, resp)
	token, ok := result["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	return token
}

// routinePayload builds a valid creation payload with the given week count.
func routinePayload(weeks int) map[string]interface{} {
	weekList := make([]map[string]interface{}, 0, weeks)
	for w := 1; w <= weeks; w++ {
		days := make([]map[string]interface{}, 0, models.DaysPerWeek)
		for d := 1; d <= models.DaysPerWeek; d++ {
			days = append(days, map[string]interface{}{
				"dayTitle":       fmt.Sprintf("Day %d", d),
				"dayDescription": "Daily plan",
				"task": map[string]interface{}{
					"taskName":        "Stretch",
					"taskDescription": "Full body stretch",
					"taskDuration":    "15 min",
				},
			})
		}
		weekList = append(weekList, map[string]interface{}{
			"weekTitle":       fmt.Sprintf("Week %d", w),
			"weekDescription": "Weekly plan",
			"days":            days,
		})
	}
	return map[string]interface{}{
		"title":       "Morning Routine",
		"description": "Start the day right",
		"duration":    weeks,
		"weeks":       weekList,
	}
}

// createRoutine creates a routine via the API and returns its id.
func createRoutine(t *testing.T, app *fiber.App, adminToken string, weeks int) uint {
	t.Helper()

	resp := doJSON(t, app, "POST", "/admin/createRoutine", adminToken, routinePayload(weeks))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	result := decodeBody(t, resp)
	routine, ok := result["routine"].(map[string]interface{})
	require.True(t, ok)
	id, ok := routine["ID"].(float64)
	require.True(t, ok)
	return uint(id)
}

func loadProgressMatrix(t *testing.T, db *gorm.DB, routineID uint, email string) models.Matrix {
	t.Helper()

	var user models.User
	require.NoError(t, db.Where("email = ?", email).First(&user).Error)

	var progress models.RoutineProgress
	require.NoError(t, db.Where("routine_id = ? AND user_id = ?", routineID, user.ID).First(&progress).Error)

	matrix, err := progress.Matrix()
	require.NoError(t, err)
	return matrix
}
