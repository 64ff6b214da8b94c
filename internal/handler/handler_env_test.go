package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/edutrack/edutrack-api/internal/handler"
	"github.com/edutrack/edutrack-api/internal/middleware"
	"github.com/edutrack/edutrack-api/internal/models"
	"github.com/edutrack/edutrack-api/internal/repository"
	"github.com/edutrack/edutrack-api/internal/service"
)

type stubUploader struct {
	uploads int
}

func (s *stubUploader) Upload(_ context.Context, name string, _ io.Reader) (string, error) {
	s.uploads++
	return "https://files.example.com/" + name, nil
}

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
}

// newTestEnv wires the full handler stack against an in-memory database.
// Authentication is stubbed: the X-User-ID and X-User-Role headers stand
// in for the JWT claims.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.StudentProfile{},
		&models.TeacherProfile{},
		&models.ParentProfile{},
		&models.ParentChildRelation{},
		&models.Group{},
		&models.Task{},
		&models.Submission{},
		&models.Comment{},
		&models.Ranking{},
		&models.ActivityLog{},
	))

	validate := validator.New(validator.WithRequiredStructEnabled())
	log := zerolog.Nop()

	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	rankingRepo := repository.NewRankingRepository(db)
	parentRepo := repository.NewParentRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	principals := service.NewPrincipalService(userRepo, log)
	activityService := service.NewActivityService(activityRepo, log)
	rankingService := service.NewRankingService(rankingRepo, groupRepo, submissionRepo, taskRepo, nil, 0, log)
	submissionService := service.NewSubmissionService(submissionRepo, taskRepo, commentRepo, validate, &stubUploader{}, log)
	gradingService := service.NewGradingService(submissionRepo, validate, activityService, rankingService, log)
	taskService := service.NewTaskService(taskRepo, groupRepo, submissionRepo, validate, log)
	parentService := service.NewParentService(parentRepo, rankingRepo, log)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if raw := c.Get("X-User-ID"); raw != "" {
			if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
				c.Locals("user_id", uint(id))
			}
		}
		if role := c.Get("X-User-Role"); role != "" {
			c.Locals("user_role", role)
		}
		return c.Next()
	})

	api := app.Group("/api/v1")
	handler.NewSubmissionHandler(submissionService, gradingService, principals, log).Register(api, nil)
	handler.NewTaskHandler(taskService, activityService, principals, log).Register(api, middleware.RequireRole(models.RoleTeacher))
	handler.NewRankingHandler(rankingService, principals, log).Register(api)
	handler.NewParentHandler(parentService, principals, log).Register(api)

	return &testEnv{app: app, db: db}
}

func (e *testEnv) createUser(t *testing.T, username, role string) models.User {
	t.Helper()
	user := models.User{Username: username, Role: role}
	require.NoError(t, e.db.Create(&user).Error)
	return user
}

func (e *testEnv) createStudent(t *testing.T, username string, groupID *uint) (models.User, models.StudentProfile) {
	t.Helper()
	user := e.createUser(t, username, models.RoleStudent)
	profile := models.StudentProfile{UserID: user.ID, GroupID: groupID}
	require.NoError(t, e.db.Create(&profile).Error)
	return user, profile
}

func (e *testEnv) createTeacher(t *testing.T, username string) (models.User, models.TeacherProfile) {
	t.Helper()
	user := e.createUser(t, username, models.RoleTeacher)
	profile := models.TeacherProfile{UserID: user.ID}
	require.NoError(t, e.db.Create(&profile).Error)
	return user, profile
}

func (e *testEnv) createGroup(t *testing.T, name string, teacherID uint) models.Group {
	t.Helper()
	group := models.Group{Name: name, TeacherID: teacherID}
	require.NoError(t, e.db.Omit("Teacher").Create(&group).Error)
	return group
}

func (e *testEnv) createTask(t *testing.T, name string, createdBy *uint) models.Task {
	t.Helper()
	task := models.Task{Name: name, CreatedByID: createdBy}
	require.NoError(t, e.db.Omit("CreatedBy", "AssignedStudents", "Submissions").Create(&task).Error)
	return task
}

func (e *testEnv) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func asUser(req *http.Request, user models.User) *http.Request {
	req.Header.Set("X-User-ID", strconv.FormatUint(uint64(user.ID), 10))
	req.Header.Set("X-User-Role", user.Role)
	return req
}

func jsonRequest(t *testing.T, method, path string, payload interface{}) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func submitRequest(t *testing.T, taskID uint, filename, content string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("task_id", strconv.FormatUint(uint64(taskID), 10)))
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/submit-task", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeEnvelope(t *testing.T, resp *http.Response, data interface{}) {
	t.Helper()
	defer resp.Body.Close()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	if data != nil {
		require.NoError(t, json.Unmarshal(envelope.Data, data))
	}
}
