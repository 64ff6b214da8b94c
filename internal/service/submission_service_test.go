package service_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/edutrack/edutrack-api/internal/auth"
	"github.com/edutrack/edutrack-api/internal/dto"
	"github.com/edutrack/edutrack-api/internal/models"
	"github.com/edutrack/edutrack-api/internal/service"
)

func studentPrincipal(userID, studentID uint) auth.Principal {
	return auth.Principal{
		User:    models.User{ID: userID, Username: "student", Role: models.RoleStudent},
		Student: &models.StudentProfile{ID: studentID, UserID: userID},
	}
}

func teacherPrincipal(userID, teacherID uint) auth.Principal {
	return auth.Principal{
		User:    models.User{ID: userID, Username: "teacher", Role: models.RoleTeacher},
		Teacher: &models.TeacherProfile{ID: teacherID, UserID: userID},
	}
}

func makeFileHeader(t *testing.T, name, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(1 << 20)
	require.NoError(t, err)

	files := form.File["file"]
	require.Len(t, files, 1)
	return files[0]
}

func newSubmissionFixture(taskRepo *fakeTaskRepo, subRepo *fakeSubmissionRepo, commentRepo *fakeCommentRepo, uploader *fakeUploader) service.SubmissionService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return service.NewSubmissionService(subRepo, taskRepo, commentRepo, validate, uploader, testLogger())
}

func TestSubmitRequiresStudentProfile(t *testing.T) {
	svc := newSubmissionFixture(newFakeTaskRepo(), newFakeSubmissionRepo(), newFakeCommentRepo(), &fakeUploader{})

	_, _, err := svc.Submit(context.Background(), teacherPrincipal(1, 1), dto.SubmitTaskRequest{TaskID: 1}, makeFileHeader(t, "work.txt", "solution"))
	require.ErrorIs(t, err, service.ErrStudentProfileRequired)
}

func TestSubmitUnknownTask(t *testing.T) {
	svc := newSubmissionFixture(newFakeTaskRepo(), newFakeSubmissionRepo(), newFakeCommentRepo(), &fakeUploader{})

	_, _, err := svc.Submit(context.Background(), studentPrincipal(1, 10), dto.SubmitTaskRequest{TaskID: 99}, makeFileHeader(t, "work.txt", "solution"))
	require.ErrorIs(t, err, service.ErrTaskNotFound)
}

func TestSubmitCreatesThenUpdatesSameRow(t *testing.T) {
	taskRepo := newFakeTaskRepo()
	taskRepo.tasks[1] = models.Task{ID: 1, Name: "Essay"}
	subRepo := newFakeSubmissionRepo()
	svc := newSubmissionFixture(taskRepo, subRepo, newFakeCommentRepo(), &fakeUploader{})

	principal := studentPrincipal(1, 10)

	first, created, err := svc.Submit(context.Background(), principal, dto.SubmitTaskRequest{TaskID: 1}, makeFileHeader(t, "v1.txt", "first attempt"))
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, models.SubmissionStatusSubmitted, first.Status)
	require.NotNil(t, first.SubmittedAt)

	second, created, err := svc.Submit(context.Background(), principal, dto.SubmitTaskRequest{TaskID: 1}, makeFileHeader(t, "v2.txt", "second attempt"))
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, first.ID, second.ID)
	require.Contains(t, second.FileURL, "v2.txt")
	require.Len(t, subRepo.submissions, 1)
}

func TestSubmitPreservesGradeOnResubmit(t *testing.T) {
	taskRepo := newFakeTaskRepo()
	taskRepo.tasks[1] = models.Task{ID: 1, Name: "Essay"}
	subRepo := newFakeSubmissionRepo()
	grade := 5
	subRepo.put(models.Submission{
		TaskID:    1,
		StudentID: 10,
		Status:    models.SubmissionStatusSubmitted,
		Grade:     &grade,
	})
	svc := newSubmissionFixture(taskRepo, subRepo, newFakeCommentRepo(), &fakeUploader{})

	updated, created, err := svc.Submit(context.Background(), studentPrincipal(1, 10), dto.SubmitTaskRequest{TaskID: 1}, makeFileHeader(t, "rework.txt", "better attempt"))
	require.NoError(t, err)
	require.False(t, created)
	require.NotNil(t, updated.Grade)
	require.Equal(t, 5, *updated.Grade)
}

func TestSubmitUploadFailurePersistsNothing(t *testing.T) {
	taskRepo := newFakeTaskRepo()
	taskRepo.tasks[1] = models.Task{ID: 1, Name: "Essay"}
	subRepo := newFakeSubmissionRepo()
	uploader := &fakeUploader{err: errors.New("storage down")}
	svc := newSubmissionFixture(taskRepo, subRepo, newFakeCommentRepo(), uploader)

	_, _, err := svc.Submit(context.Background(), studentPrincipal(1, 10), dto.SubmitTaskRequest{TaskID: 1}, makeFileHeader(t, "v1.txt", "first attempt"))
	require.Error(t, err)
	require.Zero(t, subRepo.saveCalls)
	require.Empty(t, subRepo.submissions)
}

func TestAddCommentRecordsRoleSnapshot(t *testing.T) {
	taskRepo := newFakeTaskRepo()
	subRepo := newFakeSubmissionRepo()
	commentRepo := newFakeCommentRepo()
	teacherID := uint(7)
	subRepo.put(models.Submission{
		TaskID:    1,
		StudentID: 10,
		Status:    models.SubmissionStatusSubmitted,
		Task:      models.Task{ID: 1, CreatedByID: &teacherID},
	})
	svc := newSubmissionFixture(taskRepo, subRepo, commentRepo, &fakeUploader{})

	student := studentPrincipal(1, 10)
	teacher := teacherPrincipal(2, teacherID)

	thread, err := svc.AddComment(context.Background(), student, 1, dto.CommentCreateRequest{Text: "is this right?"})
	require.NoError(t, err)
	require.Len(t, thread, 1)
	require.Equal(t, models.CommentRoleStudent, thread[0].Role)

	thread, err = svc.AddComment(context.Background(), teacher, 1, dto.CommentCreateRequest{Text: "almost, check step 2"})
	require.NoError(t, err)
	require.Len(t, thread, 2)
	require.Equal(t, models.CommentRoleTeacher, thread[1].Role)
}

func TestAddCommentSanitizesMarkup(t *testing.T) {
	taskRepo := newFakeTaskRepo()
	subRepo := newFakeSubmissionRepo()
	commentRepo := newFakeCommentRepo()
	subRepo.put(models.Submission{TaskID: 1, StudentID: 10, Status: models.SubmissionStatusSubmitted})
	svc := newSubmissionFixture(taskRepo, subRepo, commentRepo, &fakeUploader{})

	thread, err := svc.AddComment(context.Background(), studentPrincipal(1, 10), 1, dto.CommentCreateRequest{Text: "<script>alert(1)</script>well done"})
	require.NoError(t, err)
	require.Len(t, thread, 1)
	require.Equal(t, "well done", thread[0].Text)
}

func TestAddCommentRejectsEmptyAfterSanitization(t *testing.T) {
	taskRepo := newFakeTaskRepo()
	subRepo := newFakeSubmissionRepo()
	subRepo.put(models.Submission{TaskID: 1, StudentID: 10, Status: models.SubmissionStatusSubmitted})
	svc := newSubmissionFixture(taskRepo, subRepo, newFakeCommentRepo(), &fakeUploader{})

	_, err := svc.AddComment(context.Background(), studentPrincipal(1, 10), 1, dto.CommentCreateRequest{Text: "<script>alert(1)</script>"})
	require.ErrorIs(t, err, service.ErrEmptyComment)
}

func TestCommentsDeniedForStrangers(t *testing.T) {
	taskRepo := newFakeTaskRepo()
	subRepo := newFakeSubmissionRepo()
	owner := uint(7)
	subRepo.put(models.Submission{
		TaskID:    1,
		StudentID: 10,
		Status:    models.SubmissionStatusSubmitted,
		Task:      models.Task{ID: 1, CreatedByID: &owner},
	})
	svc := newSubmissionFixture(taskRepo, subRepo, newFakeCommentRepo(), &fakeUploader{})

	otherStudent := studentPrincipal(3, 11)
	_, err := svc.ListComments(context.Background(), otherStudent, 1)
	require.ErrorIs(t, err, service.ErrSubmissionForbidden)

	otherTeacher := teacherPrincipal(4, 8)
	_, err = svc.AddComment(context.Background(), otherTeacher, 1, dto.CommentCreateRequest{Text: "hi"})
	require.ErrorIs(t, err, service.ErrSubmissionForbidden)
}

func TestListForTeacherScopesToOwnTasks(t *testing.T) {
	taskRepo := newFakeTaskRepo()
	subRepo := newFakeSubmissionRepo()
	mine := uint(7)
	other := uint(8)
	subRepo.put(models.Submission{TaskID: 1, StudentID: 10, Task: models.Task{ID: 1, CreatedByID: &mine}})
	subRepo.put(models.Submission{TaskID: 2, StudentID: 11, Task: models.Task{ID: 2, CreatedByID: &other}})
	svc := newSubmissionFixture(taskRepo, subRepo, newFakeCommentRepo(), &fakeUploader{})

	listed, err := svc.ListForTeacher(context.Background(), teacherPrincipal(2, mine))
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, uint(1), listed[0].TaskID)
}
