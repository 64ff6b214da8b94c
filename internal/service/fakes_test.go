package service_test

import (
	"context"
	"io"
	"sort"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/edutrack/edutrack-api/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type fakeTaskRepo struct {
	tasks       map[uint]models.Task
	nextID      uint
	createdWith []models.StudentProfile
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[uint]models.Task), nextID: 1}
}

func (f *fakeTaskRepo) GetByID(_ context.Context, id uint) (models.Task, error) {
	task, ok := f.tasks[id]
	if !ok {
		return models.Task{}, gorm.ErrRecordNotFound
	}
	return task, nil
}

func (f *fakeTaskRepo) CreateWithAssignments(_ context.Context, task *models.Task, students []models.StudentProfile) error {
	task.ID = f.nextID
	f.nextID++
	f.tasks[task.ID] = *task
	f.createdWith = students
	return nil
}

func (f *fakeTaskRepo) ListAssignedToStudent(_ context.Context, studentID uint) ([]models.Task, error) {
	var assigned []models.Task
	for _, task := range f.tasks {
		for _, student := range task.AssignedStudents {
			if student.ID == studentID {
				assigned = append(assigned, task)
			}
		}
	}
	sort.Slice(assigned, func(i, j int) bool { return assigned[i].ID < assigned[j].ID })
	return assigned, nil
}

func (f *fakeTaskRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.tasks)), nil
}

type fakeSubmissionRepo struct {
	submissions map[uint]models.Submission
	nextID      uint
	saveCalls   int
	saveErr     error
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{submissions: make(map[uint]models.Submission), nextID: 1}
}

func (f *fakeSubmissionRepo) put(submission models.Submission) models.Submission {
	if submission.ID == 0 {
		submission.ID = f.nextID
		f.nextID++
	} else if submission.ID >= f.nextID {
		f.nextID = submission.ID + 1
	}
	f.submissions[submission.ID] = submission
	return submission
}

func (f *fakeSubmissionRepo) GetByID(_ context.Context, id uint) (models.Submission, error) {
	submission, ok := f.submissions[id]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return submission, nil
}

func (f *fakeSubmissionRepo) GetByTaskAndStudent(_ context.Context, taskID, studentID uint) (models.Submission, error) {
	for _, submission := range f.submissions {
		if submission.TaskID == taskID && submission.StudentID == studentID {
			return submission, nil
		}
	}
	return models.Submission{}, gorm.ErrRecordNotFound
}

func (f *fakeSubmissionRepo) Save(_ context.Context, submission *models.Submission) error {
	f.saveCalls++
	if f.saveErr != nil {
		return f.saveErr
	}
	stored := f.put(*submission)
	submission.ID = stored.ID
	return nil
}

func (f *fakeSubmissionRepo) ListByStudent(_ context.Context, studentID uint) ([]models.Submission, error) {
	return f.filter(func(s models.Submission) bool { return s.StudentID == studentID }), nil
}

func (f *fakeSubmissionRepo) ListGradedByStudent(_ context.Context, studentID uint) ([]models.Submission, error) {
	return f.filter(func(s models.Submission) bool {
		return s.StudentID == studentID && s.Grade != nil
	}), nil
}

func (f *fakeSubmissionRepo) ListByTaskCreator(_ context.Context, teacherID uint) ([]models.Submission, error) {
	return f.filter(func(s models.Submission) bool {
		return s.Task.CreatedByID != nil && *s.Task.CreatedByID == teacherID
	}), nil
}

func (f *fakeSubmissionRepo) filter(keep func(models.Submission) bool) []models.Submission {
	var matched []models.Submission
	for _, submission := range f.submissions {
		if keep(submission) {
			matched = append(matched, submission)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched
}

type fakeCommentRepo struct {
	comments []models.Comment
	nextID   uint
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{nextID: 1}
}

func (f *fakeCommentRepo) Create(_ context.Context, comment *models.Comment) error {
	comment.ID = f.nextID
	f.nextID++
	f.comments = append(f.comments, *comment)
	return nil
}

func (f *fakeCommentRepo) ListBySubmission(_ context.Context, submissionID uint) ([]models.Comment, error) {
	var thread []models.Comment
	for _, comment := range f.comments {
		if comment.SubmissionID == submissionID {
			thread = append(thread, comment)
		}
	}
	return thread, nil
}

type fakeGroupRepo struct {
	groups map[uint]models.Group
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{groups: make(map[uint]models.Group)}
}

func (f *fakeGroupRepo) GetByID(_ context.Context, id uint) (models.Group, error) {
	group, ok := f.groups[id]
	if !ok {
		return models.Group{}, gorm.ErrRecordNotFound
	}
	return group, nil
}

func (f *fakeGroupRepo) GetOwnedByTeacher(_ context.Context, id, teacherID uint) (models.Group, error) {
	group, ok := f.groups[id]
	if !ok || group.TeacherID != teacherID {
		return models.Group{}, gorm.ErrRecordNotFound
	}
	return group, nil
}

func (f *fakeGroupRepo) ListStudentsByTeacher(_ context.Context, teacherID uint) ([]models.StudentProfile, error) {
	var students []models.StudentProfile
	for _, group := range f.groups {
		if group.TeacherID == teacherID {
			students = append(students, group.Students...)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return students, nil
}

type fakeRankingRepo struct {
	rankings map[uint]models.Ranking
	topCalls int
}

func newFakeRankingRepo() *fakeRankingRepo {
	return &fakeRankingRepo{rankings: make(map[uint]models.Ranking)}
}

func (f *fakeRankingRepo) GetByStudent(_ context.Context, studentID uint) (models.Ranking, error) {
	ranking, ok := f.rankings[studentID]
	if !ok {
		return models.Ranking{}, gorm.ErrRecordNotFound
	}
	return ranking, nil
}

func (f *fakeRankingRepo) ordered() []models.Ranking {
	all := make([]models.Ranking, 0, len(f.rankings))
	for _, ranking := range f.rankings {
		all = append(all, ranking)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Points != all[j].Points {
			return all[i].Points > all[j].Points
		}
		return all[i].StudentID < all[j].StudentID
	})
	return all
}

func (f *fakeRankingRepo) GlobalTop(_ context.Context, limit int) ([]models.Ranking, error) {
	f.topCalls++
	all := f.ordered()
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeRankingRepo) ListByGroup(_ context.Context, groupID uint) ([]models.Ranking, error) {
	var scoped []models.Ranking
	for _, ranking := range f.ordered() {
		if ranking.Student.GroupID != nil && *ranking.Student.GroupID == groupID {
			scoped = append(scoped, ranking)
		}
	}
	return scoped, nil
}

func (f *fakeRankingRepo) RecomputeForStudent(_ context.Context, _ uint) error {
	return nil
}

type fakeParentRepo struct {
	relations []models.ParentChildRelation
}

func (f *fakeParentRepo) ListChildren(_ context.Context, parentID uint) ([]models.ParentChildRelation, error) {
	var linked []models.ParentChildRelation
	for _, relation := range f.relations {
		if relation.ParentID == parentID {
			linked = append(linked, relation)
		}
	}
	return linked, nil
}

type fakeUploader struct {
	uploads int
	err     error
	url     string
}

func (f *fakeUploader) Upload(_ context.Context, name string, _ io.Reader) (string, error) {
	f.uploads++
	if f.err != nil {
		return "", f.err
	}
	if f.url != "" {
		return f.url, nil
	}
	return "https://files.example.com/" + name, nil
}
