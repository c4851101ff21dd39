package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/internbooth/placement-api/internal/models"
	"github.com/internbooth/placement-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// memStore is an in-memory stand-in for the persistence layer. The unit of
// work snapshots all maps before running the transactional function and
// restores them on error, mimicking a rollback.
type memStore struct {
	applications map[string]models.Application
	assignments  map[string]models.TestAssignment
	submissions  map[string]models.QuizSubmission
	tests        map[string]models.Test
	students     map[string]models.Student
	internships  map[string]models.Internship

	failApplicationUpdate bool
}

func newMemStore() *memStore {
	return &memStore{
		applications: map[string]models.Application{},
		assignments:  map[string]models.TestAssignment{},
		submissions:  map[string]models.QuizSubmission{},
		tests:        map[string]models.Test{},
		students:     map[string]models.Student{},
		internships:  map[string]models.Internship{},
	}
}

func (m *memStore) stores() repository.Stores {
	return repository.Stores{
		Applications: &memApplications{store: m},
		Assignments:  &memAssignments{store: m},
		Submissions:  &memSubmissions{store: m},
		Tests:        &memTests{store: m},
		Students:     &memStudents{store: m},
		Internships:  &memInternships{store: m},
	}
}

type memUnitOfWork struct {
	store *memStore
}

func (u *memUnitOfWork) Do(ctx context.Context, fn func(tx repository.Stores) error) error {
	applications := copyMap(u.store.applications)
	assignments := copyMap(u.store.assignments)
	submissions := copyMap(u.store.submissions)

	if err := fn(u.store.stores()); err != nil {
		u.store.applications = applications
		u.store.assignments = assignments
		u.store.submissions = submissions
		return err
	}

	return nil
}

func copyMap[V any](src map[string]V) map[string]V {
	dst := make(map[string]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

type memApplications struct{ store *memStore }

func (r *memApplications) GetByID(ctx context.Context, id string) (models.Application, error) {
	application, ok := r.store.applications[id]
	if !ok {
		return models.Application{}, gorm.ErrRecordNotFound
	}
	return application, nil
}

func (r *memApplications) GetForInternship(ctx context.Context, internshipID, id string) (models.Application, error) {
	application, ok := r.store.applications[id]
	if !ok || application.InternshipID != internshipID {
		return models.Application{}, gorm.ErrRecordNotFound
	}
	return application, nil
}

func (r *memApplications) GetByStudentAndInternship(ctx context.Context, studentID, internshipID string) (models.Application, error) {
	for _, application := range r.store.applications {
		if application.StudentID == studentID && application.InternshipID == internshipID {
			return application, nil
		}
	}
	return models.Application{}, gorm.ErrRecordNotFound
}

func (r *memApplications) List(ctx context.Context, filter repository.ApplicationFilter) ([]models.Application, error) {
	var results []models.Application
	for _, application := range r.store.applications {
		if filter.InternshipID != nil && application.InternshipID != *filter.InternshipID {
			continue
		}
		if filter.StudentID != nil && application.StudentID != *filter.StudentID {
			continue
		}
		if filter.Status != nil && application.Status != *filter.Status {
			continue
		}
		results = append(results, application)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (r *memApplications) Create(ctx context.Context, application *models.Application) error {
	if _, exists := r.store.applications[application.ID]; exists {
		return gorm.ErrDuplicatedKey
	}
	r.store.applications[application.ID] = *application
	return nil
}

func (r *memApplications) Update(ctx context.Context, application *models.Application) error {
	if r.store.failApplicationUpdate {
		return fmt.Errorf("simulated application update failure")
	}
	if _, exists := r.store.applications[application.ID]; !exists {
		return gorm.ErrRecordNotFound
	}
	application.UpdatedAt = time.Now()
	r.store.applications[application.ID] = *application
	return nil
}

type memAssignments struct{ store *memStore }

func (r *memAssignments) GetByID(ctx context.Context, id string) (models.TestAssignment, error) {
	assignment, ok := r.store.assignments[id]
	if !ok {
		return models.TestAssignment{}, gorm.ErrRecordNotFound
	}
	return assignment, nil
}

func (r *memAssignments) FindByApplication(ctx context.Context, applicationID string) (models.TestAssignment, error) {
	for _, assignment := range r.store.assignments {
		if assignment.ApplicationID == applicationID {
			return assignment, nil
		}
	}
	return models.TestAssignment{}, gorm.ErrRecordNotFound
}

func (r *memAssignments) List(ctx context.Context) ([]models.TestAssignment, error) {
	var results []models.TestAssignment
	for _, assignment := range r.store.assignments {
		results = append(results, assignment)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (r *memAssignments) ListByStatus(ctx context.Context, status models.AssignmentStatus) ([]models.TestAssignment, error) {
	var results []models.TestAssignment
	for _, assignment := range r.store.assignments {
		if assignment.Status == status {
			results = append(results, assignment)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (r *memAssignments) Create(ctx context.Context, assignment *models.TestAssignment) error {
	if _, exists := r.store.assignments[assignment.ID]; exists {
		return gorm.ErrDuplicatedKey
	}
	for _, existing := range r.store.assignments {
		if existing.ApplicationID == assignment.ApplicationID {
			return gorm.ErrDuplicatedKey
		}
	}
	r.store.assignments[assignment.ID] = *assignment
	return nil
}

func (r *memAssignments) Update(ctx context.Context, assignment *models.TestAssignment) error {
	if _, exists := r.store.assignments[assignment.ID]; !exists {
		return gorm.ErrRecordNotFound
	}
	r.store.assignments[assignment.ID] = *assignment
	return nil
}

func (r *memAssignments) Delete(ctx context.Context, id string) error {
	delete(r.store.assignments, id)
	return nil
}

type memSubmissions struct{ store *memStore }

func (r *memSubmissions) GetByID(ctx context.Context, id string) (models.QuizSubmission, error) {
	submission, ok := r.store.submissions[id]
	if !ok {
		return models.QuizSubmission{}, gorm.ErrRecordNotFound
	}
	return submission, nil
}

func (r *memSubmissions) ListByStatus(ctx context.Context, status models.SubmissionReviewStatus) ([]models.QuizSubmission, error) {
	var results []models.QuizSubmission
	for _, submission := range r.store.submissions {
		if submission.Status == status {
			results = append(results, submission)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (r *memSubmissions) Create(ctx context.Context, submission *models.QuizSubmission) error {
	if _, exists := r.store.submissions[submission.ID]; exists {
		return gorm.ErrDuplicatedKey
	}
	r.store.submissions[submission.ID] = *submission
	return nil
}

func (r *memSubmissions) Update(ctx context.Context, submission *models.QuizSubmission) error {
	if _, exists := r.store.submissions[submission.ID]; !exists {
		return gorm.ErrRecordNotFound
	}
	r.store.submissions[submission.ID] = *submission
	return nil
}

type memTests struct{ store *memStore }

func (r *memTests) GetByID(ctx context.Context, id string) (models.Test, error) {
	test, ok := r.store.tests[id]
	if !ok {
		return models.Test{}, gorm.ErrRecordNotFound
	}
	return test, nil
}

func (r *memTests) List(ctx context.Context) ([]models.Test, error) {
	var results []models.Test
	for _, test := range r.store.tests {
		results = append(results, test)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (r *memTests) Create(ctx context.Context, test *models.Test) error {
	if _, exists := r.store.tests[test.ID]; exists {
		return gorm.ErrDuplicatedKey
	}
	r.store.tests[test.ID] = *test
	return nil
}

func (r *memTests) Update(ctx context.Context, test *models.Test) error {
	if _, exists := r.store.tests[test.ID]; !exists {
		return gorm.ErrRecordNotFound
	}
	r.store.tests[test.ID] = *test
	return nil
}

func (r *memTests) Delete(ctx context.Context, id string) error {
	delete(r.store.tests, id)
	return nil
}

type memStudents struct{ store *memStore }

func (r *memStudents) GetByID(ctx context.Context, id string) (models.Student, error) {
	student, ok := r.store.students[id]
	if !ok {
		return models.Student{}, gorm.ErrRecordNotFound
	}
	return student, nil
}

func (r *memStudents) List(ctx context.Context) ([]models.Student, error) {
	var results []models.Student
	for _, student := range r.store.students {
		results = append(results, student)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (r *memStudents) Create(ctx context.Context, student *models.Student) error {
	r.store.students[student.ID] = *student
	return nil
}

func (r *memStudents) Update(ctx context.Context, student *models.Student) error {
	r.store.students[student.ID] = *student
	return nil
}

func (r *memStudents) Delete(ctx context.Context, id string) error {
	delete(r.store.students, id)
	return nil
}

func (r *memStudents) CountActiveSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	for _, student := range r.store.students {
		if student.LastActiveAt != nil && student.LastActiveAt.After(since) {
			count++
		}
	}
	return count, nil
}

type memInternships struct{ store *memStore }

func (r *memInternships) GetByID(ctx context.Context, id string) (models.Internship, error) {
	internship, ok := r.store.internships[id]
	if !ok {
		return models.Internship{}, gorm.ErrRecordNotFound
	}
	return internship, nil
}

func (r *memInternships) List(ctx context.Context) ([]models.Internship, error) {
	var results []models.Internship
	for _, internship := range r.store.internships {
		results = append(results, internship)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (r *memInternships) Create(ctx context.Context, internship *models.Internship) error {
	r.store.internships[internship.ID] = *internship
	return nil
}

func (r *memInternships) Update(ctx context.Context, internship *models.Internship) error {
	r.store.internships[internship.ID] = *internship
	return nil
}

func (r *memInternships) Delete(ctx context.Context, id string) error {
	delete(r.store.internships, id)
	return nil
}

func (r *memInternships) CountByFaculty(ctx context.Context, facultyID string) (int64, error) {
	var count int64
	for _, internship := range r.store.internships {
		if internship.FacultyID == facultyID {
			count++
		}
	}
	return count, nil
}
