package repository

import (
	"context"

	"gorm.io/gorm"
)

// Stores bundles the repositories participating in one atomic unit of work.
// Inside UnitOfWork.Do every store is bound to the same transaction, so the
// application and assignment writes of a protocol step commit together or
// not at all.
type Stores struct {
	Applications ApplicationRepository
	Assignments  AssignmentRepository
	Submissions  QuizSubmissionRepository
	Tests        TestRepository
	Students     StudentRepository
	Internships  InternshipRepository
}

// UnitOfWork runs a function against a transactional view of the stores.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(tx Stores) error) error
}

type gormUnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork builds a gorm-backed unit of work.
func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db}
}

func (u *gormUnitOfWork) Do(ctx context.Context, fn func(tx Stores) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Stores{
			Applications: NewApplicationRepository(tx),
			Assignments:  NewAssignmentRepository(tx),
			Submissions:  NewQuizSubmissionRepository(tx),
			Tests:        NewTestRepository(tx),
			Students:     NewStudentRepository(tx),
			Internships:  NewInternshipRepository(tx),
		})
	})
}
