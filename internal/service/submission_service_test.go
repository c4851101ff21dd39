package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/internbooth/placement-api/internal/dto"
	"github.com/internbooth/placement-api/internal/models"
)

func newSubmissionFixture(t *testing.T) (*memStore, SubmissionService) {
	t.Helper()

	store := newMemStore()
	store.students["student-1"] = models.Student{ID: "student-1", Name: "Asha Rao", Email: "asha@example.com"}
	store.internships["internship-1"] = models.Internship{ID: "internship-1", Status: models.InternshipStatusActive}

	test := models.Test{ID: "test-1", Title: "Go Basics", Duration: 30, Status: models.TestStatusActive}
	test.SetQuestions([]models.TestQuestion{
		{ID: 1, Type: models.QuestionTypeMCQ, Question: "Pick one", Options: []string{"a", "b", "c"}, CorrectAnswer: 1, TimeAllowed: 60},
		{ID: 2, Type: models.QuestionTypeMCQ, Question: "Pick again", Options: []string{"x", "y"}, CorrectAnswer: 0, TimeAllowed: 60},
		{ID: 3, Type: models.QuestionTypeText, Question: "Explain", TimeAllowed: 120},
	})
	store.tests["test-1"] = test

	store.applications["app-1"] = models.Application{
		ID:           "app-1",
		StudentID:    "student-1",
		InternshipID: "internship-1",
		Status:       models.StatusTestAssigned,
		CurrentRound: 2,
	}
	store.assignments["assign-1"] = models.TestAssignment{
		ID:            "assign-1",
		StudentID:     "student-1",
		InternshipID:  "internship-1",
		TestID:        "test-1",
		ApplicationID: "app-1",
		Status:        models.AssignmentAssigned,
		AssignedAt:    time.Now().Add(-time.Hour),
		AssignedBy:    "admin-1",
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewSubmissionService(&memUnitOfWork{store: store}, store.stores(), validate, nil, testLogger())

	return store, svc
}

func rawJSON(t *testing.T, value any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(value)
	require.NoError(t, err)
	return data
}

func TestSubmitQuizNormalizesAndGrades(t *testing.T) {
	store, svc := newSubmissionFixture(t)

	// Three historical answer spellings of the same concept: userAnswer,
	// user_answer and answer, mixing option text and option indexes.
	payload := dto.SubmitQuizRequest{
		AssignmentID: "assign-1",
		Answers: []dto.RawAnswer{
			{QuestionID: 1, UserAnswer: rawJSON(t, "b")},
			{QuestionID: 2, UserAnswerAlt: rawJSON(t, 1)},
			{QuestionID: 3, Answer: rawJSON(t, "channels share memory by communicating")},
		},
	}

	response, err := svc.SubmitQuiz(context.Background(), payload, Actor{UID: "student-1", Role: "student"})
	require.NoError(t, err)
	require.Len(t, response.Questions, 3)

	first := response.Questions[0]
	require.Equal(t, models.QuestionTypeMCQ, first.Type)
	require.Equal(t, "Pick one", first.Prompt)
	require.Equal(t, "b", first.Answer)
	require.Equal(t, "b", first.CorrectAnswer)
	require.True(t, first.Correct)

	second := response.Questions[1]
	require.Equal(t, "y", second.Answer)
	require.Equal(t, "x", second.CorrectAnswer)
	require.False(t, second.Correct)

	third := response.Questions[2]
	require.Equal(t, models.QuestionTypeText, third.Type)
	require.False(t, third.Correct)

	require.Equal(t, 1.0, response.Score)
	require.Equal(t, 3.0, response.TotalPossiblePoints)
	require.InDelta(t, 33.33, response.Percentage, 0.01)
	require.Equal(t, string(models.SubmissionPending), response.Status)

	// Stored records are already canonical.
	stored := store.submissions[response.ID]
	records := stored.Questions()
	require.Len(t, records, 3)
	require.Equal(t, "b", records[0].Answer)
}

func TestSubmitQuizCommitsAllThreeWrites(t *testing.T) {
	store, svc := newSubmissionFixture(t)

	payload := dto.SubmitQuizRequest{
		AssignmentID: "assign-1",
		Answers:      []dto.RawAnswer{{QuestionID: 1, UserAnswer: rawJSON(t, "b")}},
	}

	response, err := svc.SubmitQuiz(context.Background(), payload, Actor{UID: "student-1"})
	require.NoError(t, err)

	assignment := store.assignments["assign-1"]
	require.Equal(t, models.AssignmentCompleted, assignment.Status)
	require.NotNil(t, assignment.CompletedAt)
	require.NotNil(t, assignment.Score)

	application := store.applications["app-1"]
	require.Equal(t, models.StatusQuizCompleted, application.Status)
	require.Equal(t, response.ID, application.QuizSubmissionID)
	require.NotNil(t, application.QuizCompletedAt)
	require.NotNil(t, application.QuizScore)
}

func TestSubmitQuizRollsBackTogether(t *testing.T) {
	store, svc := newSubmissionFixture(t)
	store.failApplicationUpdate = true

	payload := dto.SubmitQuizRequest{
		AssignmentID: "assign-1",
		Answers:      []dto.RawAnswer{{QuestionID: 1, UserAnswer: rawJSON(t, "b")}},
	}

	_, err := svc.SubmitQuiz(context.Background(), payload, Actor{UID: "student-1"})
	require.Error(t, err)

	require.Empty(t, store.submissions)
	require.Equal(t, models.AssignmentAssigned, store.assignments["assign-1"].Status)
	require.Equal(t, models.StatusTestAssigned, store.applications["app-1"].Status)
}

func TestSubmitQuizRejectsOtherStudents(t *testing.T) {
	store, svc := newSubmissionFixture(t)

	payload := dto.SubmitQuizRequest{
		AssignmentID: "assign-1",
		Answers:      []dto.RawAnswer{{QuestionID: 1, UserAnswer: rawJSON(t, "b")}},
	}

	_, err := svc.SubmitQuiz(context.Background(), payload, Actor{UID: "student-2"})
	require.ErrorIs(t, err, ErrValidation)
	require.Empty(t, store.submissions)
}

func TestSubmitQuizRefusesReviewedAssignment(t *testing.T) {
	store, svc := newSubmissionFixture(t)
	assignment := store.assignments["assign-1"]
	assignment.Status = models.AssignmentCompleted
	store.assignments["assign-1"] = assignment

	payload := dto.SubmitQuizRequest{
		AssignmentID: "assign-1",
		Answers:      []dto.RawAnswer{{QuestionID: 1, UserAnswer: rawJSON(t, "b")}},
	}

	_, err := svc.SubmitQuiz(context.Background(), payload, Actor{UID: "student-1"})
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestNormalizeAnswersFallsBackToPayloadFields(t *testing.T) {
	records := normalizeAnswers([]dto.RawAnswer{
		{
			QuestionID: 9,
			Type:       models.QuestionTypeMCQ,
			Question:   "Unbanked question",
			Options:    []string{"yes", "no"},
			Answer:     json.RawMessage(`"yes"`),
			// Client sent the correct answer as an option index string.
			CorrectAnswer: json.RawMessage(`0`),
			Points:        2,
		},
	}, nil)

	require.Len(t, records, 1)
	record := records[0]
	require.Equal(t, "Unbanked question", record.Prompt)
	require.Equal(t, "yes", record.Answer)
	require.Equal(t, "yes", record.CorrectAnswer)
	require.True(t, record.Correct)
	require.Equal(t, 2.0, record.Points)
}

func TestGradeRecords(t *testing.T) {
	score, total := gradeRecords([]models.QuestionRecord{
		{Correct: true, Points: 2},
		{Correct: false, Points: 3},
		{Correct: true, Points: 1},
	})
	require.Equal(t, 3.0, score)
	require.Equal(t, 6.0, total)
}
