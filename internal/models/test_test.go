package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQuestionValidateMCQ(t *testing.T) {
	valid := TestQuestion{ID: 1, Type: QuestionTypeMCQ, Question: "Pick one", Options: []string{"a", "b"}, CorrectAnswer: 1, TimeAllowed: 2}
	require.NoError(t, valid.Validate())

	tooFewOptions := valid
	tooFewOptions.Options = []string{"a"}
	require.Error(t, tooFewOptions.Validate())

	outOfBounds := valid
	outOfBounds.CorrectAnswer = 2
	require.Error(t, outOfBounds.Validate())

	nonInteger := valid
	nonInteger.CorrectAnswer = "b"
	require.Error(t, nonInteger.Validate())

	// JSON decoding produces float64 indices; whole values are accepted.
	fromJSON := valid
	fromJSON.CorrectAnswer = float64(0)
	require.NoError(t, fromJSON.Validate())
}

func TestQuestionValidateRequiredFields(t *testing.T) {
	require.Error(t, TestQuestion{Type: QuestionTypeText, Question: "q", TimeAllowed: 1}.Validate())
	require.Error(t, TestQuestion{ID: 1, Question: "q", TimeAllowed: 1}.Validate())
	require.Error(t, TestQuestion{ID: 1, Type: QuestionTypeText, TimeAllowed: 1}.Validate())
	require.Error(t, TestQuestion{ID: 1, Type: QuestionTypeText, Question: "q"}.Validate())
	require.Error(t, TestQuestion{ID: 1, Type: "essay", Question: "q", TimeAllowed: 1}.Validate())
	require.NoError(t, TestQuestion{ID: 1, Type: QuestionTypeText, Question: "q", TimeAllowed: 1}.Validate())
}

func TestQuestionRoundTrip(t *testing.T) {
	bank := Test{}
	bank.SetQuestions([]TestQuestion{{ID: 1, Type: QuestionTypeText, Question: "Describe", TimeAllowed: 5}})

	questions := bank.QuestionList()
	require.Len(t, questions, 1)
	require.Equal(t, "Describe", questions[0].Question)
}
