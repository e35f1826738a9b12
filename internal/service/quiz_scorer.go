package service

import (
	"strings"

	"github.com/adventio/giveaway-api/internal/models"
)

// SubmittedAnswer is one raw quiz answer from a participant. Multiple-choice
// answers carry the option index, true/false carry "true"/"false", ratings a
// numeric string.
type SubmittedAnswer struct {
	QuestionID string `json:"question_id" validate:"required"`
	Answer     string `json:"answer"`
}

// QuestionResult reports the outcome for a single question.
type QuestionResult struct {
	QuestionID    string `json:"question_id"`
	Correct       bool   `json:"correct"`
	Submitted     string `json:"submitted"`
	CorrectAnswer string `json:"correct_answer"`
}

// QuizResult is the outcome of scoring one submission.
type QuizResult struct {
	TotalQuestions int              `json:"total_questions"`
	CorrectCount   int              `json:"correct_count"`
	Percentage     float64          `json:"percentage"`
	Results        []QuestionResult `json:"results"`
}

// ScoreQuiz grades submitted answers against question definitions. Pure and
// deterministic: every question is worth one point, a question without a
// submitted answer counts as incorrect, and an empty question set scores 0%.
func ScoreQuiz(questions []models.QuizQuestion, answers []SubmittedAnswer) QuizResult {
	submitted := make(map[string]string, len(answers))
	for _, a := range answers {
		if _, ok := submitted[a.QuestionID]; !ok {
			submitted[a.QuestionID] = a.Answer
		}
	}

	result := QuizResult{
		TotalQuestions: len(questions),
		Results:        make([]QuestionResult, 0, len(questions)),
	}

	for _, q := range questions {
		raw, answered := submitted[q.ID]
		correct := answered && answerMatches(q, raw)
		if correct {
			result.CorrectCount++
		}
		result.Results = append(result.Results, QuestionResult{
			QuestionID:    q.ID,
			Correct:       correct,
			Submitted:     raw,
			CorrectAnswer: q.CorrectAnswer,
		})
	}

	if result.TotalQuestions > 0 {
		result.Percentage = float64(result.CorrectCount) / float64(result.TotalQuestions) * 100
	}

	return result
}

func answerMatches(q models.QuizQuestion, raw string) bool {
	given := normalizeAnswer(raw, q.CaseSensitive)
	if given == normalizeAnswer(q.CorrectAnswer, q.CaseSensitive) {
		return true
	}
	if q.Type != models.QuestionText {
		return false
	}
	for _, alt := range q.AcceptableAnswers {
		if given == normalizeAnswer(alt, q.CaseSensitive) {
			return true
		}
	}
	return false
}

func normalizeAnswer(s string, caseSensitive bool) string {
	s = strings.TrimSpace(s)
	if !caseSensitive {
		s = strings.ToLower(s)
	}
	return s
}
