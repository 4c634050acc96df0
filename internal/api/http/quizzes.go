package http

import (
	"net/http"

	"github.com/mind-engage/quizsystem/internal/errors"
	"github.com/mind-engage/quizsystem/internal/httpx"
	"github.com/mind-engage/quizsystem/internal/quiz"
)

type quizReq struct {
	Title            string `json:"title" validate:"required,max=255"`
	Description      string `json:"description" validate:"max=2000"`
	TimeLimitMinutes int    `json:"time_limit_minutes" validate:"min=0,max=1440"`
}

// POST /quiz. The caller owns the new quiz.
func CreateQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := caller(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		var req quizReq
		if err := decode(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		q, err := store.CreateQuiz(r.Context(), quiz.Quiz{
			InstructorID:     c.SubjectID,
			Title:            req.Title,
			Description:      req.Description,
			TimeLimitMinutes: req.TimeLimitMinutes,
		})
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, q)
	}
}

func ListQuizzesHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qs, err := store.ListQuizzes(r.Context())
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, qs)
	}
}

func GetQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "quizID")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		q, err := store.GetQuiz(r.Context(), id)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, q)
	}
}

// GET /quiz/instructor/{instructorID}
func ListInstructorQuizzesHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "instructorID")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		qs, err := store.ListQuizzesByInstructor(r.Context(), id)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, qs)
	}
}

// ownQuiz loads the quiz in {quizID} and checks the caller owns it.
func ownQuiz(r *http.Request, store quiz.Store) (quiz.Quiz, error) {
	id, err := pathID(r, "quizID")
	if err != nil {
		return quiz.Quiz{}, err
	}
	return requireQuizOwner(r, store, id)
}

// requireQuizOwner loads quiz id and fails with Forbidden unless the caller
// is its instructor. Everything hanging off a quiz is guarded through it.
func requireQuizOwner(r *http.Request, store quiz.Store, id int64) (quiz.Quiz, error) {
	c, err := caller(r)
	if err != nil {
		return quiz.Quiz{}, err
	}
	q, err := store.GetQuiz(r.Context(), id)
	if err != nil {
		return quiz.Quiz{}, err
	}
	if q.InstructorID != c.SubjectID {
		return quiz.Quiz{}, errors.New(errors.CodeForbidden, errors.WithMessagef("quiz %d belongs to another instructor", id))
	}
	return q, nil
}

// ownQuestion loads a question whose quiz the caller owns.
func ownQuestion(r *http.Request, store quiz.Store, id int64) (quiz.Question, error) {
	q, err := store.GetQuestion(r.Context(), id)
	if err != nil {
		return quiz.Question{}, err
	}
	if _, err := requireQuizOwner(r, store, q.QuizID); err != nil {
		return quiz.Question{}, err
	}
	return q, nil
}

func UpdateQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := ownQuiz(r, store)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		var req quizReq
		if err := decode(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		q.Title, q.Description, q.TimeLimitMinutes = req.Title, req.Description, req.TimeLimitMinutes
		out, err := store.UpdateQuiz(r.Context(), q)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func DeleteQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := ownQuiz(r, store)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		if err := store.DeleteQuiz(r.Context(), q.ID); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /quiz/questions/{quizID}. Students never see the correct answers.
func QuizQuestionsHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "quizID")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		if _, err := store.GetQuiz(r.Context(), id); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		qs, err := store.ListQuestions(r.Context(), id)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		if isStudent(r) {
			for i := range qs {
				qs[i].CorrectAnswer = ""
			}
		}
		httpx.WriteJSON(w, http.StatusOK, qs)
	}
}

// GET /quiz/questionsAndChoices/{quizID}. Correctness flags are stripped
// for students.
func QuizQuestionsWithChoicesHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "quizID")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		if _, err := store.GetQuiz(r.Context(), id); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		qs, err := store.QuestionsWithChoices(r.Context(), id)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		if isStudent(r) {
			for i := range qs {
				qs[i] = qs[i].ForStudent()
			}
		}
		httpx.WriteJSON(w, http.StatusOK, qs)
	}
}
