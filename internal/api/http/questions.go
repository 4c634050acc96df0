package http

import (
	"net/http"

	"github.com/mind-engage/quizsystem/internal/httpx"
	"github.com/mind-engage/quizsystem/internal/quiz"
)

type createQuestionReq struct {
	QuizID        int64  `json:"quiz_id" validate:"required,gt=0"`
	Text          string `json:"question_text" validate:"required,max=2000"`
	CorrectAnswer string `json:"correct_answer" validate:"max=2000"`
}

type updateQuestionReq struct {
	Text          string `json:"question_text" validate:"required,max=2000"`
	CorrectAnswer string `json:"correct_answer" validate:"max=2000"`
}

func CreateQuestionHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createQuestionReq
		if err := decode(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		if _, err := requireQuizOwner(r, store, req.QuizID); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		q, err := store.CreateQuestion(r.Context(), quiz.Question{
			QuizID:        req.QuizID,
			Text:          req.Text,
			CorrectAnswer: req.CorrectAnswer,
		})
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, q)
	}
}

func GetQuestionHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "questionID")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		q, err := store.GetQuestion(r.Context(), id)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		if isStudent(r) {
			q.CorrectAnswer = ""
		}
		httpx.WriteJSON(w, http.StatusOK, q)
	}
}

func UpdateQuestionHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "questionID")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		if _, err := ownQuestion(r, store, id); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		var req updateQuestionReq
		if err := decode(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		q, err := store.UpdateQuestion(r.Context(), quiz.Question{ID: id, Text: req.Text, CorrectAnswer: req.CorrectAnswer})
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, q)
	}
}

func DeleteQuestionHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "questionID")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		if _, err := ownQuestion(r, store, id); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		if err := store.DeleteQuestion(r.Context(), id); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
