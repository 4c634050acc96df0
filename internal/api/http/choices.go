package http

import (
	"net/http"

	"github.com/mind-engage/quizsystem/internal/httpx"
	"github.com/mind-engage/quizsystem/internal/quiz"
)

type createChoiceReq struct {
	QuestionID int64  `json:"question_id" validate:"required,gt=0"`
	Text       string `json:"choice_text" validate:"required,max=1000"`
	IsCorrect  bool   `json:"is_correct"`
}

type updateChoiceReq struct {
	Text      string `json:"choice_text" validate:"required,max=1000"`
	IsCorrect bool   `json:"is_correct"`
}

// POST /choices. A question takes at most one correct choice.
func CreateChoiceHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createChoiceReq
		if err := decode(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		if _, err := ownQuestion(r, store, req.QuestionID); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		c, err := store.CreateChoice(r.Context(), quiz.Choice{
			QuestionID: req.QuestionID,
			Text:       req.Text,
			IsCorrect:  req.IsCorrect,
		})
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, c)
	}
}

// GET /choices/{id}, where id is a question.
func QuestionChoicesHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		if _, err := store.GetQuestion(r.Context(), id); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		cs, err := store.ListChoicesByQuestion(r.Context(), id)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		writeChoices(w, r, cs)
	}
}

func QuizChoicesHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "quizID")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		cs, err := store.ListChoicesByQuiz(r.Context(), id)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		writeChoices(w, r, cs)
	}
}

// GET /choices-correct/{quizID}. Instructors only.
func CorrectChoicesHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "quizID")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		cs, err := store.CorrectChoices(r.Context(), id)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, cs)
	}
}

// ownChoice loads a choice whose quiz the caller owns.
func ownChoice(r *http.Request, store quiz.Store, id int64) (quiz.Choice, error) {
	c, err := store.GetChoice(r.Context(), id)
	if err != nil {
		return quiz.Choice{}, err
	}
	if _, err := ownQuestion(r, store, c.QuestionID); err != nil {
		return quiz.Choice{}, err
	}
	return c, nil
}

// PUT /choices/{id}, where id is a choice. Marking it correct moves the flag
// from its sibling.
func UpdateChoiceHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		if _, err := ownChoice(r, store, id); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		var req updateChoiceReq
		if err := decode(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		c, err := store.UpdateChoice(r.Context(), quiz.Choice{ID: id, Text: req.Text, IsCorrect: req.IsCorrect})
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, c)
	}
}

func DeleteChoiceHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		if _, err := ownChoice(r, store, id); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		if err := store.DeleteChoice(r.Context(), id); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeChoices(w http.ResponseWriter, r *http.Request, cs []quiz.Choice) {
	if isStudent(r) {
		for i := range cs {
			cs[i].IsCorrect = false
		}
	}
	httpx.WriteJSON(w, http.StatusOK, cs)
}
