package http

import (
	"net/http"

	"github.com/mind-engage/quizsystem/internal/httpx"
	"github.com/mind-engage/quizsystem/internal/quiz"
)

type createResultReq struct {
	StudentID int64 `json:"student_id" validate:"required,gt=0"`
	QuizID    int64 `json:"quiz_id" validate:"required,gt=0"`
	Score     int   `json:"score" validate:"min=0"`
}

type updateResultReq struct {
	Score int `json:"score" validate:"min=0"`
}

type overallScoreResp struct {
	QuizID       int64  `json:"quiz_id"`
	AverageScore string `json:"average_score"`
	Results      int    `json:"results"`
}

// POST /result records a score directly, bypassing grading. Only the quiz's
// instructor may do so.
func CreateResultHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createResultReq
		if err := decode(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		if _, err := requireQuizOwner(r, store, req.QuizID); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		res, err := store.RecordResult(r.Context(), quiz.Result{StudentID: req.StudentID, QuizID: req.QuizID, Score: req.Score})
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, res)
	}
}

func StudentResultsHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "studentID")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		rs, err := store.ResultsByStudent(r.Context(), id)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, rs)
	}
}

func QuizResultsHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "quizID")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		rs, err := store.ResultsByQuiz(r.Context(), id)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, rs)
	}
}

// GET /result/{id}/overall-score, where id is a quiz. The average is a
// decimal string rounded to two places.
func OverallScoreHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		if _, err := store.GetQuiz(r.Context(), id); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		avg, err := store.AverageScore(r.Context(), id)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		rs, err := store.ResultsByQuiz(r.Context(), id)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, overallScoreResp{
			QuizID:       id,
			AverageScore: avg.StringFixed(2),
			Results:      len(rs),
		})
	}
}

// ownResult loads a result of a quiz the caller owns.
func ownResult(r *http.Request, store quiz.Store, id int64) (quiz.Result, error) {
	res, err := store.GetResult(r.Context(), id)
	if err != nil {
		return quiz.Result{}, err
	}
	if _, err := requireQuizOwner(r, store, res.QuizID); err != nil {
		return quiz.Result{}, err
	}
	return res, nil
}

func UpdateResultHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		if _, err := ownResult(r, store, id); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		var req updateResultReq
		if err := decode(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		res, err := store.UpdateResult(r.Context(), id, req.Score)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, res)
	}
}

func DeleteResultHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		if _, err := ownResult(r, store, id); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		if err := store.DeleteResult(r.Context(), id); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
