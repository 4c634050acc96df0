package http

import (
	"context"
	"net/http"

	"github.com/mind-engage/quizsystem/internal/announcement"
	"github.com/mind-engage/quizsystem/internal/errors"
	"github.com/mind-engage/quizsystem/internal/httpx"
)

type AnnouncementStore interface {
	Save(ctx context.Context, a announcement.Announcement) (announcement.Announcement, error)
	ListForStudent(ctx context.Context, studentID int64) ([]announcement.Announcement, error)
	Get(ctx context.Context, id int64) (announcement.Announcement, error)
	Delete(ctx context.Context, id int64) error
}

type announcementReq struct {
	StudentID int64  `json:"student_id" validate:"required,gt=0"`
	Content   string `json:"content" validate:"required,max=4000"`
}

// POST /announcement. The caller is the author.
func CreateAnnouncementHandler(store AnnouncementStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := caller(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		var req announcementReq
		if err := decode(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		a, err := store.Save(r.Context(), announcement.Announcement{
			InstructorID: c.SubjectID,
			StudentID:    req.StudentID,
			Content:      req.Content,
		})
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, a)
	}
}

// GET /announcement/{id}, where id is a student.
func StudentAnnouncementsHandler(store AnnouncementStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		as, err := store.ListForStudent(r.Context(), id)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, as)
	}
}

// DELETE /announcement/{id}. Only the author may delete.
func DeleteAnnouncementHandler(store AnnouncementStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := caller(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		id, err := pathID(r, "id")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		a, err := store.Get(r.Context(), id)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		if a.InstructorID != c.SubjectID {
			httpx.WriteError(w, r, errors.New(errors.CodeForbidden,
				errors.WithMessagef("announcement %d belongs to another instructor", id)))
			return
		}
		if err := store.Delete(r.Context(), id); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
