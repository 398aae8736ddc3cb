package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	authmw "github.com/mind-engage/mentoring-core/internal/auth/middleware"
	"github.com/mind-engage/mentoring-core/internal/mentoring"
	"github.com/mind-engage/mentoring-core/internal/question"
)

// SubmitHandler runs a standard-mode submission. The body is the ordered
// payload: [{"question_id": "...", "value": ...}, ...].
func SubmitHandler(svc *mentoring.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blockID := chi.URLParam(r, "blockID")
		userID := authmw.SubjectFromContext(r.Context())
		var payload mentoring.Payload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		resp, err := svc.Submit(r.Context(), blockID, userID, r.URL.Query().Get("course"), payload)
		if err != nil {
			writeSubmitErr(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// SubmitStepHandler runs one assessment-mode step submission.
func SubmitStepHandler(svc *mentoring.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blockID := chi.URLParam(r, "blockID")
		userID := authmw.SubjectFromContext(r.Context())
		var item mentoring.SubmissionItem
		if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		resp, err := svc.SubmitStep(r.Context(), blockID, userID, r.URL.Query().Get("course"), item)
		if err != nil {
			writeSubmitErr(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func TryAgainHandler(svc *mentoring.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blockID := chi.URLParam(r, "blockID")
		userID := authmw.SubjectFromContext(r.Context())
		resp, err := svc.TryAgain(r.Context(), blockID, userID)
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// GetStateHandler replays the stored state for re-render, without
// re-grading anything.
func GetStateHandler(svc *mentoring.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blockID := chi.URLParam(r, "blockID")
		userID := authmw.SubjectFromContext(r.Context())
		view, err := svc.GetState(r.Context(), blockID, userID, r.URL.Query().Get("course"))
		if err != nil {
			http.Error(w, err.Error(), 404)
			return
		}
		_ = json.NewEncoder(w).Encode(view)
	}
}

// writeSubmitErr maps rejected operations to structured JSON errors. The
// client is expected to have prevented these; they are defensive backstops.
func writeSubmitErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, mentoring.ErrMaxAttemptsReached),
		errors.Is(err, mentoring.ErrDependencyUnmet):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
	case errors.Is(err, question.ErrOutOfRange),
		errors.Is(err, question.ErrBadValue),
		errors.Is(err, mentoring.ErrUnknownQuestion),
		errors.Is(err, mentoring.ErrWrongMode):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
	default:
		http.Error(w, err.Error(), 400)
	}
}
