package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mentoring-core/internal/mentoring"
	"github.com/mind-engage/mentoring-core/internal/question"
	"github.com/mind-engage/mentoring-core/internal/rbac"
)

// UpsertBlockHandler stores an authored block after validation.
func UpsertBlockHandler(store mentoring.BlockStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var b mentoring.Block
		if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if err := b.Validate(); err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		if err := store.PutBlock(r.Context(), b); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": b.ID})
	}
}

// GetBlockHandler serves a block definition. Students get a sanitized copy
// with answer keys and tips stripped.
func GetBlockHandler(store mentoring.BlockStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "blockID")
		b, err := store.GetBlock(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), 404)
			return
		}
		role := rbac.RoleFromContext(r.Context())
		if !rbac.NewChecker(nil).Has(role, "block:author") {
			b = sanitizeBlock(b)
		}
		_ = json.NewEncoder(w).Encode(b)
	}
}

func ListBlocksHandler(store mentoring.BlockStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		limit, _ := strconv.Atoi(q.Get("limit"))
		offset, _ := strconv.Atoi(q.Get("offset"))
		out, err := store.ListBlocks(r.Context(), mentoring.ListOpts{
			Q: q.Get("q"), Limit: limit, Offset: offset,
		})
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}

// sanitizeBlock hides grading data from students.
func sanitizeBlock(b mentoring.Block) mentoring.Block {
	qs := make([]question.Config, len(b.Questions))
	for i, qc := range b.Questions {
		qc.CorrectChoices = nil
		choices := make([]question.Choice, len(qc.Choices))
		for j, c := range qc.Choices {
			c.Tip = ""
			c.Selector = ""
			c.ReviewTip = ""
			choices[j] = c
		}
		qc.Choices = choices
		qs[i] = qc
	}
	b.Questions = qs
	return b
}
