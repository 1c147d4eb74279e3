package handlers

import (
	"net/http"

	"cinelog/middleware"
)

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())

	stats, err := h.library.Stats(user.ID)
	if err != nil {
		h.flashError(w, r, err)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.render(w, r, "dashboard", map[string]interface{}{
		"Stats": stats,
	})
}
