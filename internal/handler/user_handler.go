package handlers

import (
	"net/http"

	"microblog/internal/models"
)

type ProfileResponse struct {
	Success bool                 `json:"success"`
	User    models.PublicProfile `json:"user"`
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}

	var req models.ProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.UserService.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	WriteJSON(w, ProfileResponse{Success: true, User: user.Public()}, http.StatusOK)
}
