package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"microblog/internal/models"
)

type PostsResponse struct {
	Posts []models.Post `json:"posts"`
}

type PostResponse struct {
	Success bool         `json:"success"`
	Post    *models.Post `json:"post"`
}

type FeedResponse struct {
	Posts []models.FeedPost `json:"posts"`
}

func (h *Handlers) GetPosts(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}

	posts, err := h.PostService.ListByOwner(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}

	WriteJSON(w, PostsResponse{Posts: posts}, http.StatusOK)
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}

	var req models.PostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	post, err := h.PostService.Create(r.Context(), userID, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	WriteJSON(w, PostResponse{Success: true, Post: post}, http.StatusCreated)
}

func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}

	var req models.PostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	post, err := h.PostService.Update(r.Context(), userID, mux.Vars(r)["id"], req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	WriteJSON(w, PostResponse{Success: true, Post: post}, http.StatusOK)
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}

	if err := h.PostService.Delete(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	WriteJSON(w, MessageResponse{Success: true}, http.StatusOK)
}

// GetFeed is public: the newest posts of all users.
func (h *Handlers) GetFeed(w http.ResponseWriter, r *http.Request) {
	posts, err := h.PostService.Feed(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if posts == nil {
		posts = []models.FeedPost{}
	}

	WriteJSON(w, FeedResponse{Posts: posts}, http.StatusOK)
}
