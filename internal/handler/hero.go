package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/PixVoxGames/0pg/internal/hero"
	"github.com/PixVoxGames/0pg/internal/logger"
)

// RegisterHeroRequest represents the request to create a hero for a chat.
type RegisterHeroRequest struct {
	ChatID int64  `json:"chat_id" validate:"required"`
	Name   string `json:"name" validate:"required,min=2,max=32,excludesall=<>"`
}

// HandleRegisterHero creates a hero and returns the first prompt.
func HandleRegisterHero(heroService hero.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req RegisterHeroRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode register hero request", "error", err)
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if err := GetValidator().ValidateStruct(req); err != nil {
			log.Warn("Invalid register hero request", "errors", FormatValidationError(err))
			respondJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":  ErrMsgInvalidRequestError,
				"fields": FormatValidationError(err),
			})
			return
		}

		reply, err := heroService.Register(r.Context(), req.ChatID, req.Name)
		if err != nil {
			log.Error("Failed to register hero", "error", err, "name", req.Name)
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}

		log.Info("Hero registered", "chat_id", req.ChatID, "name", req.Name)
		respondJSON(w, http.StatusCreated, reply)
	}
}

// HandleGetStatus returns the hero summary for a chat.
func HandleGetStatus(heroService hero.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		chatID, ok := chatIDParam(w, r)
		if !ok {
			return
		}

		view, err := heroService.Status(r.Context(), chatID)
		if err != nil {
			log.Error("Failed to get hero status", "error", err, "chat_id", chatID)
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}

		respondJSON(w, http.StatusOK, view)
	}
}

// HandleGetInventory returns the hero's owned items grouped by prototype.
func HandleGetInventory(heroService hero.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		chatID, ok := chatIDParam(w, r)
		if !ok {
			return
		}

		items, err := heroService.Inventory(r.Context(), chatID)
		if err != nil {
			log.Error("Failed to get inventory", "error", err, "chat_id", chatID)
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}

		log.Info("Inventory retrieved", "chat_id", chatID, "count", len(items))
		respondJSON(w, http.StatusOK, items)
	}
}

// CancelRequest represents the request to abort the hero's engagement.
type CancelRequest struct {
	ChatID int64 `json:"chat_id" validate:"required"`
}

// HandleCancel aborts a cancellable engagement.
func HandleCancel(heroService hero.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req CancelRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode cancel request", "error", err)
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := GetValidator().ValidateStruct(req); err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":  ErrMsgInvalidRequestError,
				"fields": FormatValidationError(err),
			})
			return
		}

		reply, err := heroService.Cancel(r.Context(), req.ChatID)
		if err != nil {
			log.Error("Failed to cancel", "error", err, "chat_id", req.ChatID)
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}

		respondJSON(w, http.StatusOK, reply)
	}
}

// chatIDParam extracts and validates the chat_id query parameter.
func chatIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.URL.Query().Get("chat_id")
	if raw == "" {
		respondError(w, http.StatusBadRequest, "chat_id is required")
		return 0, false
	}
	chatID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "chat_id must be an integer")
		return 0, false
	}
	return chatID, true
}
