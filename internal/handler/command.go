package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/PixVoxGames/0pg/internal/domain"
	"github.com/PixVoxGames/0pg/internal/hero"
	"github.com/PixVoxGames/0pg/internal/logger"
)

// CommandRequest represents one player message routed into the game.
type CommandRequest struct {
	ChatID int64  `json:"chat_id" validate:"required"`
	Text   string `json:"text" validate:"required,max=128"`
}

// HandleCommand routes a chat message through the hero state machine and
// returns the game's reply. Rejected actions come back 200 with an
// explanatory reply; errors mean the command did not reach the game.
func HandleCommand(heroService hero.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req CommandRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode command request", "error", err)
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if err := GetValidator().ValidateStruct(req); err != nil {
			log.Warn("Invalid command request", "errors", FormatValidationError(err))
			respondJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":  ErrMsgInvalidRequestError,
				"fields": FormatValidationError(err),
			})
			return
		}

		reply, err := heroService.HandleCommand(r.Context(), req.ChatID, req.Text)
		if err != nil {
			if errors.Is(err, domain.ErrHeroNotFound) {
				respondError(w, http.StatusNotFound, ErrMsgHeroNotFoundError)
				return
			}
			log.Error("Failed to handle command", "error", err, "chat_id", req.ChatID)
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}

		respondJSON(w, http.StatusOK, reply)
	}
}
