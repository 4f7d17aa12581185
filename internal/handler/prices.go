package handler

import (
	"net/http"
	"strconv"

	"github.com/PixVoxGames/0pg/internal/economy"
	"github.com/PixVoxGames/0pg/internal/logger"
)

// HandleGetPrices returns the stock and prices at a shop location.
func HandleGetPrices(svc economy.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		raw := r.URL.Query().Get("location_id")
		if raw == "" {
			respondError(w, http.StatusBadRequest, "location_id is required")
			return
		}
		locationID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "location_id must be an integer")
			return
		}

		prices, err := svc.ListPrices(r.Context(), locationID)
		if err != nil {
			log.Error("Failed to list prices", "error", err, "location_id", locationID)
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}

		log.Info("Prices retrieved", "location_id", locationID, "count", len(prices))
		respondJSON(w, http.StatusOK, prices)
	}
}
