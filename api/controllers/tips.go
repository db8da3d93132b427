package controllers

import (
	"net/http"

	"github.com/bernardo0921/AgriGuide-Backend/api/responses"
	"github.com/bernardo0921/AgriGuide-Backend/internal/tips"
	pkgerrors "github.com/bernardo0921/AgriGuide-Backend/pkg/errors"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/logger"
)

// FarmingTip serves the tip of the day. The service degrades through its
// fallback chain internally, so a tip always comes back with status 200.
func FarmingTip(svc *tips.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tips service unavailable"))
			return
		}

		responses.WriteSuccess(w, svc.DailyTip(r.Context()))
	}
}
