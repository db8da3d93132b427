package controllers

import (
	"net/http"

	"github.com/bernardo0921/AgriGuide-Backend/api/responses"
	"github.com/bernardo0921/AgriGuide-Backend/api/validators"
	"github.com/bernardo0921/AgriGuide-Backend/internal/auth"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/enums"
	pkgerrors "github.com/bernardo0921/AgriGuide-Backend/pkg/errors"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/logger"
)

// RegisterFarmer onboards a farmer account and returns a bearer token.
func RegisterFarmer(reg auth.RegisterService, logg *logger.Logger) http.HandlerFunc {
	return registerAs(reg, logg, enums.UserTypeFarmer, "Registration successful")
}

// RegisterExtensionWorker onboards an extension worker account. The account is
// created unapproved and awaits manual review.
func RegisterExtensionWorker(reg auth.RegisterService, logg *logger.Logger) http.HandlerFunc {
	return registerAs(reg, logg, enums.UserTypeExtensionWorker, "Registration successful. Your account is pending approval.")
}

func registerAs(reg auth.RegisterService, logg *logger.Logger, userType enums.UserType, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if reg == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// The route decides the account type. A payload claiming otherwise
		// is rejected rather than silently overridden.
		if body.UserType != "" && body.UserType != string(userType) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "user_type does not match registration endpoint"))
			return
		}
		body.UserType = string(userType)

		result, err := reg.Register(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"message": message,
			"token":   result.Token,
			"user":    result.User,
		})
	}
}
