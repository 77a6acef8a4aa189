// Package social contiene los controllers de login social.
package social

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	dto "github.com/dropDatabas3/hellojohn-social/internal/http/v2/dto/social"
	httperrors "github.com/dropDatabas3/hellojohn-social/internal/http/v2/errors"
	svc "github.com/dropDatabas3/hellojohn-social/internal/http/v2/services/social"
	"github.com/dropDatabas3/hellojohn-social/internal/jwt"
	"github.com/dropDatabas3/hellojohn-social/internal/observability/logger"
)

// maxBodyBytes el body solo lleva un token.
const maxBodyBytes = 64 << 10

// FacebookController handles POST /v2/auth/social/facebook.
type FacebookController struct {
	service svc.FacebookAuthService
}

// NewFacebookController creates a new Facebook login controller.
func NewFacebookController(service svc.FacebookAuthService) *FacebookController {
	return &FacebookController{service: service}
}

// Login intercambia un token de Facebook por un access token propio.
func (c *FacebookController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("FacebookController.Login"))

	ct := strings.ToLower(r.Header.Get("Content-Type"))
	if !strings.Contains(ct, "application/json") {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("Content-Type debe ser application/json"))
		return
	}

	var req dto.FacebookLoginRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			httperrors.WriteError(w, httperrors.ErrBodyTooLarge)
		case errors.Is(err, io.EOF):
			httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("token is required"))
		default:
			httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		}
		return
	}

	token := strings.TrimSpace(req.Token)
	if token == "" {
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("token is required"))
		return
	}

	cred, err := c.service.Perform(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrAuthentication):
			httperrors.WriteError(w, httperrors.ErrAuthenticationFailed)
		case errors.Is(err, svc.ErrAccountUnavailable):
			log.Error("account store unavailable", logger.Err(err))
			httperrors.WriteError(w, httperrors.ErrServiceUnavailable.WithCause(err))
		default:
			log.Error("facebook login error", logger.Err(err))
			httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		}
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(dto.FacebookLoginResponse{
		AccessToken: cred.Token,
		TokenType:   "Bearer",
		ExpiresIn:   jwt.ExpiresInSeconds(svc.AccessTokenExpirationMs),
	})
}
