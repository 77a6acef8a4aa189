package social

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/dropDatabas3/hellojohn-social/internal/domain/account"
	"github.com/dropDatabas3/hellojohn-social/internal/domain/repository"
	"github.com/dropDatabas3/hellojohn-social/internal/http/v2/providers"
	"github.com/dropDatabas3/hellojohn-social/internal/jwt"
	"github.com/dropDatabas3/hellojohn-social/internal/metrics"
	"github.com/dropDatabas3/hellojohn-social/internal/observability/logger"
)

// AccessTokenExpirationMs es la vigencia de todo access token emitido (30 minutos).
const AccessTokenExpirationMs int64 = 30 * 60 * 1000

const providerFacebook = "facebook"

// AccessCredential es la credencial firmada que recibe el cliente.
type AccessCredential struct {
	Token string
}

// FacebookAuthService autentica un token de Facebook y emite un access token.
type FacebookAuthService interface {
	// Perform retorna la credencial o ErrAuthentication si el token no se
	// pudo verificar. Fallos de store o firma retornan ErrAccountUnavailable
	// o ErrTokenIssue.
	Perform(ctx context.Context, clientToken string) (*AccessCredential, error)
}

// FacebookAuthDeps contiene las dependencias del orquestador.
type FacebookAuthDeps struct {
	Users    providers.UserLoader     // gateway de Facebook
	Accounts repository.AccountLoader // lectura por email
	Saver    repository.AccountSaver  // upsert
	Tokens   jwt.TokenIssuer
}

type facebookAuthService struct {
	users    providers.UserLoader
	accounts repository.AccountLoader
	saver    repository.AccountSaver
	tokens   jwt.TokenIssuer
}

// NewFacebookAuthService creates a new FacebookAuthService.
func NewFacebookAuthService(d FacebookAuthDeps) FacebookAuthService {
	return &facebookAuthService{
		users:    d.Users,
		accounts: d.Accounts,
		saver:    d.Saver,
		tokens:   d.Tokens,
	}
}

func (s *facebookAuthService) Perform(ctx context.Context, clientToken string) (*AccessCredential, error) {
	ctx, span := otel.Tracer("github.com/dropDatabas3/hellojohn-social/internal/http/v2/services/social").
		Start(ctx, "social.FacebookAuth.Perform")
	defer span.End()

	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("social.facebook"),
		logger.Op("Perform"),
	)

	if strings.TrimSpace(clientToken) == "" {
		metrics.SocialLoginAttempts.WithLabelValues(providerFacebook, metrics.OutcomeAuthFailed).Inc()
		span.SetStatus(codes.Error, "empty token")
		return nil, ErrAuthentication
	}

	// 1) Verificar el token con el proveedor
	profile, err := s.users.LoadUser(ctx, clientToken)
	if err != nil || profile == nil {
		log.Info("facebook token not verified", logger.Err(err))
		metrics.SocialLoginAttempts.WithLabelValues(providerFacebook, metrics.OutcomeAuthFailed).Inc()
		span.SetStatus(codes.Error, "authentication failed")
		return nil, ErrAuthentication
	}
	log = log.With(logger.ProviderID(profile.ProviderID))

	// 2) Cuenta existente por el email verificado
	existing, err := s.accounts.LoadByEmail(ctx, profile.Email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, s.fail(span, log, metrics.OutcomeAccountError, ErrAccountUnavailable, "load account", err)
		}
		existing = nil
	}

	// 3) Reconciliar y 4) persistir
	in := account.Reconcile(*profile, existing)
	userID, err := s.saver.Save(ctx, in)
	if err != nil {
		return nil, s.fail(span, log, metrics.OutcomeAccountError, ErrAccountUnavailable, "save account", err)
	}

	// 5) Emitir el access token para la cuenta persistida
	token, err := s.tokens.Issue(ctx, userID, AccessTokenExpirationMs)
	if err != nil {
		return nil, s.fail(span, log, metrics.OutcomeTokenError, ErrTokenIssue, "issue token", err)
	}

	metrics.SocialLoginAttempts.WithLabelValues(providerFacebook, metrics.OutcomeSuccess).Inc()
	log.Info("facebook login succeeded",
		logger.UserID(userID),
		logger.EmailMasked(profile.Email),
		logger.String("path", savePath(in)),
	)
	return &AccessCredential{Token: token}, nil
}

// fail loguea la causa, cuenta el resultado y la envuelve en el tipo de error.
func (s *facebookAuthService) fail(span trace.Span, log *zap.Logger, outcome string, kind error, what string, cause error) error {
	log.Error(what+" failed", logger.Err(cause))
	metrics.SocialLoginAttempts.WithLabelValues(providerFacebook, outcome).Inc()
	span.SetStatus(codes.Error, what)
	return fmt.Errorf("%w: %s: %w", kind, what, cause)
}

func savePath(in repository.UpsertAccountInput) string {
	if in.IsInsert() {
		return "insert"
	}
	return "update"
}
