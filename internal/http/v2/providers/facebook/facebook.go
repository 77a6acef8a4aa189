// Package facebook implements the Facebook token exchange gateway.
//
// A user-presented access token is verified with a fixed three-step
// handshake against the Graph API:
//
//  1. app token:   GET {base}/oauth/access_token (client_credentials)
//  2. debug token: GET {base}/debug_token, resolves the token's user id
//  3. profile:     GET {base}/{user_id}?fields=id,name,email, authorized
//     with the client's own token
//
// Nothing is cached between calls; every LoadUser runs the three steps.
package facebook

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/dropDatabas3/hellojohn-social/internal/domain/account"
	"github.com/dropDatabas3/hellojohn-social/internal/http/v2/providers"
	"github.com/dropDatabas3/hellojohn-social/internal/metrics"
	"github.com/dropDatabas3/hellojohn-social/internal/observability/logger"
)

const (
	ProviderName   = "facebook"
	DefaultBaseURL = "https://graph.facebook.com"

	profileFields = "id,name,email"
)

// Pasos del intercambio, usados en logs, métricas y spans.
const (
	StepAppToken   = "app_token"
	StepDebugToken = "debug_token"
	StepProfile    = "profile"
)

// Config contiene las credenciales de la app de Facebook.
type Config struct {
	ClientID     string
	ClientSecret string
	BaseURL      string // default: DefaultBaseURL
}

// Provider implementa providers.UserLoader contra la Graph API.
type Provider struct {
	client       providers.GetClient
	clientID     string
	clientSecret string
	baseURL      string
	tracer       trace.Tracer
}

var _ providers.UserLoader = (*Provider)(nil)

// New crea el gateway. El cliente HTTP se inyecta para poder reemplazarlo.
func New(client providers.GetClient, cfg Config) *Provider {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return &Provider{
		client:       client,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		baseURL:      base,
		tracer:       otel.Tracer("github.com/dropDatabas3/hellojohn-social/internal/http/v2/providers/facebook"),
	}
}

func (p *Provider) Name() string { return ProviderName }

// LoadUser ejecuta los tres pasos en orden. Cualquier fallo corta el pipeline
// y se reporta como providers.ErrProfileUnavailable.
func (p *Provider) LoadUser(ctx context.Context, clientToken string) (*account.ProviderProfile, error) {
	ctx, span := p.tracer.Start(ctx, "facebook.LoadUser")
	defer span.End()

	log := logger.From(ctx).With(logger.Layer("provider"), logger.Component("facebook"))

	appToken, err := p.appToken(ctx)
	if err != nil {
		return nil, p.unavailable(span, log, StepAppToken, err)
	}

	userID, err := p.debugToken(ctx, appToken, clientToken)
	if err != nil {
		return nil, p.unavailable(span, log, StepDebugToken, err)
	}

	profile, err := p.profile(ctx, userID, clientToken)
	if err != nil {
		return nil, p.unavailable(span, log, StepProfile, err)
	}

	span.SetAttributes(attribute.String("facebook.user_id", profile.ProviderID))
	log.Debug("facebook profile loaded", logger.ProviderID(profile.ProviderID), logger.EmailMasked(profile.Email))
	return profile, nil
}

// appToken obtiene el token de aplicación (client_credentials).
func (p *Provider) appToken(ctx context.Context) (string, error) {
	res, err := p.get(ctx, StepAppToken, p.baseURL+"/oauth/access_token", map[string]string{
		"client_id":     p.clientID,
		"client_secret": p.clientSecret,
		"grant_type":    "client_credentials",
	})
	if err != nil {
		return "", err
	}
	tok := res.Get("access_token").String()
	if tok == "" {
		return "", fmt.Errorf("response has no access_token")
	}
	return tok, nil
}

// debugToken inspecciona el token del cliente con el token de app y retorna el user id.
func (p *Provider) debugToken(ctx context.Context, appToken, clientToken string) (string, error) {
	res, err := p.get(ctx, StepDebugToken, p.baseURL+"/debug_token", map[string]string{
		"access_token": appToken,
		"input_token":  clientToken,
	})
	if err != nil {
		return "", err
	}
	data := res.Get("data")
	if v := data.Get("is_valid"); v.Exists() && !v.Bool() {
		return "", fmt.Errorf("token reported invalid")
	}
	// Un token emitido para otra app no verifica identidad para esta.
	if v := data.Get("app_id"); v.Exists() && p.clientID != "" && v.String() != p.clientID {
		return "", fmt.Errorf("token issued for another app")
	}
	userID := data.Get("user_id").String()
	if userID == "" {
		return "", fmt.Errorf("response has no data.user_id")
	}
	return userID, nil
}

// profile lee id, name y email del usuario usando el token original del cliente.
func (p *Provider) profile(ctx context.Context, userID, clientToken string) (*account.ProviderProfile, error) {
	res, err := p.get(ctx, StepProfile, p.baseURL+"/"+userID, map[string]string{
		"fields":       profileFields,
		"access_token": clientToken,
	})
	if err != nil {
		return nil, err
	}
	out := &account.ProviderProfile{
		ProviderID: res.Get("id").String(),
		Name:       res.Get("name").String(),
		Email:      res.Get("email").String(),
	}
	switch {
	case out.ProviderID == "":
		return nil, fmt.Errorf("response has no id")
	case out.Email == "":
		return nil, fmt.Errorf("response has no email")
	case strings.TrimSpace(out.Name) == "":
		return nil, fmt.Errorf("response has no name")
	}
	return out, nil
}

// get hace un paso del pipeline y parsea el cuerpo como JSON.
func (p *Provider) get(ctx context.Context, step, url string, params map[string]string) (gjson.Result, error) {
	ctx, span := p.tracer.Start(ctx, "facebook."+step)
	defer span.End()

	start := time.Now()
	body, err := p.client.Get(ctx, url, params)
	metrics.ProviderStepSeconds.WithLabelValues(ProviderName, step).Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		return gjson.Result{}, err
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("response is not valid JSON")
	}
	return gjson.ParseBytes(body), nil
}

func (p *Provider) unavailable(span trace.Span, log *zap.Logger, step string, cause error) error {
	span.SetStatus(codes.Error, step)
	log.Warn("facebook verification failed", logger.Step(step), logger.Err(cause))
	return fmt.Errorf("%w: %s: %v", providers.ErrProfileUnavailable, step, cause)
}
