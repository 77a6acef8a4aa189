// Package logger provides the zap logger shared by the social login service.
//
// # Design Decisions
//
//   - Singleton: una sola instancia global inicializada con Init().
//   - Context Scoping: cada request lleva su propio logger "scoped" con request_id,
//     método y path, sin crear un nuevo core.
//   - Environments: "dev" usa consola con colores, "prod" usa JSON.
//   - PII: los emails se loguean enmascarados (EmailMasked), nunca en claro.
//
// # Usage
//
// Inicialización (una vez en main.go):
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
//	defer logger.Sync()
//
// En services (con contexto):
//
//	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("social.facebook"))
//	log.Info("account reconciled", logger.UserID(id))
package logger
