// Package repository define los contratos de persistencia de cuentas.
//
// Las interfaces son angostas a propósito: el orquestador de login compone
// AccountLoader y AccountSaver por separado, y cada adapter en
// internal/store/v2/adapters/ implementa ambas.
//
//	┌─────────────────────────────────────────────────────┐
//	│        services/social (FacebookAuthService)        │
//	└─────────────────────────────────────────────────────┘
//	                        │
//	                        ▼
//	┌─────────────────────────────────────────────────────┐
//	│   domain/repository (AccountLoader, AccountSaver)   │
//	└─────────────────────────────────────────────────────┘
//	                        │
//	     ┌──────────────┬───┴──────────┬──────────────┐
//	     ▼              ▼              ▼              ▼
//	  memory           pg           sqlite          redis
//
// Convenciones:
//   - Context siempre es el primer parámetro
//   - Emails se comparan normalizados (trim + lower) por los adapters
package repository
