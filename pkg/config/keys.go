package config

// EnvPrefix is empty because every field spells out its SIMKEMAS_* name.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv    = "SIMKEMAS_APP_ENV"
	EnvPort      = "SIMKEMAS_APP_PORT"
	EnvDBDSN     = "SIMKEMAS_DB_DSN"
	EnvDBHost    = "SIMKEMAS_DB_HOST"
	EnvDBUser    = "SIMKEMAS_DB_USER"
	EnvDBName    = "SIMKEMAS_DB_NAME"
	EnvRedisURL  = "SIMKEMAS_REDIS_URL"
	EnvJWTSecret = "SIMKEMAS_JWT_SECRET"
	EnvJWTIssuer = "SIMKEMAS_JWT_ISSUER"
	EnvJWTExpMin = "SIMKEMAS_JWT_EXPIRATION_MINUTES"

	EnvStrictTransitions    = "SIMKEMAS_FEATURE_STRICT_TRANSITIONS"
	EnvRecordPickupPayments = "SIMKEMAS_FEATURE_RECORD_PICKUP_PAYMENTS"
	EnvLoginWindow          = "SIMKEMAS_AUTH_RATE_LIMIT_LOGIN_WINDOW"
	EnvLoginIPLimit         = "SIMKEMAS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT"
	EnvCORSAllowedOrigins   = "SIMKEMAS_CORS_ALLOWED_ORIGINS"
	EnvTrustProxy           = "SIMKEMAS_TRUST_PROXY"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
