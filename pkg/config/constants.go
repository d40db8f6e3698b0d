package config

// EnvPrefix is the envconfig prefix; all variables are fully qualified in
// struct tags, so the prefix itself stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "STOREFRONT_APP_ENV"
	EnvPort     = "STOREFRONT_APP_PORT"
	EnvDBDSN    = "STOREFRONT_DB_DSN"
	EnvDBHost   = "STOREFRONT_DB_HOST"
	EnvDBUser   = "STOREFRONT_DB_USER"
	EnvDBName   = "STOREFRONT_DB_NAME"
	EnvRedisURL = "STOREFRONT_REDIS_URL"

	EnvPricingVATRate     = "STOREFRONT_PRICING_VAT_RATE"
	EnvPricingDeliveryFee = "STOREFRONT_PRICING_DELIVERY_FLAT_FEE"
)

var componentDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
