package config

const (
	// AppName is the name of the application.
	AppName = "warden"

	// EnvBotToken is the environment variable for the bot token.
	EnvBotToken = `BOT_TOKEN`

	// EnvApplicationId is the environment variable for the application ID.
	EnvApplicationId = `APPLICATION_ID`

	// EnvStoreURL is the environment variable for the KV store base URL.
	EnvStoreURL = `STORE_URL`

	// EnvStoreAPIKey is the environment variable for the optional KV store API key.
	EnvStoreAPIKey = `STORE_API_KEY`

	// EnvMonitoringPort is the environment variable for the monitoring port.
	EnvMonitoringPort = `MONITORING_PORT`
)

var (
	// BotToken is the token for the bot.
	BotToken string

	// ApplicationId is the ID of the application.
	ApplicationId string

	// StoreURL is the base URL for the KV store.
	StoreURL string

	// StoreAPIKey is the optional API key for the KV store.
	StoreAPIKey string

	// MonitoringPort is the port for the monitoring server.
	MonitoringPort string
)
