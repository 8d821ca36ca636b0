package config

import "time"

type Config struct {
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	HTTP      HTTP
	Mongo     Mongo
	Identity  Identity
	Storage   Storage
	Mail      Mail
	Telegram  Telegram
	Export    Export
	Jobs      Jobs
}

type HTTP struct {
	Addr      string `env:"HTTP_ADDR" envDefault:":8080"`
	JWTSecret string `env:"JWT_SECRET,required,notEmpty"`
	// PublicURL is the base of signed download links
	PublicURL string `env:"PUBLIC_URL" envDefault:"http://localhost:8080"`
}

type Mongo struct {
	URI        string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	Database   string `env:"MONGO_DATABASE" envDefault:"budget"`
	Collection string `env:"MONGO_COLLECTION" envDefault:"documents"`
}

type Identity struct {
	Driver           string `env:"IDENTITY_DRIVER" envDefault:"postgres"` // postgres or sqlite
	PostgresEndpoint string `env:"POSTGRES_ENDPOINT"`
	// LockConns bounds the separate pool holding account locks
	LockConns        int    `env:"POSTGRES_LOCK_CONNS" envDefault:"16"`
	SQLitePath       string `env:"SQLITE_PATH" envDefault:"identity.db"`
}

type Storage struct {
	Root       string `env:"STORAGE_ROOT" envDefault:"./bucket"`
	SigningKey string `env:"STORAGE_SIGNING_KEY"`
}

type Mail struct {
	Host     string `env:"SMTP_HOST" envDefault:"localhost"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"MAIL_FROM" envDefault:"\"BudgetByMe\" <noreply@BudgetByMe.com>"`
}

// Telegram is used only for ops alerts, the bot is disabled when the token is empty
type Telegram struct {
	Token       string `env:"TG_TOKEN"`
	AlertChatID int64  `env:"TG_ALERT_CHAT_ID"`
}

type Export struct {
	TempDir       string        `env:"EXPORT_TEMP_DIR"`
	LinkTTL       time.Duration `env:"EXPORT_LINK_TTL" envDefault:"168h"`
	CleanInterval time.Duration `env:"EXPORT_CLEAN_INTERVAL" envDefault:"1h"`
}

type Jobs struct {
	Concurrency int           `env:"JOB_CONCURRENCY" envDefault:"8"`
	Timeout     time.Duration `env:"JOB_TIMEOUT" envDefault:"9m"`
}
