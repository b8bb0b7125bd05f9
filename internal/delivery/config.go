package delivery

// Config holds sender configuration, read from the environment.
// The server token is optional so that development runs can use the
// dev sender without credentials.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	From                 string `env:"FROM"`
	ReplyTo              string `env:"REPLY_TO"`
	TrackOpens           bool   `env:"TRACK_OPENS" envDefault:"true"`
}
