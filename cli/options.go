package cli

import (
	"github.com/rs/zerolog"
	"github.com/viant/detect"
)

type Options struct {
	URL       string `short:"u" long:"url" env:"DETECT_API_URL" default:"http://localhost:8000" description:"detection backend url"`
	Store     string `short:"s" long:"store" env:"DETECT_STORE" default:"file" choice:"memory" choice:"file" choice:"bolt" choice:"redis" description:"credential persistence"`
	StorePath string `long:"store-path" env:"DETECT_STORE_PATH" description:"file store directory or bolt database path, defaults under ~/.detectctl"`
	RedisAddr string `long:"redis-addr" env:"DETECT_REDIS_ADDR" default:"localhost:6379" description:"redis address for the redis store"`

	Login   LoginCommand   `command:"login" description:"sign in and persist the session"`
	Logout  struct{}       `command:"logout" description:"end the session"`
	Status  struct{}       `command:"status" description:"show the session state"`
	Upload  UploadCommand  `command:"upload" description:"upload an image and run detection"`
	Results struct{}       `command:"results" description:"list detections, newest first"`
	Result  ResultCommand  `command:"result" description:"show a single detection"`
	Summary SummaryCommand `command:"summary" description:"show detection analytics"`
}

type LoginCommand struct {
	Username string `short:"U" long:"username" env:"DETECT_USERNAME" description:"account name"`
	Password string `short:"P" long:"password" env:"DETECT_PASSWORD" description:"account password"`
}

type UploadCommand struct {
	Args struct {
		Location string `positional-arg-name:"image" description:"jpg or png image, local path or any afs url"`
	} `positional-args:"yes" required:"yes"`
}

type ResultCommand struct {
	Args struct {
		ID string `positional-arg-name:"id"`
	} `positional-args:"yes" required:"yes"`
}

type SummaryCommand struct {
	Days int `short:"d" long:"days" default:"7" description:"range in days, 1 to 90"`
}

func (o *Options) clientOptions(logger zerolog.Logger) *detect.ClientOptions {
	return &detect.ClientOptions{
		URL: o.URL,
		Auth: &detect.ClientAuth{
			Store:     o.Store,
			StorePath: o.StorePath,
			RedisAddr: o.RedisAddr,
		},
		Logger: &logger,
	}
}
