package app

import (
	"time"

	"github.com/pkg/errors"

	"campusgpt/api"
	"campusgpt/internal/configuration"
	"campusgpt/store"
)

// App holds the shared dependencies of every command. It is constructed once
// per invocation and passed explicitly; there are no hidden singletons.
type App struct {
	Config *configuration.Config
	Client *api.Client
	Cache  *store.Store
}

func NewApp(config *configuration.Config) (*App, error) {
	cache, err := store.New(config.Database)
	if err != nil {
		return nil, errors.Wrap(err, "opening cache")
	}

	client := api.New(
		config.APIBaseURL,
		config.UserID,
		time.Duration(config.RequestTimeout)*time.Second,
	)

	return &App{
		Config: config,
		Client: client,
		Cache:  cache,
	}, nil
}

// RevealInterval returns the configured reveal delay.
func (a *App) RevealInterval() time.Duration {
	return time.Duration(a.Config.RevealIntervalMs) * time.Millisecond
}

// Close releases the app's resources.
func (a *App) Close() error {
	return a.Cache.Close()
}
