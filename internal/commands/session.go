package commands

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/diogo/companion/internal/api"
	"github.com/diogo/companion/internal/chat"
	"github.com/diogo/companion/internal/config"
	"github.com/diogo/companion/internal/models"
)

// connect loads cookies from disk and returns an initialized API client.
// autoRefresh keeps the session cookie rotating for long-lived chats.
func connect(autoRefresh bool) (*api.Client, error) {
	cookies, err := config.LoadCookies()
	if err != nil {
		return nil, err
	}

	client, err := api.NewClient(cookies,
		api.WithAutoRefresh(autoRefresh),
		api.WithLogger(log.Logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	if err := client.Init(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// resolvePersona returns the system prompt for the --persona flag, or the
// configured persona when the flag is empty.
func resolvePersona(cfg *config.Config) (string, error) {
	name := personaFlag
	if name == "" && cfg != nil {
		name = cfg.PersonaName
	}
	return config.ResolveSystemPrompt(name, time.Now())
}

// newStore wires a conversation store whose sessions talk to the client.
func newStore(client *api.Client, model models.Model, persona string) *chat.Store {
	factory := func(m models.Model) chat.Upstream {
		return api.NewSession(client, m, persona)
	}
	return chat.NewStore(factory, model, chat.WithLogger(log.Logger))
}
