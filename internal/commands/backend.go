package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/maduarte/chatdeck/internal/api"
	"github.com/maduarte/chatdeck/internal/chat"
	"github.com/maduarte/chatdeck/internal/config"
	"github.com/maduarte/chatdeck/internal/models"
)

// clientBackend adapts *api.Client to the chat.Backend interface. The
// indirection exists because OpenStream returns the concrete *api.ChatStream.
type clientBackend struct {
	client *api.Client
}

func (b *clientBackend) FetchHistory(ctx context.Context, sessionID string) ([]models.Message, error) {
	return b.client.FetchHistory(ctx, sessionID)
}

func (b *clientBackend) OpenStream(ctx context.Context, sessionID, message string) (chat.DeltaStream, error) {
	stream, err := b.client.OpenStream(ctx, sessionID, message)
	if err != nil {
		return nil, err
	}
	return stream, nil
}

var _ chat.Backend = (*clientBackend)(nil)

// newAPIClient builds a client from the saved configuration and
// credentials. The caller owns Close.
func newAPIClient(cfg config.Config) (*api.Client, error) {
	creds, err := config.LoadCredentials()
	if err != nil {
		return nil, err
	}

	opts := []api.ClientOption{
		api.WithStreamTimeout(time.Duration(cfg.StreamTimeout) * time.Second),
		api.WithUnauthorizedHandler(func() {
			fmt.Fprintln(os.Stderr, "Session expired. Run 'chatdeck login' to sign in again.")
		}),
	}
	if cfg.Verbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			opts = append(opts, api.WithLogger(logger))
		}
	}

	return api.NewClient(cfg.BaseURL, creds, opts...)
}

// newAnonymousClient builds a client without stored credentials, for
// login and signup.
func newAnonymousClient(cfg config.Config) (*api.Client, error) {
	return api.NewClient(cfg.BaseURL, nil)
}

// resolveProject returns the project to operate on: the --project flag
// when set, otherwise the account's first project.
func resolveProject(ctx context.Context, client *api.Client) (*models.Project, error) {
	if projectFlag != "" {
		return client.GetProject(ctx, projectFlag)
	}

	projects, err := client.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, fmt.Errorf("no projects found; create one with 'chatdeck projects new'")
	}
	return &projects[0], nil
}

// resolveSession returns the session to chat in: the --session flag when
// set, otherwise a fresh session in the resolved project.
func resolveSession(ctx context.Context, client *api.Client) (*models.Session, error) {
	if sessionFlag != "" {
		sessions, err := client.ListSessions(ctx, "")
		if err != nil {
			return nil, err
		}
		for i := range sessions {
			if sessions[i].ID == sessionFlag {
				return &sessions[i], nil
			}
		}
		return nil, fmt.Errorf("session %q not found", sessionFlag)
	}

	project, err := resolveProject(ctx, client)
	if err != nil {
		return nil, err
	}
	return client.CreateSession(ctx, project.ID, "", getModel())
}
