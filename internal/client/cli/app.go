package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Divert12/divert-ai-crew/internal/client/api"
	"github.com/Divert12/divert-ai-crew/internal/client/config"
	"github.com/Divert12/divert-ai-crew/internal/client/models"
	"github.com/Divert12/divert-ai-crew/internal/client/session"
	"github.com/Divert12/divert-ai-crew/internal/client/storage"
	"github.com/Divert12/divert-ai-crew/internal/logging"
)

// backend is the part of the API client used by the store, team,
// workflow and integration commands. *api.Client implements it.
type backend interface {
	Catalog(ctx context.Context, category string) (*models.Catalog, error)
	ListTeams(ctx context.Context) ([]models.TeamInstance, error)
	AddCrewTeam(ctx context.Context, crewID int, name string) (*models.TeamInstance, error)
	RunTeam(ctx context.Context, teamID, topic string) (*models.ExecutionResult, error)
	RenameTeam(ctx context.Context, teamID, name string) (*models.TeamInstance, error)
	RemoveTeam(ctx context.Context, teamID string) (string, error)
	ListIntegrations(ctx context.Context) ([]models.Integration, error)
	ConfigureIntegration(ctx context.Context, service string, creds map[string]string) (*models.IntegrationStatus, error)
	Categories(ctx context.Context) (*models.Categories, error)
	AddWorkflowTeam(ctx context.Context, workflowID int, name string) (*models.TeamInstance, error)
	CloneWorkflow(ctx context.Context, template string, creds map[string]string) (*models.CloneResult, error)
	GetWorkflow(ctx context.Context, id int) (*models.WorkflowDetails, error)
	ExecuteWorkflow(ctx context.Context, id int, inputs map[string]any) (*models.WorkflowExecution, error)
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	session *session.Manager
	backend backend
	closer  io.Closer
	reader  *bufio.Reader
	out     io.Writer
}

// NewApp builds the client: logger, session storage, API client and the
// session manager, with the manager acting as the client's token source.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewTextLogger(os.Stderr, c.LogLevel)

	store, closer, err := openStore(ctx, c)
	if err != nil {
		logger.Error(ctx, "error opening session storage", "path", c.StoragePath, "error", err)
		return nil, err
	}

	apiClient, err := api.New(c.APIBaseURL,
		api.WithTimeout(c.RequestTimeout),
		api.WithLogger(logger.With("component", "api")),
	)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, err
	}

	mgr := session.NewManager(store, apiClient, logger.With("component", "session"))
	apiClient.SetTokenSource(mgr)

	return &App{
		config:  c,
		logger:  logger,
		session: mgr,
		backend: apiClient,
		closer:  closer,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

func openStore(ctx context.Context, c *config.Config) (storage.Store, io.Closer, error) {
	if c.StorageMode == config.StorageMemory {
		return storage.NewMemoryStore(), nil, nil
	}
	s, err := storage.OpenSQLite(ctx, c.StoragePath)
	if err != nil {
		return nil, nil, err
	}
	return s, s, nil
}

// Run restores the previous session and serves the REPL until the user
// exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	ctx = session.NewContext(ctx, a.session)
	unsubscribe := a.session.Subscribe(a.onSessionChange(ctx))
	defer unsubscribe()

	fmt.Fprintln(a.out, "Welcome to divert (type 'help' for commands)")
	a.session.Initialize(ctx)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close() {
	if a.closer == nil {
		return
	}
	if err := a.closer.Close(); err != nil {
		a.logger.Error(context.Background(), "closing session storage", "error", err)
	}
	a.closer = nil
}

func (a *App) onSessionChange(ctx context.Context) func(session.State) {
	return func(s session.State) {
		if s.IsAuthenticated {
			a.logger.Debug(ctx, "session changed", "authenticated", true, "username", s.User.Username)
			return
		}
		a.logger.Debug(ctx, "session changed", "authenticated", false)
	}
}

func (a *App) isLoggedIn() bool {
	s := a.session.State()
	return s.IsAuthenticated && !s.IsInitializing
}

func (a *App) getStatus() string {
	s := a.session.State()
	switch {
	case s.IsInitializing:
		return "(initializing)"
	case s.IsAuthenticated && s.User != nil:
		return fmt.Sprintf("(%s)", s.User.Username)
	default:
		return ""
	}
}
