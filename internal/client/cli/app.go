package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/artfolio/internal/client/client"
	"github.com/dmitrijs2005/artfolio/internal/client/config"
	"github.com/dmitrijs2005/artfolio/internal/client/credentials"
	"github.com/dmitrijs2005/artfolio/internal/client/services"
	"github.com/dmitrijs2005/artfolio/internal/logging"

	_ "modernc.org/sqlite"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	store   *credentials.SharedStore
	auth    services.AuthService
	gallery services.GalleryService
	reader  *bufio.Reader
	out     io.Writer

	// busy is set while a REPL command runs, so that session changes caused
	// by the command itself are not announced as foreign ones.
	busy     atomic.Bool
	lastAuth atomic.Bool
}

// NewApp opens the local credential database and wires the API client,
// the session controller and the gallery service on top of it.
func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	ctx := context.Background()

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	store := credentials.NewSharedStore(db, c.DatabasePath, c.WatchInterval, logger)

	api := client.NewHTTPClient(client.Config{
		BaseURL:    c.APIBaseURL,
		Timeout:    c.RequestTimeout,
		MaxRetries: c.MaxRetries,
		RetryDelay: c.RetryDelay,
	}, store, logger)

	a := &App{
		config: c,
		logger: logger,
		db:     db,
		store:  store,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
	a.auth = services.NewAuthService(api, store, store, a, services.DefaultRoutes(), logger)
	a.gallery = services.NewGalleryService(api, c.APIBaseURL, logger)

	return a, nil
}

// Run starts the credential watcher and the auto-refresh loop, derives the
// initial session and serves the REPL until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := a.store.Run(ctx); err != nil {
			a.logger.Error(ctx, "credential watcher stopped", "error", err)
		}
	}()
	go func() {
		defer wg.Done()
		a.auth.RunAutoRefresh(ctx, a.config.WatchInterval, a.config.RefreshLeeway)
	}()

	unsub := a.auth.Subscribe(a.announce)

	printlnFn("Welcome to artfolio (type 'help' for commands)")
	a.setBusy(true)
	a.auth.Mount(ctx)
	a.setBusy(false)

	runREPL(ctx, a, a.status, a.reader)

	unsub()
	cancel()
	wg.Wait()
}

// Close releases the session controller and the database.
func (a *App) Close() error {
	a.auth.Close()
	return a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return a.auth.State().IsAuthenticated
}

func (a *App) setBusy(b bool) {
	a.busy.Store(b)
	if !b {
		a.lastAuth.Store(a.auth.State().IsAuthenticated)
	}
}

func (a *App) status() string {
	st := a.auth.State()
	switch {
	case st.Loading:
		return st.Phase.String()
	case st.IsAuthenticated && st.User != nil:
		return st.User.Email
	default:
		return "anonymous"
	}
}

// Navigate implements services.Navigator by telling the user where the
// session wants them to go.
func (a *App) Navigate(route string) {
	routes := services.DefaultRoutes()
	switch route {
	case routes.Profile:
		if u := a.auth.State().User; u != nil {
			fmt.Fprintf(a.out, "Welcome, %s!\n", displayName(u.FullName, u.Username, u.Email))
		}
	case routes.Login:
		fmt.Fprintln(a.out, "You need to log in first (type 'login').")
	case routes.Home:
		fmt.Fprintln(a.out, "Logged out.")
	}
}

// announce reports session changes that did not come from a REPL command,
// such as a login or logout in another artfolio process.
func (a *App) announce(st services.State) {
	if st.Loading || a.busy.Load() {
		return
	}
	if a.lastAuth.Swap(st.IsAuthenticated) == st.IsAuthenticated {
		return
	}
	if st.IsAuthenticated && st.User != nil {
		fmt.Fprintf(a.out, "\n[session] signed in as %s elsewhere\n", st.User.Email)
	} else {
		fmt.Fprintln(a.out, "\n[session] signed out elsewhere")
	}
}
