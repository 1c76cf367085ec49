// Package ctlapp is the petnestctl admin console.
package ctlapp

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/petnest/petnest/internal/client"
	"github.com/petnest/petnest/internal/config"
	"github.com/petnest/petnest/internal/console"
	"github.com/petnest/petnest/internal/console/cachestore"
)

const tokenKey = "auth_token"

var ErrUsage = errors.New("usage")

type session struct {
	Token string `json:"token"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type App struct {
	cfg      config.Config
	logger   *zap.Logger
	out      io.Writer
	state    cachestore.Store
	cache    cachestore.Store
	api      *client.Client
	notifier console.Notifier
}

// New opens the local state file and, when configured, the shared Redis
// dashboard cache.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger, out, errOut io.Writer) (*App, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	api, err := client.New(cfg.Console.APIURL, cfg.Console.Timeout)
	if err != nil {
		return nil, fmt.Errorf("init api client: %w", err)
	}

	state, err := cachestore.OpenSQLite(cfg.Console.StateFile)
	if err != nil {
		return nil, fmt.Errorf("open console state: %w", err)
	}

	var cache cachestore.Store = state
	if strings.EqualFold(cfg.Console.CacheStore, "redis") {
		shared, err := cachestore.OpenRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn("redis dashboard cache unavailable, using local state", zap.Error(err))
		} else {
			cache = shared
		}
	}

	app := &App{
		cfg:      cfg,
		logger:   logger,
		out:      out,
		state:    state,
		cache:    cache,
		api:      api,
		notifier: noticeSink(logger, errOut),
	}

	var sess session
	if err := state.GetJSON(ctx, tokenKey, &sess); err == nil {
		app.api = api.WithToken(sess.Token)
	} else if !errors.Is(err, cachestore.ErrMiss) {
		logger.Warn("read session failed", zap.Error(err))
	}

	return app, nil
}

// noticeSink prints notices for a person at a terminal. When stderr is
// redirected to a file or pipe, notices become structured log entries.
func noticeSink(logger *zap.Logger, errOut io.Writer) console.Notifier {
	if f, ok := errOut.(*os.File); ok && !isTerminal(f) {
		return console.NewLogNotifier(logger)
	}
	return console.NotifierFunc(func(level console.Level, message string) {
		fmt.Fprintf(errOut, "[%s] %s\n", level, message)
	})
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func (a *App) Close() error {
	var errs []error
	if a.cache != a.state {
		errs = append(errs, a.cache.Close())
	}
	errs = append(errs, a.state.Close())
	return errors.Join(errs...)
}

func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return a.login(ctx, rest)
	case "logout":
		return a.state.Delete(ctx, tokenKey)
	case "ads":
		return runQueue(ctx, a, adQueue(a), rest)
	case "sellers":
		return runQueue(ctx, a, sellerQueue(a), rest)
	case "pets":
		return runQueue(ctx, a, petQueue(a), rest)
	case "reports":
		return runQueue(ctx, a, reportQueue(a), rest)
	case "dashboard":
		return a.dashboard(ctx, rest)
	case "seller":
		return a.seller(ctx, rest)
	case "help", "-h", "--help":
		a.usage()
		return nil
	default:
		a.usage()
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}
}

func (a *App) usage() {
	fmt.Fprint(a.out, `usage: petnestctl <command> [flags]

  login -email E -password P
  logout
  ads      list|show|approve|reject   [-status S -page N -limit N -q Q -id ID -reason R]
  sellers  list|show|approve|reject   [-status S -page N -limit N -q Q -id ID -notes N]
  pets     list|show|verify           [-status S -page N -limit N -q Q -id ID]
  reports  list|show|resolve|dismiss  [-status S -page N -limit N -q Q -id ID -notes N]
  dashboard [-watch]
  seller   status | register | add-pet [flags]
`)
}

func (a *App) login(ctx context.Context, args []string) error {
	fs := newFlagSet("login", a.out)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*email) == "" || *password == "" {
		return fmt.Errorf("%w: login needs -email and -password", ErrUsage)
	}

	resp, err := a.api.Login(ctx, *email, *password)
	if err != nil {
		return fmt.Errorf("login: %s", client.Message(err))
	}
	sess := session{Token: resp.AccessToken, Email: strings.TrimSpace(*email), Role: resp.Me.Role}
	if err := a.state.SetJSON(ctx, tokenKey, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	a.api = a.api.WithToken(resp.AccessToken)

	fmt.Fprintf(a.out, "logged in as %s (%s)\n", sess.Email, sess.Role)
	return nil
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}
