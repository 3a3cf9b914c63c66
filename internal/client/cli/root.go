// Package cli implements the journal command line client.
package cli

import (
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	filetokenstorage "github.com/Overland-East-Bay/trip-journal/internal/adapters/file/tokenstorage"
	memtokenstorage "github.com/Overland-East-Bay/trip-journal/internal/adapters/memory/tokenstorage"
	redistokenstorage "github.com/Overland-East-Bay/trip-journal/internal/adapters/redis/tokenstorage"
	"github.com/Overland-East-Bay/trip-journal/internal/client/apiclient"
	"github.com/Overland-East-Bay/trip-journal/internal/platform/clock"
	"github.com/Overland-East-Bay/trip-journal/internal/platform/config"
	"github.com/Overland-East-Bay/trip-journal/internal/platform/logging"
	clockport "github.com/Overland-East-Bay/trip-journal/internal/ports/out/clock"
	"github.com/Overland-East-Bay/trip-journal/internal/ports/out/tokenstorage"
	"github.com/Overland-East-Bay/trip-journal/internal/session"
)

const redisKeyPrefix = "journal:"

// app holds what the commands share. Fields left nil are built from the
// client config on first use.
type app struct {
	cfg        *config.ClientConfig
	storage    tokenstorage.Storage
	clock      clockport.Clock
	httpClient *http.Client
	readSecret func(cmd *cobra.Command, prompt string) (string, error)

	once    sync.Once
	initErr error
	closers []io.Closer
}

type Option func(*app)

func WithConfig(cfg config.ClientConfig) Option { return func(a *app) { a.cfg = &cfg } }

func WithTokenStorage(s tokenstorage.Storage) Option { return func(a *app) { a.storage = s } }

func WithClock(c clockport.Clock) Option { return func(a *app) { a.clock = c } }

func WithHTTPClient(c *http.Client) Option { return func(a *app) { a.httpClient = c } }

// WithSecretReader replaces the terminal prompt used by `auth login`.
func WithSecretReader(fn func(cmd *cobra.Command, prompt string) (string, error)) Option {
	return func(a *app) { a.readSecret = fn }
}

func NewRootCmd(version string, opts ...Option) *cobra.Command {
	a := &app{readSecret: promptSecret}
	for _, opt := range opts {
		opt(a)
	}

	root := &cobra.Command{
		Use:           "journal",
		Short:         "Trip journal CLI",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.close()
		},
	}

	root.AddCommand(newAuthCmd(a))
	root.AddCommand(newTripsCmd(a))
	root.AddCommand(newMapCmd(a))
	return root
}

func (a *app) init() error {
	a.once.Do(func() { a.initErr = a.setup() })
	return a.initErr
}

func (a *app) setup() error {
	if a.cfg == nil {
		cfg, err := config.LoadClientConfig(filetokenstorage.DefaultDir())
		if err != nil {
			return err
		}
		a.cfg = &cfg
	}
	logging.Setup(a.cfg.LogLevel, "console", os.Stderr)

	if a.clock == nil {
		a.clock = clock.SystemClock{}
	}
	if a.storage == nil {
		switch a.cfg.TokenBackend {
		case config.TokenBackendRedis:
			rc := redistokenstorage.NewClient(a.cfg.RedisAddr, a.cfg.RedisPassword, a.cfg.RedisDB)
			a.closers = append(a.closers, rc)
			a.storage = redistokenstorage.NewStorage(rc, redisKeyPrefix)
		case config.TokenBackendMemory:
			a.storage = memtokenstorage.NewStorage()
		default:
			a.storage = filetokenstorage.NewStorage(a.cfg.TokenDir)
		}
	}
	return nil
}

func (a *app) close() error {
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = errors.Wrap(err, "close")
		}
	}
	a.closers = nil
	return first
}

func (a *app) tokens() *session.TokenStore {
	return session.NewTokenStore(a.storage, a.cfg.TokenKey)
}

func (a *app) decoder() *session.Decoder {
	return session.NewDecoder(a.tokens(), a.clock)
}

func (a *app) client() *apiclient.Client {
	var opts []apiclient.Option
	if a.httpClient != nil {
		opts = append(opts, apiclient.WithHTTPClient(a.httpClient))
	}
	return apiclient.New(a.cfg.ServerURL, a.tokens(), a.decoder(), opts...)
}

// promptSecret reads without echo from a terminal, or a single line otherwise.
func promptSecret(cmd *cobra.Command, prompt string) (string, error) {
	out := cmd.ErrOrStderr()
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		_, _ = io.WriteString(out, prompt)
		b, err := term.ReadPassword(int(f.Fd()))
		_, _ = io.WriteString(out, "\n")
		if err != nil {
			return "", errors.Wrap(err, "read token")
		}
		return strings.TrimSpace(string(b)), nil
	}
	b, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), 64<<10))
	if err != nil {
		return "", errors.Wrap(err, "read token")
	}
	line, _, _ := strings.Cut(string(b), "\n")
	return strings.TrimSpace(line), nil
}
