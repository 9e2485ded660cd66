// Package sessiongen logs in to Telegram with the user provided API
// credentials and saves the resulting session to a file.
package sessiongen

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/gotd/contrib/bg"
	"github.com/gotd/contrib/middleware/floodwait"
	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"github.com/mattn/go-colorable"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rusq/sessiongen/authflow"
)

var (
	// ErrAlreadyRunning is returned if the attempt is made to start the client,
	// while there's another instance running asynchronously.
	ErrAlreadyRunning = errors.New("already running asynchronously, stop the running instance first")
	// ErrInvalidCreds is returned if API ID or API hash is empty.
	ErrInvalidCreds = errors.New("invalid credentials")
)

// ErrAuth is returned if the authentication fails.
type ErrAuth struct {
	Err error
}

// Client is the thin wrapper around the telegram client, that handles the
// session storage and authentication.
type Client struct {
	cl *telegram.Client

	waiter *floodwait.SimpleWaiter
	stop   bg.StopFunc

	auth         authflow.FullAuthFlow
	sendcodeOpts auth.SendCodeOptions
	telegramOpts telegram.Options
}

type Option func(c *Client)

func WithMTPOptions(opts telegram.Options) Option {
	return func(c *Client) {
		c.telegramOpts = opts
	}
}

// WithStorage sets the session file path.  The file is created on the first
// successful login and overwritten on each session update.
func WithStorage(path string) Option {
	return func(c *Client) {
		c.telegramOpts.SessionStorage = &session.FileStorage{Path: path}
	}
}

// WithAuth allows to override the authorization flow
func WithAuth(flow authflow.FullAuthFlow) Option {
	return func(c *Client) {
		if flow == nil {
			return
		}
		c.auth = flow
	}
}

func WithDebug(enable bool) Option {
	return func(c *Client) {
		if !enable {
			c.telegramOpts.Logger = nil
			return
		}
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		c.telegramOpts.Logger = zap.New(zapcore.NewCore(
			zapcore.NewConsoleEncoder(cfg),
			zapcore.AddSync(colorable.NewColorableStdout()),
			zapcore.DebugLevel,
		))
	}
}

// New creates a new client.  It does not connect.
func New(appID int, appHash string, opts ...Option) (*Client, error) {
	if (Creds{ID: appID, Hash: appHash}).IsEmpty() {
		return nil, ErrInvalidCreds
	}
	var c = Client{
		auth:   authflow.TermAuth{}, // default is the terminal authentication
		waiter: floodwait.NewSimpleWaiter(),

		telegramOpts: telegram.Options{},
	}

	for _, opt := range opts {
		opt(&c)
	}

	c.telegramOpts.Middlewares = append(c.telegramOpts.Middlewares, c.waiter)
	c.cl = telegram.NewClient(appID, appHash, c.telegramOpts)

	return &c, nil
}

// Start connects to telegram in the background and runs the authentication
// flow, if the session is not authorized yet.  Stop must be called to
// disconnect.
func (c *Client) Start(ctx context.Context) error {
	if c.stop != nil {
		return ErrAlreadyRunning
	}

	stop, err := bg.Connect(c.cl)
	if err != nil {
		return errors.Wrap(err, "connect")
	}
	c.stop = stop

	flow := auth.NewFlow(c.auth, c.sendcodeOpts)
	if err := c.cl.Auth().IfNecessary(ctx, flow); err != nil {
		if err := c.Stop(); err != nil {
			Log.Debugf("error stopping: %s", err)
		}
		return &ErrAuth{Err: err}
	}
	Log.Debug("auth success")

	return nil
}

func (e *ErrAuth) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Err)
}

func (e *ErrAuth) Unwrap() error {
	return e.Err
}

func (e *ErrAuth) Is(err error) bool {
	return errors.Is(e.Err, err)
}

// Stop disconnects the client started with Start.  It is safe to call Stop
// on the client that is not running.
func (c *Client) Stop() error {
	if c.stop == nil {
		return nil
	}
	stop := c.stop
	c.stop = nil
	return stop()
}

// Run runs an arbitrary telegram session.  The connection is closed when fn
// returns.
func (c *Client) Run(ctx context.Context, fn func(context.Context, *telegram.Client) error) error {
	if c.stop != nil {
		return ErrAlreadyRunning
	}
	return c.cl.Run(ctx, func(ctx context.Context) error {
		return fn(ctx, c.cl)
	})
}

// Self returns the currently logged in user.  The client must be started.
func (c *Client) Self(ctx context.Context) (*tg.User, error) {
	return c.cl.Self(ctx)
}

// Client returns the underlying telegram client.
func (c *Client) Client() *telegram.Client {
	return c.cl
}
