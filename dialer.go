package sessiongen

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/tg"

	"github.com/rusq/sessiongen/authflow"
)

// ErrNotAuthorized is returned if the saved session is not authorized.
var ErrNotAuthorized = errors.New("session is not authorized, log in again")

// Dialer connects to telegram using the session file at path.
type Dialer interface {
	// Login logs in, if necessary, saving the session to path, and returns
	// the logged in user.  The connection is closed on return.
	Login(ctx context.Context, creds Creds, path string) (*tg.User, error)
	// Verify checks that the session at path is authorized, without
	// attempting to log in.
	Verify(ctx context.Context, creds Creds, path string) (*tg.User, error)
}

// MTPDialer is the Dialer that connects to telegram.
type MTPDialer struct {
	// Flow is the interactive login flow, if nil, the terminal flow is used.
	Flow  authflow.FullAuthFlow
	Debug bool
}

var _ Dialer = MTPDialer{}

func (d MTPDialer) client(creds Creds, path string) (*Client, error) {
	return New(creds.ID, creds.Hash, WithStorage(path), WithAuth(d.Flow), WithDebug(d.Debug))
}

func (d MTPDialer) Login(ctx context.Context, creds Creds, path string) (*tg.User, error) {
	cl, err := d.client(creds, path)
	if err != nil {
		return nil, err
	}
	if err := cl.Start(ctx); err != nil {
		return nil, err
	}
	defer func() {
		if err := cl.Stop(); err != nil {
			Log.Debugf("error stopping: %s", err)
		}
	}()

	self, err := cl.Self(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get self")
	}
	return self, nil
}

func (d MTPDialer) Verify(ctx context.Context, creds Creds, path string) (*tg.User, error) {
	cl, err := d.client(creds, path)
	if err != nil {
		return nil, err
	}
	var self *tg.User
	if err := cl.Run(ctx, func(ctx context.Context, tc *telegram.Client) error {
		status, err := tc.Auth().Status(ctx)
		if err != nil {
			return errors.Wrap(err, "auth status")
		}
		if !status.Authorized {
			return ErrNotAuthorized
		}
		self = status.User
		return nil
	}); err != nil {
		return nil, err
	}
	return self, nil
}
