package sessiongen

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/go-faster/errors"
	"github.com/gotd/td/tg"

	"github.com/rusq/sessiongen/authflow"
)

// ErrNoSession is returned by Check if there's no session file.
var ErrNoSession = errors.New("session file not found, run sessiongen to create it")

// Bootstrapper asks for the API credentials, logs in and saves the session
// to the SessionFilename in the current directory.
type Bootstrapper struct {
	// Flow is used to request API credentials.
	Flow   authflow.FullAuthFlow
	Dialer Dialer
	// CredsFile is the optional encrypted API credentials file.  If it's set,
	// credentials are loaded from it, and saved to it after the successful
	// login.
	CredsFile string
	// Out receives the confirmation message, os.Stdout if nil.
	Out io.Writer
}

// Result is the result of the successful run.
type Result struct {
	SessionPath string
	User        *tg.User
}

var okColor = color.New(color.FgGreen, color.Bold)

// Run executes the login sequence.  On any error nothing is printed to Out.
func (b *Bootstrapper) Run(ctx context.Context) (Result, error) {
	creds, err := b.credentials(ctx)
	if err != nil {
		return Result{}, err
	}

	path, err := SessionPath()
	if err != nil {
		return Result{}, errors.Wrap(err, "session path")
	}
	Log.Debugf("session path: %s", path)

	user, err := b.Dialer.Login(ctx, creds, path)
	if err != nil {
		return Result{}, err
	}

	okColor.Fprintf(b.out(), "Logged in%s! Session saved at: %s\n", asUser(user), path)

	if b.storage().IsAvailable() {
		if err := b.storage().Save(creds); err != nil {
			// not a fatal error
			Log.Printf("failed to save credentials: %s", err)
		}
	}
	return Result{SessionPath: path, User: user}, nil
}

// Check verifies the existing session file in the current directory.
func (b *Bootstrapper) Check(ctx context.Context) (Result, error) {
	path, err := SessionPath()
	if err != nil {
		return Result{}, errors.Wrap(err, "session path")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Result{}, errors.Wrap(ErrNoSession, path)
		}
		return Result{}, err
	}

	creds, err := b.credentials(ctx)
	if err != nil {
		return Result{}, err
	}
	user, err := b.Dialer.Verify(ctx, creds, path)
	if err != nil {
		return Result{}, err
	}
	okColor.Fprintf(b.out(), "Logged in via saved session%s\n", asUser(user))
	return Result{SessionPath: path, User: user}, nil
}

func (b *Bootstrapper) credentials(ctx context.Context) (Creds, error) {
	if cs := b.storage(); cs.IsAvailable() {
		creds, err := cs.Load()
		if err == nil {
			Log.Debugf("using credentials from %s", cs.filename)
			return creds, nil
		}
		Log.Debugf("warning: error loading credentials file, requesting manual input: %v", err)
	}
	id, hash, err := b.Flow.GetAPICredentials(ctx)
	if err != nil {
		return Creds{}, errors.Wrap(err, "api credentials")
	}
	return Creds{ID: id, Hash: hash}, nil
}

func (b *Bootstrapper) storage() credsStorage {
	return credsStorage{filename: b.CredsFile}
}

func (b *Bootstrapper) out() io.Writer {
	if b.Out == nil {
		return os.Stdout
	}
	return b.Out
}

// asUser returns the " as First Last (@username)" suffix, or an empty string
// if user is nil.
func asUser(u *tg.User) string {
	if u == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(" as ")
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = "user"
	}
	sb.WriteString(name)
	if u.Username != "" {
		sb.WriteString(" (@" + u.Username + ")")
	}
	return sb.String()
}
