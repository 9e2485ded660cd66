// Package authflow contains the interactive authentication flows used to
// obtain the API credentials and to log in the user account.
package authflow

import (
	"context"

	"github.com/gotd/td/telegram/auth"
)

// FullAuthFlow is the user authenticator that is also able to ask for the
// application API credentials.
type FullAuthFlow interface {
	auth.UserAuthenticator

	GetAPICredentials(ctx context.Context) (int, string, error)
}
