package main

import (
	"io"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/rusq/sessiongen"
	"github.com/rusq/sessiongen/authflow"
)

type params struct {
	debug     bool
	phone     string
	credsFile string
}

// newDialerFunc returns the dialer for the parameters.
type newDialerFunc func(p params, flow authflow.FullAuthFlow) sessiongen.Dialer

// newFlowFunc returns the interactive authentication flow.
type newFlowFunc func(p params) authflow.FullAuthFlow

func termFlow(p params) authflow.FullAuthFlow {
	return authflow.NewTermAuth(p.phone)
}

func mtpDialer(p params, flow authflow.FullAuthFlow) sessiongen.Dialer {
	return sessiongen.MTPDialer{Flow: flow, Debug: p.debug}
}

// newRootCmd creates the root command.  If newDialer is nil, the command
// connects to telegram, if newFlow is nil, the user is prompted in the
// terminal.
func newRootCmd(newDialer newDialerFunc, newFlow newFlowFunc) *cobra.Command {
	if newDialer == nil {
		newDialer = mtpDialer
	}
	if newFlow == nil {
		newFlow = termFlow
	}
	var p params

	bootstrapper := func(out io.Writer) *sessiongen.Bootstrapper {
		sessiongen.SetDebug(p.debug)
		flow := newFlow(p)
		return &sessiongen.Bootstrapper{
			Flow:      flow,
			Dialer:    newDialer(p, flow),
			CredsFile: p.credsFile,
			Out:       out,
		}
	}

	cmd := &cobra.Command{
		Use:   "sessiongen",
		Short: "Log in to Telegram and save the session file",
		Long: `sessiongen asks for the Telegram API ID and API hash, logs in to your account
and saves the session to ` + sessiongen.SessionFilename + ` in the current directory.

The phone number, confirmation code and two-factor password are requested
interactively.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if p.phone == "" {
				return nil
			}
			if err := authflow.CheckPhone(p.phone); err != nil {
				return errors.Wrapf(err, "invalid --phone value %q", p.phone)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := bootstrapper(cmd.OutOrStdout()).Run(cmd.Context())
			return err
		},
	}

	fl := cmd.PersistentFlags()
	fl.BoolVar(&p.debug, "debug", false, "print debug messages and telegram client logs")
	fl.StringVar(&p.phone, "phone", "", "phone number in international format, asked for if empty")
	fl.StringVar(&p.credsFile, "api-creds", "", "encrypted file to load the API credentials from, and save them to after login")

	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Check that the saved session is valid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := bootstrapper(cmd.OutOrStdout()).Check(cmd.Context())
			return err
		},
	})

	return cmd
}
