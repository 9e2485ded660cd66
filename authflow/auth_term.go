package authflow

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"golang.org/x/term"
)

const (
	apiWelcome = "Telegram API credentials are required to log in.\n" +
		"Get them at https://my.telegram.org/apps\n\n"
	apiIDPrompt   = "Enter your API ID: "
	apiHashPrompt = "Enter your API HASH: "

	phoneWelcome    = "Log in to Telegram.\n\n"
	phonePrompt     = "Enter phone number in international format (i.e. +64221234567): "
	phoneInvalid    = "Phone number can't be empty."
	phoneMustIntl   = "Phone number must be in international format, starting with \"+\"."
	phoneOnlyDigits = "Phone number must contain only digits after \"+\"."

	codePrompt     = "Enter the code you received: "
	passwordPrompt = "Enter 2FA password: "
)

var (
	// ErrEmptyAPIHash is returned if the user enters an empty API hash.
	ErrEmptyAPIHash = errors.New("API hash can't be empty")
	// ErrSignUpNotSupported is returned when the phone number is not
	// registered.
	ErrSignUpNotSupported = errors.New("signing up is not supported, register the account with the official app")

	errPhoneEmpty     = errors.New(phoneInvalid)
	errPhoneNotIntl   = errors.New(phoneMustIntl)
	errPhoneNotDigits = errors.New(phoneOnlyDigits)
)

// terminal handles, replaced in tests.
var (
	hOutput    = os.Stdout
	hInput     = os.Stdin
	readln     = readLine
	readpwd    = readRawLine
	isTerminal = term.IsTerminal
)

// noSignUp can be embedded to prevent signing up.
type noSignUp struct{}

func (noSignUp) SignUp(context.Context) (auth.UserInfo, error) {
	return auth.UserInfo{}, ErrSignUpNotSupported
}

func (noSignUp) AcceptTermsOfService(_ context.Context, tos tg.HelpTermsOfService) error {
	return &auth.SignUpRequired{TermsOfService: tos}
}

// TermAuth implements the authentication flow in the terminal.
type TermAuth struct {
	noSignUp

	phone string
}

var _ FullAuthFlow = TermAuth{}

// NewTermAuth returns the terminal authentication flow. If phone is not
// empty, the user will not be asked for it.
func NewTermAuth(phone string) TermAuth {
	return TermAuth{phone: phone}
}

// GetAPICredentials asks the user for the API ID and API hash. The ID must
// be an integer.
func (TermAuth) GetAPICredentials(context.Context) (int, string, error) {
	fmt.Fprint(hOutput, apiWelcome)

	fmt.Fprint(hOutput, apiIDPrompt)
	sID, err := readln(hInput)
	if err != nil {
		return 0, "", err
	}
	id, err := strconv.Atoi(sID)
	if err != nil {
		return 0, "", errors.Wrapf(err, "invalid API ID %q", sID)
	}

	fmt.Fprint(hOutput, apiHashPrompt)
	hash, err := readln(hInput)
	if err != nil {
		return 0, "", err
	}
	if hash == "" {
		return 0, "", ErrEmptyAPIHash
	}
	return id, hash, nil
}

func (a TermAuth) Phone(_ context.Context) (string, error) {
	clrscr(hOutput)
	if a.phone != "" {
		return a.phone, nil
	}
	fmt.Fprint(hOutput, phoneWelcome)
	for {
		fmt.Fprint(hOutput, phonePrompt)
		phone, err := readln(hInput)
		if err != nil {
			return "", err
		}
		if err := CheckPhone(phone); err != nil {
			fmt.Fprintln(hOutput, err)
			continue
		}
		return phone, nil
	}
}

// CheckPhone returns an error if phone is not in the international format,
// i.e. +64221234567.
func CheckPhone(phone string) error {
	if phone == "" {
		return errPhoneEmpty
	}
	if phone[0] != '+' || len(phone) == 1 {
		return errPhoneNotIntl
	}
	for _, r := range phone[1:] {
		if r < '0' || '9' < r {
			return errPhoneNotDigits
		}
	}
	return nil
}

func (TermAuth) Code(_ context.Context, sentCode *tg.AuthSentCode) (string, error) {
	if sentCode != nil {
		if _, ok := sentCode.Type.(*tg.AuthSentCodeTypeApp); ok {
			fmt.Fprintln(hOutput, "The code was sent to your other Telegram session.")
		}
	}
	fmt.Fprint(hOutput, codePrompt)
	return readln(hInput)
}

func (TermAuth) Password(_ context.Context) (string, error) {
	fmt.Fprint(hOutput, passwordPrompt)
	fd := int(hInput.Fd())
	if !isTerminal(fd) {
		return readpwd(hInput)
	}
	pwd, err := term.ReadPassword(fd)
	fmt.Fprintln(hOutput)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

// readLine reads a single line from r and trims the surrounding whitespace.
func readLine(r io.Reader) (string, error) {
	line, err := readRawLine(r)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readRawLine reads a single line from r one byte at a time, so that nothing
// past the newline is consumed.  Only the line terminator is removed.
func readRawLine(r io.Reader) (string, error) {
	var (
		line []byte
		b    = make([]byte, 1)
	)
	for {
		n, err := r.Read(b)
		if n > 0 {
			if b[0] == '\n' {
				break
			}
			line = append(line, b[0])
		}
		if err != nil {
			if errors.Is(err, io.EOF) && len(line) > 0 {
				break
			}
			return "", err
		}
	}
	return strings.TrimSuffix(string(line), "\r"), nil
}

func clrscr(w io.Writer) {
	fmt.Fprint(w, "\033[H\033[2J")
}
