package sessiongen

import (
	"os"
	"path/filepath"
)

// SessionFilename is the name of the session file, that is created in the
// current working directory.
const SessionFilename = "main.session"

// SessionPath returns the absolute path of the session file in the current
// working directory.
func SessionPath() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, SessionFilename), nil
}
