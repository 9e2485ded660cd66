package sessiongen

import (
	"encoding/json"
	"io"

	"github.com/go-faster/errors"
	"github.com/rusq/encio"
)

// errNoCreds is returned if the credentials file does not contain both the
// API ID and API hash.
var errNoCreds = errors.New("credentials file has no API ID or API hash")

// credsStorage keeps the API credentials in the encrypted file, so that the
// user doesn't have to enter them on each run.
type credsStorage struct {
	filename string
}

// Creds are the application API credentials, obtained at
// https://my.telegram.org/apps.
type Creds struct {
	ID   int    `json:"api_id,omitempty"`
	Hash string `json:"api_hash,omitempty"`
}

func (c Creds) IsEmpty() bool {
	return c.ID == 0 || c.Hash == ""
}

// IsAvailable returns true if the credentials filename is set.
func (cs credsStorage) IsAvailable() bool {
	return cs.filename != ""
}

// Save writes the credentials to the file, replacing its contents.  Empty
// credentials are not saved.
func (cs credsStorage) Save(c Creds) error {
	if c.IsEmpty() {
		return errNoCreds
	}
	f, err := encio.Create(cs.filename)
	if err != nil {
		return err
	}
	defer f.Close()

	return cs.write(f, c)
}

func (cs credsStorage) write(f io.Writer, c Creds) error {
	enc := json.NewEncoder(f)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return nil
}

// Load reads the credentials from the file.  It returns an error if the file
// can't be decrypted or the credentials in it are incomplete, in which case
// the caller should ask the user.
func (cs credsStorage) Load() (Creds, error) {
	f, err := encio.Open(cs.filename)
	if err != nil {
		return Creds{}, errors.Wrap(err, "open credentials")
	}
	defer f.Close()

	return cs.read(f)
}

func (cs credsStorage) read(r io.Reader) (Creds, error) {
	var cr Creds
	dec := json.NewDecoder(r)
	if err := dec.Decode(&cr); err != nil {
		return Creds{}, errors.Wrap(err, "decode credentials")
	}
	if cr.IsEmpty() {
		return Creds{}, errNoCreds
	}
	return cr, nil
}
