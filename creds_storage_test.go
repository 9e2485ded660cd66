package sessiongen

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_encryptDecrypt(t *testing.T) {
	var (
		ApiID   = 12345
		ApiHash = "very secure"
	)
	var buf bytes.Buffer
	cs := credsStorage{}
	err := cs.write(&buf, Creds{ApiID, ApiHash})
	assert.NoError(t, err)

	got, gotErr := cs.read(&buf)
	assert.NoError(t, gotErr)
	assert.Equal(t, ApiID, got.ID)
	assert.Equal(t, ApiHash, got.Hash)

}

func FuzzWriteRead(f *testing.F) {
	type testcase struct {
		id   int
		hash string
	}
	var testcases = []testcase{{12345, "very secure"}, {0, "12345"}, {42, ""}, {-100, "blah"}}
	for _, tc := range testcases {
		f.Add(tc.id, tc.hash)
	}
	cs := credsStorage{}
	f.Fuzz(func(t *testing.T, id int, hash string) {
		var buf bytes.Buffer
		err := cs.write(&buf, Creds{id, hash})
		if err != nil {
			return
		}
		got, gotErr := cs.read(&buf)
		if gotErr != nil {
			return
		}
		assert.Equal(t, id, got.ID)
		assert.Equal(t, hash, got.Hash)
	})
}

func TestCreds_IsEmpty(t *testing.T) {
	assert.True(t, Creds{}.IsEmpty())
	assert.True(t, Creds{ID: 12345}.IsEmpty())
	assert.True(t, Creds{Hash: "abc"}.IsEmpty())
	assert.False(t, Creds{ID: 12345, Hash: "abc"}.IsEmpty())
}

func Test_credsStorage_IsAvailable(t *testing.T) {
	assert.False(t, credsStorage{}.IsAvailable())
	assert.True(t, credsStorage{filename: "creds.dat"}.IsAvailable())
}

func Test_credsStorage_readIncomplete(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no hash", `{"api_id":12345}`},
		{"no id", `{"api_hash":"abc"}`},
		{"empty object", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := credsStorage{}.read(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, errNoCreds)
			assert.Equal(t, Creds{}, got)
		})
	}
}

func Test_credsStorage_readGarbage(t *testing.T) {
	_, err := credsStorage{}.read(strings.NewReader("not json"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, errNoCreds)
}

func Test_credsStorage_SaveEmpty(t *testing.T) {
	dir := t.TempDir()
	cs := credsStorage{filename: filepath.Join(dir, "creds.dat")}
	assert.ErrorIs(t, cs.Save(Creds{ID: 12345}), errNoCreds)
	assert.NoFileExists(t, cs.filename)
}
