// Copyright (C) 2024  Markbud sp. z o.o.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package archive stores the raw source mails on disk. Mail list rows keep a
// reference to the archived blob, so the original text stays available after
// parsing rules change.
package archive

import (
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/krzysztof-prog/markbud/internal/log"
)

func init() {
	viper.SetDefault("storage.archive.foldername", "data/archive")
}

// Archive is a permanent store for raw mails.
type Archive struct {
	fs afero.Fs
}

// NewArchive creates a new archive using configuration from viper.
//
// `storage.archive.foldername` is the foldername for archived mails.
func NewArchive() (*Archive, error) {
	folderName := viper.GetString("storage.archive.foldername")

	if err := os.MkdirAll(folderName, 0700); err != nil {
		return nil, err
	}

	return &Archive{
		fs: afero.NewBasePathFs(afero.NewOsFs(), folderName),
	}, nil
}

// Store copies all the data from r to an archived mail, addressable by the
// returned id.
func (a *Archive) Store(r io.Reader) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}

	f, err := a.fs.Create(id.String())
	if err != nil {
		return "", err
	}

	log.Debug().
		Str("mail", id.String()).
		Msg("archiving mail")

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		a.Remove(id.String())

		return "", err
	}

	return id.String(), f.Close()
}

// Open returns a reader to an archived mail. The responsibility to close the
// reader is on the caller.
func (a *Archive) Open(id string) (io.ReadCloser, error) {
	return a.fs.Open(id)
}

// Remove deletes an archived mail by id.
func (a *Archive) Remove(id string) error {
	log.Debug().
		Str("mail", id).
		Msg("removing archived mail")

	return a.fs.Remove(id)
}
