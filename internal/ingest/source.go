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

package ingest

import (
	"fmt"
	"io"
	"net/mail"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/spf13/viper"

	"github.com/krzysztof-prog/markbud/internal/log"
)

func init() {
	viper.SetDefault("ingest.imap.address", "")
	viper.SetDefault("ingest.imap.username", "")
	viper.SetDefault("ingest.imap.password", "")
	viper.SetDefault("ingest.imap.mailbox", "INBOX")
}

// Source supplies unread partner mails. Fetched mails are considered consumed
// and will not be returned again.
type Source interface {
	FetchUnread() ([]string, error)
}

// imapSource reads unseen mails from an IMAP mailbox over TLS. Every fetched
// mail is flagged as seen afterwards.
type imapSource struct{}

// NewSource creates a Source using the imap configuration from viper.
//
// `ingest.imap.address` is the host:port of the imap server.
// `ingest.imap.username` and `ingest.imap.password` are the credentials.
// `ingest.imap.mailbox` is the mailbox to watch.
func NewSource() Source {
	return imapSource{}
}

func (imapSource) FetchUnread() ([]string, error) {
	c, err := client.DialTLS(viper.GetString("ingest.imap.address"), nil)
	if err != nil {
		return nil, fmt.Errorf("could not connect to imap server: %w", err)
	}

	defer c.Logout()

	err = c.Login(
		viper.GetString("ingest.imap.username"),
		viper.GetString("ingest.imap.password"))
	if err != nil {
		return nil, fmt.Errorf("could not login: %w", err)
	}

	if _, err := c.Select(viper.GetString("ingest.imap.mailbox"), false); err != nil {
		return nil, err
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}

	ids, err := c.Search(criteria)
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return nil, nil
	}

	log.Debug().
		Int("count", len(ids)).
		Msg("fetching unseen mails")

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	bodies, err := fetchBodies(c, seqset)
	if err != nil {
		return nil, err
	}

	return bodies, markSeen(c, seqset)
}

func fetchBodies(c *client.Client, seqset *imap.SeqSet) ([]string, error) {
	var (
		section  imap.BodySectionName
		messages = make(chan *imap.Message, 8)
		done     = make(chan error, 1)
	)

	go func() {
		done <- c.Fetch(seqset, []imap.FetchItem{section.FetchItem()}, messages)
	}()

	var bodies []string

	for message := range messages {
		body, err := extractBody(message.GetBody(&section))
		if err != nil {
			log.Warn().
				Err(err).
				Uint32("seq", message.SeqNum).
				Msg("could not extract mail body")

			continue
		}

		bodies = append(bodies, body)
	}

	return bodies, <-done
}

func extractBody(r io.Reader) (string, error) {
	if r == nil {
		return "", fmt.Errorf("message has no body")
	}

	message, err := mail.ReadMessage(r)
	if err != nil {
		return "", err
	}

	body, err := io.ReadAll(message.Body)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

func markSeen(c *client.Client, seqset *imap.SeqSet) error {
	operation := imap.FormatFlagsOp(imap.AddFlags, true)
	return c.Store(seqset, operation, []interface{}{imap.SeenFlag}, nil)
}
