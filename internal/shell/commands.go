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

package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/krzysztof-prog/markbud/internal/database"
	"github.com/krzysztof-prog/markbud/internal/decisions"
	"github.com/krzysztof-prog/markbud/internal/models"
	"github.com/krzysztof-prog/markbud/internal/versions"
)

var (
	errNoCodes = errors.New("there are no stored delivery codes")
	errNoItems = errors.New("the latest version has no items")
)

// commandDeps bundles everything a shell command may need.
type commandDeps struct {
	Conn        database.Conn
	MailListDao database.MailListDao
	MailItemDao database.MailItemDao
	Diff        *versions.Engine
	Decisions   *decisions.Service
}

// NewCommandDeps creates the dependency bundle for the shell.
func NewCommandDeps(
	conn database.Conn,
	mailListDao database.MailListDao,
	mailItemDao database.MailItemDao,
	diff *versions.Engine,
	decisionService *decisions.Service,
) commandDeps {
	return commandDeps{
		Conn:        conn,
		MailListDao: mailListDao,
		MailItemDao: mailItemDao,
		Diff:        diff,
		Decisions:   decisionService,
	}
}

func listVersions(ctx *cmdContext) error {
	code, err := selectOneCode(ctx)
	if err != nil {
		return err
	}

	versionSlice, err := ctx.MailListDao.FindVersions(ctx, ctx.Conn, code)
	if err != nil {
		return err
	}

	ctx.info("(%d) versions of %s", len(versionSlice), code)

	for _, mailList := range versionSlice {
		kind := "initial"
		if mailList.IsUpdate {
			kind = "update"
		}

		ctx.info("  v%-3d %s  %s",
			mailList.Version,
			time.Unix(mailList.CreatedAt, 0).Format("2006-01-02 15:04"),
			kind)
	}

	return nil
}

func showVersion(ctx *cmdContext) error {
	code, err := selectOneCode(ctx)
	if err != nil {
		return err
	}

	version, err := askVersion(ctx, "Version: ")
	if err != nil {
		return err
	}

	mailList, err := ctx.MailListDao.FindByCodeAndVersion(ctx, ctx.Conn, code, version)
	if err != nil {
		if database.IsErrNoRows(err) {
			return fmt.Errorf("version %d of %s does not exist", version, code)
		}

		return err
	}

	items, err := ctx.MailItemDao.FindByMailList(ctx, ctx.Conn, mailList.ID)
	if err != nil {
		return err
	}

	ctx.info("%s v%d (%d items)", code, version, len(items))

	for _, item := range items {
		ctx.info("  %2d. %-8s x%-3d %-8s %s",
			item.Position,
			item.ProjectNumber,
			item.Quantity,
			item.ItemStatus,
			item.Flags())
	}

	return nil
}

func diffVersions(ctx *cmdContext) error {
	code, err := selectOneCode(ctx)
	if err != nil {
		return err
	}

	from, err := askVersion(ctx, "From version: ")
	if err != nil {
		return err
	}

	to, err := askVersion(ctx, "To version: ")
	if err != nil {
		return err
	}

	diff, err := ctx.Diff.Diff(ctx, code, from, to)
	if err != nil {
		return err
	}

	ctx.info("%s v%d -> v%d", code, from, to)

	for _, entry := range diff.Added {
		ctx.info("  + %-8s item %d", entry.ProjectNumber, entry.ItemID)
	}

	for _, entry := range diff.Removed {
		ctx.info("  - %-8s item %d", entry.ProjectNumber, entry.ItemID)
	}

	for _, change := range diff.Changed {
		ctx.info("  ~ %-8s item %d %s: %s -> %s",
			change.ProjectNumber, change.ItemID, change.Field, change.From, change.To)
	}

	for _, warning := range diff.Warnings {
		ctx.info("  ! %s", warning)
	}

	if len(diff.Added)+len(diff.Removed)+len(diff.Changed) == 0 {
		ctx.info("  no changes")
	}

	return nil
}

func removeItem(ctx *cmdContext) error {
	return applyDecision(ctx, "removed", ctx.Decisions.RemoveItem)
}

func restoreItem(ctx *cmdContext) error {
	return applyDecision(ctx, "restored", ctx.Decisions.RestoreItem)
}

func rejectItem(ctx *cmdContext) error {
	return applyDecision(ctx, "rejected", ctx.Decisions.RejectItem)
}

func confirmItem(ctx *cmdContext) error {
	return applyDecision(ctx, "confirmed", ctx.Decisions.ConfirmItem)
}

func acceptChange(ctx *cmdContext) error {
	return applyDecision(ctx, "accepted", ctx.Decisions.AcceptChange)
}

func decisionLog(ctx *cmdContext) error {
	item, err := selectOneItem(ctx)
	if err != nil {
		return err
	}

	history, err := ctx.Decisions.History(ctx, item.ID)
	if err != nil {
		return err
	}

	ctx.info("(%d) decisions for %s", len(history), item.ProjectNumber)

	for _, decision := range history {
		ctx.info("  %s  %-14s by %s",
			time.Unix(decision.CreatedAt, 0).Format("2006-01-02 15:04"),
			decision.Action,
			decision.Actor)
	}

	return nil
}

// applyDecision runs the shared flow of all item decisions: pick an item from
// the latest version, ask who is acting and apply the decision.
func applyDecision(
	ctx *cmdContext,
	verb string,
	action func(ctx context.Context, itemID int64, actor string) error,
) error {
	item, err := selectOneItem(ctx)
	if err != nil {
		return err
	}

	actor, err := ctx.ask("Operator: ")
	if err != nil {
		return err
	}

	if err := action(ctx, item.ID, actor); err != nil {
		return err
	}

	ctx.info("Item %s %s by %s.", item.ProjectNumber, verb, actor)
	return nil
}

func askVersion(ctx *cmdContext, prompt string) (int, error) {
	raw, err := ctx.ask(prompt)
	if err != nil {
		return 0, err
	}

	version, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%q is not a version number", raw)
	}

	return version, nil
}

func selectOneCode(ctx *cmdContext) (string, error) {
	codes, err := ctx.MailListDao.FindCodes(ctx, ctx.Conn)
	if err != nil {
		return "", err
	}

	if len(codes) == 0 {
		return "", errNoCodes
	}

	index, err := fuzzyfinder.Find(codes, func(i int) string {
		return codes[i]
	})
	if err != nil {
		return "", err
	}

	return codes[index], nil
}

// selectOneItem picks an item of the latest version of a delivery code. Items
// are fetched directly by id afterwards, so removed items can be restored by
// entering their id.
func selectOneItem(ctx *cmdContext) (*models.MailItemEntity, error) {
	code, err := selectOneCode(ctx)
	if err != nil {
		return nil, err
	}

	mailList, err := ctx.MailListDao.FindLatestByCode(ctx, ctx.Conn, code)
	if err != nil {
		return nil, err
	}

	items, err := ctx.MailItemDao.FindByMailList(ctx, ctx.Conn, mailList.ID)
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return askItemID(ctx)
	}

	index, err := fuzzyfinder.Find(items, func(i int) string {
		return fmt.Sprintf("%s x%d [%s]",
			items[i].ProjectNumber, items[i].Quantity, items[i].ItemStatus)
	})
	if err != nil {
		return nil, err
	}

	return &items[index], nil
}

func askItemID(ctx *cmdContext) (*models.MailItemEntity, error) {
	raw, err := ctx.ask("Item id: ")
	if err != nil {
		return nil, err
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not an item id", raw)
	}

	item, err := ctx.MailItemDao.FindByID(ctx, ctx.Conn, id)
	if err != nil {
		if database.IsErrNoRows(err) {
			return nil, errNoItems
		}

		return nil, err
	}

	return item, nil
}
