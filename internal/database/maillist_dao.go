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

package database

import (
	"context"

	"github.com/krzysztof-prog/markbud/internal/models"
)

// MailListDao is a data access object for all mail list related queries.
type MailListDao interface {
	// Insert inserts a new mail list version and fills in its id.
	Insert(context.Context, Queryer, *models.MailListEntity) error
	// FindByID returns one mail list regardless of its tombstone.
	FindByID(context.Context, Queryer, int64) (*models.MailListEntity, error)
	// FindByCodeAndVersion returns one specific version of a delivery code.
	FindByCodeAndVersion(context.Context, Queryer, string, int) (*models.MailListEntity, error)
	// FindMaxVersion returns the highest version ever stored for a delivery
	// code, including soft-deleted rows, or 0 if none exist.
	FindMaxVersion(context.Context, Queryer, string) (int, error)
	// FindVersions returns all non-deleted versions of a delivery code in
	// ascending version order.
	FindVersions(context.Context, Queryer, string) ([]models.MailListEntity, error)
	// FindLatestByCode returns the newest non-deleted version of a delivery code.
	FindLatestByCode(context.Context, Queryer, string) (*models.MailListEntity, error)
	// FindByDelivery returns the newest non-deleted version of every delivery
	// code linked to a delivery.
	FindByDelivery(context.Context, Queryer, int64) ([]models.MailListEntity, error)
	// FindCodes returns all distinct delivery codes with at least one
	// non-deleted version.
	FindCodes(context.Context, Queryer) ([]string, error)
	// LinkDelivery points a mail list at its resolved delivery aggregate.
	LinkDelivery(context.Context, Queryer, int64, int64) error
	// Delete marks a mail list version as deleted.
	Delete(context.Context, Queryer, int64, int64) error
}

// mailListDao is the sqlite implementation of MailListDao.
type mailListDao struct{}

// NewMailListDao creates a new MailListDao.
func NewMailListDao() MailListDao {
	return mailListDao{}
}

func (mailListDao) Insert(ctx context.Context, q Queryer, mailList *models.MailListEntity) error {
	const query = `
		insert into "mail_lists" (
			"delivery_code" ,
			"delivery_day" ,
			"delivery_index" ,
			"version" ,
			"is_update" ,
			"client_label" ,
			"raw_mail" ,
			"archive_id" ,
			"delivery_id" ,
			"created_at" ,
			"deleted_at"
		) values (
			:delivery_code ,
			:delivery_day ,
			:delivery_index ,
			:version ,
			:is_update ,
			:client_label ,
			:raw_mail ,
			:archive_id ,
			:delivery_id ,
			:created_at ,
			:deleted_at
		) ;
	`

	result, err := execNamed(ctx, q, query, mailList)
	if err != nil {
		return err
	}

	mailList.ID, err = result.LastInsertId()
	return err
}

func (mailListDao) FindByID(ctx context.Context, q Queryer, id int64) (*models.MailListEntity, error) {
	const query = `
		select *
		from "mail_lists"
		where "id" = $1 ;
	`

	var mailList models.MailListEntity

	if err := selectOne(ctx, q, &mailList, query, id); err != nil {
		return nil, err
	}

	return &mailList, nil
}

func (mailListDao) FindByCodeAndVersion(
	ctx context.Context,
	q Queryer,
	code string,
	version int,
) (*models.MailListEntity, error) {
	const query = `
		select *
		from "mail_lists"
		where "delivery_code" = $1
		  and "version" = $2
		  and "deleted_at" is null ;
	`

	var mailList models.MailListEntity

	if err := selectOne(ctx, q, &mailList, query, code, version); err != nil {
		return nil, err
	}

	return &mailList, nil
}

func (mailListDao) FindMaxVersion(ctx context.Context, q Queryer, code string) (int, error) {
	const query = `
		select coalesce(max("version"), 0)
		from "mail_lists"
		where "delivery_code" = $1 ;
	`

	var version int

	if err := selectOne(ctx, q, &version, query, code); err != nil {
		return 0, err
	}

	return version, nil
}

func (mailListDao) FindVersions(
	ctx context.Context,
	q Queryer,
	code string,
) ([]models.MailListEntity, error) {
	const query = `
		select *
		from "mail_lists"
		where "delivery_code" = $1
		  and "deleted_at" is null
		order by "version" asc ;
	`

	var mailListSlice []models.MailListEntity

	if err := selectSlice(ctx, q, &mailListSlice, query, code); err != nil {
		return nil, err
	}

	return mailListSlice, nil
}

func (mailListDao) FindLatestByCode(
	ctx context.Context,
	q Queryer,
	code string,
) (*models.MailListEntity, error) {
	const query = `
		select *
		from "mail_lists"
		where "delivery_code" = $1
		  and "deleted_at" is null
		order by "version" desc
		limit 1 ;
	`

	var mailList models.MailListEntity

	if err := selectOne(ctx, q, &mailList, query, code); err != nil {
		return nil, err
	}

	return &mailList, nil
}

func (mailListDao) FindByDelivery(
	ctx context.Context,
	q Queryer,
	deliveryID int64,
) ([]models.MailListEntity, error) {
	const query = `
		select "mail_lists".*
		from "mail_lists"
		where "mail_lists"."delivery_id" = $1
		  and "mail_lists"."deleted_at" is null
		  and "mail_lists"."version" = (
			select max("latest"."version")
			from "mail_lists" as "latest"
			where "latest"."delivery_code" = "mail_lists"."delivery_code"
			  and "latest"."deleted_at" is null
		  )
		order by "mail_lists"."delivery_code" asc ;
	`

	var mailListSlice []models.MailListEntity

	if err := selectSlice(ctx, q, &mailListSlice, query, deliveryID); err != nil {
		return nil, err
	}

	return mailListSlice, nil
}

func (mailListDao) FindCodes(ctx context.Context, q Queryer) ([]string, error) {
	const query = `
		select "delivery_code"
		from "mail_lists"
		where "deleted_at" is null
		group by "delivery_code"
		order by max("delivery_day") desc, "delivery_code" asc ;
	`

	var codes []string

	if err := selectSlice(ctx, q, &codes, query); err != nil {
		return nil, err
	}

	return codes, nil
}

func (mailListDao) LinkDelivery(
	ctx context.Context,
	q Queryer,
	mailListID int64,
	deliveryID int64,
) error {
	const query = `
		update "mail_lists"
		set "delivery_id" = $1
		where "id" = $2 ;
	`

	result, err := execPositional(ctx, q, query, deliveryID, mailListID)
	if err != nil {
		return err
	}

	return ensureRowsAffected(result)
}

func (mailListDao) Delete(ctx context.Context, q Queryer, mailListID int64, now int64) error {
	const query = `
		update "mail_lists"
		set "deleted_at" = $1
		where "id" = $2
		  and "deleted_at" is null ;
	`

	result, err := execPositional(ctx, q, query, now, mailListID)
	if err != nil {
		return err
	}

	return ensureRowsAffected(result)
}
