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
	"strings"

	"github.com/krzysztof-prog/markbud/internal/models"
)

// OrderDao is a data access object for all production order related queries.
type OrderDao interface {
	// Insert inserts a new order and fills in its id.
	Insert(context.Context, Queryer, *models.OrderEntity) error
	// FindByID returns one order.
	FindByID(context.Context, Queryer, int64) (*models.OrderEntity, error)
	// FindCandidatesByProjectNumbers returns all orders whose project column
	// contains any of the numbers as a substring. The boundary-safe token
	// match happens in the enrichment service; this query only narrows the
	// candidate set.
	FindCandidatesByProjectNumbers(context.Context, Queryer, []string) ([]models.OrderEntity, error)
}

// orderDao is the sqlite implementation of OrderDao.
type orderDao struct{}

// NewOrderDao creates a new OrderDao.
func NewOrderDao() OrderDao {
	return orderDao{}
}

func (orderDao) Insert(ctx context.Context, q Queryer, order *models.OrderEntity) error {
	const query = `
		insert into "orders" (
			"order_number" ,
			"client" ,
			"project" ,
			"status" ,
			"delivery_date"
		) values (
			:order_number ,
			:client ,
			:project ,
			:status ,
			:delivery_date
		) ;
	`

	result, err := execNamed(ctx, q, query, order)
	if err != nil {
		return err
	}

	order.ID, err = result.LastInsertId()
	return err
}

func (orderDao) FindByID(ctx context.Context, q Queryer, id int64) (*models.OrderEntity, error) {
	const query = `
		select *
		from "orders"
		where "id" = $1 ;
	`

	var order models.OrderEntity

	if err := selectOne(ctx, q, &order, query, id); err != nil {
		return nil, err
	}

	return &order, nil
}

func (orderDao) FindCandidatesByProjectNumbers(
	ctx context.Context,
	q Queryer,
	numbers []string,
) ([]models.OrderEntity, error) {
	if len(numbers) == 0 {
		return nil, nil
	}

	var (
		conditions = make([]string, 0, len(numbers))
		args       = make([]any, 0, len(numbers))
	)

	for _, number := range numbers {
		conditions = append(conditions, `instr(upper("project"), ?) > 0`)
		args = append(args, strings.ToUpper(number))
	}

	query := `
		select *
		from "orders"
		where ` + strings.Join(conditions, " or ") + `
		order by "id" asc ;
	`

	var orderSlice []models.OrderEntity

	if err := selectSlice(ctx, q, &orderSlice, query, args...); err != nil {
		return nil, err
	}

	return orderSlice, nil
}
