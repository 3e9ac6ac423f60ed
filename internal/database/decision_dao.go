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

// DecisionDao is a data access object for the append-only decision audit log.
type DecisionDao interface {
	// Insert appends a new decision and fills in its id.
	Insert(context.Context, Queryer, *models.DecisionEntity) error
	// FindByEntity returns all decisions recorded for an entity in the order
	// they were taken.
	FindByEntity(context.Context, Queryer, string, int64) ([]models.DecisionEntity, error)
}

// decisionDao is the sqlite implementation of DecisionDao.
type decisionDao struct{}

// NewDecisionDao creates a new DecisionDao.
func NewDecisionDao() DecisionDao {
	return decisionDao{}
}

func (decisionDao) Insert(ctx context.Context, q Queryer, decision *models.DecisionEntity) error {
	const query = `
		insert into "decisions" (
			"entity_type" ,
			"entity_id" ,
			"action" ,
			"actor" ,
			"metadata" ,
			"created_at"
		) values (
			:entity_type ,
			:entity_id ,
			:action ,
			:actor ,
			:metadata ,
			:created_at
		) ;
	`

	result, err := execNamed(ctx, q, query, decision)
	if err != nil {
		return err
	}

	decision.ID, err = result.LastInsertId()
	return err
}

func (decisionDao) FindByEntity(
	ctx context.Context,
	q Queryer,
	entityType string,
	entityID int64,
) ([]models.DecisionEntity, error) {
	const query = `
		select *
		from "decisions"
		where "entity_type" = $1
		  and "entity_id" = $2
		order by "id" asc ;
	`

	var decisionSlice []models.DecisionEntity

	if err := selectSlice(ctx, q, &decisionSlice, query, entityType, entityID); err != nil {
		return nil, err
	}

	return decisionSlice, nil
}
