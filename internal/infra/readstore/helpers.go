package readstore

import (
	"errors"

	"boxcric-api/internal/infra"

	"github.com/jackc/pgx/v5"
)

func mapReadErr(msg string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return infra.WrapRepoErr(msg, err, infra.KindNotFound)
	}
	return infra.WrapRepoErr(msg, err)
}
