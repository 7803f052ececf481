package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestIsDuplicateKey(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"translated", gorm.ErrDuplicatedKey, true},
		{"translated wrapped", fmt.Errorf("create: %w", gorm.ErrDuplicatedKey), true},
		{"raw unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"raw wrapped", fmt.Errorf("create: %w", &pgconn.PgError{Code: "23505"}), true},
		{"raw other sqlstate", &pgconn.PgError{Code: "23503"}, false},
		{"unrelated", errors.New("connection reset"), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := isDuplicateKey(c.err); got != c.want {
				t.Errorf("isDuplicateKey(%v) = %v, want %v", c.err, got, c.want)
			}
		})
	}
}
