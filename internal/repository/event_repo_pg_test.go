package repository

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewEventRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewEventRepository(pool)
	assert.NotNil(t, repo)
}
