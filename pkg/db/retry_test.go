package db

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newRetryTestClient(t *testing.T) *Client {
	t.Helper()
	dsn := "file:db_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	return NewWithConn(conn)
}

func fastBackoff(t *testing.T) {
	t.Helper()
	previous := connRetryBackoff
	connRetryBackoff = time.Millisecond
	t.Cleanup(func() { connRetryBackoff = previous })
}

func TestIsConnectionError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"bad conn", driver.ErrBadConn, true},
		{"refused", fmt.Errorf("dial: %w", syscall.ECONNREFUSED), true},
		{"reset", syscall.ECONNRESET, true},
		{"net timeout", &net.OpError{Op: "read", Err: syscall.ETIMEDOUT}, true},
		{"pg connection exception", &pgconn.PgError{Code: "08006"}, true},
		{"pg admin shutdown", &pgconn.PgError{Code: "57P01"}, true},
		{"pg cannot connect now", &pgconn.PgError{Code: "57P03"}, true},
		{"pg unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsConnectionError(tc.err))
		})
	}
}

func TestWithConnRetryRecoversAfterConnectionFailure(t *testing.T) {
	fastBackoff(t)
	client := newRetryTestClient(t)

	attempts := 0
	err := client.withConnRetry(context.Background(), func() error {
		attempts++
		if attempts == 1 {
			return fmt.Errorf("dial: %w", syscall.ECONNREFUSED)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestWithConnRetryGivesUpAfterTwoAttempts(t *testing.T) {
	fastBackoff(t)
	client := newRetryTestClient(t)

	attempts := 0
	err := client.withConnRetry(context.Background(), func() error {
		attempts++
		return fmt.Errorf("dial: %w", syscall.ECONNREFUSED)
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, syscall.ECONNREFUSED))
	assert.Equal(t, 2, attempts)
}

func TestWithConnRetryDoesNotRetryStatementErrors(t *testing.T) {
	fastBackoff(t)
	client := newRetryTestClient(t)

	uniqueViolation := &pgconn.PgError{Code: "23505", ConstraintName: "uq_rentals_active_user_item"}
	attempts := 0
	err := client.withConnRetry(context.Background(), func() error {
		attempts++
		return uniqueViolation
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr))
	assert.Equal(t, "23505", pgErr.Code)
}

func TestWithTxCommitsThroughRetryWrapper(t *testing.T) {
	fastBackoff(t)
	client := newRetryTestClient(t)
	require.NoError(t, client.DB().Exec(`CREATE TABLE IF NOT EXISTS notes (id INTEGER PRIMARY KEY AUTOINCREMENT, body TEXT NOT NULL);`).Error)

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		return tx.Exec(`INSERT INTO notes (body) VALUES ('hola');`).Error
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, client.DB().Raw(`SELECT COUNT(*) FROM notes;`).Scan(&count).Error)
	assert.Equal(t, int64(1), count)
}
