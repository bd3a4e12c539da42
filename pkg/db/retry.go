package db

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/sethvargo/go-retry"
)

// Connection-level failures get one extra attempt after a fixed pause.
const connRetryAttempts = 2

var connRetryBackoff = time.Second

// withConnRetry runs op, retrying once when it fails with a
// connection-level error. The pool is pinged before the retry so a fresh
// connection is established. Non-connection errors propagate immediately.
func (c *Client) withConnRetry(ctx context.Context, op func() error) error {
	backoff := retry.WithMaxRetries(connRetryAttempts-1, retry.NewConstant(connRetryBackoff))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := op()
		if err == nil {
			return nil
		}
		if !IsConnectionError(err) {
			return err
		}
		c.resetPool(ctx)
		return retry.RetryableError(err)
	})
}

func (c *Client) resetPool(ctx context.Context) {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return
	}
	_ = sqlDB.PingContext(ctx)
}

// Postgres SQLSTATEs raised when the server goes away mid-session.
var terminatedSQLStates = map[string]bool{
	"57P01": true, // admin_shutdown
	"57P02": true, // crash_shutdown
	"57P03": true, // cannot_connect_now
}

// IsConnectionError reports whether err is a connection-level failure
// (refused, timed out, or terminated by the server) as opposed to a
// statement error such as a constraint violation.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return connectionSQLState(pgxErr.Code)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return connectionSQLState(string(pqErr.Code))
	}

	return false
}

func connectionSQLState(code string) bool {
	if len(code) >= 2 && code[:2] == "08" {
		// Class 08: connection exceptions.
		return true
	}
	return terminatedSQLStates[code]
}
