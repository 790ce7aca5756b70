package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Listener follows Postgres NOTIFY events on a single channel. Each call to
// Listen pins one pooled connection for the lifetime of the subscription;
// the trigger installed by the migrations fires the channel on every patient
// write, which makes the database itself the change stream.
type Listener struct {
	pool    *pgxpool.Pool
	channel string
	logger  zerolog.Logger
}

func NewListener(pool *pgxpool.Pool, channel string, logger zerolog.Logger) *Listener {
	return &Listener{pool: pool, channel: channel, logger: logger}
}

// Listen subscribes to the channel and invokes onChange for every
// notification until cancel is called or ctx ends. Setup errors (no
// connection, LISTEN rejected) are returned synchronously; the subscription
// never silently degrades into a stream that never fires. The returned
// cancel releases the pinned connection and must be called exactly once.
func (l *Listener) Listen(ctx context.Context, onChange func()) (cancel func(), err error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire listen connection: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+l.channel); err != nil {
		conn.Release()
		return nil, fmt.Errorf("listen on %s: %w", l.channel, err)
	}

	lctx, stop := context.WithCancel(ctx)
	go func() {
		defer conn.Release()
		for {
			if _, err := conn.Conn().WaitForNotification(lctx); err != nil {
				if lctx.Err() != nil {
					return
				}
				l.logger.Error().Err(err).Str("channel", l.channel).Msg("notification wait failed")
				return
			}
			onChange()
		}
	}()

	return stop, nil
}
