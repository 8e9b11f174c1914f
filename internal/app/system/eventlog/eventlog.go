// internal/app/system/eventlog/eventlog.go
package eventlog

import (
	"context"

	eventstore "github.com/commitchain/commitchaind/internal/app/store/events"
	"github.com/commitchain/commitchaind/internal/domain/models"
	"go.uber.org/zap"
)

// Logger emits ledger events to the events collection and mirrors them into
// structured logs. A nil Logger is a no-op, which lets store-level tests
// skip event wiring.
type Logger struct {
	store  *eventstore.Store
	zapLog *zap.Logger
}

func New(store *eventstore.Store, zapLog *zap.Logger) *Logger {
	return &Logger{store: store, zapLog: zapLog}
}

// Emit appends the event and logs it. Persistence failures are logged, not
// propagated: the state change the event describes has already committed,
// and the caller's response should reflect that.
func (l *Logger) Emit(ctx context.Context, ev models.Event) {
	if l == nil {
		return
	}

	fields := []zap.Field{
		zap.String("event", ev.Type),
	}
	if ev.GroupID != 0 {
		fields = append(fields, zap.Uint64("group_id", ev.GroupID))
	}
	if ev.Address != "" {
		fields = append(fields, zap.String("address", ev.Address))
	}
	for k, v := range ev.Fields {
		fields = append(fields, zap.Any(k, v))
	}
	l.zapLog.Info("ledger event", fields...)

	if err := l.store.Append(ctx, ev); err != nil {
		l.zapLog.Error("event append failed", zap.String("event", ev.Type), zap.Error(err))
	}
}
