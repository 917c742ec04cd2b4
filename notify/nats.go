package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// msgPublisher is the part of *nats.Conn the publisher needs.
type msgPublisher interface {
	PublishMsg(m *nats.Msg) error
}

// NATSPublisher publishes each notification on <prefix>.match.<kind>.
type NATSPublisher struct {
	conn   msgPublisher
	prefix string
	logger *slog.Logger
}

func NewNATSPublisher(conn msgPublisher, prefix string, logger *slog.Logger) *NATSPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NATSPublisher{conn: conn, prefix: prefix, logger: logger}
}

func (p *NATSPublisher) Subject(kind Kind) string {
	return fmt.Sprintf("%s.match.%s", p.prefix, kind)
}

func (p *NATSPublisher) Notify(ctx context.Context, n MatchNotification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	msgID := uuid.NewString()
	msg := &nats.Msg{
		Subject: p.Subject(n.Kind),
		Data:    data,
		Header: nats.Header{
			nats.MsgIdHdr: []string{msgID},
			"Match-ID":    []string{fmt.Sprint(n.MatchID)},
		},
	}
	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish to NATS: %w", err)
	}

	p.logger.DebugContext(ctx, "published match notification",
		slog.String("subject", msg.Subject),
		slog.String("msg_id", msgID),
		slog.Int("match_id", n.MatchID))
	return nil
}

// ConnectNATS dials the server with infinite reconnects and logs connection
// state changes.
func ConnectNATS(url string, logger *slog.Logger) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("club-system"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Error("NATS disconnected", slog.Any("error", err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", slog.String("url", nc.ConnectedUrl()))
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			logger.Error("NATS error", slog.Any("error", err))
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return nc, nil
}
