package views

import (
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Subject carries one invalidated path per message.
const Subject = "views.invalidate"

// Publisher is the part of *nats.Conn the notifier uses.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSNotifier broadcasts invalidations so every rendering replica drops its
// copy. Publish only buffers; delivery failures are logged and dropped.
type NATSNotifier struct {
	pub    Publisher
	logger *zap.Logger
}

func NewNATSNotifier(pub Publisher, logger *zap.Logger) *NATSNotifier {
	return &NATSNotifier{pub: pub, logger: logger}
}

func (n *NATSNotifier) Invalidate(path string) {
	if err := n.pub.Publish(Subject, []byte(path)); err != nil {
		n.logger.Warn("view invalidation publish failed", zap.String("path", path), zap.Error(err))
	}
}

// Connect dials NATS with reconnects enabled.
func Connect(url string, logger *zap.Logger) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("facturador"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
}

// Subscribe applies every invalidation received on Subject to local. Used by
// replicas that keep their own StaleSet.
func Subscribe(conn *nats.Conn, local Notifier) (*nats.Subscription, error) {
	return conn.Subscribe(Subject, func(msg *nats.Msg) {
		local.Invalidate(string(msg.Data))
	})
}
