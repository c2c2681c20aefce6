package notif

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"contactdesk/internal/config"
)

type LogObserver struct {
	logger zerolog.Logger
}

func NewLogObserver(logger zerolog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (l *LogObserver) Name() string {
	return "log_observer"
}

func (l *LogObserver) Update(event SubmissionEvent) error {
	e := l.logger.Info().
		Str("event", string(event.Type)).
		Str("submission_id", event.SubmissionID)
	if event.Status != "" {
		e = e.Str("status", event.Status.String())
	}
	e.Msg("submission event")
	return nil
}

// Publisher is the part of *nats.Conn the NATS observer needs
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSObserver publishes each event as JSON on "<subject>.<type>".
type NATSObserver struct {
	pub     Publisher
	subject string
}

func NewNATSObserver(pub Publisher, subject string) *NATSObserver {
	return &NATSObserver{pub: pub, subject: subject}
}

func (n *NATSObserver) Name() string {
	return "nats_observer"
}

func (n *NATSObserver) Update(event SubmissionEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	subject := n.subject + "." + string(event.Type)
	if err := n.pub.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}
	return nil
}

// ConnectNATS dials the configured server. It returns a nil connection, and
// no error, when NATS_URL is empty.
func ConnectNATS(cfg *config.Config) (*nats.Conn, error) {
	if cfg.Messaging.NATSURL == "" {
		log.Info().Msg("NATS_URL not set, submission events are logged only")
		return nil, nil
	}

	nc, err := nats.Connect(cfg.Messaging.NATSURL,
		nats.Name("contactdesk"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	log.Info().Str("subject", cfg.Messaging.Subject).Msg("NATS publisher initialized")
	return nc, nil
}
