// Package relay moves chat updates from the poller process to the game
// service over NATS. The two run as separate binaries so a game service
// deploy never drops the long-poll cursor.
package relay

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	natsgo "github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/Demmenty/BlackJack-vkbot-project/game"
)

var relayLogger = log.With().Str("logger_name", "relay::relay").Logger()

// UpdatesSubject carries one JSON-encoded game.Update per message.
const UpdatesSubject = "vk.updates"

// Publisher is the poller side of the relay.
type Publisher struct {
	nc *natsgo.Conn
}

func NewPublisher(nc *natsgo.Conn) *Publisher {
	return &Publisher{nc: nc}
}

func (p *Publisher) PublishUpdate(update game.Update) error {
	data, err := jsoniter.Marshal(update)
	if err != nil {
		return errors.Wrap(err, "could not marshal update")
	}
	if err := p.nc.Publish(UpdatesSubject, data); err != nil {
		return errors.Wrap(err, "could not publish update")
	}
	return nil
}

// Subscriber is the game-service side of the relay. Each update is routed on
// its own goroutine; the per-chat lock inside the router keeps ordering
// where it matters.
type Subscriber struct {
	router *game.Router
	sub    *natsgo.Subscription
}

func Subscribe(nc *natsgo.Conn, router *game.Router) (*Subscriber, error) {
	s := &Subscriber{router: router}
	relayLogger.Info().Msgf("Subscribing to nats subject %s", UpdatesSubject)
	sub, err := nc.Subscribe(UpdatesSubject, s.handleUpdate)
	if err != nil {
		return nil, errors.Wrapf(err, "could not subscribe to %s", UpdatesSubject)
	}
	s.sub = sub
	return s, nil
}

func (s *Subscriber) handleUpdate(msg *natsgo.Msg) {
	var update game.Update
	if err := jsoniter.Unmarshal(msg.Data, &update); err != nil {
		relayLogger.Error().Msgf("Could not unmarshal update: %s", err)
		return
	}
	go s.router.Route(context.Background(), update)
}

func (s *Subscriber) Close() {
	if s.sub != nil {
		if err := s.sub.Unsubscribe(); err != nil {
			relayLogger.Warn().Msgf("Could not unsubscribe: %s", err)
		}
	}
}
