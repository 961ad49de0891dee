package vk

import (
	"context"
	"math/rand"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/Demmenty/BlackJack-vkbot-project/game"
	"github.com/Demmenty/BlackJack-vkbot-project/logging"
)

var senderLogger = log.With().Str("logger_name", "vk::sender").Logger()

// Sender delivers bot messages through messages.send.
type Sender struct {
	client *Client
}

func NewSender(client *Client) *Sender {
	return &Sender{client: client}
}

func (s *Sender) SendMessage(ctx context.Context, msg game.BotMessage) error {
	params := url.Values{}
	params.Set("peer_id", strconv.FormatInt(msg.PeerID, 10))
	params.Set("message", msg.Text)
	// random_id deduplicates retried sends on the platform side.
	params.Set("random_id", strconv.FormatInt(rand.Int63(), 10))
	if msg.Keyboard != "" {
		params.Set("keyboard", msg.Keyboard)
	}

	var messageID int64
	if err := s.client.call(ctx, "messages.send", params, &messageID); err != nil {
		return err
	}
	senderLogger.Debug().
		Int64(logging.ChatIDKey, msg.PeerID).
		Msgf("Sent message %d", messageID)
	return nil
}
