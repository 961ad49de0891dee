package vk

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/Demmenty/BlackJack-vkbot-project/game"
)

var pollerLogger = log.With().Str("logger_name", "vk::poller").Logger()

const pollWaitSec = 25

// Poller runs the group long-poll loop and hands every message update to the
// publish callback. The ts cursor is persisted after each delivered batch.
type Poller struct {
	client  *Client
	groupID int64
	cursor  CursorStore
	publish func(game.Update) error

	httpClient *http.Client

	server string
	key    string
	ts     string
}

func NewPoller(client *Client, groupID int64, cursor CursorStore, publish func(game.Update) error) *Poller {
	return &Poller{
		client:  client,
		groupID: groupID,
		cursor:  cursor,
		publish: publish,
		// The wait parameter holds the connection open; the timeout must
		// outlast it.
		httpClient: &http.Client{Timeout: (pollWaitSec + 10) * time.Second},
	}
}

// Run polls until the context is cancelled. Transient failures back off and
// retry; the loop only returns on cancellation.
func (p *Poller) Run(ctx context.Context) error {
	if err := p.renewServer(ctx); err != nil {
		return err
	}
	if saved, err := p.cursor.Load(ctx); err != nil {
		pollerLogger.Warn().Msgf("Could not load cursor, starting fresh: %s", err)
	} else if saved != "" {
		p.ts = saved
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.poll(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			pollerLogger.Error().Msgf("Poll failed: %s", err)
			time.Sleep(3 * time.Second)
		}
	}
}

type longPollResponse struct {
	Failed  int              `json:"failed"`
	TS      string           `json:"ts"`
	Updates []longPollUpdate `json:"updates"`
}

type longPollUpdate struct {
	Type   string `json:"type"`
	Object struct {
		Message struct {
			ID     int64  `json:"id"`
			FromID int64  `json:"from_id"`
			PeerID int64  `json:"peer_id"`
			Text   string `json:"text"`
			Action struct {
				Type string `json:"type"`
			} `json:"action"`
		} `json:"message"`
	} `json:"object"`
}

func (p *Poller) poll(ctx context.Context) error {
	query := url.Values{}
	query.Set("act", "a_check")
	query.Set("key", p.key)
	query.Set("ts", p.ts)
	query.Set("wait", strconv.Itoa(pollWaitSec))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.server+"?"+query.Encode(), nil)
	if err != nil {
		return errors.Wrap(err, "could not build poll request")
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "poll request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "could not read poll response")
	}

	var result longPollResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return errors.Wrap(err, "could not decode poll response")
	}

	switch result.Failed {
	case 0:
		// Normal batch.
	case 1:
		// History is ahead of our cursor; adopt the server's ts.
		p.ts = result.TS
		return p.cursor.Save(ctx, p.ts)
	case 2, 3:
		// Key expired or state lost; a fresh server handle fixes both.
		pollerLogger.Warn().Msgf("Long-poll session invalid (failed=%d), renewing", result.Failed)
		return p.renewServer(ctx)
	default:
		return errors.Errorf("unexpected long-poll failure code %d", result.Failed)
	}

	for _, raw := range result.Updates {
		if raw.Type != "message_new" {
			continue
		}
		msg := raw.Object.Message
		update := game.Update{
			ID:         msg.ID,
			Type:       raw.Type,
			FromID:     msg.FromID,
			PeerID:     msg.PeerID,
			ActionType: msg.Action.Type,
			Text:       msg.Text,
		}
		if err := p.publish(update); err != nil {
			pollerLogger.Error().Msgf("Could not publish update %d: %s", msg.ID, err)
		}
	}

	p.ts = result.TS
	return p.cursor.Save(ctx, p.ts)
}

// renewServer fetches a fresh long-poll endpoint, key and cursor.
func (p *Poller) renewServer(ctx context.Context) error {
	params := url.Values{}
	params.Set("group_id", strconv.FormatInt(p.groupID, 10))

	var result struct {
		Server string `json:"server"`
		Key    string `json:"key"`
		TS     string `json:"ts"`
	}
	if err := p.client.call(ctx, "groups.getLongPollServer", params, &result); err != nil {
		return errors.Wrap(err, "could not get long-poll server")
	}

	p.server = result.Server
	p.key = result.Key
	p.ts = result.TS
	pollerLogger.Info().Msg("Long-poll session renewed")
	return nil
}
