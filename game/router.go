package game

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/Demmenty/BlackJack-vkbot-project/logging"
	"github.com/Demmenty/BlackJack-vkbot-project/util"
)

var routerLogger = log.With().Str("logger_name", "game::router").Logger()

// actionTypeChatInvite marks the service message posted when the bot joins a
// conversation.
const actionTypeChatInvite = "chat_invite_user"

// chatPeerIDFloor is the first peer ID of a group conversation. Anything
// below it is a direct message.
const chatPeerIDFloor = 2000000000

// route binds an event to its handler and to the stage guard that must pass
// before the handler runs.
type route struct {
	// mustBeOn requires a round in progress; mustBeOff requires the table
	// to be idle. When stages is set, the current stage must be listed.
	mustBeOn  bool
	mustBeOff bool
	stages    []GameStage

	run func(ctx context.Context, update Update)
}

// Router turns inbound chat updates into game actions. Each update is text
// resolved to an event, checked against the stage guard, and executed under
// the chat's lock so commands and timer continuations never interleave.
type Router struct {
	handler *Handler
	manager *Manager
	store   Store
	routes  map[GameEvent]route
}

func NewRouter(handler *Handler, manager *Manager) *Router {
	r := &Router{
		handler: handler,
		manager: manager,
		store:   manager.Store(),
	}
	r.routes = map[GameEvent]route{
		EventOffer: {mustBeOff: true, run: handler.HandleOffer},
		EventStart: {mustBeOff: true, run: handler.HandleStart},
		EventRules: {run: handler.HandleRules},

		EventRegister:   {stages: []GameStage{StageGathering}, run: handler.HandleRegister},
		EventUnregister: {stages: []GameStage{StageGathering, StageBetting}, run: handler.HandleUnregister},

		EventBet:   {stages: []GameStage{StageBetting}, run: r.runBet},
		EventAllIn: {stages: []GameStage{StageBetting}, run: handler.HandleAllIn},

		EventHit:   {stages: []GameStage{StageDealingPlayers}, run: handler.HandleHit},
		EventStand: {stages: []GameStage{StageDealingPlayers}, run: handler.HandleStand},

		EventHand: {mustBeOn: true, run: handler.HandleHand},
		EventCash: {run: handler.HandleCash},

		EventAbort:  {stages: []GameStage{StageGathering, StageBetting}, run: handler.HandleAbort},
		EventCancel: {mustBeOn: true, run: handler.HandleCancel},

		EventStats:       {run: handler.HandleStats},
		EventComplain:    {run: handler.HandleComplain},
		EventRestoreCash: {run: handler.HandleRestoreCash},
	}
	return r
}

// Route dispatches one inbound update.
func (r *Router) Route(ctx context.Context, update Update) {
	util.Metrics.UpdateReceived()

	if update.PeerID < chatPeerIDFloor {
		r.handler.HandlePrivateMessage(ctx, update)
		return
	}
	if update.ActionType == actionTypeChatInvite {
		r.handler.HandleChatInvite(ctx, update)
		return
	}

	event := ResolveEvent(CleanText(update.Text))
	if event == EventUnknown {
		return
	}

	routerLogger.Debug().
		Int64(logging.ChatIDKey, update.PeerID).
		Int64(logging.VKUserIDKey, update.FromID).
		Str(logging.EventKey, event.String()).
		Msg("Routing event")

	rt, ok := r.routes[event]
	if !ok {
		return
	}

	r.manager.WithChatLock(update.PeerID, func() {
		if !r.guardPasses(ctx, update, rt) {
			return
		}
		rt.run(ctx, update)
	})
}

// guardPasses checks the route's stage requirements against the chat's game
// and reports the refusal to the chat. A chat with no game row yet counts as
// idle.
func (r *Router) guardPasses(ctx context.Context, update Update, rt route) bool {
	if !rt.mustBeOn && !rt.mustBeOff && len(rt.stages) == 0 {
		return true
	}

	stage := StageInactive
	game, err := r.gameForChat(ctx, update.PeerID)
	if err == nil {
		stage = game.Stage
	} else if !errors.Is(err, ErrNotFound) {
		routerLogger.Error().Int64(logging.ChatIDKey, update.PeerID).Msgf("Could not resolve game: %s", err)
		return false
	}

	if rt.mustBeOff && stage != StageInactive {
		r.handler.notifier.GameIsOn(ctx, update.PeerID)
		return false
	}
	if (rt.mustBeOn || len(rt.stages) > 0) && stage == StageInactive {
		r.handler.notifier.GameIsOff(ctx, update.PeerID)
		return false
	}
	if len(rt.stages) > 0 {
		for _, allowed := range rt.stages {
			if stage == allowed {
				return true
			}
		}
		r.handler.notifier.WrongStage(ctx, update.PeerID)
		return false
	}
	return true
}

func (r *Router) runBet(ctx context.Context, update Update) {
	bet, err := strconv.ParseInt(CleanText(update.Text), 10, 64)
	if err != nil {
		// Digits that do not fit int64 are still a bet attempt.
		r.handler.notifier.TooBigBet(ctx, update.PeerID, r.handler.userName(ctx, update.FromID))
		return
	}
	r.handler.HandleBet(ctx, update, bet)
}

func (r *Router) gameForChat(ctx context.Context, chatVKID int64) (*Game, error) {
	chat, err := r.store.GetChatByVKID(ctx, chatVKID)
	if err != nil {
		return nil, err
	}
	return r.store.GetGameByChatID(ctx, chat.ID)
}
