package game

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/Demmenty/BlackJack-vkbot-project/logging"
)

var handlerLogger = log.With().Str("logger_name", "game::handler").Logger()

// Handler executes individual player commands. The router has already
// verified the stage guard and taken the chat lock before any of these run.
type Handler struct {
	manager  *Manager
	store    Store
	notifier *Notifier
	users    UserDirectory
	members  ChatMemberLister
}

func NewHandler(manager *Manager, notifier *Notifier, users UserDirectory, members ChatMemberLister) *Handler {
	return &Handler{
		manager:  manager,
		store:    manager.Store(),
		notifier: notifier,
		users:    users,
		members:  members,
	}
}

// HandleOffer invites the chat to play.
func (h *Handler) HandleOffer(ctx context.Context, update Update) {
	h.notifier.GameOffer(ctx, update.PeerID, false)
}

// HandleRules recites the table rules to whoever asked.
func (h *Handler) HandleRules(ctx context.Context, update Update) {
	user, err := h.resolveUser(ctx, update.FromID)
	name := "stranger"
	if err == nil {
		name = user.Name
	}
	h.notifier.Rules(ctx, update.PeerID, name)
}

// HandleStart opens a new round. Chat and game rows are created on first
// contact; afterwards the same game row is reused for every round.
func (h *Handler) HandleStart(ctx context.Context, update Update) {
	_, game, err := h.getOrCreateGame(ctx, update.PeerID)
	if err != nil {
		handlerLogger.Error().Int64(logging.ChatIDKey, update.PeerID).Msgf("Could not prepare game: %s", err)
		return
	}

	if h.everyMemberIsBroke(ctx, update.PeerID, game.ID) {
		h.notifier.AllLosers(ctx, update.PeerID)
		return
	}

	h.manager.StartGame(ctx, update.PeerID, game.ID)
}

// HandleRegister seats the player for the gathering round. First-timers get
// the configured start cash.
func (h *Handler) HandleRegister(ctx context.Context, update Update) {
	game, err := h.gameForChat(ctx, update.PeerID)
	if err != nil {
		handlerLogger.Error().Int64(logging.ChatIDKey, update.PeerID).Msgf("Could not resolve game: %s", err)
		return
	}
	user, err := h.resolveUser(ctx, update.FromID)
	if err != nil {
		handlerLogger.Error().Int64(logging.VKUserIDKey, update.FromID).Msgf("Could not resolve user: %s", err)
		return
	}

	player, err := h.store.GetPlayerByUserAndGame(ctx, user.ID, game.ID)
	switch {
	case err == nil:
		if player.IsActive {
			h.notifier.PlayerRegisteredAlready(ctx, update.PeerID, user.Name)
			return
		}
		if player.Cash == 0 {
			h.notifier.NoCashToPlay(ctx, update.PeerID, user.Name)
			return
		}
		if err := h.store.SetPlayerActive(ctx, player.ID, true); err != nil {
			handlerLogger.Error().Int64(logging.PlayerIDKey, player.ID).Msgf("Could not activate player: %s", err)
			return
		}
		h.notifier.PlayerRegistered(ctx, update.PeerID, user.Name)

	case errors.Is(err, ErrNotFound):
		settings, err := h.store.GetGlobalSettings(ctx)
		if err != nil {
			handlerLogger.Error().Msgf("Could not read settings: %s", err)
			return
		}
		if _, err := h.store.CreatePlayer(ctx, user.ID, game.ID, settings.StartCash); err != nil {
			handlerLogger.Error().Int64(logging.VKUserIDKey, update.FromID).Msgf("Could not create player: %s", err)
			return
		}
		h.notifier.StartCashGiven(ctx, update.PeerID, user.Name, settings.StartCash)
		h.notifier.PlayerRegistered(ctx, update.PeerID, user.Name)

	default:
		handlerLogger.Error().Int64(logging.VKUserIDKey, update.FromID).Msgf("Could not look up player: %s", err)
		return
	}

	if h.everyMemberPlays(ctx, update.PeerID, game.ID) {
		h.notifier.AllPlay(ctx, update.PeerID)
		h.manager.Scheduler().End(game.ID)
		h.manager.StartBetting(ctx, update.PeerID, game.ID)
	}
}

// HandleUnregister lets a seated player leave before the deal. Any pending
// bet simply evaporates since money only moves at settlement.
func (h *Handler) HandleUnregister(ctx context.Context, update Update) {
	player, user, err := h.activePlayer(ctx, update)
	if err != nil {
		return
	}

	if err := h.store.SetPlayerBet(ctx, player.ID, nil); err != nil {
		handlerLogger.Error().Int64(logging.PlayerIDKey, player.ID).Msgf("Could not clear bet: %s", err)
		return
	}
	if err := h.store.SetPlayerActive(ctx, player.ID, false); err != nil {
		handlerLogger.Error().Int64(logging.PlayerIDKey, player.ID).Msgf("Could not deactivate player: %s", err)
		return
	}
	h.notifier.PlayerUnregistered(ctx, update.PeerID, user.Name)
}

// HandleBet places the player's stake for the round.
func (h *Handler) HandleBet(ctx context.Context, update Update, bet int64) {
	player, user, err := h.activePlayer(ctx, update)
	if err != nil {
		return
	}
	h.placeBet(ctx, update.PeerID, player, user, bet)
}

// HandleAllIn bets the player's whole purse.
func (h *Handler) HandleAllIn(ctx context.Context, update Update) {
	player, user, err := h.activePlayer(ctx, update)
	if err != nil {
		return
	}
	h.placeBet(ctx, update.PeerID, player, user, player.Cash)
}

func (h *Handler) placeBet(ctx context.Context, peerID int64, player *Player, user *VKUser, bet int64) {
	if player.Bet != nil {
		h.notifier.BetAcceptedAlready(ctx, peerID, user.Name, *player.Bet)
		return
	}
	if bet == 0 {
		h.notifier.ZeroBet(ctx, peerID, user.Name)
		return
	}
	if bet > player.Cash {
		h.notifier.TooBigBet(ctx, peerID, user.Name)
		return
	}

	if err := h.store.SetPlayerBet(ctx, player.ID, &bet); err != nil {
		handlerLogger.Error().Int64(logging.PlayerIDKey, player.ID).Msgf("Could not place bet: %s", err)
		return
	}
	h.notifier.BetAccepted(ctx, peerID, user.Name, bet)

	if h.allBetsPlaced(ctx, player.GameID) {
		h.notifier.AllBetsPlaced(ctx, peerID)
		h.manager.Scheduler().End(player.GameID)
		h.manager.StartDealing(ctx, peerID, player.GameID)
	}
}

// HandleHit deals one more card to the current player.
func (h *Handler) HandleHit(ctx context.Context, update Update) {
	player, ok := h.currentPlayer(ctx, update)
	if !ok {
		return
	}
	h.manager.Scheduler().End(player.GameID)
	h.manager.DealCardsToPlayer(ctx, 1, update.PeerID, player.GameID, player.ID)
}

// HandleStand closes the current player's hand and passes the deal on.
func (h *Handler) HandleStand(ctx context.Context, update Update) {
	player, ok := h.currentPlayer(ctx, update)
	if !ok {
		return
	}
	h.manager.Scheduler().End(player.GameID)
	h.manager.NextPlayerTurn(ctx, update.PeerID, player.GameID)
}

// HandleHand repeats the player's current cards.
func (h *Handler) HandleHand(ctx context.Context, update Update) {
	player, user, err := h.activePlayer(ctx, update)
	if err != nil {
		return
	}
	h.notifier.ShowHand(ctx, update.PeerID, user.Name, player.Hand)
}

// HandleCash reports the player's spendable money: the purse minus any bet
// already on the felt.
func (h *Handler) HandleCash(ctx context.Context, update Update) {
	user, err := h.resolveUser(ctx, update.FromID)
	if err != nil {
		return
	}

	player, err := h.findPlayer(ctx, update.PeerID, user.ID)
	if err != nil {
		h.notifier.NotAPlayerCash(ctx, update.PeerID, user.Name)
		return
	}

	cash := player.Cash
	if player.Bet != nil {
		cash -= *player.Bet
	}
	h.notifier.ShowCash(ctx, update.PeerID, user.Name, cash)
}

// HandleAbort stops a round that has not yet reached the cards.
func (h *Handler) HandleAbort(ctx context.Context, update Update) {
	game, err := h.gameForChat(ctx, update.PeerID)
	if err != nil {
		return
	}
	h.manager.InactivateGame(ctx, game.ID)
	h.notifier.GameAborted(ctx, update.PeerID, h.userName(ctx, update.FromID))
}

// HandleCancel hard-stops a round at any stage. Bets on the felt evaporate
// unsettled.
func (h *Handler) HandleCancel(ctx context.Context, update Update) {
	game, err := h.gameForChat(ctx, update.PeerID)
	if err != nil {
		return
	}
	h.manager.InactivateGame(ctx, game.ID)
	h.notifier.GameCanceled(ctx, update.PeerID, h.userName(ctx, update.FromID))
}

// HandleStats reports chat totals and the caller's own record.
func (h *Handler) HandleStats(ctx context.Context, update Update) {
	h.manager.SendStatistic(ctx, update.PeerID, update.FromID, h.userName(ctx, update.FromID))
}

// HandleComplain answers a complaint with a hint at the magic words, but
// only once somebody at the table has actually gone broke.
func (h *Handler) HandleComplain(ctx context.Context, update Update) {
	game, err := h.gameForChat(ctx, update.PeerID)
	if err != nil {
		return
	}
	losers, err := h.store.CountLosers(ctx, game.ID)
	if err != nil || losers == 0 {
		return
	}
	h.notifier.RestoreHint(ctx, update.PeerID, h.userName(ctx, update.FromID))
}

// HandleRestoreCash stops the running round and resets every player's purse
// to the start cash. The magic words do nothing while nobody is broke.
func (h *Handler) HandleRestoreCash(ctx context.Context, update Update) {
	game, err := h.gameForChat(ctx, update.PeerID)
	if err != nil {
		return
	}
	losers, err := h.store.CountLosers(ctx, game.ID)
	if err != nil || losers == 0 {
		return
	}

	h.manager.InactivateGame(ctx, game.ID)

	settings, err := h.store.GetGlobalSettings(ctx)
	if err != nil {
		handlerLogger.Error().Msgf("Could not read settings: %s", err)
		return
	}
	players, err := h.store.GetPlayers(ctx, game.ID)
	if err != nil {
		handlerLogger.Error().Int64(logging.GameIDKey, game.ID).Msgf("Could not list players: %s", err)
		return
	}
	for _, player := range players {
		if err := h.store.SetPlayerCash(ctx, player.ID, settings.StartCash); err != nil {
			handlerLogger.Error().Int64(logging.PlayerIDKey, player.ID).Msgf("Could not restore cash: %s", err)
		}
	}

	h.notifier.CashRestored(ctx, update.PeerID)
	h.notifier.GameOffer(ctx, update.PeerID, false)
}

// HandlePrivateMessage answers direct messages; the game only runs in group
// conversations.
func (h *Handler) HandlePrivateMessage(ctx context.Context, update Update) {
	h.notifier.PrivateChat(ctx, update.PeerID)
}

// HandleChatInvite greets the conversation the bot was just added to.
func (h *Handler) HandleChatInvite(ctx context.Context, update Update) {
	h.notifier.ChatInvite(ctx, update.PeerID)
}

// getOrCreateGame resolves the chat and its game row, creating either on
// first contact with the conversation.
func (h *Handler) getOrCreateGame(ctx context.Context, chatVKID int64) (*Chat, *Game, error) {
	chat, err := h.store.GetChatByVKID(ctx, chatVKID)
	if errors.Is(err, ErrNotFound) {
		chat, err = h.store.CreateChat(ctx, chatVKID)
	}
	if err != nil {
		return nil, nil, err
	}

	game, err := h.store.GetGameByChatID(ctx, chat.ID)
	if errors.Is(err, ErrNotFound) {
		game, err = h.store.CreateGame(ctx, chat.ID)
	}
	if err != nil {
		return nil, nil, err
	}
	return chat, game, nil
}

func (h *Handler) gameForChat(ctx context.Context, chatVKID int64) (*Game, error) {
	chat, err := h.store.GetChatByVKID(ctx, chatVKID)
	if err != nil {
		return nil, err
	}
	return h.store.GetGameByChatID(ctx, chat.ID)
}

// resolveUser returns the stored identity for the sender, fetching name and
// sex from the directory on first sight.
func (h *Handler) resolveUser(ctx context.Context, vkUserID int64) (*VKUser, error) {
	user, err := h.store.GetVKUserByVKID(ctx, vkUserID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	name, sex, err := h.users.GetUser(ctx, vkUserID)
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch user from directory")
	}
	return h.store.CreateVKUser(ctx, vkUserID, name, sex)
}

func (h *Handler) userName(ctx context.Context, vkUserID int64) string {
	user, err := h.resolveUser(ctx, vkUserID)
	if err != nil {
		return "someone"
	}
	return user.Name
}

// activePlayer returns the sender's seated player for the chat's game. A
// sender without a seat gets the not-a-player reply and a nil player.
func (h *Handler) activePlayer(ctx context.Context, update Update) (*Player, *VKUser, error) {
	user, err := h.resolveUser(ctx, update.FromID)
	if err != nil {
		return nil, nil, err
	}
	player, err := h.findPlayer(ctx, update.PeerID, user.ID)
	if errors.Is(err, ErrNotFound) || (err == nil && !player.IsActive) {
		h.notifier.NotAPlayer(ctx, update.PeerID, user.Name)
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return player, user, nil
}

func (h *Handler) findPlayer(ctx context.Context, chatVKID, userID int64) (*Player, error) {
	game, err := h.gameForChat(ctx, chatVKID)
	if err != nil {
		return nil, err
	}
	return h.store.GetPlayerByUserAndGame(ctx, userID, game.ID)
}

// currentPlayer verifies the sender holds the deal right now.
func (h *Handler) currentPlayer(ctx context.Context, update Update) (*Player, bool) {
	user, err := h.resolveUser(ctx, update.FromID)
	if err != nil {
		return nil, false
	}

	game, err := h.gameForChat(ctx, update.PeerID)
	if err != nil {
		return nil, false
	}
	player, err := h.store.GetPlayerByUserAndGame(ctx, user.ID, game.ID)
	if err != nil || !player.IsActive {
		h.notifier.NotAPlayer(ctx, update.PeerID, user.Name)
		return nil, false
	}
	if game.CurrentPlayerID == nil || *game.CurrentPlayerID != player.ID {
		h.notifier.NotYourTurn(ctx, update.PeerID, user.Name)
		return nil, false
	}
	return player, true
}

func (h *Handler) allBetsPlaced(ctx context.Context, gameID int64) bool {
	players, err := h.store.GetActivePlayers(ctx, gameID)
	if err != nil || len(players) == 0 {
		return false
	}
	for _, player := range players {
		if player.Bet == nil {
			return false
		}
	}
	return true
}

// everyMemberPlays reports whether every chat member who still has money is
// seated. A directory failure just means the timer decides instead.
func (h *Handler) everyMemberPlays(ctx context.Context, chatVKID, gameID int64) bool {
	members, err := h.members.GetChatMembers(ctx, chatVKID)
	if err != nil || len(members) == 0 {
		return false
	}
	actives, err := h.store.GetActivePlayers(ctx, gameID)
	if err != nil || len(actives) == 0 {
		return false
	}
	losers, err := h.store.CountLosers(ctx, gameID)
	if err != nil {
		return false
	}
	return len(actives)+losers >= len(members)
}

// everyMemberIsBroke reports whether there is nobody left in the chat with
// money to play.
func (h *Handler) everyMemberIsBroke(ctx context.Context, chatVKID, gameID int64) bool {
	members, err := h.members.GetChatMembers(ctx, chatVKID)
	if err != nil || len(members) == 0 {
		return false
	}
	losers, err := h.store.CountLosers(ctx, gameID)
	if err != nil {
		return false
	}
	return losers >= len(members)
}
