package game

import (
	"context"
	"math/rand"
	"strconv"
	"sync"

	cmap "github.com/orcaman/concurrent-map"
	"github.com/rs/zerolog/log"

	"github.com/Demmenty/BlackJack-vkbot-project/deck"
	"github.com/Demmenty/BlackJack-vkbot-project/logging"
	"github.com/Demmenty/BlackJack-vkbot-project/timer"
	"github.com/Demmenty/BlackJack-vkbot-project/util"
)

var managerLogger = log.With().Str("logger_name", "game::manager").Logger()

// Manager drives the round state machine. All state lives in the store;
// the manager re-reads on every operation so a restart never works from a
// stale snapshot.
//
// Every transition runs under the owning chat's lock (WithChatLock), which
// serializes commands and timer continuations for the same game. Without it,
// two players acting at once could both observe "all bets placed" and both
// advance the stage.
type Manager struct {
	store     Store
	deck      deck.Deck
	notifier  *Notifier
	scheduler *timer.Scheduler
	timings   Timings

	chatLocks cmap.ConcurrentMap
}

func NewManager(store Store, d deck.Deck, notifier *Notifier, scheduler *timer.Scheduler, timings Timings) *Manager {
	return &Manager{
		store:     store,
		deck:      d,
		notifier:  notifier,
		scheduler: scheduler,
		timings:   timings,
		chatLocks: cmap.New(),
	}
}

// WithChatLock runs fn while holding the chat's single-writer lock.
func (m *Manager) WithChatLock(chatVKID int64, fn func()) {
	key := strconv.FormatInt(chatVKID, 10)
	v := m.chatLocks.Upsert(key, nil, func(exist bool, valueInMap interface{}, newValue interface{}) interface{} {
		if exist {
			return valueInMap
		}
		return &sync.Mutex{}
	})
	mu := v.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()
	fn()
}

// StartGame begins a new round for the chat.
func (m *Manager) StartGame(ctx context.Context, chatVKID, gameID int64) {
	managerLogger.Info().
		Int64(logging.ChatIDKey, chatVKID).
		Int64(logging.GameIDKey, gameID).
		Msg("Starting game")

	m.notifier.GameStarting(ctx, chatVKID)
	m.GatheringPlayers(ctx, chatVKID, gameID)
}

// GatheringPlayers enters the gathering stage and arms its timer. The stage
// is persisted before the timer is armed so a crash between the two replays
// into the same stage.
func (m *Manager) GatheringPlayers(ctx context.Context, chatVKID, gameID int64) {
	if err := m.store.SetGameStage(ctx, gameID, StageGathering); err != nil {
		m.logStageError(chatVKID, gameID, StageGathering, err)
		return
	}
	util.Metrics.GameStarted()
	m.notifier.WaitingPlayers(ctx, chatVKID, m.timings.GatherSec)

	m.scheduler.Start(m.timings.Gather(), gameID, m.stageContinuation(chatVKID, StageGathering, m.collectPlayers))
}

// stageContinuation wraps a timer body so it only runs when the round is
// still where the timer left it. A command that beat the timer to the chat
// lock has already advanced the round; the late continuation must not repeat
// the transition.
func (m *Manager) stageContinuation(chatVKID int64, stage GameStage, fire func(ctx context.Context, chatVKID, gameID int64)) timer.Continuation {
	return func(gameID int64) {
		m.WithChatLock(chatVKID, func() {
			ctx := context.Background()
			if m.continuationIsStale(ctx, gameID, stage, nil) {
				return
			}
			fire(ctx, chatVKID, gameID)
		})
	}
}

// decisionContinuation passes the turn when the current player never answered.
// The turn must still belong to the player the timer was armed for.
func (m *Manager) decisionContinuation(chatVKID, playerID int64) timer.Continuation {
	return func(gameID int64) {
		m.WithChatLock(chatVKID, func() {
			ctx := context.Background()
			if m.continuationIsStale(ctx, gameID, StageDealingPlayers, &playerID) {
				return
			}
			m.NextPlayerTurn(ctx, chatVKID, gameID)
		})
	}
}

func (m *Manager) continuationIsStale(ctx context.Context, gameID int64, stage GameStage, playerID *int64) bool {
	if m.scheduler.Outstanding(gameID) {
		// A newer timer exists, so a command re-armed the round while this
		// continuation was waiting for the chat lock.
		return true
	}
	game, err := m.store.GetGameByID(ctx, gameID)
	if err != nil {
		managerLogger.Error().Int64(logging.GameIDKey, gameID).Msgf("Could not read game: %s", err)
		return true
	}
	if game.Stage != stage {
		return true
	}
	if playerID != nil && (game.CurrentPlayerID == nil || *game.CurrentPlayerID != *playerID) {
		return true
	}
	return false
}

// collectPlayers runs when the gathering timer fires: abort with no players,
// otherwise move to betting.
func (m *Manager) collectPlayers(ctx context.Context, chatVKID, gameID int64) {
	players, err := m.store.GetActivePlayers(ctx, gameID)
	if err != nil {
		managerLogger.Error().Int64(logging.GameIDKey, gameID).Msgf("Could not list players: %s", err)
		return
	}

	if len(players) == 0 {
		m.notifier.NoPlayers(ctx, chatVKID)
		m.InactivateGame(ctx, gameID)
		m.notifier.GameAborted(ctx, chatVKID, "")
		return
	}

	names := make([]string, 0, len(players))
	for _, player := range players {
		names = append(names, m.playerName(ctx, player.ID))
	}
	m.notifier.ActivePlayers(ctx, chatVKID, names)

	m.StartBetting(ctx, chatVKID, gameID)
}

// StartBetting enters the betting stage and arms its timer.
func (m *Manager) StartBetting(ctx context.Context, chatVKID, gameID int64) {
	if err := m.store.SetGameStage(ctx, gameID, StageBetting); err != nil {
		m.logStageError(chatVKID, gameID, StageBetting, err)
		return
	}
	m.notifier.WaitingBets(ctx, chatVKID, m.timings.BetSec)

	m.scheduler.Start(m.timings.Bet(), gameID, m.stageContinuation(chatVKID, StageBetting, m.collectBets))
}

// collectBets runs when the betting timer fires: players who never put money
// down are deactivated, and the round goes on with whoever is left.
func (m *Manager) collectBets(ctx context.Context, chatVKID, gameID int64) {
	players, err := m.store.GetActivePlayers(ctx, gameID)
	if err != nil {
		managerLogger.Error().Int64(logging.GameIDKey, gameID).Msgf("Could not list players: %s", err)
		return
	}

	for _, player := range players {
		if player.Bet == nil {
			if err := m.store.SetPlayerActive(ctx, player.ID, false); err != nil {
				managerLogger.Error().Int64(logging.PlayerIDKey, player.ID).Msgf("Could not deactivate player: %s", err)
				continue
			}
			m.notifier.NoPlayerBet(ctx, chatVKID, m.playerName(ctx, player.ID))
		}
	}

	players, err = m.store.GetActivePlayers(ctx, gameID)
	if err != nil {
		managerLogger.Error().Int64(logging.GameIDKey, gameID).Msgf("Could not list players: %s", err)
		return
	}

	if len(players) == 0 {
		m.notifier.NoPlayers(ctx, chatVKID)
		m.InactivateGame(ctx, gameID)
		m.notifier.GameAborted(ctx, chatVKID, "")
		return
	}

	m.StartDealing(ctx, chatVKID, gameID)
}

// StartDealing enters the dealing stage and gives the first randomly chosen
// player their cards. A round counts as played for the chat once it reaches
// the deal.
func (m *Manager) StartDealing(ctx context.Context, chatVKID, gameID int64) {
	chat, err := m.store.GetChatByGameID(ctx, gameID)
	if err != nil {
		managerLogger.Error().Int64(logging.GameIDKey, gameID).Msgf("Could not resolve chat: %s", err)
		return
	}
	if err := m.store.AddGamePlayedToChat(ctx, chat.ID); err != nil {
		managerLogger.Error().Int64(logging.ChatIDKey, chatVKID).Msgf("Could not count game: %s", err)
	}

	if err := m.store.SetGameStage(ctx, gameID, StageDealingPlayers); err != nil {
		m.logStageError(chatVKID, gameID, StageDealingPlayers, err)
		return
	}
	m.notifier.DealingStarted(ctx, chatVKID)

	players, err := m.store.GetActivePlayers(ctx, gameID)
	if err != nil || len(players) == 0 {
		managerLogger.Error().Int64(logging.GameIDKey, gameID).Msgf("No players at deal start: %s", err)
		return
	}

	player := players[rand.Intn(len(players))]
	if err := m.store.SetCurrentPlayer(ctx, gameID, &player.ID); err != nil {
		managerLogger.Error().Int64(logging.GameIDKey, gameID).Msgf("Could not set current player: %s", err)
		return
	}

	m.notifier.PlayerTurn(ctx, chatVKID, m.playerName(ctx, player.ID))
	m.DealCardsToPlayer(ctx, 2, chatVKID, gameID, player.ID)
}

// DealCardsToPlayer draws cards for the player, then resolves their hand.
func (m *Manager) DealCardsToPlayer(ctx context.Context, amount int, chatVKID, gameID, playerID int64) {
	cards := make([]deck.Card, amount)
	for i := range cards {
		cards[i] = m.deck.Draw()
	}

	if err := m.store.AddCardsToPlayer(ctx, playerID, cards); err != nil {
		managerLogger.Error().Int64(logging.PlayerIDKey, playerID).Msgf("Could not deal cards: %s", err)
		return
	}

	player, err := m.store.GetPlayerByID(ctx, playerID)
	if err != nil {
		managerLogger.Error().Int64(logging.PlayerIDKey, playerID).Msgf("Could not read player: %s", err)
		return
	}
	m.notifier.CardsReceived(ctx, chatVKID, player.Hand)

	m.checkPlayerHand(ctx, chatVKID, gameID, player)
}

// checkPlayerHand decides what the freshly dealt hand means: natural, 21,
// bust, or a choice to hit or stand.
func (m *Manager) checkPlayerHand(ctx context.Context, chatVKID, gameID int64, player *Player) {
	points := player.Hand.Points()

	switch {
	case points == 21:
		if player.Hand.IsNatural() {
			m.notifier.PlayerBlackjack(ctx, chatVKID, m.playerName(ctx, player.ID))
		}
		m.NextPlayerTurn(ctx, chatVKID, gameID)

	case points > 21:
		m.notifier.PlayerOverflow(ctx, chatVKID)
		m.settlePlayerLoss(ctx, chatVKID, player.ID)
		m.NextPlayerTurn(ctx, chatVKID, gameID)

	default:
		m.notifier.OfferACard(ctx, chatVKID, m.playerName(ctx, player.ID))
		m.scheduler.Start(m.timings.Decision(), gameID, m.decisionContinuation(chatVKID, player.ID))
	}
}

// NextPlayerTurn hands the deal to a random active player without cards, or
// moves on to the dealer when everyone is served.
func (m *Manager) NextPlayerTurn(ctx context.Context, chatVKID, gameID int64) {
	players, err := m.store.GetActivePlayers(ctx, gameID)
	if err != nil {
		managerLogger.Error().Int64(logging.GameIDKey, gameID).Msgf("Could not list players: %s", err)
		return
	}

	if len(players) == 0 {
		// Everyone busted during the deal; there is nothing left to settle.
		m.EndGame(ctx, chatVKID, gameID)
		return
	}

	var withoutCards []*Player
	for _, player := range players {
		if len(player.Hand) == 0 {
			withoutCards = append(withoutCards, player)
		}
	}

	if len(withoutCards) == 0 {
		m.DealToDealer(ctx, chatVKID, gameID)
		return
	}

	player := withoutCards[rand.Intn(len(withoutCards))]
	if err := m.store.SetCurrentPlayer(ctx, gameID, &player.ID); err != nil {
		managerLogger.Error().Int64(logging.GameIDKey, gameID).Msgf("Could not set current player: %s", err)
		return
	}

	m.notifier.PlayerTurn(ctx, chatVKID, m.playerName(ctx, player.ID))
	m.DealCardsToPlayer(ctx, 2, chatVKID, gameID, player.ID)
}

// DealToDealer plays the house hand: two cards, then hit until 17. The final
// hand and points are persisted together before settlement so recovery can
// resume from the cached result.
func (m *Manager) DealToDealer(ctx context.Context, chatVKID, gameID int64) {
	if err := m.store.SetGameStage(ctx, gameID, StageDealingDealer); err != nil {
		m.logStageError(chatVKID, gameID, StageDealingDealer, err)
		return
	}
	m.notifier.DealerDealing(ctx, chatVKID)

	hand := Hand{m.deck.Draw(), m.deck.Draw()}
	points := hand.Points()
	for points < 17 {
		hand = append(hand, m.deck.Draw())
		points = hand.Points()
	}

	if err := m.store.SetDealerHand(ctx, gameID, hand, &points); err != nil {
		managerLogger.Error().Int64(logging.GameIDKey, gameID).Msgf("Could not save dealer hand: %s", err)
		return
	}
	m.notifier.DealerCards(ctx, chatVKID, hand, points)

	m.Settle(ctx, chatVKID, gameID)
}

// Settle compares every remaining active player against the dealer and pays
// out.
func (m *Manager) Settle(ctx context.Context, chatVKID, gameID int64) {
	if err := m.store.SetGameStage(ctx, gameID, StageResults); err != nil {
		m.logStageError(chatVKID, gameID, StageResults, err)
		return
	}

	players, err := m.store.GetActivePlayers(ctx, gameID)
	if err != nil {
		managerLogger.Error().Int64(logging.GameIDKey, gameID).Msgf("Could not list players: %s", err)
		return
	}
	game, err := m.store.GetGameByID(ctx, gameID)
	if err != nil {
		managerLogger.Error().Int64(logging.GameIDKey, gameID).Msgf("Could not read game: %s", err)
		return
	}

	if game.DealerPoints == nil {
		// No dealer hand to settle against; treat the round as void.
		m.InactivateGame(ctx, gameID)
		return
	}
	dealerPoints := *game.DealerPoints

	for _, player := range players {
		switch {
		case dealerPoints > 21:
			m.settlePlayerWin(ctx, chatVKID, player.ID, player.Hand.IsNatural())
		case player.Hand.IsNatural() && dealerPoints < 21:
			m.settlePlayerWin(ctx, chatVKID, player.ID, true)
		case player.Hand.Points() < dealerPoints:
			m.settlePlayerLoss(ctx, chatVKID, player.ID)
		case player.Hand.Points() > dealerPoints:
			m.settlePlayerWin(ctx, chatVKID, player.ID, false)
		default:
			m.settlePlayerDraw(ctx, chatVKID, player.ID)
		}
	}

	util.Metrics.RoundCompleted()
	m.EndGame(ctx, chatVKID, gameID)
}

func (m *Manager) settlePlayerWin(ctx context.Context, chatVKID, playerID int64, blackjack bool) {
	payout, err := m.store.PayBet(ctx, playerID, blackjack)
	if err != nil {
		managerLogger.Error().Int64(logging.PlayerIDKey, playerID).Msgf("Could not pay bet: %s", err)
		return
	}
	m.finishPlayerRound(ctx, playerID, OutcomeWin)
	m.notifier.PlayerWin(ctx, chatVKID, m.playerName(ctx, playerID), payout, blackjack)
}

func (m *Manager) settlePlayerLoss(ctx context.Context, chatVKID, playerID int64) {
	bet, err := m.store.WithdrawBet(ctx, playerID)
	if err != nil {
		managerLogger.Error().Int64(logging.PlayerIDKey, playerID).Msgf("Could not withdraw bet: %s", err)
		return
	}
	m.finishPlayerRound(ctx, playerID, OutcomeLoss)
	m.notifier.PlayerLoss(ctx, chatVKID, m.playerName(ctx, playerID), bet)

	player, err := m.store.GetPlayerByID(ctx, playerID)
	if err == nil && player.Cash == 0 {
		user, uerr := m.store.GetVKUserByPlayer(ctx, playerID)
		if uerr == nil {
			m.notifier.LastCashSpent(ctx, chatVKID, user.Name, user.Sex)
		}
	}
}

func (m *Manager) settlePlayerDraw(ctx context.Context, chatVKID, playerID int64) {
	if err := m.store.SetPlayerBet(ctx, playerID, nil); err != nil {
		managerLogger.Error().Int64(logging.PlayerIDKey, playerID).Msgf("Could not return bet: %s", err)
		return
	}
	m.finishPlayerRound(ctx, playerID, OutcomeDraw)
	m.notifier.PlayerDraw(ctx, chatVKID, m.playerName(ctx, playerID))
}

// finishPlayerRound applies the per-player round epilogue: stats, hand
// cleanup, deactivation.
func (m *Manager) finishPlayerRound(ctx context.Context, playerID int64, outcome RoundOutcome) {
	if err := m.store.IncrementPlayerStats(ctx, playerID, outcome); err != nil {
		managerLogger.Error().Int64(logging.PlayerIDKey, playerID).Msgf("Could not update stats: %s", err)
	}
	if err := m.store.ClearPlayerHand(ctx, playerID); err != nil {
		managerLogger.Error().Int64(logging.PlayerIDKey, playerID).Msgf("Could not clear hand: %s", err)
	}
	if err := m.store.SetPlayerActive(ctx, playerID, false); err != nil {
		managerLogger.Error().Int64(logging.PlayerIDKey, playerID).Msgf("Could not deactivate player: %s", err)
	}
}

// EndGame returns the game row to its idle state and offers another round.
func (m *Manager) EndGame(ctx context.Context, chatVKID, gameID int64) {
	if err := m.store.SetGameStage(ctx, gameID, StageInactive); err != nil {
		m.logStageError(chatVKID, gameID, StageInactive, err)
	}
	if err := m.store.SetCurrentPlayer(ctx, gameID, nil); err != nil {
		managerLogger.Error().Int64(logging.GameIDKey, gameID).Msgf("Could not clear current player: %s", err)
	}
	if err := m.store.SetDealerHand(ctx, gameID, Hand{}, nil); err != nil {
		managerLogger.Error().Int64(logging.GameIDKey, gameID).Msgf("Could not clear dealer hand: %s", err)
	}

	m.notifier.GameEnded(ctx, chatVKID)
	m.notifier.GameOffer(ctx, chatVKID, true)
}

// InactivateGame stops the round without settlement: timer cancelled, stage
// back to inactive, every transient per-player field cleared. No money moves.
func (m *Manager) InactivateGame(ctx context.Context, gameID int64) {
	m.scheduler.End(gameID)

	if err := m.store.SetGameStage(ctx, gameID, StageInactive); err != nil {
		managerLogger.Error().Int64(logging.GameIDKey, gameID).Msgf("Could not inactivate game: %s", err)
	}
	if err := m.store.SetCurrentPlayer(ctx, gameID, nil); err != nil {
		managerLogger.Error().Int64(logging.GameIDKey, gameID).Msgf("Could not clear current player: %s", err)
	}
	if err := m.store.SetDealerHand(ctx, gameID, Hand{}, nil); err != nil {
		managerLogger.Error().Int64(logging.GameIDKey, gameID).Msgf("Could not clear dealer hand: %s", err)
	}

	players, err := m.store.GetPlayers(ctx, gameID)
	if err != nil {
		managerLogger.Error().Int64(logging.GameIDKey, gameID).Msgf("Could not list players: %s", err)
		return
	}
	for _, player := range players {
		if err := m.store.SetPlayerBet(ctx, player.ID, nil); err != nil {
			managerLogger.Error().Int64(logging.PlayerIDKey, player.ID).Msgf("Could not clear bet: %s", err)
		}
		if err := m.store.ClearPlayerHand(ctx, player.ID); err != nil {
			managerLogger.Error().Int64(logging.PlayerIDKey, player.ID).Msgf("Could not clear hand: %s", err)
		}
		if err := m.store.SetPlayerActive(ctx, player.ID, false); err != nil {
			managerLogger.Error().Int64(logging.PlayerIDKey, player.ID).Msgf("Could not deactivate player: %s", err)
		}
	}
}

// SendStatistic reports chat totals and the requesting player's record.
func (m *Manager) SendStatistic(ctx context.Context, chatVKID, vkUserID int64, userName string) {
	chat, err := m.store.GetChatByVKID(ctx, chatVKID)
	if err != nil {
		m.notifier.ChatStat(ctx, chatVKID, 0, 0)
		return
	}
	m.notifier.ChatStat(ctx, chatVKID, chat.GamesPlayed, chat.CasinoCash)

	game, err := m.store.GetGameByChatID(ctx, chat.ID)
	if err != nil {
		return
	}
	user, err := m.store.GetVKUserByVKID(ctx, vkUserID)
	if err != nil {
		m.notifier.PlayerNoStat(ctx, chatVKID, userName)
		return
	}
	player, err := m.store.GetPlayerByUserAndGame(ctx, user.ID, game.ID)
	if err != nil {
		m.notifier.PlayerNoStat(ctx, chatVKID, user.Name)
		return
	}

	m.notifier.PlayerStat(ctx, chatVKID, user.Name,
		player.GamesPlayed, player.GamesWon, player.GamesLost, player.Cash)
}

// Recover resumes every game left in a non-inactive stage by a restart.
// Stages are always persisted before their timers are armed, so replaying
// the persisted stage is safe.
func (m *Manager) Recover(ctx context.Context) error {
	games, err := m.store.GetActiveGames(ctx)
	if err != nil {
		return err
	}

	for _, game := range games {
		chat, err := m.store.GetChatByGameID(ctx, game.ID)
		if err != nil {
			managerLogger.Error().Int64(logging.GameIDKey, game.ID).Msgf("Could not resolve chat for recovery: %s", err)
			continue
		}

		managerLogger.Info().
			Int64(logging.ChatIDKey, chat.VKID).
			Int64(logging.GameIDKey, game.ID).
			Str(logging.StageKey, game.Stage.String()).
			Msg("Recovering game")

		m.notifier.BotReturning(ctx, chat.VKID)

		gameID := game.ID
		stage := game.Stage
		m.WithChatLock(chat.VKID, func() {
			m.recoverGame(ctx, chat.VKID, gameID, stage)
		})
	}
	return nil
}

func (m *Manager) recoverGame(ctx context.Context, chatVKID, gameID int64, stage GameStage) {
	switch stage {
	case StageGathering:
		m.GatheringPlayers(ctx, chatVKID, gameID)

	case StageBetting:
		m.StartBetting(ctx, chatVKID, gameID)

	case StageDealingPlayers:
		m.recoverDealing(ctx, chatVKID, gameID)

	case StageDealingDealer:
		game, err := m.store.GetGameByID(ctx, gameID)
		if err != nil {
			managerLogger.Error().Int64(logging.GameIDKey, gameID).Msgf("Could not read game: %s", err)
			return
		}
		if game.DealerPoints != nil {
			m.Settle(ctx, chatVKID, gameID)
		} else {
			m.DealToDealer(ctx, chatVKID, gameID)
		}

	case StageResults:
		m.Settle(ctx, chatVKID, gameID)
	}
}

// recoverDealing re-enters the card phase: the current player gets their
// decision point back, or the rotation simply continues.
func (m *Manager) recoverDealing(ctx context.Context, chatVKID, gameID int64) {
	game, err := m.store.GetGameByID(ctx, gameID)
	if err != nil {
		managerLogger.Error().Int64(logging.GameIDKey, gameID).Msgf("Could not read game: %s", err)
		return
	}

	if game.CurrentPlayerID != nil {
		player, err := m.store.GetPlayerByID(ctx, *game.CurrentPlayerID)
		if err == nil && player.IsActive {
			if len(player.Hand) == 0 {
				// Crashed after choosing the player but before the deal.
				m.DealCardsToPlayer(ctx, 2, chatVKID, gameID, player.ID)
				return
			}
			if player.Hand.Points() < 21 {
				m.notifier.OfferACard(ctx, chatVKID, m.playerName(ctx, player.ID))
				m.scheduler.Start(m.timings.Decision(), gameID, m.decisionContinuation(chatVKID, player.ID))
				return
			}
		}
	}

	m.NextPlayerTurn(ctx, chatVKID, gameID)
}

func (m *Manager) playerName(ctx context.Context, playerID int64) string {
	user, err := m.store.GetVKUserByPlayer(ctx, playerID)
	if err != nil {
		managerLogger.Warn().Int64(logging.PlayerIDKey, playerID).Msgf("Could not resolve player name: %s", err)
		return "someone"
	}
	return user.Name
}

func (m *Manager) logStageError(chatVKID, gameID int64, stage GameStage, err error) {
	managerLogger.Error().
		Int64(logging.ChatIDKey, chatVKID).
		Int64(logging.GameIDKey, gameID).
		Str(logging.StageKey, stage.String()).
		Msgf("Could not persist stage: %s", err)
}

// Scheduler exposes the timer scheduler to the command handler, which must
// cancel timers when a player acts before expiry.
func (m *Manager) Scheduler() *timer.Scheduler {
	return m.scheduler
}

// Store exposes the persistence adapter to collaborators that only read.
func (m *Manager) Store() Store {
	return m.store
}

// Timings returns the configured stage timeouts.
func (m *Manager) Timings() Timings {
	return m.timings
}
