package game

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/Demmenty/BlackJack-vkbot-project/logging"
	"github.com/Demmenty/BlackJack-vkbot-project/util"
)

var notifierLogger = log.With().Str("logger_name", "game::notifier").Logger()

// Notifier turns game events into chat messages. Send failures are logged
// and swallowed: a missed announcement must not wedge the round.
type Notifier struct {
	sender MessageSender
}

func NewNotifier(sender MessageSender) *Notifier {
	return &Notifier{sender: sender}
}

func (n *Notifier) send(ctx context.Context, peerID int64, text string, keyboard string) {
	err := n.sender.SendMessage(ctx, BotMessage{
		PeerID:   peerID,
		Text:     text,
		Keyboard: keyboard,
	})
	if err != nil {
		notifierLogger.Error().
			Int64(logging.ChatIDKey, peerID).
			Msgf("Could not send notification: %s", err)
		return
	}
	util.Metrics.MessageSent()
}

func (n *Notifier) GameOffer(ctx context.Context, peerID int64, again bool) {
	buttons := [][]Button{{GameButton.Start, GameButton.Rules}}
	if again {
		buttons = [][]Button{{GameButton.Start, GameButton.Rules, GameButton.Stats}}
	}
	n.send(ctx, peerID, GamePhrase.GameOffer(again), Keyboard{Buttons: buttons}.JSON())
}

func (n *Notifier) GameStarting(ctx context.Context, peerID int64) {
	n.send(ctx, peerID, GamePhrase.GameBegun(), "")
}

func (n *Notifier) GameIsOn(ctx context.Context, peerID int64) {
	n.send(ctx, peerID, GamePhrase.GameIsOn(), "")
}

func (n *Notifier) GameIsOff(ctx context.Context, peerID int64) {
	keyboard := Keyboard{Buttons: [][]Button{{GameButton.Start, GameButton.Rules}}}.JSON()
	n.send(ctx, peerID, GamePhrase.GameIsOff(), keyboard)
}

func (n *Notifier) WrongStage(ctx context.Context, peerID int64) {
	n.send(ctx, peerID, GamePhrase.WrongStage(), "")
}

func (n *Notifier) Rules(ctx context.Context, peerID int64, name string) {
	n.send(ctx, peerID, GamePhrase.Rules(name), "")
}

func (n *Notifier) WaitingPlayers(ctx context.Context, peerID int64, sec uint32) {
	keyboard := Keyboard{Buttons: [][]Button{{GameButton.Register, GameButton.Pass, GameButton.Abort}}}.JSON()
	n.send(ctx, peerID, GamePhrase.WaitingPlayers(sec), keyboard)
}

func (n *Notifier) NoPlayers(ctx context.Context, peerID int64) {
	n.send(ctx, peerID, GamePhrase.NoPlayers(), "")
}

func (n *Notifier) GameAborted(ctx context.Context, peerID int64, causer string) {
	n.send(ctx, peerID, GamePhrase.GameAborted(causer), "")
}

func (n *Notifier) GameCanceled(ctx context.Context, peerID int64, causer string) {
	n.send(ctx, peerID, GamePhrase.GameCanceled(causer), "")
}

func (n *Notifier) ActivePlayers(ctx context.Context, peerID int64, names []string) {
	n.send(ctx, peerID, GamePhrase.ActivePlayers(names), "")
}

func (n *Notifier) StartCashGiven(ctx context.Context, peerID int64, name string, cash int64) {
	n.send(ctx, peerID, GamePhrase.StartCashGiven(name, cash), "")
}

func (n *Notifier) PlayerRegistered(ctx context.Context, peerID int64, name string) {
	n.send(ctx, peerID, GamePhrase.PlayerRegistered(name), "")
}

func (n *Notifier) PlayerRegisteredAlready(ctx context.Context, peerID int64, name string) {
	n.send(ctx, peerID, GamePhrase.PlayerRegisteredAlready(name), "")
}

func (n *Notifier) PlayerUnregistered(ctx context.Context, peerID int64, name string) {
	n.send(ctx, peerID, GamePhrase.PlayerUnregistered(name), "")
}

func (n *Notifier) NoCashToPlay(ctx context.Context, peerID int64, name string) {
	n.send(ctx, peerID, GamePhrase.NoCashToPlay(name), "")
}

func (n *Notifier) AllPlay(ctx context.Context, peerID int64) {
	n.send(ctx, peerID, GamePhrase.AllPlay(), "")
}

func (n *Notifier) AllLosers(ctx context.Context, peerID int64) {
	n.send(ctx, peerID, GamePhrase.AllLosers(), "")
}

func (n *Notifier) WaitingBets(ctx context.Context, peerID int64, sec uint32) {
	keyboard := Keyboard{Buttons: [][]Button{{GameButton.AllIn, GameButton.Pass, GameButton.Abort}}}.JSON()
	n.send(ctx, peerID, GamePhrase.WaitingBets(sec), keyboard)
}

func (n *Notifier) BetAccepted(ctx context.Context, peerID int64, name string, bet int64) {
	n.send(ctx, peerID, GamePhrase.BetAccepted(name, bet), "")
}

func (n *Notifier) BetAcceptedAlready(ctx context.Context, peerID int64, name string, bet int64) {
	n.send(ctx, peerID, GamePhrase.BetAcceptedAlready(name, bet), "")
}

func (n *Notifier) ZeroBet(ctx context.Context, peerID int64, name string) {
	n.send(ctx, peerID, GamePhrase.ZeroBet(name), "")
}

func (n *Notifier) TooBigBet(ctx context.Context, peerID int64, name string) {
	n.send(ctx, peerID, GamePhrase.TooBigBet(name), "")
}

func (n *Notifier) NoPlayerBet(ctx context.Context, peerID int64, name string) {
	n.send(ctx, peerID, GamePhrase.NoPlayerBet(name), "")
}

func (n *Notifier) AllBetsPlaced(ctx context.Context, peerID int64) {
	n.send(ctx, peerID, GamePhrase.AllBetsPlaced(), "")
}

func (n *Notifier) DealingStarted(ctx context.Context, peerID int64) {
	n.send(ctx, peerID, GamePhrase.DealingStarted(), "")
}

func (n *Notifier) PlayerTurn(ctx context.Context, peerID int64, name string) {
	n.send(ctx, peerID, GamePhrase.PlayerTurn(name), "")
}

func (n *Notifier) CardsReceived(ctx context.Context, peerID int64, hand Hand) {
	keyboard := Keyboard{Buttons: [][]Button{{GameButton.Hit, GameButton.Stand}}}.JSON()
	n.send(ctx, peerID, GamePhrase.CardsReceived(hand), keyboard)
}

func (n *Notifier) OfferACard(ctx context.Context, peerID int64, name string) {
	keyboard := Keyboard{Buttons: [][]Button{{GameButton.Hit, GameButton.Stand}}}.JSON()
	n.send(ctx, peerID, GamePhrase.OfferACard(name), keyboard)
}

func (n *Notifier) PlayerBlackjack(ctx context.Context, peerID int64, name string) {
	n.send(ctx, peerID, GamePhrase.PlayerBlackjack(name), "")
}

func (n *Notifier) PlayerOverflow(ctx context.Context, peerID int64) {
	n.send(ctx, peerID, GamePhrase.PlayerOverflow(), "")
}

func (n *Notifier) NotAPlayer(ctx context.Context, peerID int64, name string) {
	n.send(ctx, peerID, GamePhrase.NotAPlayer(name), "")
}

func (n *Notifier) NotYourTurn(ctx context.Context, peerID int64, name string) {
	n.send(ctx, peerID, GamePhrase.NotYourTurn(name), "")
}

func (n *Notifier) DealerDealing(ctx context.Context, peerID int64) {
	n.send(ctx, peerID, GamePhrase.DealerDealing(), "")
}

func (n *Notifier) DealerCards(ctx context.Context, peerID int64, hand Hand, points int) {
	n.send(ctx, peerID, GamePhrase.DealerCards(hand, points), "")
}

func (n *Notifier) PlayerWin(ctx context.Context, peerID int64, name string, payout int64, blackjack bool) {
	n.send(ctx, peerID, GamePhrase.PlayerWin(name, payout, blackjack), "")
}

func (n *Notifier) PlayerLoss(ctx context.Context, peerID int64, name string, bet int64) {
	n.send(ctx, peerID, GamePhrase.PlayerLoss(name, bet), "")
}

func (n *Notifier) PlayerDraw(ctx context.Context, peerID int64, name string) {
	n.send(ctx, peerID, GamePhrase.PlayerDraw(name), "")
}

func (n *Notifier) LastCashSpent(ctx context.Context, peerID int64, name, sex string) {
	n.send(ctx, peerID, GamePhrase.LastCashSpent(name, sex), "")
}

func (n *Notifier) GameEnded(ctx context.Context, peerID int64) {
	n.send(ctx, peerID, GamePhrase.GameEnded(), "")
}

func (n *Notifier) ShowHand(ctx context.Context, peerID int64, name string, hand Hand) {
	n.send(ctx, peerID, GamePhrase.ShowHand(name, hand), "")
}

func (n *Notifier) ShowCash(ctx context.Context, peerID int64, name string, cash int64) {
	n.send(ctx, peerID, GamePhrase.ShowCash(name, cash), "")
}

func (n *Notifier) NotAPlayerCash(ctx context.Context, peerID int64, name string) {
	n.send(ctx, peerID, GamePhrase.NotAPlayerCash(name), "")
}

func (n *Notifier) ChatStat(ctx context.Context, peerID int64, gamesPlayed int, casinoCash int64) {
	n.send(ctx, peerID, GamePhrase.ChatStat(gamesPlayed, casinoCash), "")
}

func (n *Notifier) PlayerStat(ctx context.Context, peerID int64, name string, played, won, lost int, cash int64) {
	n.send(ctx, peerID, GamePhrase.PlayerStat(name, played, won, lost, cash), "")
}

func (n *Notifier) PlayerNoStat(ctx context.Context, peerID int64, name string) {
	n.send(ctx, peerID, GamePhrase.PlayerNoStat(name), "")
}

func (n *Notifier) RestoreHint(ctx context.Context, peerID int64, name string) {
	n.send(ctx, peerID, GamePhrase.RestoreHint(name), "")
}

func (n *Notifier) CashRestored(ctx context.Context, peerID int64) {
	n.send(ctx, peerID, GamePhrase.CashRestored(), "")
}

func (n *Notifier) BotReturning(ctx context.Context, peerID int64) {
	n.send(ctx, peerID, GamePhrase.BotReturning(), "")
}

func (n *Notifier) PrivateChat(ctx context.Context, peerID int64) {
	n.send(ctx, peerID, GamePhrase.PrivateChat(), "")
}

func (n *Notifier) ChatInvite(ctx context.Context, peerID int64) {
	n.send(ctx, peerID, GamePhrase.ChatInvite(), "")
}
