package game

import (
	"fmt"
	"strings"
)

// Phrases of the table narrator. Kept together so the persona stays in one
// voice.
type gamePhrases struct{}

var GamePhrase = gamePhrases{}

func (gamePhrases) GameOffer(again bool) string {
	if again {
		return "The table is free again. Another round of blackjack?"
	}
	return "Welcome to the table! Care for a round of blackjack?"
}

func (gamePhrases) Rules(name string) string {
	return fmt.Sprintf(
		"Listen closely, %s. Everyone bets, everyone gets two cards. "+
			"Cards 2-10 count face value, pictures count 10, an ace is 11 unless it busts you, then it's 1. "+
			"Take more cards or stand; over 21 and your bet is mine. "+
			"Beat the dealer and I pay your bet. Two cards totaling 21 is a blackjack and pays one and a half. "+
			"A tie keeps your money where it was.", name)
}

func (gamePhrases) GameBegun() string {
	return "A new round begins. Shuffling up..."
}

func (gamePhrases) GameIsOn() string {
	return "Patience - a round is already in play."
}

func (gamePhrases) GameIsOff() string {
	return "No round is running right now. Say the word and we start one."
}

func (gamePhrases) WrongStage() string {
	return "Not now. The round is past that point."
}

func (gamePhrases) WaitingPlayers(sec uint32) string {
	return fmt.Sprintf("Taking seats! Who's playing? You have %d seconds to join.", sec)
}

func (gamePhrases) NoPlayers() string {
	return "Nobody sat down. The dealer shrugs."
}

func (gamePhrases) GameAborted(causer string) string {
	if causer == "" {
		return "The round is off."
	}
	return fmt.Sprintf("The round is off - %s called it.", causer)
}

func (gamePhrases) GameCanceled(causer string) string {
	return fmt.Sprintf("%s stopped the round mid-deal. The cards go back to the shoe.", causer)
}

func (gamePhrases) ActivePlayers(names []string) string {
	return fmt.Sprintf("At the table: %s.", strings.Join(names, ", "))
}

func (gamePhrases) StartCashGiven(name string, cash int64) string {
	return fmt.Sprintf("%s joins for the first time and gets %d from the house. Spend it wisely.", name, cash)
}

func (gamePhrases) PlayerRegistered(name string) string {
	return fmt.Sprintf("%s is in.", name)
}

func (gamePhrases) PlayerRegisteredAlready(name string) string {
	return fmt.Sprintf("Easy, %s - you are already seated.", name)
}

func (gamePhrases) PlayerUnregistered(name string) string {
	return fmt.Sprintf("%s sits this one out.", name)
}

func (gamePhrases) NoCashToPlay(name string) string {
	return fmt.Sprintf("%s, your pockets are empty. The house doesn't deal to dust.", name)
}

func (gamePhrases) AllPlay() string {
	return "Everyone is in - no need to wait."
}

func (gamePhrases) AllLosers() string {
	return "Every pocket at this table is empty. The house can't deal a round on air."
}

func (gamePhrases) WaitingBets(sec uint32) string {
	return fmt.Sprintf("Place your bets! A number is a bet, 'all in' is everything. %d seconds.", sec)
}

func (gamePhrases) BetAccepted(name string, bet int64) string {
	return fmt.Sprintf("%s bets %d.", name, bet)
}

func (gamePhrases) BetAcceptedAlready(name string, bet int64) string {
	return fmt.Sprintf("%s, your %d is already on the felt.", name, bet)
}

func (gamePhrases) ZeroBet(name string) string {
	return fmt.Sprintf("Zero is not a bet, %s.", name)
}

func (gamePhrases) TooBigBet(name string) string {
	return fmt.Sprintf("%s, you can't bet money you don't have.", name)
}

func (gamePhrases) NoPlayerBet(name string) string {
	return fmt.Sprintf("%s never put money down and sits out this round.", name)
}

func (gamePhrases) AllBetsPlaced() string {
	return "All bets are down."
}

func (gamePhrases) DealingStarted() string {
	return "The deal begins."
}

func (gamePhrases) PlayerTurn(name string) string {
	return fmt.Sprintf("%s, your cards.", name)
}

func (gamePhrases) CardsReceived(hand Hand) string {
	return fmt.Sprintf("Cards: %s (%d points)", hand.String(), hand.Points())
}

func (gamePhrases) OfferACard(name string) string {
	return fmt.Sprintf("%s - another card, or do you stand?", name)
}

func (gamePhrases) PlayerBlackjack(name string) string {
	return fmt.Sprintf("Blackjack! %s, the house tips its hat.", name)
}

func (gamePhrases) PlayerOverflow() string {
	return "Bust. Over 21 - the bet stays with the house."
}

func (gamePhrases) NotAPlayer(name string) string {
	return fmt.Sprintf("%s, you are not in this round.", name)
}

func (gamePhrases) NotYourTurn(name string) string {
	return fmt.Sprintf("Hold on, %s - it's not your turn.", name)
}

func (gamePhrases) DealerDealing() string {
	return "The dealer draws."
}

func (gamePhrases) DealerCards(hand Hand, points int) string {
	return fmt.Sprintf("Dealer's hand: %s (%d points)", hand.String(), points)
}

func (gamePhrases) PlayerWin(name string, payout int64, blackjack bool) string {
	if blackjack {
		return fmt.Sprintf("%s wins %d - a blackjack pays one and a half.", name, payout)
	}
	return fmt.Sprintf("%s wins %d.", name, payout)
}

func (gamePhrases) PlayerLoss(name string, bet int64) string {
	return fmt.Sprintf("%s loses %d to the house.", name, bet)
}

func (gamePhrases) PlayerDraw(name string) string {
	return fmt.Sprintf("Push. %s keeps the bet.", name)
}

func (gamePhrases) LastCashSpent(name string, sex string) string {
	who := "their"
	switch sex {
	case "male":
		who = "his"
	case "female":
		who = "her"
	}
	return fmt.Sprintf("%s just lost %s last coin. The house remembers.", name, who)
}

func (gamePhrases) GameEnded() string {
	return "The round is over."
}

func (gamePhrases) ShowHand(name string, hand Hand) string {
	if len(hand) == 0 {
		return fmt.Sprintf("%s holds no cards.", name)
	}
	return fmt.Sprintf("%s holds: %s (%d points)", name, hand.String(), hand.Points())
}

func (gamePhrases) ShowCash(name string, cash int64) string {
	return fmt.Sprintf("%s has %d in the purse.", name, cash)
}

func (gamePhrases) NotAPlayerCash(name string) string {
	return fmt.Sprintf("%s, the house has no account for you yet. Join a round first.", name)
}

func (gamePhrases) ChatStat(gamesPlayed int, casinoCash int64) string {
	return fmt.Sprintf("This table has seen %d rounds. House bank: %d.", gamesPlayed, casinoCash)
}

func (gamePhrases) PlayerStat(name string, played, won, lost int, cash int64) string {
	return fmt.Sprintf("%s: %d rounds, %d won, %d lost, %d in the purse.", name, played, won, lost, cash)
}

func (gamePhrases) PlayerNoStat(name string) string {
	return fmt.Sprintf("%s has no history at this table yet.", name)
}

func (gamePhrases) RestoreHint(name string) string {
	return fmt.Sprintf("%s, if the felt has been cruel, whisper the old words: converta tempus.", name)
}

func (gamePhrases) CashRestored() string {
	return "Time turns back. Every purse is full again."
}

func (gamePhrases) BotReturning() string {
	return "The dealer is back at the table. Where were we..."
}

func (gamePhrases) PrivateChat() string {
	return "Make a group chat and invite me - then we can play blackjack. Alone I only shuffle."
}

func (gamePhrases) ChatInvite() string {
	return "Good evening! There's a blackjack table here now."
}
