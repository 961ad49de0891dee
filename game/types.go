package game

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Demmenty/BlackJack-vkbot-project/deck"
)

// Hand is an ordered list of drawn cards, persisted as JSON.
type Hand []deck.Card

func (h Hand) Value() (driver.Value, error) {
	if h == nil {
		h = Hand{}
	}
	return json.Marshal(h)
}

func (h *Hand) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*h = Hand{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Hand", src)
	}
	return json.Unmarshal(data, h)
}

func (h Hand) String() string {
	if len(h) == 0 {
		return "empty"
	}
	parts := make([]string, len(h))
	for i, card := range h {
		parts[i] = card.String()
	}
	return strings.Join(parts, ", ")
}

// Points returns the blackjack value of the hand.
func (h Hand) Points() int {
	return deck.HandValue(h)
}

// IsNatural reports whether the hand is a two-card 21.
func (h Hand) IsNatural() bool {
	return deck.IsBlackjack(h)
}

// Chat is one VK conversation. A chat owns exactly one game row, reused
// across rounds, and the house bank for that conversation. CasinoCash may go
// negative: that is house debt to the players.
type Chat struct {
	ID          int64 `db:"id"`
	VKID        int64 `db:"vk_id"`
	GamesPlayed int   `db:"games_played"`
	CasinoCash  int64 `db:"casino_cash"`
}

// Game is the single blackjack round (or idle placeholder) of a chat.
type Game struct {
	ID              int64     `db:"id"`
	ChatID          int64     `db:"chat_id"`
	Stage           GameStage `db:"stage"`
	CurrentPlayerID *int64    `db:"current_player_id"`
	DealerHand      Hand      `db:"dealer_hand"`
	DealerPoints    *int      `db:"dealer_points"`
}

// Player is one chat member's participation in a game. The row persists
// across rounds; Hand, Bet and IsActive are reset at round boundaries while
// Cash and the lifetime counters carry forward.
type Player struct {
	ID          int64  `db:"id"`
	UserID      int64  `db:"user_id"`
	GameID      int64  `db:"game_id"`
	Cash        int64  `db:"cash"`
	Bet         *int64 `db:"bet"`
	Hand        Hand   `db:"hand"`
	IsActive    bool   `db:"is_active"`
	GamesPlayed int    `db:"games_played"`
	GamesWon    int    `db:"games_won"`
	GamesLost   int    `db:"games_lost"`
}

// VKUser is a cached external identity. Sex is only used for phrasing.
type VKUser struct {
	ID   int64  `db:"id"`
	VKID int64  `db:"vk_id"`
	Name string `db:"name"`
	Sex  string `db:"sex"`
}

// GlobalSettings is the single global record of house settings.
type GlobalSettings struct {
	ID        int64 `db:"id"`
	StartCash int64 `db:"start_cash"`
}

// RoundOutcome is how a settled player finished the round.
type RoundOutcome int

const (
	OutcomeWin RoundOutcome = iota
	OutcomeLoss
	OutcomeDraw
)
