package game

import (
	"context"
	"errors"

	"github.com/Demmenty/BlackJack-vkbot-project/deck"
)

// ErrNotFound is returned by lookups when no row matches.
var ErrNotFound = errors.New("not found")

// Store is the persistence surface the state machine needs. Every call is
// atomic from the state machine's point of view. The store never enforces
// business rules; the manager validates before writing.
type Store interface {
	// chats
	GetChatByVKID(ctx context.Context, vkID int64) (*Chat, error)
	GetChatByGameID(ctx context.Context, gameID int64) (*Chat, error)
	CreateChat(ctx context.Context, vkID int64) (*Chat, error)
	AddGamePlayedToChat(ctx context.Context, chatID int64) error

	// games
	CreateGame(ctx context.Context, chatID int64) (*Game, error)
	GetGameByID(ctx context.Context, gameID int64) (*Game, error)
	GetGameByChatID(ctx context.Context, chatID int64) (*Game, error)
	SetGameStage(ctx context.Context, gameID int64, stage GameStage) error
	SetCurrentPlayer(ctx context.Context, gameID int64, playerID *int64) error
	// SetDealerHand writes the dealer's hand and points together so a crash
	// can never leave cards without points. Pass an empty hand and nil
	// points to clear.
	SetDealerHand(ctx context.Context, gameID int64, hand Hand, points *int) error
	// GetActiveGames lists every game not in StageInactive, for recovery.
	GetActiveGames(ctx context.Context) ([]*Game, error)

	// players
	CreatePlayer(ctx context.Context, userID, gameID, startCash int64) (*Player, error)
	GetPlayerByID(ctx context.Context, playerID int64) (*Player, error)
	GetPlayerByUserAndGame(ctx context.Context, userID, gameID int64) (*Player, error)
	GetPlayers(ctx context.Context, gameID int64) ([]*Player, error)
	GetActivePlayers(ctx context.Context, gameID int64) ([]*Player, error)
	SetPlayerBet(ctx context.Context, playerID int64, bet *int64) error
	SetPlayerActive(ctx context.Context, playerID int64, active bool) error
	AddCardsToPlayer(ctx context.Context, playerID int64, cards []deck.Card) error
	ClearPlayerHand(ctx context.Context, playerID int64) error
	SetPlayerCash(ctx context.Context, playerID, cash int64) error
	IncrementPlayerStats(ctx context.Context, playerID int64, outcome RoundOutcome) error
	// CountLosers counts players of the game whose cash is gone.
	CountLosers(ctx context.Context, gameID int64) (int, error)

	// settlement: both move money between the player and the chat's house
	// bank atomically and leave the bet cleared. They are safe to run
	// concurrently for different players of the same game.
	WithdrawBet(ctx context.Context, playerID int64) (int64, error)
	PayBet(ctx context.Context, playerID int64, blackjack bool) (int64, error)

	// vk users
	GetVKUserByVKID(ctx context.Context, vkID int64) (*VKUser, error)
	GetVKUserByPlayer(ctx context.Context, playerID int64) (*VKUser, error)
	CreateVKUser(ctx context.Context, vkID int64, name, sex string) (*VKUser, error)

	// house settings
	GetGlobalSettings(ctx context.Context) (*GlobalSettings, error)
	SetStartCash(ctx context.Context, startCash int64) error
}
