package game

import (
	"context"
	"fmt"
	"sync"

	"github.com/Demmenty/BlackJack-vkbot-project/deck"
)

// MemoryStore is an in-memory Store used by tests and local runs without a
// database.
type MemoryStore struct {
	mu sync.Mutex

	chats    map[int64]*Chat
	games    map[int64]*Game
	players  map[int64]*Player
	vkUsers  map[int64]*VKUser
	settings *GlobalSettings

	nextID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		chats:    make(map[int64]*Chat),
		games:    make(map[int64]*Game),
		players:  make(map[int64]*Player),
		vkUsers:  make(map[int64]*VKUser),
		settings: &GlobalSettings{ID: 1, StartCash: 1000},
	}
}

func (s *MemoryStore) allocID() int64 {
	s.nextID++
	return s.nextID
}

func copyChat(c *Chat) *Chat {
	out := *c
	return &out
}

func copyGame(g *Game) *Game {
	out := *g
	if g.CurrentPlayerID != nil {
		id := *g.CurrentPlayerID
		out.CurrentPlayerID = &id
	}
	if g.DealerPoints != nil {
		p := *g.DealerPoints
		out.DealerPoints = &p
	}
	out.DealerHand = append(Hand{}, g.DealerHand...)
	return &out
}

func copyPlayer(p *Player) *Player {
	out := *p
	if p.Bet != nil {
		bet := *p.Bet
		out.Bet = &bet
	}
	out.Hand = append(Hand{}, p.Hand...)
	return &out
}

func (s *MemoryStore) GetChatByVKID(_ context.Context, vkID int64) (*Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, chat := range s.chats {
		if chat.VKID == vkID {
			return copyChat(chat), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetChatByGameID(_ context.Context, gameID int64) (*Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	game, ok := s.games[gameID]
	if !ok {
		return nil, ErrNotFound
	}
	chat, ok := s.chats[game.ChatID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyChat(chat), nil
}

func (s *MemoryStore) CreateChat(_ context.Context, vkID int64) (*Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	chat := &Chat{ID: s.allocID(), VKID: vkID}
	s.chats[chat.ID] = chat
	return copyChat(chat), nil
}

func (s *MemoryStore) AddGamePlayedToChat(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	chat, ok := s.chats[chatID]
	if !ok {
		return ErrNotFound
	}
	chat.GamesPlayed++
	return nil
}

func (s *MemoryStore) CreateGame(_ context.Context, chatID int64) (*Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	game := &Game{ID: s.allocID(), ChatID: chatID, Stage: StageInactive, DealerHand: Hand{}}
	s.games[game.ID] = game
	return copyGame(game), nil
}

func (s *MemoryStore) GetGameByID(_ context.Context, gameID int64) (*Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	game, ok := s.games[gameID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyGame(game), nil
}

func (s *MemoryStore) GetGameByChatID(_ context.Context, chatID int64) (*Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, game := range s.games {
		if game.ChatID == chatID {
			return copyGame(game), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) SetGameStage(_ context.Context, gameID int64, stage GameStage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	game, ok := s.games[gameID]
	if !ok {
		return ErrNotFound
	}
	game.Stage = stage
	return nil
}

func (s *MemoryStore) SetCurrentPlayer(_ context.Context, gameID int64, playerID *int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	game, ok := s.games[gameID]
	if !ok {
		return ErrNotFound
	}
	if playerID == nil {
		game.CurrentPlayerID = nil
	} else {
		id := *playerID
		game.CurrentPlayerID = &id
	}
	return nil
}

func (s *MemoryStore) SetDealerHand(_ context.Context, gameID int64, hand Hand, points *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	game, ok := s.games[gameID]
	if !ok {
		return ErrNotFound
	}
	game.DealerHand = append(Hand{}, hand...)
	if points == nil {
		game.DealerPoints = nil
	} else {
		p := *points
		game.DealerPoints = &p
	}
	return nil
}

func (s *MemoryStore) GetActiveGames(_ context.Context) ([]*Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Game
	for _, game := range s.games {
		if game.Stage != StageInactive {
			out = append(out, copyGame(game))
		}
	}
	return out, nil
}

func (s *MemoryStore) CreatePlayer(_ context.Context, userID, gameID, startCash int64) (*Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	player := &Player{
		ID:       s.allocID(),
		UserID:   userID,
		GameID:   gameID,
		Cash:     startCash,
		Hand:     Hand{},
		IsActive: true,
	}
	s.players[player.ID] = player
	return copyPlayer(player), nil
}

func (s *MemoryStore) GetPlayerByID(_ context.Context, playerID int64) (*Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[playerID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyPlayer(player), nil
}

func (s *MemoryStore) GetPlayerByUserAndGame(_ context.Context, userID, gameID int64) (*Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, player := range s.players {
		if player.UserID == userID && player.GameID == gameID {
			return copyPlayer(player), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetPlayers(_ context.Context, gameID int64) ([]*Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Player
	for _, player := range s.players {
		if player.GameID == gameID {
			out = append(out, copyPlayer(player))
		}
	}
	return out, nil
}

func (s *MemoryStore) GetActivePlayers(_ context.Context, gameID int64) ([]*Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Player
	for _, player := range s.players {
		if player.GameID == gameID && player.IsActive {
			out = append(out, copyPlayer(player))
		}
	}
	return out, nil
}

func (s *MemoryStore) SetPlayerBet(_ context.Context, playerID int64, bet *int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[playerID]
	if !ok {
		return ErrNotFound
	}
	if bet == nil {
		player.Bet = nil
	} else {
		b := *bet
		player.Bet = &b
	}
	return nil
}

func (s *MemoryStore) SetPlayerActive(_ context.Context, playerID int64, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[playerID]
	if !ok {
		return ErrNotFound
	}
	player.IsActive = active
	return nil
}

func (s *MemoryStore) AddCardsToPlayer(_ context.Context, playerID int64, cards []deck.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[playerID]
	if !ok {
		return ErrNotFound
	}
	player.Hand = append(player.Hand, cards...)
	return nil
}

func (s *MemoryStore) ClearPlayerHand(_ context.Context, playerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[playerID]
	if !ok {
		return ErrNotFound
	}
	player.Hand = Hand{}
	return nil
}

func (s *MemoryStore) SetPlayerCash(_ context.Context, playerID, cash int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[playerID]
	if !ok {
		return ErrNotFound
	}
	player.Cash = cash
	return nil
}

func (s *MemoryStore) IncrementPlayerStats(_ context.Context, playerID int64, outcome RoundOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[playerID]
	if !ok {
		return ErrNotFound
	}
	player.GamesPlayed++
	switch outcome {
	case OutcomeWin:
		player.GamesWon++
	case OutcomeLoss:
		player.GamesLost++
	}
	return nil
}

func (s *MemoryStore) CountLosers(_ context.Context, gameID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, player := range s.players {
		if player.GameID == gameID && player.Cash == 0 {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) WithdrawBet(_ context.Context, playerID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[playerID]
	if !ok {
		return 0, ErrNotFound
	}
	if player.Bet == nil {
		return 0, fmt.Errorf("player %d has no bet to withdraw", playerID)
	}
	game, ok := s.games[player.GameID]
	if !ok {
		return 0, ErrNotFound
	}
	chat, ok := s.chats[game.ChatID]
	if !ok {
		return 0, ErrNotFound
	}
	bet := *player.Bet
	player.Cash -= bet
	chat.CasinoCash += bet
	player.Bet = nil
	return bet, nil
}

func (s *MemoryStore) PayBet(_ context.Context, playerID int64, blackjack bool) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[playerID]
	if !ok {
		return 0, ErrNotFound
	}
	if player.Bet == nil {
		return 0, fmt.Errorf("player %d has no bet to pay", playerID)
	}
	game, ok := s.games[player.GameID]
	if !ok {
		return 0, ErrNotFound
	}
	chat, ok := s.chats[game.ChatID]
	if !ok {
		return 0, ErrNotFound
	}
	payout := *player.Bet
	if blackjack {
		payout = payout * 3 / 2
	}
	player.Cash += payout
	chat.CasinoCash -= payout
	player.Bet = nil
	return payout, nil
}

func (s *MemoryStore) GetVKUserByVKID(_ context.Context, vkID int64) (*VKUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.vkUsers {
		if user.VKID == vkID {
			out := *user
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetVKUserByPlayer(_ context.Context, playerID int64) (*VKUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[playerID]
	if !ok {
		return nil, ErrNotFound
	}
	user, ok := s.vkUsers[player.UserID]
	if !ok {
		return nil, ErrNotFound
	}
	out := *user
	return &out, nil
}

func (s *MemoryStore) CreateVKUser(_ context.Context, vkID int64, name, sex string) (*VKUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := &VKUser{ID: s.allocID(), VKID: vkID, Name: name, Sex: sex}
	s.vkUsers[user.ID] = user
	out := *user
	return &out, nil
}

func (s *MemoryStore) GetGlobalSettings(_ context.Context) (*GlobalSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := *s.settings
	return &out, nil
}

func (s *MemoryStore) SetStartCash(_ context.Context, startCash int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.StartCash = startCash
	return nil
}
