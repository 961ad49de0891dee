package game

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/Demmenty/BlackJack-vkbot-project/deck"
	"github.com/Demmenty/BlackJack-vkbot-project/timer"
)

// recordingSender captures outbound messages instead of delivering them.
type recordingSender struct {
	mu       sync.Mutex
	messages []BotMessage
}

func (s *recordingSender) SendMessage(_ context.Context, msg BotMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return nil
}

func (s *recordingSender) contains(fragment string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, msg := range s.messages {
		if strings.Contains(msg.Text, fragment) {
			return true
		}
	}
	return false
}

// scriptedDeck deals a fixed sequence, then twos forever.
type scriptedDeck struct {
	mu    sync.Mutex
	cards []deck.Card
}

func (d *scriptedDeck) Draw() deck.Card {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.cards) == 0 {
		return deck.Card{Rank: deck.Two, Suit: deck.Clubs}
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card
}

// fakeDirectory resolves every user to a fixed identity and reports a fixed
// member list.
type fakeDirectory struct {
	members []int64
}

func (d *fakeDirectory) GetUser(_ context.Context, vkUserID int64) (string, string, error) {
	if vkUserID%2 == 0 {
		return "Bob", "male", nil
	}
	return "Alice", "female", nil
}

func (d *fakeDirectory) GetChatMembers(_ context.Context, _ int64) ([]int64, error) {
	return d.members, nil
}

type testTable struct {
	store     *MemoryStore
	deck      *scriptedDeck
	sender    *recordingSender
	scheduler *timer.Scheduler
	manager   *Manager
	handler   *Handler
	router    *Router
}

// newTestTable wires the whole chain on the in-memory store. The member list
// is kept larger than any test's player count so "everyone is seated" never
// short-circuits the gathering timer.
func newTestTable(t *testing.T, cards []deck.Card) *testTable {
	t.Helper()

	sender := &recordingSender{}
	d := &scriptedDeck{cards: cards}
	store := NewMemoryStore()
	scheduler := timer.NewScheduler()
	t.Cleanup(scheduler.Shutdown)

	notifier := NewNotifier(sender)
	manager := NewManager(store, d, notifier, scheduler, DefaultTimings)
	directory := &fakeDirectory{members: []int64{1, 3, 5, 7}}
	handler := NewHandler(manager, notifier, directory, directory)
	router := NewRouter(handler, manager)

	return &testTable{
		store:     store,
		deck:      d,
		sender:    sender,
		scheduler: scheduler,
		manager:   manager,
		handler:   handler,
		router:    router,
	}
}

const testPeerID = int64(2000000123)

func chatMessage(fromID int64, text string) Update {
	return Update{Type: "message_new", FromID: fromID, PeerID: testPeerID, Text: text}
}

func (tt *testTable) mustGame(t *testing.T) *Game {
	t.Helper()
	chat, err := tt.store.GetChatByVKID(context.Background(), testPeerID)
	if err != nil {
		t.Fatalf("chat lookup failed: %s", err)
	}
	game, err := tt.store.GetGameByChatID(context.Background(), chat.ID)
	if err != nil {
		t.Fatalf("game lookup failed: %s", err)
	}
	return game
}

func (tt *testTable) mustPlayer(t *testing.T, vkUserID int64) *Player {
	t.Helper()
	user, err := tt.store.GetVKUserByVKID(context.Background(), vkUserID)
	if err != nil {
		t.Fatalf("user lookup failed: %s", err)
	}
	game := tt.mustGame(t)
	player, err := tt.store.GetPlayerByUserAndGame(context.Background(), user.ID, game.ID)
	if err != nil {
		t.Fatalf("player lookup failed: %s", err)
	}
	return player
}

// fireTimer simulates the armed stage timer expiring immediately.
func (tt *testTable) fireTimer(t *testing.T, fire func(ctx context.Context, chatVKID, gameID int64)) {
	t.Helper()
	game := tt.mustGame(t)
	if !tt.scheduler.Outstanding(game.ID) {
		t.Fatalf("expected an armed timer for game %d", game.ID)
	}
	tt.scheduler.End(game.ID)
	tt.manager.WithChatLock(testPeerID, func() {
		fire(context.Background(), testPeerID, game.ID)
	})
}

// Scenario: a single player joins, the gathering timer elapses, their bet
// closes the betting stage, and the deal begins.
func TestSinglePlayerRoundReachesDealing(t *testing.T) {
	ctx := context.Background()
	tt := newTestTable(t, []deck.Card{
		{Rank: deck.Five, Suit: deck.Spades},
		{Rank: deck.Seven, Suit: deck.Hearts},
	})

	tt.router.Route(ctx, chatMessage(1, "start"))
	if got := tt.mustGame(t).Stage; got != StageGathering {
		t.Fatalf("stage after start = %s, expected %s", got, StageGathering)
	}

	tt.router.Route(ctx, chatMessage(1, "join"))
	player := tt.mustPlayer(t, 1)
	if !player.IsActive {
		t.Fatal("player must be active after registering")
	}
	if player.Cash != 1000 {
		t.Fatalf("start cash = %d, expected 1000", player.Cash)
	}

	tt.fireTimer(t, tt.manager.collectPlayers)
	if got := tt.mustGame(t).Stage; got != StageBetting {
		t.Fatalf("stage after gathering = %s, expected %s", got, StageBetting)
	}

	// The only active player betting resolves the stage without the timer.
	tt.router.Route(ctx, chatMessage(1, "100"))

	game := tt.mustGame(t)
	if game.Stage != StageDealingPlayers {
		t.Fatalf("stage after bet = %s, expected %s", game.Stage, StageDealingPlayers)
	}
	player = tt.mustPlayer(t, 1)
	if len(player.Hand) != 2 {
		t.Fatalf("dealt %d cards, expected 2", len(player.Hand))
	}
	if game.CurrentPlayerID == nil || *game.CurrentPlayerID != player.ID {
		t.Fatal("the single player must hold the deal")
	}
	if !tt.scheduler.Outstanding(game.ID) {
		t.Fatal("a decision timer must be armed after the deal")
	}
}

// Scenario: hitting past 21 settles the loss immediately and the round moves
// on without offering another card.
func TestBustSettlesLossImmediately(t *testing.T) {
	ctx := context.Background()
	tt := newTestTable(t, []deck.Card{
		{Rank: deck.King, Suit: deck.Spades},
		{Rank: deck.Queen, Suit: deck.Hearts},
		{Rank: deck.Three, Suit: deck.Clubs},
	})

	tt.runToDeal(ctx, t, 100)

	player := tt.mustPlayer(t, 1)
	if got := player.Hand.Points(); got != 20 {
		t.Fatalf("points before hit = %d, expected 20", got)
	}
	cashBefore := player.Cash
	bankBefore := tt.mustChat(t).CasinoCash

	tt.router.Route(ctx, chatMessage(1, "hit"))

	player = tt.mustPlayer(t, 1)
	if player.IsActive {
		t.Fatal("busted player must be deactivated")
	}
	if len(player.Hand) != 0 {
		t.Fatal("busted player's hand must be cleared")
	}
	if player.GamesLost != 1 {
		t.Fatalf("losses = %d, expected 1", player.GamesLost)
	}
	if got := player.Cash; got != cashBefore-100 {
		t.Fatalf("cash after bust = %d, expected %d", got, cashBefore-100)
	}
	if got := tt.mustChat(t).CasinoCash; got != bankBefore+100 {
		t.Fatalf("house bank = %d, expected %d", got, bankBefore+100)
	}

	// The only player busted, so the round is over with no dealer play.
	game := tt.mustGame(t)
	if game.Stage != StageInactive {
		t.Fatalf("stage after bust = %s, expected %s", game.Stage, StageInactive)
	}
	if tt.scheduler.Outstanding(game.ID) {
		t.Fatal("no timer may stay armed after the round ends")
	}
}

// Scenario: a natural blackjack skips the draw offer entirely and pays one
// and a half times the bet.
func TestNaturalBlackjackSkipsDrawAndPaysExtra(t *testing.T) {
	ctx := context.Background()
	tt := newTestTable(t, []deck.Card{
		{Rank: deck.Ace, Suit: deck.Spades},
		{Rank: deck.King, Suit: deck.Hearts},
		// Dealer's cards.
		{Rank: deck.Ten, Suit: deck.Clubs},
		{Rank: deck.Nine, Suit: deck.Diamonds},
	})

	tt.runToDeal(ctx, t, 100)

	player := tt.mustPlayer(t, 1)
	if player.GamesWon != 1 {
		t.Fatalf("wins = %d, expected 1", player.GamesWon)
	}
	if got := player.Cash; got != 1150 {
		t.Fatalf("cash after blackjack = %d, expected 1150", got)
	}
	if got := tt.mustChat(t).CasinoCash; got != -150 {
		t.Fatalf("house bank = %d, expected -150", got)
	}

	game := tt.mustGame(t)
	if game.Stage != StageInactive {
		t.Fatalf("stage after natural = %s, expected %s", game.Stage, StageInactive)
	}
	if tt.scheduler.Outstanding(game.ID) {
		t.Fatal("no decision timer may be armed for a natural")
	}
	if !tt.sender.contains("Blackjack") {
		t.Fatal("the blackjack must be announced")
	}
}

// Scenario: nobody registers before the gathering timer fires. The round
// aborts and pre-existing player rows stay untouched.
func TestGatheringWithoutPlayersAborts(t *testing.T) {
	ctx := context.Background()
	tt := newTestTable(t, nil)

	// A past round left an inactive player with money on the books.
	tt.router.Route(ctx, chatMessage(1, "start"))
	tt.router.Route(ctx, chatMessage(1, "join"))
	tt.fireTimer(t, tt.manager.collectPlayers)
	game := tt.mustGame(t)
	tt.scheduler.End(game.ID)
	tt.manager.InactivateGame(ctx, game.ID)

	playerBefore := tt.mustPlayer(t, 1)
	bankBefore := tt.mustChat(t).CasinoCash

	tt.router.Route(ctx, chatMessage(3, "start"))
	tt.fireTimer(t, tt.manager.collectPlayers)

	if got := tt.mustGame(t).Stage; got != StageInactive {
		t.Fatalf("stage after empty gathering = %s, expected %s", got, StageInactive)
	}
	playerAfter := tt.mustPlayer(t, 1)
	if playerAfter.Cash != playerBefore.Cash || playerAfter.IsActive || playerAfter.Bet != nil {
		t.Fatalf("pre-existing player mutated: %+v", playerAfter)
	}
	if got := tt.mustChat(t).CasinoCash; got != bankBefore {
		t.Fatalf("house bank changed to %d during aborted round", got)
	}
}

// Scenario: a broke player cannot take a seat and gets no fresh money.
func TestBrokePlayerCannotRegister(t *testing.T) {
	ctx := context.Background()
	tt := newTestTable(t, nil)

	tt.router.Route(ctx, chatMessage(1, "start"))
	tt.router.Route(ctx, chatMessage(1, "join"))

	player := tt.mustPlayer(t, 1)
	if err := tt.store.SetPlayerCash(ctx, player.ID, 0); err != nil {
		t.Fatalf("could not zero cash: %s", err)
	}
	if err := tt.store.SetPlayerActive(ctx, player.ID, false); err != nil {
		t.Fatalf("could not deactivate: %s", err)
	}

	tt.router.Route(ctx, chatMessage(1, "join"))

	player = tt.mustPlayer(t, 1)
	if player.IsActive {
		t.Fatal("broke player must stay inactive")
	}
	if player.Cash != 0 {
		t.Fatalf("broke player was granted %d", player.Cash)
	}
	if !tt.sender.contains("pockets are empty") {
		t.Fatal("the refusal must be announced")
	}
}

// Settlement moves exactly as much money out of the house bank as into the
// players' purses, and draws move nothing.
func TestSettlementConservation(t *testing.T) {
	ctx := context.Background()
	tt := newTestTable(t, nil)

	game, players := tt.seedRound(ctx, t, []seedPlayer{
		{vkID: 1, bet: 100, hand: Hand{{Rank: deck.King, Suit: deck.Spades}, {Rank: deck.Nine, Suit: deck.Hearts}}},  // 19: beats dealer
		{vkID: 3, bet: 200, hand: Hand{{Rank: deck.Ten, Suit: deck.Clubs}, {Rank: deck.Five, Suit: deck.Diamonds}}}, // 15: loses
		{vkID: 5, bet: 300, hand: Hand{{Rank: deck.King, Suit: deck.Hearts}, {Rank: deck.Eight, Suit: deck.Clubs}}}, // 18: push
	})

	dealerHand := Hand{{Rank: deck.Ten, Suit: deck.Spades}, {Rank: deck.Eight, Suit: deck.Diamonds}}
	dealerPoints := dealerHand.Points()
	if err := tt.store.SetDealerHand(ctx, game.ID, dealerHand, &dealerPoints); err != nil {
		t.Fatalf("could not set dealer hand: %s", err)
	}
	if err := tt.store.SetGameStage(ctx, game.ID, StageDealingDealer); err != nil {
		t.Fatalf("could not set stage: %s", err)
	}

	cashBefore := int64(0)
	for _, p := range players {
		cashBefore += p.Cash
	}
	bankBefore := tt.mustChat(t).CasinoCash

	tt.manager.Settle(ctx, testPeerID, game.ID)

	cashAfter := int64(0)
	for _, p := range players {
		fresh, err := tt.store.GetPlayerByID(ctx, p.ID)
		if err != nil {
			t.Fatalf("player lookup failed: %s", err)
		}
		cashAfter += fresh.Cash
	}
	bankAfter := tt.mustChat(t).CasinoCash

	playerDelta := cashAfter - cashBefore
	bankDelta := bankAfter - bankBefore
	if playerDelta != -bankDelta {
		t.Fatalf("money leaked: players %+d, bank %+d", playerDelta, bankDelta)
	}
	// Win +100, loss -200, push 0.
	if playerDelta != -100 {
		t.Fatalf("net player delta = %+d, expected -100", playerDelta)
	}
}

// A chat can never carry two simultaneous rounds: starting while one runs is
// refused.
func TestSecondStartWhileRoundRunsIsRefused(t *testing.T) {
	ctx := context.Background()
	tt := newTestTable(t, nil)

	tt.router.Route(ctx, chatMessage(1, "start"))
	tt.router.Route(ctx, chatMessage(3, "start"))

	if got := tt.mustGame(t).Stage; got != StageGathering {
		t.Fatalf("stage = %s, expected %s", got, StageGathering)
	}
	if !tt.sender.contains("already in play") {
		t.Fatal("the second start must be refused aloud")
	}
}

// The dealer keeps drawing low cards until crossing 17.
func TestDealerDrawsToSeventeen(t *testing.T) {
	ctx := context.Background()
	// Seven twos reach 14, then the three stops the loop at exactly 17.
	cards := make([]deck.Card, 0, 8)
	for i := 0; i < 7; i++ {
		cards = append(cards, deck.Card{Rank: deck.Two, Suit: deck.Clubs})
	}
	cards = append(cards, deck.Card{Rank: deck.Three, Suit: deck.Spades})
	tt := newTestTable(t, cards)

	game, players := tt.seedRound(ctx, t, []seedPlayer{
		{vkID: 1, bet: 100, hand: Hand{{Rank: deck.King, Suit: deck.Hearts}, {Rank: deck.Nine, Suit: deck.Clubs}}},
	})

	tt.manager.DealToDealer(ctx, testPeerID, game.ID)

	// The dealer hand itself is cleared by the round epilogue; the
	// announcement and the settlement prove the draw loop's result.
	if !tt.sender.contains("(17 points)") {
		t.Fatal("dealer must stop at 17 and announce it")
	}
	player, err := tt.store.GetPlayerByID(ctx, players[0].ID)
	if err != nil {
		t.Fatalf("player lookup failed: %s", err)
	}
	if player.Cash != 1100 {
		t.Fatalf("cash after beating the dealer = %d, expected 1100", player.Cash)
	}
	if got := tt.mustGame(t).Stage; got != StageInactive {
		t.Fatalf("stage after dealer play = %s, expected %s", got, StageInactive)
	}
}

// Recovery replays a game left in gathering: the stage survives and a fresh
// timer is armed.
func TestRecoverReArmsGatheringTimer(t *testing.T) {
	ctx := context.Background()
	tt := newTestTable(t, nil)

	tt.router.Route(ctx, chatMessage(1, "start"))
	game := tt.mustGame(t)
	// Simulate the crash: the timer dies with the process.
	tt.scheduler.End(game.ID)

	if err := tt.manager.Recover(ctx); err != nil {
		t.Fatalf("recovery failed: %s", err)
	}
	if got := tt.mustGame(t).Stage; got != StageGathering {
		t.Fatalf("stage after recovery = %s, expected %s", got, StageGathering)
	}
	if !tt.scheduler.Outstanding(game.ID) {
		t.Fatal("recovery must re-arm the gathering timer")
	}
}

// Stopping a round mid-deal clears the bet without touching the purse.
func TestCancelMidRoundKeepsMoney(t *testing.T) {
	ctx := context.Background()
	tt := newTestTable(t, nil)

	tt.router.Route(ctx, chatMessage(1, "start"))
	tt.router.Route(ctx, chatMessage(1, "join"))
	tt.fireTimer(t, tt.manager.collectPlayers)
	tt.router.Route(ctx, chatMessage(1, "all in"))

	player := tt.mustPlayer(t, 1)
	if player.Bet == nil {
		t.Fatal("all in must place a bet")
	}

	// Betting on all in immediately advances to dealing, so cancel is the
	// stop that still works here.
	tt.router.Route(ctx, chatMessage(1, "stop this"))

	player = tt.mustPlayer(t, 1)
	if player.Bet != nil {
		t.Fatal("cancel must clear the bet")
	}
	if player.Cash != 1000 {
		t.Fatalf("cash after cancel = %d, expected 1000", player.Cash)
	}
	if got := tt.mustGame(t).Stage; got != StageInactive {
		t.Fatalf("stage after cancel = %s, expected %s", got, StageInactive)
	}
}

// Scenario: the betting timer fires in the same instant the last bet closes
// the stage. The continuation loses the lock race and must notice the round
// moved on instead of dealing a second pair of cards.
func TestLateBettingTimerDoesNotRedeal(t *testing.T) {
	ctx := context.Background()
	tt := newTestTable(t, nil)

	tt.runToDeal(ctx, t, 100)

	game := tt.mustGame(t)
	late := tt.manager.stageContinuation(testPeerID, StageBetting, tt.manager.collectBets)

	// The decision timer armed by the deal already supersedes the late one.
	late(game.ID)

	player := tt.mustPlayer(t, 1)
	if len(player.Hand) != 2 {
		t.Fatalf("after the late timer the player holds %d cards, expected 2", len(player.Hand))
	}
	if got := tt.mustChat(t).GamesPlayed; got != 1 {
		t.Fatalf("games played = %d, expected 1", got)
	}

	// With no timer armed at all, the persisted stage still rules it out.
	tt.scheduler.End(game.ID)
	late(game.ID)

	player = tt.mustPlayer(t, 1)
	if len(player.Hand) != 2 {
		t.Fatalf("after the second late fire the player holds %d cards, expected 2", len(player.Hand))
	}
	if got := tt.mustChat(t).GamesPlayed; got != 1 {
		t.Fatalf("games played = %d, expected 1", got)
	}
	if got := tt.mustGame(t).Stage; got != StageDealingPlayers {
		t.Fatalf("stage = %s, expected %s", got, StageDealingPlayers)
	}
}

// Scenario: the decision timer expires just as the player hits. The hit
// re-arms a fresh timer for the same player, and the superseded continuation
// must not pass the turn over their head.
func TestLateDecisionTimerDoesNotPassTurn(t *testing.T) {
	ctx := context.Background()
	tt := newTestTable(t, []deck.Card{
		{Rank: deck.Five, Suit: deck.Spades},
		{Rank: deck.Seven, Suit: deck.Hearts},
		{Rank: deck.Two, Suit: deck.Clubs},
	})

	tt.runToDeal(ctx, t, 100)
	player := tt.mustPlayer(t, 1)
	late := tt.manager.decisionContinuation(testPeerID, player.ID)

	tt.router.Route(ctx, chatMessage(1, "hit"))
	player = tt.mustPlayer(t, 1)
	if len(player.Hand) != 3 {
		t.Fatalf("after hit the player holds %d cards, expected 3", len(player.Hand))
	}

	late(player.GameID)

	game := tt.mustGame(t)
	if game.Stage != StageDealingPlayers {
		t.Fatalf("stage = %s, expected %s", game.Stage, StageDealingPlayers)
	}
	if game.CurrentPlayerID == nil || *game.CurrentPlayerID != player.ID {
		t.Fatal("the turn must stay with the acting player")
	}
	if !tt.scheduler.Outstanding(game.ID) {
		t.Fatal("the fresh decision timer must stay armed")
	}
}

type seedPlayer struct {
	vkID int64
	bet  int64
	hand Hand
}

// seedRound builds a chat with a game in the card phase and the given
// players already seated, bet and dealt.
func (tt *testTable) seedRound(ctx context.Context, t *testing.T, seeds []seedPlayer) (*Game, []*Player) {
	t.Helper()

	chat, err := tt.store.CreateChat(ctx, testPeerID)
	if err != nil {
		t.Fatalf("could not create chat: %s", err)
	}
	game, err := tt.store.CreateGame(ctx, chat.ID)
	if err != nil {
		t.Fatalf("could not create game: %s", err)
	}
	if err := tt.store.SetGameStage(ctx, game.ID, StageDealingPlayers); err != nil {
		t.Fatalf("could not set stage: %s", err)
	}

	players := make([]*Player, 0, len(seeds))
	for _, seed := range seeds {
		user, err := tt.store.CreateVKUser(ctx, seed.vkID, "Seeded", "female")
		if err != nil {
			t.Fatalf("could not create user: %s", err)
		}
		player, err := tt.store.CreatePlayer(ctx, user.ID, game.ID, 1000)
		if err != nil {
			t.Fatalf("could not create player: %s", err)
		}
		bet := seed.bet
		if err := tt.store.SetPlayerBet(ctx, player.ID, &bet); err != nil {
			t.Fatalf("could not set bet: %s", err)
		}
		if err := tt.store.AddCardsToPlayer(ctx, player.ID, seed.hand); err != nil {
			t.Fatalf("could not deal seed hand: %s", err)
		}
		player, err = tt.store.GetPlayerByID(ctx, player.ID)
		if err != nil {
			t.Fatalf("could not reload player: %s", err)
		}
		players = append(players, player)
	}
	return game, players
}

// runToDeal walks one player through start, join, the gathering timer, and a
// bet, leaving the round in the card phase.
func (tt *testTable) runToDeal(ctx context.Context, t *testing.T, bet int64) {
	t.Helper()
	tt.router.Route(ctx, chatMessage(1, "start"))
	tt.router.Route(ctx, chatMessage(1, "join"))
	tt.fireTimer(t, tt.manager.collectPlayers)
	tt.router.Route(ctx, chatMessage(1, strconv.FormatInt(bet, 10)))
}

func (tt *testTable) mustChat(t *testing.T) *Chat {
	t.Helper()
	chat, err := tt.store.GetChatByVKID(context.Background(), testPeerID)
	if err != nil {
		t.Fatalf("chat lookup failed: %s", err)
	}
	return chat
}

