package game

import (
	"context"
	"testing"

	"github.com/Demmenty/BlackJack-vkbot-project/deck"
)

func TestRouterIgnoresUnrelatedChat(t *testing.T) {
	ctx := context.Background()
	tt := newTestTable(t, nil)

	tt.router.Route(ctx, chatMessage(1, "anyone up for pizza?"))

	if len(tt.sender.messages) != 0 {
		t.Fatalf("unrelated chat must stay silent, got %d messages", len(tt.sender.messages))
	}
}

func TestRouterRefusesCommandWhenGameIsOff(t *testing.T) {
	ctx := context.Background()
	tt := newTestTable(t, nil)

	tt.router.Route(ctx, chatMessage(1, "join"))

	if !tt.sender.contains("No round is running") {
		t.Fatal("joining with no round must be refused aloud")
	}
}

func TestRouterRefusesCommandAtWrongStage(t *testing.T) {
	ctx := context.Background()
	tt := newTestTable(t, nil)

	tt.router.Route(ctx, chatMessage(1, "start"))
	tt.router.Route(ctx, chatMessage(1, "hit"))

	if !tt.sender.contains("past that point") {
		t.Fatal("hitting during gathering must be refused aloud")
	}
}

func TestRouterAnswersPrivateMessages(t *testing.T) {
	ctx := context.Background()
	tt := newTestTable(t, nil)

	tt.router.Route(ctx, Update{Type: "message_new", FromID: 1, PeerID: 1, Text: "start"})

	if len(tt.sender.messages) != 1 {
		t.Fatalf("expected one reply, got %d", len(tt.sender.messages))
	}
	chat, err := tt.store.GetChatByVKID(ctx, 1)
	if err == nil {
		t.Fatalf("no chat may be created for direct messages, got %+v", chat)
	}
}

func TestRouterGreetsOnChatInvite(t *testing.T) {
	ctx := context.Background()
	tt := newTestTable(t, nil)

	tt.router.Route(ctx, Update{
		Type:       "message_new",
		FromID:     1,
		PeerID:     testPeerID,
		ActionType: "chat_invite_user",
	})

	if len(tt.sender.messages) != 1 {
		t.Fatalf("expected a greeting, got %d messages", len(tt.sender.messages))
	}
}

func TestNotYourTurnIsRefused(t *testing.T) {
	ctx := context.Background()
	tt := newTestTable(t, nil)

	game, _ := tt.seedRound(ctx, t, []seedPlayer{
		{vkID: 1, bet: 100, hand: Hand{{Rank: deck.Five, Suit: deck.Spades}, {Rank: deck.Six, Suit: deck.Hearts}}},
		{vkID: 3, bet: 100, hand: Hand{}},
	})
	players, err := tt.store.GetActivePlayers(ctx, game.ID)
	if err != nil {
		t.Fatalf("could not list players: %s", err)
	}
	var current *Player
	for _, p := range players {
		if len(p.Hand) > 0 {
			current = p
		}
	}
	if err := tt.store.SetCurrentPlayer(ctx, game.ID, &current.ID); err != nil {
		t.Fatalf("could not set current player: %s", err)
	}

	tt.router.Route(ctx, chatMessage(3, "hit"))

	if !tt.sender.contains("not your turn") {
		t.Fatal("hitting out of turn must be refused aloud")
	}
}

func TestRestoreCashOnlyForBrokePlayers(t *testing.T) {
	ctx := context.Background()
	tt := newTestTable(t, nil)

	tt.router.Route(ctx, chatMessage(1, "start"))
	tt.router.Route(ctx, chatMessage(1, "join"))

	// A solvent player gets nothing from the magic words.
	tt.router.Route(ctx, chatMessage(1, "converta tempus"))
	if got := tt.mustPlayer(t, 1).Cash; got != 1000 {
		t.Fatalf("cash mutated for a solvent player: %d", got)
	}

	player := tt.mustPlayer(t, 1)
	if err := tt.store.SetPlayerCash(ctx, player.ID, 0); err != nil {
		t.Fatalf("could not zero cash: %s", err)
	}

	tt.router.Route(ctx, chatMessage(1, "this damn casino robbed me"))
	if !tt.sender.contains("converta tempus") {
		t.Fatal("the complaint must hint at the magic words")
	}

	tt.router.Route(ctx, chatMessage(1, "converta tempus"))
	if got := tt.mustPlayer(t, 1).Cash; got != 1000 {
		t.Fatalf("cash after restore = %d, expected 1000", got)
	}
}

// Scenario: a digit string too large for any purse is still a bet attempt
// and gets refused out loud instead of vanishing.
func TestOverflowingBetIsRefused(t *testing.T) {
	ctx := context.Background()
	tt := newTestTable(t, nil)

	tt.router.Route(ctx, chatMessage(1, "start"))
	tt.router.Route(ctx, chatMessage(1, "join"))
	tt.fireTimer(t, tt.manager.collectPlayers)

	tt.router.Route(ctx, chatMessage(1, "99999999999999999999999"))
	if !tt.sender.contains("can't bet money you don't have") {
		t.Fatal("an overflowing bet must be refused aloud")
	}
	if bet := tt.mustPlayer(t, 1).Bet; bet != nil {
		t.Fatalf("bet placed despite overflow: %d", *bet)
	}
}

// Scenario: asking for cards before the deal gets an answer rather than
// silence.
func TestHandBeforeDealAnswers(t *testing.T) {
	ctx := context.Background()
	tt := newTestTable(t, nil)

	tt.router.Route(ctx, chatMessage(1, "start"))
	tt.router.Route(ctx, chatMessage(1, "join"))
	tt.fireTimer(t, tt.manager.collectPlayers)

	tt.router.Route(ctx, chatMessage(1, "hand"))
	if !tt.sender.contains("holds no cards") {
		t.Fatal("an undealt player asking for cards must get an answer")
	}
}
