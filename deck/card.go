package deck

import "fmt"

// Rank is one of the thirteen blackjack card ranks.
type Rank string

const (
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
	Ace   Rank = "A"
)

// Suit is one of the four card suits.
type Suit string

const (
	Spades   Suit = "♠"
	Clubs    Suit = "♣"
	Hearts   Suit = "♥"
	Diamonds Suit = "♦"
)

var ranks = []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}
var suits = []Suit{Spades, Clubs, Hearts, Diamonds}

type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

func (c Card) String() string {
	return fmt.Sprintf("%s %s", c.Rank, c.Suit)
}

// rankValue returns the base value of the rank. Aces are returned as 11;
// HandValue demotes them to 1 as needed.
func rankValue(r Rank) int {
	switch r {
	case Jack, Queen, King:
		return 10
	case Ace:
		return 11
	case Ten:
		return 10
	case Nine:
		return 9
	case Eight:
		return 8
	case Seven:
		return 7
	case Six:
		return 6
	case Five:
		return 5
	case Four:
		return 4
	case Three:
		return 3
	case Two:
		return 2
	}
	panic(fmt.Sprintf("Unknown card rank [%s]", r))
}

// HandValue computes the blackjack value of a hand. Aces start at 11 and
// are demoted to 1 one at a time while the total is over 21.
func HandValue(cards []Card) int {
	points := 0
	aces := 0

	for _, card := range cards {
		if card.Rank == Ace {
			aces++
		}
		points += rankValue(card.Rank)
	}

	for aces > 0 && points > 21 {
		points -= 10
		aces--
	}

	return points
}

// IsBlackjack reports whether the hand is a natural: exactly two cards
// totaling 21.
func IsBlackjack(cards []Card) bool {
	return len(cards) == 2 && HandValue(cards) == 21
}
