package game

import (
	"context"
	"encoding/json"
)

// Update is one inbound chat event: a message from a user in a conversation.
type Update struct {
	ID         int64  `json:"id"`
	Type       string `json:"type"`
	FromID     int64  `json:"from_id"`
	PeerID     int64  `json:"peer_id"`
	ActionType string `json:"action_type"`
	Text       string `json:"text"`
}

// Action is the labeled action of a keyboard button.
type Action struct {
	Label string `json:"label"`
	Type  string `json:"type"`
}

// Button is one keyboard button. Buttons are advisory UI only; the state
// machine never reads them back.
type Button struct {
	Action Action `json:"action"`
	Color  string `json:"color"`
}

// Keyboard is a declarative set of button rows attached to a message.
type Keyboard struct {
	Buttons [][]Button `json:"buttons"`
	OneTime bool       `json:"one_time"`
	Inline  bool       `json:"inline"`
}

// JSON renders the keyboard in the wire format the chat transport expects.
func (k Keyboard) JSON() string {
	if k.Buttons == nil {
		k.Buttons = [][]Button{}
	}
	k.Inline = true
	data, err := json.Marshal(k)
	if err != nil {
		return ""
	}
	return string(data)
}

// BotMessage is one outbound chat message.
type BotMessage struct {
	PeerID   int64
	Text     string
	Keyboard string
}

// MessageSender delivers outbound messages to the chat transport.
type MessageSender interface {
	SendMessage(ctx context.Context, msg BotMessage) error
}

// UserDirectory resolves external user identity.
type UserDirectory interface {
	GetUser(ctx context.Context, vkUserID int64) (name string, sex string, err error)
}

// ChatMemberLister enumerates the human members of a conversation. Negative
// IDs (communities, including the bot itself) are already filtered out.
type ChatMemberLister interface {
	GetChatMembers(ctx context.Context, peerID int64) ([]int64, error)
}
