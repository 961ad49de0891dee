package vk

import (
	"context"
	"net/url"
	"strconv"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/Demmenty/BlackJack-vkbot-project/logging"
)

var directoryLogger = log.With().Str("logger_name", "vk::directory").Logger()

const directoryCacheSize = 1024

type cachedUser struct {
	name string
	sex  string
}

// Directory resolves user identity through users.get and conversation
// membership through messages.getConversationMembers. Identities are
// immutable enough to cache; membership is not cached.
type Directory struct {
	client *Client
	cache  *lru.Cache
}

func NewDirectory(client *Client) (*Directory, error) {
	cache, err := lru.New(directoryCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "could not create user cache")
	}
	return &Directory{client: client, cache: cache}, nil
}

func (d *Directory) GetUser(ctx context.Context, vkUserID int64) (string, string, error) {
	if cached, ok := d.cache.Get(vkUserID); ok {
		user := cached.(cachedUser)
		return user.name, user.sex, nil
	}

	params := url.Values{}
	params.Set("user_ids", strconv.FormatInt(vkUserID, 10))
	params.Set("fields", "sex")

	var users []struct {
		ID        int64  `json:"id"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Sex       int    `json:"sex"`
	}
	if err := d.client.call(ctx, "users.get", params, &users); err != nil {
		return "", "", err
	}
	if len(users) == 0 {
		return "", "", errors.Errorf("user %d not found", vkUserID)
	}

	name := users[0].FirstName
	sex := sexName(users[0].Sex)
	d.cache.Add(vkUserID, cachedUser{name: name, sex: sex})

	directoryLogger.Debug().
		Int64(logging.VKUserIDKey, vkUserID).
		Str(logging.PlayerNameKey, name).
		Msg("Resolved user")
	return name, sex, nil
}

func (d *Directory) GetChatMembers(ctx context.Context, peerID int64) ([]int64, error) {
	params := url.Values{}
	params.Set("peer_id", strconv.FormatInt(peerID, 10))

	var result struct {
		Items []struct {
			MemberID int64 `json:"member_id"`
		} `json:"items"`
	}
	if err := d.client.call(ctx, "messages.getConversationMembers", params, &result); err != nil {
		return nil, err
	}

	members := make([]int64, 0, len(result.Items))
	for _, item := range result.Items {
		// Negative IDs are communities, the bot among them.
		if item.MemberID > 0 {
			members = append(members, item.MemberID)
		}
	}
	return members, nil
}

func sexName(code int) string {
	switch code {
	case 1:
		return "female"
	case 2:
		return "male"
	default:
		return ""
	}
}
