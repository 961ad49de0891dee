package game

import (
	"context"
	"database/sql"
	"database/sql/driver"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/Demmenty/BlackJack-vkbot-project/deck"
)

var storeLogger = log.With().Str("logger_name", "game::store").Logger()

const schema = `
CREATE TABLE IF NOT EXISTS chat (
	id            BIGSERIAL PRIMARY KEY,
	vk_id         BIGINT NOT NULL UNIQUE,
	games_played  INT NOT NULL DEFAULT 0,
	casino_cash   BIGINT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS game (
	id                 BIGSERIAL PRIMARY KEY,
	chat_id            BIGINT NOT NULL REFERENCES chat (id) ON DELETE CASCADE,
	stage              TEXT NOT NULL DEFAULT 'inactive',
	current_player_id  BIGINT,
	dealer_hand        JSONB NOT NULL DEFAULT '[]',
	dealer_points      INT
);

CREATE TABLE IF NOT EXISTS vk_user (
	id     BIGSERIAL PRIMARY KEY,
	vk_id  BIGINT NOT NULL UNIQUE,
	name   TEXT NOT NULL,
	sex    TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS player (
	id            BIGSERIAL PRIMARY KEY,
	user_id       BIGINT NOT NULL REFERENCES vk_user (id),
	game_id       BIGINT NOT NULL REFERENCES game (id) ON DELETE CASCADE,
	cash          BIGINT NOT NULL DEFAULT 0,
	bet           BIGINT,
	hand          JSONB NOT NULL DEFAULT '[]',
	is_active     BOOLEAN NOT NULL DEFAULT TRUE,
	games_played  INT NOT NULL DEFAULT 0,
	games_won     INT NOT NULL DEFAULT 0,
	games_lost    INT NOT NULL DEFAULT 0,
	UNIQUE (user_id, game_id)
);

CREATE TABLE IF NOT EXISTS global_settings (
	id          BIGSERIAL PRIMARY KEY,
	start_cash  BIGINT NOT NULL DEFAULT 1000
);

INSERT INTO global_settings (id, start_cash)
	VALUES (1, 1000)
	ON CONFLICT (id) DO NOTHING;
`

// PostgresStore is the production Store over a Postgres database.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to connect to postgres")
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, errors.Wrap(err, "Unable to initialize schema")
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// isTransient reports whether the error is a connectivity failure worth one
// automatic retry.
func isTransient(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// Class 08 - connection exceptions.
		return pqErr.Code.Class() == "08"
	}
	return false
}

// retryOnce runs op and, on a transient connectivity failure, runs it one
// more time. Any further failure propagates.
func retryOnce(op func() error) error {
	err := op()
	if err != nil && isTransient(err) {
		storeLogger.Warn().Msgf("Retrying store operation after transient error: %s", err)
		err = op()
	}
	return err
}

func notFoundOr(err error, wrap string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return errors.Wrap(err, wrap)
}

func (s *PostgresStore) GetChatByVKID(ctx context.Context, vkID int64) (*Chat, error) {
	var chat Chat
	err := retryOnce(func() error {
		return s.db.GetContext(ctx, &chat, "SELECT * FROM chat WHERE vk_id = $1", vkID)
	})
	if err != nil {
		return nil, notFoundOr(err, "Unable to get chat")
	}
	return &chat, nil
}

func (s *PostgresStore) GetChatByGameID(ctx context.Context, gameID int64) (*Chat, error) {
	var chat Chat
	err := retryOnce(func() error {
		return s.db.GetContext(ctx, &chat,
			"SELECT c.* FROM chat c JOIN game g ON g.chat_id = c.id WHERE g.id = $1", gameID)
	})
	if err != nil {
		return nil, notFoundOr(err, "Unable to get chat by game")
	}
	return &chat, nil
}

func (s *PostgresStore) CreateChat(ctx context.Context, vkID int64) (*Chat, error) {
	var chat Chat
	err := retryOnce(func() error {
		return s.db.GetContext(ctx, &chat,
			"INSERT INTO chat (vk_id) VALUES ($1) RETURNING *", vkID)
	})
	if err != nil {
		return nil, errors.Wrap(err, "Unable to create chat")
	}
	return &chat, nil
}

func (s *PostgresStore) AddGamePlayedToChat(ctx context.Context, chatID int64) error {
	return retryOnce(func() error {
		_, err := s.db.ExecContext(ctx,
			"UPDATE chat SET games_played = games_played + 1 WHERE id = $1", chatID)
		return errors.Wrap(err, "Unable to increment chat games played")
	})
}

func (s *PostgresStore) CreateGame(ctx context.Context, chatID int64) (*Game, error) {
	var game Game
	err := retryOnce(func() error {
		return s.db.GetContext(ctx, &game,
			"INSERT INTO game (chat_id) VALUES ($1) RETURNING *", chatID)
	})
	if err != nil {
		return nil, errors.Wrap(err, "Unable to create game")
	}
	return &game, nil
}

func (s *PostgresStore) GetGameByID(ctx context.Context, gameID int64) (*Game, error) {
	var game Game
	err := retryOnce(func() error {
		return s.db.GetContext(ctx, &game, "SELECT * FROM game WHERE id = $1", gameID)
	})
	if err != nil {
		return nil, notFoundOr(err, "Unable to get game")
	}
	return &game, nil
}

func (s *PostgresStore) GetGameByChatID(ctx context.Context, chatID int64) (*Game, error) {
	var game Game
	err := retryOnce(func() error {
		return s.db.GetContext(ctx, &game, "SELECT * FROM game WHERE chat_id = $1", chatID)
	})
	if err != nil {
		return nil, notFoundOr(err, "Unable to get game by chat")
	}
	return &game, nil
}

func (s *PostgresStore) SetGameStage(ctx context.Context, gameID int64, stage GameStage) error {
	return retryOnce(func() error {
		_, err := s.db.ExecContext(ctx,
			"UPDATE game SET stage = $1 WHERE id = $2", stage, gameID)
		return errors.Wrap(err, "Unable to set game stage")
	})
}

func (s *PostgresStore) SetCurrentPlayer(ctx context.Context, gameID int64, playerID *int64) error {
	return retryOnce(func() error {
		_, err := s.db.ExecContext(ctx,
			"UPDATE game SET current_player_id = $1 WHERE id = $2", playerID, gameID)
		return errors.Wrap(err, "Unable to set current player")
	})
}

func (s *PostgresStore) SetDealerHand(ctx context.Context, gameID int64, hand Hand, points *int) error {
	return retryOnce(func() error {
		_, err := s.db.ExecContext(ctx,
			"UPDATE game SET dealer_hand = $1::jsonb, dealer_points = $2 WHERE id = $3",
			hand, points, gameID)
		return errors.Wrap(err, "Unable to set dealer hand")
	})
}

func (s *PostgresStore) GetActiveGames(ctx context.Context) ([]*Game, error) {
	var games []*Game
	err := retryOnce(func() error {
		return s.db.SelectContext(ctx, &games, "SELECT * FROM game WHERE stage != 'inactive'")
	})
	if err != nil {
		return nil, errors.Wrap(err, "Unable to list active games")
	}
	return games, nil
}

func (s *PostgresStore) CreatePlayer(ctx context.Context, userID, gameID, startCash int64) (*Player, error) {
	var player Player
	err := retryOnce(func() error {
		return s.db.GetContext(ctx, &player,
			"INSERT INTO player (user_id, game_id, cash) VALUES ($1, $2, $3) RETURNING *",
			userID, gameID, startCash)
	})
	if err != nil {
		return nil, errors.Wrap(err, "Unable to create player")
	}
	return &player, nil
}

func (s *PostgresStore) GetPlayerByID(ctx context.Context, playerID int64) (*Player, error) {
	var player Player
	err := retryOnce(func() error {
		return s.db.GetContext(ctx, &player, "SELECT * FROM player WHERE id = $1", playerID)
	})
	if err != nil {
		return nil, notFoundOr(err, "Unable to get player")
	}
	return &player, nil
}

func (s *PostgresStore) GetPlayerByUserAndGame(ctx context.Context, userID, gameID int64) (*Player, error) {
	var player Player
	err := retryOnce(func() error {
		return s.db.GetContext(ctx, &player,
			"SELECT * FROM player WHERE user_id = $1 AND game_id = $2", userID, gameID)
	})
	if err != nil {
		return nil, notFoundOr(err, "Unable to get player by user and game")
	}
	return &player, nil
}

func (s *PostgresStore) GetPlayers(ctx context.Context, gameID int64) ([]*Player, error) {
	var players []*Player
	err := retryOnce(func() error {
		return s.db.SelectContext(ctx, &players,
			"SELECT * FROM player WHERE game_id = $1 ORDER BY id", gameID)
	})
	if err != nil {
		return nil, errors.Wrap(err, "Unable to list players")
	}
	return players, nil
}

func (s *PostgresStore) GetActivePlayers(ctx context.Context, gameID int64) ([]*Player, error) {
	var players []*Player
	err := retryOnce(func() error {
		return s.db.SelectContext(ctx, &players,
			"SELECT * FROM player WHERE game_id = $1 AND is_active ORDER BY id", gameID)
	})
	if err != nil {
		return nil, errors.Wrap(err, "Unable to list active players")
	}
	return players, nil
}

func (s *PostgresStore) SetPlayerBet(ctx context.Context, playerID int64, bet *int64) error {
	return retryOnce(func() error {
		_, err := s.db.ExecContext(ctx,
			"UPDATE player SET bet = $1 WHERE id = $2", bet, playerID)
		return errors.Wrap(err, "Unable to set player bet")
	})
}

func (s *PostgresStore) SetPlayerActive(ctx context.Context, playerID int64, active bool) error {
	return retryOnce(func() error {
		_, err := s.db.ExecContext(ctx,
			"UPDATE player SET is_active = $1 WHERE id = $2", active, playerID)
		return errors.Wrap(err, "Unable to set player active flag")
	})
}

func (s *PostgresStore) AddCardsToPlayer(ctx context.Context, playerID int64, cards []deck.Card) error {
	return retryOnce(func() error {
		_, err := s.db.ExecContext(ctx,
			"UPDATE player SET hand = hand || $1::jsonb WHERE id = $2", Hand(cards), playerID)
		return errors.Wrap(err, "Unable to add cards to player hand")
	})
}

func (s *PostgresStore) ClearPlayerHand(ctx context.Context, playerID int64) error {
	return retryOnce(func() error {
		_, err := s.db.ExecContext(ctx,
			"UPDATE player SET hand = '[]' WHERE id = $1", playerID)
		return errors.Wrap(err, "Unable to clear player hand")
	})
}

func (s *PostgresStore) SetPlayerCash(ctx context.Context, playerID, cash int64) error {
	return retryOnce(func() error {
		_, err := s.db.ExecContext(ctx,
			"UPDATE player SET cash = $1 WHERE id = $2", cash, playerID)
		return errors.Wrap(err, "Unable to set player cash")
	})
}

func (s *PostgresStore) IncrementPlayerStats(ctx context.Context, playerID int64, outcome RoundOutcome) error {
	won := 0
	lost := 0
	switch outcome {
	case OutcomeWin:
		won = 1
	case OutcomeLoss:
		lost = 1
	}
	return retryOnce(func() error {
		_, err := s.db.ExecContext(ctx,
			`UPDATE player SET games_played = games_played + 1,
				games_won = games_won + $1, games_lost = games_lost + $2
			WHERE id = $3`, won, lost, playerID)
		return errors.Wrap(err, "Unable to increment player stats")
	})
}

func (s *PostgresStore) CountLosers(ctx context.Context, gameID int64) (int, error) {
	var count int
	err := retryOnce(func() error {
		return s.db.GetContext(ctx, &count,
			"SELECT COUNT(*) FROM player WHERE game_id = $1 AND cash = 0", gameID)
	})
	if err != nil {
		return 0, errors.Wrap(err, "Unable to count losers")
	}
	return count, nil
}

// WithdrawBet moves the player's bet into the chat's house bank. The row
// locks keep concurrent settlements of the same game consistent.
func (s *PostgresStore) WithdrawBet(ctx context.Context, playerID int64) (int64, error) {
	var bet int64
	err := retryOnce(func() error {
		return s.inTx(ctx, func(tx *sqlx.Tx) error {
			if err := tx.GetContext(ctx, &bet,
				"SELECT bet FROM player WHERE id = $1 FOR UPDATE", playerID); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				"UPDATE player SET cash = cash - $1, bet = NULL WHERE id = $2",
				bet, playerID); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx,
				`UPDATE chat SET casino_cash = casino_cash + $1
				WHERE id = (SELECT g.chat_id FROM game g JOIN player p ON p.game_id = g.id WHERE p.id = $2)`,
				bet, playerID)
			return err
		})
	})
	if err != nil {
		return 0, errors.Wrap(err, "Unable to withdraw bet")
	}
	return bet, nil
}

// PayBet pays the player's bet from the house bank, half again as much for a
// natural.
func (s *PostgresStore) PayBet(ctx context.Context, playerID int64, blackjack bool) (int64, error) {
	var payout int64
	err := retryOnce(func() error {
		return s.inTx(ctx, func(tx *sqlx.Tx) error {
			var bet int64
			if err := tx.GetContext(ctx, &bet,
				"SELECT bet FROM player WHERE id = $1 FOR UPDATE", playerID); err != nil {
				return err
			}
			payout = bet
			if blackjack {
				payout = bet * 3 / 2
			}
			if _, err := tx.ExecContext(ctx,
				"UPDATE player SET cash = cash + $1, bet = NULL WHERE id = $2",
				payout, playerID); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx,
				`UPDATE chat SET casino_cash = casino_cash - $1
				WHERE id = (SELECT g.chat_id FROM game g JOIN player p ON p.game_id = g.id WHERE p.id = $2)`,
				payout, playerID)
			return err
		})
	})
	if err != nil {
		return 0, errors.Wrap(err, "Unable to pay bet")
	}
	return payout, nil
}

func (s *PostgresStore) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			storeLogger.Error().Msgf("Rollback failed: %s", rbErr)
		}
		return err
	}
	return tx.Commit()
}

func (s *PostgresStore) GetVKUserByVKID(ctx context.Context, vkID int64) (*VKUser, error) {
	var user VKUser
	err := retryOnce(func() error {
		return s.db.GetContext(ctx, &user, "SELECT * FROM vk_user WHERE vk_id = $1", vkID)
	})
	if err != nil {
		return nil, notFoundOr(err, "Unable to get vk user")
	}
	return &user, nil
}

func (s *PostgresStore) GetVKUserByPlayer(ctx context.Context, playerID int64) (*VKUser, error) {
	var user VKUser
	err := retryOnce(func() error {
		return s.db.GetContext(ctx, &user,
			"SELECT u.* FROM vk_user u JOIN player p ON p.user_id = u.id WHERE p.id = $1", playerID)
	})
	if err != nil {
		return nil, notFoundOr(err, "Unable to get vk user by player")
	}
	return &user, nil
}

func (s *PostgresStore) CreateVKUser(ctx context.Context, vkID int64, name, sex string) (*VKUser, error) {
	var user VKUser
	err := retryOnce(func() error {
		return s.db.GetContext(ctx, &user,
			"INSERT INTO vk_user (vk_id, name, sex) VALUES ($1, $2, $3) RETURNING *",
			vkID, name, sex)
	})
	if err != nil {
		return nil, errors.Wrap(err, "Unable to create vk user")
	}
	return &user, nil
}

func (s *PostgresStore) GetGlobalSettings(ctx context.Context) (*GlobalSettings, error) {
	var settings GlobalSettings
	err := retryOnce(func() error {
		return s.db.GetContext(ctx, &settings, "SELECT * FROM global_settings WHERE id = 1")
	})
	if err != nil {
		return nil, notFoundOr(err, "Unable to get global settings")
	}
	return &settings, nil
}

func (s *PostgresStore) SetStartCash(ctx context.Context, startCash int64) error {
	return retryOnce(func() error {
		_, err := s.db.ExecContext(ctx,
			"UPDATE global_settings SET start_cash = $1 WHERE id = 1", startCash)
		return errors.Wrap(err, "Unable to update start cash")
	})
}
