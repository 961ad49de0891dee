package internal

import (
	"fmt"

	"github.com/Demmenty/BlackJack-vkbot-project/util"
)

// GetGameConnStr builds the postgres connection string from the environment.
func GetGameConnStr() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		util.Env.GetPostgresHost(),
		util.Env.GetPostgresPort(),
		util.Env.GetPostgresUser(),
		util.Env.GetPostgresPW(),
		util.Env.GetPostgresDB(),
		util.Env.GetPostgresSSLMode(),
	)
}
