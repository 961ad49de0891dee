package game

import (
	"database/sql/driver"
	"fmt"
)

// GameStage is the stage of a chat's blackjack round. A chat always holds
// exactly one game row; an idle chat holds it in StageInactive.
type GameStage int

const (
	StageInactive GameStage = iota
	StageGathering
	StageBetting
	StageDealingPlayers
	StageDealingDealer
	StageResults
)

var stageNames = map[GameStage]string{
	StageInactive:       "inactive",
	StageGathering:      "gathering",
	StageBetting:        "betting",
	StageDealingPlayers: "dealing_players",
	StageDealingDealer:  "dealing_dealer",
	StageResults:        "results",
}

var stagesByName = map[string]GameStage{
	"inactive":        StageInactive,
	"gathering":       StageGathering,
	"betting":         StageBetting,
	"dealing_players": StageDealingPlayers,
	"dealing_dealer":  StageDealingDealer,
	"results":         StageResults,
}

func (s GameStage) String() string {
	name, ok := stageNames[s]
	if !ok {
		return fmt.Sprintf("GameStage(%d)", int(s))
	}
	return name
}

func ParseStage(name string) (GameStage, error) {
	s, ok := stagesByName[name]
	if !ok {
		return StageInactive, fmt.Errorf("unknown game stage [%s]", name)
	}
	return s, nil
}

// Stages are persisted by name so the rows stay readable in psql.
func (s GameStage) Value() (driver.Value, error) {
	name, ok := stageNames[s]
	if !ok {
		return nil, fmt.Errorf("cannot persist unknown game stage %d", int(s))
	}
	return name, nil
}

func (s *GameStage) Scan(src interface{}) error {
	var name string
	switch v := src.(type) {
	case string:
		name = v
	case []byte:
		name = string(v)
	default:
		return fmt.Errorf("cannot scan %T into GameStage", src)
	}
	parsed, err := ParseStage(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
