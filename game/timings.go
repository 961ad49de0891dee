package game

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Timings are the stage timeouts of a round.
type Timings struct {
	GatherSec   uint32 `yaml:"gatherSec"`
	BetSec      uint32 `yaml:"betSec"`
	DecisionSec uint32 `yaml:"decisionSec"`
}

// DefaultTimings are used when no timing file is supplied.
var DefaultTimings = Timings{
	GatherSec:   15,
	BetSec:      60,
	DecisionSec: 60,
}

func (t Timings) Gather() time.Duration {
	return time.Duration(t.GatherSec) * time.Second
}

func (t Timings) Bet() time.Duration {
	return time.Duration(t.BetSec) * time.Second
}

func (t Timings) Decision() time.Duration {
	return time.Duration(t.DecisionSec) * time.Second
}

func ParseTimingConfig(timingsFile string) (Timings, error) {
	bytes, err := os.ReadFile(timingsFile)
	if err != nil {
		return Timings{}, errors.Wrap(err, fmt.Sprintf("Error reading timing config file [%s]", timingsFile))
	}

	data := DefaultTimings
	err = yaml.Unmarshal(bytes, &data)
	if err != nil {
		return Timings{}, errors.Wrap(err, fmt.Sprintf("Error parsing timings YAML file [%s]", timingsFile))
	}

	return data, nil
}
