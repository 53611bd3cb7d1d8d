package combat

import (
	"errors"
	"math"

	"brawlsim/internal/geom"
	"brawlsim/internal/util"

	"github.com/google/uuid"
)

type Event struct {
	T       float64        `json:"t"`
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Env is the simulation clock and random stream shared by one battle.
// Time and Delta are in milliseconds.
type Env struct {
	Time  float64
	Delta float64
	Rng   util.Source
}

type AgentID = uuid.UUID

type Team int

const (
	TeamNone Team = iota
	TeamA
	TeamB
)

func (t Team) String() string {
	switch t {
	case TeamA:
		return "A"
	case TeamB:
		return "B"
	}
	return "-"
}

func (t Team) Opponent() Team {
	switch t {
	case TeamA:
		return TeamB
	case TeamB:
		return TeamA
	}
	return TeamNone
}

type AgentState int

const (
	StateIdle AgentState = iota
	StateSeeking
	StateApproaching
	StateAttacking
	StateAfraid
	StateDead
)

func (s AgentState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSeeking:
		return "seeking"
	case StateApproaching:
		return "approaching"
	case StateAttacking:
		return "attacking"
	case StateAfraid:
		return "afraid"
	case StateDead:
		return "dead"
	}
	return "unknown"
}

var (
	ErrUnknownCreature = errors.New("unknown creature type")
	ErrEmptyTeam       = errors.New("team has no creatures")
	ErrInvalidCount    = errors.New("spawn count must be positive")
)

// Tuning shared by every agent. Distances are world units, times are ms.
const (
	BaseAttackRange          = 80.0
	MaxAttackRange           = 200.0
	PushDistance             = 4.0
	MovementCommitment       = 500.0
	DirectionChangeThreshold = 0.8
	ApproachAngleTolerance   = math.Pi / 3
	PreferredSpacing         = 40.0
	PositionChangeDelay      = 300.0
	MaxAttackAttempts        = 5
	StuckSpeed               = 5.0
	StuckSpeedBoost          = 1.5
	MinSpeedFactor           = 0.1
	AfraidSpeedFactor        = 0.7

	FearMinDuration = 1000
	FearMaxDuration = 5000
	FearImmunity    = 3000.0
	ContagionChance = 0.3

	SwingDuration          = 1500.0
	DamageReactionCooldown = 3000.0
	SoundCooldown          = 100.0
	ImpactCooldown         = 1000.0
	FootstepCooldown       = 2000.0
	MaxFootstepSets        = 3
)

// Options is the per-battle configuration handed to the coordinator.
type Options struct {
	SpeedMultiplier float64
	Blood           bool
	DeathGrace      float64
	ArenaWidth      float64
	ArenaHeight     float64
}

func DefaultOptions() Options {
	return Options{
		SpeedMultiplier: 4,
		Blood:           true,
		DeathGrace:      1500,
		ArenaWidth:      1280,
		ArenaHeight:     720,
	}
}

// Physics is the spatial substrate the core moves agents through.
type Physics interface {
	AddBody(id AgentID, pos geom.Vec2, radius float64)
	RemoveBody(id AgentID)
	Position(id AgentID) geom.Vec2
	Velocity(id AgentID) geom.Vec2
	SetVelocity(id AgentID, v geom.Vec2)
	Nudge(id AgentID, d geom.Vec2)
	Step(dt float64, overlap func(a, b AgentID))
}
