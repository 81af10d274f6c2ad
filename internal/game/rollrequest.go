package game

import (
	"github.com/louisbranch/duality-table/internal/duality"
	apperrors "github.com/louisbranch/duality-table/internal/platform/errors"
)

var (
	// ErrRequestNotFound indicates an unknown roll request id.
	ErrRequestNotFound = apperrors.New(apperrors.CodeRollRequestNotFound, "roll request not found")
	// ErrAlreadyRolled indicates the target already resolved this request.
	ErrAlreadyRolled = apperrors.New(apperrors.CodeAlreadyRolled, "roll already resolved for this character")
	// ErrInsufficientHope indicates the character has no Hope point to spend.
	ErrInsufficientHope = apperrors.New(apperrors.CodeInsufficientHope, "not enough hope to spend")
	// ErrMissingTargets indicates a roll request without any valid target.
	ErrMissingTargets = apperrors.New(apperrors.CodeMissingTargets, "roll request needs at least one target")
)

// Bonus added to the total modifier when a Hope point is spent on a roll.
const hopeSpendBonus = 2

// PendingRollRequest is a GM-initiated check against one or more characters.
// Each target resolves independently and exactly once; the record stays
// around after completion for late status queries.
type PendingRollRequest struct {
	ID          string
	TargetIDs   []string
	RollType    duality.RollType
	Attribute   string
	Difficulty  int
	Context     string
	Stakes      string
	Situational int
	Advantage   bool
	Combat      bool
	Completed   map[string]bool
}

// IsTarget reports whether the character is addressed by this request.
func (r *PendingRollRequest) IsTarget(characterID string) bool {
	for _, id := range r.TargetIDs {
		if id == characterID {
			return true
		}
	}
	return false
}

// Resolved reports whether the character already executed this request.
func (r *PendingRollRequest) Resolved(characterID string) bool {
	return r.Completed[characterID]
}

// Complete reports whether every target has resolved.
func (r *PendingRollRequest) Complete() bool {
	return len(r.Completed) >= len(r.TargetIDs)
}

// PreviewModifiers are the per-target modifier components computed when a
// request is issued, so each player sees their own arithmetic up front.
type PreviewModifiers struct {
	Attribute   int `json:"attribute"`
	Proficiency int `json:"proficiency"`
	Situational int `json:"situational"`
	Total       int `json:"total"`
}

// RollExecution is the full result of executing a roll request for one
// target. Every modifier component is exposed separately so a reader can
// reconstruct the arithmetic from the payload alone.
type RollExecution struct {
	RequestID     string
	CharacterID   string
	CharacterName string
	RollType      duality.RollType
	Attribute     string
	Experience    string

	AttributeModifier   int
	ProficiencyModifier int
	SituationalModifier int
	HopeBonus           int
	TotalModifier       int

	Roll        duality.Roll
	Difficulty  int
	Tier        duality.Tier
	Controlling duality.ControllingDie
	Critical    bool

	HopeSpent  bool
	HopeChange int // net reported delta: tier gain minus spent hope
	FearChange int

	RequestComplete bool
}
