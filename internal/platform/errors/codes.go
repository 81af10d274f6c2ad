package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Lookup errors
	CodeConnectionNotFound  Code = "CONNECTION_NOT_FOUND"
	CodeCharacterNotFound   Code = "CHARACTER_NOT_FOUND"
	CodeAdversaryNotFound   Code = "ADVERSARY_NOT_FOUND"
	CodeTemplateNotFound    Code = "TEMPLATE_NOT_FOUND"
	CodeRollRequestNotFound Code = "ROLL_REQUEST_NOT_FOUND"
	CodeSessionNotFound     Code = "SESSION_NOT_FOUND"

	// Input errors
	CodeInvalidAttributes Code = "INVALID_ATTRIBUTE_DISTRIBUTION"
	CodeUnknownClass      Code = "UNKNOWN_CLASS"
	CodeUnknownAncestry   Code = "UNKNOWN_ANCESTRY"
	CodeUnknownResource   Code = "UNKNOWN_RESOURCE"
	CodeInvalidDifficulty Code = "INVALID_DIFFICULTY"
	CodeInvalidDualityDie Code = "INVALID_DUALITY_DIE"
	CodeInvalidThresholds Code = "INVALID_THRESHOLDS"
	CodeMissingTargets    Code = "MISSING_ROLL_TARGETS"

	// Precondition errors
	CodeAlreadyControlled Code = "CHARACTER_ALREADY_CONTROLLED"
	CodeInsufficientHope  Code = "INSUFFICIENT_HOPE"
	CodeAlreadyRolled     Code = "ALREADY_ROLLED"
	CodeCombatNotActive   Code = "COMBAT_NOT_ACTIVE"

	// Dice errors
	CodeDiceMissing     Code = "DICE_MISSING"
	CodeDiceInvalidSpec Code = "DICE_INVALID_SPEC"
)

// Kind buckets codes into the taxonomy reported to clients: lookups that
// missed, input that was rejected, and operations whose preconditions failed.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalidInput
	KindPreconditionFailed
)

// Kind maps a domain code to its taxonomy bucket.
func (c Code) Kind() Kind {
	switch c {
	case CodeConnectionNotFound,
		CodeCharacterNotFound,
		CodeAdversaryNotFound,
		CodeTemplateNotFound,
		CodeRollRequestNotFound,
		CodeSessionNotFound:
		return KindNotFound

	case CodeInvalidAttributes,
		CodeUnknownClass,
		CodeUnknownAncestry,
		CodeUnknownResource,
		CodeInvalidDifficulty,
		CodeInvalidDualityDie,
		CodeInvalidThresholds,
		CodeMissingTargets,
		CodeDiceMissing,
		CodeDiceInvalidSpec:
		return KindInvalidInput

	case CodeAlreadyControlled,
		CodeInsufficientHope,
		CodeAlreadyRolled,
		CodeCombatNotActive:
		return KindPreconditionFailed

	default:
		return KindInternal
	}
}
