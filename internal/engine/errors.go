package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/axtree/internal/schema"
)

// InvariantError reports a tree update that would break the tree's
// consistency rules. The update is rejected as a whole and the tree is left
// in its previous state.
//
// A violation means the producer and the engine disagree about the tree, so
// callers should treat it as a programming error rather than retry.
type InvariantError struct {
	// Code identifies the broken rule.
	Code ViolationCode

	// Message is a human-readable description.
	Message string

	// NodeID is the offending node, if any.
	NodeID schema.NodeID

	// Entry is the index into TreeUpdate.Nodes being applied, or -1.
	Entry int

	// Details contains additional context.
	Details map[string]string
}

// ViolationCode categorizes invariant violations.
type ViolationCode string

const (
	// ErrCodeZeroNodeID indicates a node or child id of zero.
	ErrCodeZeroNodeID ViolationCode = "ZERO_NODE_ID"

	// ErrCodeUnknownNode indicates a node entry that is neither in the tree,
	// nor introduced as a child earlier in the update, nor the new root.
	ErrCodeUnknownNode ViolationCode = "UNKNOWN_NODE"

	// ErrCodeReparent indicates a child still attached to another parent.
	ErrCodeReparent ViolationCode = "REPARENT"

	// ErrCodeSelfChild indicates a node listing itself as a child.
	ErrCodeSelfChild ViolationCode = "SELF_CHILD"

	// ErrCodeDuplicateChild indicates a child listed twice by one node.
	ErrCodeDuplicateChild ViolationCode = "DUPLICATE_CHILD"

	// ErrCodeCycle indicates the root listed as a child, or a loop in the
	// parent chain.
	ErrCodeCycle ViolationCode = "CYCLE"

	// ErrCodeDanglingChild indicates a new child that the update never defined.
	ErrCodeDanglingChild ViolationCode = "DANGLING_CHILD"

	// ErrCodeUnknownClearTarget indicates NodeIDToClear is not in the tree.
	ErrCodeUnknownClearTarget ViolationCode = "UNKNOWN_CLEAR_TARGET"

	// ErrCodeClearNotRespecified indicates the cleared node was not redefined.
	ErrCodeClearNotRespecified ViolationCode = "CLEAR_NOT_RESPECIFIED"

	// ErrCodeMissingRoot indicates no root id on an update that needs one.
	ErrCodeMissingRoot ViolationCode = "MISSING_ROOT"

	// ErrCodeRootNotDefined indicates a root id with no node behind it.
	ErrCodeRootNotDefined ViolationCode = "ROOT_NOT_DEFINED"

	// ErrCodeMissingTree indicates an initializing update without tree metadata.
	ErrCodeMissingTree ViolationCode = "MISSING_TREE"

	// ErrCodeInvalidAttribute indicates an attribute value of the wrong type
	// or outside its kind's domain (unknown token, non-finite float).
	ErrCodeInvalidAttribute ViolationCode = "INVALID_ATTRIBUTE"
)

// Error implements the error interface.
func (e *InvariantError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	b.WriteString(e.Message)
	switch {
	case e.NodeID != 0 && e.Entry >= 0:
		fmt.Fprintf(&b, " (node=%d, entry=%d)", e.NodeID, e.Entry)
	case e.NodeID != 0:
		fmt.Fprintf(&b, " (node=%d)", e.NodeID)
	case e.Entry >= 0:
		fmt.Fprintf(&b, " (entry=%d)", e.Entry)
	}
	return b.String()
}

// IsInvariantViolation returns true if err is or wraps an InvariantError.
func IsInvariantViolation(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}

// ViolationCodeOf extracts the violation code from err.
// Uses errors.As to handle wrapped errors.
func ViolationCodeOf(err error) (ViolationCode, bool) {
	var ie *InvariantError
	if errors.As(err, &ie) {
		return ie.Code, true
	}
	return "", false
}

func violation(code ViolationCode, id schema.NodeID, entry int, format string, args ...any) *InvariantError {
	return &InvariantError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		NodeID:  id,
		Entry:   entry,
	}
}

func (e *InvariantError) with(key, value string) *InvariantError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}
