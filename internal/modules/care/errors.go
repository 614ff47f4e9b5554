package care

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnitNotFound         = errors.New("unit not found")
	ErrNoPendingSubmission  = errors.New("no pending submission for unit")
	ErrUnauthorizedApprover = errors.New("approver is not an RVP")
	ErrIncompleteApproval   = errors.New("rvp approval date and approver name are required")
	ErrAlreadyApproved      = errors.New("unit already approved")
	ErrApprovalInProgress   = errors.New("approval already in progress for unit")
	ErrValidation           = errors.New("validation error")
	ErrPersistence          = errors.New("persistence failure")
)

// FieldErrors maps json field names to the failed rule. It matches
// ErrValidation under errors.Is.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e[k]))
	}
	return "validation error: " + strings.Join(parts, ", ")
}

func (e FieldErrors) Is(target error) bool { return target == ErrValidation }
