// Package statement holds parameterized ledger statements, their safety rules
// and the per-driver placeholder rewriting used before execution.
package statement

import "strings"

// Operation is the statement kind a plan declares.
type Operation string

const (
	OpSelect Operation = "select"
	OpInsert Operation = "insert"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Keyword is the leading SQL keyword a statement of this operation must start with.
func (o Operation) Keyword() string {
	return strings.ToUpper(string(o))
}

func (o Operation) IsMutation() bool {
	return o == OpInsert || o == OpUpdate || o == OpDelete
}

// Target is the entity a plan reads or writes.
type Target string

const (
	TargetCategory    Target = "category"
	TargetTransaction Target = "transaction"
)

// Provenance records which synthesis strategy produced a plan.
type Provenance string

const (
	ProvenancePattern   Provenance = "pattern"
	ProvenanceGenerated Provenance = "generated"
)

// UserIDParam is the owner placeholder. The executor binds it; plans never carry it.
const UserIDParam = "user_id"

// Sentinel is the statement text of a plan that must never run.
const Sentinel = "-- error"

// Plan is a single parameterized statement ready for validation.
type Plan struct {
	Operation  Operation
	Target     Target
	Text       string
	Params     map[string]any
	Provenance Provenance
}
