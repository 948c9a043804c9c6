package correspondence

import (
	"strings"
	"time"
)

// ListFilter is the explicit representation of every list-endpoint
// query parameter. Zero values mean "no constraint".
type ListFilter struct {
	Type             string
	CurrentStatus    string
	ReviewStatus     string
	SenderEntityID   *int64
	ReceiverEntityID *int64
	StartDate        *time.Time
	EndDate          *time.Time
	Search           string
}

// Clause is one WHERE fragment with its bind arguments.
type Clause struct {
	Expr string
	Args []interface{}
}

// BuildClauses turns the filter into WHERE fragments. Pure so it can be
// tested without a database; the repository ANDs the fragments together.
func BuildClauses(f ListFilter) []Clause {
	var clauses []Clause

	if f.Type != "" {
		clauses = append(clauses, Clause{Expr: "type = ?", Args: []interface{}{f.Type}})
	}
	if f.CurrentStatus != "" {
		clauses = append(clauses, Clause{Expr: "current_status = ?", Args: []interface{}{f.CurrentStatus}})
	}
	if f.ReviewStatus != "" {
		clauses = append(clauses, Clause{Expr: "review_status = ?", Args: []interface{}{f.ReviewStatus}})
	}
	if f.SenderEntityID != nil {
		clauses = append(clauses, Clause{Expr: "sender_entity_id = ?", Args: []interface{}{*f.SenderEntityID}})
	}
	if f.ReceiverEntityID != nil {
		clauses = append(clauses, Clause{Expr: "receiver_entity_id = ?", Args: []interface{}{*f.ReceiverEntityID}})
	}
	if f.StartDate != nil {
		clauses = append(clauses, Clause{Expr: "correspondence_date >= ?", Args: []interface{}{*f.StartDate}})
	}
	if f.EndDate != nil {
		clauses = append(clauses, Clause{Expr: "correspondence_date <= ?", Args: []interface{}{*f.EndDate}})
	}
	if f.Search != "" {
		// LOWER on both sides keeps the match case-insensitive on
		// postgres as well as sqlite.
		pattern := "%" + strings.ToLower(f.Search) + "%"
		clauses = append(clauses, Clause{
			Expr: "(LOWER(subject) LIKE ? OR LOWER(description) LIKE ? OR LOWER(reference_number) LIKE ?)",
			Args: []interface{}{pattern, pattern, pattern},
		})
	}

	return clauses
}
