// Package queue defines message payloads exchanged over the message broker.
package queue

// Event types published on the declaration lifecycle queue.
const (
    EventDeclarationCreated  = "declaration.created"
    EventDeclarationTaken    = "declaration.taken"
    EventDeclarationResolved = "declaration.resolved"
)

// LifecycleQueueName is the durable queue carrying declaration
// lifecycle events.
const LifecycleQueueName = "declaration.lifecycle"

// DeclarationEvent is published after each successful lifecycle
// transition.  It contains enough information for downstream consumers
// to log, notify, or trigger analytics without querying the primary
// database.
type DeclarationEvent struct {
    Type           string `json:"type"`
    DeclarationID  string `json:"declaration_id"`
    CommercialID   string `json:"commercial_id"`
    CommercialName string `json:"commercial_name"`
    TechnicianID   string `json:"technician_id,omitempty"`
    TechnicianName string `json:"technician_name,omitempty"`
    ClientName     string `json:"client_name"`
    ProductName    string `json:"product_name"`
    Status         string `json:"status"`
    OccurredAt     string `json:"occurred_at"`
}
