package audit

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

// Record is one emitted activity-log entry. Persistence lives outside this
// service; collaborators correlate records to transaction rows via BatchID.
type Record struct {
	At       time.Time      `json:"at"`
	ActorID  uint64         `json:"actor_id"`
	Action   string         `json:"action"`
	Entity   string         `json:"entity"`
	EntityID uint64         `json:"entity_id"`
	BatchID  string         `json:"batch_id,omitempty"`
	Detail   map[string]any `json:"detail,omitempty"`
}

type Emitter interface {
	Emit(ctx context.Context, r Record)
}

// LogEmitter writes one JSON line per record to the standard logger.
type LogEmitter struct{}

func NewLogEmitter() *LogEmitter { return &LogEmitter{} }

func (LogEmitter) Emit(_ context.Context, r Record) {
	if r.At.IsZero() {
		r.At = time.Now().UTC()
	}
	b, err := json.Marshal(r)
	if err != nil {
		log.Printf("audit: marshal failed: %v", err)
		return
	}
	log.Printf("audit: %s", b)
}
