package model

import "time"

// Checklist statuses as stored in the checklists.status enum.
const (
	ChecklistOpen      = "OPEN"
	ChecklistCompleted = "COMPLETED"
)

// Item outcomes.  An item is either fine or damaged; damaged items carry
// one or more reasons and an optional note.
const (
	ItemOK      = "ok"
	ItemDamaged = "damaged"
)

// Damage reasons accepted for a damaged checklist item.
const (
	ReasonBroken  = "broken"
	ReasonMissing = "missing"
	ReasonDirty   = "dirty"
	ReasonWorn    = "worn"
)

// ChecklistItem is the per-equipment outcome recorded when a room is
// inspected after use.  Outcome is a tag selecting the variant: "ok"
// carries no extra data, "damaged" requires at least one reason.
type ChecklistItem struct {
	EquipmentID uint64   `json:"equipment_id"`
	Outcome     string   `json:"outcome"`
	Reasons     []string `json:"reasons,omitempty"`
	Note        string   `json:"note,omitempty"`
}

// Checklist is the post-use inspection record tied to a reservation.
// Submitting a checklist is what transitions a confirmed, elapsed
// reservation to CONCLUDED.  Items are stored as a JSON column.
type Checklist struct {
	ID            uint64          // checklists.id
	ReservationID uint64          // checklists.reservation_id
	Status        string          // checklists.status
	MaterialOK    bool            // checklists.material_ok
	CleanlinessOK bool            // checklists.cleanliness_ok
	Note          *string         // checklists.note (nullable)
	SubjectLabel  *string         // checklists.subject_label (nullable)
	Items         []ChecklistItem // checklists.items (JSON)
	RecordedAt    time.Time       // checklists.recorded_at
}
