package model

import "time"

// Room represents a bookable room or laboratory.  Rooms are master data
// owned by the administration screens; the booking core consumes them
// read-only through foreign keys.
type Room struct {
	ID        uint64    // rooms.id
	UnitID    uint64    // rooms.unit_id
	Name      string    // rooms.name
	Capacity  uint32    // rooms.capacity
	IsActive  bool      // rooms.is_active
	CreatedAt time.Time // rooms.created_at
	UpdatedAt time.Time // rooms.updated_at
}

// Unit is the organizational unit (campus/building) a room belongs to.
type Unit struct {
	ID   uint64 // units.id
	Name string // units.name
}
