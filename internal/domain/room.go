package domain

// Room represents a bookable meeting room from the room catalog
type Room struct {
	ID           int64
	Name         string
	BuildingID   int64
	FloorID      int64
	RoomTypeID   int64
	RoomTypeName string
	Capacity     int

	// RequiresApproval new bookings start as pending_approval
	RequiresApproval bool
}
