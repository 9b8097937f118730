package models

import "github.com/m04kA/SMC-MeetingRoomService/internal/domain"

// RoomResponse ответ с данными комнаты
type RoomResponse struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	BuildingID       int64  `json:"buildingId"`
	FloorID          int64  `json:"floorId"`
	RoomTypeID       int64  `json:"roomTypeId"`
	RoomTypeName     string `json:"roomTypeName"`
	Capacity         int    `json:"capacity"`
	RequiresApproval bool   `json:"requiresApproval"`
}

// FromDomainRoom конвертирует domain модель в DTO
func FromDomainRoom(r *domain.Room) *RoomResponse {
	if r == nil {
		return nil
	}

	return &RoomResponse{
		ID:               r.ID,
		Name:             r.Name,
		BuildingID:       r.BuildingID,
		FloorID:          r.FloorID,
		RoomTypeID:       r.RoomTypeID,
		RoomTypeName:     r.RoomTypeName,
		Capacity:         r.Capacity,
		RequiresApproval: r.RequiresApproval,
	}
}
