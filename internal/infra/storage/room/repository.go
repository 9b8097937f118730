package room

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-MeetingRoomService/internal/domain"
	"github.com/m04kA/SMC-MeetingRoomService/pkg/dbmetrics"
	"github.com/m04kA/SMC-MeetingRoomService/pkg/psqlbuilder"
)

// Repository каталог переговорных комнат (только чтение)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория комнат
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает комнату вместе с её категорией
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := roomByIDQuery(id).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	var room domain.Room
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&room.ID,
		&room.Name,
		&room.BuildingID,
		&room.FloorID,
		&room.RoomTypeID,
		&room.RoomTypeName,
		&room.Capacity,
		&room.RequiresApproval,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan room: %w", ErrScanRow, err)
	}

	return &room, nil
}

// RoomExists проверяет наличие комнаты в каталоге
func (r *Repository) RoomExists(ctx context.Context, id int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("conference_rooms").
		Where(squirrel.Eq{"id": id}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: RoomExists - build select query: %w", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: RoomExists - scan: %w", ErrScanRow, err)
	}

	return exists, nil
}

func roomByIDQuery(id int64) squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"r.id",
		"r.name",
		"r.building_id",
		"r.floor_id",
		"r.room_type_id",
		"rt.name",
		"r.capacity",
		"rt.requires_approval",
	).
		From("conference_rooms r").
		Join("room_types rt ON rt.id = r.room_type_id").
		Where(squirrel.Eq{"r.id": id})
}
