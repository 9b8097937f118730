package get_bookings

import (
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-MeetingRoomService/internal/domain"
	"github.com/m04kA/SMC-MeetingRoomService/internal/service/bookings/models"
)

var (
	errInvalidRoomID          = errors.New("invalid roomId")
	errInvalidDate            = errors.New("invalid date")
	errInvalidIncludeInactive = errors.New("invalid includeInactive")
)

// parseQuery разбирает параметры ?roomId=&date=&status=&includeInactive=
func parseQuery(q url.Values) (*models.GetBookingsRequest, error) {
	req := &models.GetBookingsRequest{}

	if v := q.Get("roomId"); v != "" {
		roomID, err := strconv.ParseInt(v, 10, 64)
		if err != nil || roomID <= 0 {
			return nil, errInvalidRoomID
		}
		req.RoomID = &roomID
	}

	if v := q.Get("date"); v != "" {
		date, err := time.Parse(domain.DateFormat, v)
		if err != nil {
			return nil, errInvalidDate
		}
		req.Date = &date
	}

	if v := q.Get("status"); v != "" {
		req.Status = &v
	}

	if v := q.Get("includeInactive"); v != "" {
		include, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errInvalidIncludeInactive
		}
		req.IncludeInactive = include
	}

	return req, nil
}
