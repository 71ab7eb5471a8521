package get_appointments

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
// Query params: customerId, staffId, status, startDate, endDate, includeDeleted, page, limit
func ToServiceRequest(actorID, establishmentID uuid.UUID, query url.Values) (*models.FindAllRequest, error) {
	req := &models.FindAllRequest{
		ActorID:         actorID,
		EstablishmentID: establishmentID,
	}

	if v := query.Get("customerId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("invalid customerId: %w", err)
		}
		req.CustomerID = &id
	}

	if v := query.Get("staffId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("invalid staffId: %w", err)
		}
		req.StaffID = &id
	}

	if v := query.Get("status"); v != "" {
		status, err := models.ToDomainStatus(v)
		if err != nil {
			return nil, err
		}
		req.Status = &status
	}

	if v := query.Get("startDate"); v != "" {
		t, err := parseBound(v, false)
		if err != nil {
			return nil, fmt.Errorf("invalid startDate: %w", err)
		}
		req.StartDate = &t
	}

	if v := query.Get("endDate"); v != "" {
		t, err := parseBound(v, true)
		if err != nil {
			return nil, fmt.Errorf("invalid endDate: %w", err)
		}
		req.EndDate = &t
	}

	if v := query.Get("includeDeleted"); v != "" {
		includeDeleted, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid includeDeleted value: %w", err)
		}
		req.IncludeDeleted = includeDeleted
	}

	var err error
	if req.Page, err = parseInt(query.Get("page")); err != nil {
		return nil, fmt.Errorf("invalid page: %w", err)
	}
	if req.Limit, err = parseInt(query.Get("limit")); err != nil {
		return nil, fmt.Errorf("invalid limit: %w", err)
	}

	return req, nil
}

// parseBound принимает RFC 3339 или YYYY-MM-DD
// Дата без времени как верхняя граница означает конец дня
func parseBound(s string, upper bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	day, err := time.Parse(domain.DateFormat, s)
	if err != nil {
		return time.Time{}, err
	}
	if upper {
		return day.Add(24*time.Hour - time.Nanosecond), nil
	}
	return day, nil
}

func parseInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("must not be negative: %d", n)
	}
	return n, nil
}
