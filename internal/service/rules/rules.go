package rules

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/apperror"
)

// Totals производные поля записи, вычисленные по строкам услуг
type Totals struct {
	TotalAmount   int64
	TotalDuration int
	EndTime       time.Time
}

// Rules атомарные бизнес-правила, которым нужен доступ к хранилищу
type Rules struct {
	repo   AppointmentRepository
	logger Logger
}

// NewRules создает набор бизнес-правил
func NewRules(repo AppointmentRepository, logger Logger) *Rules {
	return &Rules{
		repo:   repo,
		logger: logger,
	}
}

// ValidateNoTimeConflict проверяет, что у сотрудника нет живых записей, пересекающихся с [start, end)
// В ошибке указывается самый ранний конфликтующий интервал
func (r *Rules) ValidateNoTimeConflict(ctx context.Context, staffID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) error {
	conflicts, err := r.repo.FindConflicting(ctx, staffID, start, end, excludeID)
	if err != nil {
		r.logger.Error("ValidateNoTimeConflict: failed to find conflicts for staff=%s: %v", staffID, err)
		return fmt.Errorf("%w: find conflicting: %w", ErrInternal, err)
	}

	if len(conflicts) == 0 {
		return nil
	}

	first := conflicts[0]
	r.logger.Warn("ValidateNoTimeConflict: staff=%s interval %s-%s overlaps appointment=%s",
		staffID, start.Format(time.RFC3339), end.Format(time.RFC3339), first.ID)

	return apperror.Conflict(domain.CodeMemberAppointmentConflict, apperror.Params{
		"staffId":                  staffID.String(),
		"conflictingAppointmentId": first.ID.String(),
		"conflictStart":            first.StartTime.UTC().Format(time.RFC3339),
		"conflictEnd":              first.EndTime.UTC().Format(time.RFC3339),
	})
}

// ValidateTimeRange требует start < end
func ValidateTimeRange(start, end time.Time) error {
	if start.Before(end) {
		return nil
	}
	return apperror.BadRequest(domain.CodeInvalidTimeRange, apperror.Params{
		"startTime": start.UTC().Format(time.RFC3339),
		"endTime":   end.UTC().Format(time.RFC3339),
	})
}

// CalculateTotalsAndEndTime суммирует цены и длительности строк
// Пустой набор строк даёт нулевые суммы и EndTime == start
func CalculateTotalsAndEndTime(start time.Time, lines []domain.ServiceLine) Totals {
	var totals Totals
	for _, line := range lines {
		totals.TotalAmount += line.Price
		totals.TotalDuration += line.Duration
	}
	totals.EndTime = start.Add(time.Duration(totals.TotalDuration) * time.Minute)
	return totals
}

// LinesFromServices снимает с услуг каталога строки для записи, сохраняя порядок
func LinesFromServices(services []domain.Service) []domain.ServiceLine {
	lines := make([]domain.ServiceLine, len(services))
	for i, s := range services {
		lines[i] = domain.NewServiceLine(s)
	}
	return lines
}
