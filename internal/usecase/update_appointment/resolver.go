package update_appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/rules"
)

// Patch частичное изменение записи после разбора запроса
type Patch struct {
	StaffID    *uuid.UUID
	StartTime  *time.Time
	ServiceIDs []uuid.UUID
	Status     *domain.AppointmentStatus
	Notes      *string
	ClearNotes bool
}

// Resolution эффективное состояние записи после наложения патча
type Resolution struct {
	StaffID    uuid.UUID
	StartTime  time.Time
	ServiceIDs []uuid.UUID
	Status     domain.AppointmentStatus
	Notes      *string

	StaffChanged    bool
	StartChanged    bool
	ServicesChanged bool
	StatusChanged   bool
	NotesChanged    bool
}

// Schedule время окончания и суммы записи после изменения
type Schedule struct {
	EndTime       time.Time
	TotalAmount   int64
	TotalDuration int
	// Lines не nil только при смене набора услуг
	Lines []domain.ServiceLine
}

// Resolve накладывает патч на существующую запись
// Не обращается к хранилищу. Услуги сравниваются как множества
func Resolve(existing *domain.Appointment, patch Patch) Resolution {
	res := Resolution{
		StaffID:    existing.StaffID,
		StartTime:  existing.StartTime,
		ServiceIDs: existing.ServiceIDs(),
		Status:     existing.Status,
		Notes:      existing.Notes,
	}

	if patch.StaffID != nil {
		res.StaffID = *patch.StaffID
		res.StaffChanged = *patch.StaffID != existing.StaffID
	}

	if patch.StartTime != nil {
		res.StartTime = *patch.StartTime
		res.StartChanged = !patch.StartTime.Equal(existing.StartTime)
	}

	if patch.ServiceIDs != nil {
		res.ServiceIDs = patch.ServiceIDs
		res.ServicesChanged = !sameSet(patch.ServiceIDs, existing.ServiceIDs())
	}

	if patch.Status != nil {
		res.Status = *patch.Status
		res.StatusChanged = *patch.Status != existing.Status
	}

	switch {
	case patch.ClearNotes:
		res.Notes = nil
		res.NotesChanged = existing.Notes != nil
	case patch.Notes != nil:
		res.Notes = patch.Notes
		res.NotesChanged = existing.Notes == nil || *existing.Notes != *patch.Notes
	}

	return res
}

// Reschedule пересчитывает время окончания и суммы
//   - сменился набор услуг: всё считается заново по новым услугам от эффективного начала
//   - сдвинулось только начало: длительность сохраняется
//   - иначе значения существующей записи
func Reschedule(existing *domain.Appointment, res Resolution, services []domain.Service) Schedule {
	if res.ServicesChanged {
		lines := rules.LinesFromServices(services)
		totals := rules.CalculateTotalsAndEndTime(res.StartTime, lines)
		return Schedule{
			EndTime:       totals.EndTime,
			TotalAmount:   totals.TotalAmount,
			TotalDuration: totals.TotalDuration,
			Lines:         lines,
		}
	}

	schedule := Schedule{
		EndTime:       existing.EndTime,
		TotalAmount:   existing.TotalAmount,
		TotalDuration: existing.TotalDuration,
	}

	if res.StartChanged {
		schedule.EndTime = res.StartTime.Add(time.Duration(existing.TotalDuration) * time.Minute)
	}

	return schedule
}

// BuildPatch собирает патч хранилища только из изменённых полей
func BuildPatch(res Resolution, schedule Schedule) domain.AppointmentPatch {
	var patch domain.AppointmentPatch

	if res.StaffChanged {
		patch.StaffID = &res.StaffID
	}

	if res.StartChanged {
		patch.StartTime = &res.StartTime
		patch.EndTime = &schedule.EndTime
	}

	if res.ServicesChanged {
		patch.EndTime = &schedule.EndTime
		patch.TotalAmount = &schedule.TotalAmount
		patch.TotalDuration = &schedule.TotalDuration
		patch.Services = schedule.Lines
		if patch.Services == nil {
			patch.Services = []domain.ServiceLine{}
		}
	}

	if res.StatusChanged {
		patch.Status = &res.Status
	}

	if res.NotesChanged {
		patch.Notes = res.Notes
		patch.ClearNotes = res.Notes == nil
	}

	return patch
}

func sameSet(a, b []uuid.UUID) bool {
	left := make(map[uuid.UUID]struct{}, len(a))
	for _, id := range a {
		left[id] = struct{}{}
	}

	right := make(map[uuid.UUID]struct{}, len(b))
	for _, id := range b {
		right[id] = struct{}{}
	}

	if len(left) != len(right) {
		return false
	}
	for id := range left {
		if _, ok := right[id]; !ok {
			return false
		}
	}
	return true
}
