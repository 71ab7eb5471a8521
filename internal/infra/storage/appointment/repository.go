package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// SQLSTATE коды PostgreSQL, которые репозиторий различает
const (
	pgExclusionViolation   = "23P01"
	pgSerializationFailure = "40001"
)

var appointmentColumns = []string{
	"a.id",
	"a.establishment_id",
	"a.customer_id",
	"a.staff_id",
	"a.start_time",
	"a.end_time",
	"a.total_amount",
	"a.total_duration",
	"a.status",
	"a.notes",
	"a.deleted_at",
	"a.deleted_by",
	"a.created_at",
	"a.updated_at",
	"COALESCE(c.name, '')",
	"COALESCE(u.full_name, '')",
}

// Repository репозиторий для работы с записями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запись вместе со строками услуг и возвращает её в полном виде
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if appt.ID == uuid.Nil {
		appt.ID = uuid.New()
	}
	if appt.Status == "" {
		appt.Status = domain.StatusPending
	}

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"id",
			"establishment_id",
			"customer_id",
			"staff_id",
			"start_time",
			"end_time",
			"total_amount",
			"total_duration",
			"status",
			"notes",
		).
		Values(
			appt.ID,
			appt.EstablishmentID,
			appt.CustomerID,
			appt.StaffID,
			appt.StartTime,
			appt.EndTime,
			appt.TotalAmount,
			appt.TotalDuration,
			string(appt.Status),
			appt.Notes,
		).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, classifyExecError("Create - execute insert", err)
	}

	if err := r.insertServiceLines(ctx, executor, appt.ID, appt.Services); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, appt.ID)
}

// GetByID получает запись по ID вместе с именами клиента, сотрудника и строками услуг
// Мягко удалённые записи не возвращаются
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := notDeleted(selectAppointments()).
		Where(squirrel.Eq{"a.id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	if err := r.loadServiceLines(ctx, executor, []*domain.Appointment{appt}); err != nil {
		return nil, err
	}

	return appt, nil
}

// GetAll возвращает страницу записей по фильтру, отсортированную по началу
func (r *Repository) GetAll(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := applyFilter(selectAppointments(), filter).
		OrderBy("a.start_time ASC", "a.id ASC")

	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		selectBuilder = selectBuilder.Offset(filter.Offset)
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetAll - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryAppointments(ctx, executor, "GetAll", query, args)
}

// Count возвращает общее число записей по фильтру без учёта пагинации
func (r *Repository) Count(ctx context.Context, filter domain.AppointmentFilter) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	countBuilder := psqlbuilder.Select("COUNT(*)").From("appointments a")
	query, args, err := applyFilter(countBuilder, filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: Count - build count query: %v", ErrBuildQuery, err)
	}

	var total int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: Count - scan total: %v", ErrScanRow, err)
	}

	return total, nil
}

// GetByEstablishment возвращает все живые записи заведения
func (r *Repository) GetByEstablishment(ctx context.Context, establishmentID uuid.UUID) ([]*domain.Appointment, error) {
	return r.getByColumn(ctx, "GetByEstablishment", "a.establishment_id", establishmentID)
}

// GetByStaff возвращает все живые записи сотрудника
func (r *Repository) GetByStaff(ctx context.Context, staffID uuid.UUID) ([]*domain.Appointment, error) {
	return r.getByColumn(ctx, "GetByStaff", "a.staff_id", staffID)
}

// GetByCustomer возвращает все живые записи клиента
func (r *Repository) GetByCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.Appointment, error) {
	return r.getByColumn(ctx, "GetByCustomer", "a.customer_id", customerID)
}

func (r *Repository) getByColumn(ctx context.Context, op, column string, id uuid.UUID) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := notDeleted(selectAppointments()).
		Where(squirrel.Eq{column: id}).
		OrderBy("a.start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	return r.queryAppointments(ctx, executor, op, query, args)
}

// FindConflicting возвращает живые записи сотрудника, пересекающиеся с [start, end)
// Отменённые и неявившиеся записи время не занимают. excludeID исключает саму изменяемую запись
// Внутри транзакции найденные строки блокируются до её завершения
func (r *Repository) FindConflicting(ctx context.Context, staffID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := notDeleted(selectAppointments()).
		Where(squirrel.Eq{"a.staff_id": staffID}).
		Where(squirrel.Lt{"a.start_time": end}).
		Where(squirrel.Gt{"a.end_time": start}).
		Where(squirrel.NotEq{"a.status": inactiveStatuses()})

	if excludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"a.id": *excludeID})
	}

	selectBuilder = selectBuilder.OrderBy("a.start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF a")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindConflicting - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryAppointments(ctx, executor, "FindConflicting", query, args)
}

// Update применяет изменённые поля к записи и возвращает её в полном виде
// Пустой патч ничего не пишет. Services, если не nil, заменяет все строки услуг
func (r *Repository) Update(ctx context.Context, id uuid.UUID, patch domain.AppointmentPatch) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if patch.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	updateBuilder := psqlbuilder.Update("appointments").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"deleted_at": nil})

	if patch.StaffID != nil {
		updateBuilder = updateBuilder.Set("staff_id", *patch.StaffID)
	}
	if patch.StartTime != nil {
		updateBuilder = updateBuilder.Set("start_time", *patch.StartTime)
	}
	if patch.EndTime != nil {
		updateBuilder = updateBuilder.Set("end_time", *patch.EndTime)
	}
	if patch.TotalAmount != nil {
		updateBuilder = updateBuilder.Set("total_amount", *patch.TotalAmount)
	}
	if patch.TotalDuration != nil {
		updateBuilder = updateBuilder.Set("total_duration", *patch.TotalDuration)
	}
	if patch.Status != nil {
		updateBuilder = updateBuilder.Set("status", string(*patch.Status))
	}
	switch {
	case patch.ClearNotes:
		updateBuilder = updateBuilder.Set("notes", nil)
	case patch.Notes != nil:
		updateBuilder = updateBuilder.Set("notes", *patch.Notes)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, classifyExecError("Update - execute update", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return nil, ErrAppointmentNotFound
	}

	if patch.Services != nil {
		if err := r.replaceServiceLines(ctx, executor, id, patch.Services); err != nil {
			return nil, err
		}
	}

	return r.GetByID(ctx, id)
}

// SoftDelete помечает запись удалённой, сохраняя автора удаления
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID, deletedBy uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("deleted_at", squirrel.Expr("NOW()")).
		Set("deleted_by", deletedBy).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"deleted_at": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SoftDelete - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return classifyExecError("SoftDelete - execute update", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SoftDelete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// IsSerializationFailure сообщает, что ошибка вызвана конфликтом SERIALIZABLE транзакций
func IsSerializationFailure(err error) bool {
	if errors.Is(err, ErrSerialization) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgSerializationFailure
}

// Helper methods

func selectAppointments() squirrel.SelectBuilder {
	return psqlbuilder.Select(appointmentColumns...).
		From("appointments a").
		LeftJoin("customers c ON c.id = a.customer_id").
		LeftJoin("users u ON u.id = a.staff_id")
}

// notDeleted единственное место, где задаётся предикат мягкого удаления
func notDeleted(b squirrel.SelectBuilder) squirrel.SelectBuilder {
	return b.Where(squirrel.Eq{"a.deleted_at": nil})
}

func applyFilter(b squirrel.SelectBuilder, filter domain.AppointmentFilter) squirrel.SelectBuilder {
	b = b.Where(squirrel.Eq{"a.establishment_id": filter.EstablishmentID})

	if !filter.IncludeDeleted {
		b = notDeleted(b)
	}
	if filter.CustomerID != nil {
		b = b.Where(squirrel.Eq{"a.customer_id": *filter.CustomerID})
	}
	if filter.StaffID != nil {
		b = b.Where(squirrel.Eq{"a.staff_id": *filter.StaffID})
	}
	if filter.Status != nil {
		b = b.Where(squirrel.Eq{"a.status": string(*filter.Status)})
	}
	if filter.StartDate != nil {
		b = b.Where(squirrel.GtOrEq{"a.start_time": *filter.StartDate})
	}
	if filter.EndDate != nil {
		b = b.Where(squirrel.LtOrEq{"a.start_time": *filter.EndDate})
	}

	return b
}

func inactiveStatuses() []string {
	statuses := make([]string, len(domain.InactiveStatuses))
	for i, s := range domain.InactiveStatuses {
		statuses[i] = string(s)
	}
	return statuses
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var appt domain.Appointment
	var notes sql.NullString
	var deletedAt sql.NullTime
	var deletedBy uuid.NullUUID

	err := row.Scan(
		&appt.ID,
		&appt.EstablishmentID,
		&appt.CustomerID,
		&appt.StaffID,
		&appt.StartTime,
		&appt.EndTime,
		&appt.TotalAmount,
		&appt.TotalDuration,
		&appt.Status,
		&notes,
		&deletedAt,
		&deletedBy,
		&appt.CreatedAt,
		&appt.UpdatedAt,
		&appt.CustomerName,
		&appt.StaffName,
	)
	if err != nil {
		return nil, err
	}

	if notes.Valid {
		appt.Notes = &notes.String
	}
	if deletedAt.Valid {
		appt.DeletedAt = &deletedAt.Time
	}
	if deletedBy.Valid {
		appt.DeletedBy = &deletedBy.UUID
	}

	return &appt, nil
}

func (r *Repository) queryAppointments(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) ([]*domain.Appointment, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classifyExecError(op+" - execute query", err)
	}
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	// Строки услуг читаем отдельным запросом после закрытия курсора
	rows.Close()

	if err := r.loadServiceLines(ctx, executor, appointments); err != nil {
		return nil, err
	}

	return appointments, nil
}

// loadServiceLines загружает строки услуг одним запросом для всех записей
func (r *Repository) loadServiceLines(ctx context.Context, executor DBExecutor, appointments []*domain.Appointment) error {
	if len(appointments) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*domain.Appointment, len(appointments))
	ids := make([]string, 0, len(appointments))
	for _, appt := range appointments {
		appt.Services = make([]domain.ServiceLine, 0)
		byID[appt.ID] = appt
		ids = append(ids, appt.ID.String())
	}

	query, args, err := psqlbuilder.Select(
		"id",
		"appointment_id",
		"service_id",
		"service_name",
		"price",
		"duration_minutes",
		"commission",
	).
		From("appointment_services").
		Where(squirrel.Expr("appointment_id = ANY(?)", pq.Array(ids))).
		OrderBy("appointment_id", "position ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: loadServiceLines - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadServiceLines - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.ServiceLine
		err := rows.Scan(
			&line.ID,
			&line.AppointmentID,
			&line.ServiceID,
			&line.ServiceName,
			&line.Price,
			&line.Duration,
			&line.Commission,
		)
		if err != nil {
			return fmt.Errorf("%w: loadServiceLines - scan row: %v", ErrScanRow, err)
		}

		if appt, ok := byID[line.AppointmentID]; ok {
			appt.Services = append(appt.Services, line)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadServiceLines - rows error: %v", ErrScanRow, err)
	}

	return nil
}

func (r *Repository) insertServiceLines(ctx context.Context, executor DBExecutor, appointmentID uuid.UUID, lines []domain.ServiceLine) error {
	if len(lines) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("appointment_services").
		Columns(
			"appointment_id",
			"service_id",
			"service_name",
			"price",
			"duration_minutes",
			"commission",
			"position",
		)

	for i, line := range lines {
		insertBuilder = insertBuilder.Values(
			appointmentID,
			line.ServiceID,
			line.ServiceName,
			line.Price,
			line.Duration,
			line.Commission,
			i,
		)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertServiceLines - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return classifyExecError("insertServiceLines - execute insert", err)
	}

	return nil
}

func (r *Repository) replaceServiceLines(ctx context.Context, executor DBExecutor, appointmentID uuid.UUID, lines []domain.ServiceLine) error {
	query, args, err := psqlbuilder.Delete("appointment_services").
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: replaceServiceLines - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return classifyExecError("replaceServiceLines - execute delete", err)
	}

	return r.insertServiceLines(ctx, executor, appointmentID, lines)
}

// classifyExecError переводит ошибки PostgreSQL в ошибки репозитория
func classifyExecError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgExclusionViolation:
			return fmt.Errorf("%w: %s: %v", ErrOverlap, op, err)
		case pgSerializationFailure:
			return fmt.Errorf("%w: %s: %v", ErrSerialization, op, err)
		}
	}
	return fmt.Errorf("%w: %s: %v", ErrExecQuery, op, err)
}
