package establishment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Repository читает заведения, их сотрудников, клиентов и каталог услуг
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория заведений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ResolveAccess определяет отношение пользователя к заведению
// Владелец получает IsOwner, сотрудник (активный или нет) получает Assignment
// Если заведения нет, возвращает ErrEstablishmentNotFound, если связи нет, ErrNotMember
func (r *Repository) ResolveAccess(ctx context.Context, establishmentID, userID uuid.UUID) (*domain.AccessResult, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("owner_id").
		From("establishments").
		Where(squirrel.Eq{"id": establishmentID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ResolveAccess - build owner query: %v", ErrBuildQuery, err)
	}

	var ownerID uuid.UUID
	err = executor.QueryRowContext(ctx, query, args...).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEstablishmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: ResolveAccess - scan owner: %v", ErrScanRow, err)
	}

	if ownerID == userID {
		return &domain.AccessResult{IsOwner: true}, nil
	}

	query, args, err = psqlbuilder.Select("id", "role", "is_active").
		From("establishment_members").
		Where(squirrel.Eq{"establishment_id": establishmentID}).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ResolveAccess - build member query: %v", ErrBuildQuery, err)
	}

	var assignment domain.StaffAssignment
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&assignment.ID,
		&assignment.Role,
		&assignment.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotMember
	}
	if err != nil {
		return nil, fmt.Errorf("%w: ResolveAccess - scan member: %v", ErrScanRow, err)
	}

	return &domain.AccessResult{Assignment: &assignment}, nil
}

// CustomerExists проверяет, что клиент принадлежит заведению
func (r *Repository) CustomerExists(ctx context.Context, establishmentID, customerID uuid.UUID) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("customers").
		Where(squirrel.Eq{"id": customerID}).
		Where(squirrel.Eq{"establishment_id": establishmentID}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: CustomerExists - build select query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: CustomerExists - scan exists: %v", ErrScanRow, err)
	}

	return exists, nil
}

// GetStaffMember получает сотрудника заведения по его user id
func (r *Repository) GetStaffMember(ctx context.Context, establishmentID, staffID uuid.UUID) (*domain.StaffMember, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"m.user_id",
		"m.id",
		"m.establishment_id",
		"COALESCE(u.full_name, '')",
		"m.role",
		"m.is_active",
	).
		From("establishment_members m").
		LeftJoin("users u ON u.id = m.user_id").
		Where(squirrel.Eq{"m.establishment_id": establishmentID}).
		Where(squirrel.Eq{"m.user_id": staffID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetStaffMember - build select query: %v", ErrBuildQuery, err)
	}

	var member domain.StaffMember
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&member.ID,
		&member.AssignmentID,
		&member.EstablishmentID,
		&member.Name,
		&member.Role,
		&member.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStaffMemberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaffMember - scan member: %v", ErrScanRow, err)
	}

	return &member, nil
}

// GetServicesByIDs возвращает активные услуги заведения из переданного списка
// Порядок результата не гарантирован, отсутствующие id просто не попадают в выборку
func (r *Repository) GetServicesByIDs(ctx context.Context, establishmentID uuid.UUID, ids []uuid.UUID) ([]domain.Service, error) {
	if len(ids) == 0 {
		return []domain.Service{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"establishment_id",
		"name",
		"price",
		"duration_minutes",
		"commission",
		"is_active",
	).
		From("services").
		Where(squirrel.Eq{"establishment_id": establishmentID}).
		Where(squirrel.Eq{"is_active": true}).
		Where(squirrel.Expr("id = ANY(?)", pq.Array(uuidStrings(ids)))).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetServicesByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetServicesByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]domain.Service, 0, len(ids))
	for rows.Next() {
		var s domain.Service
		err := rows.Scan(
			&s.ID,
			&s.EstablishmentID,
			&s.Name,
			&s.Price,
			&s.Duration,
			&s.Commission,
			&s.IsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetServicesByIDs - scan row: %v", ErrScanRow, err)
		}
		services = append(services, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetServicesByIDs - rows error: %v", ErrScanRow, err)
	}

	return services, nil
}

// GetStaffServiceIDs возвращает id услуг, которые разрешено оказывать сотруднику
func (r *Repository) GetStaffServiceIDs(ctx context.Context, establishmentID, staffID uuid.UUID) ([]uuid.UUID, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("service_id").
		From("staff_services").
		Where(squirrel.Eq{"establishment_id": establishmentID}).
		Where(squirrel.Eq{"staff_id": staffID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetStaffServiceIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaffServiceIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: GetStaffServiceIDs - scan row: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetStaffServiceIDs - rows error: %v", ErrScanRow, err)
	}

	return ids, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
