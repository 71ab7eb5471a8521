package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена или мягко удалена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrOverlap возвращается, когда БД отклонила запись из-за пересечения интервалов сотрудника
	ErrOverlap = errors.New("appointment.repository: staff appointments overlap")

	// ErrSerialization возвращается, когда SERIALIZABLE транзакция не смогла зафиксироваться
	ErrSerialization = errors.New("appointment.repository: serialization failure")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
