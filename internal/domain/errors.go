package domain

import "github.com/m04kA/SMC-AppointmentService/pkg/apperror"

// Коды прикладных ошибок (машиночитаемые, передаются клиенту)
const (
	CodeEstablishmentNotFound     = "ESTABLISHMENT_NOT_FOUND"
	CodeEstablishmentAccessDenied = "ESTABLISHMENT_ACCESS_DENIED"
	CodeAppointmentAccessDenied   = "APPOINTMENT_ACCESS_DENIED"
	CodeAppointmentNotFound       = "APPOINTMENT_NOT_FOUND"
	CodeCustomerNotFound          = "CUSTOMER_NOT_FOUND"
	CodeStaffMemberNotFound       = "STAFF_MEMBER_NOT_FOUND"
	CodeServiceNotFound           = "SERVICE_NOT_FOUND"
	CodeServiceNotAllowedForStaff = "SERVICE_NOT_ALLOWED_FOR_STAFF"
	CodeMemberAppointmentConflict = "MEMBER_APPOINTMENT_CONFLICT"
	CodeConcurrentModification    = "APPOINTMENT_CONCURRENT_MODIFICATION"
	CodeInvalidTimeRange          = "INVALID_TIME_RANGE"
	CodeInvalidStatus             = "INVALID_STATUS"
	CodeInvalidSettings           = "INVALID_SETTINGS"
	CodeSettingsAccessDenied      = "SETTINGS_ACCESS_DENIED"
)

// Sentinel-ошибки для сравнения через errors.Is (сравнение идёт по коду)
var (
	ErrEstablishmentNotFound     = apperror.New(apperror.KindNotFound, CodeEstablishmentNotFound)
	ErrEstablishmentAccessDenied = apperror.New(apperror.KindForbidden, CodeEstablishmentAccessDenied)
	ErrAppointmentAccessDenied   = apperror.New(apperror.KindForbidden, CodeAppointmentAccessDenied)
	ErrAppointmentNotFound       = apperror.New(apperror.KindNotFound, CodeAppointmentNotFound)
	ErrCustomerNotFound          = apperror.New(apperror.KindNotFound, CodeCustomerNotFound)
	ErrStaffMemberNotFound       = apperror.New(apperror.KindNotFound, CodeStaffMemberNotFound)
	ErrServiceNotFound           = apperror.New(apperror.KindNotFound, CodeServiceNotFound)
	ErrServiceNotAllowedForStaff = apperror.New(apperror.KindBadRequest, CodeServiceNotAllowedForStaff)
	ErrMemberAppointmentConflict = apperror.New(apperror.KindConflict, CodeMemberAppointmentConflict)
	ErrConcurrentModification    = apperror.New(apperror.KindConflict, CodeConcurrentModification)
	ErrInvalidTimeRange          = apperror.New(apperror.KindBadRequest, CodeInvalidTimeRange)
	ErrInvalidStatus             = apperror.New(apperror.KindBadRequest, CodeInvalidStatus)
	ErrInvalidSettings           = apperror.New(apperror.KindBadRequest, CodeInvalidSettings)
	ErrSettingsAccessDenied      = apperror.New(apperror.KindForbidden, CodeSettingsAccessDenied)
)
