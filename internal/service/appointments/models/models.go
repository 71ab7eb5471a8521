package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/apperror"
)

// Request модели

// FindAllRequest запрос на получение записей заведения
type FindAllRequest struct {
	ActorID         uuid.UUID
	EstablishmentID uuid.UUID
	CustomerID      *uuid.UUID
	StaffID         *uuid.UUID
	Status          *domain.AppointmentStatus
	StartDate       *time.Time // start_time >= StartDate
	EndDate         *time.Time // start_time <= EndDate
	IncludeDeleted  bool
	Page            int // с 1, 0 = по умолчанию
	Limit           int // 0 = по умолчанию
}

// Response модели

// ServiceLineResponse строка услуги в ответе
type ServiceLineResponse struct {
	ID          string  `json:"id"`
	ServiceID   string  `json:"serviceId"`
	ServiceName string  `json:"serviceName"`
	Price       int64   `json:"price"`
	Duration    int     `json:"duration"`
	Commission  float64 `json:"commission"`
}

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              string  `json:"id"`
	EstablishmentID string  `json:"establishmentId"`
	CustomerID      string  `json:"customerId"`
	CustomerName    string  `json:"customerName"`
	StaffID         string  `json:"staffId"`
	StaffName       string  `json:"staffName"`
	StartTime       string  `json:"startTime"` // RFC 3339
	EndTime         string  `json:"endTime"`   // RFC 3339
	TotalAmount     int64   `json:"totalAmount"`
	TotalDuration   int     `json:"totalDuration"`
	Status          string  `json:"status"`
	Notes           *string `json:"notes,omitempty"`

	Services []ServiceLineResponse `json:"services,omitempty"`

	DeletedAt *string `json:"deletedAt,omitempty"`
	DeletedBy *string `json:"deletedBy,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// AppointmentListResponse страница записей
type AppointmentListResponse struct {
	Items []AppointmentResponse `json:"items"`
	Total int                   `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:              a.ID.String(),
		EstablishmentID: a.EstablishmentID.String(),
		CustomerID:      a.CustomerID.String(),
		CustomerName:    a.CustomerName,
		StaffID:         a.StaffID.String(),
		StaffName:       a.StaffName,
		StartTime:       formatTime(a.StartTime),
		EndTime:         formatTime(a.EndTime),
		TotalAmount:     a.TotalAmount,
		TotalDuration:   a.TotalDuration,
		Status:          string(a.Status),
		Notes:           a.Notes,
		CreatedAt:       formatTime(a.CreatedAt),
		UpdatedAt:       formatTime(a.UpdatedAt),
	}

	if len(a.Services) > 0 {
		resp.Services = make([]ServiceLineResponse, len(a.Services))
		for i, line := range a.Services {
			resp.Services[i] = ServiceLineResponse{
				ID:          line.ID.String(),
				ServiceID:   line.ServiceID.String(),
				ServiceName: line.ServiceName,
				Price:       line.Price,
				Duration:    line.Duration,
				Commission:  line.Commission,
			}
		}
	}

	if a.DeletedAt != nil {
		deletedAt := formatTime(*a.DeletedAt)
		resp.DeletedAt = &deletedAt
	}
	if a.DeletedBy != nil {
		deletedBy := a.DeletedBy.String()
		resp.DeletedBy = &deletedBy
	}

	return resp
}

// FromDomainAppointmentList конвертирует список записей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment, total, page, limit int) *AppointmentListResponse {
	items := make([]AppointmentResponse, 0, len(appointments))
	for _, a := range appointments {
		items = append(items, *FromDomainAppointment(a))
	}

	return &AppointmentListResponse{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}
}

// ToDomainStatus конвертирует строку в статус записи
func ToDomainStatus(s string) (domain.AppointmentStatus, error) {
	status := domain.AppointmentStatus(s)
	if !status.IsValid() {
		return "", apperror.BadRequest(domain.CodeInvalidStatus, apperror.Params{"status": s})
	}
	return status, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
