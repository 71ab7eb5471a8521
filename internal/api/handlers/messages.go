package handlers

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// messages шаблоны сообщений для пользователя; {key} подставляется из параметров ошибки
var messages = map[string]string{
	domain.CodeEstablishmentNotFound:     "заведение не найдено",
	domain.CodeEstablishmentAccessDenied: "нет доступа к заведению",
	domain.CodeAppointmentAccessDenied:   "нет прав действовать от имени этого сотрудника",
	domain.CodeAppointmentNotFound:       "запись не найдена",
	domain.CodeCustomerNotFound:          "клиент не найден",
	domain.CodeStaffMemberNotFound:       "сотрудник не найден или неактивен",
	domain.CodeServiceNotFound:           "услуга {serviceId} не найдена",
	domain.CodeServiceNotAllowedForStaff: "сотрудник не оказывает услугу {serviceId}",
	domain.CodeMemberAppointmentConflict: "у сотрудника уже есть запись на это время",
	domain.CodeConcurrentModification:    "запись изменена параллельно, повторите запрос",
	domain.CodeInvalidTimeRange:          "время окончания должно быть позже времени начала",
	domain.CodeInvalidStatus:             "недопустимый статус {status}",
	domain.CodeInvalidSettings:           "некорректное значение настройки {field}",
	domain.CodeSettingsAccessDenied:      "изменять настройки может только владелец",
}

const msgUnknownError = "ошибка запроса"

// ResolveMessage возвращает сообщение для пользователя по коду ошибки
// Плейсхолдеры без значения в параметрах вырезаются вместе со скобками
func ResolveMessage(code string, params map[string]any) string {
	template, ok := messages[code]
	if !ok {
		return msgUnknownError
	}

	for key, value := range params {
		template = strings.ReplaceAll(template, "{"+key+"}", fmt.Sprint(value))
	}

	return stripPlaceholders(template)
}

func stripPlaceholders(s string) string {
	for {
		start := strings.IndexByte(s, '{')
		if start < 0 {
			return strings.TrimSpace(s)
		}
		end := strings.IndexByte(s[start:], '}')
		if end < 0 {
			return strings.TrimSpace(s)
		}
		s = s[:start] + s[start+end+1:]
	}
}
