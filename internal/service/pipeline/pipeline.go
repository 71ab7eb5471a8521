package pipeline

import (
	"context"

	"github.com/google/uuid"
)

// Context данные, по которым правила проверяют создаваемую запись
type Context struct {
	EstablishmentID uuid.UUID
	StaffID         uuid.UUID
	ServiceIDs      []uuid.UUID
}

// Rule доменное ограничение, подключаемое к созданию записи
type Rule interface {
	Name() string
	Validate(ctx context.Context, rc Context) error
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// Pipeline упорядоченный набор правил
// Состав задаётся явно при старте приложения
type Pipeline struct {
	rules  []Rule
	logger Logger
}

// New создает конвейер из правил в переданном порядке
func New(logger Logger, rules ...Rule) *Pipeline {
	return &Pipeline{
		rules:  rules,
		logger: logger,
	}
}

// Run выполняет правила по порядку и возвращает первую ошибку без изменений
func (p *Pipeline) Run(ctx context.Context, rc Context) error {
	for _, rule := range p.rules {
		if err := rule.Validate(ctx, rc); err != nil {
			p.logger.Warn("Pipeline: rule=%s rejected staff=%s: %v", rule.Name(), rc.StaffID, err)
			return err
		}
	}
	return nil
}

// Names возвращает имена правил в порядке выполнения
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.rules))
	for i, rule := range p.rules {
		names[i] = rule.Name()
	}
	return names
}
