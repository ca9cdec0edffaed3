package classifier_client

import (
	"sort"
	"sync"
)

// Topic is a named semantic category the classifier evaluates, with its
// own system instruction and priority. Lower priority is evaluated first
// in sequential mode.
type Topic struct {
	Name         string
	SystemPrompt string
	Priority     int
	Enabled      bool
}

// DefaultTopics returns the built-in topic set.
func DefaultTopics() []Topic {
	return []Topic{
		{
			Name: "bad_words",
			SystemPrompt: `Ты - детектор нежелательного контента. Твоя задача - определить содержит ли сообщение:
- Матерные слова, нецензурную лексику, ругательства
- Оскорбления, унижения, личные нападки
- Токсичное поведение, агрессию, угрозы
- Унизительные высказывания в чей-либо адрес
- Неуважительные обращения к собеседникам

Проанализируй сообщение и определи, нарушает ли оно правила общения.
Если нарушение есть - ответь "ДА", если сообщение нормальное - ответь "НЕТ".`,
			Priority: 1,
			Enabled:  true,
		},
		{
			Name: "cars",
			SystemPrompt: `Ты - детектор автомобильной тематики. Определи, относится ли сообщение к:
- Автомобилям, машинам, транспорту
- Запчастям, ремонту, техническому обслуживанию
- Вождению, правилам дорожного движения
- Автомобильным брендам, моделям, маркам
- Покупке, продаже, аренде автомобилей

Если тема сообщения автомобильная - ответь "ДА", если нет - ответь "НЕТ".`,
			Priority: 2,
			Enabled:  true,
		},
		{
			Name: "advertising",
			SystemPrompt: `Ты - детектор рекламы и спама. Определи, содержит ли сообщение:
- Рекламные предложения товаров или услуг
- Призывы к покупке, продаже, заказу
- Коммерческие предложения
- Спам-рассылку, массовые приглашения
- Ссылки на магазины, сайты, каналы

Если это реклама или спам - ответь "ДА", если обычное сообщение - ответь "НЕТ".`,
			Priority: 3,
			Enabled:  true,
		},
	}
}

// Registry holds the topic set behind the control plane's authority.
// Sequential evaluation reads a priority-sorted snapshot once per message,
// so a toggle mid-evaluation applies to the next message.
type Registry struct {
	mu     sync.RWMutex
	topics map[string]*Topic
}

// NewRegistry creates a Registry seeded with the given topics.
func NewRegistry(topics []Topic) *Registry {
	m := make(map[string]*Topic, len(topics))
	for i := range topics {
		t := topics[i]
		m[t.Name] = &t
	}
	return &Registry{topics: m}
}

// Toggle enables or disables a topic. Returns false if the topic is
// unknown.
func (r *Registry) Toggle(name string, enabled bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.topics[name]
	if !ok {
		return false
	}
	t.Enabled = enabled
	return true
}

// EnabledByPriority returns a snapshot of the enabled topics in ascending
// priority order.
func (r *Registry) EnabledByPriority() []Topic {
	r.mu.RLock()
	snapshot := make([]Topic, 0, len(r.topics))
	for _, t := range r.topics {
		if t.Enabled {
			snapshot = append(snapshot, *t)
		}
	}
	r.mu.RUnlock()

	sort.Slice(snapshot, func(i, j int) bool {
		return snapshot[i].Priority < snapshot[j].Priority
	})
	return snapshot
}

// All returns a snapshot of every topic in ascending priority order.
func (r *Registry) All() []Topic {
	r.mu.RLock()
	snapshot := make([]Topic, 0, len(r.topics))
	for _, t := range r.topics {
		snapshot = append(snapshot, *t)
	}
	r.mu.RUnlock()

	sort.Slice(snapshot, func(i, j int) bool {
		return snapshot[i].Priority < snapshot[j].Priority
	})
	return snapshot
}
