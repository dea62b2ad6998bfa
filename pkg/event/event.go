// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Game event types
const (
	GameStarted       Type = "game_started"
	LevelStarted      Type = "level_started"
	GamePaused        Type = "game_paused"
	GameResumed       Type = "game_resumed"
	GameOver          Type = "game_over"
	ReturnedToTitle   Type = "returned_to_title"
	ScoreChanged      Type = "score_changed"
	AsteroidDestroyed Type = "asteroid_destroyed"
	ShotsFired        Type = "shots_fired"
	ShipHit           Type = "ship_hit"
	ShipDestroyed     Type = "ship_destroyed"
	PowerUpSpawned    Type = "powerup_spawned"
	PowerUpGrabbed    Type = "powerup_grabbed"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription is returned by Subscribe. Cancel removes the handler.
type Subscription struct {
	ID     uint64
	Type   Type
	Cancel func()
}

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching. Handlers run
// synchronously on the publishing goroutine.
type Bus struct {
	handlers map[Type][]subscriber
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscriber),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscriber{id: id, handler: handler})

	return &Subscription{
		ID:     id,
		Type:   eventType,
		Cancel: func() { b.Unsubscribe(eventType, id) },
	}
}

// Unsubscribe removes the handler registered under id. It reports whether
// a handler was removed.
func (b *Bus) Unsubscribe(eventType Type, id uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[eventType]
	for i, s := range subs {
		if s.id != id {
			continue
		}
		remaining := make([]subscriber, 0, len(subs)-1)
		remaining = append(remaining, subs[:i]...)
		remaining = append(remaining, subs[i+1:]...)
		if len(remaining) == 0 {
			delete(b.handlers, eventType)
		} else {
			b.handlers[eventType] = remaining
		}
		return true
	}
	return false
}

// SubscriberCount returns the number of handlers for an event type
func (b *Bus) SubscriberCount(eventType Type) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType])
}

// Publish sends an event to all subscribed handlers. A nil bus is a no-op.
func (b *Bus) Publish(event Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	subs := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// Specific event implementations

// SessionEvent carries the session-wide counters for lifecycle events
type SessionEvent struct {
	BaseEvent
	Level int
	Score int
}

// NewSessionEvent creates a new lifecycle event
func NewSessionEvent(eventType Type, source interface{}, level, score int) *SessionEvent {
	return &SessionEvent{
		BaseEvent: BaseEvent{EventType: eventType, Source: source},
		Level:     level,
		Score:     score,
	}
}

// ScoreEvent is published when the score changes
type ScoreEvent struct {
	BaseEvent
	Score int
	Delta int
}

// NewScoreEvent creates a new score event
func NewScoreEvent(source interface{}, score, delta int) *ScoreEvent {
	return &ScoreEvent{
		BaseEvent: BaseEvent{EventType: ScoreChanged, Source: source},
		Score:     score,
		Delta:     delta,
	}
}

// AsteroidEvent contains information about a destroyed asteroid
type AsteroidEvent struct {
	BaseEvent
	AsteroidID uint64
	Variant    string
	Points     int
	Fragments  int
	X, Y       float64
}

// NewAsteroidEvent creates a new asteroid event
func NewAsteroidEvent(source interface{}, asteroidID uint64, variant string, points, fragments int, x, y float64) *AsteroidEvent {
	return &AsteroidEvent{
		BaseEvent:  BaseEvent{EventType: AsteroidDestroyed, Source: source},
		AsteroidID: asteroidID,
		Variant:    variant,
		Points:     points,
		Fragments:  fragments,
		X:          x,
		Y:          y,
	}
}

// ShipEvent contains information about ship-related events
type ShipEvent struct {
	BaseEvent
	ShipID uint64
	Lives  int
}

// NewShipEvent creates a new ship event
func NewShipEvent(eventType Type, source interface{}, shipID uint64, lives int) *ShipEvent {
	return &ShipEvent{
		BaseEvent: BaseEvent{EventType: eventType, Source: source},
		ShipID:    shipID,
		Lives:     lives,
	}
}

// PowerUpEvent contains information about power-up events
type PowerUpEvent struct {
	BaseEvent
	PowerUpID uint64
	Held      int // power-ups held by the ship afterwards
}

// NewPowerUpEvent creates a new power-up event
func NewPowerUpEvent(eventType Type, source interface{}, powerUpID uint64, held int) *PowerUpEvent {
	return &PowerUpEvent{
		BaseEvent: BaseEvent{EventType: eventType, Source: source},
		PowerUpID: powerUpID,
		Held:      held,
	}
}

// ShotEvent is published when the ship fires a volley
type ShotEvent struct {
	BaseEvent
	Count int
}

// NewShotEvent creates a new shot event
func NewShotEvent(source interface{}, count int) *ShotEvent {
	return &ShotEvent{
		BaseEvent: BaseEvent{EventType: ShotsFired, Source: source},
		Count:     count,
	}
}
