package dispatcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/malik111110/student-bot/internal/repository"
	pkgerrors "github.com/malik111110/student-bot/pkg/errors"
)

// Lifecycle 实体生命周期阶段
type Lifecycle string

const (
	Created Lifecycle = "created"
	Updated Lifecycle = "updated"
	Deleted Lifecycle = "deleted"
)

// AnyEntity 通配实体，在精确匹配的处理器之后执行
const AnyEntity = "*"

// Topic 订阅主题
type Topic struct {
	Entity    string
	Lifecycle Lifecycle
}

func (t Topic) String() string { return t.Entity + "." + string(t.Lifecycle) }

// Event 实体变更事件
type Event struct {
	Topic
	EntityID   string
	Payload    interface{} // 变更后的模型指针
	CallerID   string
	OccurredAt time.Time
}

// NewEvent 构造事件
func NewEvent(entity string, lc Lifecycle, id string, payload interface{}, callerID string) Event {
	return Event{
		Topic:      Topic{Entity: entity, Lifecycle: lc},
		EntityID:   id,
		Payload:    payload,
		CallerID:   callerID,
		OccurredAt: time.Now(),
	}
}

// Handler 副作用处理器，tx 为触发变更所在工作单元的仓储
type Handler func(ctx context.Context, tx *repository.Repository, evt Event) error

type registration struct {
	name    string
	handler Handler
}

// Dispatcher 同步副作用分发器
// Dispatch 在调用方的工作单元内依次执行处理器，任一失败即中止并由调用方回滚
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[Topic][]registration
	logger   *zap.Logger
}

// New 创建分发器
func New(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[Topic][]registration),
		logger:   logger,
	}
}

// Register 注册处理器；同一主题按注册顺序执行
func (d *Dispatcher) Register(topic Topic, name string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[topic] = append(d.handlers[topic], registration{name: name, handler: h})
}

// Handlers 返回主题匹配到的处理器名（含通配），顺序即执行顺序
func (d *Dispatcher) Handlers(topic Topic) []string {
	regs := d.match(topic)
	names := make([]string, 0, len(regs))
	for _, r := range regs {
		names = append(names, r.name)
	}
	return names
}

func (d *Dispatcher) match(topic Topic) []registration {
	d.mu.RLock()
	defer d.mu.RUnlock()
	exact := d.handlers[topic]
	var wildcard []registration
	if topic.Entity != AnyEntity {
		wildcard = d.handlers[Topic{Entity: AnyEntity, Lifecycle: topic.Lifecycle}]
	}
	out := make([]registration, 0, len(exact)+len(wildcard))
	out = append(out, exact...)
	return append(out, wildcard...)
}

// Dispatch 同步执行事件的全部处理器
func (d *Dispatcher) Dispatch(ctx context.Context, tx *repository.Repository, evt Event) error {
	for _, reg := range d.match(evt.Topic) {
		if err := d.invoke(ctx, tx, reg, evt); err != nil {
			d.logger.Warn("副作用执行失败，工作单元将回滚",
				zap.String("topic", evt.Topic.String()),
				zap.String("handler", reg.name),
				zap.String("entity_id", evt.EntityID),
				zap.Error(err),
			)
			return err
		}
	}
	return nil
}

func (d *Dispatcher) invoke(ctx context.Context, tx *repository.Repository, reg registration, evt Event) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = pkgerrors.Wrap(pkgerrors.KindInternal,
				fmt.Sprintf("副作用 %s 发生 panic", reg.name), fmt.Errorf("%v", p))
		}
	}()
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := reg.handler(ctx, tx, evt); err != nil {
		return fmt.Errorf("副作用 %s: %w", reg.name, pkgerrors.Classify(err))
	}
	return nil
}
