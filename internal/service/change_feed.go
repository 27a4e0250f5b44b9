package service

import (
	"sync"
	"time"
)

// ChangeKind 标识一次数据变更的类别。
type ChangeKind string

const (
	ChangeGoalCreated       ChangeKind = "goal.created"
	ChangeGoalUpdated       ChangeKind = "goal.updated"
	ChangeGoalDeleted       ChangeKind = "goal.deleted"
	ChangeGoalReordered     ChangeKind = "goal.reordered"
	ChangeRecapUpdated      ChangeKind = "recap.updated"
	ChangeArchiveUpdated    ChangeKind = "archive.updated"
	ChangeRolloverCompleted ChangeKind = "rollover.completed"
	ChangeEventUpdated      ChangeKind = "event.updated"
)

// Change 描述一次已持久化的变更。
type Change struct {
	Kind ChangeKind
	ID   string
	At   time.Time
}

// ChangeFeed 在每次写入成功后向订阅者广播变更
// 订阅者处理不过来时丢弃事件，不阻塞存储层
type ChangeFeed struct {
	mu     sync.RWMutex
	subs   map[int]chan Change
	nextID int
}

// NewChangeFeed 构造 ChangeFeed。
func NewChangeFeed() *ChangeFeed {
	return &ChangeFeed{subs: make(map[int]chan Change)}
}

// Subscribe 注册订阅者，返回只读通道与取消函数。
func (f *ChangeFeed) Subscribe(buffer int) (<-chan Change, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Change, buffer)

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = ch
	f.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish 广播变更，nil ChangeFeed 上调用为空操作。
func (f *ChangeFeed) Publish(change Change) {
	if f == nil {
		return
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, ch := range f.subs {
		select {
		case ch <- change:
		default:
		}
	}
}
