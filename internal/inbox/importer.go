package inbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/goaltracker/internal/db"
	"github.com/goaltracker/internal/service"
	"gopkg.in/yaml.v3"
)

const (
	defaultPollInterval = 5 * time.Second
	defaultDebounce     = 500 * time.Millisecond
	badMarker           = ".bad"
)

// ErrInvalidItem 表示投递文件无法解析或缺少标题，文件会被标记为 bad 不再重试。
var ErrInvalidItem = errors.New("invalid inbox item")

// Item 为投递目录中单个文件描述的目标。
type Item struct {
	Title    string  `json:"title" yaml:"title"`
	Category string  `json:"category" yaml:"category"`
	Notes    *string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// GoalCreator 为导入所需的目标写入能力。
type GoalCreator interface {
	Create(input service.GoalInput) (*db.Goal, error)
}

// Options 配置 Importer。
type Options struct {
	Dir          string
	PollInterval time.Duration
	Debounce     time.Duration
	Logger       *slog.Logger
}

// Importer 监听投递目录，把其中的 JSON/YAML 文件导入为本周目标
// 成功导入后删除文件；无法解析的文件重命名为 <name>.bad.<ext>
type Importer struct {
	dir          string
	goals        GoalCreator
	pollInterval time.Duration
	debounce     time.Duration
	logger       *slog.Logger

	mu sync.Mutex
}

// NewImporter 构造 Importer。
func NewImporter(goals GoalCreator, opts Options) *Importer {
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Importer{
		dir:          opts.Dir,
		goals:        goals,
		pollInterval: opts.PollInterval,
		debounce:     opts.Debounce,
		logger:       opts.Logger.With("component", "inbox"),
	}
}

// Dir 返回投递目录。
func (i *Importer) Dir() string {
	return i.dir
}

// ProcessPending 处理目录中所有待导入文件，返回成功导入的数量
// 单个文件失败只记录日志，不影响其他文件
func (i *Importer) ProcessPending() (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	entries, err := os.ReadDir(i.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("read inbox dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isCandidate(entry.Name()) {
			continue
		}
		// 空文件通常仍在写入中，留到下一轮
		if info, err := entry.Info(); err != nil || info.Size() == 0 {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	imported := 0
	for _, name := range names {
		path := filepath.Join(i.dir, name)
		goal, err := i.importFile(path)
		switch {
		case err == nil:
			imported++
			i.logger.Info("imported inbox goal", "file", name, "goal_id", goal.ID, "title", goal.Title)
		case errors.Is(err, ErrInvalidItem):
			i.logger.Warn("invalid inbox file", "file", name, "error", err)
			if renameErr := os.Rename(path, badPath(path)); renameErr != nil {
				i.logger.Error("mark inbox file as bad failed", "file", name, "error", renameErr)
			}
		case errors.Is(err, os.ErrNotExist):
			// 文件已被其他进程移走
		default:
			i.logger.Error("import inbox file failed", "file", name, "error", err)
		}
	}

	return imported, nil
}

// Run 创建目录并持续处理投递文件，直到 ctx 取消
// fsnotify 事件经过防抖后触发处理，轮询作为监听失效时的兜底
func (i *Importer) Run(ctx context.Context) error {
	if err := os.MkdirAll(i.dir, 0o755); err != nil {
		return fmt.Errorf("create inbox dir: %w", err)
	}

	if _, err := i.ProcessPending(); err != nil {
		i.logger.Error("initial inbox scan failed", "error", err)
	}

	var events <-chan fsnotify.Event
	var watchErrors <-chan error
	watcher, err := fsnotify.NewWatcher()
	if err == nil {
		if addErr := watcher.Add(i.dir); addErr != nil {
			i.logger.Warn("watch inbox dir failed, polling only", "error", addErr)
		} else {
			events = watcher.Events
			watchErrors = watcher.Errors
		}
		defer watcher.Close()
	} else {
		i.logger.Warn("create inbox watcher failed, polling only", "error", err)
	}

	ticker := time.NewTicker(i.pollInterval)
	defer ticker.Stop()

	debounce := time.NewTimer(i.debounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 || !isCandidate(filepath.Base(event.Name)) {
				continue
			}
			debounce.Reset(i.debounce)
		case err, ok := <-watchErrors:
			if !ok {
				watchErrors = nil
				continue
			}
			i.logger.Warn("inbox watcher error", "error", err)
		case <-debounce.C:
			i.scan()
		case <-ticker.C:
			i.scan()
		}
	}
}

func (i *Importer) scan() {
	if _, err := i.ProcessPending(); err != nil {
		i.logger.Error("inbox scan failed", "error", err)
	}
}

func (i *Importer) importFile(path string) (*db.Goal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	item, err := Decode(filepath.Ext(path), data)
	if err != nil {
		return nil, err
	}

	goal, err := i.goals.Create(service.GoalInput{
		Title:    item.Title,
		Category: item.Category,
		Notes:    item.Notes,
	})
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidItem, err)
		}
		return nil, err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		i.logger.Warn("remove imported inbox file failed", "file", filepath.Base(path), "error", err)
	}
	return goal, nil
}

// Decode 按扩展名解析投递文件内容
func Decode(ext string, data []byte) (Item, error) {
	var item Item
	var err error

	switch strings.ToLower(ext) {
	case ".json":
		err = json.Unmarshal(data, &item)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &item)
	default:
		return item, fmt.Errorf("%w: unsupported extension %q", ErrInvalidItem, ext)
	}
	if err != nil {
		return item, fmt.Errorf("%w: %w", ErrInvalidItem, err)
	}

	item.Title = strings.TrimSpace(item.Title)
	if item.Title == "" {
		return item, fmt.Errorf("%w: title is required", ErrInvalidItem)
	}
	return item, nil
}

func isCandidate(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return false
	}
	return !strings.HasSuffix(strings.TrimSuffix(name, filepath.Ext(name)), badMarker)
}

func badPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + badMarker + ext
}
