package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/junbin-yang/go-hfsm/pkg/logger"
)

// ChangeFunc 配置变更回调，在监听协程或调用 Reload 的协程中执行
type ChangeFunc func(old, new interface{})

// Manager 配置管理器
// 加载顺序：文件 -> 环境变量覆盖；重载时基于初始默认值重新解析，不会残留已删除的字段
type Manager struct {
	instance interface{}
	defaults reflect.Value // 创建时的配置值，作为重载的起点

	path        string
	appName     string
	serializer  Serializer
	forceFormat Serializer
	formats     []Serializer
	searchPaths []string
	envPrefix   string
	log         *logger.Logger

	mu        sync.RWMutex
	loaded    bool
	callbacks []ChangeFunc

	watch    bool
	debounce time.Duration
	watcher  *fsnotify.Watcher
	quit     chan struct{}
	wg       sync.WaitGroup
}

// NewManager 创建配置管理器，cfg 必须是结构体指针，其当前值作为默认配置
func NewManager(cfg interface{}, opts ...Option) (*Manager, error) {
	val := reflect.ValueOf(cfg)
	if cfg == nil || val.Kind() != reflect.Ptr || val.IsNil() || val.Elem().Kind() != reflect.Struct {
		return nil, ErrNotPointer
	}

	m := &Manager{
		instance:    cfg,
		defaults:    reflect.ValueOf(val.Elem().Interface()),
		appName:     "app",
		serializer:  YAMLSerializer{},
		formats:     Formats(),
		searchPaths: []string{"./{{.AppName}}", "{{.ExecDir}}/{{.AppName}}", "/etc/{{.AppName}}"},
		debounce:    500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = logger.Default()
	}
	m.log = m.log.Named("config")
	if m.debounce <= 0 {
		m.debounce = 500 * time.Millisecond
	}
	return m, nil
}

// Load 加载配置，path 为空时按查找路径搜索
func (m *Manager) Load(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if path == "" {
		found, s, err := m.search()
		if err != nil {
			return err
		}
		m.path, m.serializer = found, s
	} else {
		if err := checkFile(path); err != nil {
			return err
		}
		s, err := m.chooseSerializer(path)
		if err != nil {
			return err
		}
		m.path, m.serializer = path, s
	}

	if err := m.decode(m.instance); err != nil {
		return err
	}
	m.loaded = true
	m.log.Infof("loaded %s (%s)", m.path, m.serializer.Name())

	if m.watch {
		return m.startWatch()
	}
	return nil
}

// Config 返回配置实例
// 启用监听时实例会在重载后替换，调用方应在 OnChange 中获取新实例
func (m *Manager) Config() interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.instance
}

// Path 返回已加载的配置文件路径
func (m *Manager) Path() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.path
}

// Save 将当前配置写回文件
func (m *Manager) Save() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.loaded {
		return ErrNotLoaded
	}
	data, err := m.serializer.Marshal(m.instance)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", m.serializer.Name(), err)
	}
	return writeFileAtomic(m.path, data)
}

// Reload 重新加载配置并通知变更回调，解析失败时保留旧配置
func (m *Manager) Reload() error {
	m.mu.Lock()
	if !m.loaded {
		m.mu.Unlock()
		return ErrNotLoaded
	}

	next := reflect.New(m.defaults.Type())
	next.Elem().Set(m.defaults)
	if err := m.decode(next.Interface()); err != nil {
		m.mu.Unlock()
		return err
	}

	old := m.instance
	m.instance = next.Interface()
	callbacks := append([]ChangeFunc(nil), m.callbacks...)
	m.mu.Unlock()

	// 回调在锁外执行，允许回调中再次访问 Manager
	for _, fn := range callbacks {
		fn(old, next.Interface())
	}
	return nil
}

// OnChange 注册配置变更回调
func (m *Manager) OnChange(fn ChangeFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, fn)
}

// Close 停止配置监听
func (m *Manager) Close() error {
	m.mu.Lock()
	err := m.stopWatch()
	m.mu.Unlock()

	m.wg.Wait()
	return err
}

/* ------------------------------ 内部方法 ------------------------------ */

// chooseSerializer 强制格式 > 扩展名 > 默认格式
func (m *Manager) chooseSerializer(path string) (Serializer, error) {
	if m.forceFormat != nil {
		return m.forceFormat, nil
	}
	if filepath.Ext(path) == "" {
		return m.serializer, nil
	}
	return serializerFor(path, m.formats)
}

// search 先尝试无扩展名文件，再依次尝试各格式的扩展名
func (m *Manager) search() (string, Serializer, error) {
	execPath, _ := os.Executable()
	vars := map[string]string{
		"AppName": m.appName,
		"ExecDir": filepath.Dir(execPath),
	}

	for _, tpl := range m.searchPaths {
		base := replacePathVars(tpl, vars)
		if checkFile(base) == nil {
			s, err := m.chooseSerializer(base)
			return base, s, err
		}
		for _, f := range m.formats {
			for _, ext := range f.Exts() {
				if checkFile(base+ext) == nil {
					if m.forceFormat != nil {
						return base + ext, m.forceFormat, nil
					}
					return base + ext, f, nil
				}
			}
		}
	}
	return "", nil, fmt.Errorf("%w: %s in %v", ErrNotFound, m.appName, m.searchPaths)
}

// decode 解析配置文件并应用环境变量覆盖
func (m *Manager) decode(v interface{}) error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("read %s: %w", m.path, err)
	}
	if err := m.serializer.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal %s (%s): %w", m.path, m.serializer.Name(), err)
	}
	if err := applyEnvOverrides(v, m.envPrefix); err != nil {
		return fmt.Errorf("apply env overrides: %w", err)
	}
	return nil
}
