package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch 监听已加载的配置文件，文件变化后经过防抖间隔自动 Reload
func (m *Manager) Watch() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loaded {
		return ErrNotLoaded
	}
	m.watch = true
	return m.startWatch()
}

// startWatch 监听配置文件所在目录，编辑器通过重命名保存时仍能收到事件
// 调用方持有写锁
func (m *Manager) startWatch() error {
	if m.watcher != nil {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(m.path)); err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", m.path, err)
	}

	m.watcher = w
	m.quit = make(chan struct{})
	m.wg.Add(1)
	go m.watchLoop(w, m.quit, filepath.Clean(m.path), m.debounce)
	return nil
}

// stopWatch 调用方持有写锁
func (m *Manager) stopWatch() error {
	if m.watcher == nil {
		return nil
	}
	close(m.quit)
	err := m.watcher.Close()
	m.watcher = nil
	m.watch = false
	return err
}

func (m *Manager) watchLoop(w *fsnotify.Watcher, quit <-chan struct{}, path string, debounce time.Duration) {
	defer m.wg.Done()

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				timer.Reset(debounce)
			}

		case <-timer.C:
			if err := m.Reload(); err != nil {
				m.log.Warnf("auto reload %s failed: %v", path, err)
			} else {
				m.log.Infof("auto reloaded %s", path)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			m.log.Errorf("watch %s: %v", path, err)

		case <-quit:
			return
		}
	}
}
