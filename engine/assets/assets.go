package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/tinta/engine/core"
)

var ErrClosed = errors.New("asset watcher already closed")

// Changed is sent when a file under the asset root was created or written.
// Name is slash separated and relative to the root.
type Changed struct {
	Name string
}

// Manager gives access to an asset directory and optionally watches it.
type Manager struct {
	root string

	mutex    sync.Mutex
	fsnotify *fsnotify.Watcher
	done     chan struct{}
	stopped  chan struct{}
	isClosed bool
}

func NewManager(root string) (*Manager, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return nil, &core.ResourceError{Kind: core.ResourceAsset, Err: err}
	}
	if !fi.IsDir() {
		return nil, &core.ResourceError{Kind: core.ResourceAsset, Err: fmt.Errorf("%s is not a directory", abs)}
	}
	return &Manager{root: abs}, nil
}

func (am *Manager) Root() string {
	return am.root
}

// Path resolves name below the root. Names escaping the root are rejected.
func (am *Manager) Path(name string) (string, error) {
	p := filepath.Join(am.root, filepath.FromSlash(name))
	rel, err := filepath.Rel(am.root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &core.ResourceError{Kind: core.ResourceAsset, Err: fmt.Errorf("%q is outside the asset directory", name)}
	}
	return p, nil
}

func (am *Manager) Read(name string) ([]byte, error) {
	p, err := am.Path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, &core.ResourceError{Kind: core.ResourceAsset, Err: err}
	}
	return data, nil
}

// Watch starts forwarding changes below the root to sender, as
// core.UserEvent{Payload: Changed}. Directories created later are watched
// too.
func (am *Manager) Watch(sender core.EventSender) error {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	if am.isClosed {
		return ErrClosed
	}
	if am.fsnotify != nil {
		return errors.New("asset directory is already watched")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	am.fsnotify = w
	am.done = make(chan struct{})
	am.stopped = make(chan struct{})
	if err := am.watchRecursive(am.root); err != nil {
		w.Close()
		am.fsnotify = nil
		return err
	}
	go am.start(sender)
	core.LogInfo("watching assets in %s", am.root)
	return nil
}

// Close stops the watcher. It is safe to call more than once.
func (am *Manager) Close() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	watching := am.fsnotify != nil
	am.mutex.Unlock()

	if watching {
		close(am.done)
		<-am.stopped
	}
	return nil
}

func (am *Manager) start(sender core.EventSender) {
	defer close(am.stopped)
	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			am.handle(e, sender)

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %s", err)

		case <-am.done:
			am.fsnotify.Close()
			return
		}
	}
}

func (am *Manager) handle(e fsnotify.Event, sender core.EventSender) {
	if e.Op&fsnotify.Create != 0 {
		if s, err := os.Stat(e.Name); err == nil && s.IsDir() {
			if err := am.watchRecursive(e.Name); err != nil {
				core.LogWarn("unable to watch %s: %s", e.Name, err)
			}
			return
		}
	}
	// Can't stat a deleted directory, so just try to remove it from the watch list
	if e.Op&fsnotify.Remove != 0 {
		_ = am.fsnotify.Remove(e.Name)
		return
	}
	if e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	rel, err := filepath.Rel(am.root, e.Name)
	if err != nil {
		return
	}
	name := filepath.ToSlash(rel)
	core.LogDebug("asset changed: %s", name)
	sender.Send(core.UserEvent{Payload: Changed{Name: name}})
}

// watchRecursive adds path and every directory below it to the watch list.
func (am *Manager) watchRecursive(path string) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return am.fsnotify.Add(walkPath)
		}
		return nil
	})
}
