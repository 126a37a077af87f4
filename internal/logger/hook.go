package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

const filteredKey = "_filtered"

// AsyncHook ghi log trong một goroutine riêng để không block request.
// Khi buffer đầy, entry mới bị bỏ qua.
type AsyncHook struct {
	writers []io.Writer
	entries chan *logrus.Entry
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
}

// NewAsyncHookWithWriters tạo async hook ghi ra nhiều writers
func NewAsyncHookWithWriters(writers []io.Writer, bufferSize int) *AsyncHook {
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	h := &AsyncHook{
		writers: writers,
		entries: make(chan *logrus.Entry, bufferSize),
	}
	h.wg.Add(1)
	go h.run()
	return h
}

// Levels trả về các log levels mà hook này xử lý
func (h *AsyncHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire đưa entry vào hàng đợi, không block
func (h *AsyncHook) Fire(entry *logrus.Entry) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		h.write(entry)
		return nil
	}

	select {
	case h.entries <- entry:
	default:
	}
	return nil
}

func (h *AsyncHook) run() {
	defer h.wg.Done()
	for entry := range h.entries {
		h.write(entry)
	}
}

func (h *AsyncHook) write(entry *logrus.Entry) {
	defer func() {
		if r := recover(); r != nil {
			// không dùng logger ở đây được vì sẽ đệ quy
			fmt.Fprintf(os.Stderr, "[LOGGER PANIC] %v\n", r)
		}
	}()

	if filtered, _ := entry.Data[filteredKey].(bool); filtered {
		return
	}
	delete(entry.Data, filteredKey)

	data, err := entry.Logger.Formatter.Format(entry)
	if err != nil {
		return
	}
	for _, w := range h.writers {
		_, _ = w.Write(data)
	}
}

// Close dừng nhận entry mới và chờ ghi hết hàng đợi
func (h *AsyncHook) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	close(h.entries)
	h.mu.Unlock()

	h.wg.Wait()
	return nil
}
