package logger

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// matcher là tập giá trị được phép; nil nghĩa là cho phép tất cả
type matcher map[string]bool

func parseFilter(raw string) matcher {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "*" {
		return nil
	}
	m := matcher{}
	for _, v := range strings.Split(raw, ",") {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			m[v] = true
		}
	}
	if len(m) == 0 || m["*"] {
		return nil
	}
	return m
}

// allows trả về true khi field vắng mặt hoặc giá trị nằm trong tập cho phép
func (m matcher) allows(data logrus.Fields, key string) bool {
	if m == nil {
		return true
	}
	v, ok := data[key].(string)
	if !ok || v == "" {
		return true
	}
	return m[strings.ToLower(v)]
}

// allowsPrefix dùng cho endpoint: khớp chính xác hoặc theo tiền tố
func (m matcher) allowsPrefix(path string) bool {
	if m == nil || path == "" {
		return true
	}
	path = strings.ToLower(path)
	for p := range m {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// FilterHook đánh dấu các entry không khớp bộ lọc bằng field "_filtered".
// AsyncHook sẽ bỏ qua các entry này.
type FilterHook struct {
	modules     matcher
	collections matcher
	endpoints   matcher
	methods     matcher
	levels      matcher
}

// NewFilterHook tạo filter hook từ cấu hình
func NewFilterHook(cfg *LogConfig) *FilterHook {
	return &FilterHook{
		modules:     parseFilter(cfg.FilterModules),
		collections: parseFilter(cfg.FilterCollections),
		endpoints:   parseFilter(cfg.FilterEndpoints),
		methods:     parseFilter(cfg.FilterMethods),
		levels:      parseFilter(cfg.FilterLogTypes),
	}
}

// Levels trả về các log levels mà hook này xử lý
func (h *FilterHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire kiểm tra entry với tất cả bộ lọc
func (h *FilterHook) Fire(entry *logrus.Entry) error {
	if !h.pass(entry) {
		entry.Data[filteredKey] = true
	}
	return nil
}

func (h *FilterHook) pass(entry *logrus.Entry) bool {
	if h.levels != nil && !h.levels[entry.Level.String()] {
		return false
	}
	if !h.modules.allows(entry.Data, "module") || !h.collections.allows(entry.Data, "collection") {
		return false
	}
	if !h.methods.allows(entry.Data, "method") {
		return false
	}
	endpoint, _ := entry.Data["endpoint"].(string)
	if endpoint == "" {
		endpoint, _ = entry.Data["path"].(string)
	}
	return h.endpoints.allowsPrefix(endpoint)
}
