package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func fire(h *FilterHook, level logrus.Level, data logrus.Fields) bool {
	entry := &logrus.Entry{Level: level, Data: data}
	_ = h.Fire(entry)
	filtered, _ := entry.Data[filteredKey].(bool)
	return filtered
}

func TestFilterHook_EmptyConfigAllowsEverything(t *testing.T) {
	h := NewFilterHook(&LogConfig{})
	assert.False(t, fire(h, logrus.DebugLevel, logrus.Fields{"module": "idea"}))
}

func TestFilterHook_ModuleFilter(t *testing.T) {
	h := NewFilterHook(&LogConfig{FilterModules: "idea, Report"})

	assert.False(t, fire(h, logrus.InfoLevel, logrus.Fields{"module": "report"}))
	assert.True(t, fire(h, logrus.InfoLevel, logrus.Fields{"module": "training"}))
	// entry không có module thì không bị lọc
	assert.False(t, fire(h, logrus.InfoLevel, logrus.Fields{}))
}

func TestFilterHook_LevelAndEndpoint(t *testing.T) {
	h := NewFilterHook(&LogConfig{FilterLogTypes: "error,warning", FilterEndpoints: "/api/v1/ideas"})

	assert.True(t, fire(h, logrus.InfoLevel, logrus.Fields{}))
	assert.False(t, fire(h, logrus.ErrorLevel, logrus.Fields{"path": "/api/v1/ideas/analytics"}))
	assert.True(t, fire(h, logrus.WarnLevel, logrus.Fields{"path": "/api/v1/training"}))
}
