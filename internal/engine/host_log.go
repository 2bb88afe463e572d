package engine

import (
	"fmt"
	"time"

	"ghost-server/pkg/api"
	"ghost-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// AddLog добавляет сообщение в ленту, уходящую клиентам со следующим снимком
func (h *Host) AddLog(text, logType string) {
	if logType == "" {
		logType = "INFO"
	}
	h.logs = append(h.logs, api.LogEntry{
		ID:        fmt.Sprintf("%d_%d", h.frameTick, time.Now().UnixNano()),
		Text:      text,
		Type:      logType,
		Timestamp: time.Now().UnixMilli(),
	})
	logger.Log.WithFields(logrus.Fields{
		"component": "session_log",
		"log_type":  logType,
	}).Info(text)
}
