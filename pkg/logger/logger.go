package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log - общий логгер приложения. До Init пишет в stderr с настройками logrus по умолчанию,
// чтобы пакеты можно было использовать без main (тесты, утилиты).
var Log = logrus.New()

// Init настраивает логгер из окружения. Вызывается один раз в main.
//
//	LOG_LEVEL  - trace|debug|info|warn|error (по умолчанию info)
//	LOG_FORMAT - json для продакшена, иначе текст
func Init() {
	Configure(os.Stdout, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}

// Configure - то же, что Init, но с явными параметрами.
func Configure(out io.Writer, level, format string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	if strings.EqualFold(format, "json") {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	Log.SetOutput(out)
}
