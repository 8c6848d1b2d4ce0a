package logsvc

import (
	"fmt"
	"log"
	"os"

	"github.com/udriss/correction/core"
)

// New returns the logger selected by `logger.driver` (rollbar | zap), prefixing std output with `prefix`.
func New(prefix string, conf *core.Config) (core.Logger, error) {
	switch conf.Logger.Driver {
	case "zap":
		return NewZapLogger(conf)
	case "rollbar", "":
		logger := NewRollbarLogger(
			log.New(os.Stdout, prefix+" : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
			conf,
		)
		logger.Enable(!conf.Debug)
		return logger, nil
	}
	return nil, fmt.Errorf("unknown logger driver %q", conf.Logger.Driver)
}
