package cmdlog

import (
	"github.com/WaleedAkram111/instagram-analytics-project/internal/logging"
	"github.com/WaleedAkram111/instagram-analytics-project/internal/metrics"
)

func Run(cmd string, f func() error) error {
	metrics.IncCommandRun(cmd)
	err := f()
	if err != nil {
		metrics.IncCommandError(cmd)
		logging.Error(cmd+"_error", map[string]any{"error": err.Error()})
	} else {
		logging.Info(cmd+"_ok", nil)
	}
	return err
}
