package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewLoggerLevels(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, NewLogger("debug").GetLevel())
	assert.Equal(t, logrus.WarnLevel, NewLogger("warn").GetLevel())
	// Unknown levels fall back to info rather than failing.
	assert.Equal(t, logrus.InfoLevel, NewLogger("nonsense").GetLevel())
}

func TestAuditLoggerComponentField(t *testing.T) {
	base := logrus.New()
	audit := NewAuditLogger(base)
	assert.Equal(t, "audit", audit.Data["component"])
}
