package logger_test

import (
	"testing"

	"newsboard/internal/logger"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestInit_Level(t *testing.T) {
	t.Cleanup(func() { logger.Init(false) })

	t.Run("debug", func(t *testing.T) {
		logger.Init(true)
		require.Equal(t, logrus.DebugLevel, logger.Log.GetLevel())
	})

	t.Run("DEBUG env ignored", func(t *testing.T) {
		t.Setenv("DEBUG", "true")
		logger.Init(false)
		require.Equal(t, logrus.InfoLevel, logger.Log.GetLevel())
	})
}
