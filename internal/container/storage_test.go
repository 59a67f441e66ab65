package container

import (
	"context"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/technurture/backend/config"
)

func seededAdminWarnings(hook *test.Hook) int {
	n := 0
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && strings.Contains(e.Message, "default admin") {
			n++
		}
	}
	return n
}

func TestBuildStorageMemoryWarnsOutsideDevelopment(t *testing.T) {
	l, hook := test.NewNullLogger()
	SetLogger(l)

	cfg := &config.Config{Env: "production", AdminUsername: "admin", AdminPassword: "admin123"}
	s, err := buildStorage(context.Background(), cfg)
	require.NoError(t, err)
	defer func() { _ = s.Close(context.Background()) }()

	assert.Equal(t, 1, seededAdminWarnings(hook))
}

func TestBuildStorageMemoryQuietInDevelopment(t *testing.T) {
	l, hook := test.NewNullLogger()
	SetLogger(l)

	s, err := buildStorage(context.Background(), &config.Config{Env: "development"})
	require.NoError(t, err)
	defer func() { _ = s.Close(context.Background()) }()

	assert.Zero(t, seededAdminWarnings(hook))
}
