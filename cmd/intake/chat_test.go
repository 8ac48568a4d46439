package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/aretw0/intake/internal/config"
	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/internal/presentation/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunChat(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	logger := logging.NewNop()

	c, err := newCore(ctx, cfg, logger, nil)
	require.NoError(t, err)
	defer c.close()

	var out bytes.Buffer
	in := strings.NewReader("hi\nstart\n/quit\nagree\n")

	err = runChat(ctx, c.newService(cfg, logger, nil), "27821234567", in, &out, tui.NewRenderer(false), logger)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Welcome to the Funding Application Bot")
	assert.Contains(t, text, "CONSENT")
	assert.Equal(t, 3, strings.Count(text, "> "), "one prompt per line read, none after /quit")

	sess, ok := c.sessions.FindByAddress("27821234567")
	require.True(t, ok)
	assert.False(t, sess.Data.ConsentGiven, "input after /quit is not processed")
}
