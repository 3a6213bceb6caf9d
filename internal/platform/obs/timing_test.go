package obs

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	prevLevel := zerolog.GlobalLevel()
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})
	return &buf
}

func TestTimeLogsError(t *testing.T) {
	buf := captureLogs(t)
	ctx := context.WithValue(context.Background(), RequestIDKey, "abc")

	err := errors.New("boom")
	Time(ctx, "sweep.run")(&err)

	out := buf.String()
	assert.Contains(t, out, `"op":"sweep.run"`)
	assert.Contains(t, out, `"req_id":"abc"`)
	assert.Contains(t, out, `"error":"boom"`)
	assert.Contains(t, out, `"level":"warn"`)
}

func TestTimeLogsSuccess(t *testing.T) {
	buf := captureLogs(t)

	var err error
	Time(context.Background(), "scenario.save")(&err)

	assert.Contains(t, buf.String(), `"level":"debug"`)
	assert.NotContains(t, buf.String(), `"error"`)
}
