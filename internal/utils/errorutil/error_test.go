package errorutil

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type headlined struct{}

func (headlined) Error() string    { return "NI-VISA is not found: exit status 1" }
func (headlined) Headline() string { return "NI-VISA is not found" }

func TestWrapError(t *testing.T) {
	assert.Nil(t, WrapError(nil, "listing %s", "environments"))

	base := errors.New("exec: \"conda\": executable file not found in $PATH")
	err := WrapError(base, "listing %s", "environments")
	assert.EqualError(t, err, "listing environments: exec: \"conda\": executable file not found in $PATH")
	assert.ErrorIs(t, err, base)
}

func TestHandleError(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	HandleError(log, nil, "ignored")
	assert.Empty(t, buf.String())

	HandleError(log, errors.New("boom"), "setup failed")
	assert.Contains(t, buf.String(), `"error":"boom"`)
	assert.Contains(t, buf.String(), `"message":"setup failed"`)
}

func TestHeadline(t *testing.T) {
	assert.Equal(t, "", Headline(nil))
	assert.Equal(t, "plain", Headline(errors.New("plain")))
	assert.Equal(t, "NI-VISA is not found", Headline(headlined{}))
}
