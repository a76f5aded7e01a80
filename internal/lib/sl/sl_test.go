package sl_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/workshop-portal/internal/lib/sl"
)

func TestErr_ReturnsCorrectAttr(t *testing.T) {
	err := errors.New("something went wrong")
	attr := sl.Err(err)

	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, slog.StringValue("something went wrong"), attr.Value)
}

func TestErr_NilError(t *testing.T) {
	assert.NotPanics(t, func() {
		attr := sl.Err(nil)
		assert.Equal(t, "<nil>", attr.Value.String())
	})
}

func TestOp(t *testing.T) {
	attr := sl.Op("session.Restore")

	assert.Equal(t, "op", attr.Key)
	assert.Equal(t, "session.Restore", attr.Value.String())
}

func TestOrDiscard(t *testing.T) {
	assert.NotNil(t, sl.OrDiscard(nil))

	log := slog.Default()
	assert.Same(t, log, sl.OrDiscard(log))
}
