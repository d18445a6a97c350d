package infra

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := NewRedis("redis://" + mr.Addr() + "/0")
	require.NoError(t, err)
	defer rdb.Close()

	_, err = NewRedis("no-es-una-url")
	assert.Error(t, err)
}

func TestNewRedis_ServidorCaido(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedis("redis://" + addr + "/0")
	assert.Error(t, err)
}
