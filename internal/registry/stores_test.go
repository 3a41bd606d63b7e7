package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStores_Memory(t *testing.T) {
	stores, cleanup, err := OpenStores(context.Background(), StoreConfig{UseMemory: true})
	require.NoError(t, err)
	defer cleanup()

	assert.NotNil(t, stores.Tokens)
	assert.NotNil(t, stores.Transactions)
	assert.NotNil(t, stores.Events)
	assert.NotNil(t, stores.Fees)
}

func TestOpenStores_RequiresPostgres(t *testing.T) {
	_, _, err := OpenStores(context.Background(), StoreConfig{})
	assert.Error(t, err)
}
