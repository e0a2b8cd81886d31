package middleware_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchline/pitchline/pkg/adapters/memory"
	"github.com/pitchline/pitchline/pkg/domain"
	"github.com/pitchline/pitchline/pkg/persistence/middleware"
	"github.com/pitchline/pitchline/pkg/ports"
)

func testKey(b byte) []byte {
	return bytes.Repeat([]byte{b}, 32)
}

func sampleState(sessionID string) *domain.State {
	state := domain.NewState(sessionID, "opening_cold")
	state.Path = append(state.Path, "disc_env")
	state.CurrentNodeID = "disc_env"
	state.Notes = "prospect is on a legacy contract"
	state.Metadata.ProspectName = "Dana"
	state.Metadata.EHR = "Epic"
	return state
}

func TestEncryption_RoundTrip(t *testing.T) {
	underlying := memory.NewStore()
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: testKey(1)})
	store := mw(underlying)
	ctx := context.Background()

	state := sampleState("enc-1")
	require.NoError(t, store.Save(ctx, "enc-1", state))

	loaded, err := store.Load(ctx, "enc-1")
	require.NoError(t, err)
	assert.Equal(t, state.Path, loaded.Path)
	assert.Equal(t, state.Notes, loaded.Notes)
	assert.Equal(t, "Dana", loaded.Metadata.ProspectName)
}

func TestEncryption_UnderlyingStoreHoldsNoPlaintext(t *testing.T) {
	underlying := memory.NewStore()
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: testKey(1)})
	store := mw(underlying)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "enc-2", sampleState("enc-2")))

	raw, err := underlying.Load(ctx, "enc-2")
	require.NoError(t, err)
	assert.NotContains(t, raw.Notes, "legacy contract")
	assert.Empty(t, raw.Metadata.ProspectName)
	assert.NotEqual(t, "disc_env", raw.CurrentNodeID)
}

func TestEncryption_KeyRotation(t *testing.T) {
	underlying := memory.NewStore()
	ctx := context.Background()

	oldMw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: testKey(1)})
	require.NoError(t, oldMw(underlying).Save(ctx, "rot-1", sampleState("rot-1")))

	// A new active key with the old one as fallback still reads old data.
	rotated := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    testKey(2),
		FallbackKeys: [][]byte{testKey(1)},
	})(underlying)

	loaded, err := rotated.Load(ctx, "rot-1")
	require.NoError(t, err)
	assert.Equal(t, "disc_env", loaded.CurrentNodeID)
}

func TestEncryption_WrongKeyFails(t *testing.T) {
	underlying := memory.NewStore()
	ctx := context.Background()

	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: testKey(1)})
	require.NoError(t, mw(underlying).Save(ctx, "bad-key", sampleState("bad-key")))

	other := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: testKey(9)})(underlying)
	_, err := other.Load(ctx, "bad-key")
	assert.ErrorContains(t, err, "decrypt")
}

func TestEncryption_RejectsPlaintextRecord(t *testing.T) {
	underlying := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, underlying.Save(ctx, "plain", sampleState("plain")))

	store := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: testKey(1)})(underlying)
	_, err := store.Load(ctx, "plain")
	assert.ErrorContains(t, err, "envelope")
}

func TestEncryption_BadKeySizePanics(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short")})
	})
}

func TestChain_Order(t *testing.T) {
	underlying := memory.NewStore()
	store := middleware.Chain(underlying,
		middleware.NewPIIMiddleware([]string{middleware.FieldNotes}),
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: testKey(1)}),
	)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "chain-1", sampleState("chain-1")))

	// The outer PII scrub runs before encryption, so the decrypted record is
	// already masked.
	inner := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: testKey(1)})(underlying)
	loaded, err := inner.Load(ctx, "chain-1")
	require.NoError(t, err)
	assert.Equal(t, "***", loaded.Notes)

	var _ ports.StateStore = store
}
