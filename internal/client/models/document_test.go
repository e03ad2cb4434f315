package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocument(t *testing.T) {
	a, b := NewDocument(), NewDocument()

	_, err := uuid.Parse(a.ID)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.True(t, a.IsPlaceholder())
	assert.Zero(t, a.LastModified)
	assert.Zero(t, a.LastLocalPersist)
}

func TestIsPlaceholder(t *testing.T) {
	d := NewDocument()
	d.Content += " "
	assert.False(t, d.IsPlaceholder())
	assert.False(t, Document{}.IsPlaceholder())
}

func TestSealOpen(t *testing.T) {
	d := Document{ID: "id-1", Content: "plain", LastModified: 10, LastLocalPersist: 20}

	enc := d.Seal("cipher")
	assert.Equal(t, EncryptedDocument{ID: "id-1", Ciphertext: "cipher", LastModified: 10, LastLocalPersist: 20}, enc)
	assert.Equal(t, d, enc.Open("plain"))
}
