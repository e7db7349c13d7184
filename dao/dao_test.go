package dao

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDAO(t *testing.T) {
	o := New(t.TempDir())
	defer o.Close()

	var txId [32]byte
	_, err := rand.Read(txId[:])
	require.NoError(t, err)

	require.NoError(t, o.PutUTXO(txId, 0, []byte("out0")))
	require.NoError(t, o.PutUTXO(txId, 1, []byte("out1")))

	got := map[uint32][]byte{}
	err = o.TraverseUTXO(func(id [32]byte, index uint32, data []byte) error {
		require.Equal(t, txId, id)
		got[index] = data
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, map[uint32][]byte{0: []byte("out0"), 1: []byte("out1")}, got)

	require.NoError(t, o.DeleteUTXO(txId, 0))

	count := 0
	err = o.TraverseUTXO(func(id [32]byte, index uint32, data []byte) error {
		count++
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, count)
}
