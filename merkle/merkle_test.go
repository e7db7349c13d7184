package merkle

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"
)

func txHashes(txs ...string) [][]byte {
	hashes := make([][]byte, 0, len(txs))
	for _, tx := range txs {
		hash := sha256.Sum256([]byte(tx))
		hashes = append(hashes, hash[:])
	}
	return hashes
}

func TestBuildWithHashesEmpty(t *testing.T) {
	require.Nil(t, New().BuildWithHashes(nil))
}

func TestBuildWithHashesSingle(t *testing.T) {
	root := New().BuildWithHashes(txHashes("1"))
	require.NotEmpty(t, root)
}

func TestMerkleRootOrderIndependent(t *testing.T) {
	// 构建前内部会排序，输入顺序不影响根
	root1 := New().BuildWithHashes(txHashes("1", "2", "3", "4", "5"))
	root2 := New().BuildWithHashes(txHashes("5", "3", "1", "4", "2"))
	require.Equal(t, root1, root2)
}

func TestMerkleProof(t *testing.T) {
	tree := New()
	hashes := txHashes("1", "2", "3", "4", "5", "6", "7", "8", "9")
	root := tree.BuildWithHashes(hashes)
	require.NotEmpty(t, root)

	target := hashes[3]
	proof, err := tree.GenerateMerkleProof(target)
	require.NoError(t, err)
	require.Equal(t, true, VerifyMerkleProof(target, root, proof))

	// 换一个叶子，同一份证明不再成立
	require.Equal(t, false, VerifyMerkleProof(hashes[4], root, proof))

	// 非叶子哈希无法生成证明
	bad := sha256.Sum256([]byte("not a leaf"))
	_, err = tree.GenerateMerkleProof(bad[:])
	require.Error(t, err)
}
