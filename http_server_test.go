package blc

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/treeforest/easybtc/merkle"
	"github.com/treeforest/easybtc/walletmgr"
	"github.com/treeforest/easybtc/walletmgr/wallet"
)

func newTestServer(t *testing.T) (*HttpServer, *Ledger) {
	gin.SetMode(gin.TestMode)
	l, err := OpenLedger(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = l.Close()
		_ = os.Remove("wallets.bat")
	})
	return NewHttpServer(0, l, walletmgr.New()), l
}

func doRequest(s *HttpServer, method, url string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, url, &buf)
	w := httptest.NewRecorder()
	s.routes().ServeHTTP(w, req)
	return w
}

func TestHttpVerify(t *testing.T) {
	s, l := newTestServer(t)
	owner, payee := wallet.New(), wallet.New()
	genesisId := randomTxId(t)

	require.NoError(t, l.AddUTXO(genesisId, 0, 50*COIN, string(owner.GetAddress())))
	tx := buildSpendingTx(t, l, genesisId, owner, string(payee.GetAddress()), 50*COIN, 0)

	w := doRequest(s, http.MethodPost, "/verify", gin.H{"tx": tx, "txInIndex": 0})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, `{"valid":true}`, w.Body.String())

	require.NotEmpty(t, w.Header().Get("X-Request-Id"))

	// 脚本无法解析时返回 400，而不是 valid=false
	tx.Vins[0].ScriptSig = []byte{0xfe}
	w = doRequest(s, http.MethodPost, "/verify", gin.H{"tx": tx, "txInIndex": 0})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHttpDescribeScript(t *testing.T) {
	s, _ := newTestServer(t)
	owner := wallet.New()

	scriptPubKey, err := NewTxOutput(0, string(owner.GetAddress()))
	require.NoError(t, err)

	w := doRequest(s, http.MethodPost, "/script/describe", gin.H{
		"scriptSig":    "",
		"scriptPubKey": hex.EncodeToString(scriptPubKey.ScriptPubKey),
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Program string `json:"program"`
		Address string `json:"address"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, string(owner.GetAddress()), resp.Address)
	require.Contains(t, resp.Program, "-- BEGIN ----")
	require.Contains(t, resp.Program, "OP_CHECKSIG")
	require.Contains(t, resp.Program, "-- END ----")

	// 未注册的操作码
	w = doRequest(s, http.MethodPost, "/script/describe", gin.H{
		"scriptSig":    "fe",
		"scriptPubKey": "",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHttpBalanceAndUtxo(t *testing.T) {
	s, l := newTestServer(t)
	owner := wallet.New()
	genesisId := randomTxId(t)

	w := doRequest(s, http.MethodPost, "/utxo", gin.H{
		"txId":    hex.EncodeToString(genesisId[:]),
		"index":   0,
		"value":   50 * COIN,
		"address": string(owner.GetAddress()),
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, uint64(50*COIN), l.GetBalance(string(owner.GetAddress())))

	w = doRequest(s, http.MethodGet, fmt.Sprintf("/balance?address=%s", owner.GetAddress()), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, fmt.Sprintf(`{"balance":%d}`, 50*COIN), w.Body.String())

	w = doRequest(s, http.MethodGet, "/utxo", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestHttpTxPoolProof(t *testing.T) {
	s, l := newTestServer(t)
	owner, payee := wallet.New(), wallet.New()
	genesisId := randomTxId(t)

	require.NoError(t, l.AddUTXO(genesisId, 0, 50*COIN, string(owner.GetAddress())))
	tx := buildSpendingTx(t, l, genesisId, owner, string(payee.GetAddress()), 49*COIN, 0)
	require.NoError(t, l.AddToTxPool(tx))

	w := doRequest(s, http.MethodGet,
		fmt.Sprintf("/txPool/proof?txHash=%s", hex.EncodeToString(tx.Hash[:])), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		MerkleRoot string   `json:"merkleRoot"`
		Proof      []string `json:"proof"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	root, err := hex.DecodeString(resp.MerkleRoot)
	require.NoError(t, err)
	proof := make([][]byte, 0, len(resp.Proof))
	for _, p := range resp.Proof {
		hash, err := hex.DecodeString(p)
		require.NoError(t, err)
		proof = append(proof, hash)
	}
	require.Equal(t, true, merkle.VerifyMerkleProof(tx.Hash[:], root, proof))

	// 不在池内的交易没有证明
	other := randomTxId(t)
	w = doRequest(s, http.MethodGet,
		fmt.Sprintf("/txPool/proof?txHash=%s", hex.EncodeToString(other[:])), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestHttpWallet(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(s, http.MethodPost, "/wallet", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var created struct {
		Address string `json:"address"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.Address)

	w = doRequest(s, http.MethodGet, "/wallet", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listed struct {
		Addresses []string `json:"addresses"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Contains(t, listed.Addresses, created.Address)
}

func TestHttpPostTx(t *testing.T) {
	s, l := newTestServer(t)
	owner, payee := wallet.New(), wallet.New()
	genesisId := randomTxId(t)

	require.NoError(t, l.AddUTXO(genesisId, 0, 50*COIN, string(owner.GetAddress())))
	tx := buildSpendingTx(t, l, genesisId, owner, string(payee.GetAddress()), 49*COIN, 0)

	data, err := tx.Marshal()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/tx", bytes.NewReader(data))
	w := httptest.NewRecorder()
	s.routes().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"accepted":true`)
	require.Equal(t, 1, l.TxPool().Len())
}
