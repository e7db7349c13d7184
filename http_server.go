package blc

import (
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pborman/uuid"
	"github.com/pkg/errors"
	"github.com/treeforest/easybtc/pkg/utils"
	"github.com/treeforest/easybtc/walletmgr"
	log "github.com/treeforest/logger"
)

type HttpServer struct {
	port    int
	ledger  *Ledger
	wallets *walletmgr.WalletManager
}

func NewHttpServer(port int, ledger *Ledger, wallets *walletmgr.WalletManager) *HttpServer {
	return &HttpServer{port: port, ledger: ledger, wallets: wallets}
}

func (s *HttpServer) Run() {
	err := s.routes().Run(fmt.Sprintf(":%d", s.port))
	if err != nil {
		log.Fatal("http server run failed:", err)
	}
}

func (s *HttpServer) routes() *gin.Engine {
	r := gin.Default()
	r.Use(requestId)

	r.GET("/balance", s.handleGetBalance)
	r.GET("/utxo", s.handleGetUtxo)
	r.POST("/utxo", s.handlePostUtxo)
	r.GET("/txPool", s.handleGetTxPool)
	r.GET("/txPool/proof", s.handleGetTxPoolProof)
	r.POST("/tx", s.handlePostTx)
	r.POST("/verify", s.handleVerify)
	r.POST("/script/describe", s.handleDescribeScript)
	r.GET("/wallet", s.handleGetWallets)
	r.POST("/wallet", s.handleCreateWallet)

	return r
}

// requestId 为每个请求生成追踪标识
func requestId(c *gin.Context) {
	c.Writer.Header().Set("X-Request-Id", uuid.NewRandom().String())
	c.Next()
}

func (s *HttpServer) handleGetBalance(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address required"})
		return
	}

	type Response struct {
		Balance uint64 `json:"balance"`
	}
	c.JSON(http.StatusOK, Response{Balance: s.ledger.GetBalance(address)})
}

func (s *HttpServer) handleGetUtxo(c *gin.Context) {
	type Utxo struct {
		TxId  string   `json:"txId"`
		Index uint32   `json:"index"`
		TxOut TxOutput `json:"txOut"`
	}
	utxos := make([]Utxo, 0)
	s.ledger.UTXOSet().Traverse(func(txId [32]byte, index uint32, out *TxOutput) {
		utxos = append(utxos, Utxo{
			TxId:  hex.EncodeToString(txId[:]),
			Index: index,
			TxOut: *out,
		})
	})

	c.JSON(http.StatusOK, utxos)
}

func (s *HttpServer) handlePostUtxo(c *gin.Context) {
	type Request struct {
		TxId    string `json:"txId"` // 十六进制交易哈希
		Index   uint32 `json:"index"`
		Value   uint64 `json:"value"`
		Address string `json:"address"`
	}
	req := Request{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request obj error"})
		return
	}

	txId, err := parseTxId(req.TxId)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !utils.IsValidAddress(req.Address) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address"})
		return
	}
	if err = s.ledger.AddUTXO(txId, req.Index, req.Value, req.Address); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusOK)
}

func (s *HttpServer) handleGetTxPool(c *gin.Context) {
	type Entry struct {
		Fee    uint64 `json:"fee"`
		TxHash string `json:"txHash"`
	}
	type Response struct {
		MerkleRoot string  `json:"merkleRoot"`
		Entries    []Entry `json:"entries"`
	}
	resp := Response{Entries: make([]Entry, 0)}
	s.ledger.TxPool().Traverse(func(fee uint64, tx *Transaction) bool {
		resp.Entries = append(resp.Entries, Entry{Fee: fee, TxHash: hex.EncodeToString(tx.Hash[:])})
		return true
	})
	resp.MerkleRoot = hex.EncodeToString(s.ledger.TxPool().MerkleRoot())

	c.JSON(http.StatusOK, resp)
}

// handleGetTxPoolProof 返回交易存在于当前池快照中的默克尔证明
func (s *HttpServer) handleGetTxPoolProof(c *gin.Context) {
	txHash, err := parseTxId(c.Query("txHash"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	root, proof, err := s.ledger.TxPool().MerkleProof(txHash)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	type Response struct {
		MerkleRoot string   `json:"merkleRoot"`
		Proof      []string `json:"proof"`
	}
	resp := Response{MerkleRoot: hex.EncodeToString(root), Proof: make([]string, 0, len(proof))}
	for _, hash := range proof {
		resp.Proof = append(resp.Proof, hex.EncodeToString(hash))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *HttpServer) handleGetWallets(c *gin.Context) {
	type Response struct {
		Addresses []string `json:"addresses"`
	}
	addresses := s.wallets.Addresses()
	if addresses == nil {
		addresses = make([]string, 0)
	}
	c.JSON(http.StatusOK, Response{Addresses: addresses})
}

func (s *HttpServer) handleCreateWallet(c *gin.Context) {
	w, err := s.wallets.CreateWallet()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	type Response struct {
		Address string `json:"address"`
	}
	c.JSON(http.StatusOK, Response{Address: string(w.GetAddress())})
}

func (s *HttpServer) handlePostTx(c *gin.Context) {
	var tx Transaction
	data, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err = tx.Unmarshal(data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unmarshal failed"})
		return
	}

	if err = s.ledger.AddToTxPool(&tx); err != nil {
		if errors.Is(err, ErrMalformedScript) {
			// 脚本字节流非法，与验证不通过区分开
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"accepted": false, "reason": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"accepted": true})
}

// handleVerify 对交易的单个输入执行脚本验证
func (s *HttpServer) handleVerify(c *gin.Context) {
	type Request struct {
		Tx        Transaction `json:"tx"`
		TxInIndex int         `json:"txInIndex"`
	}
	req := Request{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request obj error"})
		return
	}

	valid, err := VerifyInput(&req.Tx, req.TxInIndex, s.ledger.UTXOSet())
	if err != nil {
		// 解析错误：输入数据非法，无法求值
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	type Response struct {
		Valid bool `json:"valid"`
	}
	c.JSON(http.StatusOK, Response{Valid: valid})
}

// handleDescribeScript 输出脚本的可读程序清单，仅用于诊断
func (s *HttpServer) handleDescribeScript(c *gin.Context) {
	type Request struct {
		ScriptSig    string `json:"scriptSig"`    // 十六进制解锁脚本
		ScriptPubKey string `json:"scriptPubKey"` // 十六进制锁定脚本
	}
	req := Request{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request obj error"})
		return
	}

	scriptSig, err := hex.DecodeString(req.ScriptSig)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scriptSig hex"})
		return
	}
	scriptPubKey, err := hex.DecodeString(req.ScriptPubKey)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scriptPubKey hex"})
		return
	}

	program, address, err := s.ledger.DescribeScript(scriptSig, scriptPubKey)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	type Response struct {
		Program string `json:"program"`
		Address string `json:"address"`
	}
	c.JSON(http.StatusOK, Response{Program: program, Address: address})
}

func parseTxId(s string) ([32]byte, error) {
	var txId [32]byte
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 32 {
		return txId, fmt.Errorf("invalid txId: %s", s)
	}
	copy(txId[:], b)
	return txId, nil
}
