// Package rpctest provides an in-process JSON-RPC endpoint for exercising
// go-ethereum clients without a node.
package rpctest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// Handler answers a single JSON-RPC method.
type Handler func(params []json.RawMessage) (interface{}, error)

// Error is a JSON-RPC error object. Handlers return it to control the code sent back.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// Server is an httptest server speaking JSON-RPC 2.0 over HTTP POST.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]Handler
	calls    []string
	txs      []*types.Transaction
}

type request struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type response struct {
	Version string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// NewServer starts a server that is closed when the test ends.
// Methods without a handler get a "method not found" error.
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{handlers: make(map[string]Handler)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Handle registers h for method, replacing any previous handler.
func (s *Server) Handle(method string, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[method] = h
}

// Result registers a handler that always answers with v.
func (s *Server) Result(method string, v interface{}) {
	s.Handle(method, func([]json.RawMessage) (interface{}, error) {
		return v, nil
	})
}

// Fail registers a handler that always answers with a JSON-RPC error.
func (s *Server) Fail(method string, code int, message string) {
	s.Handle(method, func([]json.RawMessage) (interface{}, error) {
		return nil, &Error{Code: code, Message: message}
	})
}

// AcceptTransactions answers eth_sendRawTransaction with the hash of the
// decoded transaction and records it.
func (s *Server) AcceptTransactions() {
	s.Handle("eth_sendRawTransaction", func(params []json.RawMessage) (interface{}, error) {
		if len(params) != 1 {
			return nil, &Error{Code: -32602, Message: "missing raw transaction"}
		}
		var rawHex string
		if err := json.Unmarshal(params[0], &rawHex); err != nil {
			return nil, &Error{Code: -32602, Message: err.Error()}
		}
		raw, err := hexutil.Decode(rawHex)
		if err != nil {
			return nil, &Error{Code: -32602, Message: err.Error()}
		}
		tx := new(types.Transaction)
		if err := tx.UnmarshalBinary(raw); err != nil {
			return nil, &Error{Code: -32602, Message: err.Error()}
		}

		s.mu.Lock()
		s.txs = append(s.txs, tx)
		s.mu.Unlock()

		return tx.Hash().Hex(), nil
	})
}

// Transactions returns the transactions accepted so far, in order.
func (s *Server) Transactions() []*types.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*types.Transaction(nil), s.txs...)
}

// Calls returns the methods received so far, in order.
func (s *Server) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.calls = append(s.calls, req.Method)
	h, ok := s.handlers[req.Method]
	s.mu.Unlock()

	resp := response{Version: "2.0", ID: req.ID}
	if !ok {
		resp.Error = &Error{Code: -32601, Message: "the method " + req.Method + " does not exist/is not available"}
	} else if result, err := h(req.Params); err != nil {
		if rpcErr, ok := err.(*Error); ok {
			resp.Error = rpcErr
		} else {
			resp.Error = &Error{Code: -32000, Message: err.Error()}
		}
	} else if result == nil {
		resp.Result = json.RawMessage("null")
	} else {
		resp.Result = result
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
