// Package server exposes a read-only HTTP endpoint over the pattern query
// language (§11's additive `serve` tooling) — trigo's own
// net/http.ServeMux SPARQL endpoint, generalized from "submit SPARQL, get
// RDF bindings back" to "submit a pattern-query program, get VariableSet
// bindings back".
package server

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/tilfirn/firn/pkg/query"
	"github.com/tilfirn/firn/pkg/querylang"
	"github.com/tilfirn/firn/pkg/triplestore"
)

// Server is the HTTP query endpoint.
type Server struct {
	db   *triplestore.Database
	addr string
}

// NewServer creates a query endpoint over db, listening on addr.
func NewServer(db *triplestore.Database, addr string) *Server {
	return &Server{db: db, addr: addr}
}

// Start runs the HTTP server until it errors or the process exits.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/query", s.handleQuery)
	mux.HandleFunc("/", s.handleRoot)

	srv := &http.Server{
		Addr:         s.addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Starting query endpoint at http://%s/query", s.addr)
	return srv.ListenAndServe()
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST a query-language program as the request body", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	rules, err := querylang.Parse(string(body))
	if err != nil {
		http.Error(w, "parse error: "+err.Error(), http.StatusBadRequest)
		return
	}

	solutions, err := query.Query(s.db, rules)
	if err != nil {
		http.Error(w, "query error: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	bindings := make([]map[string]string, len(solutions))
	for i, sol := range solutions {
		bindings[i] = sol.Bindings()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bindings)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("firn query endpoint\nPOST a query-language program to /query\n"))
}
