package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/importgraph/grimp/internal/buildgraph"
	"github.com/importgraph/grimp/internal/fsiface"
	"github.com/importgraph/grimp/internal/graph"
	"github.com/importgraph/grimp/internal/importcache"
)

var serveDir string
var serveAddress string

var serveCmd = &cobra.Command{
	Use:   "serve <root-package>",
	Short: "Keep a built import graph resident and answer queries over HTTP",
	Long: `serve builds the import graph once and then keeps it in memory,
answering /chain, /cycle, and /modules queries without re-parsing on
every request.`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveDir, "dir", ".", "Directory the root package lives in")
	serveCmd.Flags().StringVar(&serveAddress, "address", ":8799", "HTTP listen address")
}

// graphServer guards a single resident *graph.Graph. Query methods
// (FindShortestChain etc.) are read-only and safe for concurrent
// access once a build completes; the mutex here only protects the
// pointer swap on rebuild.
type graphServer struct {
	mu sync.RWMutex
	g  *graph.Graph
}

func (s *graphServer) get() *graph.Graph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.g
}

func (s *graphServer) set(g *graph.Graph) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.g = g
}

func runServe(cmd *cobra.Command, args []string) error {
	root := args[0]
	pkg := buildgraph.Package{Name: root, Directory: serveDir}

	logger.Progress("building import graph for %s", root)
	opts := buildgraph.Options{Workers: cfg.Workers, IncludeExternalPackages: cfg.IncludeExternal}
	if cache, err := importcache.Open(cfg.CacheDir); err == nil {
		opts.Cache = cache
		defer cache.Close()
	}

	g, err := buildgraph.Build(fsiface.OS{}, []buildgraph.Package{pkg}, opts)
	if err != nil {
		return fmt.Errorf("initial build: %w", err)
	}
	logger.Progress("graph ready: %d modules, %d imports", len(g.AllModules()), g.CountImports())

	server := &graphServer{g: g}

	mux := http.NewServeMux()
	mux.HandleFunc("/modules", handleModules(server))
	mux.HandleFunc("/chain", handleChain(server))
	mux.HandleFunc("/cycle", handleCycle(server))

	httpServer := &http.Server{
		Addr:         serveAddress,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Progress("serving on %s", serveAddress)
		errChan <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case sig := <-sigChan:
		logger.Progress("received %v, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(ctx)
	}
}

func handleModules(s *graphServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g := s.get()
		var names []string
		for _, m := range g.AllModules() {
			names = append(names, m.Name)
		}
		writeJSON(w, names)
	}
}

func handleChain(s *graphServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
		g := s.get()
		fromTok, ok1 := g.GetModuleByName(from)
		toTok, ok2 := g.GetModuleByName(to)
		if !ok1 || !ok2 {
			http.Error(w, "module not found", http.StatusNotFound)
			return
		}
		chain, err := g.FindShortestChain(fromTok, toTok, false)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, chainNames(g, chain))
	}
}

func handleCycle(s *graphServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		module := r.URL.Query().Get("module")
		g := s.get()
		tok, ok := g.GetModuleByName(module)
		if !ok {
			http.Error(w, "module not found", http.StatusNotFound)
			return
		}
		cycle, err := g.FindShortestCycle(tok, false)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, chainNames(g, cycle))
	}
}

func chainNames(g *graph.Graph, chain []graph.ModuleToken) []string {
	names := make([]string, len(chain))
	for i, t := range chain {
		m, _ := g.GetModule(t)
		names[i] = m.Name
	}
	return names
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
