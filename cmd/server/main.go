// Command server exposes the kansuji converter as a JSON REST API.
//
// Endpoints:
//
//	GET  /api/convert?text=<text>
//	POST /api/convert   body: {"text":"..."}
//	POST /api/matches   body: {"text":"..."}
//	POST /api/html      body: an HTML document (?fragment=true for a fragment)
//	GET  /api/kinds
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/kansuji-go/kansuji"
	"github.com/kansuji-go/kansuji/internal/config"
	"github.com/kansuji-go/kansuji/internal/htmlhost"
	"github.com/kansuji-go/kansuji/internal/logging"
	"github.com/kansuji-go/kansuji/internal/report"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// ---- JSON response types ------------------------------------------------

type convertResponse struct {
	Text     string `json:"text"`
	Changed  bool   `json:"changed"`
	Replaced int    `json:"replaced"`
	Declined int    `json:"declined,omitempty"`
}

type matchesResponse struct {
	Locale  string         `json:"locale"`
	Matches []report.Match `json:"matches"`
}

type kindJSON struct {
	Name   string `json:"name"`
	Prefix string `json:"prefix,omitempty"`
	Suffix string `json:"suffix,omitempty"`
}

type kindsResponse struct {
	Locale string     `json:"locale"`
	Kinds  []kindJSON `json:"kinds"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ---- helpers ------------------------------------------------------------

type server struct {
	conv    *kansuji.Converter
	log     *zap.Logger
	maxBody int64
}

func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("encode error", zap.Error(err))
	}
}

func (s *server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// readText decodes a {"text": "..."} body.
func (s *server) readText(w http.ResponseWriter, r *http.Request) (string, bool) {
	var body struct {
		Text *string `json:"text"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Text == nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return "", false
		}
		s.writeError(w, http.StatusBadRequest, "body must be JSON with a 'text' field")
		return "", false
	}
	return *body.Text, true
}

// ---- handlers -----------------------------------------------------------

func (s *server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var text string
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		if !q.Has("text") {
			s.writeError(w, http.StatusBadRequest, "missing 'text' query parameter")
			return
		}
		text = q.Get("text")
	case http.MethodPost:
		var ok bool
		if text, ok = s.readText(w, r); !ok {
			return
		}
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "GET or POST required")
		return
	}

	rep := s.conv.ConvertReport(text)
	s.writeJSON(w, http.StatusOK, convertResponse{
		Text:     rep.Text,
		Changed:  rep.Changed(text),
		Replaced: rep.Replaced,
		Declined: len(rep.Declined),
	})
}

func (s *server) handleMatches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	text, ok := s.readText(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, matchesResponse{
		Locale:  s.conv.Language().String(),
		Matches: report.Describe(s.conv, text),
	})
}

func (s *server) handleHTML(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	fragment, _ := strconv.ParseBool(r.URL.Query().Get("fragment"))
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		s.writeError(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}

	convert := htmlhost.ConvertDocument
	if fragment {
		convert = htmlhost.ConvertFragment
	}
	var out bytes.Buffer
	st, err := convert(s.conv, bytes.NewReader(body), &out)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Kansuji-Converted", strconv.Itoa(st.Converted))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out.Bytes()); err != nil {
		s.log.Warn("write error", zap.Error(err))
	}
}

func (s *server) handleKinds(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	kinds := kansuji.Kinds()
	out := make([]kindJSON, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, kindJSON{Name: k.String(), Prefix: k.Prefix(), Suffix: k.Suffix()})
	}
	s.writeJSON(w, http.StatusOK, kindsResponse{Locale: s.conv.Language().String(), Kinds: out})
}

// ---- middleware ---------------------------------------------------------

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withRequestLog tags every request with an ID and logs its outcome.
func (s *server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			zap.String("id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)))
	})
}

func newHandler(s *server, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/convert", s.handleConvert)
	mux.HandleFunc("/api/matches", s.handleMatches)
	mux.HandleFunc("/api/html", s.handleHTML)
	mux.HandleFunc("/api/kinds", s.handleKinds)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "X-Kansuji-Converted"},
	})
	return s.withRequestLog(c.Handler(mux))
}

// ---- main ---------------------------------------------------------------

func main() {
	configPath := flag.String("config", "kansuji.yaml", "path to the YAML config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	logger, err := logging.New(cfg.Logging, *verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	tag, err := cfg.Language()
	if err != nil {
		logger.Fatal("invalid locale", zap.Error(err))
	}
	s := &server{
		conv:    kansuji.New(kansuji.WithLanguage(tag), kansuji.WithLogger(logger)),
		log:     logger,
		maxBody: cfg.Server.MaxBodyBytes,
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           newHandler(s, cfg.Server.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("listening", zap.String("addr", cfg.Server.Addr), zap.String("locale", tag.String()))
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
