package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"shisp/internal/format"
	"shisp/internal/trace"
	"shisp/internal/version"
)

var (
	// ErrExit signals a graceful shutdown after receiving "exit".
	ErrExit = errors.New("lsp exit")
	// ErrExitWithoutShutdown signals an "exit" without a preceding "shutdown".
	ErrExitWithoutShutdown = errors.New("lsp exit without shutdown")
)

// ServerOptions configures LSP server behavior.
type ServerOptions struct {
	MaxDiagnostics int
	// Log receives server messages; nil means stderr.
	Log io.Writer
}

// Server handles stdio JSON-RPC for shisp buffers. Every open document is
// re-read on each change and its diagnostics are published right away.
type Server struct {
	in     *bufio.Reader
	out    *bufio.Writer
	log    io.Writer
	sendMu sync.Mutex

	mu                sync.Mutex
	docs              map[string]*document
	initialized       bool
	shutdownRequested bool
	maxDiagnostics    int
}

// NewServer constructs a new LSP server.
func NewServer(in io.Reader, out io.Writer, opts ServerOptions) *Server {
	maxDiagnostics := opts.MaxDiagnostics
	if maxDiagnostics <= 0 {
		maxDiagnostics = 100
	}
	log := opts.Log
	if log == nil {
		log = os.Stderr
	}
	return &Server{
		in:             bufio.NewReader(in),
		out:            bufio.NewWriter(out),
		log:            log,
		docs:           make(map[string]*document),
		maxDiagnostics: maxDiagnostics,
	}
}

// Run serves LSP requests until exit or end of input.
func (s *Server) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		payload, err := readMessage(s.in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.logf("failed to parse message: %v", err)
			if sendErr := s.sendError(nil, codeParseError, "parse error"); sendErr != nil {
				return sendErr
			}
			continue
		}
		if msg.Method == "" {
			continue
		}
		_, span := trace.Start(ctx, trace.ScopeDriver, "lsp "+msg.Method)
		err = s.handleMessage(&msg)
		span.End("")
		if err != nil {
			return err
		}
	}
}

func (s *Server) handleMessage(msg *rpcMessage) error {
	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return nil
	case "exit":
		if s.isShutdown() {
			return ErrExit
		}
		return ErrExitWithoutShutdown
	}
	if !s.isInitialized() {
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, codeServerNotInitialize, "server not initialized")
		}
		return nil
	}
	if s.isShutdown() {
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, codeInvalidRequest, "server is shutting down")
		}
		return nil
	}
	switch msg.Method {
	case "shutdown":
		return s.handleShutdown(msg)
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didSave":
		return s.handleDidSave(msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	case "textDocument/foldingRange":
		return s.handleFoldingRange(msg)
	case "textDocument/formatting":
		return s.handleFormatting(msg)
	case "textDocument/codeAction":
		return s.handleCodeAction(msg)
	default:
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, codeMethodNotFound, "method not found")
		}
		return nil
	}
}

func (s *Server) handleInitialize(msg *rpcMessage) error {
	var params initializeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	s.mu.Lock()
	s.initialized = true
	s.mu.Unlock()
	if params.RootURI != "" {
		s.logf("workspace %s", documentName(params.RootURI))
	}

	result := initializeResult{
		Capabilities: serverCapabilities{
			TextDocumentSync: textDocumentSyncOptions{
				OpenClose: true,
				Change:    2,
				Save:      saveOptions{IncludeText: true},
			},
			FoldingRangeProvider:       true,
			DocumentFormattingProvider: true,
			CodeActionProvider:         true,
		},
		ServerInfo: serverInfo{Name: "shisp", Version: version.Version},
	}
	return s.sendResponse(msg.ID, result)
}

func (s *Server) handleShutdown(msg *rpcMessage) error {
	s.mu.Lock()
	s.shutdownRequested = true
	uris := make([]string, 0, len(s.docs))
	for uri := range s.docs {
		uris = append(uris, uri)
	}
	s.docs = make(map[string]*document)
	s.mu.Unlock()
	for _, uri := range uris {
		if err := s.sendPublish(uri, nil, nil); err != nil {
			return err
		}
	}
	return s.sendResponse(msg.ID, nil)
}

func (s *Server) handleDidOpen(msg *rpcMessage) error {
	var params didOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := canonicalURI(params.TextDocument.URI)
	if uri == "" {
		return nil
	}
	return s.update(uri, params.TextDocument.Version, params.TextDocument.Text)
}

func (s *Server) handleDidChange(msg *rpcMessage) error {
	var params didChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := canonicalURI(params.TextDocument.URI)
	if uri == "" {
		return nil
	}
	s.mu.Lock()
	text := ""
	if doc := s.docs[uri]; doc != nil {
		text = doc.text
	}
	s.mu.Unlock()
	return s.update(uri, params.TextDocument.Version, applyChanges(text, params.ContentChanges))
}

func (s *Server) handleDidSave(msg *rpcMessage) error {
	var params didSaveTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := canonicalURI(params.TextDocument.URI)
	if uri == "" || params.Text == nil {
		return nil
	}
	s.mu.Lock()
	ver := 0
	if doc := s.docs[uri]; doc != nil {
		ver = doc.version
	}
	s.mu.Unlock()
	return s.update(uri, ver, *params.Text)
}

func (s *Server) handleDidClose(msg *rpcMessage) error {
	var params didCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := canonicalURI(params.TextDocument.URI)
	s.mu.Lock()
	_, had := s.docs[uri]
	delete(s.docs, uri)
	s.mu.Unlock()
	if !had {
		return nil
	}
	return s.sendPublish(uri, nil, nil)
}

// update re-analyzes the buffer and publishes its diagnostics.
func (s *Server) update(uri string, ver int, text string) error {
	doc := analyzeDocument(uri, ver, text, s.maxDiagnostics)
	s.mu.Lock()
	s.docs[uri] = doc
	s.mu.Unlock()
	return s.sendPublish(uri, &ver, doc.diagnostics())
}

func (s *Server) handleFormatting(msg *rpcMessage) error {
	var params documentFormattingParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	doc := s.document(params.TextDocument.URI)
	if doc == nil || !doc.balanced || doc.bag.HasErrors() {
		return s.sendResponse(msg.ID, []textEdit{})
	}
	opts := format.Options{}
	if params.Options.TabSize > 0 {
		opts.IndentWidth = params.Options.TabSize
	}
	out, err := format.File(doc.file, doc.graph, opts)
	if err != nil {
		s.logf("format %s: %v", doc.uri, err)
		return s.sendResponse(msg.ID, []textEdit{})
	}
	if string(out) == doc.text {
		return s.sendResponse(msg.ID, []textEdit{})
	}
	edit := textEdit{
		Range:   rangeForOffsets(doc.text, 0, len(doc.text)),
		NewText: string(out),
	}
	return s.sendResponse(msg.ID, []textEdit{edit})
}

func (s *Server) handleCodeAction(msg *rpcMessage) error {
	var params codeActionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	doc := s.document(params.TextDocument.URI)
	if doc == nil {
		return s.sendResponse(msg.ID, []codeAction{})
	}
	actions := doc.quickFixes(params.Range)
	if actions == nil {
		actions = []codeAction{}
	}
	return s.sendResponse(msg.ID, actions)
}

func (s *Server) document(uri string) *document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs[canonicalURI(uri)]
}

func (s *Server) isInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

func (s *Server) isShutdown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdownRequested
}

func (s *Server) sendResponse(id json.RawMessage, result any) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      rawID(id),
		"result":  result,
	}
	return s.send(msg)
}

func (s *Server) sendError(id json.RawMessage, code int, message string) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      rawID(id),
		"error":   rpcError{Code: code, Message: message},
	}
	return s.send(msg)
}

func rawID(id json.RawMessage) json.RawMessage {
	if len(id) == 0 {
		return json.RawMessage("null")
	}
	return id
}

func (s *Server) sendPublish(uri string, ver *int, list []lspDiagnostic) error {
	if list == nil {
		list = []lspDiagnostic{}
	}
	msg := map[string]any{
		"jsonrpc": "2.0",
		"method":  "textDocument/publishDiagnostics",
		"params": publishDiagnosticsParams{
			URI:         uri,
			Version:     ver,
			Diagnostics: list,
		},
	}
	return s.send(msg)
}

func (s *Server) send(msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := writeMessage(s.out, payload); err != nil {
		return err
	}
	return s.out.Flush()
}

func (s *Server) logf(layout string, args ...any) {
	fmt.Fprintf(s.log, "lsp: "+layout+"\n", args...)
}
