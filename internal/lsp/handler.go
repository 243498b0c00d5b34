package lsp

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"lltrie/internal/errors"
	"lltrie/internal/symbol"
	"lltrie/notation"
	"lltrie/token"
)

var log = commonlog.GetLogger("lltrie.lsp")

// Define the set of supported semantic token types (as required by the LSP spec)
var SemanticTokenTypes = []string{
	"namespace",
	"keyword",
	"comment",
	"string",
	"regexp",
	"operator",
	"function",
	"type",
	"enumMember",
	"variable",
}

// Define the set of supported semantic token modifiers
var SemanticTokenModifiers = []string{
	"declaration",
}

// document is the last analysis of an open grammar file.
type document struct {
	source  string
	symbols []*symbol.Symbol // declared before normalization, nil when the file does not parse
}

// GrammarHandler implements the LSP server handlers for grammar notation files
type GrammarHandler struct {
	mu      sync.RWMutex
	content map[string]*document
}

// NewGrammarHandler creates and returns a new GrammarHandler instance
func NewGrammarHandler() *GrammarHandler {
	return &GrammarHandler{
		content: make(map[string]*document),
	}
}

// Initialize responds to the LSP client's initialize request and advertises the server's capabilities
func (h *GrammarHandler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Info("initialize")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			CompletionProvider: &protocol.CompletionOptions{
				ResolveProvider: ptrBool(false),
			},
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true),
			},
		},
	}, nil
}

// Initialized is called after the client receives the server's capabilities
func (h *GrammarHandler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("initialized")
	return nil
}

// Shutdown handles the LSP shutdown request
func (h *GrammarHandler) Shutdown(ctx *glsp.Context) error {
	log.Info("shutdown")
	return nil
}

// SetTrace records the trace level requested by the client
func (h *GrammarHandler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// TextDocumentDidOpen handles file open notifications from the editor
func (h *GrammarHandler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Infof("opened file: %s", params.TextDocument.URI)
	return h.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
}

// TextDocumentDidClose handles file close notifications from the editor
func (h *GrammarHandler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Infof("closed file: %s", params.TextDocument.URI)

	rawURI := params.TextDocument.URI

	path, err := uriToPath(rawURI)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", rawURI, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.content, path)

	return nil
}

// TextDocumentDidChange handles file change notifications from the editor.
// The server asks for full syncs, so the last change holds the whole text.
func (h *GrammarHandler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	log.Debugf("changed file: %s", params.TextDocument.URI)

	var text string
	found := false
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text, found = c.Text, true
		case protocol.TextDocumentContentChangeEvent:
			text, found = c.Text, true
		}
	}
	if !found {
		return nil
	}
	return h.update(ctx, params.TextDocument.URI, text)
}

// TextDocumentCompletion offers the directives and the symbols declared in the file
func (h *GrammarHandler) TextDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (interface{}, error) {
	rawURI := params.TextDocument.URI

	path, err := uriToPath(rawURI)
	if err != nil {
		return nil, fmt.Errorf("failed to convert URI %s: %w", rawURI, err)
	}

	doc, err := h.getOrLoad(ctx, path, rawURI)
	if err != nil {
		return nil, err
	}

	items := []protocol.CompletionItem{}
	for _, d := range token.Directives() {
		items = append(items, protocol.CompletionItem{
			Label: d,
			Kind:  ptrCompletionKind(protocol.CompletionItemKindKeyword),
		})
	}

	var symbols []protocol.CompletionItem
	for _, sym := range doc.symbols {
		if sym.IsAnonymous() {
			continue
		}
		symbols = append(symbols, protocol.CompletionItem{
			Label:  sym.Name,
			Kind:   ptrCompletionKind(completionKind(sym)),
			Detail: ptrString(sym.Describe()),
		})
	}
	sort.Slice(symbols, func(i, j int) bool { return symbols[i].Label < symbols[j].Label })

	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        append(items, symbols...),
	}, nil
}

func completionKind(sym *symbol.Symbol) protocol.CompletionItemKind {
	switch sym.Kind {
	case symbol.Nonterm:
		return protocol.CompletionItemKindFunction
	case symbol.Regexp:
		return protocol.CompletionItemKindVariable
	default:
		return protocol.CompletionItemKindConstant
	}
}

// TextDocumentSemanticTokensFull handles semantic token requests for the entire document
func (h *GrammarHandler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	log.Debugf("semantic tokens requested for: %s", params.TextDocument.URI)

	rawURI := params.TextDocument.URI

	path, err := uriToPath(rawURI)
	if err != nil {
		return nil, fmt.Errorf("failed to convert URI %s: %w", rawURI, err)
	}

	doc, err := h.getOrLoad(ctx, path, rawURI)
	if err != nil {
		return nil, err
	}

	tokens := collectSemanticTokens(path, doc)

	var data []uint32
	var prevLine, prevStart uint32

	// Encode tokens into LSP wire format (using delta-line, delta-start compression)
	for _, tok := range tokens {
		deltaLine := tok.Line - prevLine
		var deltaStart uint32
		if deltaLine == 0 {
			deltaStart = tok.StartChar - prevStart
		} else {
			deltaStart = tok.StartChar
		}

		data = append(data, deltaLine, deltaStart, tok.Length, uint32(tok.TokenType), uint32(tok.TokenModifiers))

		prevLine = tok.Line
		prevStart = tok.StartChar
	}

	return &protocol.SemanticTokens{
		Data: data,
	}, nil
}

// getOrLoad returns the open document at path, reading it from disk when the
// editor never opened it.
func (h *GrammarHandler) getOrLoad(ctx *glsp.Context, path string, rawURI protocol.DocumentUri) (*document, error) {
	h.mu.RLock()
	doc, ok := h.content[path]
	h.mu.RUnlock()
	if ok {
		return doc, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	if err := h.update(ctx, rawURI, string(content)); err != nil {
		return nil, err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.content[path], nil
}

// update analyzes a new version of a document and publishes its diagnostics.
func (h *GrammarHandler) update(ctx *glsp.Context, rawURI protocol.DocumentUri, source string) error {
	path, err := uriToPath(rawURI)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", rawURI, err)
	}

	doc, problems := analyze(path, source)

	h.mu.Lock()
	h.content[path] = doc
	h.mu.Unlock()

	sendDiagnosticNotification(ctx, rawURI, ConvertErrors(problems))
	return nil
}

// analyze loads source as far as it goes: syntax, declarations, then the
// checks and warnings of the normalized grammar.
func analyze(path, source string) (*document, errors.List) {
	doc := &document{source: source}

	file, err := notation.ParseSource(path, source)
	if err != nil {
		return doc, errors.Collect(err)
	}

	g, err := notation.Build(file, path)
	doc.symbols = g.Symbols()
	if err != nil {
		return doc, errors.Collect(err)
	}

	if err := g.Normalize(); err != nil {
		return doc, errors.Collect(err)
	}
	problems := errors.Collect(g.Check())
	return doc, append(problems, g.Warnings()...)
}

// lookup returns the declared symbol named name, if any.
func (d *document) lookup(name string) (*symbol.Symbol, bool) {
	for _, sym := range d.symbols {
		if sym.Name == name {
			return sym, true
		}
	}
	return nil, false
}

// Convert URI to platform-local file path
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path

	// On Windows, remove leading slash (e.g., /C:/...) to get C:/...
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path), nil
}

func sendDiagnosticNotification(ctx *glsp.Context, uri protocol.URI, diagnostics []protocol.Diagnostic) {
	log.Debugf("sending %d diagnostics for %s", len(diagnostics), uri)

	if ctx == nil || ctx.Notify == nil {
		return
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrString(s string) *string {
	return &s
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}

func ptrCompletionKind(k protocol.CompletionItemKind) *protocol.CompletionItemKind {
	return &k
}
