// SPDX-License-Identifier: Apache-2.0
package main

import (
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"lltrie/internal/lsp"
)

const lsName = "lltrie" // Name identifier for the language server

var (
	version = "0.0.1"        // Server version
	handler protocol.Handler // Protocol handler instance (wired up below)
)

var log = commonlog.GetLogger("lltrie.lsp.server")

func main() {
	// Configure debug logging (1 = debug level, nil = default logger)
	commonlog.Configure(1, nil)

	grammarHandler := lsp.NewGrammarHandler()

	handler = protocol.Handler{
		Initialize:                     grammarHandler.Initialize,
		Initialized:                    grammarHandler.Initialized,
		Shutdown:                       grammarHandler.Shutdown,
		SetTrace:                       grammarHandler.SetTrace,
		TextDocumentDidOpen:            grammarHandler.TextDocumentDidOpen,
		TextDocumentDidClose:           grammarHandler.TextDocumentDidClose,
		TextDocumentDidChange:          grammarHandler.TextDocumentDidChange,
		TextDocumentCompletion:         grammarHandler.TextDocumentCompletion,
		TextDocumentSemanticTokensFull: grammarHandler.TextDocumentSemanticTokensFull,
	}

	// Create a new GLSP server instance
	// Parameters:
	// - handler: the protocol handler struct
	// - name: the language server name (shown to clients)
	// - debug: whether to enable internal GLSP debug logs
	s := server.NewServer(&handler, lsName, false)

	log.Infof("starting lltrie LSP server %s", version)

	// Start the server over standard input/output
	err := s.RunStdio()
	if err != nil {
		log.Errorf("error running lltrie LSP server: %s", err)
		os.Exit(1)
	}
}
