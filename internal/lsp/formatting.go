package lsp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/kieli-lang/kieli/internal/format"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

// handleTextDocumentFormatting formats a whole document with
// internal/format and replies with a single full-document TextEdit,
// the simplest edit that replaces everything with the formatted result.
func (s *Server) handleTextDocumentFormatting(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DocumentFormattingParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "failed to parse formatting params")
	}

	uri := string(params.TextDocument.URI)
	doc, exists := s.api.GetDocument(uri)
	if !exists {
		return reply(ctx, nil, nil)
	}

	formatted, err := format.New(format.DefaultConfig()).Format(doc.Text.Text)
	if err != nil {
		s.logger.Printf("error formatting document: %v", err)
		return reply(ctx, nil, nil)
	}
	if formatted == doc.Text.Text {
		return reply(ctx, []protocol.TextEdit{}, nil)
	}

	edits := []protocol.TextEdit{{
		Range:   fullDocumentRange(doc.Text.Text),
		NewText: formatted,
	}}
	return reply(ctx, edits, nil)
}

// handleTextDocumentRangeFormatting formats the whole document (this
// front-end's formatter is a whole-program pretty-printer, not a
// range-scoped one) and replies with one edit spanning the whole
// document; the requested range is not used.
func (s *Server) handleTextDocumentRangeFormatting(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DocumentRangeFormattingParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "failed to parse range formatting params")
	}

	uri := string(params.TextDocument.URI)
	doc, exists := s.api.GetDocument(uri)
	if !exists {
		return reply(ctx, nil, nil)
	}

	formatted, err := format.New(format.DefaultConfig()).Format(doc.Text.Text)
	if err != nil {
		s.logger.Printf("error formatting document: %v", err)
		return reply(ctx, nil, nil)
	}
	if formatted == doc.Text.Text {
		return reply(ctx, []protocol.TextEdit{}, nil)
	}

	edits := []protocol.TextEdit{{Range: fullDocumentRange(doc.Text.Text), NewText: formatted}}
	return reply(ctx, edits, nil)
}

func fullDocumentRange(text string) protocol.Range {
	lines := strings.Split(text, "\n")
	lastLine := lines[len(lines)-1]
	return protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End:   protocol.Position{Line: uint32(len(lines) - 1), Character: uint32(len(lastLine))},
	}
}
