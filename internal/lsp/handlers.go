package lsp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/kieli-lang/kieli/internal/tooling"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

func toToolingPosition(p protocol.Position) tooling.Position {
	return tooling.Position{Line: int(p.Line), Character: int(p.Character)}
}

func fromToolingRange(r tooling.Range) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: uint32(r.Start.Line), Character: uint32(r.Start.Character)},
		End:   protocol.Position{Line: uint32(r.End.Line), Character: uint32(r.End.Character)},
	}
}

func (s *Server) handleTextDocumentCompletion(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.CompletionParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "failed to parse completion params")
	}

	uri := string(params.TextDocument.URI)
	completions, err := s.api.GetCompletions(uri, toToolingPosition(params.Position))
	if err != nil {
		s.logger.Printf("error getting completions: %v", err)
		return s.replyWithError(ctx, reply, jsonrpc2.InternalError, "failed to get completions")
	}

	items := make([]protocol.CompletionItem, 0, len(completions))
	for _, c := range completions {
		item := protocol.CompletionItem{
			Label:      c.Label,
			Kind:       convertCompletionKind(c.Kind),
			Detail:     c.Detail,
			InsertText: c.InsertText,
			SortText:   c.SortText,
		}
		if c.Documentation != "" {
			item.Documentation = protocol.MarkupContent{Kind: protocol.Markdown, Value: c.Documentation}
		}
		if strings.Contains(c.InsertText, "$0") || strings.Contains(c.InsertText, "${") {
			item.InsertTextFormat = protocol.InsertTextFormatSnippet
		} else {
			item.InsertTextFormat = protocol.InsertTextFormatPlainText
		}
		items = append(items, item)
	}

	return reply(ctx, protocol.CompletionList{IsIncomplete: false, Items: items}, nil)
}

func (s *Server) handleTextDocumentHover(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.HoverParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "failed to parse hover params")
	}

	uri := string(params.TextDocument.URI)
	hover, err := s.api.GetHover(uri, toToolingPosition(params.Position))
	if err != nil {
		s.logger.Printf("error getting hover: %v", err)
		return s.replyWithError(ctx, reply, jsonrpc2.InternalError, "failed to get hover information")
	}
	if hover == nil {
		return reply(ctx, nil, nil)
	}

	rng := fromToolingRange(hover.Range)
	result := protocol.Hover{
		Contents: protocol.MarkupContent{Kind: protocol.Markdown, Value: hover.Contents},
		Range:    &rng,
	}
	return reply(ctx, result, nil)
}

func (s *Server) handleTextDocumentDefinition(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DefinitionParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "failed to parse definition params")
	}

	uri := string(params.TextDocument.URI)
	location, err := s.api.GetDefinition(uri, toToolingPosition(params.Position))
	if err != nil {
		s.logger.Printf("error getting definition: %v", err)
		return s.replyWithError(ctx, reply, jsonrpc2.InternalError, "failed to get definition")
	}
	if location == nil {
		return reply(ctx, nil, nil)
	}

	result := protocol.Location{URI: protocol.DocumentURI(location.URI), Range: fromToolingRange(location.Range)}
	return reply(ctx, result, nil)
}

func (s *Server) handleTextDocumentReferences(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.ReferenceParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "failed to parse references params")
	}

	uri := string(params.TextDocument.URI)
	refs, err := s.api.GetReferences(uri, toToolingPosition(params.Position))
	if err != nil {
		s.logger.Printf("error getting references: %v", err)
		return s.replyWithError(ctx, reply, jsonrpc2.InternalError, "failed to get references")
	}

	locations := make([]protocol.Location, 0, len(refs))
	for _, ref := range refs {
		locations = append(locations, protocol.Location{URI: protocol.DocumentURI(ref.URI), Range: fromToolingRange(ref.Range)})
	}
	return reply(ctx, locations, nil)
}

func (s *Server) handleTextDocumentDocumentSymbol(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DocumentSymbolParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "failed to parse document symbol params")
	}

	symbols, err := s.api.GetDocumentSymbols(string(params.TextDocument.URI))
	if err != nil {
		s.logger.Printf("error getting document symbols: %v", err)
		return s.replyWithError(ctx, reply, jsonrpc2.InternalError, "failed to get document symbols")
	}

	lspSymbols := make([]protocol.DocumentSymbol, 0, len(symbols))
	for _, sym := range symbols {
		rng := fromToolingRange(sym.Range)
		lspSymbols = append(lspSymbols, protocol.DocumentSymbol{
			Name:           sym.Name,
			Kind:           convertSymbolKind(sym.Kind),
			Detail:         sym.Detail,
			Range:          rng,
			SelectionRange: rng,
		})
	}
	return reply(ctx, lspSymbols, nil)
}

func (s *Server) handleWorkspaceSymbol(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.WorkspaceSymbolParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "failed to parse workspace symbol params")
	}

	indexed := s.api.GetWorkspaceSymbols(params.Query)
	symbols := make([]protocol.SymbolInformation, 0, len(indexed))
	for _, sym := range indexed {
		symbols = append(symbols, protocol.SymbolInformation{
			Name:          sym.Symbol.Name,
			Kind:          convertSymbolKind(sym.Symbol.Kind),
			Location:      protocol.Location{URI: protocol.DocumentURI(sym.URI), Range: fromToolingRange(sym.Range)},
			ContainerName: sym.Symbol.ContainerName,
		})
	}
	return reply(ctx, symbols, nil)
}

func convertCompletionKind(kind tooling.CompletionKind) protocol.CompletionItemKind {
	switch kind {
	case tooling.CompletionKindKeyword:
		return protocol.CompletionItemKindKeyword
	case tooling.CompletionKindType:
		return protocol.CompletionItemKindClass
	case tooling.CompletionKindFunction:
		return protocol.CompletionItemKindFunction
	case tooling.CompletionKindEnumerationCase:
		return protocol.CompletionItemKindEnumMember
	case tooling.CompletionKindModule:
		return protocol.CompletionItemKindModule
	case tooling.CompletionKindVariable:
		return protocol.CompletionItemKindVariable
	default:
		return protocol.CompletionItemKindText
	}
}

func convertSymbolKind(kind tooling.SymbolKind) protocol.SymbolKind {
	switch kind {
	case tooling.SymbolKindFunction:
		return protocol.SymbolKindFunction
	case tooling.SymbolKindEnumeration:
		return protocol.SymbolKindEnum
	case tooling.SymbolKindStruct:
		return protocol.SymbolKindStruct
	case tooling.SymbolKindEnumerationCase:
		return protocol.SymbolKindEnumMember
	case tooling.SymbolKindConcept:
		return protocol.SymbolKindInterface
	case tooling.SymbolKindAlias:
		return protocol.SymbolKindTypeParameter
	case tooling.SymbolKindModule:
		return protocol.SymbolKindModule
	case tooling.SymbolKindParameter:
		return protocol.SymbolKindVariable
	case tooling.SymbolKindVariable:
		return protocol.SymbolKindVariable
	default:
		return protocol.SymbolKindObject
	}
}
