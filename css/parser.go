// Package css implements the stylesheet half of the styling pipeline:
// a CSS-subset parser producing typed rules, selector matching with
// specificity, and the cascade resolver that computes the final style
// of a widget node.
package css

import (
	"bytes"
	"errors"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Parser parses stylesheet text into rule lists. A malformed rule or
// declaration is dropped with a diagnostic; parsing always continues at
// the next rule boundary.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a parser. log may be nil.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css")}
}

// Parse parses a complete stylesheet. The returned error, when non-nil,
// is a multierr aggregate of *ParseError diagnostics; the stylesheet
// still contains every rule that parsed cleanly.
func (p *Parser) Parse(data []byte) (*Stylesheet, error) {
	sheet := &Stylesheet{}
	input := parse.NewInput(bytes.NewReader(data))
	parser := css.NewParser(input, false)

	var errs error
	var pending []string
	lastOffset := -1

	for {
		gt, _, tok := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			err := parser.Err()
			if err == nil || errors.Is(err, io.EOF) {
				return sheet, errs
			}
			off := input.Offset()
			errs = multierr.Append(errs, p.diag(UnexpectedToken, data, off, err.Error()))
			if off == lastOffset {
				// Parser cannot advance past this input; stop.
				return sheet, errs
			}
			lastOffset = off

		case css.BeginAtRuleGrammar:
			p.log.Debug("skipping at-rule block", zap.String("rule", string(tok)))
			p.skipAtRuleBlock(parser)

		case css.AtRuleGrammar:
			p.log.Debug("skipping at-rule", zap.String("rule", string(tok)))

		case css.QualifiedRuleGrammar:
			// Comma-separated prelude before the final selector.
			pending = append(pending, selectorStrings(tok, parser.Values())...)

		case css.BeginRulesetGrammar:
			pending = append(pending, selectorStrings(tok, parser.Values())...)
			props, derr := p.parseDeclarations(parser, data, input)
			errs = multierr.Append(errs, derr)
			for _, raw := range pending {
				sel, err := ParseSelector(raw)
				if err != nil {
					errs = multierr.Append(errs, p.diag(UnsupportedSelector, data, input.Offset(), err.Error()))
					continue
				}
				sheet.Rules = append(sheet.Rules, Rule{
					Selector: sel,
					Props:    props,
					Order:    len(sheet.Rules),
				})
			}
			pending = pending[:0]
		}
	}
}

// ParseInline parses a declaration list ("color: #fff; padding: 4px")
// as used by inline widget styles.
func (p *Parser) ParseInline(src string) (*Props, error) {
	input := parse.NewInput(strings.NewReader(src))
	parser := css.NewParser(input, true)

	props := &Props{}
	var errs error
	for {
		gt, _, tok := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
				errs = multierr.Append(errs, p.diag(UnexpectedToken, []byte(src), input.Offset(), err.Error()))
			}
			return props, errs
		case css.DeclarationGrammar:
			if err := applyProperty(props, string(tok), tokenTexts(parser.Values())); err != nil {
				if errors.Is(err, errUnknownProp) {
					p.log.Debug("skipping unknown property", zap.String("property", string(tok)))
					continue
				}
				errs = multierr.Append(errs, p.diag(InvalidValue, []byte(src), input.Offset(), string(tok)+": "+err.Error()))
			}
		}
	}
}

// parseDeclarations consumes the body of a ruleset.
func (p *Parser) parseDeclarations(parser *css.Parser, src []byte, input *parse.Input) (Props, error) {
	var props Props
	var errs error
	for {
		gt, _, tok := parser.Next()
		switch gt {
		case css.EndRulesetGrammar:
			return props, errs
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
				errs = multierr.Append(errs, p.diag(UnterminatedBlock, src, input.Offset(), err.Error()))
			}
			return props, errs
		case css.DeclarationGrammar:
			name := string(tok)
			if err := applyProperty(&props, name, tokenTexts(parser.Values())); err != nil {
				if errors.Is(err, errUnknownProp) {
					p.log.Debug("skipping unknown property", zap.String("property", name))
					continue
				}
				errs = multierr.Append(errs, p.diag(InvalidValue, src, input.Offset(), name+": "+err.Error()))
			}
		case css.CustomPropertyGrammar:
			// Custom properties are outside the supported grammar.
			continue
		}
	}
}

// skipAtRuleBlock discards tokens until the at-rule's matching end.
func (p *Parser) skipAtRuleBlock(parser *css.Parser) {
	depth := 1
	for depth > 0 {
		switch gt, _, _ := parser.Next(); gt {
		case css.ErrorGrammar:
			return
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

func (p *Parser) diag(kind ErrorKind, src []byte, offset int, msg string) error {
	if offset > len(src) {
		offset = len(src)
	}
	perr := &ParseError{
		Kind:    kind,
		Line:    1 + bytes.Count(src[:offset], []byte{'\n'}),
		Offset:  offset,
		Message: msg,
	}
	p.log.Debug("parse diagnostic",
		zap.String("kind", kind.String()),
		zap.Int("line", perr.Line),
		zap.String("message", msg))
	return perr
}

// selectorStrings rebuilds the selector text from the prelude tokens
// and splits comma groups.
func selectorStrings(data []byte, values []css.Token) []string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		if v.TokenType == css.CommentToken {
			continue
		}
		sb.Write(v.Data)
	}
	var out []string
	for _, s := range strings.Split(sb.String(), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// tokenTexts returns the significant value tokens as strings.
func tokenTexts(tokens []css.Token) []string {
	var out []string
	for _, t := range tokens {
		switch t.TokenType {
		case css.WhitespaceToken, css.CommaToken, css.CommentToken:
			continue
		}
		out = append(out, string(t.Data))
	}
	return out
}
