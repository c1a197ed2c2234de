package parser

import (
	"strconv"

	"github.com/ButlerSebastian/adl-sub000/internal/ast"
	"github.com/ButlerSebastian/adl-sub000/internal/lexer"
)

// parseWorkflow := 'workflow' STRING STRING STRING '{' workflowItem* '}'
func (p *parser) parseWorkflow() (*ast.WorkflowDef, error) {
	startTok, err := p.expect(lexer.KwWorkflow)
	if err != nil {
		return nil, err
	}
	idTok, err := p.expect(lexer.String)
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(lexer.String)
	if err != nil {
		return nil, err
	}
	verTok, err := p.expect(lexer.String)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBrace); err != nil {
		return nil, err
	}

	var allNodes []*ast.WorkflowNode
	nodes := map[string]*ast.WorkflowNode{}
	var nodeOrder []string
	var edges []*ast.WorkflowEdge
	var metadata map[string]any

	for !p.at(lexer.RBrace) {
		switch p.cur().Kind {
		case lexer.KwNode:
			node, err := p.parseWorkflowNode()
			if err != nil {
				return nil, err
			}
			allNodes = append(allNodes, node)
			if _, exists := nodes[node.ID]; !exists {
				nodes[node.ID] = node
				nodeOrder = append(nodeOrder, node.ID)
			}
		case lexer.KwEdge:
			edge, err := p.parseWorkflowEdge()
			if err != nil {
				return nil, err
			}
			edges = append(edges, edge)
		case lexer.KwMeta:
			p.advance()
			if _, err := p.expect(lexer.LBrace); err != nil {
				return nil, err
			}
			obj, err := p.parseJSONObjectBody()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RBrace); err != nil {
				return nil, err
			}
			metadata = obj
		default:
			return nil, p.unexpected("'node', 'edge', 'meta', or '}'")
		}
	}
	endTok, err := p.expect(lexer.RBrace)
	if err != nil {
		return nil, err
	}

	return &ast.WorkflowDef{
		Location:   p.span(startTok, endTok),
		WorkflowID: idTok.Text,
		Name:       nameTok.Text,
		Version:    verTok.Text,
		Nodes:      nodes,
		NodeOrder:  nodeOrder,
		AllNodes:   allNodes,
		Edges:      edges,
		Metadata:   metadata,
	}, nil
}

// parseWorkflowNode := 'node' STRING IDENT STRING ('at' '(' NUM ',' NUM ')')? ('{' jsonObjectBody '}')?
func (p *parser) parseWorkflowNode() (*ast.WorkflowNode, error) {
	startTok, err := p.expect(lexer.KwNode)
	if err != nil {
		return nil, err
	}
	idTok, err := p.expect(lexer.String)
	if err != nil {
		return nil, err
	}
	typeTok, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}
	labelTok, err := p.expect(lexer.String)
	if err != nil {
		return nil, err
	}

	var x, y float64
	if p.at(lexer.KwAt) {
		p.advance()
		if _, err := p.expect(lexer.LParen); err != nil {
			return nil, err
		}
		x, err = p.parseNumberLiteral()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Comma); err != nil {
			return nil, err
		}
		y, err = p.parseNumberLiteral()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
	}

	var config map[string]any
	if p.at(lexer.LBrace) {
		p.advance()
		config, err = p.parseJSONObjectBody()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RBrace); err != nil {
			return nil, err
		}
	}

	return &ast.WorkflowNode{
		Location: p.span(startTok, p.tokens[p.pos-1]),
		ID:       idTok.Text,
		Type:     ast.NodeKind(typeTok.Text),
		Label:    labelTok.Text,
		Config:   config,
		X:        x,
		Y:        y,
	}, nil
}

// parseWorkflowEdge := 'edge' STRING STRING '->' STRING IDENT ('when' STRING)? ('{' jsonObjectBody '}')?
func (p *parser) parseWorkflowEdge() (*ast.WorkflowEdge, error) {
	startTok, err := p.expect(lexer.KwEdge)
	if err != nil {
		return nil, err
	}
	idTok, err := p.expect(lexer.String)
	if err != nil {
		return nil, err
	}
	srcTok, err := p.expect(lexer.String)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Arrow); err != nil {
		return nil, err
	}
	tgtTok, err := p.expect(lexer.String)
	if err != nil {
		return nil, err
	}
	relTok, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}

	condition := ""
	if p.at(lexer.KwWhen) {
		p.advance()
		condTok, err := p.expect(lexer.String)
		if err != nil {
			return nil, err
		}
		condition = condTok.Text
	}

	var metadata map[string]any
	if p.at(lexer.LBrace) {
		p.advance()
		metadata, err = p.parseJSONObjectBody()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RBrace); err != nil {
			return nil, err
		}
	}

	return &ast.WorkflowEdge{
		Location:  p.span(startTok, p.tokens[p.pos-1]),
		EdgeID:    idTok.Text,
		Source:    srcTok.Text,
		Target:    tgtTok.Text,
		Relation:  ast.EdgeRelation(relTok.Text),
		Condition: condition,
		Metadata:  metadata,
	}, nil
}

// parsePolicy := 'policy' STRING STRING STRING '{' policyItem* '}'
func (p *parser) parsePolicy() (*ast.PolicyDef, error) {
	startTok, err := p.expect(lexer.KwPolicy)
	if err != nil {
		return nil, err
	}
	idTok, err := p.expect(lexer.String)
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(lexer.String)
	if err != nil {
		return nil, err
	}
	verTok, err := p.expect(lexer.String)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBrace); err != nil {
		return nil, err
	}

	var description, rego string
	var regoLoc = p.loc(startTok)
	var enforcement *ast.EnforcementDef
	var data map[string]any

	for !p.at(lexer.RBrace) {
		switch p.cur().Kind {
		case lexer.KwDescription:
			p.advance()
			if _, err := p.expect(lexer.Colon); err != nil {
				return nil, err
			}
			descTok, err := p.expect(lexer.String)
			if err != nil {
				return nil, err
			}
			description = descTok.Text
		case lexer.KwRego:
			p.advance()
			if _, err := p.expect(lexer.Colon); err != nil {
				return nil, err
			}
			regoTok, err := p.expect(lexer.RawString)
			if err != nil {
				return nil, err
			}
			rego = regoTok.Text
			regoLoc = p.loc(regoTok)
		case lexer.KwEnforce:
			p.advance()
			if _, err := p.expect(lexer.Colon); err != nil {
				return nil, err
			}
			enf, err := p.parseEnforcement()
			if err != nil {
				return nil, err
			}
			enforcement = enf
		case lexer.KwData:
			p.advance()
			if _, err := p.expect(lexer.LBrace); err != nil {
				return nil, err
			}
			obj, err := p.parseJSONObjectBody()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RBrace); err != nil {
				return nil, err
			}
			data = obj
		default:
			return nil, p.unexpected("'description', 'rego', 'enforce', 'data', or '}'")
		}
	}
	endTok, err := p.expect(lexer.RBrace)
	if err != nil {
		return nil, err
	}

	return &ast.PolicyDef{
		Location:    p.span(startTok, endTok),
		PolicyID:    idTok.Text,
		Name:        nameTok.Text,
		Version:     verTok.Text,
		Description: description,
		Rego:        rego,
		RegoLoc:     regoLoc,
		Enforcement: enforcement,
		Data:        data,
	}, nil
}

func (p *parser) parseEnforcement() (*ast.EnforcementDef, error) {
	startTok := p.cur()
	modeTok, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}
	actionTok, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}
	var auditLog *bool
	if p.at(lexer.Ident) && p.cur().Text == "audit_log" {
		p.advance()
		if _, err := p.expect(lexer.Equals); err != nil {
			return nil, err
		}
		switch p.cur().Kind {
		case lexer.KwTrue:
			p.advance()
			v := true
			auditLog = &v
		case lexer.KwFalse:
			p.advance()
			v := false
			auditLog = &v
		default:
			return nil, p.unexpected("'true' or 'false'")
		}
	}
	return &ast.EnforcementDef{
		Location: p.span(startTok, p.tokens[p.pos-1]),
		Mode:     ast.EnforcementMode(modeTok.Text),
		Action:   ast.EnforcementAction(actionTok.Text),
		AuditLog: auditLog,
	}, nil
}

func (p *parser) parseNumberLiteral() (float64, error) {
	tok, err := p.expect(lexer.Number)
	if err != nil {
		return 0, err
	}
	text := tok.Text
	if p.at(lexer.Dot) {
		p.advance()
		fracTok, err := p.expect(lexer.Number)
		if err != nil {
			return 0, err
		}
		text = text + "." + fracTok.Text
	}
	v, convErr := strconv.ParseFloat(text, 64)
	if convErr != nil {
		return 0, &Error{Code: "PARSE_ERROR", Message: "invalid numeric literal " + text, Loc: p.loc(tok)}
	}
	return v, nil
}

// parseJSONObjectBody := (STRING ':' value (',' STRING ':' value)* ','?)?
func (p *parser) parseJSONObjectBody() (map[string]any, error) {
	result := map[string]any{}
	if p.at(lexer.RBrace) {
		return result, nil
	}
	for {
		keyTok, err := p.expect(lexer.String)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Colon); err != nil {
			return nil, err
		}
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		result[keyTok.Text] = val
		if p.at(lexer.Comma) {
			p.advance()
			if p.at(lexer.RBrace) {
				break
			}
			continue
		}
		break
	}
	return result, nil
}

func (p *parser) parseValue() (any, error) {
	switch p.cur().Kind {
	case lexer.String:
		return p.advance().Text, nil
	case lexer.Number:
		return p.parseNumberLiteral()
	case lexer.KwTrue:
		p.advance()
		return true, nil
	case lexer.KwFalse:
		p.advance()
		return false, nil
	case lexer.KwNull:
		p.advance()
		return nil, nil
	case lexer.LBrace:
		p.advance()
		obj, err := p.parseJSONObjectBody()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RBrace); err != nil {
			return nil, err
		}
		return obj, nil
	case lexer.LBracket:
		p.advance()
		var arr []any
		if !p.at(lexer.RBracket) {
			for {
				v, err := p.parseValue()
				if err != nil {
					return nil, err
				}
				arr = append(arr, v)
				if p.at(lexer.Comma) {
					p.advance()
					if p.at(lexer.RBracket) {
						break
					}
					continue
				}
				break
			}
		}
		if _, err := p.expect(lexer.RBracket); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return nil, p.unexpected("a value (string, number, true, false, null, object, or array)")
	}
}
