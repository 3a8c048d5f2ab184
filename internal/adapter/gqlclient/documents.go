package gqlclient

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
)

//go:embed schema.graphql
var schemaSDL string

//go:embed operations/*.graphql
var operationFiles embed.FS

const connectionDirective = "connection"

// ConnectionSpec is the client-side identity of a paginated field, taken
// from its @connection directive and the schema.
type ConnectionSpec struct {
	Field          string
	Key            string
	Filters        []string
	ConnectionType string
	EdgeType       string
	NodeType       string
}

// Operation is a validated operation document ready to be sent. Text has
// client-only directives removed.
type Operation struct {
	Name       string
	Kind       ast.Operation
	Field      string
	Text       string
	Connection *ConnectionSpec
}

var (
	schema     = mustLoadSchema()
	operations = mustLoadOperations(schema)
)

// Operations used by the console.
var (
	PostsTableQuery             = operations["PostsTablePaginationQuery"]
	CommentsTableQuery          = operations["CommentsTablePaginationQuery"]
	UpdatePostMutation          = operations["PostEditorUpdatePostMutation"]
	UpdateCommentStatusMutation = operations["CommentsTableUpdateCommentStatusMutation"]

	PostCreatedSubscription    = operations["PostsSubscriptionsPostCreatedSubscription"]
	PostUpdatedSubscription    = operations["PostsSubscriptionsPostUpdatedSubscription"]
	PostDeletedSubscription    = operations["PostsSubscriptionsPostDeletedSubscription"]
	CommentCreatedSubscription = operations["CommentsSubscriptionsCommentCreatedSubscription"]
	CommentUpdatedSubscription = operations["CommentsSubscriptionsCommentUpdatedSubscription"]
	CommentDeletedSubscription = operations["CommentsSubscriptionsCommentDeletedSubscription"]
)

// Schema returns the client schema the operations are validated against.
func Schema() *ast.Schema { return schema }

// Operations returns every embedded operation ordered by name.
func Operations() []Operation {
	out := make([]Operation, 0, len(operations))
	for _, op := range operations {
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// PostsConnection describes the posts table connection.
func PostsConnection() ConnectionSpec { return *PostsTableQuery.Connection }

// CommentsConnection describes the comments table connection.
func CommentsConnection() ConnectionSpec { return *CommentsTableQuery.Connection }

func mustLoadSchema() *ast.Schema {
	s, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: schemaSDL})
	if err != nil {
		panic(fmt.Sprintf("gqlclient: load schema: %v", err))
	}
	return s
}

func mustLoadOperations(s *ast.Schema) map[string]Operation {
	paths, err := fs.Glob(operationFiles, "operations/*.graphql")
	if err != nil {
		panic(fmt.Sprintf("gqlclient: list operations: %v", err))
	}

	ops := make(map[string]Operation, len(paths))
	for _, path := range paths {
		raw, err := operationFiles.ReadFile(path)
		if err != nil {
			panic(fmt.Sprintf("gqlclient: read %s: %v", path, err))
		}
		op, err := parseOperation(s, string(raw))
		if err != nil {
			panic(fmt.Sprintf("gqlclient: %s: %v", path, err))
		}
		if _, dup := ops[op.Name]; dup {
			panic(fmt.Sprintf("gqlclient: duplicate operation %s", op.Name))
		}
		ops[op.Name] = op
	}
	return ops
}

// parseOperation validates a single-operation document against s, extracts
// its connection metadata and prints it back without client directives.
func parseOperation(s *ast.Schema, text string) (Operation, error) {
	doc, errs := gqlparser.LoadQuery(s, text)
	if len(errs) > 0 {
		return Operation{}, fmt.Errorf("validate: %w", errs)
	}
	if len(doc.Operations) != 1 {
		return Operation{}, fmt.Errorf("expected one operation, got %d", len(doc.Operations))
	}
	def := doc.Operations[0]
	if def.Name == "" {
		return Operation{}, fmt.Errorf("operation must be named")
	}

	op := Operation{Name: def.Name, Kind: def.Operation}
	for _, sel := range def.SelectionSet {
		if f, ok := sel.(*ast.Field); ok {
			op.Field = f.Name
			break
		}
	}

	var walkErr error
	visited := make(map[*ast.FragmentDefinition]bool)
	var walk func(ast.SelectionSet)
	walk = func(set ast.SelectionSet) {
		for _, sel := range set {
			switch v := sel.(type) {
			case *ast.Field:
				if d := v.Directives.ForName(connectionDirective); d != nil {
					spec, err := connectionSpec(s, v, d)
					if err != nil && walkErr == nil {
						walkErr = err
					}
					if op.Connection == nil {
						op.Connection = spec
					}
					v.Directives = withoutDirective(v.Directives, connectionDirective)
				}
				walk(v.SelectionSet)
			case *ast.InlineFragment:
				walk(v.SelectionSet)
			case *ast.FragmentSpread:
				if v.Definition != nil && !visited[v.Definition] {
					visited[v.Definition] = true
					walk(v.Definition.SelectionSet)
				}
			}
		}
	}
	walk(def.SelectionSet)
	if walkErr != nil {
		return Operation{}, walkErr
	}

	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatQueryDocument(doc)
	op.Text = buf.String()
	return op, nil
}

func connectionSpec(s *ast.Schema, f *ast.Field, d *ast.Directive) (*ConnectionSpec, error) {
	keyArg := d.Arguments.ForName("key")
	if keyArg == nil || keyArg.Value == nil || keyArg.Value.Kind != ast.StringValue {
		return nil, fmt.Errorf("@connection on %s: key must be a string literal", f.Name)
	}
	key := keyArg.Value.Raw
	if !strings.HasSuffix(key, "_"+f.Name) {
		return nil, fmt.Errorf("@connection on %s: key %q must end with _%s", f.Name, key, f.Name)
	}

	var filters []string
	if arg := d.Arguments.ForName("filters"); arg != nil && arg.Value != nil {
		for _, child := range arg.Value.Children {
			filters = append(filters, child.Value.Raw)
		}
	}
	for _, name := range filters {
		if f.Definition.Arguments.ForName(name) == nil {
			return nil, fmt.Errorf("@connection on %s: unknown filter argument %q", f.Name, name)
		}
	}

	connType := f.Definition.Type.Name()
	edgeType, err := fieldType(s, connType, "edges")
	if err != nil {
		return nil, err
	}
	nodeType, err := fieldType(s, edgeType, "node")
	if err != nil {
		return nil, err
	}

	return &ConnectionSpec{
		Field:          f.Name,
		Key:            key,
		Filters:        filters,
		ConnectionType: connType,
		EdgeType:       edgeType,
		NodeType:       nodeType,
	}, nil
}

func fieldType(s *ast.Schema, typeName, field string) (string, error) {
	def, ok := s.Types[typeName]
	if !ok {
		return "", fmt.Errorf("unknown type %s", typeName)
	}
	fd := def.Fields.ForName(field)
	if fd == nil {
		return "", fmt.Errorf("type %s has no field %s", typeName, field)
	}
	return fd.Type.Name(), nil
}

func withoutDirective(list ast.DirectiveList, name string) ast.DirectiveList {
	out := make(ast.DirectiveList, 0, len(list))
	for _, d := range list {
		if d.Name != name {
			out = append(out, d)
		}
	}
	return out
}
