package parquet

import (
	"fmt"

	"github.com/colbyte/parquet-go/format"
)

// PhysicalType is the on-disk primitive type of a physical column,
// aliased from format.Type for use throughout the decode pipeline.
type PhysicalType = format.Type

// PhysicalColumn is a leaf of the schema tree: one physical stream of
// values on disk, together with the repetition/definition bookkeeping
// needed to interpret its levels.
type PhysicalColumn struct {
	PhysicalType PhysicalType
	// Path is the ordered sequence of schema element names from the
	// root's children down to this column, e.g. ["contact", "key_value",
	// "key"].
	Path []string
	// MaxDef and MaxRep are the maximum definition and repetition level
	// this column's values can carry, determined by schema ancestry:
	// every OPTIONAL ancestor adds one to MaxDef, every REPEATED
	// ancestor adds one to both.
	MaxDef int
	MaxRep int
	// TypeLength is the fixed byte length for FIXED_LEN_BYTE_ARRAY
	// columns; zero otherwise.
	TypeLength int
}

func (c *PhysicalColumn) String() string {
	return fmt.Sprintf("%s%v", c.PhysicalType, c.Path)
}

// LogicalKind discriminates the tagged LogicalColumn variant.
type LogicalKind int

const (
	LogicalPrimitive LogicalKind = iota
	LogicalMap
	LogicalList
	LogicalStruct
)

// LogicalColumn is the reconstructed, nested-type view the RowAssembler
// builds rows from. Exactly one physical column backs a Primitive
// LogicalColumn; Map and List logical columns are built from one or two
// physical columns beneath them; Struct groups child logical columns by
// name.
type LogicalColumn struct {
	Name string
	Kind LogicalKind

	// Primitive is set when Kind == LogicalPrimitive.
	Primitive *PhysicalColumn

	// Key and Value are set when Kind == LogicalMap: the physical
	// columns at path [Name, "key_value", "key"] and
	// [Name, "key_value", "value"] respectively.
	Key   *PhysicalColumn
	Value *PhysicalColumn

	// Element is set when Kind == LogicalList.
	Element *PhysicalColumn

	// Fields is set when Kind == LogicalStruct, in schema order.
	Fields []*LogicalColumn
}

// node is an intermediate schema-tree representation built while
// shredding the flat format.SchemaElement list, before Map detection and
// LogicalColumn construction.
type node struct {
	element  *format.SchemaElement
	path     []string
	maxDef   int
	maxRep   int
	children []*node
}

func (n *node) isLeaf() bool { return len(n.children) == 0 }

// buildSchemaTree shreds the flat, depth-first format.SchemaElement list
// (as stored in FileMetaData.Schema) into a tree, the inverse of how a
// writer flattens it. elements[0] is the root (a group with no physical
// type). Returns the root node and advances past every element it
// consumes.
func buildSchemaTree(elements []format.SchemaElement) (*node, error) {
	if len(elements) == 0 {
		return nil, fmt.Errorf("%w: empty schema", ErrFormat)
	}
	root := &node{element: &elements[0]}
	rest := elements[1:]
	children, rest, err := buildChildren(root, rest, int(elements[0].NumChildren))
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: %d unconsumed schema elements", ErrFormat, len(rest))
	}
	root.children = children
	return root, nil
}

func buildChildren(parent *node, elements []format.SchemaElement, count int) ([]*node, []format.SchemaElement, error) {
	children := make([]*node, 0, count)
	for i := 0; i < count; i++ {
		if len(elements) == 0 {
			return nil, nil, fmt.Errorf("%w: schema declares %d children, fewer present", ErrFormat, count)
		}
		e := &elements[0]
		elements = elements[1:]

		maxDef, maxRep := parent.maxDef, parent.maxRep
		switch e.RepetitionType {
		case format.Optional:
			maxDef++
		case format.Repeated:
			maxDef++
			maxRep++
		}

		child := &node{
			element: e,
			path:    append(append([]string{}, parent.path...), e.Name),
			maxDef:  maxDef,
			maxRep:  maxRep,
		}

		if e.NumChildren > 0 {
			var err error
			child.children, elements, err = buildChildren(child, elements, int(e.NumChildren))
			if err != nil {
				return nil, nil, err
			}
		}

		children = append(children, child)
	}
	return children, elements, nil
}

// physicalColumns returns the leaves of the schema tree, depth-first, in
// the order they appear on disk.
func physicalColumns(n *node) []*PhysicalColumn {
	var out []*PhysicalColumn
	var walk func(*node)
	walk = func(n *node) {
		if n.isLeaf() && n.element != nil && len(n.path) > 0 {
			out = append(out, &PhysicalColumn{
				PhysicalType: n.element.Type,
				Path:         n.path,
				MaxDef:       n.maxDef,
				MaxRep:       n.maxRep,
				TypeLength:   int(n.element.TypeLength),
			})
			return
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(n)
	return out
}

// buildLogicalColumns groups a node's immediate children into
// LogicalColumns, applying the Map detection rule: a group whose single
// child is a "key_value" group holding exactly a "key" leaf and a "value"
// child forms a Map named after that group.
func buildLogicalColumns(n *node) ([]*LogicalColumn, error) {
	out := make([]*LogicalColumn, 0, len(n.children))
	for _, child := range n.children {
		lc, err := buildLogicalColumn(child)
		if err != nil {
			return nil, err
		}
		out = append(out, lc)
	}
	return out, nil
}

func buildLogicalColumn(n *node) (*LogicalColumn, error) {
	if n.isLeaf() {
		return &LogicalColumn{
			Name: n.element.Name,
			Kind: LogicalPrimitive,
			Primitive: &PhysicalColumn{
				PhysicalType: n.element.Type,
				Path:         n.path,
				MaxDef:       n.maxDef,
				MaxRep:       n.maxRep,
				TypeLength:   int(n.element.TypeLength),
			},
		}, nil
	}

	if mapColumn := tryBuildMap(n); mapColumn != nil {
		return mapColumn, nil
	}

	if n.element.RepetitionType == format.Repeated && len(n.children) == 1 {
		elementNode := n.children[0]
		if elementNode.isLeaf() {
			return &LogicalColumn{
				Name: n.element.Name,
				Kind: LogicalList,
				Element: &PhysicalColumn{
					PhysicalType: elementNode.element.Type,
					Path:         elementNode.path,
					MaxDef:       elementNode.maxDef,
					MaxRep:       elementNode.maxRep,
					TypeLength:   int(elementNode.element.TypeLength),
				},
			}, nil
		}
	}

	fields, err := buildLogicalColumns(n)
	if err != nil {
		return nil, err
	}
	return &LogicalColumn{Name: n.element.Name, Kind: LogicalStruct, Fields: fields}, nil
}

// tryBuildMap reports whether n's single child is a "key_value" group
// holding exactly a "key" leaf and a "value" child, returning the
// constructed Map LogicalColumn or nil if n doesn't match. When "value"
// is a group rather than a leaf, the returned column's Value is nil.
func tryBuildMap(n *node) *LogicalColumn {
	if len(n.children) != 1 {
		return nil
	}
	kv := n.children[0]
	if kv.element.Name != "key_value" || len(kv.children) != 2 {
		return nil
	}
	var key, value *node
	for _, c := range kv.children {
		switch c.element.Name {
		case "key":
			key = c
		case "value":
			value = c
		}
	}
	if key == nil || value == nil || !key.isLeaf() {
		return nil
	}

	lc := &LogicalColumn{
		Name: n.element.Name,
		Kind: LogicalMap,
		Key: &PhysicalColumn{
			PhysicalType: key.element.Type,
			Path:         key.path,
			MaxDef:       key.maxDef,
			MaxRep:       key.maxRep,
			TypeLength:   int(key.element.TypeLength),
		},
	}
	if value.isLeaf() {
		lc.Value = &PhysicalColumn{
			PhysicalType: value.element.Type,
			Path:         value.path,
			MaxDef:       value.maxDef,
			MaxRep:       value.maxRep,
			TypeLength:   int(value.element.TypeLength),
		}
	}
	return lc
}

// Schema is the decoded, usable form of a file's schema: the ordered
// physical columns as they appear in each row group's column chunks, and
// the logical columns a RowAssembler reconstructs rows from.
type Schema struct {
	Name     string
	Physical []*PhysicalColumn
	Logical  []*LogicalColumn
}

// NewSchema shreds elements (a FileMetaData.Schema list) into a Schema.
func NewSchema(elements []format.SchemaElement) (*Schema, error) {
	root, err := buildSchemaTree(elements)
	if err != nil {
		return nil, err
	}
	logical, err := buildLogicalColumns(root)
	if err != nil {
		return nil, err
	}
	return &Schema{
		Name:     root.element.Name,
		Physical: physicalColumns(root),
		Logical:  logical,
	}, nil
}
