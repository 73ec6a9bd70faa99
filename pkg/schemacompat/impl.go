/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package schemacompat

import (
	"github.com/google/go-cmp/cmp"
	"golang.org/x/exp/slices"

	"github.com/voedger/schemacat/pkg/ecdef"
)

func checkBackwardCompatibility(oldSchema, newSchema *ecdef.Schema) (cerrs *CompatibilityErrors) {
	return &CompatibilityErrors{
		Errors: compareNodes(buildSchemaNode(nil, oldSchema), buildSchemaNode(nil, newSchema), constraints),
	}
}

func ignoreCompatibilityErrors(cerrs *CompatibilityErrors, pathsToIgnore [][]string) (cerrsOut *CompatibilityErrors) {
	cerrsOut = &CompatibilityErrors{}
	for _, cerr := range cerrs.Errors {
		found := slices.ContainsFunc(pathsToIgnore, func(p []string) bool { return slices.Equal(cerr.OldTreePath, p) })
		if !found {
			cerrsOut.Errors = append(cerrsOut.Errors, cerr)
		}
	}
	return
}

func newNode(parentNode *CompatibilityTreeNode, name string, value interface{}) (node *CompatibilityTreeNode) {
	node = new(CompatibilityTreeNode)
	node.ParentNode = parentNode
	node.Name = name
	node.Value = value
	node.Props = make([]*CompatibilityTreeNode, 0)
	return
}

func buildSchemaNode(parentNode *CompatibilityTreeNode, item *ecdef.Schema) (node *CompatibilityTreeNode) {
	node = newNode(parentNode, NodeNameSchema, item.Name())
	node.Props = append(node.Props,
		buildEnumsNode(node, item),
		buildClassesNode(node, item),
	)
	return
}

func buildEnumsNode(parentNode *CompatibilityTreeNode, item *ecdef.Schema) (node *CompatibilityTreeNode) {
	node = newNode(parentNode, NodeNameEnums, nil)
	for _, e := range item.Enumerations() {
		en := newNode(node, e.Name(), e.BackingType().String())
		enumerators := newNode(en, NodeNameEnumerators, nil)
		for _, v := range e.Enumerators() {
			enumerators.Props = append(enumerators.Props, newNode(enumerators, v.Name, v.Value))
		}
		en.Props = append(en.Props, enumerators)
		node.Props = append(node.Props, en)
	}
	return
}

func buildClassesNode(parentNode *CompatibilityTreeNode, item *ecdef.Schema) (node *CompatibilityTreeNode) {
	node = newNode(parentNode, NodeNameClasses, nil)
	for _, c := range item.Classes() {
		node.Props = append(node.Props, buildClassNode(node, c))
	}
	return
}

func buildClassNode(parentNode *CompatibilityTreeNode, item *ecdef.Class) (node *CompatibilityTreeNode) {
	node = newNode(parentNode, item.Name(), nil)
	node.Props = append(node.Props,
		newNode(node, NodeNameKind, item.Kind().String()),
		newNode(node, NodeNameModifier, modifierValue(item)),
		buildBaseClassesNode(node, item),
		buildPropertiesNode(node, item),
	)
	if item.IsRelationship() {
		node.Props = append(node.Props,
			buildConstraintNode(node, item.Source(), NodeNameSource),
			buildConstraintNode(node, item.Target(), NodeNameTarget),
		)
	}
	return
}

// Abstract class may become concrete, other modifier changes are not compatible
func modifierValue(item *ecdef.Class) string {
	if item.IsAbstract() {
		return ecdef.ClassModifier_None.String()
	}
	return item.Modifier().String()
}

func buildBaseClassesNode(parentNode *CompatibilityTreeNode, item *ecdef.Class) (node *CompatibilityTreeNode) {
	node = newNode(parentNode, NodeNameBaseClasses, nil)
	for _, b := range item.BaseClasses() {
		node.Props = append(node.Props, newNode(node, b.QName().String(), nil))
	}
	return
}

func buildPropertiesNode(parentNode *CompatibilityTreeNode, item *ecdef.Class) (node *CompatibilityTreeNode) {
	node = newNode(parentNode, NodeNameProperties, nil)
	for _, p := range item.Properties() {
		node.Props = append(node.Props, newNode(node, p.Name(), propertyValue(p)))
	}
	return
}

// Returns property kind with type: primitive type, enumeration, struct class or relationship
func propertyValue(p *ecdef.Property) string {
	v := p.Kind().String()
	switch p.Kind() {
	case ecdef.PropertyKind_Primitive, ecdef.PropertyKind_PrimitiveArray:
		v += " " + p.PrimitiveType().String()
	case ecdef.PropertyKind_Enumeration:
		v += " " + p.Enumeration().QName().String()
	case ecdef.PropertyKind_Struct, ecdef.PropertyKind_StructArray:
		v += " " + p.StructClass().QName().String()
	case ecdef.PropertyKind_Navigation:
		v += " " + p.Relationship().QName().String() + " " + p.Direction().String()
	}
	return v
}

func buildConstraintNode(parentNode *CompatibilityTreeNode, item *ecdef.RelationshipConstraint, name string) (node *CompatibilityTreeNode) {
	node = newNode(parentNode, name, nil)
	if item == nil {
		return
	}
	for _, c := range item.Classes() {
		node.Props = append(node.Props, newNode(node, c.QName().String(), nil))
	}
	return
}

func compareNodes(oldNode, newNode *CompatibilityTreeNode, constraints []NodeConstraint) (cerrs []CompatibilityError) {
	if !cmp.Equal(oldNode.Value, newNode.Value) {
		cerrs = append(cerrs, newCompatibilityError(ConstraintValueMatch, oldNode.Path(), ErrorTypeValueChanged))
	}
	m := matchNodes(oldNode.Props, newNode.Props)
	cerrs = append(cerrs, checkConstraint(oldNode.Path(), m, findConstraint(oldNode.Name, constraints))...)
	for _, pair := range m.MatchedNodePairs {
		cerrs = append(cerrs, compareNodes(pair[0], pair[1], constraints)...)
	}
	return
}

func findConstraint(nodeName string, constraints []NodeConstraint) (constraint Constraint) {
	constraint = ConstraintAllAllowed
	for _, c := range constraints {
		if c.NodeName == nodeName {
			return c.Constraint
		}
	}
	return
}

func checkConstraint(oldTreePath []string, m *matchNodesResult, constraint Constraint) (cerrs []CompatibilityError) {
	if constraint == ConstraintAllAllowed {
		return
	}
	if len(m.DeletedNodeNames) == 0 && m.InsertedNodeCount > 0 {
		if constraint == ConstraintNonModifiable || constraint&ConstraintAppendOnly > 0 {
			errorType := ErrorTypeNodeInserted
			if constraint == ConstraintNonModifiable {
				errorType = ErrorTypeNodeModified
			}
			cerrs = append(cerrs, newCompatibilityError(constraint, oldTreePath, errorType))
		}
	}

	if constraint == ConstraintNonModifiable {
		if m.AppendedNodeCount > 0 {
			cerrs = append(cerrs, newCompatibilityError(constraint, oldTreePath, ErrorTypeNodeModified))
		}
	}

	if len(m.DeletedNodeNames) > 0 {
		if constraint == ConstraintNonModifiable || constraint&ConstraintAppendOnly > 0 || constraint&ConstraintInsertOnly > 0 {
			errorType := ErrorTypeNodeRemoved
			if constraint == ConstraintNonModifiable {
				errorType = ErrorTypeNodeModified
			}
			for _, deleted := range m.DeletedNodeNames {
				path := make([]string, len(oldTreePath), len(oldTreePath)+1)
				copy(path, oldTreePath)
				cerrs = append(cerrs, newCompatibilityError(constraint, append(path, deleted), errorType))
			}
		}
	}

	if constraint&ConstraintOrderChangeOnly == 0 {
		if len(m.ReorderedNodeNames) > 0 && len(m.DeletedNodeNames) == 0 {
			if constraint == ConstraintNonModifiable || constraint&ConstraintAppendOnly > 0 {
				errorType := ErrorTypeOrderChanged
				if constraint == ConstraintNonModifiable {
					errorType = ErrorTypeNodeModified
				}
				for _, reordered := range m.ReorderedNodeNames {
					path := make([]string, len(oldTreePath), len(oldTreePath)+1)
					copy(path, oldTreePath)
					cerrs = append(cerrs, newCompatibilityError(constraint, append(path, reordered), errorType))
				}
			}
		}
	}

	if constraint&ConstraintOrderChangeOnly > 0 {
		if m.AppendedNodeCount > 0 || len(m.DeletedNodeNames) > 0 || m.InsertedNodeCount > 0 {
			cerrs = append(cerrs, newCompatibilityError(constraint, oldTreePath, ErrorTypeNodeModified))
		}
	}

	return
}

func findNodeByName(nodes []*CompatibilityTreeNode, name string) (foundNode *CompatibilityTreeNode, index int) {
	index = slices.IndexFunc(nodes, func(n *CompatibilityTreeNode) bool { return n.Name == name })
	if index >= 0 {
		foundNode = nodes[index]
	}
	return
}

// matchNodes matches nodes in two CompatibilityTreeNode slices and categorizes them.
func matchNodes(oldNodes, newNodes []*CompatibilityTreeNode) *matchNodesResult {
	result := &matchNodesResult{
		DeletedNodeNames:   []string{},
		MatchedNodePairs:   [][2]*CompatibilityTreeNode{},
		ReorderedNodeNames: []string{},
	}

	for i, oldNode := range oldNodes {
		newNode, index := findNodeByName(newNodes, oldNode.Name)
		if newNode == nil {
			result.DeletedNodeNames = append(result.DeletedNodeNames, oldNode.Name)
			continue
		}
		if i != index {
			result.ReorderedNodeNames = append(result.ReorderedNodeNames, newNode.Name)
		}
		result.MatchedNodePairs = append(result.MatchedNodePairs, [2]*CompatibilityTreeNode{oldNode, newNode})
	}

	for i, newNode := range newNodes {
		if oldNode, _ := findNodeByName(oldNodes, newNode.Name); oldNode == nil {
			if i > len(oldNodes)-1 {
				result.AppendedNodeCount++
			} else {
				result.InsertedNodeCount++
			}
		}
	}
	return result
}
