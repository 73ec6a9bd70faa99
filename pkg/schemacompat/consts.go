/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package schemacompat

const (
	validationErrorFmt = "%s: %s"
	pathDelimiter      = ". "
)

const (
	NodeNameSchema      = "Schema"
	NodeNameClasses     = "Classes"
	NodeNameKind        = "Kind"
	NodeNameModifier    = "Modifier"
	NodeNameBaseClasses = "BaseClasses"
	NodeNameProperties  = "Properties"
	NodeNameSource      = "Source"
	NodeNameTarget      = "Target"
	NodeNameEnums       = "Enumerations"
	NodeNameEnumerators = "Enumerators"
)

const (
	ConstraintAllAllowed Constraint = 0
	// Nodes may be appended to the end only
	ConstraintAppendOnly Constraint = 1 << iota
	// Nodes may be inserted at any position
	ConstraintInsertOnly
	// Nodes may be reordered only
	ConstraintOrderChangeOnly
	// Nodes may not be changed at all
	ConstraintNonModifiable
	// Node values must match
	ConstraintValueMatch
)

const (
	ErrorTypeNodeRemoved  ErrorType = "NodeRemoved"
	ErrorTypeOrderChanged ErrorType = "OrderChanged"
	ErrorTypeNodeInserted ErrorType = "NodeInserted"
	ErrorTypeNodeModified ErrorType = "NodeModified"
	ErrorTypeValueChanged ErrorType = "ValueChanged"
)

var constraints = []NodeConstraint{
	{NodeNameClasses, ConstraintInsertOnly},
	{NodeNameProperties, ConstraintInsertOnly},
	{NodeNameBaseClasses, ConstraintNonModifiable},
	{NodeNameSource, ConstraintInsertOnly},
	{NodeNameTarget, ConstraintInsertOnly},
	{NodeNameEnums, ConstraintInsertOnly},
	{NodeNameEnumerators, ConstraintInsertOnly},
}
