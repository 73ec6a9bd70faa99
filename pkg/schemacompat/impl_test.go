/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package schemacompat

import (
	"embed"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voedger/schemacat/pkg/ecdef"
)

//go:embed testdata/*.yaml
var testdataFS embed.FS

func readSchema(t *testing.T, file string) *ecdef.Schema {
	f, err := testdataFS.Open(file)
	require.NoError(t, err)
	defer f.Close()
	schemas, err := ecdef.ReadSchemasYAML(f)
	require.NoError(t, err)
	require.Len(t, schemas, 1)
	return schemas[0]
}

func Test_Basic(t *testing.T) {
	require := require.New(t)

	oldSchema := readSchema(t, "testdata/old.yaml")
	newSchema := readSchema(t, "testdata/new.yaml")

	type pathError struct {
		path    string
		errType ErrorType
	}
	actual := func(cerrs *CompatibilityErrors) []pathError {
		res := []pathError{}
		for _, e := range cerrs.Errors {
			res = append(res, pathError{e.Path(), e.ErrorType})
		}
		return res
	}

	t.Run("CheckBackwardCompatibility", func(t *testing.T) {
		cerrs := CheckBackwardCompatibility(oldSchema, newSchema)
		require.ElementsMatch([]pathError{
			{"Schema. Enumerations. Status. Enumerators. Retired", ErrorTypeNodeRemoved},
			{"Schema. Classes. Housing", ErrorTypeNodeRemoved},
			{"Schema. Classes. Pump. Properties. Flow", ErrorTypeNodeRemoved},
			{"Schema. Classes. Pump. Properties. Power", ErrorTypeValueChanged},
			{"Schema. Classes. Valve. BaseClasses", ErrorTypeNodeModified},
			{"Schema. Classes. Motor. Kind", ErrorTypeValueChanged},
			{"Schema. Classes. PumpInHousing. Target. Plant.Housing", ErrorTypeNodeRemoved},
		}, actual(cerrs))
		require.Error(cerrs.AsError())
		require.Contains(cerrs.Error(), "NodeRemoved: Schema. Classes. Housing")
	})

	t.Run("IgnoreCompatibilityErrors", func(t *testing.T) {
		cerrs := CheckBackwardCompatibility(oldSchema, newSchema)
		cerrs = IgnoreCompatibilityErrors(cerrs, [][]string{
			{"Schema", "Classes", "Housing"},
			{"Schema", "Classes", "PumpInHousing", "Target", "Plant.Housing"},
			{"Schema", "Classes", "Motor", "Kind"},
		})
		require.Len(cerrs.Errors, 4)
		for _, e := range cerrs.Errors {
			require.NotContains(e.Path(), "Housing")
		}
	})

	t.Run("must be no errors for the same schema", func(t *testing.T) {
		require.NoError(CheckBackwardCompatibility(oldSchema, oldSchema).AsError())
		require.NoError(CheckBackwardCompatibility(newSchema, newSchema).AsError())
	})

	t.Run("must be ok to make abstract class concrete and to insert properties", func(t *testing.T) {
		for _, e := range CheckBackwardCompatibility(oldSchema, newSchema).Errors {
			require.NotContains(e.Path(), "Element")
			require.NotContains(e.Path(), "Casing")
		}
	})
}

func Test_CompareNodes(t *testing.T) {
	require := require.New(t)

	node := func(name string, value interface{}, props ...*CompatibilityTreeNode) *CompatibilityTreeNode {
		n := newNode(nil, name, value)
		for _, p := range props {
			p.ParentNode = n
			n.Props = append(n.Props, p)
		}
		return n
	}

	t.Run("must be reported reordering for append-only nodes", func(t *testing.T) {
		c := []NodeConstraint{{"Root", ConstraintAppendOnly}}
		oldNode := node("Root", nil, node("a", 1), node("b", 2))
		newNode := node("Root", nil, node("b", 2), node("a", 1), node("c", 3))
		cerrs := compareNodes(oldNode, newNode, c)
		require.Len(cerrs, 2)
		for _, e := range cerrs {
			require.Equal(ErrorTypeOrderChanged, e.ErrorType)
		}
	})

	t.Run("must be reported insertion for append-only nodes", func(t *testing.T) {
		c := []NodeConstraint{{"Root", ConstraintAppendOnly}}
		oldNode := node("Root", nil, node("a", 1), node("b", 2))
		newNode := node("Root", nil, node("a", 1), node("x", 0), node("b", 2))
		cerrs := compareNodes(oldNode, newNode, c)
		require.Contains(cerrs, newCompatibilityError(ConstraintAppendOnly, []string{"Root"}, ErrorTypeNodeInserted))
	})

	t.Run("must be allowed anything without constraint", func(t *testing.T) {
		oldNode := node("Root", nil, node("a", 1), node("b", 2))
		newNode := node("Root", nil, node("c", 1))
		require.Empty(compareNodes(oldNode, newNode, nil))
	})
}
