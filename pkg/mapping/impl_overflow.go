/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package mapping

import (
	"fmt"
	"strings"

	"github.com/voedger/schemacat/pkg/datatransform"
	"github.com/voedger/schemacat/pkg/dbmap"
)

// Records data transform, which adds overflow rows for existing instances of classes,
// which got columns in overflow tables
func (m *mapper) recordOverflowSweep(tr *datatransform.Transform) {
	for _, ovf := range m.overflows {
		primary := ovf
		for primary.Parent() != nil {
			primary = primary.Parent()
		}
		var ids []string
		for _, cm := range m.order {
			if containsTable(cm.Tables(), ovf) {
				ids = append(ids, fmt.Sprint(cm.Class().ID()))
			}
		}
		if len(ids) == 0 {
			continue // notest
		}
		sql := fmt.Sprintf(`INSERT INTO "%[1]s" ("%[3]s") SELECT p."%[3]s" FROM "%[2]s" p WHERE p."%[4]s" IN (%[5]s) AND p."%[3]s" NOT IN (SELECT "%[3]s" FROM "%[1]s")`,
			ovf.Name(), primary.Name(), dbmap.ColumnId, dbmap.ColumnClassId, strings.Join(ids, ","))
		tr.Append(fmt.Sprintf(overflowSweepStep, ovf.Name()), sql)
	}
}
