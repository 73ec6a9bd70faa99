/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package ecdef

// Identifier of schema, class, property and other schema items.
//
// Persisted items get identifiers from storage sequences, virtual items get
// identifiers from VirtualIDSeed upwards.
type ID uint64

// Returns is identifier assigned
func (id ID) IsValid() bool { return id != NullID }

// Returns is identifier drawn from virtual range
func (id ID) IsVirtual() bool { return id >= VirtualIDSeed }
