/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package ecdef

import (
	"fmt"
	"strconv"
	"strings"
)

// Schema version triple
type SchemaVersion struct {
	Read  uint32
	Write uint32
	Minor uint32
}

func NewSchemaVersion(read, write, minor uint32) SchemaVersion {
	return SchemaVersion{Read: read, Write: write, Minor: minor}
}

// Parses version from "RR.WW.mm" or "RR.mm" string representation
func ParseSchemaVersion(s string) (v SchemaVersion, err error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 2 && len(parts) != 3 {
		return v, ErrConvert("schema version «%s»", s)
	}
	nums := make([]uint32, 3)
	for i, p := range parts {
		n, e := strconv.ParseUint(p, 10, 32)
		if e != nil {
			return v, ErrConvert("schema version «%s»: %v", s, e)
		}
		nums[i] = uint32(n)
	}
	if len(parts) == 2 {
		// RR.mm
		nums[2], nums[1] = nums[1], 0
	}
	return NewSchemaVersion(nums[0], nums[1], nums[2]), nil
}

// Parses version from string.
//
// # Panics:
//   - if string is not valid version
func MustParseSchemaVersion(s string) SchemaVersion {
	v, err := ParseSchemaVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (v SchemaVersion) String() string {
	return fmt.Sprintf("%02d.%02d.%02d", v.Read, v.Write, v.Minor)
}

// Returns -1, 0 or +1
func (v SchemaVersion) Compare(other SchemaVersion) int {
	cmp := func(a, b uint32) int {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	}
	if c := cmp(v.Read, other.Read); c != 0 {
		return c
	}
	if c := cmp(v.Write, other.Write); c != 0 {
		return c
	}
	return cmp(v.Minor, other.Minor)
}

func (v SchemaVersion) IsZero() bool { return v == SchemaVersion{} }

// Schema identity: name and version
type SchemaKey struct {
	Name    string
	Version SchemaVersion
}

func NewSchemaKey(name string, version SchemaVersion) SchemaKey {
	return SchemaKey{Name: name, Version: version}
}

func (k SchemaKey) String() string {
	if k.Version.IsZero() {
		return k.Name
	}
	return k.Name + "." + k.Version.String()
}

// How a candidate schema key is matched against a desired key
type SchemaMatchType uint8

const (
	// Name and full version are equal
	SchemaMatch_Exact SchemaMatchType = iota

	// Name, read and write versions are equal; candidate minor version is not less
	SchemaMatch_LatestWriteCompatible

	// Name and read version are equal; candidate write.minor version is not less
	SchemaMatch_LatestReadCompatible

	// Name is equal, any version
	SchemaMatch_Latest
)

// Returns is candidate key matches desired key
func (k SchemaKey) Matches(candidate SchemaKey, match SchemaMatchType) bool {
	if !strings.EqualFold(k.Name, candidate.Name) {
		return false
	}
	want, got := k.Version, candidate.Version
	switch match {
	case SchemaMatch_Exact:
		return want == got
	case SchemaMatch_LatestWriteCompatible:
		return want.Read == got.Read && want.Write == got.Write && got.Minor >= want.Minor
	case SchemaMatch_LatestReadCompatible:
		if want.Read != got.Read {
			return false
		}
		return got.Write > want.Write || (got.Write == want.Write && got.Minor >= want.Minor)
	case SchemaMatch_Latest:
		return true
	}
	return false
}
