/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package ecmeta

import (
	"github.com/voedger/schemacat/pkg/ecdef"
)

type SchemaRecord struct {
	ID           ecdef.ID `gorm:"column:Id;primaryKey;autoIncrement:false"`
	Name         string   `gorm:"column:Name;not null;uniqueIndex:ix_ec_Schema_Name"`
	Alias        string   `gorm:"column:Alias;not null;uniqueIndex:ix_ec_Schema_Alias"`
	Description  string   `gorm:"column:Description"`
	VersionRead  uint32   `gorm:"column:VersionDigit1;not null"`
	VersionWrite uint32   `gorm:"column:VersionDigit2;not null"`
	VersionMinor uint32   `gorm:"column:VersionDigit3;not null"`
}

func (SchemaRecord) TableName() string { return TableSchema }

func (r SchemaRecord) Version() ecdef.SchemaVersion {
	return ecdef.NewSchemaVersion(r.VersionRead, r.VersionWrite, r.VersionMinor)
}

type SchemaReferenceRecord struct {
	SchemaID           ecdef.ID `gorm:"column:SchemaId;primaryKey;autoIncrement:false"`
	ReferencedSchemaID ecdef.ID `gorm:"column:ReferencedSchemaId;primaryKey;autoIncrement:false;index:ix_ec_SchemaReference_Referenced"`
	Ordinal            int      `gorm:"column:Ordinal;not null"`
}

func (SchemaReferenceRecord) TableName() string { return TableSchemaReference }

type ClassRecord struct {
	ID          ecdef.ID            `gorm:"column:Id;primaryKey;autoIncrement:false"`
	SchemaID    ecdef.ID            `gorm:"column:SchemaId;not null;uniqueIndex:ix_ec_Class_SchemaId_Name"`
	Name        string              `gorm:"column:Name;not null;uniqueIndex:ix_ec_Class_SchemaId_Name"`
	Description string              `gorm:"column:Description"`
	Kind        ecdef.ClassKind     `gorm:"column:Type;not null"`
	Modifier    ecdef.ClassModifier `gorm:"column:Modifier;not null"`
	Strength    ecdef.Strength      `gorm:"column:RelationshipStrength;not null"`
}

func (ClassRecord) TableName() string { return TableClass }

type ClassHasBaseClassesRecord struct {
	ClassID     ecdef.ID `gorm:"column:ClassId;primaryKey;autoIncrement:false"`
	BaseClassID ecdef.ID `gorm:"column:BaseClassId;primaryKey;autoIncrement:false;index:ix_ec_ClassHasBaseClasses_BaseClassId"`
	Ordinal     int      `gorm:"column:Ordinal;not null"`
}

func (ClassHasBaseClassesRecord) TableName() string { return TableClassHasBaseClasses }

type PropertyRecord struct {
	ID             ecdef.ID            `gorm:"column:Id;primaryKey;autoIncrement:false"`
	ClassID        ecdef.ID            `gorm:"column:ClassId;not null;uniqueIndex:ix_ec_Property_ClassId_Name"`
	Name           string              `gorm:"column:Name;not null;uniqueIndex:ix_ec_Property_ClassId_Name"`
	Description    string              `gorm:"column:Description"`
	Ordinal        int                 `gorm:"column:Ordinal;not null"`
	Kind           ecdef.PropertyKind  `gorm:"column:Kind;not null"`
	PrimitiveType  ecdef.PrimitiveType `gorm:"column:PrimitiveType;not null"`
	EnumerationID  ecdef.ID            `gorm:"column:EnumerationId"`
	StructClassID  ecdef.ID            `gorm:"column:StructClassId"`
	RelationshipID ecdef.ID            `gorm:"column:NavigationRelationshipClassId"`
	Direction      ecdef.Direction     `gorm:"column:NavigationDirection;not null"`
	CategoryID     ecdef.ID            `gorm:"column:CategoryId"`
	UnitID         ecdef.ID            `gorm:"column:UnitId"`
	ReadOnly       bool                `gorm:"column:IsReadonly;not null"`
	MinOccurs      uint32              `gorm:"column:ArrayMinOccurs;not null"`
	MaxOccurs      uint32              `gorm:"column:ArrayMaxOccurs;not null"`
}

func (PropertyRecord) TableName() string { return TableProperty }

type RelationshipConstraintRecord struct {
	ID                  ecdef.ID              `gorm:"column:Id;primaryKey;autoIncrement:false"`
	RelationshipClassID ecdef.ID              `gorm:"column:RelationshipClassId;not null;uniqueIndex:ix_ec_RelationshipConstraint_End"`
	End                 ecdef.RelationshipEnd `gorm:"column:RelationshipEnd;not null;uniqueIndex:ix_ec_RelationshipConstraint_End"`
	MultiplicityLower   uint32                `gorm:"column:MultiplicityLowerLimit;not null"`
	MultiplicityUpper   uint32                `gorm:"column:MultiplicityUpperLimit;not null"`
	Polymorphic         bool                  `gorm:"column:IsPolymorphic;not null"`
	RoleLabel           string                `gorm:"column:RoleLabel"`
}

func (RelationshipConstraintRecord) TableName() string { return TableRelationshipConstraint }

type RelationshipConstraintClassRecord struct {
	ConstraintID ecdef.ID `gorm:"column:ConstraintId;primaryKey;autoIncrement:false"`
	ClassID      ecdef.ID `gorm:"column:ClassId;primaryKey;autoIncrement:false;index:ix_ec_RelationshipConstraintClass_ClassId"`
	Ordinal      int      `gorm:"column:Ordinal;not null"`
}

func (RelationshipConstraintClassRecord) TableName() string { return TableRelationshipConstraintClass }

type EnumerationRecord struct {
	ID          ecdef.ID            `gorm:"column:Id;primaryKey;autoIncrement:false"`
	SchemaID    ecdef.ID            `gorm:"column:SchemaId;not null;uniqueIndex:ix_ec_Enumeration_SchemaId_Name"`
	Name        string              `gorm:"column:Name;not null;uniqueIndex:ix_ec_Enumeration_SchemaId_Name"`
	Type        ecdef.PrimitiveType `gorm:"column:UnderlyingPrimitiveType;not null"`
	Strict      bool                `gorm:"column:IsStrict;not null"`
	Enumerators []ecdef.Enumerator  `gorm:"column:EnumValues;serializer:json"`
}

func (EnumerationRecord) TableName() string { return TableEnumeration }

type UnitRecord struct {
	ID         ecdef.ID `gorm:"column:Id;primaryKey;autoIncrement:false"`
	SchemaID   ecdef.ID `gorm:"column:SchemaId;not null;uniqueIndex:ix_ec_Unit_SchemaId_Name"`
	Name       string   `gorm:"column:Name;not null;uniqueIndex:ix_ec_Unit_SchemaId_Name"`
	Definition string   `gorm:"column:Definition"`
}

func (UnitRecord) TableName() string { return TableUnit }

type FormatRecord struct {
	ID       ecdef.ID `gorm:"column:Id;primaryKey;autoIncrement:false"`
	SchemaID ecdef.ID `gorm:"column:SchemaId;not null;uniqueIndex:ix_ec_Format_SchemaId_Name"`
	Name     string   `gorm:"column:Name;not null;uniqueIndex:ix_ec_Format_SchemaId_Name"`
	Spec     string   `gorm:"column:NumericSpec"`
}

func (FormatRecord) TableName() string { return TableFormat }

type PropertyCategoryRecord struct {
	ID       ecdef.ID `gorm:"column:Id;primaryKey;autoIncrement:false"`
	SchemaID ecdef.ID `gorm:"column:SchemaId;not null;uniqueIndex:ix_ec_PropertyCategory_SchemaId_Name"`
	Name     string   `gorm:"column:Name;not null;uniqueIndex:ix_ec_PropertyCategory_SchemaId_Name"`
	Priority int      `gorm:"column:Priority;not null"`
}

func (PropertyCategoryRecord) TableName() string { return TablePropertyCategory }

type CustomAttributeRecord struct {
	ContainerID   ecdef.ID       `gorm:"column:ContainerId;primaryKey;autoIncrement:false"`
	ContainerType ContainerType  `gorm:"column:ContainerType;primaryKey;autoIncrement:false"`
	Class         string         `gorm:"column:Class;primaryKey"`
	Ordinal       int            `gorm:"column:Ordinal;not null"`
	Values        map[string]any `gorm:"column:Instance;serializer:json"`
}

func (CustomAttributeRecord) TableName() string { return TableCustomAttribute }

// Persisted class map
type ClassMapRecord struct {
	ClassID                      ecdef.ID `gorm:"column:ClassId;primaryKey;autoIncrement:false"`
	Strategy                     uint8    `gorm:"column:MapStrategy;not null"`
	ShareColumns                 bool     `gorm:"column:ShareColumns;not null"`
	MaxSharedColumns             int      `gorm:"column:MaxSharedColumnsBeforeOverflow;not null"`
	JoinedTablePerDirectSubclass bool     `gorm:"column:JoinedTablePerDirectSubclass;not null"`
	IsTphRoot                    bool     `gorm:"column:IsTphRoot;not null"`
}

func (ClassMapRecord) TableName() string { return TableClassMap }

type PropertyPathRecord struct {
	ID             ecdef.ID `gorm:"column:Id;primaryKey;autoIncrement:false"`
	RootPropertyID ecdef.ID `gorm:"column:RootPropertyId;not null;uniqueIndex:ix_ec_PropertyPath_Root_Access"`
	AccessString   string   `gorm:"column:AccessString;not null;uniqueIndex:ix_ec_PropertyPath_Root_Access"`
}

func (PropertyPathRecord) TableName() string { return TablePropertyPath }

type PropertyMapRecord struct {
	ClassID        ecdef.ID `gorm:"column:ClassId;primaryKey;autoIncrement:false"`
	PropertyPathID ecdef.ID `gorm:"column:PropertyPathId;primaryKey;autoIncrement:false"`
	ColumnID       ecdef.ID `gorm:"column:ColumnId;primaryKey;autoIncrement:false;index:ix_ec_PropertyMap_ColumnId"`
}

func (PropertyMapRecord) TableName() string { return TablePropertyMap }

type TableRecord struct {
	ID                   ecdef.ID `gorm:"column:Id;primaryKey;autoIncrement:false"`
	Name                 string   `gorm:"column:Name;not null;uniqueIndex:ix_ec_Table_Name"`
	Type                 uint8    `gorm:"column:Type;not null"`
	ParentTableID        ecdef.ID `gorm:"column:ParentTableId;index:ix_ec_Table_ParentTableId"`
	ExclusiveRootClassID ecdef.ID `gorm:"column:ExclusiveRootClassId"`
}

func (TableRecord) TableName() string { return TableTable }

type ColumnRecord struct {
	ID            ecdef.ID            `gorm:"column:Id;primaryKey;autoIncrement:false"`
	TableID       ecdef.ID            `gorm:"column:TableId;not null;uniqueIndex:ix_ec_Column_TableId_Name"`
	Name          string              `gorm:"column:Name;not null;uniqueIndex:ix_ec_Column_TableId_Name"`
	Type          ecdef.PrimitiveType `gorm:"column:Type;not null"`
	Kind          uint8               `gorm:"column:ColumnKind;not null"`
	IsVirtual     bool                `gorm:"column:IsVirtual;not null"`
	Ordinal       int                 `gorm:"column:Ordinal;not null"`
	NotNull       bool                `gorm:"column:NotNullConstraint;not null"`
	Unique        bool                `gorm:"column:UniqueConstraint;not null"`
	PrimaryKeyOrd int                 `gorm:"column:PrimaryKeyOrdinal;not null"`
}

func (ColumnRecord) TableName() string { return TableColumn }

type IndexRecord struct {
	ID              ecdef.ID `gorm:"column:Id;primaryKey;autoIncrement:false"`
	Name            string   `gorm:"column:Name;not null;uniqueIndex:ix_ec_Index_Name"`
	TableID         ecdef.ID `gorm:"column:TableId;not null;index:ix_ec_Index_TableId"`
	ClassID         ecdef.ID `gorm:"column:ClassId;not null;index:ix_ec_Index_ClassId"`
	IsUnique        bool     `gorm:"column:IsUnique;not null"`
	NotNullWhere    bool     `gorm:"column:AddNotNullWhereExp;not null"`
	IsAutoGenerated bool     `gorm:"column:IsAutoGenerated;not null"`
	Where           string   `gorm:"column:WhereClause"`
}

func (IndexRecord) TableName() string { return TableIndex }

type IndexColumnRecord struct {
	IndexID  ecdef.ID `gorm:"column:IndexId;primaryKey;autoIncrement:false"`
	ColumnID ecdef.ID `gorm:"column:ColumnId;primaryKey;autoIncrement:false;index:ix_ec_IndexColumn_ColumnId"`
	Ordinal  int      `gorm:"column:Ordinal;not null"`
}

func (IndexColumnRecord) TableName() string { return TableIndexColumn }

// Local key/value record
type LocalRecord struct {
	Name  string `gorm:"column:Name;primaryKey"`
	Value string `gorm:"column:Val"`
}

func (LocalRecord) TableName() string { return TableLocal }

func allModels() []any {
	return []any{
		&SchemaRecord{}, &SchemaReferenceRecord{}, &ClassRecord{}, &ClassHasBaseClassesRecord{},
		&PropertyRecord{}, &RelationshipConstraintRecord{}, &RelationshipConstraintClassRecord{},
		&EnumerationRecord{}, &UnitRecord{}, &FormatRecord{}, &PropertyCategoryRecord{},
		&CustomAttributeRecord{}, &ClassMapRecord{}, &PropertyPathRecord{}, &PropertyMapRecord{},
		&TableRecord{}, &ColumnRecord{}, &IndexRecord{}, &IndexColumnRecord{}, &LocalRecord{},
	}
}
