/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package ecmeta

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/voedger/schemacat/pkg/ecdef"
	"github.com/voedger/schemacat/pkg/sqlstore"
)

// Reads metadata records from one table space
type Reader struct {
	store sqlstore.IStore
	space string
}

func (r *Reader) TableSpace() string { return r.space }

// Returns qualified name of metadata table in reader table space
func (r *Reader) Table(name string) string { return r.space + "." + name }

func (r *Reader) db(ctx context.Context, table string) *gorm.DB {
	return r.store.Gorm(ctx).Table(r.Table(table))
}

// Returns is table space contains metadata tables
func (r *Reader) HasProfile(ctx context.Context) (bool, error) {
	return r.store.TableExists(ctx, r.space, TableSchema)
}

func findAll[T any](db *gorm.DB) ([]T, error) {
	var res []T
	if err := db.Find(&res).Error; err != nil {
		return nil, err
	}
	return res, nil
}

func findOne[T any](db *gorm.DB) (*T, error) {
	var res T
	err := db.Take(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Returns all schema records ordered by identifier
func (r *Reader) Schemas(ctx context.Context) ([]SchemaRecord, error) {
	return findAll[SchemaRecord](r.db(ctx, TableSchema).Order(`"Id"`))
}

// Returns schema record by name or alias (case insensitive). Returns nil if not found
func (r *Reader) Schema(ctx context.Context, nameOrAlias string) (*SchemaRecord, error) {
	return findOne[SchemaRecord](r.db(ctx, TableSchema).
		Where(`"Name" = ? COLLATE NOCASE OR "Alias" = ? COLLATE NOCASE`, nameOrAlias, nameOrAlias))
}

// Returns schema record by name only (case insensitive). Returns nil if not found
func (r *Reader) SchemaByName(ctx context.Context, name string) (*SchemaRecord, error) {
	return findOne[SchemaRecord](r.db(ctx, TableSchema).Where(`"Name" = ? COLLATE NOCASE`, name))
}

// Returns schema record by alias only (case insensitive). Returns nil if not found
func (r *Reader) SchemaByAlias(ctx context.Context, alias string) (*SchemaRecord, error) {
	return findOne[SchemaRecord](r.db(ctx, TableSchema).Where(`"Alias" = ? COLLATE NOCASE`, alias))
}

// Returns schema record by identifier. Returns nil if not found
func (r *Reader) SchemaByID(ctx context.Context, id ecdef.ID) (*SchemaRecord, error) {
	return findOne[SchemaRecord](r.db(ctx, TableSchema).Where(`"Id" = ?`, id))
}

// Returns identifiers of schemas referenced by schema in declaration order
func (r *Reader) SchemaReferences(ctx context.Context, schemaID ecdef.ID) ([]ecdef.ID, error) {
	recs, err := findAll[SchemaReferenceRecord](r.db(ctx, TableSchemaReference).
		Where(`"SchemaId" = ?`, schemaID).Order(`"Ordinal"`))
	if err != nil {
		return nil, err
	}
	ids := make([]ecdef.ID, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.ReferencedSchemaID)
	}
	return ids, nil
}

// Returns identifiers of schemas, which reference specified schema
func (r *Reader) ReferencingSchemas(ctx context.Context, schemaID ecdef.ID) ([]ecdef.ID, error) {
	recs, err := findAll[SchemaReferenceRecord](r.db(ctx, TableSchemaReference).
		Where(`"ReferencedSchemaId" = ?`, schemaID).Order(`"SchemaId"`))
	if err != nil {
		return nil, err
	}
	ids := make([]ecdef.ID, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.SchemaID)
	}
	return ids, nil
}

// Returns class record by schema identifier and class name (case insensitive). Returns nil if not found
func (r *Reader) Class(ctx context.Context, schemaID ecdef.ID, name string) (*ClassRecord, error) {
	return findOne[ClassRecord](r.db(ctx, TableClass).
		Where(`"SchemaId" = ? AND "Name" = ? COLLATE NOCASE`, schemaID, name))
}

// Returns class record by identifier. Returns nil if not found
func (r *Reader) ClassByID(ctx context.Context, id ecdef.ID) (*ClassRecord, error) {
	return findOne[ClassRecord](r.db(ctx, TableClass).Where(`"Id" = ?`, id))
}

// Returns class records of schema ordered by identifier
func (r *Reader) SchemaClasses(ctx context.Context, schemaID ecdef.ID) ([]ClassRecord, error) {
	return findAll[ClassRecord](r.db(ctx, TableClass).Where(`"SchemaId" = ?`, schemaID).Order(`"Id"`))
}

// Returns identifiers of classes, which directly derive from base class
func (r *Reader) DerivedClasses(ctx context.Context, baseID ecdef.ID) ([]ecdef.ID, error) {
	recs, err := findAll[ClassHasBaseClassesRecord](r.db(ctx, TableClassHasBaseClasses).
		Where(`"BaseClassId" = ?`, baseID).Order(`"ClassId"`))
	if err != nil {
		return nil, err
	}
	ids := make([]ecdef.ID, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.ClassID)
	}
	return ids, nil
}

// Returns class map record. Returns nil if class is not mapped yet
func (r *Reader) ClassMap(ctx context.Context, classID ecdef.ID) (*ClassMapRecord, error) {
	return findOne[ClassMapRecord](r.db(ctx, TableClassMap).Where(`"ClassId" = ?`, classID))
}

// Returns all class map records
func (r *Reader) ClassMaps(ctx context.Context) ([]ClassMapRecord, error) {
	return findAll[ClassMapRecord](r.db(ctx, TableClassMap).Order(`"ClassId"`))
}

// Property map joined with property path
type PropertyMapping struct {
	ClassID        ecdef.ID `gorm:"column:ClassId"`
	PropertyPathID ecdef.ID `gorm:"column:PropertyPathId"`
	RootPropertyID ecdef.ID `gorm:"column:RootPropertyId"`
	AccessString   string   `gorm:"column:AccessString"`
	ColumnID       ecdef.ID `gorm:"column:ColumnId"`
}

// Returns property mappings of class ordered by access string and column
func (r *Reader) PropertyMappings(ctx context.Context, classID ecdef.ID) ([]PropertyMapping, error) {
	var res []PropertyMapping
	err := r.store.Gorm(ctx).
		Table(r.Table(TablePropertyMap)+" pm").
		Select(`pm."ClassId", pm."PropertyPathId", pp."RootPropertyId", pp."AccessString", pm."ColumnId"`).
		Joins("JOIN "+r.Table(TablePropertyPath)+` pp ON pp."Id" = pm."PropertyPathId"`).
		Where(`pm."ClassId" = ?`, classID).
		Order(`pp."AccessString", pm."ColumnId"`).
		Scan(&res).Error
	return res, err
}

// Returns all property paths
func (r *Reader) PropertyPaths(ctx context.Context) ([]PropertyPathRecord, error) {
	return findAll[PropertyPathRecord](r.db(ctx, TablePropertyPath).Order(`"Id"`))
}

// Returns identifiers of classes, which have properties mapped to columns of table
func (r *Reader) ClassesMappedToTable(ctx context.Context, tableID ecdef.ID) ([]ecdef.ID, error) {
	var ids []ecdef.ID
	err := r.store.Gorm(ctx).
		Table(r.Table(TablePropertyMap)+" pm").
		Distinct(`pm."ClassId"`).
		Joins("JOIN "+r.Table(TableColumn)+` c ON c."Id" = pm."ColumnId"`).
		Where(`c."TableId" = ?`, tableID).
		Order(`pm."ClassId"`).
		Pluck(`pm."ClassId"`, &ids).Error
	return ids, err
}

func (r *Reader) Tables(ctx context.Context) ([]TableRecord, error) {
	return findAll[TableRecord](r.db(ctx, TableTable).Order(`"Id"`))
}

func (r *Reader) Columns(ctx context.Context) ([]ColumnRecord, error) {
	return findAll[ColumnRecord](r.db(ctx, TableColumn).Order(`"TableId", "Ordinal", "Id"`))
}

func (r *Reader) Indexes(ctx context.Context) ([]IndexRecord, error) {
	return findAll[IndexRecord](r.db(ctx, TableIndex).Order(`"Id"`))
}

func (r *Reader) IndexColumns(ctx context.Context) ([]IndexColumnRecord, error) {
	return findAll[IndexColumnRecord](r.db(ctx, TableIndexColumn).Order(`"IndexId", "Ordinal"`))
}

// Returns value of local key. Returns false if key is not exists
func (r *Reader) Local(ctx context.Context, name string) (string, bool, error) {
	rec, err := findOne[LocalRecord](r.db(ctx, TableLocal).Where(`"Name" = ?`, name))
	if err != nil || rec == nil {
		return "", false, err
	}
	return rec.Value, true, nil
}

func (r *Reader) customAttributes(ctx context.Context, ct ContainerType, ids []ecdef.ID) (map[ecdef.ID][]CustomAttributeRecord, error) {
	res := make(map[ecdef.ID][]CustomAttributeRecord)
	if len(ids) == 0 {
		return res, nil
	}
	recs, err := findAll[CustomAttributeRecord](r.db(ctx, TableCustomAttribute).
		Where(`"ContainerType" = ? AND "ContainerId" IN ?`, ct, ids).
		Order(`"ContainerId", "Ordinal"`))
	if err != nil {
		return nil, fmt.Errorf("read custom attributes: %w", err)
	}
	for _, rec := range recs {
		res[rec.ContainerID] = append(res[rec.ContainerID], rec)
	}
	return res, nil
}
