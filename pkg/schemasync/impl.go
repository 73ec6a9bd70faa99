/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package schemasync

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/untillpro/goutils/logger"
	bolt "go.etcd.io/bbolt"

	"github.com/voedger/schemacat/pkg/ecdef"
	"github.com/voedger/schemacat/pkg/ecmeta"
	"github.com/voedger/schemacat/pkg/sqlstore"
)

func (s *synchronizer) LocalInfo(ctx context.Context) (info LocalInfo, ok bool, err error) {
	v, ok, err := ecmeta.NewReader(s.store, sqlstore.MainTableSpace).Local(ctx, ecmeta.LocalSyncInfo)
	if err != nil || !ok {
		return info, false, err
	}
	if err := json.Unmarshal([]byte(v), &info); err != nil {
		return info, false, fmt.Errorf("local sync info «%s»: %w", v, err)
	}
	return info, true, nil
}

func (s *synchronizer) IsDisabled(ctx context.Context) (bool, error) {
	_, ok, err := s.LocalInfo(ctx)
	return !ok, err
}

func (s *synchronizer) Init(ctx context.Context, location string) error {
	if location == "" {
		return ErrSyncLocationRequired
	}
	info, ok, err := s.LocalInfo(ctx)
	if err != nil {
		return err
	}
	if ok {
		if sameLocation(info.Location, location) {
			return nil
		}
		return fmt.Errorf("%w: established «%s», requested «%s»", ErrSyncLocationMismatch, info.Location, location)
	}
	if s.store.ReadOnly() {
		return sqlstore.ErrReadOnly
	}

	db, err := bolt.Open(location, fileMode, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return fmt.Errorf("%w: «%s»: %w", ErrSyncLocationUnreachable, location, err)
	}
	defer db.Close()

	err = db.Update(func(tx *bolt.Tx) error {
		meta, err := tx.CreateBucketIfNotExists([]byte(metaBucketName))
		if err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(schemasBucketName)); err != nil {
			return err
		}
		if id := meta.Get([]byte(syncIDKey)); id != nil {
			info.SyncID = string(id)
			return nil
		}
		info.SyncID = uuid.NewString()
		return meta.Put([]byte(syncIDKey), []byte(info.SyncID))
	})
	if err != nil {
		return fmt.Errorf("init shared schema store «%s»: %w", location, err)
	}

	info.Location = location
	b, err := json.Marshal(&info)
	if err != nil {
		// notest
		return err
	}
	if err := ecmeta.NewWriter(s.store).SetLocal(ctx, ecmeta.LocalSyncInfo, string(b)); err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("schema sync established with «%s», sync id %s", location, info.SyncID))
	return nil
}

func (s *synchronizer) CheckLocation(ctx context.Context, location string) error {
	_, err := s.checkLocation(ctx, location)
	return err
}

// Location may be empty only if synchronization is disabled
func (s *synchronizer) checkLocation(ctx context.Context, location string) (info LocalInfo, err error) {
	info, ok, err := s.LocalInfo(ctx)
	if err != nil {
		return info, err
	}
	if !ok {
		if location != "" {
			return info, fmt.Errorf("%w: store is not synchronized, but location «%s» is requested", ErrSyncLocationMismatch, location)
		}
		return info, nil
	}
	if location == "" {
		return info, fmt.Errorf("%w: store is synchronized with «%s»", ErrSyncLocationRequired, info.Location)
	}
	if !sameLocation(info.Location, location) {
		return info, fmt.Errorf("%w: established «%s», requested «%s»", ErrSyncLocationMismatch, info.Location, location)
	}
	if _, err := os.Stat(location); err != nil {
		return info, fmt.Errorf("%w: «%s»: %w", ErrSyncLocationUnreachable, location, err)
	}
	return info, nil
}

func (s *synchronizer) Pull(ctx context.Context, location, token string, locaters ...ecdef.SchemaLocater) ([]*ecdef.Schema, error) {
	info, err := s.checkLocation(ctx, location)
	if err != nil || location == "" {
		return nil, err
	}
	if err := s.validator.Validate(token); err != nil {
		return nil, err
	}

	shared, err := readShared(location, info.SyncID)
	if err != nil {
		return nil, err
	}

	r := ecmeta.NewReader(s.store, sqlstore.MainTableSpace)
	docs := bytes.Buffer{}
	pulled := 0
	for _, sh := range shared {
		newer, err := isNewer(ctx, r, sh)
		if err != nil {
			return nil, err
		}
		if !newer {
			continue
		}
		if pulled > 0 {
			docs.WriteString("---\n")
		}
		docs.Write(sh.definition)
		pulled++
		if logger.IsVerbose() {
			logger.Verbose(fmt.Sprintf("pull schema «%s» %s from «%s»", sh.name, sh.version, location))
		}
	}
	if pulled == 0 {
		return nil, nil
	}
	schemas, err := ecdef.ReadSchemasYAML(&docs, locaters...)
	if err != nil {
		return nil, fmt.Errorf("read schemas pulled from «%s»: %w", location, err)
	}
	return schemas, nil
}

func (s *synchronizer) Push(ctx context.Context, location string, schemas []*ecdef.Schema, dropped []string) error {
	info, err := s.checkLocation(ctx, location)
	if err != nil || location == "" {
		return err
	}
	db, err := bolt.Open(location, fileMode, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return fmt.Errorf("%w: «%s»: %w", ErrSyncLocationUnreachable, location, err)
	}
	defer db.Close()

	return db.Update(func(tx *bolt.Tx) error {
		if err := checkSyncID(tx, info.SyncID); err != nil {
			return err
		}
		bucket, err := tx.CreateBucketIfNotExists([]byte(schemasBucketName))
		if err != nil {
			return err
		}
		for _, name := range dropped {
			if err := bucket.DeleteBucket([]byte(name)); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
				return err
			}
			logger.Verbose(fmt.Sprintf("push drop of schema «%s» to «%s»", name, location))
		}
		for _, sch := range schemas {
			if err := pushSchema(bucket, sch); err != nil {
				return fmt.Errorf("push schema «%s» to «%s»: %w", sch.Name(), location, err)
			}
		}
		return nil
	})
}

func pushSchema(bucket *bolt.Bucket, s *ecdef.Schema) error {
	if b := bucket.Bucket([]byte(s.Name())); b != nil {
		v, err := ecdef.ParseSchemaVersion(string(b.Get([]byte(versionKey))))
		if err == nil && v.Compare(s.Version()) >= 0 {
			return nil
		}
	}
	def, err := ecdef.MarshalSchemaYAML(s)
	if err != nil {
		return err
	}
	ord, err := bucket.NextSequence()
	if err != nil {
		// notest
		return err
	}
	b, err := bucket.CreateBucketIfNotExists([]byte(s.Name()))
	if err != nil {
		return err
	}
	ordinal := make([]byte, 8)
	binary.BigEndian.PutUint64(ordinal, ord)
	for k, v := range map[string][]byte{
		versionKey:    []byte(s.Version().String()),
		definitionKey: def,
		ordinalKey:    ordinal,
	} {
		if err := b.Put([]byte(k), v); err != nil {
			return err
		}
	}
	logger.Verbose(fmt.Sprintf("push schema «%s» %v", s.Name(), s.Version()))
	return nil
}

func readShared(location, syncID string) (res []sharedSchema, err error) {
	db, err := bolt.Open(location, fileMode, &bolt.Options{Timeout: openTimeout, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("%w: «%s»: %w", ErrSyncLocationUnreachable, location, err)
	}
	defer db.Close()

	err = db.View(func(tx *bolt.Tx) error {
		if err := checkSyncID(tx, syncID); err != nil {
			return err
		}
		bucket := tx.Bucket([]byte(schemasBucketName))
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(k, v []byte) error {
			b := bucket.Bucket(k)
			if v != nil || b == nil {
				return nil
			}
			sh := sharedSchema{
				name:       string(k),
				version:    string(b.Get([]byte(versionKey))),
				definition: bytes.Clone(b.Get([]byte(definitionKey))),
			}
			if ord := b.Get([]byte(ordinalKey)); len(ord) == 8 {
				sh.ordinal = binary.BigEndian.Uint64(ord)
			}
			res = append(res, sh)
			return nil
		})
	})
	sort.Slice(res, func(i, j int) bool { return res[i].ordinal < res[j].ordinal })
	return res, err
}

func checkSyncID(tx *bolt.Tx, syncID string) error {
	meta := tx.Bucket([]byte(metaBucketName))
	if meta == nil {
		return fmt.Errorf("%w: shared store is not initialized", ErrSyncIDMismatch)
	}
	if id := string(meta.Get([]byte(syncIDKey))); id != syncID {
		return fmt.Errorf("%w: expected %s, found %s", ErrSyncIDMismatch, syncID, id)
	}
	return nil
}

func isNewer(ctx context.Context, r *ecmeta.Reader, sh sharedSchema) (bool, error) {
	v, err := ecdef.ParseSchemaVersion(sh.version)
	if err != nil {
		return false, fmt.Errorf("shared schema «%s»: %w", sh.name, err)
	}
	rec, err := r.SchemaByName(ctx, sh.name)
	if err != nil || rec == nil {
		return err == nil, err
	}
	return v.Compare(rec.Version()) > 0, nil
}

func sameLocation(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}
