// Package documents provides the on-device replica of encrypted documents.
//
// # Overview
//
// Repository stores models.EncryptedDocument values keyed by document id.
// Two implementations are available:
//
//   - SQLiteRepository over a dbx.DBTX (either *sql.DB or *sql.Tx), using
//     the schema from internal/client/migrations.
//   - BadgerRepository over an embedded Badger database, with values encoded
//     as msgpack.
//
// Plaintext never reaches this package; only ciphertext and the two
// replica timestamps are stored.
//
// Typical Usage
//
//	repo := documents.NewSQLiteRepository(db)
//	_ = repo.Set(ctx, &enc)
//	doc, err := repo.Get(ctx, id)
//	if errors.Is(err, common.ErrorNotFound) { ... }
package documents
