// Package store is a small document database: collections of JSON objects
// with CRUD, predicate filters and a two-stage aggregation pipeline.
//
// Three backends share one engine. The file backend keeps one JSON array
// per collection on disk, the SQL backend keeps JSON rows in a gorm table
// (postgres or sqlite) and the Mongo backend maps collections one to one.
// Mutations are serialized per collection inside a process; there is no
// coordination between processes and no atomicity across collections.
package store
