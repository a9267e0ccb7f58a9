// Package store defines the persistence interfaces for users and tasks.
// The scheduling and import pipelines only ever touch durable state through
// these interfaces, which keeps them independent of the database in use.
package store
