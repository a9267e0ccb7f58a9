// Package mocks provides centralized fakes for the store, generation, course
// and session boundaries.
//
// The stores are in-memory and safe for concurrent use, so a test can run the
// import and scheduling pipelines end to end without a database:
//
//	tasks := mocks.NewMockTaskStore()
//	gen := &mocks.MockGenerator{Response: "task_id = 1\nassigned_block_date = 2025-06-02\nassigned_block_start_time = 09:00\nassigned_block_duration = 2"}
//
// Every fake also exposes function fields so a single test can override one
// method and keep the default behaviour for the rest.
package mocks
