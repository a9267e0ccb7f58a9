// Package generation defines the contract with the external text-generation
// service used for scheduling. It builds the scheduling request from a batch
// of pending tasks, declares the Generator boundary implemented by the
// Gemini adapter, and extracts validated block proposals from the
// semi-structured text the service returns.
package generation
