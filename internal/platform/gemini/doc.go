// Package gemini provides an implementation of the generation.Generator
// interface backed by Google's Gemini API.
//
// It is an infrastructure adapter: the scheduling core hands it a
// generation.RequestPayload and receives the raw reply text, without seeing
// any genai types.
//
// Error handling:
//   - API call failures are transient and retried with exponential backoff
//     and jitter (github.com/sethvargo/go-retry), up to llm.max_retries times
//   - safety blocks map to generation.ErrContentBlocked and are not retried
//   - replies without text map to generation.ErrInvalidResponse and are not retried
package gemini
