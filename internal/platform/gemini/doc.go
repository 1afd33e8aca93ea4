// Package gemini implements the generation.Generator interface on top
// of Google's Gemini API. It turns a student's pasted notes into
// question/answer review items, with retry and backoff around the API
// call and strict validation of the model's JSON output.
package gemini
