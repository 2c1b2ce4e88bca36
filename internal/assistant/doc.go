// Package assistant implements the AI health assistant chat. It talks to an
// OpenAI-compatible chat completion endpoint and post-processes replies for
// in-app navigation hints: the model is instructed to emit [navigate:doctors]
// or [navigate:sos] tokens, which are stripped from the visible text and
// surfaced as structured targets.
package assistant
