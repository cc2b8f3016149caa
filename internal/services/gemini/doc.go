// Package gemini wraps the generative AI backend behind the four gateway
// operations the workflow needs: script refinement, script analysis, and
// character/scene image synthesis. Failures are classified but never retried
// automatically; retries are always user-initiated re-invocations.
package gemini
